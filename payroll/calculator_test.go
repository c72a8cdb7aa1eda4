package payroll_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func d(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

// standardInput is the worked scenario: ₦500,000/month across six components.
func standardInput() payroll.CompensationInput {
	return payroll.CompensationInput{
		BasicSalary:        d(200000),
		HousingAllowance:   d(100000),
		TransportAllowance: d(75000),
		UtilityAllowance:   d(25000),
		MealAllowance:      d(25000),
		OtherAllowances:    d(75000),
		PensionEnabled:     true,
		NHFEnabled:         true,
		Period:             payroll.PeriodMonthly,
	}
}

func equal(t *testing.T, expected int64, got decimal.Decimal, label string) {
	t.Helper()
	if !got.Equal(d(expected)) {
		t.Errorf("%s: expected %d, got %v", label, expected, got)
	}
}

// =============================================================================
// FULL PAYROLL - END TO END
// =============================================================================

func TestFullPayroll_StandardScenario(t *testing.T) {
	// GIVEN: ₦500,000/month split across basic/housing/transport/utility/meal/other
	// WHEN: Running the full payslip pipeline
	// THEN: Every intermediate figure matches the hand-computed values

	result := payroll.NewDefault().FullPayroll(standardInput())

	equal(t, 6000000, result.Income.Gross, "gross annual")
	equal(t, 2400000, result.Income.Basic, "annual basic")
	equal(t, 360000, result.Reliefs.Pension, "employee pension")
	equal(t, 60000, result.Reliefs.NHF, "NHF")
	equal(t, 1400000, result.Reliefs.CRA, "CRA")
	equal(t, 1820000, result.Reliefs.Total, "total relief")
	equal(t, 4180000, result.Tax.TaxableIncome, "taxable income")
	equal(t, 795200, result.Tax.AnnualPAYE, "annual PAYE")
	equal(t, 1215200, result.Deductions.Total, "total employee deductions")
	equal(t, 4784800, result.NetAnnual, "net annual")

	// Employer side: 10% pension on 4.5m base, 1% NSITF + 1% ITF on 2.4m basic.
	equal(t, 450000, result.Employer.Pension, "employer pension")
	equal(t, 24000, result.Employer.NSITF, "NSITF")
	equal(t, 24000, result.Employer.ITF, "ITF")
	equal(t, 498000, result.Employer.Total, "employer cost")

	require.Len(t, result.Tax.Breakdown, 6)
	assert.True(t, result.Tax.Breakdown[5].Tax.Equal(d(235200)),
		"top band should tax the remaining 980,000 at 24%%")
}

func TestFullPayroll_MonthlyFiguresAreAnnualOverTwelve(t *testing.T) {
	result := payroll.NewDefault().FullPayroll(standardInput())

	monthlyPAYE := result.Tax.AnnualPAYE.Div(d(12))
	if !result.Tax.MonthlyPAYE.Equal(monthlyPAYE) {
		t.Errorf("monthly PAYE should be annual/12, got %v", result.Tax.MonthlyPAYE)
	}
	if !result.NetMonthly.Equal(result.NetAnnual.Div(d(12))) {
		t.Errorf("monthly net should be annual/12, got %v", result.NetMonthly)
	}
}

// =============================================================================
// PERIOD NORMALIZATION
// =============================================================================

func TestFullPayroll_PeriodNormalization(t *testing.T) {
	// GIVEN: 100,000/month vs 1,200,000/year basic salary
	// WHEN: Calculating both
	// THEN: Identical annual basic and identical PAYE

	calc := payroll.NewDefault()

	monthly := calc.FullPayroll(payroll.CompensationInput{
		BasicSalary: d(100000), PensionEnabled: true, NHFEnabled: true,
		Period: payroll.PeriodMonthly,
	})
	annual := calc.FullPayroll(payroll.CompensationInput{
		BasicSalary: d(1200000), PensionEnabled: true, NHFEnabled: true,
		Period: payroll.PeriodAnnual,
	})

	equal(t, 1200000, monthly.Income.Basic, "monthly-input annual basic")
	assert.True(t, monthly.Income.Basic.Equal(annual.Income.Basic))
	assert.True(t, monthly.Tax.AnnualPAYE.Equal(annual.Tax.AnnualPAYE))
}

func TestFullPayroll_ThirteenthMonthNotMultiplied(t *testing.T) {
	// GIVEN: 100,000/month basic with the 13th month enabled
	// WHEN: Normalizing to annual figures
	// THEN: The 13th-month component is 100,000 (one month), never 1,200,000

	calc := payroll.NewDefault()

	monthly := calc.FullPayroll(payroll.CompensationInput{
		BasicSalary:     d(100000),
		ThirteenthMonth: true,
		PensionEnabled:  true,
		NHFEnabled:      true,
		Period:          payroll.PeriodMonthly,
	})
	equal(t, 100000, monthly.Income.ThirteenthMonth, "13th month (monthly input)")
	equal(t, 1300000, monthly.Income.Gross, "gross with 13th month")

	// Annual input: the 13th month adds the figure as given, which for an
	// annual basic is a full extra year's basic. Callers supplying annual
	// figures are expected to pass the monthly basic separately, matching
	// the system this mirrors.
	annual := calc.FullPayroll(payroll.CompensationInput{
		BasicSalary:     d(1200000),
		ThirteenthMonth: true,
		PensionEnabled:  true,
		NHFEnabled:      true,
		Period:          payroll.PeriodAnnual,
	})
	equal(t, 1200000, annual.Income.ThirteenthMonth, "13th month (annual input)")
}

// =============================================================================
// FLAG GATING
// =============================================================================

func TestFullPayroll_PensionDisabled_ZeroesEmployerShare(t *testing.T) {
	// Disabling employee pension also zeroes the reported employer
	// contribution. Employer contributions are mandatory under the real
	// PenCom scheme, but this pins the behavior of the system this
	// calculator reproduces; changing it is a product decision.

	in := standardInput()
	in.PensionEnabled = false
	result := payroll.NewDefault().FullPayroll(in)

	assert.True(t, result.Reliefs.Pension.IsZero(), "employee pension should be zero")
	assert.True(t, result.Employer.Pension.IsZero(), "employer pension follows the same flag")

	// NSITF and ITF are unaffected by the pension flag.
	equal(t, 24000, result.Employer.NSITF, "NSITF")
	equal(t, 24000, result.Employer.ITF, "ITF")

	// With less relief, taxable income and PAYE rise.
	equal(t, 4540000, result.Tax.TaxableIncome, "taxable income without pension relief")
}

func TestFullPayroll_NHFDisabled(t *testing.T) {
	in := standardInput()
	in.NHFEnabled = false
	result := payroll.NewDefault().FullPayroll(in)

	assert.True(t, result.Reliefs.NHF.IsZero())
	equal(t, 4240000, result.Tax.TaxableIncome, "taxable income without NHF relief")
}

func TestFullPayroll_NHFBelowThreshold(t *testing.T) {
	// 25,000/month basic = 300,000/year, under the 360,000 NHF floor.
	result := payroll.NewDefault().FullPayroll(payroll.CompensationInput{
		BasicSalary:    d(25000),
		PensionEnabled: true,
		NHFEnabled:     true,
		Period:         payroll.PeriodMonthly,
	})
	assert.True(t, result.Reliefs.NHF.IsZero(), "NHF should not apply below the minimum wage floor")
}

// =============================================================================
// EDGE CASES
// =============================================================================

func TestFullPayroll_ZeroInput(t *testing.T) {
	result := payroll.NewDefault().FullPayroll(payroll.CompensationInput{
		PensionEnabled: true, NHFEnabled: true, Period: payroll.PeriodMonthly,
	})

	assert.True(t, result.Income.Gross.IsZero())
	assert.True(t, result.Tax.AnnualPAYE.IsZero())
	assert.True(t, result.Tax.EffectiveRate.IsZero(), "effective rate must be 0, not NaN, at zero gross")
	assert.Empty(t, result.Tax.Breakdown)
	// CRA floor still applies, but taxable income clamps at zero.
	equal(t, 200000, result.Reliefs.CRA, "CRA at zero gross")
	assert.True(t, result.Tax.TaxableIncome.IsZero())
}

func TestFullPayroll_LowIncomeFullyRelieved(t *testing.T) {
	// 20,000/month gross: CRA alone exceeds gross, so no PAYE is due and
	// net pay equals gross minus pension only.
	result := payroll.NewDefault().FullPayroll(payroll.CompensationInput{
		BasicSalary:    d(20000),
		PensionEnabled: true,
		NHFEnabled:     true,
		Period:         payroll.PeriodMonthly,
	})

	assert.True(t, result.Tax.TaxableIncome.IsZero(), "taxable income floors at zero")
	assert.True(t, result.Tax.AnnualPAYE.IsZero())
	equal(t, 19200, result.Reliefs.Pension, "8%% pension on 240,000 basic")
	equal(t, 220800, result.NetAnnual, "net = gross - pension")
}

// =============================================================================
// QUICK ESTIMATE
// =============================================================================

func TestQuickEstimate_AssumedSplit(t *testing.T) {
	// GIVEN: 6,000,000 annual gross
	// WHEN: Estimating with the 40/20/15 split
	// THEN: Basic 2.4m, pension base 4.5m, pension 360k, NHF 60k - the same
	//       relief stack as the standard scenario, so PAYE matches it too

	result := payroll.NewDefault().QuickEstimate(d(6000000), payroll.PeriodAnnual)

	equal(t, 6000000, result.GrossAnnual, "gross annual")
	equal(t, 2400000, result.EstimatedBasic, "estimated basic")
	equal(t, 360000, result.PensionAnnual, "pension")
	equal(t, 60000, result.NHFAnnual, "NHF")
	equal(t, 795200, result.PAYEAnnual, "PAYE")
	equal(t, 1215200, result.TotalDeductions, "total deductions")
	equal(t, 4784800, result.NetAnnual, "net annual")
}

func TestQuickEstimate_MonthlyPeriod(t *testing.T) {
	monthly := payroll.NewDefault().QuickEstimate(d(500000), payroll.PeriodMonthly)
	annual := payroll.NewDefault().QuickEstimate(d(6000000), payroll.PeriodAnnual)

	assert.True(t, monthly.GrossAnnual.Equal(annual.GrossAnnual))
	assert.True(t, monthly.PAYEAnnual.Equal(annual.PAYEAnnual))
}

func TestQuickEstimate_NHFThresholdOnEstimatedBasic(t *testing.T) {
	// Gross 800,000/year -> estimated basic 320,000, below the NHF floor.
	result := payroll.NewDefault().QuickEstimate(d(800000), payroll.PeriodAnnual)
	assert.True(t, result.NHFAnnual.IsZero())

	// Gross 900,000/year -> estimated basic 360,000, exactly at the floor.
	result = payroll.NewDefault().QuickEstimate(d(900000), payroll.PeriodAnnual)
	equal(t, 9000, result.NHFAnnual, "NHF at estimated-basic threshold")
}

func TestQuickEstimate_ZeroGross(t *testing.T) {
	result := payroll.NewDefault().QuickEstimate(decimal.Zero, payroll.PeriodAnnual)

	assert.True(t, result.PAYEAnnual.IsZero())
	assert.True(t, result.EffectiveRate.IsZero())
	assert.True(t, result.NetAnnual.IsZero())
}
