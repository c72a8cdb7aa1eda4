/*
calculator.go - Payslip orchestration

PURPOSE:
  FullPayroll runs the complete payslip pipeline:
    normalize -> pension base -> statutory contributions -> CRA ->
    taxable income -> band walk -> net pay + employer cost.
  QuickEstimate runs the same pipeline from a single gross figure using the
  standard Nigerian split (Basic 40%, Housing 20%, Transport 15%, remainder
  "other" and excluded from the pension base).

SEE ALSO:
  - types.go: Input and result structures
*/
package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/paye"
	"github.com/warp/payroll-engine/statutory"
)

// =============================================================================
// CALCULATOR
// =============================================================================

// Calculator binds a tax schedule to a statutory rate table. The zero value
// is not usable; construct via New.
type Calculator struct {
	Schedule paye.Schedule
	Rates    statutory.Rates
}

// New returns a Calculator over the given schedule and rates.
func New(schedule paye.Schedule, rates statutory.Rates) *Calculator {
	return &Calculator{Schedule: schedule, Rates: rates}
}

// NewDefault returns a Calculator over the standard Nigerian tables.
func NewDefault() *Calculator {
	return New(paye.DefaultSchedule(), statutory.DefaultRates())
}

// Quick-estimate salary split assumptions.
var (
	estimateBasicShare     = decimal.NewFromFloat(0.40)
	estimateHousingShare   = decimal.NewFromFloat(0.20)
	estimateTransportShare = decimal.NewFromFloat(0.15)
)

// =============================================================================
// FULL PAYROLL
// =============================================================================

// FullPayroll computes a complete payslip from a detailed compensation
// breakdown. It is total over non-negative inputs: no error paths exist.
func (c *Calculator) FullPayroll(in CompensationInput) Result {
	a := in.annualize()
	gross := a.gross()

	pensionBase := statutory.PensionBase(a.Basic, a.Housing, a.Transport)
	pensionEmployee := c.Rates.EmployeePension(pensionBase, in.PensionEnabled)
	pensionEmployer := c.Rates.EmployerPension(pensionBase, in.PensionEnabled)
	nhf := c.Rates.NHFContribution(a.Basic, in.NHFEnabled)
	nsitf := c.Rates.NSITFContribution(a.Basic)
	itf := c.Rates.ITFContribution(a.Basic)

	cra := c.Rates.CRA(gross)
	totalRelief := cra.Add(pensionEmployee).Add(nhf)

	taxable := gross.Sub(totalRelief)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}

	tax := c.Schedule.Calculate(taxable)

	effectiveRate := decimal.Zero
	if gross.IsPositive() {
		effectiveRate = tax.TotalTax.Div(gross).Mul(decimal.NewFromInt(100))
	}

	totalDeductions := tax.TotalTax.Add(pensionEmployee).Add(nhf)
	netAnnual := gross.Sub(totalDeductions)

	return Result{
		Income: IncomeBreakdown{
			Basic:           a.Basic,
			Housing:         a.Housing,
			Transport:       a.Transport,
			Utility:         a.Utility,
			Meal:            a.Meal,
			Other:           a.Other,
			Leave:           a.Leave,
			ThirteenthMonth: a.ThirteenthMonth,
			Gross:           gross,
		},
		Reliefs: Reliefs{
			CRA:     cra,
			Pension: pensionEmployee,
			NHF:     nhf,
			Total:   totalRelief,
		},
		Tax: Tax{
			TaxableIncome: taxable,
			AnnualPAYE:    tax.TotalTax,
			MonthlyPAYE:   Monthly(tax.TotalTax),
			EffectiveRate: effectiveRate,
			Breakdown:     toBandTaxes(tax.Breakdown),
		},
		Deductions: EmployeeDeductions{
			PAYE:    tax.TotalTax,
			Pension: pensionEmployee,
			NHF:     nhf,
			Total:   totalDeductions,
		},
		Employer: EmployerCost{
			Pension: pensionEmployer,
			NSITF:   nsitf,
			ITF:     itf,
			Total:   pensionEmployer.Add(nsitf).Add(itf),
		},
		NetAnnual:  netAnnual,
		NetMonthly: Monthly(netAnnual),
	}
}

// =============================================================================
// QUICK ESTIMATE
// =============================================================================

// QuickEstimate computes PAYE from gross salary alone using the assumed
// 40/20/15 split. Pension is always applied here; there is no opt-out flag
// in estimate mode.
func (c *Calculator) QuickEstimate(grossSalary decimal.Decimal, period Period) QuickResult {
	gross := grossSalary.Mul(period.Multiplier())

	basic := gross.Mul(estimateBasicShare)
	housing := gross.Mul(estimateHousingShare)
	transport := gross.Mul(estimateTransportShare)

	// The remaining 25% "other" share is excluded from the pension base.
	pensionBase := statutory.PensionBase(basic, housing, transport)
	pension := pensionBase.Mul(c.Rates.PensionEmployee)
	nhf := c.Rates.NHFContribution(basic, true)

	cra := c.Rates.CRA(gross)

	taxable := gross.Sub(cra).Sub(pension).Sub(nhf)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}

	tax := c.Schedule.Calculate(taxable)

	effectiveRate := decimal.Zero
	if gross.IsPositive() {
		effectiveRate = tax.TotalTax.Div(gross).Mul(decimal.NewFromInt(100))
	}

	totalDeductions := tax.TotalTax.Add(pension).Add(nhf)

	return QuickResult{
		GrossAnnual:     gross,
		EstimatedBasic:  basic,
		PAYEAnnual:      tax.TotalTax,
		PensionAnnual:   pension,
		NHFAnnual:       nhf,
		TotalDeductions: totalDeductions,
		NetAnnual:       gross.Sub(totalDeductions),
		EffectiveRate:   effectiveRate,
	}
}

func toBandTaxes(bands []paye.BandTax) []BandTax {
	out := make([]BandTax, len(bands))
	for i, b := range bands {
		out[i] = BandTax{
			Amount:      b.Amount,
			Rate:        b.Rate,
			Tax:         b.Tax,
			Description: b.Description,
		}
	}
	return out
}
