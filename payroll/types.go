/*
Package payroll composes the tax band engine and the statutory rules into
full payslip calculations.

PURPOSE:
  Given either a detailed compensation breakdown or a single gross figure,
  produce annual and monthly gross, reliefs, taxable income, PAYE, employee
  deductions, employer cost and net pay. Every calculation is a pure function
  over decimal values: no I/O, no persistence, no shared state.

KEY CONCEPTS IN THIS FILE (types.go):
  - Period: monthly vs annual input figures
  - CompensationInput: The detailed salary component breakdown
  - Result / QuickResult: Structured calculation output, annual + monthly

SEE ALSO:
  - calculator.go: FullPayroll and QuickEstimate
  - paye/schedule.go: The band engine
  - statutory/rates.go: Relief and contribution rules
*/
package payroll

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// PERIOD - Input normalization
// =============================================================================

// Period states whether the caller's figures are per month or per year.
type Period string

const (
	PeriodMonthly Period = "monthly"
	PeriodAnnual  Period = "annual"
)

// Valid reports whether p is one of the two known periods.
func (p Period) Valid() bool {
	return p == PeriodMonthly || p == PeriodAnnual
}

// Multiplier returns the factor that converts figures in this period to
// annual figures.
func (p Period) Multiplier() decimal.Decimal {
	if p == PeriodMonthly {
		return decimal.NewFromInt(12)
	}
	return decimal.NewFromInt(1)
}

// =============================================================================
// COMPENSATION INPUT
// =============================================================================

// CompensationInput is the detailed salary structure for a full payslip
// calculation. Amounts are monthly or annual according to Period; every
// amount must be non-negative (the API layer rejects anything else before
// the calculator sees it).
type CompensationInput struct {
	BasicSalary        decimal.Decimal
	HousingAllowance   decimal.Decimal
	TransportAllowance decimal.Decimal
	UtilityAllowance   decimal.Decimal
	MealAllowance      decimal.Decimal
	OtherAllowances    decimal.Decimal
	LeaveAllowance     decimal.Decimal

	// ThirteenthMonth adds exactly one month's basic salary as an
	// annual-only component. It is never multiplied by 12: the 13th month
	// is itself one month.
	ThirteenthMonth bool

	PensionEnabled bool
	NHFEnabled     bool

	Period Period
}

// annualized is the input after period normalization. All fields are annual.
type annualized struct {
	Basic           decimal.Decimal
	Housing         decimal.Decimal
	Transport       decimal.Decimal
	Utility         decimal.Decimal
	Meal            decimal.Decimal
	Other           decimal.Decimal
	Leave           decimal.Decimal
	ThirteenthMonth decimal.Decimal
}

func (a annualized) gross() decimal.Decimal {
	return a.Basic.
		Add(a.Housing).
		Add(a.Transport).
		Add(a.Utility).
		Add(a.Meal).
		Add(a.Other).
		Add(a.Leave).
		Add(a.ThirteenthMonth)
}

func (in CompensationInput) annualize() annualized {
	m := in.Period.Multiplier()
	a := annualized{
		Basic:     in.BasicSalary.Mul(m),
		Housing:   in.HousingAllowance.Mul(m),
		Transport: in.TransportAllowance.Mul(m),
		Utility:   in.UtilityAllowance.Mul(m),
		Meal:      in.MealAllowance.Mul(m),
		Other:     in.OtherAllowances.Mul(m),
		Leave:     in.LeaveAllowance.Mul(m),
	}
	if in.ThirteenthMonth {
		// One month's basic as given, regardless of period.
		a.ThirteenthMonth = in.BasicSalary
	}
	return a
}

// =============================================================================
// RESULTS
// =============================================================================

// IncomeBreakdown itemizes annual compensation components.
type IncomeBreakdown struct {
	Basic           decimal.Decimal
	Housing         decimal.Decimal
	Transport       decimal.Decimal
	Utility         decimal.Decimal
	Meal            decimal.Decimal
	Other           decimal.Decimal
	Leave           decimal.Decimal
	ThirteenthMonth decimal.Decimal
	Gross           decimal.Decimal
}

// Reliefs itemizes the amounts deducted from gross before taxation.
type Reliefs struct {
	CRA     decimal.Decimal
	Pension decimal.Decimal
	NHF     decimal.Decimal
	Total   decimal.Decimal
}

// Tax carries the PAYE outcome with its per-band audit trail.
type Tax struct {
	TaxableIncome decimal.Decimal
	AnnualPAYE    decimal.Decimal
	MonthlyPAYE   decimal.Decimal
	EffectiveRate decimal.Decimal // percentage of gross, 0-100
	Breakdown     []BandTax
}

// BandTax mirrors paye.BandTax so callers of this package do not need to
// import the band engine directly.
type BandTax struct {
	Amount      decimal.Decimal
	Rate        decimal.Decimal
	Tax         decimal.Decimal
	Description string
}

// EmployeeDeductions are amounts withheld from the employee.
type EmployeeDeductions struct {
	PAYE    decimal.Decimal
	Pension decimal.Decimal
	NHF     decimal.Decimal
	Total   decimal.Decimal
}

// EmployerCost are employer-side contributions on top of gross.
type EmployerCost struct {
	Pension decimal.Decimal
	NSITF   decimal.Decimal
	ITF     decimal.Decimal
	Total   decimal.Decimal
}

// Result is the complete payslip calculation. All amounts are annual;
// monthly figures are the annual figures divided by 12.
type Result struct {
	Income     IncomeBreakdown
	Reliefs    Reliefs
	Tax        Tax
	Deductions EmployeeDeductions
	Employer   EmployerCost
	NetAnnual  decimal.Decimal
	NetMonthly decimal.Decimal
}

// QuickResult is the simplified estimate from gross salary alone.
type QuickResult struct {
	GrossAnnual     decimal.Decimal
	EstimatedBasic  decimal.Decimal
	PAYEAnnual      decimal.Decimal
	PensionAnnual   decimal.Decimal
	NHFAnnual       decimal.Decimal
	TotalDeductions decimal.Decimal
	NetAnnual       decimal.Decimal
	EffectiveRate   decimal.Decimal // percentage of gross, 0-100
}

// Monthly returns v divided by 12. Monthly PAYE is annual PAYE / 12, an
// approximation the design accepts rather than re-running the band walk.
func Monthly(v decimal.Decimal) decimal.Decimal {
	return v.Div(decimal.NewFromInt(12))
}
