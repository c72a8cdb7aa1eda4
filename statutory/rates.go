/*
Package statutory implements the relief and contribution rules that sit in
front of the tax band engine.

PURPOSE:
  Computes the Consolidated Relief Allowance (CRA) and the statutory
  contributions - pension, National Housing Fund (NHF), NSITF and ITF - that
  reduce taxable income and/or appear as payroll deductions. Rates is an
  immutable table, built once via DefaultRates or the factory package.

STATUTORY RULES (Nigeria):
  CRA       20% of gross + max(1% of gross, ₦200,000)
  Pension   employee 8%, employer 10%, both of basic+housing+transport
  NHF       2.5% of annual basic, only at or above ₦360,000 annual basic
            (the ₦30,000/month minimum wage floor)
  NSITF     1% of annual basic, employer only
  ITF       1% of annual basic, employer only. Real-world eligibility
            (>5 employees or >₦50m turnover) is a reporting concern layered
            on top; this module does not enforce it.

SEE ALSO:
  - paye/schedule.go: The band engine that taxes what remains after reliefs
  - payroll/calculator.go: Applies these rules in payslip order
*/
package statutory

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// RATES - Immutable statutory rate table
// =============================================================================

// Rates holds every statutory fraction and threshold the payroll calculation
// needs. Construct via DefaultRates (or factory.TableFactory) and never
// mutate afterwards.
type Rates struct {
	PensionEmployee decimal.Decimal // fraction of pension base
	PensionEmployer decimal.Decimal // fraction of pension base
	NHF             decimal.Decimal // fraction of annual basic
	NSITF           decimal.Decimal // fraction of annual basic, employer only
	ITF             decimal.Decimal // fraction of annual basic, employer only

	CRAFixedRate    decimal.Decimal // fraction of gross, always applied
	CRAVariableRate decimal.Decimal // fraction of gross, floored below
	CRAFloor        decimal.Decimal // minimum for the variable term

	NHFMinAnnualBasic decimal.Decimal // below this, NHF is not deducted
}

// DefaultRates returns the current Nigerian statutory table.
func DefaultRates() Rates {
	return Rates{
		PensionEmployee:   frac("0.08"),
		PensionEmployer:   frac("0.10"),
		NHF:               frac("0.025"),
		NSITF:             frac("0.01"),
		ITF:               frac("0.01"),
		CRAFixedRate:      frac("0.20"),
		CRAVariableRate:   frac("0.01"),
		CRAFloor:          decimal.NewFromInt(200000),
		NHFMinAnnualBasic: decimal.NewFromInt(360000),
	}
}

// =============================================================================
// RELIEF & CONTRIBUTION RULES
// =============================================================================

// CRA computes the Consolidated Relief Allowance on annual gross income:
// 20% of gross plus the greater of 1% of gross and the ₦200,000 floor.
// Both terms are always summed; the floor only governs the variable term.
func (r Rates) CRA(grossAnnual decimal.Decimal) decimal.Decimal {
	variable := r.CRAVariableRate.Mul(grossAnnual)
	if variable.LessThan(r.CRAFloor) {
		variable = r.CRAFloor
	}
	return r.CRAFixedRate.Mul(grossAnnual).Add(variable)
}

// PensionBase is the subset of compensation pension percentages apply to:
// basic + housing + transport, never total gross.
func PensionBase(basic, housing, transport decimal.Decimal) decimal.Decimal {
	return basic.Add(housing).Add(transport)
}

// EmployeePension returns the employee contribution on a pension base, or
// zero when pension is disabled.
func (r Rates) EmployeePension(pensionBase decimal.Decimal, enabled bool) decimal.Decimal {
	if !enabled {
		return decimal.Zero
	}
	return pensionBase.Mul(r.PensionEmployee)
}

// EmployerPension returns the employer contribution on a pension base, or
// zero when pension is disabled. Disabling employee pension also zeroes the
// reported employer share; see the payroll package tests for the pinned
// behavior.
func (r Rates) EmployerPension(pensionBase decimal.Decimal, enabled bool) decimal.Decimal {
	if !enabled {
		return decimal.Zero
	}
	return pensionBase.Mul(r.PensionEmployer)
}

// NHFContribution returns 2.5% of annual basic when NHF is enabled and the
// basic salary is at or above the minimum threshold, otherwise zero.
func (r Rates) NHFContribution(basicAnnual decimal.Decimal, enabled bool) decimal.Decimal {
	if !enabled || basicAnnual.LessThan(r.NHFMinAnnualBasic) {
		return decimal.Zero
	}
	return basicAnnual.Mul(r.NHF)
}

// NSITFContribution is the employer-only social insurance levy on annual
// basic. Always computed; no opt-out flag exists for it.
func (r Rates) NSITFContribution(basicAnnual decimal.Decimal) decimal.Decimal {
	return basicAnnual.Mul(r.NSITF)
}

// ITFContribution is the employer-only training levy on annual basic.
// Eligibility thresholds are not enforced here.
func (r Rates) ITFContribution(basicAnnual decimal.Decimal) decimal.Decimal {
	return basicAnnual.Mul(r.ITF)
}

func frac(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
