/*
Package paye implements the progressive tax band engine.

PURPOSE:
  Converts a taxable income amount into total PAYE owed plus an auditable
  per-band breakdown, by walking an ordered schedule of marginal tax bands.
  The schedule is an immutable value: build it once (typically via
  DefaultSchedule or the factory package) and share it freely.

KEY CONCEPTS IN THIS FILE (schedule.go):
  - TaxBand: A slice of income taxed at a single marginal rate
  - Schedule: The ordered band table plus citation metadata
  - Result/BandTax: Total tax and the per-band audit trail

DESIGN PRINCIPLES:
  1. Immutability: Schedules are never modified after construction
  2. Precision: Uses decimal.Decimal to avoid floating-point drift across
     repeated band-walk summations; rounding happens only at serialization
  3. Totality: Calculate is defined for every non-negative input and never
     returns an error

USAGE:
  schedule := paye.DefaultSchedule()
  result := schedule.Calculate(decimal.NewFromInt(4180000))
  // result.TotalTax = 795200, result.Breakdown has one entry per band taxed

SEE ALSO:
  - statutory/rates.go: Reliefs and contributions that produce taxable income
  - payroll/calculator.go: Orchestrates reliefs + bands into a full payslip
  - factory/taxtable.go: JSON tax-table configuration
*/
package paye

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// TAX BAND - One slice of the progressive schedule
// =============================================================================

// TaxBand is a single marginal band. Width is the amount of income taxed at
// Rate within this band (not a cumulative ceiling). A zero Width marks the
// final, unbounded band.
type TaxBand struct {
	Width       decimal.Decimal
	Rate        decimal.Decimal
	Description string
}

// Unbounded reports whether this band has no upper limit.
func (b TaxBand) Unbounded() bool {
	return b.Width.IsZero()
}

// =============================================================================
// SCHEDULE - Ordered band table with citation metadata
// =============================================================================

// Schedule is an ordered progressive tax table. Bands are applied strictly
// in order, each consuming at most its Width of the remaining income.
type Schedule struct {
	ID            string
	Name          string
	EffectiveDate string
	Source        string
	Bands         []TaxBand
}

// DefaultSchedule returns the Nigerian PAYE schedule under the Personal
// Income Tax Act as amended by the Finance Act 2020 (annual bands, naira).
func DefaultSchedule() Schedule {
	return Schedule{
		ID:            "ng-pita-2021",
		Name:          "Nigeria PAYE (PITA 2021)",
		EffectiveDate: "2021-01-01",
		Source:        "Personal Income Tax Act, as amended by Finance Act 2020",
		Bands: []TaxBand{
			{Width: naira(300000), Rate: rate("0.07"), Description: "First ₦300,000"},
			{Width: naira(300000), Rate: rate("0.11"), Description: "Next ₦300,000"},
			{Width: naira(500000), Rate: rate("0.15"), Description: "Next ₦500,000"},
			{Width: naira(500000), Rate: rate("0.19"), Description: "Next ₦500,000"},
			{Width: naira(1600000), Rate: rate("0.21"), Description: "Next ₦1,600,000"},
			{Width: decimal.Zero, Rate: rate("0.24"), Description: "Above ₦3,200,000"},
		},
	}
}

// =============================================================================
// CALCULATION - The band walk
// =============================================================================

// BandTax records the portion of income taxed in one band.
type BandTax struct {
	Amount      decimal.Decimal
	Rate        decimal.Decimal
	Tax         decimal.Decimal
	Description string
}

// Result is the outcome of a band walk.
type Result struct {
	TotalTax  decimal.Decimal
	Breakdown []BandTax
}

// Calculate walks the schedule over taxableIncome, consuming remaining income
// band by band. Bands past the point of exhaustion are omitted from the
// breakdown, not zero-filled. A non-positive input yields zero tax and an
// empty breakdown; that is a valid "no tax owed" case, not a failure.
func (s Schedule) Calculate(taxableIncome decimal.Decimal) Result {
	result := Result{TotalTax: decimal.Zero}
	if taxableIncome.LessThanOrEqual(decimal.Zero) {
		return result
	}

	remaining := taxableIncome
	for _, band := range s.Bands {
		taxableInBand := remaining
		if !band.Unbounded() && band.Width.LessThan(remaining) {
			taxableInBand = band.Width
		}
		if taxableInBand.IsPositive() {
			tax := taxableInBand.Mul(band.Rate)
			result.Breakdown = append(result.Breakdown, BandTax{
				Amount:      taxableInBand,
				Rate:        band.Rate,
				Tax:         tax,
				Description: band.Description,
			})
			result.TotalTax = result.TotalTax.Add(tax)
			remaining = remaining.Sub(taxableInBand)
		}
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
	}
	return result
}

// TotalWidth returns the sum of all bounded band widths (the income level at
// which the top marginal rate begins).
func (s Schedule) TotalWidth() decimal.Decimal {
	total := decimal.Zero
	for _, band := range s.Bands {
		total = total.Add(band.Width)
	}
	return total
}

// =============================================================================
// HELPERS
// =============================================================================

func naira(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

func rate(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
