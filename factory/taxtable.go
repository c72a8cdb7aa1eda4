/*
Package factory provides JSON to Go tax-table conversion.

PURPOSE:
  Converts JSON tax-table definitions into paye.Schedule and statutory.Rates
  values. This enables tax-year configuration without code changes - a new
  finance act becomes a JSON document, and the factory creates the proper
  engine types.

WHY JSON?
  - Tax tables change by legislation, not by code release
  - Easy integration with an admin UI
  - Version control for table definitions
  - Database storage of table configs

JSON SCHEMA:
  {
    "id": "ng-pita-2021",
    "name": "Nigeria PAYE (PITA 2021)",
    "effective_date": "2021-01-01",
    "source": "Personal Income Tax Act, as amended by Finance Act 2020",
    "bands": [
      {"width": 300000, "rate": 0.07, "description": "First ₦300,000"},
      ...
      {"rate": 0.24, "description": "Above ₦3,200,000"}
    ],
    "statutory": {
      "pension_employee": 0.08, "pension_employer": 0.10,
      "nhf": 0.025, "nsitf": 0.01, "itf": 0.01,
      "cra_fixed_rate": 0.20, "cra_variable_rate": 0.01,
      "cra_floor": 200000, "nhf_min_annual_basic": 360000
    }
  }

  A band with width 0 (or omitted) is unbounded and must be last. The
  statutory block is optional; missing fields fall back to DefaultRates.

USAGE:
  factory := NewTableFactory()
  schedule, rates, err := factory.Parse(jsonString)

SEE ALSO:
  - paye/schedule.go: Schedule type definition
  - statutory/rates.go: Rates type definition
  - store/sqlite: Persists table configs as JSON
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/paye"
	"github.com/warp/payroll-engine/statutory"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// TableJSON is the JSON representation of a tax table.
type TableJSON struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	EffectiveDate string         `json:"effective_date,omitempty"`
	Source        string         `json:"source,omitempty"`
	Bands         []BandJSON     `json:"bands"`
	Statutory     *StatutoryJSON `json:"statutory,omitempty"`
}

// BandJSON represents one marginal band. Width 0 or omitted = unbounded.
type BandJSON struct {
	Width       float64 `json:"width,omitempty"`
	Rate        float64 `json:"rate"`
	Description string  `json:"description,omitempty"`
}

// StatutoryJSON represents statutory rate overrides. Nil pointers fall back
// to the defaults in statutory.DefaultRates.
type StatutoryJSON struct {
	PensionEmployee   *float64 `json:"pension_employee,omitempty"`
	PensionEmployer   *float64 `json:"pension_employer,omitempty"`
	NHF               *float64 `json:"nhf,omitempty"`
	NSITF             *float64 `json:"nsitf,omitempty"`
	ITF               *float64 `json:"itf,omitempty"`
	CRAFixedRate      *float64 `json:"cra_fixed_rate,omitempty"`
	CRAVariableRate   *float64 `json:"cra_variable_rate,omitempty"`
	CRAFloor          *float64 `json:"cra_floor,omitempty"`
	NHFMinAnnualBasic *float64 `json:"nhf_min_annual_basic,omitempty"`
}

// =============================================================================
// FACTORY
// =============================================================================

// TableFactory converts JSON table definitions into engine types.
type TableFactory struct{}

// NewTableFactory creates a table factory.
func NewTableFactory() *TableFactory {
	return &TableFactory{}
}

// Parse converts a JSON table definition into a Schedule and Rates,
// validating structure and numeric ranges.
func (f *TableFactory) Parse(jsonStr string) (paye.Schedule, statutory.Rates, error) {
	var cfg TableJSON
	if err := json.Unmarshal([]byte(jsonStr), &cfg); err != nil {
		return paye.Schedule{}, statutory.Rates{}, fmt.Errorf("invalid table JSON: %w", err)
	}
	return f.Build(cfg)
}

// Build converts an already-decoded TableJSON into engine types.
func (f *TableFactory) Build(cfg TableJSON) (paye.Schedule, statutory.Rates, error) {
	if cfg.ID == "" {
		return paye.Schedule{}, statutory.Rates{}, fmt.Errorf("table id is required")
	}
	if len(cfg.Bands) == 0 {
		return paye.Schedule{}, statutory.Rates{}, fmt.Errorf("table %q has no bands", cfg.ID)
	}

	schedule := paye.Schedule{
		ID:            cfg.ID,
		Name:          cfg.Name,
		EffectiveDate: cfg.EffectiveDate,
		Source:        cfg.Source,
		Bands:         make([]paye.TaxBand, len(cfg.Bands)),
	}
	for i, b := range cfg.Bands {
		if b.Width < 0 {
			return paye.Schedule{}, statutory.Rates{}, fmt.Errorf("band %d: negative width", i)
		}
		if b.Rate < 0 || b.Rate > 1 {
			return paye.Schedule{}, statutory.Rates{}, fmt.Errorf("band %d: rate %v outside [0,1]", i, b.Rate)
		}
		if b.Width == 0 && i != len(cfg.Bands)-1 {
			return paye.Schedule{}, statutory.Rates{}, fmt.Errorf("band %d: only the last band may be unbounded", i)
		}
		schedule.Bands[i] = paye.TaxBand{
			Width:       decimal.NewFromFloat(b.Width),
			Rate:        decimal.NewFromFloat(b.Rate),
			Description: b.Description,
		}
	}

	rates, err := buildRates(cfg.Statutory)
	if err != nil {
		return paye.Schedule{}, statutory.Rates{}, fmt.Errorf("table %q: %w", cfg.ID, err)
	}
	return schedule, rates, nil
}

func buildRates(s *StatutoryJSON) (statutory.Rates, error) {
	rates := statutory.DefaultRates()
	if s == nil {
		return rates, nil
	}

	set := func(dst *decimal.Decimal, src *float64, name string, isFraction bool) error {
		if src == nil {
			return nil
		}
		if *src < 0 {
			return fmt.Errorf("%s is negative", name)
		}
		if isFraction && *src > 1 {
			return fmt.Errorf("%s %v outside [0,1]", name, *src)
		}
		*dst = decimal.NewFromFloat(*src)
		return nil
	}

	checks := []error{
		set(&rates.PensionEmployee, s.PensionEmployee, "pension_employee", true),
		set(&rates.PensionEmployer, s.PensionEmployer, "pension_employer", true),
		set(&rates.NHF, s.NHF, "nhf", true),
		set(&rates.NSITF, s.NSITF, "nsitf", true),
		set(&rates.ITF, s.ITF, "itf", true),
		set(&rates.CRAFixedRate, s.CRAFixedRate, "cra_fixed_rate", true),
		set(&rates.CRAVariableRate, s.CRAVariableRate, "cra_variable_rate", true),
		set(&rates.CRAFloor, s.CRAFloor, "cra_floor", false),
		set(&rates.NHFMinAnnualBasic, s.NHFMinAnnualBasic, "nhf_min_annual_basic", false),
	}
	for _, err := range checks {
		if err != nil {
			return statutory.Rates{}, err
		}
	}
	return rates, nil
}

// =============================================================================
// DEFAULT TABLE
// =============================================================================

// DefaultTableJSON returns the standard Nigerian table as a JSON string. It
// round-trips through Parse to the same values as paye.DefaultSchedule and
// statutory.DefaultRates.
func DefaultTableJSON() string {
	cfg := TableJSON{
		ID:            "ng-pita-2021",
		Name:          "Nigeria PAYE (PITA 2021)",
		EffectiveDate: "2021-01-01",
		Source:        "Personal Income Tax Act, as amended by Finance Act 2020",
		Bands: []BandJSON{
			{Width: 300000, Rate: 0.07, Description: "First ₦300,000"},
			{Width: 300000, Rate: 0.11, Description: "Next ₦300,000"},
			{Width: 500000, Rate: 0.15, Description: "Next ₦500,000"},
			{Width: 500000, Rate: 0.19, Description: "Next ₦500,000"},
			{Width: 1600000, Rate: 0.21, Description: "Next ₦1,600,000"},
			{Rate: 0.24, Description: "Above ₦3,200,000"},
		},
	}
	data, _ := json.Marshal(cfg)
	return string(data)
}
