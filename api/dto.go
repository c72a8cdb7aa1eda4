/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the decimal-based calculation core from the external API contract:
  - Monetary values are rounded to whole naira here, and only here
  - Rates are formatted as percentage strings ("7%", "13.25%")
  - Request fields are pointers where absence must default (flags, period)

NAMING CONVENTION:
  - *Request: Request body types from clients
  - *DTO: Response types returned to clients
  - Envelope: The {success, data} wrapper every endpoint uses

ROUNDING:
  All intermediate arithmetic stays in decimal.Decimal inside the engine.
  roundNaira/percent are the single serialization boundary where rounding
  and string formatting happen.

SEE ALSO:
  - handlers.go: Uses these types
  - payroll/types.go: The decimal-typed Result these DTOs are built from
*/
package api

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// CalculateRequest is the body for POST /api/payroll/calculate. All fields
// are optional: amounts default to 0, flags to true, period to monthly.
type CalculateRequest struct {
	BasicSalary        float64 `json:"basic_salary"`
	HousingAllowance   float64 `json:"housing_allowance"`
	TransportAllowance float64 `json:"transport_allowance"`
	UtilityAllowance   float64 `json:"utility_allowance"`
	MealAllowance      float64 `json:"meal_allowance"`
	OtherAllowances    float64 `json:"other_allowances"`
	LeaveAllowance     float64 `json:"leave_allowance"`
	ThirteenthMonth    bool    `json:"thirteenth_month"`
	PensionEnabled     *bool   `json:"pension_enabled,omitempty"`
	NHFEnabled         *bool   `json:"nhf_enabled,omitempty"`
	Period             string  `json:"period,omitempty"`
	TaxTableID         string  `json:"tax_table_id,omitempty"`
}

// QuickPAYERequest is the body for POST /api/payroll/quick-paye.
type QuickPAYERequest struct {
	GrossSalary float64 `json:"gross_salary"`
	Period      string  `json:"period,omitempty"`
}

// SaveTaxTableRequest is the body for POST /api/payroll/tax-tables. The
// config is a factory.TableJSON document.
type SaveTaxTableRequest struct {
	Config map[string]any `json:"config"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// Envelope wraps every successful response.
type Envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// CalculationDTO is the full payslip response.
type CalculationDTO struct {
	Income     IncomeDTO     `json:"income"`
	Reliefs    ReliefsDTO    `json:"reliefs"`
	Tax        TaxDTO        `json:"tax"`
	Deductions DeductionsDTO `json:"deductions"`
	Summary    SummaryDTO    `json:"summary"`
}

// IncomeDTO itemizes compensation, annual and monthly.
type IncomeDTO struct {
	Annual  IncomeBreakdownDTO `json:"annual"`
	Monthly IncomeBreakdownDTO `json:"monthly"`
}

type IncomeBreakdownDTO struct {
	Basic           float64 `json:"basic"`
	Housing         float64 `json:"housing"`
	Transport       float64 `json:"transport"`
	Utility         float64 `json:"utility"`
	Meal            float64 `json:"meal"`
	Other           float64 `json:"other"`
	Leave           float64 `json:"leave"`
	ThirteenthMonth float64 `json:"thirteenth_month"`
	Gross           float64 `json:"gross"`
}

type ReliefsDTO struct {
	CRA     float64 `json:"cra"`
	Pension float64 `json:"pension"`
	NHF     float64 `json:"nhf"`
	Total   float64 `json:"total"`
}

type TaxDTO struct {
	TaxableIncome float64      `json:"taxable_income"`
	AnnualPAYE    float64      `json:"annual_paye"`
	MonthlyPAYE   float64      `json:"monthly_paye"`
	EffectiveRate string       `json:"effective_rate"`
	Breakdown     []BandTaxDTO `json:"breakdown"`
}

type BandTaxDTO struct {
	Band   string  `json:"band"`
	Amount float64 `json:"amount"`
	Rate   string  `json:"rate"`
	Tax    float64 `json:"tax"`
}

type DeductionsDTO struct {
	Employee EmployeeDeductionsDTO `json:"employee"`
	Employer EmployerCostDTO       `json:"employer"`
}

type EmployeeDeductionsDTO struct {
	PAYE    float64 `json:"paye"`
	Pension float64 `json:"pension"`
	NHF     float64 `json:"nhf"`
	Total   float64 `json:"total"`
}

type EmployerCostDTO struct {
	Pension float64 `json:"pension"`
	NSITF   float64 `json:"nsitf"`
	ITF     float64 `json:"itf"`
	Total   float64 `json:"total"`
}

// SummaryDTO is the headline payslip figures, whole naira + formatted rate.
type SummaryDTO struct {
	GrossAnnual           float64 `json:"gross_annual"`
	GrossMonthly          float64 `json:"gross_monthly"`
	TotalDeductionsAnnual float64 `json:"total_deductions_annual"`
	NetAnnual             float64 `json:"net_annual"`
	NetMonthly            float64 `json:"net_monthly"`
	EffectiveTaxRate      string  `json:"effective_tax_rate"`
}

// QuickPAYEDTO is the quick-estimate response.
type QuickPAYEDTO struct {
	Gross            PairDTO `json:"gross"`
	EstimatedBasic   float64 `json:"estimated_basic"`
	PAYE             PairDTO `json:"paye"`
	Pension          PairDTO `json:"pension"`
	NHF              PairDTO `json:"nhf"`
	TotalDeductions  PairDTO `json:"total_deductions"`
	Net              PairDTO `json:"net"`
	EffectiveTaxRate string  `json:"effective_tax_rate"`
	Note             string  `json:"note"`
}

// PairDTO carries an annual figure alongside its monthly twelfth.
type PairDTO struct {
	Annual  float64 `json:"annual"`
	Monthly float64 `json:"monthly"`
}

// TaxTablesDTO describes the active tax schedule and statutory rates.
type TaxTablesDTO struct {
	TaxBands       []TaxBandInfoDTO       `json:"tax_bands"`
	StatutoryRates []StatutoryRateInfoDTO `json:"statutory_rates"`
	CRAFormula     string                 `json:"cra_formula"`
	EffectiveDate  string                 `json:"effective_date"`
	Source         string                 `json:"source"`
	StoredTables   []StoredTableDTO       `json:"stored_tables,omitempty"`
}

type TaxBandInfoDTO struct {
	Band  string  `json:"band"`
	Width float64 `json:"width,omitempty"` // omitted for the unbounded band
	Rate  string  `json:"rate"`
}

type StatutoryRateInfoDTO struct {
	Name        string `json:"name"`
	Rate        string `json:"rate"`
	Base        string `json:"base"`
	Description string `json:"description"`
}

// StoredTableDTO summarizes a custom table config on record.
type StoredTableDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// HistoryEntryDTO summarizes one stored calculation run.
type HistoryEntryDTO struct {
	ID          string  `json:"id"`
	Mode        string  `json:"mode"`
	TableID     string  `json:"table_id"`
	GrossAnnual float64 `json:"gross_annual"`
	PAYEAnnual  float64 `json:"paye_annual"`
	NetAnnual   float64 `json:"net_annual"`
	CreatedAt   string  `json:"created_at"`
}

// HistoryDetailDTO is one stored run with its full input and result bodies.
type HistoryDetailDTO struct {
	HistoryEntryDTO
	Input  json.RawMessage `json:"input"`
	Result json.RawMessage `json:"result"`
}

// =============================================================================
// FORMATTING - the single rounding boundary
// =============================================================================

// roundNaira rounds a decimal amount to the nearest whole naira for output.
func roundNaira(d decimal.Decimal) float64 {
	f, _ := d.Round(0).Float64()
	return f
}

// percent formats a fraction (0.07) as a short percentage string ("7%").
func percent(fraction decimal.Decimal) string {
	return fraction.Mul(decimal.NewFromInt(100)).String() + "%"
}

// percent2 formats a 0-100 rate with two decimal places ("13.25%").
func percent2(rate decimal.Decimal) string {
	return rate.StringFixed(2) + "%"
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toCalculationDTO(result payroll.Result) CalculationDTO {
	breakdown := make([]BandTaxDTO, len(result.Tax.Breakdown))
	for i, b := range result.Tax.Breakdown {
		breakdown[i] = BandTaxDTO{
			Band:   b.Description,
			Amount: roundNaira(b.Amount),
			Rate:   percent(b.Rate),
			Tax:    roundNaira(b.Tax),
		}
	}

	one := decimal.NewFromInt(1)
	twelve := decimal.NewFromInt(12)

	return CalculationDTO{
		Income: IncomeDTO{
			Annual:  toIncomeBreakdownDTO(result.Income, one),
			Monthly: toIncomeBreakdownDTO(result.Income, twelve),
		},
		Reliefs: ReliefsDTO{
			CRA:     roundNaira(result.Reliefs.CRA),
			Pension: roundNaira(result.Reliefs.Pension),
			NHF:     roundNaira(result.Reliefs.NHF),
			Total:   roundNaira(result.Reliefs.Total),
		},
		Tax: TaxDTO{
			TaxableIncome: roundNaira(result.Tax.TaxableIncome),
			AnnualPAYE:    roundNaira(result.Tax.AnnualPAYE),
			MonthlyPAYE:   roundNaira(result.Tax.MonthlyPAYE),
			EffectiveRate: percent2(result.Tax.EffectiveRate),
			Breakdown:     breakdown,
		},
		Deductions: DeductionsDTO{
			Employee: EmployeeDeductionsDTO{
				PAYE:    roundNaira(result.Deductions.PAYE),
				Pension: roundNaira(result.Deductions.Pension),
				NHF:     roundNaira(result.Deductions.NHF),
				Total:   roundNaira(result.Deductions.Total),
			},
			Employer: EmployerCostDTO{
				Pension: roundNaira(result.Employer.Pension),
				NSITF:   roundNaira(result.Employer.NSITF),
				ITF:     roundNaira(result.Employer.ITF),
				Total:   roundNaira(result.Employer.Total),
			},
		},
		Summary: SummaryDTO{
			GrossAnnual:           roundNaira(result.Income.Gross),
			GrossMonthly:          roundNaira(payroll.Monthly(result.Income.Gross)),
			TotalDeductionsAnnual: roundNaira(result.Deductions.Total),
			NetAnnual:             roundNaira(result.NetAnnual),
			NetMonthly:            roundNaira(result.NetMonthly),
			EffectiveTaxRate:      percent2(result.Tax.EffectiveRate),
		},
	}
}

func toIncomeBreakdownDTO(income payroll.IncomeBreakdown, divisor decimal.Decimal) IncomeBreakdownDTO {
	return IncomeBreakdownDTO{
		Basic:           roundNaira(income.Basic.Div(divisor)),
		Housing:         roundNaira(income.Housing.Div(divisor)),
		Transport:       roundNaira(income.Transport.Div(divisor)),
		Utility:         roundNaira(income.Utility.Div(divisor)),
		Meal:            roundNaira(income.Meal.Div(divisor)),
		Other:           roundNaira(income.Other.Div(divisor)),
		Leave:           roundNaira(income.Leave.Div(divisor)),
		ThirteenthMonth: roundNaira(income.ThirteenthMonth.Div(divisor)),
		Gross:           roundNaira(income.Gross.Div(divisor)),
	}
}

func toQuickPAYEDTO(result payroll.QuickResult) QuickPAYEDTO {
	pair := func(annual decimal.Decimal) PairDTO {
		return PairDTO{
			Annual:  roundNaira(annual),
			Monthly: roundNaira(payroll.Monthly(annual)),
		}
	}
	return QuickPAYEDTO{
		Gross:            pair(result.GrossAnnual),
		EstimatedBasic:   roundNaira(result.EstimatedBasic),
		PAYE:             pair(result.PAYEAnnual),
		Pension:          pair(result.PensionAnnual),
		NHF:              pair(result.NHFAnnual),
		TotalDeductions:  pair(result.TotalDeductions),
		Net:              pair(result.NetAnnual),
		EffectiveTaxRate: percent2(result.EffectiveRate),
		Note: "Estimate based on an assumed salary structure: " +
			"Basic 40%, Housing 20%, Transport 15%, Other 25%. " +
			"Use the full calculation with your actual breakdown for exact figures.",
	}
}
