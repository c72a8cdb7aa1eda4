/*
handlers.go - HTTP API handlers for the payroll engine

PURPOSE:
  Exposes the payroll calculation engine via REST API. Handles HTTP
  request/response, JSON serialization, input validation, and delegates to
  the pure calculation core.

ENDPOINTS:
  POST /api/payroll/calculate     Full payslip from a compensation breakdown
  POST /api/payroll/quick-paye    PAYE estimate from gross salary alone
  GET  /api/payroll/tax-tables    Active bands, statutory rates, CRA formula
  POST /api/payroll/tax-tables    Store a custom tax-table config
  GET  /api/payroll/history       Recent calculation runs
  GET  /api/payroll/history/{id}  One stored run with full input/result

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Calculation history + stored table configs
  - Factory: JSON tax-table parsing
  - Cached calculators per table id for quick lookups

VALIDATION:
  The calculation core is total over non-negative decimals and performs no
  checking of its own. Everything that can go wrong - negative amounts,
  non-finite numbers, unknown periods, unknown table ids - is rejected here
  with a 400/404 before the core is called.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Unknown tax table or history entry
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/paye"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/statutory"
	"github.com/warp/payroll-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// tableEntry pairs a parsed schedule/rates with its calculator.
type tableEntry struct {
	Schedule   paye.Schedule
	Rates      statutory.Rates
	Calculator *payroll.Calculator
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   *sqlite.Store
	Factory *factory.TableFactory

	// Cached tables for quick lookups, keyed by table id
	tables    map[string]tableEntry
	defaultID string
}

// NewHandler creates a new handler with the given store. The compiled-in
// Nigerian table is always present and is the default for calculations.
func NewHandler(store *sqlite.Store) *Handler {
	schedule := paye.DefaultSchedule()
	rates := statutory.DefaultRates()
	h := &Handler{
		Store:     store,
		Factory:   factory.NewTableFactory(),
		tables:    make(map[string]tableEntry),
		defaultID: schedule.ID,
	}
	h.tables[schedule.ID] = tableEntry{
		Schedule:   schedule,
		Rates:      rates,
		Calculator: payroll.New(schedule, rates),
	}
	return h
}

// LoadTables loads all stored tax-table configs into the cache.
func (h *Handler) LoadTables(ctx context.Context) error {
	records, err := h.Store.ListTaxTables(ctx)
	if err != nil {
		return err
	}
	for _, r := range records {
		schedule, rates, err := h.Factory.Parse(r.ConfigJSON)
		if err != nil {
			continue // Skip invalid configs
		}
		h.tables[schedule.ID] = tableEntry{
			Schedule:   schedule,
			Rates:      rates,
			Calculator: payroll.New(schedule, rates),
		}
	}
	return nil
}

func (h *Handler) lookupTable(id string) (tableEntry, bool) {
	if id == "" {
		id = h.defaultID
	}
	entry, ok := h.tables[id]
	return entry, ok
}

// =============================================================================
// CALCULATION HANDLERS
// =============================================================================

// Calculate computes a full payslip from a compensation breakdown.
// POST /api/payroll/calculate
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	input, err := toCompensationInput(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input", err)
		return
	}

	entry, ok := h.lookupTable(req.TaxTableID)
	if !ok {
		writeError(w, http.StatusNotFound,
			fmt.Sprintf("Unknown tax table %q", req.TaxTableID), nil)
		return
	}

	result := entry.Calculator.FullPayroll(input)
	dto := toCalculationDTO(result)

	h.recordCalculation(r.Context(), "full", entry.Schedule.ID, req, dto,
		result.Income.Gross, result.Tax.TaxableIncome,
		result.Tax.AnnualPAYE, result.NetAnnual)

	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: dto})
}

// QuickPAYE estimates PAYE from gross salary alone.
// POST /api/payroll/quick-paye
func (h *Handler) QuickPAYE(w http.ResponseWriter, r *http.Request) {
	var req QuickPAYERequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := validAmount("gross_salary", req.GrossSalary); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input", err)
		return
	}
	period, err := parsePeriod(req.Period)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input", err)
		return
	}

	entry, _ := h.lookupTable("")
	result := entry.Calculator.QuickEstimate(decimal.NewFromFloat(req.GrossSalary), period)
	dto := toQuickPAYEDTO(result)

	h.recordCalculation(r.Context(), "quick", entry.Schedule.ID, req, dto,
		result.GrossAnnual, decimal.Zero, result.PAYEAnnual, result.NetAnnual)

	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: dto})
}

// recordCalculation appends a history record. Failure to persist history
// never fails the calculation response.
func (h *Handler) recordCalculation(ctx context.Context, mode, tableID string,
	req, dto any, gross, taxable, payeAnnual, netAnnual decimal.Decimal) {

	inputJSON, _ := json.Marshal(req)
	resultJSON, _ := json.Marshal(dto)

	err := h.Store.SaveCalculation(ctx, sqlite.CalculationRecord{
		ID:            fmt.Sprintf("calc-%d", time.Now().UnixNano()),
		Mode:          mode,
		TableID:       tableID,
		GrossAnnual:   gross.String(),
		TaxableIncome: taxable.String(),
		PAYEAnnual:    payeAnnual.String(),
		NetAnnual:     netAnnual.String(),
		InputJSON:     string(inputJSON),
		ResultJSON:    string(resultJSON),
	})
	if err != nil {
		log.Printf("Warning: failed to record calculation: %v", err)
	}
}

// =============================================================================
// TAX TABLE HANDLERS
// =============================================================================

// GetTaxTables returns the active schedule, statutory rates and CRA formula.
// GET /api/payroll/tax-tables
func (h *Handler) GetTaxTables(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.lookupTable(r.URL.Query().Get("table_id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown tax table", nil)
		return
	}

	bands := make([]TaxBandInfoDTO, len(entry.Schedule.Bands))
	for i, b := range entry.Schedule.Bands {
		info := TaxBandInfoDTO{Band: b.Description, Rate: percent(b.Rate)}
		if !b.Unbounded() {
			info.Width = roundNaira(b.Width)
		}
		bands[i] = info
	}

	rates := entry.Rates
	dto := TaxTablesDTO{
		TaxBands: bands,
		StatutoryRates: []StatutoryRateInfoDTO{
			{
				Name: "Pension (Employee)", Rate: percent(rates.PensionEmployee),
				Base:        "basic + housing + transport",
				Description: "Employee contribution under the Pension Reform Act",
			},
			{
				Name: "Pension (Employer)", Rate: percent(rates.PensionEmployer),
				Base:        "basic + housing + transport",
				Description: "Employer contribution under the Pension Reform Act",
			},
			{
				Name: "NHF", Rate: percent(rates.NHF),
				Base: "annual basic salary",
				Description: fmt.Sprintf(
					"National Housing Fund, for annual basic of ₦%s and above",
					rates.NHFMinAnnualBasic.StringFixed(0)),
			},
			{
				Name: "NSITF", Rate: percent(rates.NSITF),
				Base:        "annual basic salary",
				Description: "Nigeria Social Insurance Trust Fund, employer only",
			},
			{
				Name: "ITF", Rate: percent(rates.ITF),
				Base: "annual basic salary",
				Description: "Industrial Training Fund, employer only. Applies to " +
					"employers with more than 5 employees or over ₦50m annual turnover",
			},
		},
		CRAFormula: fmt.Sprintf(
			"%s of gross income + higher of %s of gross income or ₦%s",
			percent(rates.CRAFixedRate), percent(rates.CRAVariableRate),
			rates.CRAFloor.StringFixed(0)),
		EffectiveDate: entry.Schedule.EffectiveDate,
		Source:        entry.Schedule.Source,
	}

	if stored, err := h.Store.ListTaxTables(r.Context()); err == nil {
		for _, rec := range stored {
			dto.StoredTables = append(dto.StoredTables, StoredTableDTO{
				ID:        rec.ID,
				Name:      rec.Name,
				CreatedAt: rec.CreatedAt.Format(time.RFC3339),
			})
		}
	}

	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: dto})
}

// SaveTaxTable validates and stores a custom tax-table config.
// POST /api/payroll/tax-tables
func (h *Handler) SaveTaxTable(w http.ResponseWriter, r *http.Request) {
	var req SaveTaxTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	configJSON, err := json.Marshal(req.Config)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid config", err)
		return
	}

	schedule, rates, err := h.Factory.Parse(string(configJSON))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid tax table config", err)
		return
	}

	rec := sqlite.TaxTableRecord{
		ID:         schedule.ID,
		Name:       schedule.Name,
		ConfigJSON: string(configJSON),
	}
	if err := h.Store.SaveTaxTable(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save tax table", err)
		return
	}

	h.tables[schedule.ID] = tableEntry{
		Schedule:   schedule,
		Rates:      rates,
		Calculator: payroll.New(schedule, rates),
	}

	writeJSON(w, http.StatusCreated, Envelope{Success: true, Data: StoredTableDTO{
		ID:   schedule.ID,
		Name: schedule.Name,
	}})
}

// =============================================================================
// HISTORY HANDLERS
// =============================================================================

// ListHistory returns recent calculation runs, newest first.
// GET /api/payroll/history?limit=N
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = n
	}

	records, err := h.Store.ListCalculations(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list history", err)
		return
	}

	entries := make([]HistoryEntryDTO, len(records))
	for i, rec := range records {
		entries[i] = toHistoryEntryDTO(rec)
	}
	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: entries})
}

// GetHistoryEntry returns one stored run with its full input and result.
// GET /api/payroll/history/{id}
func (h *Handler) GetHistoryEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.Store.GetCalculation(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get history entry", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "History entry not found", nil)
		return
	}

	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: HistoryDetailDTO{
		HistoryEntryDTO: toHistoryEntryDTO(*rec),
		Input:           json.RawMessage(rec.InputJSON),
		Result:          json.RawMessage(rec.ResultJSON),
	}})
}

func toHistoryEntryDTO(rec sqlite.CalculationRecord) HistoryEntryDTO {
	return HistoryEntryDTO{
		ID:          rec.ID,
		Mode:        rec.Mode,
		TableID:     rec.TableID,
		GrossAnnual: roundNaira(decimalFromStore(rec.GrossAnnual)),
		PAYEAnnual:  roundNaira(decimalFromStore(rec.PAYEAnnual)),
		NetAnnual:   roundNaira(decimalFromStore(rec.NetAnnual)),
		CreatedAt:   rec.CreatedAt.Format(time.RFC3339),
	}
}

func decimalFromStore(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// =============================================================================
// INPUT VALIDATION
// =============================================================================

// validAmount rejects negative and non-finite monetary values. The
// calculation core never re-checks these.
func validAmount(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s must be a finite number", name)
	}
	if v < 0 {
		return fmt.Errorf("%s must not be negative", name)
	}
	return nil
}

func parsePeriod(s string) (payroll.Period, error) {
	if s == "" {
		return payroll.PeriodMonthly, nil
	}
	p := payroll.Period(s)
	if !p.Valid() {
		return "", fmt.Errorf("period must be %q or %q", payroll.PeriodMonthly, payroll.PeriodAnnual)
	}
	return p, nil
}

func toCompensationInput(req CalculateRequest) (payroll.CompensationInput, error) {
	amounts := []struct {
		name  string
		value float64
	}{
		{"basic_salary", req.BasicSalary},
		{"housing_allowance", req.HousingAllowance},
		{"transport_allowance", req.TransportAllowance},
		{"utility_allowance", req.UtilityAllowance},
		{"meal_allowance", req.MealAllowance},
		{"other_allowances", req.OtherAllowances},
		{"leave_allowance", req.LeaveAllowance},
	}
	for _, a := range amounts {
		if err := validAmount(a.name, a.value); err != nil {
			return payroll.CompensationInput{}, err
		}
	}

	period, err := parsePeriod(req.Period)
	if err != nil {
		return payroll.CompensationInput{}, err
	}

	// Flags default to true when absent.
	pension := req.PensionEnabled == nil || *req.PensionEnabled
	nhf := req.NHFEnabled == nil || *req.NHFEnabled

	return payroll.CompensationInput{
		BasicSalary:        decimal.NewFromFloat(req.BasicSalary),
		HousingAllowance:   decimal.NewFromFloat(req.HousingAllowance),
		TransportAllowance: decimal.NewFromFloat(req.TransportAllowance),
		UtilityAllowance:   decimal.NewFromFloat(req.UtilityAllowance),
		MealAllowance:      decimal.NewFromFloat(req.MealAllowance),
		OtherAllowances:    decimal.NewFromFloat(req.OtherAllowances),
		LeaveAllowance:     decimal.NewFromFloat(req.LeaveAllowance),
		ThirteenthMonth:    req.ThirteenthMonth,
		PensionEnabled:     pension,
		NHFEnabled:         nhf,
		Period:             period,
	}, nil
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
