package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndGetCalculation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := sqlite.CalculationRecord{
		ID:            "calc-1",
		Mode:          "full",
		TableID:       "ng-pita-2021",
		GrossAnnual:   "6000000",
		TaxableIncome: "4180000",
		PAYEAnnual:    "795200",
		NetAnnual:     "4784800",
		InputJSON:     `{"basic_salary":200000}`,
		ResultJSON:    `{"success":true}`,
	}
	require.NoError(t, store.SaveCalculation(ctx, rec))

	got, err := store.GetCalculation(ctx, "calc-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "full", got.Mode)
	assert.Equal(t, "795200", got.PAYEAnnual)
	assert.False(t, got.CreatedAt.IsZero(), "created_at should be stamped on save")
}

func TestGetCalculation_NotFound(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetCalculation(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListCalculations_NewestFirstWithLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"calc-a", "calc-b", "calc-c"} {
		require.NoError(t, store.SaveCalculation(ctx, sqlite.CalculationRecord{
			ID: id, Mode: "quick", TableID: "ng-pita-2021",
			GrossAnnual: "0", TaxableIncome: "0", PAYEAnnual: "0", NetAnnual: "0",
			InputJSON: "{}", ResultJSON: "{}",
		}))
	}

	records, err := store.ListCalculations(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestTaxTables_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := sqlite.TaxTableRecord{
		ID:         "custom-2026",
		Name:       "Hypothetical 2026",
		ConfigJSON: `{"id":"custom-2026","bands":[{"rate":0.1}]}`,
	}
	require.NoError(t, store.SaveTaxTable(ctx, rec))

	got, err := store.GetTaxTable(ctx, "custom-2026")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec.ConfigJSON, got.ConfigJSON)

	// Saving again replaces rather than erroring.
	rec.Name = "Hypothetical 2026 rev2"
	require.NoError(t, store.SaveTaxTable(ctx, rec))

	tables, err := store.ListTaxTables(ctx)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "Hypothetical 2026 rev2", tables[0].Name)
}

func TestGetTaxTable_NotFound(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetTaxTable(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}
