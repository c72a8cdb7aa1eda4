package statutory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/statutory"
)

func d(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

func df(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// =============================================================================
// CRA TESTS
// =============================================================================

func TestCRA_FloorDominatesBelowTwentyMillion(t *testing.T) {
	// GIVEN: Gross incomes where 1% of gross is under the 200,000 floor
	// WHEN: Computing CRA
	// THEN: CRA = 20% of gross + 200,000

	rates := statutory.DefaultRates()

	cases := []struct {
		gross    int64
		expected int64
	}{
		{0, 200000},
		{1000000, 400000},
		{6000000, 1400000},
	}
	for _, c := range cases {
		got := rates.CRA(d(c.gross))
		if !got.Equal(d(c.expected)) {
			t.Errorf("CRA(%d): expected %d, got %v", c.gross, c.expected, got)
		}
	}
}

func TestCRA_VariableTermAboveTwentyMillion(t *testing.T) {
	// At 20,000,000 the 1% term equals the floor exactly; above it the 1%
	// term takes over.
	rates := statutory.DefaultRates()

	if got := rates.CRA(d(20000000)); !got.Equal(d(4200000)) {
		t.Errorf("CRA(20m): expected 4200000, got %v", got)
	}
	if got := rates.CRA(d(30000000)); !got.Equal(d(6300000)) {
		// 20% = 6,000,000; 1% = 300,000 > floor
		t.Errorf("CRA(30m): expected 6300000, got %v", got)
	}
}

// =============================================================================
// PENSION TESTS
// =============================================================================

func TestPensionBase_BasicHousingTransportOnly(t *testing.T) {
	base := statutory.PensionBase(d(2400000), d(1200000), d(900000))
	if !base.Equal(d(4500000)) {
		t.Errorf("expected pension base 4500000, got %v", base)
	}
}

func TestPension_DisabledZeroesBothShares(t *testing.T) {
	// Disabling pension zeroes the employer share too; the calculation
	// reports employer cost off the same flag.
	rates := statutory.DefaultRates()
	base := d(4500000)

	if got := rates.EmployeePension(base, true); !got.Equal(d(360000)) {
		t.Errorf("employee pension: expected 360000, got %v", got)
	}
	if got := rates.EmployerPension(base, true); !got.Equal(d(450000)) {
		t.Errorf("employer pension: expected 450000, got %v", got)
	}
	if got := rates.EmployeePension(base, false); !got.IsZero() {
		t.Errorf("disabled employee pension: expected 0, got %v", got)
	}
	if got := rates.EmployerPension(base, false); !got.IsZero() {
		t.Errorf("disabled employer pension: expected 0, got %v", got)
	}
}

// =============================================================================
// NHF / NSITF / ITF TESTS
// =============================================================================

func TestNHF_ThresholdBoundary(t *testing.T) {
	// GIVEN: Annual basic exactly at, and one kobo below, the 360,000 floor
	// WHEN: Computing NHF
	// THEN: 9,000 at the threshold, zero just below it

	rates := statutory.DefaultRates()

	if got := rates.NHFContribution(d(360000), true); !got.Equal(d(9000)) {
		t.Errorf("NHF at threshold: expected 9000, got %v", got)
	}
	if got := rates.NHFContribution(df("359999.99"), true); !got.IsZero() {
		t.Errorf("NHF below threshold: expected 0, got %v", got)
	}
	if got := rates.NHFContribution(d(2400000), false); !got.IsZero() {
		t.Errorf("NHF disabled: expected 0, got %v", got)
	}
}

func TestNSITFAndITF_Unconditional(t *testing.T) {
	rates := statutory.DefaultRates()
	basic := d(2400000)

	if got := rates.NSITFContribution(basic); !got.Equal(d(24000)) {
		t.Errorf("NSITF: expected 24000, got %v", got)
	}
	if got := rates.ITFContribution(basic); !got.Equal(d(24000)) {
		t.Errorf("ITF: expected 24000, got %v", got)
	}
	// No flags gate these, even for tiny salaries.
	if got := rates.NSITFContribution(d(100)); !got.Equal(d(1)) {
		t.Errorf("NSITF on 100: expected 1, got %v", got)
	}
}
