package output

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fical/fi-calculator/internal/calculation"
	"github.com/fical/fi-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

func snapshotPlan() *domain.Plan {
	return &domain.Plan{
		Version: domain.CurrentSchemaVersion,
		Name:    "snapshot",
		Profile: domain.Profile{
			CurrentAge:     60,
			LifeExpectancy: 63,
			TargetFIAge:    60,
			FilingStatus:   domain.FilingSingle,
		},
		Accounts: []domain.Account{
			{ID: "cash", Type: domain.AccountCash, Balance: decimal.NewFromInt(100000)},
		},
		Expenses: domain.Expenses{Categories: []domain.ExpenseCategory{
			{Name: "living", AnnualAmount: decimal.NewFromInt(10000)},
		}},
		Assumptions: domain.Assumptions{
			SafeWithdrawalRate: decimal.NewFromFloat(0.04),
		},
	}
}

// TestEngineSnapshot produces a deterministic snapshot of the engine's headline numbers.
func TestEngineSnapshot(t *testing.T) {
	// Fix time for determinism
	calculation.SetNowFunc(func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) })
	defer calculation.SetNowFunc(time.Now)

	eng := calculation.NewCalculationEngine()
	report, err := eng.Analyze(context.Background(), snapshotPlan(), domain.WhatIf{})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	data, err := ConsoleFormatter{}.Format(report)
	if err != nil {
		t.Fatalf("format: %v", err)
	}

	goldenPath := filepath.Join("testdata", "engine_snapshot.golden.txt")
	update := os.Getenv("UPDATE_GOLDEN") == "1"
	if update {
		if err := os.WriteFile(goldenPath, data, 0644); err != nil {
			t.Fatalf("write golden: %v", err)
		}
	}
	golden, err := os.ReadFile(goldenPath)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	if string(golden) == "" {
		t.Fatalf("empty golden snapshot")
	}
	if string(golden) != string(data) {
		t.Fatalf("engine snapshot drift; run UPDATE_GOLDEN=1 to accept\n--- have ---\n%s\n--- want ---\n%s", string(data), string(golden))
	}
}
