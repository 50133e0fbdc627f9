package calculation

import (
	"context"
	"fmt"

	"github.com/fical/fi-calculator/internal/domain"
)

// CalculationEngine orchestrates projections, FI search and summaries.
// It holds no per-run state; every projection owns its own balance sheet.
type CalculationEngine struct {
	Tables   *TaxTables
	BaseYear int  // calendar year of the first projected year, 0 uses the clock
	Debug    bool // Enable per-year debug output
	Logger   Logger
}

// NewCalculationEngine creates a new calculation engine with the built-in tables
func NewCalculationEngine() *CalculationEngine {
	return &CalculationEngine{
		Tables: DefaultTaxTables(),
		Logger: NopLogger{},
	}
}

// SetLogger sets the logger for the calculation engine. If nil is provided, a no-op logger is used.
func (ce *CalculationEngine) SetLogger(l Logger) {
	ce.Logger = orNop(l)
}

func (ce *CalculationEngine) baseYear() int {
	if ce.BaseYear != 0 {
		return ce.BaseYear
	}
	return currentYear()
}

// ValidateInputs checks the inputs the engine cannot run without. Deeper
// validation of a plan file belongs to the config layer.
func ValidateInputs(plan *domain.Plan, whatIf domain.WhatIf) error {
	if plan == nil {
		return fmt.Errorf("%w: plan is nil", domain.ErrInvalidPlan)
	}
	if plan.Profile.CurrentAge <= 0 {
		return fmt.Errorf("%w: current_age must be positive", domain.ErrMissingProfile)
	}
	if plan.Profile.LifeExpectancy <= plan.Profile.CurrentAge {
		return fmt.Errorf("%w: life_expectancy (%d) must be after current_age (%d)",
			domain.ErrInvalidPlan, plan.Profile.LifeExpectancy, plan.Profile.CurrentAge)
	}
	if !whatIf.SpendingMultiplier().IsPositive() {
		return fmt.Errorf("%w: what-if spending_multiplier_delta must be above -100%% (got %s)",
			domain.ErrInvalidPlan, whatIf.SpendingMultiplierDelta.String())
	}
	for _, age := range []*int{whatIf.SSClaimingAge, whatIf.SpouseSSClaimingAge} {
		if age == nil {
			continue
		}
		if _, err := ClaimingFactor(*age); err != nil {
			return fmt.Errorf("what-if: %w", err)
		}
	}
	return nil
}

// Project runs a single projection at the plan's target FI age
func (ce *CalculationEngine) Project(ctx context.Context, plan *domain.Plan, whatIf domain.WhatIf) (domain.Projection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateInputs(plan, whatIf); err != nil {
		return nil, err
	}
	return ce.GenerateProjection(plan, RunOptions{FIAge: targetFIAge(plan), WhatIf: whatIf}), nil
}

// Analyze runs the projection at the target FI age, the FI age search and the
// summary, and bundles them into one report.
func (ce *CalculationEngine) Analyze(ctx context.Context, plan *domain.Plan, whatIf domain.WhatIf) (*domain.PlanReport, error) {
	projection, err := ce.Project(ctx, plan, whatIf)
	if err != nil {
		return nil, err
	}

	fiResult := ce.CalculateAchievableFIAge(plan, whatIf)
	summary := ce.Summarize(plan, projection, whatIf)

	ce.Logger.Infof("plan %q: target FI age %d, achievable FI age %s, confidence %s",
		plan.Name, summary.FIAge, formatAge(fiResult.Age), fiResult.Confidence)

	return &domain.PlanReport{
		PlanName:   plan.Name,
		BaseYear:   ce.baseYear(),
		WhatIf:     whatIf,
		Summary:    summary,
		FIResult:   fiResult,
		Projection: projection,
	}, nil
}

// targetFIAge returns the plan's target FI age, defaulting to the current age
// when unset and clamping into the projected range.
func targetFIAge(plan *domain.Plan) int {
	age := plan.Profile.TargetFIAge
	if age < plan.Profile.CurrentAge {
		age = plan.Profile.CurrentAge
	}
	if age > plan.Profile.LifeExpectancy {
		age = plan.Profile.LifeExpectancy
	}
	return age
}

func formatAge(age *int) string {
	if age == nil {
		return "none"
	}
	return fmt.Sprintf("%d", *age)
}
