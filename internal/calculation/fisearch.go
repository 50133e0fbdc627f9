package calculation

import (
	"github.com/fical/fi-calculator/internal/domain"
	"github.com/fical/fi-calculator/pkg/money"
	"github.com/shopspring/decimal"
)

const (
	// MaxProbeAge is the extended life expectancy used to find the true
	// depletion age of a plan.
	MaxProbeAge = 120

	// Confidence thresholds in buffer years past life expectancy
	HighConfidenceBuffer     = 10
	ModerateConfidenceBuffer = 5

	// Spending cuts tried by shortfall guidance, in percentage points
	spendingCutStep = 5
	spendingCutMax  = 80
)

// Evaluation is the outcome of one projection at a candidate FI age
type Evaluation struct {
	FIAge           int
	Projection      domain.Projection
	ShortfallAge    *int
	TerminalBalance decimal.Decimal
}

// Viable reports whether the evaluation has no shortfall year
func (e Evaluation) Viable() bool {
	return e.ShortfallAge == nil
}

// Evaluate runs the full projection with the FI age overridden. It is a pure
// function of the plan, the FI age and the what-if.
func (ce *CalculationEngine) Evaluate(plan *domain.Plan, fiAge int, whatIf domain.WhatIf) Evaluation {
	return ce.evaluate(plan, RunOptions{FIAge: fiAge, WhatIf: whatIf})
}

func (ce *CalculationEngine) evaluate(plan *domain.Plan, opts RunOptions) Evaluation {
	p := ce.GenerateProjection(plan, opts)
	ev := Evaluation{
		FIAge:           opts.FIAge,
		Projection:      p,
		TerminalBalance: p.TerminalBalance(),
	}
	if y, ok := p.FirstShortfall(); ok {
		age := y.Age
		ev.ShortfallAge = &age
	}
	return ev
}

// IsViable reports whether retiring at fiAge never produces a shortfall year
func (ce *CalculationEngine) IsViable(plan *domain.Plan, fiAge int, whatIf domain.WhatIf) bool {
	return ce.Evaluate(plan, fiAge, whatIf).Viable()
}

// latestFIAge is the last candidate age of the search
func latestFIAge(profile domain.Profile) int {
	if profile.LifeExpectancy-1 > profile.CurrentAge {
		return profile.LifeExpectancy - 1
	}
	return profile.CurrentAge
}

// CalculateAchievableFIAge scans every candidate FI age from the current age
// to one year before life expectancy. Among viable ages it picks the one whose
// terminal balance is closest to the plan's target, preferring the younger age
// on ties. Distance to target is not monotone in FI age, so every age is run.
func (ce *CalculationEngine) CalculateAchievableFIAge(plan *domain.Plan, whatIf domain.WhatIf) domain.AchievableFIResult {
	profile := plan.Profile
	target := plan.Assumptions.TerminalBalanceTarget

	var best *Evaluation
	var bestDistance decimal.Decimal
	for age := profile.CurrentAge; age <= latestFIAge(profile); age++ {
		ev := ce.Evaluate(plan, age, whatIf)
		if !ev.Viable() {
			continue
		}
		distance := ev.TerminalBalance.Sub(target).Abs()
		if best == nil || distance.LessThan(bestDistance) {
			best = &ev
			bestDistance = distance
		}
	}

	if best == nil {
		guidance := ce.shortfallGuidance(plan, whatIf)
		ce.Logger.Infof("no viable FI age between %d and %d; runs out at %d",
			profile.CurrentAge, latestFIAge(profile), guidance.RunsOutAtAge)
		return domain.AchievableFIResult{Guidance: &guidance}
	}

	depletionAge := ce.DepletionAge(plan, best.FIAge, whatIf)
	buffer := BufferYears(depletionAge, profile.LifeExpectancy)
	age := best.FIAge

	ce.Logger.Debugf("FI search: age %d, terminal balance %s, depletion age %d",
		age, best.TerminalBalance.StringFixed(2), depletionAge)

	return domain.AchievableFIResult{
		Age:             &age,
		Confidence:      ClassifyConfidence(buffer),
		BufferYears:     buffer,
		DepletionAge:    depletionAge,
		YearsUntilFI:    age - profile.CurrentAge,
		FIAtCurrentAge:  age == profile.CurrentAge,
		TerminalBalance: best.TerminalBalance,
	}
}

// DepletionAge re-runs the projection out to MaxProbeAge and returns the first
// shortfall age. A plan that never depletes returns MaxProbeAge + 1.
func (ce *CalculationEngine) DepletionAge(plan *domain.Plan, fiAge int, whatIf domain.WhatIf) int {
	probeTo := MaxProbeAge
	if plan.Profile.LifeExpectancy > probeTo {
		probeTo = plan.Profile.LifeExpectancy
	}
	ev := ce.evaluate(plan, RunOptions{FIAge: fiAge, LifeExpectancy: probeTo, WhatIf: whatIf})
	if ev.ShortfallAge != nil {
		return *ev.ShortfallAge
	}
	return probeTo + 1
}

// BufferYears is the number of fully funded years past life expectancy
func BufferYears(depletionAge, lifeExpectancy int) int {
	return (depletionAge - 1) - lifeExpectancy
}

// ClassifyConfidence maps buffer years to a confidence class
func ClassifyConfidence(bufferYears int) domain.Confidence {
	switch {
	case bufferYears >= HighConfidenceBuffer:
		return domain.ConfidenceHigh
	case bufferYears >= ModerateConfidenceBuffer:
		return domain.ConfidenceModerate
	default:
		return domain.ConfidenceTight
	}
}

// shortfallGuidance turns a plan with no viable FI age into actionable numbers:
// the age money runs out when working as long as possible, the smallest
// spending cut that restores viability, and a linear estimate of the extra
// yearly savings needed.
func (ce *CalculationEngine) shortfallGuidance(plan *domain.Plan, whatIf domain.WhatIf) domain.ShortfallGuidance {
	profile := plan.Profile
	latest := latestFIAge(profile)

	g := domain.ShortfallGuidance{RunsOutAtAge: ce.DepletionAge(plan, latest, whatIf)}

	for pct := spendingCutStep; pct <= spendingCutMax; pct += spendingCutStep {
		cut := decimal.NewFromInt(int64(pct))
		scale := money.One.Sub(money.FromPercent(cut))
		if ce.evaluate(plan, RunOptions{FIAge: latest, WhatIf: whatIf, SpendingScale: scale}).Viable() {
			g.SpendingCutPercent = &cut
			break
		}
	}

	unmet := ce.Evaluate(plan, latest, whatIf).Projection.TotalUnmetNeed()
	years := profile.LifeExpectancy - profile.CurrentAge
	if years < 1 {
		years = 1
	}
	g.TotalUnmetNeed = unmet
	g.AdditionalAnnualSavings = money.RoundCents(unmet.Div(decimal.NewFromInt(int64(years))))
	return g
}
