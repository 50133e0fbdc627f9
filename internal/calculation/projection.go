package calculation

import (
	"strings"

	"github.com/fical/fi-calculator/internal/domain"
	"github.com/fical/fi-calculator/pkg/money"
	"github.com/shopspring/decimal"
)

// RunOptions are the per-run overrides applied on top of a plan
type RunOptions struct {
	FIAge          int
	LifeExpectancy int // 0 uses the plan's life expectancy
	WhatIf         domain.WhatIf
	SpendingScale  decimal.Decimal // extra spending multiplier, zero means 1
}

func (o RunOptions) spendingMultiplier() decimal.Decimal {
	m := o.WhatIf.SpendingMultiplier()
	if !o.SpendingScale.IsZero() {
		m = m.Mul(o.SpendingScale)
	}
	return m
}

// GenerateProjection simulates the plan one year at a time from the current
// age through life expectancy. Every call builds its own balance sheet, so
// runs never share mutable state and identical inputs produce identical output.
func (ce *CalculationEngine) GenerateProjection(plan *domain.Plan, opts RunOptions) domain.Projection {
	profile := plan.Profile
	assumptions := plan.Assumptions
	baseYear := ce.baseYear()

	lifeExpectancy := opts.LifeExpectancy
	if lifeExpectancy == 0 {
		lifeExpectancy = profile.LifeExpectancy
	}
	if lifeExpectancy < profile.CurrentAge {
		return domain.Projection{}
	}

	fiAge := opts.FIAge
	hasSpouse := profile.HasSpouse()
	growthRate := opts.WhatIf.EffectiveReturn(assumptions.InvestmentReturn)
	multiplier := opts.spendingMultiplier()
	stateIncome, stateCG := ce.Tables.StateRates(profile, assumptions)

	wcBase := WithdrawalContext{
		Rates: WithdrawalRates{
			TraditionalTaxRate:    assumptions.TraditionalTaxRate,
			StateIncomeRate:       stateIncome,
			CapitalGainsRate:      assumptions.CapitalGainsRate,
			StateCapitalGainsRate: stateCG,
			CostBasisFallback:     assumptions.CostBasisFallback,
		},
		Penalties: assumptions.Penalties,
		Order:     ResolveWithdrawalOrder(assumptions.WithdrawalOrder),
		Tables:    ce.Tables,
	}

	sheet := NewBalanceSheet(plan.Accounts, assumptions.CostBasisFallback)
	projection := make(domain.Projection, 0, lifeExpectancy-profile.CurrentAge+1)

	for age := profile.CurrentAge; age <= lifeExpectancy; age++ {
		yearsElapsed := age - profile.CurrentAge
		year := baseYear + yearsElapsed
		spouseAge := profile.SpouseAgeAt(age)

		yp := domain.YearProjection{
			Age:       age,
			SpouseAge: spouseAge,
			Year:      year,
			Phase:     DeterminePhase(age, fiAge),
		}

		// Contributions land before anything is withdrawn and are paid from income
		contributions := sheet.ApplyScheduledContributions(year)
		emp := EmploymentIncome(&plan.Income, age, fiAge, yearsElapsed, hasSpouse, contributions)
		exp := YearExpenses(&plan.Expenses, plan.LifeEvents, year, baseYear, assumptions.InflationRate, multiplier)

		ss := SocialSecurityIncome(plan.SocialSecurity.Self, opts.WhatIf.SSClaimingAge, age)
		spouseSS := decimal.Zero
		if hasSpouse {
			spouseSS = SocialSecurityIncome(plan.SocialSecurity.Spouse, opts.WhatIf.SpouseSSClaimingAge, spouseAge)
		}
		pension := PensionIncome(plan.Income.Pensions, age, spouseAge)
		other := RetirementIncomeStreams(plan.Income.Streams, age, spouseAge, assumptions.InflationRate)
		passive := ss.Add(spouseSS).Add(pension).Add(other)

		gap := exp.Total.Sub(emp.Net.Add(passive))

		yp.GrossIncome = emp.Gross
		yp.SpouseGrossIncome = emp.SpouseGross
		yp.EmploymentTax = emp.Tax
		yp.Contributions = emp.Contributions
		yp.NetIncome = emp.Net
		yp.SocialSecurity = ss
		yp.SpouseSocialSecurity = spouseSS
		yp.Pension = pension
		yp.OtherIncome = other
		yp.PassiveIncome = passive
		yp.Expenses = exp.Total
		yp.LifeEvents = exp.LifeEvents
		yp.MortgagePayment = exp.MortgagePayment
		yp.MortgagePayoff = exp.MortgagePayoff
		yp.MortgageBalance = exp.MortgageBalance

		if gap.IsPositive() {
			yp.Deficit = gap
			wc := wcBase
			wc.Age = age
			wc.SpouseAge = spouseAge
			wc.SelfSeparated = age >= fiAge
			wc.SpouseSeparated = plan.Income.Spouse == nil ||
				age >= SpouseStopAge(fiAge, plan.Income.SpouseAdditionalWorkYears)

			wr := WithdrawForDeficit(sheet, gap, wc)
			yp.Withdrawal = wr.Gross
			yp.WithdrawalNet = wr.Net
			yp.WithdrawalTax = wr.FederalTax
			yp.WithdrawalState = wr.StateTax
			yp.Penalty = wr.Penalty
			yp.WithdrawalSources = wr.Sources
			yp.IsShortfall = !wr.Covered()
			yp.UnmetNeed = wr.Unmet
		} else if gap.IsNegative() {
			yp.Surplus = gap.Neg()
			yp.SurplusRouted = ce.routeSurplus(sheet, assumptions.Surplus, yp.Surplus)
		}

		// A shortfall year models total depletion, so nothing grows
		if !yp.IsShortfall {
			sheet.Grow(growthRate)
		}

		yp.Balances = sheet.ByType()
		yp.NetWorth = sheet.Total()
		roundYear(&yp)

		if ce.Debug {
			ce.Logger.Debugf("age %d (%d) %s: income=%s passive=%s expenses=%s withdrawal=%s penalty=%s net_worth=%s shortfall=%t",
				age, year, yp.Phase,
				yp.NetIncome.StringFixed(2), yp.PassiveIncome.StringFixed(2), yp.Expenses.StringFixed(2),
				yp.Withdrawal.StringFixed(2), yp.Penalty.StringFixed(2), yp.NetWorth.StringFixed(2), yp.IsShortfall)
			if len(yp.WithdrawalSources) > 0 {
				ce.Logger.Debugf("  sources: %s", strings.Join(yp.WithdrawalSources, ", "))
			}
		}

		projection = append(projection, yp)
	}

	return projection
}

// routeSurplus applies the surplus policy and returns the amount deposited
func (ce *CalculationEngine) routeSurplus(sheet *BalanceSheet, policy domain.SurplusPolicy, surplus decimal.Decimal) decimal.Decimal {
	if policy.Mode != domain.SurplusAccount || policy.AccountID == "" {
		return decimal.Zero
	}
	if err := sheet.Deposit(policy.AccountID, surplus); err != nil {
		ce.Logger.Warnf("surplus not routed: %v", err)
		return decimal.Zero
	}
	return surplus
}

// roundYear rounds the recorded amounts to cents. The balance sheet itself
// keeps full precision between years.
func roundYear(yp *domain.YearProjection) {
	for _, d := range []*decimal.Decimal{
		&yp.GrossIncome, &yp.SpouseGrossIncome, &yp.EmploymentTax, &yp.Contributions, &yp.NetIncome,
		&yp.SocialSecurity, &yp.SpouseSocialSecurity, &yp.Pension, &yp.OtherIncome, &yp.PassiveIncome,
		&yp.Expenses, &yp.LifeEvents, &yp.MortgagePayment, &yp.MortgagePayoff, &yp.MortgageBalance,
		&yp.Deficit, &yp.Surplus, &yp.SurplusRouted,
		&yp.Withdrawal, &yp.WithdrawalNet, &yp.WithdrawalTax, &yp.WithdrawalState, &yp.Penalty,
		&yp.NetWorth, &yp.UnmetNeed,
		&yp.Balances.Cash, &yp.Balances.Taxable, &yp.Balances.Traditional, &yp.Balances.Roth,
		&yp.Balances.HSA, &yp.Balances.Education, &yp.Balances.Other,
	} {
		*d = money.RoundCents(*d)
	}
}
