package calculation

import (
	"github.com/fical/fi-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

const testBaseYear = 2025

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func decPtr(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func intPtr(v int) *int { return &v }

func newTestEngine() *CalculationEngine {
	ce := NewCalculationEngine()
	ce.BaseYear = testBaseYear
	return ce
}

func testPenalties() domain.PenaltySettings {
	return domain.PenaltySettings{
		EarlyWithdrawalRate: dec(0.10),
		PenaltyFreeAge:      dec(59.5),
		HSAPenaltyRate:      dec(0.20),
		HSAPenaltyFreeAge:   65,
		RuleOf55Age:         55,
	}
}

func account(id string, t domain.AccountType, balance float64) domain.Account {
	return domain.Account{ID: id, Name: id, Type: t, Balance: dec(balance)}
}

// flatPlan is a single filer with no income and flat, non-inflating spending
func flatPlan(currentAge, lifeExpectancy int, spending float64, accounts ...domain.Account) *domain.Plan {
	return &domain.Plan{
		Version: domain.CurrentSchemaVersion,
		Name:    "test",
		Profile: domain.Profile{
			CurrentAge:     currentAge,
			LifeExpectancy: lifeExpectancy,
			TargetFIAge:    currentAge,
			FilingStatus:   domain.FilingSingle,
		},
		Accounts: accounts,
		Expenses: domain.Expenses{
			Categories: []domain.ExpenseCategory{
				{Name: "living", AnnualAmount: dec(spending), NonInflating: true},
			},
		},
		Assumptions: domain.Assumptions{
			InvestmentReturn:   decimal.Zero,
			InflationRate:      decimal.Zero,
			TraditionalTaxRate: dec(0.22),
			CapitalGainsRate:   dec(0.15),
			Penalties:          testPenalties(),
			CostBasisFallback:  dec(0.60),
		},
	}
}

func withdrawalContext(age int) WithdrawalContext {
	return WithdrawalContext{
		Age:           age,
		SelfSeparated: true,
		Rates: WithdrawalRates{
			TraditionalTaxRate: dec(0.22),
			CapitalGainsRate:   dec(0.15),
			CostBasisFallback:  dec(0.60),
		},
		Penalties: testPenalties(),
		Order:     ResolveWithdrawalOrder(nil),
		Tables:    DefaultTaxTables(),
	}
}
