package config

import (
	"github.com/fical/fi-calculator/internal/calculation"
	"github.com/fical/fi-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// CreateExamplePlan creates an example household plan
func (ip *InputParser) CreateExamplePlan() *domain.Plan {
	brokerageBasis := decimal.NewFromInt(140000)

	return &domain.Plan{
		Version: domain.CurrentSchemaVersion,
		Name:    "Example Household",
		Profile: domain.Profile{
			CurrentAge:     38,
			SpouseAge:      36,
			LifeExpectancy: 92,
			TargetFIAge:    50,
			FilingStatus:   domain.FilingMarriedJointly,
			State:          "CO",
		},
		Accounts: []domain.Account{
			{ID: "emergency", Name: "Emergency Fund", Type: domain.AccountCash, Owner: domain.OwnerJoint, Balance: decimal.NewFromInt(30000)},
			{
				ID: "brokerage", Name: "Joint Brokerage", Type: domain.AccountTaxable, Owner: domain.OwnerJoint,
				Balance: decimal.NewFromInt(210000), CostBasis: &brokerageBasis,
				Contribution: &domain.ScheduledContribution{Amount: decimal.NewFromInt(12000)},
			},
			{
				ID: "401k-self", Name: "Workplace 401k", Type: domain.AccountTraditional, Owner: domain.OwnerSelf,
				Balance: decimal.NewFromInt(320000), Is401k: true, RuleOf55: true,
				Contribution: &domain.ScheduledContribution{Amount: decimal.NewFromInt(23000)},
			},
			{ID: "roth-spouse", Name: "Spouse Roth IRA", Type: domain.AccountRoth, Owner: domain.OwnerSpouse, Balance: decimal.NewFromInt(95000)},
			{ID: "hsa", Name: "Family HSA", Type: domain.AccountHSA, Owner: domain.OwnerSelf, Balance: decimal.NewFromInt(40000)},
		},
		Income: domain.Income{
			Self: domain.Employment{
				GrossIncome:      decimal.NewFromInt(145000),
				EffectiveTaxRate: decimal.NewFromFloat(0.24),
				AnnualGrowthRate: decimal.NewFromFloat(0.02),
			},
			Spouse: &domain.Employment{
				GrossIncome:      decimal.NewFromInt(70000),
				EffectiveTaxRate: decimal.NewFromFloat(0.18),
			},
			SpouseAdditionalWorkYears: 2,
		},
		SocialSecurity: domain.SocialSecurity{
			Self:   &domain.SSBenefit{FRAMonthlyBenefit: decimal.NewFromInt(2600), ClaimingAge: 67, COLARate: decimal.NewFromFloat(0.02)},
			Spouse: &domain.SSBenefit{FRAMonthlyBenefit: decimal.NewFromInt(1500), ClaimingAge: 62, COLARate: decimal.NewFromFloat(0.02)},
		},
		Expenses: domain.Expenses{
			Categories: []domain.ExpenseCategory{
				{Name: "living", AnnualAmount: decimal.NewFromInt(54000)},
				{Name: "travel", AnnualAmount: decimal.NewFromInt(8000)},
				{Name: "childcare", AnnualAmount: decimal.NewFromInt(14000), EndYear: 2030, NonInflating: true},
			},
			Home: &domain.HomeExpense{
				Mortgage: &domain.Mortgage{
					OriginationYear: 2019,
					LoanTermYears:   30,
					InterestRate:    decimal.NewFromFloat(0.0375),
					LoanBalance:     decimal.NewFromInt(285000),
				},
				PropertyTax: decimal.NewFromInt(4200),
				Insurance:   decimal.NewFromInt(1800),
			},
		},
		LifeEvents: []domain.LifeEvent{
			{Name: "new roof", Amount: decimal.NewFromInt(18000), Year: 2032},
		},
		Assumptions: domain.Assumptions{
			InvestmentReturn:   decimal.NewFromFloat(0.06),
			InflationRate:      decimal.NewFromFloat(0.03),
			TraditionalTaxRate: decimal.NewFromFloat(0.22),
			CapitalGainsRate:   decimal.NewFromFloat(0.15),
			WithdrawalOrder:    append([]domain.AccountType(nil), calculation.DefaultWithdrawalOrder...),
			Penalties: domain.PenaltySettings{
				EarlyWithdrawalRate: decimal.NewFromFloat(0.10),
				PenaltyFreeAge:      decimal.NewFromFloat(59.5),
				HSAPenaltyRate:      decimal.NewFromFloat(0.20),
				HSAPenaltyFreeAge:   65,
				RuleOf55Age:         55,
			},
			Surplus:            domain.SurplusPolicy{Mode: domain.SurplusAccount, AccountID: "brokerage"},
			CostBasisFallback:  decimal.NewFromFloat(0.60),
			SafeWithdrawalRate: decimal.NewFromFloat(0.04),
		},
	}
}
