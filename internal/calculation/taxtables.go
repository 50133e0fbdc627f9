package calculation

import (
	"strings"

	"github.com/fical/fi-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// TAX TABLE ASSUMPTIONS:
//
// 1. Rates are flat effective rates, not marginal brackets.
// 2. State capital gains are taxed as ordinary income except where noted (WA).
// 3. States without an income tax carry zero rates; unknown jurisdictions do too.
// 4. Penalty-free ages follow IRS defaults (59.5 for retirement accounts, 65 for HSA)
//    and may be overridden per plan through PenaltySettings.

// JurisdictionRates are the effective state rates for one jurisdiction
type JurisdictionRates struct {
	IncomeRate       decimal.Decimal
	CapitalGainsRate decimal.Decimal
}

// TaxTables is static lookup data for jurisdictions and penalty-free ages
type TaxTables struct {
	States          map[string]JurisdictionRates
	PenaltyFreeAges map[domain.AccountType]decimal.Decimal
}

func flat(rate float64) JurisdictionRates {
	r := decimal.NewFromFloat(rate)
	return JurisdictionRates{IncomeRate: r, CapitalGainsRate: r}
}

// DefaultTaxTables returns the built-in jurisdiction and penalty tables
func DefaultTaxTables() *TaxTables {
	return &TaxTables{
		States: map[string]JurisdictionRates{
			"AK": flat(0),
			"FL": flat(0),
			"NV": flat(0),
			"NH": flat(0),
			"SD": flat(0),
			"TN": flat(0),
			"TX": flat(0),
			"WY": flat(0),
			"WA": {IncomeRate: decimal.Zero, CapitalGainsRate: decimal.NewFromFloat(0.07)},
			"AZ": flat(0.025),
			"CA": flat(0.093),
			"CO": flat(0.044),
			"GA": flat(0.0539),
			"IL": flat(0.0495),
			"MA": flat(0.05),
			"MD": flat(0.0575),
			"MI": flat(0.0425),
			"MN": flat(0.0785),
			"NC": flat(0.045),
			"NJ": flat(0.0637),
			"NY": flat(0.0685),
			"OH": flat(0.035),
			"OR": flat(0.0875),
			"PA": flat(0.0307),
			"UT": flat(0.0465),
			"VA": flat(0.0575),
			"WI": flat(0.053),
		},
		PenaltyFreeAges: map[domain.AccountType]decimal.Decimal{
			domain.AccountTraditional: decimal.NewFromFloat(59.5),
			domain.AccountRoth:        decimal.NewFromFloat(59.5),
			domain.AccountHSA:         decimal.NewFromInt(65),
		},
	}
}

// Jurisdiction returns the rates for a state code; unknown codes are untaxed
func (t *TaxTables) Jurisdiction(state string) JurisdictionRates {
	if r, ok := t.States[strings.ToUpper(strings.TrimSpace(state))]; ok {
		return r
	}
	return JurisdictionRates{IncomeRate: decimal.Zero, CapitalGainsRate: decimal.Zero}
}

// StateRates resolves the state income and capital gains rates for a plan,
// honouring explicit overrides in the assumptions.
func (t *TaxTables) StateRates(profile domain.Profile, a domain.Assumptions) (income, capitalGains decimal.Decimal) {
	j := t.Jurisdiction(profile.State)
	income, capitalGains = j.IncomeRate, j.CapitalGainsRate
	if a.StateIncomeRate != nil {
		income = *a.StateIncomeRate
	}
	if a.StateCapitalGainsRate != nil {
		capitalGains = *a.StateCapitalGainsRate
	}
	return income, capitalGains
}

// PenaltyFreeAge returns the age at which withdrawals from an account type stop
// being penalised. Plan settings win over the table; zero means always free.
func (t *TaxTables) PenaltyFreeAge(accountType domain.AccountType, p domain.PenaltySettings) decimal.Decimal {
	switch accountType {
	case domain.AccountTraditional, domain.AccountRoth:
		if p.PenaltyFreeAge.IsPositive() {
			return p.PenaltyFreeAge
		}
	case domain.AccountHSA:
		if p.HSAPenaltyFreeAge > 0 {
			return decimal.NewFromInt(int64(p.HSAPenaltyFreeAge))
		}
	}
	if age, ok := t.PenaltyFreeAges[accountType]; ok {
		return age
	}
	return decimal.Zero
}
