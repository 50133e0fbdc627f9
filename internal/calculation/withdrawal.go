package calculation

import (
	"fmt"
	"sort"

	"github.com/fical/fi-calculator/internal/domain"
	"github.com/fical/fi-calculator/pkg/money"
	"github.com/shopspring/decimal"
)

// DefaultWithdrawalOrder is used when a plan does not configure one
var DefaultWithdrawalOrder = []domain.AccountType{
	domain.AccountTaxable,
	domain.AccountTraditional,
	domain.AccountRoth,
	domain.AccountOther,
	domain.Account529,
}

// ResolveWithdrawalOrder returns the priority order actually iterated. Cash is
// always drawn first and HSA always last, so both are removed here; types the
// plan left out are appended in canonical order so no balance is unreachable.
func ResolveWithdrawalOrder(configured []domain.AccountType) []domain.AccountType {
	if len(configured) == 0 {
		configured = DefaultWithdrawalOrder
	}
	seen := make(map[domain.AccountType]bool)
	order := make([]domain.AccountType, 0, len(domain.AllAccountTypes))
	add := func(t domain.AccountType) {
		if t == domain.AccountCash || t == domain.AccountHSA || seen[t] || !t.Valid() {
			return
		}
		seen[t] = true
		order = append(order, t)
	}
	for _, t := range configured {
		add(t)
	}
	for _, t := range DefaultWithdrawalOrder {
		add(t)
	}
	return order
}

// WithdrawalRates are the flat rates used for gross-up
type WithdrawalRates struct {
	TraditionalTaxRate    decimal.Decimal
	StateIncomeRate       decimal.Decimal
	CapitalGainsRate      decimal.Decimal
	StateCapitalGainsRate decimal.Decimal
	CostBasisFallback     decimal.Decimal
}

// WithdrawalContext is everything the withdrawal module needs about the year
type WithdrawalContext struct {
	Age             int
	SpouseAge       int
	SelfSeparated   bool // primary has stopped working
	SpouseSeparated bool
	Rates           WithdrawalRates
	Penalties       domain.PenaltySettings
	Order           []domain.AccountType // already resolved
	Tables          *TaxTables
}

// WithdrawalResult summarises the draws made to cover one year's deficit
type WithdrawalResult struct {
	Gross      decimal.Decimal
	Net        decimal.Decimal
	FederalTax decimal.Decimal
	StateTax   decimal.Decimal
	Penalty    decimal.Decimal
	Unmet      decimal.Decimal
	Sources    []string
}

// Covered reports whether the deficit was met
func (wr WithdrawalResult) Covered() bool {
	return money.Covered(wr.Unmet)
}

// OwnerAge returns the age that governs an account's withdrawal rules
func (wc WithdrawalContext) OwnerAge(a domain.Account) int {
	return ownerAge(a.EffectiveOwner(), wc.Age, wc.SpouseAge)
}

func (wc WithdrawalContext) separated(a domain.Account) bool {
	switch a.EffectiveOwner() {
	case domain.OwnerSpouse:
		return wc.SpouseSeparated
	case domain.OwnerJoint:
		return wc.SelfSeparated || wc.SpouseSeparated
	default:
		return wc.SelfSeparated
	}
}

// IsPenaltyFree reports whether a withdrawal from a is free of the early
// withdrawal penalty this year.
func (wc WithdrawalContext) IsPenaltyFree(a domain.Account) bool {
	age := wc.OwnerAge(a)
	switch a.Type {
	case domain.AccountTraditional, domain.AccountRoth:
		if decimal.NewFromInt(int64(age)).GreaterThanOrEqual(wc.Tables.PenaltyFreeAge(a.Type, wc.Penalties)) {
			return true
		}
		ruleAge := wc.Penalties.RuleOf55Age
		if ruleAge == 0 {
			ruleAge = 55
		}
		return a.Is401k && a.RuleOf55 && wc.separated(a) && age >= ruleAge
	case domain.AccountHSA:
		return decimal.NewFromInt(int64(age)).GreaterThanOrEqual(wc.Tables.PenaltyFreeAge(a.Type, wc.Penalties))
	default:
		return true
	}
}

// penaltyRate returns the penalty applicable to a withdrawal from a
func (wc WithdrawalContext) penaltyRate(a domain.Account) decimal.Decimal {
	if wc.IsPenaltyFree(a) {
		return decimal.Zero
	}
	if a.Type == domain.AccountHSA {
		return wc.Penalties.HSAPenaltyRate
	}
	return wc.Penalties.EarlyWithdrawalRate
}

// grossUp describes how a gross draw from one account splits into taxes,
// penalty and net proceeds.
type grossUp struct {
	federalRate decimal.Decimal // applied to the taxable portion
	stateRate   decimal.Decimal
	penaltyRate decimal.Decimal // applied to the whole draw
	taxedShare  decimal.Decimal // share of the draw subject to tax
}

// divisor is the net proceeds per unit of gross withdrawal
func (g grossUp) divisor() decimal.Decimal {
	return money.One.Sub(g.taxedShare.Mul(g.federalRate.Add(g.stateRate))).Sub(g.penaltyRate)
}

// GrossUpFor returns the gross-up parameters for s.
//   - roth: penalty only
//   - traditional: ordinary + state income tax + penalty
//   - taxable: capital gains (federal + state) on the gains share only
//   - cash, 529, other: untaxed
//   - hsa: penalty only
func (wc WithdrawalContext) GrossUpFor(s *AccountState) grossUp {
	g := grossUp{
		federalRate: decimal.Zero,
		stateRate:   decimal.Zero,
		penaltyRate: wc.penaltyRate(s.Account),
		taxedShare:  decimal.Zero,
	}
	switch s.Account.Type {
	case domain.AccountTraditional:
		g.federalRate = wc.Rates.TraditionalTaxRate
		g.stateRate = wc.Rates.StateIncomeRate
		g.taxedShare = money.One
	case domain.AccountTaxable:
		g.federalRate = wc.Rates.CapitalGainsRate
		g.stateRate = wc.Rates.StateCapitalGainsRate
		g.taxedShare = money.One.Sub(wc.basisRatio(s))
	}
	return g
}

func (wc WithdrawalContext) basisRatio(s *AccountState) decimal.Decimal {
	if !s.Balance.IsPositive() {
		return wc.Rates.CostBasisFallback
	}
	return s.BasisRatio()
}

// GrossUp returns the gross amount that must leave s so that net proceeds
// equal need, before capping at the balance.
func (wc WithdrawalContext) GrossUp(s *AccountState, need decimal.Decimal) decimal.Decimal {
	d := wc.GrossUpFor(s).divisor()
	if !d.IsPositive() {
		return decimal.Zero
	}
	return need.Div(d)
}

// candidates returns the drawable accounts of type t: penalty-free accounts
// before penalised ones, larger balances first within the same status.
func (wc WithdrawalContext) candidates(sheet *BalanceSheet, t domain.AccountType) []*AccountState {
	var out []*AccountState
	for _, s := range sheet.OfType(t) {
		if s.Balance.IsPositive() {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		fi, fj := wc.IsPenaltyFree(out[i].Account), wc.IsPenaltyFree(out[j].Account)
		if fi != fj {
			return fi
		}
		return out[i].Balance.GreaterThan(out[j].Balance)
	})
	return out
}

// WithdrawForDeficit covers a deficit from the sheet. Cash is drawn first,
// then the priority order, then HSA as the final resort. It stops as soon as
// net proceeds meet the deficit. If every account is exhausted first, the
// remaining need is reported in Unmet; this is never an error.
func WithdrawForDeficit(sheet *BalanceSheet, deficit decimal.Decimal, wc WithdrawalContext) WithdrawalResult {
	res := WithdrawalResult{Unmet: money.NonNegative(deficit)}
	if res.Covered() {
		return res
	}

	draw := func(s *AccountState) {
		g := wc.GrossUpFor(s)
		d := g.divisor()
		if !d.IsPositive() {
			return
		}
		gross := money.Min(res.Unmet.Div(d), s.Balance)
		taxed := gross.Mul(g.taxedShare)
		fed := taxed.Mul(g.federalRate)
		state := taxed.Mul(g.stateRate)
		penalty := gross.Mul(g.penaltyRate)
		net := gross.Sub(fed).Sub(state).Sub(penalty)

		sheet.withdraw(s, gross)
		res.Gross = res.Gross.Add(gross)
		res.Net = res.Net.Add(net)
		res.FederalTax = res.FederalTax.Add(fed)
		res.StateTax = res.StateTax.Add(state)
		res.Penalty = res.Penalty.Add(penalty)
		res.Unmet = money.NonNegative(res.Unmet.Sub(net))
		res.Sources = append(res.Sources, describeSource(s, penalty))
	}

	types := make([]domain.AccountType, 0, len(wc.Order)+2)
	types = append(types, domain.AccountCash)
	types = append(types, wc.Order...)
	types = append(types, domain.AccountHSA)

	for _, t := range types {
		for _, s := range wc.candidates(sheet, t) {
			draw(s)
			if res.Covered() {
				return res
			}
		}
	}
	return res
}

func describeSource(s *AccountState, penalty decimal.Decimal) string {
	if penalty.IsPositive() {
		return fmt.Sprintf("%s (%s, penalized)", s.Account.DisplayName(), s.Account.Type)
	}
	return fmt.Sprintf("%s (%s)", s.Account.DisplayName(), s.Account.Type)
}
