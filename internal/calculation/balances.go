package calculation

import (
	"fmt"

	"github.com/fical/fi-calculator/internal/domain"
	"github.com/fical/fi-calculator/pkg/money"
	"github.com/shopspring/decimal"
)

// AccountState is the mutable balance of one account during a single run
type AccountState struct {
	Account   domain.Account
	Balance   decimal.Decimal
	CostBasis decimal.Decimal
}

// tracksBasis reports whether contributions and withdrawals move cost basis
func (s *AccountState) tracksBasis() bool {
	return s.Account.Type == domain.AccountTaxable
}

// BasisRatio is cost basis divided by balance, capped at 1
func (s *AccountState) BasisRatio() decimal.Decimal {
	if !s.Balance.IsPositive() {
		return money.One
	}
	return money.Min(money.One, money.NonNegative(s.CostBasis).Div(s.Balance))
}

// BalanceSheet is the account balance snapshot owned by exactly one projection
// run. It keeps per-account balances (for contribution targeting and cost
// basis) alongside running totals by account type.
type BalanceSheet struct {
	accounts []*AccountState
	index    map[string]*AccountState
	byType   map[domain.AccountType]decimal.Decimal
}

// NewBalanceSheet copies starting balances out of the plan. A taxable account
// with unknown cost basis starts with basis = balance * fallbackRatio.
func NewBalanceSheet(accounts []domain.Account, fallbackRatio decimal.Decimal) *BalanceSheet {
	bs := &BalanceSheet{
		accounts: make([]*AccountState, 0, len(accounts)),
		index:    make(map[string]*AccountState, len(accounts)),
		byType:   make(map[domain.AccountType]decimal.Decimal),
	}
	for _, a := range accounts {
		s := &AccountState{Account: a, Balance: a.Balance}
		if s.tracksBasis() {
			if a.CostBasis != nil {
				s.CostBasis = *a.CostBasis
			} else {
				s.CostBasis = a.Balance.Mul(fallbackRatio)
			}
		}
		bs.accounts = append(bs.accounts, s)
		if a.ID != "" {
			bs.index[a.ID] = s
		}
		bs.byType[a.Type] = bs.byType[a.Type].Add(a.Balance)
	}
	return bs
}

// Accounts returns the per-account states in plan order
func (bs *BalanceSheet) Accounts() []*AccountState {
	return bs.accounts
}

// OfType returns the accounts of type t in plan order
func (bs *BalanceSheet) OfType(t domain.AccountType) []*AccountState {
	var out []*AccountState
	for _, s := range bs.accounts {
		if s.Account.Type == t {
			out = append(out, s)
		}
	}
	return out
}

func (bs *BalanceSheet) adjust(s *AccountState, delta decimal.Decimal) {
	s.Balance = s.Balance.Add(delta)
	bs.byType[s.Account.Type] = bs.byType[s.Account.Type].Add(delta)
}

// ApplyScheduledContributions deposits every contribution whose window covers
// year and returns the total. Contributions follow each account's schedule and
// are independent of the accumulating/FI phase.
func (bs *BalanceSheet) ApplyScheduledContributions(year int) decimal.Decimal {
	total := decimal.Zero
	for _, s := range bs.accounts {
		c := s.Account.Contribution
		if c == nil || !c.Amount.IsPositive() || !c.ActiveIn(year) {
			continue
		}
		bs.adjust(s, c.Amount)
		if s.tracksBasis() {
			s.CostBasis = s.CostBasis.Add(c.Amount)
		}
		total = total.Add(c.Amount)
	}
	return total
}

// Grow multiplies every non-cash balance by (1+rate). Cash never grows and
// cost basis never grows.
func (bs *BalanceSheet) Grow(rate decimal.Decimal) {
	if rate.IsZero() {
		return
	}
	for _, s := range bs.accounts {
		if s.Account.Type == domain.AccountCash || s.Balance.IsZero() {
			continue
		}
		bs.adjust(s, s.Balance.Mul(rate))
	}
}

// Deposit adds new money to the account with id
func (bs *BalanceSheet) Deposit(id string, amount decimal.Decimal) error {
	s, ok := bs.index[id]
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownAccount, id)
	}
	bs.adjust(s, amount)
	if s.tracksBasis() {
		s.CostBasis = s.CostBasis.Add(amount)
	}
	return nil
}

// withdraw removes gross from s, releasing cost basis pro rata
func (bs *BalanceSheet) withdraw(s *AccountState, gross decimal.Decimal) {
	if s.tracksBasis() && s.Balance.IsPositive() {
		released := s.CostBasis.Mul(gross).Div(s.Balance)
		s.CostBasis = money.NonNegative(s.CostBasis.Sub(released))
	}
	bs.adjust(s, gross.Neg())
}

// ByType returns the running totals by account type
func (bs *BalanceSheet) ByType() domain.TypeBalances {
	var tb domain.TypeBalances
	for t, v := range bs.byType {
		tb.Add(t, v)
	}
	return tb
}

// Total returns the sum of all balances
func (bs *BalanceSheet) Total() decimal.Decimal {
	total := decimal.Zero
	for _, v := range bs.byType {
		total = total.Add(v)
	}
	return total
}
