package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestProfile_SpouseAgeAt(t *testing.T) {
	single := Profile{CurrentAge: 40}
	assert.False(t, single.HasSpouse())
	assert.Equal(t, 0, single.SpouseAgeAt(50))

	couple := Profile{CurrentAge: 40, SpouseAge: 37}
	assert.True(t, couple.HasSpouse())
	assert.Equal(t, 37, couple.SpouseAgeAt(40))
	assert.Equal(t, 52, couple.SpouseAgeAt(55))
}

func TestActiveIn_Windows(t *testing.T) {
	c := ScheduledContribution{StartYear: 2026, EndYear: 2028}
	assert.False(t, c.ActiveIn(2025))
	assert.True(t, c.ActiveIn(2026))
	assert.True(t, c.ActiveIn(2028))
	assert.False(t, c.ActiveIn(2029))
	assert.True(t, ScheduledContribution{}.ActiveIn(1990), "open-ended")

	e := ExpenseCategory{EndYear: 2030}
	assert.True(t, e.ActiveIn(2000))
	assert.False(t, e.ActiveIn(2031))
}

func TestAccountTypeAndOwner_Valid(t *testing.T) {
	for _, at := range AllAccountTypes {
		assert.True(t, at.Valid(), at)
	}
	assert.False(t, AccountType("crypto").Valid())
	assert.True(t, Owner("").Valid())
	assert.False(t, Owner("child").Valid())

	assert.Equal(t, OwnerSelf, Account{}.EffectiveOwner())
	assert.Equal(t, "brokerage", Account{ID: "brokerage"}.DisplayName())
	assert.Equal(t, "Joint", Account{ID: "brokerage", Name: "Joint"}.DisplayName())
}

func TestPlan_AccountLookupAndTotal(t *testing.T) {
	p := &Plan{Accounts: []Account{
		{ID: "cash", Type: AccountCash, Balance: decimal.NewFromInt(1000)},
		{ID: "ira", Type: AccountTraditional, Balance: decimal.NewFromInt(2500)},
	}}
	a, ok := p.AccountByID("ira")
	assert.True(t, ok)
	assert.Equal(t, AccountTraditional, a.Type)
	_, ok = p.AccountByID("missing")
	assert.False(t, ok)
	assert.True(t, p.TotalBalance().Equal(decimal.NewFromInt(3500)))
}

func TestTypeBalances(t *testing.T) {
	var tb TypeBalances
	tb.Add(AccountRoth, decimal.NewFromInt(10))
	tb.Add(AccountRoth, decimal.NewFromInt(5))
	tb.Add(Account529, decimal.NewFromInt(7))
	tb.Add(AccountOther, decimal.NewFromInt(3))

	assert.True(t, tb.Get(AccountRoth).Equal(decimal.NewFromInt(15)))
	assert.True(t, tb.Get(Account529).Equal(decimal.NewFromInt(7)))
	assert.True(t, tb.Get(AccountCash).IsZero())
	assert.True(t, tb.Total().Equal(decimal.NewFromInt(25)))
}

func TestProjectionHelpers(t *testing.T) {
	p := Projection{
		{Age: 60, NetWorth: decimal.NewFromInt(100)},
		{Age: 61, IsShortfall: true, UnmetNeed: decimal.NewFromInt(30)},
		{Age: 62, IsShortfall: true, UnmetNeed: decimal.NewFromInt(20)},
	}
	y, ok := p.FirstShortfall()
	assert.True(t, ok)
	assert.Equal(t, 61, y.Age)
	assert.False(t, p.IsViable())
	assert.True(t, p.TotalUnmetNeed().Equal(decimal.NewFromInt(50)))
	assert.True(t, p.TerminalBalance().IsZero())

	assert.True(t, Projection{}.IsViable())
	assert.True(t, Projection{}.TerminalBalance().IsZero())
}

func TestWhatIf(t *testing.T) {
	assert.True(t, WhatIf{}.IsZero())
	assert.True(t, WhatIf{}.SpendingMultiplier().Equal(decimal.NewFromInt(1)))

	r := decimal.NewFromFloat(0.05)
	age := 70
	w := WhatIf{SpendingMultiplierDelta: decimal.NewFromFloat(-0.25), ReturnOverride: &r, SSClaimingAge: &age}
	assert.False(t, w.IsZero())
	assert.True(t, w.SpendingMultiplier().Equal(decimal.NewFromFloat(0.75)))
	assert.True(t, w.EffectiveReturn(decimal.NewFromFloat(0.07)).Equal(r))
	assert.True(t, WhatIf{}.EffectiveReturn(decimal.NewFromFloat(0.07)).Equal(decimal.NewFromFloat(0.07)))
}
