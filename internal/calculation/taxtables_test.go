package calculation

import (
	"testing"

	"github.com/fical/fi-calculator/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestTaxTables_Jurisdiction(t *testing.T) {
	tables := DefaultTaxTables()

	assert.Equal(t, "0.093", tables.Jurisdiction("ca").IncomeRate.String(), "codes are case-insensitive")
	assert.True(t, tables.Jurisdiction("TX").IncomeRate.IsZero())
	assert.True(t, tables.Jurisdiction("WA").IncomeRate.IsZero())
	assert.Equal(t, "0.07", tables.Jurisdiction("WA").CapitalGainsRate.String())
	assert.True(t, tables.Jurisdiction("ZZ").IncomeRate.IsZero(), "unknown jurisdictions are untaxed")
}

func TestTaxTables_StateRatesOverride(t *testing.T) {
	tables := DefaultTaxTables()
	profile := domain.Profile{State: "NY"}

	income, cg := tables.StateRates(profile, domain.Assumptions{})
	assert.Equal(t, "0.0685", income.String())
	assert.Equal(t, "0.0685", cg.String())

	income, cg = tables.StateRates(profile, domain.Assumptions{StateIncomeRate: decPtr(0.05), StateCapitalGainsRate: decPtr(0)})
	assert.Equal(t, "0.05", income.String())
	assert.True(t, cg.IsZero())
}

func TestTaxTables_PenaltyFreeAge(t *testing.T) {
	tables := DefaultTaxTables()

	assert.Equal(t, "59.5", tables.PenaltyFreeAge(domain.AccountTraditional, domain.PenaltySettings{}).String())
	assert.Equal(t, "65", tables.PenaltyFreeAge(domain.AccountHSA, domain.PenaltySettings{}).String())
	assert.True(t, tables.PenaltyFreeAge(domain.AccountTaxable, domain.PenaltySettings{}).IsZero())

	custom := domain.PenaltySettings{PenaltyFreeAge: dec(55), HSAPenaltyFreeAge: 62}
	assert.Equal(t, "55", tables.PenaltyFreeAge(domain.AccountRoth, custom).String())
	assert.Equal(t, "62", tables.PenaltyFreeAge(domain.AccountHSA, custom).String())
}
