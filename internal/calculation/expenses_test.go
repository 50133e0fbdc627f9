package calculation

import (
	"testing"

	"github.com/fical/fi-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestYearExpenses(t *testing.T) {
	expenses := &domain.Expenses{
		Categories: []domain.ExpenseCategory{
			{Name: "living", AnnualAmount: dec(10000)},
			{Name: "car", AnnualAmount: dec(5000), NonInflating: true},
			{Name: "college", AnnualAmount: dec(20000), StartYear: 2030, EndYear: 2033},
		},
	}
	inflation := dec(0.03)
	one := decimal.NewFromInt(1)

	t.Run("inflates from the current year", func(t *testing.T) {
		got := YearExpenses(expenses, nil, 2027, 2025, inflation, one)
		assert.Equal(t, "10609.00", got.Recurring.Sub(dec(5000)).StringFixed(2))
		assert.Equal(t, "15609.00", got.Total.StringFixed(2))
	})

	t.Run("category window", func(t *testing.T) {
		got := YearExpenses(expenses, nil, 2025, 2025, decimal.Zero, one)
		assert.Equal(t, "15000.00", got.Total.StringFixed(2))
		got = YearExpenses(expenses, nil, 2031, 2025, decimal.Zero, one)
		assert.Equal(t, "35000.00", got.Total.StringFixed(2))
	})

	t.Run("life events are signed and nominal", func(t *testing.T) {
		events := []domain.LifeEvent{
			{Name: "wedding", Amount: dec(30000), Year: 2026},
			{Name: "inheritance", Amount: dec(-50000), Year: 2027},
		}
		got := YearExpenses(expenses, events, 2026, 2025, decimal.Zero, one)
		assert.Equal(t, "30000.00", got.LifeEvents.StringFixed(2))
		assert.Equal(t, "45000.00", got.Total.StringFixed(2))

		got = YearExpenses(expenses, events, 2027, 2025, decimal.Zero, one)
		assert.Equal(t, "-35000.00", got.Total.StringFixed(2))
	})

	t.Run("multiplier scales everything except payoff", func(t *testing.T) {
		withHome := &domain.Expenses{
			Categories: []domain.ExpenseCategory{{Name: "living", AnnualAmount: dec(40000), NonInflating: true}},
			Home: &domain.HomeExpense{
				PropertyTax: dec(6000),
				Insurance:   dec(2000),
				Mortgage: &domain.Mortgage{
					OriginationYear: 2020,
					LoanTermYears:   30,
					InterestRate:    dec(0.05),
					LoanBalance:     dec(100000),
					PayoffYear:      2026,
				},
			},
		}
		half := dec(0.5)

		got := YearExpenses(withHome, nil, 2026, 2026, decimal.Zero, half)
		assert.Equal(t, "100000.00", got.MortgagePayoff.StringFixed(2))
		assert.True(t, got.MortgagePayment.IsZero())
		// (40000 + 8000) * 0.5 + 100000
		assert.Equal(t, "124000.00", got.Total.StringFixed(2))

		got = YearExpenses(withHome, nil, 2027, 2026, decimal.Zero, half)
		assert.Equal(t, "24000.00", got.Total.StringFixed(2), "mortgage gone after payoff")
	})

	t.Run("nil expenses", func(t *testing.T) {
		got := YearExpenses(nil, nil, 2025, 2025, inflation, one)
		assert.True(t, got.Total.IsZero())
	})
}
