package calculation

import (
	"github.com/fical/fi-calculator/internal/domain"
	"github.com/fical/fi-calculator/pkg/money"
	"github.com/shopspring/decimal"
)

// ExpenseResult is one year of spending
type ExpenseResult struct {
	Total           decimal.Decimal
	Recurring       decimal.Decimal
	Home            decimal.Decimal // property tax + insurance
	MortgagePayment decimal.Decimal
	MortgagePayoff  decimal.Decimal
	MortgageBalance decimal.Decimal
	LifeEvents      decimal.Decimal
}

// YearExpenses computes total spending for year.
//
// Recurring categories and home costs inflate from currentYear unless marked
// non-inflating. The spending multiplier scales everything except an early
// mortgage payoff lump sum, which is a fixed contractual obligation.
func YearExpenses(expenses *domain.Expenses, events []domain.LifeEvent, year, currentYear int, inflationRate, spendingMultiplier decimal.Decimal) ExpenseResult {
	var out ExpenseResult
	yearsFromNow := year - currentYear

	if expenses != nil {
		for _, c := range expenses.Categories {
			if !c.ActiveIn(year) {
				continue
			}
			amount := c.AnnualAmount
			if !c.NonInflating {
				amount = money.Grow(amount, inflationRate, yearsFromNow)
			}
			out.Recurring = out.Recurring.Add(amount)
		}

		if h := expenses.Home; h != nil {
			out.Home = money.Grow(h.PropertyTax.Add(h.Insurance), inflationRate, yearsFromNow)
			my := MortgageForYear(h.Mortgage, year, currentYear)
			out.MortgagePayment = my.Payment
			out.MortgagePayoff = my.Payoff
			out.MortgageBalance = my.Balance
		}
	}

	for _, e := range events {
		if e.Year == year {
			out.LifeEvents = out.LifeEvents.Add(e.Amount)
		}
	}

	scaled := out.Recurring.Add(out.Home).Add(out.MortgagePayment).Add(out.LifeEvents).Mul(spendingMultiplier)
	out.Total = scaled.Add(out.MortgagePayoff)
	return out
}
