package calculation

import (
	"github.com/fical/fi-calculator/internal/domain"
	"github.com/fical/fi-calculator/pkg/money"
	"github.com/shopspring/decimal"
)

// MonthlyPayment calculates the level monthly payment of a fixed-rate loan
// using M = P * [i(1+i)^n] / [(1+i)^n - 1]. Any non-positive input yields 0.
func MonthlyPayment(principal, annualRate decimal.Decimal, termYears int) decimal.Decimal {
	if !principal.IsPositive() || !annualRate.IsPositive() || termYears <= 0 {
		return decimal.Zero
	}
	i := money.Monthly(annualRate)
	factor := money.Compound(i, termYears*12)
	payment := principal.Mul(i.Mul(factor)).Div(factor.Sub(money.One))
	return money.RoundCents(payment)
}

// RemainingBalance calculates the closed-form amortized balance after
// yearsElapsed years: B = P * [(1+i)^n - (1+i)^p] / [(1+i)^n - 1].
// A zero rate reduces the balance linearly. The result is floored at 0 and
// rounded to cents.
func RemainingBalance(originalPrincipal, annualRate decimal.Decimal, termYears, yearsElapsed int) decimal.Decimal {
	if !originalPrincipal.IsPositive() || termYears <= 0 {
		return decimal.Zero
	}
	if yearsElapsed <= 0 {
		return money.RoundCents(originalPrincipal)
	}
	if yearsElapsed >= termYears {
		return decimal.Zero
	}

	var balance decimal.Decimal
	if !annualRate.IsPositive() {
		// No interest: simple linear payoff
		remainingFraction := decimal.NewFromInt(int64(termYears - yearsElapsed)).Div(decimal.NewFromInt(int64(termYears)))
		balance = originalPrincipal.Mul(remainingFraction)
	} else {
		i := money.Monthly(annualRate)
		factorN := money.Compound(i, termYears*12)
		factorP := money.Compound(i, yearsElapsed*12)
		balance = originalPrincipal.Mul(factorN.Sub(factorP)).Div(factorN.Sub(money.One))
	}
	return money.RoundCents(money.NonNegative(balance))
}

// BalanceForYear returns the mortgage balance at the start of targetYear.
//
// The user-entered LoanBalance is ground truth for the current year (and any
// earlier year). Future years amortize forward from it over the remaining
// term. The balance is 0 once the term ends or after an early payoff year; on
// the payoff year itself the balance still due is returned.
func BalanceForYear(m *domain.Mortgage, targetYear, currentYear int) decimal.Decimal {
	if m == nil || !m.LoanBalance.IsPositive() {
		return decimal.Zero
	}
	if targetYear <= currentYear {
		return m.LoanBalance
	}
	if m.PayoffYear > 0 && targetYear > m.PayoffYear {
		return decimal.Zero
	}
	remainingTerm := m.TermEndYear() - currentYear
	if remainingTerm <= 0 {
		return decimal.Zero
	}
	return RemainingBalance(m.LoanBalance, m.InterestRate, remainingTerm, targetYear-currentYear)
}

// AnnualMortgagePayment returns the level yearly payment. An explicit monthly
// payment wins; otherwise the current balance is amortized over the remaining
// term (linearly when the rate is zero).
func AnnualMortgagePayment(m *domain.Mortgage, currentYear int) decimal.Decimal {
	if m == nil {
		return decimal.Zero
	}
	if m.MonthlyPayment.IsPositive() {
		return money.Annual(m.MonthlyPayment)
	}
	remainingTerm := m.TermEndYear() - currentYear
	if remainingTerm <= 0 || !m.LoanBalance.IsPositive() {
		return decimal.Zero
	}
	if !m.InterestRate.IsPositive() {
		return money.RoundCents(m.LoanBalance.Div(decimal.NewFromInt(int64(remainingTerm))))
	}
	return money.Annual(MonthlyPayment(m.LoanBalance, m.InterestRate, remainingTerm))
}

// MortgageYear is the mortgage's contribution to one year's expenses
type MortgageYear struct {
	Payment decimal.Decimal // level payment, scaled by the spending multiplier
	Payoff  decimal.Decimal // lump sum on the early payoff year, never scaled
	Balance decimal.Decimal // balance at the start of the year
}

// MortgageForYear resolves whether a year pays the level payment, the payoff
// lump sum, or nothing.
func MortgageForYear(m *domain.Mortgage, year, currentYear int) MortgageYear {
	var out MortgageYear
	if m == nil {
		return out
	}
	out.Balance = BalanceForYear(m, year, currentYear)
	if !out.Balance.IsPositive() || year >= m.TermEndYear() {
		return out
	}
	if m.PayoffYear > 0 && year == m.PayoffYear && year >= currentYear {
		out.Payoff = out.Balance
		return out
	}
	out.Payment = AnnualMortgagePayment(m, currentYear)
	return out
}
