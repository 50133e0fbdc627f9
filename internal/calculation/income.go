package calculation

import (
	"github.com/fical/fi-calculator/internal/domain"
	"github.com/fical/fi-calculator/pkg/money"
	"github.com/shopspring/decimal"
)

// DeterminePhase classifies a year. The transition happens once, at fiAge.
func DeterminePhase(age, fiAge int) domain.Phase {
	if age < fiAge {
		return domain.PhaseAccumulating
	}
	return domain.PhaseFI
}

// SpouseStopAge is the primary person's age at which the spouse stops working.
// It is always expressed relative to the single FI age.
func SpouseStopAge(fiAge, spouseAdditionalWorkYears int) int {
	return fiAge + spouseAdditionalWorkYears
}

// EmploymentResult is one year of wage income for the household
type EmploymentResult struct {
	Gross         decimal.Decimal
	SpouseGross   decimal.Decimal
	Tax           decimal.Decimal
	Contributions decimal.Decimal
	Net           decimal.Decimal
}

// TotalGross returns combined gross wages
func (er EmploymentResult) TotalGross() decimal.Decimal {
	return er.Gross.Add(er.SpouseGross)
}

// EmploymentIncome computes wage income for the year the primary person is
// age. Primary income stops strictly before fiAge; spouse income stops before
// fiAge + SpouseAdditionalWorkYears. Growth compounds from the run's start
// year. Scheduled contributions are paid out of net income.
func EmploymentIncome(income *domain.Income, age, fiAge, yearsElapsed int, hasSpouse bool, contributions decimal.Decimal) EmploymentResult {
	out := EmploymentResult{Contributions: contributions}
	if income != nil {
		if age < fiAge {
			out.Gross = money.Grow(income.Self.GrossIncome, income.Self.AnnualGrowthRate, yearsElapsed)
			out.Tax = out.Gross.Mul(income.Self.EffectiveTaxRate)
		}
		if hasSpouse && income.Spouse != nil && age < SpouseStopAge(fiAge, income.SpouseAdditionalWorkYears) {
			out.SpouseGross = money.Grow(income.Spouse.GrossIncome, income.Spouse.AnnualGrowthRate, yearsElapsed)
			out.Tax = out.Tax.Add(out.SpouseGross.Mul(income.Spouse.EffectiveTaxRate))
		}
	}
	out.Net = out.TotalGross().Sub(out.Tax).Sub(contributions)
	return out
}

// ownerAge picks the age that gates an owner's income or account. Joint
// ownership uses the older spouse, since either one's eligibility unlocks it.
func ownerAge(owner domain.Owner, age, spouseAge int) int {
	switch owner {
	case domain.OwnerSpouse:
		return spouseAge
	case domain.OwnerJoint:
		if spouseAge > age {
			return spouseAge
		}
		return age
	default:
		return age
	}
}

// RetirementIncomeStreams sums the streams active this year. Each
// inflation-indexed stream inflates from its own start age.
func RetirementIncomeStreams(streams []domain.IncomeStream, age, spouseAge int, inflationRate decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, s := range streams {
		a := ownerAge(s.Owner, age, spouseAge)
		if a <= 0 || a < s.StartAge {
			continue
		}
		if s.EndAge > 0 && a > s.EndAge {
			continue
		}
		amount := s.AnnualAmount
		if s.InflationAdjusted {
			amount = money.Grow(amount, inflationRate, a-s.StartAge)
		}
		total = total.Add(amount)
	}
	return total
}

// PensionIncome sums pensions in payment, each compounding its own COLA from
// its start age.
func PensionIncome(pensions []domain.Pension, age, spouseAge int) decimal.Decimal {
	total := decimal.Zero
	for _, p := range pensions {
		a := ownerAge(p.Owner, age, spouseAge)
		if a <= 0 || a < p.StartAge {
			continue
		}
		total = total.Add(money.Grow(p.AnnualAmount, p.COLARate, a-p.StartAge))
	}
	return total
}
