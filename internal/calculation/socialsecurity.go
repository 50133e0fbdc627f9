package calculation

import (
	"fmt"

	"github.com/fical/fi-calculator/internal/domain"
	"github.com/fical/fi-calculator/pkg/money"
	"github.com/shopspring/decimal"
)

// FullRetirementAge is the reference age for the unadjusted benefit
const FullRetirementAge = 67

// claimingFactors are the fixed claiming-age multipliers. Claiming ages are
// constrained to this set; there is no interpolation.
var claimingFactors = map[int]decimal.Decimal{
	62:                decimal.NewFromFloat(0.70),
	FullRetirementAge: decimal.NewFromInt(1),
	70:                decimal.NewFromFloat(1.24),
}

// SupportedClaimingAges lists the claiming ages the engine accepts
func SupportedClaimingAges() []int {
	return []int{62, FullRetirementAge, 70}
}

// ClaimingFactor returns the multiplier for a claiming age
func ClaimingFactor(claimingAge int) (decimal.Decimal, error) {
	f, ok := claimingFactors[claimingAge]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %d (supported: 62, 67, 70)", domain.ErrUnsupportedClaimingAge, claimingAge)
	}
	return f, nil
}

// AdjustedBenefit converts an FRA monthly benefit into the claiming-age
// adjusted monthly benefit. Unsupported ages are rejected by validation
// upstream and fall back to the FRA amount here.
func AdjustedBenefit(fraMonthlyBenefit decimal.Decimal, claimingAge int) decimal.Decimal {
	f, err := ClaimingFactor(claimingAge)
	if err != nil {
		return fraMonthlyBenefit
	}
	return fraMonthlyBenefit.Mul(f)
}

// AnnualSSBenefit returns the benefit received in a year when the owner is
// ownerAge. COLA compounds from the claiming year, not from the plan start.
func AnnualSSBenefit(fraMonthlyBenefit decimal.Decimal, claimingAge int, colaRate decimal.Decimal, ownerAge int) decimal.Decimal {
	if ownerAge < claimingAge || !fraMonthlyBenefit.IsPositive() {
		return decimal.Zero
	}
	annual := money.Annual(AdjustedBenefit(fraMonthlyBenefit, claimingAge))
	return money.Grow(annual, colaRate, ownerAge-claimingAge)
}

// SocialSecurityIncome resolves one person's benefit for the year, applying an
// optional claiming-age override from a what-if.
func SocialSecurityIncome(b *domain.SSBenefit, claimingOverride *int, ownerAge int) decimal.Decimal {
	if b == nil || ownerAge <= 0 {
		return decimal.Zero
	}
	claimingAge := b.ClaimingAge
	if claimingOverride != nil {
		claimingAge = *claimingOverride
	}
	return AnnualSSBenefit(b.FRAMonthlyBenefit, claimingAge, b.COLARate, ownerAge)
}
