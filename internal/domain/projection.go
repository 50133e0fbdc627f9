package domain

import (
	"github.com/shopspring/decimal"
)

// Phase is the employment phase of a simulated year
type Phase string

const (
	PhaseAccumulating Phase = "accumulating"
	PhaseFI           Phase = "fi"
)

// TypeBalances holds ending balances aggregated by account type
type TypeBalances struct {
	Cash        decimal.Decimal `json:"cash"`
	Taxable     decimal.Decimal `json:"taxable"`
	Traditional decimal.Decimal `json:"traditional"`
	Roth        decimal.Decimal `json:"roth"`
	HSA         decimal.Decimal `json:"hsa"`
	Education   decimal.Decimal `json:"529"`
	Other       decimal.Decimal `json:"other"`
}

// Add accumulates amount into the bucket for t
func (tb *TypeBalances) Add(t AccountType, amount decimal.Decimal) {
	switch t {
	case AccountCash:
		tb.Cash = tb.Cash.Add(amount)
	case AccountTaxable:
		tb.Taxable = tb.Taxable.Add(amount)
	case AccountTraditional:
		tb.Traditional = tb.Traditional.Add(amount)
	case AccountRoth:
		tb.Roth = tb.Roth.Add(amount)
	case AccountHSA:
		tb.HSA = tb.HSA.Add(amount)
	case Account529:
		tb.Education = tb.Education.Add(amount)
	default:
		tb.Other = tb.Other.Add(amount)
	}
}

// Get returns the bucket for t
func (tb TypeBalances) Get(t AccountType) decimal.Decimal {
	switch t {
	case AccountCash:
		return tb.Cash
	case AccountTaxable:
		return tb.Taxable
	case AccountTraditional:
		return tb.Traditional
	case AccountRoth:
		return tb.Roth
	case AccountHSA:
		return tb.HSA
	case Account529:
		return tb.Education
	default:
		return tb.Other
	}
}

// Total sums all buckets
func (tb TypeBalances) Total() decimal.Decimal {
	return tb.Cash.Add(tb.Taxable).Add(tb.Traditional).Add(tb.Roth).
		Add(tb.HSA).Add(tb.Education).Add(tb.Other)
}

// YearProjection is the immutable record of one simulated year
type YearProjection struct {
	Age       int   `json:"age"`
	SpouseAge int   `json:"spouse_age,omitempty"`
	Year      int   `json:"year"`
	Phase     Phase `json:"phase"`

	// Employment
	GrossIncome       decimal.Decimal `json:"gross_income"`
	SpouseGrossIncome decimal.Decimal `json:"spouse_gross_income"`
	EmploymentTax     decimal.Decimal `json:"employment_tax"`
	Contributions     decimal.Decimal `json:"contributions"`
	NetIncome         decimal.Decimal `json:"net_income"`

	// Passive income
	SocialSecurity       decimal.Decimal `json:"social_security"`
	SpouseSocialSecurity decimal.Decimal `json:"spouse_social_security"`
	Pension              decimal.Decimal `json:"pension"`
	OtherIncome          decimal.Decimal `json:"other_income"`
	PassiveIncome        decimal.Decimal `json:"passive_income"`

	// Spending
	Expenses        decimal.Decimal `json:"expenses"`
	LifeEvents      decimal.Decimal `json:"life_events"`
	MortgagePayment decimal.Decimal `json:"mortgage_payment"`
	MortgagePayoff  decimal.Decimal `json:"mortgage_payoff"`
	MortgageBalance decimal.Decimal `json:"mortgage_balance"`

	// Cash-flow gap
	Deficit       decimal.Decimal `json:"deficit"`
	Surplus       decimal.Decimal `json:"surplus"`
	SurplusRouted decimal.Decimal `json:"surplus_routed"`

	// Withdrawals
	Withdrawal        decimal.Decimal `json:"withdrawal"`
	WithdrawalNet     decimal.Decimal `json:"withdrawal_net"`
	WithdrawalTax     decimal.Decimal `json:"withdrawal_tax"`
	WithdrawalState   decimal.Decimal `json:"withdrawal_state_tax"`
	Penalty           decimal.Decimal `json:"penalty"`
	WithdrawalSources []string        `json:"withdrawal_sources,omitempty"`

	// End of year
	Balances    TypeBalances    `json:"balances"`
	NetWorth    decimal.Decimal `json:"net_worth"`
	IsShortfall bool            `json:"is_shortfall"`
	UnmetNeed   decimal.Decimal `json:"unmet_need"`
}

// TotalIncome is net employment income plus passive income
func (yp *YearProjection) TotalIncome() decimal.Decimal {
	return yp.NetIncome.Add(yp.PassiveIncome)
}

// TotalTax is employment tax plus withdrawal taxes
func (yp *YearProjection) TotalTax() decimal.Decimal {
	return yp.EmploymentTax.Add(yp.WithdrawalTax).Add(yp.WithdrawalState)
}

// Projection is the ordered output of one simulation run
type Projection []YearProjection

// FirstShortfall returns the first shortfall year, if any
func (p Projection) FirstShortfall() (YearProjection, bool) {
	for _, y := range p {
		if y.IsShortfall {
			return y, true
		}
	}
	return YearProjection{}, false
}

// IsViable reports whether no year is in shortfall
func (p Projection) IsViable() bool {
	_, short := p.FirstShortfall()
	return !short
}

// TerminalBalance returns the net worth of the final year
func (p Projection) TerminalBalance() decimal.Decimal {
	if len(p) == 0 {
		return decimal.Zero
	}
	return p[len(p)-1].NetWorth
}

// TotalUnmetNeed sums unmet need across all shortfall years
func (p Projection) TotalUnmetNeed() decimal.Decimal {
	total := decimal.Zero
	for _, y := range p {
		if y.IsShortfall {
			total = total.Add(y.UnmetNeed)
		}
	}
	return total
}

// Confidence classifies how far past life expectancy a plan lasts
type Confidence string

const (
	ConfidenceHigh     Confidence = "high"
	ConfidenceModerate Confidence = "moderate"
	ConfidenceTight    Confidence = "tight"
)

// ShortfallGuidance gives actionable numbers when no FI age is viable
type ShortfallGuidance struct {
	RunsOutAtAge int `json:"runs_out_at_age"`
	// SpendingCutPercent is nil when even the largest tested cut fails.
	SpendingCutPercent      *decimal.Decimal `json:"spending_cut_percent"`
	AdditionalAnnualSavings decimal.Decimal  `json:"additional_annual_savings"`
	TotalUnmetNeed          decimal.Decimal  `json:"total_unmet_need"`
}

// AchievableFIResult is the outcome of the FI age search
type AchievableFIResult struct {
	Age             *int               `json:"age"`
	Confidence      Confidence         `json:"confidence,omitempty"`
	BufferYears     int                `json:"buffer_years"`
	DepletionAge    int                `json:"depletion_age,omitempty"`
	YearsUntilFI    int                `json:"years_until_fi"`
	FIAtCurrentAge  bool               `json:"fi_at_current_age"`
	TerminalBalance decimal.Decimal    `json:"terminal_balance"`
	Guidance        *ShortfallGuidance `json:"guidance,omitempty"`
}

// Achievable reports whether a viable FI age was found
func (r AchievableFIResult) Achievable() bool {
	return r.Age != nil
}

// Summary aggregates one projection at the plan's target FI age
type Summary struct {
	FIAge           int             `json:"fi_age"`
	FINumber        decimal.Decimal `json:"fi_number"`
	CurrentNetWorth decimal.Decimal `json:"current_net_worth"`
	Gap             decimal.Decimal `json:"gap"`
	RunwayAge       int             `json:"runway_age"`
	HasShortfall    bool            `json:"has_shortfall"`
	ShortfallAge    *int            `json:"shortfall_age"`
	BufferYears     int             `json:"buffer_years"`
	TerminalBalance decimal.Decimal `json:"terminal_balance"`
	PeakNetWorth    decimal.Decimal `json:"peak_net_worth"`
	TotalTaxes      decimal.Decimal `json:"total_taxes"`
	TotalPenalties  decimal.Decimal `json:"total_penalties"`
}

// PlanReport bundles everything the engine produces for one plan
type PlanReport struct {
	PlanName string `json:"plan_name"`
	BaseYear int    `json:"base_year"`
	WhatIf   WhatIf `json:"what_if"`
	// Assumptions are human-readable input lines, filled in by callers
	Assumptions []string           `json:"assumptions,omitempty"`
	Summary     Summary            `json:"summary"`
	FIResult    AchievableFIResult `json:"fi_result"`
	Projection  Projection         `json:"projection"`
}
