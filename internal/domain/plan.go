package domain

import (
	"github.com/shopspring/decimal"
)

// CurrentSchemaVersion is the plan schema version the engine understands.
const CurrentSchemaVersion = 3

// FilingStatus is the household tax filing status
type FilingStatus string

const (
	FilingSingle         FilingStatus = "single"
	FilingMarriedJointly FilingStatus = "married_joint"
)

// AccountType classifies an account for tax, penalty and withdrawal ordering
type AccountType string

const (
	AccountCash        AccountType = "cash"
	AccountTaxable     AccountType = "taxable"
	AccountTraditional AccountType = "traditional"
	AccountRoth        AccountType = "roth"
	AccountHSA         AccountType = "hsa"
	Account529         AccountType = "529"
	AccountOther       AccountType = "other"
)

// AllAccountTypes lists every account type in canonical order.
var AllAccountTypes = []AccountType{
	AccountCash, AccountTaxable, AccountTraditional, AccountRoth, AccountHSA, Account529, AccountOther,
}

// Valid reports whether t is a known account type
func (t AccountType) Valid() bool {
	for _, known := range AllAccountTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Owner identifies whose account or income stream something is
type Owner string

const (
	OwnerSelf   Owner = "self"
	OwnerSpouse Owner = "spouse"
	OwnerJoint  Owner = "joint"
)

// Valid reports whether o is a known owner (empty means self)
func (o Owner) Valid() bool {
	switch o {
	case "", OwnerSelf, OwnerSpouse, OwnerJoint:
		return true
	}
	return false
}

// Plan is the complete, already-migrated plan configuration handed to the engine.
// The engine never mutates it.
type Plan struct {
	Version        int            `yaml:"version" json:"version" toml:"version"`
	Name           string         `yaml:"name,omitempty" json:"name,omitempty" toml:"name"`
	Profile        Profile        `yaml:"profile" json:"profile" toml:"profile"`
	Accounts       []Account      `yaml:"accounts" json:"accounts" toml:"accounts"`
	Income         Income         `yaml:"income" json:"income" toml:"income"`
	SocialSecurity SocialSecurity `yaml:"social_security" json:"social_security" toml:"social_security"`
	Expenses       Expenses       `yaml:"expenses" json:"expenses" toml:"expenses"`
	LifeEvents     []LifeEvent    `yaml:"life_events,omitempty" json:"life_events,omitempty" toml:"life_events"`
	Assumptions    Assumptions    `yaml:"assumptions" json:"assumptions" toml:"assumptions"`
}

// Profile holds the household's ages and tax jurisdiction
type Profile struct {
	CurrentAge     int          `yaml:"current_age" json:"current_age" toml:"current_age"`
	SpouseAge      int          `yaml:"spouse_age,omitempty" json:"spouse_age,omitempty" toml:"spouse_age"` // 0 when single
	LifeExpectancy int          `yaml:"life_expectancy" json:"life_expectancy" toml:"life_expectancy"`
	TargetFIAge    int          `yaml:"target_fi_age" json:"target_fi_age" toml:"target_fi_age"`
	FilingStatus   FilingStatus `yaml:"filing_status" json:"filing_status" toml:"filing_status"`
	State          string       `yaml:"state,omitempty" json:"state,omitempty" toml:"state"`
}

// HasSpouse reports whether the plan models a second person
func (p Profile) HasSpouse() bool {
	return p.SpouseAge > 0
}

// SpouseAgeAt returns the spouse's age when the primary person is age.
// The spouse is always a fixed offset from the primary.
func (p Profile) SpouseAgeAt(age int) int {
	if !p.HasSpouse() {
		return 0
	}
	return p.SpouseAge + (age - p.CurrentAge)
}

// Account is a single investment or cash account
type Account struct {
	ID        string           `yaml:"id" json:"id" toml:"id"`
	Name      string           `yaml:"name,omitempty" json:"name,omitempty" toml:"name"`
	Type      AccountType      `yaml:"type" json:"type" toml:"type"`
	Owner     Owner            `yaml:"owner,omitempty" json:"owner,omitempty" toml:"owner"`
	Balance   decimal.Decimal  `yaml:"balance" json:"balance" toml:"balance"`
	CostBasis *decimal.Decimal `yaml:"cost_basis,omitempty" json:"cost_basis,omitempty" toml:"cost_basis"` // nil when unknown

	Contribution *ScheduledContribution `yaml:"contribution,omitempty" json:"contribution,omitempty" toml:"contribution"`

	// Rule-of-55 inputs (employer plans only)
	Is401k   bool `yaml:"is_401k,omitempty" json:"is_401k,omitempty" toml:"is_401k"`
	RuleOf55 bool `yaml:"rule_of_55,omitempty" json:"rule_of_55,omitempty" toml:"rule_of_55"`
}

// DisplayName returns the account name, falling back to its id
func (a Account) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.ID
}

// EffectiveOwner normalises an empty owner to self
func (a Account) EffectiveOwner() Owner {
	if a.Owner == "" {
		return OwnerSelf
	}
	return a.Owner
}

// ScheduledContribution is an annual deposit active over [StartYear, EndYear].
// A zero bound is open-ended.
type ScheduledContribution struct {
	Amount    decimal.Decimal `yaml:"amount" json:"amount" toml:"amount"`
	StartYear int             `yaml:"start_year,omitempty" json:"start_year,omitempty" toml:"start_year"`
	EndYear   int             `yaml:"end_year,omitempty" json:"end_year,omitempty" toml:"end_year"`
}

// ActiveIn reports whether the contribution applies in year
func (c ScheduledContribution) ActiveIn(year int) bool {
	if c.StartYear != 0 && year < c.StartYear {
		return false
	}
	if c.EndYear != 0 && year > c.EndYear {
		return false
	}
	return true
}

// Income groups employment and passive income sources
type Income struct {
	Self                      Employment     `yaml:"self" json:"self" toml:"self"`
	Spouse                    *Employment    `yaml:"spouse,omitempty" json:"spouse,omitempty" toml:"spouse"`
	SpouseAdditionalWorkYears int            `yaml:"spouse_additional_work_years,omitempty" json:"spouse_additional_work_years,omitempty" toml:"spouse_additional_work_years"`
	Streams                   []IncomeStream `yaml:"streams,omitempty" json:"streams,omitempty" toml:"streams"`
	Pensions                  []Pension      `yaml:"pensions,omitempty" json:"pensions,omitempty" toml:"pensions"`
}

// Employment is one person's wage income
type Employment struct {
	GrossIncome      decimal.Decimal `yaml:"gross_income" json:"gross_income" toml:"gross_income"`
	EffectiveTaxRate decimal.Decimal `yaml:"effective_tax_rate" json:"effective_tax_rate" toml:"effective_tax_rate"`
	AnnualGrowthRate decimal.Decimal `yaml:"annual_growth_rate,omitempty" json:"annual_growth_rate,omitempty" toml:"annual_growth_rate"`
}

// IncomeStream is a retirement income source gated by the owner's age.
// EndAge 0 means it lasts for life.
type IncomeStream struct {
	Name              string          `yaml:"name" json:"name" toml:"name"`
	Owner             Owner           `yaml:"owner,omitempty" json:"owner,omitempty" toml:"owner"`
	AnnualAmount      decimal.Decimal `yaml:"annual_amount" json:"annual_amount" toml:"annual_amount"`
	StartAge          int             `yaml:"start_age" json:"start_age" toml:"start_age"`
	EndAge            int             `yaml:"end_age,omitempty" json:"end_age,omitempty" toml:"end_age"`
	InflationAdjusted bool            `yaml:"inflation_adjusted,omitempty" json:"inflation_adjusted,omitempty" toml:"inflation_adjusted"`
}

// Pension is a defined-benefit income with its own COLA clock
type Pension struct {
	Name         string          `yaml:"name" json:"name" toml:"name"`
	Owner        Owner           `yaml:"owner,omitempty" json:"owner,omitempty" toml:"owner"`
	AnnualAmount decimal.Decimal `yaml:"annual_amount" json:"annual_amount" toml:"annual_amount"`
	StartAge     int             `yaml:"start_age" json:"start_age" toml:"start_age"`
	COLARate     decimal.Decimal `yaml:"cola_rate,omitempty" json:"cola_rate,omitempty" toml:"cola_rate"`
}

// SocialSecurity holds the benefit settings for each spouse
type SocialSecurity struct {
	Self   *SSBenefit `yaml:"self,omitempty" json:"self,omitempty" toml:"self"`
	Spouse *SSBenefit `yaml:"spouse,omitempty" json:"spouse,omitempty" toml:"spouse"`
}

// SSBenefit is one person's Social Security election
type SSBenefit struct {
	FRAMonthlyBenefit decimal.Decimal `yaml:"fra_monthly_benefit" json:"fra_monthly_benefit" toml:"fra_monthly_benefit"`
	ClaimingAge       int             `yaml:"claiming_age" json:"claiming_age" toml:"claiming_age"`
	COLARate          decimal.Decimal `yaml:"cola_rate,omitempty" json:"cola_rate,omitempty" toml:"cola_rate"`
}

// Expenses groups recurring spending and home costs
type Expenses struct {
	Categories []ExpenseCategory `yaml:"categories" json:"categories" toml:"categories"`
	Home       *HomeExpense      `yaml:"home,omitempty" json:"home,omitempty" toml:"home"`
}

// ExpenseCategory is a recurring annual expense, optionally year-windowed.
type ExpenseCategory struct {
	Name         string          `yaml:"name" json:"name" toml:"name"`
	AnnualAmount decimal.Decimal `yaml:"annual_amount" json:"annual_amount" toml:"annual_amount"`
	NonInflating bool            `yaml:"non_inflating,omitempty" json:"non_inflating,omitempty" toml:"non_inflating"`
	StartYear    int             `yaml:"start_year,omitempty" json:"start_year,omitempty" toml:"start_year"`
	EndYear      int             `yaml:"end_year,omitempty" json:"end_year,omitempty" toml:"end_year"`
}

// ActiveIn reports whether the category is charged in year
func (e ExpenseCategory) ActiveIn(year int) bool {
	if e.StartYear != 0 && year < e.StartYear {
		return false
	}
	if e.EndYear != 0 && year > e.EndYear {
		return false
	}
	return true
}

// HomeExpense holds housing costs
type HomeExpense struct {
	Mortgage    *Mortgage       `yaml:"mortgage,omitempty" json:"mortgage,omitempty" toml:"mortgage"`
	PropertyTax decimal.Decimal `yaml:"property_tax,omitempty" json:"property_tax,omitempty" toml:"property_tax"`
	Insurance   decimal.Decimal `yaml:"insurance,omitempty" json:"insurance,omitempty" toml:"insurance"`
}

// Mortgage describes a fixed-rate loan. LoanBalance is the balance the user
// entered for the current year and is treated as authoritative.
type Mortgage struct {
	OriginationYear   int             `yaml:"origination_year" json:"origination_year" toml:"origination_year"`
	LoanTermYears     int             `yaml:"loan_term_years" json:"loan_term_years" toml:"loan_term_years"`
	InterestRate      decimal.Decimal `yaml:"interest_rate" json:"interest_rate" toml:"interest_rate"`
	LoanBalance       decimal.Decimal `yaml:"loan_balance" json:"loan_balance" toml:"loan_balance"`
	OriginalPrincipal decimal.Decimal `yaml:"original_principal,omitempty" json:"original_principal,omitempty" toml:"original_principal"`
	MonthlyPayment    decimal.Decimal `yaml:"monthly_payment,omitempty" json:"monthly_payment,omitempty" toml:"monthly_payment"` // overrides the computed payment
	PayoffYear        int             `yaml:"payoff_year,omitempty" json:"payoff_year,omitempty" toml:"payoff_year"`             // early payoff, 0 if none
}

// TermEndYear is the year the loan naturally finishes
func (m Mortgage) TermEndYear() int {
	return m.OriginationYear + m.LoanTermYears
}

// LifeEvent is a one-time cash flow. Positive amounts are costs, negative
// amounts are windfalls.
type LifeEvent struct {
	Name   string          `yaml:"name" json:"name" toml:"name"`
	Amount decimal.Decimal `yaml:"amount" json:"amount" toml:"amount"`
	Year   int             `yaml:"year" json:"year" toml:"year"`
}

// SurplusMode selects what happens to income in excess of spending
type SurplusMode string

const (
	SurplusIgnore  SurplusMode = "ignore"
	SurplusAccount SurplusMode = "account"
)

// SurplusPolicy routes yearly surplus
type SurplusPolicy struct {
	Mode      SurplusMode `yaml:"mode,omitempty" json:"mode,omitempty" toml:"mode"`
	AccountID string      `yaml:"account_id,omitempty" json:"account_id,omitempty" toml:"account_id"`
}

// PenaltySettings configures early-withdrawal rules
type PenaltySettings struct {
	EarlyWithdrawalRate decimal.Decimal `yaml:"early_withdrawal_rate" json:"early_withdrawal_rate" toml:"early_withdrawal_rate"`
	PenaltyFreeAge      decimal.Decimal `yaml:"penalty_free_age" json:"penalty_free_age" toml:"penalty_free_age"`
	HSAPenaltyRate      decimal.Decimal `yaml:"hsa_penalty_rate" json:"hsa_penalty_rate" toml:"hsa_penalty_rate"`
	HSAPenaltyFreeAge   int             `yaml:"hsa_penalty_free_age" json:"hsa_penalty_free_age" toml:"hsa_penalty_free_age"`
	RuleOf55Age         int             `yaml:"rule_of_55_age" json:"rule_of_55_age" toml:"rule_of_55_age"`
}

// Assumptions are the economic and tax assumptions for a run
type Assumptions struct {
	InvestmentReturn   decimal.Decimal `yaml:"investment_return" json:"investment_return" toml:"investment_return"`
	InflationRate      decimal.Decimal `yaml:"inflation_rate" json:"inflation_rate" toml:"inflation_rate"`
	TraditionalTaxRate decimal.Decimal `yaml:"traditional_tax_rate" json:"traditional_tax_rate" toml:"traditional_tax_rate"`
	CapitalGainsRate   decimal.Decimal `yaml:"capital_gains_rate" json:"capital_gains_rate" toml:"capital_gains_rate"`

	// State rates override the jurisdiction table when set
	StateIncomeRate       *decimal.Decimal `yaml:"state_income_rate,omitempty" json:"state_income_rate,omitempty" toml:"state_income_rate"`
	StateCapitalGainsRate *decimal.Decimal `yaml:"state_capital_gains_rate,omitempty" json:"state_capital_gains_rate,omitempty" toml:"state_capital_gains_rate"`

	WithdrawalOrder       []AccountType   `yaml:"withdrawal_order,omitempty" json:"withdrawal_order,omitempty" toml:"withdrawal_order"`
	Penalties             PenaltySettings `yaml:"penalties" json:"penalties" toml:"penalties"`
	TerminalBalanceTarget decimal.Decimal `yaml:"terminal_balance_target,omitempty" json:"terminal_balance_target,omitempty" toml:"terminal_balance_target"`
	Surplus               SurplusPolicy   `yaml:"surplus,omitempty" json:"surplus,omitempty" toml:"surplus"`
	CostBasisFallback     decimal.Decimal `yaml:"cost_basis_fallback" json:"cost_basis_fallback" toml:"cost_basis_fallback"`
	SafeWithdrawalRate    decimal.Decimal `yaml:"safe_withdrawal_rate" json:"safe_withdrawal_rate" toml:"safe_withdrawal_rate"`
}

// AccountByID returns the account with id, if present
func (p *Plan) AccountByID(id string) (Account, bool) {
	for _, a := range p.Accounts {
		if a.ID == id {
			return a, true
		}
	}
	return Account{}, false
}

// TotalBalance sums all starting account balances
func (p *Plan) TotalBalance() decimal.Decimal {
	total := decimal.Zero
	for _, a := range p.Accounts {
		total = total.Add(a.Balance)
	}
	return total
}
