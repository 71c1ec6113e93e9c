package taxtable

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxBracket - One slice of the progressive ISR table.
// FixedAmountBelow is the cumulative tax of all brackets below LowerBound,
// so locating the bracket containing an amount is enough to compute the tax.
type TaxBracket struct {
	ID               string
	LowerBound       decimal.Decimal
	UpperBound       *decimal.Decimal // nil = unbounded topmost bracket
	Rate             decimal.Decimal
	FixedAmountBelow decimal.Decimal
}

// Contains reports whether amount falls inside this bracket.
// Boundary amounts belong to the lower bracket: lowerBound < amount <= upperBound.
func (b TaxBracket) Contains(amount decimal.Decimal) bool {
	if amount.LessThanOrEqual(b.LowerBound) {
		return false
	}
	if b.UpperBound == nil {
		return true
	}
	return amount.LessThanOrEqual(*b.UpperBound)
}

// TaxConfig - ISR table effective for a company from a given date.
// Brackets are ordered ascending by LowerBound and partition [0, inf).
type TaxConfig struct {
	ID                 string
	CompanyID          string
	EffectiveFrom      time.Time
	Brackets           []TaxBracket
	DependentDeduction decimal.Decimal
	MaxDependents      int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Validate checks the bracket table invariants: non-empty, ordered, contiguous,
// and exactly one unbounded topmost bracket.
func (c TaxConfig) Validate() error {
	if len(c.Brackets) == 0 {
		return ErrEmptyBracketTable
	}
	if !c.Brackets[0].LowerBound.IsZero() {
		return ErrMalformedBracketTable
	}
	for i, b := range c.Brackets {
		last := i == len(c.Brackets)-1
		if last {
			if b.UpperBound != nil {
				return ErrMalformedBracketTable
			}
			continue
		}
		if b.UpperBound == nil {
			return ErrMalformedBracketTable
		}
		if b.UpperBound.LessThanOrEqual(b.LowerBound) {
			return ErrMalformedBracketTable
		}
		if !c.Brackets[i+1].LowerBound.Equal(*b.UpperBound) {
			return ErrMalformedBracketTable
		}
	}
	return nil
}

// RiskLevel enum - job risk classification for the employer risk premium.
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

// CSSCapTier - one step of the escalating CSS salary ceiling.
// The cap associated with the highest SalaryThreshold <= gross pay applies.
type CSSCapTier struct {
	SalaryThreshold decimal.Decimal
	Cap             decimal.Decimal
}

// ContributionRates - CSS/SE rates and caps effective from a given date.
type ContributionRates struct {
	ID              string
	EffectiveFrom   time.Time
	CSSEmployeeRate decimal.Decimal
	CSSEmployerRate decimal.Decimal
	CSSCapTiers     []CSSCapTier // ordered ascending by SalaryThreshold
	SEEmployeeRate  decimal.Decimal
	SEEmployerRate  decimal.Decimal
	RiskRateByLevel map[RiskLevel]decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RiskRate returns the employer risk premium rate for level.
// There is no default rate: an unknown level is a hard input error.
func (r ContributionRates) RiskRate(level RiskLevel) (decimal.Decimal, error) {
	rate, ok := r.RiskRateByLevel[level]
	if !ok {
		return decimal.Zero, ErrUnknownRiskLevel
	}
	return rate, nil
}

// ApplicableCap walks the tiers ascending and returns the cap of the highest
// threshold <= grossPay. Returns nil when no tier applies (uncapped).
func (r ContributionRates) ApplicableCap(grossPay decimal.Decimal) *decimal.Decimal {
	var cap *decimal.Decimal
	for i := range r.CSSCapTiers {
		if r.CSSCapTiers[i].SalaryThreshold.LessThanOrEqual(grossPay) {
			cap = &r.CSSCapTiers[i].Cap
		}
	}
	return cap
}
