package taxtable

import "errors"

var (
	// Configuration-missing class: fatal, never silently defaulted.
	ErrTaxConfigNotFound         = errors.New("no tax config effective for company and date")
	ErrContributionRatesNotFound = errors.New("no contribution rates effective for date")

	// Invalid-input class: a config row exists but its content is unusable.
	ErrEmptyBracketTable     = errors.New("tax config has no brackets")
	ErrMalformedBracketTable = errors.New("tax brackets do not partition [0, inf)")
	ErrUnknownRiskLevel      = errors.New("unknown risk level")
)
