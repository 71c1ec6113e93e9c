package taxtable

import (
	"context"
	"time"
)

// Provider supplies the statutory tables the calculation engine depends on.
// Lookups resolve to the latest config with effective_from <= asOf; a miss is
// returned as ErrTaxConfigNotFound / ErrContributionRatesNotFound, never as a
// zeroed default.
type Provider interface {
	GetTaxConfig(ctx context.Context, companyID string, asOf time.Time) (TaxConfig, error)
	GetContributionRates(ctx context.Context, asOf time.Time) (ContributionRates, error)
}
