package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/istmosoft/planilla-backend-go/internal/domain/taxtable"
	"github.com/istmosoft/planilla-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type taxTableRepository struct {
	db *database.DB
}

func NewTaxTableRepository(db *database.DB) taxtable.Provider {
	return &taxTableRepository{db: db}
}

// GetTaxConfig resolves the latest config with effective_from <= asOf.
// A miss is ErrTaxConfigNotFound; it is never papered over with defaults.
func (r *taxTableRepository) GetTaxConfig(ctx context.Context, companyID string, asOf time.Time) (taxtable.TaxConfig, error) {
	q := GetQuerier(ctx, r.db)

	var cfg taxtable.TaxConfig
	err := q.QueryRow(ctx, `
		SELECT id, company_id, effective_from, dependent_deduction, max_dependents, created_at, updated_at
		FROM tax_configs
		WHERE company_id = $1 AND effective_from <= $2
		ORDER BY effective_from DESC
		LIMIT 1`,
		companyID, asOf,
	).Scan(&cfg.ID, &cfg.CompanyID, &cfg.EffectiveFrom, &cfg.DependentDeduction, &cfg.MaxDependents, &cfg.CreatedAt, &cfg.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return taxtable.TaxConfig{}, taxtable.ErrTaxConfigNotFound
		}
		return taxtable.TaxConfig{}, fmt.Errorf("failed to get tax config: %w", err)
	}

	rows, err := q.Query(ctx, `
		SELECT id, lower_bound, upper_bound, rate, fixed_amount_below
		FROM tax_brackets
		WHERE tax_config_id = $1
		ORDER BY lower_bound`,
		cfg.ID,
	)
	if err != nil {
		return taxtable.TaxConfig{}, fmt.Errorf("failed to list tax brackets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var b taxtable.TaxBracket
		var upper decimal.NullDecimal
		if err := rows.Scan(&b.ID, &b.LowerBound, &upper, &b.Rate, &b.FixedAmountBelow); err != nil {
			return taxtable.TaxConfig{}, fmt.Errorf("failed to scan tax bracket: %w", err)
		}
		if upper.Valid {
			b.UpperBound = &upper.Decimal
		}
		cfg.Brackets = append(cfg.Brackets, b)
	}

	return cfg, nil
}

func (r *taxTableRepository) GetContributionRates(ctx context.Context, asOf time.Time) (taxtable.ContributionRates, error) {
	q := GetQuerier(ctx, r.db)

	var rates taxtable.ContributionRates
	err := q.QueryRow(ctx, `
		SELECT id, effective_from, css_employee_rate, css_employer_rate,
			   se_employee_rate, se_employer_rate, created_at, updated_at
		FROM contribution_rates
		WHERE effective_from <= $1
		ORDER BY effective_from DESC
		LIMIT 1`,
		asOf,
	).Scan(&rates.ID, &rates.EffectiveFrom, &rates.CSSEmployeeRate, &rates.CSSEmployerRate,
		&rates.SEEmployeeRate, &rates.SEEmployerRate, &rates.CreatedAt, &rates.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return taxtable.ContributionRates{}, taxtable.ErrContributionRatesNotFound
		}
		return taxtable.ContributionRates{}, fmt.Errorf("failed to get contribution rates: %w", err)
	}

	tierRows, err := q.Query(ctx, `
		SELECT salary_threshold, cap_amount
		FROM css_cap_tiers
		WHERE contribution_rates_id = $1
		ORDER BY salary_threshold`,
		rates.ID,
	)
	if err != nil {
		return taxtable.ContributionRates{}, fmt.Errorf("failed to list css cap tiers: %w", err)
	}
	defer tierRows.Close()

	for tierRows.Next() {
		var tier taxtable.CSSCapTier
		if err := tierRows.Scan(&tier.SalaryThreshold, &tier.Cap); err != nil {
			return taxtable.ContributionRates{}, fmt.Errorf("failed to scan css cap tier: %w", err)
		}
		rates.CSSCapTiers = append(rates.CSSCapTiers, tier)
	}

	riskRows, err := q.Query(ctx, `
		SELECT risk_level, rate
		FROM risk_rates
		WHERE contribution_rates_id = $1`,
		rates.ID,
	)
	if err != nil {
		return taxtable.ContributionRates{}, fmt.Errorf("failed to list risk rates: %w", err)
	}
	defer riskRows.Close()

	rates.RiskRateByLevel = make(map[taxtable.RiskLevel]decimal.Decimal)
	for riskRows.Next() {
		var level taxtable.RiskLevel
		var rate decimal.Decimal
		if err := riskRows.Scan(&level, &rate); err != nil {
			return taxtable.ContributionRates{}, fmt.Errorf("failed to scan risk rate: %w", err)
		}
		rates.RiskRateByLevel[level] = rate
	}

	return rates, nil
}
