package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/medclaims/claims-dashboard/internal/models"
)

// PolicyRepository reads insurance policies. Service lists are stored as
// JSON columns.
type PolicyRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPolicyRepository creates a new policy repository
func NewPolicyRepository(db *sql.DB, logger *zap.Logger) *PolicyRepository {
	return &PolicyRepository{
		db:     db,
		logger: logger,
	}
}

// GetPolicy retrieves a policy by policy number. Returns nil when the
// policy does not exist.
func (r *PolicyRepository) GetPolicy(ctx context.Context, policyNumber string) (*models.Policy, error) {
	query := `
		SELECT id, policy_number, policy_holder, policy_type, start_date, end_date,
			deductible, max_coverage, covered_services, excluded_services,
			copay_percentage, created_at
		FROM policies
		WHERE policy_number = ?
	`

	var policy models.Policy
	var coveredJSON, excludedJSON sql.NullString

	err := r.db.QueryRowContext(ctx, query, policyNumber).Scan(
		&policy.ID,
		&policy.PolicyNumber,
		&policy.PolicyHolder,
		&policy.PolicyType,
		&policy.StartDate,
		&policy.EndDate,
		&policy.Deductible,
		&policy.MaxCoverage,
		&coveredJSON,
		&excludedJSON,
		&policy.CopayPercentage,
		&policy.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get policy", zap.String("policy_number", policyNumber), zap.Error(err))
		return nil, fmt.Errorf("failed to get policy: %w", err)
	}

	policy.CoveredServices = decodeServices(coveredJSON, r.logger)
	policy.ExcludedServices = decodeServices(excludedJSON, r.logger)

	return &policy, nil
}

// Create inserts a new policy
func (r *PolicyRepository) Create(ctx context.Context, policy *models.Policy) error {
	covered, err := json.Marshal(policy.CoveredServices)
	if err != nil {
		return fmt.Errorf("failed to encode covered services: %w", err)
	}
	excluded, err := json.Marshal(policy.ExcludedServices)
	if err != nil {
		return fmt.Errorf("failed to encode excluded services: %w", err)
	}

	query := `
		INSERT INTO policies (
			policy_number, policy_holder, policy_type, start_date, end_date,
			deductible, max_coverage, covered_services, excluded_services, copay_percentage
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		policy.PolicyNumber,
		policy.PolicyHolder,
		policy.PolicyType,
		policy.StartDate,
		policy.EndDate,
		policy.Deductible,
		policy.MaxCoverage,
		string(covered),
		string(excluded),
		policy.CopayPercentage,
	)
	if err != nil {
		r.logger.Error("Failed to create policy", zap.String("policy_number", policy.PolicyNumber), zap.Error(err))
		return fmt.Errorf("failed to create policy: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	policy.ID = id
	return nil
}

// decodeServices decodes a JSON service list column. Malformed JSON
// degrades to an empty list rather than failing the lookup.
func decodeServices(raw sql.NullString, logger *zap.Logger) []string {
	if !raw.Valid || raw.String == "" {
		return []string{}
	}

	var services []string
	if err := json.Unmarshal([]byte(raw.String), &services); err != nil {
		logger.Warn("Failed to decode service list", zap.Error(err))
		return []string{}
	}
	return services
}
