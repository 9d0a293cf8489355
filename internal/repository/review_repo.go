package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/medclaims/claims-dashboard/internal/models"
)

// ReviewRepository persists the artifacts produced while reviewing a
// claim: validation results, eligibility results, recommendations and
// reviewer decisions.
type ReviewRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *sql.DB, logger *zap.Logger) *ReviewRepository {
	return &ReviewRepository{
		db:     db,
		logger: logger,
	}
}

// SaveValidationResult records a validation run for a claim
func (r *ReviewRepository) SaveValidationResult(ctx context.Context, claimID string, result *models.ValidationResult) error {
	issues, err := json.Marshal(result.Issues)
	if err != nil {
		return fmt.Errorf("failed to encode issues: %w", err)
	}

	query := `
		INSERT INTO validation_results (claim_id, is_valid, issues, recommendation, total_issues)
		VALUES (?, ?, ?, ?, ?)
	`

	if _, err := r.db.ExecContext(ctx, query,
		claimID,
		result.IsValid,
		string(issues),
		result.Recommendation,
		result.TotalIssues,
	); err != nil {
		r.logger.Error("Failed to save validation result", zap.String("claim_id", claimID), zap.Error(err))
		return fmt.Errorf("failed to save validation result: %w", err)
	}

	return nil
}

// SaveEligibilityResult records an eligibility check for a claim
func (r *ReviewRepository) SaveEligibilityResult(ctx context.Context, claimID string, result *models.EligibilityResult) error {
	checks, err := json.Marshal(result.Checks)
	if err != nil {
		return fmt.Errorf("failed to encode checks: %w", err)
	}
	coverage, err := json.Marshal(result.CoverageCalculation)
	if err != nil {
		return fmt.Errorf("failed to encode coverage calculation: %w", err)
	}

	query := `
		INSERT INTO eligibility_results (claim_id, policy_number, eligible, checks, coverage_calculation)
		VALUES (?, ?, ?, ?, ?)
	`

	if _, err := r.db.ExecContext(ctx, query,
		claimID,
		result.PolicyNumber,
		result.Eligible,
		string(checks),
		string(coverage),
	); err != nil {
		r.logger.Error("Failed to save eligibility result", zap.String("claim_id", claimID), zap.Error(err))
		return fmt.Errorf("failed to save eligibility result: %w", err)
	}

	return nil
}

// SaveRecommendation records a generated recommendation for a claim
func (r *ReviewRepository) SaveRecommendation(ctx context.Context, claimID string, rec *models.Recommendation) error {
	actions, err := json.Marshal(rec.SuggestedActions)
	if err != nil {
		return fmt.Errorf("failed to encode suggested actions: %w", err)
	}

	query := `
		INSERT INTO recommendations (claim_id, recommendation, confidence, reason, priority, suggested_actions, overall_score)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	if _, err := r.db.ExecContext(ctx, query,
		claimID,
		rec.Recommendation,
		rec.Confidence,
		rec.Reason,
		rec.Priority,
		string(actions),
		rec.OverallScore,
	); err != nil {
		r.logger.Error("Failed to save recommendation", zap.String("claim_id", claimID), zap.Error(err))
		return fmt.Errorf("failed to save recommendation: %w", err)
	}

	return nil
}

// SaveReviewerValidation records a human reviewer's decision
func (r *ReviewRepository) SaveReviewerValidation(ctx context.Context, validation *models.ReviewerValidation) error {
	var agreement sql.NullBool
	if validation.Agreement != nil {
		agreement = sql.NullBool{Bool: *validation.Agreement, Valid: true}
	}

	query := `
		INSERT INTO reviewer_validations (claim_id, reviewer_decision, reviewer_notes, reviewer_id, ai_recommendation, agreement)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	if _, err := r.db.ExecContext(ctx, query,
		validation.ClaimID,
		validation.ReviewerDecision,
		validation.ReviewerNotes,
		validation.ReviewerID,
		validation.AIRecommendation,
		agreement,
	); err != nil {
		r.logger.Error("Failed to save reviewer validation", zap.String("claim_id", validation.ClaimID), zap.Error(err))
		return fmt.Errorf("failed to save reviewer validation: %w", err)
	}

	return nil
}
