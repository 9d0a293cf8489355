// Package repository implements SQLite persistence for the analysis
// backend: claims, policies and review artifacts.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/medclaims/claims-dashboard/internal/models"
)

// ClaimRepository persists submitted claims
type ClaimRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewClaimRepository creates a new claim repository
func NewClaimRepository(db *sql.DB, logger *zap.Logger) *ClaimRepository {
	return &ClaimRepository{
		db:     db,
		logger: logger,
	}
}

// Save inserts a new claim record. An empty status gets the initial
// "submitted" state.
func (r *ClaimRepository) Save(ctx context.Context, claim *models.ClaimRecord) error {
	if claim.Status == "" {
		claim.Status = "submitted"
	}

	query := `
		INSERT INTO claims (
			claim_id, patient_id, patient_name, date_of_birth, policy_number,
			provider_name, provider_id, service_date, service_type,
			diagnosis_code, procedure_code, amount_billed, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		claim.ClaimID,
		claim.PatientID,
		claim.PatientName,
		claim.DateOfBirth,
		claim.PolicyNumber,
		claim.ProviderName,
		claim.ProviderID,
		claim.ServiceDate,
		claim.ServiceType,
		claim.DiagnosisCode,
		claim.ProcedureCode,
		claim.AmountBilled,
		claim.Status,
	)
	if err != nil {
		r.logger.Error("Failed to save claim", zap.String("claim_id", claim.ClaimID), zap.Error(err))
		return fmt.Errorf("failed to save claim: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	claim.ID = id
	return nil
}

// GetByClaimID retrieves a claim by its claim ID. Returns nil when the
// claim does not exist.
func (r *ClaimRepository) GetByClaimID(ctx context.Context, claimID string) (*models.ClaimRecord, error) {
	query := `
		SELECT id, claim_id, patient_id, patient_name, date_of_birth, policy_number,
			provider_name, provider_id, service_date, service_type,
			diagnosis_code, procedure_code, amount_billed, status, created_at
		FROM claims
		WHERE claim_id = ?
	`

	var claim models.ClaimRecord
	var serviceType sql.NullString

	err := r.db.QueryRowContext(ctx, query, claimID).Scan(
		&claim.ID,
		&claim.ClaimID,
		&claim.PatientID,
		&claim.PatientName,
		&claim.DateOfBirth,
		&claim.PolicyNumber,
		&claim.ProviderName,
		&claim.ProviderID,
		&claim.ServiceDate,
		&serviceType,
		&claim.DiagnosisCode,
		&claim.ProcedureCode,
		&claim.AmountBilled,
		&claim.Status,
		&claim.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get claim", zap.String("claim_id", claimID), zap.Error(err))
		return nil, fmt.Errorf("failed to get claim: %w", err)
	}

	if serviceType.Valid {
		claim.ServiceType = serviceType.String
	}

	return &claim, nil
}

// UpdateStatus updates a claim's processing status
func (r *ClaimRepository) UpdateStatus(ctx context.Context, claimID, status string) error {
	query := `
		UPDATE claims
		SET status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE claim_id = ?
	`

	result, err := r.db.ExecContext(ctx, query, status, claimID)
	if err != nil {
		r.logger.Error("Failed to update claim status", zap.String("claim_id", claimID), zap.Error(err))
		return fmt.Errorf("failed to update claim status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("claim not found: %s", claimID)
	}

	return nil
}
