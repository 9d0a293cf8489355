package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/medclaims/claims-dashboard/internal/models"
	"github.com/medclaims/claims-dashboard/pkg/database"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.New(database.Config{
		Path:         filepath.Join(t.TempDir(), "claims_test.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.NewMigrator(db, zap.NewNop()).RunMigrations())
	return db
}

func testRecord() *models.ClaimRecord {
	return &models.ClaimRecord{
		ClaimID:       "CLM-2024-100",
		PatientID:     "PAT-001",
		PatientName:   "Sarah Johnson",
		DateOfBirth:   "1985-03-12",
		PolicyNumber:  "POL12345678",
		ProviderName:  "City General Hospital",
		ProviderID:    "PRV-100",
		ServiceDate:   "2024-01-15",
		ServiceType:   "emergency",
		DiagnosisCode: "J45.9",
		ProcedureCode: "99213",
		AmountBilled:  4500,
	}
}

func TestClaimRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewClaimRepository(db.DB, zap.NewNop())
	ctx := context.Background()

	t.Run("save and get", func(t *testing.T) {
		record := testRecord()
		require.NoError(t, repo.Save(ctx, record))
		assert.NotZero(t, record.ID)

		got, err := repo.GetByClaimID(ctx, "CLM-2024-100")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Sarah Johnson", got.PatientName)
		assert.Equal(t, "submitted", got.Status)
		assert.InDelta(t, 4500, got.AmountBilled, 0.001)
	})

	t.Run("save keeps an explicit status", func(t *testing.T) {
		record := testRecord()
		record.ClaimID = "DOC_20240115_120000"
		record.Status = "analyzed"
		require.NoError(t, repo.Save(ctx, record))

		got, err := repo.GetByClaimID(ctx, "DOC_20240115_120000")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "analyzed", got.Status)
	})

	t.Run("get unknown claim", func(t *testing.T) {
		got, err := repo.GetByClaimID(ctx, "CLM-nope")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("duplicate claim id", func(t *testing.T) {
		assert.Error(t, repo.Save(ctx, testRecord()))
	})

	t.Run("update status", func(t *testing.T) {
		require.NoError(t, repo.UpdateStatus(ctx, "CLM-2024-100", "approved"))

		got, err := repo.GetByClaimID(ctx, "CLM-2024-100")
		require.NoError(t, err)
		assert.Equal(t, "approved", got.Status)
	})

	t.Run("update unknown claim", func(t *testing.T) {
		assert.Error(t, repo.UpdateStatus(ctx, "CLM-nope", "approved"))
	})
}

func TestPolicyRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewPolicyRepository(db.DB, zap.NewNop())
	ctx := context.Background()

	t.Run("seeded policy", func(t *testing.T) {
		policy, err := repo.GetPolicy(ctx, "POL12345678")
		require.NoError(t, err)
		require.NotNil(t, policy)

		assert.Equal(t, "John Doe", policy.PolicyHolder)
		assert.Equal(t, "comprehensive", policy.PolicyType)
		assert.InDelta(t, 500, policy.Deductible, 0.001)
		assert.InDelta(t, 50000, policy.MaxCoverage, 0.001)
		assert.Equal(t, []string{"emergency", "surgery", "diagnostics", "pharmacy"}, policy.CoveredServices)
		assert.Equal(t, []string{"cosmetic", "experimental"}, policy.ExcludedServices)
		assert.InDelta(t, 0.2, policy.CopayPercentage, 0.001)
	})

	t.Run("unknown policy", func(t *testing.T) {
		policy, err := repo.GetPolicy(ctx, "POL00000000")
		require.NoError(t, err)
		assert.Nil(t, policy)
	})

	t.Run("create and read back", func(t *testing.T) {
		policy := &models.Policy{
			PolicyNumber:     "POL22222222",
			PolicyHolder:     "Lisa Anderson",
			PolicyType:       "basic",
			StartDate:        "2024-01-01",
			EndDate:          "2024-12-31",
			Deductible:       750,
			MaxCoverage:      30000,
			CoveredServices:  []string{"diagnostics"},
			ExcludedServices: []string{},
			CopayPercentage:  0.25,
		}
		require.NoError(t, repo.Create(ctx, policy))
		assert.NotZero(t, policy.ID)

		got, err := repo.GetPolicy(ctx, "POL22222222")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, []string{"diagnostics"}, got.CoveredServices)
		assert.Empty(t, got.ExcludedServices)
	})
}

func TestReviewRepository(t *testing.T) {
	db := newTestDB(t)
	claims := NewClaimRepository(db.DB, zap.NewNop())
	repo := NewReviewRepository(db.DB, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, claims.Save(ctx, testRecord()))

	t.Run("validation result", func(t *testing.T) {
		result := &models.ValidationResult{
			IsValid:        false,
			Issues:         []models.Issue{{Type: models.IssueMissingData, Severity: models.SeverityHigh}},
			TotalIssues:    1,
			Recommendation: models.RecommendReject,
		}
		require.NoError(t, repo.SaveValidationResult(ctx, "CLM-2024-100", result))
	})

	t.Run("eligibility result", func(t *testing.T) {
		result := &models.EligibilityResult{
			Eligible:     true,
			PolicyNumber: "POL12345678",
			Checks:       []models.EligibilityCheck{{CheckType: "policy_active", Passed: true, Critical: true}},
			CoverageCalculation: &models.CoverageCalculation{
				ApprovedAmount:   4500,
				InsurancePayment: 3200,
			},
		}
		require.NoError(t, repo.SaveEligibilityResult(ctx, "CLM-2024-100", result))
	})

	t.Run("recommendation", func(t *testing.T) {
		rec := &models.Recommendation{
			Recommendation:   models.ActionAutoApprove,
			Confidence:       95,
			Reason:           "High confidence in claim validity and eligibility",
			Priority:         models.SeverityLow,
			SuggestedActions: []string{"Process payment automatically"},
			OverallScore:     95,
		}
		require.NoError(t, repo.SaveRecommendation(ctx, "CLM-2024-100", rec))
	})

	t.Run("reviewer validation", func(t *testing.T) {
		agreement := true
		validation := &models.ReviewerValidation{
			ClaimID:          "CLM-2024-100",
			ReviewerDecision: "AUTO_APPROVE",
			ReviewerID:       "REV-1",
			AIRecommendation: models.ActionAutoApprove,
			Agreement:        &agreement,
		}
		require.NoError(t, repo.SaveReviewerValidation(ctx, validation))
	})
}
