package claims

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/medclaims/claims-dashboard/internal/models"
)

func validSubmission() models.ClaimSubmission {
	return models.ClaimSubmission{
		FirstName:   "John",
		LastName:    "Doe",
		DOB:         "1990-01-01",
		PatientID:   "PAT-1",
		ClaimType:   "outpatient",
		ServiceDate: "2024-01-01",
		Provider:    "City Clinic",
		Amount:      "100.00",
		Diagnosis:   "Checkup",
	}
}

func TestFactory_Create(t *testing.T) {
	today := time.Now().Format(dateLayout)

	t.Run("without analysis result", func(t *testing.T) {
		store := newTestStore(t)
		factory := NewFactory(store, zap.NewNop())

		claim, err := factory.Create(validSubmission(), nil, nil)
		require.NoError(t, err)

		assert.Regexp(t, `^CLM-\d{4}-\d{3}$`, claim.ID)
		assert.Equal(t, models.StatusPending, claim.Status)
		assert.Equal(t, "John Doe", claim.PatientName)
		assert.Equal(t, 100.0, claim.Amount)
		assert.Equal(t, today, claim.Submitted)
		assert.Empty(t, claim.Documents)
		assert.Nil(t, claim.AIAnalysis)

		require.Len(t, claim.Timeline, 5)
		assert.True(t, claim.Timeline[0].Completed)
		assert.Equal(t, today, claim.Timeline[0].Date)
		assert.False(t, claim.Timeline[1].Completed)
		assert.Empty(t, claim.Timeline[1].Date)

		stored, err := store.Find(claim.ID)
		require.NoError(t, err)
		assert.Same(t, claim, stored)
	})

	t.Run("with analysis result", func(t *testing.T) {
		store := newTestStore(t)
		factory := NewFactory(store, zap.NewNop())

		analysis := &models.AnalysisResult{
			Status:     models.StatusApproved,
			Confidence: 92,
			Source:     models.AnalysisSourceLive,
		}

		claim, err := factory.Create(validSubmission(), nil, analysis)
		require.NoError(t, err)

		assert.Equal(t, models.StatusApproved, claim.Status)
		assert.True(t, claim.Timeline[1].Completed)
		assert.Equal(t, today, claim.Timeline[1].Date)
		assert.Same(t, analysis, claim.AIAnalysis)
	})

	t.Run("with uploaded files", func(t *testing.T) {
		store := newTestStore(t)
		factory := NewFactory(store, zap.NewNop())

		files := []models.UploadedFile{
			{Name: "invoice.pdf", Size: 2516582},
			{Name: "report.pdf", Size: 1048576},
		}

		claim, err := factory.Create(validSubmission(), files, nil)
		require.NoError(t, err)

		require.Len(t, claim.Documents, 2)
		assert.Equal(t, "invoice.pdf", claim.Documents[0].Name)
		assert.Equal(t, "2.40 MB", claim.Documents[0].Size)
		assert.Equal(t, "1.00 MB", claim.Documents[1].Size)
		assert.Equal(t, today, claim.Documents[0].UploadDate)
	})
}

func TestFactory_CreateValidation(t *testing.T) {
	t.Run("missing fields leave the store untouched", func(t *testing.T) {
		store := newTestStore(t)
		factory := NewFactory(store, zap.NewNop())

		sub := validSubmission()
		sub.Provider = ""
		sub.Diagnosis = "  "

		_, err := factory.Create(sub, nil, nil)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.ElementsMatch(t, []string{"provider", "diagnosis"}, verr.Missing)
		assert.Zero(t, store.Len())
	})

	t.Run("unparseable amount", func(t *testing.T) {
		store := newTestStore(t)
		factory := NewFactory(store, zap.NewNop())

		sub := validSubmission()
		sub.Amount = "one hundred"

		_, err := factory.Create(sub, nil, nil)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"amount"}, verr.Invalid)
		assert.Zero(t, store.Len())
	})
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "1.00 MB", FormatSize(1048576))
	assert.Equal(t, "0.50 MB", FormatSize(524288))
	assert.Equal(t, "0.00 MB", FormatSize(0))
}
