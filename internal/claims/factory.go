package claims

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/medclaims/claims-dashboard/internal/models"
)

// Factory constructs new claim records from submitted form data.
// Validation happens here, not at the transport layer, so the contract
// holds regardless of caller.
type Factory struct {
	store  *Store
	logger *zap.Logger
}

// NewFactory creates a claim factory backed by the given store
func NewFactory(store *Store, logger *zap.Logger) *Factory {
	return &Factory{
		store:  store,
		logger: logger,
	}
}

// Create validates the submission, builds the claim record and appends it
// to the store. The optional analysis result seeds the initial status and
// completes the AI verification stage. The store is not touched when
// validation fails.
func (f *Factory) Create(sub models.ClaimSubmission, files []models.UploadedFile, analysis *models.AnalysisResult) (*models.Claim, error) {
	if err := validate(sub); err != nil {
		return nil, err
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(sub.Amount), 64)
	if err != nil {
		return nil, &ValidationError{Invalid: []string{"amount"}}
	}

	now := time.Now()
	today := now.Format(dateLayout)

	status := models.StatusPending
	if analysis != nil && analysis.Status != "" {
		status = analysis.Status
	}

	claim := &models.Claim{
		ID:          f.store.NextID(),
		PatientID:   sub.PatientID,
		PatientName: sub.FirstName + " " + sub.LastName,
		Status:      status,
		Type:        sub.ClaimType,
		Provider:    sub.Provider,
		Amount:      amount,
		Submitted:   today,
		DOB:         sub.DOB,
		ServiceDate: sub.ServiceDate,
		Diagnosis:   sub.Diagnosis,
		Notes:       sub.Notes,
		Timeline:    buildTimeline(today, analysis != nil),
		Documents:   buildDocuments(files, today),
		AIAnalysis:  analysis,
	}

	f.store.Append(claim)

	f.logger.Info("Claim created",
		zap.String("claim_id", claim.ID),
		zap.String("status", claim.Status),
		zap.Int("documents", len(claim.Documents)),
		zap.Bool("analyzed", analysis != nil))

	return claim, nil
}

// validate checks that every required submission field is non-empty
func validate(sub models.ClaimSubmission) error {
	required := []struct {
		name  string
		value string
	}{
		{"firstName", sub.FirstName},
		{"lastName", sub.LastName},
		{"dob", sub.DOB},
		{"patientId", sub.PatientID},
		{"claimType", sub.ClaimType},
		{"serviceDate", sub.ServiceDate},
		{"provider", sub.Provider},
		{"amount", sub.Amount},
		{"diagnosis", sub.Diagnosis},
	}

	var missing []string
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// buildTimeline returns the fixed five-stage lifecycle. Stage one is
// always completed at submission; stage two only when an analysis result
// accompanied the claim. Later stages belong to the external claims
// handling workflow.
func buildTimeline(today string, analyzed bool) []models.TimelineEntry {
	timeline := []models.TimelineEntry{
		{Status: models.StageSubmitted, Date: today, Completed: true},
		{Status: models.StageAIVerified, Date: "", Completed: false},
		{Status: models.StageUnderReview, Date: "", Completed: false},
		{Status: models.StageApproved, Date: "", Completed: false},
		{Status: models.StagePaid, Date: "", Completed: false},
	}
	if analyzed {
		timeline[1].Date = today
		timeline[1].Completed = true
	}
	return timeline
}

// buildDocuments converts uploaded files into document entries with a
// human-readable size.
func buildDocuments(files []models.UploadedFile, today string) []models.Document {
	docs := make([]models.Document, 0, len(files))
	for _, file := range files {
		docs = append(docs, models.Document{
			Name:       file.Name,
			Size:       FormatSize(file.Size),
			UploadDate: today,
		})
	}
	return docs
}

// FormatSize renders a byte count in megabytes with two decimals
func FormatSize(bytes int64) string {
	return fmt.Sprintf("%.2f MB", float64(bytes)/1024/1024)
}
