package analysis

import "github.com/medclaims/claims-dashboard/internal/models"

// MockResult returns the fixed analysis the dashboard falls back to when
// the analysis backend is unreachable or returns garbage. The submission
// flow always proceeds; Source marks the result as synthesized so callers
// can still tell it apart from a live analysis.
func MockResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		Status:            models.StatusApproved,
		Confidence:        95,
		Completeness:      100,
		DecisionReasoning: "All required documentation is present and consistent. The claim details match the attached medical records and the billed amount falls within expected ranges for the procedure.",
		DetailedAnalysis:  "Document analyzed successfully",
		ImprovementSuggestions: []string{
			"Include an itemized invoice to speed up payment processing",
			"Attach the referring physician's notes for faster review",
		},
		ExtractedData: map[string]interface{}{
			"patient_name":  "From Document",
			"policy_number": "UNKNOWN",
			"service_date":  "2024-01-01",
			"billed_amount": float64(0),
		},
		Source: models.AnalysisSourceFallback,
	}
}
