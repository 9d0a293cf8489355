package analysis

import (
	"strings"

	"github.com/medclaims/claims-dashboard/internal/models"
)

// fallbackReasoning is used when the backend supplies no reasoning text
const fallbackReasoning = "Document analyzed successfully"

// Normalize maps the analysis backend's nested response into the
// dashboard's canonical analysis shape. The backend's vocabulary differs
// from the dashboard's (COMPLETE/INCOMPLETE vs approved/pending); other
// status values pass through verbatim.
func Normalize(resp *models.BackendAnalysisResponse) *models.AnalysisResult {
	result := &models.AnalysisResult{
		Status:        models.StatusPending,
		ExtractedData: map[string]interface{}{},
		Source:        models.AnalysisSourceLive,
	}
	if resp == nil {
		return result
	}

	doc := resp.DocumentAnalysis
	if doc != nil {
		result.Status = normalizeStatus(doc.OverallStatus, resp.Status)
		result.Confidence = doc.ConfidenceLevel
		result.Completeness = doc.CompletenessScore
		if doc.ExtractedData != nil {
			result.ExtractedData = doc.ExtractedData
		}

		reasoning := reasoningText(doc)
		result.DetailedAnalysis = reasoning
		if doc.DecisionReasoning != "" {
			result.DecisionReasoning = doc.DecisionReasoning
		} else {
			result.DecisionReasoning = reasoning
		}
	} else {
		result.Status = normalizeStatus("", resp.Status)
		result.DecisionReasoning = fallbackReasoning
		result.DetailedAnalysis = fallbackReasoning
	}

	result.ImprovementSuggestions = flattenSuggestions(resp.ImprovementSuggestions)
	return result
}

// normalizeStatus resolves the claim status from the nested
// overall_status, falling back to the top-level status, then to pending.
func normalizeStatus(overall, topLevel string) string {
	switch overall {
	case models.OverallStatusComplete:
		return models.StatusApproved
	case models.OverallStatusIncomplete:
		return models.StatusPending
	case "":
		if topLevel != "" {
			return topLevel
		}
		return models.StatusPending
	default:
		return overall
	}
}

// reasoningText picks reasoning in preference order: processing notes,
// then joined validation errors, then a canned fallback.
func reasoningText(doc *models.DocumentAnalysis) string {
	if doc.ProcessingNotes != "" {
		return doc.ProcessingNotes
	}

	var errs []string
	for _, verr := range doc.ValidationErrors {
		if verr.Error != "" {
			errs = append(errs, verr.Error)
		}
	}
	if len(errs) > 0 {
		return strings.Join(errs, ". ")
	}

	return fallbackReasoning
}

// flattenSuggestions reduces the backend's grouped suggestions to the
// flat string list the dashboard renders.
func flattenSuggestions(sugg *models.ImprovementSuggestions) []string {
	if sugg == nil {
		return nil
	}

	var out []string
	for _, fix := range sugg.PriorityFixes {
		if fix.Description != "" {
			out = append(out, fix.Description)
		}
	}
	out = append(out, sugg.TemplateRecommendations...)
	return out
}
