package models

// Analysis source constants. Fallback marks results synthesized locally
// because the analysis backend could not be reached.
const (
	AnalysisSourceLive     = "live"
	AnalysisSourceFallback = "fallback"
)

// Backend overall_status values mapped by the normalizer
const (
	OverallStatusComplete   = "COMPLETE"
	OverallStatusIncomplete = "INCOMPLETE"
	OverallStatusError      = "ERROR"
	OverallStatusTimeout    = "TIMEOUT"
	OverallStatusOCR        = "OCR_REQUIRED"
)

// AnalysisResult is the dashboard's canonical shape for a document
// analysis, attached to a claim as aiAnalysis on creation.
type AnalysisResult struct {
	Status                 string                 `json:"status"`
	Confidence             float64                `json:"confidence"`
	Completeness           float64                `json:"completeness"`
	DecisionReasoning      string                 `json:"decisionReasoning"`
	DetailedAnalysis       string                 `json:"detailedAnalysis"`
	ImprovementSuggestions []string               `json:"improvementSuggestions"`
	ExtractedData          map[string]interface{} `json:"extractedData"`
	Source                 string                 `json:"source"`
}

// FieldError is a single field-level validation error reported by the
// analysis backend.
type FieldError struct {
	Field          string `json:"field"`
	Error          string `json:"error"`
	ExpectedFormat string `json:"expected_format"`
}

// QualityIssue describes a data quality problem found in a document
type QualityIssue struct {
	Section  string `json:"section"`
	Issue    string `json:"issue"`
	Severity string `json:"severity"`
}

// DocumentAnalysis is the nested analysis block produced by the backend's
// document processor.
type DocumentAnalysis struct {
	OverallStatus     string                 `json:"overall_status"`
	DecisionReasoning string                 `json:"decision_reasoning,omitempty"`
	KeyFactors        []string               `json:"key_factors,omitempty"`
	CompletenessScore float64                `json:"completeness_score"`
	MissingSections   []string               `json:"missing_sections,omitempty"`
	FoundSections     []string               `json:"found_sections,omitempty"`
	DataQualityIssues []QualityIssue         `json:"data_quality_issues,omitempty"`
	ValidationErrors  []FieldError           `json:"validation_errors,omitempty"`
	Recommendations   []string               `json:"recommendations,omitempty"`
	ExtractedData     map[string]interface{} `json:"extracted_data,omitempty"`
	ConfidenceLevel   float64                `json:"confidence_level"`
	ProcessingNotes   string                 `json:"processing_notes,omitempty"`
	OCRRequired       bool                   `json:"ocr_required,omitempty"`
}

// SuggestionFix is a prioritized correction derived from analysis results
type SuggestionFix struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Expected    string `json:"expected"`
}

// ImprovementSuggestions groups suggested fixes by priority
type ImprovementSuggestions struct {
	PriorityFixes           []SuggestionFix `json:"priority_fixes"`
	OptionalImprovements    []QualityIssue  `json:"optional_improvements"`
	TemplateRecommendations []string        `json:"template_recommendations"`
}

// FileInfo describes the uploaded file an analysis was produced from
type FileInfo struct {
	OriginalName string `json:"original_name"`
	FileType     string `json:"file_type"`
	SizeBytes    int64  `json:"size_bytes"`
	ProcessedAt  string `json:"processed_at"`
}

// BackendAnalysisResponse is the wire shape the analysis backend returns
// from its document upload and analyze-text endpoints.
type BackendAnalysisResponse struct {
	ClaimID                string                  `json:"claim_id,omitempty"`
	Status                 string                  `json:"status,omitempty"`
	DocumentAnalysis       *DocumentAnalysis       `json:"document_analysis,omitempty"`
	ImprovementSuggestions *ImprovementSuggestions `json:"improvement_suggestions,omitempty"`
	ExtractedTextPreview   string                  `json:"extracted_text_preview,omitempty"`
	FileInfo               *FileInfo               `json:"file_info,omitempty"`
}
