package models

// Issue severity constants
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// Issue type constants
const (
	IssueMissingData  = "missing_data"
	IssueFormatError  = "format_error"
	IssueDataError    = "data_error"
	IssueDataWarning  = "data_warning"
	IssueLogicalError = "logical_error"
)

// Validation recommendation constants
const (
	RecommendReject           = "REJECT - Critical issues found. Return to submitter for correction."
	RecommendFlag             = "FLAG - Medium priority issues found. Manual review recommended."
	RecommendApproveWithNotes = "APPROVE_WITH_NOTES - Minor issues noted but claim can proceed."
	RecommendApprove          = "APPROVE - No issues found."
)

// Issue describes a single problem found while validating a claim
type Issue struct {
	Type     string   `json:"type"`
	Severity string   `json:"severity"`
	Field    string   `json:"field,omitempty"`
	Fields   []string `json:"fields,omitempty"`
	Message  string   `json:"message"`
}

// ValidationResult is the full outcome of validating a submitted claim
type ValidationResult struct {
	IsValid             bool    `json:"is_valid"`
	Issues              []Issue `json:"issues"`
	TotalIssues         int     `json:"total_issues"`
	Recommendation      string  `json:"recommendation"`
	ValidationTimestamp string  `json:"validation_timestamp"`
}

// EligibilityCheck is one criterion evaluated during an eligibility check
type EligibilityCheck struct {
	CheckType string                 `json:"check_type"`
	Passed    bool                   `json:"passed"`
	Critical  bool                   `json:"critical"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details"`
}

// CoverageCalculation holds the final coverage amounts for a claim
type CoverageCalculation struct {
	ApprovedAmount        float64 `json:"approved_amount"`
	PatientResponsibility float64 `json:"patient_responsibility"`
	InsurancePayment      float64 `json:"insurance_payment"`
	CoveragePercentage    float64 `json:"coverage_percentage"`
	DeductibleApplied     float64 `json:"deductible_applied,omitempty"`
	CopayApplied          float64 `json:"copay_applied,omitempty"`
}

// EligibilityResult is the full outcome of an eligibility check
type EligibilityResult struct {
	Eligible            bool                   `json:"eligible"`
	PolicyNumber        string                 `json:"policy_number,omitempty"`
	Reason              string                 `json:"reason,omitempty"`
	Checks              []EligibilityCheck     `json:"checks,omitempty"`
	CoverageCalculation *CoverageCalculation   `json:"coverage_calculation,omitempty"`
	Details             map[string]interface{} `json:"details,omitempty"`
	Timestamp           string                 `json:"timestamp"`
}

// Recommendation action constants
const (
	ActionAutoApprove         = "AUTO_APPROVE"
	ActionApproveWithReview   = "APPROVE_WITH_REVIEW"
	ActionManualReview        = "MANUAL_REVIEW"
	ActionIntensiveReview     = "INTENSIVE_REVIEW"
	ActionReject              = "REJECT"
	ActionReturnForCorrection = "RETURN_FOR_CORRECTION"
)

// Recommendation is the engine's suggested handling for a claim
type Recommendation struct {
	Recommendation   string   `json:"recommendation"`
	Confidence       int      `json:"confidence"`
	Reason           string   `json:"reason"`
	Priority         string   `json:"priority"`
	SuggestedActions []string `json:"suggested_actions"`
	OverallScore     float64  `json:"overall_score"`
	IssuesToCorrect  []Issue  `json:"issues_to_correct,omitempty"`
	Timestamp        string   `json:"timestamp"`
}

// ReviewerValidation records a human reviewer's decision on an AI
// recommendation, including whether they agreed with it.
type ReviewerValidation struct {
	ClaimID             string `json:"claim_id"`
	ReviewerDecision    string `json:"reviewer_decision"`
	ReviewerNotes       string `json:"reviewer_notes"`
	ReviewerID          string `json:"reviewer_id"`
	AIRecommendation    string `json:"ai_recommendation,omitempty"`
	Agreement           *bool  `json:"agreement,omitempty"`
	ValidationTimestamp string `json:"validation_timestamp"`
}
