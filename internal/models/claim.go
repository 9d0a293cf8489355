package models

// Claim status constants
const (
	StatusApproved    = "approved"
	StatusPending     = "pending"
	StatusUnderReview = "under-review"
	StatusRejected    = "rejected"
)

// Timeline stage labels, in processing order
const (
	StageSubmitted   = "Claim submitted"
	StageAIVerified  = "Documents verified by AI"
	StageUnderReview = "Under review by claim handler"
	StageApproved    = "Approved for payment"
	StagePaid        = "Payment processed"
)

// TimelineEntry represents one stage of a claim's processing lifecycle.
// Date is empty until the stage is reached.
type TimelineEntry struct {
	Status    string `json:"status"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

// Document represents an uploaded file attached to a claim
type Document struct {
	Name       string `json:"name"`
	Size       string `json:"size"`
	UploadDate string `json:"uploadDate"`
}

// Claim represents a single submitted medical claim
type Claim struct {
	ID          string          `json:"id"`
	PatientID   string          `json:"patientId"`
	PatientName string          `json:"patientName"`
	Status      string          `json:"status"`
	Type        string          `json:"type"`
	Provider    string          `json:"provider"`
	Amount      float64         `json:"amount"`
	Submitted   string          `json:"submitted"`
	DOB         string          `json:"dob"`
	ServiceDate string          `json:"serviceDate"`
	Diagnosis   string          `json:"diagnosis"`
	Notes       string          `json:"notes"`
	Timeline    []TimelineEntry `json:"timeline"`
	Documents   []Document      `json:"documents"`
	AIAnalysis  *AnalysisResult `json:"aiAnalysis,omitempty"`
}

// Stats holds per-status claim counts. Under-review claims count toward
// Total but have no dedicated counter.
type Stats struct {
	Total    int `json:"total"`
	Approved int `json:"approved"`
	Pending  int `json:"pending"`
	Rejected int `json:"rejected"`
}

// ClaimSubmission holds the form fields required to create a claim
type ClaimSubmission struct {
	FirstName   string `json:"firstName" form:"firstName"`
	LastName    string `json:"lastName" form:"lastName"`
	DOB         string `json:"dob" form:"dob"`
	PatientID   string `json:"patientId" form:"patientId"`
	ClaimType   string `json:"claimType" form:"claimType"`
	ServiceDate string `json:"serviceDate" form:"serviceDate"`
	Provider    string `json:"provider" form:"provider"`
	Amount      string `json:"amount" form:"amount"`
	Diagnosis   string `json:"diagnosis" form:"diagnosis"`
	Notes       string `json:"notes" form:"notes"`
}

// UploadedFile describes a file attached to a claim submission
type UploadedFile struct {
	Name string
	Size int64
}
