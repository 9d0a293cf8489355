package models

import "time"

// Policy represents an insurance policy used for eligibility checks
type Policy struct {
	ID               int64     `json:"id"`
	PolicyNumber     string    `json:"policy_number"`
	PolicyHolder     string    `json:"policy_holder"`
	PolicyType       string    `json:"policy_type"`
	StartDate        string    `json:"start_date"`
	EndDate          string    `json:"end_date"`
	Deductible       float64   `json:"deductible"`
	MaxCoverage      float64   `json:"max_coverage"`
	CoveredServices  []string  `json:"covered_services"`
	ExcludedServices []string  `json:"excluded_services"`
	CopayPercentage  float64   `json:"copay_percentage"`
	CreatedAt        time.Time `json:"created_at"`
}

// ClaimRecord is the backend's persisted view of a submitted claim
type ClaimRecord struct {
	ID            int64     `json:"id"`
	ClaimID       string    `json:"claim_id"`
	PatientID     string    `json:"patient_id"`
	PatientName   string    `json:"patient_name"`
	DateOfBirth   string    `json:"date_of_birth"`
	PolicyNumber  string    `json:"policy_number"`
	ProviderName  string    `json:"provider_name"`
	ProviderID    string    `json:"provider_id"`
	ServiceDate   string    `json:"service_date"`
	ServiceType   string    `json:"service_type"`
	DiagnosisCode string    `json:"diagnosis_code"`
	ProcedureCode string    `json:"procedure_code"`
	AmountBilled  float64   `json:"amount_billed"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}
