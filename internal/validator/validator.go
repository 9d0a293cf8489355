// Package validator detects inconsistencies and missing information in
// submitted claims before they enter review.
package validator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/medclaims/claims-dashboard/internal/models"
)

var (
	datePattern      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	policyPattern    = regexp.MustCompile(`^[A-Z0-9]{8,12}$`)
	diagnosisPattern = regexp.MustCompile(`^[A-Z]\d{2}\.\d$`) // ICD-10
)

// requiredFields are the claim fields that must be present and non-empty
var requiredFields = []string{
	"patient_id", "patient_name", "date_of_birth", "policy_number",
	"provider_name", "provider_id", "service_date", "diagnosis_code",
	"procedure_code", "amount_billed",
}

// highAmountThreshold flags unusually large billed amounts for review
const highAmountThreshold = 100000

// Validator checks claim data for missing fields, format errors and
// logical inconsistencies.
type Validator struct {
	logger *zap.Logger
}

// New creates a claim validator
func New(logger *zap.Logger) *Validator {
	return &Validator{logger: logger}
}

// Validate runs all checks over the claim data and returns the combined
// result. A claim is valid when no high-severity issue was found.
func (v *Validator) Validate(claim map[string]interface{}) *models.ValidationResult {
	var issues []models.Issue

	var missing []string
	for _, field := range requiredFields {
		if strings.TrimSpace(stringField(claim, field)) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		issues = append(issues, models.Issue{
			Type:     models.IssueMissingData,
			Severity: models.SeverityHigh,
			Fields:   missing,
			Message:  fmt.Sprintf("Missing required fields: %s", strings.Join(missing, ", ")),
		})
	}

	issues = append(issues, v.checkFormats(claim)...)
	issues = append(issues, v.checkConsistency(claim)...)

	hasCritical := false
	for _, issue := range issues {
		if issue.Severity == models.SeverityHigh {
			hasCritical = true
			break
		}
	}

	result := &models.ValidationResult{
		IsValid:             !hasCritical,
		Issues:              issues,
		TotalIssues:         len(issues),
		Recommendation:      recommendation(issues),
		ValidationTimestamp: time.Now().Format(time.RFC3339),
	}

	v.logger.Info("Claim validated",
		zap.Bool("is_valid", result.IsValid),
		zap.Int("issues", result.TotalIssues))

	return result
}

// checkFormats validates field formats
func (v *Validator) checkFormats(claim map[string]interface{}) []models.Issue {
	var issues []models.Issue

	for _, field := range []string{"date_of_birth", "service_date"} {
		value := stringField(claim, field)
		if value != "" && !datePattern.MatchString(value) {
			issues = append(issues, models.Issue{
				Type:     models.IssueFormatError,
				Severity: models.SeverityMedium,
				Field:    field,
				Message:  fmt.Sprintf("%s must be in YYYY-MM-DD format", field),
			})
		}
	}

	if policy := stringField(claim, "policy_number"); policy != "" && !policyPattern.MatchString(policy) {
		issues = append(issues, models.Issue{
			Type:     models.IssueFormatError,
			Severity: models.SeverityHigh,
			Field:    "policy_number",
			Message:  "Policy number format is invalid",
		})
	}

	if code := stringField(claim, "diagnosis_code"); code != "" && !diagnosisPattern.MatchString(code) {
		issues = append(issues, models.Issue{
			Type:     models.IssueFormatError,
			Severity: models.SeverityMedium,
			Field:    "diagnosis_code",
			Message:  "Diagnosis code should follow ICD-10 format (e.g., A12.3)",
		})
	}

	if raw, ok := claim["amount_billed"]; ok && raw != nil && raw != "" {
		amount, err := numericField(raw)
		switch {
		case err != nil:
			issues = append(issues, models.Issue{
				Type:     models.IssueFormatError,
				Severity: models.SeverityHigh,
				Field:    "amount_billed",
				Message:  "Amount billed must be a valid number",
			})
		case amount <= 0:
			issues = append(issues, models.Issue{
				Type:     models.IssueDataError,
				Severity: models.SeverityHigh,
				Field:    "amount_billed",
				Message:  "Billed amount must be greater than zero",
			})
		case amount > highAmountThreshold:
			issues = append(issues, models.Issue{
				Type:     models.IssueDataWarning,
				Severity: models.SeverityLow,
				Field:    "amount_billed",
				Message:  "Unusually high billed amount - please verify",
			})
		}
	}

	return issues
}

// checkConsistency finds logical contradictions in the claim data
func (v *Validator) checkConsistency(claim map[string]interface{}) []models.Issue {
	var issues []models.Issue

	dob, dobErr := time.Parse("2006-01-02", stringField(claim, "date_of_birth"))
	serviceDate, svcErr := time.Parse("2006-01-02", stringField(claim, "service_date"))

	// Format errors are already reported by checkFormats
	if dobErr == nil && svcErr == nil {
		if serviceDate.Before(dob) {
			issues = append(issues, models.Issue{
				Type:     models.IssueLogicalError,
				Severity: models.SeverityHigh,
				Message:  "Service date cannot be before patient birth date",
			})
		}

		if serviceDate.After(time.Now()) {
			issues = append(issues, models.Issue{
				Type:     models.IssueLogicalError,
				Severity: models.SeverityMedium,
				Message:  "Service date is in the future",
			})
		}

		ageAtService := serviceDate.Sub(dob).Hours() / 24 / 365.25
		if ageAtService > 120 {
			issues = append(issues, models.Issue{
				Type:     models.IssueDataWarning,
				Severity: models.SeverityMedium,
				Message:  "Patient age seems unusually high - please verify",
			})
		}
	}

	if name := strings.TrimSpace(stringField(claim, "patient_name")); name != "" {
		if len(strings.Fields(name)) < 2 {
			issues = append(issues, models.Issue{
				Type:     models.IssueDataWarning,
				Severity: models.SeverityLow,
				Message:  "Patient name appears to be incomplete (missing first/last name)",
			})
		}
	}

	return issues
}

// recommendation summarizes the issue list as a handling recommendation
func recommendation(issues []models.Issue) string {
	high, medium := 0, 0
	for _, issue := range issues {
		switch issue.Severity {
		case models.SeverityHigh:
			high++
		case models.SeverityMedium:
			medium++
		}
	}

	switch {
	case high > 0:
		return models.RecommendReject
	case medium > 0:
		return models.RecommendFlag
	case len(issues) > 0:
		return models.RecommendApproveWithNotes
	default:
		return models.RecommendApprove
	}
}

// stringField reads a claim field as a string
func stringField(claim map[string]interface{}, key string) string {
	switch value := claim[key].(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", value)
	}
}

// numericField reads a claim field as a float
func numericField(raw interface{}) (float64, error) {
	switch value := raw.(type) {
	case float64:
		return value, nil
	case int:
		return float64(value), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(value), 64)
	default:
		return 0, fmt.Errorf("not a number: %v", raw)
	}
}
