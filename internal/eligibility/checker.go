// Package eligibility evaluates whether a claim is payable under its
// policy and computes the coverage split between insurer and patient.
package eligibility

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/medclaims/claims-dashboard/internal/models"
)

// PolicyGetter looks up a policy by its policy number. A nil policy with
// a nil error means the policy does not exist.
type PolicyGetter interface {
	GetPolicy(ctx context.Context, policyNumber string) (*models.Policy, error)
}

// Checker runs eligibility checks for claims against stored policies
type Checker struct {
	policies PolicyGetter
	logger   *zap.Logger
}

// NewChecker creates an eligibility checker
func NewChecker(policies PolicyGetter, logger *zap.Logger) *Checker {
	return &Checker{policies: policies, logger: logger}
}

// Check evaluates all eligibility criteria for the claim. A claim is
// eligible when every critical check passes.
func (c *Checker) Check(ctx context.Context, claim *models.ClaimRecord) (*models.EligibilityResult, error) {
	if claim.PolicyNumber == "" {
		return &models.EligibilityResult{
			Eligible:  false,
			Reason:    "Policy not found or invalid",
			Details:   map[string]interface{}{"error": "Policy number required"},
			Timestamp: time.Now().Format(time.RFC3339),
		}, nil
	}

	policy, err := c.policies.GetPolicy(ctx, claim.PolicyNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to look up policy: %w", err)
	}
	if policy == nil {
		return &models.EligibilityResult{
			Eligible:     false,
			PolicyNumber: claim.PolicyNumber,
			Reason:       "Policy not found or invalid",
			Details:      map[string]interface{}{"error": "Policy not found"},
			Timestamp:    time.Now().Format(time.RFC3339),
		}, nil
	}

	serviceType := claim.ServiceType
	if serviceType == "" {
		serviceType = "general"
	}

	checks := []models.EligibilityCheck{
		checkPolicyActive(policy, claim.ServiceDate),
		checkServiceCoverage(policy, serviceType),
		checkCoverageLimits(policy, claim.AmountBilled),
		calculatePatientCosts(policy, claim.AmountBilled),
	}

	eligible := true
	for _, check := range checks {
		if check.Critical && !check.Passed {
			eligible = false
		}
	}

	result := &models.EligibilityResult{
		Eligible:            eligible,
		PolicyNumber:        claim.PolicyNumber,
		Checks:              checks,
		CoverageCalculation: calculateCoverage(policy, claim.AmountBilled, eligible),
		Timestamp:           time.Now().Format(time.RFC3339),
	}

	c.logger.Info("Eligibility checked",
		zap.String("policy_number", claim.PolicyNumber),
		zap.Bool("eligible", eligible))

	return result, nil
}

// checkPolicyActive verifies the policy covers the service date
func checkPolicyActive(policy *models.Policy, serviceDate string) models.EligibilityCheck {
	service, errSvc := time.Parse("2006-01-02", serviceDate)
	start, errStart := time.Parse("2006-01-02", policy.StartDate)
	end, errEnd := time.Parse("2006-01-02", policy.EndDate)

	if errSvc != nil || errStart != nil || errEnd != nil {
		return models.EligibilityCheck{
			CheckType: "policy_active",
			Passed:    false,
			Critical:  true,
			Message:   "Invalid date format",
			Details:   map[string]interface{}{},
		}
	}

	active := !service.Before(start) && !service.After(end)
	message := "Policy is active"
	if !active {
		message = fmt.Sprintf("Policy not active on %s", serviceDate)
	}

	return models.EligibilityCheck{
		CheckType: "policy_active",
		Passed:    active,
		Critical:  true,
		Message:   message,
		Details: map[string]interface{}{
			"policy_start": policy.StartDate,
			"policy_end":   policy.EndDate,
			"service_date": serviceDate,
		},
	}
}

// checkServiceCoverage verifies the service type against the policy's
// covered and excluded service lists. Exclusions take precedence.
func checkServiceCoverage(policy *models.Policy, serviceType string) models.EligibilityCheck {
	lowered := strings.ToLower(serviceType)

	for _, excluded := range policy.ExcludedServices {
		if strings.ToLower(excluded) == lowered {
			return models.EligibilityCheck{
				CheckType: "service_coverage",
				Passed:    false,
				Critical:  true,
				Message:   fmt.Sprintf("Service type %q is explicitly excluded", serviceType),
				Details: map[string]interface{}{
					"service_type":      serviceType,
					"excluded_services": policy.ExcludedServices,
				},
			}
		}
	}

	for _, covered := range policy.CoveredServices {
		if strings.ToLower(covered) == lowered {
			return models.EligibilityCheck{
				CheckType: "service_coverage",
				Passed:    true,
				Critical:  true,
				Message:   fmt.Sprintf("Service type %q is covered", serviceType),
				Details: map[string]interface{}{
					"service_type":     serviceType,
					"covered_services": policy.CoveredServices,
				},
			}
		}
	}

	return models.EligibilityCheck{
		CheckType: "service_coverage",
		Passed:    false,
		Critical:  true,
		Message:   fmt.Sprintf("Service type %q is not in covered services", serviceType),
		Details: map[string]interface{}{
			"service_type":     serviceType,
			"covered_services": policy.CoveredServices,
		},
	}
}

// checkCoverageLimits verifies the billed amount is within the policy cap
func checkCoverageLimits(policy *models.Policy, amountBilled float64) models.EligibilityCheck {
	withinLimit := amountBilled <= policy.MaxCoverage
	message := "Amount within coverage limit"
	if !withinLimit {
		message = fmt.Sprintf("Amount exceeds maximum coverage of $%.2f", policy.MaxCoverage)
	}

	return models.EligibilityCheck{
		CheckType: "coverage_limits",
		Passed:    withinLimit,
		Critical:  true,
		Message:   message,
		Details: map[string]interface{}{
			"amount_billed": amountBilled,
			"max_coverage":  policy.MaxCoverage,
			"excess_amount": math.Max(0, amountBilled-policy.MaxCoverage),
		},
	}
}

// calculatePatientCosts estimates the patient's share assuming the
// deductible has not been met yet
func calculatePatientCosts(policy *models.Policy, amountBilled float64) models.EligibilityCheck {
	afterDeductible := math.Max(0, amountBilled-policy.Deductible)
	copay := afterDeductible * policy.CopayPercentage
	insurancePays := afterDeductible - copay
	deductibleApplied := math.Min(amountBilled, policy.Deductible)

	return models.EligibilityCheck{
		CheckType: "cost_calculation",
		Passed:    true,
		Critical:  false,
		Message:   "Patient cost calculation completed",
		Details: map[string]interface{}{
			"amount_billed":     amountBilled,
			"deductible_amount": deductibleApplied,
			"copay_amount":      copay,
			"insurance_pays":    insurancePays,
			"patient_total":     deductibleApplied + copay,
		},
	}
}

// calculateCoverage computes the final coverage split. An ineligible
// claim leaves the full amount with the patient.
func calculateCoverage(policy *models.Policy, amountBilled float64, eligible bool) *models.CoverageCalculation {
	if !eligible {
		return &models.CoverageCalculation{
			ApprovedAmount:        0,
			PatientResponsibility: amountBilled,
			InsurancePayment:      0,
			CoveragePercentage:    0,
		}
	}

	coveredAmount := math.Min(amountBilled, policy.MaxCoverage)
	afterDeductible := math.Max(0, coveredAmount-policy.Deductible)
	copay := afterDeductible * policy.CopayPercentage
	insurancePayment := afterDeductible - copay
	deductibleApplied := math.Min(coveredAmount, policy.Deductible)

	coveragePercentage := 0.0
	if amountBilled > 0 {
		coveragePercentage = math.Round(insurancePayment/amountBilled*100*100) / 100
	}

	return &models.CoverageCalculation{
		ApprovedAmount:        coveredAmount,
		PatientResponsibility: deductibleApplied + copay,
		InsurancePayment:      insurancePayment,
		CoveragePercentage:    coveragePercentage,
		DeductibleApplied:     deductibleApplied,
		CopayApplied:          copay,
	}
}
