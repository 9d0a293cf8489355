// Package recommend scores validated claims and suggests how a claim
// handler should process them.
package recommend

import (
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/medclaims/claims-dashboard/internal/models"
)

// Scoring weights for the factors combined into the overall score
const (
	weightValidation  = 0.4
	weightEligibility = 0.3
	weightAmountRisk  = 0.2
	weightHistorical  = 0.1
)

// Engine combines validation, eligibility and risk signals into a
// processing recommendation. It keeps an in-memory history per claim so
// reviewers can audit and override past recommendations.
type Engine struct {
	mu      sync.Mutex
	history map[string][]*models.Recommendation
	logger  *zap.Logger
}

// NewEngine creates a recommendation engine
func NewEngine(logger *zap.Logger) *Engine {
	return &Engine{
		history: make(map[string][]*models.Recommendation),
		logger:  logger,
	}
}

// Generate produces a recommendation for the claim and records it in the
// claim's history.
func (e *Engine) Generate(claim *models.ClaimRecord, validation *models.ValidationResult, eligibility *models.EligibilityResult) *models.Recommendation {
	overall := validationScore(validation)*weightValidation +
		eligibilityScore(eligibility)*weightEligibility +
		amountRiskScore(claim)*weightAmountRisk +
		historicalScore(claim)*weightHistorical

	rec := e.determine(overall, validation, eligibility)

	claimID := claim.ClaimID
	if claimID == "" {
		claimID = "CLM_" + time.Now().Format("20060102_150405")
	}

	e.mu.Lock()
	e.history[claimID] = append(e.history[claimID], rec)
	e.mu.Unlock()

	e.logger.Info("Recommendation generated",
		zap.String("claim_id", claimID),
		zap.String("recommendation", rec.Recommendation),
		zap.Float64("overall_score", overall))

	return rec
}

// History returns all recommendations recorded for a claim
func (e *Engine) History(claimID string) []*models.Recommendation {
	e.mu.Lock()
	defer e.mu.Unlock()

	recs := e.history[claimID]
	out := make([]*models.Recommendation, len(recs))
	copy(out, recs)
	return out
}

// Validate records a human reviewer's decision on the latest
// recommendation for a claim and computes whether they agreed with it.
func (e *Engine) Validate(validation *models.ReviewerValidation) *models.ReviewerValidation {
	if validation.ReviewerID == "" {
		validation.ReviewerID = "unknown"
	}
	validation.ValidationTimestamp = time.Now().Format(time.RFC3339)

	e.mu.Lock()
	defer e.mu.Unlock()

	if recs := e.history[validation.ClaimID]; len(recs) > 0 {
		latest := recs[len(recs)-1]
		agreement := strings.EqualFold(latest.Recommendation, validation.ReviewerDecision)
		validation.AIRecommendation = latest.Recommendation
		validation.Agreement = &agreement
	}

	return validation
}

// validationScore scores validation results from 0 to 100
func validationScore(validation *models.ValidationResult) float64 {
	if validation == nil {
		return 50
	}
	if len(validation.Issues) == 0 {
		return 100
	}

	score := 100.0
	for _, issue := range validation.Issues {
		switch issue.Severity {
		case models.SeverityHigh:
			score -= 30
		case models.SeverityMedium:
			score -= 15
		case models.SeverityLow:
			score -= 5
		}
	}
	if score < 0 {
		return 0
	}
	return score
}

// eligibilityScore scores eligibility results from 0 to 100
func eligibilityScore(eligibility *models.EligibilityResult) float64 {
	if eligibility == nil {
		return 50
	}
	if !eligibility.Eligible {
		return 0
	}
	if len(eligibility.Checks) == 0 {
		return 70
	}

	passedCritical, totalCritical := 0, 0
	for _, check := range eligibility.Checks {
		if check.Critical {
			totalCritical++
			if check.Passed {
				passedCritical++
			}
		}
	}
	if totalCritical == 0 {
		return 70
	}
	return float64(passedCritical) / float64(totalCritical) * 100
}

// amountRiskScore scores the billed amount from 0 to 100, higher meaning
// less risky
func amountRiskScore(claim *models.ClaimRecord) float64 {
	amount := claim.AmountBilled
	switch {
	case amount <= 500:
		return 90
	case amount <= 2000:
		return 75
	case amount <= 10000:
		return 60
	case amount <= 50000:
		return 40
	default:
		return 20
	}
}

// historicalScore scores provider trust from past claim patterns.
// TODO: replace the prefix heuristic with real provider statistics once
// the backend retains enough claim history.
func historicalScore(claim *models.ClaimRecord) float64 {
	switch {
	case strings.HasPrefix(claim.ProviderID, "PROV_HIGH"):
		return 90
	case strings.HasPrefix(claim.ProviderID, "PROV_LOW"):
		return 40
	default:
		return 70
	}
}

// determine maps the overall score and hard conditions to a final
// recommendation. Ineligibility and critical validation issues override
// the score.
func (e *Engine) determine(overall float64, validation *models.ValidationResult, eligibility *models.EligibilityResult) *models.Recommendation {
	now := time.Now().Format(time.RFC3339)

	if eligibility == nil || !eligibility.Eligible {
		return &models.Recommendation{
			Recommendation: models.ActionReject,
			Confidence:     95,
			Reason:         "Claim is not eligible for coverage",
			Priority:       models.SeverityHigh,
			SuggestedActions: []string{
				"Notify claimant of ineligibility",
				"Provide appeal process information",
			},
			OverallScore: overall,
			Timestamp:    now,
		}
	}

	var critical []models.Issue
	if validation != nil {
		for _, issue := range validation.Issues {
			if issue.Severity == models.SeverityHigh {
				critical = append(critical, issue)
			}
		}
	}
	if len(critical) > 0 {
		fields := make([]string, 0, len(critical))
		for _, issue := range critical {
			field := issue.Field
			if field == "" {
				field = "unknown"
			}
			fields = append(fields, field)
		}
		return &models.Recommendation{
			Recommendation: models.ActionReturnForCorrection,
			Confidence:     90,
			Reason:         "Critical validation issues require correction",
			Priority:       models.SeverityHigh,
			SuggestedActions: []string{
				"Return claim to submitter",
				"Request correction of: " + strings.Join(fields, ", "),
			},
			OverallScore:    overall,
			IssuesToCorrect: critical,
			Timestamp:       now,
		}
	}

	switch {
	case overall >= 85:
		return &models.Recommendation{
			Recommendation:   models.ActionAutoApprove,
			Confidence:       95,
			Reason:           "High confidence in claim validity and eligibility",
			Priority:         models.SeverityLow,
			SuggestedActions: []string{"Process payment automatically"},
			OverallScore:     overall,
			Timestamp:        now,
		}
	case overall >= 70:
		return &models.Recommendation{
			Recommendation: models.ActionApproveWithReview,
			Confidence:     80,
			Reason:         "Good confidence but recommend quick human review",
			Priority:       models.SeverityMedium,
			SuggestedActions: []string{
				"Quick supervisor review",
				"Process if no concerns",
			},
			OverallScore: overall,
			Timestamp:    now,
		}
	case overall >= 50:
		return &models.Recommendation{
			Recommendation: models.ActionManualReview,
			Confidence:     60,
			Reason:         "Moderate risk requires detailed manual review",
			Priority:       models.SeverityMedium,
			SuggestedActions: []string{
				"Detailed claim review",
				"Verify documentation",
				"Contact provider if needed",
			},
			OverallScore: overall,
			Timestamp:    now,
		}
	default:
		return &models.Recommendation{
			Recommendation: models.ActionIntensiveReview,
			Confidence:     75,
			Reason:         "High risk claim requires intensive investigation",
			Priority:       models.SeverityHigh,
			SuggestedActions: []string{
				"Senior adjuster review",
				"Verify all documentation",
				"Investigate potential fraud indicators",
				"Contact all parties for verification",
			},
			OverallScore: overall,
			Timestamp:    now,
		}
	}
}
