package backend

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/medclaims/claims-dashboard/internal/document"
	"github.com/medclaims/claims-dashboard/internal/eligibility"
	"github.com/medclaims/claims-dashboard/internal/models"
	"github.com/medclaims/claims-dashboard/internal/recommend"
	"github.com/medclaims/claims-dashboard/internal/repository"
	"github.com/medclaims/claims-dashboard/internal/validator"
	"github.com/medclaims/claims-dashboard/pkg/utils"
)

const (
	maxUploadBytes  = 16 << 20
	previewLength   = 500
	timestampLayout = "20060102_150405"
)

// allowedExtensions lists the document types accepted for upload
var allowedExtensions = map[string]bool{
	"pdf":  true,
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"tiff": true,
	"bmp":  true,
}

// Handlers bundles the backend's HTTP handler dependencies
type Handlers struct {
	validator *validator.Validator
	checker   *eligibility.Checker
	engine    *recommend.Engine
	processor *document.Processor
	claims    *repository.ClaimRepository
	policies  *repository.PolicyRepository
	reviews   *repository.ReviewRepository
	uploadDir string
	logger    *zap.Logger
}

// NewHandlers creates the backend handler set
func NewHandlers(
	claimValidator *validator.Validator,
	checker *eligibility.Checker,
	engine *recommend.Engine,
	processor *document.Processor,
	claims *repository.ClaimRepository,
	policies *repository.PolicyRepository,
	reviews *repository.ReviewRepository,
	uploadDir string,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		validator: claimValidator,
		checker:   checker,
		engine:    engine,
		processor: processor,
		claims:    claims,
		policies:  policies,
		reviews:   reviews,
		uploadDir: uploadDir,
		logger:    logger,
	}
}

// HealthCheck handles GET /
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Claims AI Backend API is running",
		"version": "1.0.0",
	})
}

// APIStatus handles GET /api/status
func (h *Handlers) APIStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"api_status": "active",
		"available_endpoints": []string{
			"/api/claims/validate",
			"/api/eligibility/check",
			"/api/recommendations/generate",
		},
	})
}

// ValidateClaim handles POST /api/claims/validate
func (h *Handlers) ValidateClaim(c *gin.Context) {
	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil || len(payload) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No claim data provided"})
		return
	}

	result := h.validator.Validate(payload)

	if claimID, ok := payload["claim_id"].(string); ok && claimID != "" {
		if err := h.reviews.SaveValidationResult(c.Request.Context(), claimID, result); err != nil {
			h.logger.Warn("Failed to persist validation result",
				zap.String("claim_id", claimID), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, result)
}

// SubmitClaim handles POST /api/claims/submit. The claim is persisted
// and immediately run through the validation, eligibility and
// recommendation pipeline so the reviewer artifacts exist from the
// moment of submission.
func (h *Handlers) SubmitClaim(c *gin.Context) {
	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil || len(payload) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No claim data provided"})
		return
	}

	ctx := c.Request.Context()
	claimID := "CLM_" + time.Now().Format(timestampLayout)
	payload["claim_id"] = claimID

	record := recordFromPayload(claimID, payload)
	record.Status = "submitted"
	if err := h.claims.Save(ctx, record); err != nil {
		h.logger.Error("Failed to save claim", zap.String("claim_id", claimID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Submission failed"})
		return
	}

	validation := h.validator.Validate(payload)
	if err := h.reviews.SaveValidationResult(ctx, claimID, validation); err != nil {
		h.logger.Warn("Failed to persist validation result",
			zap.String("claim_id", claimID), zap.Error(err))
	}

	eligibilityResult, err := h.checker.Check(ctx, record)
	if err != nil {
		h.logger.Warn("Eligibility check failed during submission",
			zap.String("claim_id", claimID), zap.Error(err))
	} else if err := h.reviews.SaveEligibilityResult(ctx, claimID, eligibilityResult); err != nil {
		h.logger.Warn("Failed to persist eligibility result",
			zap.String("claim_id", claimID), zap.Error(err))
	}

	recommendation := h.engine.Generate(record, validation, eligibilityResult)
	if err := h.reviews.SaveRecommendation(ctx, claimID, recommendation); err != nil {
		h.logger.Warn("Failed to persist recommendation",
			zap.String("claim_id", claimID), zap.Error(err))
	}

	c.JSON(http.StatusCreated, gin.H{
		"claim_id":       claimID,
		"status":         "submitted",
		"message":        "Claim submitted successfully",
		"timestamp":      time.Now().Format(time.RFC3339),
		"validation":     validation,
		"eligibility":    eligibilityResult,
		"recommendation": recommendation,
	})
}

// ClaimStatus handles GET /api/claims/status/:claim_id
func (h *Handlers) ClaimStatus(c *gin.Context) {
	claimID := c.Param("claim_id")

	record, err := h.claims.GetByClaimID(c.Request.Context(), claimID)
	if err != nil {
		h.logger.Error("Failed to load claim", zap.String("claim_id", claimID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Status lookup failed"})
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Claim not found", "claim_id": claimID})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"claim_id":     record.ClaimID,
		"status":       record.Status,
		"last_updated": record.CreatedAt.Format(time.RFC3339),
	})
}

// UpdateClaimStatus handles PUT /api/claims/status/:claim_id
func (h *Handlers) UpdateClaimStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Status) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No status provided"})
		return
	}

	claimID := c.Param("claim_id")
	ctx := c.Request.Context()

	record, err := h.claims.GetByClaimID(ctx, claimID)
	if err != nil {
		h.logger.Error("Failed to load claim", zap.String("claim_id", claimID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Status update failed"})
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Claim not found", "claim_id": claimID})
		return
	}

	if err := h.claims.UpdateStatus(ctx, claimID, req.Status); err != nil {
		h.logger.Error("Failed to update claim status", zap.String("claim_id", claimID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Status update failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"claim_id": claimID,
		"status":   req.Status,
		"message":  "Status updated successfully",
	})
}

// UploadDocument handles POST /api/claims/upload: the document is stored
// on disk, its text extracted and analyzed, and a claim record created
// from the extracted data.
func (h *Handlers) UploadDocument(c *gin.Context) {
	fileHeader, err := c.FormFile("document")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No document file provided"})
		return
	}
	if fileHeader.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file selected"})
		return
	}

	ext := utils.FileExtension(fileHeader.Filename)
	if !allowedExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("File type %s not supported. Use: %s", ext, allowedExtensionList()),
		})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 16MB upload limit"})
		return
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		h.logger.Error("Failed to create upload directory", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Document processing failed"})
		return
	}

	timestamp := time.Now().Format(timestampLayout)
	storedName := timestamp + "_" + utils.SafeFilename(fileHeader.Filename)
	storedPath := filepath.Join(h.uploadDir, storedName)
	if err := c.SaveUploadedFile(fileHeader, storedPath); err != nil {
		h.logger.Error("Failed to store uploaded document", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Document processing failed"})
		return
	}

	text, err := h.processor.ExtractText(storedPath, ext)
	if err != nil {
		h.logger.Error("Text extraction failed",
			zap.String("file", storedName), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Document processing failed"})
		return
	}
	if strings.TrimSpace(text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No text could be extracted from the document"})
		return
	}

	claimType := c.DefaultPostForm("claim_type", "medical_claim")
	analysis := h.processor.Analyze(c.Request.Context(), text, claimType)
	suggestions := h.processor.Suggestions(analysis)

	claimID := "DOC_" + timestamp
	record := recordFromExtracted(claimID, claimType, analysis.ExtractedData)
	if err := h.claims.Save(c.Request.Context(), record); err != nil {
		h.logger.Warn("Failed to persist extracted claim",
			zap.String("claim_id", claimID), zap.Error(err))
	}

	c.JSON(http.StatusOK, models.BackendAnalysisResponse{
		ClaimID:                claimID,
		Status:                 "analyzed",
		DocumentAnalysis:       analysis,
		ImprovementSuggestions: suggestions,
		ExtractedTextPreview:   preview(text),
		FileInfo: &models.FileInfo{
			OriginalName: utils.SafeFilename(fileHeader.Filename),
			FileType:     ext,
			SizeBytes:    fileHeader.Size,
			ProcessedAt:  time.Now().Format(time.RFC3339),
		},
	})
}

// AnalyzeText handles POST /api/claims/analyze-text
func (h *Handlers) AnalyzeText(c *gin.Context) {
	var req struct {
		Text      string `json:"text"`
		ClaimType string `json:"claim_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No text provided for analysis"})
		return
	}
	if req.ClaimType == "" {
		req.ClaimType = "medical_claim"
	}

	analysis := h.processor.Analyze(c.Request.Context(), req.Text, req.ClaimType)
	suggestions := h.processor.Suggestions(analysis)

	c.JSON(http.StatusOK, models.BackendAnalysisResponse{
		Status:                 "analyzed",
		DocumentAnalysis:       analysis,
		ImprovementSuggestions: suggestions,
	})
}

// CheckEligibility handles POST /api/eligibility/check
func (h *Handlers) CheckEligibility(c *gin.Context) {
	var claim models.ClaimRecord
	if err := c.ShouldBindJSON(&claim); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No eligibility data provided"})
		return
	}

	result, err := h.checker.Check(c.Request.Context(), &claim)
	if err != nil {
		h.logger.Error("Eligibility check failed",
			zap.String("policy_number", claim.PolicyNumber), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Eligibility check failed"})
		return
	}

	if claim.ClaimID != "" {
		if err := h.reviews.SaveEligibilityResult(c.Request.Context(), claim.ClaimID, result); err != nil {
			h.logger.Warn("Failed to persist eligibility result",
				zap.String("claim_id", claim.ClaimID), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, result)
}

// PolicyDetails handles GET /api/eligibility/policy/:policy_number
func (h *Handlers) PolicyDetails(c *gin.Context) {
	policyNumber := c.Param("policy_number")

	policy, err := h.policies.GetPolicy(c.Request.Context(), policyNumber)
	if err != nil {
		h.logger.Error("Policy lookup failed",
			zap.String("policy_number", policyNumber), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Policy lookup failed"})
		return
	}
	if policy == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":         "Policy not found",
			"policy_number": policyNumber,
		})
		return
	}

	c.JSON(http.StatusOK, policy)
}

// CreatePolicy handles POST /api/eligibility/policy
func (h *Handlers) CreatePolicy(c *gin.Context) {
	var policy models.Policy
	if err := c.ShouldBindJSON(&policy); err != nil || policy.PolicyNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No policy data provided"})
		return
	}

	if err := h.policies.Create(c.Request.Context(), &policy); err != nil {
		h.logger.Error("Failed to create policy",
			zap.String("policy_number", policy.PolicyNumber), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Policy creation failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"policy_number": policy.PolicyNumber,
		"message":       "Policy created successfully",
	})
}

// GenerateRecommendation handles POST /api/recommendations/generate
func (h *Handlers) GenerateRecommendation(c *gin.Context) {
	var req struct {
		ClaimData         *models.ClaimRecord       `json:"claim_data"`
		ValidationResult  *models.ValidationResult  `json:"validation_result"`
		EligibilityResult *models.EligibilityResult `json:"eligibility_result"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No recommendation data provided"})
		return
	}
	if req.ClaimData == nil {
		req.ClaimData = &models.ClaimRecord{}
	}

	recommendation := h.engine.Generate(req.ClaimData, req.ValidationResult, req.EligibilityResult)

	if req.ClaimData.ClaimID != "" {
		if err := h.reviews.SaveRecommendation(c.Request.Context(), req.ClaimData.ClaimID, recommendation); err != nil {
			h.logger.Warn("Failed to persist recommendation",
				zap.String("claim_id", req.ClaimData.ClaimID), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, recommendation)
}

// RecommendationHistory handles GET /api/recommendations/history/:claim_id
func (h *Handlers) RecommendationHistory(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.History(c.Param("claim_id")))
}

// ValidateRecommendation handles POST /api/recommendations/validate
func (h *Handlers) ValidateRecommendation(c *gin.Context) {
	var validation models.ReviewerValidation
	if err := c.ShouldBindJSON(&validation); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No validation data provided"})
		return
	}

	result := h.engine.Validate(&validation)

	if err := h.reviews.SaveReviewerValidation(c.Request.Context(), result); err != nil {
		h.logger.Warn("Failed to persist reviewer validation",
			zap.String("claim_id", result.ClaimID), zap.Error(err))
	}

	c.JSON(http.StatusOK, result)
}

// recordFromPayload maps a submitted claim payload onto a claim record
func recordFromPayload(claimID string, payload map[string]interface{}) *models.ClaimRecord {
	return &models.ClaimRecord{
		ClaimID:       claimID,
		PatientID:     stringOr(payload, "patient_id", ""),
		PatientName:   stringOr(payload, "patient_name", ""),
		DateOfBirth:   stringOr(payload, "date_of_birth", ""),
		PolicyNumber:  stringOr(payload, "policy_number", ""),
		ProviderName:  stringOr(payload, "provider_name", ""),
		ProviderID:    stringOr(payload, "provider_id", ""),
		ServiceDate:   stringOr(payload, "service_date", ""),
		ServiceType:   stringOr(payload, "service_type", "general"),
		DiagnosisCode: stringOr(payload, "diagnosis_code", ""),
		ProcedureCode: stringOr(payload, "procedure_code", ""),
		AmountBilled:  floatOr(payload, "amount_billed"),
	}
}

// recordFromExtracted maps GPT-extracted document data onto a claim
// record, filling placeholders where extraction came up empty.
func recordFromExtracted(claimID, claimType string, extracted map[string]interface{}) *models.ClaimRecord {
	return &models.ClaimRecord{
		ClaimID:       claimID,
		PatientID:     stringOr(extracted, "patient_id", "EXTRACTED"),
		PatientName:   stringOr(extracted, "patient_name", "From Document"),
		DateOfBirth:   stringOr(extracted, "date_of_birth", "1900-01-01"),
		PolicyNumber:  stringOr(extracted, "policy_number", "UNKNOWN"),
		ProviderName:  stringOr(extracted, "provider_name", "From Document"),
		ProviderID:    "DOC_UPLOAD",
		ServiceDate:   stringOr(extracted, "service_date", "2024-01-01"),
		ServiceType:   claimType,
		DiagnosisCode: stringOr(extracted, "diagnosis_code", "EXTRACTED"),
		ProcedureCode: stringOr(extracted, "procedure_code", "EXTRACTED"),
		AmountBilled:  floatOr(extracted, "billed_amount"),
		Status:        "analyzed",
	}
}

func stringOr(data map[string]interface{}, key, fallback string) string {
	if value, ok := data[key].(string); ok && value != "" {
		return value
	}
	return fallback
}

func floatOr(data map[string]interface{}, key string) float64 {
	switch value := data[key].(type) {
	case float64:
		return value
	case int:
		return float64(value)
	default:
		return 0
	}
}

func preview(text string) string {
	if len(text) > previewLength {
		return text[:previewLength] + "..."
	}
	return text
}

func allowedExtensionList() string {
	exts := make([]string, 0, len(allowedExtensions))
	for ext := range allowedExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return strings.Join(exts, ", ")
}
