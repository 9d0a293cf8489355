package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/medclaims/claims-dashboard/internal/analysis"
	"github.com/medclaims/claims-dashboard/internal/claims"
	"github.com/medclaims/claims-dashboard/internal/models"
	"github.com/medclaims/claims-dashboard/internal/proxy"
	"github.com/medclaims/claims-dashboard/pkg/utils"
)

// Handlers contains the dashboard's HTTP request handlers
type Handlers struct {
	store     *claims.Store
	factory   *claims.Factory
	analyzer  *analysis.Client
	forwarder *proxy.Forwarder
	exporter  *claims.Exporter
	logger    *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	store *claims.Store,
	factory *claims.Factory,
	analyzer *analysis.Client,
	forwarder *proxy.Forwarder,
	exporter *claims.Exporter,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		store:     store,
		factory:   factory,
		analyzer:  analyzer,
		forwarder: forwarder,
		exporter:  exporter,
		logger:    logger,
	}
}

// createClaimRequest is the JSON body for claim creation. Analysis is
// optional and attached when the frontend already ran the document
// analysis step.
type createClaimRequest struct {
	models.ClaimSubmission
	Analysis *models.AnalysisResult `json:"analysis,omitempty"`
}

// Root handles GET /
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Medical Claims API",
		"version": "1.0.0",
	})
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "claims-dashboard",
		"time":    time.Now().Format(time.RFC3339),
	})
}

// ListClaims handles GET /api/claims. An absent or "all" status filter
// returns every claim.
func (h *Handlers) ListClaims(c *gin.Context) {
	status := c.Query("status")
	c.JSON(http.StatusOK, h.store.Filter(status))
}

// GetClaim handles GET /api/claims/:id
func (h *Handlers) GetClaim(c *gin.Context) {
	claim, err := h.store.Find(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Claim not found"})
		return
	}
	c.JSON(http.StatusOK, claim)
}

// CreateClaim handles POST /api/claims. It accepts a JSON body or a
// multipart form with optional file attachments and a serialized
// analysis result.
func (h *Handlers) CreateClaim(c *gin.Context) {
	contentType := c.ContentType()

	var sub models.ClaimSubmission
	var files []models.UploadedFile
	var result *models.AnalysisResult

	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := c.ShouldBind(&sub); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid form data"})
			return
		}

		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid multipart form"})
			return
		}
		for _, fh := range form.File["documents"] {
			files = append(files, models.UploadedFile{
				Name: utils.SafeFilename(fh.Filename),
				Size: fh.Size,
			})
		}

		// The analysis field carries a JSON-serialized result inside the form
		if raw := c.PostForm("analysis"); raw != "" {
			var parsed models.AnalysisResult
			if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
				h.logger.Warn("Ignoring malformed analysis field", zap.Error(err))
			} else {
				result = &parsed
			}
		}
	} else {
		var req createClaimRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
			return
		}
		sub = req.ClaimSubmission
		result = req.Analysis
	}

	claim, err := h.factory.Create(sub, files, result)
	if err != nil {
		var vErr *claims.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": vErr.Error()})
			return
		}
		h.logger.Error("Failed to create claim", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to create claim"})
		return
	}

	c.JSON(http.StatusOK, claim)
}

// UpdateClaimStatus handles PUT /api/claims/:id/status. The new status
// comes from the "status" query parameter or a JSON body.
func (h *Handlers) UpdateClaimStatus(c *gin.Context) {
	status := c.Query("status")
	if status == "" {
		var body struct {
			Status string `json:"status"`
		}
		if err := c.ShouldBindJSON(&body); err == nil {
			status = body.Status
		}
	}
	if status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "status is required"})
		return
	}

	claim, err := h.store.UpdateStatus(c.Param("id"), status)
	switch {
	case errors.Is(err, claims.ErrClaimNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Claim not found"})
		return
	case errors.Is(err, claims.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid status: " + status})
		return
	case err != nil:
		h.logger.Error("Failed to update claim status", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to update status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Status updated successfully",
		"claim":   claim,
	})
}

// UploadDocument handles POST /api/claims/:id/documents
func (h *Handlers) UploadDocument(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "file is required"})
		return
	}

	doc := models.Document{
		Name:       utils.SafeFilename(fh.Filename),
		Size:       claims.FormatSize(fh.Size),
		UploadDate: claims.Today(),
	}

	if _, err := h.store.AttachDocument(c.Param("id"), doc); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Claim not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Document uploaded successfully",
		"document": doc,
	})
}

// GetStats handles GET /api/stats
func (h *Handlers) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Stats())
}

// ExportClaims handles GET /api/claims/export, streaming the full claim
// listing as an xlsx workbook.
func (h *Handlers) ExportClaims(c *gin.Context) {
	data, err := h.exporter.Export(h.store.All())
	if err != nil {
		h.logger.Error("Failed to export claims", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to export claims"})
		return
	}

	filename := "claims_export_" + time.Now().Format("20060102") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// AnalyzeDocument handles POST /api/analyze. Analysis failures degrade
// to mock data, so this endpoint always returns a result.
func (h *Handlers) AnalyzeDocument(c *gin.Context) {
	fh, err := c.FormFile("document")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "document file is required"})
		return
	}

	claimType := c.PostForm("claimType")
	if claimType == "" {
		claimType = c.PostForm("claim_type")
	}
	if claimType == "" {
		claimType = "medical_claim"
	}

	file, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "failed to read uploaded file"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "failed to read uploaded file"})
		return
	}

	result := h.analyzer.Analyze(c.Request.Context(), utils.SafeFilename(fh.Filename), content, claimType)
	c.JSON(http.StatusOK, result)
}

// Proxy handles ANY /api/proxy/*path, relaying the request to the
// backend API. All proxy failures collapse into a generic 500.
func (h *Handlers) Proxy(c *gin.Context) {
	var body io.Reader
	if c.Request.Method == http.MethodPost || c.Request.Method == http.MethodPut {
		body = c.Request.Body
	}

	result, err := h.forwarder.Forward(
		c.Request.Context(),
		c.Request.Method,
		c.Param("path"),
		c.Request.URL.RawQuery,
		body,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Proxy request failed"})
		return
	}

	contentType := result.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	c.Data(result.StatusCode, contentType, result.Body)
}
