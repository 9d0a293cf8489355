// Package document extracts text from uploaded claim documents and
// analyzes them with GPT against standard claims-review criteria.
package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/medclaims/claims-dashboard/internal/models"
)

// ocrNotice marks extracted text that could not be read because the file
// is an image and no OCR engine is configured. The analyzer recognizes
// this marker and short-circuits with an OCR_REQUIRED result.
const ocrNotice = "[IMAGE UPLOAD DETECTED - OCR NOT AVAILABLE]"

// maxDocumentLength caps the text sent to GPT so large uploads do not
// time out the completion call
const maxDocumentLength = 4000

// chatCompleter is the slice of the OpenAI client the processor uses
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Processor extracts text from claim documents and runs GPT analysis
type Processor struct {
	client chatCompleter
	model  string
	logger *zap.Logger
}

// NewProcessor creates a document processor backed by the OpenAI API
func NewProcessor(apiKey, model string, logger *zap.Logger) *Processor {
	return &Processor{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: logger,
	}
}

// ExtractText extracts text from an uploaded document. PDFs are read
// page by page with mupdf. Image uploads return the OCR notice since no
// OCR engine is wired in.
func (p *Processor) ExtractText(path, fileType string) (string, error) {
	switch strings.ToLower(fileType) {
	case "pdf":
		return p.extractFromPDF(path)
	case "png", "jpg", "jpeg", "tiff", "bmp":
		return fmt.Sprintf("%s\n\nThis appears to be an image file that requires OCR to extract text.\nPlease upload a PDF version of the document, or type the document content manually.\n\nImage file: %s\n", ocrNotice, path), nil
	default:
		return "", fmt.Errorf("unsupported file type: %s", fileType)
	}
}

// extractFromPDF reads all page text from a PDF using mupdf
func (p *Processor) extractFromPDF(path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var sb strings.Builder
	for pageNum := 0; pageNum < doc.NumPage(); pageNum++ {
		text, err := doc.Text(pageNum)
		if err != nil {
			p.logger.Warn("Failed to extract page text",
				zap.Int("page", pageNum),
				zap.Error(err))
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

// Analyze runs GPT analysis over the extracted document text. It never
// returns an error: API failures, timeouts and unparseable responses all
// produce a structured result with a matching overall status.
func (p *Processor) Analyze(ctx context.Context, documentText, claimType string) *models.DocumentAnalysis {
	if strings.Contains(documentText, ocrNotice) {
		return &models.DocumentAnalysis{
			OverallStatus:   models.OverallStatusOCR,
			MissingSections: []string{"Text extraction required"},
			ValidationErrors: []models.FieldError{
				{Field: "ocr", Error: "OCR engine not available", ExpectedFormat: "Upload a PDF document"},
			},
			Recommendations: []string{
				"Convert image to PDF format",
				"Manually type the document content",
			},
			ProcessingNotes: strings.TrimSpace(documentText),
			OCRRequired:     true,
		}
	}

	if len(documentText) > maxDocumentLength {
		documentText = documentText[:maxDocumentLength] + "\n[DOCUMENT TRUNCATED - SHOWING FIRST 4000 CHARACTERS]"
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: 0.1,
		MaxTokens:   2000,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an expert medical claims analyst with years of experience reviewing insurance claims for completeness and accuracy.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildAnalysisPrompt(documentText, claimType),
			},
		},
	})
	if err != nil {
		p.logger.Error("OpenAI API call failed", zap.Error(err))
		return errorAnalysis(err)
	}

	if len(resp.Choices) == 0 {
		return errorAnalysis(errors.New("no response from OpenAI"))
	}

	content := resp.Choices[0].Message.Content

	var analysis models.DocumentAnalysis
	if err := json.Unmarshal([]byte(content), &analysis); err != nil {
		// Fallback: try to extract JSON from markdown code blocks
		if jsonStr := extractJSON(content); jsonStr != "" {
			if err := json.Unmarshal([]byte(jsonStr), &analysis); err == nil {
				return &analysis
			}
		}

		p.logger.Error("Failed to parse analysis response",
			zap.Error(err),
			zap.String("content", content))
		return &models.DocumentAnalysis{
			OverallStatus:   models.OverallStatusError,
			MissingSections: []string{"Analysis parsing failed"},
			ValidationErrors: []models.FieldError{
				{Field: "document", Error: "GPT response parsing failed", ExpectedFormat: "JSON"},
			},
			Recommendations: []string{"Please resubmit the document"},
			ProcessingNotes: "GPT raw response: " + content,
		}
	}

	p.logger.Info("Document analyzed",
		zap.String("overall_status", analysis.OverallStatus),
		zap.Float64("completeness_score", analysis.CompletenessScore),
		zap.Float64("confidence_level", analysis.ConfidenceLevel))

	return &analysis
}

// Suggestions derives prioritized improvement suggestions from an
// analysis result.
func (p *Processor) Suggestions(analysis *models.DocumentAnalysis) *models.ImprovementSuggestions {
	suggestions := &models.ImprovementSuggestions{
		PriorityFixes:           []models.SuggestionFix{},
		OptionalImprovements:    []models.QualityIssue{},
		TemplateRecommendations: []string{},
	}

	for _, fieldErr := range analysis.ValidationErrors {
		field := fieldErr.Field
		if field == "" {
			field = "unknown field"
		}
		message := fieldErr.Error
		if message == "" {
			message = "unknown error"
		}
		expected := fieldErr.ExpectedFormat
		if expected == "" {
			expected = "correct format"
		}
		suggestions.PriorityFixes = append(suggestions.PriorityFixes, models.SuggestionFix{
			Type:        "validation_error",
			Description: fmt.Sprintf("Fix %s: %s", field, message),
			Expected:    expected,
		})
	}

	for _, section := range analysis.MissingSections {
		suggestions.PriorityFixes = append(suggestions.PriorityFixes, models.SuggestionFix{
			Type:        "missing_section",
			Description: "Add missing section: " + section,
			Expected:    "Complete section with all required fields",
		})
	}

	for _, issue := range analysis.DataQualityIssues {
		severity := strings.ToUpper(issue.Severity)
		if severity == "HIGH" || severity == "MEDIUM" {
			suggestions.OptionalImprovements = append(suggestions.OptionalImprovements, issue)
		}
	}

	if analysis.CompletenessScore < 70 {
		suggestions.TemplateRecommendations = append(suggestions.TemplateRecommendations,
			"Consider using a standardized claim form template to ensure all required sections are included.")
	}

	return suggestions
}

// errorAnalysis builds the analysis shape for a failed API call,
// distinguishing timeouts from other errors
func errorAnalysis(err error) *models.DocumentAnalysis {
	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(strings.ToLower(err.Error()), "timeout") {
		return &models.DocumentAnalysis{
			OverallStatus:   models.OverallStatusTimeout,
			MissingSections: []string{"Analysis timed out"},
			ValidationErrors: []models.FieldError{
				{Field: "processing", Error: "Analysis timeout - document too large or complex", ExpectedFormat: "smaller_document"},
			},
			Recommendations: []string{
				"Try with a smaller document",
				"Break large documents into sections",
				"Ensure document is properly formatted",
			},
			ProcessingNotes: "Analysis timed out. Document may be too large or complex for processing.",
		}
	}

	return &models.DocumentAnalysis{
		OverallStatus:   models.OverallStatusError,
		MissingSections: []string{"Analysis failed"},
		ValidationErrors: []models.FieldError{
			{Field: "system", Error: err.Error(), ExpectedFormat: "valid_document"},
		},
		Recommendations: []string{"Please check the document and try again"},
		ProcessingNotes: "System error: " + err.Error(),
	}
}

// buildAnalysisPrompt builds the claim analysis prompt
func buildAnalysisPrompt(documentText, claimType string) string {
	return fmt.Sprintf(`Analyze this insurance claim document (claim type: %s) and return results in JSON format:

DOCUMENT TO ANALYZE:
%s

Return JSON with these fields:
- overall_status: "COMPLETE", "INCOMPLETE", or "NEEDS_REVIEW"
- decision_reasoning: detailed explanation of why the claim was approved, denied, or needs review (minimum 3 sentences)
- key_factors: array of 3-5 main factors that influenced the decision
- completeness_score: 0-100
- missing_sections: array of missing required sections
- found_sections: array of sections found
- validation_errors: array with field, error, expected_format
- recommendations: array of improvement suggestions
- extracted_data: object with patient_name, policy_number, service_date, billed_amount, etc.
- confidence_level: 0-100
- processing_notes: brief analysis summary

DECISION CRITERIA:
COMPLETE: All required information present, valid policy, within coverage limits, proper documentation
INCOMPLETE: Missing critical information, expired/invalid policy, fraudulent indicators, outside coverage
NEEDS_REVIEW: Incomplete information but potentially valid, unusual circumstances, borderline cases

Provide clear, specific reasoning for your decision based on standard insurance industry practices.`, claimType, documentText)
}

// extractJSON extracts JSON from markdown code blocks
func extractJSON(content string) string {
	start := strings.IndexByte(content, '{')
	if start < 0 {
		return ""
	}

	braceCount := 0
	inString := false
	escapeNext := false

	for i := start; i < len(content); i++ {
		char := content[i]

		if escapeNext {
			escapeNext = false
			continue
		}
		switch char {
		case '\\':
			escapeNext = true
		case '"':
			inString = !inString
		case '{':
			if !inString {
				braceCount++
			}
		case '}':
			if !inString {
				braceCount--
				if braceCount == 0 {
					return content[start : i+1]
				}
			}
		}
	}

	return ""
}
