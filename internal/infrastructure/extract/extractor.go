// Package extract provides text extraction from uploaded health
// documents: PDF, plain text, and images via an external OCR service.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/ledongthuc/pdf"
	"github.com/nutricoach/v1/pkg/errors"
	"go.uber.org/zap"
)

// Config holds extractor settings
type Config struct {
	OCREndpoint string
	OCRAPIKey   string
	OCRLanguage string
	Timeout     time.Duration
}

// Extractor implements the TextExtractor interface
type Extractor struct {
	ocrKey      string
	ocrLanguage string
	ocrEndpoint string
	client      *resty.Client
	logger      *zap.Logger
}

// NewExtractor creates a new text extractor
func NewExtractor(cfg Config, logger *zap.Logger) *Extractor {
	if cfg.OCREndpoint == "" {
		cfg.OCREndpoint = "https://api.ocr.space/parse/image"
	}
	if cfg.OCRLanguage == "" {
		cfg.OCRLanguage = "eng"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}

	return &Extractor{
		ocrKey:      cfg.OCRAPIKey,
		ocrLanguage: cfg.OCRLanguage,
		ocrEndpoint: cfg.OCREndpoint,
		client:      resty.New().SetTimeout(cfg.Timeout),
		logger:      logger.Named("text-extractor"),
	}
}

// Extract returns the plain text content of an uploaded document.
// Unsupported MIME types yield an explicit error rather than empty text.
func (e *Extractor) Extract(ctx context.Context, data []byte, fileName, mimeType string) (string, error) {
	switch mimeType {
	case "application/pdf":
		return e.extractPDF(data)
	case "text/plain":
		return string(data), nil
	case "image/png", "image/jpeg":
		return e.extractImage(ctx, data, fileName)
	default:
		return "", errors.NewUnsupportedMediaTypeError(mimeType)
	}
}

// extractPDF concatenates the plain text of every page
func (e *Extractor) extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var sb strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Warn("Failed to extract pdf page text",
				zap.Int("page", pageNum),
				zap.Error(err))
			continue
		}
		sb.WriteString(text)
	}

	return sb.String(), nil
}

type ocrResponse struct {
	ParsedResults []struct {
		ParsedText string `json:"ParsedText"`
	} `json:"ParsedResults"`
	IsErroredOnProcessing bool        `json:"IsErroredOnProcessing"`
	ErrorMessage          interface{} `json:"ErrorMessage"`
}

// extractImage sends the image to the OCR service
func (e *Extractor) extractImage(ctx context.Context, data []byte, fileName string) (string, error) {
	var result ocrResponse
	resp, err := e.client.R().
		SetContext(ctx).
		SetFileReader("file", fileName, bytes.NewReader(data)).
		SetFormData(map[string]string{
			"apikey":            e.ocrKey,
			"language":          e.ocrLanguage,
			"isOverlayRequired": "false",
		}).
		SetResult(&result).
		Post(e.ocrEndpoint)
	if err != nil {
		return "", fmt.Errorf("ocr request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("ocr request failed with status %d", resp.StatusCode())
	}
	if result.IsErroredOnProcessing {
		return "", fmt.Errorf("ocr processing failed: %v", result.ErrorMessage)
	}

	var sb strings.Builder
	for _, parsed := range result.ParsedResults {
		sb.WriteString(parsed.ParsedText)
	}

	return sb.String(), nil
}
