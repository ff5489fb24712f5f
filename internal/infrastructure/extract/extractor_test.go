package extract

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nutricoach/v1/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestExtractPlainText(t *testing.T) {
	e := NewExtractor(Config{}, zaptest.NewLogger(t))

	text, err := e.Extract(context.Background(), []byte("cholesterol 240 mg/dL"), "labs.txt", "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "cholesterol 240 mg/dL", text)
}

func TestExtractUnsupportedType(t *testing.T) {
	e := NewExtractor(Config{}, zaptest.NewLogger(t))

	_, err := e.Extract(context.Background(), []byte{0x00}, "report.docx",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeUnsupportedMediaType))
}

func TestExtractImageViaOCR(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "test-key", r.FormValue("apikey"))
		assert.Equal(t, "eng", r.FormValue("language"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"ParsedResults": []map[string]string{
				{"ParsedText": "Hemoglobin: 11.2 "},
				{"ParsedText": "Ferritin: low"},
			},
			"IsErroredOnProcessing": false,
		})
	}))
	defer server.Close()

	e := NewExtractor(Config{OCREndpoint: server.URL, OCRAPIKey: "test-key"}, zaptest.NewLogger(t))

	text, err := e.Extract(context.Background(), []byte{0x89, 0x50}, "scan.png", "image/png")
	require.NoError(t, err)
	assert.Equal(t, "Hemoglobin: 11.2 Ferritin: low", text)
}

func TestExtractImageOCRProcessingError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"IsErroredOnProcessing": true,
			"ErrorMessage":          []string{"unreadable image"},
		})
	}))
	defer server.Close()

	e := NewExtractor(Config{OCREndpoint: server.URL}, zaptest.NewLogger(t))

	_, err := e.Extract(context.Background(), []byte{0x89}, "scan.png", "image/png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ocr processing failed")
}
