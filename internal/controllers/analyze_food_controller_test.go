package controllers_test

import (
	"bytes"
	"calsnap/internal/controllers"
	"calsnap/internal/middleware"
	"calsnap/internal/mocks"
	"calsnap/internal/models"
	"calsnap/internal/openai"
	"calsnap/internal/services"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupAnalyzeRouter(analyzer services.FoodAnalyzer, limit int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	controller := controllers.NewAnalyzeFoodController(analyzer)
	router.POST("/api/analyze-food", middleware.BodyLimit(limit), controller.AnalyzeFood)
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAnalyzeFood_ClampsConfidence(t *testing.T) {
	client := new(mocks.MockVisionClient)
	client.On("DescribeImage", mock.Anything, mock.Anything, "data:image/jpeg;base64,QUJD", 300).
		Return(`{"food":"apple","calories":95,"confidence":1.4}`, openai.TokenUsage{}, nil)
	router := setupAnalyzeRouter(services.NewFoodAnalyzer(client, 300), 1<<20)

	w := postJSON(router, "/api/analyze-food", `{"image":"QUJD"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"food":"apple","calories":95,"confidence":1}`, w.Body.String())
	client.AssertExpectations(t)
}

func TestAnalyzeFood_EmptyImageMakesNoUpstreamCall(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty string", body: `{"image":""}`},
		{name: "missing field", body: `{}`},
		{name: "empty body", body: ``},
		{name: "whitespace", body: `{"image":"   "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(mocks.MockVisionClient)
			router := setupAnalyzeRouter(services.NewFoodAnalyzer(client, 300), 1<<20)

			w := postJSON(router, "/api/analyze-food", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error":"Image is required"}`, w.Body.String())
			client.AssertNotCalled(t, "DescribeImage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestAnalyzeFood_InvalidJSON(t *testing.T) {
	analyzer := new(mocks.MockFoodAnalyzer)
	router := setupAnalyzeRouter(analyzer, 1<<20)

	w := postJSON(router, "/api/analyze-food", `{"image":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", decodeBody(t, w)["error"])
	analyzer.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything)
}

func TestAnalyzeFood_PayloadTooLarge(t *testing.T) {
	analyzer := new(mocks.MockFoodAnalyzer)
	router := setupAnalyzeRouter(analyzer, 64)

	body := fmt.Sprintf(`{"image":"%s"}`, strings.Repeat("A", 256))
	w := postJSON(router, "/api/analyze-food", body)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.JSONEq(t, `{"error":"Payload too large"}`, w.Body.String())
	analyzer.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything)
}

func TestAnalyzeFood_Errors(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		expectedError string
	}{
		{
			name:          "missing credential",
			err:           services.ErrServerMisconfigured,
			expectedError: "Server misconfigured",
		},
		{
			name:          "invalid schema",
			err:           fmt.Errorf("%w: calories must be a number", services.ErrUpstreamInvalidSchema),
			expectedError: "Failed to analyze food",
		},
		{
			name:          "transport",
			err:           fmt.Errorf("%w: timeout", services.ErrUpstreamTransport),
			expectedError: "Failed to analyze food",
		},
		{
			name:          "unexpected",
			err:           errors.New("boom"),
			expectedError: "Failed to analyze food",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := new(mocks.MockFoodAnalyzer)
			analyzer.On("Analyze", mock.Anything, "QUJD").Return(nil, tt.err)
			router := setupAnalyzeRouter(analyzer, 1<<20)

			w := postJSON(router, "/api/analyze-food", `{"image":"QUJD"}`)

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			body := decodeBody(t, w)
			assert.Equal(t, tt.expectedError, body["error"])
			assert.Equal(t, tt.err.Error(), body["message"])
		})
	}
}

func TestAnalyzeFood_MisconfiguredAnalyzer(t *testing.T) {
	router := setupAnalyzeRouter(services.NewFoodAnalyzer(nil, 300), 1<<20)

	w := postJSON(router, "/api/analyze-food", `{"image":"QUJD"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Server misconfigured", decodeBody(t, w)["error"])
}

func TestAnalyzeFood_PassesResultThrough(t *testing.T) {
	analyzer := new(mocks.MockFoodAnalyzer)
	analyzer.On("Analyze", mock.Anything, "data:image/png;base64,QUJD").
		Return(&models.AnalysisResult{Food: "salad", Calories: 150.5, Confidence: 0.7}, nil)
	router := setupAnalyzeRouter(analyzer, 1<<20)

	w := postJSON(router, "/api/analyze-food", `{"image":"data:image/png;base64,QUJD"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"food":"salad","calories":150.5,"confidence":0.7}`, w.Body.String())
}

func TestHealth(t *testing.T) {
	for _, tc := range []struct {
		configured bool
		want       string
	}{
		{configured: true, want: "configured"},
		{configured: false, want: "missing_credential"},
	} {
		gin.SetMode(gin.TestMode)
		router := gin.New()
		configured := tc.configured
		hc := controllers.NewHealthController(func() bool { return configured })
		router.GET("/health", hc.Health)

		req, _ := http.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, tc.want, body["vision"])
		ts, ok := body["timestamp"].(string)
		require.True(t, ok)
		_, err := time.Parse(time.RFC3339Nano, ts)
		assert.NoError(t, err)
	}
}
