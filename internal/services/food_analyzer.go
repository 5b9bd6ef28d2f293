package services

import (
	"calsnap/internal/models"
	"calsnap/internal/openai"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"strings"
)

var (
	ErrInvalidInput          = errors.New("Image is required")
	ErrServerMisconfigured   = errors.New("vision gateway credential is not configured")
	ErrUpstreamTransport     = errors.New("vision gateway request failed")
	ErrUpstreamMalformed     = errors.New("vision gateway returned no parseable JSON")
	ErrUpstreamInvalidSchema = errors.New("Invalid response format from AI")
)

const (
	jpegDataURIPrefix = "data:image/jpeg;base64,"
	defaultMaxTokens  = 300
)

const foodAnalysisPrompt = `Analyze this food image and provide:
1. The name of the food (be specific)
2. Estimated total calories (as a number)
3. Your confidence level (0.0 to 1.0)

Respond ONLY with valid JSON in this exact format:
{"food": "food name", "calories": 123, "confidence": 0.85}

If you cannot identify the food with reasonable confidence, respond with:
{"food": "unknown food", "calories": 0, "confidence": 0.0}`

// VisionClient is the part of the chat-completion client the analyzer needs.
type VisionClient interface {
	DescribeImage(ctx context.Context, prompt, imageDataURI string, maxTokens int) (string, openai.TokenUsage, error)
}

type FoodAnalyzer interface {
	Analyze(ctx context.Context, image string) (*models.AnalysisResult, error)
	Configured() bool
}

type foodAnalyzer struct {
	client    VisionClient
	maxTokens int
}

// NewFoodAnalyzer returns an analyzer backed by client. A nil client yields
// an analyzer that answers every request with ErrServerMisconfigured.
func NewFoodAnalyzer(client VisionClient, maxTokens int) FoodAnalyzer {
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &foodAnalyzer{client: client, maxTokens: maxTokens}
}

func (a *foodAnalyzer) Configured() bool {
	return a.client != nil
}

func (a *foodAnalyzer) Analyze(ctx context.Context, image string) (*models.AnalysisResult, error) {
	image = strings.TrimSpace(image)
	if image == "" {
		return nil, ErrInvalidInput
	}

	if a.client == nil {
		log.Printf("Rejecting food analysis: %v", ErrServerMisconfigured)
		return nil, ErrServerMisconfigured
	}

	content, usage, err := a.client.DescribeImage(ctx, foodAnalysisPrompt, NormalizeImageDataURI(image), a.maxTokens)
	if err != nil {
		if errors.Is(err, openai.ErrMalformedResponse) {
			return nil, fmt.Errorf("%w: %v", ErrUpstreamMalformed, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstreamTransport, err)
	}
	log.Printf("Food analysis used %d prompt / %d completion tokens", usage.PromptTokens, usage.CompletionTokens)

	return ParseAnalysisReply(content)
}

// NormalizeImageDataURI wraps a bare base64 payload as a JPEG data URI and
// leaves existing image data URIs untouched.
func NormalizeImageDataURI(image string) string {
	if strings.HasPrefix(image, "data:image") {
		return image
	}
	return jpegDataURIPrefix + image
}

// ParseAnalysisReply validates the gateway's free-text answer. The text must
// hold exactly one JSON object, optionally inside a markdown code fence.
func ParseAnalysisReply(content string) (*models.AnalysisResult, error) {
	text := stripCodeFence(strings.TrimSpace(content))
	if text == "" {
		return nil, fmt.Errorf("%w: empty reply", ErrUpstreamMalformed)
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var fields map[string]interface{}
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamMalformed, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: reply is not a JSON object", ErrUpstreamMalformed)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after JSON object", ErrUpstreamMalformed)
	}

	food, ok := fields["food"].(string)
	if !ok || strings.TrimSpace(food) == "" {
		return nil, fmt.Errorf("%w: food must be a non-empty string", ErrUpstreamInvalidSchema)
	}

	calories, ok := numberField(fields, "calories")
	if !ok {
		return nil, fmt.Errorf("%w: calories must be a number", ErrUpstreamInvalidSchema)
	}
	if calories < 0 {
		return nil, fmt.Errorf("%w: calories must not be negative", ErrUpstreamInvalidSchema)
	}

	confidence, ok := numberField(fields, "confidence")
	if !ok {
		return nil, fmt.Errorf("%w: confidence must be a number", ErrUpstreamInvalidSchema)
	}

	return &models.AnalysisResult{
		Food:       food,
		Calories:   calories,
		Confidence: ClampConfidence(confidence),
	}, nil
}

func ClampConfidence(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func numberField(fields map[string]interface{}, key string) (float64, bool) {
	n, ok := fields[key].(json.Number)
	if !ok {
		return 0, false
	}
	f, err := n.Float64()
	if err != nil {
		return 0, false
	}
	return f, true
}

func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") || !strings.HasSuffix(text, "```") || len(text) < 6 {
		return text
	}
	inner := text[3 : len(text)-3]
	// Drop an info string such as "json" on the opening fence line.
	if nl := strings.IndexByte(inner, '\n'); nl >= 0 && !strings.ContainsAny(inner[:nl], "{[") {
		inner = inner[nl+1:]
	} else {
		inner = strings.TrimLeftFunc(inner, isFenceTagRune)
	}
	return strings.TrimSpace(inner)
}

func isFenceTagRune(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == ' ' || r == '\t'
}
