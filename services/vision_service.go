package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// ErrAnalysisFailed covers any failure of the vision service: transport
// errors, timeouts and unparseable completions.
var ErrAnalysisFailed = errors.New("image analysis failed")

// MealAnalysis is the structured estimate the vision model returns for
// one meal photo.
type MealAnalysis struct {
	Name        string   `json:"name"`
	Calories    float64  `json:"calories"`
	Protein     float64  `json:"protein"`
	Carbs       float64  `json:"carbs"`
	Fats        float64  `json:"fats"`
	Ingredients []string `json:"ingredients"`
}

const visionPrompt = `Analyze the meal in this image and respond with ONLY a JSON object, no other text:
{
  "name": "short name of the dish",
  "calories": total estimated calories as a number,
  "protein": estimated protein in grams as a number,
  "carbs": estimated carbohydrates in grams as a number,
  "fats": estimated fats in grams as a number,
  "ingredients": ["list", "of", "visible", "ingredients"]
}
Estimate for the full visible portion. Use standard nutritional databases. All numbers must be non-negative.`

// VisionAnalyzer is what the upload orchestrator needs from the vision
// client.
type VisionAnalyzer interface {
	Analyze(ctx context.Context, imageBase64, contentType string) (*MealAnalysis, error)
}

type VisionService struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

func NewVisionService(apiKey, model string, timeout time.Duration) *VisionService {
	return &VisionService{
		client:  openai.NewClient(apiKey),
		model:   model,
		timeout: timeout,
	}
}

// Analyze sends the base64-encoded image to the vision model and
// decodes the structured estimate. contentType labels the data URI so
// PNG and WebP uploads are not presented to the model as JPEG.
func (s *VisionService) Analyze(ctx context.Context, imageBase64, contentType string) (*MealAnalysis, error) {
	if contentType == "" {
		contentType = "image/jpeg"
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: visionPrompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: fmt.Sprintf("data:%s;base64,%s", contentType, imageBase64),
						},
					},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", ErrAnalysisFailed)
	}

	analysis, err := parseMealAnalysis(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}
	return analysis, nil
}

// parseMealAnalysis decodes the model's JSON, tolerating the markdown
// code fences the model sometimes wraps it in.
func parseMealAnalysis(raw string) (*MealAnalysis, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var analysis MealAnalysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return nil, fmt.Errorf("decode analysis: %v", err)
	}
	if analysis.Name == "" {
		return nil, fmt.Errorf("analysis missing dish name")
	}
	for _, v := range []float64{analysis.Calories, analysis.Protein, analysis.Carbs, analysis.Fats} {
		if v < 0 {
			return nil, fmt.Errorf("analysis contains negative macro value")
		}
	}
	return &analysis, nil
}
