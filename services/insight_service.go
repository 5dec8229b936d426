package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"carbculator/models"

	"github.com/sashabaranov/go-openai"
)

// ErrInsightGeneration covers any transport, status or response-shape
// failure of the generative service. It is reported per request and
// never crashes the caller.
var ErrInsightGeneration = errors.New("insight generation failed")

// InsightUnavailable fills sections the model did not produce.
const InsightUnavailable = "Insights unavailable."

const insightSystemPrompt = `You are a nutrition expert providing general insights and recommendations.
Focus on overall patterns and best practices rather than specific time periods.
Provide three types of insights:
1. Trends: Analyze general nutrition patterns
2. Recommendations: Provide actionable advice for maintaining a healthy diet
3. Goals: Suggest realistic goals based on the user's targets
Keep each section concise and focused.
Use ** for important numbers or key points you want to emphasize.
Separate the three sections with a blank line and do not include section headers.`

// InsightRequest is the bounded summary handed to the model. It never
// carries entry-level detail, so its size is independent of history
// length.
type InsightRequest struct {
	RangeLabel string       `json:"range"`
	Days       int          `json:"days"`
	Totals     Totals       `json:"totals"`
	Averages   Totals       `json:"averages"`
	Goals      models.Goals `json:"goals"`
}

// Insights is the parsed three-section response. Partial marks a
// response that was missing one or more sections.
type Insights struct {
	Trends          string `json:"trends"`
	Recommendations string `json:"recommendations"`
	Goals           string `json:"goals"`
	Partial         bool   `json:"partial,omitempty"`
}

type InsightService struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

func NewInsightService(apiKey, model string, timeout time.Duration) *InsightService {
	return &InsightService{
		client:  openai.NewClient(apiKey),
		model:   model,
		timeout: timeout,
	}
}

// BuildSummary normalizes an aggregate plus resolved goals into the
// request payload.
func BuildSummary(rangeLabel string, agg *RangeAggregate, goals models.Goals) InsightRequest {
	return InsightRequest{
		RangeLabel: rangeLabel,
		Days:       agg.DaysInRange,
		Totals:     agg.Totals,
		Averages:   agg.Averages,
		Goals:      goals,
	}
}

func (s *InsightService) Generate(ctx context.Context, req InsightRequest) (*Insights, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	summary, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInsightGeneration, err)
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: insightSystemPrompt,
			},
			{
				Role: openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(
					"Please provide general nutrition insights and recommendations based on this summary of the user's intake and goals:\n%s",
					summary,
				),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInsightGeneration, err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return nil, fmt.Errorf("%w: empty completion", ErrInsightGeneration)
	}

	return ParseInsightResponse(resp.Choices[0].Message.Content), nil
}

// ParseInsightResponse splits the free-text completion on the first two
// blank-line delimiters and assigns sections positionally. Fewer than
// three sections yields a partial result with the unavailable sentinel,
// never an out-of-range failure.
func ParseInsightResponse(raw string) *Insights {
	sections := strings.SplitN(strings.TrimSpace(raw), "\n\n", 3)

	out := &Insights{
		Trends:          InsightUnavailable,
		Recommendations: InsightUnavailable,
		Goals:           InsightUnavailable,
	}
	for i, sec := range sections {
		sec = strings.TrimSpace(sec)
		if sec == "" {
			continue
		}
		switch i {
		case 0:
			out.Trends = sec
		case 1:
			out.Recommendations = sec
		case 2:
			out.Goals = sec
		}
	}
	out.Partial = out.Trends == InsightUnavailable ||
		out.Recommendations == InsightUnavailable ||
		out.Goals == InsightUnavailable
	return out
}
