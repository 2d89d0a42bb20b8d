package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"greengain/domain"
)

const (
	defaultAIURL     = "https://api.openai.com/v1/chat/completions"
	defaultAIModel   = "gpt-4o-mini"
	defaultAITimeout = 30 * time.Second
)

// AIConfig selects the chat completion endpoint. An empty APIKey disables
// the remote call and only the deterministic text is produced.
type AIConfig struct {
	APIKey  string
	URL     string
	Model   string
	Timeout time.Duration
}

type AIService struct {
	apiKey     string
	apiURL     string
	model      string
	enabled    bool
	httpClient *http.Client
	logger     *zap.Logger
}

type OpenAIRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens,omitempty"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type OpenAIResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

func NewAIService(cfg AIConfig, logger *zap.Logger) *AIService {
	if cfg.URL == "" {
		cfg.URL = defaultAIURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultAIModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultAITimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AIService{
		apiKey:  cfg.APIKey,
		apiURL:  cfg.URL,
		model:   cfg.Model,
		enabled: cfg.APIKey != "",
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// GenerateRoadmapSummary writes a short plain-language summary of an
// analyzed roadmap. It falls back to a template when the model is disabled
// or the call fails.
func (s *AIService) GenerateRoadmapSummary(ctx context.Context, analysis domain.RoadmapAnalysis) string {
	if !s.enabled {
		return s.fallbackRoadmapSummary(analysis)
	}

	prompt := fmt.Sprintf(`Summarize this home energy upgrade roadmap for a homeowner.

UPGRADES:
%s
TOTALS:
- Upfront cost: $%.2f
- Rebates, grants and credits listed by providers: $%.2f
- Estimated federal credit (IRS Form 5695): $%s (home improvement $%s, clean energy $%s)
- Projected bill savings: $%.2f per year
- CO2 avoided: %.2f tons per year

INSTRUCTIONS:
1. Name the quick wins first, then the big bets.
2. Explain that home improvement credits are capped at $1,200 per year plus $2,000 for heat pumps and biomass.
3. Use the exact dollar amounts above.

Write 3-4 sentences.`,
		s.formatUpgrades(analysis.Recommendations),
		analysis.TotalUpfrontCost,
		analysis.TotalFunding,
		analysis.EstimatedCredit.TotalCredit.StringFixed(2),
		analysis.EstimatedCredit.HomeImprovementCredit.StringFixed(2),
		analysis.EstimatedCredit.CleanEnergyCredit.StringFixed(2),
		analysis.TotalYearlySavings,
		analysis.TotalCO2TonsYearly,
	)

	summary, err := s.callLLM(ctx, prompt)
	if err != nil {
		s.logger.Warn("roadmap summary generation failed, using fallback", zap.Error(err))
		return s.fallbackRoadmapSummary(analysis)
	}
	return summary
}

func (s *AIService) callLLM(ctx context.Context, prompt string) (string, error) {
	reqBody := OpenAIRequest{
		Model: s.model,
		Messages: []Message{
			{
				Role:    "system",
				Content: "You are an energy advisor who explains US residential energy rebates and federal tax credits clearly and accurately. Never invent amounts.",
			},
			{
				Role:    "user",
				Content: prompt,
			},
		},
		MaxTokens: 300,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var openAIResp OpenAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&openAIResp); err != nil {
		return "", err
	}

	if len(openAIResp.Choices) == 0 {
		return "", fmt.Errorf("no response from AI")
	}

	return strings.TrimSpace(openAIResp.Choices[0].Message.Content), nil
}

func (s *AIService) formatUpgrades(recs []domain.RecommendationAnalysis) string {
	var b strings.Builder
	for _, r := range recs {
		fmt.Fprintf(&b, "- %s (%s): $%.2f upfront, $%.2f incentives, payback %.1f years\n",
			r.Name, r.Type, r.Metrics.InitialCost, r.FundingTotal, r.Metrics.ROIYears)
	}
	return b.String()
}

func (s *AIService) fallbackRoadmapSummary(a domain.RoadmapAnalysis) string {
	if len(a.Recommendations) == 0 {
		return "No upgrades were recommended for this home."
	}

	var quickWins, bigBets int
	for _, r := range a.Recommendations {
		if r.Type == domain.RecommendationBigBet {
			bigBets++
		} else {
			quickWins++
		}
	}

	return fmt.Sprintf(
		"This roadmap has %d quick win(s) and %d big bet(s) costing $%.2f upfront. "+
			"Listed rebates and credits cover $%.2f, and the estimated federal tax credit is $%s. "+
			"Together the upgrades save about $%.2f per year and avoid %.2f tons of CO2 annually.",
		quickWins, bigBets, a.TotalUpfrontCost,
		a.TotalFunding, a.EstimatedCredit.TotalCredit.StringFixed(2),
		a.TotalYearlySavings, a.TotalCO2TonsYearly,
	)
}
