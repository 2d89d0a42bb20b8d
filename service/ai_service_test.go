package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"greengain/domain"
)

func TestAIService_DisabledWithoutKey(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	s := NewAIService(AIConfig{URL: srv.URL}, nil)
	got := s.GenerateRoadmapSummary(context.Background(), domain.RoadmapAnalysis{})

	assert.False(t, called)
	assert.Equal(t, "No upgrades were recommended for this home.", got)
}

func TestAIService_EmptyChoicesFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	s := NewAIService(AIConfig{APIKey: "k", URL: srv.URL}, nil)
	analysis := domain.RoadmapAnalysis{TotalUpfrontCost: 12000}
	analysis.Recommendations = []domain.RecommendationAnalysis{{Name: "Heat Pump", Type: domain.RecommendationBigBet}}
	got := s.GenerateRoadmapSummary(context.Background(), analysis)
	assert.Contains(t, got, "0 quick win(s) and 1 big bet(s) costing $12000.00")
}

func TestAIService_CancelledContextFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewAIService(AIConfig{APIKey: "k", URL: srv.URL}, nil)
	got := s.GenerateRoadmapSummary(ctx, domain.RoadmapAnalysis{})
	assert.Equal(t, "No upgrades were recommended for this home.", got)
}
