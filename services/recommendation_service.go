package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"tourism-backend/utils"
)

// RecommendationService proxies the external recommendation engine. The
// engine is an opaque HTTP dependency returning ranked name lists; nothing
// is interpreted here beyond pass-through JSON.
type RecommendationService struct {
	endpoint string
	hc       *http.Client
}

func NewRecommendationService() *RecommendationService {
	return &RecommendationService{
		endpoint: utils.EnvOrDefault("RECOMMENDER_ENDPOINT", "http://localhost:5000"),
		hc: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewRecommendationServiceWithEndpoint is used by tests.
func NewRecommendationServiceWithEndpoint(endpoint string) *RecommendationService {
	s := NewRecommendationService()
	s.endpoint = endpoint
	return s
}

func (s *RecommendationService) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"/health", nil)
	if err != nil {
		return utils.Internal("failed to build health request", err)
	}
	resp, err := s.hc.Do(req)
	if err != nil {
		return utils.Unavailable("recommendation service is unavailable", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return utils.Unavailable(fmt.Sprintf("recommendation service returned HTTP %d", resp.StatusCode), nil)
	}
	return nil
}

// Recommend fetches ranked names for one category (restaurants, hotels,
// places) with pass-through query parameters such as city and top_n.
func (s *RecommendationService) Recommend(ctx context.Context, category string, params url.Values) (json.RawMessage, error) {
	target := fmt.Sprintf("%s/recommend/%s", s.endpoint, url.PathEscape(category))
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, utils.Internal("failed to build recommendation request", err)
	}
	return s.forward(req)
}

// RecommendGeneral posts a free-form preference payload to the engine's
// general endpoint and returns its ranked response untouched.
func (s *RecommendationService) RecommendGeneral(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+"/recommend", bytes.NewReader(payload))
	if err != nil {
		return nil, utils.Internal("failed to build recommendation request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return s.forward(req)
}

func (s *RecommendationService) forward(req *http.Request) (json.RawMessage, error) {
	resp, err := s.hc.Do(req)
	if err != nil {
		return nil, utils.Unavailable("recommendation service is unavailable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, utils.Unavailable("failed to read recommendation response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, utils.Internal(fmt.Sprintf("recommendation service returned HTTP %d", resp.StatusCode), nil)
	}
	if !json.Valid(body) {
		return nil, utils.Internal("recommendation service returned invalid JSON", nil)
	}
	return body, nil
}
