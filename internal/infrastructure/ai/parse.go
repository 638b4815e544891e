package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ecosnap/backend/internal/domain"
)

var (
	// ErrNoJSON is returned when a model reply contains no JSON object
	ErrNoJSON = errors.New("no JSON object in model response")

	// ErrMissingScore is returned when a required sub-score is absent
	ErrMissingScore = errors.New("model response missing score")
)

type assessmentPayload struct {
	Carbon         *float64 `json:"carbon"`
	Recyclability  *float64 `json:"recyclability"`
	Sustainability *float64 `json:"sustainability"`
	Packaging      *float64 `json:"packaging"`
	Overall        *float64 `json:"overall"`
	Reasoning      string   `json:"reasoning"`
}

type identificationPayload struct {
	Name            string   `json:"name"`
	Brand           string   `json:"brand"`
	Category        string   `json:"category"`
	Packaging       []string `json:"packaging"`
	Ingredients     []string `json:"ingredients"`
	CarbonFootprint *float64 `json:"carbonFootprint"`
	Organic         *bool    `json:"organic"`
	Local           *bool    `json:"local"`
	FairTrade       *bool    `json:"fairTrade"`
	Recyclable      *bool    `json:"recyclable"`
}

// extractJSONObject returns the text from the first '{' to the last '}'
func extractJSONObject(content string) (string, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return "", ErrNoJSON
	}
	return content[start : end+1], nil
}

// ParseAssessment reads the four sub-scores, and the optional overall score,
// from a model reply that may wrap its JSON in prose.
func ParseAssessment(content string) (*domain.AIAssessment, error) {
	raw, err := extractJSONObject(content)
	if err != nil {
		return nil, err
	}

	var p assessmentPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoJSON, err)
	}

	required := map[string]*float64{
		domain.SubScoreCarbon:         p.Carbon,
		domain.SubScoreRecyclability:  p.Recyclability,
		domain.SubScoreSustainability: p.Sustainability,
		domain.SubScorePackaging:      p.Packaging,
	}
	for name, v := range required {
		if v == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingScore, name)
		}
	}

	a := &domain.AIAssessment{
		SubScores: domain.SubScores{
			Carbon:         roundScore(*p.Carbon),
			Recyclability:  roundScore(*p.Recyclability),
			Sustainability: roundScore(*p.Sustainability),
			Packaging:      roundScore(*p.Packaging),
		},
		Reasoning: strings.TrimSpace(p.Reasoning),
	}
	if p.Overall != nil {
		overall := roundScore(*p.Overall)
		a.Overall = &overall
	}

	return a, nil
}

// ParseIdentification reads product attributes from a vision reply
func ParseIdentification(content string) (*domain.ProductAttributes, error) {
	raw, err := extractJSONObject(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrImageUnrecognized, err)
	}

	var p identificationPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrImageUnrecognized, err)
	}

	if strings.TrimSpace(p.Name) == "" {
		return nil, domain.ErrImageUnrecognized
	}

	return &domain.ProductAttributes{
		Name:            p.Name,
		Brand:           p.Brand,
		Category:        p.Category,
		Packaging:       p.Packaging,
		Ingredients:     p.Ingredients,
		CarbonFootprint: p.CarbonFootprint,
		Organic:         p.Organic,
		Local:           p.Local,
		FairTrade:       p.FairTrade,
		Recyclable:      p.Recyclable,
	}, nil
}

// roundScore rounds to the nearest integer and bounds to 0-100
func roundScore(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	r := math.Round(v)
	switch {
	case r < 0:
		return 0
	case r > 100:
		return 100
	default:
		return int(r)
	}
}
