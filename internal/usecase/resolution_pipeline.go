package usecase

import (
	"context"
	"log/slog"

	"github.com/ecosnap/backend/internal/domain"
)

// PipelineConfig holds configuration for the resolution pipeline
type PipelineConfig struct {
	// EnforceWeightedOverall recomputes the overall score on the AI path
	// instead of trusting the model's own value.
	EnforceWeightedOverall bool
}

// ResolutionPipeline prefers the AI resolver and falls back to the heuristic
// rule table whenever the model yields no result.
type ResolutionPipeline struct {
	ai                     domain.AIResolver
	enforceWeightedOverall bool
	logger                 *slog.Logger
}

// NewResolutionPipeline creates a pipeline. A nil resolver means heuristic only.
func NewResolutionPipeline(ai domain.AIResolver, config PipelineConfig, logger *slog.Logger) *ResolutionPipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResolutionPipeline{
		ai:                     ai,
		enforceWeightedOverall: config.EnforceWeightedOverall,
		logger:                 logger.With("component", "pipeline"),
	}
}

// Resolve always returns a fully populated breakdown.
// Flow: try AI -> on no result, heuristic score -> weighted aggregate
func (p *ResolutionPipeline) Resolve(ctx context.Context, attrs *domain.ProductAttributes) domain.EcoScoreBreakdown {
	if attrs == nil {
		attrs = &domain.ProductAttributes{}
	}

	if p.ai != nil {
		if assessment, ok := p.ai.Resolve(ctx, attrs); ok && assessment != nil {
			return p.fromAssessment(assessment)
		}
		p.logger.Debug("AI resolution unavailable, using heuristic", "product", attrs.Name)
	}

	return HeuristicBreakdown(attrs)
}

// fromAssessment keeps the model's sub-scores and overall as given, only
// bounding them to the score range.
func (p *ResolutionPipeline) fromAssessment(a *domain.AIAssessment) domain.EcoScoreBreakdown {
	sub := domain.SubScores{
		Carbon:         clampScore(a.Carbon),
		Recyclability:  clampScore(a.Recyclability),
		Sustainability: clampScore(a.Sustainability),
		Packaging:      clampScore(a.Packaging),
	}

	var overall int
	if a.Overall == nil || p.enforceWeightedOverall {
		overall = Aggregate(sub)
	} else {
		overall = clampScore(*a.Overall)
	}

	return BuildBreakdown(sub, overall, domain.SourceAI, a.Reasoning)
}
