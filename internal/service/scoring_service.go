package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"credit-scoring/internal/domain"
	"credit-scoring/internal/metrics"
	"credit-scoring/internal/model"
	"credit-scoring/internal/policy"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrUnknownVariant        = errors.New("unknown variant")
	ErrSchemaMismatch        = errors.New("schema mismatch")
	ErrInference             = errors.New("inference failed")
	ErrImportanceUnavailable = errors.New("importance unavailable")
	ErrRateLimited           = errors.New("rate limited")
)

// ScoringService convierte un ApplicationRecord en un ScoreResult usando el
// clasificador cargado al arrancar y la politica de la variante.
type ScoringService struct {
	logger     *zap.Logger
	classifier model.Classifier
	catalog    *policy.Catalog
	cache      ProbabilityCache
	cacheTTL   time.Duration
	digest     string
	now        func() time.Time
}

// NewScoringService no toma ownership del clasificador; solo lo lee.
func NewScoringService(logger *zap.Logger, classifier model.Classifier, catalog *policy.Catalog) *ScoringService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScoringService{
		logger:     logger,
		classifier: classifier,
		catalog:    catalog,
		digest:     model.DigestOf(classifier),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithCache activa la memoizacion de probabilidades. ttl <= 0 la deja apagada.
func (s *ScoringService) WithCache(cache ProbabilityCache, ttl time.Duration) *ScoringService {
	if cache == nil || ttl <= 0 {
		return s
	}
	s.cache = cache
	s.cacheTTL = ttl
	return s
}

// Catalog expone el catalogo de variantes.
func (s *ScoringService) Catalog() *policy.Catalog {
	return s.catalog
}

// Variant resuelve una variante por nombre.
func (s *ScoringService) Variant(name string) (policy.Variant, error) {
	v, err := s.catalog.Get(name)
	if err != nil {
		return policy.Variant{}, fmt.Errorf("%w: %v", ErrUnknownVariant, err)
	}
	return v, nil
}

// Score evalua un registro con la variante indicada.
func (s *ScoringService) Score(ctx context.Context, variantName string, record domain.ApplicationRecord) (domain.ScoreResult, error) {
	variant, err := s.Variant(variantName)
	if err != nil {
		return domain.ScoreResult{}, err
	}

	start := time.Now()
	defer func() {
		metrics.ScoringDuration.WithLabelValues(variant.Name).Observe(time.Since(start).Seconds())
	}()

	if err := variant.CheckRecord(record); err != nil {
		metrics.ScoringRequests.WithLabelValues(variant.Name, metrics.OutcomeInvalidInput).Inc()
		return domain.ScoreResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	proba, err := s.probability(ctx, record)
	if err != nil {
		outcome := metrics.OutcomeInferenceError
		if errors.Is(err, ErrSchemaMismatch) {
			outcome = metrics.OutcomeSchemaMismatch
		}
		metrics.ScoringRequests.WithLabelValues(variant.Name, outcome).Inc()
		return domain.ScoreResult{}, err
	}

	approved, band, message := variant.Classify(proba)
	result := domain.ScoreResult{
		ID:          uuid.NewString(),
		Variant:     variant.Name,
		Probability: proba,
		Approved:    approved,
		RiskBand:    band,
		Message:     message,
		ScoredAt:    s.now(),
	}

	outcome := metrics.OutcomeRefused
	if approved {
		outcome = metrics.OutcomeApproved
	}
	metrics.ScoringRequests.WithLabelValues(variant.Name, outcome).Inc()
	metrics.ScoringProbability.WithLabelValues(variant.Name).Observe(proba)

	s.logger.Info("application scored",
		zap.String("result_id", result.ID),
		zap.String("variant", result.Variant),
		zap.Float64("probability", result.Probability),
		zap.Bool("approved", result.Approved),
		zap.String("risk_band", string(result.RiskBand)),
	)
	return result, nil
}

func (s *ScoringService) probability(ctx context.Context, record domain.ApplicationRecord) (float64, error) {
	key := s.digest + ":" + record.Fingerprint()
	if s.cache != nil {
		proba, ok, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			metrics.ProbabilityCacheLookups.WithLabelValues("error").Inc()
			s.logger.Warn("probability cache get failed", zap.Error(err))
		case ok:
			metrics.ProbabilityCacheLookups.WithLabelValues("hit").Inc()
			return proba, nil
		default:
			metrics.ProbabilityCacheLookups.WithLabelValues("miss").Inc()
		}
	}

	classes, err := s.classifier.PredictProba(ctx, record)
	if err != nil {
		if errors.Is(err, model.ErrSchemaMismatch) {
			return 0, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
		}
		return 0, fmt.Errorf("%w: %v", ErrInference, err)
	}
	if len(classes) < 2 {
		return 0, fmt.Errorf("%w: expected 2 class probabilities, got %d", ErrInference, len(classes))
	}
	proba := classes[1]
	if math.IsNaN(proba) || proba < 0 || proba > 1 {
		return 0, fmt.Errorf("%w: probability %v outside [0, 1]", ErrInference, proba)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, proba, s.cacheTTL); err != nil {
			s.logger.Warn("probability cache set failed", zap.Error(err))
		}
	}
	return proba, nil
}
