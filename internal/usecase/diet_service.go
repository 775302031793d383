package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/smartdiet/backend/internal/domain"
	"github.com/smartdiet/backend/internal/knowledge"
	"go.uber.org/zap"
)

const defaultCacheTTL = 24 * time.Hour

// DietServiceConfig holds configuration for the diet service
type DietServiceConfig struct {
	Rules           knowledge.RuleCatalog
	Priorities      knowledge.PriorityTable
	StapleKeywords  []string
	SuggestionLimit int // 0 returns every ranked suggestion
	MaxFoods        int
	CacheTTL        time.Duration
}

// RecommendOptions overrides the configured limits for one request
type RecommendOptions struct {
	Limit    int
	MaxFoods int
}

// DietService runs inference, ranking and food selection for one profile.
// The food catalog is loaded on first use and kept for the service lifetime.
type DietService struct {
	engine      *InferenceEngine
	ranker      *Ranker
	recommender *FoodRecommender
	catalog     domain.FoodCatalogSource
	cache       domain.CacheRepository
	logger      *zap.Logger

	suggestionLimit int
	maxFoods        int
	cacheTTL        time.Duration

	staples []string

	foodsOnce      sync.Once
	foods          []domain.FoodRecord
	catalogVersion string

	now func() time.Time
}

// NewDietService creates a diet service. cache may be nil to disable food
// list caching.
func NewDietService(
	catalog domain.FoodCatalogSource,
	cache domain.CacheRepository,
	logger *zap.Logger,
	config DietServiceConfig,
) *DietService {
	if logger == nil {
		logger = zap.NewNop()
	}

	maxFoods := config.MaxFoods
	if maxFoods <= 0 {
		maxFoods = domain.DefaultMaxFoods
	}

	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = defaultCacheTTL
	}

	staples := config.StapleKeywords
	if len(staples) == 0 {
		staples = domain.DefaultStapleKeywords
	}

	return &DietService{
		engine:          NewInferenceEngine(config.Rules),
		ranker:          NewRanker(config.Priorities),
		recommender:     NewFoodRecommender(config.StapleKeywords),
		catalog:         catalog,
		cache:           cache,
		logger:          logger,
		staples:         staples,
		suggestionLimit: config.SuggestionLimit,
		maxFoods:        maxFoods,
		cacheTTL:        cacheTTL,
		now:             time.Now,
	}
}

// Recommend infers, ranks and selects foods for attrs. attrs is updated in
// place with any inferred weight status and BMI.
// Flow: infer -> rank -> food list (cache -> catalog scoring -> cache)
func (s *DietService) Recommend(
	ctx context.Context,
	attrs *domain.UserAttributes,
	opts RecommendOptions,
) (*domain.DietPlan, error) {
	if attrs == nil {
		return nil, domain.ErrInvalidRequest
	}

	limit := opts.Limit
	if limit == 0 {
		limit = s.suggestionLimit
	}
	maxFoods := opts.MaxFoods
	if maxFoods <= 0 {
		maxFoods = s.maxFoods
	}

	suggestions, explanations := s.engine.Infer(attrs)
	ranked := s.ranker.RankDetailed(suggestions, explanations, limit)

	foods, source := s.recommendFoods(ctx, attrs, maxFoods)

	s.logger.Debug("diet plan computed",
		zap.String("health_condition", attrs.Condition()),
		zap.String("weight_status", attrs.WeightStatus),
		zap.String("diet_preference", attrs.DietPreference),
		zap.Int("suggestions", len(suggestions)),
		zap.Int("ranked", len(ranked)),
		zap.Int("foods", len(foods)),
		zap.String("food_source", source),
	)

	return &domain.DietPlan{
		Profile:           attrs.Clone(),
		RankedSuggestions: ranked,
		Explanations:      explanations,
		RecommendedFoods:  foods,
		Source:            source,
		GeneratedAt:       s.now(),
	}, nil
}

// Infer exposes the inference step on its own
func (s *DietService) Infer(attrs *domain.UserAttributes) (domain.Suggestions, domain.Explanations) {
	return s.engine.Infer(attrs)
}

// Rank exposes the ranking step on its own
func (s *DietService) Rank(suggestions []string, explanations domain.Explanations, limit int) []string {
	return s.ranker.Rank(suggestions, explanations, limit)
}

// RecommendFoods returns the food list for attrs without running inference
func (s *DietService) RecommendFoods(ctx context.Context, attrs *domain.UserAttributes, maxItems int) []string {
	if maxItems <= 0 {
		maxItems = s.maxFoods
	}
	foods, _ := s.recommendFoods(ctx, attrs, maxItems)
	return foods
}

// Foods returns the lazily loaded catalog
func (s *DietService) Foods() []domain.FoodRecord {
	s.foodsOnce.Do(func() {
		if s.catalog != nil {
			s.foods = s.catalog.LoadFoods()
		}
		if s.foods == nil {
			s.foods = []domain.FoodRecord{}
		}
		s.catalogVersion = catalogFingerprint(s.foods, s.staples)
	})
	return s.foods
}

// CatalogVersion identifies the loaded catalog and staple keywords
func (s *DietService) CatalogVersion() string {
	s.Foods()
	return s.catalogVersion
}

// catalogFingerprint hashes every catalog row and staple keyword so cached
// food lists are never served across catalog rebuilds
func catalogFingerprint(foods []domain.FoodRecord, staples []string) string {
	h := sha256.New()
	for _, f := range foods {
		h.Write([]byte(f.Name))
		h.Write([]byte{0})
		h.Write([]byte(strconv.FormatBool(f.Vegetarian)))
		h.Write([]byte(strconv.FormatBool(f.DiabeticFriendly)))
		h.Write([]byte(strconv.FormatBool(f.HypertensionFriendly)))
		h.Write([]byte(f.WeightGoal))
		h.Write([]byte{'\n'})
	}
	h.Write([]byte{0xff})
	for _, k := range staples {
		h.Write([]byte(k))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:12]
}

func (s *DietService) recommendFoods(ctx context.Context, attrs *domain.UserAttributes, maxItems int) ([]string, string) {
	if attrs == nil {
		return []string{}, "Engine"
	}

	key := foodsCacheKey(s.CatalogVersion(), attrs, maxItems)

	if cached, err := s.getFromCache(ctx, key); err == nil {
		return cached, "Cache"
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		s.logger.Warn("food cache read failed", zap.String("key", key), zap.Error(err))
	}

	foods := s.recommender.Recommend(attrs, s.Foods(), maxItems)

	if err := s.setInCache(ctx, key, foods); err != nil {
		s.logger.Warn("food cache write failed", zap.String("key", key), zap.Error(err))
	}
	return foods, "Engine"
}

// foodsCacheKey covers every input that influences the food list.
// Format: "foods:{catalog version}:{condition}:{diet}:{goal}:{max}"
func foodsCacheKey(version string, attrs *domain.UserAttributes, maxItems int) string {
	diet := attrs.DietPreference
	if diet == "" {
		diet = domain.ConditionNormal
	}
	return fmt.Sprintf("foods:%s:%s:%s:%s:%d",
		version,
		attrs.Condition(),
		diet,
		WeightGoal(attrs.WeightStatus),
		maxItems,
	)
}

func (s *DietService) getFromCache(ctx context.Context, key string) ([]string, error) {
	if s.cache == nil {
		return nil, domain.ErrCacheMiss
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var foods []string
	if err := json.Unmarshal(data, &foods); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheMiss, err)
	}
	if foods == nil {
		foods = []string{}
	}
	return foods, nil
}

func (s *DietService) setInCache(ctx context.Context, key string, foods []string) error {
	if s.cache == nil {
		return nil
	}
	data, err := json.Marshal(foods)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, data, s.cacheTTL)
}
