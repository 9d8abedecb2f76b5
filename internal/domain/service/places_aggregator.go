package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/paulare17/Sprint8-sub000/internal/domain/helper"
	"github.com/paulare17/Sprint8-sub000/internal/domain/model"
)

// PlacesProvider カテゴリ単位で周辺のお店を検索する外部API
type PlacesProvider interface {
	SearchPlaces(ctx context.Context, center model.LatLng, category model.PlaceCategory, radiusMeters, limit int) ([]model.SupermarketCandidate, error)
}

// PlacesAggregator はカテゴリごとの検索結果をまとめ、重複を除いてチェーンを判定する
type PlacesAggregator struct {
	provider       PlacesProvider
	logger         *zap.Logger
	maxConcurrency int
	policy         helper.CanonicalPolicy
}

// NewPlacesAggregator maxConcurrency が1以下なら逐次実行
func NewPlacesAggregator(provider PlacesProvider, logger *zap.Logger, maxConcurrency int) *PlacesAggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &PlacesAggregator{
		provider:       provider,
		logger:         logger,
		maxConcurrency: maxConcurrency,
		policy:         helper.ChooseLongerName,
	}
}

// WithCanonicalPolicy 重複時にどちらを残すかのルールを差し替える
func (a *PlacesAggregator) WithCanonicalPolicy(policy helper.CanonicalPolicy) *PlacesAggregator {
	if policy != nil {
		a.policy = policy
	}
	return a
}

// Search 中心座標の周辺をすべてのカテゴリで検索する
// カテゴリ単位の失敗はログに残して0件として扱う
func (a *PlacesAggregator) Search(ctx context.Context, center model.LatLng, postalCode string) ([]model.SupermarketCandidate, error) {
	start := time.Now()
	perCategory := make([][]model.SupermarketCandidate, len(model.PlaceCategories))

	var g errgroup.Group
	g.SetLimit(a.maxConcurrency)
	for i, category := range model.PlaceCategories {
		g.Go(func() error {
			found, err := a.provider.SearchPlaces(ctx, center, category, model.DefaultSearchRadiusMeters, model.PlacesLimitPerCategory)
			if err != nil {
				a.logger.Warn("⚠️ カテゴリ検索に失敗、0件として続行",
					zap.String("category", category.Name),
					zap.Error(err))
				return nil
			}
			perCategory[i] = found
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var merged []model.SupermarketCandidate
	for _, found := range perCategory {
		merged = append(merged, found...)
	}
	for i := range merged {
		merged[i].PostalCode = postalCode
	}

	unique := helper.DeduplicateCandidates(merged, a.policy)
	for i := range unique {
		unique[i].Chain = helper.ExtractChain(unique[i].Name)
	}

	a.logger.Info("🛒 周辺店舗の検索完了",
		zap.String("postalCode", postalCode),
		zap.Int("raw", len(merged)),
		zap.Int("unique", len(unique)),
		zap.Duration("elapsed", time.Since(start)))
	return unique, nil
}
