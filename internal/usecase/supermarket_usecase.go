package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/paulare17/Sprint8-sub000/internal/domain/helper"
	"github.com/paulare17/Sprint8-sub000/internal/domain/model"
	"github.com/paulare17/Sprint8-sub000/internal/domain/service"
)

// PostalCodeResolver 郵便番号を座標に変換する
type PostalCodeResolver interface {
	Resolve(ctx context.Context, postalCode string) (model.LatLng, error)
}

// CandidateSearcher 座標の周辺で店舗候補を集める
type CandidateSearcher interface {
	Search(ctx context.Context, center model.LatLng, postalCode string) ([]model.SupermarketCandidate, error)
}

type SupermarketUsecase interface {
	// LookupByPostalCode は新しいキャッシュがあればそれを返し、なければ外部APIから取得して保存する
	LookupByPostalCode(ctx context.Context, postalCode string, forceRefresh bool) (*model.SupermarketLookupResult, error)
	Refresh(ctx context.Context, postalCode string) (*model.SupermarketLookupResult, error)
	Nearby(ctx context.Context, center model.LatLng, maxDistanceMeters int) ([]model.Supermarket, error)
	CreateManual(ctx context.Context, req *model.CreateSupermarketRequest) (*model.Supermarket, error)
	Search(ctx context.Context, query, postalCode string) ([]model.Supermarket, error)
	Stats(ctx context.Context) (*model.SupermarketStats, error)
}

type supermarketUsecaseImpl struct {
	resolver   PostalCodeResolver
	aggregator CandidateSearcher
	cache      *service.SupermarketCache
	maxAge     time.Duration
	logger     *zap.Logger
}

func NewSupermarketUsecase(
	resolver PostalCodeResolver,
	aggregator CandidateSearcher,
	cache *service.SupermarketCache,
	maxAge time.Duration,
	logger *zap.Logger,
) SupermarketUsecase {
	if maxAge <= 0 {
		maxAge = model.DefaultCacheMaxAge
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &supermarketUsecaseImpl{
		resolver:   resolver,
		aggregator: aggregator,
		cache:      cache,
		maxAge:     maxAge,
		logger:     logger,
	}
}

func (u *supermarketUsecaseImpl) LookupByPostalCode(ctx context.Context, postalCode string, forceRefresh bool) (*model.SupermarketLookupResult, error) {
	if !helper.IsValidPostalCode(postalCode) {
		return nil, model.ErrInvalidPostalCode
	}

	if !forceRefresh {
		cached, err := u.cache.GetByPostalCode(ctx, postalCode, u.maxAge)
		if err != nil {
			return nil, err
		}
		if len(cached) > 0 {
			u.logger.Debug("📦 キャッシュヒット", zap.String("postalCode", postalCode), zap.Int("total", len(cached)))
			return &model.SupermarketLookupResult{Supermarkets: cached, Cached: true}, nil
		}
	}

	u.logger.Info("🌍 外部APIからスーパーを取得",
		zap.String("postalCode", postalCode),
		zap.Bool("forceRefresh", forceRefresh))

	center, err := u.resolver.Resolve(ctx, postalCode)
	if err != nil {
		return nil, fmt.Errorf("郵便番号 %s の座標取得に失敗: %w", postalCode, err)
	}

	candidates, err := u.aggregator.Search(ctx, center, postalCode)
	if err != nil {
		return nil, fmt.Errorf("周辺店舗の検索に失敗: %w", err)
	}

	saved, err := u.cache.UpsertBatch(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("スーパーの保存に失敗: %w", err)
	}

	return &model.SupermarketLookupResult{Supermarkets: saved, Cached: false}, nil
}

func (u *supermarketUsecaseImpl) Refresh(ctx context.Context, postalCode string) (*model.SupermarketLookupResult, error) {
	return u.LookupByPostalCode(ctx, postalCode, true)
}

func (u *supermarketUsecaseImpl) Nearby(ctx context.Context, center model.LatLng, maxDistanceMeters int) ([]model.Supermarket, error) {
	return u.cache.GetNearby(ctx, center, maxDistanceMeters)
}

func (u *supermarketUsecaseImpl) CreateManual(ctx context.Context, req *model.CreateSupermarketRequest) (*model.Supermarket, error) {
	return u.cache.InsertManual(ctx, req)
}

func (u *supermarketUsecaseImpl) Search(ctx context.Context, query, postalCode string) ([]model.Supermarket, error) {
	return u.cache.Search(ctx, query, postalCode)
}

func (u *supermarketUsecaseImpl) Stats(ctx context.Context) (*model.SupermarketStats, error) {
	return u.cache.Stats(ctx)
}
