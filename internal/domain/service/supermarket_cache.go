package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/paulare17/Sprint8-sub000/internal/domain/helper"
	"github.com/paulare17/Sprint8-sub000/internal/domain/model"
	"github.com/paulare17/Sprint8-sub000/internal/domain/repository"
)

// supermarketNamespace 座標から決定的なIDを作るための名前空間
var supermarketNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://sprint8.app/supermarkets"))

// SupermarketCache 郵便番号と位置をキーにしたスーパーのキャッシュ
type SupermarketCache struct {
	repo   repository.SupermarketsRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewSupermarketCache(repo repository.SupermarketsRepository, logger *zap.Logger) *SupermarketCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SupermarketCache{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// SupermarketIDFromLocation 同じ座標からは常に同じIDになる (UUIDv5)
func SupermarketIDFromLocation(p model.LatLng) string {
	key := fmt.Sprintf("%.6f,%.6f", p.Lng, p.Lat)
	return uuid.NewSHA1(supermarketNamespace, []byte(key)).String()
}

// GetByPostalCode maxAge 以内に更新されたレコードを返す。空ならキャッシュなし
func (c *SupermarketCache) GetByPostalCode(ctx context.Context, postalCode string, maxAge time.Duration) ([]model.Supermarket, error) {
	if maxAge <= 0 {
		maxAge = model.DefaultCacheMaxAge
	}
	since := c.now().Add(-maxAge)
	records, err := c.repo.FindByPostalCodeSince(ctx, postalCode, since)
	if err != nil {
		return nil, fmt.Errorf("郵便番号 %s のキャッシュ取得に失敗: %w", postalCode, err)
	}
	return records, nil
}

// GetNearby 中心からの距離を付けて近い順に返す
func (c *SupermarketCache) GetNearby(ctx context.Context, center model.LatLng, maxDistanceMeters int) ([]model.Supermarket, error) {
	if maxDistanceMeters <= 0 {
		maxDistanceMeters = model.DefaultSearchRadiusMeters
	}
	found, err := c.repo.FindNear(ctx, center, maxDistanceMeters, model.MaxNearbyResults)
	if err != nil {
		return nil, fmt.Errorf("周辺スーパーの検索に失敗: %w", err)
	}
	return helper.WithinDistance(center, found, maxDistanceMeters), nil
}

// UpsertBatch 50m以内に既存レコードがあれば lastUpdated だけ更新し、なければ新規作成する
// 候補ごとの失敗はスキップして続行する
func (c *SupermarketCache) UpsertBatch(ctx context.Context, candidates []model.SupermarketCandidate) ([]model.Supermarket, error) {
	result := make([]model.Supermarket, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))

	var touched, inserted, failed int
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, isNew, err := c.upsertOne(ctx, candidate)
		if err != nil {
			failed++
			c.logger.Warn("⚠️ 候補の保存に失敗、スキップ",
				zap.String("name", candidate.Name),
				zap.Error(err))
			continue
		}
		if isNew {
			inserted++
		} else {
			touched++
		}
		if _, dup := seen[record.ID]; dup {
			continue
		}
		seen[record.ID] = struct{}{}
		result = append(result, *record)
	}

	c.logger.Info("💾 スーパーのキャッシュを更新",
		zap.Int("inserted", inserted),
		zap.Int("touched", touched),
		zap.Int("failed", failed))
	return result, nil
}

func (c *SupermarketCache) upsertOne(ctx context.Context, candidate model.SupermarketCandidate) (*model.Supermarket, bool, error) {
	now := c.now().UTC()

	nearby, err := c.GetNearby(ctx, candidate.Location, model.DuplicateRadiusMeters)
	if err != nil {
		return nil, false, err
	}
	if len(nearby) > 0 {
		existing := nearby[0]
		if err := c.repo.TouchLastUpdated(ctx, existing.ID, now); err != nil {
			return nil, false, fmt.Errorf("lastUpdated の更新に失敗: %w", err)
		}
		existing.LastUpdated = now
		existing.Distance = nil
		return &existing, false, nil
	}

	chain := candidate.Chain
	if chain == "" {
		chain = helper.ExtractChain(candidate.Name)
	}
	record := &model.Supermarket{
		ID:          SupermarketIDFromLocation(candidate.Location),
		Name:        candidate.Name,
		Address:     candidate.Address,
		PostalCode:  candidate.PostalCode,
		Chain:       chain,
		Location:    model.NewPointGeometry(candidate.Location.Lng, candidate.Location.Lat),
		Source:      model.SourceGeoapify,
		LastUpdated: now,
	}
	if err := c.repo.Upsert(ctx, record); err != nil {
		return nil, false, fmt.Errorf("スーパーの保存に失敗: %w", err)
	}
	return record, true, nil
}

// InsertManual ユーザー入力のレコードを近接チェックなしでそのまま保存する
func (c *SupermarketCache) InsertManual(ctx context.Context, req *model.CreateSupermarketRequest) (*model.Supermarket, error) {
	if req == nil || req.Lng == nil || req.Lat == nil {
		return nil, fmt.Errorf("座標が指定されていません: %w", model.ErrInvalidInput)
	}
	name := strings.TrimSpace(req.Name)
	address := strings.TrimSpace(req.Address)
	if name == "" || address == "" {
		return nil, fmt.Errorf("name と address は必須です: %w", model.ErrInvalidInput)
	}
	if !helper.IsValidPostalCode(req.PostalCode) {
		return nil, model.ErrInvalidPostalCode
	}

	record := &model.Supermarket{
		ID:          uuid.New().String(),
		Name:        name,
		Address:     address,
		PostalCode:  req.PostalCode,
		Chain:       helper.ResolveChain(req.Chain, name),
		Location:    model.NewPointGeometry(*req.Lng, *req.Lat),
		Source:      model.SourceManual,
		LastUpdated: c.now().UTC(),
	}
	if err := c.repo.Upsert(ctx, record); err != nil {
		return nil, fmt.Errorf("手動登録の保存に失敗: %w", err)
	}

	c.logger.Info("📝 スーパーを手動登録",
		zap.String("id", record.ID),
		zap.String("name", record.Name),
		zap.String("postalCode", record.PostalCode))
	return record, nil
}

// Search 名前・住所・チェーンの部分一致（大文字小文字無視）
func (c *SupermarketCache) Search(ctx context.Context, query, postalCode string) ([]model.Supermarket, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("検索キーワードが空です: %w", model.ErrInvalidInput)
	}
	if postalCode != "" && !helper.IsValidPostalCode(postalCode) {
		return nil, model.ErrInvalidPostalCode
	}

	records, err := c.repo.Search(ctx, query, postalCode, model.MaxSearchResults)
	if err != nil {
		return nil, fmt.Errorf("スーパーの検索に失敗: %w", err)
	}
	if len(records) > model.MaxSearchResults {
		records = records[:model.MaxSearchResults]
	}
	return records, nil
}

func (c *SupermarketCache) Stats(ctx context.Context) (*model.SupermarketStats, error) {
	stats, err := c.repo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("統計の取得に失敗: %w", err)
	}
	return stats, nil
}
