package repository

import (
	"context"
	"time"

	"github.com/paulare17/Sprint8-sub000/internal/domain/model"
)

// SupermarketsRepository スーパーのキャッシュ用ストア
type SupermarketsRepository interface {
	// FindByPostalCodeSince since 以降に更新された郵便番号パーティションのレコード
	FindByPostalCodeSince(ctx context.Context, postalCode string, since time.Time) ([]model.Supermarket, error)
	// FindNear 中心から radiusMeters 以内のレコード（近い順、最大 limit 件）
	FindNear(ctx context.Context, center model.LatLng, radiusMeters int, limit int) ([]model.Supermarket, error)
	// Upsert IDをキーに挿入、既存なら lastUpdated のみ更新
	Upsert(ctx context.Context, supermarket *model.Supermarket) error
	TouchLastUpdated(ctx context.Context, id string, at time.Time) error
	Search(ctx context.Context, query, postalCode string, limit int) ([]model.Supermarket, error)
	Stats(ctx context.Context) (*model.SupermarketStats, error)
}
