package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/supabase-community/postgrest-go"

	"github.com/paulare17/Sprint8-sub000/internal/domain/model"
	"github.com/paulare17/Sprint8-sub000/internal/domain/repository"
	"github.com/paulare17/Sprint8-sub000/internal/infrastructure/database"
)

const supermarketsTable = "supermarkets"

type SupabaseSupermarketsRepository struct {
	client *database.SupabaseClient
}

func NewSupabaseSupermarketsRepository(client *database.SupabaseClient) repository.SupermarketsRepository {
	return &SupabaseSupermarketsRepository{
		client: client,
	}
}

// supermarketRow PostgREST でやり取りする行 (location は生成列のため送らない)
type supermarketRow struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Address        string    `json:"address"`
	PostalCode     string    `json:"postal_code"`
	Chain          string    `json:"chain"`
	Lng            float64   `json:"lng"`
	Lat            float64   `json:"lat"`
	Source         string    `json:"source"`
	LastUpdated    time.Time `json:"last_updated"`
	DistanceMeters *float64  `json:"distance_meters,omitempty"`
}

func rowFromSupermarket(s *model.Supermarket) supermarketRow {
	ll := s.ToLatLng()
	return supermarketRow{
		ID:          s.ID,
		Name:        s.Name,
		Address:     s.Address,
		PostalCode:  s.PostalCode,
		Chain:       s.Chain,
		Lng:         ll.Lng,
		Lat:         ll.Lat,
		Source:      string(s.Source),
		LastUpdated: s.LastUpdated.UTC(),
	}
}

func (row supermarketRow) toSupermarket() model.Supermarket {
	s := model.Supermarket{
		ID:          row.ID,
		Name:        row.Name,
		Address:     row.Address,
		PostalCode:  strings.TrimSpace(row.PostalCode),
		Chain:       row.Chain,
		Location:    model.NewPointGeometry(row.Lng, row.Lat),
		Source:      model.SupermarketSource(row.Source),
		LastUpdated: row.LastUpdated,
	}
	if row.DistanceMeters != nil {
		s.SetDistance(int(*row.DistanceMeters + 0.5))
	}
	return s
}

func decodeSupermarketRows(data []byte) ([]model.Supermarket, error) {
	var rows []supermarketRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("スーパーデータのJSONアンマーシャル失敗: %w", err)
	}
	supermarkets := make([]model.Supermarket, 0, len(rows))
	for _, row := range rows {
		supermarkets = append(supermarkets, row.toSupermarket())
	}
	return supermarkets, nil
}

func (r *SupabaseSupermarketsRepository) FindByPostalCodeSince(ctx context.Context, postalCode string, since time.Time) ([]model.Supermarket, error) {
	data, _, err := r.client.GetClient().From(supermarketsTable).
		Select("*", "", false).
		Eq("postal_code", postalCode).
		Gte("last_updated", since.UTC().Format(time.RFC3339)).
		Order("name", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("郵便番号 %s のスーパー取得失敗: %w", postalCode, err)
	}
	return decodeSupermarketRows(data)
}

// FindNear RPC nearby_supermarkets (PostGIS ST_DWithin) を呼び出す
func (r *SupabaseSupermarketsRepository) FindNear(ctx context.Context, center model.LatLng, radiusMeters int, limit int) ([]model.Supermarket, error) {
	body := map[string]interface{}{
		"center_lng":    center.Lng,
		"center_lat":    center.Lat,
		"radius_meters": radiusMeters,
		"max_results":   limit,
	}
	// Rpc は失敗時に空文字を返す
	data := r.client.GetClient().Rpc("nearby_supermarkets", "", body)
	if data == "" {
		return nil, fmt.Errorf("周辺スーパー検索(RPC)失敗")
	}
	return decodeSupermarketRows([]byte(data))
}

func (r *SupabaseSupermarketsRepository) exists(id string) (bool, error) {
	data, _, err := r.client.GetClient().From(supermarketsTable).
		Select("id", "", false).
		Eq("id", id).
		Execute()
	if err != nil {
		return false, err
	}
	var rows []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &rows); err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// Upsert 既存IDなら lastUpdated のみ更新する
func (r *SupabaseSupermarketsRepository) Upsert(ctx context.Context, s *model.Supermarket) error {
	found, err := r.exists(s.ID)
	if err != nil {
		return fmt.Errorf("スーパー %s の存在確認失敗: %w", s.ID, err)
	}
	if found {
		return r.TouchLastUpdated(ctx, s.ID, s.LastUpdated)
	}

	_, _, err = r.client.GetClient().From(supermarketsTable).
		Insert(rowFromSupermarket(s), false, "", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("スーパーデータの作成失敗: %w", err)
	}
	return nil
}

func (r *SupabaseSupermarketsRepository) TouchLastUpdated(ctx context.Context, id string, at time.Time) error {
	update := map[string]interface{}{"last_updated": at.UTC().Format(time.RFC3339Nano)}
	data, _, err := r.client.GetClient().From(supermarketsTable).
		Update(update, "representation", "").
		Eq("id", id).
		Execute()
	if err != nil {
		return fmt.Errorf("lastUpdated の更新失敗: %w", err)
	}
	updated, err := decodeSupermarketRows(data)
	if err != nil {
		return err
	}
	if len(updated) == 0 {
		return fmt.Errorf("スーパー %s: %w", id, model.ErrNotFound)
	}
	return nil
}

// sanitizeFilterValue PostgREST の or フィルタで意味を持つ文字を除く
func sanitizeFilterValue(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ',', '(', ')', '*', '"', '\\':
			return ' '
		}
		return r
	}, s)
}

func (r *SupabaseSupermarketsRepository) Search(ctx context.Context, query, postalCode string, limit int) ([]model.Supermarket, error) {
	q := strings.TrimSpace(sanitizeFilterValue(query))
	if q == "" {
		return []model.Supermarket{}, nil
	}
	pattern := "*" + q + "*"
	filter := fmt.Sprintf("name.ilike.%s,address.ilike.%s,chain.ilike.%s", pattern, pattern, pattern)

	builder := r.client.GetClient().From(supermarketsTable).
		Select("*", "", false).
		Or(filter, "")
	if postalCode != "" {
		builder = builder.Eq("postal_code", postalCode)
	}
	data, _, err := builder.
		Order("name", &postgrest.OrderOpts{Ascending: true}).
		Limit(limit, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("スーパー検索失敗: %w", err)
	}
	return decodeSupermarketRows(data)
}

// statsPageSize PostgREST の max-rows を超えないページ幅
const statsPageSize = 1000

func (r *SupabaseSupermarketsRepository) Stats(ctx context.Context) (*model.SupermarketStats, error) {
	stats := newSupermarketStats()
	var total int64
	fetched := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, count, err := r.client.GetClient().From(supermarketsTable).
			Select("chain,source", "exact", false).
			Order("id", &postgrest.OrderOpts{Ascending: true}).
			Range(fetched, fetched+statsPageSize-1, "").
			Execute()
		if err != nil {
			return nil, fmt.Errorf("統計の取得失敗: %w", err)
		}
		n, err := accumulateStats(stats, data)
		if err != nil {
			return nil, err
		}
		fetched += n
		total = count
		if statsPageDone(fetched, n, total) {
			break
		}
	}
	if int(total) > stats.Total {
		stats.Total = int(total)
	}
	return stats, nil
}

func newSupermarketStats() *model.SupermarketStats {
	return &model.SupermarketStats{
		ByChain:  make(map[string]int),
		BySource: make(map[string]int),
	}
}

// accumulateStats 1ページ分の chain,source 行を集計に加え、行数を返す
func accumulateStats(stats *model.SupermarketStats, data []byte) (int, error) {
	var rows []struct {
		Chain  string `json:"chain"`
		Source string `json:"source"`
	}
	if err := json.Unmarshal(data, &rows); err != nil {
		return 0, fmt.Errorf("統計データのJSONアンマーシャル失敗: %w", err)
	}
	for _, row := range rows {
		stats.ByChain[row.Chain]++
		stats.BySource[row.Source]++
	}
	stats.Total += len(rows)
	return len(rows), nil
}

// statsPageDone Content-Range の件数に達したか、件数が不明で短いページが返ったら終了
func statsPageDone(fetched, pageRows int, count int64) bool {
	if pageRows == 0 {
		return true
	}
	if count > 0 {
		return int64(fetched) >= count
	}
	return pageRows < statsPageSize
}
