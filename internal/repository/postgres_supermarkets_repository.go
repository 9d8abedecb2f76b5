package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/paulare17/Sprint8-sub000/internal/domain/model"
	"github.com/paulare17/Sprint8-sub000/internal/domain/repository"
	"github.com/paulare17/Sprint8-sub000/internal/infrastructure/database"
)

type PostgresSupermarketsRepository struct {
	client *database.PostgreSQLClient
}

func NewPostgresSupermarketsRepository(client *database.PostgreSQLClient) repository.SupermarketsRepository {
	return &PostgresSupermarketsRepository{
		client: client,
	}
}

const supermarketColumns = `id, name, address, postal_code, chain, lng, lat, source, last_updated`

// SupermarketResult SQLの結果を受け取るための構造体
type SupermarketResult struct {
	ID             string
	Name           string
	Address        string
	PostalCode     string
	Chain          string
	Lng            float64
	Lat            float64
	Source         string
	LastUpdated    time.Time
	DistanceMeters sql.NullFloat64
}

// ToSupermarket SupermarketResultをmodel.Supermarketに変換
func (sr *SupermarketResult) ToSupermarket() model.Supermarket {
	s := model.Supermarket{
		ID:          sr.ID,
		Name:        sr.Name,
		Address:     sr.Address,
		PostalCode:  strings.TrimSpace(sr.PostalCode),
		Chain:       sr.Chain,
		Location:    model.NewPointGeometry(sr.Lng, sr.Lat),
		Source:      model.SupermarketSource(sr.Source),
		LastUpdated: sr.LastUpdated,
	}
	if sr.DistanceMeters.Valid {
		s.SetDistance(int(sr.DistanceMeters.Float64 + 0.5))
	}
	return s
}

func (sr *SupermarketResult) scanTargets(withDistance bool) []interface{} {
	targets := []interface{}{&sr.ID, &sr.Name, &sr.Address, &sr.PostalCode, &sr.Chain,
		&sr.Lng, &sr.Lat, &sr.Source, &sr.LastUpdated}
	if withDistance {
		targets = append(targets, &sr.DistanceMeters)
	}
	return targets
}

func (r *PostgresSupermarketsRepository) query(ctx context.Context, withDistance bool, query string, args ...interface{}) ([]model.Supermarket, error) {
	rows, err := r.client.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var supermarkets []model.Supermarket
	for rows.Next() {
		var result SupermarketResult
		if err := rows.Scan(result.scanTargets(withDistance)...); err != nil {
			return nil, fmt.Errorf("スーパーデータスキャンエラー: %w", err)
		}
		supermarkets = append(supermarkets, result.ToSupermarket())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("スーパーデータ読み込みエラー: %w", err)
	}
	return supermarkets, nil
}

func (r *PostgresSupermarketsRepository) FindByPostalCodeSince(ctx context.Context, postalCode string, since time.Time) ([]model.Supermarket, error) {
	query := `SELECT ` + supermarketColumns + ` FROM supermarkets
		WHERE postal_code = $1 AND last_updated >= $2
		ORDER BY name`

	supermarkets, err := r.query(ctx, false, query, postalCode, since)
	if err != nil {
		return nil, fmt.Errorf("郵便番号 %s のスーパー取得失敗: %w", postalCode, err)
	}
	return supermarkets, nil
}

func (r *PostgresSupermarketsRepository) FindNear(ctx context.Context, center model.LatLng, radiusMeters int, limit int) ([]model.Supermarket, error) {
	// PostGIS の GIST インデックスを使った周辺検索
	query := `
		SELECT ` + supermarketColumns + `,
			ST_Distance(s.location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography) AS distance_meters
		FROM supermarkets s
		WHERE ST_DWithin(
			s.location,
			ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography,
			$3
		)
		ORDER BY distance_meters
		LIMIT $4
	`

	supermarkets, err := r.query(ctx, true, query, center.Lng, center.Lat, radiusMeters, limit)
	if err != nil {
		return nil, fmt.Errorf("周辺スーパー検索失敗: %w", err)
	}
	return supermarkets, nil
}

func (r *PostgresSupermarketsRepository) Upsert(ctx context.Context, s *model.Supermarket) error {
	point, ok := GeometryToPoint(s.Location)
	if !ok {
		return fmt.Errorf("スーパー %s の位置情報が不正です: %w", s.ID, model.ErrInvalidInput)
	}

	query := `
		INSERT INTO supermarkets (` + supermarketColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET last_updated = EXCLUDED.last_updated
	`
	_, err := r.client.DB.ExecContext(ctx, query,
		s.ID, s.Name, s.Address, s.PostalCode, s.Chain,
		point.Lon(), point.Lat(), string(s.Source), s.LastUpdated)
	if err != nil {
		return fmt.Errorf("スーパーデータの保存失敗: %w", err)
	}
	return nil
}

func (r *PostgresSupermarketsRepository) TouchLastUpdated(ctx context.Context, id string, at time.Time) error {
	res, err := r.client.DB.ExecContext(ctx, `UPDATE supermarkets SET last_updated = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("lastUpdated の更新失敗: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("スーパー %s: %w", id, model.ErrNotFound)
	}
	return nil
}

// escapeLike ILIKE のワイルドカードをエスケープする
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *PostgresSupermarketsRepository) Search(ctx context.Context, queryText, postalCode string, limit int) ([]model.Supermarket, error) {
	query := `SELECT ` + supermarketColumns + ` FROM supermarkets
		WHERE (name ILIKE $1 OR address ILIKE $1 OR chain ILIKE $1)
		AND ($2::text = '' OR postal_code = $2::text)
		ORDER BY name
		LIMIT $3`

	pattern := "%" + escapeLike(queryText) + "%"
	supermarkets, err := r.query(ctx, false, query, pattern, postalCode, limit)
	if err != nil {
		return nil, fmt.Errorf("スーパー検索失敗: %w", err)
	}
	return supermarkets, nil
}

func (r *PostgresSupermarketsRepository) Stats(ctx context.Context) (*model.SupermarketStats, error) {
	rows, err := r.client.DB.QueryContext(ctx, `SELECT chain, source, COUNT(*) FROM supermarkets GROUP BY chain, source`)
	if err != nil {
		return nil, fmt.Errorf("統計の取得失敗: %w", err)
	}
	defer rows.Close()

	stats := &model.SupermarketStats{
		ByChain:  make(map[string]int),
		BySource: make(map[string]int),
	}
	for rows.Next() {
		var chain, source string
		var count int
		if err := rows.Scan(&chain, &source, &count); err != nil {
			return nil, fmt.Errorf("統計データスキャンエラー: %w", err)
		}
		stats.Total += count
		stats.ByChain[chain] += count
		stats.BySource[source] += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("統計データ読み込みエラー: %w", err)
	}
	return stats, nil
}
