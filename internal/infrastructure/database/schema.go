package database

import (
	"context"
	"fmt"
)

// schemaStatements supermarkets テーブルと周辺検索関数 (Supabase RPC からも使用)
var schemaStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS postgis`,
	`CREATE TABLE IF NOT EXISTS supermarkets (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL,
		address      TEXT NOT NULL DEFAULT '',
		postal_code  CHAR(5) NOT NULL CHECK (postal_code ~ '^[0-9]{5}$'),
		chain        TEXT NOT NULL,
		lng          DOUBLE PRECISION NOT NULL,
		lat          DOUBLE PRECISION NOT NULL,
		location     GEOGRAPHY(Point, 4326) GENERATED ALWAYS AS (ST_SetSRID(ST_MakePoint(lng, lat), 4326)::geography) STORED,
		source       TEXT NOT NULL CHECK (source IN ('geoapify', 'manual')),
		last_updated TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS supermarkets_location_idx ON supermarkets USING GIST (location)`,
	`CREATE INDEX IF NOT EXISTS supermarkets_postal_code_updated_idx ON supermarkets (postal_code, last_updated DESC)`,
	`CREATE OR REPLACE FUNCTION nearby_supermarkets(center_lng DOUBLE PRECISION, center_lat DOUBLE PRECISION, radius_meters INTEGER, max_results INTEGER)
	RETURNS TABLE (
		id TEXT, name TEXT, address TEXT, postal_code CHAR(5), chain TEXT,
		lng DOUBLE PRECISION, lat DOUBLE PRECISION, source TEXT, last_updated TIMESTAMPTZ,
		distance_meters DOUBLE PRECISION
	)
	LANGUAGE sql STABLE AS $$
		SELECT s.id, s.name, s.address, s.postal_code, s.chain, s.lng, s.lat, s.source, s.last_updated,
			ST_Distance(s.location, ST_SetSRID(ST_MakePoint(center_lng, center_lat), 4326)::geography) AS distance_meters
		FROM supermarkets s
		WHERE ST_DWithin(s.location, ST_SetSRID(ST_MakePoint(center_lng, center_lat), 4326)::geography, radius_meters)
		ORDER BY distance_meters
		LIMIT max_results
	$$`,
}

// EnsureSchema テーブル・インデックス・関数を作成する（冪等）
func (pc *PostgreSQLClient) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := pc.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("スキーマの作成に失敗: %w", err)
		}
	}
	return nil
}
