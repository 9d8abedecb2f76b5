package repository

import (
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/paulare17/Sprint8-sub000/internal/domain/model"
)

// LatLngToPoint model.LatLng を orb.Point ([lng, lat]) に変換
func LatLngToPoint(p model.LatLng) orb.Point {
	return orb.Point{p.Lng, p.Lat}
}

// GeometryToPoint GeoJSON Point を orb.Point に変換
func GeometryToPoint(g *model.Geometry) (orb.Point, bool) {
	if g == nil || len(g.Coordinates) < 2 {
		return orb.Point{}, false
	}
	return orb.Point{g.Coordinates[0], g.Coordinates[1]}, true
}

// SearchBound 周辺検索用の境界ボックス
// orb の地球半径 (6378137m) は距離計算の半径より大きいため少し広げておく
func SearchBound(center model.LatLng, radiusMeters int) orb.Bound {
	return geo.NewBoundAroundPoint(LatLngToPoint(center), float64(radiusMeters)*1.01+1)
}

// containsFold 大文字小文字を無視した部分一致
func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
