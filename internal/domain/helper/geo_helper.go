package helper

import (
	"fmt"
	"math"
	"sort"

	"github.com/paulare17/Sprint8-sub000/internal/domain/model"
)

const earthRadiusMeters = 6371000.0

// gridPrecision 約100mのグリッド（小数点以下3桁）
const gridPrecision = 1000.0

// HaversineMeters は2地点間の距離を計算する (m)
func HaversineMeters(p1, p2 model.LatLng) float64 {
	lat1 := p1.Lat * math.Pi / 180
	lng1 := p1.Lng * math.Pi / 180
	lat2 := p2.Lat * math.Pi / 180
	lng2 := p2.Lng * math.Pi / 180
	dLat := lat2 - lat1
	dLng := lng2 - lng1
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}

// RoundedDistance は距離をメートル単位に丸める
func RoundedDistance(p1, p2 model.LatLng) int {
	return int(math.Round(HaversineMeters(p1, p2)))
}

// GridKey は座標を小数点以下3桁に丸めた重複判定用のキーを返す
func GridKey(p model.LatLng) string {
	lng := math.Round(p.Lng*gridPrecision) / gridPrecision
	lat := math.Round(p.Lat*gridPrecision) / gridPrecision
	return fmt.Sprintf("%.3f,%.3f", lng, lat)
}

// WithinDistance は基準地点から maxDistance (m) 以内のスーパーだけを距離付きで返す（近い順）
func WithinDistance(origin model.LatLng, supermarkets []model.Supermarket, maxDistance int) []model.Supermarket {
	result := make([]model.Supermarket, 0, len(supermarkets))
	for _, s := range supermarkets {
		d := RoundedDistance(origin, s.ToLatLng())
		if d > maxDistance {
			continue
		}
		s.SetDistance(d)
		result = append(result, s)
	}
	SortByDistance(result)
	return result
}

// SortByDistance は距離の近い順に並べる（距離未設定は末尾）
func SortByDistance(supermarkets []model.Supermarket) {
	sort.SliceStable(supermarkets, func(i, j int) bool {
		di, dj := supermarkets[i].Distance, supermarkets[j].Distance
		if di == nil {
			return false
		}
		if dj == nil {
			return true
		}
		return *di < *dj
	})
}
