package maps

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/paulmach/orb/geojson"

	"github.com/paulare17/Sprint8-sub000/internal/domain/model"
)

// SearchPlaces 1カテゴリ分の周辺検索 (Places API v2)
func (g *GeoapifyClient) SearchPlaces(ctx context.Context, center model.LatLng, category model.PlaceCategory, radiusMeters, limit int) ([]model.SupermarketCandidate, error) {
	if g.apiKey == "" {
		return nil, model.ErrMissingAPIKey
	}

	params := url.Values{}
	params.Set("categories", category.GeoapifyID)
	params.Set("filter", fmt.Sprintf("circle:%f,%f,%d", center.Lng, center.Lat, radiusMeters))
	params.Set("bias", fmt.Sprintf("proximity:%f,%f", center.Lng, center.Lat))
	params.Set("limit", strconv.Itoa(limit))

	fc, err := g.getFeatures(ctx, g.buildURL("/v2/places", params))
	if err != nil {
		return nil, fmt.Errorf("カテゴリ %s の検索に失敗: %w", category.Name, err)
	}

	candidates := make([]model.SupermarketCandidate, 0, len(fc.Features))
	for _, f := range fc.Features {
		if c, ok := featureToCandidate(f); ok {
			candidates = append(candidates, c)
		}
	}
	return candidates, nil
}

// featureToCandidate 名前も住所もない地点は捨てる
func featureToCandidate(f *geojson.Feature) (model.SupermarketCandidate, bool) {
	if f == nil || f.Geometry == nil {
		return model.SupermarketCandidate{}, false
	}

	line1 := stringProp(f.Properties, "address_line1")
	name := stringProp(f.Properties, "name")
	if name == "" {
		name = line1
	}
	if name == "" {
		return model.SupermarketCandidate{}, false
	}

	address := stringProp(f.Properties, "formatted")
	if address == "" {
		address = line1
	}

	var categories []string
	if raw, ok := f.Properties["categories"].([]interface{}); ok {
		for _, c := range raw {
			if s, ok := c.(string); ok {
				categories = append(categories, s)
			}
		}
	}

	p := f.Point()
	return model.SupermarketCandidate{
		Name:       name,
		Address:    address,
		PostalCode: stringProp(f.Properties, "postcode"),
		Location:   model.LatLng{Lat: p.Lat(), Lng: p.Lon()},
		Categories: categories,
	}, true
}
