package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paulare17/Sprint8-sub000/internal/domain/model"
	"github.com/paulare17/Sprint8-sub000/internal/domain/service"
	"github.com/paulare17/Sprint8-sub000/internal/repository"
)

type fakeResolver struct {
	mu    sync.Mutex
	calls int
	point model.LatLng
	err   error
}

func (f *fakeResolver) Resolve(ctx context.Context, postalCode string) (model.LatLng, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.point, f.err
}

type fakePlaces struct {
	mu      sync.Mutex
	calls   int
	results map[string][]model.SupermarketCandidate
}

func (f *fakePlaces) SearchPlaces(ctx context.Context, center model.LatLng, category model.PlaceCategory, radiusMeters, limit int) ([]model.SupermarketCandidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.results[category.Name], nil
}

func newLookupFixture() (*fakeResolver, *fakePlaces, *repository.MemorySupermarketsRepository, SupermarketUsecase) {
	resolver := &fakeResolver{point: model.LatLng{Lng: 2.1734, Lat: 41.3851}}
	places := &fakePlaces{results: map[string][]model.SupermarketCandidate{
		model.CategorySupermarket: {
			{Name: "Mercadona", Address: "Carrer de Pelai 1", Location: model.LatLng{Lng: 2.1539, Lat: 41.3851}},
			{Name: "Super Dia Express", Address: "Carrer Nou 2", Location: model.LatLng{Lng: 2.1700, Lat: 41.3800}},
		},
		model.CategoryFood: {
			{Name: "Mercadona Supermercat SA", Address: "Pelai", Location: model.LatLng{Lng: 2.15391, Lat: 41.38511}},
		},
		model.CategoryMarketplace: {
			{Name: "Mercat de la Boqueria", Address: "La Rambla 91", Location: model.LatLng{Lng: 2.1719, Lat: 41.3817}},
		},
	}}
	repo := repository.NewMemorySupermarketsRepository()
	uc := NewSupermarketUsecase(
		resolver,
		service.NewPlacesAggregator(places, nil, 3),
		service.NewSupermarketCache(repo, nil),
		0,
		nil,
	)
	return resolver, places, repo, uc
}

func TestLookupByPostalCode_MissThenHit(t *testing.T) {
	resolver, places, repo, uc := newLookupFixture()
	ctx := context.Background()

	first, err := uc.LookupByPostalCode(ctx, "08001", false)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Len(t, first.Supermarkets, 3)
	assert.Equal(t, 1, resolver.calls)
	assert.Equal(t, 3, places.calls)
	assert.Equal(t, 3, repo.Len())

	second, err := uc.LookupByPostalCode(ctx, "08001", false)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, 1, resolver.calls)
	assert.Equal(t, 3, places.calls)

	ids := func(list []model.Supermarket) []string {
		var out []string
		for _, s := range list {
			out = append(out, s.ID)
		}
		return out
	}
	assert.ElementsMatch(t, ids(first.Supermarkets), ids(second.Supermarkets))
}

func TestLookupByPostalCode_ForceRefreshIsIdempotent(t *testing.T) {
	resolver, places, repo, uc := newLookupFixture()
	ctx := context.Background()

	_, err := uc.LookupByPostalCode(ctx, "08001", false)
	require.NoError(t, err)

	refreshed, err := uc.Refresh(ctx, "08001")
	require.NoError(t, err)
	assert.False(t, refreshed.Cached)
	assert.Len(t, refreshed.Supermarkets, 3)
	assert.Equal(t, 2, resolver.calls)
	assert.Equal(t, 6, places.calls)
	assert.Equal(t, 3, repo.Len())
}

func TestLookupByPostalCode_InvalidPostalCode(t *testing.T) {
	resolver, places, _, uc := newLookupFixture()

	_, err := uc.LookupByPostalCode(context.Background(), "ABC12", false)
	assert.ErrorIs(t, err, model.ErrInvalidPostalCode)
	assert.Zero(t, resolver.calls)
	assert.Zero(t, places.calls)
}

func TestLookupByPostalCode_ResolveFailurePropagates(t *testing.T) {
	resolver, places, repo, uc := newLookupFixture()
	resolver.err = model.ErrPostalCodeNotFound

	_, err := uc.LookupByPostalCode(context.Background(), "99999", false)
	assert.ErrorIs(t, err, model.ErrPostalCodeNotFound)
	assert.Zero(t, places.calls)
	assert.Zero(t, repo.Len())

	resolver.err = errors.Join(model.ErrGeocodingUnavailable, errors.New("dial tcp: timeout"))
	_, err = uc.LookupByPostalCode(context.Background(), "08001", true)
	assert.ErrorIs(t, err, model.ErrGeocodingUnavailable)
}

func TestSupermarketUsecase_CreateManual(t *testing.T) {
	_, _, repo, uc := newLookupFixture()
	lng, lat := 2.15, 41.38

	record, err := uc.CreateManual(context.Background(), &model.CreateSupermarketRequest{
		Name: "Test", Address: "Test st", PostalCode: "08001", Lng: &lng, Lat: &lat,
	})
	require.NoError(t, err)
	assert.Equal(t, model.SourceManual, record.Source)
	assert.Equal(t, 1, repo.Len())

	// 手動登録分だけでもキャッシュとして扱われる
	cached, err := uc.LookupByPostalCode(context.Background(), "08001", false)
	require.NoError(t, err)
	assert.True(t, cached.Cached)
}
