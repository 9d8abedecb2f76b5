package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paulare17/Sprint8-sub000/internal/domain/model"
	"github.com/paulare17/Sprint8-sub000/internal/repository"
)

func floatPtr(v float64) *float64 { return &v }

// failingUpsertRepo 指定した店名の保存だけ失敗させる
type failingUpsertRepo struct {
	*repository.MemorySupermarketsRepository
	failName string
}

func (r *failingUpsertRepo) Upsert(ctx context.Context, supermarket *model.Supermarket) error {
	if supermarket.Name == r.failName {
		return errors.New("insert rejected")
	}
	return r.MemorySupermarketsRepository.Upsert(ctx, supermarket)
}

func TestSupermarketCache_UpsertBatchSkipsFailedSaves(t *testing.T) {
	repo := &failingUpsertRepo{
		MemorySupermarketsRepository: repository.NewMemorySupermarketsRepository(),
		failName:                     "Broken",
	}
	cache := NewSupermarketCache(repo, nil)

	candidates := []model.SupermarketCandidate{
		{Name: "Broken", Address: "Carrer de Pelai 1", PostalCode: "08001", Chain: "Mercadona", Location: model.LatLng{Lng: 2.1539, Lat: 41.3851}},
		{Name: "Bonpreu", Address: "Carrer d'Aribau 20", PostalCode: "08011", Chain: "Bonpreu", Location: model.LatLng{Lng: 2.1610, Lat: 41.3880}},
	}

	saved, err := cache.UpsertBatch(context.Background(), candidates)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "Bonpreu", saved[0].Name)
	assert.Equal(t, 1, repo.Len())
}

func TestSupermarketCache_UpsertBatchIsIdempotent(t *testing.T) {
	repo := repository.NewMemorySupermarketsRepository()
	cache := NewSupermarketCache(repo, nil)
	ctx := context.Background()

	candidates := []model.SupermarketCandidate{
		{Name: "Mercadona", Address: "Carrer de Pelai 1", PostalCode: "08001", Chain: "Mercadona", Location: model.LatLng{Lng: 2.1539, Lat: 41.3851}},
		{Name: "Lidl", Address: "Ronda Sant Antoni 5", PostalCode: "08001", Chain: "Lidl", Location: model.LatLng{Lng: 2.1650, Lat: 41.3800}},
	}

	first, err := cache.UpsertBatch(ctx, candidates)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, 2, repo.Len())
	for _, s := range first {
		assert.Equal(t, model.SourceGeoapify, s.Source)
		assert.Equal(t, "Point", s.Location.Type)
	}

	second, err := cache.UpsertBatch(ctx, candidates)
	require.NoError(t, err)
	assert.Len(t, second, 2)
	assert.Equal(t, 2, repo.Len())
	assert.Equal(t, first[0].ID, second[0].ID)
}

func TestSupermarketCache_UpsertKeepsExistingData(t *testing.T) {
	repo := repository.NewMemorySupermarketsRepository()
	cache := NewSupermarketCache(repo, nil)
	ctx := context.Background()

	_, err := cache.UpsertBatch(ctx, []model.SupermarketCandidate{
		{Name: "Mercadona", Address: "Carrer de Pelai 1", PostalCode: "08001", Location: model.LatLng{Lng: 2.1539, Lat: 41.3851}},
	})
	require.NoError(t, err)

	// 約20m先の候補は既存レコードとして扱われる
	result, err := cache.UpsertBatch(ctx, []model.SupermarketCandidate{
		{Name: "Mercadona Supermercat SA", Address: "Pelai", PostalCode: "08001", Location: model.LatLng{Lng: 2.1541, Lat: 41.3852}},
	})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Mercadona", result[0].Name)
	assert.Equal(t, "Carrer de Pelai 1", result[0].Address)
	assert.Nil(t, result[0].Distance)
	assert.Equal(t, 1, repo.Len())
}

func TestSupermarketCache_GetByPostalCodeFreshness(t *testing.T) {
	repo := repository.NewMemorySupermarketsRepository()
	cache := NewSupermarketCache(repo, nil)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &model.Supermarket{
		ID: "fresh", Name: "Bonpreu", PostalCode: "08001", Location: model.NewPointGeometry(2.15, 41.38),
		LastUpdated: time.Now().Add(-time.Hour),
	}))
	require.NoError(t, repo.Upsert(ctx, &model.Supermarket{
		ID: "stale", Name: "Caprabo", PostalCode: "08001", Location: model.NewPointGeometry(2.16, 41.39),
		LastUpdated: time.Now().Add(-48 * time.Hour),
	}))

	result, err := cache.GetByPostalCode(ctx, "08001", 24*time.Hour)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "fresh", result[0].ID)

	empty, err := cache.GetByPostalCode(ctx, "28001", 0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSupermarketCache_GetNearbySortedWithDistance(t *testing.T) {
	repo := repository.NewMemorySupermarketsRepository()
	cache := NewSupermarketCache(repo, nil)
	ctx := context.Background()

	for _, s := range []model.Supermarket{
		{ID: "b", Name: "Consum", Location: model.NewPointGeometry(0, 0.01)},
		{ID: "a", Name: "Eroski", Location: model.NewPointGeometry(0, 0.001)},
		{ID: "c", Name: "Alcampo", Location: model.NewPointGeometry(0, 0.1)},
	} {
		s := s
		require.NoError(t, repo.Upsert(ctx, &s))
	}

	result, err := cache.GetNearby(ctx, model.LatLng{}, 2000)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "a", result[0].ID)
	assert.Equal(t, "b", result[1].ID)
	assert.Equal(t, 111, *result[0].Distance)
	assert.InDelta(t, 1112, *result[1].Distance, 5)
}

func TestSupermarketCache_InsertManual(t *testing.T) {
	repo := repository.NewMemorySupermarketsRepository()
	cache := NewSupermarketCache(repo, nil)
	ctx := context.Background()

	// 既存レコードのすぐ隣でも近接チェックせずに登録される
	_, err := cache.UpsertBatch(ctx, []model.SupermarketCandidate{
		{Name: "Dia", PostalCode: "08001", Location: model.LatLng{Lng: 2.15, Lat: 41.38}},
	})
	require.NoError(t, err)

	record, err := cache.InsertManual(ctx, &model.CreateSupermarketRequest{
		Name: "Test", Address: "Test st", PostalCode: "08001", Lng: floatPtr(2.15), Lat: floatPtr(41.38),
	})
	require.NoError(t, err)
	assert.Equal(t, model.SourceManual, record.Source)
	assert.Equal(t, model.ChainOther, record.Chain)
	assert.Equal(t, []float64{2.15, 41.38}, record.Location.Coordinates)
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, 2, repo.Len())

	withChain, err := cache.InsertManual(ctx, &model.CreateSupermarketRequest{
		Name: "Botiga", Address: "Major 3", PostalCode: "08001", Chain: "Spar", Lng: floatPtr(2.1), Lat: floatPtr(41.3),
	})
	require.NoError(t, err)
	assert.Equal(t, "Spar", withChain.Chain)
}

func TestSupermarketCache_InsertManualValidation(t *testing.T) {
	cache := NewSupermarketCache(repository.NewMemorySupermarketsRepository(), nil)
	ctx := context.Background()

	_, err := cache.InsertManual(ctx, &model.CreateSupermarketRequest{Name: "Test", Address: "Test st", PostalCode: "08001"})
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = cache.InsertManual(ctx, &model.CreateSupermarketRequest{
		Name: "Test", Address: "Test st", PostalCode: "8001", Lng: floatPtr(2.15), Lat: floatPtr(41.38),
	})
	assert.ErrorIs(t, err, model.ErrInvalidPostalCode)
}

func TestSupermarketCache_SearchAndStats(t *testing.T) {
	repo := repository.NewMemorySupermarketsRepository()
	cache := NewSupermarketCache(repo, nil)
	ctx := context.Background()

	_, err := cache.UpsertBatch(ctx, []model.SupermarketCandidate{
		{Name: "Mercadona Pelai", Address: "Carrer de Pelai 1", PostalCode: "08001", Chain: "Mercadona", Location: model.LatLng{Lng: 2.1539, Lat: 41.3851}},
		{Name: "Lidl Raval", Address: "Carrer de l'Hospital 20", PostalCode: "08001", Chain: "Lidl", Location: model.LatLng{Lng: 2.1700, Lat: 41.3800}},
		{Name: "Mercadona Gràcia", Address: "Travessera de Gràcia", PostalCode: "08012", Chain: "Mercadona", Location: model.LatLng{Lng: 2.1600, Lat: 41.4000}},
	})
	require.NoError(t, err)

	found, err := cache.Search(ctx, "MERCADONA", "")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = cache.Search(ctx, "mercadona", "08012")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Mercadona Gràcia", found[0].Name)

	found, err = cache.Search(ctx, "hospital", "")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	_, err = cache.Search(ctx, "  ", "")
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	stats, err := cache.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.ByChain["Mercadona"])
	assert.Equal(t, 1, stats.ByChain["Lidl"])
	assert.Equal(t, 3, stats.BySource["geoapify"])
}

func TestSupermarketIDFromLocation(t *testing.T) {
	a := SupermarketIDFromLocation(model.LatLng{Lng: 2.1539, Lat: 41.3851})
	b := SupermarketIDFromLocation(model.LatLng{Lng: 2.1539, Lat: 41.3851})
	c := SupermarketIDFromLocation(model.LatLng{Lng: 2.1540, Lat: 41.3851})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
