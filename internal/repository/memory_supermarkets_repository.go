package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/paulare17/Sprint8-sub000/internal/domain/helper"
	"github.com/paulare17/Sprint8-sub000/internal/domain/model"
	"github.com/paulare17/Sprint8-sub000/internal/domain/repository"
)

// MemorySupermarketsRepository プロセス内メモリに保持するストア（ローカル開発・テスト用）
type MemorySupermarketsRepository struct {
	mu      sync.RWMutex
	records map[string]model.Supermarket
	order   []string
}

func NewMemorySupermarketsRepository() *MemorySupermarketsRepository {
	return &MemorySupermarketsRepository{
		records: make(map[string]model.Supermarket),
	}
}

var _ repository.SupermarketsRepository = (*MemorySupermarketsRepository)(nil)

func (r *MemorySupermarketsRepository) FindByPostalCodeSince(ctx context.Context, postalCode string, since time.Time) ([]model.Supermarket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []model.Supermarket
	for _, id := range r.order {
		s := r.records[id]
		if s.PostalCode == postalCode && !s.LastUpdated.Before(since) {
			result = append(result, s)
		}
	}
	return result, nil
}

func (r *MemorySupermarketsRepository) FindNear(ctx context.Context, center model.LatLng, radiusMeters int, limit int) ([]model.Supermarket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bound := SearchBound(center, radiusMeters)
	var result []model.Supermarket
	for _, id := range r.order {
		s := r.records[id]
		point, ok := GeometryToPoint(s.Location)
		if !ok || !bound.Contains(point) {
			continue
		}
		d := helper.RoundedDistance(center, s.ToLatLng())
		if d > radiusMeters {
			continue
		}
		s.SetDistance(d)
		result = append(result, s)
	}
	helper.SortByDistance(result)
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *MemorySupermarketsRepository) Upsert(ctx context.Context, supermarket *model.Supermarket) error {
	if supermarket == nil || supermarket.ID == "" {
		return fmt.Errorf("IDのないレコードは保存できません")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.records[supermarket.ID]; ok {
		existing.LastUpdated = supermarket.LastUpdated
		r.records[supermarket.ID] = existing
		return nil
	}
	s := *supermarket
	s.Distance = nil
	r.records[s.ID] = s
	r.order = append(r.order, s.ID)
	return nil
}

func (r *MemorySupermarketsRepository) TouchLastUpdated(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.records[id]
	if !ok {
		return fmt.Errorf("スーパー %s: %w", id, model.ErrNotFound)
	}
	s.LastUpdated = at
	r.records[id] = s
	return nil
}

func (r *MemorySupermarketsRepository) Search(ctx context.Context, query, postalCode string, limit int) ([]model.Supermarket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []model.Supermarket
	for _, id := range r.order {
		s := r.records[id]
		if postalCode != "" && s.PostalCode != postalCode {
			continue
		}
		if containsFold(s.Name, query) || containsFold(s.Address, query) || containsFold(s.Chain, query) {
			result = append(result, s)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *MemorySupermarketsRepository) Stats(ctx context.Context) (*model.SupermarketStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &model.SupermarketStats{
		Total:    len(r.records),
		ByChain:  make(map[string]int),
		BySource: make(map[string]int),
	}
	for _, s := range r.records {
		stats.ByChain[s.Chain]++
		stats.BySource[string(s.Source)]++
	}
	return stats, nil
}

// Len 保存件数
func (r *MemorySupermarketsRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
