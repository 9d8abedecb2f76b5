package service

import (
	"sort"

	"github.com/paulare17/Sprint8-sub000/internal/domain/model"
)

// ComputeListAnalytics リストの購入状況とメンバーごとの集計
func ComputeListAnalytics(items []model.ToDoItem) model.ListAnalytics {
	stats := make(map[string]*model.MemberStats)
	member := func(id string) *model.MemberStats {
		if m, ok := stats[id]; ok {
			return m
		}
		m := &model.MemberStats{MemberID: id}
		stats[id] = m
		return m
	}

	result := model.ListAnalytics{TotalItems: len(items)}
	for _, item := range items {
		if item.AddedBy != "" {
			member(item.AddedBy).ItemsAdded++
		}
		if item.Purchased {
			result.PurchasedItems++
			if item.PurchasedBy != "" {
				member(item.PurchasedBy).ItemsPurchased++
			}
		}
	}
	result.PendingItems = result.TotalItems - result.PurchasedItems

	result.Members = make([]model.MemberStats, 0, len(stats))
	for _, m := range stats {
		result.Members = append(result.Members, *m)
	}
	sort.Slice(result.Members, func(i, j int) bool {
		a, b := result.Members[i], result.Members[j]
		if a.ItemsAdded != b.ItemsAdded {
			return a.ItemsAdded > b.ItemsAdded
		}
		return a.MemberID < b.MemberID
	})
	return result
}
