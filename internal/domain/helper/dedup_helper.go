package helper

import (
	"unicode/utf8"

	"github.com/paulare17/Sprint8-sub000/internal/domain/model"
)

// CanonicalPolicy は重複する2件のうち残す方を返す（a が先に見つかった方）
type CanonicalPolicy func(a, b model.SupermarketCandidate) model.SupermarketCandidate

// ChooseLongerName は名前が長い方を残す。同じ長さなら先に見つかった方
func ChooseLongerName(a, b model.SupermarketCandidate) model.SupermarketCandidate {
	if utf8.RuneCountInString(b.Name) > utf8.RuneCountInString(a.Name) {
		return b
	}
	return a
}

// DeduplicateCandidates はグリッドキーごとに1件に絞り込む
// 出力順はグリッドセルが最初に現れた順
func DeduplicateCandidates(candidates []model.SupermarketCandidate, policy CanonicalPolicy) []model.SupermarketCandidate {
	if policy == nil {
		policy = ChooseLongerName
	}

	index := make(map[string]int, len(candidates))
	result := make([]model.SupermarketCandidate, 0, len(candidates))
	for _, c := range candidates {
		key := GridKey(c.Location)
		if i, ok := index[key]; ok {
			result[i] = policy(result[i], c)
			continue
		}
		index[key] = len(result)
		result = append(result, c)
	}
	return result
}
