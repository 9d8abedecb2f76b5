package helper

import (
	"strings"

	"github.com/paulare17/Sprint8-sub000/internal/domain/model"
)

// ExtractChain は店名から既知チェーンを判定する
// 優先順リストで最初に部分一致（大文字小文字無視）したものを返し、なければ "Otros"
func ExtractChain(name string) string {
	lower := strings.ToLower(name)
	for _, chain := range model.KnownChains {
		if strings.Contains(lower, strings.ToLower(chain)) {
			return chain
		}
	}
	return model.ChainOther
}

// ResolveChain はリクエストで指定された既知チェーンを優先し、空または未知なら店名から判定する
func ResolveChain(requested, name string) string {
	c := strings.TrimSpace(requested)
	if model.IsKnownChain(c) {
		return c
	}
	for _, chain := range model.KnownChains {
		if strings.EqualFold(c, chain) {
			return chain
		}
	}
	return ExtractChain(name)
}
