// Package order implements the tiered ordering policy for batch retrieval.
//
// Stems are grouped into priority tiers by category: the primary melodic
// stems first, the drum components second, and everything else last in
// manifest order. Within the first two tiers, stems are sequenced by their
// category's position in that tier's fixed list. The policy is applied once
// per fresh batch; retry passes keep the failed subset in its existing
// order.
package order

import (
	"sort"

	"github.com/EricDisero/stemfetch/internal/model"
)

// Tier category lists, in priority order. Categories not present in either
// list fall through to the final tier untouched.
var (
	primaryTier = []string{model.CategoryVocal, model.CategoryBass}
	drumTier    = []string{model.CategoryKick, model.CategorySnare, model.CategoryToms, model.CategoryHats}
)

// Stems returns the stems ordered for retrieval.
//
// The input is not modified. Ordering is deterministic and total: every
// stem lands in exactly one tier, ties within a tier preserve manifest
// order, and unrecognized categories keep their relative input order at
// the end.
func Stems(stems []*model.Stem) []*model.Stem {
	ordered := make([]*model.Stem, len(stems))
	copy(ordered, stems)

	sort.SliceStable(ordered, func(i, j int) bool {
		ti, si := rank(ordered[i].Category)
		tj, sj := rank(ordered[j].Category)
		if ti != tj {
			return ti < tj
		}
		return si < sj
	})

	return ordered
}

// rank returns the tier and the within-tier sub-order for a category.
// Tier 3 stems all share sub-order zero so the stable sort keeps their
// manifest order.
func rank(category string) (tier, sub int) {
	if i := indexOf(primaryTier, category); i >= 0 {
		return 1, i
	}
	if i := indexOf(drumTier, category); i >= 0 {
		return 2, i
	}
	return 3, 0
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
