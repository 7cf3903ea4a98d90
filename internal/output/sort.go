package output

import (
	"sort"

	"github.com/AoTofu/wuwa-calc-web/internal/domain"
	"github.com/AoTofu/wuwa-calc-web/internal/optimizer"
)

func SortScoredByTarget(results []optimizer.Scored, target domain.Target) {
	sort.SliceStable(results, func(i, j int) bool {
		if target == domain.TargetDps {
			return results[i].Dps > results[j].Dps
		}
		return results[i].Damage > results[j].Damage
	})
}
