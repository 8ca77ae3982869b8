package usecase

import (
	"github.com/rs/zerolog/log"

	"github.com/casaelena/colibrisync/internal/domain"
)

// GroupBySKU partitions a feed page into groups sharing one SKU, keeping
// first-appearance order for the groups and arrival order within each group.
// Records without a SKU have no identity and are dropped; the skipped count
// is returned so the caller can log it. Pure apart from the skip log.
func GroupBySKU(records []domain.RawRecord) ([]domain.SkuGroup, int) {
	index := make(map[string]int, len(records))
	groups := make([]domain.SkuGroup, 0, len(records))
	skipped := 0

	for _, rec := range records {
		sku := rec.SKU()
		if sku == "" {
			log.Warn().Err(domain.ErrMissingSKU).Msg("skipping record")
			skipped++
			continue
		}
		if i, ok := index[sku]; ok {
			groups[i].Records = append(groups[i].Records, rec)
			continue
		}
		index[sku] = len(groups)
		groups = append(groups, domain.SkuGroup{SKU: sku, Records: []domain.RawRecord{rec}})
	}
	return groups, skipped
}
