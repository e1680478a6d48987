package ingest

import (
	"sort"

	"github.com/pvzzle/polywatch/internal/storage"
)

// SortByTimestamp возвращает копию среза в неубывающем порядке timestamp,
// чтобы не "переворачивать" ленту: фид отдаёт от новых к старым, а слать
// надо от старых к новым. Сортировка стабильная — при равных (или
// отсутствующих, т.е. нулевых) timestamp сохраняется порядок выборки.
func SortByTimestamp(recs []storage.ActivityRecord) []storage.ActivityRecord {
	out := make([]storage.ActivityRecord, len(recs))
	copy(out, recs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp < out[j].Timestamp
	})
	return out
}
