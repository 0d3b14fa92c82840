package filekeep

import (
	"slices"
	"strings"
)

// ApplyQuery filters and sorts records in memory. It never mutates records
// and always returns a non-nil slice.
//
// A record matches the type filter when its content type equals the filter or
// its filename ends with it. The search filter is a case-insensitive substring
// match on the filename. Sorting is stable and descending, by size or by
// upload date.
func ApplyQuery(records []FileRecord, q ListQuery) []FileRecord {
	out := make([]FileRecord, 0, len(records))
	search := strings.ToLower(q.Search)

	for _, r := range records {
		if q.FileType != "" && r.ContentType != q.FileType && !strings.HasSuffix(r.Filename, q.FileType) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(r.Filename), search) {
			continue
		}
		out = append(out, r)
	}

	switch q.SortBy {
	case SortBySize:
		slices.SortStableFunc(out, func(a, b FileRecord) int {
			switch {
			case a.Size > b.Size:
				return -1
			case a.Size < b.Size:
				return 1
			default:
				return 0
			}
		})
	default:
		slices.SortStableFunc(out, func(a, b FileRecord) int {
			return b.UploadDate.Compare(a.UploadDate)
		})
	}

	return out
}
