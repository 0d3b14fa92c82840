package filekeep_test

import (
	"testing"
	"time"

	"github.com/sagarc03/filekeep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queryFixture() []filekeep.FileRecord {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return []filekeep.FileRecord{
		{ID: "a", Filename: "a.pdf", ContentType: "application/pdf", Size: 10, UploadDate: base},
		{ID: "b", Filename: "b.txt", ContentType: "text/plain", Size: 5, UploadDate: base.Add(2 * time.Minute)},
		{ID: "c", Filename: "c.json", ContentType: "application/json", Size: 80, UploadDate: base.Add(time.Minute)},
	}
}

func ids(records []filekeep.FileRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestApplyQuery(t *testing.T) {
	tests := []struct {
		name  string
		query filekeep.ListQuery
		want  []string
	}{
		{name: "default sort newest first", query: filekeep.ListQuery{}, want: []string{"b", "c", "a"}},
		{name: "date sort", query: filekeep.ListQuery{SortBy: filekeep.SortByDate}, want: []string{"b", "c", "a"}},
		{name: "size sort", query: filekeep.ListQuery{SortBy: filekeep.SortBySize}, want: []string{"c", "a", "b"}},
		{name: "type by extension suffix", query: filekeep.ListQuery{FileType: "pdf"}, want: []string{"a"}},
		{name: "type by content type", query: filekeep.ListQuery{FileType: "text/plain"}, want: []string{"b"}},
		{name: "type with no match", query: filekeep.ListQuery{FileType: "image/png"}, want: []string{}},
		{name: "search", query: filekeep.ListQuery{Search: "b"}, want: []string{"b"}},
		{name: "search is case insensitive", query: filekeep.ListQuery{Search: "A.PDF"}, want: []string{"a"}},
		{name: "search and type combined", query: filekeep.ListQuery{Search: "a", FileType: "txt"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filekeep.ApplyQuery(queryFixture(), tt.query)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestApplyQuery_DateAndSizeOrdersDiffer(t *testing.T) {
	byDefault := ids(filekeep.ApplyQuery(queryFixture(), filekeep.ListQuery{}))
	byDate := ids(filekeep.ApplyQuery(queryFixture(), filekeep.ListQuery{SortBy: filekeep.SortByDate}))
	bySize := ids(filekeep.ApplyQuery(queryFixture(), filekeep.ListQuery{SortBy: filekeep.SortBySize}))

	assert.Equal(t, byDate, byDefault)
	assert.NotEqual(t, byDate, bySize)
	assert.Equal(t, "b", byDate[0], "newest record first")
	assert.Equal(t, "b", bySize[len(bySize)-1], "smallest record last")
}

func TestApplyQuery_SizeSortIsStable(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []filekeep.FileRecord{
		{ID: "1", Size: 5, UploadDate: base},
		{ID: "2", Size: 9, UploadDate: base},
		{ID: "3", Size: 5, UploadDate: base},
		{ID: "4", Size: 5, UploadDate: base},
	}

	got := filekeep.ApplyQuery(records, filekeep.ListQuery{SortBy: filekeep.SortBySize})
	assert.Equal(t, []string{"2", "1", "3", "4"}, ids(got))
}

func TestApplyQuery_DoesNotMutateInput(t *testing.T) {
	records := queryFixture()
	before := append([]filekeep.FileRecord(nil), records...)

	_ = filekeep.ApplyQuery(records, filekeep.ListQuery{SortBy: filekeep.SortBySize, Search: "a"})
	assert.Equal(t, before, records)
}

func TestApplyQuery_Empty(t *testing.T) {
	got := filekeep.ApplyQuery(nil, filekeep.ListQuery{})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
