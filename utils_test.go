package filekeep_test

import (
	"testing"
	"unicode/utf8"

	"github.com/sagarc03/filekeep"
	"github.com/stretchr/testify/assert"
)

func TestIsValidFilename(t *testing.T) {
	invalidUTF8 := string([]byte{'a', 0xff, '.', 't', 'x', 't'})

	tt := []struct {
		Name     string
		Filename string
		Want     bool
	}{
		{Name: "empty", Filename: "", Want: false},
		{Name: "single dot", Filename: ".", Want: false},
		{Name: "double dot", Filename: "..", Want: false},
		{Name: "forward slash", Filename: "a/b.txt", Want: false},
		{Name: "backslash", Filename: `a\b.txt`, Want: false},
		{Name: "traversal", Filename: "../../etc/passwd.txt", Want: false},
		{Name: "NUL", Filename: "a\x00.txt", Want: false},
		{Name: "newline", Filename: "a\n.txt", Want: false},
		{Name: "DEL", Filename: "a\x7f.txt", Want: false},
		{Name: "invalid utf8", Filename: invalidUTF8, Want: false},

		{Name: "simple", Filename: "notes.txt", Want: true},
		{Name: "spaces", Filename: "my report.pdf", Want: true},
		{Name: "hidden", Filename: ".env.json", Want: true},
		{Name: "unicode", Filename: "отчёт 世界.pdf", Want: true},
		{Name: "no extension", Filename: "README", Want: true},
		{Name: "double dots inside", Filename: "a..txt", Want: true},
		{Name: "double dots before extension", Filename: "report..pdf", Want: true},
		{Name: "trailing dots in stem", Filename: "Q3 results...txt", Want: true},
		{Name: "double quote", Filename: `say "hi".txt`, Want: true},
	}

	if utf8.ValidString(invalidUTF8) {
		t.Fatalf("test setup error: invalidUTF8 is unexpectedly valid")
	}

	for _, tc := range tt {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Want, filekeep.IsValidFilename(tc.Filename), "filename %q", tc.Filename)
		})
	}
}

func TestStorageKey(t *testing.T) {
	assert.Equal(t, "u1/abc_notes.txt", filekeep.StorageKey("u1", "abc", "notes.txt"))
}
