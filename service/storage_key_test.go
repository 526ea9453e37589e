package service

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSanitizeObjectName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "report.pdf", "report.pdf"},
		{"whitespace", "my holiday\tphoto.jpg", "my_holiday_photo.jpg"},
		{"keeps last segment", "../../etc/passwd", "passwd"},
		{"windows path", `C:\Users\me\notes.txt`, "notes.txt"},
		{"empty", "", "file"},
		{"trailing slash", "dir/", "file"},
		{"dot dot", "..", "file"},
		{"control chars", "a\x00b\x07c", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeObjectName(tt.in))
		})
	}
}

func TestSanitizeObjectName_TruncatesOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("é", 150) // 300 bytes

	got := sanitizeObjectName(long)

	assert.LessOrEqual(t, len(got), maxObjectNameBytes)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 100, utf8.RuneCountInString(got))
}

func TestNewStorageKey(t *testing.T) {
	owner := uuid.New()

	key := NewStorageKey(owner, "a b.txt")

	assert.True(t, strings.HasPrefix(key, OwnerPrefix(owner)+"a_b.txt-"))
	suffix := strings.TrimPrefix(key, OwnerPrefix(owner)+"a_b.txt-")
	_, err := uuid.Parse(suffix)
	assert.NoError(t, err)

	assert.NotEqual(t, key, NewStorageKey(owner, "a b.txt"))
}

func TestOwnerPrefix(t *testing.T) {
	assert.Equal(t, "", OwnerPrefix(uuid.Nil))

	owner := uuid.New()
	assert.Equal(t, owner.String()+"/", OwnerPrefix(owner))
}
