package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMediaTypeForFile(t *testing.T) {
	tests := []struct {
		filename string
		want     MediaType
		ext      string
		ok       bool
	}{
		{"holiday.JPG", MediaTypeImage, "jpg", true},
		{"clip.webm", MediaTypeVideo, "webm", true},
		{"podcast.final.mp3", MediaTypeAudio, "mp3", true},
		{"notes.pdf", "", "pdf", false},
		{"noext", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, ext, ok := MediaTypeForFile(tt.filename)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ext, ext)
		})
	}
}

func TestUserRoleSet(t *testing.T) {
	user := &User{Roles: []*Role{{ID: 1, Name: "Reader"}, {ID: 2, Name: "Author"}}}

	set := user.RoleSet()
	assert.True(t, set.Has("Author"))
	assert.True(t, user.HasRole("Reader"))
	assert.False(t, user.HasRole("Admin"))
	assert.Equal(t, []string{"Author", "Reader"}, set.Names())
}
