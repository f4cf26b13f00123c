package domain

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"blogapi/internal/authz"
)

type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
	MediaTypeAudio MediaType = "audio"
)

// MaxMediaURLLength bounds the stored url or path.
const MaxMediaURLLength = 255

var mediaExtensions = map[string]MediaType{
	"mp4":  MediaTypeVideo,
	"avi":  MediaTypeVideo,
	"mov":  MediaTypeVideo,
	"mkv":  MediaTypeVideo,
	"webm": MediaTypeVideo,
	"png":  MediaTypeImage,
	"jpg":  MediaTypeImage,
	"jpeg": MediaTypeImage,
	"gif":  MediaTypeImage,
	"webp": MediaTypeImage,
	"mp3":  MediaTypeAudio,
	"wav":  MediaTypeAudio,
	"ogg":  MediaTypeAudio,
}

// MediaTypeForFile maps a file name to its media type by extension.
func MediaTypeForFile(filename string) (MediaType, string, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	mediaType, ok := mediaExtensions[ext]
	return mediaType, ext, ok
}

type Media struct {
	ID        int64     `json:"id"`
	URL       string    `json:"url"`
	Type      MediaType `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	BlogID    int64     `json:"blog_id"`
}

type UploadMediaInput struct {
	BlogID   int64     `json:"blog_id" validate:"required,gt=0"`
	Filename string    `json:"file" validate:"required"`
	Content  io.Reader `json:"-"`
}

type MediaRepository interface {
	FindByID(ctx context.Context, id int64) (*Media, error)
	FindByBlog(ctx context.Context, blogID int64) ([]*Media, error)
	Create(ctx context.Context, media *Media) error
	Delete(ctx context.Context, id int64) error
}

type MediaService interface {
	Upload(ctx context.Context, actor authz.Actor, in UploadMediaInput) (*Media, error)
	Get(ctx context.Context, actor authz.Actor, id int64) (*Media, error)
	ListByBlog(ctx context.Context, actor authz.Actor, blogID int64) ([]*Media, error)
	Delete(ctx context.Context, actor authz.Actor, id int64) error
}

// FileStore persists uploaded media files.
type FileStore interface {
	// Save stores the content under name and returns its url or path.
	Save(ctx context.Context, name string, content io.Reader) (string, error)
	// Remove deletes the file behind url. A missing file is not an error.
	Remove(ctx context.Context, url string) error
}
