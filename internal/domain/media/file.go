package media

import (
	"path/filepath"
	"strings"
	"time"
)

// File is a local file staged by the editor and not yet uploaded.
type File struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"original_name"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	CreatedAt    time.Time `json:"created_at"`
}

// UploadName is the filename sent to the presigned-url endpoint. It keeps
// the original extension so storage serves the right type.
func (f File) UploadName() string {
	ext := strings.ToLower(filepath.Ext(f.OriginalName))
	if ext == "" {
		return f.ID
	}
	return f.ID + ext
}

func (f File) IsImage() bool { return strings.HasPrefix(f.ContentType, "image/") }
func (f File) IsVideo() bool { return strings.HasPrefix(f.ContentType, "video/") }
func (f File) IsGif() bool   { return f.ContentType == "image/gif" }

// Accepts reports whether the file may be placed in a block or slot of the
// given kind ("image", "gif", "video", "thumbnail", "mainVideo").
func (f File) Accepts(kind string) bool {
	switch kind {
	case "image", "thumbnail":
		return f.IsImage()
	case "gif":
		return f.IsGif()
	case "video", "mainVideo":
		return f.IsVideo()
	}
	return false
}
