package works

import (
	"encoding/json"
	"fmt"
)

type BlockType string

const (
	BlockText  BlockType = "text"
	BlockImage BlockType = "image"
	BlockGif   BlockType = "gif"
	BlockVideo BlockType = "video"
)

func (t BlockType) Valid() bool {
	switch t {
	case BlockText, BlockImage, BlockGif, BlockVideo:
		return true
	}
	return false
}

// IsMedia reports whether blocks of this type carry a gallery.
func (t BlockType) IsMedia() bool {
	return t == BlockImage || t == BlockGif || t == BlockVideo
}

// Layout is the grid a media block is displayed in. Its arity is the
// maximum number of items the block may hold.
type Layout string

const (
	Grid1 Layout = "grid-1"
	Grid2 Layout = "grid-2"
	Grid3 Layout = "grid-3"
	Grid4 Layout = "grid-4"

	DefaultLayout = Grid4
)

var Layouts = []Layout{Grid1, Grid2, Grid3, Grid4}

func (l Layout) Arity() int {
	switch l {
	case Grid1:
		return 1
	case Grid2:
		return 2
	case Grid3:
		return 3
	case Grid4:
		return 4
	}
	return 0
}

func (l Layout) Valid() bool { return l.Arity() > 0 }

// MediaItem is one asset inside a gallery. LocalFile points at a staged
// upload and only exists while a draft is being edited.
type MediaItem struct {
	URL       string `json:"url"`
	Caption   string `json:"caption,omitempty"`
	LocalFile string `json:"localFile,omitempty"`
}

// Pending reports whether the item still waits for its upload.
func (m MediaItem) Pending() bool { return m.LocalFile != "" }

// ContentBlock is one unit of a work's body. The set of implementations is
// closed: TextBlock, ImageBlock, GifBlock and VideoBlock.
type ContentBlock interface {
	Type() BlockType
	contentBlock()
}

type TextBlock struct {
	Text string
}

type Gallery struct {
	Layout Layout
	Items  []MediaItem
}

type ImageBlock struct{ Gallery }

type GifBlock struct{ Gallery }

type VideoBlock struct{ Gallery }

func (TextBlock) Type() BlockType  { return BlockText }
func (ImageBlock) Type() BlockType { return BlockImage }
func (GifBlock) Type() BlockType   { return BlockGif }
func (VideoBlock) Type() BlockType { return BlockVideo }

func (TextBlock) contentBlock()  {}
func (ImageBlock) contentBlock() {}
func (GifBlock) contentBlock()   {}
func (VideoBlock) contentBlock() {}

// GalleryOf returns the gallery of a media block.
func GalleryOf(b ContentBlock) (Gallery, bool) {
	switch v := b.(type) {
	case ImageBlock:
		return v.Gallery, true
	case GifBlock:
		return v.Gallery, true
	case VideoBlock:
		return v.Gallery, true
	}
	return Gallery{}, false
}

// NewMediaBlock builds a media block of type t around g.
func NewMediaBlock(t BlockType, g Gallery) (ContentBlock, error) {
	switch t {
	case BlockImage:
		return ImageBlock{g}, nil
	case BlockGif:
		return GifBlock{g}, nil
	case BlockVideo:
		return VideoBlock{g}, nil
	}
	return nil, fmt.Errorf("block type %q has no gallery", t)
}

// LayoutOf returns the layout of a media block, or "" for text.
func LayoutOf(b ContentBlock) Layout {
	g, ok := GalleryOf(b)
	if !ok {
		return ""
	}
	return g.Layout
}

func (g Gallery) clone() Gallery {
	items := make([]MediaItem, len(g.Items))
	copy(items, g.Items)
	return Gallery{Layout: g.Layout, Items: items}
}

// CloneBlock returns a copy of b that shares no slices with it.
func CloneBlock(b ContentBlock) ContentBlock {
	g, ok := GalleryOf(b)
	if !ok {
		return b
	}
	out, _ := NewMediaBlock(b.Type(), g.clone())
	return out
}

// ---------- wire format

type blockJSON struct {
	Type   BlockType   `json:"type"`
	Text   *string     `json:"text,omitempty"`
	Layout Layout      `json:"layout,omitempty"`
	Items  []MediaItem `json:"items,omitempty"`
}

func MarshalBlock(b ContentBlock) ([]byte, error) {
	switch v := b.(type) {
	case TextBlock:
		text := v.Text
		return json.Marshal(blockJSON{Type: BlockText, Text: &text})
	case nil:
		return nil, fmt.Errorf("nil content block")
	}
	g, ok := GalleryOf(b)
	if !ok {
		return nil, fmt.Errorf("unsupported content block %T", b)
	}
	items := g.Items
	if items == nil {
		items = []MediaItem{}
	}
	return json.Marshal(struct {
		Type   BlockType   `json:"type"`
		Layout Layout      `json:"layout"`
		Items  []MediaItem `json:"items"`
	}{b.Type(), g.Layout, items})
}

func UnmarshalBlock(data []byte) (ContentBlock, error) {
	var raw blockJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	switch raw.Type {
	case BlockText:
		b := TextBlock{}
		if raw.Text != nil {
			b.Text = *raw.Text
		}
		return b, nil
	case BlockImage, BlockGif, BlockVideo:
		layout := raw.Layout
		if layout == "" {
			layout = DefaultLayout
		}
		if !layout.Valid() {
			return nil, fmt.Errorf("unknown layout %q", raw.Layout)
		}
		return NewMediaBlock(raw.Type, Gallery{Layout: layout, Items: raw.Items})
	}
	return nil, fmt.Errorf("unknown content block type %q", raw.Type)
}

// Blocks is an ordered block sequence with a JSON codec for the sum type.
type Blocks []ContentBlock

func (bs Blocks) MarshalJSON() ([]byte, error) {
	out := make([]json.RawMessage, 0, len(bs))
	for i, b := range bs {
		data, err := MarshalBlock(b)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		out = append(out, data)
	}
	return json.Marshal(out)
}

func (bs *Blocks) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	out := make(Blocks, 0, len(raws))
	for i, raw := range raws {
		b, err := UnmarshalBlock(raw)
		if err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
		out = append(out, b)
	}
	*bs = out
	return nil
}

// Clone copies the sequence and every gallery in it.
func (bs Blocks) Clone() Blocks {
	if bs == nil {
		return nil
	}
	out := make(Blocks, len(bs))
	for i, b := range bs {
		out[i] = CloneBlock(b)
	}
	return out
}
