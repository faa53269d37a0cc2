package editor

import (
	"fmt"

	"portfolio-site/internal/domain/works"
)

// StagedFiles lists every distinct local file the draft still refers to,
// in the order they appear: thumbnail, main video, then block items.
func (d Draft) StagedFiles() []string {
	seen := map[string]bool{}
	var out []string
	add := func(m works.MediaItem) {
		if m.LocalFile == "" || seen[m.LocalFile] {
			return
		}
		seen[m.LocalFile] = true
		out = append(out, m.LocalFile)
	}
	add(d.Thumbnail)
	add(d.MainVideo)
	for _, b := range d.Blocks {
		if g, ok := works.GalleryOf(b); ok {
			for _, it := range g.Items {
				add(it)
			}
		}
	}
	return out
}

// Orphaned returns the staged files referenced by before but no longer by
// after, i.e. the ones an edit dropped.
func Orphaned(before, after Draft) []string {
	keep := map[string]bool{}
	for _, id := range after.StagedFiles() {
		keep[id] = true
	}
	var out []string
	for _, id := range before.StagedFiles() {
		if !keep[id] {
			out = append(out, id)
		}
	}
	return out
}

func resolveItem(m works.MediaItem, resolved map[string]string) (works.MediaItem, error) {
	if m.LocalFile == "" {
		return m, nil
	}
	url, ok := resolved[m.LocalFile]
	if !ok || url == "" {
		return works.MediaItem{}, fmt.Errorf("%w: %s", ErrUnresolvedFile, m.LocalFile)
	}
	return works.MediaItem{URL: url, Caption: m.Caption}, nil
}

// Payload derives the work to send to the backend. Every local file
// reference is replaced by its durable URL from resolved; the draft itself
// is left untouched.
func (d Draft) Payload(resolved map[string]string) (works.Work, error) {
	thumb, err := resolveItem(d.Thumbnail, resolved)
	if err != nil {
		return works.Work{}, fmt.Errorf("thumbnail: %w", err)
	}
	video, err := resolveItem(d.MainVideo, resolved)
	if err != nil {
		return works.Work{}, fmt.Errorf("main video: %w", err)
	}

	blocks := make(works.Blocks, 0, len(d.Blocks))
	for i, b := range d.Blocks {
		g, ok := works.GalleryOf(b)
		if !ok {
			blocks = append(blocks, b)
			continue
		}
		items := make([]works.MediaItem, 0, len(g.Items))
		for j, it := range g.Items {
			r, err := resolveItem(it, resolved)
			if err != nil {
				return works.Work{}, fmt.Errorf("block %d item %d: %w", i, j, err)
			}
			items = append(items, r)
		}
		nb, err := works.NewMediaBlock(b.Type(), works.Gallery{Layout: g.Layout, Items: items})
		if err != nil {
			return works.Work{}, err
		}
		blocks = append(blocks, nb)
	}

	tags := append([]string{}, d.Tags...)
	return works.Work{
		ID:            d.WorkID,
		Title:         d.Title,
		Subtitle:      d.Subtitle,
		Date:          d.Date,
		WorkType:      d.WorkType,
		Owner:         d.Owner,
		Tags:          tags,
		Thumbnail:     thumb.URL,
		DescriptionKo: d.DescriptionKo,
		DescriptionEn: d.DescriptionEn,
		MainVideo:     video.URL,
		Data:          blocks,
	}, nil
}
