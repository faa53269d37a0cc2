package works

import (
	"portfolio-site/internal/app/http/views"
	"portfolio-site/internal/domain/works"
)

type cardView struct {
	ID        string
	Href      string
	Title     string
	Owner     string
	Thumbnail string
	Tags      []string
}

type tagLink struct {
	Name   string
	Href   string
	Active bool
}

type indexPage struct {
	Nav   views.Nav
	Cards []cardView
	Tags  []tagLink
}

type blockView struct {
	Kind   string // "text", "image", "gif" or "video"
	Text   string
	Layout works.Layout
	Items  []works.MediaItem
	Margin int
}

type workPage struct {
	Nav    views.Nav
	Work   works.Work
	Date   string
	Blocks []blockView
}

type notFoundPage struct {
	Nav views.Nav
}

func toCard(w works.Work) cardView {
	return cardView{
		ID:        w.ID,
		Href:      "/work/" + w.ID,
		Title:     w.Title,
		Owner:     w.Owner,
		Thumbnail: w.Thumbnail,
		Tags:      w.CardTags(),
	}
}

// tagLinks builds the filter bar: ALL first, then every predefined tag,
// each linking to the selection it would toggle to.
func tagLinks(f works.Filter) []tagLink {
	out := make([]tagLink, 0, len(works.PredefinedTags)+1)
	out = append(out, tagLink{
		Name:   works.AllTag,
		Href:   f.ClearTags().Href(),
		Active: len(f.Tags) == 0,
	})
	for _, t := range works.PredefinedTags {
		out = append(out, tagLink{
			Name:   t,
			Href:   f.Toggle(t).Href(),
			Active: f.Selected(t),
		})
	}
	return out
}

func toBlockViews(blocks works.Blocks) []blockView {
	margins := works.BlockMargins(blocks)
	out := make([]blockView, 0, len(blocks))
	for i, b := range blocks {
		v := blockView{Kind: string(b.Type()), Margin: margins[i]}
		switch blk := b.(type) {
		case works.TextBlock:
			v.Text = blk.Text
		default:
			g, _ := works.GalleryOf(b)
			v.Layout = g.Layout
			v.Items = g.Items
		}
		out = append(out, v)
	}
	return out
}
