package admin

import (
	"portfolio-site/internal/domain/editor"
	"portfolio-site/internal/domain/works"
)

type dashboardPage struct {
	Works       []works.Work
	HasSnapshot bool
	Message     string
}

type editorItem struct {
	Index   int
	URL     string
	Caption string
	Pending bool
}

type editorBlock struct {
	Index   int
	Type    string
	Layout  string
	Text    string
	IsMedia bool
	IsVideo bool
	First   bool
	Last    bool
	Full    bool
	Accept  string
	Items   []editorItem
}

type editorPage struct {
	Draft         editor.Draft
	DateInput     string
	AvailableTags []string
	WorkTypes     []works.WorkType
	BlockTypes    []works.BlockType
	Layouts       []works.Layout
	Blocks        []editorBlock
	Message       string
	Error         string
}

var blockTypes = []works.BlockType{works.BlockText, works.BlockImage, works.BlockGif, works.BlockVideo}

var flashMessages = map[string]string{
	"saved":       "Draft saved.",
	"published":   "The work was published.",
	"updated":     "The work was updated.",
	"replaced":    "The block was full, so the last item was replaced.",
	"direct":      "The file was uploaded.",
	"load-failed": "The work could not be loaded from the backend.",
}

func acceptFor(t works.BlockType) string {
	switch t {
	case works.BlockGif:
		return "image/gif"
	case works.BlockVideo:
		return "video/*"
	default:
		return "image/*"
	}
}

func toEditorPage(d editor.Draft, msg, errMsg string) editorPage {
	blocks := make([]editorBlock, 0, len(d.Blocks))
	for i, b := range d.Blocks {
		v := editorBlock{
			Index: i,
			Type:  string(b.Type()),
			First: i == 0,
			Last:  i == len(d.Blocks)-1,
		}
		if tb, ok := b.(works.TextBlock); ok {
			v.Text = tb.Text
		} else if g, ok := works.GalleryOf(b); ok {
			v.IsMedia = true
			v.IsVideo = b.Type() == works.BlockVideo
			v.Layout = string(g.Layout)
			v.Full = len(g.Items) >= g.Layout.Arity()
			v.Accept = acceptFor(b.Type())
			for j, it := range g.Items {
				v.Items = append(v.Items, editorItem{Index: j, URL: it.URL, Caption: it.Caption, Pending: it.Pending()})
			}
		}
		blocks = append(blocks, v)
	}
	return editorPage{
		Draft:         d,
		DateInput:     d.DateInput(),
		AvailableTags: d.AvailableTags(),
		WorkTypes:     []works.WorkType{works.TypeWork, works.TypeOriginal},
		BlockTypes:    blockTypes,
		Layouts:       works.Layouts,
		Blocks:        blocks,
		Message:       flashMessages[msg],
		Error:         errMsg,
	}
}
