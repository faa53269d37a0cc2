package editor

import (
	"testing"
	"time"

	"portfolio-site/internal/domain/works"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mediaDraft(t works.BlockType, l works.Layout, urls ...string) Draft {
	d := New("d1", time.Date(2025, 9, 27, 0, 0, 0, 0, time.UTC))
	d.AppendBlock()
	if err := d.ChangeType(0, t); err != nil {
		panic(err)
	}
	if err := d.ChangeLayout(0, l); err != nil {
		panic(err)
	}
	for _, u := range urls {
		if _, err := d.AddMedia(0, works.MediaItem{URL: u}); err != nil {
			panic(err)
		}
	}
	return d
}

func itemURLs(t *testing.T, b works.ContentBlock) []string {
	t.Helper()
	g, ok := works.GalleryOf(b)
	require.True(t, ok, "block %T has no gallery", b)
	out := make([]string, 0, len(g.Items))
	for _, it := range g.Items {
		out = append(out, it.URL)
	}
	return out
}

func TestAppendBlockAddsEmptyText(t *testing.T) {
	d := New("d1", time.Now())
	d.AppendBlock()
	d.AppendBlock()
	require.Len(t, d.Blocks, 2)
	assert.Equal(t, works.TextBlock{}, d.Blocks[1])
}

func TestRemoveBlockShiftsLaterBlocks(t *testing.T) {
	d := New("d1", time.Now())
	for _, s := range []string{"a", "b", "c"} {
		d.AppendBlock()
		require.NoError(t, d.SetText(len(d.Blocks)-1, s))
	}

	require.NoError(t, d.RemoveBlock(1))
	assert.Equal(t, works.Blocks{works.TextBlock{Text: "a"}, works.TextBlock{Text: "c"}}, d.Blocks)

	assert.ErrorIs(t, d.RemoveBlock(2), ErrBlockIndex)
	assert.ErrorIs(t, d.RemoveBlock(-1), ErrBlockIndex)
}

func TestMoveSwapsNeighboursAndStopsAtBoundaries(t *testing.T) {
	d := New("d1", time.Now())
	for _, s := range []string{"a", "b", "c"} {
		d.AppendBlock()
		require.NoError(t, d.SetText(len(d.Blocks)-1, s))
	}
	texts := func() []string {
		var out []string
		for _, b := range d.Blocks {
			out = append(out, b.(works.TextBlock).Text)
		}
		return out
	}

	require.NoError(t, d.MoveUp(0))
	assert.Equal(t, []string{"a", "b", "c"}, texts())

	require.NoError(t, d.MoveDown(2))
	assert.Equal(t, []string{"a", "b", "c"}, texts())

	require.NoError(t, d.MoveUp(2))
	assert.Equal(t, []string{"a", "c", "b"}, texts())

	require.NoError(t, d.MoveDown(0))
	assert.Equal(t, []string{"c", "a", "b"}, texts())

	assert.ErrorIs(t, d.MoveUp(3), ErrBlockIndex)
}

func TestChangeTypeToTextClearsItems(t *testing.T) {
	d := mediaDraft(works.BlockImage, works.Grid2, "a.png", "b.png")

	require.NoError(t, d.ChangeType(0, works.BlockText))
	assert.Equal(t, works.TextBlock{}, d.Blocks[0])
	_, isMedia := works.GalleryOf(d.Blocks[0])
	assert.False(t, isMedia)

	require.NoError(t, d.ChangeType(0, works.BlockImage))
	assert.Empty(t, itemURLs(t, d.Blocks[0]), "no stale media after a round trip through text")
}

func TestChangeTypeFromTextClearsBody(t *testing.T) {
	d := New("d1", time.Now())
	d.AppendBlock()
	require.NoError(t, d.SetText(0, "body"))

	require.NoError(t, d.ChangeType(0, works.BlockVideo))
	v, ok := d.Blocks[0].(works.VideoBlock)
	require.True(t, ok)
	assert.Equal(t, works.DefaultLayout, v.Layout)
	assert.Empty(t, v.Items)

	require.NoError(t, d.ChangeType(0, works.BlockText))
	assert.Equal(t, works.TextBlock{}, d.Blocks[0])
}

func TestChangeTypeBetweenMediaKeepsGallery(t *testing.T) {
	d := mediaDraft(works.BlockImage, works.Grid3, "a", "b")
	require.NoError(t, d.ChangeType(0, works.BlockGif))
	gif, ok := d.Blocks[0].(works.GifBlock)
	require.True(t, ok)
	assert.Equal(t, works.Grid3, gif.Layout)
	assert.Equal(t, []string{"a", "b"}, itemURLs(t, gif))

	assert.ErrorIs(t, d.ChangeType(0, works.BlockType("audio")), ErrBlockType)
}

func TestChangeLayoutTruncatesTrailingItems(t *testing.T) {
	d := mediaDraft(works.BlockImage, works.Grid4, "a", "b", "c", "d")

	require.NoError(t, d.ChangeLayout(0, works.Grid2))
	assert.Equal(t, []string{"a", "b"}, itemURLs(t, d.Blocks[0]))

	require.NoError(t, d.ChangeLayout(0, works.Grid4))
	assert.Equal(t, []string{"a", "b"}, itemURLs(t, d.Blocks[0]), "widening does not bring items back")

	d.AppendBlock()
	assert.ErrorIs(t, d.ChangeLayout(1, works.Grid2), ErrNotMedia)
	assert.ErrorIs(t, d.ChangeLayout(0, works.Layout("grid-5")), ErrLayout)
}

func TestAddMediaGrid2ThirdItemReplacesSecond(t *testing.T) {
	d := mediaDraft(works.BlockImage, works.Grid2, "a", "b")

	overwritten, err := d.AddMedia(0, works.MediaItem{URL: "c"})
	require.NoError(t, err)
	assert.True(t, overwritten)
	assert.Equal(t, []string{"a", "c"}, itemURLs(t, d.Blocks[0]))
}

func TestAddMediaGrid1AlwaysKeepsLatest(t *testing.T) {
	d := mediaDraft(works.BlockVideo, works.Grid1)

	overwritten, err := d.AddMedia(0, works.MediaItem{URL: "first"})
	require.NoError(t, err)
	assert.False(t, overwritten)

	for _, u := range []string{"second", "third"} {
		overwritten, err = d.AddMedia(0, works.MediaItem{URL: u})
		require.NoError(t, err)
		assert.True(t, overwritten)
		assert.Equal(t, []string{u}, itemURLs(t, d.Blocks[0]))
	}
}

func TestAddMediaAppendsBelowArity(t *testing.T) {
	d := mediaDraft(works.BlockGif, works.Grid3, "a")
	overwritten, err := d.AddMedia(0, works.MediaItem{URL: "b", LocalFile: "staged-1"})
	require.NoError(t, err)
	assert.False(t, overwritten)
	assert.Equal(t, []string{"a", "b"}, itemURLs(t, d.Blocks[0]))
}

func TestAddMediaOnTextBlockFails(t *testing.T) {
	d := New("d1", time.Now())
	d.AppendBlock()
	_, err := d.AddMedia(0, works.MediaItem{URL: "a"})
	assert.ErrorIs(t, err, ErrNotMedia)
}

func TestRemoveMediaAndCaption(t *testing.T) {
	d := mediaDraft(works.BlockImage, works.Grid3, "a", "b", "c")
	require.NoError(t, d.SetCaption(0, 2, "third"))
	require.NoError(t, d.RemoveMedia(0, 0))

	g, _ := works.GalleryOf(d.Blocks[0])
	assert.Equal(t, []works.MediaItem{{URL: "b"}, {URL: "c", Caption: "third"}}, g.Items)
	assert.ErrorIs(t, d.RemoveMedia(0, 5), ErrItemIndex)
}

func TestEditsOnCloneDoNotLeak(t *testing.T) {
	d := mediaDraft(works.BlockImage, works.Grid2, "a")
	cp := d.Clone()
	require.NoError(t, cp.SetCaption(0, 0, "changed"))
	cp.AddTag("2D")

	g, _ := works.GalleryOf(d.Blocks[0])
	assert.Equal(t, "", g.Items[0].Caption)
	assert.Empty(t, d.Tags)
}

func TestTags(t *testing.T) {
	d := New("d1", time.Now())
	d.AddTag("2D")
	d.AddTag("2D")
	d.AddTag(works.AllTag)
	d.AddTag("VR")
	assert.Equal(t, []string{"2D", "VR"}, d.Tags)
	assert.NotContains(t, d.AvailableTags(), "2D")

	d.RemoveTag("2D")
	assert.Equal(t, []string{"VR"}, d.Tags)
}

func TestValidate(t *testing.T) {
	d := New("d1", time.Now())
	err := d.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title")
	assert.Contains(t, err.Error(), "owner")

	d.Title, d.Owner = "Title", "Studio"
	assert.NoError(t, d.Validate())

	d.WorkType = "poster"
	assert.Error(t, d.Validate())
}

func TestDateInput(t *testing.T) {
	d := New("d1", time.Now())
	require.NoError(t, d.SetDateFromInput("2024-02-29"))
	assert.Equal(t, "2024-02-29T00:00:00Z", d.Date)
	assert.Equal(t, "2024-02-29", d.DateInput())
	assert.Error(t, d.SetDateFromInput("29/02/2024"))
}

func TestEncodeDecodeKeepsLocalReferences(t *testing.T) {
	d := mediaDraft(works.BlockImage, works.Grid2)
	_, err := d.AddMedia(0, works.MediaItem{URL: "/admin/staged/f1", LocalFile: "f1"})
	require.NoError(t, err)
	d.Thumbnail = works.MediaItem{URL: "/admin/staged/t1", LocalFile: "t1"}

	data, err := d.Encode()
	require.NoError(t, err)
	back, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, d, back)
	assert.Equal(t, []string{"t1", "f1"}, back.StagedFiles())
}
