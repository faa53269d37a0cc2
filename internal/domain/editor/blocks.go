package editor

import "portfolio-site/internal/domain/works"

func (d *Draft) block(i int) (works.ContentBlock, error) {
	if i < 0 || i >= len(d.Blocks) {
		return nil, ErrBlockIndex
	}
	return d.Blocks[i], nil
}

// AppendBlock adds an empty text block at the end.
func (d *Draft) AppendBlock() {
	d.Blocks = append(d.Blocks, works.TextBlock{})
}

// RemoveBlock deletes block i; later blocks shift down by one.
func (d *Draft) RemoveBlock(i int) error {
	if _, err := d.block(i); err != nil {
		return err
	}
	d.Blocks = append(d.Blocks[:i:i], d.Blocks[i+1:]...)
	return nil
}

// MoveUp swaps block i with its predecessor. No-op for the first block.
func (d *Draft) MoveUp(i int) error {
	if _, err := d.block(i); err != nil {
		return err
	}
	if i == 0 {
		return nil
	}
	d.Blocks[i-1], d.Blocks[i] = d.Blocks[i], d.Blocks[i-1]
	return nil
}

// MoveDown swaps block i with its successor. No-op for the last block.
func (d *Draft) MoveDown(i int) error {
	if _, err := d.block(i); err != nil {
		return err
	}
	if i == len(d.Blocks)-1 {
		return nil
	}
	d.Blocks[i], d.Blocks[i+1] = d.Blocks[i+1], d.Blocks[i]
	return nil
}

// ChangeType switches block i to t and drops whatever the new type cannot
// hold: the body when leaving text, the items when becoming text.
func (d *Draft) ChangeType(i int, t works.BlockType) error {
	b, err := d.block(i)
	if err != nil {
		return err
	}
	if !t.Valid() {
		return ErrBlockType
	}
	if b.Type() == t {
		return nil
	}
	if t == works.BlockText {
		d.Blocks[i] = works.TextBlock{}
		return nil
	}
	g, ok := works.GalleryOf(b)
	if !ok {
		g = works.Gallery{Layout: works.DefaultLayout, Items: []works.MediaItem{}}
	}
	nb, err := works.NewMediaBlock(t, g)
	if err != nil {
		return err
	}
	d.Blocks[i] = nb
	return nil
}

// ChangeLayout sets the layout of media block i and drops trailing items
// beyond the new arity.
func (d *Draft) ChangeLayout(i int, l works.Layout) error {
	b, err := d.block(i)
	if err != nil {
		return err
	}
	if !l.Valid() {
		return ErrLayout
	}
	g, ok := works.GalleryOf(b)
	if !ok {
		return ErrNotMedia
	}
	items := g.Items
	if len(items) > l.Arity() {
		items = items[:l.Arity()]
	}
	nb, err := works.NewMediaBlock(b.Type(), works.Gallery{Layout: l, Items: append([]works.MediaItem(nil), items...)})
	if err != nil {
		return err
	}
	d.Blocks[i] = nb
	return nil
}

// AddMedia puts item into media block i. With arity 1 the item replaces
// what is there; below arity it is appended; at or above arity the block
// keeps its first arity-1 items and the new one goes last. overwritten
// reports whether an existing item was dropped.
func (d *Draft) AddMedia(i int, item works.MediaItem) (overwritten bool, err error) {
	b, err := d.block(i)
	if err != nil {
		return false, err
	}
	g, ok := works.GalleryOf(b)
	if !ok {
		return false, ErrNotMedia
	}
	arity := g.Layout.Arity()
	var items []works.MediaItem
	switch {
	case arity <= 1:
		overwritten = len(g.Items) > 0
		items = []works.MediaItem{item}
	case len(g.Items) < arity:
		items = append(append([]works.MediaItem(nil), g.Items...), item)
	default:
		overwritten = true
		items = append(append([]works.MediaItem(nil), g.Items[:arity-1]...), item)
	}
	nb, err := works.NewMediaBlock(b.Type(), works.Gallery{Layout: g.Layout, Items: items})
	if err != nil {
		return false, err
	}
	d.Blocks[i] = nb
	return overwritten, nil
}

// RemoveMedia drops item j of media block i.
func (d *Draft) RemoveMedia(i, j int) error {
	g, err := d.gallery(i, j)
	if err != nil {
		return err
	}
	items := append(append([]works.MediaItem(nil), g.Items[:j]...), g.Items[j+1:]...)
	nb, err := works.NewMediaBlock(d.Blocks[i].Type(), works.Gallery{Layout: g.Layout, Items: items})
	if err != nil {
		return err
	}
	d.Blocks[i] = nb
	return nil
}

func (d *Draft) SetCaption(i, j int, caption string) error {
	g, err := d.gallery(i, j)
	if err != nil {
		return err
	}
	items := append([]works.MediaItem(nil), g.Items...)
	items[j].Caption = caption
	nb, err := works.NewMediaBlock(d.Blocks[i].Type(), works.Gallery{Layout: g.Layout, Items: items})
	if err != nil {
		return err
	}
	d.Blocks[i] = nb
	return nil
}

// SetText replaces the body of text block i.
func (d *Draft) SetText(i int, text string) error {
	b, err := d.block(i)
	if err != nil {
		return err
	}
	if b.Type() != works.BlockText {
		return ErrBlockType
	}
	d.Blocks[i] = works.TextBlock{Text: text}
	return nil
}

func (d *Draft) gallery(i, j int) (works.Gallery, error) {
	b, err := d.block(i)
	if err != nil {
		return works.Gallery{}, err
	}
	g, ok := works.GalleryOf(b)
	if !ok {
		return works.Gallery{}, ErrNotMedia
	}
	if j < 0 || j >= len(g.Items) {
		return works.Gallery{}, ErrItemIndex
	}
	return g, nil
}
