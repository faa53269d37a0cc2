package works

// Top margins between consecutive content blocks, in pixels.
const (
	BlockGapSmall = 10
	BlockGapLarge = 20
)

// BlockMargin returns the top margin of blocks[i]. The rules are applied in
// order and a later rule overrides an earlier one:
//
//  1. default small gap
//  2. first block: 0
//  3. same layout as the previous media block: 0
//  4. layout differs from the previous block: large gap
//  5. text right after a non-text block: large gap
//  6. previous block is text: 0
func BlockMargin(blocks []ContentBlock, i int) int {
	margin := BlockGapSmall
	if i <= 0 {
		return 0
	}
	cur, prev := blocks[i], blocks[i-1]
	curLayout, prevLayout := LayoutOf(cur), LayoutOf(prev)

	if curLayout != "" && curLayout == prevLayout {
		margin = 0
	}
	if curLayout != prevLayout {
		margin = BlockGapLarge
	}
	if cur.Type() == BlockText && prev.Type() != BlockText {
		margin = BlockGapLarge
	}
	if prev.Type() == BlockText {
		margin = 0
	}
	return margin
}

// BlockMargins evaluates BlockMargin for the whole sequence.
func BlockMargins(blocks []ContentBlock) []int {
	out := make([]int, len(blocks))
	for i := range blocks {
		out[i] = BlockMargin(blocks, i)
	}
	return out
}
