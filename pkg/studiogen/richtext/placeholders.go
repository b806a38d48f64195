package richtext

// InsertPlaceholders interleaves count evenly-spaced image placeholder
// markers into blocks. Positions are computed as len(blocks)/(count+1)
// multiples and the markers are inserted highest index first, so earlier
// insertions never shift a later target. Sequences shorter than 3 blocks are
// returned unchanged.
func InsertPlaceholders(blocks []Block, count int) []Block {
	if count <= 0 || len(blocks) < 3 {
		return blocks
	}

	interval := len(blocks) / (count + 1)
	if interval == 0 {
		interval = 1
	}

	out := make([]Block, len(blocks), len(blocks)+count)
	copy(out, blocks)

	for i := count; i >= 1; i-- {
		pos := interval * i
		if pos > len(blocks) {
			pos = len(blocks)
		}
		marker := Block{Type: BlockImagePlaceholder, Placeholder: i}
		out = append(out[:pos], append([]Block{marker}, out[pos:]...)...)
	}
	return out
}
