package domain

// IDAllocator hands out block identifiers. Implementations must make
// collisions within one document's lifetime practically impossible; a
// sequential counter is not enough once blocks are deleted and re-added.
type IDAllocator interface {
	NewID() string
}

// The document operations below are pure: the input sequence is never
// mutated, every operation returns a fresh slice. Referencing an id that is
// not present is a no-op, not an error, so callers racing a stale id cannot
// corrupt the document.

// Append constructs a new empty block of the given kind with a fresh id and
// appends it. All prior blocks keep their position and identity.
func Append(blocks []Block, kind BlockKind, ids IDAllocator) []Block {
	out := make([]Block, 0, len(blocks)+1)
	out = append(out, blocks...)
	out = append(out, Block{ID: ids.NewID(), Type: kind})
	return out
}

// Update replaces the payload of the block whose id matches. The id and
// type of the existing block always win: changing a block's kind in place is
// not possible through this operation.
func Update(blocks []Block, id string, next Block) []Block {
	idx := indexOf(blocks, id)
	if idx < 0 {
		return blocks
	}
	out := make([]Block, len(blocks))
	copy(out, blocks)
	next.ID = out[idx].ID
	next.Type = out[idx].Type
	out[idx] = next
	return out
}

// Remove drops the block with the matching id, preserving the relative
// order of the rest.
func Remove(blocks []Block, id string) []Block {
	idx := indexOf(blocks, id)
	if idx < 0 {
		return blocks
	}
	out := make([]Block, 0, len(blocks)-1)
	out = append(out, blocks[:idx]...)
	out = append(out, blocks[idx+1:]...)
	return out
}

// Reposition moves the block with the matching id to targetIndex, clamped
// to the valid range. A single-element move, not a swap: every other block
// keeps its relative order.
func Reposition(blocks []Block, id string, targetIndex int) []Block {
	idx := indexOf(blocks, id)
	if idx < 0 {
		return blocks
	}

	if targetIndex < 0 {
		targetIndex = 0
	}
	if targetIndex > len(blocks)-1 {
		targetIndex = len(blocks) - 1
	}
	if targetIndex == idx {
		return blocks
	}

	moved := blocks[idx]
	rest := make([]Block, 0, len(blocks)-1)
	rest = append(rest, blocks[:idx]...)
	rest = append(rest, blocks[idx+1:]...)

	out := make([]Block, 0, len(blocks))
	out = append(out, rest[:targetIndex]...)
	out = append(out, moved)
	out = append(out, rest[targetIndex:]...)
	return out
}

func indexOf(blocks []Block, id string) int {
	for i := range blocks {
		if blocks[i].ID == id {
			return i
		}
	}
	return -1
}
