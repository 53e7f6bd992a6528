package cache

// Geometry describes the shape of a set-associative cache. An address is
// split, from the low bits up, into a block offset, a set index, and a tag.
type Geometry struct {
	SetIndexBits    int `json:"set_index_bits"`
	BlockOffsetBits int `json:"block_offset_bits"`
	NumWays         int `json:"num_ways"`
}

// NumSets returns the number of sets the geometry describes.
func (g Geometry) NumSets() int {
	return 1 << g.SetIndexBits
}

// BlockSize returns the number of bytes in one block.
func (g Geometry) BlockSize() int {
	return 1 << g.BlockOffsetBits
}

// Decode splits an address into its tag and set index. The set index is
// taken from the bits immediately above the block offset; everything above
// the set index is the tag.
func (g Geometry) Decode(addr uint64) (tag uint64, setID int) {
	setMask := uint64(1)<<g.SetIndexBits - 1
	setID = int((addr >> g.BlockOffsetBits) & setMask)
	tag = addr >> (g.BlockOffsetBits + g.SetIndexBits)

	return tag, setID
}
