package cache

// A Block holds the bookkeeping state of one cache line. No data is
// stored; presence, tag identity, and recency are enough to count hits,
// misses, and evictions.
type Block struct {
	Tag     uint64
	SetID   int
	WayID   int
	IsValid bool

	// LastUse is the value of the cache's logical timer at the most
	// recent access to this block. It is only meaningful while IsValid.
	LastUse uint64
}

// A Set is the fixed group of blocks that one address range maps to.
// Recency is determined by comparing LastUse values, not by block
// position.
type Set struct {
	Blocks []Block
}
