package cache

// Builder can build caches.
type Builder struct {
	setIndexBits    int
	blockOffsetBits int
	numWays         int
	victimFinder    VictimFinder
}

// MakeBuilder creates a builder with a default geometry of 16 sets,
// 64-byte blocks, and 4 ways.
func MakeBuilder() Builder {
	return Builder{
		setIndexBits:    4,
		blockOffsetBits: 6,
		numWays:         4,
	}
}

// WithSetIndexBits sets the number of address bits used to select a set.
func (b Builder) WithSetIndexBits(n int) Builder {
	b.setIndexBits = n
	return b
}

// WithBlockOffsetBits sets the number of address bits inside a block.
func (b Builder) WithBlockOffsetBits(n int) Builder {
	b.blockOffsetBits = n
	return b
}

// WithNumWays sets the number of lines per set.
func (b Builder) WithNumWays(n int) Builder {
	b.numWays = n
	return b
}

// WithVictimFinder sets the replacement policy of the cache. The default
// is LRU.
func (b Builder) WithVictimFinder(f VictimFinder) Builder {
	b.victimFinder = f
	return b
}

// Build builds a cache. It panics if the geometry is not realizable.
func (b Builder) Build() *Cache {
	b.mustHaveValidGeometry()

	victimFinder := b.victimFinder
	if victimFinder == nil {
		victimFinder = NewLRUVictimFinder()
	}

	c := &Cache{
		geometry: Geometry{
			SetIndexBits:    b.setIndexBits,
			BlockOffsetBits: b.blockOffsetBits,
			NumWays:         b.numWays,
		},
		victimFinder: victimFinder,
	}
	c.Reset()

	return c
}

func (b Builder) mustHaveValidGeometry() {
	if b.setIndexBits < 0 {
		panic("set index bit count must not be negative")
	}

	if b.blockOffsetBits < 0 {
		panic("block offset bit count must not be negative")
	}

	if b.numWays < 1 {
		panic("cache must have at least one way per set")
	}

	if b.setIndexBits+b.blockOffsetBits > 64 {
		panic("set index and block offset bits must fit a 64-bit address")
	}
}
