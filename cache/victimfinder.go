package cache

// A VictimFinder decides which block of a set a miss should fill.
type VictimFinder interface {
	FindVictim(set *Set) *Block
}

// LRUVictimFinder selects the least recently used block of a set.
type LRUVictimFinder struct{}

// NewLRUVictimFinder returns a newly constructed LRU victim finder.
func NewLRUVictimFinder() *LRUVictimFinder {
	return &LRUVictimFinder{}
}

// FindVictim returns the first invalid block of the set. If every block is
// valid, it returns the block with the smallest LastUse value, preferring
// the lowest way on a tie.
func (f *LRUVictimFinder) FindVictim(set *Set) *Block {
	for i := range set.Blocks {
		if !set.Blocks[i].IsValid {
			return &set.Blocks[i]
		}
	}

	victim := &set.Blocks[0]
	for i := 1; i < len(set.Blocks); i++ {
		if set.Blocks[i].LastUse < victim.LastUse {
			victim = &set.Blocks[i]
		}
	}

	return victim
}
