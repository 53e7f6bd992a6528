// Package cache models the hit, miss, and eviction behavior of a
// set-associative cache with an LRU replacement policy. The model is
// functional rather than timed: it tracks which blocks are resident and
// how recently they were used, and nothing else.
package cache

import (
	"github.com/sarchlab/cachesim/trace"
)

// Stats is a snapshot of the counters a simulation produces.
type Stats struct {
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
}

// An AccessResult describes the effect of the first lookup of one access.
// A Modify access additionally performs a second lookup on the same block,
// which always hits.
type AccessResult struct {
	Hit      bool
	Eviction bool
	Tag      uint64
	SetID    int
	WayID    int
}

// A Cache applies trace records one at a time, mutating exactly one set
// per access and counting hits, misses, and evictions. It is not safe for
// concurrent use; recency is only meaningful as the total order produced
// by a single caller.
type Cache struct {
	geometry     Geometry
	sets         []Set
	victimFinder VictimFinder

	timer uint64
	stats Stats
}

// Geometry returns the geometry the cache was built with.
func (c *Cache) Geometry() Geometry {
	return c.geometry
}

// Stats returns the current counter values.
func (c *Cache) Stats() Stats {
	return c.stats
}

// Reset invalidates every block and clears the counters and the timer.
func (c *Cache) Reset() {
	c.sets = make([]Set, c.geometry.NumSets())
	for i := range c.sets {
		c.sets[i].Blocks = make([]Block, c.geometry.NumWays)
		for j := range c.sets[i].Blocks {
			c.sets[i].Blocks[j] = Block{SetID: i, WayID: j}
		}
	}

	c.timer = 0
	c.stats = Stats{}
}

// Access applies one trace record. Instruction records are ignored
// entirely. Load and Store records perform one lookup; Modify records
// perform one lookup followed by a second one that is guaranteed to hit,
// since the first lookup just made the block resident. The logical timer
// advances once per record, not per lookup.
func (c *Cache) Access(access trace.Access) AccessResult {
	if access.Kind == trace.Instruction {
		return AccessResult{}
	}

	tag, setID := c.geometry.Decode(access.Address)
	set := &c.sets[setID]

	c.timer++

	result := c.lookup(set, tag, setID)

	if access.Kind == trace.Modify {
		block := c.mustFindResident(set, tag)
		c.stats.Hits++
		block.LastUse = c.timer
	}

	return result
}

func (c *Cache) lookup(set *Set, tag uint64, setID int) AccessResult {
	for i := range set.Blocks {
		block := &set.Blocks[i]
		if block.IsValid && block.Tag == tag {
			c.stats.Hits++
			block.LastUse = c.timer

			return AccessResult{
				Hit:   true,
				Tag:   tag,
				SetID: setID,
				WayID: block.WayID,
			}
		}
	}

	victim := c.victimFinder.FindVictim(set)
	eviction := victim.IsValid

	c.stats.Misses++
	if eviction {
		c.stats.Evictions++
	}

	victim.Tag = tag
	victim.IsValid = true
	victim.LastUse = c.timer

	return AccessResult{
		Eviction: eviction,
		Tag:      tag,
		SetID:    setID,
		WayID:    victim.WayID,
	}
}

func (c *Cache) mustFindResident(set *Set, tag uint64) *Block {
	for i := range set.Blocks {
		if set.Blocks[i].IsValid && set.Blocks[i].Tag == tag {
			return &set.Blocks[i]
		}
	}

	panic("block filled by the preceding lookup is not resident")
}
