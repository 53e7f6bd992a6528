package cache

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LRUVictimFinder", func() {
	var (
		finder *LRUVictimFinder
		set    *Set
	)

	BeforeEach(func() {
		finder = NewLRUVictimFinder()
		set = &Set{Blocks: make([]Block, 4)}
		for i := range set.Blocks {
			set.Blocks[i].WayID = i
		}
	})

	It("should prefer an invalid block", func() {
		set.Blocks[0] = Block{WayID: 0, IsValid: true, LastUse: 1}
		set.Blocks[1] = Block{WayID: 1, IsValid: true, LastUse: 2}

		victim := finder.FindVictim(set)

		Expect(victim.WayID).To(Equal(2))
	})

	It("should pick the smallest timestamp when all blocks are valid",
		func() {
			lastUses := []uint64{5, 3, 9, 4}
			for i, lastUse := range lastUses {
				set.Blocks[i].IsValid = true
				set.Blocks[i].LastUse = lastUse
			}

			victim := finder.FindVictim(set)

			Expect(victim.WayID).To(Equal(1))
		})

	It("should break timestamp ties by the lowest way", func() {
		lastUses := []uint64{5, 3, 3, 3}
		for i, lastUse := range lastUses {
			set.Blocks[i].IsValid = true
			set.Blocks[i].LastUse = lastUse
		}

		victim := finder.FindVictim(set)

		Expect(victim.WayID).To(Equal(1))
	})
})
