package cache

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Geometry", func() {
	It("should split an address into tag and set index", func() {
		g := Geometry{SetIndexBits: 4, BlockOffsetBits: 6, NumWays: 1}

		tag, setID := g.Decode(0x12345)

		Expect(setID).To(Equal(0xd))
		Expect(tag).To(Equal(uint64(0x48)))
	})

	It("should use the whole address as tag with zero bit counts", func() {
		g := Geometry{SetIndexBits: 0, BlockOffsetBits: 0, NumWays: 1}

		tag, setID := g.Decode(0xdeadbeef)

		Expect(setID).To(Equal(0))
		Expect(tag).To(Equal(uint64(0xdeadbeef)))
	})

	It("should map adjacent blocks to adjacent sets", func() {
		g := Geometry{SetIndexBits: 2, BlockOffsetBits: 4, NumWays: 1}

		_, set0 := g.Decode(0x00)
		_, set1 := g.Decode(0x10)
		_, set2 := g.Decode(0x20)

		Expect(set0).To(Equal(0))
		Expect(set1).To(Equal(1))
		Expect(set2).To(Equal(2))
	})

	It("should report derived sizes", func() {
		g := Geometry{SetIndexBits: 4, BlockOffsetBits: 6, NumWays: 2}

		Expect(g.NumSets()).To(Equal(16))
		Expect(g.BlockSize()).To(Equal(64))
	})
})
