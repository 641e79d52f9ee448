// fastmap.go - FastMap (spec §2, §9): an address to host-slice lookup
// table for bus regions that are directly addressable (RAM, BIOS, etc.)
// in page-sized units.
//
// The original interpreter stores `host_ptr - region_base` per page so
// that `FastMap[addr>>SHIFT][addr]` resolves directly; that pointer
// arithmetic has no safe equivalent in Go. Per SPEC_FULL's design notes,
// FastMap instead keeps one full-size slice per page and computes
// `page[addr & pageMask]` on each access -- same O(1) lookup, no unsafe
// pointer offsetting.

package r3000a

const (
	fastMapPageShift = 16
	fastMapPageSize  = 1 << fastMapPageShift
	fastMapPageMask  = fastMapPageSize - 1
	fastMapPages     = 1 << (32 - fastMapPageShift)
)

// FastMap resolves a physical address to the page backing it in O(1).
// Pages with no region mapped read as 0xFF (dummy page, spec §7: "Bus
// reads returning 0xFF from the DummyPage are treated as legitimate bus
// reads").
type FastMap struct {
	pages     [fastMapPages][]byte
	dummyPage [fastMapPageSize]byte
}

// NewFastMap returns a FastMap with every page pointed at the dummy page.
func NewFastMap() *FastMap {
	fm := &FastMap{}
	for i := range fm.dummyPage {
		fm.dummyPage[i] = 0xFF
	}
	for i := range fm.pages {
		fm.pages[i] = fm.dummyPage[:]
	}
	return fm
}

// SetRegion maps region (length a multiple of the page size) starting at
// physical address addr. region's backing slice is shared, not copied;
// the host retains ownership and may mutate it in place (e.g. RAM being
// written to by the bus).
func (fm *FastMap) SetRegion(region []byte, addr uint32, size uint32) {
	if size%fastMapPageSize != 0 {
		panic("r3000a: FastMap.SetRegion size must be a multiple of the page size")
	}
	if uint32(len(region)) < size {
		panic("r3000a: FastMap.SetRegion region shorter than size")
	}
	for off := uint32(0); off < size; off += fastMapPageSize {
		page := addr + off
		fm.pages[page>>fastMapPageShift] = region[off : off+fastMapPageSize]
	}
}

func (fm *FastMap) page(addr uint32) []byte {
	return fm.pages[addr>>fastMapPageShift]
}

// ReadWord loads a little-endian word at physical addr, used by the
// I-cache refill/bypass path and the idle-loop-hint zero-word check.
func (fm *FastMap) ReadWord(addr uint32) uint32 {
	p := fm.page(addr)
	o := addr & fastMapPageMask
	return uint32(p[o]) | uint32(p[o+1])<<8 | uint32(p[o+2])<<16 | uint32(p[o+3])<<24
}
