// scratchpad.go - Scratchpad (spec §4.2): 1 KiB of fast on-chip RAM
// aliased at physical 0x1F800000-0x1F8003FF.

package r3000a

import "encoding/binary"

const (
	scratchpadBase = 0x1F800000
	scratchpadEnd  = 0x1F8003FF
	scratchpadSize = 1024
	scratchpadMask = scratchpadSize - 1
)

// Scratchpad is little-endian, byte-addressable fast RAM. A dedicated
// 24-bit accessor serves the unaligned-load fixups LWL/LWR/SWL/SWR use so
// they never disturb the top byte of the containing word.
type Scratchpad struct {
	RAM [scratchpadSize]byte
}

// inScratchpadRange reports whether the physical address a falls inside the
// scratchpad's aliased window.
func inScratchpadRange(a uint32) bool {
	return a >= scratchpadBase && a <= scratchpadEnd
}

func (s *Scratchpad) Read8(a uint32) uint8 {
	return s.RAM[a&scratchpadMask]
}

func (s *Scratchpad) Read16(a uint32) uint16 {
	return binary.LittleEndian.Uint16(s.RAM[a&scratchpadMask:])
}

func (s *Scratchpad) Read32(a uint32) uint32 {
	return binary.LittleEndian.Uint32(s.RAM[a&scratchpadMask:])
}

// Read24 loads the low three bytes of the word at a, zero-extended; used
// by LWL case 2 and LWR case 1 (spec §4.7).
func (s *Scratchpad) Read24(a uint32) uint32 {
	off := a & scratchpadMask
	return uint32(s.RAM[off]) | uint32(s.RAM[off+1])<<8 | uint32(s.RAM[off+2])<<16
}

func (s *Scratchpad) Write8(a uint32, v uint8) {
	s.RAM[a&scratchpadMask] = v
}

func (s *Scratchpad) Write16(a uint32, v uint16) {
	binary.LittleEndian.PutUint16(s.RAM[a&scratchpadMask:], v)
}

func (s *Scratchpad) Write32(a uint32, v uint32) {
	binary.LittleEndian.PutUint32(s.RAM[a&scratchpadMask:], v)
}

// Write24 stores the low three bytes of v into the word at a without
// touching the fourth byte.
func (s *Scratchpad) Write24(a uint32, v uint32) {
	off := a & scratchpadMask
	s.RAM[off] = byte(v)
	s.RAM[off+1] = byte(v >> 8)
	s.RAM[off+2] = byte(v >> 16)
}

func (s *Scratchpad) reset() {
	for i := range s.RAM {
		s.RAM[i] = 0
	}
}
