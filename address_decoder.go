// address_decoder.go - AddressDecoder (spec §4.1): maps any 32-bit virtual
// address to its physical form via five fixed region masks. Stateless.

package r3000a

// addrMask is indexed by the top three bits of a virtual address
// (addr >> 29), giving one of four region groups:
//
//	000, 001, 010, 011 (KUSEG, 0x00000000-0x7FFFFFFF) -> pass through
//	100                (KSEG0, 0x80000000-0x9FFFFFFF) -> mask to physical
//	101                (KSEG1, 0xA0000000-0xBFFFFFFF) -> mask to physical
//	110, 111           (KSEG2, 0xC0000000-0xFFFFFFFF) -> pass through
var addrMask = [8]uint32{
	0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF,
	0x7FFFFFFF,
	0x1FFFFFFF,
	0xFFFFFFFF, 0xFFFFFFFF,
}

// decodeAddress maps a virtual address to its physical form. No exception
// is raised here for misalignment; alignment faults are each opcode's own
// responsibility (LH/LHU/LW/SH/SW/LWC2/SWC2).
func decodeAddress(a uint32) uint32 {
	return a & addrMask[a>>29]
}
