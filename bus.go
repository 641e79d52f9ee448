// bus.go - external collaborator interfaces for the R3000A interpreter core.

package r3000a

// Bus is the memory system the CPU reads and writes through for every
// data access outside the scratchpad; instruction fetches read FastMap
// instead and never reach the bus. Implementations
// own the actual RAM/BIOS/device backing and are free to advance *ts by
// the access latency before returning; the core never assumes a fixed
// cost for a bus access.
//
// Every method is called with the already physical-decoded address (see
// AddressDecoder); the bus never sees a KUSEG/KSEG0/KSEG1/KSEG2 address.
type Bus interface {
	MemRead8(ts *int32, addr uint32) uint8
	MemRead16(ts *int32, addr uint32) uint16
	MemRead24(ts *int32, addr uint32) uint32
	MemRead32(ts *int32, addr uint32) uint32

	MemWrite8(ts *int32, addr uint32, val uint8)
	MemWrite16(ts *int32, addr uint32, val uint16)
	MemWrite32(ts *int32, addr uint32, val uint32)
	// MemWrite24 stores the low three bytes of val, used only by
	// SWL/SWR's middle byte-offset cases (spec §4.7, SPEC_FULL).
	MemWrite24(ts *int32, addr uint32, val uint32)

	// MemPeek* never advance the timestamp and never trigger side
	// effects; used by DebugInterface only.
	MemPeek8(addr uint32) uint8
	MemPeek16(addr uint32) uint16
	MemPeek32(addr uint32) uint32
}

// GTE is the Geometry Transformation Engine, coprocessor 2. The CPU never
// interprets a COP2 instruction itself beyond dispatching it here and
// stalling on the returned cycle count.
type GTE interface {
	// Instruction executes one GTE opcode and returns the number of
	// cycles the CPU must wait before the result (gte_ts_done) is ready.
	Instruction(instr uint32) int32

	ReadDR(n uint32) uint32
	WriteDR(n uint32, v uint32)
	ReadCR(n uint32) uint32
	WriteCR(n uint32, v uint32)

	Power()

	// StateAction returns an opaque, order-stable snapshot of live GTE
	// state and restores it on Restore(blob). The CPU savestate record
	// carries this blob as its GTE sub-record without inspecting it.
	StateAction() []byte
	RestoreState(blob []byte)
}

// IRQLine identifies one of the six interrupt request lines the CPU's
// CP0.CAUSE register exposes to the interrupt controller (bits 10..15).
type IRQLine uint
