// pipeline.go - PipelineState: the live registers and load/branch-delay
// bookkeeping the Dispatcher mutates every instruction (spec §3, §4.6).

package r3000a

// NoPendingLoad is the sentinel LDWhich value meaning "no delayed load is
// in flight". GPR index 32 can never be a real register, so it doubles as
// the "none" marker the same way the original interpreter overloads it.
const NoPendingLoad = 0x20

// PipelineState holds everything the Dispatcher reads and writes on every
// instruction boundary: the programme counter pair that implements the
// branch-delay slot, the one outstanding delayed load, the general
// registers, HI/LO, and the per-register read-absorb pool that lets a
// following instruction's own decode work hide a preceding load's
// latency.
//
// Two timestamps are carried relative to the slice's final timestamp
// while the Dispatcher is not running, and rebased to absolute "done"
// form (target time) while it is -- see CPU.Run.
type PipelineState struct {
	// PC is the address of the instruction about to execute. NewPC and
	// NewPCMask compute the PC for the *next* instruction as
	// (PC & NewPCMask) + NewPC. The bottom two bits of NewPCMask being
	// clear means the instruction about to run is a branch-delay slot.
	PC        uint32
	NewPC     uint32
	NewPCMask uint32

	// GPR is sized one past the architectural 32 registers: index 32 is
	// a discard bin. commitLoad() writes GPR[LDWhich] unconditionally
	// (the original interpreter's DO_LDS macro does the same), and
	// LDWhich == NoPendingLoad (32) must land somewhere harmless rather
	// than needing a branch on every committed load.
	GPR [33]uint32
	HI  uint32
	LO  uint32

	// LDWhich/LDValue/LDAbsorb describe the one pending delayed load.
	// LDWhich == NoPendingLoad means no load is in flight.
	LDWhich  uint32
	LDValue  uint32
	LDAbsorb uint8

	// ReadAbsorb[r] is the number of stall cycles left over from a prior
	// load into register r that a subsequent read of r may consume
	// instead of advancing the timestamp. ReadAbsorbWhich names which
	// slot the *next* instruction boundary will drain. Index 32
	// (ReadAbsorbDummy in the savestate record) is commitLoad()'s
	// discard bin, same rationale as GPR[32].
	ReadAbsorb      [33]uint8
	ReadAbsorbWhich uint32
	ReadFudge       uint32

	// GTETSDone/MulDivTSDone are absolute timestamps while a slice is
	// executing (see CPU.Run rebasing) at which a pending GTE result or
	// HI/LO result becomes visible.
	GTETSDone    int32
	MulDivTSDone int32
}

// ClearDependency clears the read-absorb credit for a register an
// instruction is about to read or write, folding in the source's
// GPR_DEP/GPR_RES bookkeeping (SPEC_FULL, "supplemented features").
// Register 0 is exempted implicitly by callers never routing through it
// for real dependencies; ClearDependency(0) is harmless since
// ReadAbsorb[0] never accumulates credit from GPR[0].
func (p *PipelineState) ClearDependency(reg uint32) {
	p.ReadAbsorb[reg&0x1F] = 0
}

// commitLoad implements the DO_LDS() macro from spec §4.6 step 8: the
// pending delayed load becomes visible, its absorb credit is installed,
// and the pipeline is marked clean of any pending load.
func (p *PipelineState) commitLoad() {
	p.GPR[p.LDWhich] = p.LDValue
	p.ReadAbsorb[p.LDWhich] = p.LDAbsorb
	p.ReadFudge = p.LDWhich
	p.ReadAbsorbWhich |= p.LDWhich & 0x1F
	p.LDWhich = NoPendingLoad
}
