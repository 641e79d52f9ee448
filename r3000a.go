// r3000a.go - CPU struct assembly, power-on reset, and the small pieces
// of external stimulus (halt, IRQ, BIU) named in spec §6.

package r3000a

import (
	"fmt"
	"os"
)

// BIU bits this core models (spec §3).
const (
	biuICacheEnable = 1 << 11
	biuDCacheEnable = 1 << 7
	biuTagTest      = 1 << 2
	biuLock         = 1 << 0
	biuWriteMask    = ^uint32((1 << 6) | (1 << 10))
)

// CPU is the R3000A interpreter core: PipelineState plus the I-cache,
// CP0, scratchpad, FastMap and the external collaborators it borrows for
// the duration of a Run slice.
//
// Field order loosely follows the teacher's hot-path-first convention:
// the registers the Dispatcher touches every instruction come first.
type CPU struct {
	PipelineState

	CP0     CP0
	ICache  ICacheModel
	Scratch Scratchpad
	Fast    *FastMap

	BIU     uint32
	IPCache uint32
	Halted  bool

	// NextEventTS is the external scheduler's next-wakeup time; Run
	// honours it as the slice boundary (spec §5).
	NextEventTS int32

	idleHint bool

	// skipCommit is set by opINTERRUPT when Halted: the original
	// interpreter's Mednafen-special INTERRUPT opcode jumps straight past
	// both DO_LDS() and the PC advance in that case, leaving any pending
	// delayed load parked exactly as it was (spec §4.4).
	skipCommit bool

	bus Bus
	gte GTE

	// Verbose gates the unimplemented-target and illegal-opcode
	// diagnostics carried over from the original interpreter's
	// PSX_WARNING calls (SPEC_FULL Ambient Stack). Off by default: a
	// library embedded in a host should not spam stderr unless asked.
	Verbose bool

	debug debugState

	opcodeTable [256]opHandler
}

// opHandler executes one decoded opcode against the live CPU state and
// the in-flight instruction word, given a pointer to the slice-local
// timestamp. It reports whether it armed a branch (via doBranch) and,
// if so, the branch instruction's own address doBranch returned --
// RunIdleHint's spin detector needs that PC; every other caller ignores it.
type opHandler func(c *CPU, instr uint32, ts *int32) (branched bool, branchFrom uint32)

// NewCPU constructs a powered-off-shape CPU wired to bus and gte. Call
// Power before running it.
func NewCPU(bus Bus, gte GTE) *CPU {
	c := &CPU{
		Fast: NewFastMap(),
		bus:  bus,
		gte:  gte,
	}
	c.buildOpcodeTable()
	return c
}

// Power resets the CPU to its architectural power-on state (spec §6).
func (c *CPU) Power() {
	c.GPR = [33]uint32{}
	c.HI, c.LO = 0, 0
	c.ReadAbsorb = [33]uint8{}
	c.ReadAbsorbWhich = 0
	c.ReadFudge = 0
	c.LDWhich = NoPendingLoad
	c.LDValue = 0
	c.LDAbsorb = 0

	c.GTETSDone = 0
	c.MulDivTSDone = 0

	c.PC = 0xBFC00000
	c.NewPC = 4
	c.NewPCMask = ^uint32(0)

	c.CP0.reset()
	c.BIU = 0
	c.Halted = false
	c.IPCache = c.CP0.recalcIPCache(c.Halted)

	c.ICache.reset(c.BIU&biuICacheEnable != 0)
	c.Scratch.reset()

	c.NextEventTS = 0

	if c.gte != nil {
		c.gte.Power()
	}
}

// SetHalt implements the WFI-adjacent halt stimulus (spec §4.4): while
// halted, the INTERRUPT pseudo-opcode parks the pipeline instead of
// advancing PC, and IPCache is forced regardless of SR/CAUSE.
func (c *CPU) SetHalt(halted bool) {
	c.Halted = halted
	c.IPCache = c.CP0.recalcIPCache(c.Halted)
}

// AssertIRQ flips bit 10+line of CP0.CAUSE, matching the IRQ controller
// contract in spec §6.
func (c *CPU) AssertIRQ(line IRQLine, asserted bool) {
	if line > 5 {
		panic("r3000a: IRQ line out of range")
	}
	bit := uint32(1) << (10 + line)
	if asserted {
		c.CP0.Regs[CP0RegCAUSE] |= bit
	} else {
		c.CP0.Regs[CP0RegCAUSE] &^= bit
	}
	c.IPCache = c.CP0.recalcIPCache(c.Halted)
}

// SetBIU writes the bus interface register, masking out the bits this
// core doesn't model and re-stamping I-cache validity when bit 11 (I
// cache enable) toggles (spec §4.3, §6).
func (c *CPU) SetBIU(val uint32) {
	val &= biuWriteMask
	toggled := (c.BIU ^ val) & biuICacheEnable
	c.BIU = val
	if toggled != 0 {
		c.ICache.setEnabled(val&biuICacheEnable != 0)
	}
}

func (c *CPU) GetBIU() uint32 {
	return c.BIU
}

// SetFastMap registers region as directly addressable at physical addr
// for size bytes (spec §6).
func (c *CPU) SetFastMap(region []byte, addr uint32, size uint32) {
	c.Fast.SetRegion(region, addr, size)
}

// Exception commits code as a MIPS exception taken at pc with
// branch-delay state npm, recomputes IPCache, and returns the vector the
// caller must jump to (with new_PC_mask forced to 0, per spec §4.5).
func (c *CPU) Exception(code uint32, pc uint32, npm uint32) uint32 {
	if c.Verbose && code != ExceptionINT && code != ExceptionBP && code != ExceptionSYSCALL {
		fmt.Fprintf(os.Stderr, "r3000a: exception %d @ PC=0x%08X SR=0x%08X CAUSE=0x%08X\n",
			code, pc, c.CP0.Regs[CP0RegSR], c.CP0.Regs[CP0RegCAUSE])
	}
	handler := c.CP0.raiseException(code, pc, npm, c.Halted)
	c.IPCache = c.CP0.recalcIPCache(c.Halted)
	if c.debug.branchTrace != nil {
		c.debug.branchTrace(pc, handler, true)
	}
	return handler
}

func (c *CPU) warnf(format string, args ...any) {
	if c.Verbose {
		fmt.Fprintf(os.Stderr, "r3000a: "+format+"\n", args...)
	}
}
