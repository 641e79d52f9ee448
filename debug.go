// debug.go - DebugInterface (spec §4.8): the per-instruction hook, the
// branch-trace hook, the memory-touch breakpoint classifier, and an
// I-cache peek for external tooling.

package r3000a

// InstrHookFunc is called before every instruction RunDebug executes.
type InstrHookFunc func(ts int32, pc uint32)

// BranchTraceFunc is called whenever a branch/jump/exception changes
// control flow, reporting the instruction it branched from, the target,
// and whether the transfer was an exception vector jump.
type BranchTraceFunc func(from, to uint32, exception bool)

// BreakpointCallback receives one memory touch a breakpoint-checked
// instruction would perform: whether it's a write, the byte address, and
// the access length in bytes. LWL/SWL/LWR/SWR report one callback per
// byte they touch, walking in the same direction the real access does.
type BreakpointCallback func(write bool, address uint32, length uint)

// BIOSPrintFunc receives one character written through the BIOS
// character-output trap the Dispatcher watches for at PC 0xB0 with
// GPR[9] == 0x3D (spec §4.6 step 3).
type BIOSPrintFunc func(ch byte)

type debugState struct {
	instrHook   InstrHookFunc
	branchTrace BranchTraceFunc
	biosPrint   BIOSPrintFunc
}

// SetCPUHook installs (or clears, passing nil) the per-instruction and
// branch-trace hooks. Installing either hook routes subsequent Run calls
// through RunDebug instead of RunFast; see RunDriver.
func (c *CPU) SetCPUHook(instrHook InstrHookFunc, branchTrace BranchTraceFunc) {
	c.debug.instrHook = instrHook
	c.debug.branchTrace = branchTrace
}

// SetBIOSPrintHook installs the BIOS character-output trap callback.
func (c *CPU) SetBIOSPrintHook(hook BIOSPrintFunc) {
	c.debug.biosPrint = hook
}

// PeekCheckICache reports the instruction word resident at pc in the
// I-cache without side effects, and whether it was resident at all.
func (c *CPU) PeekCheckICache(pc uint32) (uint32, bool) {
	return c.ICache.peek(pc)
}

// PeekMem8/16/32 read the bus without advancing the timestamp or
// triggering side effects, for debugger memory views.
func (c *CPU) PeekMem8(addr uint32) uint8 {
	phys := decodeAddress(addr)
	if inScratchpadRange(phys) {
		return c.Scratch.Read8(phys)
	}
	return c.bus.MemPeek8(phys)
}

func (c *CPU) PeekMem16(addr uint32) uint16 {
	phys := decodeAddress(addr)
	if inScratchpadRange(phys) {
		return c.Scratch.Read16(phys)
	}
	return c.bus.MemPeek16(phys)
}

func (c *CPU) PeekMem32(addr uint32) uint32 {
	phys := decodeAddress(addr)
	if inScratchpadRange(phys) {
		return c.Scratch.Read32(phys)
	}
	return c.bus.MemPeek32(phys)
}

// CheckBreakpoints decodes instr the same way the Dispatcher's
// dispatchIndex does, without IPCache, and reports every memory access it
// would perform to callback. LWL/LWR/SWL/SWR walk byte-by-byte in the
// same descending/ascending order the real opcode handler's unaligned
// fixup does, so a breakpoint landing on any byte of a partial transfer
// is caught even though the opcode itself only issues one bus access.
func (c *CPU) CheckBreakpoints(callback BreakpointCallback, instr uint32) {
	rs, _, imm := itype(instr)
	opf := instr & 0x3F
	if instr&(0x3F<<26) != 0 {
		opf = 0x40 | (instr >> 26)
	}

	addr := c.GPR[rs] + uint32(imm)

	switch opf {
	case 0x40 | 0x20: // LB
		callback(false, addr, 1)
	case 0x40 | 0x24: // LBU
		callback(false, addr, 1)
	case 0x40 | 0x21: // LH
		callback(false, addr, 2)
	case 0x40 | 0x25: // LHU
		callback(false, addr, 2)
	case 0x40 | 0x23: // LW
		callback(false, addr, 4)
	case 0x40 | 0x28: // SB
		callback(true, addr, 1)
	case 0x40 | 0x29: // SH
		callback(true, addr, 2)
	case 0x40 | 0x2B: // SW
		callback(true, addr, 4)
	case 0x40 | 0x32: // LWC2
		callback(false, addr, 4)
	case 0x40 | 0x3A: // SWC2
		callback(true, addr, 4)
	case 0x40 | 0x22: // LWL
		for {
			callback(false, addr, 1)
			if addr&3 == 0 {
				break
			}
			addr--
		}
	case 0x40 | 0x2A: // SWL
		for {
			callback(true, addr, 1)
			if addr&3 == 0 {
				break
			}
			addr--
		}
	case 0x40 | 0x26: // LWR
		for {
			callback(false, addr, 1)
			addr++
			if addr&3 == 0 {
				break
			}
		}
	case 0x40 | 0x2E: // SWR
		for {
			callback(true, addr, 1)
			addr++
			if addr&3 == 0 {
				break
			}
		}
	}
}
