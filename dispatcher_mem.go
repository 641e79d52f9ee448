// dispatcher_mem.go - load/store opcodes and the shared memory-access
// helpers they route through (spec §4.2, §4.7; SPEC_FULL read-fudge and
// 24-bit transfer notes).

package r3000a

// readMemory implements the ReadMemory<T> template from the original
// interpreter: size is 1, 2, or 4 bytes; ds24 selects the 24-bit load
// variant LWL/LWR use; lwcTiming shaves one cycle off the post-read
// latency bump for LWC2 transfers. It always clears the current
// read-absorb slot first (a new access invalidates whatever credit was
// pending) and leaves LDAbsorb set to the latency the caller should
// attach to its pending delayed load.
func (c *CPU) readMemory(ts *int32, addr uint32, size int, ds24 bool, lwcTiming bool) uint32 {
	c.ReadAbsorb[c.ReadAbsorbWhich] = 0
	c.ReadAbsorbWhich = 0

	phys := decodeAddress(addr)

	if inScratchpadRange(phys) {
		c.LDAbsorb = 0
		switch {
		case ds24:
			return c.Scratch.Read24(phys)
		case size == 1:
			return uint32(c.Scratch.Read8(phys))
		case size == 2:
			return uint32(c.Scratch.Read16(phys))
		default:
			return c.Scratch.Read32(phys)
		}
	}

	*ts += int32((c.ReadFudge >> 4) & 2)

	lts := *ts
	var ret uint32
	switch {
	case size == 1:
		ret = uint32(c.bus.MemRead8(&lts, phys))
	case size == 2:
		ret = uint32(c.bus.MemRead16(&lts, phys))
	case ds24:
		ret = c.bus.MemRead24(&lts, phys) & 0xFFFFFF
	default:
		ret = c.bus.MemRead32(&lts, phys)
	}

	if lwcTiming {
		lts++
	} else {
		lts += 2
	}

	c.LDAbsorb = uint8(lts - *ts)
	*ts = lts
	return ret
}

// writeMemory implements the WriteMemory<T> template, including the IsC
// diversion to the I-cache/scratchpad described in spec §4.3.
func (c *CPU) writeMemory(addr uint32, value uint32, size int, ds24 bool) {
	if c.CP0.Regs[CP0RegSR]&srIsC == 0 {
		phys := decodeAddress(addr)

		if inScratchpadRange(phys) {
			switch {
			case ds24:
				c.Scratch.Write24(phys, value)
			case size == 1:
				c.Scratch.Write8(phys, uint8(value))
			case size == 2:
				c.Scratch.Write16(phys, uint16(value))
			default:
				c.Scratch.Write32(phys, value)
			}
			return
		}

		var ts int32
		switch {
		case size == 1:
			c.bus.MemWrite8(&ts, phys, uint8(value))
		case size == 2:
			c.bus.MemWrite16(&ts, phys, uint16(value))
		case ds24:
			c.bus.MemWrite24(&ts, phys, value)
		default:
			c.bus.MemWrite32(&ts, phys, value)
		}
		return
	}

	if c.BIU&biuICacheEnable != 0 {
		if c.BIU&biuTagTest != 0 {
			c.ICache.tagTestInvalidate(addr)
		} else if c.BIU&biuLock == 0 {
			c.ICache.directWrite(addr, value)
		}
	}

	if c.BIU&(biuDCacheEnable|biuLock) == biuDCacheEnable {
		phys := addr & 0x3FF
		switch {
		case ds24:
			c.Scratch.Write24(phys, value)
		case size == 1:
			c.Scratch.Write8(phys, uint8(value))
		case size == 2:
			c.Scratch.Write16(phys, uint16(value))
		default:
			c.Scratch.Write32(phys, value)
		}
	}
}

func opLB(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, rt, imm := itype(instr)
	c.ClearDependency(rs)
	addr := c.GPR[rs] + uint32(imm)
	v := int32(int8(c.readMemory(ts, addr, 1, false, false)))
	c.commitLoad()
	c.LDWhich = rt
	c.LDValue = uint32(v)
	return false, 0
}

func opLBU(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, rt, imm := itype(instr)
	c.ClearDependency(rs)
	addr := c.GPR[rs] + uint32(imm)
	v := c.readMemory(ts, addr, 1, false, false)
	c.commitLoad()
	c.LDWhich = rt
	c.LDValue = v
	return false, 0
}

func opLH(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, rt, imm := itype(instr)
	c.ClearDependency(rs)
	addr := c.GPR[rs] + uint32(imm)
	if addr&1 != 0 {
		c.commitLoad()
		c.NewPC = c.Exception(ExceptionADEL, c.PC, c.NewPCMask)
		c.NewPCMask = 0
		return false, 0
	}
	v := int32(int16(c.readMemory(ts, addr, 2, false, false)))
	c.commitLoad()
	c.LDWhich = rt
	c.LDValue = uint32(v)
	return false, 0
}

func opLHU(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, rt, imm := itype(instr)
	c.ClearDependency(rs)
	addr := c.GPR[rs] + uint32(imm)
	if addr&1 != 0 {
		c.commitLoad()
		c.NewPC = c.Exception(ExceptionADEL, c.PC, c.NewPCMask)
		c.NewPCMask = 0
		return false, 0
	}
	v := c.readMemory(ts, addr, 2, false, false)
	c.commitLoad()
	c.LDWhich = rt
	c.LDValue = v
	return false, 0
}

func opLW(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, rt, imm := itype(instr)
	c.ClearDependency(rs)
	addr := c.GPR[rs] + uint32(imm)
	if addr&3 != 0 {
		c.commitLoad()
		c.NewPC = c.Exception(ExceptionADEL, c.PC, c.NewPCMask)
		c.NewPCMask = 0
		return false, 0
	}
	v := c.readMemory(ts, addr, 4, false, false)
	c.commitLoad()
	c.LDWhich = rt
	c.LDValue = v
	return false, 0
}

func opSB(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, rt, imm := itype(instr)
	c.ClearDependency(rs)
	c.ClearDependency(rt)
	addr := c.GPR[rs] + uint32(imm)
	c.writeMemory(addr, c.GPR[rt], 1, false)
	c.commitLoad()
	return false, 0
}

func opSH(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, rt, imm := itype(instr)
	c.ClearDependency(rs)
	c.ClearDependency(rt)
	addr := c.GPR[rs] + uint32(imm)
	if addr&1 != 0 {
		c.commitLoad()
		c.NewPC = c.Exception(ExceptionADES, c.PC, c.NewPCMask)
		c.NewPCMask = 0
		return false, 0
	}
	c.writeMemory(addr, c.GPR[rt], 2, false)
	c.commitLoad()
	return false, 0
}

func opSW(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, rt, imm := itype(instr)
	c.ClearDependency(rs)
	c.ClearDependency(rt)
	addr := c.GPR[rs] + uint32(imm)
	if addr&3 != 0 {
		c.commitLoad()
		c.NewPC = c.Exception(ExceptionADES, c.PC, c.NewPCMask)
		c.NewPCMask = 0
		return false, 0
	}
	c.writeMemory(addr, c.GPR[rt], 4, false)
	c.commitLoad()
	return false, 0
}

// opLWL merges with the pending load's value when it targets the same
// register, letting a following LWR in a pair fuse without an
// intervening instruction (spec §4.7).
func opLWL(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, rt, imm := itype(instr)
	c.ClearDependency(rs)

	addr := c.GPR[rs] + uint32(imm)
	v := c.GPR[rt]
	if c.LDWhich == rt {
		v = c.LDValue
		c.ReadFudge = 0
	} else {
		c.commitLoad()
	}

	c.LDWhich = rt
	switch addr & 3 {
	case 0:
		c.LDValue = (v &^ (0xFF << 24)) | (c.readMemory(ts, addr&^3, 1, false, false) << 24)
	case 1:
		c.LDValue = (v &^ (0xFFFF << 16)) | (c.readMemory(ts, addr&^3, 2, false, false) << 16)
	case 2:
		c.LDValue = (v &^ (0xFFFFFF << 8)) | (c.readMemory(ts, addr&^3, 4, true, false) << 8)
	case 3:
		c.LDValue = c.readMemory(ts, addr&^3, 4, false, false)
	}
	return false, 0
}

func opLWR(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, rt, imm := itype(instr)
	c.ClearDependency(rs)

	addr := c.GPR[rs] + uint32(imm)
	v := c.GPR[rt]
	if c.LDWhich == rt {
		v = c.LDValue
		c.ReadFudge = 0
	} else {
		c.commitLoad()
	}

	c.LDWhich = rt
	switch addr & 3 {
	case 0:
		c.LDValue = c.readMemory(ts, addr, 4, false, false)
	case 1:
		c.LDValue = (v &^ 0xFFFFFF) | c.readMemory(ts, addr, 4, true, false)
	case 2:
		c.LDValue = (v &^ 0xFFFF) | c.readMemory(ts, addr, 2, false, false)
	case 3:
		c.LDValue = (v &^ 0xFF) | c.readMemory(ts, addr, 1, false, false)
	}
	return false, 0
}

func opSWL(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, rt, imm := itype(instr)
	c.ClearDependency(rs)
	c.ClearDependency(rt)
	addr := c.GPR[rs] + uint32(imm)
	switch addr & 3 {
	case 0:
		c.writeMemory(addr&^3, c.GPR[rt]>>24, 1, false)
	case 1:
		c.writeMemory(addr&^3, c.GPR[rt]>>16, 2, false)
	case 2:
		c.writeMemory(addr&^3, c.GPR[rt]>>8, 4, true)
	case 3:
		c.writeMemory(addr&^3, c.GPR[rt], 4, false)
	}
	c.commitLoad()
	return false, 0
}

func opSWR(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, rt, imm := itype(instr)
	c.ClearDependency(rs)
	c.ClearDependency(rt)
	addr := c.GPR[rs] + uint32(imm)
	switch addr & 3 {
	case 0:
		c.writeMemory(addr, c.GPR[rt], 4, false)
	case 1:
		c.writeMemory(addr, c.GPR[rt], 4, true)
	case 2:
		c.writeMemory(addr, c.GPR[rt], 2, false)
	case 3:
		c.writeMemory(addr, c.GPR[rt], 1, false)
	}
	c.commitLoad()
	return false, 0
}

// opLWC2 commits any pending load before checking alignment (matching
// the original's DO_LDS()-then-check ordering), then transfers directly
// into the GTE's data register -- this path never goes through the
// delayed-load slot itself since the destination isn't a GPR.
func opLWC2(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, rt, imm := itype(instr)
	c.ClearDependency(rs)
	addr := c.GPR[rs] + uint32(imm)
	c.commitLoad()
	if addr&3 != 0 {
		c.NewPC = c.Exception(ExceptionADEL, c.PC, c.NewPCMask)
		c.NewPCMask = 0
		return false, 0
	}
	if *ts < c.GTETSDone {
		*ts = c.GTETSDone
	}
	v := c.readMemory(ts, addr, 4, false, true)
	if c.gte != nil {
		c.gte.WriteDR(rt, v)
	}
	return false, 0
}

// opSWC2, unlike opLWC2, checks alignment before committing any pending
// load, in the same order SH and SW use: a misaligned address commits
// the load and raises EXCEPTION_ADES; an aligned one stalls on the GTE,
// stores, then commits.
func opSWC2(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, rt, imm := itype(instr)
	c.ClearDependency(rs)
	addr := c.GPR[rs] + uint32(imm)
	if addr&3 != 0 {
		c.commitLoad()
		c.NewPC = c.Exception(ExceptionADES, c.PC, c.NewPCMask)
		c.NewPCMask = 0
		return false, 0
	}
	if *ts < c.GTETSDone {
		*ts = c.GTETSDone
	}
	var v uint32
	if c.gte != nil {
		v = c.gte.ReadDR(rt)
	}
	c.writeMemory(addr, v, 4, false)
	c.commitLoad()
	return false, 0
}

// opLWCUnusable and opSWCUnusable cover LWC0/1/3 and SWC0/1 (coprocessors
// this core never implements); opSWC3RI covers SWC3 (reserved-instruction
// per spec §4.7, distinct from the other coprocessor-unusable traps).
func opLWCUnusable(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	c.commitLoad()
	c.NewPC = c.Exception(ExceptionCOPU, c.PC, c.NewPCMask)
	c.NewPCMask = 0
	return false, 0
}

func opSWCUnusable(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	c.commitLoad()
	c.NewPC = c.Exception(ExceptionCOPU, c.PC, c.NewPCMask)
	c.NewPCMask = 0
	return false, 0
}

func opSWC3RI(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	c.commitLoad()
	c.NewPC = c.Exception(ExceptionRI, c.PC, c.NewPCMask)
	c.NewPCMask = 0
	return false, 0
}
