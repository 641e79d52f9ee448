// dispatcher_cop.go - coprocessor, multiply/divide and trap opcodes
// (spec §4.4, §4.7).

package r3000a

func opCOP0(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	subOp := (instr >> 21) & 0x1F
	if subOp&0x10 != 0 {
		subOp = 0x10 + (instr & 0x3F)
	}

	switch subOp {
	case 0x00: // MFC0
		rt := (instr >> 16) & 0x1F
		rd := (instr >> 11) & 0x1F
		c.commitLoad()
		c.LDAbsorb = 0
		c.LDWhich = rt
		c.LDValue = c.CP0.MFC0(rd)

	case 0x04: // MTC0
		rt := (instr >> 16) & 0x1F
		rd := (instr >> 11) & 0x1F
		val := c.GPR[rt]
		if rd != CP0RegPRID && rd != CP0RegCAUSE && rd != CP0RegSR && val != 0 {
			c.warnf("unimplemented MTC0: rt=%d(%08X) -> rd=%d", rt, val, rd)
		}
		if c.CP0.MTC0(rd, val) {
			c.IPCache = c.CP0.recalcIPCache(c.Halted)
		}
		c.commitLoad()

	case 0x20: // RFE
		c.commitLoad()
		c.CP0.RFE()
		c.IPCache = c.CP0.recalcIPCache(c.Halted)

	default:
		c.commitLoad()
	}
	return false, 0
}

func opCOP1(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	c.commitLoad()
	c.NewPC = c.Exception(ExceptionCOPU, c.PC, c.NewPCMask)
	c.NewPCMask = 0
	return false, 0
}

func opCOP2(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	subOp := (instr >> 21) & 0x1F
	rt := (instr >> 16) & 0x1F
	rd := (instr >> 11) & 0x1F

	switch {
	case subOp == 0x00: // MFC2
		c.commitLoad()
		if *ts < c.GTETSDone {
			c.LDAbsorb = uint8(c.GTETSDone - *ts)
			*ts = c.GTETSDone
		} else {
			c.LDAbsorb = 0
		}
		c.LDWhich = rt
		if c.gte != nil {
			c.LDValue = c.gte.ReadDR(rd)
		}

	case subOp == 0x04: // MTC2
		if *ts < c.GTETSDone {
			*ts = c.GTETSDone
		}
		if c.gte != nil {
			c.gte.WriteDR(rd, c.GPR[rt])
		}
		c.commitLoad()

	case subOp == 0x02: // CFC2
		c.commitLoad()
		if *ts < c.GTETSDone {
			c.LDAbsorb = uint8(c.GTETSDone - *ts)
			*ts = c.GTETSDone
		} else {
			c.LDAbsorb = 0
		}
		c.LDWhich = rt
		if c.gte != nil {
			c.LDValue = c.gte.ReadCR(rd)
		}

	case subOp == 0x06: // CTC2
		if *ts < c.GTETSDone {
			*ts = c.GTETSDone
		}
		if c.gte != nil {
			c.gte.WriteCR(rd, c.GPR[rt])
		}
		c.commitLoad()

	case subOp >= 0x10: // GTE instruction execution
		if *ts < c.GTETSDone {
			*ts = c.GTETSDone
		}
		if c.gte != nil {
			c.GTETSDone = *ts + c.gte.Instruction(instr)
		}
		c.commitLoad()

	default:
		c.commitLoad()
	}
	return false, 0
}

func opCOP3(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	c.commitLoad()
	c.NewPC = c.Exception(ExceptionCOPU, c.PC, c.NewPCMask)
	c.NewPCMask = 0
	return false, 0
}

func opSYSCALL(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	c.commitLoad()
	c.NewPC = c.Exception(ExceptionSYSCALL, c.PC, c.NewPCMask)
	c.NewPCMask = 0
	return false, 0
}

func opBREAK(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	c.warnf("BREAK @ PC=0x%08X", c.PC)
	c.commitLoad()
	c.NewPC = c.Exception(ExceptionBP, c.PC, c.NewPCMask)
	c.NewPCMask = 0
	return false, 0
}

// opINTERRUPT is the pseudo-opcode the Dispatcher routes to whenever
// IPCache is set (spec §4.6 step 5). While Halted it parks the pipeline
// untouched -- no committed load, no PC advance -- exactly as the
// original's SkipNPCStuff jump does; otherwise it raises EXCEPTION_INT.
func opINTERRUPT(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	if c.Halted {
		c.skipCommit = true
		return false, 0
	}
	c.commitLoad()
	c.NewPC = c.Exception(ExceptionINT, c.PC, c.NewPCMask)
	c.NewPCMask = 0
	return false, 0
}

func opMULT(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, rt, _, _ := rtype(instr)
	c.ClearDependency(rs)
	c.ClearDependency(rt)
	result := int64(int32(c.GPR[rs])) * int64(int32(c.GPR[rt]))
	c.MulDivTSDone = *ts + 7
	c.commitLoad()
	c.LO = uint32(result)
	c.HI = uint32(result >> 32)
	return false, 0
}

func opMULTU(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, rt, _, _ := rtype(instr)
	c.ClearDependency(rs)
	c.ClearDependency(rt)
	result := uint64(c.GPR[rs]) * uint64(c.GPR[rt])
	c.MulDivTSDone = *ts + 7
	c.commitLoad()
	c.LO = uint32(result)
	c.HI = uint32(result >> 32)
	return false, 0
}

func opDIV(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, rt, _, _ := rtype(instr)
	c.ClearDependency(rs)
	c.ClearDependency(rt)

	n, d := int32(c.GPR[rs]), int32(c.GPR[rt])
	switch {
	case d == 0:
		if n < 0 {
			c.LO = 1
		} else {
			c.LO = 0xFFFFFFFF
		}
		c.HI = uint32(n)
	case n == -0x80000000 && d == -1:
		c.LO = 0x80000000
		c.HI = 0
	default:
		c.LO = uint32(n / d)
		c.HI = uint32(n % d)
	}
	c.MulDivTSDone = *ts + 37
	c.commitLoad()
	return false, 0
}

func opDIVU(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, rt, _, _ := rtype(instr)
	c.ClearDependency(rs)
	c.ClearDependency(rt)

	n, d := c.GPR[rs], c.GPR[rt]
	if d == 0 {
		c.LO = 0xFFFFFFFF
		c.HI = n
	} else {
		c.LO = n / d
		c.HI = n % d
	}
	c.MulDivTSDone = *ts + 37
	c.commitLoad()
	return false, 0
}

// muldivStall burns cycles until *ts reaches MulDivTSDone, matching
// MFHI/MFLO's wait for an in-flight MULT/DIV. Unlike the main loop's
// readAbsorbStep (an if/else: either the credit is spent or *ts moves,
// never both), this loop drains ReadAbsorb[ReadAbsorbWhich] and
// advances *ts unconditionally and independently every iteration, so the
// credit drops by one per stalled cycle and only a balance larger than
// the cycles stalled here leaves a remainder for the next instruction's
// own readAbsorbStep.
func (c *CPU) muldivStall(ts *int32) {
	if *ts >= c.MulDivTSDone {
		return
	}
	if *ts == c.MulDivTSDone-1 {
		c.MulDivTSDone--
		return
	}
	for *ts < c.MulDivTSDone {
		if c.ReadAbsorb[c.ReadAbsorbWhich] != 0 {
			c.ReadAbsorb[c.ReadAbsorbWhich]--
		}
		*ts++
	}
}

func opMFHI(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	_, _, rd, _ := rtype(instr)
	c.ClearDependency(rd)
	c.commitLoad()
	c.muldivStall(ts)
	c.GPR[rd] = c.HI
	return false, 0
}

func opMFLO(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	_, _, rd, _ := rtype(instr)
	c.ClearDependency(rd)
	c.commitLoad()
	c.muldivStall(ts)
	c.GPR[rd] = c.LO
	return false, 0
}

func opMTHI(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, _, _, _ := rtype(instr)
	c.ClearDependency(rs)
	c.HI = c.GPR[rs]
	c.commitLoad()
	return false, 0
}

func opMTLO(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, _, _, _ := rtype(instr)
	c.ClearDependency(rs)
	c.LO = c.GPR[rs]
	c.commitLoad()
	return false, 0
}
