// dispatcher_branch.go - jump and branch opcodes (spec §4.7).

package r3000a

func jtype(instr uint32) uint32 {
	return instr & ((1 << 26) - 1)
}

func opJ(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	target := jtype(instr)
	c.commitLoad()
	from := c.doBranch(target<<2, 0xF0000000)
	return true, from
}

func opJAL(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	target := jtype(instr)
	c.ClearDependency(31)
	c.commitLoad()
	c.GPR[31] = c.PC + 8
	from := c.doBranch(target<<2, 0xF0000000)
	return true, from
}

func opJALR(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, _, rd, _ := rtype(instr)
	c.ClearDependency(rs)
	c.ClearDependency(rd)
	tmp := c.GPR[rs]
	c.commitLoad()
	c.GPR[rd] = c.PC + 8
	from := c.doBranch(tmp, 0)
	return true, from
}

func opJR(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, _, rd, _ := rtype(instr)
	c.ClearDependency(rs)
	c.ClearDependency(rd)
	bt := c.GPR[rs]
	c.commitLoad()
	from := c.doBranch(bt, 0)
	return true, from
}

func opBEQ(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, rt, imm := itype(instr)
	c.ClearDependency(rs)
	c.ClearDependency(rt)
	taken := c.GPR[rs] == c.GPR[rt]
	c.commitLoad()
	if taken {
		from := c.doBranch(uint32(imm<<2), ^uint32(0))
		return true, from
	}
	return false, 0
}

func opBNE(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, rt, imm := itype(instr)
	c.ClearDependency(rs)
	c.ClearDependency(rt)
	taken := c.GPR[rs] != c.GPR[rt]
	c.commitLoad()
	if taken {
		from := c.doBranch(uint32(imm<<2), ^uint32(0))
		return true, from
	}
	return false, 0
}

func opBGTZ(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, _, imm := itype(instr)
	c.ClearDependency(rs)
	taken := int32(c.GPR[rs]) > 0
	c.commitLoad()
	if taken {
		from := c.doBranch(uint32(imm<<2), ^uint32(0))
		return true, from
	}
	return false, 0
}

func opBLEZ(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, _, imm := itype(instr)
	c.ClearDependency(rs)
	taken := int32(c.GPR[rs]) <= 0
	c.commitLoad()
	if taken {
		from := c.doBranch(uint32(imm<<2), ^uint32(0))
		return true, from
	}
	return false, 0
}

// opBCOND handles BGEZ/BGEZAL/BLTZ/BLTZAL: the rt field is not a
// register but a 5-bit condition/link selector (spec §4.7).
func opBCOND(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs := (instr >> 21) & 0x1F
	riv := (instr >> 16) & 0x1F
	imm := int32(int16(instr & 0xFFFF))

	tv := c.GPR[rs]
	taken := int32(tv^(riv<<31)) < 0

	c.ClearDependency(rs)
	if riv&0x10 != 0 {
		c.ClearDependency(31)
	}

	c.commitLoad()

	if riv&0x10 != 0 {
		c.GPR[31] = c.PC + 8
	}

	if taken {
		from := c.doBranch(uint32(imm<<2), ^uint32(0))
		return true, from
	}
	return false, 0
}
