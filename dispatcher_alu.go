// dispatcher_alu.go - arithmetic, logic, shift and set-less-than opcodes
// (spec §4.7).

package r3000a

func rtype(instr uint32) (rs, rt, rd, shamt uint32) {
	rs = (instr >> 21) & 0x1F
	rt = (instr >> 16) & 0x1F
	rd = (instr >> 11) & 0x1F
	shamt = (instr >> 6) & 0x1F
	return
}

func itype(instr uint32) (rs, rt uint32, imm int32) {
	rs = (instr >> 21) & 0x1F
	rt = (instr >> 16) & 0x1F
	imm = int32(int16(instr & 0xFFFF))
	return
}

func itypeZE(instr uint32) (rs, rt, imm uint32) {
	rs = (instr >> 21) & 0x1F
	rt = (instr >> 16) & 0x1F
	imm = instr & 0xFFFF
	return
}

func opADD(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, rt, rd, _ := rtype(instr)
	c.ClearDependency(rs)
	c.ClearDependency(rt)
	c.ClearDependency(rd)

	a, b := c.GPR[rs], c.GPR[rt]
	result := a + b
	overflow := (^(a ^ b) & (a ^ result) & 0x80000000) != 0

	c.commitLoad()
	if overflow {
		c.NewPC = c.Exception(ExceptionOV, c.PC, c.NewPCMask)
		c.NewPCMask = 0
	} else {
		c.GPR[rd] = result
	}
	return false, 0
}

func opADDI(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, rt, imm := itype(instr)
	c.ClearDependency(rs)
	c.ClearDependency(rt)

	a := c.GPR[rs]
	b := uint32(imm)
	result := a + b
	overflow := (^(a ^ b) & (a ^ result) & 0x80000000) != 0

	c.commitLoad()
	if overflow {
		c.NewPC = c.Exception(ExceptionOV, c.PC, c.NewPCMask)
		c.NewPCMask = 0
	} else {
		c.GPR[rt] = result
	}
	return false, 0
}

func opADDIU(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, rt, imm := itype(instr)
	c.ClearDependency(rs)
	c.ClearDependency(rt)
	result := c.GPR[rs] + uint32(imm)
	c.commitLoad()
	c.GPR[rt] = result
	return false, 0
}

func opADDU(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, rt, rd, _ := rtype(instr)
	c.ClearDependency(rs)
	c.ClearDependency(rt)
	c.ClearDependency(rd)
	result := c.GPR[rs] + c.GPR[rt]
	c.commitLoad()
	c.GPR[rd] = result
	return false, 0
}

func opSUB(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, rt, rd, _ := rtype(instr)
	c.ClearDependency(rs)
	c.ClearDependency(rt)
	c.ClearDependency(rd)

	a, b := c.GPR[rs], c.GPR[rt]
	result := a - b
	underflow := ((a ^ b) & (a ^ result) & 0x80000000) != 0

	c.commitLoad()
	if underflow {
		c.NewPC = c.Exception(ExceptionOV, c.PC, c.NewPCMask)
		c.NewPCMask = 0
	} else {
		c.GPR[rd] = result
	}
	return false, 0
}

func opSUBU(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, rt, rd, _ := rtype(instr)
	c.ClearDependency(rs)
	c.ClearDependency(rt)
	c.ClearDependency(rd)
	result := c.GPR[rs] - c.GPR[rt]
	c.commitLoad()
	c.GPR[rd] = result
	return false, 0
}

func opAND(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, rt, rd, _ := rtype(instr)
	c.ClearDependency(rs)
	c.ClearDependency(rt)
	c.ClearDependency(rd)
	result := c.GPR[rs] & c.GPR[rt]
	c.commitLoad()
	c.GPR[rd] = result
	return false, 0
}

func opOR(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, rt, rd, _ := rtype(instr)
	c.ClearDependency(rs)
	c.ClearDependency(rt)
	c.ClearDependency(rd)
	result := c.GPR[rs] | c.GPR[rt]
	c.commitLoad()
	c.GPR[rd] = result
	return false, 0
}

func opXOR(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, rt, rd, _ := rtype(instr)
	c.ClearDependency(rs)
	c.ClearDependency(rt)
	c.ClearDependency(rd)
	result := c.GPR[rs] ^ c.GPR[rt]
	c.commitLoad()
	c.GPR[rd] = result
	return false, 0
}

func opNOR(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, rt, rd, _ := rtype(instr)
	c.ClearDependency(rs)
	c.ClearDependency(rt)
	c.ClearDependency(rd)
	result := ^(c.GPR[rs] | c.GPR[rt])
	c.commitLoad()
	c.GPR[rd] = result
	return false, 0
}

func opANDI(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, rt, imm := itypeZE(instr)
	c.ClearDependency(rs)
	c.ClearDependency(rt)
	result := c.GPR[rs] & imm
	c.commitLoad()
	c.GPR[rt] = result
	return false, 0
}

func opORI(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, rt, imm := itypeZE(instr)
	c.ClearDependency(rs)
	c.ClearDependency(rt)
	result := c.GPR[rs] | imm
	c.commitLoad()
	c.GPR[rt] = result
	return false, 0
}

func opXORI(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, rt, imm := itypeZE(instr)
	c.ClearDependency(rs)
	c.ClearDependency(rt)
	result := c.GPR[rs] ^ imm
	c.commitLoad()
	c.GPR[rt] = result
	return false, 0
}

func opLUI(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	_, rt, imm := itypeZE(instr)
	c.ClearDependency(rt)
	c.commitLoad()
	c.GPR[rt] = imm << 16
	return false, 0
}

func opSLL(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	_, rt, rd, shamt := rtype(instr)
	c.ClearDependency(rt)
	c.ClearDependency(rd)
	result := c.GPR[rt] << shamt
	c.commitLoad()
	c.GPR[rd] = result
	return false, 0
}

func opSRL(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	_, rt, rd, shamt := rtype(instr)
	c.ClearDependency(rt)
	c.ClearDependency(rd)
	result := c.GPR[rt] >> shamt
	c.commitLoad()
	c.GPR[rd] = result
	return false, 0
}

func opSRA(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	_, rt, rd, shamt := rtype(instr)
	c.ClearDependency(rt)
	c.ClearDependency(rd)
	result := uint32(int32(c.GPR[rt]) >> shamt)
	c.commitLoad()
	c.GPR[rd] = result
	return false, 0
}

func opSLLV(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, rt, rd, _ := rtype(instr)
	c.ClearDependency(rs)
	c.ClearDependency(rt)
	c.ClearDependency(rd)
	result := c.GPR[rt] << (c.GPR[rs] & 0x1F)
	c.commitLoad()
	c.GPR[rd] = result
	return false, 0
}

func opSRLV(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, rt, rd, _ := rtype(instr)
	c.ClearDependency(rs)
	c.ClearDependency(rt)
	c.ClearDependency(rd)
	result := c.GPR[rt] >> (c.GPR[rs] & 0x1F)
	c.commitLoad()
	c.GPR[rd] = result
	return false, 0
}

func opSRAV(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, rt, rd, _ := rtype(instr)
	c.ClearDependency(rs)
	c.ClearDependency(rt)
	c.ClearDependency(rd)
	result := uint32(int32(c.GPR[rt]) >> (c.GPR[rs] & 0x1F))
	c.commitLoad()
	c.GPR[rd] = result
	return false, 0
}

func opSLT(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, rt, rd, _ := rtype(instr)
	c.ClearDependency(rs)
	c.ClearDependency(rt)
	c.ClearDependency(rd)
	var result uint32
	if int32(c.GPR[rs]) < int32(c.GPR[rt]) {
		result = 1
	}
	c.commitLoad()
	c.GPR[rd] = result
	return false, 0
}

func opSLTU(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, rt, rd, _ := rtype(instr)
	c.ClearDependency(rs)
	c.ClearDependency(rt)
	c.ClearDependency(rd)
	var result uint32
	if c.GPR[rs] < c.GPR[rt] {
		result = 1
	}
	c.commitLoad()
	c.GPR[rd] = result
	return false, 0
}

func opSLTI(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, rt, imm := itype(instr)
	c.ClearDependency(rs)
	c.ClearDependency(rt)
	var result uint32
	if int32(c.GPR[rs]) < imm {
		result = 1
	}
	c.commitLoad()
	c.GPR[rt] = result
	return false, 0
}

func opSLTIU(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	rs, rt, imm := itype(instr)
	c.ClearDependency(rs)
	c.ClearDependency(rt)
	var result uint32
	if c.GPR[rs] < uint32(imm) {
		result = 1
	}
	c.commitLoad()
	c.GPR[rt] = result
	return false, 0
}

func opILL(c *CPU, instr uint32, ts *int32) (bool, uint32) {
	c.warnf("illegal opcode 0x%08X @ PC=0x%08X", instr, c.PC)
	c.commitLoad()
	c.NewPC = c.Exception(ExceptionRI, c.PC, c.NewPCMask)
	c.NewPCMask = 0
	return false, 0
}
