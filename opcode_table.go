// opcode_table.go - assembles the 256-entry dispatch table (spec §4.6
// step 5). Indices 0x00-0x3F hold the SPECIAL function-field handlers,
// 0x40-0x7F the major-opcode handlers, and 0x80-0xFF mirror the first
// half for IPCache-set dispatch, redirecting everything to the
// INTERRUPT pseudo-opcode except indices 0x80 and 0xD2, which keep their
// unmirrored SLL/NOP and COP2 handlers so a pending interrupt never
// clobbers an in-flight GTE transfer or corrupts a deliberate NOP spin.

package r3000a

func (c *CPU) buildOpcodeTable() {
	t := &c.opcodeTable

	for i := range t {
		t[i] = opILL
	}

	// SPECIAL (major opcode 0): dispatched by function field, 0x00-0x3F.
	t[0x00] = opSLL
	t[0x02] = opSRL
	t[0x03] = opSRA
	t[0x04] = opSLLV
	t[0x06] = opSRLV
	t[0x07] = opSRAV
	t[0x08] = opJR
	t[0x09] = opJALR
	t[0x0C] = opSYSCALL
	t[0x0D] = opBREAK
	t[0x10] = opMFHI
	t[0x11] = opMTHI
	t[0x12] = opMFLO
	t[0x13] = opMTLO
	t[0x18] = opMULT
	t[0x19] = opMULTU
	t[0x1A] = opDIV
	t[0x1B] = opDIVU
	t[0x20] = opADD
	t[0x21] = opADDU
	t[0x22] = opSUB
	t[0x23] = opSUBU
	t[0x24] = opAND
	t[0x25] = opOR
	t[0x26] = opXOR
	t[0x27] = opNOR
	t[0x2A] = opSLT
	t[0x2B] = opSLTU

	// Major opcodes, 0x40 | opcode.
	t[0x40|0x01] = opBCOND
	t[0x40|0x02] = opJ
	t[0x40|0x03] = opJAL
	t[0x40|0x04] = opBEQ
	t[0x40|0x05] = opBNE
	t[0x40|0x06] = opBLEZ
	t[0x40|0x07] = opBGTZ
	t[0x40|0x08] = opADDI
	t[0x40|0x09] = opADDIU
	t[0x40|0x0A] = opSLTI
	t[0x40|0x0B] = opSLTIU
	t[0x40|0x0C] = opANDI
	t[0x40|0x0D] = opORI
	t[0x40|0x0E] = opXORI
	t[0x40|0x0F] = opLUI
	t[0x40|0x10] = opCOP0
	t[0x40|0x11] = opCOP1
	t[0x40|0x12] = opCOP2
	t[0x40|0x13] = opCOP3
	t[0x40|0x20] = opLB
	t[0x40|0x21] = opLH
	t[0x40|0x22] = opLWL
	t[0x40|0x23] = opLW
	t[0x40|0x24] = opLBU
	t[0x40|0x25] = opLHU
	t[0x40|0x26] = opLWR
	t[0x40|0x28] = opSB
	t[0x40|0x29] = opSH
	t[0x40|0x2A] = opSWL
	t[0x40|0x2B] = opSW
	t[0x40|0x2E] = opSWR
	t[0x40|0x30] = opLWCUnusable
	t[0x40|0x31] = opLWCUnusable
	t[0x40|0x32] = opLWC2
	t[0x40|0x33] = opLWCUnusable
	t[0x40|0x38] = opSWCUnusable
	t[0x40|0x39] = opSWCUnusable
	t[0x40|0x3A] = opSWC2
	t[0x40|0x3B] = opSWC3RI

	// IPCache mirror: every dispatch with the interrupt-pending bit set
	// routes to INTERRUPT...
	for i := 0; i < 0x80; i++ {
		t[0x80|i] = opINTERRUPT
	}
	// ...except SLL/NOP and COP2, which must still run even with an
	// interrupt pending.
	t[0x80] = t[0x00]
	t[0xD2] = t[0x40|0x12]
}
