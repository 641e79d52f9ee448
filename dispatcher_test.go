package r3000a

import (
	"encoding/binary"
	"testing"
)

// ramBus is a flat little-endian RAM backing used by every CPU-level
// test in this package; it never advances *ts, keeping test timing math
// free of bus-latency noise beyond what the core itself adds.
type ramBus struct {
	mem [0x10000]byte
}

func (b *ramBus) MemRead8(ts *int32, addr uint32) uint8  { return b.mem[addr&0xFFFF] }
func (b *ramBus) MemRead16(ts *int32, addr uint32) uint16 {
	return binary.LittleEndian.Uint16(b.mem[addr&0xFFFF:])
}
func (b *ramBus) MemRead24(ts *int32, addr uint32) uint32 {
	a := addr & 0xFFFF
	return uint32(b.mem[a]) | uint32(b.mem[a+1])<<8 | uint32(b.mem[a+2])<<16
}
func (b *ramBus) MemRead32(ts *int32, addr uint32) uint32 {
	return binary.LittleEndian.Uint32(b.mem[addr&0xFFFF:])
}
func (b *ramBus) MemWrite8(ts *int32, addr uint32, v uint8) { b.mem[addr&0xFFFF] = v }
func (b *ramBus) MemWrite16(ts *int32, addr uint32, v uint16) {
	binary.LittleEndian.PutUint16(b.mem[addr&0xFFFF:], v)
}
func (b *ramBus) MemWrite24(ts *int32, addr uint32, v uint32) {
	a := addr & 0xFFFF
	b.mem[a], b.mem[a+1], b.mem[a+2] = byte(v), byte(v>>8), byte(v>>16)
}
func (b *ramBus) MemWrite32(ts *int32, addr uint32, v uint32) {
	binary.LittleEndian.PutUint32(b.mem[addr&0xFFFF:], v)
}
func (b *ramBus) MemPeek8(addr uint32) uint8   { return b.mem[addr&0xFFFF] }
func (b *ramBus) MemPeek16(addr uint32) uint16 { return binary.LittleEndian.Uint16(b.mem[addr&0xFFFF:]) }
func (b *ramBus) MemPeek32(addr uint32) uint32 { return binary.LittleEndian.Uint32(b.mem[addr&0xFFFF:]) }

type stubGTE struct {
	dr, cr   [32]uint32
	cycles   int32
	powerHit int
}

func (g *stubGTE) Instruction(instr uint32) int32 { return g.cycles }
func (g *stubGTE) ReadDR(n uint32) uint32         { return g.dr[n&0x1F] }
func (g *stubGTE) WriteDR(n uint32, v uint32)     { g.dr[n&0x1F] = v }
func (g *stubGTE) ReadCR(n uint32) uint32         { return g.cr[n&0x1F] }
func (g *stubGTE) WriteCR(n uint32, v uint32)     { g.cr[n&0x1F] = v }
func (g *stubGTE) Power()                         { g.powerHit++ }
func (g *stubGTE) StateAction() []byte            { return []byte{1, 2, 3} }
func (g *stubGTE) RestoreState(blob []byte)       {}

// testRig wires a CPU to a RAM bus whose backing array also serves as
// the FastMap's KUSEG/KSEG0/KSEG1 region, and disables the I-cache so
// instruction fetches always reflect whatever the test just poked into
// RAM.
type testRig struct {
	cpu *CPU
	bus *ramBus
	gte *stubGTE
}

func newTestRig() *testRig {
	bus := &ramBus{}
	gte := &stubGTE{}
	cpu := NewCPU(bus, gte)
	cpu.Power()
	cpu.Fast.SetRegion(bus.mem[:], 0, uint32(len(bus.mem)))
	cpu.SetBIU(0) // I-cache disabled: fetch goes straight through FastMap
	return &testRig{cpu: cpu, bus: bus, gte: gte}
}

func rtypeInstr(op, rs, rt, rd, shamt, funct uint32) uint32 {
	return op<<26 | rs<<21 | rt<<16 | rd<<11 | shamt<<6 | funct
}

func itypeInstr(op, rs, rt uint32, imm int32) uint32 {
	return op<<26 | rs<<21 | rt<<16 | (uint32(imm) & 0xFFFF)
}

func (r *testRig) putWord(addr uint32, w uint32) {
	binary.LittleEndian.PutUint32(r.bus.mem[addr&0xFFFF:], w)
}

// stepOne runs exactly one instruction boundary by bounding NextEventTS
// at ts+1; RunFast's loop condition (ts < NextEventTS) stops after the
// single instruction has executed since every opcode this suite issues
// advances ts by at least one cycle.
func (r *testRig) stepOne(ts int32) int32 {
	r.cpu.NextEventTS = ts + 1
	return r.cpu.RunFast(ts)
}

func TestColdBoot(t *testing.T) {
	rig := newTestRig()
	c := rig.cpu

	if c.PC != 0xBFC00000 {
		t.Fatalf("PC = 0x%08X, want 0xBFC00000", c.PC)
	}
	if c.CP0.Regs[CP0RegSR] != 0x00600000 {
		t.Fatalf("SR = 0x%08X, want 0x00600000", c.CP0.Regs[CP0RegSR])
	}
	if c.CP0.Regs[CP0RegPRID] != 2 {
		t.Fatalf("PRID = %d, want 2", c.CP0.Regs[CP0RegPRID])
	}
	for i, v := range c.GPR {
		if i == 32 {
			break // discard slot, not architectural
		}
		if v != 0 {
			t.Fatalf("GPR[%d] = 0x%08X, want 0", i, v)
		}
	}
	for i, e := range c.ICache.Entries {
		if e.TV&0x1 == 0 {
			t.Fatalf("ICache entry %d valid after power-on (BIU starts with I-cache disabled)", i)
		}
	}
}

func TestADDOverflow(t *testing.T) {
	rig := newTestRig()
	c := rig.cpu
	c.PC = 0x80001000
	c.CP0.Regs[CP0RegSR] &^= srBEV // RAM exception vector
	c.GPR[1] = 0x7FFFFFFF
	c.GPR[2] = 1
	c.GPR[3] = 0x55555555

	rig.putWord(0x80001000, rtypeInstr(0, 1, 2, 3, 0, 0x20)) // ADD r3, r1, r2

	rig.stepOne(0)

	if c.CP0.Regs[CP0RegEPC] != 0x80001000 {
		t.Fatalf("EPC = 0x%08X, want 0x80001000", c.CP0.Regs[CP0RegEPC])
	}
	if cause := (c.CP0.Regs[CP0RegCAUSE] >> 2) & 0x1F; cause != ExceptionOV {
		t.Fatalf("CAUSE exc code = %d, want %d", cause, ExceptionOV)
	}
	if c.PC != 0x80000080 {
		t.Fatalf("PC = 0x%08X, want 0x80000080 (BEV clear vector)", c.PC)
	}
	if c.GPR[3] != 0x55555555 {
		t.Fatalf("GPR[3] = 0x%08X, overflow must not commit the result", c.GPR[3])
	}
}

func TestBranchDelayException(t *testing.T) {
	rig := newTestRig()
	c := rig.cpu
	c.PC = 0x80001000
	c.CP0.Regs[CP0RegSR] &^= srBEV // RAM exception vector
	c.GPR[1] = 0x7FFFFFFF
	c.GPR[2] = 1

	rig.putWord(0x80001000, itypeInstr(0x04, 0, 0, 4)) // BEQ r0,r0,+4 (delay slot at +4)
	rig.putWord(0x80001004, rtypeInstr(0, 1, 2, 3, 0, 0x20)) // ADD r3,r1,r2 (overflows)

	ts := rig.stepOne(0)  // BEQ
	rig.stepOne(ts)        // delay-slot ADD, overflows

	if c.CP0.Regs[CP0RegEPC] != 0x80001000 {
		t.Fatalf("EPC = 0x%08X, want 0x80001000 (the branch itself)", c.CP0.Regs[CP0RegEPC])
	}
	if c.CP0.Regs[CP0RegCAUSE]&0x80000000 == 0 {
		t.Fatalf("CAUSE bit 31 (BD) not set")
	}
	if c.PC != 0x80000080 {
		t.Fatalf("PC = 0x%08X, want 0x80000080", c.PC)
	}
}

func TestLoadDelayVisibility(t *testing.T) {
	rig := newTestRig()
	c := rig.cpu
	c.PC = 0x80002000 // code kept clear of the data word at physical 0x1000
	c.GPR[2] = 0x1000
	c.GPR[1] = 0x99999999

	rig.putWord(0x1000, 0xDEADBEEF)
	rig.putWord(0x80002000, itypeInstr(0x23, 2, 1, 0))        // LW r1, 0(r2)
	rig.putWord(0x80002004, rtypeInstr(0, 1, 0, 3, 0, 0x21))  // ADDU r3, r1, r0
	rig.putWord(0x80002008, rtypeInstr(0, 1, 0, 4, 0, 0x21))  // ADDU r4, r1, r0

	ts := rig.stepOne(0)
	ts = rig.stepOne(ts)
	if c.GPR[3] != 0x99999999 {
		t.Fatalf("GPR[3] = 0x%08X, want the pre-load value 0x99999999", c.GPR[3])
	}
	rig.stepOne(ts)
	if c.GPR[4] != 0xDEADBEEF {
		t.Fatalf("GPR[4] = 0x%08X, want 0xDEADBEEF", c.GPR[4])
	}
}

func TestLWLLWRFusion(t *testing.T) {
	rig := newTestRig()
	c := rig.cpu
	c.PC = 0x80002000 // code kept clear of the data word at physical 0x1000
	c.GPR[1] = 0x12345678 // initial value must not matter
	c.GPR[0] = 0

	rig.putWord(0x1000, 0x11223344)
	rig.putWord(0x80002000, itypeInstr(0x22, 0, 1, 0x1003))   // LWL r1, 0x1003(r0)
	rig.putWord(0x80002004, itypeInstr(0x26, 0, 1, 0x1000))   // LWR r1, 0x1000(r0)
	rig.putWord(0x80002008, rtypeInstr(0, 0, 0, 0, 0, 0x00))  // SLL r0,r0,0 (commits the fused load)

	ts := rig.stepOne(0)
	ts = rig.stepOne(ts)
	rig.stepOne(ts)

	if c.GPR[1] != 0x11223344 {
		t.Fatalf("GPR[1] = 0x%08X, want 0x11223344", c.GPR[1])
	}
}

func TestDIVUByZeroAndMFLOStall(t *testing.T) {
	rig := newTestRig()
	c := rig.cpu
	c.PC = 0x80001000
	c.GPR[1] = 0x12345678
	c.GPR[2] = 0

	rig.putWord(0x80001000, rtypeInstr(0, 1, 2, 0, 0, 0x1B)) // DIVU r1, r2
	rig.putWord(0x80001004, rtypeInstr(0, 0, 0, 3, 0, 0x12)) // MFLO r3

	ts := rig.stepOne(0)
	if c.LO != 0xFFFFFFFF || c.HI != 0x12345678 {
		t.Fatalf("LO/HI = 0x%08X/0x%08X, want 0xFFFFFFFF/0x12345678", c.LO, c.HI)
	}

	before := ts
	after := rig.stepOne(before)
	if c.GPR[3] != 0xFFFFFFFF {
		t.Fatalf("GPR[3] = 0x%08X, want 0xFFFFFFFF", c.GPR[3])
	}
	// DIVU issues muldiv_ts_done = ts+37 at its own dispatch point (ts=5
	// here: tsIn=0, +4 fetch, +1 read-absorb); MFLO's fetch+absorb add
	// another 5 cycles before it starts waiting, so the full round trip
	// from DIVU's completion to MFLO's completion is 37 cycles.
	elapsed := after - before
	if elapsed != 37 {
		t.Fatalf("MFLO stall elapsed %d cycles, want 37", elapsed)
	}
}

func TestOpcodeTableIPCacheMirrorExceptions(t *testing.T) {
	var c CPU
	c.buildOpcodeTable()

	fnSLL := c.opcodeTable[0x00]
	fnAt80 := c.opcodeTable[0x80]
	if fnAt80 == nil {
		t.Fatalf("index 0x80 unset")
	}
	// Compare by invoking both against a NOP word and checking identical
	// no-op behaviour, since Go funcs aren't comparable across closures.
	var c1, c2 CPU
	c1.buildOpcodeTable()
	c2.buildOpcodeTable()
	c1.GPR[0] = 0
	c2.GPR[0] = 0
	var ts int32
	fnSLL(&c1, 0, &ts)
	fnAt80(&c2, 0, &ts)
	if c1.GPR != c2.GPR {
		t.Fatalf("index 0x80 does not behave like SLL/NOP (index 0x00)")
	}

	if c.opcodeTable[0xD2] == nil {
		t.Fatalf("index 0xD2 unset")
	}
}

func TestAssertIRQSetsIPCache(t *testing.T) {
	rig := newTestRig()
	c := rig.cpu
	c.CP0.Regs[CP0RegSR] |= srIEc
	c.CP0.Regs[CP0RegSR] |= 0x0400 // unmask IRQ line 0 (CAUSE bit 10)

	if c.IPCache != 0 {
		t.Fatalf("IPCache = 0x%X before any IRQ, want 0", c.IPCache)
	}
	c.AssertIRQ(0, true)
	if c.IPCache != 0x80 {
		t.Fatalf("IPCache = 0x%X after AssertIRQ, want 0x80", c.IPCache)
	}
	c.AssertIRQ(0, false)
	if c.IPCache != 0 {
		t.Fatalf("IPCache = 0x%X after clearing IRQ, want 0", c.IPCache)
	}
}
