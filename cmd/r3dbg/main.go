// Command r3dbg is a minimal interactive console for stepping an r3000a
// CPU core against a flat-RAM bus. It puts the terminal into raw mode the
// same way the teacher engine's TerminalHost does, reading one keypress
// at a time: 's' steps one instruction slice, 'r' dumps registers, 'q'
// quits. There is no disassembler here; this is a register/flow probe,
// not a full debugger front-end.
package main

import (
	"flag"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/term"

	"github.com/retrosys-emu/r3000a"
)

// flatBus is a RAM-only Bus: no BIOS, no devices, reads past the end of
// ram return 0xFF like a real unmapped region (spec §7's DummyPage
// behaviour).
type flatBus struct {
	ram []byte
}

func newFlatBus(size int) *flatBus {
	return &flatBus{ram: make([]byte, size)}
}

func (b *flatBus) at(addr uint32) int {
	a := int(addr) & 0x1FFFFF
	if a >= len(b.ram) {
		return -1
	}
	return a
}

func (b *flatBus) MemRead8(ts *int32, addr uint32) uint8 {
	if i := b.at(addr); i >= 0 {
		return b.ram[i]
	}
	return 0xFF
}

func (b *flatBus) MemRead16(ts *int32, addr uint32) uint16 {
	if i := b.at(addr); i >= 0 && i+1 < len(b.ram) {
		return uint16(b.ram[i]) | uint16(b.ram[i+1])<<8
	}
	return 0xFFFF
}

func (b *flatBus) MemRead24(ts *int32, addr uint32) uint32 {
	if i := b.at(addr); i >= 0 && i+2 < len(b.ram) {
		return uint32(b.ram[i]) | uint32(b.ram[i+1])<<8 | uint32(b.ram[i+2])<<16
	}
	return 0xFFFFFF
}

func (b *flatBus) MemRead32(ts *int32, addr uint32) uint32 {
	if i := b.at(addr); i >= 0 && i+3 < len(b.ram) {
		return uint32(b.ram[i]) | uint32(b.ram[i+1])<<8 | uint32(b.ram[i+2])<<16 | uint32(b.ram[i+3])<<24
	}
	return 0xFFFFFFFF
}

func (b *flatBus) MemWrite8(ts *int32, addr uint32, val uint8) {
	if i := b.at(addr); i >= 0 {
		b.ram[i] = val
	}
}

func (b *flatBus) MemWrite16(ts *int32, addr uint32, val uint16) {
	if i := b.at(addr); i >= 0 && i+1 < len(b.ram) {
		b.ram[i], b.ram[i+1] = byte(val), byte(val>>8)
	}
}

func (b *flatBus) MemWrite24(ts *int32, addr uint32, val uint32) {
	if i := b.at(addr); i >= 0 && i+2 < len(b.ram) {
		b.ram[i], b.ram[i+1], b.ram[i+2] = byte(val), byte(val>>8), byte(val>>16)
	}
}

func (b *flatBus) MemWrite32(ts *int32, addr uint32, val uint32) {
	if i := b.at(addr); i >= 0 && i+3 < len(b.ram) {
		b.ram[i], b.ram[i+1], b.ram[i+2], b.ram[i+3] = byte(val), byte(val>>8), byte(val>>16), byte(val>>24)
	}
}

func (b *flatBus) MemPeek8(addr uint32) uint8   { return b.MemRead8(nil, addr) }
func (b *flatBus) MemPeek16(addr uint32) uint16 { return b.MemRead16(nil, addr) }
func (b *flatBus) MemPeek32(addr uint32) uint32 { return b.MemRead32(nil, addr) }

// noGTE is a GTE stand-in that accepts transfers and reports zero
// cycles; r3dbg is a CPU-core probe, not a graphics debugger.
type noGTE struct {
	dr [32]uint32
	cr [32]uint32
}

func (g *noGTE) Instruction(instr uint32) int32 { return 0 }
func (g *noGTE) ReadDR(n uint32) uint32         { return g.dr[n&0x1F] }
func (g *noGTE) WriteDR(n uint32, v uint32)     { g.dr[n&0x1F] = v }
func (g *noGTE) ReadCR(n uint32) uint32         { return g.cr[n&0x1F] }
func (g *noGTE) WriteCR(n uint32, v uint32)     { g.cr[n&0x1F] = v }
func (g *noGTE) Power()                         { *g = noGTE{} }
func (g *noGTE) StateAction() []byte            { return nil }
func (g *noGTE) RestoreState(blob []byte)       {}

func main() {
	image := flag.String("image", "", "raw binary loaded at 0xBFC00000 (BIOS reset vector)")
	verbose := flag.Bool("v", false, "enable core diagnostics on stderr")
	flag.Parse()

	bus := newFlatBus(2 * 1024 * 1024)
	gte := &noGTE{}
	cpu := r3000a.NewCPU(bus, gte)
	cpu.Power()
	cpu.Verbose = *verbose
	cpu.SetFastMap(bus.ram, 0, uint32(len(bus.ram)))
	// Alias the start of RAM at the BIOS window so the reset vector
	// fetches the loaded image (flatBus already aliases it for data).
	cpu.SetFastMap(bus.ram, 0x1FC00000, 512*1024)

	if *image != "" {
		data, err := os.ReadFile(*image)
		if err != nil {
			fmt.Fprintf(os.Stderr, "r3dbg: %v\n", err)
			os.Exit(1)
		}
		copy(bus.ram, data)
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "r3dbg: failed to set raw mode: %v\n", err)
		os.Exit(1)
	}
	defer term.Restore(fd, oldState)

	fmt.Print("r3dbg -- s=step  r=regs  q=quit\r\n")

	var ts int32
	buf := make([]byte, 1)
	for {
		n, err := syscall.Read(fd, buf)
		if err != nil || n == 0 {
			break
		}
		switch buf[0] {
		case 'q':
			return
		case 's':
			cpu.NextEventTS = ts + 1
			ts = cpu.Run(ts)
			fmt.Printf("\r\nPC=0x%08X ts=%d\r\n", cpu.PC, ts)
		case 'r':
			dumpRegs(cpu)
		}
	}
}

func dumpRegs(c *r3000a.CPU) {
	for i := 0; i < 32; i += 4 {
		fmt.Printf("\r\nR%02d=%08X R%02d=%08X R%02d=%08X R%02d=%08X",
			i, c.GPR[i], i+1, c.GPR[i+1], i+2, c.GPR[i+2], i+3, c.GPR[i+3])
	}
	fmt.Printf("\r\nPC=%08X HI=%08X LO=%08X\r\n", c.PC, c.HI, c.LO)
}
