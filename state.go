// state.go - savestate capture/restore (spec §6). StateAction encodes the
// exact field list the original interpreter's SFORMAT table carries,
// plus the GTE's own opaque sub-record, into one flat byte blob the host
// owns; this core never writes a file itself (no savestate serialization
// infra is carried here, per SPEC_FULL's non-goals -- only the record
// shape).

package r3000a

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const stateTag = "CPU0"

// StateAction captures a complete snapshot of live CPU and GTE state.
func (c *CPU) StateAction() []byte {
	var buf bytes.Buffer
	buf.WriteString(stateTag)

	w := func(v any) { binary.Write(&buf, binary.LittleEndian, v) }

	w(c.GPR)
	w(c.LO)
	w(c.HI)
	w(c.PC)
	w(c.NewPC)
	w(c.NewPCMask)
	w(c.IPCache)
	w(c.Halted)
	w(c.LDWhich)
	w(c.LDValue)
	w(c.LDAbsorb)
	w(c.NextEventTS)
	w(c.GTETSDone)
	w(c.MulDivTSDone)
	w(c.BIU)

	for _, e := range c.ICache.Entries {
		w(e.TV)
		w(e.Data)
	}

	w(c.CP0.Regs)
	w(c.ReadAbsorb)
	w(c.ReadAbsorbWhich)
	w(c.ReadFudge)
	w(c.Scratch.RAM)

	if c.gte != nil {
		gteBlob := c.gte.StateAction()
		w(uint32(len(gteBlob)))
		buf.Write(gteBlob)
	} else {
		w(uint32(0))
	}

	return buf.Bytes()
}

// RestoreState loads a blob produced by StateAction. It panics on a
// malformed or foreign blob: a corrupt savestate is a host bug, not a
// recoverable runtime condition.
func (c *CPU) RestoreState(blob []byte) {
	r := bytes.NewReader(blob)
	tag := make([]byte, len(stateTag))
	if _, err := r.Read(tag); err != nil || string(tag) != stateTag {
		panic(fmt.Sprintf("r3000a: RestoreState: bad tag %q", tag))
	}

	read := func(v any) {
		if err := binary.Read(r, binary.LittleEndian, v); err != nil {
			panic(fmt.Sprintf("r3000a: RestoreState: %v", err))
		}
	}

	read(&c.GPR)
	read(&c.LO)
	read(&c.HI)
	read(&c.PC)
	read(&c.NewPC)
	read(&c.NewPCMask)
	read(&c.IPCache)
	read(&c.Halted)
	read(&c.LDWhich)
	read(&c.LDValue)
	read(&c.LDAbsorb)
	read(&c.NextEventTS)
	read(&c.GTETSDone)
	read(&c.MulDivTSDone)
	read(&c.BIU)

	for i := range c.ICache.Entries {
		read(&c.ICache.Entries[i].TV)
		read(&c.ICache.Entries[i].Data)
	}

	read(&c.CP0.Regs)
	read(&c.ReadAbsorb)
	read(&c.ReadAbsorbWhich)
	read(&c.ReadFudge)
	read(&c.Scratch.RAM)

	var gteLen uint32
	read(&gteLen)
	if gteLen > 0 {
		gteBlob := make([]byte, gteLen)
		if _, err := r.Read(gteBlob); err != nil {
			panic(fmt.Sprintf("r3000a: RestoreState: gte blob: %v", err))
		}
		if c.gte != nil {
			c.gte.RestoreState(gteBlob)
		}
	}
}
