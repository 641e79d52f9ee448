// dispatcher.go - the main interpreter loop (spec §4.6): instruction
// fetch from the I-cache (with refill), opcode decode, delayed-load
// commit, branch-delay fixup, exception dispatch, and periodic yield to
// the external event handler.
//
// Per SPEC_FULL's design notes, the loop is hand-specialized into three
// named variants instead of relying on a flag checked every instruction:
// RunFast (the hot path), RunDebug (installs the per-instruction hook),
// and RunIdleHint (adds the idle-spin fast-forward). RunDriver picks one
// per slice; none of the three re-checks the others' behaviour.

package r3000a

// fetch resolves the instruction word at c.PC, running the I-cache
// hit/miss/refill/bypass algorithm from spec §4.3 and advancing *ts by
// whatever it costs.
func (c *CPU) fetch(ts *int32) uint32 {
	pc := c.PC
	if data, ok := c.ICache.hit(pc); ok {
		return data
	}

	c.ReadAbsorb[c.ReadAbsorbWhich] = 0
	c.ReadAbsorbWhich = 0

	if pc >= 0xA0000000 || c.BIU&biuICacheEnable == 0 {
		*ts += 4
		return c.Fast.ReadWord(decodeAddress(pc))
	}

	cycles := c.ICache.refillLine(pc, func(a uint32) uint32 { return c.Fast.ReadWord(decodeAddress(a)) })
	*ts += cycles
	data, _ := c.ICache.hit(pc)
	return data
}

// dispatchIndex computes the 256-entry table index for instr per spec
// §4.6 step 5: the SPECIAL function field when the major opcode is zero,
// else 0x40 | major opcode, OR'd with IPCache.
func dispatchIndex(instr uint32, ipCache uint32) uint32 {
	opf := instr & 0x3F
	if instr&(0x3F<<26) != 0 {
		opf = 0x40 | (instr >> 26)
	}
	return opf | ipCache
}

// readAbsorbStep implements spec §4.6 step 6: consume one cycle of
// absorb credit for the register the prior instruction's read-absorb
// slot names, else advance the timestamp by one cycle.
func (c *CPU) readAbsorbStep(ts *int32) {
	if c.ReadAbsorb[c.ReadAbsorbWhich] != 0 {
		c.ReadAbsorb[c.ReadAbsorbWhich]--
	} else {
		*ts++
	}
}

// advancePC implements spec §4.6 step 9: the default straight-line PC
// advance, skipped when the instruction just executed was a branch (the
// branch already performed the equivalent update via doBranch).
func (c *CPU) advancePC() {
	c.PC = (c.PC & c.NewPCMask) + c.NewPC
	c.NewPCMask = ^uint32(0)
	c.NewPC = 4
}

// doBranch implements the DO_BRANCH(offset, mask) macro from spec §4.6:
// commit to the delay-slot address, then arm (offset, mask) as the final
// target with the branch-delay marker (bottom two mask bits cleared).
// Returns the branch instruction's own address (the PC before the
// delay-slot commit), which RunIdleHint uses for its spin detection.
func (c *CPU) doBranch(offset, mask uint32) uint32 {
	oldPC := c.PC
	c.PC = (c.PC & c.NewPCMask) + c.NewPC
	c.NewPC = offset
	c.NewPCMask = mask &^ 3
	return oldPC
}

// runPrologue performs the per-instruction bookkeeping common to all
// three Run variants up to and including the opcode table dispatch:
// zeroing GPR[0], fetching, computing the dispatch index, and consuming
// a read-absorb cycle. It returns the decoded instruction word and
// dispatch index.
func (c *CPU) runPrologue(ts *int32) (instr uint32, idx uint32) {
	c.GPR[0] = 0
	instr = c.fetch(ts)
	idx = dispatchIndex(instr, c.IPCache)
	c.readAbsorbStep(ts)
	return instr, idx
}

// execute invokes the decoded opcode's handler and reports whether it
// armed a branch, and if so the branch instruction's address doBranch
// returned.
func (c *CPU) execute(instr uint32, idx uint32, ts *int32) (branched bool, branchFrom uint32) {
	return c.opcodeTable[idx](c, instr, ts)
}

// runEpilogue advances PC after the opcode handler has run, unless the
// handler reported a branch (doBranch already committed PC to the delay
// slot and armed the final target) or set skipCommit. A just-serviced
// exception is not a branch: its handler leaves new_PC = vector and
// new_PC_mask = 0, and the fold here is what moves PC to the vector.
//
// Every opcode handler commits its own pending delayed load at the exact
// point the original interpreter's DO_LDS() macro appears in that
// opcode's case -- often before the handler's own register write, so a
// load landing in the same register the opcode writes loses to the
// opcode's result. There is deliberately no second, blanket commit here.
func (c *CPU) runEpilogue(tookBranch bool) {
	if c.skipCommit {
		c.skipCommit = false
		return
	}
	if !tookBranch {
		c.advancePC()
	}
}

// RunFast executes instructions with neither the debug hook nor the
// idle-loop heuristic, until ts reaches NextEventTS. It returns the
// final timestamp.
func (c *CPU) RunFast(tsIn int32) int32 {
	ts := tsIn
	c.GTETSDone += ts
	c.MulDivTSDone += ts

	for ts < c.NextEventTS {
		if c.PC == 0xB0 && c.GPR[9] == 0x3D {
			c.biosPrint(c.GPR[4])
		}

		instr, idx := c.runPrologue(&ts)
		tookBranch, _ := c.execute(instr, idx, &ts)
		c.runEpilogue(tookBranch)
	}

	c.GTETSDone -= ts
	c.MulDivTSDone -= ts
	return ts
}

// RunDebug is RunFast plus the per-instruction hook (spec §4.6 step 2).
// Hooks may read the full live pipeline state; no save/restore shuffle
// is needed since the hook runs against the live CPU directly (the
// original interpreter's backing-store dance existed only because its
// hot-path registers lived in locals, which this port doesn't do).
func (c *CPU) RunDebug(tsIn int32) int32 {
	ts := tsIn
	c.GTETSDone += ts
	c.MulDivTSDone += ts

	for ts < c.NextEventTS {
		if c.debug.instrHook != nil {
			c.debug.instrHook(ts, c.PC)
		}

		if c.PC == 0xB0 && c.GPR[9] == 0x3D {
			c.biosPrint(c.GPR[4])
		}

		instr, idx := c.runPrologue(&ts)
		tookBranch, _ := c.execute(instr, idx, &ts)
		if tookBranch && c.debug.branchTrace != nil {
			// doBranch already committed c.PC to the delay-slot address;
			// trace from there, matching the original's ADDBT call site,
			// not from the branch instruction's own (pre-commit) address.
			target := (c.PC & c.NewPCMask) + c.NewPC
			c.debug.branchTrace(c.PC, target, false)
		}
		c.runEpilogue(tookBranch)
	}

	c.GTETSDone -= ts
	c.MulDivTSDone -= ts
	return ts
}

// RunIdleHint is RunFast plus the idle-spin fast-forward: a branch whose
// target repeats the instruction it branched from, with a zero (NOP)
// word at that target, is almost certainly a wait-for-interrupt spin, so
// the timestamp jumps straight to NextEventTS instead of executing it
// one cycle at a time. This mode also skips the BIOS print trap, per
// spec §4.6 step 3.
func (c *CPU) RunIdleHint(tsIn int32) int32 {
	ts := tsIn
	c.GTETSDone += ts
	c.MulDivTSDone += ts

	for ts < c.NextEventTS {
		instr, idx := c.runPrologue(&ts)
		tookBranch, branchFrom := c.execute(instr, idx, &ts)
		if tookBranch {
			newTargetPC := (c.PC & c.NewPCMask) + c.NewPC
			if branchFrom == newTargetPC && c.Fast.ReadWord(decodeAddress(newTargetPC)) == 0 {
				if c.NextEventTS > ts {
					ts = c.NextEventTS
				}
			}
		}
		c.runEpilogue(tookBranch)
	}

	c.GTETSDone -= ts
	c.MulDivTSDone -= ts
	return ts
}

func (c *CPU) biosPrint(ch uint32) {
	if c.debug.biosPrint != nil {
		c.debug.biosPrint(byte(ch))
	}
}
