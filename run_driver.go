// run_driver.go - RunDriver (spec §4.6, §5): selects the fast, debug, or
// idle-hint loop variant per slice, mirroring the original interpreter's
// own Run() dispatch (CPUHook/ADDBT installed -> debug mode, else
// ILHMode -> idle-hint, else the hot path).

package r3000a

// IdleHint requests the idle-loop spin fast-forward for the next Run
// call. The host typically enables it once the BIOS/game has reached its
// main event loop and stable IRQ-driven timing no longer needs
// instruction-accurate stepping through a wait-for-interrupt spin.
func (c *CPU) IdleHint(enabled bool) {
	c.idleHint = enabled
}

// Run executes until ts reaches NextEventTS (or an installed debug hook
// decides otherwise is unreachable -- RunDebug still only returns at the
// same boundary) and returns the final timestamp, rebasing GTETSDone and
// MulDivTSDone around the slice per spec §5.
func (c *CPU) Run(tsIn int32) int32 {
	switch {
	case c.debug.instrHook != nil || c.debug.branchTrace != nil:
		return c.RunDebug(tsIn)
	case c.idleHint:
		return c.RunIdleHint(tsIn)
	default:
		return c.RunFast(tsIn)
	}
}
