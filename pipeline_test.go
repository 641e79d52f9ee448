package r3000a

import "testing"

func TestCommitLoadInstallsValueAndAbsorb(t *testing.T) {
	var p PipelineState
	p.LDWhich = 5
	p.LDValue = 0xCAFEBABE
	p.LDAbsorb = 3

	p.commitLoad()

	if p.GPR[5] != 0xCAFEBABE {
		t.Fatalf("GPR[5] = 0x%X, want 0xCAFEBABE", p.GPR[5])
	}
	if p.ReadAbsorb[5] != 3 {
		t.Fatalf("ReadAbsorb[5] = %d, want 3", p.ReadAbsorb[5])
	}
	if p.LDWhich != NoPendingLoad {
		t.Fatalf("LDWhich = %d, want NoPendingLoad", p.LDWhich)
	}
}

func TestCommitLoadNoPendingLoadIsHarmless(t *testing.T) {
	var p PipelineState
	p.LDWhich = NoPendingLoad
	p.GPR[3] = 0x11111111

	p.commitLoad()

	if p.GPR[3] != 0x11111111 {
		t.Fatalf("commitLoad with no pending load disturbed a live register")
	}
}

func TestClearDependency(t *testing.T) {
	var p PipelineState
	p.ReadAbsorb[7] = 9
	p.ClearDependency(7)
	if p.ReadAbsorb[7] != 0 {
		t.Fatalf("ClearDependency(7) left ReadAbsorb[7] = %d, want 0", p.ReadAbsorb[7])
	}
}
