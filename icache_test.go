package r3000a

import "testing"

func TestICacheResetInvalidatesEverything(t *testing.T) {
	var ic ICacheModel
	ic.reset(true)
	for i, e := range ic.Entries {
		if e.TV&0x1 != 0 {
			t.Fatalf("entry %d: expected valid-bit clear after reset(enabled=true), TV=0x%X", i, e.TV)
		}
		if e.TV&0x2 == 0 {
			t.Fatalf("entry %d: expected refill-pending bit set after reset, TV=0x%X", i, e.TV)
		}
	}

	ic.reset(false)
	for i, e := range ic.Entries {
		if e.TV&0x1 == 0 {
			t.Fatalf("entry %d: expected invalid bit set after reset(enabled=false), TV=0x%X", i, e.TV)
		}
	}
}

func TestICacheRefillAndHit(t *testing.T) {
	var ic ICacheModel
	ic.reset(true)

	mem := map[uint32]uint32{
		0x1000: 0x11111111,
		0x1004: 0x22222222,
		0x1008: 0x33333333,
		0x100C: 0x44444444,
	}
	fetch := func(a uint32) uint32 { return mem[a] }

	if _, ok := ic.hit(0x1008); ok {
		t.Fatalf("expected miss before refill")
	}

	cycles := ic.refillLine(0x1008, fetch)
	if cycles != 3+2 { // base 3 + (4 - startWord=2)
		t.Fatalf("refillLine cost = %d, want 5", cycles)
	}

	if data, ok := ic.hit(0x1008); !ok || data != 0x33333333 {
		t.Fatalf("hit(0x1008) = (0x%X, %v), want (0x33333333, true)", data, ok)
	}
	if data, ok := ic.hit(0x100C); !ok || data != 0x44444444 {
		t.Fatalf("hit(0x100C) = (0x%X, %v), want (0x44444444, true)", data, ok)
	}
	// Words before startWord in the line were never fetched; they stay invalid.
	if _, ok := ic.hit(0x1000); ok {
		t.Fatalf("word before the refill's start word should remain invalid")
	}
}

func TestICacheTagTestInvalidateAndDirectWrite(t *testing.T) {
	var ic ICacheModel
	ic.reset(true)
	ic.refillLine(0x2000, func(a uint32) uint32 { return 0xAAAAAAAA })

	ic.tagTestInvalidate(0x2000)
	if _, ok := ic.hit(0x2000); ok {
		t.Fatalf("tagTestInvalidate should invalidate the whole line")
	}

	ic.directWrite(0x2005, 0xAB)
	idx := iCacheIndex(0x2005)
	if ic.Entries[idx].Data != 0xAB<<8 {
		t.Fatalf("directWrite placed value at wrong byte offset: got 0x%X", ic.Entries[idx].Data)
	}
}
