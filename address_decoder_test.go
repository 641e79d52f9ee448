package r3000a

import "testing"

func TestDecodeAddress(t *testing.T) {
	cases := []struct {
		name string
		in   uint32
		want uint32
	}{
		{"kuseg passthrough", 0x00100000, 0x00100000},
		{"kseg0 masks to physical", 0x80100000, 0x00100000},
		{"kseg1 masks to physical", 0xA0100000, 0x00100000},
		{"kseg2 passthrough", 0xFFFE0130, 0xFFFE0130},
		{"kseg0/kseg1 alias same physical", 0x80010000, 0x00010000},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := decodeAddress(c.in); got != c.want {
				t.Fatalf("decodeAddress(0x%08X) = 0x%08X, want 0x%08X", c.in, got, c.want)
			}
		})
	}

	if decodeAddress(0xA0100000) != decodeAddress(0x80100000) {
		t.Fatalf("kseg0 and kseg1 aliases of the same address must decode identically")
	}
}
