package domain

import "testing"

func TestBetween(t *testing.T) {
	sp, err := NewSpace(8, 3)
	if err != nil {
		t.Fatalf("NewSpace: %v", err)
	}
	hex := func(s string) ID {
		id, err := sp.FromHexString(s)
		if err != nil {
			t.Fatalf("FromHexString(%q): %v", s, err)
		}
		return id
	}

	tests := []struct {
		name string
		a, b string
		x    string
		want bool
	}{
		{"linear, inside", "10", "30", "20", true},
		{"linear, equals upper bound (inclusive)", "10", "30", "30", true},
		{"linear, equals lower bound (exclusive)", "10", "30", "10", false},
		{"linear, outside", "10", "30", "40", false},
		{"wrap-around, inside after zero", "f0", "10", "05", true},
		{"wrap-around, inside before wrap", "f0", "10", "f5", true},
		{"wrap-around, outside", "f0", "10", "50", false},
		{"a == b, whole ring", "42", "42", "00", true},
		{"a == b, whole ring, far point", "42", "42", "ff", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := hex(tt.x).Between(hex(tt.a), hex(tt.b))
			if got != tt.want {
				t.Errorf("Between(%s,%s,%s) = %v, want %v", tt.a, tt.b, tt.x, got, tt.want)
			}
		})
	}
}

func TestAddMod(t *testing.T) {
	sp, err := NewSpace(8, 3)
	if err != nil {
		t.Fatalf("NewSpace: %v", err)
	}
	a, _ := sp.FromHexString("f0")
	b, _ := sp.FromHexString("20")
	got, err := sp.AddMod(a, b)
	if err != nil {
		t.Fatalf("AddMod: %v", err)
	}
	want := "10" // (0xf0 + 0x20) mod 256 = 0x10
	if got.ToHexString(false) != want {
		t.Errorf("AddMod(f0,20) = %s, want %s", got.ToHexString(false), want)
	}
}

func TestFingerStart(t *testing.T) {
	sp, err := NewSpace(8, 3)
	if err != nil {
		t.Fatalf("NewSpace: %v", err)
	}
	self, _ := sp.FromHexString("f0")

	tests := []struct {
		i    int
		want string
	}{
		{0, "f1"}, // 0xf0 + 1
		{4, "00"}, // 0xf0 + 16 = 256 mod 256 = 0
		{7, "70"}, // 0xf0 + 128 = 368 mod 256 = 0x70
	}
	for _, tt := range tests {
		got, err := sp.FingerStart(self, tt.i)
		if err != nil {
			t.Fatalf("FingerStart(%d): %v", tt.i, err)
		}
		if got.ToHexString(false) != tt.want {
			t.Errorf("FingerStart(%d) = %s, want %s", tt.i, got.ToHexString(false), tt.want)
		}
	}

	if _, err := sp.FingerStart(self, 8); err == nil {
		t.Error("FingerStart(8) on an 8-bit space should error, got nil")
	}
}

func TestDistance(t *testing.T) {
	sp, err := NewSpace(8, 3)
	if err != nil {
		t.Fatalf("NewSpace: %v", err)
	}
	a, _ := sp.FromHexString("f0")
	b, _ := sp.FromHexString("10")
	d := sp.Distance(a, b)
	if d.Int64() != 32 { // 0x10 + 256 - 0xf0 = 16 + 256 - 240 = 32
		t.Errorf("Distance(f0,10) = %v, want 32", d)
	}
}

func TestFromHexStringRoundTrip(t *testing.T) {
	sp, err := NewSpace(13, 3)
	if err != nil {
		t.Fatalf("NewSpace: %v", err)
	}
	id, err := sp.FromHexString("0x1fff")
	if err != nil {
		t.Fatalf("FromHexString: %v", err)
	}
	if err := sp.IsValidID(id); err != nil {
		t.Errorf("round-tripped ID should be valid: %v", err)
	}
	if _, err := sp.FromHexString("0x2fff"); err == nil {
		t.Error("value exceeding 13-bit space should error")
	}
}
