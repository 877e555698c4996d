package stego

import (
	"fmt"
	"testing"
)

// seqSource replays a fixed sequence of draws, repeating the last value.
type seqSource struct {
	vals []int
}

func (s *seqSource) IntN(n int) int {
	v := s.vals[0]
	if len(s.vals) > 1 {
		s.vals = s.vals[1:]
	}
	return v % n
}

func TestHashSeed(t *testing.T) {
	tests := []struct {
		seed string
		want uint64
	}{
		{"", 0},
		{"a", 97},
		{"abc", 96354},
		{"hello", 99162322},
	}

	for _, tt := range tests {
		t.Run(tt.seed, func(t *testing.T) {
			if got := HashSeed(tt.seed); got != tt.want {
				t.Errorf("HashSeed(%q): got %d, want %d", tt.seed, got, tt.want)
			}
		})
	}
}

func TestExpandSeed_Deterministic(t *testing.T) {
	a := ExpandSeed("abc")
	b := ExpandSeed("abc")

	if a.Hash != b.Hash {
		t.Fatalf("Hash: got %d and %d for the same seed", a.Hash, b.Hash)
	}
	if a.Fallback {
		t.Error("Fallback should be false for a non-empty seed")
	}

	sameXY := true
	for i := 0; i < 20; i++ {
		ax, bx := a.X.IntN(1000), b.X.IntN(1000)
		ay, by := a.Y.IntN(1000), b.Y.IntN(1000)
		if ax != bx || ay != by {
			t.Fatalf("draw %d: got (%d,%d) and (%d,%d)", i, ax, ay, bx, by)
		}
		if ax != ay {
			sameXY = false
		}
	}
	if sameXY {
		t.Error("x and y streams produced identical sequences")
	}
}

func TestExpandSeed_EmptyUsesFallback(t *testing.T) {
	orig := entropySeed
	defer func() { entropySeed = orig }()

	n := 0
	entropySeed = func() string {
		n++
		return fmt.Sprintf("entropy-%d", n)
	}

	a := ExpandSeed("")
	b := ExpandSeed("")

	if !a.Fallback || !b.Fallback {
		t.Error("Fallback should be set for empty seeds")
	}
	if a.Seed != "entropy-1" || b.Seed != "entropy-2" {
		t.Errorf("Seed: got %q and %q", a.Seed, b.Seed)
	}
	if a.Hash == b.Hash {
		t.Error("different fallback seeds should hash differently")
	}
	if a.Hash != HashSeed("entropy-1") {
		t.Error("fallback hash should be the hash of the reported seed")
	}
}

func TestExpandSeed_DefaultEntropyVaries(t *testing.T) {
	a := ExpandSeed("")
	b := ExpandSeed("")
	if a.Seed == "" || a.Seed == b.Seed {
		t.Errorf("fallback seeds: got %q and %q", a.Seed, b.Seed)
	}
}

func TestFindPlacement_FirstSafeCandidate(t *testing.T) {
	g := NewGeometry(210, 210)
	xs := &seqSource{vals: []int{0, 50, 120}}
	ys := &seqSource{vals: []int{0, 120, 130}}

	p := FindPlacement(g, 70, 70, xs, ys)

	if p.Exhausted {
		t.Fatal("placement should not be exhausted")
	}
	if p.X != 120 || p.Y != 130 {
		t.Errorf("position: got (%d,%d), want (120,130)", p.X, p.Y)
	}
	if p.Attempts != 3 {
		t.Errorf("Attempts: got %d, want 3", p.Attempts)
	}
	if p.W != 70 || p.H != 70 {
		t.Errorf("size: got %dx%d, want 70x70", p.W, p.H)
	}
}

func TestFindPlacement_ExhaustedClamps(t *testing.T) {
	g := NewGeometry(210, 210)
	xs := &seqSource{vals: []int{5}}
	ys := &seqSource{vals: []int{7}}

	p := FindPlacement(g, 70, 70, xs, ys)

	if !p.Exhausted {
		t.Fatal("placement inside the top-left finder should exhaust the search")
	}
	if p.Attempts != MaxPlacementAttempts {
		t.Errorf("Attempts: got %d, want %d", p.Attempts, MaxPlacementAttempts)
	}
	if p.X != 5 || p.Y != 7 {
		t.Errorf("position: got (%d,%d), want last draw (5,7)", p.X, p.Y)
	}
}

func TestFindPlacement_AlwaysInRange(t *testing.T) {
	sizes := []struct {
		qrW, qrH, w, h int
	}{
		{210, 210, 70, 70},
		{210, 210, 55, 30},
		{210, 210, 210, 210},
		{300, 150, 50, 50},
		{21, 21, 7, 7},
		{40, 40, 13, 2},
	}

	for _, sz := range sizes {
		g := NewGeometry(sz.qrW, sz.qrH)
		for i := 0; i < 200; i++ {
			s := ExpandSeed(fmt.Sprintf("seed-%d", i))
			p := FindPlacement(g, sz.w, sz.h, s.X, s.Y)
			if p.X < 0 || p.Y < 0 || p.X+p.W > sz.qrW || p.Y+p.H > sz.qrH {
				t.Fatalf("%dx%d in %dx%d seed %d: placement %+v out of range",
					sz.w, sz.h, sz.qrW, sz.qrH, i, p)
			}
			if !p.Exhausted && !g.IsSafeZone(p.X, p.Y, p.W, p.H) {
				t.Fatalf("seed %d: accepted unsafe placement %+v", i, p)
			}
		}
	}
}

func TestFindPlacement_SameSeedSamePlacement(t *testing.T) {
	g := NewGeometry(210, 210)
	for _, seed := range []string{"abc", "qr", "another seed"} {
		a := ExpandSeed(seed)
		b := ExpandSeed(seed)
		pa := FindPlacement(g, 70, 70, a.X, a.Y)
		pb := FindPlacement(g, 70, 70, b.X, b.Y)
		if pa != pb {
			t.Errorf("seed %q: got %+v and %+v", seed, pa, pb)
		}
	}
}
