package dice

import (
	"bytes"
	"errors"
	"testing"

	"pgregory.net/rapid"
)

func TestRoll_Predicates(t *testing.T) {
	tests := []struct {
		name    string
		roll    Roll
		craps   bool
		natural bool
		point   bool
		field   bool
		hard    bool
	}{
		{name: "aces", roll: Roll{1, 1}, craps: true, field: true, hard: true},
		{name: "ace deuce", roll: Roll{1, 2}, craps: true, field: true},
		{name: "easy four", roll: Roll{1, 3}, point: true, field: true},
		{name: "hard four", roll: Roll{2, 2}, point: true, field: true, hard: true},
		{name: "five", roll: Roll{2, 3}, point: true},
		{name: "hard six", roll: Roll{3, 3}, point: true, hard: true},
		{name: "seven", roll: Roll{3, 4}, natural: true},
		{name: "easy eight", roll: Roll{2, 6}, point: true},
		{name: "nine", roll: Roll{4, 5}, point: true, field: true},
		{name: "hard ten", roll: Roll{5, 5}, point: true, field: true, hard: true},
		{name: "yo", roll: Roll{5, 6}, natural: true, field: true},
		{name: "boxcars", roll: Roll{6, 6}, craps: true, field: true, hard: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.roll.IsCraps(); got != tt.craps {
				t.Errorf("IsCraps() = %v, want %v", got, tt.craps)
			}
			if got := tt.roll.IsNatural(); got != tt.natural {
				t.Errorf("IsNatural() = %v, want %v", got, tt.natural)
			}
			if got := tt.roll.IsPointNumber(); got != tt.point {
				t.Errorf("IsPointNumber() = %v, want %v", got, tt.point)
			}
			if got := tt.roll.IsFieldNumber(); got != tt.field {
				t.Errorf("IsFieldNumber() = %v, want %v", got, tt.field)
			}
			if got := tt.roll.IsHard(); got != tt.hard {
				t.Errorf("IsHard() = %v, want %v", got, tt.hard)
			}
		})
	}
}

func TestNewRoll_InvalidFace(t *testing.T) {
	if _, err := NewRoll(0, 3); !errors.Is(err, ErrInvalidFace) {
		t.Fatalf("expected ErrInvalidFace, got %v", err)
	}
	if _, err := NewRoll(3, 7); !errors.Is(err, ErrInvalidFace) {
		t.Fatalf("expected ErrInvalidFace, got %v", err)
	}
	r, err := NewRoll(6, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Value() != 11 {
		t.Fatalf("expected 11, got %d", r.Value())
	}
}

func TestEasy_TotalsAndFaces(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.IntRange(2, 12).Draw(t, "value")
		r := Easy(v)
		if r.Value() != v {
			t.Fatalf("Easy(%d) totals %d", v, r.Value())
		}
		if r.Die1 < 1 || r.Die1 > Faces || r.Die2 < 1 || r.Die2 > Faces {
			t.Fatalf("Easy(%d) = %v has an invalid face", v, r)
		}
		if r.IsHard() && v != 2 && v != 12 {
			t.Fatalf("Easy(%d) = %v is hard", v, r)
		}
	})
}

func TestHistogram_RecordAndPercent(t *testing.T) {
	var h Histogram
	for _, v := range []int{7, 7, 6, 8, 1, 13} {
		h.Record(v)
	}
	if h.Total() != 4 {
		t.Fatalf("expected 4 rolls, got %d", h.Total())
	}
	if h.Count(7) != 2 {
		t.Fatalf("expected two sevens, got %d", h.Count(7))
	}
	if p := h.Percent(7); p != 50 {
		t.Fatalf("expected 50%%, got %v", p)
	}
	if h.Count(1) != 0 || h.Count(13) != 0 {
		t.Fatal("out of range values must not be counted")
	}
}

func TestHistogram_Merge(t *testing.T) {
	var a, b Histogram
	a.Record(4)
	b.Record(4)
	b.Record(10)
	m := a.Merge(b)
	if m.Count(4) != 2 || m.Count(10) != 1 || m.Total() != 3 {
		t.Fatalf("unexpected merge result: %+v", m)
	}
	if a.Total() != 1 {
		t.Fatal("merge must not modify its receiver")
	}
}

func TestHistogram_Add(t *testing.T) {
	var h Histogram
	h.Add(7, 1000)
	h.Add(2, 0)
	h.Add(13, 5)
	if h.Count(7) != 1000 || h.Total() != 1000 {
		t.Fatalf("unexpected histogram: %+v", h)
	}
}

func TestDice_ScriptedRolls(t *testing.T) {
	d := New(NewScriptedRolls(6, 8, 7))
	want := []int{6, 8, 7, 6}
	for i, w := range want {
		if got := d.Roll().Value(); got != w {
			t.Fatalf("roll %d: expected %d, got %d", i, w, got)
		}
	}
	if d.Last().Value() != 6 {
		t.Fatalf("expected last roll 6, got %d", d.Last().Value())
	}
	h := d.History()
	if h.Count(6) != 2 || h.Total() != 4 {
		t.Fatalf("unexpected history %+v", h)
	}
}

func TestNewSource_SeedIsDeterministic(t *testing.T) {
	for _, kind := range []Kind{KindMath, KindKyber} {
		t.Run(string(kind), func(t *testing.T) {
			a, err := NewSource(kind, 42, 3)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			b, err := NewSource(kind, 42, 3)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for i := 0; i < 100; i++ {
				x, y := a.Intn(Faces), b.Intn(Faces)
				if x != y {
					t.Fatalf("draw %d differs: %d vs %d", i, x, y)
				}
				if x < 0 || x >= Faces {
					t.Fatalf("draw %d out of range: %d", i, x)
				}
			}
		})
	}
}

func TestKyberSource_Covers_AllFaces(t *testing.T) {
	d := New(NewKyberSource([]byte("crapsim")))
	seen := map[int]bool{}
	for i := 0; i < 600; i++ {
		r := d.Roll()
		seen[r.Die1] = true
		if r.Value() < 2 || r.Value() > 12 {
			t.Fatalf("invalid roll %v", r)
		}
	}
	if len(seen) != Faces {
		t.Fatalf("expected every face to show up, saw %v", seen)
	}
}

// TestStreamSource_Intn verifies that both kyber sources return every value of [0, n).
func TestStreamSource_Intn(t *testing.T) {
	sources := map[string]Source{
		"xof":    NewKyberSource([]byte("crapsim")),
		"system": NewSystemSource(),
	}
	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			counts := make([]int, Faces)
			for i := 0; i < 6000; i++ {
				x := src.Intn(Faces)
				if x < 0 || x >= Faces {
					t.Fatalf("draw %d out of range: %d", i, x)
				}
				counts[x]++
			}
			for v, n := range counts {
				if n < 700 {
					t.Fatalf("value %d drawn %d times out of 6000: %v", v, n, counts)
				}
			}
		})
	}
}

// TestKyberDice_RollsAces verifies that the kyber dice can roll 2 and 3.
func TestKyberDice_RollsAces(t *testing.T) {
	d := New(NewKyberSource([]byte("aces")))
	for i := 0; i < 3600; i++ {
		d.Roll()
	}
	h := d.History()
	if h.Count(2) == 0 || h.Count(3) == 0 {
		t.Fatalf("expected some 2s and 3s in %d rolls, got %d and %d", h.Total(), h.Count(2), h.Count(3))
	}
}

func TestStreamSeed_DistinctStreams(t *testing.T) {
	if bytes.Equal(StreamSeed(1, 0), StreamSeed(1, 1)) {
		t.Fatal("streams must not share key material")
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind(" Kyber "); err != nil || k != KindKyber {
		t.Fatalf("expected kyber, got %q, %v", k, err)
	}
	if k, err := ParseKind(""); err != nil || k != KindMath {
		t.Fatalf("expected math default, got %q, %v", k, err)
	}
	if _, err := ParseKind("dice-tower"); !errors.Is(err, ErrUnknownSource) {
		t.Fatalf("expected ErrUnknownSource, got %v", err)
	}
}
