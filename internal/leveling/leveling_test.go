package leveling

import "testing"

func TestXPNeededForLevelTable(t *testing.T) {
	want := map[int]int{1: 100, 2: 150, 3: 250, 4: 400, 5: 600, 6: 900, 7: 1200, 10: 2100}
	for level, xp := range want {
		if got := XPNeededForLevel(level); got != xp {
			t.Fatalf("level %d: expected %d XP, got %d", level, xp, got)
		}
	}
	if got := XPNeededForLevel(0); got != 0 {
		t.Fatalf("level 0: expected 0, got %d", got)
	}
	if got := XPNeededForLevel(-3); got != 0 {
		t.Fatalf("negative level: expected 0, got %d", got)
	}
}

func TestXPNeededForLevelMonotonic(t *testing.T) {
	for level := 1; level < 100; level++ {
		if XPNeededForLevel(level+1) < XPNeededForLevel(level) {
			t.Fatalf("curve decreases between level %d and %d", level, level+1)
		}
	}
}

func TestCumulativeXP(t *testing.T) {
	want := map[int]int{1: 0, 2: 100, 3: 250, 4: 500, 7: 2400}
	for level, xp := range want {
		if got := CumulativeXP(level); got != xp {
			t.Fatalf("level %d: expected cumulative %d, got %d", level, xp, got)
		}
	}
}

func TestAddXPWithinLevel(t *testing.T) {
	p := NewProgress()
	ups := p.AddXP(40)
	if len(ups) != 0 {
		t.Fatalf("expected no level-ups, got %v", ups)
	}
	if p.Level != 1 || p.XP != 40 {
		t.Fatalf("unexpected state: %+v", p)
	}
}

func TestAddRemoveInverseWithoutCrossing(t *testing.T) {
	p := Progress{Level: 3, XP: 100}
	p.AddXP(120)
	p.RemoveXP(120)
	if p.Level != 3 || p.XP != 100 {
		t.Fatalf("add/remove should be inverse below the threshold, got %+v", p)
	}
}

func TestAddXPCascade(t *testing.T) {
	p := Progress{Level: 1, XP: 90}
	ups := p.AddXP(1000)

	// Total earned is 90+1000; the sum of every completed threshold plus the
	// remaining balance must account for all of it.
	sum := p.XP
	for level := 1; level < p.Level; level++ {
		sum += XPNeededForLevel(level)
	}
	if sum != 1090 {
		t.Fatalf("XP not conserved across cascade: level=%d xp=%d sum=%d", p.Level, p.XP, sum)
	}

	if len(ups) != p.Level-1 {
		t.Fatalf("expected %d level-up events, got %d", p.Level-1, len(ups))
	}
	for i, up := range ups {
		if up.Level != i+2 {
			t.Fatalf("event %d reports level %d, expected %d", i, up.Level, i+2)
		}
	}
	if !p.Valid() {
		t.Fatalf("invariant violated after cascade: %+v", p)
	}
}

func TestRemoveXPLevelsDown(t *testing.T) {
	p := Progress{Level: 3, XP: 10}
	p.RemoveXP(50)
	// Drops into level 2: 10 - 50 = -40, plus level 2's threshold of 150.
	if p.Level != 2 || p.XP != 110 {
		t.Fatalf("unexpected state after level-down: %+v", p)
	}
	if !p.Valid() {
		t.Fatalf("invariant violated: %+v", p)
	}
}

func TestRemoveXPFloorAtLevelOne(t *testing.T) {
	p := Progress{Level: 1, XP: 10}
	p.RemoveXP(500)
	if p.Level != 1 || p.XP != 0 {
		t.Fatalf("expected clamp to level 1 / 0 XP, got %+v", p)
	}
}

func TestValid(t *testing.T) {
	cases := []struct {
		p    Progress
		want bool
	}{
		{Progress{Level: 1, XP: 0}, true},
		{Progress{Level: 1, XP: 99}, true},
		{Progress{Level: 1, XP: 100}, false},
		{Progress{Level: 0, XP: 0}, false},
		{Progress{Level: 2, XP: -1}, false},
	}
	for _, tc := range cases {
		if got := tc.p.Valid(); got != tc.want {
			t.Fatalf("Valid(%+v) = %v, expected %v", tc.p, got, tc.want)
		}
	}
}
