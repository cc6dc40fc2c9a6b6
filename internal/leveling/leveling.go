// Package leveling implements the XP progression curve and the stateful
// add/remove operations that cross level boundaries.
package leveling

import "fmt"

// Thresholds for levels 1-6; beyond the table the curve continues
// arithmetically at +300 XP per level.
var xpTable = [...]int{100, 150, 250, 400, 600, 900}

const xpPerLevelBeyondTable = 300

// XPNeededForLevel returns the XP required to finish the given level.
// Monotonically non-decreasing. Levels below 1 return 0.
func XPNeededForLevel(level int) int {
	if level <= 0 {
		return 0
	}
	if level <= len(xpTable) {
		return xpTable[level-1]
	}
	return xpTable[len(xpTable)-1] + (level-len(xpTable))*xpPerLevelBeyondTable
}

// CumulativeXP is the total XP spent finishing every level below the given
// one, i.e. the lifetime XP of a player at the start of that level who never
// lost XP across a level floor.
func CumulativeXP(level int) int {
	total := 0
	for l := 1; l < level; l++ {
		total += XPNeededForLevel(l)
	}
	return total
}

// Progress is the process-wide progression state. XP counts within the
// current level only, so 0 <= XP < XPNeededForLevel(Level) holds after every
// settled operation.
type Progress struct {
	Level int
	XP    int
}

func NewProgress() Progress {
	return Progress{Level: 1}
}

// Valid reports whether the state satisfies the progression invariant.
// Used to sanitize persisted state at load time.
func (p Progress) Valid() bool {
	return p.Level >= 1 && p.XP >= 0 && p.XP < XPNeededForLevel(p.Level)
}

// LevelUp records a single level boundary crossed by AddXP.
type LevelUp struct {
	Level int // the level reached
}

func (l LevelUp) String() string {
	return fmt.Sprintf("reached level %d", l.Level)
}

// AddXP adds XP and settles any level-ups. A large amount may cascade
// through several levels; one event is returned per level crossed.
func (p *Progress) AddXP(amount int) []LevelUp {
	p.XP += amount
	var ups []LevelUp
	for p.XP >= XPNeededForLevel(p.Level) {
		p.XP -= XPNeededForLevel(p.Level)
		p.Level++
		ups = append(ups, LevelUp{Level: p.Level})
	}
	return ups
}

// RemoveXP subtracts XP, descending levels while the balance is negative.
// At level 1 the balance clamps to zero: XP never goes negative and the
// level never drops below 1.
func (p *Progress) RemoveXP(amount int) {
	p.XP -= amount
	for p.XP < 0 && p.Level > 1 {
		p.Level--
		p.XP += XPNeededForLevel(p.Level)
	}
	if p.XP < 0 {
		p.XP = 0
	}
}
