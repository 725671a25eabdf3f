// Package rotation implements the deterministic "Olympic" duty rotation:
// a 32-step cycle over the duty codes A1..D8 anchored to a seed (date, code)
// pair. Everything in here is pure date arithmetic on midnight-truncated
// dates; the package deliberately has no dependency beyond the standard
// library so it can be queried from anywhere without wiring.
package rotation

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidSeed is returned when a seed code is not one of the 32 codes
// of the Olympic sequence. Callers must be able to tell bad configuration
// apart from a valid rotation result.
var ErrInvalidSeed = errors.New("seed code is not part of the olympic sequence")

// Default rotation anchor.
const (
	DefaultSeedCode = "B6"
)

// DefaultSeedDate is 2026-01-01, the anchor date paired with DefaultSeedCode.
var DefaultSeedDate = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.Local)

// Seq is the canonical 32-entry cyclic sequence: A1,B1,C1,D1,A2,...,D8.
// It is the total order every date offset is stepped through.
var Seq = buildSequence()

// Next maps each top-level group letter to its successor in the fixed
// A→B→C→D→A rotation.
var Next = map[byte]byte{'A': 'B', 'B': 'C', 'C': 'D', 'D': 'A'}

// seqIndex caches code → position in Seq for O(1) seed lookup.
var seqIndex = func() map[string]int {
	m := make(map[string]int, len(Seq))
	for i, c := range Seq {
		m[c] = i
	}
	return m
}()

func buildSequence() []string {
	seq := make([]string, 0, 32)
	for n := 1; n <= 8; n++ {
		for _, l := range []byte{'A', 'B', 'C', 'D'} {
			seq = append(seq, fmt.Sprintf("%c%d", l, n))
		}
	}
	return seq
}

// Midnight truncates a date to local midnight so that time-of-day and
// timezone artifacts never leak into day-offset arithmetic.
func Midnight(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

// DayOffset returns the signed count of calendar days from seedDate to date.
// Both ends are truncated to midnight first; the division is rounded to
// absorb DST-induced 23/25 hour days.
func DayOffset(date, seedDate time.Time) int {
	diff := Midnight(date).Sub(Midnight(seedDate))
	return int(math.Round(diff.Hours() / 24))
}

// MainDayCode returns the duty code on day shift for date, given the
// rotation anchor (seedDate, seedCode). Negative offsets (dates before the
// seed) are handled by the double-mod idiom.
func MainDayCode(date, seedDate time.Time, seedCode string) (string, error) {
	seedIdx, ok := seqIndex[seedCode]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidSeed, seedCode)
	}
	off := DayOffset(date, seedDate)
	i := ((seedIdx+off)%len(Seq) + len(Seq)) % len(Seq)
	return Seq[i], nil
}

// MainNightCode returns the duty code on night shift for date: by
// convention the night belongs to whichever subgroup held the previous
// day's day shift.
func MainNightCode(date, seedDate time.Time, seedCode string) (string, error) {
	return MainDayCode(Midnight(date).AddDate(0, 0, -1), seedDate, seedCode)
}

// Pools holds the subgroups eligible to staff a vacancy on a given day.
// Order within each pool is significant: it drives both UI ordering and
// the priority chain.
type Pools struct {
	// Standard is the default pool: all 8 subgroups of the next letter
	// in the top-level rotation.
	Standard []string
	// Extra is the recall ("rientro") pool: exactly 3 subgroups, the last
	// of which is always the day's own night-shift subgroup.
	Extra []string
}

// All returns standard followed by extra, preserving order.
func (p Pools) All() []string {
	all := make([]string, 0, len(p.Standard)+len(p.Extra))
	all = append(all, p.Standard...)
	all = append(all, p.Extra...)
	return all
}

// prevNum wraps a subgroup number one step backwards in 1..8.
func prevNum(n int) int {
	return (n-2+8)%8 + 1
}

// EligibilityPools derives the standard and extra pools from a day's duty
// code. The extra pool is a hand-picked per-letter rule; its third entry is
// the subgroup that worked last night, which is itself eligible for an
// evening recall slot.
func EligibilityPools(mainDayCode string) (Pools, error) {
	if _, ok := seqIndex[mainDayCode]; !ok {
		return Pools{}, fmt.Errorf("%w: %q", ErrInvalidSeed, mainDayCode)
	}
	letter := mainDayCode[0]
	num := int(mainDayCode[1] - '0')
	next := Next[letter]

	standard := make([]string, 8)
	for i := range standard {
		standard[i] = fmt.Sprintf("%c%d", next, i+1)
	}

	var extra []string
	switch letter {
	case 'B':
		extra = []string{code('A', num), code('D', prevNum(num)), code('B', num)}
	case 'A':
		extra = []string{code('D', prevNum(num)), code('C', prevNum(num)), code('A', num)}
	case 'C':
		extra = []string{code('B', num), code('A', num), code('C', num)}
	default: // D
		extra = []string{code('C', num), code('B', num), code('D', num)}
	}

	return Pools{Standard: standard, Extra: extra}, nil
}

func code(l byte, n int) string {
	return fmt.Sprintf("%c%d", l, n)
}

// PriorityChain returns the ordered, deduplicated top-level letters of
// standard++extra for a day code. The first entry is the default owner of
// every unfilled requirement slot; entrustment walks the chain forward.
// This is the single source of truth for hand-off order.
func PriorityChain(mainDayCode string) ([]string, error) {
	pools, err := EligibilityPools(mainDayCode)
	if err != nil {
		return nil, err
	}
	seen := make(map[byte]bool, 4)
	chain := make([]string, 0, 4)
	for _, c := range pools.All() {
		if !seen[c[0]] {
			seen[c[0]] = true
			chain = append(chain, string(c[0]))
		}
	}
	return chain, nil
}
