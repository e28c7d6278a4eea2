// AngelaMos | 2026
// tier.go

// Package tier defines the membership tiers and their total order.
// Every component that needs to compare tiers goes through this package.
package tier

import (
	"errors"
	"fmt"
	"strings"
)

type Tier string

const (
	Free     Tier = "free"
	Silver   Tier = "silver"
	Gold     Tier = "gold"
	Platinum Tier = "platinum"
)

var (
	// ErrInvalidTier is returned for caller-supplied values outside the four tiers.
	ErrInvalidTier = errors.New("invalid tier")
	// ErrUnknownTier marks a persisted record carrying a tier outside the four tiers.
	ErrUnknownTier = errors.New("unknown tier on record")
)

type Ordering int

const (
	Lower Ordering = iota - 1
	Equal
	Higher
)

func (o Ordering) String() string {
	switch o {
	case Lower:
		return "lower"
	case Equal:
		return "equal"
	case Higher:
		return "higher"
	}
	return fmt.Sprintf("Ordering(%d)", int(o))
}

// All returns the tiers in ascending order. The slice is freshly allocated.
func All() []Tier {
	return []Tier{Free, Silver, Gold, Platinum}
}

// Rank returns the position of t in the order, or -1 if t is not a tier.
func (t Tier) Rank() int {
	switch t {
	case Free:
		return 0
	case Silver:
		return 1
	case Gold:
		return 2
	case Platinum:
		return 3
	}
	return -1
}

func (t Tier) Valid() bool {
	return t.Rank() >= 0
}

func (t Tier) String() string {
	return string(t)
}

// Title returns the display form used in upgrade prompts, e.g. "Gold".
func (t Tier) Title() string {
	if t == "" {
		return ""
	}
	return strings.ToUpper(string(t[:1])) + string(t[1:])
}

// Covers reports whether a holder of t may access something that requires
// the required tier. Invalid tiers never cover and are never covered.
func (t Tier) Covers(required Tier) bool {
	if !t.Valid() || !required.Valid() {
		return false
	}
	return required.Rank() <= t.Rank()
}

func IsValid(candidate string) bool {
	return Tier(candidate).Valid()
}

func Parse(candidate string) (Tier, error) {
	t := Tier(candidate)
	if !t.Valid() {
		return "", fmt.Errorf("parse tier %q: %w", candidate, ErrInvalidTier)
	}
	return t, nil
}

// Compare orders a relative to b. Both must be valid; callers validate first.
func Compare(a, b Tier) Ordering {
	ra, rb := a.Rank(), b.Rank()
	switch {
	case ra < rb:
		return Lower
	case ra > rb:
		return Higher
	}
	return Equal
}
