// AngelaMos | 2026
// tier.go

package tier

import (
	"fmt"

	"github.com/carterperez-dev/tiered-events/internal/core"
)

// Tier is a membership level. Levels form a strict total order and the
// rank mapping below is the single source of truth for it.
type Tier string

const (
	Free     Tier = "free"
	Silver   Tier = "silver"
	Gold     Tier = "gold"
	Platinum Tier = "platinum"
)

var ranks = map[Tier]int{
	Free:     0,
	Silver:   1,
	Gold:     2,
	Platinum: 3,
}

var ordered = []Tier{Free, Silver, Gold, Platinum}

// Parse validates a raw string at the boundary so that unknown tier
// values never enter the domain.
func Parse(s string) (Tier, error) {
	t := Tier(s)
	if _, ok := ranks[t]; !ok {
		return "", fmt.Errorf("parse tier %q: %w", s, core.ErrInvalidTier)
	}
	return t, nil
}

// All returns every tier in ascending rank order.
func All() []Tier {
	out := make([]Tier, len(ordered))
	copy(out, ordered)
	return out
}

func (t Tier) String() string {
	return string(t)
}

// Valid reports whether t is one of the enumerated tiers.
func (t Tier) Valid() bool {
	_, ok := ranks[t]
	return ok
}

// Rank returns the fixed integer rank of t. Rank panics on values that
// bypassed Parse; repositories and handlers always go through Parse.
func (t Tier) Rank() int {
	r, ok := ranks[t]
	if !ok {
		panic(fmt.Sprintf("tier: rank of invalid tier %q", string(t)))
	}
	return r
}

// UpgradeAllowed reports whether a member at current may move to target.
// Downgrades and same-tier requests are always allowed; upgrades are
// allowed one rank at a time only.
func UpgradeAllowed(current, target Tier) bool {
	c, ok := ranks[current]
	if !ok {
		return false
	}
	n, ok := ranks[target]
	if !ok {
		return false
	}

	if n <= c {
		return true
	}

	return n == c+1
}

// Accessible returns every tier whose rank is at or below t, i.e. the
// set of event tiers a member at t may see. Callers must not read
// meaning into the slice order.
func Accessible(t Tier) []Tier {
	limit := t.Rank()
	out := make([]Tier, 0, limit+1)
	for _, candidate := range ordered {
		if ranks[candidate] <= limit {
			out = append(out, candidate)
		}
	}
	return out
}

// Next returns the tier one rank above t, or false when t is already
// the highest tier.
func Next(t Tier) (Tier, bool) {
	r := t.Rank()
	if r+1 >= len(ordered) {
		return "", false
	}
	return ordered[r+1], true
}

// Info carries the display attributes the presentation layer renders
// for a tier.
type Info struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Level       int    `json:"level"`
	IsMaxTier   bool   `json:"is_max_tier"`
}

var displayNames = map[Tier]string{
	Free:     "Free",
	Silver:   "Silver",
	Gold:     "Gold",
	Platinum: "Platinum",
}

var descriptions = map[Tier]string{
	Free:     "Basic access to public events",
	Silver:   "Access to premium events and early registration",
	Gold:     "VIP access with exclusive networking opportunities",
	Platinum: "Ultimate access with personalized concierge service",
}

// InfoFor returns the display attributes for t.
func InfoFor(t Tier) Info {
	return Info{
		Name:        displayNames[t],
		Description: descriptions[t],
		Level:       t.Rank(),
		IsMaxTier:   t == Platinum,
	}
}
