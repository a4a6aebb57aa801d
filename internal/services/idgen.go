package services

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Entity id prefixes. Customers and farmers share the user counter width;
// orders and subscriptions use a dash-separated four-digit suffix.
const (
	PrefixCustomer     = "C"
	PrefixFarmer       = "F"
	PrefixProduct      = "P"
	PrefixOrder        = "ORD-"
	PrefixSubscription = "SUB-"
)

var idWidths = map[string]int{
	PrefixCustomer:     3,
	PrefixFarmer:       3,
	PrefixProduct:      3,
	PrefixOrder:        4,
	PrefixSubscription: 4,
}

// IDGenerator hands out monotonically increasing ids per prefix, e.g. C001,
// P001, ORD-0001. Seeding sets each counter one past the largest numeric
// suffix observed in loaded data, so new ids never collide with persisted
// ones.
type IDGenerator struct {
	mu       sync.Mutex
	counters map[string]int
}

// NewIDGenerator creates a generator with all counters starting at 1.
func NewIDGenerator() *IDGenerator {
	counters := make(map[string]int, len(idWidths))
	for prefix := range idWidths {
		counters[prefix] = 1
	}
	return &IDGenerator{counters: counters}
}

// Seed advances the counters past the numeric suffixes of the given ids.
// Ids whose suffix is not purely numeric are ignored.
func (g *IDGenerator) Seed(ids ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, id := range ids {
		prefix, ok := matchPrefix(id)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(id[len(prefix):])
		if err != nil {
			continue
		}
		if n >= g.counters[prefix] {
			g.counters[prefix] = n + 1
		}
	}
}

// Next returns a fresh id for the given prefix.
func (g *IDGenerator) Next(prefix string) string {
	width, ok := idWidths[prefix]
	if !ok {
		width = 3
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	n := g.counters[prefix]
	if n == 0 {
		n = 1
	}
	g.counters[prefix] = n + 1
	return fmt.Sprintf("%s%0*d", prefix, width, n)
}

// matchPrefix finds the longest registered prefix the id starts with, so
// "SUB-0007" matches "SUB-" rather than nothing and "C012" matches "C".
func matchPrefix(id string) (string, bool) {
	best := ""
	for prefix := range idWidths {
		if strings.HasPrefix(id, prefix) && len(prefix) > len(best) {
			best = prefix
		}
	}
	return best, best != ""
}
