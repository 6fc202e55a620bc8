package builder

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Claims records which hidden tokens have been assigned to a node during
// one build. A Claims value belongs to exactly one build and must not be
// reused or shared between goroutines.
type Claims struct {
	claimed map[int]struct{}
}

// NewClaims creates an empty claim set.
func NewClaims() *Claims {
	return &Claims{claimed: make(map[int]struct{})}
}

// TryClaim claims token index i and reports whether this was its first
// claim. Repeated calls with the same index return false and change nothing.
func (c *Claims) TryClaim(i int) bool {
	if _, ok := c.claimed[i]; ok {
		return false
	}
	c.claimed[i] = struct{}{}
	return true
}

// IsClaimed reports whether token index i has been claimed.
func (c *Claims) IsClaimed(i int) bool {
	_, ok := c.claimed[i]
	return ok
}

// Claim claims token index i. A second claim of the same index is a bug in
// the caller: debug builds panic, release builds ignore it.
func (c *Claims) Claim(i int) {
	if !c.TryClaim(i) && debugClaims {
		panic(fmt.Sprintf("builder: hidden token %d claimed twice", i))
	}
}

// Len returns the number of claimed indices.
func (c *Claims) Len() int {
	return len(c.claimed)
}

// Indices returns the claimed indices in ascending order.
func (c *Claims) Indices() []int {
	indices := maps.Keys(c.claimed)
	slices.Sort(indices)
	return indices
}
