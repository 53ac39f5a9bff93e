package agent

import (
	"strconv"

	"github.com/emergence-sim/emergence/internal/types"
)

// Inventory is a map from resource to positive quantity. Zero-quantity
// entries are never stored — a resource the agent doesn't hold is
// simply absent from the map, matching spec §3's "map from resource to
// positive quantity."
//
// Inventory is a cached materialization of the ledger (spec §9): every
// mutation here must be paired with a matching ledger append in the
// same action handler, or rebuilt via Rebuild by replaying the ledger.
type Inventory map[types.Resource]int64

// NewInventory returns an empty inventory.
func NewInventory() Inventory { return Inventory{} }

// Quantity returns the held quantity of r (0 if absent).
func (inv Inventory) Quantity(r types.Resource) int64 {
	return inv[r]
}

// TotalLoad sums every held quantity, used against CarryCapacity.
func (inv Inventory) TotalLoad() int64 {
	var total int64
	for _, q := range inv {
		total += q
	}
	return total
}

// Add increases the held quantity of r by amount (amount must be > 0).
func (inv Inventory) Add(r types.Resource, amount int64) {
	if amount <= 0 {
		return
	}
	inv[r] += amount
}

// Remove decreases the held quantity of r by amount, deleting the entry
// if it reaches zero. Returns false if the agent does not hold enough.
func (inv Inventory) Remove(r types.Resource, amount int64) bool {
	if amount <= 0 {
		return true
	}
	if inv[r] < amount {
		return false
	}
	inv[r] -= amount
	if inv[r] == 0 {
		delete(inv, r)
	}
	return true
}

// FormatCarryLoad renders "current/max" for perception payloads, per
// spec §4.7's self-state projection.
func FormatCarryLoad(inv Inventory, max int) string {
	return strconv.FormatInt(inv.TotalLoad(), 10) + "/" + strconv.Itoa(max)
}
