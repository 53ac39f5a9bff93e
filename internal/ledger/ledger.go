// Package ledger implements the append-only, double-entry resource
// movement log and its per-tick conservation verifier (spec C2).
//
// Every resource movement in the simulation — gathering, trading,
// building, eating, decaying — is recorded here before (or atomically
// with) the corresponding state mutation. Inventories are a cached
// materialization of this log: on replay, an agent's holdings of a
// resource are exactly the signed sum of every entry that names them.
package ledger

import (
	"fmt"
	"time"

	emdecimal "github.com/emergence-sim/emergence/internal/decimal"
	"github.com/emergence-sim/emergence/internal/ids"
	"github.com/emergence-sim/emergence/internal/types"
)

// Entity identifies one side of a ledger entry: an id plus the entity
// type tag that the entry's type must be consistent with.
type Entity struct {
	Type types.EntityType
	ID   string // string form of the owning id (agent/location/structure); empty for World/Void
}

// AgentEntity, LocationEntity, StructureEntity, WorldEntity, and
// VoidEntity construct the Entity value for each side of an entry.
func AgentEntity(id ids.AgentID) Entity         { return Entity{Type: types.EntityAgent, ID: id.String()} }
func LocationEntity(id ids.LocationID) Entity   { return Entity{Type: types.EntityLocation, ID: id.String()} }
func StructureEntity(id ids.StructureID) Entity { return Entity{Type: types.EntityStructure, ID: id.String()} }
func WorldEntity() Entity                       { return Entity{Type: types.EntityWorld} }
func VoidEntity() Entity                        { return Entity{Type: types.EntityVoid} }

// Entry is a single immutable ledger record.
type Entry struct {
	ID        ids.LedgerEntryID
	Tick      uint64
	Type      types.LedgerEntryType
	From      *Entity
	To        *Entity
	Resource  types.Resource
	Quantity  emdecimal.Decimal // always strictly positive
	Reason    string
	Reference string // optional reference id (e.g. the action id this entry came from)
	CreatedAt time.Time
}

// ErrInvalidQuantity is returned by Append when quantity is not strictly positive.
type ErrInvalidQuantity struct{ Quantity emdecimal.Decimal }

func (e *ErrInvalidQuantity) Error() string {
	return fmt.Sprintf("ledger: invalid quantity %s: must be strictly positive", e.Quantity)
}

// ErrInvalidEntities is returned by Append when the from/to entity types
// don't match what the entry type requires.
type ErrInvalidEntities struct {
	EntryType types.LedgerEntryType
	From, To  Entity
}

func (e *ErrInvalidEntities) Error() string {
	return fmt.Sprintf("ledger: entry type %s does not permit from=%s to=%s", e.EntryType, e.From.Type, e.To.Type)
}

// Ledger is the append-only log. It is owned exclusively by the tick
// orchestrator; nothing outside the core may mutate it.
type Ledger struct {
	entries []Entry
	nowFunc func() time.Time
}

// New creates an empty ledger. nowFunc defaults to time.Now but can be
// overridden in tests for deterministic CreatedAt timestamps.
func New() *Ledger {
	return &Ledger{nowFunc: time.Now}
}

// NewWithClock creates a ledger using a custom time source, used by
// tests that need reproducible CreatedAt values.
func NewWithClock(now func() time.Time) *Ledger {
	return &Ledger{nowFunc: now}
}

// Append validates and records a new entry. It never mutates agent or
// world state — callers are responsible for applying the corresponding
// mutation atomically alongside the append (spec §9, "Ledger as source
// of truth").
func (l *Ledger) Append(tick uint64, entryType types.LedgerEntryType, from, to *Entity, resource types.Resource, quantity emdecimal.Decimal, reason, reference string) (Entry, error) {
	if err := emdecimal.RequirePositive(quantity); err != nil {
		return Entry{}, &ErrInvalidQuantity{Quantity: quantity}
	}

	if !entityMatches(entryType.ExpectedFrom(), from) || !entityMatches(entryType.ExpectedTo(), to) {
		var fv, tv Entity
		if from != nil {
			fv = *from
		}
		if to != nil {
			tv = *to
		}
		return Entry{}, &ErrInvalidEntities{EntryType: entryType, From: fv, To: tv}
	}

	e := Entry{
		ID:        ids.NewLedgerEntryID(),
		Tick:      tick,
		Type:      entryType,
		From:      from,
		To:        to,
		Resource:  resource,
		Quantity:  quantity,
		Reason:    reason,
		Reference: reference,
		CreatedAt: l.nowFunc(),
	}
	l.entries = append(l.entries, e)
	return e, nil
}

// Restore replaces the ledger's entries with a previously-validated
// sequence loaded from persistence, in tick/append order. It skips the
// Append validation since entries were already validated once.
func (l *Ledger) Restore(entries []Entry) {
	l.entries = entries
}

func entityMatches(expected []types.EntityType, got *Entity) bool {
	if expected == nil {
		return got != nil
	}
	if got == nil {
		return false
	}
	for _, e := range expected {
		if e == got.Type {
			return true
		}
	}
	return false
}

// Entries returns every entry recorded for the given tick, in append
// order.
func (l *Ledger) Entries(tick uint64) []Entry {
	var out []Entry
	for _, e := range l.entries {
		if e.Tick == tick {
			out = append(out, e)
		}
	}
	return out
}

// All returns every entry ever recorded, in append order. Callers must
// not mutate the returned slice.
func (l *Ledger) All() []Entry {
	return l.entries
}

// Len returns the total number of entries recorded.
func (l *Ledger) Len() int { return len(l.entries) }

// NetHoldings returns the signed sum of every entry in which entity
// (matched by type+ID) appears, for the given resource: positive
// quantities it received minus positive quantities it sent. This is the
// per-entity balance query spec §4.1 requires.
func (l *Ledger) NetHoldings(entity Entity, resource types.Resource) emdecimal.Decimal {
	total := emdecimal.Zero
	for _, e := range l.entries {
		if e.Resource != resource {
			continue
		}
		if e.To != nil && sameEntity(*e.To, entity) {
			total = total.Add(e.Quantity)
		}
		if e.From != nil && sameEntity(*e.From, entity) {
			total = total.Sub(e.Quantity)
		}
	}
	return total
}

func sameEntity(a, b Entity) bool {
	return a.Type == b.Type && a.ID == b.ID
}
