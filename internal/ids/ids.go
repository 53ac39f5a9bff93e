// Package ids provides the opaque identifiers used throughout the
// simulation core. Identifiers are random (version 4) UUIDs and are not
// time-ordered; they carry no ordering
// semantics of their own beyond equality — creation order, where it
// matters, is tracked separately via CreatedAt on the owning record.
package ids

import "github.com/google/uuid"

// AgentID identifies an agent across its entire lifetime, including
// after death.
type AgentID uuid.UUID

// LocationID identifies a location. Locations are created once at
// world init and never destroyed, so a LocationID is valid forever.
type LocationID uuid.UUID

// RouteID identifies a route between two locations.
type RouteID uuid.UUID

// LedgerEntryID identifies a single immutable ledger entry.
type LedgerEntryID uuid.UUID

// StructureID identifies a built structure at a location.
type StructureID uuid.UUID

// NewAgentID mints a fresh agent identifier.
func NewAgentID() AgentID { return AgentID(uuid.New()) }

// NewLocationID mints a fresh location identifier.
func NewLocationID() LocationID { return LocationID(uuid.New()) }

// NewRouteID mints a fresh route identifier.
func NewRouteID() RouteID { return RouteID(uuid.New()) }

// NewLedgerEntryID mints a fresh ledger entry identifier.
func NewLedgerEntryID() LedgerEntryID { return LedgerEntryID(uuid.New()) }

// NewStructureID mints a fresh structure identifier.
func NewStructureID() StructureID { return StructureID(uuid.New()) }

func (a AgentID) String() string        { return uuid.UUID(a).String() }
func (l LocationID) String() string     { return uuid.UUID(l).String() }
func (r RouteID) String() string        { return uuid.UUID(r).String() }
func (e LedgerEntryID) String() string  { return uuid.UUID(e).String() }
func (s StructureID) String() string    { return uuid.UUID(s).String() }

// IsNil reports whether the id is the zero-value (never minted) id.
func (a AgentID) IsNil() bool       { return uuid.UUID(a) == uuid.Nil }
func (l LocationID) IsNil() bool    { return uuid.UUID(l) == uuid.Nil }
func (r RouteID) IsNil() bool       { return uuid.UUID(r) == uuid.Nil }
func (s StructureID) IsNil() bool   { return uuid.UUID(s) == uuid.Nil }

// ParseAgentID, ParseLocationID, ParseRouteID, ParseStructureID,
// ParseLedgerEntryID recover an id from its String() form, for restoring
// a persisted snapshot.
func ParseAgentID(s string) (AgentID, error) {
	u, err := uuid.Parse(s)
	return AgentID(u), err
}

func ParseLocationID(s string) (LocationID, error) {
	u, err := uuid.Parse(s)
	return LocationID(u), err
}

func ParseRouteID(s string) (RouteID, error) {
	u, err := uuid.Parse(s)
	return RouteID(u), err
}

func ParseStructureID(s string) (StructureID, error) {
	u, err := uuid.Parse(s)
	return StructureID(u), err
}

func ParseLedgerEntryID(s string) (LedgerEntryID, error) {
	u, err := uuid.Parse(s)
	return LedgerEntryID(u), err
}
