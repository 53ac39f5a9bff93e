// Package persistence provides SQLite-based world state storage for the
// simulation core: a full-replace snapshot of the live world (agents,
// locations, routes, structures) plus the append-only ledger and event
// logs that back it. Grounded on the teacher's internal/persistence/db.go
// (sqlx + modernc.org/sqlite, migrate-on-open schema, JSON-blob columns
// for nested structs, full-replace save transactions), adapted from the
// teacher's hex/settlement/faction schema to the spec's agent/location/
// ledger domain.
package persistence

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/emergence-sim/emergence/internal/agent"
	emdecimal "github.com/emergence-sim/emergence/internal/decimal"
	"github.com/emergence-sim/emergence/internal/events"
	"github.com/emergence-sim/emergence/internal/ids"
	"github.com/emergence-sim/emergence/internal/ledger"
	"github.com/emergence-sim/emergence/internal/types"
	"github.com/emergence-sim/emergence/internal/worldgraph"
)

// DB wraps a SQLite connection for world state persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS locations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		region TEXT NOT NULL,
		type_tag TEXT NOT NULL,
		description TEXT NOT NULL,
		capacity INTEGER NOT NULL,
		resources_json TEXT NOT NULL,
		discovered_by_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS routes (
		id TEXT PRIMARY KEY,
		from_id TEXT NOT NULL,
		to_id TEXT NOT NULL,
		tick_cost INTEGER NOT NULL,
		path_type INTEGER NOT NULL,
		durability INTEGER NOT NULL,
		decay_rate INTEGER NOT NULL,
		bidirectional INTEGER NOT NULL,
		acl_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS structures (
		id TEXT PRIMARY KEY,
		location_id TEXT NOT NULL,
		owner_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		capacity INTEGER NOT NULL,
		resources_json TEXT NOT NULL,
		durability INTEGER NOT NULL,
		decay_rate INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS agents (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		sex INTEGER NOT NULL,
		birth_tick INTEGER NOT NULL,
		death_tick INTEGER,
		cause INTEGER NOT NULL,
		parent_a TEXT,
		parent_b TEXT,
		generation INTEGER NOT NULL,
		personality_json TEXT NOT NULL,
		energy INTEGER NOT NULL,
		health INTEGER NOT NULL,
		hunger INTEGER NOT NULL,
		thirst INTEGER NOT NULL,
		age INTEGER NOT NULL,
		location_id TEXT NOT NULL,
		destination TEXT,
		travel_path_json TEXT NOT NULL,
		travel_progress INTEGER NOT NULL,
		inventory_json TEXT NOT NULL,
		carry_capacity INTEGER NOT NULL,
		knowledge_json TEXT NOT NULL,
		skills_json TEXT NOT NULL,
		goals_json TEXT NOT NULL,
		relationships_json TEXT NOT NULL,
		memories_json TEXT NOT NULL,
		resting INTEGER NOT NULL,
		lifespan_ticks INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS ledger_entries (
		id TEXT PRIMARY KEY,
		tick INTEGER NOT NULL,
		entry_type INTEGER NOT NULL,
		from_type INTEGER,
		from_id TEXT,
		to_type INTEGER,
		to_id TEXT,
		resource INTEGER NOT NULL,
		quantity TEXT NOT NULL,
		reason TEXT NOT NULL,
		reference TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tick INTEGER NOT NULL,
		kind TEXT NOT NULL,
		agent_id TEXT,
		location_id TEXT,
		payload_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_ledger_tick ON ledger_entries(tick);
	CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);
	CREATE INDEX IF NOT EXISTS idx_agents_location ON agents(location_id);
	CREATE INDEX IF NOT EXISTS idx_structures_location ON structures(location_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveWorld performs a full-replace save of every live-world table
// (locations, routes, structures, agents) in one transaction, mirroring
// the teacher's SaveAgents/SaveSettlements full-replace pattern. Ledger
// entries and events are append-only and saved separately via
// AppendLedgerEntries/AppendEvents.
func (db *DB) SaveWorld(g *worldgraph.Graph, structs *worldgraph.StructureRegistry, agents map[ids.AgentID]*agent.State, identities *agent.Registry) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := saveLocations(tx, g.Locations()); err != nil {
		return fmt.Errorf("save locations: %w", err)
	}
	if err := saveRoutes(tx, g.Routes()); err != nil {
		return fmt.Errorf("save routes: %w", err)
	}
	if err := saveStructures(tx, structs.All()); err != nil {
		return fmt.Errorf("save structures: %w", err)
	}
	if err := saveAgents(tx, agents, identities); err != nil {
		return fmt.Errorf("save agents: %w", err)
	}

	return tx.Commit()
}

func saveLocations(tx *sqlx.Tx, locations []*worldgraph.Location) error {
	if _, err := tx.Exec("DELETE FROM locations"); err != nil {
		return err
	}
	stmt, err := tx.Preparex(`INSERT INTO locations
		(id, name, region, type_tag, description, capacity, resources_json, discovered_by_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, l := range locations {
		resourcesJSON, _ := json.Marshal(l.Resources)
		discovered := make([]string, 0, len(l.DiscoveredBy))
		for id := range l.DiscoveredBy {
			discovered = append(discovered, id.String())
		}
		sort.Strings(discovered)
		discoveredJSON, _ := json.Marshal(discovered)

		if _, err := stmt.Exec(l.ID.String(), l.Name, l.Region, l.TypeTag, l.Description, l.Capacity,
			string(resourcesJSON), string(discoveredJSON)); err != nil {
			return fmt.Errorf("insert location %s: %w", l.ID, err)
		}
	}
	return nil
}

func saveRoutes(tx *sqlx.Tx, routes []*worldgraph.Route) error {
	if _, err := tx.Exec("DELETE FROM routes"); err != nil {
		return err
	}
	stmt, err := tx.Preparex(`INSERT INTO routes
		(id, from_id, to_id, tick_cost, path_type, durability, decay_rate, bidirectional, acl_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range routes {
		bidi := 0
		if r.Bidirectional {
			bidi = 1
		}
		aclJSON, _ := json.Marshal(aclStrings(r.ACL))
		if _, err := stmt.Exec(r.ID.String(), r.From.String(), r.To.String(), r.TickCost, uint8(r.Path),
			r.Durability, r.DecayRate, bidi, string(aclJSON)); err != nil {
			return fmt.Errorf("insert route %s: %w", r.ID, err)
		}
	}
	return nil
}

func aclStrings(acl map[ids.AgentID]bool) map[string]bool {
	if acl == nil {
		return nil
	}
	out := make(map[string]bool, len(acl))
	for id, allowed := range acl {
		out[id.String()] = allowed
	}
	return out
}

func saveStructures(tx *sqlx.Tx, structures []*worldgraph.Structure) error {
	if _, err := tx.Exec("DELETE FROM structures"); err != nil {
		return err
	}
	stmt, err := tx.Preparex(`INSERT INTO structures
		(id, location_id, owner_id, kind, capacity, resources_json, durability, decay_rate)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range structures {
		resourcesJSON, _ := json.Marshal(s.Resources)
		if _, err := stmt.Exec(s.ID.String(), s.Location.String(), s.Owner.String(), s.Kind, s.Capacity,
			string(resourcesJSON), s.Durability, s.DecayRate); err != nil {
			return fmt.Errorf("insert structure %s: %w", s.ID, err)
		}
	}
	return nil
}

func saveAgents(tx *sqlx.Tx, agents map[ids.AgentID]*agent.State, identities *agent.Registry) error {
	if _, err := tx.Exec("DELETE FROM agents"); err != nil {
		return err
	}
	stmt, err := tx.Preparex(`INSERT INTO agents
		(id, name, sex, birth_tick, death_tick, cause, parent_a, parent_b, generation, personality_json,
		 energy, health, hunger, thirst, age, location_id, destination, travel_path_json, travel_progress,
		 inventory_json, carry_capacity, knowledge_json, skills_json, goals_json, relationships_json,
		 memories_json, resting, lifespan_ticks)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for id, s := range agents {
		ident, ok := identities.Get(id)
		if !ok {
			continue // no identity record — should not happen, skip defensively
		}

		var parentA, parentB *string
		if ident.ParentA != nil {
			v := ident.ParentA.String()
			parentA = &v
		}
		if ident.ParentB != nil {
			v := ident.ParentB.String()
			parentB = &v
		}
		personalityJSON, _ := json.Marshal(ident.Personality)

		var destination *string
		if s.Destination != nil {
			v := s.Destination.String()
			destination = &v
		}
		travelPathJSON, _ := json.Marshal(locationIDStrings(s.TravelPath))
		inventoryJSON, _ := json.Marshal(s.Inventory)
		skillsJSON, _ := json.Marshal(s.Skills)
		goalsJSON, _ := json.Marshal(s.Goals)
		relationshipsJSON, _ := json.Marshal(relationshipStrings(s.Relationships))
		memoriesJSON, _ := json.Marshal(s.Memories)

		knowledge := make([]string, 0, len(s.Knowledge))
		for k := range s.Knowledge {
			knowledge = append(knowledge, k)
		}
		sort.Strings(knowledge)
		knowledgeJSON, _ := json.Marshal(knowledge)

		resting := 0
		if s.Resting {
			resting = 1
		}

		var deathTick *uint64
		if ident.DeathTick != nil {
			deathTick = ident.DeathTick
		}

		if _, err := stmt.Exec(
			id.String(), ident.Name, uint8(ident.Sex), ident.BirthTick, deathTick, uint8(ident.Cause),
			parentA, parentB, ident.Generation, string(personalityJSON),
			s.Energy, s.Health, s.Hunger, s.Thirst, s.Age, s.Location.String(), destination,
			string(travelPathJSON), s.TravelProgress, string(inventoryJSON), s.CarryCapacity,
			string(knowledgeJSON), string(skillsJSON), string(goalsJSON), string(relationshipsJSON),
			string(memoriesJSON), resting, s.LifespanTicks,
		); err != nil {
			return fmt.Errorf("insert agent %s: %w", id, err)
		}
	}
	return nil
}

func locationIDStrings(path []ids.LocationID) []string {
	out := make([]string, len(path))
	for i, id := range path {
		out[i] = id.String()
	}
	return out
}

func relationshipStrings(rel map[ids.AgentID]emdecimal.Decimal) map[string]string {
	out := make(map[string]string, len(rel))
	for id, score := range rel {
		out[id.String()] = score.String()
	}
	return out
}

// SaveMeta stores a key-value pair in world metadata (cmd/emergence
// stores the current tick and era here).
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec("INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)", key, value)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}

// HasWorldState returns true if the database contains a saved world.
func (db *DB) HasWorldState() bool {
	var count int
	err := db.conn.Get(&count, "SELECT COUNT(*) FROM agents")
	return err == nil && count > 0
}

// AppendLedgerEntries writes newly-recorded ledger entries (append-only,
// matching the teacher's SaveEvents pattern — never a full replace,
// since the ledger itself is never rewritten).
func (db *DB) AppendLedgerEntries(entries []ledger.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT INTO ledger_entries
		(id, tick, entry_type, from_type, from_id, to_type, to_id, resource, quantity, reason, reference, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		var fromType *uint8
		var fromID *string
		if e.From != nil {
			t := uint8(e.From.Type)
			fromType = &t
			fromID = &e.From.ID
		}
		var toType *uint8
		var toID *string
		if e.To != nil {
			t := uint8(e.To.Type)
			toType = &t
			toID = &e.To.ID
		}

		if _, err := stmt.Exec(e.ID.String(), e.Tick, uint8(e.Type), fromType, fromID, toType, toID,
			uint8(e.Resource), e.Quantity.String(), e.Reason, e.Reference, e.CreatedAt); err != nil {
			return fmt.Errorf("insert ledger entry %s: %w", e.ID, err)
		}
	}
	return tx.Commit()
}

// AppendEvents writes newly-emitted events to the database.
func (db *DB) AppendEvents(evs []events.Event) error {
	if len(evs) == 0 {
		return nil
	}
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex("INSERT INTO events (tick, kind, agent_id, location_id, payload_json) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range evs {
		var agentID, locationID *string
		if e.AgentID != nil {
			v := e.AgentID.String()
			agentID = &v
		}
		if e.Location != nil {
			v := e.Location.String()
			locationID = &v
		}
		payloadJSON, _ := json.Marshal(e.Payload)
		if _, err := stmt.Exec(e.Tick, string(e.Kind), agentID, locationID, string(payloadJSON)); err != nil {
			return fmt.Errorf("insert event (tick %d kind %s): %w", e.Tick, e.Kind, err)
		}
	}
	return tx.Commit()
}

// RecentEvents returns the most recently persisted events, most recent first.
func (db *DB) RecentEvents(limit int) ([]PersistedEvent, error) {
	var rows []PersistedEvent
	err := db.conn.Select(&rows,
		"SELECT tick, kind, agent_id, location_id, payload_json FROM events ORDER BY id DESC LIMIT ?", limit)
	return rows, err
}

// PersistedEvent is the flattened row form of events.Event as stored;
// Payload stays raw JSON since its concrete type depends on Kind.
type PersistedEvent struct {
	Tick        uint64  `db:"tick"`
	Kind        string  `db:"kind"`
	AgentID     *string `db:"agent_id"`
	LocationID  *string `db:"location_id"`
	PayloadJSON string  `db:"payload_json"`
}

// LoadLedgerEntries reads every persisted ledger entry, in tick/insertion order.
func (db *DB) LoadLedgerEntries() ([]ledger.Entry, error) {
	type entryRow struct {
		ID        string    `db:"id"`
		Tick      uint64    `db:"tick"`
		EntryType uint8     `db:"entry_type"`
		FromType  *uint8    `db:"from_type"`
		FromID    *string   `db:"from_id"`
		ToType    *uint8    `db:"to_type"`
		ToID      *string   `db:"to_id"`
		Resource  uint8     `db:"resource"`
		Quantity  string    `db:"quantity"`
		Reason    string    `db:"reason"`
		Reference string    `db:"reference"`
		CreatedAt time.Time `db:"created_at"`
	}

	var rows []entryRow
	if err := db.conn.Select(&rows, "SELECT * FROM ledger_entries ORDER BY tick, rowid"); err != nil {
		return nil, fmt.Errorf("load ledger entries: %w", err)
	}

	out := make([]ledger.Entry, 0, len(rows))
	for _, r := range rows {
		id, err := ids.ParseLedgerEntryID(r.ID)
		if err != nil {
			return nil, fmt.Errorf("parse ledger entry id %q: %w", r.ID, err)
		}
		quantity, err := emdecimal.Parse(r.Quantity)
		if err != nil {
			return nil, fmt.Errorf("parse ledger entry %s quantity: %w", r.ID, err)
		}

		out = append(out, ledger.Entry{
			ID:        id,
			Tick:      r.Tick,
			Type:      types.LedgerEntryType(r.EntryType),
			From:      entityFromColumns(r.FromType, r.FromID),
			To:        entityFromColumns(r.ToType, r.ToID),
			Resource:  types.Resource(r.Resource),
			Quantity:  quantity,
			Reason:    r.Reason,
			Reference: r.Reference,
			CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}

func entityFromColumns(entityType *uint8, id *string) *ledger.Entity {
	if entityType == nil {
		return nil
	}
	e := ledger.Entity{Type: types.EntityType(*entityType)}
	if id != nil {
		e.ID = *id
	}
	return &e
}

// Snapshot is the full reconstructed live-world state returned by LoadWorld.
type Snapshot struct {
	Graph      *worldgraph.Graph
	Structures *worldgraph.StructureRegistry
	Agents     map[ids.AgentID]*agent.State
	Identities *agent.Registry
}

// LoadWorld reconstructs the live world (locations, routes, structures,
// agents, identities) from its last full-replace save.
func (db *DB) LoadWorld() (*Snapshot, error) {
	g := worldgraph.NewGraph()

	type locRow struct {
		ID               string `db:"id"`
		Name             string `db:"name"`
		Region           string `db:"region"`
		TypeTag          string `db:"type_tag"`
		Description      string `db:"description"`
		Capacity         int    `db:"capacity"`
		ResourcesJSON    string `db:"resources_json"`
		DiscoveredByJSON string `db:"discovered_by_json"`
	}
	var locRows []locRow
	if err := db.conn.Select(&locRows, "SELECT * FROM locations"); err != nil {
		return nil, fmt.Errorf("load locations: %w", err)
	}
	for _, r := range locRows {
		id, err := ids.ParseLocationID(r.ID)
		if err != nil {
			return nil, fmt.Errorf("parse location id %q: %w", r.ID, err)
		}
		l := worldgraph.NewLocation(r.Name, r.Region, r.TypeTag, r.Description, r.Capacity)
		l.ID = id
		json.Unmarshal([]byte(r.ResourcesJSON), &l.Resources)

		var discovered []string
		json.Unmarshal([]byte(r.DiscoveredByJSON), &discovered)
		for _, ds := range discovered {
			aid, err := ids.ParseAgentID(ds)
			if err == nil {
				l.DiscoveredBy[aid] = struct{}{}
			}
		}

		g.AddLocation(l)
	}

	type routeRow struct {
		ID            string `db:"id"`
		FromID        string `db:"from_id"`
		ToID          string `db:"to_id"`
		TickCost      int64  `db:"tick_cost"`
		PathType      uint8  `db:"path_type"`
		Durability    int64  `db:"durability"`
		DecayRate     int64  `db:"decay_rate"`
		Bidirectional int    `db:"bidirectional"`
		ACLJSON       string `db:"acl_json"`
	}
	var routeRows []routeRow
	if err := db.conn.Select(&routeRows, "SELECT * FROM routes"); err != nil {
		return nil, fmt.Errorf("load routes: %w", err)
	}
	for _, r := range routeRows {
		id, err := ids.ParseRouteID(r.ID)
		if err != nil {
			return nil, fmt.Errorf("parse route id %q: %w", r.ID, err)
		}
		fromID, err := ids.ParseLocationID(r.FromID)
		if err != nil {
			return nil, fmt.Errorf("parse route from id %q: %w", r.FromID, err)
		}
		toID, err := ids.ParseLocationID(r.ToID)
		if err != nil {
			return nil, fmt.Errorf("parse route to id %q: %w", r.ToID, err)
		}

		var aclRaw map[string]bool
		json.Unmarshal([]byte(r.ACLJSON), &aclRaw)
		var acl map[ids.AgentID]bool
		if aclRaw != nil {
			acl = make(map[ids.AgentID]bool, len(aclRaw))
			for s, allowed := range aclRaw {
				if aid, err := ids.ParseAgentID(s); err == nil {
					acl[aid] = allowed
				}
			}
		}

		g.AddRoute(&worldgraph.Route{
			ID:            id,
			From:          fromID,
			To:            toID,
			TickCost:      r.TickCost,
			Path:          types.PathType(r.PathType),
			Durability:    r.Durability,
			DecayRate:     r.DecayRate,
			ACL:           acl,
			Bidirectional: r.Bidirectional != 0,
		})
	}

	structs := worldgraph.NewStructureRegistry()
	type structRow struct {
		ID            string `db:"id"`
		LocationID    string `db:"location_id"`
		OwnerID       string `db:"owner_id"`
		Kind          string `db:"kind"`
		Capacity      int64  `db:"capacity"`
		ResourcesJSON string `db:"resources_json"`
		Durability    int64  `db:"durability"`
		DecayRate     int64  `db:"decay_rate"`
	}
	var structRows []structRow
	if err := db.conn.Select(&structRows, "SELECT * FROM structures"); err != nil {
		return nil, fmt.Errorf("load structures: %w", err)
	}
	for _, r := range structRows {
		id, err := ids.ParseStructureID(r.ID)
		if err != nil {
			return nil, fmt.Errorf("parse structure id %q: %w", r.ID, err)
		}
		locID, err := ids.ParseLocationID(r.LocationID)
		if err != nil {
			return nil, fmt.Errorf("parse structure location id %q: %w", r.LocationID, err)
		}
		ownerID, err := ids.ParseAgentID(r.OwnerID)
		if err != nil {
			return nil, fmt.Errorf("parse structure owner id %q: %w", r.OwnerID, err)
		}
		s := &worldgraph.Structure{
			ID:         id,
			Location:   locID,
			Owner:      ownerID,
			Kind:       r.Kind,
			Capacity:   r.Capacity,
			Resources:  map[types.Resource]int64{},
			Durability: r.Durability,
			DecayRate:  r.DecayRate,
		}
		json.Unmarshal([]byte(r.ResourcesJSON), &s.Resources)
		structs.Add(s)
	}

	agents := map[ids.AgentID]*agent.State{}
	identities := agent.NewRegistry()

	type agentRow struct {
		ID                string  `db:"id"`
		Name              string  `db:"name"`
		Sex               uint8   `db:"sex"`
		BirthTick         uint64  `db:"birth_tick"`
		DeathTick         *uint64 `db:"death_tick"`
		Cause             uint8   `db:"cause"`
		ParentA           *string `db:"parent_a"`
		ParentB           *string `db:"parent_b"`
		Generation        int     `db:"generation"`
		PersonalityJSON   string  `db:"personality_json"`
		Energy            int     `db:"energy"`
		Health            int     `db:"health"`
		Hunger            int     `db:"hunger"`
		Thirst            int     `db:"thirst"`
		Age               uint64  `db:"age"`
		LocationID        string  `db:"location_id"`
		Destination       *string `db:"destination"`
		TravelPathJSON    string  `db:"travel_path_json"`
		TravelProgress    int     `db:"travel_progress"`
		InventoryJSON     string  `db:"inventory_json"`
		CarryCapacity     int     `db:"carry_capacity"`
		KnowledgeJSON     string  `db:"knowledge_json"`
		SkillsJSON        string  `db:"skills_json"`
		GoalsJSON         string  `db:"goals_json"`
		RelationshipsJSON string  `db:"relationships_json"`
		MemoriesJSON      string  `db:"memories_json"`
		Resting           int     `db:"resting"`
		LifespanTicks     uint64  `db:"lifespan_ticks"`
	}
	var agentRows []agentRow
	if err := db.conn.Select(&agentRows, "SELECT * FROM agents"); err != nil {
		return nil, fmt.Errorf("load agents: %w", err)
	}
	for _, r := range agentRows {
		id, err := ids.ParseAgentID(r.ID)
		if err != nil {
			return nil, fmt.Errorf("parse agent id %q: %w", r.ID, err)
		}
		locID, err := ids.ParseLocationID(r.LocationID)
		if err != nil {
			return nil, fmt.Errorf("parse agent location id %q: %w", r.LocationID, err)
		}

		ident := &agent.Identity{
			ID:         id,
			Name:       r.Name,
			Sex:        agent.Sex(r.Sex),
			BirthTick:  r.BirthTick,
			DeathTick:  r.DeathTick,
			Cause:      types.DeathCause(r.Cause),
			Generation: r.Generation,
		}
		if r.ParentA != nil {
			if pid, err := ids.ParseAgentID(*r.ParentA); err == nil {
				ident.ParentA = &pid
			}
		}
		if r.ParentB != nil {
			if pid, err := ids.ParseAgentID(*r.ParentB); err == nil {
				ident.ParentB = &pid
			}
		}
		json.Unmarshal([]byte(r.PersonalityJSON), &ident.Personality)
		identities.Register(ident)

		s := agent.NewState(id, locID, r.CarryCapacity, r.LifespanTicks)
		s.Energy, s.Health, s.Hunger, s.Thirst, s.Age = r.Energy, r.Health, r.Hunger, r.Thirst, r.Age
		s.TravelProgress = r.TravelProgress
		s.Resting = r.Resting != 0

		if r.Destination != nil {
			if did, err := ids.ParseLocationID(*r.Destination); err == nil {
				s.Destination = &did
			}
		}
		var pathStrs []string
		json.Unmarshal([]byte(r.TravelPathJSON), &pathStrs)
		for _, ps := range pathStrs {
			if pid, err := ids.ParseLocationID(ps); err == nil {
				s.TravelPath = append(s.TravelPath, pid)
			}
		}

		json.Unmarshal([]byte(r.InventoryJSON), &s.Inventory)
		json.Unmarshal([]byte(r.SkillsJSON), &s.Skills)
		json.Unmarshal([]byte(r.GoalsJSON), &s.Goals)
		json.Unmarshal([]byte(r.MemoriesJSON), &s.Memories)

		var knowledge []string
		json.Unmarshal([]byte(r.KnowledgeJSON), &knowledge)
		for _, k := range knowledge {
			s.Knowledge[k] = struct{}{}
		}

		var relRaw map[string]string
		json.Unmarshal([]byte(r.RelationshipsJSON), &relRaw)
		for k, v := range relRaw {
			aid, err := ids.ParseAgentID(k)
			if err != nil {
				continue
			}
			score, err := emdecimal.Parse(v)
			if err != nil {
				continue
			}
			s.Relationships[aid] = score
		}

		agents[id] = s
		if ident.DeathTick == nil && !s.InFlight() {
			_ = g.PlaceAgent(id, locID)
		}
	}

	return &Snapshot{Graph: g, Structures: structs, Agents: agents, Identities: identities}, nil
}
