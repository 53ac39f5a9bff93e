package persistence_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emergence-sim/emergence/internal/agent"
	emdecimal "github.com/emergence-sim/emergence/internal/decimal"
	"github.com/emergence-sim/emergence/internal/events"
	"github.com/emergence-sim/emergence/internal/ids"
	"github.com/emergence-sim/emergence/internal/ledger"
	"github.com/emergence-sim/emergence/internal/persistence"
	"github.com/emergence-sim/emergence/internal/types"
	"github.com/emergence-sim/emergence/internal/worldgraph"
)

func openTestDB(t *testing.T) *persistence.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "emergence.db")
	db, err := persistence.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func buildWorld(t *testing.T) (*worldgraph.Graph, *worldgraph.StructureRegistry, map[ids.AgentID]*agent.State, *agent.Registry) {
	t.Helper()
	g := worldgraph.NewGraph()
	camp := worldgraph.NewLocation("Camp", "valley", "camp", "a starting camp", 10)
	camp.Resources[types.ResourceBerry] = &worldgraph.ResourceNode{Resource: types.ResourceBerry, Available: 40, MaxCapacity: 100, RegenRate: 2}
	grove := worldgraph.NewLocation("Grove", "valley", "grove", "a quiet grove", 5)
	g.AddLocation(camp)
	g.AddLocation(grove)

	agentID := ids.NewAgentID()
	camp.DiscoveredBy[agentID] = struct{}{}

	g.AddRoute(&worldgraph.Route{
		ID: ids.NewRouteID(), From: camp.ID, To: grove.ID, TickCost: 3,
		Path: types.PathDirtTrail, Durability: 100, DecayRate: 1, Bidirectional: true,
	})

	structs := worldgraph.NewStructureRegistry()
	shed := worldgraph.NewStructure(camp.ID, agentID, "shelter", 200, 80, 1)
	shed.Resources[types.ResourceWood] = 12
	structs.Add(shed)

	s := agent.NewState(agentID, camp.ID, 50, 36000)
	s.Inventory.Add(types.ResourceBerry, 5)
	s.Skills.AwardXP(agent.SkillGathering, 30)
	s.Knowledge["fire"] = struct{}{}
	s.Goals = []string{"eat"}
	other := ids.NewAgentID()
	s.Relationships[other] = emdecimal.NewFromFloatSafe(0.25)
	s.Memories = append(s.Memories, agent.Memory{Tick: 1, Summary: "arrived", Tier: agent.MemoryImmediate})
	require.NoError(t, g.PlaceAgent(agentID, camp.ID))

	agents := map[ids.AgentID]*agent.State{agentID: s}
	identities := agent.NewRegistry()
	identities.Register(&agent.Identity{
		ID: agentID, Name: "Ayo", Sex: agent.SexFemale, BirthTick: 0,
		Personality: types.Personality{Curiosity: emdecimal.NewFromFloatSafe(0.6)}.Clamped(),
	})

	return g, structs, agents, identities
}

func TestSaveAndLoadWorldRoundTrips(t *testing.T) {
	db := openTestDB(t)
	g, structs, agents, identities := buildWorld(t)

	require.NoError(t, db.SaveWorld(g, structs, agents, identities))
	require.True(t, db.HasWorldState())

	snap, err := db.LoadWorld()
	require.NoError(t, err)

	require.Len(t, snap.Graph.Locations(), 2)
	require.Len(t, snap.Graph.Routes(), 1)
	require.Len(t, snap.Agents, 1)

	var loadedID ids.AgentID
	for id := range snap.Agents {
		loadedID = id
	}
	loaded := snap.Agents[loadedID]
	require.EqualValues(t, 5, loaded.Inventory.Quantity(types.ResourceBerry))
	require.True(t, loaded.KnowsOf("fire"))
	require.Equal(t, []string{"eat"}, loaded.Goals)
	require.Len(t, loaded.Memories, 1)

	ident, ok := snap.Identities.Get(loadedID)
	require.True(t, ok)
	require.Equal(t, "Ayo", ident.Name)
	require.Equal(t, agent.SexFemale, ident.Sex)

	loc, ok := snap.Graph.Location(loaded.Location)
	require.True(t, ok)
	require.True(t, loc.HasOccupant(loadedID))
	require.Contains(t, loc.DiscoveredBy, loadedID)
	require.EqualValues(t, 40, loc.Resources[types.ResourceBerry].Available)

	require.Len(t, snap.Structures.AtLocation(loc.ID), 1)
	require.EqualValues(t, 12, snap.Structures.AtLocation(loc.ID)[0].Resources[types.ResourceWood])
}

func TestAppendAndLoadLedgerEntries(t *testing.T) {
	db := openTestDB(t)
	l := ledger.New()
	world := ledger.WorldEntity()
	loc := ledger.LocationEntity(ids.NewLocationID())
	entry, err := l.Append(1, types.EntryRegeneration, &world, &loc, types.ResourceBerry, emdecimal.NewFromInt(3), "regen", "")
	require.NoError(t, err)

	require.NoError(t, db.AppendLedgerEntries(l.All()))

	loaded, err := db.LoadLedgerEntries()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	require.Equal(t, entry.ID, loaded[0].ID)
	require.True(t, entry.Quantity.Equal(loaded[0].Quantity))
	require.Equal(t, types.EntityWorld, loaded[0].From.Type)
	require.Equal(t, types.EntityLocation, loaded[0].To.Type)
}

func TestAppendAndReadRecentEvents(t *testing.T) {
	db := openTestDB(t)
	agentID := ids.NewAgentID()
	evs := []events.Event{
		{Tick: 1, Kind: events.KindTickStart},
		{Tick: 1, Kind: events.KindAgentDied, AgentID: &agentID, Payload: events.AgentDiedPayload{Cause: types.DeathStarvation}},
	}
	require.NoError(t, db.AppendEvents(evs))

	recent, err := db.RecentEvents(10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, string(events.KindAgentDied), recent[0].Kind)
	require.NotNil(t, recent[0].AgentID)
	require.Equal(t, agentID.String(), *recent[0].AgentID)
}

func TestMetaRoundTrips(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.SaveMeta("tick", "42"))
	v, err := db.GetMeta("tick")
	require.NoError(t, err)
	require.Equal(t, "42", v)
}
