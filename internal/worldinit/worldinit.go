// Package worldinit builds a fresh world graph and starting population
// deterministically from a run's configured seed, for the case where
// no saved snapshot exists yet. Grounded on the teacher's
// world.Generate/world.PlaceSettlements (deterministic generation from
// a seeded RNG) and internal/agents.Spawner.SpawnPopulation (per-agent
// demographic rolls + name pools), adapted from a hex-grid map and
// settlement placement to this simulation's named-location graph.
package worldinit

import (
	"fmt"
	"math/rand/v2"

	"github.com/emergence-sim/emergence/internal/agent"
	"github.com/emergence-sim/emergence/internal/config"
	emdecimal "github.com/emergence-sim/emergence/internal/decimal"
	"github.com/emergence-sim/emergence/internal/ids"
	"github.com/emergence-sim/emergence/internal/types"
	"github.com/emergence-sim/emergence/internal/worldgraph"
)

// siteSeed describes one starting location's fixed template. The
// catalog below is the world's only topology: every fresh run builds
// the same named places and connections, with only resource yields and
// the population randomized by seed.
type siteSeed struct {
	name, region, typeTag, description string
	capacity                           int
	resources                          map[types.Resource][2]int64 // resource -> [available, maxCapacity]
	regenRate                          int64
}

var sites = []siteSeed{
	{
		name: "Camp Hearth", region: "valley", typeTag: "camp",
		description: "a cleared starting camp beside the river",
		capacity:    64,
		resources:   map[types.Resource][2]int64{types.ResourceWater: {500, 500}},
		regenRate:   40,
	},
	{
		name: "Berryfield Grove", region: "valley", typeTag: "grove",
		description: "a grove thick with berry bushes",
		capacity:    32,
		resources:   map[types.Resource][2]int64{types.ResourceBerry: {300, 400}},
		regenRate:   6,
	},
	{
		name: "Silverrun River", region: "valley", typeTag: "river",
		description: "a cold, fish-rich river bend",
		capacity:    24,
		resources: map[types.Resource][2]int64{
			types.ResourceWater: {1000, 1000},
			types.ResourceFish:  {200, 250},
		},
		regenRate: 8,
	},
	{
		name: "Oldgrowth Stand", region: "forest", typeTag: "forest",
		description: "dense old-growth timber",
		capacity:    32,
		resources: map[types.Resource][2]int64{
			types.ResourceWood:  {400, 500},
			types.ResourceFiber: {150, 200},
		},
		regenRate: 5,
	},
	{
		name: "Greystone Quarry", region: "hills", typeTag: "quarry",
		description: "exposed rock and clay banks",
		capacity:    24,
		resources: map[types.Resource][2]int64{
			types.ResourceStone: {300, 400},
			types.ResourceClay:  {150, 200},
		},
		regenRate: 0,
	},
	{
		name: "Ironvein Hollow", region: "hills", typeTag: "mine",
		description: "a shallow ore seam cut into the hillside",
		capacity:    16,
		resources: map[types.Resource][2]int64{
			types.ResourceOre: {200, 250},
		},
		regenRate: 0,
	},
	{
		name: "Wildrun Plain", region: "plains", typeTag: "plain",
		description: "open grassland good for hide and root foraging",
		capacity:    32,
		resources: map[types.Resource][2]int64{
			types.ResourceRoot: {250, 300},
			types.ResourceHide: {80, 120},
		},
		regenRate: 4,
	},
}

// edge connects two site indices into sites with a path type and base
// tick cost; the graph is a ring (every site reachable from Camp
// Hearth) plus a few chords for shortcuts.
type edge struct {
	from, to int
	path     types.PathType
	tickCost int64
}

var edges = []edge{
	{0, 1, types.PathWornPath, 2},
	{0, 2, types.PathWornPath, 2},
	{1, 3, types.PathDirtTrail, 3},
	{2, 5, types.PathDirtTrail, 4},
	{3, 4, types.PathDirtTrail, 3},
	{4, 5, types.PathWornPath, 2},
	{0, 6, types.PathWornPath, 3},
	{6, 4, types.PathDirtTrail, 4},
}

// GenerateGraph builds the fixed starting-site catalog and connects it
// with the fixed edge list, per the simulation start state world §3.
// There is no seed-dependent randomness in the topology itself — only
// the agents spawned onto it vary by seed, matching
// original_source/crates/emergence-world's fixed LocationState/Route
// construction API (no procedural terrain generator exists in the
// prototype to ground a randomized topology on).
func GenerateGraph() *worldgraph.Graph {
	g := worldgraph.NewGraph()
	locs := make([]*worldgraph.Location, len(sites))
	for i, site := range sites {
		loc := worldgraph.NewLocation(site.name, site.region, site.typeTag, site.description, site.capacity)
		for resource, bounds := range site.resources {
			loc.Resources[resource] = &worldgraph.ResourceNode{
				Resource:    resource,
				Available:   bounds[0],
				MaxCapacity: bounds[1],
				RegenRate:   site.regenRate,
			}
		}
		g.AddLocation(loc)
		locs[i] = loc
	}
	for _, e := range edges {
		g.AddRoute(&worldgraph.Route{
			ID:            ids.NewRouteID(),
			From:          locs[e.from].ID,
			To:            locs[e.to].ID,
			TickCost:      e.tickCost,
			Path:          e.path,
			Durability:    200,
			DecayRate:     1,
			Bidirectional: true,
		})
	}
	return g
}

// HomeLocation returns Camp Hearth's id, the fixed spawn point for a
// fresh population and for the runner's auto-recovery spawner.
func HomeLocation(g *worldgraph.Graph) (ids.LocationID, error) {
	for _, l := range g.Locations() {
		if l.Name == sites[0].name {
			return l.ID, nil
		}
	}
	return ids.LocationID{}, fmt.Errorf("worldinit: home location %q missing from graph", sites[0].name)
}

// SpawnOne creates one new agent at home, independent of the starting
// population (used both for the fresh-world seed population and for
// the runner's per-tick auto-recovery spawner).
func SpawnOne(cfg config.Config, home ids.LocationID, rng *rand.Rand, generation int) (*agent.Identity, *agent.State) {
	sex := agent.SexMale
	if rng.Float64() < 0.5 {
		sex = agent.SexFemale
	}
	name := randomName(rng, sex)

	personality := types.Personality{
		Curiosity:       randomTrait(rng),
		Cooperation:     randomTrait(rng),
		Aggression:      randomTrait(rng),
		RiskTolerance:   randomTrait(rng),
		Industriousness: randomTrait(rng),
		Sociability:     randomTrait(rng),
		Honesty:         randomTrait(rng),
		Loyalty:         randomTrait(rng),
	}.Clamped()

	id := ids.NewAgentID()
	ident := &agent.Identity{
		ID:          id,
		Name:        name,
		Sex:         sex,
		BirthTick:   0,
		Generation:  generation,
		Personality: personality,
	}

	s := agent.NewState(id, home, cfg.Economy.CarryCapacity, cfg.Population.LifespanTicks)
	s.Energy = 80 + rng.IntN(21)
	s.Health = 90 + rng.IntN(11)
	for resourceName, qty := range cfg.Economy.StartingWallet {
		resource, ok := types.ParseResource(resourceName)
		if !ok {
			continue
		}
		s.Inventory.Add(resource, qty)
	}
	return ident, s
}

// SeedPopulation spawns cfg.Population.InitialAgents founders at home,
// all generation 0.
func SeedPopulation(cfg config.Config, home ids.LocationID, rng *rand.Rand) ([]*agent.Identity, []*agent.State) {
	n := cfg.Population.InitialAgents
	idents := make([]*agent.Identity, 0, n)
	states := make([]*agent.State, 0, n)
	for i := 0; i < n; i++ {
		ident, s := SpawnOne(cfg, home, rng, 0)
		idents = append(idents, ident)
		states = append(states, s)
	}
	return idents, states
}

func randomTrait(rng *rand.Rand) emdecimal.Decimal {
	return emdecimal.NewFromFloatSafe(rng.Float64())
}

func randomName(rng *rand.Rand, sex agent.Sex) string {
	pool := maleNames
	if sex == agent.SexFemale {
		pool = femaleNames
	}
	first := pool[rng.IntN(len(pool))]
	last := lastNames[rng.IntN(len(lastNames))]
	return first + " " + last
}

var maleNames = []string{
	"Aldric", "Bram", "Cedric", "Doran", "Erik", "Finn", "Gareth",
	"Halvard", "Ivan", "Jasper", "Kael", "Leif", "Magnus", "Nils",
	"Oswin", "Per", "Quinn", "Rowan", "Stellan", "Theron", "Ulric",
}

var femaleNames = []string{
	"Astrid", "Brenna", "Calla", "Daria", "Elara", "Freya", "Greta",
	"Helene", "Iris", "Juno", "Kira", "Lena", "Mira", "Nessa",
	"Olwen", "Petra", "Runa", "Senna", "Thea", "Una", "Vera",
}

var lastNames = []string{
	"Voss", "Thornwood", "Blackwood", "Ashford", "Ironhand", "Dunmore",
	"Greenvale", "Stormcrow", "Frostborn", "Hearthstone", "Millward",
	"Copperfield", "Ravenmoor", "Silverdale", "Wolfsbane", "Stoneheart",
}
