package worldgraph

import (
	"container/heap"

	"github.com/emergence-sim/emergence/internal/ids"
	"github.com/emergence-sim/emergence/internal/types"
)

// pqItem is one entry in the Dijkstra frontier priority queue.
type pqItem struct {
	location ids.LocationID
	cost     int64
	index    int
}

// priorityQueue implements container/heap.Interface over pqItems,
// ordered by ascending cost. Grounded on the pack's only heap-based
// algorithm example (orbas1-Synnergy's AMM routing), adapted here for
// shortest-path search instead of order-book matching.
type priorityQueue []*pqItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].cost < pq[j].cost }
func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x any) {
	item := x.(*pqItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

// ShortestPath runs Dijkstra's algorithm from source to destination
// using each route's tick cost, adjusted for the current weather. Storm
// weather makes a route's effective cost undefined — such routes are
// excluded from the frontier entirely (spec §4.2).
//
// Returns the ordered list of location ids including both endpoints, or
// nil if unreachable. If source == destination, returns the singleton
// list [source].
func (g *Graph) ShortestPath(source, destination ids.LocationID, weather types.Weather) []ids.LocationID {
	if source == destination {
		if _, ok := g.locations[source]; ok {
			return []ids.LocationID{source}
		}
		return nil
	}

	dist := map[ids.LocationID]int64{source: 0}
	prev := map[ids.LocationID]ids.LocationID{}
	visited := map[ids.LocationID]bool{}

	pq := &priorityQueue{}
	heap.Init(pq)
	heap.Push(pq, &pqItem{location: source, cost: 0})

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(*pqItem)
		if visited[cur.location] {
			continue
		}
		visited[cur.location] = true

		if cur.location == destination {
			break
		}

		if weather.BlocksTravel() {
			continue
		}

		for _, r := range g.adjacency[cur.location] {
			next, ok := otherEnd(r, cur.location)
			if !ok {
				continue
			}
			cost := cur.cost + r.TickCost
			if existing, has := dist[next]; !has || cost < existing {
				dist[next] = cost
				prev[next] = cur.location
				heap.Push(pq, &pqItem{location: next, cost: cost})
			}
		}
	}

	if !visited[destination] {
		return nil
	}

	// Walk back from destination to source via prev links.
	path := []ids.LocationID{destination}
	cur := destination
	for cur != source {
		p, ok := prev[cur]
		if !ok {
			return nil
		}
		path = append(path, p)
		cur = p
	}

	// Reverse in place.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
