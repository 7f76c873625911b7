/*
Package game
File: mechanics.go
Description:
    The "physics" of the galaxy: distances between systems, which systems
    a tank of fuel can reach, and route finding across several jumps.
    Also answers equipment questions about a ship (tank size, cargo bays,
    installed gadgets) that travel and combat both depend on.
*/

package game

import (
	"container/heap"
	"math"
	"slices"
)

const (
	// MaxPathHops bounds route search so dense galaxies terminate quickly.
	MaxPathHops = 20

	// CompactorTanks replaces, not extends, the ship type's tank size when
	// a fuel compactor is installed.
	CompactorTanks = 18

	// Cargo bays added by each extra-bays gadget.
	ExtraBaysPerGadget = 5

	// Bays occupied by the Japori antidote while it is aboard.
	AntidoteBays = 10
)

// Distance computes the floor of the Euclidean distance between two systems.
func Distance(a, b SolarSystem) int {
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	return int(math.Floor(math.Sqrt(dx*dx + dy*dy)))
}

// SystemsWithinRange lists, by ascending index, every system other than from
// that lies within fuelRange parsecs.
func SystemsWithinRange(systems []SolarSystem, from, fuelRange int) []int {
	var out []int
	for i := range systems {
		if i == from {
			continue
		}
		if Distance(systems[from], systems[i]) <= fuelRange {
			out = append(out, i)
		}
	}
	return out
}

// pathNode is one (system, hop count) state of the route search.
type pathNode struct {
	system int
	hops   int
	dist   int
	prev   *pathNode
}

type pathQueue []*pathNode

func (q pathQueue) Len() int { return len(q) }
func (q pathQueue) Less(i, j int) bool {
	if q[i].dist != q[j].dist {
		return q[i].dist < q[j].dist
	}
	if q[i].hops != q[j].hops {
		return q[i].hops < q[j].hops
	}
	return q[i].system < q[j].system
}
func (q pathQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *pathQueue) Push(x any)   { *q = append(*q, x.(*pathNode)) }
func (q *pathQueue) Pop() any {
	old := *q
	n := old[len(old)-1]
	*q = old[:len(old)-1]
	return n
}

// ShortestPath returns the jumps from 'from' to 'to' (excluding 'from',
// ending with 'to') that minimize total distance, where every jump is at most
// fuelRange parsecs and there are at most MaxPathHops jumps.
// It returns nil when from == to or no such route exists.
func ShortestPath(systems []SolarSystem, from, to, fuelRange int) []int {
	if from == to || from < 0 || to < 0 || from >= len(systems) || to >= len(systems) {
		return nil
	}

	stride := MaxPathHops + 1
	best := make([]int, len(systems)*stride)
	for i := range best {
		best[i] = math.MaxInt
	}
	best[from*stride] = 0

	pq := &pathQueue{{system: from}}
	for pq.Len() > 0 {
		cur := heap.Pop(pq).(*pathNode)
		if cur.dist > best[cur.system*stride+cur.hops] {
			continue // stale
		}
		if cur.system == to {
			var route []int
			for n := cur; n.prev != nil; n = n.prev {
				route = append(route, n.system)
			}
			slices.Reverse(route)
			return route
		}
		if cur.hops == MaxPathHops {
			continue
		}
		for next := range systems {
			if next == cur.system {
				continue
			}
			d := Distance(systems[cur.system], systems[next])
			if d > fuelRange {
				continue
			}
			key := next*stride + cur.hops + 1
			nd := cur.dist + d
			if nd >= best[key] {
				continue
			}
			best[key] = nd
			heap.Push(pq, &pathNode{system: next, hops: cur.hops + 1, dist: nd, prev: cur})
		}
	}
	return nil
}

// HasGadgetEffect reports whether any installed gadget has the given effect.
func HasGadgetEffect(uni *Universe, ship *Ship, effect string) bool {
	for _, g := range ship.Gadgets {
		if g != Empty && uni.Gadget(g).Effect == effect {
			return true
		}
	}
	return false
}

// HasWeapon reports whether a weapon with the given key is installed.
func HasWeapon(uni *Universe, ship *Ship, key string) bool {
	for _, w := range ship.Weapons {
		if w != Empty && uni.Weapon(w).Key == key {
			return true
		}
	}
	return false
}

// HasShield reports whether a shield with the given key is installed.
func HasShield(uni *Universe, ship *Ship, key string) bool {
	for _, s := range ship.Shields {
		if s != Empty && uni.Shield(s).Key == key {
			return true
		}
	}
	return false
}

// FuelTanks is the tank capacity in parsecs.
func FuelTanks(uni *Universe, ship *Ship) int {
	if HasGadgetEffect(uni, ship, EffectFuelCompactor) {
		return CompactorTanks
	}
	return uni.ShipType(ship.Type).FuelTanks
}

// UsableFuel is the fuel the ship can actually burn. A tank shrunk by
// removing a compactor cannot hold more than its capacity.
func UsableFuel(uni *Universe, ship *Ship) int {
	return max(0, min(ship.Fuel, FuelTanks(uni, ship)))
}

// CargoBays is the number of usable cargo bays. Quest cargo penalties stack.
func CargoBays(uni *Universe, ship *Ship, q QuestStatus) int {
	bays := uni.ShipType(ship.Type).CargoBays
	for _, g := range ship.Gadgets {
		if g != Empty && uni.Gadget(g).Effect == EffectExtraBays {
			bays += ExtraBaysPerGadget
		}
	}
	if q.JaporiDiseaseStatus == 1 {
		bays -= AntidoteBays
	}
	if q.ReactorStatus > 0 && q.ReactorStatus < 21 {
		// The reactor shrinks as it burns down.
		bays -= 5 + 10 - (q.ReactorStatus-1)/2
	}
	return max(0, bays)
}

// FilledCargoBays is the total quantity of goods aboard.
func FilledCargoBays(ship *Ship) int {
	total := 0
	for _, q := range ship.Cargo {
		total += q
	}
	return total
}
