/*
Package game
File: warp.go
Description:
    Validates and executes warps between systems.

    A warp moves through these states:
        Docked -> Validating -> Rejected
                             -> Executing -> InTransit -> Arrived
    ValidateWarp never mutates. ExecuteWarp charges the commander and
    returns a Journey; the caller then steps the Journey one click (parsec)
    at a time, handling any encounter it yields, until it arrives.
*/

package game

import "fmt"

const (
	// DebtCeiling is the largest debt a commander may warp with.
	DebtCeiling = 100000

	// FabricRipInitialProbability is the rip chance right after the failed
	// experiment; at exactly this value the rip always happens.
	FabricRipInitialProbability = 25
)

// RejectReason classifies why a warp was refused.
type RejectReason int

const (
	ReasonBadDestination RejectReason = iota + 1
	ReasonDebtTooLarge
	ReasonPassengerConstraint
	ReasonNoWormhole
	ReasonInsufficientFuel
	ReasonInsufficientCredits
)

func (r RejectReason) String() string {
	switch r {
	case ReasonBadDestination:
		return "bad_destination"
	case ReasonDebtTooLarge:
		return "debt_too_large"
	case ReasonPassengerConstraint:
		return "passenger_constraint"
	case ReasonNoWormhole:
		return "no_wormhole"
	case ReasonInsufficientFuel:
		return "insufficient_fuel"
	case ReasonInsufficientCredits:
		return "insufficient_credits"
	}
	return "unknown"
}

// WarpError is a refused warp. The game state is untouched when one is
// returned; the commander may adjust and try again.
type WarpError struct {
	Reason  RejectReason
	Message string
}

func (e *WarpError) Error() string {
	return fmt.Sprintf("warp rejected (%s): %s", e.Reason, e.Message)
}

func reject(reason RejectReason, format string, args ...any) *WarpError {
	return &WarpError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// wildApprovedWeapons are the weapons Jonathan Wild trusts to protect him.
var wildApprovedWeapons = []string{WeaponBeamLaser, WeaponMilitaryLaser, WeaponMorganLaser}

// ValidateWarp checks every precondition of a warp, in a fixed order, and
// returns the first failure. It has no side effects.
func ValidateWarp(gs *GameState, dest int, viaWormhole bool) (WarpCost, error) {
	cur := gs.CurrentSystem
	if dest < 0 || dest >= len(gs.Systems) {
		return WarpCost{}, reject(ReasonBadDestination, "system %d does not exist", dest)
	}
	if dest == cur {
		return WarpCost{}, reject(ReasonBadDestination, "already at %s", gs.Systems[dest].Name)
	}

	if gs.Debt > DebtCeiling {
		return WarpCost{}, reject(ReasonDebtTooLarge, "debt of %d credits exceeds %d", gs.Debt, DebtCeiling)
	}

	if gs.Quests.WildStatus == 1 {
		armed := false
		for _, key := range wildApprovedWeapons {
			if HasWeapon(gs.Universe, &gs.Ship, key) {
				armed = true
				break
			}
		}
		if !armed {
			return WarpCost{}, reject(ReasonPassengerConstraint, "Jonathan Wild will not travel without at least a beam laser")
		}
	}

	cost := PreviewWarpCost(gs, cur, dest, viaWormhole)
	if viaWormhole {
		if !gs.WormholeExists(cur, dest) {
			return WarpCost{}, reject(ReasonNoWormhole, "no wormhole from %s to %s", gs.Systems[cur].Name, gs.Systems[dest].Name)
		}
	} else if fuel := UsableFuel(gs.Universe, &gs.Ship); cost.Fuel > fuel {
		return WarpCost{}, reject(ReasonInsufficientFuel, "need %d parsecs of fuel, have %d", cost.Fuel, fuel)
	}

	if gs.Credits < cost.Total {
		return WarpCost{}, reject(ReasonInsufficientCredits, "warp costs %d credits, have %d", cost.Total, gs.Credits)
	}
	return cost, nil
}

// Journey is a warp in progress. Each remaining click is one parsec and one
// encounter roll.
type Journey struct {
	Origin      int  `json:"origin"`
	Destination int  `json:"destination"`
	ViaWormhole bool `json:"via_wormhole"`
	Rerouted    bool `json:"rerouted"`
	Clicks      int  `json:"clicks"`
	Remaining   int  `json:"remaining"`
	Arrived     bool `json:"arrived"`

	// Per-trip encounter modifiers.
	Raided    bool `json:"raided"`
	Inspected bool `json:"inspected"`

	Cost WarpCost `json:"cost"`

	state *GameState
}

// ExecuteWarp validates and, on success, starts the warp: it charges the
// costs, burns fuel, recharges shields and checks for a fabric rip.
// On rejection the state is unchanged.
func ExecuteWarp(r Rand, gs *GameState, dest int, viaWormhole bool) (*Journey, error) {
	cost, err := ValidateWarp(gs, dest, viaWormhole)
	if err != nil {
		return nil, err
	}

	gs.Credits -= cost.Total
	gs.Ship.Fuel = UsableFuel(gs.Universe, &gs.Ship) - cost.Fuel
	RechargeShields(gs.Universe, &gs.Ship)
	gs.Arrival = ArrivalFlags{}

	j := &Journey{
		Origin:      gs.CurrentSystem,
		Destination: dest,
		ViaWormhole: viaWormhole,
		Cost:        cost,
		state:       gs,
	}

	if p := gs.Quests.FabricRipProbability; p > 0 && (p == FabricRipInitialProbability || random(r, 100) < p) {
		j.Destination = randomOtherSystem(r, len(gs.Systems), gs.CurrentSystem)
		j.Rerouted = true
		gs.Arrival = ArrivalFlags{}
	}

	if !viaWormhole {
		j.Clicks = Distance(gs.Systems[j.Origin], gs.Systems[j.Destination])
	}
	j.Remaining = j.Clicks
	return j, nil
}

// Resume reattaches a journey decoded from JSON to its game state.
func (j *Journey) Resume(gs *GameState) { j.state = gs }

// Next rolls the remaining clicks in order and returns the first encounter.
// It returns nil once the ship has arrived.
func (j *Journey) Next(r Rand) *Encounter {
	if j.Arrived {
		return nil
	}
	for j.Remaining > 0 {
		j.Remaining--
		if enc := RollEncounter(r, j.state, j); enc != nil {
			return enc
		}
	}
	j.arrive()
	return nil
}

// FinalClick reports whether the roll in progress is the last before arrival.
func (j *Journey) FinalClick() bool { return j.Remaining == 0 }

func (j *Journey) arrive() {
	gs := j.state
	gs.CurrentSystem = j.Destination
	gs.Systems[j.Destination].Visited = true
	gs.Days++
	if gs.Insurance {
		gs.NoClaim++
	}
	if gs.Quests.FabricRipProbability > 0 {
		gs.Quests.FabricRipProbability--
	}
	j.Arrived = true
}

// RechargeShields restores every installed shield to full strength.
func RechargeShields(uni *Universe, ship *Ship) {
	for i, s := range ship.Shields {
		if i >= len(ship.ShieldCharge) {
			break
		}
		if s == Empty {
			ship.ShieldCharge[i] = 0
			continue
		}
		ship.ShieldCharge[i] = uni.Shield(s).Power
	}
}

func randomOtherSystem(r Rand, n, exclude int) int {
	i := random(r, n-1)
	if i >= exclude {
		i++
	}
	return i
}
