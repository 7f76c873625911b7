/*
Package game
File: economy.go
Description:
    Credit flows tied to travel:
    1. The itemized cost of a warp (wormhole tax, wages, insurance, interest).
    2. Refuelling at a depot.
    3. Ship valuation and the bounty paid for destroying a ship.
*/

package game

const (
	// WormholeTaxFactor multiplies the ship type's fuel cost per parsec.
	WormholeTaxFactor = 25

	// WageFactor multiplies a mercenary's summed skills to get a daily wage.
	WageFactor = 3

	// MaxNoClaim caps the no-claim discount, in percent.
	MaxNoClaim = 90

	MinBounty  = 25
	MaxBounty  = 2500
	bountyStep = 25
)

// WormholeExists reports whether the wormhole ring leads from a to b.
// Wormholes are one-way: entry i exits at entry i+1, wrapping around.
func (gs *GameState) WormholeExists(a, b int) bool {
	for i, w := range gs.Wormholes {
		if w == a {
			return gs.Wormholes[(i+1)%len(gs.Wormholes)] == b
		}
	}
	return false
}

// WormholeTax is the toll for jumping through a wormhole with this ship.
func WormholeTax(uni *Universe, ship *Ship) int {
	return uni.ShipType(ship.Type).CostOfFuel * WormholeTaxFactor
}

// CrewWages is the daily pay of every mercenary aboard. The commander in
// slot 0 works for free.
func CrewWages(ship *Ship) int {
	total := 0
	for i, c := range ship.Crew {
		if i == 0 {
			continue
		}
		total += (c.Pilot + c.Fighter + c.Trader + c.Engineer) * WageFactor
	}
	return total
}

// Interest is the daily interest on a debt: a tenth, and at least one credit.
func Interest(debt int) int {
	if debt <= 0 {
		return 0
	}
	return max(1, debt/10)
}

// InsurancePremium is the daily premium, reduced by up to 90% for the
// number of days without a claim.
func InsurancePremium(gs *GameState) int {
	if !gs.Insurance {
		return 0
	}
	value := ShipPrice(gs.Universe, &gs.Ship)
	discount := min(max(gs.NoClaim, 0), MaxNoClaim)
	return max(1, (value*5/2000)*(100-discount)/100)
}

// PreviewWarpCost itemizes what a warp from 'from' to 'to' will cost.
// It has no side effects.
func PreviewWarpCost(gs *GameState, from, to int, viaWormhole bool) WarpCost {
	var c WarpCost
	if viaWormhole {
		c.WormholeTax = WormholeTax(gs.Universe, &gs.Ship)
	} else {
		c.Fuel = Distance(*gs.System(from), *gs.System(to))
	}
	c.CrewWages = CrewWages(&gs.Ship)
	c.Insurance = InsurancePremium(gs)
	c.Interest = Interest(gs.Debt)
	c.Total = c.WormholeTax + c.CrewWages + c.Insurance + c.Interest
	return c
}

// FullRefuelCost is the price of topping the tank up to capacity.
func FullRefuelCost(uni *Universe, ship *Ship) int {
	missing := FuelTanks(uni, ship) - UsableFuel(uni, ship)
	return max(0, missing) * uni.ShipType(ship.Type).CostOfFuel
}

// BuyFuel spends up to 'amount' credits on fuel and returns the parsecs
// bought. It never overfills the tank and never spends more than the
// commander has; only whole parsecs are bought.
func BuyFuel(gs *GameState, amount int) int {
	perUnit := gs.ShipType().CostOfFuel
	if amount <= 0 || perUnit <= 0 {
		return 0
	}
	amount = min(amount, FullRefuelCost(gs.Universe, &gs.Ship), max(gs.Credits, 0))
	parsecs := amount / perUnit

	gs.Ship.Fuel = UsableFuel(gs.Universe, &gs.Ship) + parsecs
	gs.Credits -= parsecs * perUnit
	return parsecs
}

// ShipPrice is the value of a ship and its installed equipment.
func ShipPrice(uni *Universe, ship *Ship) int {
	price := uni.ShipType(ship.Type).Price
	for _, w := range ship.Weapons {
		if w != Empty {
			price += uni.Weapon(w).Price
		}
	}
	for _, s := range ship.Shields {
		if s != Empty {
			price += uni.Shield(s).Price
		}
	}
	for _, g := range ship.Gadgets {
		if g != Empty {
			price += uni.Gadget(g).Price
		}
	}
	return price
}

// CalculateBounty is the reward for destroying a ship worth shipPrice,
// rounded down to a multiple of 25 and kept within [25, 2500].
func CalculateBounty(shipPrice int) int {
	b := shipPrice / 200 / bountyStep * bountyStep
	return min(max(b, MinBounty), MaxBounty)
}
