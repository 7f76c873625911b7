package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Distances: alpha-beta 5, beta-gamma 5, gamma-eps 5, alpha-gamma 10,
// alpha-delta 12, alpha-eps 15.
const testUniverseYAML = `
game_balance:
  starting_credits: 1000
  starting_ship: gnat
  starting_weapon: pulse_laser
  famous_captain_ship: famous_captain
  derelict_ship: hornet

ship_types:
  - { key: flea,   name: Flea,   cargo_bays: 10, crew_quarters: 1, fuel_tanks: 20, cost_of_fuel: 1, price: 2000, occurrence: 2, hull_strength: 25, size: 0, police: -1, pirates: -1, traders: 0 }
  - { key: gnat,   name: Gnat,   cargo_bays: 15, weapon_slots: 1, shield_slots: 1, gadget_slots: 1, crew_quarters: 2, fuel_tanks: 14, cost_of_fuel: 2, price: 10000, occurrence: 50, hull_strength: 100, size: 1, police: 0, pirates: 0, traders: 0 }
  - { key: hornet, name: Hornet, cargo_bays: 60, weapon_slots: 3, shield_slots: 2, gadget_slots: 2, crew_quarters: 3, fuel_tanks: 16, cost_of_fuel: 15, price: 100000, occurrence: 48, hull_strength: 150, size: 3, police: 0, pirates: 0, traders: 0 }
  - key: scarab
    name: Scarab
    weapon_slots: 2
    crew_quarters: 1
    fuel_tanks: 1
    cost_of_fuel: 1
    price: 500000
    hull_strength: 400
    size: 3
    police: -1
    pirates: -1
    traders: -1
    only_damaged_by: [pulse_laser]
    loadout: { weapons: [military_laser, military_laser], pilot: 5, fighter: 6, trader: 1, engineer: 8 }
  - key: mantis
    name: Mantis
    weapon_slots: 1
    crew_quarters: 1
    fuel_tanks: 1
    cost_of_fuel: 1
    price: 500000
    hull_strength: 300
    size: 2
    police: -1
    pirates: -1
    traders: -1
    loadout: { weapons: [military_laser], pilot: 8, fighter: 8, trader: 1, engineer: 8 }
  - key: famous_captain
    name: Famous Captain
    weapon_slots: 3
    shield_slots: 2
    crew_quarters: 1
    fuel_tanks: 1
    cost_of_fuel: 1
    price: 400000
    hull_strength: 300
    size: 4
    police: -1
    pirates: -1
    traders: -1
    loadout: { weapons: [military_laser, military_laser, military_laser], shields: [reflective_shield, reflective_shield], pilot: 10, fighter: 10, trader: 10, engineer: 10 }

weapons:
  - { key: pulse_laser,    name: Pulse laser,    power: 15, price: 2000,  chance: 50 }
  - { key: beam_laser,     name: Beam laser,     power: 25, price: 12500, chance: 35 }
  - { key: military_laser, name: Military laser, power: 35, price: 35000, chance: 15 }

shields:
  - { key: energy_shield,     name: Energy shield,     power: 100, price: 5000,  chance: 70 }
  - { key: reflective_shield, name: Reflective shield, power: 200, price: 20000, chance: 30 }

gadgets:
  - { key: extra_bays,     effect: extra_bays,     price: 2500,   chance: 35 }
  - { key: auto_repair,    effect: auto_repair,    price: 7500,   chance: 20 }
  - { key: navigating,     effect: navigating,     price: 15000,  chance: 20 }
  - { key: targeting,      effect: targeting,      price: 25000,  chance: 20 }
  - { key: cloaking,       effect: cloaking,       price: 100000, chance: 5 }
  - { key: fuel_compactor, effect: fuel_compactor, price: 30000,  chance: 0 }

politics:
  - { key: calm, name: Calm, police: 0,  pirates: 0,  traders: 0,  drugs_ok: true,  firearms_ok: true }
  - { key: busy, name: Busy, police: 10, pirates: 10, traders: 10, drugs_ok: false, firearms_ok: false }

systems:
  - { key: alpha, name: Alpha, x: 0, y: 0,  tech_level: 5, politics: calm }
  - { key: beta,  name: Beta,  x: 3, y: 4,  tech_level: 5, politics: calm }
  - { key: gamma, name: Gamma, x: 6, y: 8,  tech_level: 5, politics: calm }
  - { key: delta, name: Delta, x: 0, y: 12, tech_level: 5, politics: busy }
  - { key: eps,   name: Eps,   x: 9, y: 12, tech_level: 5, politics: calm, resident_monster: scarab }

wormholes: [alpha, delta]
`

const (
	alpha = iota
	beta
	gamma
	delta
	eps
)

func testUniverse(t *testing.T) *Universe {
	t.Helper()
	uni, err := ParseUniverse([]byte(testUniverseYAML))
	require.NoError(t, err)
	return uni
}

func newTestGame(t *testing.T) *GameState {
	t.Helper()
	gs, err := NewGame(testUniverse(t), NewGameOptions{
		Commander:  CrewMember{Name: "Jameson", Pilot: 4, Fighter: 4, Trader: 4, Engineer: 4},
		Difficulty: Normal,
	})
	require.NoError(t, err)
	return gs
}

// fixedRand always rolls v, clamped into range.
type fixedRand int

func (f fixedRand) IntN(n int) int { return min(int(f), n-1) }

// maxRand rolls the highest value of every range.
const maxRand = fixedRand(1 << 30)

// seqRand replays vals in order, clamped into range, repeating the last.
type seqRand struct {
	vals []int
	i    int
}

func (s *seqRand) IntN(n int) int {
	v := s.vals[min(s.i, len(s.vals)-1)]
	s.i++
	return min(v, n-1)
}
