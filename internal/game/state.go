/*
Package game
File: state.go
Description:
    Loads the static universe from YAML and builds new game states from it.
    Lookups into the reference tables panic on out-of-range indices: a bad
    index is a caller bug, never a game condition.
*/

package game

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// LoadUniverse reads a universe file and resolves its cross references.
func LoadUniverse(path string) (*Universe, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseUniverse(f)
}

// ParseUniverse unmarshals universe YAML and resolves its cross references.
func ParseUniverse(data []byte) (*Universe, error) {
	var uni Universe
	if err := yaml.Unmarshal(data, &uni); err != nil {
		return nil, fmt.Errorf("parse universe: %w", err)
	}
	if err := uni.Resolve(); err != nil {
		return nil, err
	}
	return &uni, nil
}

// Resolve links systems to their political index and checks the keys that
// the rest of the engine dereferences.
func (u *Universe) Resolve() error {
	if len(u.ShipTypes) == 0 {
		return fmt.Errorf("universe has no ship types")
	}
	if len(u.Systems) < 2 {
		return fmt.Errorf("universe needs at least two systems, got %d", len(u.Systems))
	}
	for i := range u.Systems {
		s := &u.Systems[i]
		idx := slices.IndexFunc(u.Politics, func(p PoliticalSystem) bool { return p.Key == s.Politics })
		if idx < 0 {
			return fmt.Errorf("system %q: unknown politics %q", s.Key, s.Politics)
		}
		s.politics = idx
		if s.ResidentMonster != "" && u.ShipTypeIndex(s.ResidentMonster) < 0 {
			return fmt.Errorf("system %q: unknown resident monster %q", s.Key, s.ResidentMonster)
		}
	}
	for _, key := range u.Wormholes {
		if u.SystemIndex(key) < 0 {
			return fmt.Errorf("wormhole: unknown system %q", key)
		}
	}
	for _, st := range u.ShipTypes {
		for _, w := range st.OnlyDamagedBy {
			if u.WeaponIndex(w) < 0 {
				return fmt.Errorf("ship type %q: unknown weapon %q", st.Key, w)
			}
		}
	}
	return nil
}

// ShipType returns the catalog entry for index i.
func (u *Universe) ShipType(i int) *ShipType {
	if i < 0 || i >= len(u.ShipTypes) {
		panic(fmt.Sprintf("game: ship type index %d out of range [0,%d)", i, len(u.ShipTypes)))
	}
	return &u.ShipTypes[i]
}

// Weapon returns the catalog entry for index i.
func (u *Universe) Weapon(i int) *Weapon {
	if i < 0 || i >= len(u.Weapons) {
		panic(fmt.Sprintf("game: weapon index %d out of range [0,%d)", i, len(u.Weapons)))
	}
	return &u.Weapons[i]
}

// Shield returns the catalog entry for index i.
func (u *Universe) Shield(i int) *Shield {
	if i < 0 || i >= len(u.Shields) {
		panic(fmt.Sprintf("game: shield index %d out of range [0,%d)", i, len(u.Shields)))
	}
	return &u.Shields[i]
}

// Gadget returns the catalog entry for index i.
func (u *Universe) Gadget(i int) *Gadget {
	if i < 0 || i >= len(u.Gadgets) {
		panic(fmt.Sprintf("game: gadget index %d out of range [0,%d)", i, len(u.Gadgets)))
	}
	return &u.Gadgets[i]
}

// PoliticalSystem returns the catalog entry for index i.
func (u *Universe) PoliticalSystem(i int) *PoliticalSystem {
	if i < 0 || i >= len(u.Politics) {
		panic(fmt.Sprintf("game: politics index %d out of range [0,%d)", i, len(u.Politics)))
	}
	return &u.Politics[i]
}

func (u *Universe) ShipTypeIndex(key string) int {
	return slices.IndexFunc(u.ShipTypes, func(s ShipType) bool { return s.Key == key })
}

func (u *Universe) WeaponIndex(key string) int {
	return slices.IndexFunc(u.Weapons, func(w Weapon) bool { return w.Key == key })
}

func (u *Universe) ShieldIndex(key string) int {
	return slices.IndexFunc(u.Shields, func(s Shield) bool { return s.Key == key })
}

func (u *Universe) GadgetIndex(key string) int {
	return slices.IndexFunc(u.Gadgets, func(g Gadget) bool { return g.Key == key })
}

func (u *Universe) SystemIndex(key string) int {
	return slices.IndexFunc(u.Systems, func(s SolarSystem) bool { return s.Key == key })
}

// NewGameOptions configures a fresh game.
type NewGameOptions struct {
	Commander   CrewMember
	Difficulty  Difficulty
	StartSystem string // Defaults to the first system in the file
}

// NewGame builds the initial state: the starting ship docked at the start
// system with a full tank, and every system unvisited except the start.
func NewGame(uni *Universe, opts NewGameOptions) (*GameState, error) {
	start := 0
	if opts.StartSystem != "" {
		start = uni.SystemIndex(opts.StartSystem)
		if start < 0 {
			return nil, fmt.Errorf("unknown start system %q", opts.StartSystem)
		}
	}
	shipType := 0
	if uni.BalanceConfig.StartingShip != "" {
		shipType = uni.ShipTypeIndex(uni.BalanceConfig.StartingShip)
		if shipType < 0 {
			return nil, fmt.Errorf("unknown starting ship %q", uni.BalanceConfig.StartingShip)
		}
	}

	ship := NewShip(uni, shipType)
	ship.Fuel = uni.ShipType(shipType).FuelTanks
	if w := uni.WeaponIndex(uni.BalanceConfig.StartingWeapon); w >= 0 && len(ship.Weapons) > 0 {
		ship.Weapons[0] = w
	}
	ship.Crew = []CrewMember{opts.Commander}

	gs := &GameState{
		Universe:      uni,
		Systems:       slices.Clone(uni.Systems),
		CurrentSystem: start,
		Ship:          ship,
		Credits:       uni.BalanceConfig.StartingCredits,
		Difficulty:    opts.Difficulty,
		Quests:        QuestStatus{MonsterHunts: map[string]int{}},
	}
	for i := range gs.Systems {
		gs.Systems[i].SpecialEvent = Empty
	}
	gs.Systems[start].Visited = true
	for _, key := range uni.Wormholes {
		gs.Wormholes = append(gs.Wormholes, uni.SystemIndex(key))
	}
	for i := range gs.Systems {
		if m := gs.Systems[i].ResidentMonster; m != "" {
			gs.Quests.MonsterHunts[m] = MonsterHuntActive
		}
	}
	return gs, nil
}

// NewShip returns a ship of the given type with full hull, an empty tank and
// every slot empty.
func NewShip(uni *Universe, shipType int) Ship {
	st := uni.ShipType(shipType)
	return Ship{
		Type:         shipType,
		Hull:         st.HullStrength,
		Weapons:      emptySlots(st.WeaponSlots),
		Shields:      emptySlots(st.ShieldSlots),
		ShieldCharge: make([]int, st.ShieldSlots),
		Gadgets:      emptySlots(st.GadgetSlots),
		Cargo:        make([]int, NumGoods),
	}
}

func emptySlots(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = Empty
	}
	return s
}

// Clone returns a deep copy of the ship.
func (s Ship) Clone() Ship {
	s.Weapons = slices.Clone(s.Weapons)
	s.Shields = slices.Clone(s.Shields)
	s.ShieldCharge = slices.Clone(s.ShieldCharge)
	s.Gadgets = slices.Clone(s.Gadgets)
	s.Cargo = slices.Clone(s.Cargo)
	s.Crew = slices.Clone(s.Crew)
	return s
}

// Clone returns a deep copy of the game state sharing the same Universe.
func (gs *GameState) Clone() *GameState {
	c := *gs
	c.Systems = slices.Clone(gs.Systems)
	c.Wormholes = slices.Clone(gs.Wormholes)
	c.Ship = gs.Ship.Clone()
	c.Quests.MonsterHunts = maps.Clone(gs.Quests.MonsterHunts)
	return &c
}

// Rebind points a game at a (possibly reloaded) universe. The galaxy must
// list the same systems in the same order; static fields are refreshed from
// the universe while per-game fields are kept.
func (gs *GameState) Rebind(uni *Universe) error {
	if len(gs.Systems) != len(uni.Systems) {
		return fmt.Errorf("universe has %d systems, game has %d", len(uni.Systems), len(gs.Systems))
	}
	for i := range gs.Systems {
		if gs.Systems[i].Key != uni.Systems[i].Key {
			return fmt.Errorf("system %d: universe has %q, game has %q", i, uni.Systems[i].Key, gs.Systems[i].Key)
		}
	}
	if gs.Ship.Type < 0 || gs.Ship.Type >= len(uni.ShipTypes) {
		return fmt.Errorf("ship type %d not in universe", gs.Ship.Type)
	}
	for i := range gs.Systems {
		s := uni.Systems[i]
		s.Visited = gs.Systems[i].Visited
		s.SpecialEvent = gs.Systems[i].SpecialEvent
		gs.Systems[i] = s
	}
	if gs.Quests.MonsterHunts == nil {
		gs.Quests.MonsterHunts = map[string]int{}
	}
	gs.Universe = uni
	return nil
}

// System returns the solar system at index i.
func (gs *GameState) System(i int) *SolarSystem {
	if i < 0 || i >= len(gs.Systems) {
		panic(fmt.Sprintf("game: system index %d out of range [0,%d)", i, len(gs.Systems)))
	}
	return &gs.Systems[i]
}

// Politics returns the political system governing system i.
func (gs *GameState) Politics(i int) *PoliticalSystem {
	return gs.Universe.PoliticalSystem(gs.System(i).PoliticsIndex())
}

// ShipType returns the catalog entry of the commander's ship.
func (gs *GameState) ShipType() *ShipType {
	return gs.Universe.ShipType(gs.Ship.Type)
}
