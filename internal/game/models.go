/*
Package game
File: models.go
Description:
    Defines the data structures used by the warp engine.
    Reference tables (ship types, equipment, politics) map directly to
    'universe.yaml'. Runtime structures (Ship, SolarSystem, GameState) are
    what a save file snapshots and what the API serializes to JSON.

    No logic is performed here beyond trivial accessors.
*/

package game

import (
	"fmt"
	"strings"
)

// Difficulty is the commander-selected game difficulty.
type Difficulty int

const (
	Beginner Difficulty = iota
	Easy
	Normal
	Hard
	Impossible
)

func (d Difficulty) String() string {
	switch d {
	case Beginner:
		return "beginner"
	case Easy:
		return "easy"
	case Normal:
		return "normal"
	case Hard:
		return "hard"
	case Impossible:
		return "impossible"
	}
	return "unknown"
}

// ParseDifficulty maps a difficulty name to its level.
func ParseDifficulty(s string) (Difficulty, error) {
	for d := Beginner; d <= Impossible; d++ {
		if strings.EqualFold(s, d.String()) {
			return d, nil
		}
	}
	return Normal, fmt.Errorf("unknown difficulty %q", s)
}

// Empty marks an unused weapon/shield/gadget slot or an unset index.
const Empty = -1

// Number of tradeable goods. Prices are computed elsewhere; the engine only
// tracks quantities and legality.
const NumGoods = 10

// Goods whose legality depends on the local political system.
const (
	GoodFirearms  = 5
	GoodNarcotics = 8
)

// Gadget effects understood by the engine.
const (
	EffectExtraBays     = "extra_bays"
	EffectAutoRepair    = "auto_repair"
	EffectNavigating    = "navigating"
	EffectTargeting     = "targeting"
	EffectCloaking      = "cloaking"
	EffectFuelCompactor = "fuel_compactor"
)

// Catalog keys the engine references by name.
const (
	WeaponPulseLaser    = "pulse_laser"
	WeaponBeamLaser     = "beam_laser"
	WeaponMilitaryLaser = "military_laser"
	WeaponMorganLaser   = "morgan_laser"
	ShieldReflective    = "reflective_shield"
)

// GameBalance stores global tuning variables loaded from 'universe.yaml'.
type GameBalance struct {
	StartingCredits   int    `yaml:"starting_credits" json:"starting_credits"`
	StartingShip      string `yaml:"starting_ship" json:"starting_ship"`             // Ship type key given to a new commander
	StartingWeapon    string `yaml:"starting_weapon" json:"starting_weapon"`         // Weapon key installed in slot 0
	FamousCaptainShip string `yaml:"famous_captain_ship" json:"famous_captain_ship"` // Ship type flown by Ahab, Conrad and Huie
	DerelictShip      string `yaml:"derelict_ship" json:"derelict_ship"`             // Ship type of the Marie Celeste
}

// Loadout is a fixed equipment list for ships that are never generated
// randomly (monsters, famous captains).
type Loadout struct {
	Weapons  []string `yaml:"weapons" json:"weapons"`
	Shields  []string `yaml:"shields" json:"shields"`
	Gadgets  []string `yaml:"gadgets" json:"gadgets"`
	Pilot    int      `yaml:"pilot" json:"pilot"`
	Fighter  int      `yaml:"fighter" json:"fighter"`
	Trader   int      `yaml:"trader" json:"trader"`
	Engineer int      `yaml:"engineer" json:"engineer"`
}

// ShipType is one row of the ship catalog.
type ShipType struct {
	Key          string `yaml:"key" json:"key"`
	Name         string `yaml:"name" json:"name"`
	CargoBays    int    `yaml:"cargo_bays" json:"cargo_bays"`
	WeaponSlots  int    `yaml:"weapon_slots" json:"weapon_slots"`
	ShieldSlots  int    `yaml:"shield_slots" json:"shield_slots"`
	GadgetSlots  int    `yaml:"gadget_slots" json:"gadget_slots"`
	CrewQuarters int    `yaml:"crew_quarters" json:"crew_quarters"`
	FuelTanks    int    `yaml:"fuel_tanks" json:"fuel_tanks"`
	MinTechLevel int    `yaml:"min_tech_level" json:"min_tech_level"`
	CostOfFuel   int    `yaml:"cost_of_fuel" json:"cost_of_fuel"` // Credits per parsec of fuel
	Price        int    `yaml:"price" json:"price"`
	Occurrence   int    `yaml:"occurrence" json:"occurrence"` // Weight when generating opponents
	HullStrength int    `yaml:"hull_strength" json:"hull_strength"`
	Size         int    `yaml:"size" json:"size"`

	// Encounter strength ratings: the minimum faction strength of a system
	// for this type to appear as that faction's ship. Negative means never.
	Police  int `yaml:"police" json:"police"`
	Pirates int `yaml:"pirates" json:"pirates"`
	Traders int `yaml:"traders" json:"traders"`

	// OnlyDamagedBy restricts which weapon keys can hurt this hull.
	OnlyDamagedBy []string `yaml:"only_damaged_by" json:"only_damaged_by,omitempty"`
	Loadout       *Loadout `yaml:"loadout" json:"loadout,omitempty"`
}

// Weapon is one row of the weapon catalog.
type Weapon struct {
	Key       string `yaml:"key" json:"key"`
	Name      string `yaml:"name" json:"name"`
	Power     int    `yaml:"power" json:"power"`
	Price     int    `yaml:"price" json:"price"`
	TechLevel int    `yaml:"tech_level" json:"tech_level"`
	Chance    int    `yaml:"chance" json:"chance"` // Percent weight when equipping opponents
}

// Shield is one row of the shield catalog.
type Shield struct {
	Key       string `yaml:"key" json:"key"`
	Name      string `yaml:"name" json:"name"`
	Power     int    `yaml:"power" json:"power"`
	Price     int    `yaml:"price" json:"price"`
	TechLevel int    `yaml:"tech_level" json:"tech_level"`
	Chance    int    `yaml:"chance" json:"chance"`
}

// Gadget is one row of the gadget catalog.
type Gadget struct {
	Key       string `yaml:"key" json:"key"`
	Name      string `yaml:"name" json:"name"`
	Effect    string `yaml:"effect" json:"effect"`
	Price     int    `yaml:"price" json:"price"`
	TechLevel int    `yaml:"tech_level" json:"tech_level"`
	Chance    int    `yaml:"chance" json:"chance"`
}

// PoliticalSystem determines the faction strengths and legality of goods.
type PoliticalSystem struct {
	Key        string `yaml:"key" json:"key"`
	Name       string `yaml:"name" json:"name"`
	Police     int    `yaml:"police" json:"police"`
	Pirates    int    `yaml:"pirates" json:"pirates"`
	Traders    int    `yaml:"traders" json:"traders"`
	MinTech    int    `yaml:"min_tech" json:"min_tech"`
	MaxTech    int    `yaml:"max_tech" json:"max_tech"`
	BribeLevel int    `yaml:"bribe_level" json:"bribe_level"`
	DrugsOK    bool   `yaml:"drugs_ok" json:"drugs_ok"`
	FirearmsOK bool   `yaml:"firearms_ok" json:"firearms_ok"`
}

// SolarSystem represents a node of the galaxy.
// Coordinates and politics are static; Visited and SpecialEvent are per game.
type SolarSystem struct {
	Key       string `yaml:"key" json:"key"`
	Name      string `yaml:"name" json:"name"`
	X         int    `yaml:"x" json:"x"`
	Y         int    `yaml:"y" json:"y"`
	TechLevel int    `yaml:"tech_level" json:"tech_level"`
	Politics  string `yaml:"politics" json:"politics"`
	Size      int    `yaml:"size" json:"size"`
	Resource  string `yaml:"resource" json:"resource,omitempty"`

	// ResidentMonster is a ship type key that lies in wait on the last click
	// before arrival while its hunt is active.
	ResidentMonster string `yaml:"resident_monster" json:"resident_monster,omitempty"`

	Visited      bool `yaml:"-" json:"visited"`
	SpecialEvent int  `yaml:"-" json:"special_event"`

	politics int // Resolved index into Universe.Politics
}

// PoliticsIndex returns the resolved political-system index.
func (s SolarSystem) PoliticsIndex() int { return s.politics }

// Universe is the root configuration struct, mapping to the entire 'universe.yaml' file.
type Universe struct {
	BalanceConfig GameBalance       `yaml:"game_balance"`
	ShipTypes     []ShipType        `yaml:"ship_types"`
	Weapons       []Weapon          `yaml:"weapons"`
	Shields       []Shield          `yaml:"shields"`
	Gadgets       []Gadget          `yaml:"gadgets"`
	Politics      []PoliticalSystem `yaml:"politics"`
	Systems       []SolarSystem     `yaml:"systems"`
	Wormholes     []string          `yaml:"wormholes"` // System keys forming the wormhole ring
}

// CrewMember holds the four base skills of a person aboard a ship.
type CrewMember struct {
	Name     string `json:"name"`
	Pilot    int    `json:"pilot"`
	Fighter  int    `json:"fighter"`
	Trader   int    `json:"trader"`
	Engineer int    `json:"engineer"`
}

// Ship represents any vessel, the commander's or an opponent's.
// Slot arrays are sized by the ship type and hold catalog indices or Empty.
type Ship struct {
	Type         int          `json:"type"`
	Hull         int          `json:"hull"`
	Fuel         int          `json:"fuel"`
	Weapons      []int        `json:"weapons"`
	Shields      []int        `json:"shields"`
	ShieldCharge []int        `json:"shield_charge"`
	Gadgets      []int        `json:"gadgets"`
	Cargo        []int        `json:"cargo"`
	Crew         []CrewMember `json:"crew"` // Crew[0] is the commander on the player's ship
}

// QuestStatus carries the quest flags the engine reads.
// Quest progression itself is driven elsewhere.
type QuestStatus struct {
	WildStatus           int            `json:"wild_status"`            // 1 = Jonathan Wild aboard
	ReactorStatus        int            `json:"reactor_status"`         // 1..20 = reactor aboard, counting days
	JaporiDiseaseStatus  int            `json:"japori_disease_status"`  // 1 = antidote aboard
	ArtifactOnBoard      bool           `json:"artifact_on_board"`      // Alien artifact draws mantis attacks
	MonsterHunts         map[string]int `json:"monster_hunts"`          // Ship type key -> MonsterHunt* status
	FabricRipProbability int            `json:"fabric_rip_probability"` // > 0 after the failed experiment
}

// Resident monster hunt states.
const (
	MonsterHuntNone   = 0
	MonsterHuntActive = 1
	MonsterHuntSlain  = 2
)

// ArrivalFlags are one-per-arrival charges reset by every warp.
type ArrivalFlags struct {
	PaidForNewspaper bool `json:"paid_for_newspaper"`
}

// GameState is the whole mutable state of one game.
type GameState struct {
	Universe *Universe `json:"-"`

	Systems       []SolarSystem `json:"systems"`
	Wormholes     []int         `json:"wormholes"` // Ring: Wormholes[i] leads to Wormholes[i+1]
	CurrentSystem int           `json:"current_system"`
	Ship          Ship          `json:"ship"`

	Credits      int        `json:"credits"`
	Debt         int        `json:"debt"`
	PoliceRecord int        `json:"police_record"`
	Reputation   int        `json:"reputation"`
	Difficulty   Difficulty `json:"difficulty"`
	Days         int        `json:"days"`

	Insurance bool `json:"insurance"`
	NoClaim   int  `json:"no_claim"` // Days without an insurance claim

	VeryRare RareEventSet `json:"very_rare"`
	Quests   QuestStatus  `json:"quests"`
	Arrival  ArrivalFlags `json:"arrival"`
}

// WarpCost is the itemized credit cost of a prospective warp.
// Fuel is a resource cost in parsecs and is not part of Total.
type WarpCost struct {
	WormholeTax int `json:"wormhole_tax"`
	CrewWages   int `json:"crew_wages"`
	Insurance   int `json:"insurance"`
	Interest    int `json:"interest"`
	Fuel        int `json:"fuel"`
	Total       int `json:"total"`
}
