/*
Package game
File: encounter.go
Description:
    Rolls for encounters, one roll per click of a journey.

    Encounter codes are tiered:
        0-9   police
        10-19 pirates
        20-29 traders
        30-69 monsters and other specials
        70+   once-per-game events
    Opponents are generated when the encounter is rolled, and their opening
    behavior (attack, flee, ignore, inspect, trade) is decided at the same
    time from the commander's record and reputation.
*/

package game

// EncounterType is the tiered encounter code.
type EncounterType int

const (
	PoliceInspection EncounterType = 0
	PoliceIgnore     EncounterType = 1
	PoliceAttack     EncounterType = 2
	PoliceFlee       EncounterType = 3

	PirateAttack    EncounterType = 10
	PirateFlee      EncounterType = 11
	PirateIgnore    EncounterType = 12
	PirateSurrender EncounterType = 13

	TraderIgnore    EncounterType = 20
	TraderFlee      EncounterType = 21
	TraderAttack    EncounterType = 22
	TraderSurrender EncounterType = 23
	TraderSell      EncounterType = 24
	TraderBuy       EncounterType = 25

	SpaceMonsterAttack EncounterType = 30
	SpaceMonsterIgnore EncounterType = 31
	DragonflyAttack    EncounterType = 40
	DragonflyIgnore    EncounterType = 41
	MantisAttack       EncounterType = 50
	ScarabAttack       EncounterType = 60
	ScarabIgnore       EncounterType = 61

	FamousCaptain       EncounterType = 70
	FamousCaptainAttack EncounterType = 71
	CaptainAhab         EncounterType = 72
	CaptainConrad       EncounterType = 73
	CaptainHuie         EncounterType = 74
	MarieCeleste        EncounterType = 80
	BottleOld           EncounterType = 81
	BottleGood          EncounterType = 82
)

func (t EncounterType) IsPolice() bool  { return t >= 0 && t < 10 }
func (t EncounterType) IsPirate() bool  { return t >= 10 && t < 20 }
func (t EncounterType) IsTrader() bool  { return t >= 20 && t < 30 }
func (t EncounterType) IsMonster() bool { return t >= 30 && t < 70 }
func (t EncounterType) IsVeryRare() bool {
	return t >= 70
}

// Aggressive reports whether the opponent opens fire each round.
func (t EncounterType) Aggressive() bool {
	switch t {
	case PoliceAttack, PirateAttack, TraderAttack,
		SpaceMonsterAttack, DragonflyAttack, MantisAttack, ScarabAttack,
		FamousCaptainAttack:
		return true
	}
	return false
}

// Fleeing reports whether the opponent is trying to get away.
func (t EncounterType) Fleeing() bool {
	return t == PoliceFlee || t == PirateFlee || t == TraderFlee
}

// Police record thresholds.
const (
	PsychopathScore = -70
	VillainScore    = -30
	CriminalScore   = -10
	DubiousScore    = -5
	CleanScore      = 0
	LawfulScore     = 5
)

// Reputation thresholds.
const (
	AverageScore = 40
	EliteScore   = 1500
)

const (
	// VeryRareChance is out of VeryRareRoll per click.
	VeryRareChance = 5
	VeryRareRoll   = 1000

	// TradeInOrbitChance is out of 1000 for a peaceful trader.
	TradeInOrbitChance = 100

	// FleaShipType is the smallest hull; it draws encounters half as often.
	FleaShipType = 0

	// PirateNeverFleesShipType: pirates in this hull (grasshopper) or larger
	// attack regardless of the commander's reputation.
	PirateNeverFleesShipType = 7

	// MantisShip is drawn by the alien artifact.
	MantisShip = "mantis"
)

// monsterEncounters maps resident monster ship keys to their attack code.
var monsterEncounters = map[string]EncounterType{
	"space_monster": SpaceMonsterAttack,
	"dragonfly":     DragonflyAttack,
	MantisShip:      MantisAttack,
	"scarab":        ScarabAttack,
}

var rareEncounters = [rareEventCount]EncounterType{
	RareMarieCeleste:  MarieCeleste,
	RareCaptainAhab:   CaptainAhab,
	RareCaptainConrad: CaptainConrad,
	RareCaptainHuie:   CaptainHuie,
	RareBottleOld:     BottleOld,
	RareBottleGood:    BottleGood,
}

// Encounter is the result of a positive roll.
type Encounter struct {
	Type     EncounterType `json:"type"`
	Opponent *Ship         `json:"opponent,omitempty"`
	Rare     RareEvent     `json:"rare"` // Empty unless a once-per-game event
	System   int           `json:"system"`
	Click    int           `json:"click"` // Clicks left after this one
}

type faction int

const (
	factionPolice faction = iota
	factionPirate
	factionTrader
)

// policeStrength scales the local police presence with the commander's
// notoriety.
func policeStrength(gs *GameState, base int) int {
	switch {
	case gs.PoliceRecord < PsychopathScore:
		return 3 * base
	case gs.PoliceRecord < VillainScore:
		return 2 * base
	}
	return base
}

// RollEncounter performs the encounter check for one click of j.
// It returns nil when nothing happens. When a once-per-game event occurs its
// flag is set before returning, so it can never be rolled again.
func RollEncounter(r Rand, gs *GameState, j *Journey) *Encounter {
	uni := gs.Universe
	sys := gs.System(j.Destination)

	var enc *Encounter
	if key := sys.ResidentMonster; key != "" && j.FinalClick() && gs.Quests.MonsterHunts[key] == MonsterHuntActive {
		enc = monsterEncounter(gs, key)
	} else if gs.Quests.ArtifactOnBoard && random(r, 20) <= 3 && uni.ShipTypeIndex(MantisShip) >= 0 {
		enc = monsterEncounter(gs, MantisShip)
	} else {
		enc = rollFactionEncounter(r, gs, j)
	}

	veryRare := random(r, VeryRareRoll) < VeryRareChance
	if enc == nil && veryRare {
		enc = rollVeryRare(r, gs)
	}
	if enc != nil {
		enc.System = j.Destination
		enc.Click = j.Remaining
	}
	return enc
}

func rollFactionEncounter(r Rand, gs *GameState, j *Journey) *Encounter {
	pol := gs.Politics(j.Destination)

	test := random(r, 44-2*int(gs.Difficulty))
	if gs.Ship.Type == FleaShipType {
		test *= 2
	}

	pirates := pol.Pirates
	police := policeStrength(gs, pol.Police)
	switch {
	case test < pirates && !j.Raided:
		return pirateEncounter(r, gs, j)
	case test < pirates+police:
		return policeEncounter(r, gs, j)
	case test < pirates+police+pol.Traders:
		return traderEncounter(r, gs, j)
	}
	return nil
}

// cloaked reports whether the commander's cloak hides them from opp.
func cloaked(gs *GameState, opp *Ship) bool {
	if !HasGadgetEffect(gs.Universe, &gs.Ship, EffectCloaking) {
		return false
	}
	return EvaluateSkills(gs.Universe, &gs.Ship, gs.Difficulty).Pilot >
		EvaluateSkills(gs.Universe, opp, gs.Difficulty).Pilot
}

func hasWeapons(ship *Ship) bool {
	for _, w := range ship.Weapons {
		if w != Empty {
			return true
		}
	}
	return false
}

func policeEncounter(r Rand, gs *GameState, j *Journey) *Encounter {
	opp := generateOpponent(r, gs, factionPolice, j.Destination)
	hidden := cloaked(gs, &opp)

	t := PoliceIgnore
	switch {
	case gs.PoliceRecord < DubiousScore:
		switch {
		case !hasWeapons(&opp):
			if !hidden {
				t = PoliceFlee
			}
		case gs.Reputation < AverageScore:
			t = PoliceAttack
		case random(r, EliteScore) > gs.Reputation/(1+opp.Type):
			t = PoliceAttack
		case !hidden:
			t = PoliceFlee
		}
	case gs.PoliceRecord < CleanScore && !j.Inspected:
		t = PoliceInspection
		j.Inspected = true
	case gs.PoliceRecord < LawfulScore:
		if random(r, 12-int(gs.Difficulty)) < 1 && !j.Inspected {
			t = PoliceInspection
			j.Inspected = true
		}
	default:
		if random(r, 40) == 1 && !j.Inspected {
			t = PoliceInspection
			j.Inspected = true
		}
	}

	if t == PoliceIgnore && hidden {
		return nil
	}
	return &Encounter{Type: t, Opponent: &opp, Rare: Empty}
}

func pirateEncounter(r Rand, gs *GameState, j *Journey) *Encounter {
	opp := generateOpponent(r, gs, factionPirate, j.Destination)
	if cloaked(gs, &opp) {
		return nil
	}
	return &Encounter{Type: pirateStance(r, gs.Reputation, opp.Type), Opponent: &opp, Rare: Empty}
}

// pirateStance decides whether a pirate in the given hull dares to attack a
// commander of this reputation.
func pirateStance(r Rand, reputation, shipType int) EncounterType {
	if shipType >= PirateNeverFleesShipType || random(r, EliteScore) > (reputation*4)/(1+shipType) {
		return PirateAttack
	}
	return PirateFlee
}

func traderEncounter(r Rand, gs *GameState, j *Journey) *Encounter {
	opp := generateOpponent(r, gs, factionTrader, j.Destination)
	hidden := cloaked(gs, &opp)

	t := TraderIgnore
	if gs.PoliceRecord <= CriminalScore && random(r, EliteScore) <= (gs.Reputation*10)/(1+opp.Type) && !hidden {
		t = TraderFlee
	}

	if t == TraderIgnore && random(r, 1000) < TradeInOrbitChance {
		switch {
		case FilledCargoBays(&gs.Ship) > 0 && random(r, 2) == 0:
			t = TraderBuy
		case FilledCargoBays(&opp) > 0 && FilledCargoBays(&gs.Ship) < CargoBays(gs.Universe, &gs.Ship, gs.Quests):
			t = TraderSell
		}
	}

	if t == TraderIgnore && hidden {
		return nil
	}
	return &Encounter{Type: t, Opponent: &opp, Rare: Empty}
}

func monsterEncounter(gs *GameState, key string) *Encounter {
	opp := FixedShip(gs.Universe, key)
	t, ok := monsterEncounters[key]
	if !ok {
		t = SpaceMonsterAttack
	}
	return &Encounter{Type: t, Opponent: &opp, Rare: Empty}
}

// EligibleRareEvents lists the once-per-game events that have not happened
// yet and whose preconditions the commander meets.
func EligibleRareEvents(gs *GameState) []RareEvent {
	uni := gs.Universe
	sk := EvaluateSkills(uni, &gs.Ship, gs.Difficulty)
	lawful := gs.PoliceRecord > CriminalScore

	var out []RareEvent
	for _, e := range AllRareEvents() {
		if gs.VeryRare.Has(e) {
			continue
		}
		switch e {
		case RareCaptainAhab:
			if !(HasShield(uni, &gs.Ship, ShieldReflective) && sk.Pilot < MaxSkill && lawful) {
				continue
			}
		case RareCaptainConrad:
			if !(HasWeapon(uni, &gs.Ship, WeaponMilitaryLaser) && sk.Engineer < MaxSkill && lawful) {
				continue
			}
		case RareCaptainHuie:
			if !(HasWeapon(uni, &gs.Ship, WeaponMilitaryLaser) && sk.Trader < MaxSkill && lawful) {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

func rollVeryRare(r Rand, gs *GameState) *Encounter {
	pool := EligibleRareEvents(gs)
	if len(pool) == 0 {
		return nil
	}
	e := pool[random(r, len(pool))]
	gs.VeryRare.Mark(e)

	enc := &Encounter{Type: rareEncounters[e], Rare: e}
	uni := gs.Universe
	switch e {
	case RareCaptainAhab, RareCaptainConrad, RareCaptainHuie:
		if uni.ShipTypeIndex(uni.BalanceConfig.FamousCaptainShip) >= 0 {
			opp := FixedShip(uni, uni.BalanceConfig.FamousCaptainShip)
			enc.Opponent = &opp
		}
	case RareMarieCeleste:
		if t := uni.ShipTypeIndex(uni.BalanceConfig.DerelictShip); t >= 0 {
			opp := NewShip(uni, t)
			opp.Cargo[GoodNarcotics] = uni.ShipType(t).CargoBays
			enc.Opponent = &opp
		}
	}
	return enc
}

// FixedShip builds a ship from its catalog loadout with full hull and shields.
func FixedShip(uni *Universe, key string) Ship {
	t := uni.ShipTypeIndex(key)
	ship := NewShip(uni, t)
	lo := uni.ShipType(t).Loadout
	if lo == nil {
		return ship
	}
	for i, k := range lo.Weapons {
		if i < len(ship.Weapons) {
			ship.Weapons[i] = uni.WeaponIndex(k)
		}
	}
	for i, k := range lo.Shields {
		if i < len(ship.Shields) {
			ship.Shields[i] = uni.ShieldIndex(k)
		}
	}
	for i, k := range lo.Gadgets {
		if i < len(ship.Gadgets) {
			ship.Gadgets[i] = uni.GadgetIndex(k)
		}
	}
	RechargeShields(uni, &ship)
	ship.Crew = []CrewMember{{Pilot: lo.Pilot, Fighter: lo.Fighter, Trader: lo.Trader, Engineer: lo.Engineer}}
	return ship
}

// generateOpponent picks a hull the local faction can field, taking the best
// of several draws for stronger pursuers, and equips it at random.
func generateOpponent(r Rand, gs *GameState, f faction, sys int) Ship {
	uni := gs.Universe
	pol := gs.Politics(sys)

	tries := 1
	switch f {
	case factionPirate:
		tries = 1 + max(gs.Credits-gs.Debt, 0)/100000
		tries = max(1, tries+int(gs.Difficulty)-int(Normal))
	case factionPolice:
		switch {
		case gs.PoliceRecord < VillainScore:
			tries = 5
		case gs.PoliceRecord < CriminalScore:
			tries = 3
		}
		tries = max(1, tries+int(gs.Difficulty)-int(Normal))
	}

	best := Empty
	for range tries {
		best = max(best, pickShipType(r, uni, f, pol))
	}
	if best == Empty {
		best = 0
	}

	ship := NewShip(uni, best)
	st := uni.ShipType(best)
	ship.Fuel = st.FuelTanks

	n := slotsToFill(r, st.WeaponSlots)
	if n < st.WeaponSlots && tries > 4 && gs.Difficulty >= Hard {
		n++
	}
	for i := range n {
		ship.Weapons[i] = pickByChance(r, len(uni.Weapons), func(k int) int { return uni.Weapons[k].Chance })
	}
	for i := range random(r, st.ShieldSlots+1) {
		ship.Shields[i] = pickByChance(r, len(uni.Shields), func(k int) int { return uni.Shields[k].Chance })
	}
	for i := range random(r, st.GadgetSlots+1) {
		ship.Gadgets[i] = pickByChance(r, len(uni.Gadgets), func(k int) int { return uni.Gadgets[k].Chance })
	}
	RechargeShields(uni, &ship)

	crew := 1 + random(r, max(st.CrewQuarters, 1))
	for range crew {
		ship.Crew = append(ship.Crew, CrewMember{
			Pilot:    1 + random(r, MaxSkill),
			Fighter:  1 + random(r, MaxSkill),
			Trader:   1 + random(r, MaxSkill),
			Engineer: 1 + random(r, MaxSkill),
		})
	}

	if f == factionTrader && st.CargoBays > 0 {
		ship.Cargo[random(r, NumGoods)] = 1 + random(r, st.CargoBays)
	}
	return ship
}

// maxTypeRedraws bounds the rejection sampling in pickShipType.
const maxTypeRedraws = 100

// pickShipType draws hulls weighted by occurrence until one is allowed for
// the faction in a system of this political strength.
func pickShipType(r Rand, uni *Universe, f faction, pol *PoliticalSystem) int {
	allowed := func(i int) bool {
		st := uni.ShipTypes[i]
		switch f {
		case factionPolice:
			return st.Police >= 0 && st.Police <= pol.Police
		case factionPirate:
			return st.Pirates >= 0 && st.Pirates <= pol.Pirates
		default:
			return st.Traders >= 0 && st.Traders <= pol.Traders
		}
	}

	for range maxTypeRedraws {
		d := random(r, 100)
		i, sum := 0, uni.ShipTypes[0].Occurrence
		for sum < d && i < len(uni.ShipTypes)-1 {
			i++
			sum += uni.ShipTypes[i].Occurrence
		}
		if allowed(i) {
			return i
		}
	}
	for i := range uni.ShipTypes {
		if allowed(i) {
			return i
		}
	}
	return Empty
}

// slotsToFill decides how many of n slots an opponent fills with weapons.
func slotsToFill(r Rand, n int) int {
	switch {
	case n <= 0:
		return 0
	case n == 1:
		return 1
	}
	return min(n, 1+random(r, n))
}

// pickByChance draws a catalog index weighted by percentage chance.
func pickByChance(r Rand, n int, chance func(int) int) int {
	if n == 0 {
		return Empty
	}
	d := random(r, 100)
	i, sum := 0, chance(0)
	for sum < d && i < n-1 {
		i++
		sum += chance(i)
	}
	return i
}
