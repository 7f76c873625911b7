package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncounterTypeTiers(t *testing.T) {
	assert.True(t, PoliceInspection.IsPolice())
	assert.True(t, PirateSurrender.IsPirate())
	assert.True(t, TraderBuy.IsTrader())
	assert.True(t, ScarabIgnore.IsMonster())
	assert.True(t, BottleGood.IsVeryRare())
	assert.False(t, MantisAttack.IsVeryRare())

	assert.True(t, PirateAttack.Aggressive())
	assert.False(t, PoliceInspection.Aggressive())
	assert.True(t, TraderFlee.Fleeing())
	assert.False(t, TraderSurrender.Fleeing())
}

func TestRollEncounterFactions(t *testing.T) {
	t.Run("police", func(t *testing.T) {
		gs := newTestGame(t)
		j := &Journey{Destination: delta, Remaining: 4}

		enc := RollEncounter(fixedRand(12), gs, j)
		require.NotNil(t, enc)
		assert.Equal(t, PoliceIgnore, enc.Type)
		assert.Equal(t, delta, enc.System)
		assert.Equal(t, 4, enc.Click)
		assert.Equal(t, Empty, int(enc.Rare))
		require.NotNil(t, enc.Opponent)
		assert.Equal(t, 1, enc.Opponent.Type)
	})

	t.Run("flea doubles the roll", func(t *testing.T) {
		gs := newTestGame(t)
		crew := gs.Ship.Crew
		gs.Ship = NewShip(gs.Universe, FleaShipType)
		gs.Ship.Crew = crew
		j := &Journey{Destination: delta, Remaining: 4}

		enc := RollEncounter(fixedRand(12), gs, j)
		require.NotNil(t, enc)
		assert.Equal(t, TraderSell, enc.Type)
	})

	t.Run("pirates", func(t *testing.T) {
		gs := newTestGame(t)
		j := &Journey{Destination: delta, Remaining: 4}

		enc := RollEncounter(fixedRand(5), gs, j)
		require.NotNil(t, enc)
		assert.Equal(t, PirateAttack, enc.Type)
	})

	t.Run("no pirates after being raided", func(t *testing.T) {
		gs := newTestGame(t)
		j := &Journey{Destination: delta, Remaining: 4, Raided: true}

		enc := RollEncounter(fixedRand(5), gs, j)
		require.NotNil(t, enc)
		assert.True(t, enc.Type.IsPolice())
	})

	t.Run("notoriety draws more police", func(t *testing.T) {
		gs := newTestGame(t)
		enc := RollEncounter(fixedRand(25), gs, &Journey{Destination: delta, Remaining: 4})
		require.NotNil(t, enc)
		assert.True(t, enc.Type.IsTrader())

		gs = newTestGame(t)
		gs.PoliceRecord = VillainScore - 10
		enc = RollEncounter(fixedRand(25), gs, &Journey{Destination: delta, Remaining: 4})
		require.NotNil(t, enc)
		assert.Equal(t, PoliceAttack, enc.Type)
	})

	t.Run("quiet system", func(t *testing.T) {
		gs := newTestGame(t)
		assert.Nil(t, RollEncounter(maxRand, gs, &Journey{Destination: beta, Remaining: 4}))
	})

	t.Run("cloaked commander slips past", func(t *testing.T) {
		gs := newTestGame(t)
		gs.Ship.Crew[0].Pilot = MaxSkill
		gs.Ship.Gadgets[0] = gs.Universe.GadgetIndex("cloaking")

		assert.Nil(t, RollEncounter(fixedRand(12), gs, &Journey{Destination: delta, Remaining: 4}))
	})
}

func TestPirateStance(t *testing.T) {
	// An elite reputation scares off the smaller hulls.
	assert.Equal(t, PirateFlee, pirateStance(fixedRand(0), EliteScore, 0))
	assert.Equal(t, PirateFlee, pirateStance(maxRand, EliteScore*2, PirateNeverFleesShipType-1))
	assert.Equal(t, PirateAttack, pirateStance(fixedRand(0), EliteScore*100, PirateNeverFleesShipType))
	assert.Equal(t, PirateAttack, pirateStance(fixedRand(0), EliteScore*100, PirateNeverFleesShipType+3))

	// Nobody is afraid of a beginner.
	assert.Equal(t, PirateAttack, pirateStance(maxRand, 0, 0))
}

func TestRollEncounterResidentMonster(t *testing.T) {
	gs := newTestGame(t)
	require.Equal(t, MonsterHuntActive, gs.Quests.MonsterHunts["scarab"])

	assert.Nil(t, RollEncounter(maxRand, gs, &Journey{Destination: eps, Remaining: 1}), "only on the final click")

	enc := RollEncounter(maxRand, gs, &Journey{Destination: eps, Remaining: 0})
	require.NotNil(t, enc)
	assert.Equal(t, ScarabAttack, enc.Type)
	require.NotNil(t, enc.Opponent)
	assert.Equal(t, gs.Universe.ShipTypeIndex("scarab"), enc.Opponent.Type)
	assert.Equal(t, 400, enc.Opponent.Hull)
	military := gs.Universe.WeaponIndex(WeaponMilitaryLaser)
	assert.Equal(t, []int{military, military}, enc.Opponent.Weapons)

	gs.Quests.MonsterHunts["scarab"] = MonsterHuntSlain
	assert.Nil(t, RollEncounter(maxRand, gs, &Journey{Destination: eps, Remaining: 0}))
}

func TestRollEncounterMantis(t *testing.T) {
	gs := newTestGame(t)
	gs.Quests.ArtifactOnBoard = true

	enc := RollEncounter(fixedRand(0), gs, &Journey{Destination: beta, Remaining: 3})
	require.NotNil(t, enc)
	assert.Equal(t, MantisAttack, enc.Type)
	assert.Equal(t, Empty, int(enc.Rare))
	assert.False(t, gs.VeryRare.Has(RareMarieCeleste), "a regular encounter wins over the rare roll")
}

func TestRollEncounterVeryRare(t *testing.T) {
	gs := newTestGame(t)
	j := &Journey{Destination: beta, Remaining: 3}

	want := []RareEvent{RareMarieCeleste, RareBottleOld, RareBottleGood}
	for _, e := range want {
		enc := RollEncounter(fixedRand(0), gs, j)
		require.NotNil(t, enc)
		assert.Equal(t, e, enc.Rare)
		assert.Equal(t, rareEncounters[e], enc.Type)
		assert.True(t, gs.VeryRare.Has(e))
	}
	assert.Nil(t, RollEncounter(fixedRand(0), gs, j), "nothing left the commander qualifies for")
}

func TestMarieCelesteCarriesNarcotics(t *testing.T) {
	gs := newTestGame(t)
	enc := RollEncounter(fixedRand(0), gs, &Journey{Destination: beta, Remaining: 3})
	require.NotNil(t, enc)
	require.Equal(t, MarieCeleste, enc.Type)
	require.NotNil(t, enc.Opponent)
	assert.Equal(t, gs.Universe.ShipTypeIndex("hornet"), enc.Opponent.Type)
	assert.Equal(t, 60, enc.Opponent.Cargo[GoodNarcotics])
}

func TestVeryRareAtMostOnce(t *testing.T) {
	gs := newTestGame(t)
	uni := gs.Universe
	gs.Ship.Weapons[0] = uni.WeaponIndex(WeaponMilitaryLaser)
	gs.Ship.Shields[0] = uni.ShieldIndex(ShieldReflective)
	require.Len(t, EligibleRareEvents(gs), int(rareEventCount))

	r := NewRand(1)
	seen := map[RareEvent]int{}
	for range 10000 {
		enc := RollEncounter(r, gs, &Journey{Destination: beta, Remaining: 3})
		if enc != nil && enc.Rare != Empty {
			seen[enc.Rare]++
		}
	}
	for e, n := range seen {
		assert.Equal(t, 1, n, "%s happened more than once", e)
	}
	assert.True(t, gs.VeryRare.Exhausted())
}

func TestVeryRareExhausted(t *testing.T) {
	gs := newTestGame(t)
	gs.VeryRare = RareEventSetFromBits(1<<rareEventCount - 1)

	for range 1000 {
		assert.Nil(t, RollEncounter(fixedRand(0), gs, &Journey{Destination: beta, Remaining: 3}))
	}
}

func TestEligibleRareEvents(t *testing.T) {
	gs := newTestGame(t)
	uni := gs.Universe
	assert.Equal(t, []RareEvent{RareMarieCeleste, RareBottleOld, RareBottleGood}, EligibleRareEvents(gs))

	gs.Ship.Shields[0] = uni.ShieldIndex(ShieldReflective)
	assert.Contains(t, EligibleRareEvents(gs), RareCaptainAhab)

	gs.PoliceRecord = CriminalScore
	assert.NotContains(t, EligibleRareEvents(gs), RareCaptainAhab, "captains only hail lawful commanders")

	gs.PoliceRecord = 0
	gs.Ship.Crew[0].Pilot = MaxSkill
	assert.NotContains(t, EligibleRareEvents(gs), RareCaptainAhab, "nothing left to teach")

	gs.Ship.Weapons[0] = uni.WeaponIndex(WeaponMilitaryLaser)
	assert.Contains(t, EligibleRareEvents(gs), RareCaptainConrad)
	assert.Contains(t, EligibleRareEvents(gs), RareCaptainHuie)

	gs.VeryRare.Mark(RareCaptainConrad)
	assert.NotContains(t, EligibleRareEvents(gs), RareCaptainConrad)
}

func TestRollEncounterDeterministic(t *testing.T) {
	run := func() ([]*Encounter, *GameState) {
		gs := newTestGame(t)
		r := NewRand(42)
		var out []*Encounter
		for range 300 {
			out = append(out, RollEncounter(r, gs, &Journey{Destination: delta, Remaining: 5}))
		}
		return out, gs
	}

	encA, gsA := run()
	encB, gsB := run()
	assert.Equal(t, encA, encB)
	assert.Equal(t, gsA, gsB)
}

func TestFixedShip(t *testing.T) {
	uni := testUniverse(t)
	ship := FixedShip(uni, "famous_captain")

	reflective := uni.ShieldIndex(ShieldReflective)
	assert.Equal(t, []int{reflective, reflective}, ship.Shields)
	assert.Equal(t, []int{200, 200}, ship.ShieldCharge)
	assert.Equal(t, 300, ship.Hull)
	require.Len(t, ship.Crew, 1)
	assert.Equal(t, 10, ship.Crew[0].Pilot)
}

func TestPickShipTypeRespectsFaction(t *testing.T) {
	uni := testUniverse(t)
	calm := &uni.Politics[0]
	r := NewRand(3)
	for range 200 {
		i := pickShipType(r, uni, factionPolice, calm)
		st := uni.ShipTypes[i]
		assert.GreaterOrEqual(t, st.Police, 0)
		assert.LessOrEqual(t, st.Police, calm.Police)
	}
}
