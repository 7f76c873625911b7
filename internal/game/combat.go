/*
Package game
File: combat.go
Description:
    Resolves combat one round at a time. A round is atomic: both sides'
    shots are rolled and applied before anyone checks for destruction,
    so both ships can be destroyed in the same round.
*/

package game

// CommanderDamagePercent scales hits on the commander's ship by difficulty.
var CommanderDamagePercent = [...]int{
	Beginner:   100,
	Easy:       100,
	Normal:     100,
	Hard:       110,
	Impossible: 125,
}

// AttackResult is the effect of one ship firing at another.
type AttackResult struct {
	Hit          bool `json:"hit"`
	ShieldDamage int  `json:"shield_damage"`
	HullDamage   int  `json:"hull_damage"`
}

// CombatRoundResult is everything that happened in one round.
// Incoming is the opponent's fire at the commander, Outgoing the reverse.
type CombatRoundResult struct {
	Incoming           AttackResult `json:"incoming"`
	Outgoing           AttackResult `json:"outgoing"`
	CommanderDestroyed bool         `json:"commander_destroyed"`
	OpponentDestroyed  bool         `json:"opponent_destroyed"`
	CommanderEscaped   bool         `json:"commander_escaped"`
	OpponentEscaped    bool         `json:"opponent_escaped"`
}

// RoundActions are the intentions of both sides for one round.
type RoundActions struct {
	CommanderAttacks bool
	CommanderFlees   bool
	OpponentAttacks  bool
	OpponentFlees    bool
}

// ResolveCombatRound plays one round between the commander and an opponent.
// The opponent fires first, then the commander, then whoever is fleeing
// tries to get away.
func ResolveCombatRound(r Rand, uni *Universe, d Difficulty, cmdr, opp *Ship, act RoundActions) CombatRoundResult {
	var res CombatRoundResult
	if act.OpponentAttacks {
		res.Incoming = ExecuteAttack(r, uni, d, opp, cmdr, act.CommanderFlees, true)
	}
	if act.CommanderAttacks && !act.CommanderFlees {
		res.Outgoing = ExecuteAttack(r, uni, d, cmdr, opp, act.OpponentFlees, false)
	}
	res.CommanderDestroyed = cmdr.Hull <= 0
	res.OpponentDestroyed = opp.Hull <= 0

	switch {
	case act.CommanderFlees && !res.CommanderDestroyed:
		res.CommanderEscaped = AttemptEscape(r, uni, d, cmdr, opp)
	case act.OpponentFlees && !res.OpponentDestroyed:
		res.OpponentEscaped = OpponentEscapes(r, uni, d, cmdr, opp)
	}
	return res
}

// weaponPower sums the attacker's weapons that can hurt the defender.
func weaponPower(uni *Universe, attacker, defender *Ship) int {
	only := uni.ShipType(defender.Type).OnlyDamagedBy
	power := 0
	for _, w := range attacker.Weapons {
		if w == Empty {
			continue
		}
		wp := uni.Weapon(w)
		if len(only) > 0 && !containsKey(only, wp.Key) {
			continue
		}
		power += wp.Power
	}
	return power
}

func containsKey(keys []string, k string) bool {
	for _, s := range keys {
		if s == k {
			return true
		}
	}
	return false
}

// hullCap is the most hull damage a single hit may do.
func hullCap(uni *Universe, d Difficulty, defender *Ship, commanderTarget bool) int {
	hull := uni.ShipType(defender.Type).HullStrength
	if commanderTarget {
		return max(1, hull/max(1, int(Impossible)+1-int(d)))
	}
	return max(1, hull/2)
}

// ExecuteAttack rolls one shot from attacker at defender and applies it:
// shields absorb first, in slot order, and only what is left reaches the hull.
func ExecuteAttack(r Rand, uni *Universe, d Difficulty, attacker, defender *Ship, defenderFlees, commanderTarget bool) AttackResult {
	var res AttackResult
	power := weaponPower(uni, attacker, defender)
	if power <= 0 {
		return res
	}

	as := EvaluateSkills(uni, attacker, d)
	ds := EvaluateSkills(uni, defender, d)

	fleeFactor := 1
	if defenderFlees {
		fleeFactor = 2
	}
	if random(r, as.Fighter+uni.ShipType(defender.Type).Size) < fleeFactor*random(r, 5+ds.Pilot/2) {
		return res
	}
	res.Hit = true

	dmg := max(1, random(r, power*(100+2*as.Engineer)/100))
	if commanderTarget {
		dmg = dmg * CommanderDamagePercent[d] / 100
	}

	for i, s := range defender.Shields {
		if dmg == 0 || i >= len(defender.ShieldCharge) {
			break
		}
		if s == Empty {
			continue
		}
		absorbed := min(dmg, defender.ShieldCharge[i])
		defender.ShieldCharge[i] -= absorbed
		dmg -= absorbed
		res.ShieldDamage += absorbed
	}

	if dmg > 0 {
		dmg -= random(r, ds.Engineer)
		dmg = max(dmg, 1)
		dmg = min(dmg, hullCap(uni, d, defender, commanderTarget), defender.Hull)
		defender.Hull -= dmg
		res.HullDamage = dmg
	}
	return res
}

// AttemptEscape rolls the commander's attempt to flee. On Beginner it
// always works.
func AttemptEscape(r Rand, uni *Universe, d Difficulty, cmdr, opp *Ship) bool {
	if d == Beginner {
		return true
	}
	cs := EvaluateSkills(uni, cmdr, d)
	oppSk := EvaluateSkills(uni, opp, d)
	return (random(r, 7)+cs.Pilot/3)*2 >= random(r, oppSk.Pilot)*(2+int(d))
}

// OpponentEscapes rolls a fleeing opponent's attempt to get away.
func OpponentEscapes(r Rand, uni *Universe, d Difficulty, cmdr, opp *Ship) bool {
	cs := EvaluateSkills(uni, cmdr, d)
	oppSk := EvaluateSkills(uni, opp, d)
	return random(r, cs.Pilot)*4 <= random(r, 7+oppSk.Pilot/3)*2
}

// OpponentReaction decides whether a damaged opponent keeps fighting.
// It is consulted after a round in which the opponent lost hull.
func OpponentReaction(r Rand, uni *Universe, t EncounterType, cmdr, opp *Ship) EncounterType {
	oppMax := uni.ShipType(opp.Type).HullStrength
	cmdrMax := uni.ShipType(cmdr.Type).HullStrength

	switch {
	case t == PoliceAttack:
		if opp.Hull < oppMax/2 {
			if cmdr.Hull >= cmdrMax/2 || random(r, 10) > 5 {
				return PoliceFlee
			}
		}
	case t == PirateAttack:
		if opp.Hull < oppMax*2/3 {
			if cmdr.Hull >= cmdrMax*2/3 || random(r, 10) > 3 {
				if random(r, 10) > 8 {
					return PirateSurrender
				}
				return PirateFlee
			}
		}
	case t.IsTrader() && t != TraderSurrender:
		switch {
		case opp.Hull < oppMax*2/3:
			if random(r, 10) > 3 {
				return TraderSurrender
			}
			return TraderFlee
		case opp.Hull < oppMax*9/10:
			if cmdr.Hull < cmdrMax*2/3 {
				if random(r, 10) > 6 {
					return TraderFlee
				}
			} else if random(r, 10) > 2 {
				return TraderFlee
			}
		}
	}
	return t
}
