/*
Package game
File: skills.go
Description:
    Derives the effective skills of a ship from the people aboard,
    its installed gadgets and the difficulty setting.
*/

package game

// Skill limits.
const (
	MaxSkill = 10

	// Bonus from a navigating, targeting or auto-repair system.
	SkillBonus = 3
	// Extra pilot bonus from a cloaking device.
	CloakBonus = 2
)

// Skills are the effective skills of a ship.
type Skills struct {
	Pilot    int `json:"pilot"`
	Fighter  int `json:"fighter"`
	Trader   int `json:"trader"`
	Engineer int `json:"engineer"`
}

// EvaluateSkills returns the best skill across the crew for each discipline,
// adjusted for gadgets and difficulty. A ship without crew has no skills.
func EvaluateSkills(uni *Universe, ship *Ship, d Difficulty) Skills {
	if len(ship.Crew) == 0 {
		return Skills{}
	}

	var sk Skills
	for _, c := range ship.Crew {
		sk.Pilot = max(sk.Pilot, c.Pilot)
		sk.Fighter = max(sk.Fighter, c.Fighter)
		sk.Trader = max(sk.Trader, c.Trader)
		sk.Engineer = max(sk.Engineer, c.Engineer)
	}

	for _, g := range ship.Gadgets {
		if g == Empty {
			continue
		}
		switch uni.Gadget(g).Effect {
		case EffectNavigating:
			sk.Pilot += SkillBonus
		case EffectTargeting:
			sk.Fighter += SkillBonus
		case EffectAutoRepair:
			sk.Engineer += SkillBonus
		case EffectCloaking:
			sk.Pilot += CloakBonus
		}
	}

	return Skills{
		Pilot:    adaptDifficulty(sk.Pilot, d),
		Fighter:  adaptDifficulty(sk.Fighter, d),
		Trader:   adaptDifficulty(sk.Trader, d),
		Engineer: adaptDifficulty(sk.Engineer, d),
	}
}

// adaptDifficulty gives one free point on the two easiest levels and takes
// one away on Impossible, never going below 1.
func adaptDifficulty(level int, d Difficulty) int {
	switch {
	case d == Beginner || d == Easy:
		return max(0, level) + 1
	case d == Impossible:
		return max(1, level-1)
	}
	return max(0, level)
}
