package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateSkills(t *testing.T) {
	uni := testUniverse(t)

	t.Run("no crew has no skills", func(t *testing.T) {
		ship := NewShip(uni, 1)
		assert.Equal(t, Skills{}, EvaluateSkills(uni, &ship, Easy))
	})

	t.Run("best of the crew", func(t *testing.T) {
		ship := NewShip(uni, 1)
		ship.Crew = []CrewMember{
			{Pilot: 2, Fighter: 3, Trader: 4, Engineer: 5},
			{Pilot: 6, Fighter: 1, Trader: 1, Engineer: 7},
		}
		assert.Equal(t, Skills{Pilot: 6, Fighter: 3, Trader: 4, Engineer: 7}, EvaluateSkills(uni, &ship, Normal))
	})

	t.Run("difficulty adjustment", func(t *testing.T) {
		ship := NewShip(uni, 1)
		ship.Crew = []CrewMember{{Pilot: 5, Fighter: 1, Trader: 0, Engineer: 10}}

		assert.Equal(t, Skills{Pilot: 6, Fighter: 2, Trader: 1, Engineer: 11}, EvaluateSkills(uni, &ship, Beginner))
		assert.Equal(t, Skills{Pilot: 6, Fighter: 2, Trader: 1, Engineer: 11}, EvaluateSkills(uni, &ship, Easy))
		assert.Equal(t, Skills{Pilot: 5, Fighter: 1, Trader: 0, Engineer: 10}, EvaluateSkills(uni, &ship, Hard))
		assert.Equal(t, Skills{Pilot: 4, Fighter: 1, Trader: 1, Engineer: 9}, EvaluateSkills(uni, &ship, Impossible))
	})

	t.Run("gadget bonuses", func(t *testing.T) {
		ship := NewShip(uni, 2)
		ship.Crew = []CrewMember{{Pilot: 1, Fighter: 1, Trader: 1, Engineer: 1}}
		ship.Gadgets = []int{uni.GadgetIndex("targeting"), uni.GadgetIndex("cloaking")}

		sk := EvaluateSkills(uni, &ship, Normal)
		assert.Equal(t, 1+CloakBonus, sk.Pilot)
		assert.Equal(t, 1+SkillBonus, sk.Fighter)
		assert.Equal(t, 1, sk.Trader)
		assert.Equal(t, 1, sk.Engineer)

		ship.Gadgets = []int{uni.GadgetIndex("navigating"), uni.GadgetIndex("auto_repair")}
		sk = EvaluateSkills(uni, &ship, Normal)
		assert.Equal(t, 1+SkillBonus, sk.Pilot)
		assert.Equal(t, 1+SkillBonus, sk.Engineer)
	})
}
