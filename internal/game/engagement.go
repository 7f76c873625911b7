package game

import "errors"

// Police record changes caused by encounters.
const (
	AttackPoliceScore       = -3
	KillPoliceScore         = -6
	AttackTraderScore       = -2
	KillTraderScore         = -4
	KillPirateScore         = 1
	FleeFromInspectionScore = -2
	TraffickingScore        = -1
	SurrenderToPoliceScore  = -2
)

var (
	ErrEngagementOver  = errors.New("engagement is already over")
	ErrNoOpponent      = errors.New("there is no ship to fight")
	ErrNoWeapons       = errors.New("you have no weapons installed")
	ErrActionForbidden = errors.New("action not available in this encounter")
)

// Action is a commander decision during an encounter.
type Action string

const (
	ActionAttack    Action = "attack"
	ActionFlee      Action = "flee"
	ActionIgnore    Action = "ignore"
	ActionSubmit    Action = "submit"
	ActionSurrender Action = "surrender"
)

// Outcome is how an engagement ended. The zero value means it is ongoing.
type Outcome string

const (
	OutcomeNone               Outcome = ""
	OutcomeOpponentDestroyed  Outcome = "opponent_destroyed"
	OutcomeCommanderDestroyed Outcome = "commander_destroyed"
	OutcomeBothDestroyed      Outcome = "both_destroyed"
	OutcomeEscaped            Outcome = "escaped"
	OutcomeOpponentEscaped    Outcome = "opponent_escaped"
	OutcomeDisengaged         Outcome = "disengaged"
	OutcomeSurrendered        Outcome = "surrendered"
)

// Engagement is one encounter being played out, round by round.
type Engagement struct {
	Encounter *Encounter `json:"encounter"`
	Rounds    int        `json:"rounds"`
	Outcome   Outcome    `json:"outcome"`
	Bounty    int        `json:"bounty"`

	state   *GameState
	journey *Journey
}

// NewEngagement starts playing out enc, rolled during j.
func NewEngagement(gs *GameState, j *Journey, enc *Encounter) *Engagement {
	return &Engagement{Encounter: enc, state: gs, journey: j}
}

// Over reports whether the engagement has ended.
func (e *Engagement) Over() bool { return e.Outcome != OutcomeNone }

// Act applies the commander's decision and, when it involves fire or
// flight, plays one round.
func (e *Engagement) Act(r Rand, a Action) (CombatRoundResult, error) {
	if e.Over() {
		return CombatRoundResult{}, ErrEngagementOver
	}
	gs := e.state
	enc := e.Encounter
	opp := enc.Opponent

	var act RoundActions
	switch a {
	case ActionIgnore:
		if opp != nil && (enc.Type.Aggressive() || enc.Type == PoliceInspection) {
			return CombatRoundResult{}, ErrActionForbidden
		}
		e.Outcome = OutcomeDisengaged
		return CombatRoundResult{}, nil

	case ActionSubmit:
		if enc.Type != PoliceInspection {
			return CombatRoundResult{}, ErrActionForbidden
		}
		e.confiscateContraband()
		e.Outcome = OutcomeDisengaged
		return CombatRoundResult{}, nil

	case ActionSurrender:
		switch enc.Type {
		case PirateAttack:
			for i := range gs.Ship.Cargo {
				gs.Ship.Cargo[i] = 0
			}
			if e.journey != nil {
				e.journey.Raided = true
			}
		case PoliceInspection:
			e.confiscateContraband()
		case PoliceAttack:
			e.confiscateContraband()
			gs.PoliceRecord += SurrenderToPoliceScore
		default:
			return CombatRoundResult{}, ErrActionForbidden
		}
		e.Outcome = OutcomeSurrendered
		return CombatRoundResult{}, nil

	case ActionAttack:
		if opp == nil {
			return CombatRoundResult{}, ErrNoOpponent
		}
		if !hasWeapons(&gs.Ship) {
			return CombatRoundResult{}, ErrNoWeapons
		}
		e.escalate(r)
		act = RoundActions{CommanderAttacks: true}

	case ActionFlee:
		if opp == nil {
			e.Outcome = OutcomeDisengaged
			return CombatRoundResult{}, nil
		}
		switch {
		case enc.Type == PoliceInspection:
			gs.PoliceRecord += FleeFromInspectionScore
			enc.Type = PoliceAttack
		case !enc.Type.Aggressive():
			e.Outcome = OutcomeDisengaged
			return CombatRoundResult{}, nil
		}
		act = RoundActions{CommanderFlees: true}

	default:
		return CombatRoundResult{}, ErrActionForbidden
	}

	act.OpponentAttacks = enc.Type.Aggressive()
	act.OpponentFlees = enc.Type.Fleeing()
	oppHull := opp.Hull

	res := ResolveCombatRound(r, gs.Universe, gs.Difficulty, &gs.Ship, opp, act)
	e.Rounds++

	switch {
	case res.CommanderDestroyed && res.OpponentDestroyed:
		e.Outcome = OutcomeBothDestroyed
	case res.CommanderDestroyed:
		e.Outcome = OutcomeCommanderDestroyed
	case res.OpponentDestroyed:
		e.Outcome = OutcomeOpponentDestroyed
		e.reward()
	case res.CommanderEscaped:
		e.Outcome = OutcomeEscaped
	case res.OpponentEscaped:
		e.Outcome = OutcomeOpponentEscaped
	case opp.Hull < oppHull:
		enc.Type = OpponentReaction(r, gs.Universe, enc.Type, &gs.Ship, opp)
	}
	return res, nil
}

// escalate turns a peaceful encounter hostile when the commander opens fire.
func (e *Engagement) escalate(r Rand) {
	gs := e.state
	enc := e.Encounter
	t := enc.Type
	if t.Aggressive() || t.Fleeing() {
		return
	}
	switch {
	case t.IsPolice():
		gs.PoliceRecord += AttackPoliceScore
		enc.Type = PoliceAttack
	case t.IsPirate():
		enc.Type = PirateAttack
	case t.IsTrader():
		gs.PoliceRecord += AttackTraderScore
		enc.Type = TraderAttack
		if random(r, EliteScore) <= (gs.Reputation*10)/(1+enc.Opponent.Type) {
			enc.Type = TraderFlee
		}
	case t == SpaceMonsterIgnore:
		enc.Type = SpaceMonsterAttack
	case t == DragonflyIgnore:
		enc.Type = DragonflyAttack
	case t == ScarabIgnore:
		enc.Type = ScarabAttack
	case t.IsVeryRare():
		enc.Type = FamousCaptainAttack
	}
}

// reward settles the bounty, record and reputation for a kill.
func (e *Engagement) reward() {
	gs := e.state
	enc := e.Encounter
	opp := enc.Opponent
	switch {
	case enc.Type.IsPirate():
		e.Bounty = CalculateBounty(ShipPrice(gs.Universe, opp))
		gs.Credits += e.Bounty
		gs.PoliceRecord += KillPirateScore
	case enc.Type.IsPolice():
		gs.PoliceRecord += KillPoliceScore
	case enc.Type.IsTrader():
		gs.PoliceRecord += KillTraderScore
	case enc.Type.IsMonster():
		key := gs.Universe.ShipType(opp.Type).Key
		if gs.Quests.MonsterHunts[key] == MonsterHuntActive {
			gs.Quests.MonsterHunts[key] = MonsterHuntSlain
		}
	}
	gs.Reputation += 1 + opp.Type/2
}

// confiscateContraband removes goods that are illegal at the destination.
func (e *Engagement) confiscateContraband() {
	gs := e.state
	pol := gs.Politics(e.Encounter.System)
	found := false
	if !pol.FirearmsOK && gs.Ship.Cargo[GoodFirearms] > 0 {
		gs.Ship.Cargo[GoodFirearms] = 0
		found = true
	}
	if !pol.DrugsOK && gs.Ship.Cargo[GoodNarcotics] > 0 {
		gs.Ship.Cargo[GoodNarcotics] = 0
		found = true
	}
	if found {
		gs.PoliceRecord += TraffickingScore
	}
}
