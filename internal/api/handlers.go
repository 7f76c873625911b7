/*
Package api
File: handlers.go
Description:
    Contains the HTTP handlers for the REST API.
    These functions decode JSON requests, drive the warp engine in
    internal/game and return JSON responses.

    Key Responsibilities:
    - Input Validation (Is the JSON valid? Does the system exist?)
    - Session Flow (Docked -> Travelling -> Encounter -> Travelling -> Docked)
    - Thread Safety (The engine is single-threaded; Server.mu serializes it)
*/

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/everforgeworks/galaxies-warp/internal/game"
)

// Saver persists a game snapshot.
type Saver interface {
	Save(ctx context.Context, name string, gs *game.GameState) error
}

// Options wires a Server.
type Options struct {
	State    *game.GameState
	Rand     game.Rand
	Hub      *Hub  // Optional
	Store    Saver // Optional
	SaveName string
	Log      zerolog.Logger
}

// Server owns the single game session and serves it over HTTP.
type Server struct {
	mu         sync.RWMutex
	gs         *game.GameState
	journey    *game.Journey    // Non-nil while travelling
	engagement *game.Engagement // Non-nil while an encounter is being played
	gameOver   bool

	rng      game.Rand
	hub      *Hub
	store    Saver
	saveName string
	log      zerolog.Logger
}

// NewServer creates a Server for an existing game.
func NewServer(opts Options) *Server {
	return &Server{
		gs:       opts.State,
		rng:      opts.Rand,
		hub:      opts.Hub,
		store:    opts.Store,
		saveName: opts.SaveName,
		log:      opts.Log,
	}
}

// Routes registers every endpoint on a new mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	// Information Endpoints
	mux.HandleFunc("GET /api/state", s.HandleGetState)
	mux.HandleFunc("GET /api/systems", s.HandleGetSystems)
	mux.HandleFunc("GET /api/systems/range", s.HandleGetSystemsInRange)
	mux.HandleFunc("POST /api/travel/quote", s.HandleTravelQuote)
	mux.HandleFunc("POST /api/path", s.HandlePath)

	// Action Endpoints
	mux.HandleFunc("POST /api/travel", s.HandleTravel)
	mux.HandleFunc("POST /api/travel/continue", s.HandleContinue)
	mux.HandleFunc("POST /api/encounter/action", s.HandleEncounterAction)
	mux.HandleFunc("POST /api/refuel", s.HandleRefuel)
	mux.HandleFunc("POST /api/save", s.HandleSave)

	// Real-Time WebSocket Endpoint
	mux.HandleFunc("GET /ws", s.HandleWs)
	return mux
}

// Request DTOs

type TravelRequest struct {
	DestinationKey string `json:"destination_key"`
	ViaWormhole    bool   `json:"via_wormhole"`
}

type ActionRequest struct {
	Action game.Action `json:"action"`
}

type RefuelRequest struct {
	Credits int `json:"credits"` // 0 fills the tank
}

type PathRequest struct {
	DestinationKey string `json:"destination_key"`
	FuelRange      int    `json:"fuel_range"` // 0 uses the ship's tank size
}

// Response DTOs

type StateResponse struct {
	State      *game.GameState  `json:"state"`
	Journey    *game.Journey    `json:"journey,omitempty"`
	Engagement *game.Engagement `json:"engagement,omitempty"`
	Skills     game.Skills      `json:"skills"`
	FuelTanks  int              `json:"fuel_tanks"`
	CargoBays  int              `json:"cargo_bays"`
	GameOver   bool             `json:"game_over"`
}

type SystemView struct {
	Index     int    `json:"index"`
	Key       string `json:"key"`
	Name      string `json:"name"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	TechLevel int    `json:"tech_level"`
	Politics  string `json:"politics"`
	Visited   bool   `json:"visited"`
	Distance  int    `json:"distance"`
	Wormhole  bool   `json:"wormhole"` // A wormhole leads here from the current system
}

type TravelQuoteResponse struct {
	Destination string        `json:"destination"`
	Distance    int           `json:"distance"`
	Cost        game.WarpCost `json:"cost"`
	CanWarp     bool          `json:"can_warp"`
	Reason      string        `json:"reason,omitempty"`
	Message     string        `json:"message,omitempty"`
}

type WarpRejection struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type TravelResponse struct {
	Journey   *game.Journey   `json:"journey"`
	Encounter *game.Encounter `json:"encounter,omitempty"`
	State     *game.GameState `json:"state"`
}

type ActionResponse struct {
	Round      game.CombatRoundResult `json:"round"`
	Engagement *game.Engagement       `json:"engagement"`
	State      *game.GameState        `json:"state"`
	GameOver   bool                   `json:"game_over"`
}

type RefuelResponse struct {
	Parsecs int `json:"parsecs"`
	Fuel    int `json:"fuel"`
	Credits int `json:"credits"`
}

type PathResponse struct {
	Route    []string `json:"route"`
	Distance int      `json:"distance"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Snapshot returns a deep copy of the game, safe to use without the lock.
func (s *Server) Snapshot() *game.GameState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gs.Clone()
}

// ReloadUniverse rebinds the game to a freshly loaded universe. It is
// refused while a journey is in progress.
func (s *Server) ReloadUniverse(uni *game.Universe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.journey != nil {
		return errors.New("cannot reload the universe mid-journey")
	}
	return s.gs.Rebind(uni)
}

func (s *Server) stateResponse() StateResponse {
	gs := s.gs
	return StateResponse{
		State:      gs,
		Journey:    s.journey,
		Engagement: s.engagement,
		Skills:     game.EvaluateSkills(gs.Universe, &gs.Ship, gs.Difficulty),
		FuelTanks:  game.FuelTanks(gs.Universe, &gs.Ship),
		CargoBays:  game.CargoBays(gs.Universe, &gs.Ship, gs.Quests),
		GameOver:   s.gameOver,
	}
}

func (s *Server) systemView(i int) SystemView {
	gs := s.gs
	sys := gs.System(i)
	return SystemView{
		Index:     i,
		Key:       sys.Key,
		Name:      sys.Name,
		X:         sys.X,
		Y:         sys.Y,
		TechLevel: sys.TechLevel,
		Politics:  gs.Politics(i).Name,
		Visited:   sys.Visited,
		Distance:  game.Distance(*gs.System(gs.CurrentSystem), *sys),
		Wormhole:  gs.WormholeExists(gs.CurrentSystem, i),
	}
}

// systemIndex resolves a system key, writing a 404 when it is unknown.
func (s *Server) systemIndex(w http.ResponseWriter, key string) (int, bool) {
	i := s.gs.Universe.SystemIndex(key)
	if i < 0 {
		http.Error(w, fmt.Sprintf("Unknown system %q", key), http.StatusNotFound)
		return 0, false
	}
	return i, true
}

// docked writes a 409 unless the ship is docked and the game is running.
func (s *Server) docked(w http.ResponseWriter) bool {
	switch {
	case s.gameOver:
		http.Error(w, "Game over", http.StatusGone)
		return false
	case s.journey != nil:
		http.Error(w, "Journey in progress", http.StatusConflict)
		return false
	}
	return true
}

// HandleGetState returns the whole session.
func (s *Server) HandleGetState(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	writeJSON(w, http.StatusOK, s.stateResponse())
}

// HandleGetSystems lists every system with its distance from the ship.
func (s *Server) HandleGetSystems(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]SystemView, 0, len(s.gs.Systems))
	for i := range s.gs.Systems {
		out = append(out, s.systemView(i))
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGetSystemsInRange lists the systems within ?fuel= parsecs, by
// default the fuel currently in the tank.
func (s *Server) HandleGetSystemsInRange(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	gs := s.gs
	fuel := game.UsableFuel(gs.Universe, &gs.Ship)
	if q := r.URL.Query().Get("fuel"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			http.Error(w, "Invalid fuel", http.StatusBadRequest)
			return
		}
		fuel = n
	}

	out := []SystemView{}
	for _, i := range game.SystemsWithinRange(gs.Systems, gs.CurrentSystem, fuel) {
		out = append(out, s.systemView(i))
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleTravelQuote is the pre-flight check: the itemized cost and whether
// the warp would be allowed, without changing anything.
func (s *Server) HandleTravelQuote(w http.ResponseWriter, r *http.Request) {
	var req TravelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid Request", http.StatusBadRequest)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	dest, ok := s.systemIndex(w, req.DestinationKey)
	if !ok {
		return
	}
	gs := s.gs
	resp := TravelQuoteResponse{
		Destination: req.DestinationKey,
		Distance:    game.Distance(*gs.System(gs.CurrentSystem), *gs.System(dest)),
		Cost:        game.PreviewWarpCost(gs, gs.CurrentSystem, dest, req.ViaWormhole),
		CanWarp:     true,
	}
	if _, err := game.ValidateWarp(gs, dest, req.ViaWormhole); err != nil {
		var we *game.WarpError
		if !errors.As(err, &we) {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		resp.CanWarp = false
		resp.Reason = we.Reason.String()
		resp.Message = we.Message
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleTravel starts a warp and flies until the first encounter or arrival.
func (s *Server) HandleTravel(w http.ResponseWriter, r *http.Request) {
	var req TravelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid Request", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.docked(w) {
		return
	}
	dest, ok := s.systemIndex(w, req.DestinationKey)
	if !ok {
		return
	}

	j, err := game.ExecuteWarp(s.rng, s.gs, dest, req.ViaWormhole)
	if err != nil {
		var we *game.WarpError
		if errors.As(err, &we) {
			s.log.Debug().Str("reason", we.Reason.String()).Str("destination", req.DestinationKey).Msg("Warp rejected")
			writeJSON(w, http.StatusConflict, WarpRejection{Reason: we.Reason.String(), Message: we.Message})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.journey = j
	s.log.Info().
		Str("from", s.gs.System(j.Origin).Key).
		Str("to", s.gs.System(j.Destination).Key).
		Bool("wormhole", j.ViaWormhole).
		Bool("rerouted", j.Rerouted).
		Int("clicks", j.Clicks).
		Msg("Warp started")
	s.hub.Publish(EventDeparted, j)

	enc := s.advance()
	writeJSON(w, http.StatusOK, TravelResponse{Journey: j, Encounter: enc, State: s.gs})
}

// HandleContinue resumes a journey after its current encounter has ended.
func (s *Server) HandleContinue(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gameOver {
		http.Error(w, "Game over", http.StatusGone)
		return
	}
	if s.journey == nil {
		http.Error(w, "Not travelling", http.StatusConflict)
		return
	}
	if s.engagement != nil && !s.engagement.Over() {
		http.Error(w, "Encounter still in progress", http.StatusConflict)
		return
	}

	j := s.journey
	enc := s.advance()
	writeJSON(w, http.StatusOK, TravelResponse{Journey: j, Encounter: enc, State: s.gs})
}

// advance flies the current journey to its next encounter, or to arrival.
func (s *Server) advance() *game.Encounter {
	s.engagement = nil
	enc := s.journey.Next(s.rng)
	if enc != nil {
		s.engagement = game.NewEngagement(s.gs, s.journey, enc)
		s.log.Info().Int("type", int(enc.Type)).Int("clicks_left", enc.Click).Msg("Encounter")
		s.hub.Publish(EventEncounter, enc)
		return enc
	}

	sys := s.gs.System(s.gs.CurrentSystem)
	s.log.Info().Str("system", sys.Key).Int("day", s.gs.Days).Msg("Arrived")
	s.hub.Publish(EventArrived, s.systemView(s.gs.CurrentSystem))
	s.journey = nil
	return nil
}

// HandleEncounterAction plays the commander's decision in the current encounter.
func (s *Server) HandleEncounterAction(w http.ResponseWriter, r *http.Request) {
	var req ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid Request", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gameOver {
		http.Error(w, "Game over", http.StatusGone)
		return
	}
	e := s.engagement
	if e == nil {
		http.Error(w, "No encounter in progress", http.StatusConflict)
		return
	}

	round, err := e.Act(s.rng, req.Action)
	switch {
	case errors.Is(err, game.ErrEngagementOver):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	s.hub.Publish(EventCombatRound, ActionResponse{Round: round, Engagement: e})
	switch e.Outcome {
	case game.OutcomeCommanderDestroyed, game.OutcomeBothDestroyed:
		s.gameOver = true
		s.journey = nil
		s.log.Warn().Int("day", s.gs.Days).Msg("Commander destroyed")
		s.hub.Publish(EventGameOver, e)
	case game.OutcomeNone:
	default:
		s.log.Info().Str("outcome", string(e.Outcome)).Int("rounds", e.Rounds).Int("bounty", e.Bounty).Msg("Encounter over")
	}

	writeJSON(w, http.StatusOK, ActionResponse{Round: round, Engagement: e, State: s.gs, GameOver: s.gameOver})
}

// HandleRefuel buys fuel for up to the requested credits, or a full tank.
func (s *Server) HandleRefuel(w http.ResponseWriter, r *http.Request) {
	var req RefuelRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid Request", http.StatusBadRequest)
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.docked(w) {
		return
	}
	gs := s.gs
	amount := req.Credits
	if amount <= 0 {
		amount = game.FullRefuelCost(gs.Universe, &gs.Ship)
	}
	if amount == 0 {
		http.Error(w, "Tank is already full", http.StatusBadRequest)
		return
	}

	parsecs := game.BuyFuel(gs, amount)
	writeJSON(w, http.StatusOK, RefuelResponse{Parsecs: parsecs, Fuel: gs.Ship.Fuel, Credits: gs.Credits})
}

// HandlePath plans a multi-jump route to a destination.
func (s *Server) HandlePath(w http.ResponseWriter, r *http.Request) {
	var req PathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid Request", http.StatusBadRequest)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	dest, ok := s.systemIndex(w, req.DestinationKey)
	if !ok {
		return
	}
	gs := s.gs
	fuelRange := req.FuelRange
	if fuelRange <= 0 {
		fuelRange = game.FuelTanks(gs.Universe, &gs.Ship)
	}

	route := game.ShortestPath(gs.Systems, gs.CurrentSystem, dest, fuelRange)
	if route == nil && dest != gs.CurrentSystem {
		http.Error(w, "No route within range", http.StatusNotFound)
		return
	}

	resp := PathResponse{Route: []string{}}
	prev := gs.CurrentSystem
	for _, i := range route {
		resp.Route = append(resp.Route, gs.System(i).Key)
		resp.Distance += game.Distance(*gs.System(prev), *gs.System(i))
		prev = i
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleSave writes the game to the store.
func (s *Server) HandleSave(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "Saving is disabled", http.StatusServiceUnavailable)
		return
	}
	snap := s.Snapshot()
	if err := s.store.Save(r.Context(), s.saveName, snap); err != nil {
		http.Error(w, "Save failed", http.StatusInternalServerError)
		return
	}
	s.hub.Publish(EventSaved, map[string]any{"name": s.saveName, "day": snap.Days})
	writeJSON(w, http.StatusOK, map[string]string{"saved": s.saveName})
}

// HandleWs upgrades to a WebSocket and greets the client with the session.
func (s *Server) HandleWs(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "Real-time hub offline", http.StatusServiceUnavailable)
		return
	}
	s.mu.RLock()
	hello, err := json.Marshal(Message{Type: EventState, Payload: s.stateResponse(), Sender: "system"})
	s.mu.RUnlock()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	ServeWs(s.hub, w, r, hello)
}
