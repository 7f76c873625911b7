package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/everforgeworks/galaxies-warp/internal/game"
)

// Distances from alpha: beta 5, gamma 10, delta 12, eps 15.
const apiUniverseYAML = `
game_balance:
  starting_credits: 1000
  starting_ship: gnat
  starting_weapon: pulse_laser

ship_types:
  - { key: flea,   name: Flea,   cargo_bays: 10, crew_quarters: 1, fuel_tanks: 20, cost_of_fuel: 1, price: 2000, occurrence: 2, hull_strength: 25, size: 0, police: -1, pirates: -1, traders: 0 }
  - { key: gnat,   name: Gnat,   cargo_bays: 15, weapon_slots: 1, shield_slots: 1, gadget_slots: 1, crew_quarters: 2, fuel_tanks: 14, cost_of_fuel: 2, price: 10000, occurrence: 50, hull_strength: 100, size: 1, police: 0, pirates: 0, traders: 0 }
  - { key: hornet, name: Hornet, cargo_bays: 60, weapon_slots: 3, shield_slots: 2, gadget_slots: 2, crew_quarters: 3, fuel_tanks: 16, cost_of_fuel: 15, price: 100000, occurrence: 48, hull_strength: 150, size: 3, police: 0, pirates: 0, traders: 0 }

weapons:
  - { key: pulse_laser, name: Pulse laser, power: 15, price: 2000, chance: 100 }

shields:
  - { key: energy_shield, name: Energy shield, power: 100, price: 5000, chance: 100 }

gadgets:
  - { key: extra_bays, effect: extra_bays, price: 2500, chance: 100 }

politics:
  - { key: calm, name: Calm, police: 0,  pirates: 0,  traders: 0,  drugs_ok: true,  firearms_ok: true }
  - { key: busy, name: Busy, police: 10, pirates: 10, traders: 10, drugs_ok: false, firearms_ok: false }

systems:
  - { key: alpha, name: Alpha, x: 0, y: 0,  tech_level: 5, politics: calm }
  - { key: beta,  name: Beta,  x: 3, y: 4,  tech_level: 5, politics: calm }
  - { key: gamma, name: Gamma, x: 6, y: 8,  tech_level: 5, politics: calm }
  - { key: delta, name: Delta, x: 0, y: 12, tech_level: 5, politics: busy }
  - { key: eps,   name: Eps,   x: 9, y: 12, tech_level: 5, politics: calm }

wormholes: [alpha, delta]
`

// fixedRand always rolls v, clamped into range. 0 makes busy systems hostile,
// the maximum makes every click quiet.
type fixedRand int

func (f fixedRand) IntN(n int) int { return min(int(f), n-1) }

const quietRand = fixedRand(1 << 30)

func testUniverse(t *testing.T) *game.Universe {
	t.Helper()
	uni, err := game.ParseUniverse([]byte(apiUniverseYAML))
	require.NoError(t, err)
	return uni
}

func newTestServer(t *testing.T, r game.Rand, opts ...func(*Options)) *Server {
	t.Helper()
	gs, err := game.NewGame(testUniverse(t), game.NewGameOptions{
		Commander:  game.CrewMember{Name: "Jameson", Pilot: 4, Fighter: 4, Trader: 4, Engineer: 4},
		Difficulty: game.Normal,
	})
	require.NoError(t, err)

	o := Options{State: gs, Rand: r, SaveName: "test", Log: zerolog.Nop()}
	for _, fn := range opts {
		fn(&o)
	}
	return NewServer(o)
}

// do sends body (JSON-encoded unless nil) and decodes a JSON response into out.
func do(t *testing.T, h http.Handler, method, path string, body, out any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if out != nil && rec.Code < 300 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

// memSaver records saved snapshots.
type memSaver struct {
	mu    sync.Mutex
	saves map[string]*game.GameState
	err   error
}

func (m *memSaver) Save(_ context.Context, name string, gs *game.GameState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.saves == nil {
		m.saves = map[string]*game.GameState{}
	}
	m.saves[name] = gs
	return nil
}

// jsonBody decodes a recorded response regardless of its status.
func jsonBody(rec *httptest.ResponseRecorder, out any) error {
	return json.Unmarshal(rec.Body.Bytes(), out)
}
