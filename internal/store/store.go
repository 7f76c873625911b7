/*
Package store
File: store.go
Description:
    Save games in SQLite (or Postgres, for a 'postgres://' store path)
    through GORM.

    A save is one 'saved_games' row plus one 'system_states' row per system.
    Systems, the current system and the wormhole ring are stored by key so a
    save survives reordering of 'universe.yaml'. The ship and quest flags are
    JSON columns. The once-per-game encounter flags are kept as the bit field
    the engine defines (Marie Celeste = 1 ... good bottle = 32).
*/

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/everforgeworks/galaxies-warp/internal/game"
)

// ErrNotFound is returned by Load when no save has the given name.
var ErrNotFound = errors.New("save not found")

// SavedGame is the header row of a save.
type SavedGame struct {
	gorm.Model
	Name          string `gorm:"size:64;uniqueIndex"`
	CurrentSystem string `gorm:"size:64"`
	Credits       int
	Debt          int
	PoliceRecord  int
	Reputation    int
	Difficulty    int
	Days          int
	Insurance     bool
	NoClaim       int
	VeryRare      uint32
	Ship          datatypes.JSON
	Quests        datatypes.JSON
	Wormholes     datatypes.JSON // System keys in ring order
	Systems       []SystemState  `gorm:"foreignKey:SavedGameID;constraint:OnDelete:CASCADE;"`
}

func (*SavedGame) TableName() string {
	return "saved_games"
}

// SystemState is the per-game part of one solar system.
type SystemState struct {
	ID           uint   `gorm:"primarykey"`
	SavedGameID  uint   `gorm:"index"`
	Key          string `gorm:"size:64"`
	Visited      bool
	SpecialEvent int
}

func (*SystemState) TableName() string {
	return "system_states"
}

// Store reads and writes save games.
type Store struct {
	db  *gorm.DB
	log zerolog.Logger
}

// dialector picks the database for a store path: Postgres for a postgres://
// URL, otherwise a SQLite file. An empty path or ":memory:" gives a private
// in-memory SQLite database.
func dialector(path string) (d gorm.Dialector, memory bool) {
	switch {
	case strings.HasPrefix(path, "postgres://"), strings.HasPrefix(path, "postgresql://"):
		return postgres.New(postgres.Config{DSN: path, PreferSimpleProtocol: true}), false
	case path == "", path == ":memory:":
		return sqlite.Open("file::memory:"), true
	}
	return sqlite.Open(path), false
}

// Open connects to the store at path, creating a SQLite file if needed, and
// migrates the schema.
func Open(path string, log zerolog.Logger) (*Store, error) {
	d, memory := dialector(path)

	db, err := gorm.Open(d, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	if d.Name() == "sqlite" {
		if err := tuneSqlite(db, memory); err != nil {
			return nil, err
		}
	}

	if err := db.AutoMigrate(&SavedGame{}, &SystemState{}); err != nil {
		return nil, fmt.Errorf("migrate store: %w", err)
	}

	switch {
	case memory:
		log.Info().Msg("Using in-memory save store")
	case d.Name() == "postgres":
		log.Info().Msg("Using Postgres save store")
	default:
		log.Info().Str("path", path).Msg("Using SQLite save store")
	}
	return &Store{db: db, log: log}, nil
}

func tuneSqlite(db *gorm.DB, memory bool) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	// Each connection to :memory: is its own database.
	sqlDB.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys = ON;",
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
	}
	if memory {
		pragmas = pragmas[:1]
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}
	return nil
}

// Close releases the database.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Save writes gs under name, replacing any earlier save of that name.
func (s *Store) Save(ctx context.Context, name string, gs *game.GameState) error {
	row, err := fromState(name, gs)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing SavedGame
		err := tx.Where("name = ?", name).First(&existing).Error
		switch {
		case err == nil:
			row.ID = existing.ID
			row.CreatedAt = existing.CreatedAt
			if err := tx.Where("saved_game_id = ?", existing.ID).Delete(&SystemState{}).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return err
		}
		return tx.Save(row).Error
	})
	if err != nil {
		s.log.Error().Err(err).Str("save", name).Msg("Failed to save game")
		return fmt.Errorf("save %q: %w", name, err)
	}
	s.log.Debug().Str("save", name).Int("days", gs.Days).Msg("Game saved")
	return nil
}

// Load reads the save called name and binds it to uni.
func (s *Store) Load(ctx context.Context, name string, uni *game.Universe) (*game.GameState, error) {
	var row SavedGame
	err := s.db.WithContext(ctx).Preload("Systems").Where("name = ?", name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", name, err)
	}

	gs, err := row.toState(uni)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", name, err)
	}
	return gs, nil
}

// Delete removes the save called name. Deleting a missing save is a no-op.
func (s *Store) Delete(ctx context.Context, name string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row SavedGame
		err := tx.Where("name = ?", name).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.Where("saved_game_id = ?", row.ID).Delete(&SystemState{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&row).Error
	})
}

// List returns the names of all saves, most recently written first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).Model(&SavedGame{}).Order("updated_at DESC").Pluck("name", &names).Error
	return names, err
}

func fromState(name string, gs *game.GameState) (*SavedGame, error) {
	ship, err := json.Marshal(gs.Ship)
	if err != nil {
		return nil, fmt.Errorf("encode ship: %w", err)
	}
	quests, err := json.Marshal(gs.Quests)
	if err != nil {
		return nil, fmt.Errorf("encode quests: %w", err)
	}
	ring := make([]string, 0, len(gs.Wormholes))
	for _, w := range gs.Wormholes {
		ring = append(ring, gs.System(w).Key)
	}
	wormholes, err := json.Marshal(ring)
	if err != nil {
		return nil, fmt.Errorf("encode wormholes: %w", err)
	}

	row := &SavedGame{
		Name:          name,
		CurrentSystem: gs.System(gs.CurrentSystem).Key,
		Credits:       gs.Credits,
		Debt:          gs.Debt,
		PoliceRecord:  gs.PoliceRecord,
		Reputation:    gs.Reputation,
		Difficulty:    int(gs.Difficulty),
		Days:          gs.Days,
		Insurance:     gs.Insurance,
		NoClaim:       gs.NoClaim,
		VeryRare:      gs.VeryRare.Bits(),
		Ship:          datatypes.JSON(ship),
		Quests:        datatypes.JSON(quests),
		Wormholes:     datatypes.JSON(wormholes),
	}
	for _, sys := range gs.Systems {
		row.Systems = append(row.Systems, SystemState{
			Key:          sys.Key,
			Visited:      sys.Visited,
			SpecialEvent: sys.SpecialEvent,
		})
	}
	return row, nil
}

func (row *SavedGame) toState(uni *game.Universe) (*game.GameState, error) {
	gs := &game.GameState{
		Systems:      slices.Clone(uni.Systems),
		Credits:      row.Credits,
		Debt:         row.Debt,
		PoliceRecord: row.PoliceRecord,
		Reputation:   row.Reputation,
		Difficulty:   game.Difficulty(row.Difficulty),
		Days:         row.Days,
		Insurance:    row.Insurance,
		NoClaim:      row.NoClaim,
		VeryRare:     game.RareEventSetFromBits(row.VeryRare),
	}
	for i := range gs.Systems {
		gs.Systems[i].SpecialEvent = game.Empty
	}
	for _, st := range row.Systems {
		i := uni.SystemIndex(st.Key)
		if i < 0 {
			return nil, fmt.Errorf("unknown system %q", st.Key)
		}
		gs.Systems[i].Visited = st.Visited
		gs.Systems[i].SpecialEvent = st.SpecialEvent
	}

	if gs.CurrentSystem = uni.SystemIndex(row.CurrentSystem); gs.CurrentSystem < 0 {
		return nil, fmt.Errorf("unknown current system %q", row.CurrentSystem)
	}

	var ring []string
	if err := json.Unmarshal(row.Wormholes, &ring); err != nil {
		return nil, fmt.Errorf("decode wormholes: %w", err)
	}
	for _, key := range ring {
		i := uni.SystemIndex(key)
		if i < 0 {
			return nil, fmt.Errorf("unknown wormhole system %q", key)
		}
		gs.Wormholes = append(gs.Wormholes, i)
	}

	if err := json.Unmarshal(row.Ship, &gs.Ship); err != nil {
		return nil, fmt.Errorf("decode ship: %w", err)
	}
	if err := json.Unmarshal(row.Quests, &gs.Quests); err != nil {
		return nil, fmt.Errorf("decode quests: %w", err)
	}

	if err := gs.Rebind(uni); err != nil {
		return nil, err
	}
	return gs, nil
}
