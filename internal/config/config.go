/*
Package config
File: config.go
Description:
    Server settings, read from 'galaxies.cfg.json' when present.
    Every key has a default, so the server starts without a config file.
    Environment variables (GALAXIES_SERVER_PORT for server.port, and so on)
    override the file, and a '.env' next to it is loaded into the
    environment first.
*/

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "galaxies.cfg.json"

// EnvPrefix prefixes the environment variables that override config keys.
const EnvPrefix = "GALAXIES"

// Load sets defaults and reads the config file from configDir.
// A missing file is not an error.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logFile", "") // Empty logs to the console only

	viper.SetDefault("server.port", "8081")
	viper.SetDefault("server.corsOrigins", []string{"*"})
	viper.SetDefault("server.rateLimit", 20.0) // Requests per second per client, 0 disables
	viper.SetDefault("server.rateBurst", 40)

	viper.SetDefault("universe.path", "universe.yaml")

	viper.SetDefault("store.path", "galaxies.db") // SQLite file, ":memory:" or a postgres:// URL
	viper.SetDefault("store.autosave", "5m")

	viper.SetDefault("game.saveName", "default")
	viper.SetDefault("game.commander", "Jameson")
	viper.SetDefault("game.difficulty", "normal")
	viper.SetDefault("game.startSystem", "")
	viper.SetDefault("game.seed", 0) // 0 seeds from the clock

	if err := godotenv.Load(filepath.Join(configDir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error reading .env file: %w", err)
	}
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetUint64 returns an unsigned config value.
func GetUint64(key string) uint64 {
	return viper.GetUint64(key)
}

// GetFloat64 returns a float config value.
func GetFloat64(key string) float64 {
	return viper.GetFloat64(key)
}

// GetStringSlice returns a list config value.
func GetStringSlice(key string) []string {
	return viper.GetStringSlice(key)
}

// GetDuration returns a duration config value such as "5m".
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// Addr is the listen address built from server.port.
func Addr() string {
	return ":" + viper.GetString("server.port")
}
