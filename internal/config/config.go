// Package config provides YAML-based configuration loading for the console,
// its hosts and the optional assistant.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/vovakirdan/term8/internal/core"
)

// Config is the full term8 configuration file.
type Config struct {
	Console ConsoleConfig `yaml:"console"`
	Input   InputConfig   `yaml:"input"`
	Display DisplayConfig `yaml:"display"`
	Storage StorageConfig `yaml:"storage"`
	Server  ServerConfig  `yaml:"server"`
	Assist  AssistConfig  `yaml:"assist"`
}

// ConsoleConfig controls the frame loop.
type ConsoleConfig struct {
	TickRate      int   `yaml:"tick_rate"`       // Frames per second for terminal hosts
	Seed          int64 `yaml:"seed"`            // rnd seed, 0 = random per run
	FrameBudgetMS int   `yaml:"frame_budget_ms"` // Max ms per callback, 0 = unlimited
}

// InputConfig maps keys to the six console buttons.
type InputConfig struct {
	HoldMS int        `yaml:"hold_ms"` // Terminal hosts release a key after this long without repeat
	Keys   KeyBinding `yaml:"keys"`
}

// KeyBinding lists key names (as reported by the terminal) per button.
type KeyBinding struct {
	Left  []string `yaml:"left"`
	Right []string `yaml:"right"`
	Up    []string `yaml:"up"`
	Down  []string `yaml:"down"`
	A     []string `yaml:"a"`
	B     []string `yaml:"b"`
}

// ForButton returns the keys bound to a button.
func (k KeyBinding) ForButton(b core.Button) []string {
	switch b {
	case core.ButtonLeft:
		return k.Left
	case core.ButtonRight:
		return k.Right
	case core.ButtonUp:
		return k.Up
	case core.ButtonDown:
		return k.Down
	case core.ButtonA:
		return k.A
	case core.ButtonB:
		return k.B
	default:
		return nil
	}
}

// DisplayConfig controls how the screen is presented.
type DisplayConfig struct {
	Scale int `yaml:"scale"` // Window pixels per console pixel
}

// StorageConfig locates the cart library database.
type StorageConfig struct {
	DB string `yaml:"db"` // Empty means ~/.term8/term8.db
}

// ServerConfig controls the SSH server.
type ServerConfig struct {
	Address            string `yaml:"address"`
	HostKey            string `yaml:"host_key"`
	IdleTimeoutMinutes int    `yaml:"idle_timeout_minutes"`
}

// AssistConfig configures the code and sprite generation service.
type AssistConfig struct {
	Endpoint       string `yaml:"endpoint"`
	Model          string `yaml:"model"`
	APIKeyEnv      string `yaml:"api_key_env"` // Environment variable holding the API key
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Runtime converts the console section to the runtime configuration.
func (c Config) Runtime() core.RuntimeConfig {
	return core.RuntimeConfig{
		TickRate:    c.Console.TickRate,
		Seed:        c.Console.Seed,
		FrameBudget: time.Duration(c.Console.FrameBudgetMS) * time.Millisecond,
	}
}

// HoldDuration returns the synthetic key hold time.
func (c Config) HoldDuration() time.Duration {
	return time.Duration(c.Input.HoldMS) * time.Millisecond
}

// IdleTimeout returns the SSH idle timeout.
func (c Config) IdleTimeout() time.Duration {
	return time.Duration(c.Server.IdleTimeoutMinutes) * time.Minute
}

// AssistTimeout returns the request timeout for the assistant.
func (c Config) AssistTimeout() time.Duration {
	return time.Duration(c.Assist.TimeoutSeconds) * time.Second
}

// Validate checks the configuration for values the hosts cannot use.
func (c Config) Validate() error {
	if c.Console.TickRate <= 0 {
		return fmt.Errorf("config: console.tick_rate must be positive, got %d", c.Console.TickRate)
	}
	if c.Console.FrameBudgetMS < 0 {
		return fmt.Errorf("config: console.frame_budget_ms must not be negative, got %d", c.Console.FrameBudgetMS)
	}
	if c.Input.HoldMS <= 0 {
		return fmt.Errorf("config: input.hold_ms must be positive, got %d", c.Input.HoldMS)
	}
	for b := core.Button(0); b < core.NumButtons; b++ {
		if len(c.Input.Keys.ForButton(b)) == 0 {
			return fmt.Errorf("config: input.keys.%s has no keys", strings.ToLower(b.String()))
		}
	}
	if c.Display.Scale <= 0 {
		return fmt.Errorf("config: display.scale must be positive, got %d", c.Display.Scale)
	}
	return nil
}
