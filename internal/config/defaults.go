package config

import (
	_ "embed"
)

//go:embed defaults/term8.yaml
var defaultYAML []byte

// Default returns the built-in configuration. It matches defaults/term8.yaml.
func Default() Config {
	return Config{
		Console: ConsoleConfig{
			TickRate:      60,
			Seed:          0,
			FrameBudgetMS: 0,
		},
		Input: InputConfig{
			HoldMS: 250,
			Keys: KeyBinding{
				Left:  []string{"left", "h"},
				Right: []string{"right", "l"},
				Up:    []string{"up", "k"},
				Down:  []string{"down", "j"},
				A:     []string{"z", "Z"},
				B:     []string{"x", "X"},
			},
		},
		Display: DisplayConfig{
			Scale: 4,
		},
		Server: ServerConfig{
			Address:            ":23234",
			HostKey:            ".ssh/term8_ed25519",
			IdleTimeoutMinutes: 30,
		},
		Assist: AssistConfig{
			Endpoint:       "https://generativelanguage.googleapis.com/",
			Model:          "gemini-2.5-flash",
			APIKeyEnv:      "GEMINI_API_KEY",
			TimeoutSeconds: 30,
		},
	}
}
