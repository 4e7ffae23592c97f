package app

import (
	"os"
	"testing"
)

// TestDetermineLogLevel verifies the level precedence rules.
func TestDetermineLogLevel(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		debug  string
		want   string
	}{
		{name: "explicit level wins", config: Config{LogLevel: "trace", Verbose: true}, want: "trace"},
		{name: "invalid level falls back", config: Config{LogLevel: "loud"}, want: "info"},
		{name: "verbose is debug", config: Config{Verbose: true}, want: "debug"},
		{name: "quiet is warn", config: Config{Quiet: true}, want: "warn"},
		{name: "quiet beats verbose", config: Config{Verbose: true, Quiet: true}, want: "warn"},
		{name: "debug env toggle", config: Config{}, debug: "1", want: "debug"},
		{name: "default is info", config: Config{}, want: "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			old := os.Getenv("COLLECTORKING_DEBUG")
			defer os.Setenv("COLLECTORKING_DEBUG", old)
			os.Setenv("COLLECTORKING_DEBUG", tt.debug)

			if got := determineLogLevel(&tt.config); got != tt.want {
				t.Errorf("determineLogLevel() = %q, want %q", got, tt.want)
			}
		})
	}
}
