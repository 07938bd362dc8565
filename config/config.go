// Package config loads a YAML-defined Config for the turn engine, grounded
// on the teacher's layered Config struct (itsneelabh-gomind/core/config.go),
// trimmed to the settings this module actually has: retry policy,
// team-memory cadence, and the coordinator's registry name.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pawelhaladyj/opti-agents/memory"
	"github.com/pawelhaladyj/opti-agents/orchestration"
	"github.com/pawelhaladyj/opti-agents/resilience"
)

// RetryConfig mirrors resilience.RetryPolicy's tunable fields in YAML form.
type RetryConfig struct {
	MaxAttempts         int      `yaml:"max_attempts"`
	BackoffSeconds      float64  `yaml:"backoff_seconds"`
	RetryableStatuses   []string `yaml:"retryable_statuses"`
	RetryableErrorTypes []string `yaml:"retryable_error_types"`
}

// MemoryConfig mirrors memory.Config in YAML form.
type MemoryConfig struct {
	SummarizeEvery int `yaml:"summarize_every"`
	KeepRecent     int `yaml:"keep_recent"`
	KeepScratchpad int `yaml:"keep_scratchpad"`
}

// Config is the top-level YAML document this module reads.
type Config struct {
	CoordinatorName string       `yaml:"coordinator_name"`
	Retry           RetryConfig  `yaml:"retry"`
	Memory          MemoryConfig `yaml:"memory"`
}

// Default returns a Config matching the hardcoded defaults used when no
// file is supplied.
func Default() Config {
	def := resilience.DefaultRetryPolicy()
	mem := memory.DefaultConfig()
	return Config{
		CoordinatorName: "coordinator",
		Retry: RetryConfig{
			MaxAttempts:         def.MaxAttempts,
			BackoffSeconds:      def.BackoffSeconds,
			RetryableStatuses:   keys(def.RetryableStatuses),
			RetryableErrorTypes: keys(def.RetryableErrorTypes),
		},
		Memory: MemoryConfig{
			SummarizeEvery: mem.SummarizeEvery,
			KeepRecent:     mem.KeepRecent,
			KeepScratchpad: mem.KeepScratchpad,
		},
	}
}

func keys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// Load reads and parses a YAML config file at path.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// RetryPolicy converts the YAML-loaded settings into a resilience.RetryPolicy.
func (c Config) RetryPolicy() resilience.RetryPolicy {
	return resilience.RetryPolicy{
		MaxAttempts:         c.Retry.MaxAttempts,
		BackoffSeconds:      c.Retry.BackoffSeconds,
		RetryableStatuses:   toSet(c.Retry.RetryableStatuses),
		RetryableErrorTypes: toSet(c.Retry.RetryableErrorTypes),
	}
}

func toSet(vals []string) map[string]bool {
	m := make(map[string]bool, len(vals))
	for _, v := range vals {
		m[v] = true
	}
	return m
}

// MemoryConfig converts the YAML-loaded settings into a memory.Config.
func (c Config) MemoryConfig() memory.Config {
	return memory.Config{
		SummarizeEvery: c.Memory.SummarizeEvery,
		KeepRecent:     c.Memory.KeepRecent,
		KeepScratchpad: c.Memory.KeepScratchpad,
	}
}

// OrchestrationConfig converts the YAML-loaded settings into an
// orchestration.Config.
func (c Config) OrchestrationConfig() orchestration.Config {
	return orchestration.Config{CoordinatorName: c.CoordinatorName, Memory: c.MemoryConfig()}
}
