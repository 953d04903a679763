package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"netdo/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Delivery is shortened to 10ms so scenario tests finish quickly.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Notifications.DeliveryDelayMS = 10
	cfgVal.Network.Seed = 1

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithMemoryStore selects the in-memory store backend.
func WithMemoryStore() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Store.Backend = config.StoreBackendMemory
	}
}

// WithDeliveryDelay overrides the delivery delay in milliseconds.
func WithDeliveryDelay(ms int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Notifications.DeliveryDelayMS = ms
	}
}

// WithSeed fixes the random network detector seed.
func WithSeed(seed int64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Network.Seed = seed
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}

// WriteConfig encodes cfg as TOML next to its data directory and returns the
// file path, for tests that drive the CLI with --config.
func WriteConfig(t testing.TB, cfg *config.Config) string {
	t.Helper()

	path := filepath.Join(BaseDir(cfg), "netdo.toml")
	RewriteConfig(t, cfg, path)
	return path
}

// RewriteConfig encodes cfg as TOML at path, replacing any existing file.
func RewriteConfig(t testing.TB, cfg *config.Config, path string) {
	t.Helper()

	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}
