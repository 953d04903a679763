package config

const (
	defaultConfigPath       = "~/.config/netdo/config.toml"
	defaultDataDir          = "~/.local/share/netdo"
	defaultLogDir           = "~/.local/share/netdo/logs"
	defaultStoreBackend     = StoreBackendSQLite
	defaultDetector         = DetectorSimulated
	defaultChannel          = ChannelSimulated
	defaultDeliveryDelayMS  = 2000
	defaultRequestTimeout   = 10
	defaultDueCheckSchedule = "@every 1m"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultRetentionDays    = 14
)

// Store backends.
const (
	StoreBackendSQLite = "sqlite"
	StoreBackendMemory = "memory"
)

// Network detectors.
const (
	DetectorSimulated = "simulated"
	DetectorNetlink   = "netlink"
)

// Delivery channels.
const (
	ChannelSimulated = "simulated"
	ChannelNtfy      = "ntfy"
	ChannelTelegram  = "telegram"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Store: Store{
			Backend: defaultStoreBackend,
		},
		Network: Network{
			Detector: defaultDetector,
		},
		Notifications: Notifications{
			Channel:          defaultChannel,
			DeliveryDelayMS:  defaultDeliveryDelayMS,
			RequestTimeout:   defaultRequestTimeout,
			DueCheckSchedule: defaultDueCheckSchedule,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultRetentionDays,
		},
	}
}
