package config

// Capacity bounds for the snapshot store.
const (
	MinCapacity = 1
	MaxCapacity = 50
)

const (
	DefaultMaxSnapshots          = 10
	DefaultMinSnapshots          = 5
	DefaultSampleIntervalSeconds = 1
	DefaultTokenExpiryDays       = 90
)

// Default returns the baseline configuration used when no config file
// is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Capture: CaptureConfig{
			MaxSnapshots:     DefaultMaxSnapshots,
			AutoDeleteOldest: true,
		},
		Schedule: ScheduleConfig{
			Interval: "off",
		},
		Report: ReportConfig{
			MinSnapshots: DefaultMinSnapshots,
			AppName:      "memwatch",
		},
		Monitor: MonitorConfig{
			Enabled:               true,
			SampleIntervalSeconds: DefaultSampleIntervalSeconds,
		},
		Auth: AuthConfig{
			TokenExpiryDays: DefaultTokenExpiryDays,
		},
	}
}
