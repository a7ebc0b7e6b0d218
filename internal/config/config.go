// Package config holds the kiosk's runtime settings. The kiosk binary takes
// no flags, environment variables, or config files; the entry point builds a
// Config from defaults and injects it into the components that need it.
package config

import "time"

// Config holds runtime settings for the kiosk.
//
// Fields:
//   - DatabaseDSN: path of the SQLite database file.
//   - LogImageDir: where annotated scan snapshots are stored.
//   - QRImageDir: where provisioning QR images are stored.
//   - FrameDir: spool directory the frame source reads incoming frames from.
//   - FramePollInterval: how often the frame source re-checks an empty spool.
//   - ValidationDelay: pause after each accepted scan while the on-screen
//     confirmation is visible. This is also the minimum inter-scan interval.
type Config struct {
	DatabaseDSN       string
	LogImageDir       string
	QRImageDir        string
	FrameDir          string
	FramePollInterval time.Duration
	ValidationDelay   time.Duration
}

// LoadDefaults populates c with the kiosk's standard layout under ./data.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = "data/user_database.db"
	c.LogImageDir = "data/log_images"
	c.QRImageDir = "data/qr_images"
	c.FrameDir = "data/frames"
	c.FramePollInterval = 50 * time.Millisecond
	c.ValidationDelay = 2500 * time.Millisecond
}

// LoadConfig constructs a Config with defaults applied.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	return cfg
}
