// Package config handles tool configuration loading and management.
package config

// Config holds all globemesh settings.
type Config struct {
	Mesh    MeshConfig    `yaml:"mesh"`
	Logging LoggingConfig `yaml:"logging"`
}

// MeshConfig holds default mesh-building parameters. CLI flags override
// these per invocation.
type MeshConfig struct {
	Thickness  float64         `yaml:"thickness"`  // extrusion distance
	Resolution float64         `yaml:"resolution"` // boundary subdivision density (ellipsoid mode)
	Ellipsoid  bool            `yaml:"ellipsoid"`  // project onto the ellipsoid instead of a flat plane
	Radii      EllipsoidConfig `yaml:"radii"`
	Workers    int             `yaml:"workers"` // 0 = one per CPU
}

// EllipsoidConfig holds the reference ellipsoid radii in meters.
type EllipsoidConfig struct {
	SemiMajor float64 `yaml:"semi_major"`
	SemiMinor float64 `yaml:"semi_minor"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values. The radii default
// to WGS84.
func Default() *Config {
	return &Config{
		Mesh: MeshConfig{
			Thickness:  1.0,
			Resolution: 1.0,
			Ellipsoid:  false,
			Radii: EllipsoidConfig{
				SemiMajor: 6378137.0,
				SemiMinor: 6356752.314245,
			},
			Workers: 0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
