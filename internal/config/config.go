// Package config handles tool configuration loading and management.
package config

// Config holds all terracast settings.
type Config struct {
	Generator GeneratorConfig `yaml:"generator"`
	Terrain   TerrainConfig   `yaml:"terrain"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// GeneratorConfig holds procedural heightmap generation settings.
type GeneratorConfig struct {
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	CellSize      float32 `yaml:"cell_size"`      // World units per grid cell
	VerticalScale float32 `yaml:"vertical_scale"` // Multiplier applied to raw samples
	Amplitude     float32 `yaml:"amplitude"`      // Peak raw height
	Octaves       int     `yaml:"octaves"`
	Frequency     float64 `yaml:"frequency"`
	Persistence   float64 `yaml:"persistence"`
	Seed          int64   `yaml:"seed"`
}

// TerrainConfig holds query defaults for the terrain tooling.
type TerrainConfig struct {
	MaxRayDistance float32 `yaml:"max_ray_distance"`
	CapsuleRadius  float32 `yaml:"capsule_radius"`
	CapsuleHeight  float32 `yaml:"capsule_height"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Generator: GeneratorConfig{
			Width:         257,
			Height:        257,
			CellSize:      1,
			VerticalScale: 1,
			Amplitude:     40,
			Octaves:       5,
			Frequency:     0.01,
			Persistence:   0.5,
			Seed:          1,
		},
		Terrain: TerrainConfig{
			MaxRayDistance: 100,
			CapsuleRadius:  0.5,
			CapsuleHeight:  1.8,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
