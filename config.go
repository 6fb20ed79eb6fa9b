package rainflow

import (
	"fmt"
	"log"
	"math"

	"github.com/BurntSushi/toml"
)

// Config holds every tunable of a simulation.
// Sizes are in simulation units, rates and chances are per baseline frame (60 Hz).
type Config struct {
	Name string `toml:"preset"` // preset the parameters started from

	// Droplet population
	MinR        float64 `toml:"min_r"`     // smallest regular droplet radius
	MaxR        float64 `toml:"max_r"`     // largest droplet radius, also the merge cap
	MaxDrops    int     `toml:"max_drops"` // population cap at 1024x768, scaled by area
	Seed        int64   `toml:"seed"`      // 0 seeds from the clock
	MaxVelocity float64 `toml:"max_velocity"`

	// Rain
	Raining            bool       `toml:"raining"`
	RainChance         float64    `toml:"rain_chance"`
	RainLimit          float64    `toml:"rain_limit"`
	SpawnArea          [2]float64 `toml:"spawn_area"` // vertical spawn band as fractions of height
	AutoShrink         bool       `toml:"auto_shrink"`
	DropFallMultiplier float64    `toml:"drop_fall_multiplier"`
	GlobalTimeScale    float64    `toml:"global_time_scale"`

	// Static residue droplets
	DropletsRate                     float64    `toml:"droplets_rate"`
	DropletsSize                     [2]float64 `toml:"droplets_size"`
	DropletsCleaningRadiusMultiplier float64    `toml:"droplets_cleaning_radius_multiplier"`

	// Trails
	TrailRate       float64    `toml:"trail_rate"`
	TrailScaleRange [2]float64 `toml:"trail_scale_range"`

	// Droplet merging
	CollisionRadius          float64 `toml:"collision_radius"`
	CollisionRadiusIncrease  float64 `toml:"collision_radius_increase"`
	CollisionBoostMultiplier float64 `toml:"collision_boost_multiplier"`
	CollisionBoost           float64 `toml:"collision_boost"`

	// Obstacle interaction
	ObstacleCollision bool    `toml:"obstacle_collision"`
	BounceRestitution float64 `toml:"bounce_restitution"`
	SlideFriction     float64 `toml:"slide_friction"`
	SplashProbability float64 `toml:"splash_probability"`
	SplashIntensity   int     `toml:"splash_intensity"`
	FlowChanneling    bool    `toml:"flow_channeling"`

	// Weather
	WindStrength      float64 `toml:"wind_strength"`
	WindDirection     float64 `toml:"wind_direction"` // radians, 0 blows right
	NaturalClustering bool    `toml:"natural_clustering"`

	// Obstacle index
	GridSize       float64 `toml:"grid_size"`
	FlowResolution float64 `toml:"flow_resolution"`
	FlowMargin     float64 `toml:"flow_margin"`
	InfluencePadX  float64 `toml:"influence_pad_x"`
	InfluencePadY  float64 `toml:"influence_pad_y"`
	NearDistance   float64 `toml:"near_distance"`
	FlowDistance   float64 `toml:"flow_distance"`
}

// DefaultConfig returns the default parameters.
func DefaultConfig() Config {
	return Config{
		Name: "default",

		MinR:        10,
		MaxR:        40,
		MaxDrops:    900,
		MaxVelocity: 20,

		Raining:            true,
		RainChance:         0.3,
		RainLimit:          3,
		SpawnArea:          [2]float64{-0.1, 0.95},
		AutoShrink:         true,
		DropFallMultiplier: 1,
		GlobalTimeScale:    1,

		DropletsRate:                     50,
		DropletsSize:                     [2]float64{2, 4},
		DropletsCleaningRadiusMultiplier: 0.43,

		TrailRate:       1,
		TrailScaleRange: [2]float64{0.2, 0.5},

		CollisionRadius:          0.65,
		CollisionRadiusIncrease:  0.01,
		CollisionBoostMultiplier: 0.05,
		CollisionBoost:           1,

		ObstacleCollision: true,
		BounceRestitution: 0.6,
		SlideFriction:     0.1,
		SplashProbability: 0.3,
		SplashIntensity:   2,
		FlowChanneling:    true,

		NaturalClustering: true,

		GridSize:       30,
		FlowResolution: 8,
		FlowMargin:     60,
		InfluencePadX:  20,
		InfluencePadY:  15,
		NearDistance:   5,
		FlowDistance:   25,
	}
}

// weather is the shared base of the named presets.
func weather() Config {
	c := DefaultConfig()
	c.MinR = 20
	c.MaxR = 50
	c.RainChance = 0.35
	c.RainLimit = 6
	c.DropletsSize = [2]float64{3, 5.5}
	c.TrailScaleRange = [2]float64{0.25, 0.35}
	c.CollisionRadiusIncrease = 0.0002
	c.BounceRestitution = 0.4
	c.SlideFriction = 0.12
	c.SplashProbability = 0.4
	return c
}

// Presets lists the names accepted by Preset.
var Presets = []string{"rain", "storm", "fallout", "drizzle", "sunny"}

// Preset returns the named weather preset.
func Preset(name string) (Config, bool) {
	c := weather()
	switch name {
	case "rain":
		c.WindStrength = 2
		c.WindDirection = math.Pi * 0.1
	case "storm":
		c.MaxR = 55
		c.RainChance = 0.4
		c.DropletsRate = 80
		c.TrailRate = 2.5
		c.TrailScaleRange = [2]float64{0.25, 0.4}
		c.BounceRestitution = 0.6
		c.SlideFriction = 0.08
		c.SplashProbability = 0.6
		c.SplashIntensity = 4
		c.WindStrength = 8
		c.WindDirection = math.Pi * 0.15
	case "fallout":
		c.MinR = 30
		c.MaxR = 60
		c.DropletsRate = 20
		c.TrailRate = 4
		c.CollisionRadiusIncrease = 0
		c.BounceRestitution = 0.3
		c.SlideFriction = 0.06
		c.SplashProbability = 0.3
		c.SplashIntensity = 1
		c.WindStrength = 1
		c.WindDirection = math.Pi * 0.05
		c.NaturalClustering = false
	case "drizzle":
		c.MinR = 10
		c.MaxR = 40
		c.RainChance = 0.15
		c.RainLimit = 2
		c.DropletsRate = 10
		c.DropletsSize = [2]float64{3.5, 6}
		c.BounceRestitution = 0.2
		c.SlideFriction = 0.18
		c.SplashProbability = 0.15
		c.SplashIntensity = 1
		c.WindStrength = 0.5
		c.WindDirection = math.Pi * 0.02
		c.NaturalClustering = false
	case "sunny":
		c.RainChance = 0
		c.RainLimit = 0
		c.DropletsRate = 0
		c.Raining = false
		c.ObstacleCollision = false
		c.NaturalClustering = false
	default:
		return DefaultConfig(), false
	}
	c.Name = name
	return c, true
}

// ParseConfig parses the TOML config file whose path is provided.
// A top-level preset key selects the base parameters, the rest of the file
// overwrites them. Unrecognized keys are logged and ignored.
func ParseConfig(path string) (*Config, error) {
	var head struct {
		Preset string `toml:"preset"`
	}
	if _, err := toml.DecodeFile(path, &head); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	conf := DefaultConfig()
	if head.Preset != "" {
		p, ok := Preset(head.Preset)
		if !ok {
			return nil, fmt.Errorf("parse config %s: unknown preset %q", path, head.Preset)
		}
		conf = p
	}

	md, err := toml.DecodeFile(path, &conf)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		log.Printf("rainflow: ignoring unrecognized config key %q in %s", key.String(), path)
	}
	return &conf, nil
}

// sanitize repairs values the simulation cannot work with.
func (c *Config) sanitize() {
	if c.MinR < 0 {
		c.MinR = 0
	}
	if c.MaxR < c.MinR {
		c.MinR, c.MaxR = c.MaxR, c.MinR
	}
	if c.MaxR <= 0 {
		c.MaxR = 1
	}
	if c.MaxDrops < 0 {
		c.MaxDrops = 0
	}
	if c.MaxVelocity <= 0 {
		c.MaxVelocity = DefaultConfig().MaxVelocity
	}
	if c.GlobalTimeScale <= 0 {
		c.GlobalTimeScale = 1
	}
	c.RainChance = math.Max(c.RainChance, 0)
	c.RainLimit = math.Max(c.RainLimit, 0)
	c.DropletsRate = math.Max(c.DropletsRate, 0)
	c.TrailRate = math.Max(c.TrailRate, 0)
	if c.SplashIntensity < 0 {
		c.SplashIntensity = 0
	}

	def := DefaultConfig()
	if c.GridSize <= 0 {
		c.GridSize = def.GridSize
	}
	if c.FlowResolution <= 0 {
		c.FlowResolution = def.FlowResolution
	}
	if c.FlowMargin < 0 {
		c.FlowMargin = 0
	}
	if c.FlowDistance < c.NearDistance {
		c.FlowDistance = c.NearDistance
	}
}

// deltaR is the span of regular droplet radii, never zero.
func (c *Config) deltaR() float64 {
	if d := c.MaxR - c.MinR; d > 0 {
		return d
	}
	return 1
}
