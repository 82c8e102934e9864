package simulation

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lao-tseu-is-alive/go-schools-of-fish/pkg/flock"
	"github.com/lao-tseu-is-alive/go-schools-of-fish/pkg/geometry"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/image/colornames"
)

// ErrInvalidColor is returned for a group color that is neither a known name nor #rrggbb.
var ErrInvalidColor = errors.New("invalid color")

// GroupConfig describes one group at startup. Missing fields take the flock defaults.
type GroupConfig struct {
	Count                 int     `json:"count"`
	Cohesion              float64 `json:"cohesion"`
	Separation            float64 `json:"separation"`
	Alignment             float64 `json:"alignment"`
	Friendliness          float64 `json:"friendliness"`
	ViewDistance          float64 `json:"viewDistance"`
	MinSeparationDistance float64 `json:"minSeparationDistance"`
	MaxSpeed              float64 `json:"maxSpeed"`
	SizeX                 float64 `json:"sizeX"`
	SizeY                 float64 `json:"sizeY"`
	// Color is an SVG color name ("seagreen") or a hex triplet ("#1acc4d").
	Color string `json:"color"`
}

type Config struct {
	// World Dimensions
	WorldWidth  float64 `json:"worldWidth"`
	WorldHeight float64 `json:"worldHeight"`

	// Velocity nudge applied each frame to agents outside the arena
	BoundaryRepelX float64 `json:"boundaryRepelX"`
	BoundaryRepelY float64 `json:"boundaryRepelY"`

	TicksPerSecond int  `json:"ticksPerSecond"`
	ShowViewRadius bool `json:"showViewRadius"`
	// Seed for agent placement, 0 picks a random one
	Seed uint64 `json:"seed"`

	Groups []GroupConfig `json:"groups"`
}

// DefaultGroupConfig mirrors flock.DefaultParams.
func DefaultGroupConfig() GroupConfig {
	p := flock.DefaultParams()
	return GroupConfig{
		Count:                 int(p.Count),
		Cohesion:              p.Cohesion,
		Separation:            p.Separation,
		Alignment:             p.Alignment,
		Friendliness:          p.Friendliness,
		ViewDistance:          p.ViewDistance,
		MinSeparationDistance: p.MinSeparationDistance,
		MaxSpeed:              p.MaxSpeed,
		SizeX:                 p.Size.X,
		SizeY:                 p.Size.Y,
		Color:                 "#1acc4d",
	}
}

// UnmarshalJSON fills the fields absent from b with DefaultGroupConfig.
func (g *GroupConfig) UnmarshalJSON(b []byte) error {
	type plain GroupConfig
	p := plain(DefaultGroupConfig())
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*g = GroupConfig(p)
	return nil
}

// DefaultConfig is a 1200x700 arena with a small green school that ignores strangers and
// two large red and blue schools.
func DefaultConfig() *Config {
	school := func(count int, friendliness float64, clr string) GroupConfig {
		g := DefaultGroupConfig()
		g.Count = count
		g.Friendliness = friendliness
		g.ViewDistance = 60
		g.MinSeparationDistance = 15
		g.MaxSpeed = 100
		g.SizeX = 15
		g.SizeY = 5
		g.Color = clr
		return g
	}
	return &Config{
		WorldWidth:     1200,
		WorldHeight:    700,
		BoundaryRepelX: 15,
		BoundaryRepelY: 15,
		TicksPerSecond: 60,
		ShowViewRadius: false,
		Groups: []GroupConfig{
			school(50, 0, "green"),
			school(300, 0.1, "blue"),
			school(300, 0.1, "red"),
		},
	}
}

// LoadConfig loads configuration from a JSON or TOML file and validates it against the schema.
// The format follows the file extension, TOML documents are converted to JSON before validation.
func LoadConfig(configFile string, schemaFile string) (*Config, error) {
	// 1. Compile Schema
	sch, err := jsonschema.Compile(schemaFile)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	// 2. Read Config File
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(configFile), ".toml") {
		if b, err = tomlToJSON(b); err != nil {
			return nil, err
		}
	}

	return parseConfig(sch, b)
}

func tomlToJSON(b []byte) ([]byte, error) {
	var raw map[string]interface{}
	if _, err := toml.Decode(string(b), &raw); err != nil {
		return nil, fmt.Errorf("failed to decode config toml: %w", err)
	}
	out, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to convert config toml: %w", err)
	}
	return out, nil
}

func parseConfig(sch *jsonschema.Schema, b []byte) (*Config, error) {
	// 3. Validate
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}

	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// 4. Unmarshal into Struct, on top of the defaults
	cfg := DefaultConfig()
	cfg.Groups = nil
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	for i, g := range cfg.Groups {
		if _, err := ParseColor(g.Color); err != nil {
			return nil, fmt.Errorf("group %d: %w", i, err)
		}
	}

	return cfg, nil
}

// ParseColor resolves an SVG color name or a #rrggbb triplet.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		var c color.RGBA
		if len(s) != 7 {
			return c, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
			return c, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		c.A = 0xff
		return c, nil
	}
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return c, nil
	}
	return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
}

// Params converts the group description into engine parameters.
func (g GroupConfig) Params() (flock.Params, error) {
	c, err := ParseColor(g.Color)
	if err != nil {
		return flock.Params{}, err
	}
	return flock.Params{
		Cohesion:              g.Cohesion,
		Separation:            g.Separation,
		Alignment:             g.Alignment,
		Friendliness:          g.Friendliness,
		ViewDistance:          g.ViewDistance,
		MinSeparationDistance: g.MinSeparationDistance,
		MaxSpeed:              g.MaxSpeed,
		Size:                  geometry.Vector2D{X: g.SizeX, Y: g.SizeY},
		Color:                 flock.NewColor(c),
		Count:                 float64(g.Count),
	}, nil
}

// Bounds is the arena, anchored at the origin.
func (c *Config) Bounds() geometry.Boundary {
	return geometry.NewBoundary(0, 0, c.WorldWidth, c.WorldHeight)
}

// NewSystem populates a flock system with every configured group.
func (c *Config) NewSystem() (*flock.System, error) {
	s := flock.NewSystem(c.Bounds(),
		geometry.Vector2D{X: c.BoundaryRepelX, Y: c.BoundaryRepelY},
		flock.NewRandomSource(c.Seed))
	for i, g := range c.Groups {
		p, err := g.Params()
		if err != nil {
			return nil, fmt.Errorf("group %d: %w", i, err)
		}
		s.AddGroupWithParams(p)
	}
	return s, nil
}
