package physics

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

var ErrInvalidConfig = errors.New("invalid resolver config")

// Config holds the resolver's tunables.
type Config struct {
	// Percent of the remaining overlap removed per step, in (0, 1]
	Percent float32 `json:"percent"`
	// Slop is the overlap tolerated before correction engages
	Slop float32 `json:"slop"`

	// Reference selection: A wins when penA >= penB*BiasRelative + penA*BiasAbsolute
	BiasRelative float32 `json:"biasRelative"`
	BiasAbsolute float32 `json:"biasAbsolute"`

	// MinSeparation below which a point impulse source counts as inside the polygon
	MinSeparation float32 `json:"minSeparation"`
}

func DefaultConfig() Config {
	return Config{
		Percent:       0.2,
		Slop:          0.01,
		BiasRelative:  0.95,
		BiasAbsolute:  0.01,
		MinSeparation: 0.0001,
	}
}

func (c Config) Validate() error {
	switch {
	case c.Percent <= 0 || c.Percent > 1:
		return errors.Wrapf(ErrInvalidConfig, "percent %v not in (0, 1]", c.Percent)
	case c.Slop < 0:
		return errors.Wrapf(ErrInvalidConfig, "slop %v is negative", c.Slop)
	case c.BiasRelative <= 0 || c.BiasRelative > 1:
		return errors.Wrapf(ErrInvalidConfig, "bias relative %v not in (0, 1]", c.BiasRelative)
	case c.BiasAbsolute < 0:
		return errors.Wrapf(ErrInvalidConfig, "bias absolute %v is negative", c.BiasAbsolute)
	case c.MinSeparation <= 0:
		return errors.Wrapf(ErrInvalidConfig, "min separation %v must be positive", c.MinSeparation)
	}
	return nil
}

// LoadConfig reads a JSON config. Fields missing from the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read resolver config")
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), errors.Wrapf(err, "parse resolver config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), errors.Wrap(err, path)
	}
	return cfg, nil
}

func SaveConfig(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal resolver config")
	}
	return errors.Wrap(os.WriteFile(path, data, 0644), "write resolver config")
}
