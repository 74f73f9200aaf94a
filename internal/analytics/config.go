package analytics

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Weights are the per-factor coefficients of the risk score. They must sum
// to 1 so that scores stay within 0..100.
type Weights struct {
	StudyIntensity float64 `yaml:"study_intensity"`
	SleepProblems  float64 `yaml:"sleep_problems"`
	Headaches      float64 `yaml:"headaches"`
	SocialPressure float64 `yaml:"social_pressure"`
	Anxiety        float64 `yaml:"anxiety"`
}

func (w Weights) sum() float64 {
	return w.StudyIntensity + w.SleepProblems + w.Headaches + w.SocialPressure + w.Anxiety
}

// Cutoffs are the inclusive lower bounds of the moderado and alto segments.
type Cutoffs struct {
	Moderate int `yaml:"moderado"`
	High     int `yaml:"alto"`
}

// Thresholds trigger a recommendation when a factor reaches the value.
type Thresholds struct {
	Anxiety        int `yaml:"anxiety"`
	SleepProblems  int `yaml:"sleep_problems"`
	StudyIntensity int `yaml:"study_intensity"`
	SocialPressure int `yaml:"social_pressure"`
	Headaches      int `yaml:"headaches"`
}

type Config struct {
	Weights         Weights    `yaml:"weights"`
	Segments        Cutoffs    `yaml:"segments"`
	Recommendations Thresholds `yaml:"recommendations"`
}

func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			StudyIntensity: 0.22,
			SleepProblems:  0.22,
			Headaches:      0.16,
			SocialPressure: 0.18,
			Anxiety:        0.22,
		},
		Segments: Cutoffs{Moderate: 40, High: 70},
		Recommendations: Thresholds{
			Anxiety:        7,
			SleepProblems:  6,
			StudyIntensity: 7,
			SocialPressure: 6,
			Headaches:      6,
		},
	}
}

var ErrInvalidConfig = errors.New("invalid scoring config")

func (c Config) Validate() error {
	w := c.Weights
	for _, v := range []float64{w.StudyIntensity, w.SleepProblems, w.Headaches, w.SocialPressure, w.Anxiety} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: weights must be finite and non-negative", ErrInvalidConfig)
		}
	}
	if math.Abs(w.sum()-1) > 1e-9 {
		return fmt.Errorf("%w: weights sum to %.4f, want 1", ErrInvalidConfig, w.sum())
	}
	if c.Segments.Moderate < 0 || c.Segments.High > 100 || c.Segments.Moderate > c.Segments.High {
		return fmt.Errorf("%w: segment cutoffs must satisfy 0 <= moderado <= alto <= 100", ErrInvalidConfig)
	}
	t := c.Recommendations
	for _, v := range []int{t.Anxiety, t.SleepProblems, t.StudyIntensity, t.SocialPressure, t.Headaches} {
		if v < 0 || v > 10 {
			return fmt.Errorf("%w: recommendation thresholds must be within 0..10", ErrInvalidConfig)
		}
	}
	return nil
}

// ParseConfig overlays YAML data on DefaultConfig; keys left out keep their
// default values.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads a scoring config file. An empty path yields the defaults.
func LoadConfig(path string) (Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read scoring config %s: %w", path, err)
	}
	return ParseConfig(data)
}
