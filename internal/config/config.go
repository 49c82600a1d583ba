package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gainboard/internal/evaluation"
)

// CompetitionConfig is the operator-authored definition of one competition,
// read from a JSON file by the seed command. The database copy created from
// it is the runtime authority.
type CompetitionConfig struct {
	Name              string                     `json:"name"`
	Description       string                     `json:"description"`
	Deadline          string                     `json:"deadline"`
	ResultsRevealDate string                     `json:"results_reveal_date"`
	MasterDataPath    string                     `json:"master_data_path"`
	Teachers          []string                   `json:"teachers"`
	GainMatrix        evaluation.GainMatrix      `json:"gain_matrix"`
	GainThresholds    []evaluation.GainThreshold `json:"gain_thresholds"`
}

func LoadCompetitionConfig(path string) (*CompetitionConfig, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var cfg CompetitionConfig
	if err := json.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return &cfg, nil
}

// ParseFlexibleTime accepts RFC 3339 or a bare local timestamp without zone,
// which operators tend to write in config files. Bare timestamps are read as
// UTC.
func ParseFlexibleTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05", value); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}
