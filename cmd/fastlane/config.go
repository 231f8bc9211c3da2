package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/metailurini/fastlane"
	"github.com/metailurini/fastlane/internal/column"
	"gopkg.in/yaml.v3"
)

var errBadProfile = errors.New("invalid profile")

// profile is the YAML shape of an index configuration. Zero fields fall back
// to the library defaults.
type profile struct {
	Levels    int `yaml:"levels" json:"levels"`
	Skip      int `yaml:"skip" json:"skip"`
	MaxSkip   int `yaml:"max_skip,omitempty" json:"max_skip,omitempty"`
	LaneBlock int `yaml:"lane_block,omitempty" json:"lane_block,omitempty"`
	ScanBatch int `yaml:"scan_batch,omitempty" json:"scan_batch,omitempty"`
}

func defaultProfile() profile {
	return profile{Levels: 9, Skip: fastlane.DefaultMaxSkipFactor}
}

// loadProfile reads path over the defaults and applies --levels and --skip.
func loadProfile(path string) (profile, error) {
	p := defaultProfile()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return p, fmt.Errorf("failed to read profile: %w", err)
		}
		if err := yaml.Unmarshal(data, &p); err != nil {
			return p, fmt.Errorf("%w: %s: %w", errBadProfile, path, err)
		}
	}
	if levelsFlag > 0 {
		p.Levels = levelsFlag
	}
	if skipFlag > 0 {
		p.Skip = skipFlag
	}
	if p.Levels < 0 || p.Skip < 0 || p.MaxSkip < 0 || p.LaneBlock < 0 || p.ScanBatch < 0 {
		return p, fmt.Errorf("%w: negative field in %+v", errBadProfile, p)
	}
	return p, nil
}

func (p profile) options() []fastlane.Option {
	opts := []fastlane.Option{fastlane.WithLogger(logger)}
	if p.MaxSkip > 0 {
		opts = append(opts, fastlane.WithMaxSkipFactor(p.MaxSkip))
	}
	if p.LaneBlock > 0 {
		opts = append(opts, fastlane.WithLaneBlockSize(p.LaneBlock))
	}
	if p.ScanBatch > 0 {
		opts = append(opts, fastlane.WithScanBatchWidth(p.ScanBatch))
	}
	return opts
}

// newIndex builds an empty index from the active profile.
func newIndex(m *fastlane.Metrics) (*fastlane.Index, profile, error) {
	p, err := loadProfile(configPath)
	if err != nil {
		return nil, p, err
	}
	ix, err := fastlane.New(p.Levels, p.Skip, append(p.options(), fastlane.WithMetrics(m))...)
	if err != nil {
		return nil, p, fmt.Errorf("failed to create index: %w", err)
	}
	return ix, p, nil
}

// openIndex loads a key column file into a new index.
func openIndex(path string, m *fastlane.Metrics) (*fastlane.Index, error) {
	ix, _, err := newIndex(m)
	if err != nil {
		return nil, err
	}

	printVerbose("Loading column: %s\n", path)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open column: %w", err)
	}
	defer f.Close()

	n, err := column.Load(f, ix)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	printVerbose("Loaded %d keys\n", n)
	return ix, nil
}
