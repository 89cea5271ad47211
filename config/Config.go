// Package config implements the configuration of a training run. A run
// is described by a JSON file, and directories, the map, and a few
// run-level settings can be overridden by environment variables or a
// .env file.
package config

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Mugna0990/RL-Car-Navigation-from-scratch/agent"
	"github.com/Mugna0990/RL-Car-Navigation-from-scratch/agent/deepq"
	"github.com/Mugna0990/RL-Car-Navigation-from-scratch/environment/track"
	"github.com/Mugna0990/RL-Car-Navigation-from-scratch/experiment"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Environment variables which override the configuration file
const (
	EnvMap      = "QDRIVE_MAP"
	EnvSaveDir  = "QDRIVE_SAVE_DIR"
	EnvLossLog  = "QDRIVE_LOSS_LOG"
	EnvSeed     = "QDRIVE_SEED"
	EnvEpisodes = "QDRIVE_EPISODES"
)

// Config describes a complete training run
type Config struct {
	Map        string // Path to the track map
	Seed       uint64
	Track      track.Config
	Agent      agent.TypedConfig
	Experiment experiment.Config
}

// Default returns the default run configuration
func Default() Config {
	return Config{
		Map:        filepath.Join("assets", "track.txt"),
		Track:      track.DefaultConfig(),
		Agent:      agent.NewTypedConfig(deepq.DefaultConfig()),
		Experiment: experiment.DefaultConfig(),
	}
}

// Validate checks a Config to ensure it describes a valid run
func (c Config) Validate() error {
	if c.Map == "" {
		return fmt.Errorf("validate: no map specified")
	}
	if err := c.Track.Validate(); err != nil {
		return errors.Wrap(err, "validate: track")
	}
	if c.Agent.Config == nil {
		return fmt.Errorf("validate: no agent specified")
	}
	if err := c.Agent.Validate(); err != nil {
		return errors.Wrap(err, "validate: agent")
	}
	if err := c.Experiment.Validate(); err != nil {
		return errors.Wrap(err, "validate: experiment")
	}
	return nil
}

// Load reads the configuration in the JSON file path on top of the
// defaults, then applies environment overrides. An empty path loads the
// defaults only.
func Load(path string) (Config, error) {
	c := Default()

	if path != "" {
		data, err := ioutil.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrap(err, "load")
		}
		if err := json.Unmarshal(data, &c); err != nil {
			return Config{}, errors.Wrapf(err, "load: could not decode %v",
				path)
		}
	}

	if err := loadEnvFile(); err != nil {
		return Config{}, errors.Wrap(err, "load: .env")
	}
	if err := c.applyEnv(); err != nil {
		return Config{}, err
	}

	return c, c.Validate()
}

// Save writes the configuration as indented JSON to path
func (c Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "\t")
	if err != nil {
		return errors.Wrap(err, "save")
	}
	return errors.Wrap(ioutil.WriteFile(path, data, 0o644), "save")
}

// applyEnv overrides fields with the values of set environment
// variables
func (c *Config) applyEnv() error {
	if m := os.Getenv(EnvMap); m != "" {
		c.Map = m
	}
	if dir := os.Getenv(EnvSaveDir); dir != "" {
		c.Experiment.SaveDir = dir
	}
	if l, ok := os.LookupEnv(EnvLossLog); ok {
		c.Experiment.LossLog = l
	}

	if s := os.Getenv(EnvSeed); s != "" {
		seed, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return errors.Wrapf(err, "applyEnv: %v", EnvSeed)
		}
		c.Seed = seed
	}
	if e := os.Getenv(EnvEpisodes); e != "" {
		episodes, err := strconv.Atoi(e)
		if err != nil {
			return errors.Wrapf(err, "applyEnv: %v", EnvEpisodes)
		}
		c.Experiment.Episodes = episodes
	}

	return nil
}

// loadEnvFile looks for a .env file in the working directory and up to
// four of its parents and loads the first one found. Variables that are
// already set are not overridden.
func loadEnvFile() error {
	dir, err := os.Getwd()
	if err != nil {
		return err
	}

	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			return godotenv.Load(envPath)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return nil
}
