// Package experiment implements functionality for running an experiment
package experiment

import (
	"context"
	"fmt"

	"github.com/Mugna0990/RL-Car-Navigation-from-scratch/experiment/tracker"
)

// Interface Experiment outlines structs that can run experiments.
// The Run() method runs all episodes until the episode limit is
// reached or the context is cancelled. The RunEpisode() function will
// run a single episode.
//
// In order to save data, Experiments use Trackers. Experiments send
// each TimeStep to Trackers using the Tracker's Track() method. The
// Tracker then determines which data from the TimeStep it caches and
// saves. New Trackers can be registered with an Experiment through the
// constructor or through an Experiment's Register() function.
type Experiment interface {
	Run(ctx context.Context) error
	RunEpisode() (Result, error)

	// Save all tracked data to disk
	Save() error

	// Adds a new tracker.Tracker to the (possibly already running)
	// experiment
	Register(t tracker.Tracker)
}

// Result summarizes a single finished episode
type Result struct {
	Episode  int
	Return   float64
	Steps    int
	Terminal bool // Whether the episode ended in a terminal state
}

func (r Result) String() string {
	return fmt.Sprintf("Episode %v | Total reward: %v | Steps: %v | "+
		"Terminal: %v", r.Episode, r.Return, r.Steps, r.Terminal)
}

// Config represents a configuration of an experiment.
type Config struct {
	Episodes int

	// Episodes between target network synchronizations. Synchronization
	// happens after every episode whose index is a multiple of
	// TargetUpdateInterval, including the first.
	TargetUpdateInterval int

	// Episodes between checkpoints, saved to
	// SaveDir/episode_<n>. The final agent is saved to SaveDir/final.
	SaveInterval int
	SaveDir      string

	// File the loss of each learning step is appended to, no loss is
	// logged if empty
	LossLog string

	// Episodes between progress log lines, never logged if 0
	LogInterval int
}

// DefaultConfig returns the default experiment configuration
func DefaultConfig() Config {
	return Config{
		Episodes:             10000,
		TargetUpdateInterval: 500,
		SaveInterval:         1000,
		SaveDir:              "save",
		LossLog:              "training_loss.txt",
		LogInterval:          100,
	}
}

// Validate checks a Config to ensure it is valid
func (c Config) Validate() error {
	if c.Episodes < 0 {
		return fmt.Errorf("validate: number of episodes must be "+
			"non-negative\n\twant(>= 0)\n\thave(%v)", c.Episodes)
	}
	if c.TargetUpdateInterval < 1 {
		return fmt.Errorf("validate: target update interval must be "+
			"positive\n\twant(>= 1)\n\thave(%v)", c.TargetUpdateInterval)
	}
	if c.SaveInterval < 1 {
		return fmt.Errorf("validate: save interval must be positive"+
			"\n\twant(>= 1)\n\thave(%v)", c.SaveInterval)
	}
	if c.SaveDir == "" {
		return fmt.Errorf("validate: no save directory specified")
	}
	if c.LogInterval < 0 {
		return fmt.Errorf("validate: log interval must be non-negative"+
			"\n\twant(>= 0)\n\thave(%v)", c.LogInterval)
	}
	return nil
}
