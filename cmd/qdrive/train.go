package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/Mugna0990/RL-Car-Navigation-from-scratch/agent"
	"github.com/Mugna0990/RL-Car-Navigation-from-scratch/config"
	"github.com/Mugna0990/RL-Car-Navigation-from-scratch/environment/track"
	"github.com/Mugna0990/RL-Car-Navigation-from-scratch/experiment"
	"github.com/Mugna0990/RL-Car-Navigation-from-scratch/experiment/tracker"
	"github.com/Mugna0990/RL-Car-Navigation-from-scratch/utils/progressbar"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	trainMap          string
	trainEpisodes     int
	trainRunID        string
	trainResume       string
	trainStartEpisode int
	trainProgress     bool
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train an agent on a track",
	Long: `Train an agent on a track. Each run writes its checkpoints, final
networks, loss log, episode returns, and episode lengths into its own
directory <save dir>/<run id>. Without --run-id a new random run id is
used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if trainMap != "" {
			c.Map = trainMap
		}
		if cmd.Flags().Changed("episodes") {
			c.Experiment.Episodes = trainEpisodes
		}
		if trainRunID == "" {
			trainRunID = uuid.New().String()
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt,
			syscall.SIGTERM)
		defer stop()

		return train(ctx, c, trainRunID)
	},
}

func init() {
	f := trainCmd.Flags()
	f.StringVarP(&trainMap, "map", "m", "", "track map file")
	f.IntVarP(&trainEpisodes, "episodes", "n", 0, "number of episodes")
	f.StringVar(&trainRunID, "run-id", "", "name of the run directory")
	f.StringVar(&trainResume, "resume", "", "directory of saved networks "+
		"to resume training from")
	f.IntVar(&trainStartEpisode, "start-episode", 0, "index of the first "+
		"episode when resuming")
	f.BoolVar(&trainProgress, "progress", true, "display a progress bar")
}

// train runs a complete training run with configuration c
func train(ctx context.Context, c config.Config, runID string) error {
	runDir := filepath.Join(c.Experiment.SaveDir, runID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return errors.Wrap(err, "train: could not create run directory")
	}
	c.Experiment.SaveDir = runDir
	if c.Experiment.LossLog != "" {
		c.Experiment.LossLog = filepath.Join(runDir, lossLogFile)
	}
	if err := c.Save(filepath.Join(runDir, configFile)); err != nil {
		return err
	}
	log.Printf("run %v: saving to %v", runID, runDir)

	env, err := newTrack(c)
	if err != nil {
		return err
	}

	a, err := c.Agent.CreateAgent(env, c.Seed)
	if err != nil {
		return errors.Wrap(err, "train: could not create agent")
	}
	if trainResume != "" {
		saver, ok := a.(agent.Saver)
		if !ok {
			return fmt.Errorf("train: agent %v cannot be loaded", c.Agent.Type)
		}
		if err := saver.Load(trainResume); err != nil {
			return errors.Wrapf(err, "train: could not resume from %v",
				trainResume)
		}
		log.Printf("resumed from %v", trainResume)
	}

	returns := tracker.NewReturn(filepath.Join(runDir, returnFile))
	lengths := tracker.NewEpisodeLength(filepath.Join(runDir, lengthFile))
	exp, err := experiment.NewOnline(env, a, c.Experiment, returns, lengths)
	if err != nil {
		return err
	}
	exp.SetStartEpisode(trainStartEpisode)
	if trainProgress {
		exp.SetProgressBar(progressbar.NewManualProgressBar(os.Stdout, 40,
			c.Experiment.Episodes-trainStartEpisode))
	}

	runErr := exp.Run(ctx)
	if err := exp.Save(); err != nil {
		log.Printf("warning: could not save tracked data: %v", err)
	}
	if errors.Is(runErr, context.Canceled) {
		log.Printf("training interrupted at episode %v", exp.CurrentEpisode())
		return nil
	}
	return runErr
}

// newTrack loads the map of c and creates the track environment
func newTrack(c config.Config) (*track.Track, error) {
	m, err := track.LoadMap(c.Map)
	if err != nil {
		return nil, err
	}
	env, _, err := track.New(m, c.Track)
	if err != nil {
		return nil, errors.Wrapf(err, "could not create track from %v",
			c.Map)
	}
	return env, nil
}
