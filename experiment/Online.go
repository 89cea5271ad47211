package experiment

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/Mugna0990/RL-Car-Navigation-from-scratch/agent"
	env "github.com/Mugna0990/RL-Car-Navigation-from-scratch/environment"
	"github.com/Mugna0990/RL-Car-Navigation-from-scratch/experiment/checkpointer"
	"github.com/Mugna0990/RL-Car-Navigation-from-scratch/experiment/tracker"
	ts "github.com/Mugna0990/RL-Car-Navigation-from-scratch/timestep"
	"github.com/Mugna0990/RL-Car-Navigation-from-scratch/utils/progressbar"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// FinalDir is the directory, relative to the save directory, that the
// agent is saved in when training finishes
const FinalDir = "final"

// Online is an Experiment that trains an agent online. After each
// environment step the transition is stored and the agent performs a
// learning step. At the end of each episode the agent's epsilon is
// decayed, the target network is synchronized on schedule, and
// checkpoints are taken.
type Online struct {
	env.Environment
	agent.Agent
	config Config

	currentEpisode int
	trackers       []tracker.Tracker
	checkpointers  []checkpointer.Checkpointer
	loss           *tracker.LossLog
	progress       *progressbar.ManualProgressBar

	// Returns of the episodes since the last progress log line
	recentReturns []float64
}

// NewOnline creates and returns a new online experiment on a given
// environment with a given agent. If the agent can be saved, it is
// checkpointed every c.SaveInterval episodes.
func NewOnline(e env.Environment, a agent.Agent, c Config,
	t ...tracker.Tracker) (*Online, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	o := &Online{
		Environment: e,
		Agent:       a,
		config:      c,
		trackers:    t,
	}

	if saver, ok := a.(agent.Saver); ok {
		check, err := checkpointer.NewNEpisode(c.SaveInterval, saver,
			checkpointer.DirEnumerator(c.SaveDir, "episode_"))
		if err != nil {
			return nil, errors.Wrap(err, "newOnline")
		}
		o.checkpointers = append(o.checkpointers, check)
	}

	return o, nil
}

// Register registers a tracker.Tracker with an Experiment so that data
// generated during the experiment can be tracked and saved
func (o *Online) Register(t tracker.Tracker) {
	o.trackers = append(o.trackers, t)
}

// SetProgressBar sets the progress bar that is advanced after each
// episode
func (o *Online) SetProgressBar(p *progressbar.ManualProgressBar) {
	o.progress = p
}

// SetStartEpisode sets the index of the next episode to run, which is
// used when resuming training
func (o *Online) SetStartEpisode(episode int) {
	o.currentEpisode = episode
}

// CurrentEpisode returns the index of the next episode to run
func (o *Online) CurrentEpisode() int {
	return o.currentEpisode
}

// RunEpisode runs a single episode of the experiment
func (o *Online) RunEpisode() (Result, error) {
	result := Result{Episode: o.currentEpisode}

	step := o.Environment.Reset()
	o.track(step)
	state := step.Features()

	for !step.Last() {
		action := o.Agent.SelectAction(state)
		next, done, err := o.Environment.Step(action)
		if err != nil {
			return result, errors.Wrapf(err, "runEpisode: episode %v",
				o.currentEpisode)
		}
		nextState := next.Features()

		o.Agent.StoreTransition(state, action, next.Reward, nextState, done)
		if loss, ok := o.Agent.Step(); ok && o.loss != nil {
			if err := o.loss.Log(loss); err != nil {
				log.Printf("warning: %v", err)
			}
		}

		o.track(next)
		result.Return += next.Reward
		result.Steps++
		result.Terminal = done

		state, step = nextState, next
	}

	o.endEpisode(result)
	return result, nil
}

// endEpisode performs all end of episode bookkeeping
func (o *Online) endEpisode(result Result) {
	o.Agent.EndEpisode()

	for _, check := range o.checkpointers {
		if err := check.Checkpoint(o.currentEpisode); err != nil {
			log.Printf("warning: checkpoint: %v", err)
		}
	}

	if syncer, ok := o.Agent.(agent.TargetSyncer); ok &&
		o.currentEpisode%o.config.TargetUpdateInterval == 0 {
		syncer.UpdateTargetNetwork()
	}

	o.report(result)
	o.currentEpisode++
}

// report advances the progress bar and periodically logs the mean
// return of recent episodes
func (o *Online) report(result Result) {
	o.recentReturns = append(o.recentReturns, result.Return)

	if o.progress != nil {
		o.progress.Increment()
		o.progress.SetStatus(o.status(result))
		o.progress.Display()
	}

	if o.config.LogInterval > 0 &&
		(o.currentEpisode+1)%o.config.LogInterval == 0 {
		var meanLoss float64
		if o.loss != nil {
			meanLoss = o.loss.Mean()
			if err := o.loss.Flush(); err != nil {
				log.Printf("warning: %v", err)
			}
		}
		log.Printf("episode %v | mean return: %.3f | mean loss: %.5f | %v",
			o.currentEpisode, stat.Mean(o.recentReturns, nil), meanLoss,
			o.status(result))
		o.recentReturns = o.recentReturns[:0]
	}
}

// status returns a short description of the agent's state
func (o *Online) status(result Result) string {
	if e, ok := o.Agent.(interface{ Epsilon() float64 }); ok {
		return fmt.Sprintf("return: %.2f  ε: %.4f", result.Return,
			e.Epsilon())
	}
	return fmt.Sprintf("return: %.2f", result.Return)
}

// Run runs the experiment until all episodes have been run or ctx is
// cancelled. In both cases the agent is saved into the final directory
// if it can be saved. The loss log, if any, is open while Run runs.
func (o *Online) Run(ctx context.Context) error {
	if o.config.LossLog != "" {
		lossLog, err := tracker.NewLossLog(o.config.LossLog)
		if err != nil {
			return errors.Wrap(err, "run")
		}
		o.loss = lossLog
		defer func() {
			if err := lossLog.Close(); err != nil {
				log.Printf("warning: %v", err)
			}
			o.loss = nil
		}()
	}

	var runErr error
	for o.currentEpisode < o.config.Episodes {
		if runErr = ctx.Err(); runErr != nil {
			break
		}
		if _, runErr = o.RunEpisode(); runErr != nil {
			break
		}
	}
	if o.progress != nil {
		o.progress.Done()
	}

	if err := o.saveFinal(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// saveFinal saves the agent into the final directory
func (o *Online) saveFinal() error {
	saver, ok := o.Agent.(agent.Saver)
	if !ok {
		return nil
	}

	dir := filepath.Join(o.config.SaveDir, FinalDir)
	if err := saver.Save(dir); err != nil {
		return errors.Wrap(err, "saveFinal")
	}
	log.Printf("saved final agent to %v", dir)
	return nil
}

// Save saves all the data cached by the Trackers to disk
func (o *Online) Save() error {
	var first error
	for _, t := range o.trackers {
		if err := t.Save(); err != nil {
			log.Printf("warning: %v", err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}

// track tracks the current timestep by caching its data in each
// Tracker
func (o *Online) track(t ts.TimeStep) {
	for _, tr := range o.trackers {
		tr.Track(t)
	}
}
