package main

import (
	"fmt"

	"github.com/Mugna0990/RL-Car-Navigation-from-scratch/agent"
	"github.com/Mugna0990/RL-Car-Navigation-from-scratch/config"
	"github.com/Mugna0990/RL-Car-Navigation-from-scratch/environment/track"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	evalMap      string
	evalEpisodes int
	evalRender   bool
)

var evalCmd = &cobra.Command{
	Use:   "eval <agent dir>",
	Short: "Run the greedy policy of a saved agent",
	Long: `Load the networks saved in <agent dir> (for example
save/<run id>/final) and drive the track greedily, reporting the return
and outcome of each episode.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if evalMap != "" {
			c.Map = evalMap
		}

		env, err := newTrack(c)
		if err != nil {
			return err
		}
		a, err := c.Agent.CreateAgent(env, c.Seed)
		if err != nil {
			return errors.Wrap(err, "eval: could not create agent")
		}
		saver, ok := a.(agent.Saver)
		if !ok {
			return fmt.Errorf("eval: agent %v cannot be loaded", c.Agent.Type)
		}
		if err := saver.Load(args[0]); err != nil {
			return errors.Wrapf(err, "eval: could not load %v", args[0])
		}
		a.Eval()

		for i := 0; i < evalEpisodes; i++ {
			ret, steps, err := evaluate(env, a, evalRender)
			if err != nil {
				return err
			}
			fmt.Printf("Episode %v | Return: %v | Steps: %v | Outcome: %v\n",
				i, ret, steps, env.Status())
		}
		return nil
	},
}

func init() {
	f := evalCmd.Flags()
	f.StringVarP(&evalMap, "map", "m", "", "track map file")
	f.IntVarP(&evalEpisodes, "episodes", "n", 1, "number of episodes")
	f.BoolVarP(&evalRender, "render", "r", false, "print the track after "+
		"each step")
}

// evaluate runs a single episode with policy a, returning its return
// and length
func evaluate(env *track.Track, a agent.Policy, render bool) (float64, int,
	error) {
	step := env.Reset()
	if render {
		fmt.Println(env.Render())
	}

	var ret float64
	for !step.Last() {
		var err error
		step, _, err = env.Step(a.SelectAction(step.Features()))
		if err != nil {
			return ret, step.Number, err
		}
		ret += step.Reward

		if render {
			fmt.Printf("%v\n%v\n", env.Car(), env.Render())
		}
	}
	return ret, step.Number, nil
}
