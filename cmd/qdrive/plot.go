package main

import (
	"fmt"
	"path/filepath"

	"github.com/Mugna0990/RL-Car-Navigation-from-scratch/experiment/tracker"
	"github.com/spf13/cobra"
)

var plotWindow int

var plotCmd = &cobra.Command{
	Use:   "plot <run dir>",
	Short: "Plot the learning curves of a training run",
	Long: `Plot the episode returns and episode lengths saved in <run dir>
into returns.png and lengths.png in the same directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		for _, curve := range []struct {
			data, image, title, label string
		}{
			{returnFile, "returns.png", "Episode return", "Return"},
			{lengthFile, "lengths.png", "Episode length", "Steps"},
		} {
			data, err := tracker.LoadData(filepath.Join(dir, curve.data))
			if err != nil {
				return err
			}

			image := filepath.Join(dir, curve.image)
			if err := tracker.Plot(data, plotWindow, curve.title,
				curve.label, image); err != nil {
				return err
			}
			fmt.Printf("%v saved to %v\n", curve.title, image)
		}
		return nil
	},
}

func init() {
	plotCmd.Flags().IntVarP(&plotWindow, "window", "w", 100,
		"moving average window in episodes")
}
