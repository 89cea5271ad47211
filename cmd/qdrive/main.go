// Command qdrive trains and evaluates deep Q-learning agents that drive
// a car around a grid-world track.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Files written into each run directory
const (
	configFile  = "config.json"
	returnFile  = "returns.bin"
	lengthFile  = "lengths.bin"
	lossLogFile = "training_loss.txt"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "qdrive",
	Short: "Deep Q-learning on a grid-world driving track",
	Long: `qdrive trains a deep Q-network to drive a car from the start tile of
a text track map to a goal tile without hitting a wall.

Run configurations are JSON files; QDRIVE_* environment variables and a
.env file override the map, save directory, loss log, seed, and number
of episodes.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"JSON run configuration (defaults are used if empty)")

	rootCmd.AddCommand(trainCmd, evalCmd, plotCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
