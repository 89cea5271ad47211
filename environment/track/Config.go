package track

import "fmt"

// Config describes the reward shaping and episode length of a Track.
// It is JSON serializable.
type Config struct {
	// Reward per tile of progress towards the goal
	ProgressReward float64

	// Cost of every step
	StepPenalty float64

	GoalReward       float64
	CollisionPenalty float64

	// All rewards are divided by RewardScale
	RewardScale float64

	// Episodes end after StepLimitFactor times the initial distance to
	// the goal
	StepLimitFactor int
}

// DefaultConfig returns the default track configuration
func DefaultConfig() Config {
	return Config{
		ProgressReward:   5.0,
		StepPenalty:      1.0,
		GoalReward:       100.0,
		CollisionPenalty: 100.0,
		RewardScale:      1.0,
		StepLimitFactor:  2,
	}
}

// Validate checks a Config for validity
func (c Config) Validate() error {
	if c.RewardScale <= 0 {
		return fmt.Errorf("validate: reward scale must be positive"+
			"\n\twant(> 0)\n\thave(%v)", c.RewardScale)
	}
	if c.StepLimitFactor < 1 {
		return fmt.Errorf("validate: step limit factor must be positive"+
			"\n\twant(>= 1)\n\thave(%v)", c.StepLimitFactor)
	}
	return nil
}
