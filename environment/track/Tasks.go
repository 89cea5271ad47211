package track

import "fmt"

// Goal represents the task of driving to a goal tile without hitting a
// wall. Rewards are shaped by the change in shortest path distance to
// the goal.
type Goal struct {
	config Config
}

// NewGoal returns a new Goal task
func NewGoal(c Config) (*Goal, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &Goal{config: c}, nil
}

// GetReward returns the reward for moving from a position prevDist
// tiles from the goal to one newDist tiles away with outcome status.
// Distances of -1 mark unreachable goals and earn no progress reward.
func (g *Goal) GetReward(prevDist, newDist int, status Status) float64 {
	var reward float64
	if prevDist != -1 && newDist != -1 {
		reward += g.config.ProgressReward * float64(prevDist-newDist)
	}
	reward -= g.config.StepPenalty

	switch status {
	case AtGoal:
		reward += g.config.GoalReward
	case Collision:
		reward -= g.config.CollisionPenalty
	}

	return reward / g.config.RewardScale
}

// AtGoal returns whether status ends the episode in a terminal state
func (g *Goal) AtGoal(status Status) bool {
	return status == AtGoal
}

// Terminal returns whether status is a terminal outcome
func (g *Goal) Terminal(status Status) bool {
	return status == AtGoal || status == Collision
}

// String implements the fmt.Stringer interface
func (g *Goal) String() string {
	return fmt.Sprintf("Goal | Progress: %v  |  Step: %v  |  Goal: %v  |  "+
		"Collision: %v  |  Scale: %v", g.config.ProgressReward,
		g.config.StepPenalty, g.config.GoalReward, g.config.CollisionPenalty,
		g.config.RewardScale)
}
