// Package checkpointer implements periodic saving of learned state
// during an experiment
package checkpointer

// Serializable is an object that can be saved into a directory
type Serializable interface {
	Save(dir string) error
}

// Checkpointer checkpoints/saves serializable objects at the end of
// episodes
type Checkpointer interface {
	Checkpoint(episode int) error
}
