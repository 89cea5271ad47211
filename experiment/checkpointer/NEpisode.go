package checkpointer

import (
	"fmt"
	"log"
)

// nEpisode implements checkpointing every N episodes
type nEpisode struct {
	interval int
	object   Serializable // Object to save

	// dirname returns the directory to save the object in at the end of
	// an episode. To save each checkpoint into a separate directory
	// with the episode number as suffix (e.g. save/episode_1000,
	// save/episode_2000, ...) use DirEnumerator:
	//
	// n := NewNEpisode(1000, object, DirEnumerator("save", "episode_"))
	dirname func(episode int) string
}

// NewNEpisode returns a checkpointer that checkpoints every n episodes.
// The first episode, numbered 0, is never checkpointed.
func NewNEpisode(n int, object Serializable,
	dirname func(episode int) string) (Checkpointer, error) {
	if n < 1 {
		return nil, fmt.Errorf("newNEpisode: checkpoint interval must be "+
			"positive\n\twant(>= 1)\n\thave(%v)", n)
	}

	return &nEpisode{
		interval: n,
		object:   object,
		dirname:  dirname,
	}, nil
}

// Checkpoint saves the Checkpointer's tracked object by calling
// its Save() method if episode is a multiple of the interval
func (n *nEpisode) Checkpoint(episode int) error {
	if episode <= 0 || episode%n.interval != 0 {
		return nil
	}

	dir := n.dirname(episode)
	if err := n.object.Save(dir); err != nil {
		return err
	}
	log.Printf("saved checkpoint at episode %v to %v", episode, dir)
	return nil
}
