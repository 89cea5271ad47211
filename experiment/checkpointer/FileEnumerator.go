package checkpointer

import (
	"fmt"
	"path/filepath"
)

// DirEnumerator returns a function which returns the name of the
// checkpoint directory of an episode. The directory is named by prefix
// followed by the episode number and is placed inside root, for
// example save/episode_1000.
func DirEnumerator(root, prefix string) func(episode int) string {
	return func(episode int) string {
		return filepath.Join(root, fmt.Sprintf("%v%v", prefix, episode))
	}
}
