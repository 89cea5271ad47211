package track

// NumFeatures is the length of the feature vector of a State
const NumFeatures = 4

// State is the situation of a car on a track
type State struct {
	X, Y      int
	Direction Direction
	Speed     int
}

// Features returns the state as a normalized feature vector: the
// position scaled by the largest coordinates maxX and maxY, the heading,
// and the speed relative to the initial speed. A stopped car has a
// negative speed feature.
func (s State) Features(maxX, maxY int) []float64 {
	return []float64{
		float64(s.X) / float64(maxX),
		float64(s.Y) / float64(maxY),
		float64(s.Direction) / 3.0,
		float64(s.Speed-InitialSpeed) / float64(MaxSpeed-InitialSpeed),
	}
}
