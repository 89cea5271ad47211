package track

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Map tiles
const (
	WallTile  byte = '#'
	RoadTile  byte = '.'
	StartTile byte = 'S'
	GoalTile  byte = 'G'
)

// Map is a text track map. Each line of the map is one row, with row 0
// at the top. Any position outside the map is treated as a wall.
type Map struct {
	grid   [][]byte
	width  int
	height int
}

// LoadMap reads a Map from the file at path
func LoadMap(path string) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "loadMap")
	}
	defer f.Close()

	return ParseMap(f)
}

// ParseMap reads a Map from r. The map must contain exactly one start
// tile and at least one goal tile. Trailing blank lines are ignored.
func ParseMap(r io.Reader) (*Map, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024), 1024*1024)

	var grid [][]byte
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		grid = append(grid, []byte(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "parseMap")
	}
	for len(grid) > 0 && len(strings.TrimSpace(string(grid[len(grid)-1]))) == 0 {
		grid = grid[:len(grid)-1]
	}
	if len(grid) == 0 {
		return nil, fmt.Errorf("parseMap: empty map")
	}

	width := 0
	for _, row := range grid {
		if len(row) > width {
			width = len(row)
		}
	}
	m := &Map{grid: grid, width: width, height: len(grid)}

	starts := m.count(StartTile)
	if starts != 1 {
		return nil, fmt.Errorf("parseMap: map must have a single start tile"+
			"\n\twant(1)\n\thave(%v)", starts)
	}
	if m.count(GoalTile) == 0 {
		return nil, fmt.Errorf("parseMap: map has no goal tile")
	}
	return m, nil
}

func (m *Map) count(tile byte) int {
	n := 0
	for _, row := range m.grid {
		for _, t := range row {
			if t == tile {
				n++
			}
		}
	}
	return n
}

// Dims returns the width and height of the map
func (m *Map) Dims() (width, height int) {
	return m.width, m.height
}

// Tile returns the tile at column x and row y. Positions outside the
// map are walls.
func (m *Map) Tile(x, y int) byte {
	if y < 0 || y >= m.height || x < 0 || x >= len(m.grid[y]) {
		return WallTile
	}
	return m.grid[y][x]
}

// Find returns the coordinates of the first occurrence of tile,
// scanning rows from the top
func (m *Map) Find(tile byte) (x, y int, ok bool) {
	for y, row := range m.grid {
		for x, t := range row {
			if t == tile {
				return x, y, true
			}
		}
	}
	return -1, -1, false
}

// Distance returns the shortest path distance from (x, y) to the
// nearest goal tile, counted as the number of road tiles on the path.
// Paths may only pass through road and goal tiles. If no goal can be
// reached, -1 is returned.
func (m *Map) Distance(x, y int) int {
	type node struct {
		x, y, dots int
	}

	visited := make([][]bool, m.height)
	for i := range visited {
		visited[i] = make([]bool, m.width)
	}
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return -1
	}

	queue := []node{{x, y, 0}}
	visited[y][x] = true
	dx := []int{0, 0, -1, 1}
	dy := []int{-1, 1, 0, 0}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if m.Tile(current.x, current.y) == GoalTile {
			return current.dots
		}

		for d := range dx {
			nx, ny := current.x+dx[d], current.y+dy[d]
			if nx < 0 || nx >= m.width || ny < 0 || ny >= m.height ||
				visited[ny][nx] {
				continue
			}

			tile := m.Tile(nx, ny)
			if tile != RoadTile && tile != GoalTile {
				continue
			}
			visited[ny][nx] = true

			dots := current.dots
			if tile == RoadTile {
				dots++
			}
			queue = append(queue, node{nx, ny, dots})
		}
	}
	return -1
}

// Render returns the map as text with the tile at (x, y) replaced by
// marker
func (m *Map) Render(x, y int, marker byte) string {
	var builder strings.Builder
	for row := range m.grid {
		for col := range m.grid[row] {
			if row == y && col == x {
				builder.WriteByte(marker)
			} else {
				builder.WriteByte(m.grid[row][col])
			}
		}
		builder.WriteByte('\n')
	}
	return builder.String()
}

// String implements the fmt.Stringer interface
func (m *Map) String() string {
	return fmt.Sprintf("Map | Width: %d  |  Height: %d", m.width, m.height)
}
