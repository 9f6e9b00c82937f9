// Package tileboard models the sliding-tile puzzle on a board of any size.
//
// Tiles are numbered 1..n-1 and 0 is the blank. The solved board holds the
// tiles in row-major order with the blank in the bottom-right corner.
package tileboard

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/jchevertonwynne/statemachine"
	"github.com/jchevertonwynne/statemachine/grid"
)

// MaxCells bounds the board area so every tile fits in one byte.
const MaxCells = 256

// ErrInvalidBoard is returned for dimensions or layouts that do not form a
// legal board.
var ErrInvalidBoard = errors.New("invalid tile board")

// Board is an immutable puzzle configuration. It is comparable, so boards
// can be compared with == and used as map keys.
type Board struct {
	columns int
	rows    int
	// cells holds one byte per tile, row-major.
	cells string
}

var _ statemachine.Differ[grid.Coord] = Board{}

// Solved returns the finished board of the given size.
func Solved(columns, rows int) (Board, error) {
	if err := checkSize(columns, rows); err != nil {
		return Board{}, err
	}
	n := columns * rows
	cells := make([]byte, n)
	for i := 0; i < n-1; i++ {
		cells[i] = byte(i + 1)
	}
	return Board{columns: columns, rows: rows, cells: string(cells)}, nil
}

// New builds a board from row-major tiles, which must be a permutation of
// 0..columns*rows-1.
func New(columns, rows int, tiles []int) (Board, error) {
	if err := checkSize(columns, rows); err != nil {
		return Board{}, err
	}
	n := columns * rows
	if len(tiles) != n {
		return Board{}, fmt.Errorf("%w: got %d tiles for a %dx%d board", ErrInvalidBoard, len(tiles), columns, rows)
	}
	present := make([]bool, n)
	cells := make([]byte, n)
	for i, tile := range tiles {
		if tile < 0 || tile >= n {
			return Board{}, fmt.Errorf("%w: tile %d out of range", ErrInvalidBoard, tile)
		}
		if present[tile] {
			return Board{}, fmt.Errorf("%w: tile %d repeated", ErrInvalidBoard, tile)
		}
		present[tile] = true
		cells[i] = byte(tile)
	}
	return Board{columns: columns, rows: rows, cells: string(cells)}, nil
}

// MustNew is New that panics on error, for fixed layouts in tests and examples.
func MustNew(columns, rows int, tiles ...int) Board {
	b, err := New(columns, rows, tiles)
	if err != nil {
		panic(err)
	}
	return b
}

// Shuffled walks the blank randomly for the given number of moves starting
// from the solved board. The result is always solvable.
func Shuffled(columns, rows, shuffles int, rng *rand.Rand) (Board, error) {
	b, err := Solved(columns, rows)
	if err != nil {
		return Board{}, err
	}
	cells := []byte(b.cells)
	x, y := columns-1, rows-1
	options := make([]grid.Coord, 0, 4)
	for range shuffles {
		options = options[:0]
		if x > 0 {
			options = append(options, grid.At(x-1, y))
		}
		if x < columns-1 {
			options = append(options, grid.At(x+1, y))
		}
		if y > 0 {
			options = append(options, grid.At(x, y-1))
		}
		if y < rows-1 {
			options = append(options, grid.At(x, y+1))
		}
		if len(options) == 0 {
			break
		}
		to := options[rng.IntN(len(options))]
		from := y*columns + x
		target := to.Row*columns + to.Column
		cells[from], cells[target] = cells[target], cells[from]
		x, y = to.Column, to.Row
	}
	b.cells = string(cells)
	return b, nil
}

func checkSize(columns, rows int) error {
	if columns < 1 || rows < 1 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidBoard, columns, rows)
	}
	if columns*rows > MaxCells {
		return fmt.Errorf("%w: %dx%d exceeds %d cells", ErrInvalidBoard, columns, rows, MaxCells)
	}
	return nil
}

// Columns returns the board width.
func (b Board) Columns() int { return b.columns }

// Rows returns the board height.
func (b Board) Rows() int { return b.rows }

// At returns the tile at the given cell.
func (b Board) At(column, row int) int {
	return int(b.cells[row*b.columns+column])
}

// Tiles returns the layout row by row.
func (b Board) Tiles() [][]int {
	out := make([][]int, b.rows)
	for row := range out {
		out[row] = make([]int, b.columns)
		for column := range out[row] {
			out[row][column] = b.At(column, row)
		}
	}
	return out
}

// Blank returns the position of the empty cell.
func (b Board) Blank() grid.Coord {
	i := strings.IndexByte(b.cells, 0)
	return grid.At(i%b.columns, i/b.columns)
}

// Next returns the boards reachable by sliding one tile into the blank.
func (b Board) Next() []Board {
	blank := b.Blank()
	x, y := blank.Column, blank.Row
	res := make([]Board, 0, 4)
	if x > 0 {
		res = append(res, b.swap(blank, grid.At(x-1, y)))
	}
	if x < b.columns-1 {
		res = append(res, b.swap(blank, grid.At(x+1, y)))
	}
	if y > 0 {
		res = append(res, b.swap(blank, grid.At(x, y-1)))
	}
	if y < b.rows-1 {
		res = append(res, b.swap(blank, grid.At(x, y+1)))
	}
	return res
}

func (b Board) swap(a, c grid.Coord) Board {
	cells := []byte(b.cells)
	i := a.Row*b.columns + a.Column
	j := c.Row*b.columns + c.Column
	cells[i], cells[j] = cells[j], cells[i]
	return Board{columns: b.columns, rows: b.rows, cells: string(cells)}
}

// Finished reports whether every tile is in its solved position.
func (b Board) Finished() bool {
	last := len(b.cells) - 1
	for i := 0; i < last; i++ {
		if int(b.cells[i]) != i+1 {
			return false
		}
	}
	return b.cells[last] == 0
}

// Differences pairs each tile's solved position with its current one,
// indexed by tile number with the blank first.
func (b Board) Differences() []statemachine.Pair[grid.Coord] {
	n := len(b.cells)
	positions := make([]int, n)
	for i := 0; i < n; i++ {
		positions[b.cells[i]] = i
	}

	res := make([]statemachine.Pair[grid.Coord], 0, n)
	for tile, found := range positions {
		expected := grid.At(b.columns-1, b.rows-1)
		if tile != 0 {
			expected = grid.At((tile-1)%b.columns, (tile-1)/b.columns)
		}
		res = append(res, statemachine.Pair[grid.Coord]{
			Expected: expected,
			Actual:   grid.At(found%b.columns, found/b.columns),
		})
	}
	return res
}

func (b Board) String() string {
	var sb strings.Builder
	for row, tiles := range b.Tiles() {
		if row > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprint(&sb, tiles)
	}
	return sb.String()
}
