package entity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-console/internal/apperror"
)

const BoardSize = 3

type Cell string

const (
	EmptyCell    Cell = ""
	HumanCell    Cell = "X"
	OpponentCell Cell = "O"
)

// Side is one of the two players.
type Side int

const (
	Human Side = iota
	Opponent
)

// Mark - returns the cell value the side places on the board.
func (that Side) Mark() Cell {
	if that == Opponent {
		return OpponentCell
	}
	return HumanCell
}

func (that Side) Other() Side {
	if that == Opponent {
		return Human
	}
	return Opponent
}

func (that Side) String() string {
	if that == Opponent {
		return "opponent"
	}
	return "human"
}

type Outcome int

const (
	InProgress Outcome = iota
	HumanWin
	OpponentWin
	Draw
)

func (that Outcome) String() string {
	switch that {
	case HumanWin:
		return "human_win"
	case OpponentWin:
		return "opponent_win"
	case Draw:
		return "draw"
	default:
		return "in_progress"
	}
}

var (
	ErrInvalidBoard = errors.New("invalid board encoding")

	// WinCombos - the 8 lines in row-major cell indexes.
	WinCombos = [][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}
)

type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func MoveFromIndex(index int) Move {
	return Move{Row: index / BoardSize, Col: index % BoardSize}
}

func (that Move) Index() int {
	return that.Row*BoardSize + that.Col
}

func (that Move) InRange() bool {
	return that.Row >= 0 && that.Row < BoardSize && that.Col >= 0 && that.Col < BoardSize
}

func (that Move) String() string {
	return fmt.Sprintf("(%d,%d)", that.Row, that.Col)
}

// Board is a 3x3 grid addressed by (row, col).
type Board struct {
	Cells [BoardSize][BoardSize]Cell `json:"cells"`
}

func NewBoard() *Board {
	return &Board{}
}

func (that *Board) Reset() {
	that.Cells = [BoardSize][BoardSize]Cell{}
}

func (that *Board) At(move Move) Cell {
	return that.Cells[move.Row][move.Col]
}

func (that *Board) cellAt(index int) Cell {
	return that.Cells[index/BoardSize][index%BoardSize]
}

// Winner - reports whether one of the lines is fully occupied by the side.
func (that *Board) Winner(side Side) bool {
	mark := side.Mark()

	for _, combo := range WinCombos {
		if that.cellAt(combo[0]) == mark && that.cellAt(combo[1]) == mark && that.cellAt(combo[2]) == mark {
			return true
		}
	}

	return false
}

func (that *Board) IsFull() bool {
	for row := range that.Cells {
		for _, cell := range that.Cells[row] {
			if cell == EmptyCell {
				return false
			}
		}
	}

	return true
}

func (that *Board) IsTerminal() bool {
	return that.Winner(Opponent) || that.Winner(Human) || that.IsFull()
}

// Outcome - a full board that also holds a line is a win, not a draw.
func (that *Board) Outcome() Outcome {
	switch {
	case that.Winner(Human):
		return HumanWin
	case that.Winner(Opponent):
		return OpponentWin
	case that.IsFull():
		return Draw
	default:
		return InProgress
	}
}

// ApplyMove - places the side's mark, the only mutator used by play.
func (that *Board) ApplyMove(move Move, side Side) error {
	if !move.InRange() {
		return fmt.Errorf("%w: cell %s is out of range", apperror.ErrIllegalMove, move)
	}

	if that.At(move) != EmptyCell {
		return fmt.Errorf("%w: cell %s is already occupied", apperror.ErrIllegalMove, move)
	}

	that.Cells[move.Row][move.Col] = side.Mark()

	return nil
}

// Mark - sets the cell without validation, the search pairs it with UndoMove
// on cells it has just seen empty.
func (that *Board) Mark(move Move, side Side) {
	that.Cells[move.Row][move.Col] = side.Mark()
}

// UndoMove - empties the cell again, used by the search to backtrack.
func (that *Board) UndoMove(move Move) {
	that.Cells[move.Row][move.Col] = EmptyCell
}

// EmptyCells - returns the free cells in row-major order.
func (that *Board) EmptyCells() []Move {
	moves := make([]Move, 0, BoardSize*BoardSize)
	for row := range that.Cells {
		for col, cell := range that.Cells[row] {
			if cell == EmptyCell {
				moves = append(moves, Move{Row: row, Col: col})
			}
		}
	}

	return moves
}

// Clone - returns an independent copy of the board.
func (that *Board) Clone() *Board {
	clone := *that
	return &clone
}

// String - encodes the board row-major as 9 characters of X, O and '.'.
func (that *Board) String() string {
	var sb strings.Builder
	sb.Grow(BoardSize * BoardSize)

	for row := range that.Cells {
		for _, cell := range that.Cells[row] {
			if cell == EmptyCell {
				sb.WriteByte('.')
				continue
			}
			sb.WriteString(string(cell))
		}
	}

	return sb.String()
}

// ParseBoard - decodes the String form; ' ' is accepted for an empty cell.
func ParseBoard(encoded string) (*Board, error) {
	if len(encoded) != BoardSize*BoardSize {
		return nil, fmt.Errorf("%w: expected %d cells, got %d", ErrInvalidBoard, BoardSize*BoardSize, len(encoded))
	}

	board := NewBoard()
	for i, ch := range encoded {
		var cell Cell
		switch ch {
		case '.', ' ':
			cell = EmptyCell
		case 'X':
			cell = HumanCell
		case 'O':
			cell = OpponentCell
		default:
			return nil, fmt.Errorf("%w: unexpected %q at %d", ErrInvalidBoard, ch, i)
		}
		board.Cells[i/BoardSize][i%BoardSize] = cell
	}

	return board, nil
}
