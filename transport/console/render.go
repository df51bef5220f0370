package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-console/internal/entity"
)

var (
	ErrInvalidFormat = errors.New("invalid input format")
	ErrOutOfRange    = errors.New("row and column must be between 0 and 2")
	ErrCellTaken     = errors.New("cell already taken")
)

const rowSeparator = "---------"

// RenderBoard - draws the rows joined by " | " with a separator under each row.
func RenderBoard(board *entity.Board) string {
	var sb strings.Builder

	for row := range board.Cells {
		cells := make([]string, 0, entity.BoardSize)
		for _, cell := range board.Cells[row] {
			if cell == entity.EmptyCell {
				cells = append(cells, " ")
				continue
			}
			cells = append(cells, string(cell))
		}

		sb.WriteString(strings.Join(cells, " | "))
		sb.WriteString("\n")
		sb.WriteString(rowSeparator)
		sb.WriteString("\n")
	}

	return sb.String()
}

// ParseMove - reads "row col" and checks it against the board.
func ParseMove(input string, board *entity.Board) (entity.Move, error) {
	fields := strings.Fields(input)
	if len(fields) != 2 {
		return entity.Move{}, fmt.Errorf("%w: expected two numbers, got %q", ErrInvalidFormat, input)
	}

	row, err := strconv.Atoi(fields[0])
	if err != nil {
		return entity.Move{}, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}

	col, err := strconv.Atoi(fields[1])
	if err != nil {
		return entity.Move{}, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}

	move := entity.Move{Row: row, Col: col}
	if !move.InRange() {
		return move, ErrOutOfRange
	}

	if board.At(move) != entity.EmptyCell {
		return move, ErrCellTaken
	}

	return move, nil
}
