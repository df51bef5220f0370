package tictactoe

import (
	"fmt"
	"math"

	"github.com/rocketscienceinc/tictactoe-console/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-console/internal/entity"
)

// Position values from the opponent's point of view. Wins are not scaled by depth.
const (
	OpponentWinValue = 1
	HumanWinValue    = -1
	DrawValue        = 0
)

// NegInf and PosInf open the alpha-beta window.
const (
	NegInf = math.MinInt
	PosInf = math.MaxInt
)

// Result is the move chosen for the opponent and the minimax value it achieves.
type Result struct {
	Move  entity.Move `json:"move"`
	Value int         `json:"value"`
}

type Stats struct {
	Nodes int
}

// Searcher runs minimax with alpha-beta pruning over a caller owned board.
// Every cell it sets is emptied again before the call returns.
type Searcher struct {
	stats Stats
}

func NewSearcher() *Searcher {
	return &Searcher{}
}

func (that *Searcher) Stats() Stats {
	return that.stats
}

// Evaluate - returns the minimax value of the board, the opponent maximizes.
func (that *Searcher) Evaluate(board *entity.Board, maximizing bool, alpha, beta int) int {
	that.stats.Nodes++

	if board.Winner(entity.Opponent) {
		return OpponentWinValue
	}

	if board.Winner(entity.Human) {
		return HumanWinValue
	}

	if board.IsFull() {
		return DrawValue
	}

	if maximizing {
		best := NegInf
		for row := range entity.BoardSize {
			for col := range entity.BoardSize {
				move := entity.Move{Row: row, Col: col}
				if board.At(move) != entity.EmptyCell {
					continue
				}

				board.Mark(move, entity.Opponent)
				value := that.Evaluate(board, false, alpha, beta)
				board.UndoMove(move)

				best = max(best, value)
				alpha = max(alpha, value)
				if beta <= alpha {
					return best
				}
			}
		}

		return best
	}

	best := PosInf
	for row := range entity.BoardSize {
		for col := range entity.BoardSize {
			move := entity.Move{Row: row, Col: col}
			if board.At(move) != entity.EmptyCell {
				continue
			}

			board.Mark(move, entity.Human)
			value := that.Evaluate(board, true, alpha, beta)
			board.UndoMove(move)

			best = min(best, value)
			beta = min(beta, value)
			if beta <= alpha {
				return best
			}
		}
	}

	return best
}

// FindBestMove - picks the opponent move with the greatest value. Ties keep the
// first move in row-major order.
func (that *Searcher) FindBestMove(board *entity.Board) (Result, error) {
	if board.IsTerminal() {
		return Result{}, fmt.Errorf("%w: board %s is terminal", apperror.ErrNoLegalMove, board)
	}

	best := Result{Value: NegInf}

	for _, move := range board.EmptyCells() {
		board.Mark(move, entity.Opponent)
		value := that.Evaluate(board, false, NegInf, PosInf)
		board.UndoMove(move)

		if value > best.Value {
			best = Result{Move: move, Value: value}
		}
	}

	return best, nil
}

// Evaluate - see Searcher.Evaluate.
func Evaluate(board *entity.Board, maximizing bool, alpha, beta int) int {
	return NewSearcher().Evaluate(board, maximizing, alpha, beta)
}

// FindBestMove - see Searcher.FindBestMove.
func FindBestMove(board *entity.Board) (Result, error) {
	return NewSearcher().FindBestMove(board)
}
