package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rocketscienceinc/tictactoe-console/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-console/internal/entity"
)

const (
	msgWelcome     = "Welcome to Tic-Tac-Toe!"
	msgPrompt      = "Enter your move (row and column, separated by space): "
	msgBadFormat   = "Invalid input format. Please enter two numbers separated by space."
	msgOutOfRange  = "Invalid move! Row and column must be between 0 and 2. Try again."
	msgCellTaken   = "Invalid move! Cell already taken. Try again."
	msgAIThinking  = "AI is making its move..."
	msgHumanWin    = "Congratulations! You win!"
	msgOpponentWin = "AI wins! Better luck next time."
	msgDraw        = "It's a draw!"
	msgPlayAgain   = "Play again? (y/n): "
)

// Session is the part of a game session the console drives.
type Session interface {
	Board() *entity.Board
	HumanTurn(move entity.Move) (entity.Outcome, error)
	OpponentTurn(ctx context.Context) (entity.Move, entity.Outcome, error)
	IsFinished() bool
	Outcome() entity.Outcome
}

type Game struct {
	logger *slog.Logger

	in  *bufio.Scanner
	out io.Writer

	newSession func() Session
	playAgain  bool
}

func New(logger *slog.Logger, in io.Reader, out io.Writer, newSession func() Session, playAgain bool) *Game {
	return &Game{
		logger:     logger.With("component", "console"),
		in:         bufio.NewScanner(in),
		out:        out,
		newSession: newSession,
		playAgain:  playAgain,
	}
}

// Run - plays games until the player stops, input ends or ctx is canceled.
func (that *Game) Run(ctx context.Context) error {
	log := that.logger.With("method", "Run")

	for games := 1; ; games++ {
		outcome, err := that.Play(ctx, that.newSession())
		if err != nil {
			return fmt.Errorf("game %d: %w", games, err)
		}

		log.Info("game over", "game", games, "outcome", outcome.String())

		if !that.playAgain {
			return nil
		}

		again, err := that.askPlayAgain()
		if err != nil {
			return err
		}

		if !again {
			return nil
		}
	}
}

// Play - runs one game: validate, apply, check, search, apply, check.
func (that *Game) Play(ctx context.Context, session Session) (entity.Outcome, error) {
	that.println(msgWelcome)
	that.print(RenderBoard(session.Board()))

	for {
		if err := ctx.Err(); err != nil {
			return session.Outcome(), fmt.Errorf("game interrupted: %w", err)
		}

		move, err := that.readMove(session.Board())
		if err != nil {
			return session.Outcome(), err
		}

		if _, err = session.HumanTurn(move); err != nil {
			return session.Outcome(), fmt.Errorf("failed to apply human move: %w", err)
		}

		that.print(RenderBoard(session.Board()))
		if session.IsFinished() {
			that.announce(session.Outcome())
			return session.Outcome(), nil
		}

		that.println(msgAIThinking)
		if _, _, err = session.OpponentTurn(ctx); err != nil {
			return session.Outcome(), fmt.Errorf("failed to apply opponent move: %w", err)
		}

		that.print(RenderBoard(session.Board()))
		if session.IsFinished() {
			that.announce(session.Outcome())
			return session.Outcome(), nil
		}
	}
}

// readMove - prompts until the input is a legal move for the board.
func (that *Game) readMove(board *entity.Board) (entity.Move, error) {
	for {
		that.print(msgPrompt)

		line, err := that.readLine()
		if err != nil {
			return entity.Move{}, err
		}

		move, err := ParseMove(line, board)
		switch {
		case err == nil:
			return move, nil
		case errors.Is(err, ErrOutOfRange):
			that.println(msgOutOfRange)
		case errors.Is(err, ErrCellTaken):
			that.println(msgCellTaken)
		default:
			that.println(msgBadFormat)
		}

		that.logger.Debug("rejected input", "input", line, "error", err)
	}
}

func (that *Game) askPlayAgain() (bool, error) {
	that.print(msgPlayAgain)

	line, err := that.readLine()
	if err != nil {
		if errors.Is(err, apperror.ErrInputClosed) {
			return false, nil
		}
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (that *Game) readLine() (string, error) {
	if !that.in.Scan() {
		if err := that.in.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return "", apperror.ErrInputClosed
	}

	return that.in.Text(), nil
}

func (that *Game) announce(outcome entity.Outcome) {
	switch outcome {
	case entity.HumanWin:
		that.println(msgHumanWin)
	case entity.OpponentWin:
		that.println(msgOpponentWin)
	case entity.Draw:
		that.println(msgDraw)
	case entity.InProgress:
	}
}

func (that *Game) print(text string) {
	if _, err := fmt.Fprint(that.out, text); err != nil {
		that.logger.Error("failed to write output", "error", err)
	}
}

func (that *Game) println(text string) {
	that.print(text + "\n")
}
