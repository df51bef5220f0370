package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-console/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-console/internal/entity"
	"github.com/rocketscienceinc/tictactoe-console/internal/repository"
	"github.com/rocketscienceinc/tictactoe-console/internal/tictactoe"
)

var errRedisDown = errors.New("redis down")

type mockMoveCache struct {
	mock.Mock
}

func (that *mockMoveCache) Save(ctx context.Context, board *entity.Board, result tictactoe.Result) error {
	args := that.Called(ctx, board.String(), result)
	return args.Error(0)
}

func (that *mockMoveCache) GetByBoard(ctx context.Context, board *entity.Board) (tictactoe.Result, error) {
	args := that.Called(ctx, board.String())
	return args.Get(0).(tictactoe.Result), args.Error(1) //nolint: forcetypeassert // test mock
}

func (that *mockMoveCache) DeleteByBoard(ctx context.Context, board *entity.Board) error {
	args := that.Called(ctx, board.String())
	return args.Error(0)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func mustParse(t *testing.T, encoded string) *entity.Board {
	t.Helper()

	board, err := entity.ParseBoard(encoded)
	require.NoError(t, err)

	return board
}

func TestBotService_MakeTurn(t *testing.T) {
	ctx := context.Background()

	t.Run("Searches without a cache", func(t *testing.T) {
		// Given: a bot without cache and a board where the human threatens a row
		bot := NewBotService(newTestLogger(), nil)
		board := mustParse(t, "O..XX....")

		// When: the bot makes its turn
		move, err := bot.MakeTurn(ctx, board)

		// Then: it blocks and the move is on the board
		require.NoError(t, err)
		assert.Equal(t, entity.Move{Row: 1, Col: 2}, move)
		assert.Equal(t, "O..XXO...", board.String())
	})

	t.Run("Stores the search result on a cache miss", func(t *testing.T) {
		// Given: a cache that knows nothing
		cache := &mockMoveCache{}
		bot := NewBotService(newTestLogger(), cache)
		board := mustParse(t, "OO.X.X...")

		cache.On("GetByBoard", ctx, "OO.X.X...").
			Return(tictactoe.Result{}, repository.ErrMoveNotFound).
			Once()
		cache.On("Save", ctx, "OO.X.X...", tictactoe.Result{Move: entity.Move{Row: 0, Col: 2}, Value: tictactoe.OpponentWinValue}).
			Return(nil).
			Once()

		// When: the bot makes its turn
		move, err := bot.MakeTurn(ctx, board)

		// Then: the winning move is played and cached
		require.NoError(t, err)
		assert.Equal(t, entity.Move{Row: 0, Col: 2}, move)
		assert.Equal(t, entity.OpponentWin, board.Outcome())
		cache.AssertExpectations(t)
	})

	t.Run("Plays the cached move on a hit", func(t *testing.T) {
		// Given: a cache holding a result for the position
		cache := &mockMoveCache{}
		bot := NewBotService(newTestLogger(), cache)
		board := mustParse(t, "X........")

		cache.On("GetByBoard", ctx, "X........").
			Return(tictactoe.Result{Move: entity.Move{Row: 1, Col: 1}, Value: tictactoe.DrawValue}, nil).
			Once()

		// When: the bot makes its turn
		move, err := bot.MakeTurn(ctx, board)

		// Then: the cached move is applied without saving again
		require.NoError(t, err)
		assert.Equal(t, entity.Move{Row: 1, Col: 1}, move)
		assert.Equal(t, "X...O....", board.String())
		cache.AssertExpectations(t)
		cache.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Drops a stale cached move", func(t *testing.T) {
		// Given: a cache entry pointing at an occupied cell
		cache := &mockMoveCache{}
		bot := NewBotService(newTestLogger(), cache)
		board := mustParse(t, "X........")

		cache.On("GetByBoard", ctx, "X........").
			Return(tictactoe.Result{Move: entity.Move{Row: 0, Col: 0}}, nil).
			Once()
		cache.On("DeleteByBoard", ctx, "X........").
			Return(nil).
			Once()
		cache.On("Save", ctx, "X........", tictactoe.Result{Move: entity.Move{Row: 1, Col: 1}, Value: tictactoe.DrawValue}).
			Return(nil).
			Once()

		// When: the bot makes its turn
		move, err := bot.MakeTurn(ctx, board)

		// Then: the entry is replaced by a fresh search
		require.NoError(t, err)
		assert.Equal(t, entity.Move{Row: 1, Col: 1}, move)
		cache.AssertExpectations(t)
	})

	t.Run("Cache errors do not stop the turn", func(t *testing.T) {
		// Given: a cache that fails on every call
		cache := &mockMoveCache{}
		bot := NewBotService(newTestLogger(), cache)
		board := mustParse(t, "....X....")

		cache.On("GetByBoard", ctx, "....X....").
			Return(tictactoe.Result{}, errRedisDown).
			Once()
		cache.On("Save", ctx, "....X....", mock.AnythingOfType("tictactoe.Result")).
			Return(errRedisDown).
			Once()

		// When: the bot makes its turn
		move, err := bot.MakeTurn(ctx, board)

		// Then: the searched move is still played
		require.NoError(t, err)
		assert.Equal(t, entity.Move{Row: 0, Col: 0}, move)
		cache.AssertExpectations(t)
	})

	t.Run("Error on terminal board", func(t *testing.T) {
		// Given: a full board
		cache := &mockMoveCache{}
		bot := NewBotService(newTestLogger(), cache)
		board := mustParse(t, "XOXXOOOXX")

		// When: the bot is asked to move
		_, err := bot.MakeTurn(ctx, board)

		// Then: ErrNoLegalMove is returned and the cache is not touched
		require.ErrorIs(t, err, apperror.ErrNoLegalMove)
		cache.AssertNotCalled(t, "GetByBoard", mock.Anything, mock.Anything)
	})
}
