package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-console/internal/entity"
	"github.com/rocketscienceinc/tictactoe-console/internal/tictactoe"
)

var ErrMoveNotFound = errors.New("move not found")

const moveKeyPrefix = "move:"

// MoveRepository caches search results per position. A result depends only on
// the board, so entries never need invalidation, the TTL just bounds memory.
type MoveRepository interface {
	Save(ctx context.Context, board *entity.Board, result tictactoe.Result) error
	GetByBoard(ctx context.Context, board *entity.Board) (tictactoe.Result, error)
	DeleteByBoard(ctx context.Context, board *entity.Board) error
}

type dbMove struct {
	client *redis.Client
	ttl    time.Duration
}

func NewMoveRepository(client *redis.Client, ttl time.Duration) MoveRepository {
	return &dbMove{
		client: client,
		ttl:    ttl,
	}
}

func moveKey(board *entity.Board) string {
	return moveKeyPrefix + board.String()
}

func (that *dbMove) Save(ctx context.Context, board *entity.Board, result tictactoe.Result) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("could not marshal move: %w", err)
	}

	err = that.client.Set(ctx, moveKey(board), resultJSON, that.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set move: %w", err)
	}

	return nil
}

func (that *dbMove) GetByBoard(ctx context.Context, board *entity.Board) (tictactoe.Result, error) {
	response, err := that.client.Get(ctx, moveKey(board)).Result()

	if errors.Is(err, redis.Nil) {
		return tictactoe.Result{}, ErrMoveNotFound
	}

	if err != nil {
		return tictactoe.Result{}, fmt.Errorf("failed to get move by board: %w", err)
	}

	var result tictactoe.Result
	if err = json.Unmarshal([]byte(response), &result); err != nil {
		return tictactoe.Result{}, fmt.Errorf("failed to unmarshal move: %w", err)
	}

	return result, nil
}

func (that *dbMove) DeleteByBoard(ctx context.Context, board *entity.Board) error {
	deleted, err := that.client.Del(ctx, moveKey(board)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete move by board: %w", err)
	}

	if deleted == 0 {
		return ErrMoveNotFound
	}

	return nil
}
