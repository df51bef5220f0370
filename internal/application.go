package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-console/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-console/internal/config"
	"github.com/rocketscienceinc/tictactoe-console/internal/repository"
	"github.com/rocketscienceinc/tictactoe-console/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-console/internal/service"
	"github.com/rocketscienceinc/tictactoe-console/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-console/transport/console"
)

var ErrAddrNotFound = errors.New("redis host is empty")

// RunApp - runs the console game.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	botService, closeCache, err := newBotService(ctx, logger, conf)
	if err != nil {
		return err
	}
	defer closeCache()

	newSession := func() console.Session {
		return usecase.NewGameSession(logger, botService)
	}

	game := console.New(logger, os.Stdin, os.Stdout, newSession, conf.PlayAgain)

	// the console blocks on stdin, so it runs aside and a signal can still end the app
	gameErrCh := make(chan error, 1)
	go func() {
		gameErrCh <- game.Run(ctx)
	}()

	select {
	case err = <-gameErrCh:
		if err == nil || errors.Is(err, apperror.ErrInputClosed) || errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("console game error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

// newBotService - wires the Redis move cache when it is enabled.
func newBotService(ctx context.Context, logger *slog.Logger, conf *config.Config) (service.BotService, func(), error) {
	log := logger.With("component", "app")

	if !conf.Redis.Enabled {
		return service.NewBotService(logger, nil), func() {}, nil
	}

	if conf.Redis.Host == "" {
		return nil, nil, ErrAddrNotFound
	}

	redisAddrString := conf.Redis.GetRedisAddr()

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	closeCache := func() {
		if err := redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}

	moveRepo := repository.NewMoveRepository(redisStorage.Connection, conf.Redis.TTL)

	log.Info("move cache enabled", "addr", redisAddrString)

	return service.NewBotService(logger, moveRepo), closeCache, nil
}
