package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-server/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-server/internal/entity"
	"github.com/rocketscienceinc/tictactoe-server/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-server/internal/strategy"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	List(ctx context.Context, offset, limit int) ([]*entity.Game, error)
	Count(ctx context.Context) (int, error)
	DeleteByID(ctx context.Context, id string) error
}

// CreateParams describes a new game. Zero values fall back to the manager defaults.
type CreateParams struct {
	ServerPlayer entity.Cell
	Strategy     string
	Creator      string
}

type Option func(*GameManager)

func WithMetrics(m *metrics.Metrics) Option {
	return func(that *GameManager) {
		that.metrics = m
	}
}

// WithIDGenerator replaces the uuid game ids.
func WithIDGenerator(newID func() string) Option {
	return func(that *GameManager) {
		that.newID = newID
	}
}

// WithStrategies replaces the strategy lookup.
func WithStrategies(lookup func(name string) (strategy.Strategy, error)) Option {
	return func(that *GameManager) {
		that.strategies = lookup
	}
}

// WithDefaults sets the strategy and server mark used when CreateParams leaves them empty.
func WithDefaults(strategyName string, serverPlayer entity.Cell) Option {
	return func(that *GameManager) {
		that.defaultStrategy = strategyName
		that.defaultServer = serverPlayer
	}
}

// GameManager owns game records: it applies human moves, lets the server strategy reply
// and persists the result. Moves on the same game are serialised.
type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo
	metrics  *metrics.Metrics
	locks    *gameLocker

	newID      func() string
	strategies func(name string) (strategy.Strategy, error)

	defaultStrategy string
	defaultServer   entity.Cell
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, opts ...Option) *GameManager {
	manager := &GameManager{
		logger:   logger.With("component", "game_manager"),
		gameRepo: gameRepo,
		locks:    newGameLocker(),

		newID:      uuid.NewString,
		strategies: strategy.New,

		defaultStrategy: entity.DefaultStrategy,
		defaultServer:   entity.MarkO,
	}

	for _, opt := range opts {
		opt(manager)
	}

	return manager
}

// CreateGame stores a new game. When the server plays X it moves first.
func (that *GameManager) CreateGame(ctx context.Context, params CreateParams) (*entity.Game, error) {
	if params.ServerPlayer == entity.Empty {
		params.ServerPlayer = that.defaultServer
	}

	if params.ServerPlayer != entity.MarkX && params.ServerPlayer != entity.MarkO {
		return nil, fmt.Errorf("%w: server player %d", entity.ErrUnknownMark, params.ServerPlayer)
	}

	if params.Strategy == "" {
		params.Strategy = that.defaultStrategy
	}

	policy, err := that.strategies(params.Strategy)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve strategy: %w", err)
	}

	game := entity.NewGame(that.newID(), params.ServerPlayer, params.Strategy)
	game.Creator = params.Creator

	log := that.logger.With("method", "CreateGame", "gameID", game.ID)

	board := entity.NewBoard()
	serverMoved := params.ServerPlayer == entity.MarkX
	if serverMoved {
		if board, err = that.serverMove(board, policy); err != nil {
			return nil, err
		}
	}
	game.SetBoard(board)

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.metrics.GameCreated(game.ServerPlayer)
	if serverMoved {
		that.metrics.MoveApplied(metrics.ActorServer)
	}
	log.Info("game created", "serverPlayer", game.ServerPlayer.String(), "strategy", game.Strategy)

	return game, nil
}

func (that *GameManager) GetGame(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// ListGames returns one page of games in creation order and the total count.
func (that *GameManager) ListGames(ctx context.Context, offset, limit int) ([]*entity.Game, int, error) {
	games, err := that.gameRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list games: %w", err)
	}

	total, err := that.gameRepo.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count games: %w", err)
	}

	return games, total, nil
}

// MakeMove applies the human move at pos, then the server reply if the game goes on.
// Nothing is stored or counted when the move or the reply fails.
func (that *GameManager) MakeMove(ctx context.Context, id string, pos int) (*entity.Game, error) {
	log := that.logger.With("method", "MakeMove", "gameID", id)

	unlock := that.locks.Lock(id)
	defer unlock()

	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	board, err := game.Board()
	if err != nil {
		return nil, fmt.Errorf("failed to decode game: %w", err)
	}

	if board.IsFinished() {
		that.metrics.MoveRejected("finished")
		return game, fmt.Errorf("%w: %w", apperror.ErrGameFinished, entity.ErrInvalidMove)
	}

	if mark, _ := board.NextMark(); mark == game.ServerPlayer {
		that.metrics.MoveRejected("not_your_turn")
		return game, apperror.ErrNotYourTurn
	}

	board, err = board.ApplyMove(pos)
	if err != nil {
		that.metrics.MoveRejected("invalid")
		return game, fmt.Errorf("failed to apply move: %w", err)
	}

	serverMoved := !board.IsFinished()
	if serverMoved {
		policy, err := that.strategies(game.Strategy)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve strategy: %w", err)
		}

		if board, err = that.serverMove(board, policy); err != nil {
			return nil, err
		}
	}

	game.SetBoard(board)

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	that.metrics.MoveApplied(metrics.ActorHuman)
	if serverMoved {
		that.metrics.MoveApplied(metrics.ActorServer)
	}

	if game.IsFinished() {
		that.metrics.GameFinished(game.Winner)
		log.Info("game finished", "outcome", game.Winner.String())
	}

	return game, nil
}

func (that *GameManager) DeleteGame(ctx context.Context, id string) error {
	unlock := that.locks.Lock(id)
	defer unlock()

	if err := that.gameRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	return nil
}

func (that *GameManager) serverMove(board entity.Board, policy strategy.Strategy) (entity.Board, error) {
	pos, err := policy.NextMove(board)
	if err != nil {
		return board, fmt.Errorf("strategy failed to choose a move: %w", err)
	}

	next, err := board.ApplyMove(pos)
	if err != nil {
		return board, fmt.Errorf("strategy chose an invalid move: %w", err)
	}

	return next, nil
}
