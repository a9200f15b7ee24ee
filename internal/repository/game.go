package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-server/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-server/internal/entity"
)

const defaultPrefix = "tictactoe:"

type GameRepository interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	List(ctx context.Context, offset, limit int) ([]*entity.Game, error)
	Count(ctx context.Context) (int, error)
	DeleteByID(ctx context.Context, id string) error
}

type Option func(*dbGame)

// WithTTL expires game records ttl after their last update.
func WithTTL(ttl time.Duration) Option {
	return func(that *dbGame) {
		that.ttl = ttl
	}
}

// WithPrefix sets the key prefix for game records and the index.
func WithPrefix(prefix string) Option {
	return func(that *dbGame) {
		that.prefix = prefix
	}
}

type dbGame struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewGameRepository(client *redis.Client, opts ...Option) GameRepository {
	repo := &dbGame{
		client: client,
		prefix: defaultPrefix,
	}

	for _, opt := range opts {
		opt(repo)
	}

	return repo
}

func (that *dbGame) gameKey(id string) string {
	return that.prefix + "game:" + id
}

func (that *dbGame) indexKey() string {
	return that.prefix + "games"
}

// CreateOrUpdate stores the record and indexes it by creation time. Records holding a
// state the board cannot decode are refused.
func (that *dbGame) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	if _, err := game.Board(); err != nil {
		return fmt.Errorf("refusing to store game %s: %w", game.ID, err)
	}

	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	pipe := that.client.TxPipeline()
	pipe.Set(ctx, that.gameKey(game.ID), gameJSON, that.ttl)
	pipe.ZAdd(ctx, that.indexKey(), redis.Z{
		Score:  float64(game.CreatedAt.UnixMicro()),
		Member: game.ID,
	})

	if _, err = pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set game: %w", err)
	}

	return nil
}

func (that *dbGame) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	response, err := that.client.Get(ctx, that.gameKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: id %s", apperror.ErrGameNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return decodeGame(response)
}

// List returns games in creation order. Index entries whose record expired are pruned.
func (that *dbGame) List(ctx context.Context, offset, limit int) ([]*entity.Game, error) {
	if offset < 0 || limit <= 0 {
		return []*entity.Game{}, nil
	}

	ids, err := that.client.ZRange(ctx, that.indexKey(), int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	games := make([]*entity.Game, 0, len(ids))
	if len(ids) == 0 {
		return games, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = that.gameKey(id)
	}

	values, err := that.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load games: %w", err)
	}

	var expired []any
	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			expired = append(expired, ids[i])
			continue
		}

		game, err := decodeGame(raw)
		if err != nil {
			return nil, err
		}

		games = append(games, game)
	}

	if len(expired) > 0 {
		if err = that.client.ZRem(ctx, that.indexKey(), expired...).Err(); err != nil {
			return nil, fmt.Errorf("failed to prune expired games: %w", err)
		}
	}

	return games, nil
}

func (that *dbGame) Count(ctx context.Context) (int, error) {
	count, err := that.client.ZCard(ctx, that.indexKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}

	return int(count), nil
}

func (that *dbGame) DeleteByID(ctx context.Context, id string) error {
	pipe := that.client.TxPipeline()
	deleted := pipe.Del(ctx, that.gameKey(id))
	pipe.ZRem(ctx, that.indexKey(), id)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete game by ID: %w", err)
	}

	if deleted.Val() == 0 {
		return fmt.Errorf("%w: id %s", apperror.ErrGameNotFound, id)
	}

	return nil
}

func decodeGame(raw string) (*entity.Game, error) {
	var game entity.Game
	if err := json.Unmarshal([]byte(raw), &game); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	if _, err := game.Board(); err != nil {
		return nil, fmt.Errorf("stored game %s is corrupted: %w", game.ID, err)
	}

	return &game, nil
}
