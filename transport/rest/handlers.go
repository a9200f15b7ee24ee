package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-server/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-server/internal/entity"
	"github.com/rocketscienceinc/tictactoe-server/internal/usecase"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

var errBadRequest = errors.New("bad request")

type gameManager interface {
	CreateGame(ctx context.Context, params usecase.CreateParams) (*entity.Game, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)
	ListGames(ctx context.Context, offset, limit int) ([]*entity.Game, int, error)
	MakeMove(ctx context.Context, id string, pos int) (*entity.Game, error)
	DeleteGame(ctx context.Context, id string) error
}

type handlers struct {
	logger *slog.Logger
	games  gameManager
}

func newHandlers(logger *slog.Logger, games gameManager) *handlers {
	return &handlers{
		logger: logger.With("component", "rest"),
		games:  games,
	}
}

func (that *handlers) listGames(w http.ResponseWriter, r *http.Request) {
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	limit, err := queryInt(r, "limit", defaultLimit)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	if offset < 0 || limit <= 0 {
		that.writeError(w, r, fmt.Errorf("%w: offset must be >= 0 and limit > 0", errBadRequest))
		return
	}
	limit = min(limit, maxLimit)

	games, total, err := that.games.ListGames(r.Context(), offset, limit)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	response := gameListPayload{
		Count:   total,
		Results: make([]*gamePayload, 0, len(games)),
	}
	response.Next, response.Previous = pageLinks(r, offset, limit, total)

	for _, game := range games {
		board, err := game.Board()
		if err != nil {
			that.writeError(w, r, err)
			return
		}

		response.Results = append(response.Results, newGamePayload(r, game, board))
	}

	that.writeJSON(w, http.StatusOK, response)
}

func (that *handlers) createGame(w http.ResponseWriter, r *http.Request) {
	var request createGameRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil && !errors.Is(err, io.EOF) {
		that.writeError(w, r, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}

	params := usecase.CreateParams{
		ServerPlayer: entity.Cell(request.ServerPlayer),
		Strategy:     request.Strategy,
		Creator:      request.Creator,
	}

	game, err := that.games.CreateGame(r.Context(), params)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeGame(w, r, http.StatusCreated, game)
}

func (that *handlers) getGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.GetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeGame(w, r, http.StatusOK, game)
}

func (that *handlers) deleteGame(w http.ResponseWriter, r *http.Request) {
	if err := that.games.DeleteGame(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *handlers) makeMove(w http.ResponseWriter, r *http.Request) {
	var request moveRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		that.writeError(w, r, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}

	if request.Position == nil {
		that.writeError(w, r, fmt.Errorf("%w: position is required", errBadRequest))
		return
	}

	game, err := that.games.MakeMove(r.Context(), chi.URLParam(r, "id"), *request.Position)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeGame(w, r, http.StatusOK, game)
}

func (that *handlers) writeGame(w http.ResponseWriter, r *http.Request, status int, game *entity.Game) {
	board, err := game.Board()
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	payload := newGamePayload(r, game, board)
	if status == http.StatusCreated {
		w.Header().Set("Location", payload.URL)
	}

	that.writeJSON(w, status, payload)
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}

func (that *handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		that.writeJSON(w, status, errorPayload{Error: "internal server error"})
		return
	}

	that.writeJSON(w, status, errorPayload{Error: err.Error()})
}

// statusFor maps domain errors to HTTP codes. ErrGameFinished is checked before
// ErrInvalidMove because it wraps it.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrGameFinished), errors.Is(err, apperror.ErrNotYourTurn):
		return http.StatusConflict
	case errors.Is(err, entity.ErrInvalidMove),
		errors.Is(err, entity.ErrUnknownMark),
		errors.Is(err, apperror.ErrUnknownStrategy),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", errBadRequest, key)
	}

	return value, nil
}
