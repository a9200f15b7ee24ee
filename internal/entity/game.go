package entity

import (
	"time"
)

const DefaultStrategy = "random"

// Game is the stored record of one match between a human and the server. The board lives
// only as its encoded State; Winner is denormalised from it for listing.
type Game struct {
	ID           string    `json:"id"`
	State        int       `json:"state"`
	ServerPlayer Cell      `json:"server_player"`
	Winner       Outcome   `json:"winner"`
	Strategy     string    `json:"strategy"`
	Creator      string    `json:"creator,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewGame(id string, serverPlayer Cell, strategy string) *Game {
	if strategy == "" {
		strategy = DefaultStrategy
	}

	now := time.Now().UTC()

	return &Game{
		ID:           id,
		State:        0,
		ServerPlayer: serverPlayer,
		Winner:       InProgress,
		Strategy:     strategy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Board decodes the stored state. Corrupted records fail with the board decoding errors.
func (that *Game) Board() (Board, error) {
	return FromState(that.State)
}

// SetBoard stores the board state and its outcome.
func (that *Game) SetBoard(board Board) {
	that.State = board.State()
	that.Winner = board.Outcome()
	that.UpdatedAt = time.Now().UTC()
}

// HumanPlayer is the mark not controlled by the server.
func (that *Game) HumanPlayer() Cell {
	return that.ServerPlayer.Opponent()
}

func (that *Game) IsFinished() bool {
	return that.Winner != InProgress
}
