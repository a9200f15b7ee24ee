package strategy

import (
	"fmt"
	"math/rand"

	"github.com/rocketscienceinc/tictactoe-server/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-server/internal/entity"
)

const RandomName = "random"

// Random picks uniformly among the legal moves.
type Random struct {
	choose func(moves []int) int
}

func NewRandom() *Random {
	return &Random{
		choose: func(moves []int) int {
			return moves[rand.Intn(len(moves))] //nolint: gosec // it's ok
		},
	}
}

// NewRandomWithChooser replaces the random choice, mostly for tests.
func NewRandomWithChooser(choose func(moves []int) int) *Random {
	return &Random{choose: choose}
}

func (that *Random) NextMove(board entity.Board) (int, error) {
	moves := board.LegalMoves()
	if len(moves) == 0 {
		return 0, fmt.Errorf("%w: state %d", apperror.ErrNoLegalMoves, board.State())
	}

	move := that.choose(moves)
	if !board.IsLegal(move) {
		return 0, fmt.Errorf("%w: chooser returned %d", entity.ErrInvalidMove, move)
	}

	return move, nil
}
