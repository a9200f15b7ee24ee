package strategy

import (
	"fmt"
	"sort"

	"github.com/rocketscienceinc/tictactoe-server/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-server/internal/entity"
)

// Strategy picks the next move for the automated player. The returned index must be one
// of board.LegalMoves().
type Strategy interface {
	NextMove(board entity.Board) (int, error)
}

var registry = map[string]func() Strategy{
	RandomName: func() Strategy { return NewRandom() },
}

// New returns a fresh policy registered under name.
func New(name string) (Strategy, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownStrategy, name)
	}

	return factory(), nil
}

// Names lists the registered policies.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
