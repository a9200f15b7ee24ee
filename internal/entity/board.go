package entity

import (
	"errors"
	"fmt"
	"strings"
)

// Cell is the content of one board position. The numeric values are the base-3 digits
// of the encoded state and must never change.
type Cell uint8

const (
	Empty Cell = iota
	MarkX
	MarkO
)

// Outcome classifies a board. The numeric values double as the persisted winner code.
type Outcome uint8

const (
	InProgress Outcome = iota
	XWins
	OWins
	Tie
)

const (
	// BoardSize is the number of cells on the board.
	BoardSize = 9

	// StateLimit is 3^9, the first integer that no longer fits in nine base-3 digits.
	StateLimit = 19683
)

var (
	ErrStateTooLarge   = errors.New("state does not fit in nine cells")
	ErrNegativeState   = errors.New("state is negative")
	ErrTooManyOMoves   = errors.New("too many O moves")
	ErrTooManyXMoves   = errors.New("too many X moves")
	ErrMultipleWinners = errors.New("both players complete a line")
	ErrInvalidMove     = errors.New("invalid move")
	ErrUnknownMark     = errors.New("unknown mark")

	// WinCombos lists every straight line: rows, columns, rising and falling diagonals.
	WinCombos = [8][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{2, 4, 6},
		{0, 4, 8},
	}
)

// Board is a 3x3 tic-tac-toe grid numbered from the top left corner:
//
//	0|1|2
//	-+-+-
//	3|4|5
//	-+-+-
//	6|7|8
//
// X moves first and the players alternate. A Board is a value: ApplyMove returns a new
// Board and never changes the receiver. The zero value is the empty board.
type Board struct {
	cells   [BoardSize]Cell
	outcome Outcome
	lines   [][3]int
}

// NewBoard returns the empty board, X to move.
func NewBoard() Board {
	return Board{}
}

// FromState decodes a state produced by Board.State. Checks run in a fixed order: size,
// move balance, then winner consistency.
func FromState(state int) (Board, error) {
	if state < 0 {
		return Board{}, fmt.Errorf("%w: state %d", ErrNegativeState, state)
	}

	var board Board

	rest := state
	for i := range board.cells {
		board.cells[i] = Cell(rest % 3)
		rest /= 3
	}

	if rest != 0 {
		return Board{}, fmt.Errorf("%w: state %d", ErrStateTooLarge, state)
	}

	xMoves, oMoves := board.count(MarkX), board.count(MarkO)
	if xMoves < oMoves {
		return Board{}, fmt.Errorf("%w: state %d", ErrTooManyOMoves, state)
	}

	if xMoves > oMoves+1 {
		return Board{}, fmt.Errorf("%w: state %d", ErrTooManyXMoves, state)
	}

	if err := board.evaluate(); err != nil {
		return Board{}, fmt.Errorf("%w: state %d", err, state)
	}

	return board, nil
}

// FromCells builds a board from a cell layout, applying the same checks as FromState.
func FromCells(cells [BoardSize]Cell) (Board, error) {
	state := 0
	for i := BoardSize - 1; i >= 0; i-- {
		if cells[i] > MarkO {
			return Board{}, fmt.Errorf("%w: cell %d holds %d", ErrUnknownMark, i, cells[i])
		}
		state = state*3 + int(cells[i])
	}

	return FromState(state)
}

// State encodes the board as sum(cell[i] * 3^i).
func (that Board) State() int {
	state := 0
	for i := BoardSize - 1; i >= 0; i-- {
		state = state*3 + int(that.cells[i])
	}

	return state
}

// Cells returns a copy of the grid.
func (that Board) Cells() [BoardSize]Cell {
	return that.cells
}

func (that Board) Outcome() Outcome {
	return that.outcome
}

// WinningLines returns every line held by the winner, in WinCombos order. It is empty
// unless the outcome is XWins or OWins.
func (that Board) WinningLines() [][3]int {
	if len(that.lines) == 0 {
		return [][3]int{}
	}

	lines := make([][3]int, len(that.lines))
	copy(lines, that.lines)

	return lines
}

// IsFinished reports whether the board is terminal.
func (that Board) IsFinished() bool {
	return that.outcome != InProgress
}

// MoveCount is the number of marks on the board.
func (that Board) MoveCount() int {
	return BoardSize - that.count(Empty)
}

// NextMark returns the mark due to move. ok is false once the game is over.
func (that Board) NextMark() (mark Cell, ok bool) {
	if that.IsFinished() {
		return Empty, false
	}

	if that.MoveCount()%2 == 1 {
		return MarkO, true
	}

	return MarkX, true
}

// LegalMoves returns the empty cells in ascending order, or nothing when the game is over.
func (that Board) LegalMoves() []int {
	moves := make([]int, 0, BoardSize)
	if that.IsFinished() {
		return moves
	}

	for i, cell := range that.cells {
		if cell == Empty {
			moves = append(moves, i)
		}
	}

	return moves
}

// IsLegal reports whether pos is currently a legal move.
func (that Board) IsLegal(pos int) bool {
	if that.IsFinished() || pos < 0 || pos >= BoardSize {
		return false
	}

	return that.cells[pos] == Empty
}

// ApplyMove places the next mark at pos and returns the resulting board. The mark is
// always derived from the move count. On error the receiver is returned untouched.
func (that Board) ApplyMove(pos int) (Board, error) {
	if !that.IsLegal(pos) {
		return that, fmt.Errorf("%w: position %d", ErrInvalidMove, pos)
	}

	mark, _ := that.NextMark()

	next := Board{cells: that.cells}
	next.cells[pos] = mark

	// legal play can never produce two winners: the previous board had none.
	if err := next.evaluate(); err != nil {
		return that, fmt.Errorf("%w: position %d", err, pos)
	}

	return next, nil
}

// String renders the grid as
//
//	X|O|
//	-+-+-
//	 |X|
//	-+-+-
//	 | |O
func (that Board) String() string {
	var sb strings.Builder

	for row := 0; row < 3; row++ {
		if row > 0 {
			sb.WriteString("\n-+-+-\n")
		}

		for col := 0; col < 3; col++ {
			if col > 0 {
				sb.WriteByte('|')
			}
			sb.WriteString(that.cells[row*3+col].String())
		}
	}

	return sb.String()
}

// evaluate scans every line and caches the outcome and the winning lines.
func (that *Board) evaluate() error {
	winner := Empty
	var lines [][3]int

	for _, combo := range WinCombos {
		a, b, c := that.cells[combo[0]], that.cells[combo[1]], that.cells[combo[2]]
		if a == Empty || a != b || b != c {
			continue
		}

		if winner != Empty && winner != a {
			return ErrMultipleWinners
		}

		winner = a
		lines = append(lines, combo)
	}

	switch {
	case winner == MarkX:
		that.outcome = XWins
	case winner == MarkO:
		that.outcome = OWins
	case that.count(Empty) == 0:
		that.outcome = Tie
	default:
		that.outcome = InProgress
	}

	that.lines = lines

	return nil
}

func (that Board) count(cell Cell) int {
	n := 0
	for _, c := range that.cells {
		if c == cell {
			n++
		}
	}

	return n
}

func (that Cell) String() string {
	switch that {
	case MarkX:
		return "X"
	case MarkO:
		return "O"
	default:
		return " "
	}
}

// Opponent returns the other mark. Empty has no opponent.
func (that Cell) Opponent() Cell {
	switch that {
	case MarkX:
		return MarkO
	case MarkO:
		return MarkX
	default:
		return Empty
	}
}

// ParseMark accepts "X"/"O" (any case) or the numeric codes "1"/"2".
func ParseMark(s string) (Cell, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "X", "1":
		return MarkX, nil
	case "O", "2":
		return MarkO, nil
	default:
		return Empty, fmt.Errorf("%w: %q", ErrUnknownMark, s)
	}
}

func (that Outcome) String() string {
	switch that {
	case InProgress:
		return "in_progress"
	case XWins:
		return "x_wins"
	case OWins:
		return "o_wins"
	case Tie:
		return "tie"
	default:
		return fmt.Sprintf("outcome(%d)", uint8(that))
	}
}

// Winner returns the winning mark, Empty for a tie or an unfinished game.
func (that Outcome) Winner() Cell {
	switch that {
	case XWins:
		return MarkX
	case OWins:
		return MarkO
	default:
		return Empty
	}
}
