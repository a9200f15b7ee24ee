package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoard(t *testing.T) {
	// When: a new board is created
	board := NewBoard()

	// Then: it should be empty with X to move
	expected := " | | \n" +
		"-+-+-\n" +
		" | | \n" +
		"-+-+-\n" +
		" | | "

	assert.Equal(t, expected, board.String())
	assert.Equal(t, 0, board.State())
	assert.Equal(t, InProgress, board.Outcome())
	assert.Empty(t, board.WinningLines())
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, board.LegalMoves())

	mark, ok := board.NextMark()
	require.True(t, ok)
	assert.Equal(t, MarkX, mark)

	// Then: the zero state decodes to the same board
	decoded, err := FromState(0)
	require.NoError(t, err)
	assert.Equal(t, board, decoded)
}

func TestFromState_OneMove(t *testing.T) {
	// Given: the state after X takes the top left corner
	board, err := FromState(1)
	require.NoError(t, err)

	// Then: O is due to move and the corner is no longer legal
	expected := "X| | \n" +
		"-+-+-\n" +
		" | | \n" +
		"-+-+-\n" +
		" | | "

	assert.Equal(t, expected, board.String())
	assert.Equal(t, 1, board.State())
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, board.LegalMoves())

	mark, ok := board.NextMark()
	require.True(t, ok)
	assert.Equal(t, MarkO, mark)
}

func TestFromState_Winners(t *testing.T) {
	tests := []struct {
		name    string
		state   int
		render  string
		outcome Outcome
		lines   [][3]int
	}{
		{
			name:    "row 1",
			state:   14755,
			render:  "X|X|X\n-+-+-\n |O| \n-+-+-\nO| |O",
			outcome: XWins,
			lines:   [][3]int{{0, 1, 2}},
		},
		{
			name:    "row 2",
			state:   9453,
			render:  " |X| \n-+-+-\nO|O|O\n-+-+-\n |X|X",
			outcome: OWins,
			lines:   [][3]int{{3, 4, 5}},
		},
		{
			name:    "row 3",
			state:   9695,
			render:  "O| | \n-+-+-\nO|O| \n-+-+-\nX|X|X",
			outcome: XWins,
			lines:   [][3]int{{6, 7, 8}},
		},
		{
			name:    "column 1",
			state:   10343,
			render:  "O| | \n-+-+-\nO|X| \n-+-+-\nO|X|X",
			outcome: OWins,
			lines:   [][3]int{{0, 3, 6}},
		},
		{
			name:    "column 2",
			state:   3783,
			render:  " |X| \n-+-+-\nO|X| \n-+-+-\nO|X| ",
			outcome: XWins,
			lines:   [][3]int{{1, 4, 7}},
		},
		{
			name:    "column 3",
			state:   14439,
			render:  " |X|O\n-+-+-\n |X|O\n-+-+-\nX| |O",
			outcome: OWins,
			lines:   [][3]int{{2, 5, 8}},
		},
		{
			name:    "rising diagonal",
			state:   14427,
			render:  " | |X\n-+-+-\n |X|O\n-+-+-\nX| |O",
			outcome: XWins,
			lines:   [][3]int{{2, 4, 6}},
		},
		{
			name:    "falling diagonal",
			state:   14267,
			render:  "O| |X\n-+-+-\n |O|X\n-+-+-\nX| |O",
			outcome: OWins,
			lines:   [][3]int{{0, 4, 8}},
		},
		{
			name:    "two lines for the same player",
			state:   18859,
			render:  "X|X|X\n-+-+-\nO|X|O\n-+-+-\nX|O|O",
			outcome: XWins,
			lines:   [][3]int{{0, 1, 2}, {2, 4, 6}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// When: decoding a finished position
			board, err := FromState(tt.state)
			require.NoError(t, err)

			// Then: the outcome and every winning line are reported
			assert.Equal(t, tt.render, board.String())
			assert.Equal(t, tt.outcome, board.Outcome())
			assert.Equal(t, tt.lines, board.WinningLines())
			assert.True(t, board.IsFinished())

			// Then: the board is terminal
			assert.Empty(t, board.LegalMoves())
			_, ok := board.NextMark()
			assert.False(t, ok)
		})
	}
}

func TestFromState_Tie(t *testing.T) {
	// Given: a full board without a line
	// X|O|X
	// X|O|O
	// O|X|X
	board, err := FromState(10897)
	require.NoError(t, err)

	// Then: it is a tie with no winning lines
	assert.Equal(t, Tie, board.Outcome())
	assert.Empty(t, board.WinningLines())
	assert.Empty(t, board.LegalMoves())
	assert.Equal(t, Empty, board.Outcome().Winner())
}

func TestFromState_Errors(t *testing.T) {
	tests := []struct {
		name  string
		state int
		err   error
	}{
		{name: "O moved first", state: 2, err: ErrTooManyOMoves},
		{name: "X moved twice", state: 4, err: ErrTooManyXMoves},
		{name: "ten digits", state: StateLimit, err: ErrStateTooLarge},
		{name: "far too large", state: 1 << 30, err: ErrStateTooLarge},
		{name: "negative", state: -1, err: ErrNegativeState},
		{name: "both players have a row", state: 715, err: ErrMultipleWinners},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// When: decoding an invalid state
			_, err := FromState(tt.state)

			// Then: the matching error kind is returned
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestFromCells(t *testing.T) {
	t.Run("Encodes the layout", func(t *testing.T) {
		// Given: the layout of state 220
		cells := [BoardSize]Cell{
			MarkX, MarkX, Empty,
			MarkO, MarkO, Empty,
			Empty, Empty, Empty,
		}

		// When: building a board from cells
		board, err := FromCells(cells)

		// Then: it encodes to 220 and keeps the layout
		require.NoError(t, err)
		assert.Equal(t, 220, board.State())
		assert.Equal(t, cells, board.Cells())
		assert.Equal(t, []int{2, 5, 6, 7, 8}, board.LegalMoves())
	})

	t.Run("Rejects unknown cell values", func(t *testing.T) {
		// Given: a layout with an out of range cell
		cells := [BoardSize]Cell{3}

		// When: building a board from cells
		_, err := FromCells(cells)

		// Then: ErrUnknownMark is returned
		require.ErrorIs(t, err, ErrUnknownMark)
	})
}

func TestBoard_ApplyMove(t *testing.T) {
	t.Run("Places X on an empty board", func(t *testing.T) {
		// Given: a new board
		board := NewBoard()

		// When: X takes cell 0
		next, err := board.ApplyMove(0)
		require.NoError(t, err)

		// Then: the state is 1 and the game continues
		assert.Equal(t, 1, next.State())
		assert.Equal(t, [BoardSize]Cell{MarkX}, next.Cells())
		assert.Equal(t, InProgress, next.Outcome())

		// Then: the receiver is untouched
		assert.Equal(t, 0, board.State())
	})

	t.Run("Rejects an occupied cell", func(t *testing.T) {
		// Given: X holds cell 0
		board, err := NewBoard().ApplyMove(0)
		require.NoError(t, err)

		// When: O tries cell 0
		next, err := board.ApplyMove(0)

		// Then: ErrInvalidMove is returned and nothing changed
		require.ErrorIs(t, err, ErrInvalidMove)
		assert.Equal(t, 1, next.State())
		assert.Equal(t, 1, board.State())
	})

	t.Run("Rejects out of range positions", func(t *testing.T) {
		board := NewBoard()

		for _, pos := range []int{-1, 9, 20} {
			_, err := board.ApplyMove(pos)
			require.ErrorIs(t, err, ErrInvalidMove, "position %d", pos)
		}
	})

	t.Run("Rejects moves on a finished board", func(t *testing.T) {
		// Given: X already won on the top row
		board, err := FromState(14755)
		require.NoError(t, err)

		// When: trying every cell
		for pos := 0; pos < BoardSize; pos++ {
			next, err := board.ApplyMove(pos)

			// Then: every move fails and the state holds
			require.ErrorIs(t, err, ErrInvalidMove)
			assert.Equal(t, 14755, next.State())
		}
	})

	t.Run("Detects the winning move", func(t *testing.T) {
		// Given: X holds 0 and 1, O holds 3 and 4
		board, err := FromState(220)
		require.NoError(t, err)

		// When: X completes the top row
		next, err := board.ApplyMove(2)
		require.NoError(t, err)

		// Then: X wins on that row
		assert.Equal(t, XWins, next.Outcome())
		assert.Equal(t, [][3]int{{0, 1, 2}}, next.WinningLines())
		assert.Empty(t, next.LegalMoves())
	})

	t.Run("Plays a full game to a tie", func(t *testing.T) {
		board := NewBoard()

		// X|O|X
		// X|O|O
		// O|X|X
		for _, pos := range []int{0, 1, 2, 4, 3, 5, 7, 6, 8} {
			var err error
			board, err = board.ApplyMove(pos)
			require.NoError(t, err)
		}

		assert.Equal(t, Tie, board.Outcome())
		assert.Equal(t, 10897, board.State())
	})
}

func TestBoard_WinningLinesIsACopy(t *testing.T) {
	board, err := FromState(18859)
	require.NoError(t, err)

	lines := board.WinningLines()
	lines[0] = [3]int{6, 7, 8}

	assert.Equal(t, [][3]int{{0, 1, 2}, {2, 4, 6}}, board.WinningLines())
}

func TestBoard_AllStates(t *testing.T) {
	valid := 0

	for state := 0; state < StateLimit; state++ {
		board, err := FromState(state)
		if err != nil {
			continue
		}
		valid++

		// round trip
		require.Equal(t, state, board.State())

		again, err := FromState(board.State())
		require.NoError(t, err)
		require.Equal(t, board, again)

		mark, ok := board.NextMark()
		if board.Outcome() == InProgress {
			// turn parity
			require.True(t, ok)
			if board.MoveCount()%2 == 0 {
				require.Equal(t, MarkX, mark, "state %d", state)
			} else {
				require.Equal(t, MarkO, mark, "state %d", state)
			}
			require.Empty(t, board.WinningLines())
			continue
		}

		// terminal closure
		require.False(t, ok)
		require.Empty(t, board.LegalMoves())
		for pos := 0; pos < BoardSize; pos++ {
			next, err := board.ApplyMove(pos)
			require.ErrorIs(t, err, ErrInvalidMove)
			require.Equal(t, state, next.State())
		}
	}

	assert.Equal(t, 5890, valid)
}

func TestBoard_ReachablePositions(t *testing.T) {
	// Given: every board reachable from the empty board through ApplyMove
	seen := map[int]bool{0: true}
	queue := []Board{NewBoard()}
	terminal := 0

	for len(queue) > 0 {
		board := queue[0]
		queue = queue[1:]

		if board.IsFinished() {
			terminal++
			continue
		}

		for _, pos := range board.LegalMoves() {
			next, err := board.ApplyMove(pos)
			require.NoError(t, err)

			// Then: every reachable state decodes back to the same board
			decoded, err := FromState(next.State())
			require.NoError(t, err)
			require.Equal(t, next, decoded)

			if !seen[next.State()] {
				seen[next.State()] = true
				queue = append(queue, next)
			}
		}
	}

	assert.Len(t, seen, 5478)
	assert.Equal(t, 958, terminal)
}

func TestParseMark(t *testing.T) {
	for input, expected := range map[string]Cell{"X": MarkX, "x": MarkX, "1": MarkX, "O": MarkO, " o ": MarkO, "2": MarkO} {
		mark, err := ParseMark(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, mark, input)
	}

	_, err := ParseMark("Z")
	require.ErrorIs(t, err, ErrUnknownMark)
}

func TestCell_Opponent(t *testing.T) {
	assert.Equal(t, MarkO, MarkX.Opponent())
	assert.Equal(t, MarkX, MarkO.Opponent())
	assert.Equal(t, Empty, Empty.Opponent())
}
