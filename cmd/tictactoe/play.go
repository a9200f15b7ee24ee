package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/rocketscienceinc/tictactoe-server/internal/entity"
	"github.com/rocketscienceinc/tictactoe-server/internal/strategy"
)

var errInputClosed = errors.New("input closed before the game ended")

func newPlayCmd() *cobra.Command {
	var (
		serverPlayer string
		policyName   string
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game against the server strategy in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			mark, err := entity.ParseMark(serverPlayer)
			if err != nil {
				return err
			}

			policy, err := strategy.New(policyName)
			if err != nil {
				return err
			}

			_, err = newTerminalGame(cmd.InOrStdin(), cmd.OutOrStdout(), mark, policy).Run()
			return err
		},
	}

	cmd.Flags().StringVar(&serverPlayer, "server-player", "O", "mark played by the computer: X or O")
	cmd.Flags().StringVar(&policyName, "strategy", entity.DefaultStrategy,
		"computer strategy: "+strings.Join(strategy.Names(), ", "))

	return cmd
}

type terminalGame struct {
	in     *bufio.Scanner
	out    *termenv.Output
	server entity.Cell
	policy strategy.Strategy
}

func newTerminalGame(in io.Reader, out io.Writer, server entity.Cell, policy strategy.Strategy) *terminalGame {
	return &terminalGame{
		in:     bufio.NewScanner(in),
		out:    termenv.NewOutput(out),
		server: server,
		policy: policy,
	}
}

// Run alternates human and computer moves until the board is terminal.
func (that *terminalGame) Run() (entity.Outcome, error) {
	board := entity.NewBoard()

	fmt.Fprintf(that.out, "You play %s. Enter a cell number 0-8.\n", that.server.Opponent())

	for !board.IsFinished() {
		mark, _ := board.NextMark()

		if mark == that.server {
			pos, err := that.policy.NextMove(board)
			if err != nil {
				return board.Outcome(), fmt.Errorf("strategy failed: %w", err)
			}

			if board, err = board.ApplyMove(pos); err != nil {
				return board.Outcome(), fmt.Errorf("strategy chose an invalid move: %w", err)
			}

			fmt.Fprintf(that.out, "Computer plays %d\n", pos)
			continue
		}

		that.printBoard(board)
		fmt.Fprint(that.out, "> ")

		if !that.in.Scan() {
			if err := that.in.Err(); err != nil {
				return board.Outcome(), fmt.Errorf("failed to read move: %w", err)
			}
			return board.Outcome(), errInputClosed
		}

		pos, err := strconv.Atoi(strings.TrimSpace(that.in.Text()))
		if err != nil {
			fmt.Fprintln(that.out, that.out.String("not a number").Foreground(that.out.Color("1")))
			continue
		}

		next, err := board.ApplyMove(pos)
		if err != nil {
			fmt.Fprintln(that.out, that.out.String(err.Error()).Foreground(that.out.Color("1")))
			continue
		}
		board = next
	}

	that.printBoard(board)
	fmt.Fprintf(that.out, "Game over: %s\n", that.describe(board.Outcome()))

	return board.Outcome(), nil
}

func (that *terminalGame) printBoard(board entity.Board) {
	cells := board.Cells()
	winning := make(map[int]bool)
	for _, line := range board.WinningLines() {
		for _, pos := range line {
			winning[pos] = true
		}
	}

	var sb strings.Builder
	for row := 0; row < 3; row++ {
		if row > 0 {
			sb.WriteString("-+-+-\n")
		}

		for col := 0; col < 3; col++ {
			if col > 0 {
				sb.WriteByte('|')
			}

			pos := row*3 + col
			sb.WriteString(that.cell(pos, cells[pos], winning[pos]))
		}
		sb.WriteByte('\n')
	}

	fmt.Fprint(that.out, sb.String())
}

func (that *terminalGame) cell(pos int, cell entity.Cell, winning bool) string {
	var style termenv.Style

	switch cell {
	case entity.MarkX:
		style = that.out.String("X").Foreground(that.out.Color("4"))
	case entity.MarkO:
		style = that.out.String("O").Foreground(that.out.Color("3"))
	default:
		return that.out.String(strconv.Itoa(pos)).Faint().String()
	}

	if winning {
		style = style.Bold().Underline()
	}

	return style.String()
}

func (that *terminalGame) describe(outcome entity.Outcome) string {
	switch outcome.Winner() {
	case entity.Empty:
		return "tie"
	case that.server:
		return "computer wins"
	default:
		return "you win"
	}
}
