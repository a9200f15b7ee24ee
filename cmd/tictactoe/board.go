package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rocketscienceinc/tictactoe-server/internal/entity"
)

type boardReport struct {
	State        int                      `json:"state" yaml:"state"`
	Board        [entity.BoardSize]string `json:"board" yaml:"board"`
	Outcome      string                   `json:"outcome" yaml:"outcome"`
	NextMark     string                   `json:"next_mark" yaml:"next_mark"`
	LegalMoves   []int                    `json:"legal_moves" yaml:"legal_moves"`
	WinningLines [][3]int                 `json:"winning_lines" yaml:"winning_lines"`
}

func newBoardCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "board STATE",
		Short: "Decode an encoded board state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("state must be an integer: %w", err)
			}

			board, err := entity.FromState(state)
			if err != nil {
				return fmt.Errorf("invalid state %d: %w", state, err)
			}

			return writeBoard(cmd.OutOrStdout(), board, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text, json or yaml")

	return cmd
}

func newBoardReport(board entity.Board) boardReport {
	report := boardReport{
		State:        board.State(),
		Outcome:      board.Outcome().String(),
		LegalMoves:   board.LegalMoves(),
		WinningLines: board.WinningLines(),
	}

	for i, cell := range board.Cells() {
		if cell != entity.Empty {
			report.Board[i] = cell.String()
		}
	}

	if mark, ok := board.NextMark(); ok {
		report.NextMark = mark.String()
	}

	return report
}

func writeBoard(w io.Writer, board entity.Board, output string) error {
	report := newBoardReport(board)

	switch output {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		if err := encoder.Encode(report); err != nil {
			return err
		}
		return encoder.Close()
	case "text":
		var sb strings.Builder

		sb.WriteString(board.String())
		sb.WriteString("\n\n")
		fmt.Fprintf(&sb, "state:   %d\n", report.State)
		fmt.Fprintf(&sb, "outcome: %s\n", report.Outcome)

		if report.NextMark != "" {
			fmt.Fprintf(&sb, "next:    %s\n", report.NextMark)
			fmt.Fprintf(&sb, "moves:   %v\n", report.LegalMoves)
		}

		for _, line := range report.WinningLines {
			fmt.Fprintf(&sb, "line:    %v\n", line)
		}

		_, err := io.WriteString(w, sb.String())
		return err
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
}
