package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rocketscienceinc/tictactoe-server/internal/entity"
)

// markParam accepts a mark as its numeric code (1, 2) or as "X"/"O".
type markParam entity.Cell

func (that *markParam) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	} else {
		var code int
		if err := json.Unmarshal(data, &code); err != nil {
			return fmt.Errorf("%w: %s", entity.ErrUnknownMark, data)
		}
		raw = strconv.Itoa(code)
	}

	mark, err := entity.ParseMark(raw)
	if err != nil {
		return err
	}

	*that = markParam(mark)

	return nil
}

type createGameRequest struct {
	ServerPlayer markParam `json:"server_player"`
	Strategy     string    `json:"strategy"`
	Creator      string    `json:"creator"`
}

type moveRequest struct {
	Position *int `json:"position"`
}

// gamePayload carries marks and outcomes as their numeric codes: cells 0 empty, 1 X, 2 O;
// winner 0 in progress, 1 X, 2 O, 3 tie.
type gamePayload struct {
	ID               string                `json:"id"`
	URL              string                `json:"url"`
	MoveURL          string                `json:"move_url"`
	State            int                   `json:"state"`
	Board            [entity.BoardSize]int `json:"board"`
	NextMoves        []int                 `json:"next_moves"`
	NextMark         string                `json:"next_mark"`
	ServerPlayer     int                   `json:"server_player"`
	Winner           int                   `json:"winner"`
	WinningPositions [][3]int              `json:"winning_positions"`
	Render           string                `json:"render"`
	Strategy         string                `json:"strategy"`
	Creator          string                `json:"creator,omitempty"`
}

type gameListPayload struct {
	Count    int            `json:"count"`
	Next     *string        `json:"next"`
	Previous *string        `json:"previous"`
	Results  []*gamePayload `json:"results"`
}

type errorPayload struct {
	Error string `json:"error"`
}

// newGamePayload flattens a game and its decoded board. next_mark is empty once the game
// is over.
func newGamePayload(r *http.Request, game *entity.Game, board entity.Board) *gamePayload {
	gameURL := baseURL(r) + "/games/" + game.ID

	payload := &gamePayload{
		ID:               game.ID,
		URL:              gameURL,
		MoveURL:          gameURL + "/moves",
		State:            board.State(),
		NextMoves:        board.LegalMoves(),
		ServerPlayer:     int(game.ServerPlayer),
		Winner:           int(board.Outcome()),
		WinningPositions: board.WinningLines(),
		Render:           board.String(),
		Strategy:         game.Strategy,
		Creator:          game.Creator,
	}

	for i, cell := range board.Cells() {
		payload.Board[i] = int(cell)
	}

	if mark, ok := board.NextMark(); ok {
		payload.NextMark = mark.String()
	}

	return payload
}

// pageLinks returns the neighbouring page URLs, nil where there is no such page.
func pageLinks(r *http.Request, offset, limit, total int) (next, previous *string) {
	if offset+limit < total {
		next = pageURL(r, offset+limit, limit)
	}

	if offset > 0 {
		previous = pageURL(r, max(offset-limit, 0), limit)
	}

	return next, previous
}

func pageURL(r *http.Request, offset, limit int) *string {
	query := url.Values{}
	query.Set("offset", strconv.Itoa(offset))
	query.Set("limit", strconv.Itoa(limit))

	link := baseURL(r) + "/games?" + query.Encode()

	return &link
}

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	return scheme + "://" + r.Host
}
