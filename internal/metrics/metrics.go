package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rocketscienceinc/tictactoe-server/internal/entity"
)

const namespace = "tictactoe"

const (
	ActorHuman  = "human"
	ActorServer = "server"
)

// Metrics groups the game collectors. A nil *Metrics records nothing.
type Metrics struct {
	GamesCreated  *prometheus.CounterVec
	Moves         *prometheus.CounterVec
	GamesFinished *prometheus.CounterVec
	RejectedMoves *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		GamesCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "games_created_total",
				Help:      "Games created, by the mark the server plays.",
			},
			[]string{"server_player"},
		),
		Moves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "moves_total",
				Help:      "Moves applied, by actor.",
			},
			[]string{"actor"},
		),
		GamesFinished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "games_finished_total",
				Help:      "Games that reached a terminal outcome.",
			},
			[]string{"outcome"},
		),
		RejectedMoves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rejected_moves_total",
				Help:      "Moves refused, by reason.",
			},
			[]string{"reason"},
		),
	}

	reg.MustRegister(m.GamesCreated, m.Moves, m.GamesFinished, m.RejectedMoves)

	return m
}

func (that *Metrics) GameCreated(serverPlayer entity.Cell) {
	if that == nil {
		return
	}
	that.GamesCreated.WithLabelValues(serverPlayer.String()).Inc()
}

func (that *Metrics) MoveApplied(actor string) {
	if that == nil {
		return
	}
	that.Moves.WithLabelValues(actor).Inc()
}

func (that *Metrics) GameFinished(outcome entity.Outcome) {
	if that == nil {
		return
	}
	that.GamesFinished.WithLabelValues(outcome.String()).Inc()
}

func (that *Metrics) MoveRejected(reason string) {
	if that == nil {
		return
	}
	that.RejectedMoves.WithLabelValues(reason).Inc()
}
