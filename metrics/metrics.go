package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	GamesStarted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voxelsweep_games_started_total",
			Help: "Minigame instances successfully built into the world",
		},
		[]string{"kind"},
	)
	GamesBuildFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voxelsweep_games_build_failed_total",
			Help: "Minigame instances dropped because their footprint was occupied",
		},
		[]string{"kind"},
	)
	GamesFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voxelsweep_games_finished_total",
			Help: "Minigame instances torn down, by outcome",
		},
		[]string{"kind", "outcome"},
	)
	GamesLive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "voxelsweep_games_live",
			Help: "Minigame instances currently in the world",
		},
	)
	BoardRegenerations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "voxelsweep_board_regenerations_total",
			Help: "Minesweeper boards regenerated to keep the first click safe",
		},
	)
	ResultStoreErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voxelsweep_result_store_errors_total",
			Help: "Failed result store operations",
		},
		[]string{"op"},
	)
)

// Outcomes used for the GamesFinished outcome label.
const (
	OutcomeWon       = "won"
	OutcomeLost      = "lost"
	OutcomeAbandoned = "abandoned"
)

func init() {
	prometheus.MustRegister(GamesStarted)
	prometheus.MustRegister(GamesBuildFailed)
	prometheus.MustRegister(GamesFinished)
	prometheus.MustRegister(GamesLive)
	prometheus.MustRegister(BoardRegenerations)
	prometheus.MustRegister(ResultStoreErrors)
}
