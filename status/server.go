package status

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/they4kman/voxelsweep/game"
	"github.com/they4kman/voxelsweep/store"
)

var log = logrus.WithField("component", "status")

type Handler struct {
	results   store.ResultStore
	startTime time.Time

	events   Poster
	notifier game.Notifier
}

func NewHandler(results store.ResultStore) *Handler {
	return &Handler{
		results:   results,
		startTime: time.Now(),
	}
}

// RecordsResponse is a player's best results.
type RecordsResponse struct {
	Player        string       `json:"player"`
	Minesweeper   []store.Best `json:"minesweeper"`
	HighestStreak *int         `json:"highest_streak,omitempty"`
}

// NewRouter serves the health, metrics and records endpoints, and the
// player input endpoints when h has events to post to.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", h.Liveness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/players/:id/records", h.Records)

	if h.events != nil {
		r.POST("/players/:id/join", h.Join)
		r.POST("/events/item-use", h.ItemUse)
		r.POST("/events/click", h.Click)
	}

	return r
}

// Liveness returns simple alive status
func (h *Handler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(h.startTime).Round(time.Second).String(),
	})
}

// Records returns the fastest minesweeper win per board and the highest
// repeat-sequence streak of a player.
func (h *Handler) Records(c *gin.Context) {
	player, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid player id"})
		return
	}

	ctx := c.Request.Context()
	records, err := h.results.MinesweeperRecords(ctx, player)
	if err != nil {
		log.WithError(err).WithField("player", player).Warn("could not load minesweeper records")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get records"})
		return
	}
	streak, found, err := h.results.HighestStreak(ctx, player)
	if err != nil {
		log.WithError(err).WithField("player", player).Warn("could not load highest streak")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get records"})
		return
	}

	response := RecordsResponse{
		Player:      player.String(),
		Minesweeper: records,
	}
	if response.Minesweeper == nil {
		response.Minesweeper = []store.Best{}
	}
	if found {
		response.HighestStreak = &streak
	}
	c.JSON(http.StatusOK, response)
}

// Serve runs handler on addr until ctx is done, then shuts it down.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	errs := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("status server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("status server exited")
	return nil
}
