package status

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/they4kman/voxelsweep/game"
	"github.com/they4kman/voxelsweep/world"
)

// Poster hands events to the goroutine running the coordinator.
type Poster interface {
	Post(ctx context.Context, event any) error
}

type playerRequest struct {
	ID   string `json:"id" binding:"required"`
	Name string `json:"name"`
}

func (p playerRequest) player() (game.Player, error) {
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return game.Player{}, err
	}
	return game.Player{ID: id, Name: p.Name}, nil
}

type position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// ItemUseRequest is the body of POST /events/item-use.
type ItemUseRequest struct {
	Player   playerRequest `json:"player"`
	Item     string        `json:"item" binding:"required"`
	Position position      `json:"position"`
	Yaw      float32       `json:"yaw"`
}

// ClickRequest is the body of POST /events/click.
type ClickRequest struct {
	Player    playerRequest `json:"player"`
	X         int32         `json:"x"`
	Y         int32         `json:"y"`
	Z         int32         `json:"z"`
	Secondary bool          `json:"secondary"`
}

type joinRequest struct {
	Name string `json:"name"`
}

// WithEvents lets the router accept player input for events and send
// welcome lines through notifier.
func (h *Handler) WithEvents(events Poster, notifier game.Notifier) *Handler {
	h.events = events
	h.notifier = notifier
	return h
}

// ItemUse queues an item use. Start items spawn a game on the next tick.
func (h *Handler) ItemUse(c *gin.Context) {
	var req ItemUseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	player, err := req.Player.player()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid player id"})
		return
	}

	h.post(c, game.ItemUse{
		Player:   player,
		Item:     req.Item,
		Position: world.Vec3{X: req.Position.X, Y: req.Position.Y, Z: req.Position.Z},
		Yaw:      req.Yaw,
	})
}

// Click queues a block interaction.
func (h *Handler) Click(c *gin.Context) {
	var req ClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	player, err := req.Player.player()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid player id"})
		return
	}

	h.post(c, game.Click{
		Pos:       world.BlockPos{X: req.X, Y: req.Y, Z: req.Z},
		Actor:     player,
		Secondary: req.Secondary,
	})
}

func (h *Handler) post(c *gin.Context, event any) {
	if err := h.events.Post(c.Request.Context(), event); err != nil {
		log.WithError(err).Warn("could not queue event")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "event not queued"})
		return
	}
	c.Status(http.StatusAccepted)
}

// Join greets a player with their best results.
func (h *Handler) Join(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid player id"})
		return
	}
	var req joinRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	player := game.Player{ID: id, Name: req.Name}
	messages := game.WelcomeMessages(c.Request.Context(), h.results, player)
	if h.notifier != nil {
		for _, message := range messages {
			h.notifier.SendMessage(player, message)
		}
	}
	if messages == nil {
		messages = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
