package game

import (
	"context"
	"fmt"
	"time"

	"github.com/gammazero/deque"
	"github.com/sirupsen/logrus"
	"github.com/they4kman/voxelsweep/metrics"
	"github.com/they4kman/voxelsweep/store"
	"github.com/they4kman/voxelsweep/world"
)

// Coordinator drives every live game. Each Step builds queued games,
// ticks live ones, routes queued clicks and tears down finished games,
// always in that order.
//
// A Coordinator is not safe for concurrent use; other goroutines hand it
// events through Post while Run owns it.
type Coordinator struct {
	surface  world.Surface
	results  store.ResultStore
	notifier Notifier
	spawn    SpawnFunc

	pending []Game
	live    []Game
	clicks  deque.Deque

	inbox chan any
	ticks uint64
}

func NewCoordinator(surface world.Surface, results store.ResultStore, notifier Notifier, spawn SpawnFunc) *Coordinator {
	return &Coordinator{
		surface:  surface,
		results:  results,
		notifier: notifier,
		spawn:    spawn,
		inbox:    make(chan any, 256),
	}
}

// Start queues g to be built on the next Step.
func (c *Coordinator) Start(g Game) {
	c.pending = append(c.pending, g)
}

// HandleItemUse starts a game if the used item is a start item.
func (c *Coordinator) HandleItemUse(use ItemUse) bool {
	if c.spawn == nil {
		return false
	}

	g, err := c.spawn(use)
	if err != nil {
		log.WithError(err).WithField("player", use.Player).Warn("could not create game")
		c.notify(use.Player, fmt.Sprintf("Couldn't start a game: %v", err))
		return false
	}
	if g == nil {
		return false
	}

	c.Start(g)
	return true
}

// HandleClick queues a click for the next Step.
func (c *Coordinator) HandleClick(click Click) {
	c.clicks.PushBack(click)
}

// Post hands an ItemUse, Click or Game to the goroutine running Run.
func (c *Coordinator) Post(ctx context.Context, event any) error {
	select {
	case c.inbox <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Drain handles every event posted so far without waiting for more.
func (c *Coordinator) Drain() {
	for {
		select {
		case event := <-c.inbox:
			c.handle(event)
		default:
			return
		}
	}
}

func (c *Coordinator) handle(event any) {
	switch e := event.(type) {
	case ItemUse:
		c.HandleItemUse(e)
	case Click:
		c.HandleClick(e)
	case Game:
		c.Start(e)
	default:
		log.WithField("event", fmt.Sprintf("%T", event)).Warn("dropping unknown event")
	}
}

// Step advances every game by one tick.
func (c *Coordinator) Step(ctx context.Context) {
	c.ticks++

	c.buildPending()

	for _, g := range c.live {
		g.Tick(c.surface)
	}

	c.dispatchClicks()
	c.despawnFinished(ctx)
}

func (c *Coordinator) buildPending() {
	pending := c.pending
	c.pending = nil

	for _, g := range pending {
		entry := log.WithFields(logrus.Fields{"kind": g.Kind(), "player": g.Owner()})

		if err := g.Build(c.surface); err != nil {
			entry.WithError(err).Warn("could not build game")
			metrics.GamesBuildFailed.WithLabelValues(string(g.Kind())).Inc()
			c.notify(g.Owner(), fmt.Sprintf("Couldn't build the game: %v", err))
			continue
		}

		entry.Info("game built")
		metrics.GamesStarted.WithLabelValues(string(g.Kind())).Inc()
		c.live = append(c.live, g)
	}
	metrics.GamesLive.Set(float64(len(c.live)))
}

func (c *Coordinator) dispatchClicks() {
	for c.clicks.Len() > 0 {
		click := c.clicks.PopFront().(Click)

		g := c.gameAt(click.Pos)
		if g == nil {
			continue
		}
		if click.Secondary {
			g.ClickSecondary(click.Pos, click.Actor, c.surface)
		} else {
			g.ClickPrimary(click.Pos, click.Actor, c.surface)
		}
	}
}

func (c *Coordinator) despawnFinished(ctx context.Context) {
	kept := c.live[:0]
	for _, g := range c.live {
		if !g.ShouldDespawn() {
			kept = append(kept, g)
			continue
		}
		g.Reset(ctx, c.surface, c.results)
		log.WithFields(logrus.Fields{"kind": g.Kind(), "player": g.Owner()}).Info("game despawned")
	}
	for i := len(kept); i < len(c.live); i++ {
		c.live[i] = nil
	}
	c.live = kept
	metrics.GamesLive.Set(float64(len(c.live)))
}

func (c *Coordinator) gameAt(pos world.BlockPos) Game {
	for _, g := range c.live {
		if g.Contains(pos) {
			return g
		}
	}
	return nil
}

func (c *Coordinator) notify(player Player, message string) {
	if c.notifier != nil {
		c.notifier.SendMessage(player, message)
	}
}

// Live returns the number of built, not yet despawned games.
func (c *Coordinator) Live() int {
	return len(c.live)
}

func (c *Coordinator) Ticks() uint64 {
	return c.ticks
}

// Shutdown tears down every live game and forgets queued ones.
func (c *Coordinator) Shutdown(ctx context.Context) {
	for _, g := range c.live {
		g.Reset(ctx, c.surface, c.results)
	}
	c.live = nil
	c.pending = nil
	for c.clicks.Len() > 0 {
		c.clicks.PopFront()
	}
	metrics.GamesLive.Set(0)
}

// Run steps the coordinator tickRate times per second until ctx is done,
// handling posted events between ticks. Live games are torn down before
// it returns.
func (c *Coordinator) Run(ctx context.Context, tickRate int) error {
	if tickRate <= 0 {
		tickRate = TicksPerSecond
	}
	ticker := time.NewTicker(time.Second / time.Duration(tickRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.Shutdown(context.WithoutCancel(ctx))
			return ctx.Err()
		case event := <-c.inbox:
			c.handle(event)
		case <-ticker.C:
			c.Drain()
			c.Step(ctx)
		}
	}
}
