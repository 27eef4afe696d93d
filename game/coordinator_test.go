package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/they4kman/voxelsweep/store"
	"github.com/they4kman/voxelsweep/world"
)

var testPlayer = Player{ID: uuid.MustParse("3b241101-e2bb-4255-8caf-4136c566a962"), Name: "alice"}

// fakeGame records every call in a log shared between games.
type fakeGame struct {
	name      string
	footprint map[world.BlockPos]bool
	buildErr  error
	calls     *[]string

	// despawnOnClick requests despawn on the first click it receives
	despawnOnClick bool
	despawn        bool
	resets         int

	tickedOnce sync.Once
	ticked     chan struct{}
}

func newFakeGame(name string, calls *[]string, footprint ...world.BlockPos) *fakeGame {
	g := &fakeGame{
		name:      name,
		footprint: make(map[world.BlockPos]bool),
		calls:     calls,
		ticked:    make(chan struct{}),
	}
	for _, pos := range footprint {
		g.footprint[pos] = true
	}
	return g
}

func (g *fakeGame) record(call string) {
	*g.calls = append(*g.calls, call+":"+g.name)
}

func (g *fakeGame) Kind() Kind                       { return KindMinesweeper }
func (g *fakeGame) Owner() Player                    { return testPlayer }
func (g *fakeGame) Contains(pos world.BlockPos) bool { return g.footprint[pos] }
func (g *fakeGame) ShouldDespawn() bool              { return g.despawn }

func (g *fakeGame) Build(surface world.Surface) error {
	g.record("build")
	return g.buildErr
}

func (g *fakeGame) Tick(surface world.Surface) {
	g.record("tick")
	g.tickedOnce.Do(func() { close(g.ticked) })
}

func (g *fakeGame) ClickPrimary(pos world.BlockPos, actor Player, surface world.Surface) {
	g.record(fmt.Sprintf("primary%v", pos))
	g.despawn = g.despawn || g.despawnOnClick
}

func (g *fakeGame) ClickSecondary(pos world.BlockPos, actor Player, surface world.Surface) {
	g.record(fmt.Sprintf("secondary%v", pos))
	g.despawn = g.despawn || g.despawnOnClick
}

func (g *fakeGame) Reset(ctx context.Context, surface world.Surface, results store.ResultStore) {
	g.record("reset")
	g.resets++
}

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) SendMessage(player Player, message string) {
	n.messages = append(n.messages, player.Name+": "+message)
}

func newTestCoordinator(spawn SpawnFunc) (*Coordinator, *recordingNotifier) {
	notifier := &recordingNotifier{}
	return NewCoordinator(world.NewMemory(), store.NewMemory(), notifier, spawn), notifier
}

func assertCalls(t *testing.T, got []string, want ...string) {
	t.Helper()
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("calls\n  %v\nwant\n  %v", got, want)
	}
}

func TestStepOrder(t *testing.T) {
	var calls []string
	c, _ := newTestCoordinator(nil)

	pos := world.BlockPos{X: 1}
	g := newFakeGame("a", &calls, pos)
	g.despawnOnClick = true

	c.Start(g)
	c.HandleClick(Click{Pos: pos, Actor: testPlayer})
	c.Step(context.Background())

	assertCalls(t, calls, "build:a", "tick:a", "primary(1, 0, 0):a", "reset:a")
	if c.Live() != 0 {
		t.Errorf("%d games live after despawn", c.Live())
	}
}

func TestBuildFailure(t *testing.T) {
	var calls []string
	c, notifier := newTestCoordinator(nil)

	g := newFakeGame("a", &calls)
	g.buildErr = ErrBlocksInTheWay
	c.Start(g)
	c.Step(context.Background())
	c.Step(context.Background())

	assertCalls(t, calls, "build:a")
	if c.Live() != 0 {
		t.Errorf("%d games live", c.Live())
	}
	if len(notifier.messages) != 1 || !strings.Contains(notifier.messages[0], "alice: Couldn't build the game: blocks in the way") {
		t.Errorf("messages %q", notifier.messages)
	}
}

func TestClickRouting(t *testing.T) {
	var calls []string
	c, _ := newTestCoordinator(nil)

	shared, onlyB, nowhere := world.BlockPos{X: 1}, world.BlockPos{X: 2}, world.BlockPos{X: 3}
	c.Start(newFakeGame("a", &calls, shared))
	c.Start(newFakeGame("b", &calls, shared, onlyB))
	c.Step(context.Background())
	calls = nil

	c.HandleClick(Click{Pos: shared, Actor: testPlayer})
	c.HandleClick(Click{Pos: onlyB, Actor: testPlayer, Secondary: true})
	c.HandleClick(Click{Pos: nowhere, Actor: testPlayer})
	c.Step(context.Background())

	assertCalls(t, calls, "tick:a", "tick:b", "primary(1, 0, 0):a", "secondary(2, 0, 0):b")
}

func TestClicksBeforeBuildAreRoutedAfterIt(t *testing.T) {
	var calls []string
	c, _ := newTestCoordinator(nil)

	pos := world.BlockPos{Y: 5}
	c.HandleClick(Click{Pos: pos, Actor: testPlayer})
	c.Start(newFakeGame("a", &calls, pos))
	c.Step(context.Background())

	assertCalls(t, calls, "build:a", "tick:a", "primary(0, 5, 0):a")
}

func TestSingleReset(t *testing.T) {
	var calls []string
	c, _ := newTestCoordinator(nil)

	g := newFakeGame("a", &calls)
	c.Start(g)
	c.Step(context.Background())
	g.despawn = true
	c.Step(context.Background())
	c.Step(context.Background())
	c.Shutdown(context.Background())

	if g.resets != 1 {
		t.Errorf("reset %d times", g.resets)
	}
	if c.Ticks() != 3 {
		t.Errorf("%d ticks", c.Ticks())
	}
}

func TestShutdown(t *testing.T) {
	var calls []string
	c, _ := newTestCoordinator(nil)

	live := newFakeGame("live", &calls)
	c.Start(live)
	c.Step(context.Background())
	c.Start(newFakeGame("pending", &calls))
	c.HandleClick(Click{})

	c.Shutdown(context.Background())
	c.Step(context.Background())

	if live.resets != 1 {
		t.Errorf("live game reset %d times", live.resets)
	}
	assertCalls(t, calls, "build:live", "tick:live", "reset:live")
}

func TestHandleItemUse(t *testing.T) {
	var calls []string
	spawned := newFakeGame("spawned", &calls)
	spawn := func(use ItemUse) (Game, error) {
		switch use.Item {
		case "start":
			return spawned, nil
		case "broken":
			return nil, errors.New("bad preset")
		}
		return nil, nil
	}
	c, notifier := newTestCoordinator(spawn)

	if c.HandleItemUse(ItemUse{Player: testPlayer, Item: "stick"}) {
		t.Error("plain item started a game")
	}
	if c.HandleItemUse(ItemUse{Player: testPlayer, Item: "broken"}) {
		t.Error("failed spawn reported as started")
	}
	if len(notifier.messages) != 1 || !strings.Contains(notifier.messages[0], "bad preset") {
		t.Errorf("messages %q", notifier.messages)
	}
	if !c.HandleItemUse(ItemUse{Player: testPlayer, Item: "start"}) {
		t.Fatal("start item did not start a game")
	}

	c.Step(context.Background())
	assertCalls(t, calls, "build:spawned", "tick:spawned")
	if c.Live() != 1 {
		t.Errorf("%d games live", c.Live())
	}
}

func TestDrainPostedEvents(t *testing.T) {
	var calls []string
	pos := world.BlockPos{X: 1, Y: 64, Z: 1}
	spawned := newFakeGame("spawned", &calls, pos)
	spawn := func(use ItemUse) (Game, error) {
		return spawned, nil
	}
	c, _ := newTestCoordinator(spawn)
	ctx := context.Background()

	if err := c.Post(ctx, ItemUse{Player: testPlayer, Item: "start"}); err != nil {
		t.Fatal(err)
	}
	if err := c.Post(ctx, Click{Pos: pos, Actor: testPlayer, Secondary: true}); err != nil {
		t.Fatal(err)
	}
	c.Drain()
	c.Step(ctx)

	assertCalls(t, calls, "build:spawned", "tick:spawned", "secondary(1, 64, 1):spawned")
	if c.Live() != 1 {
		t.Errorf("%d games live", c.Live())
	}

	// Nothing left: Drain must return without blocking.
	c.Drain()
}

func TestRun(t *testing.T) {
	var calls []string
	c, _ := newTestCoordinator(nil)
	g := newFakeGame("a", &calls)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errs := make(chan error, 1)
	go func() {
		errs <- c.Run(ctx, 1000)
	}()

	if err := c.Post(ctx, Game(g)); err != nil {
		t.Fatal(err)
	}
	select {
	case <-g.ticked:
	case <-time.After(5 * time.Second):
		t.Fatal("posted game never ticked")
	}
	cancel()

	select {
	case err := <-errs:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
	if g.resets != 1 {
		t.Errorf("reset %d times on shutdown", g.resets)
	}
}

type failingStore struct{ store.ResultStore }

func (failingStore) HighestStreak(context.Context, uuid.UUID) (int, bool, error) {
	return 0, false, errors.New("connection refused")
}

func (failingStore) BestMinesweeper(context.Context, uuid.UUID) (store.Best, bool, error) {
	return store.Best{}, false, errors.New("connection refused")
}

func TestWelcomeMessages(t *testing.T) {
	ctx := context.Background()
	results := store.NewMemory()

	if messages := WelcomeMessages(ctx, results, testPlayer); len(messages) != 0 {
		t.Errorf("new player greeted with %q", messages)
	}

	results.InsertSequence(ctx, store.SequenceResult{Size: 5, Streak: 4, Player: testPlayer.ID})
	results.InsertSequence(ctx, store.SequenceResult{Size: 7, Streak: 2, Player: testPlayer.ID})
	results.InsertMinesweeper(ctx, store.MinesweeperResult{Size: 20, Dimensions: 2, CompletionTicks: 250, Bombs: 40, Player: testPlayer.ID})
	results.InsertMinesweeper(ctx, store.MinesweeperResult{Size: 10, Dimensions: 3, CompletionTicks: 900, Bombs: 130, Player: testPlayer.ID})

	want := []string{
		"Your Highest Streak: 4",
		"Your fastest minesweeper game took: 12 seconds, it was a 20x20 2D game",
	}
	got := WelcomeMessages(ctx, results, testPlayer)
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("got %q, want %q", got, want)
	}

	if messages := WelcomeMessages(ctx, failingStore{}, testPlayer); len(messages) != 0 {
		t.Errorf("failing store produced %q", messages)
	}
}
