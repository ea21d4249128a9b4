package board

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"slices"
	"strings"
	"testing"

	"github.com/vovakirdan/gift-board/internal/config"
)

// newTestGame creates a seeded game with sequential ids.
func newTestGame(t *testing.T, mutate func(*config.Config), opts ...Option) *Game {
	t.Helper()
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	next := 0
	base := []Option{
		WithSeed(42),
		WithIDs(func() string {
			next++
			return fmt.Sprintf("id-%d", next)
		}),
	}
	g, err := New(cfg, append(base, opts...)...)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return g
}

func coins(n int) *int {
	return &n
}

func gift(user string, count, perGift int) Gift {
	return Gift{User: user, Name: "Rose", Count: count, Coins: coins(perGift)}
}

// addAt adds a player and moves it forward to tile.
func addAt(t *testing.T, g *Game, name string, tile int) Player {
	t.Helper()
	p, err := g.AddPlayer(name)
	if err != nil {
		t.Fatalf("AddPlayer(%q) failed: %v", name, err)
	}
	if tile > 0 {
		if err := g.ManualMove(p.ID, tile); err != nil {
			t.Fatalf("ManualMove() failed: %v", err)
		}
	}
	p, _ = g.Player(p.ID)
	return p
}

func bonusOfKind(g *Game, k BonusKind) (Bonus, bool) {
	for _, b := range g.Bonuses() {
		if b.Kind == k {
			return b, true
		}
	}
	return Bonus{}, false
}

func TestNewPlacesDefaultLayout(t *testing.T) {
	g := newTestGame(t, nil)

	bonuses := g.Bonuses()
	if len(bonuses) != 6 {
		t.Fatalf("Expected 6 default bonuses, got %d", len(bonuses))
	}
	want := map[int]BonusKind{6: KindSetback, 11: KindSpin, 17: KindShirt, 19: KindGold, 24: KindRelocate, 8: KindRelocate}
	for _, b := range bonuses {
		if want[b.Tile] != b.Kind {
			t.Errorf("Bonus on tile %d is %s, expected %s", b.Tile, b.Kind, want[b.Tile])
		}
		if b.Claimed {
			t.Errorf("Default bonus on tile %d should start unclaimed", b.Tile)
		}
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Rules.CostPerMove = 0
	if _, err := New(cfg); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("New() = %v, expected ErrInvalidConfig", err)
	}
}

func TestGiftScenario(t *testing.T) {
	g := newTestGame(t, nil)

	res, err := g.ProcessGift(gift("Alice123", 1, 1000))
	if err != nil {
		t.Fatalf("ProcessGift() failed: %v", err)
	}
	if !res.Created {
		t.Error("First gift should create the player")
	}
	p := res.Player
	if p.Name != "ALIC" {
		t.Errorf("Name = %q, expected ALIC", p.Name)
	}
	if p.Tile != 1 || p.LifetimeCoins != 1000 || p.SpendableCoins != 0 {
		t.Errorf("After 1000 coins: tile=%d lifetime=%d spendable=%d, expected 1/1000/0",
			p.Tile, p.LifetimeCoins, p.SpendableCoins)
	}

	res, err = g.ProcessGift(gift("alice_other", 5, 500))
	if err != nil {
		t.Fatalf("ProcessGift() failed: %v", err)
	}
	if res.Created {
		t.Error("Second gift should reuse ALIC")
	}
	p = res.Player
	if p.Tile != 3 || p.LifetimeCoins != 3500 || p.SpendableCoins != 500 {
		t.Errorf("After 2500 more coins: tile=%d lifetime=%d spendable=%d, expected 3/3500/500",
			p.Tile, p.LifetimeCoins, p.SpendableCoins)
	}
	if res.Moves != 2 || !res.Moved {
		t.Errorf("Moves = %d moved=%v, expected 2 applied", res.Moves, res.Moved)
	}
	if len(g.Players()) != 1 {
		t.Errorf("Expected 1 player, got %d", len(g.Players()))
	}
}

func TestGiftWithoutCoinsCountsOnePerGift(t *testing.T) {
	g := newTestGame(t, nil)

	res, err := g.ProcessGift(Gift{User: "bob", Count: 5})
	if err != nil {
		t.Fatalf("ProcessGift() failed: %v", err)
	}
	if res.Player.LifetimeCoins != 5 || res.Player.SpendableCoins != 5 {
		t.Errorf("Coins = %d/%d, expected 5/5", res.Player.LifetimeCoins, res.Player.SpendableCoins)
	}
	if res.Moves != 0 || res.Player.Tile != 0 {
		t.Errorf("Small gift should not move: moves=%d tile=%d", res.Moves, res.Player.Tile)
	}
}

func TestGiftValidation(t *testing.T) {
	tests := []struct {
		name string
		gift Gift
	}{
		{"missing name", Gift{Count: 1, Coins: coins(1000)}},
		{"blank name", Gift{User: "   ", Count: 1}},
		{"zero count", Gift{User: "bob", Count: 0}},
		{"negative coins", Gift{User: "bob", Count: 1, Coins: coins(-5)}},
		{"total overflows", Gift{User: "whale", Count: 3, Coins: coins(math.MaxInt/3 + 1)}},
		{"total wraps to zero", Gift{User: "whale", Count: 4, Coins: coins(math.MaxInt/2 + 1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, nil)
			saves := 0
			g.OnChange(func(Snapshot) { saves++ })

			_, err := g.ProcessGift(tt.gift)
			if !errors.Is(err, ErrInvalidGift) {
				t.Errorf("ProcessGift() = %v, expected ErrInvalidGift", err)
			}
			if len(g.Players()) != 0 {
				t.Error("Invalid gift must not create a player")
			}
			if saves != 0 {
				t.Error("Invalid gift must not notify")
			}
		})
	}
}

func TestFinishGrandPrize(t *testing.T) {
	g := newTestGame(t, nil)
	p := addAt(t, g, "zed", 28)
	if p.Tile != 28 {
		t.Fatalf("Setup: tile = %d, expected 28", p.Tile)
	}

	if err := g.ManualMove(p.ID, 1); err != nil {
		t.Fatalf("ManualMove() failed: %v", err)
	}

	p, _ = g.Player(p.ID)
	if p.Tile != 29 || p.FinishRank != 1 {
		t.Errorf("tile=%d rank=%d, expected 29/1", p.Tile, p.FinishRank)
	}
	a, ok := g.Alert()
	if !ok {
		t.Fatal("Expected a finish alert")
	}
	if a.Kind != AlertFinish || a.Rank != 1 || !strings.Contains(a.Title, "GRAND PRIZE") {
		t.Errorf("Alert = %+v, expected grand prize", a)
	}
}

func TestFinishOrder(t *testing.T) {
	g := newTestGame(t, nil)
	titles := []string{"GRAND PRIZE", "2ND PLACE", "3RD PLACE", "FINISHER", "FINISHER"}

	for i, want := range titles {
		p := addAt(t, g, fmt.Sprintf("P%d", i), 28)
		if _, err := g.ProcessGift(gift(p.Name, 1, 1000)); err != nil {
			t.Fatalf("ProcessGift() failed: %v", err)
		}
		p, _ = g.Player(p.ID)
		if p.FinishRank != i+1 {
			t.Errorf("Player %d rank = %d, expected %d", i, p.FinishRank, i+1)
		}
		a, _ := g.Alert()
		if !strings.Contains(a.Title, want) {
			t.Errorf("Player %d alert title %q, expected %q", i, a.Title, want)
		}
	}

	a, _ := g.Alert()
	if a.Message != "P4 finished #5!" {
		t.Errorf("Generic finisher message = %q", a.Message)
	}
	if g.WinCount() != 5 {
		t.Errorf("WinCount = %d, expected 5", g.WinCount())
	}
}

func TestFinishedPlayerIsFrozen(t *testing.T) {
	g := newTestGame(t, nil)
	p := addAt(t, g, "zed", 29)
	if p.FinishRank != 1 {
		t.Fatalf("Setup: rank = %d, expected 1", p.FinishRank)
	}

	if err := g.ManualMove(p.ID, -1); err != nil {
		t.Fatalf("ManualMove() failed: %v", err)
	}
	res, err := g.ProcessGift(gift("zed", 1, 2500))
	if err != nil {
		t.Fatalf("ProcessGift() failed: %v", err)
	}

	p = res.Player
	if p.Tile != 29 || p.FinishRank != 1 {
		t.Errorf("Finished player changed: tile=%d rank=%d", p.Tile, p.FinishRank)
	}
	if res.Moved {
		t.Error("Move for finished player should be discarded")
	}
	if p.LifetimeCoins != 2500 || p.SpendableCoins != 500 {
		t.Errorf("Coins = %d/%d, expected 2500/500", p.LifetimeCoins, p.SpendableCoins)
	}
	if g.WinCount() != 1 {
		t.Errorf("WinCount = %d, expected 1", g.WinCount())
	}
}

func TestOutOfRangeMovesAreDiscarded(t *testing.T) {
	g := newTestGame(t, nil)
	p := addAt(t, g, "amy", 0)

	if err := g.ManualMove(p.ID, -1); err != nil {
		t.Errorf("ManualMove(-1) at start returned %v, expected nil", err)
	}
	p, _ = g.Player(p.ID)
	if p.Tile != 0 {
		t.Errorf("Tile = %d, expected 0", p.Tile)
	}

	p = addAt(t, g, "ben", 28)
	res, err := g.ProcessGift(gift("ben", 3, 1000))
	if err != nil {
		t.Fatalf("ProcessGift() failed: %v", err)
	}
	if res.Moved || res.Player.Tile != 28 {
		t.Errorf("Overshoot should be discarded: moved=%v tile=%d", res.Moved, res.Player.Tile)
	}
	if res.Player.SpendableCoins != 0 {
		t.Errorf("Spendable = %d, expected coins consumed", res.Player.SpendableCoins)
	}
}

func TestManualMoveUnknownPlayer(t *testing.T) {
	g := newTestGame(t, nil)
	if err := g.ManualMove("nope", 1); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("ManualMove() = %v, expected ErrPlayerNotFound", err)
	}
}

func TestBackwardMoveDoesNotResolveBonus(t *testing.T) {
	g := newTestGame(t, nil)
	p := addAt(t, g, "amy", 7)

	if err := g.ManualMove(p.ID, -1); err != nil {
		t.Fatalf("ManualMove() failed: %v", err)
	}

	p, _ = g.Player(p.ID)
	if p.Tile != 6 {
		t.Errorf("Tile = %d, expected 6", p.Tile)
	}
	if _, ok := g.Alert(); ok {
		t.Error("Backward move must not raise an alert")
	}
	trap, _ := bonusOfKind(g, KindSetback)
	if trap.Tile != 6 {
		t.Errorf("Trap moved to %d, expected to stay on 6", trap.Tile)
	}
}

func TestSetback(t *testing.T) {
	g := newTestGame(t, nil)
	p := addAt(t, g, "amy", 6)

	if p.Tile != 5 {
		t.Errorf("Tile = %d, expected 5 after trap", p.Tile)
	}
	trap, _ := bonusOfKind(g, KindSetback)
	if trap.Claimed {
		t.Error("Trap should stay unclaimed")
	}
	if trap.Tile == 6 || trap.Tile < 1 || trap.Tile > 28 {
		t.Errorf("Trap relocated to %d, expected a new interior tile", trap.Tile)
	}
	assertUniqueUnclaimed(t, g)

	a, ok := g.Alert()
	if !ok || a.Bonus != KindSetback || a.Message != "AMY fell back 1 space!" {
		t.Errorf("Alert = %+v, expected trap alert", a)
	}
}

func TestRelocateAndReward(t *testing.T) {
	g := newTestGame(t, nil)
	p := addAt(t, g, "amy", 8)

	if p.Tile != 8 {
		t.Errorf("Tile = %d, expected 8", p.Tile)
	}
	for _, b := range g.Bonuses() {
		if b.Kind == KindRelocate && b.Tile == 8 {
			t.Error("Points bonus should have relocated away from 8")
		}
		if b.Kind == KindRelocate && b.Claimed {
			t.Error("Points bonus should stay unclaimed")
		}
	}
	assertUniqueUnclaimed(t, g)

	a, _ := g.Alert()
	if a.Bonus != KindRelocate || !strings.Contains(a.Title, "LIVE POINTS") {
		t.Errorf("Alert = %+v, expected points alert", a)
	}
}

func TestOneShotBonusesAreClaimed(t *testing.T) {
	g := newTestGame(t, nil)
	addAt(t, g, "amy", 11)

	spin, _ := bonusOfKind(g, KindSpin)
	if !spin.Claimed || spin.Tile != 11 {
		t.Errorf("Spin = %+v, expected claimed on 11", spin)
	}
	g.ConsumeAlert()

	addAt(t, g, "ben", 11)
	if _, ok := g.Alert(); ok {
		t.Error("Claimed spin must not trigger again")
	}
}

func TestGoldBonus(t *testing.T) {
	g := newTestGame(t, nil)
	p := addAt(t, g, "amy", 19)

	if p.Color != GoldColor {
		t.Errorf("Color = %d, expected gold %d", p.Color, GoldColor)
	}
	gold, _ := bonusOfKind(g, KindGold)
	if !gold.Claimed {
		t.Error("Gold should be claimed")
	}
}

func TestCustomTile(t *testing.T) {
	g := newTestGame(t, nil)
	ct := config.CustomTile{Enabled: true, Index: 14, Title: "MYSTERY BOX!", Message: "You found the secret stash!"}
	if err := g.ApplyCustomTileConfig(ct); err != nil {
		t.Fatalf("ApplyCustomTileConfig() failed: %v", err)
	}

	addAt(t, g, "amy", 14)

	a, ok := g.Alert()
	if !ok || a.Title != "✨ MYSTERY BOX!" || a.Message != "You found the secret stash!" {
		t.Errorf("Alert = %+v, expected custom copy", a)
	}
	custom, _ := bonusOfKind(g, KindCustom)
	if !custom.Claimed {
		t.Error("Custom bonus should be claimed")
	}

	// Re-applying the same settings keeps the claimed bonus.
	if err := g.ApplyCustomTileConfig(ct); err != nil {
		t.Fatalf("ApplyCustomTileConfig() failed: %v", err)
	}
	if custom, _ = bonusOfKind(g, KindCustom); !custom.Claimed {
		t.Error("Unchanged custom tile should keep its claim")
	}

	// Changing it replaces the bonus.
	ct.Index = 15
	if err := g.ApplyCustomTileConfig(ct); err != nil {
		t.Fatalf("ApplyCustomTileConfig() failed: %v", err)
	}
	custom, _ = bonusOfKind(g, KindCustom)
	if custom.Claimed || custom.Tile != 15 {
		t.Errorf("Custom = %+v, expected fresh bonus on 15", custom)
	}

	ct.Enabled = false
	if err := g.ApplyCustomTileConfig(ct); err != nil {
		t.Fatalf("ApplyCustomTileConfig() failed: %v", err)
	}
	if _, ok := bonusOfKind(g, KindCustom); ok {
		t.Error("Disabling the custom tile should remove it")
	}
}

func TestApplyCustomTileConfigValidates(t *testing.T) {
	g := newTestGame(t, nil)
	err := g.ApplyCustomTileConfig(config.CustomTile{Enabled: true, Index: 30})
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("ApplyCustomTileConfig() = %v, expected ErrInvalidConfig", err)
	}
	if _, ok := bonusOfKind(g, KindCustom); ok {
		t.Error("Rejected custom tile must not be placed")
	}
}

func TestDisabledKindIsInert(t *testing.T) {
	g := newTestGame(t, func(c *config.Config) { c.Bonuses.Trap = false })
	p := addAt(t, g, "amy", 6)

	if p.Tile != 6 {
		t.Errorf("Tile = %d, expected 6 (trap disabled)", p.Tile)
	}
	if _, ok := g.Alert(); ok {
		t.Error("Disabled trap must not raise an alert")
	}
	trap, _ := bonusOfKind(g, KindSetback)
	if trap.Tile != 6 || trap.Claimed {
		t.Errorf("Disabled trap changed: %+v", trap)
	}
}

func TestToggleTakesEffectOnNextCheck(t *testing.T) {
	g := newTestGame(t, nil)

	cfg := g.Config()
	cfg.Bonuses.Spin = false
	if err := g.ApplyConfig(cfg); err != nil {
		t.Fatalf("ApplyConfig() failed: %v", err)
	}
	addAt(t, g, "amy", 11)
	if spin, _ := bonusOfKind(g, KindSpin); spin.Claimed {
		t.Fatal("Disabled spin should not be claimed")
	}

	cfg.Bonuses.Spin = true
	if err := g.ApplyConfig(cfg); err != nil {
		t.Fatalf("ApplyConfig() failed: %v", err)
	}
	addAt(t, g, "ben", 11)
	if spin, _ := bonusOfKind(g, KindSpin); !spin.Claimed {
		t.Error("Re-enabled spin should be claimed by the next lander")
	}
}

func TestApplyConfigRejectsTrackThatDoesNotFit(t *testing.T) {
	g := newTestGame(t, nil)
	addAt(t, g, "amy", 25)

	cfg := g.Config()
	cfg.Rules.TrackLength = 20
	cfg.Bonuses.Layout = slices.Clone(cfg.Bonuses.Layout)
	for i := range cfg.Bonuses.Layout {
		cfg.Bonuses.Layout[i].Tile = i + 1
	}
	if err := g.ApplyConfig(cfg); err == nil {
		t.Error("ApplyConfig() should reject a track shorter than a player's position")
	}
	if g.Config().Rules.TrackLength != 30 {
		t.Error("Rejected config must not be applied")
	}
}

func TestRelocationWithoutFreeTile(t *testing.T) {
	g := newTestGame(t, func(c *config.Config) {
		c.Rules.TrackLength = 5
		c.Bonuses.Layout = []config.LayoutEntry{{Kind: "trap", Tile: 1}}
	})
	err := g.Restore(Snapshot{Bonuses: []Bonus{
		{ID: "a", Tile: 1, Kind: KindSetback},
		{ID: "b", Tile: 2, Kind: KindRelocate},
		{ID: "c", Tile: 3, Kind: KindRelocate},
	}})
	if err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}
	p, err := g.AddPlayer("amy")
	if err != nil {
		t.Fatalf("AddPlayer() failed: %v", err)
	}

	err = g.ManualMove(p.ID, 1)
	if !errors.Is(err, ErrNoFreeTile) {
		t.Fatalf("ManualMove() = %v, expected ErrNoFreeTile", err)
	}
	p, _ = g.Player(p.ID)
	if p.Tile != 1 {
		t.Errorf("Tile = %d, expected move to stand at 1", p.Tile)
	}
	trap, _ := bonusOfKind(g, KindSetback)
	if trap.Tile != 1 {
		t.Errorf("Trap moved to %d despite failure", trap.Tile)
	}
	if _, ok := g.Alert(); ok {
		t.Error("Failed resolution must not raise an alert")
	}
}

func TestRandomizeBonusPlacement(t *testing.T) {
	g := newTestGame(t, func(c *config.Config) { c.CustomTile.Enabled = true })

	for round := 0; round < 50; round++ {
		if err := g.RandomizeBonusPlacement(); err != nil {
			t.Fatalf("RandomizeBonusPlacement() failed: %v", err)
		}
		bonuses := g.Bonuses()
		if len(bonuses) != 7 {
			t.Fatalf("Expected 7 bonuses, got %d", len(bonuses))
		}
		seen := make(map[int]bool)
		for _, b := range bonuses {
			if b.Tile < 1 || b.Tile > 28 {
				t.Errorf("Bonus placed on %d, outside [1, 28]", b.Tile)
			}
			if seen[b.Tile] {
				t.Errorf("Two bonuses share tile %d", b.Tile)
			}
			seen[b.Tile] = true
		}
	}
}

func TestResetBoard(t *testing.T) {
	g := newTestGame(t, func(c *config.Config) { c.CustomTile.Enabled = true })
	addAt(t, g, "amy", 11)
	addAt(t, g, "ben", 29)
	if err := g.RandomizeBonusPlacement(); err != nil {
		t.Fatalf("RandomizeBonusPlacement() failed: %v", err)
	}

	if err := g.ResetBoard(); err != nil {
		t.Fatalf("ResetBoard() failed: %v", err)
	}

	if len(g.Players()) != 0 {
		t.Errorf("Expected no players, got %d", len(g.Players()))
	}
	if g.WinCount() != 0 {
		t.Errorf("WinCount = %d, expected 0", g.WinCount())
	}
	bonuses := g.Bonuses()
	if len(bonuses) != 7 {
		t.Fatalf("Expected 6 defaults + custom, got %d", len(bonuses))
	}
	for _, b := range bonuses {
		if b.Claimed {
			t.Errorf("Bonus %s on %d should be unclaimed after reset", b.Kind, b.Tile)
		}
	}
	if spin, _ := bonusOfKind(g, KindSpin); spin.Tile != 11 {
		t.Errorf("Spin on %d, expected layout tile 11", spin.Tile)
	}
	if custom, _ := bonusOfKind(g, KindCustom); custom.Tile != 14 {
		t.Errorf("Custom on %d, expected 14", custom.Tile)
	}

	p := addAt(t, g, "cat", 29)
	if p.FinishRank != 1 {
		t.Errorf("First finisher after reset has rank %d, expected 1", p.FinishRank)
	}
}

func TestAddAndRemovePlayer(t *testing.T) {
	g := newTestGame(t, nil)

	p, err := g.AddPlayer("bob")
	if err != nil {
		t.Fatalf("AddPlayer() failed: %v", err)
	}
	if p.Name != "BOB" || p.Tile != 0 || p.FinishRank != 0 {
		t.Errorf("New player = %+v", p)
	}
	if p.Color < 0 || p.Color >= GoldColor {
		t.Errorf("Color = %d, expected a non-gold palette index", p.Color)
	}

	if _, err := g.AddPlayer("  "); !errors.Is(err, ErrInvalidName) {
		t.Errorf("AddPlayer(blank) = %v, expected ErrInvalidName", err)
	}

	if err := g.RemovePlayer(p.ID); err != nil {
		t.Fatalf("RemovePlayer() failed: %v", err)
	}
	if len(g.Players()) != 0 {
		t.Error("Player should be removed")
	}
	if err := g.RemovePlayer(p.ID); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("RemovePlayer() twice = %v, expected ErrPlayerNotFound", err)
	}
}

func TestPlayerIDsAreNotReused(t *testing.T) {
	g := newTestGame(t, nil)
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		p, _ := g.AddPlayer("amy")
		if seen[p.ID] {
			t.Fatalf("ID %s reused", p.ID)
		}
		seen[p.ID] = true
		if err := g.RemovePlayer(p.ID); err != nil {
			t.Fatalf("RemovePlayer() failed: %v", err)
		}
	}
}

type recordingStore struct {
	saves []Snapshot
	err   error
}

func (r *recordingStore) SaveSnapshot(s Snapshot) error {
	r.saves = append(r.saves, s)
	return r.err
}

func TestMutationsPersistAndNotify(t *testing.T) {
	store := &recordingStore{}
	g := newTestGame(t, nil, WithPersister(store))
	var notified []Snapshot
	g.OnChange(func(s Snapshot) { notified = append(notified, s) })

	p, _ := g.AddPlayer("amy")
	g.ProcessGift(gift("amy", 1, 1000))
	g.ManualMove(p.ID, 1)
	g.ManualMove(p.ID, -10) // discarded, not persisted
	g.RandomizeBonusPlacement()
	g.ApplyCustomTileConfig(config.CustomTile{Enabled: true, Index: 3})
	g.RemovePlayer(p.ID)
	g.ResetBoard()

	if len(store.saves) != 7 {
		t.Errorf("Expected 7 saves, got %d", len(store.saves))
	}
	if len(notified) != len(store.saves) {
		t.Errorf("Expected %d notifications, got %d", len(store.saves), len(notified))
	}
	last := store.saves[len(store.saves)-1]
	if len(last.Players) != 0 || last.WinCount != 0 {
		t.Errorf("Last snapshot = %+v, expected reset board", last)
	}
}

func TestPersistFailureDoesNotFailOperation(t *testing.T) {
	store := &recordingStore{err: errors.New("disk full")}
	g := newTestGame(t, nil, WithPersister(store))

	if _, err := g.ProcessGift(gift("amy", 1, 1000)); err != nil {
		t.Errorf("ProcessGift() = %v, expected persistence errors to be logged only", err)
	}
}

func TestAlertSlot(t *testing.T) {
	g := newTestGame(t, nil)
	if _, ok := g.ConsumeAlert(); ok {
		t.Fatal("Fresh game should have no alert")
	}

	addAt(t, g, "amy", 11) // spin
	first, _ := g.Alert()
	addAt(t, g, "ben", 17) // shirt replaces spin

	a, ok := g.ConsumeAlert()
	if !ok || a.Bonus != KindShirt {
		t.Errorf("Alert = %+v, expected newest (shirt)", a)
	}
	if a.Seq <= first.Seq {
		t.Errorf("Seq %d should exceed %d", a.Seq, first.Seq)
	}
	if _, ok := g.Alert(); ok {
		t.Error("ConsumeAlert should clear the slot")
	}
}

func TestSimulateGift(t *testing.T) {
	g := newTestGame(t, nil)
	res, err := g.SimulateGift()
	if err != nil {
		t.Fatalf("SimulateGift() failed: %v", err)
	}
	if !strings.HasPrefix(res.Player.Name, "TEST") || res.Player.Tile != 1 {
		t.Errorf("Simulated player = %+v, expected TEST on tile 1", res.Player)
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	src := newTestGame(t, nil)
	addAt(t, src, "amy", 11)
	addAt(t, src, "ben", 29)
	snap := src.Snapshot()

	next := 0
	dst := newTestGame(t, nil, WithIDs(func() string {
		next++
		return fmt.Sprintf("dst-%d", next)
	}))
	if err := dst.Restore(snap); err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}
	if fmt.Sprint(dst.Snapshot()) != fmt.Sprint(snap) {
		t.Errorf("Restored snapshot differs:\n got  %+v\n want %+v", dst.Snapshot(), snap)
	}

	p := addAt(t, dst, "cat", 29)
	if p.FinishRank != 2 {
		t.Errorf("Next finisher after restore has rank %d, expected 2", p.FinishRank)
	}
}

func TestRestoreRejectsSnapshotOffTrack(t *testing.T) {
	g := newTestGame(t, nil)
	err := g.Restore(Snapshot{Players: []Player{{ID: "x", Name: "X", Tile: 30}}})
	if err == nil {
		t.Error("Restore() should reject a player beyond the track")
	}
}

func TestRestoreEmptyBonusesPlacesDefaults(t *testing.T) {
	g := newTestGame(t, nil)
	if err := g.Restore(Snapshot{}); err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}
	if len(g.Bonuses()) != 6 {
		t.Errorf("Expected default layout, got %d bonuses", len(g.Bonuses()))
	}
}

// TestInvariantsUnderRandomPlay drives the engine with random gifts and
// manual moves and checks the board invariants after every operation.
func TestInvariantsUnderRandomPlay(t *testing.T) {
	g := newTestGame(t, func(c *config.Config) { c.CustomTile.Enabled = true })
	rng := rand.New(rand.NewSource(7))
	names := []string{"ALPHA", "BRAVO", "CHARLIE", "DELTA", "ECHO", "FOXTROT"}
	cost := g.Config().Rules.CostPerMove
	frozen := make(map[string]Player)

	for i := 0; i < 2000; i++ {
		if rng.Intn(4) == 0 && len(g.Players()) > 0 {
			players := g.Players()
			p := players[rng.Intn(len(players))]
			if err := g.ManualMove(p.ID, rng.Intn(5)-2); err != nil {
				t.Fatalf("ManualMove() failed: %v", err)
			}
		} else {
			res, err := g.ProcessGift(gift(names[rng.Intn(len(names))], rng.Intn(3)+1, rng.Intn(1200)))
			if err != nil {
				t.Fatalf("ProcessGift() failed: %v", err)
			}
			if res.Player.SpendableCoins >= cost || res.Player.SpendableCoins < 0 {
				t.Fatalf("Spendable = %d breaks the remainder invariant", res.Player.SpendableCoins)
			}
		}

		if i%100 == 0 {
			if err := g.RandomizeBonusPlacement(); err != nil {
				t.Fatalf("RandomizeBonusPlacement() failed: %v", err)
			}
		}

		ranks := make(map[int]bool)
		for _, p := range g.Players() {
			if p.Tile < 0 || p.Tile >= 30 {
				t.Fatalf("Player %s on tile %d", p.Name, p.Tile)
			}
			if p.Finished() {
				if ranks[p.FinishRank] {
					t.Fatalf("Rank %d assigned twice", p.FinishRank)
				}
				ranks[p.FinishRank] = true
				if before, ok := frozen[p.ID]; ok && (before.Tile != p.Tile || before.FinishRank != p.FinishRank) {
					t.Fatalf("Finished player %s changed: %+v -> %+v", p.Name, before, p)
				}
				frozen[p.ID] = p
			}
		}
		for r := 1; r <= g.WinCount(); r++ {
			if !ranks[r] {
				t.Fatalf("Rank %d missing among %d finishers", r, g.WinCount())
			}
		}
		assertUniqueUnclaimedRecurring(t, g)
	}

	if g.WinCount() == 0 {
		t.Error("Expected some finishers after random play")
	}
}

// assertUniqueUnclaimed checks that no two unclaimed bonuses share a tile.
func assertUniqueUnclaimed(t *testing.T, g *Game) {
	t.Helper()
	seen := make(map[int]BonusKind)
	for _, b := range g.Bonuses() {
		if b.Claimed {
			continue
		}
		if other, ok := seen[b.Tile]; ok {
			t.Fatalf("%s and %s share tile %d", other, b.Kind, b.Tile)
		}
		seen[b.Tile] = b.Kind
	}
}

// assertUniqueUnclaimedRecurring checks that no two unclaimed layout bonuses
// share a tile. The custom tile is placed by the operator and may sit on a
// layout tile, so it is skipped.
func assertUniqueUnclaimedRecurring(t *testing.T, g *Game) {
	t.Helper()
	seen := make(map[int]bool)
	for _, b := range g.Bonuses() {
		if b.Claimed || b.Kind == KindCustom {
			continue
		}
		if seen[b.Tile] {
			t.Fatalf("Two unclaimed bonuses share tile %d", b.Tile)
		}
		seen[b.Tile] = true
	}
}

func TestGiftLifetimeOverflowIsRejected(t *testing.T) {
	g := newTestGame(t, nil)
	first, err := g.ProcessGift(gift("whale", 1, math.MaxInt-10))
	if err != nil {
		t.Fatalf("ProcessGift() failed: %v", err)
	}

	_, err = g.ProcessGift(gift("whale", 1, 100))
	if !errors.Is(err, ErrInvalidGift) {
		t.Fatalf("ProcessGift() = %v, expected ErrInvalidGift", err)
	}
	p, _ := g.Player(first.Player.ID)
	if p != first.Player {
		t.Errorf("Player changed by rejected gift: %+v, expected %+v", p, first.Player)
	}
	if p.LifetimeCoins < 0 || p.SpendableCoins < 0 {
		t.Errorf("Negative coins: %+v", p)
	}
}

func TestApplyConfigRejectsBonusOnNewFinalTile(t *testing.T) {
	g := newTestGame(t, nil)
	if err := g.Restore(Snapshot{Bonuses: []Bonus{{ID: "t", Tile: 24, Kind: KindSetback}}}); err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}

	cfg := g.Config()
	cfg.Rules.TrackLength = 25
	cfg.Bonuses.Layout = slices.Clone(cfg.Bonuses.Layout)
	for i := range cfg.Bonuses.Layout {
		cfg.Bonuses.Layout[i].Tile = i + 1
	}
	if err := g.ApplyConfig(cfg); err == nil {
		t.Error("ApplyConfig() should reject a trap on the final tile")
	}
	if g.Config().Rules.TrackLength != 30 {
		t.Error("Rejected config must not be applied")
	}
}

func TestRestoreRejectsLayoutBonusOnTrackEnds(t *testing.T) {
	tests := []struct {
		name  string
		bonus Bonus
		ok    bool
	}{
		{"trap on start", Bonus{ID: "a", Tile: 0, Kind: KindSetback}, false},
		{"spin on final", Bonus{ID: "a", Tile: 29, Kind: KindSpin}, false},
		{"points inside", Bonus{ID: "a", Tile: 28, Kind: KindRelocate}, true},
		{"custom on final", Bonus{ID: "a", Tile: 29, Kind: KindCustom}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, nil)
			err := g.Restore(Snapshot{Bonuses: []Bonus{tt.bonus}})
			if (err == nil) != tt.ok {
				t.Errorf("Restore() = %v, expected ok=%v", err, tt.ok)
			}
		})
	}
}
