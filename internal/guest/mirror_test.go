package guest

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vedamire/trumanclaw/internal/game"
)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func steppingClock(start time.Time, step *time.Duration) func() time.Time {
	return func() time.Time { return start.Add(*step) }
}

func TestLoadResetsOnCorruptBlob(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	path := filepath.Join(dir, StorageKey+".json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	state := store.Load()
	if state.Balance != game.InitialBalance {
		t.Errorf("corrupt blob should reset balance to %d, got %d", game.InitialBalance, state.Balance)
	}
	if len(state.Active) != 0 || len(state.Concluded) != 0 {
		t.Error("corrupt blob should reset bet lists")
	}
}

func TestLoadMissingBlobDefaults(t *testing.T) {
	store := NewStore(t.TempDir())

	state := store.Load()
	if state.Balance != game.InitialBalance {
		t.Errorf("missing blob should default balance, got %d", state.Balance)
	}
}

func TestStateSurvivesReload(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)

	mirror := NewMirror(NewStore(dir), fixedClock(now), rand.New(rand.NewSource(1)), nil)
	if _, err := mirror.PlaceBet("grim", game.PredictionHigher, 100); err != nil {
		t.Fatalf("PlaceBet failed: %v", err)
	}

	reloaded := NewMirror(NewStore(dir), fixedClock(now), rand.New(rand.NewSource(1)), nil)
	if reloaded.Balance() != game.InitialBalance-100 {
		t.Errorf("balance lost on reload: %d", reloaded.Balance())
	}
	if len(reloaded.Pending()) != 1 {
		t.Errorf("pending bet lost on reload")
	}
}

func TestPlaceBetValidatesLikeServer(t *testing.T) {
	mirror := NewMirror(NewStore(t.TempDir()), nil, nil, nil)

	cases := []struct {
		variant, prediction string
		amount              int64
		wantErr             error
	}{
		{"grim", game.PredictionHigher, 0, ErrInvalidAmount},
		{"grim", game.PredictionHigher, -1, ErrInvalidAmount},
		{"roulette", "red", 10, ErrUnknownVariant},
		{"grim", "yeah", 10, ErrInvalidPrediction},
		{"grim", game.PredictionHigher, game.InitialBalance + 1, ErrInsufficientBalance},
	}
	for _, tc := range cases {
		if _, err := mirror.PlaceBet(tc.variant, tc.prediction, tc.amount); err != tc.wantErr {
			t.Errorf("%s/%s/%d: expected %v, got %v", tc.variant, tc.prediction, tc.amount, tc.wantErr, err)
		}
	}

	if mirror.Balance() != game.InitialBalance {
		t.Errorf("rejected bets must not debit, balance %d", mirror.Balance())
	}
}

func TestTickSettlesWithServerPayoutMath(t *testing.T) {
	start := time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)
	elapsed := time.Duration(0)

	snapshot := int64(170000)
	current := int64(170015)
	readings := func(now time.Time) (int64, bool) {
		if elapsed == 0 {
			return snapshot, true
		}
		return current, true
	}

	mirror := NewMirror(NewStore(t.TempDir()), steppingClock(start, &elapsed), rand.New(rand.NewSource(2)), readings)

	bet, err := mirror.PlaceBet("grim", game.PredictionHigher, 100)
	if err != nil {
		t.Fatalf("PlaceBet failed: %v", err)
	}
	if bet.SnapshotCount == nil || *bet.SnapshotCount != snapshot {
		t.Fatalf("expected snapshot %d, got %v", snapshot, bet.SnapshotCount)
	}

	elapsed = 10 * time.Second
	resolved, err := mirror.Tick()
	if err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if resolved != 1 {
		t.Fatalf("expected 1 resolved, got %d", resolved)
	}

	history := mirror.History()
	if len(history) != 1 {
		t.Fatalf("expected 1 concluded bet, got %d", len(history))
	}

	// Identical inputs through the shared payout math give the identical result.
	want := game.SettleCounter(game.PredictionHigher, snapshot, current, 100)
	got := history[0]
	if got.Payout != want.Payout {
		t.Errorf("payout %d differs from server math %d", got.Payout, want.Payout)
	}
	if (got.Won == nil) != (want.Won == nil) || (got.Won != nil && *got.Won != *want.Won) {
		t.Errorf("outcome differs from server math")
	}
	if mirror.Balance() != game.InitialBalance-100+want.Payout {
		t.Errorf("balance %d breaks conservation", mirror.Balance())
	}
}

func TestTickLeavesCounterBetWithoutReading(t *testing.T) {
	start := time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)
	elapsed := time.Duration(0)

	mirror := NewMirror(NewStore(t.TempDir()), steppingClock(start, &elapsed), rand.New(rand.NewSource(3)), nil)

	if _, err := mirror.PlaceBet("grim", game.PredictionLower, 50); err != nil {
		t.Fatal(err)
	}

	elapsed = time.Minute
	resolved, err := mirror.Tick()
	if err != nil {
		t.Fatal(err)
	}
	if resolved != 0 {
		t.Fatalf("counter bet must wait for a reading, resolved %d", resolved)
	}
	if len(mirror.Pending()) != 1 {
		t.Error("bet should remain pending")
	}
}

func TestHistoryCappedAtFifty(t *testing.T) {
	start := time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)
	elapsed := time.Duration(0)

	mirror := NewMirror(NewStore(t.TempDir()), steppingClock(start, &elapsed), rand.New(rand.NewSource(4)), nil)

	// mirage2 settles without a counter reading, so each round concludes.
	for i := 0; i < 60; i++ {
		if _, err := mirror.PlaceBet("mirage2", "mom", 1); err != nil {
			t.Fatalf("round %d: %v", i, err)
		}
		elapsed += 10 * time.Second
		if _, err := mirror.Tick(); err != nil {
			t.Fatalf("round %d tick: %v", i, err)
		}
	}

	if got := len(mirror.History()); got != 50 {
		t.Errorf("history should cap at 50, got %d", got)
	}
}

func TestGuestConservation(t *testing.T) {
	start := time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)
	elapsed := time.Duration(0)

	reading := int64(170000)
	readings := func(now time.Time) (int64, bool) {
		reading += 3
		return reading, true
	}

	mirror := NewMirror(NewStore(t.TempDir()), steppingClock(start, &elapsed), rand.New(rand.NewSource(5)), readings)

	staked, paid := int64(0), int64(0)
	for i := 0; i < 20; i++ {
		variant := "grim"
		prediction := game.PredictionHigher
		if i%3 == 0 {
			variant, prediction = "mirage2", "wife"
		}
		bet, err := mirror.PlaceBet(variant, prediction, 10)
		if err != nil {
			t.Fatalf("bet %d: %v", i, err)
		}
		staked += bet.Amount

		elapsed += 4 * 24 * time.Hour
		if _, err := mirror.Tick(); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}

	for _, b := range mirror.History() {
		paid += b.Payout
	}

	want := game.InitialBalance - staked + paid
	if mirror.Balance() != want {
		t.Errorf("balance %d, want %d (start - %d + %d)", mirror.Balance(), want, staked, paid)
	}
}

func TestResetClearsState(t *testing.T) {
	dir := t.TempDir()
	mirror := NewMirror(NewStore(dir), nil, nil, nil)

	if _, err := mirror.PlaceBet("mirage", "yeah", 100); err != nil {
		t.Fatal(err)
	}
	if err := mirror.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	if mirror.Balance() != game.InitialBalance {
		t.Errorf("reset should restore starting balance, got %d", mirror.Balance())
	}
	if _, err := os.Stat(filepath.Join(dir, StorageKey+".json")); !os.IsNotExist(err) {
		t.Error("blob should be removed")
	}
}
