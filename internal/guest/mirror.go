package guest

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vedamire/trumanclaw/internal/game"
)

var (
	ErrInvalidAmount       = errors.New("bet amount must be positive")
	ErrUnknownVariant      = errors.New("unknown game variant")
	ErrInvalidPrediction   = errors.New("prediction is not valid for this variant")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// ReadingFunc supplies the current counter reading for settlement. ok is
// false when no reading is available, which leaves counter bets pending.
type ReadingFunc func(now time.Time) (reading int64, ok bool)

// Mirror replays the server's bet lifecycle against a local blob. The
// payout math is the shared game package, so a guest bet and a server
// bet with the same inputs conclude identically.
type Mirror struct {
	store   *Store
	now     func() time.Time
	rng     *rand.Rand
	reading ReadingFunc

	mu    sync.Mutex
	state *State
}

// NewMirror loads the stored state and wires the injectable clock, RNG
// and reading source. Nil arguments get real-world defaults.
func NewMirror(store *Store, now func() time.Time, rng *rand.Rand, reading ReadingFunc) *Mirror {
	if now == nil {
		now = time.Now
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Mirror{
		store:   store,
		now:     now,
		rng:     rng,
		reading: reading,
		state:   store.Load(),
	}
}

// PlaceBet validates and debits exactly like the server path.
func (m *Mirror) PlaceBet(variantName, prediction string, amount int64) (*StoredBet, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	variant, ok := game.LookupVariant(variantName)
	if !ok {
		return nil, ErrUnknownVariant
	}
	if !variant.ValidPrediction(prediction) {
		return nil, ErrInvalidPrediction
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Balance < amount {
		return nil, ErrInsufficientBalance
	}

	now := m.now()
	bet := StoredBet{
		ID:         uuid.New().String(),
		Variant:    variant.Name,
		Prediction: prediction,
		Amount:     amount,
		PlacedAt:   now,
		ExpiresAt:  now.Add(variant.Duration),
	}

	if variant.NeedsSnapshot() {
		snapshot := m.currentReading(now)
		bet.SnapshotCount = &snapshot
	}

	m.state.Balance -= amount
	m.state.Active = append(m.state.Active, bet)

	if err := m.store.Save(m.state); err != nil {
		return nil, err
	}
	return &bet, nil
}

// Tick settles every matured bet and returns how many concluded.
func (m *Mirror) Tick() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()

	reading, haveReading := int64(0), false
	if m.reading != nil {
		reading, haveReading = m.reading(now)
	}

	stillActive := m.state.Active[:0]
	resolved := 0

	for _, bet := range m.state.Active {
		if now.Before(bet.ExpiresAt) {
			stillActive = append(stillActive, bet)
			continue
		}

		variant, ok := game.LookupVariant(bet.Variant)
		if !ok {
			continue
		}

		var result game.Result
		if variant.Kind == game.KindCounterDrift {
			if !haveReading || bet.SnapshotCount == nil {
				// No reading yet; try again next tick.
				stillActive = append(stillActive, bet)
				continue
			}
			result = game.SettleCounter(bet.Prediction, *bet.SnapshotCount, reading, bet.Amount)
		} else {
			winning := variant.DrawWinner(m.rng)
			result = game.SettleDraw(bet.Prediction, winning, bet.Amount)
		}

		settledAt := now
		bet.Won = result.Won
		bet.Payout = result.Payout
		bet.SettledAt = &settledAt

		m.state.Balance += result.Payout
		m.state.Concluded = append([]StoredBet{bet}, m.state.Concluded...)
		resolved++
	}
	m.state.Active = stillActive

	if len(m.state.Concluded) > historyCap {
		m.state.Concluded = m.state.Concluded[:historyCap]
	}

	if resolved > 0 {
		if err := m.store.Save(m.state); err != nil {
			return resolved, err
		}
	}
	return resolved, nil
}

// Balance returns the current guest balance.
func (m *Mirror) Balance() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Balance
}

// Pending returns a copy of the active bets.
func (m *Mirror) Pending() []StoredBet {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]StoredBet, len(m.state.Active))
	copy(out, m.state.Active)
	return out
}

// History returns a copy of the concluded bets, newest first.
func (m *Mirror) History() []StoredBet {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]StoredBet, len(m.state.Concluded))
	copy(out, m.state.Concluded)
	return out
}

// Reset wipes the blob and returns to the default state.
func (m *Mirror) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Clear(); err != nil {
		return err
	}
	m.state = DefaultState()
	return nil
}

// currentReading mirrors the server's read-only projection: the live
// reading when one exists, otherwise the day's deterministic seed value.
func (m *Mirror) currentReading(now time.Time) int64 {
	if m.reading != nil {
		if reading, ok := m.reading(now); ok {
			return reading
		}
	}
	return game.FinalDeathCount(game.Today(now))
}
