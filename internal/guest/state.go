package guest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/vedamire/trumanclaw/internal/game"
)

// StorageKey names the on-disk blob. The filename is stable across
// releases so an upgraded client keeps its balance.
const StorageKey = "trumanclaw_guest_state_v1"

// historyCap bounds the concluded list kept in the blob.
const historyCap = 50

// StoredBet is one guest-mode wager, active or concluded.
type StoredBet struct {
	ID            string     `json:"id"`
	Variant       string     `json:"variant"`
	Prediction    string     `json:"prediction"`
	Amount        int64      `json:"amount"`
	SnapshotCount *int64     `json:"snapshotCount,omitempty"`
	PlacedAt      time.Time  `json:"placedAt"`
	ExpiresAt     time.Time  `json:"expiresAt"`
	Won           *bool      `json:"won,omitempty"`
	Payout        int64      `json:"payout"`
	SettledAt     *time.Time `json:"settledAt,omitempty"`
}

// State is the whole guest ledger: balance plus bet lists, persisted as
// a single JSON blob.
type State struct {
	Balance   int64       `json:"balance"`
	Active    []StoredBet `json:"active"`
	Concluded []StoredBet `json:"concluded"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// DefaultState returns a fresh ledger with the starting balance.
func DefaultState() *State {
	return &State{
		Balance:   game.InitialBalance,
		Active:    []StoredBet{},
		Concluded: []StoredBet{},
	}
}

// Store persists the guest state blob under a directory.
type Store struct {
	path string
}

func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, StorageKey+".json")}
}

// Load reads the blob. A missing or corrupt blob silently resets to the
// default state; guest mode never surfaces storage errors to the player.
func (s *Store) Load() *State {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return DefaultState()
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return DefaultState()
	}
	if state.Active == nil {
		state.Active = []StoredBet{}
	}
	if state.Concluded == nil {
		state.Concluded = []StoredBet{}
	}
	return &state
}

// Save writes the blob, creating the directory if needed.
func (s *Store) Save(state *State) error {
	state.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

// Clear removes the blob; the next Load starts fresh.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
