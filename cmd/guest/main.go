package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vedamire/trumanclaw/internal/game"
	"github.com/vedamire/trumanclaw/internal/guest"
)

// Guest mode plays the same games without an account: the ledger lives
// in a local JSON blob and settlement runs the same payout math as the
// server.
func main() {
	var (
		stateDir   = flag.String("state-dir", defaultStateDir(), "directory for the guest state blob")
		serverURL  = flag.String("server", "", "server base URL for counter readings (empty: local drift)")
		variant    = flag.String("variant", "", "variant to bet on ("+strings.Join(game.VariantNames(), ", ")+")")
		prediction = flag.String("prediction", "", "prediction for the chosen variant")
		amount     = flag.Int64("amount", 0, "stake in coins")
		interval   = flag.Duration("interval", time.Second, "settlement tick interval")
		wait       = flag.Bool("wait", false, "keep ticking until every pending bet settles")
		reset      = flag.Bool("reset", false, "wipe the guest state and exit")
		show       = flag.Bool("show", false, "print balance, pending bets and history, then exit")
	)
	flag.Parse()

	store := guest.NewStore(*stateDir)
	mirror := guest.NewMirror(store, nil, nil, readingSource(*serverURL))

	if *reset {
		if err := mirror.Reset(); err != nil {
			log.Fatalf("Failed to reset guest state: %v", err)
		}
		fmt.Println("Guest state reset")
		return
	}

	if *variant != "" {
		bet, err := mirror.PlaceBet(*variant, *prediction, *amount)
		if err != nil {
			log.Fatalf("Failed to place bet: %v", err)
		}
		fmt.Printf("Placed %d on %s/%s, pays %d on a win, settles at %s (balance %d)\n",
			bet.Amount, bet.Variant, bet.Prediction, game.PotentialPayout(bet.Amount),
			bet.ExpiresAt.Format(time.RFC3339), mirror.Balance())
	}

	if *wait {
		runUntilSettled(mirror, *interval)
	}

	if *show || *variant == "" && !*wait {
		printState(mirror)
	}
}

// runUntilSettled drives the mirror's single periodic ticker until no
// bets remain pending, then reports what settled.
func runUntilSettled(mirror *guest.Mirror, interval time.Duration) {
	before := len(mirror.History())

	ticker := guest.NewTicker(mirror, interval)
	go ticker.Start()
	defer ticker.Stop()

	for len(mirror.Pending()) > 0 {
		time.Sleep(interval)
	}

	settled := len(mirror.History()) - before
	if settled < 0 || settled > len(mirror.History()) {
		settled = len(mirror.History())
	}
	for _, bet := range mirror.History()[:settled] {
		fmt.Printf("Settled %s/%s: %s (payout %d)\n",
			bet.Variant, bet.Prediction, outcome(bet), bet.Payout)
	}
	fmt.Printf("Balance: %d\n", mirror.Balance())
}

func printState(mirror *guest.Mirror) {
	fmt.Printf("Balance: %d\n", mirror.Balance())

	pending := mirror.Pending()
	fmt.Printf("Pending bets: %d\n", len(pending))
	for _, bet := range pending {
		fmt.Printf("  %s/%s stake %d, settles %s\n",
			bet.Variant, bet.Prediction, bet.Amount, bet.ExpiresAt.Format(time.RFC3339))
	}

	history := mirror.History()
	fmt.Printf("History (%d):\n", len(history))
	for _, bet := range history {
		fmt.Printf("  %s/%s stake %d: %s (payout %d)\n",
			bet.Variant, bet.Prediction, bet.Amount, outcome(bet), bet.Payout)
	}
}

func outcome(bet guest.StoredBet) string {
	switch {
	case bet.Won == nil:
		return "push"
	case *bet.Won:
		return "won"
	default:
		return "lost"
	}
}

// readingSource picks where counter readings come from. With a server
// URL the guest follows the server's counter; offline it drifts a local
// counter with the same bounded step the server uses.
func readingSource(serverURL string) guest.ReadingFunc {
	if serverURL != "" {
		return serverReading(strings.TrimRight(serverURL, "/"))
	}
	return localReading()
}

func serverReading(base string) guest.ReadingFunc {
	client := &http.Client{Timeout: 5 * time.Second}

	return func(now time.Time) (int64, bool) {
		resp, err := client.Get(base + "/api/daily-stats")
		if err != nil {
			return 0, false
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return 0, false
		}

		var body struct {
			DeathCount int64 `json:"deathCount"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return 0, false
		}
		return body.DeathCount, true
	}
}

func localReading() guest.ReadingFunc {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var (
		date    string
		current int64
	)

	return func(now time.Time) (int64, bool) {
		today := game.Today(now)
		if date != today {
			date = today
			current = game.FinalDeathCount(game.Yesterday(now))
		}
		current = game.DriftStep(current, game.FinalDeathCount(game.Yesterday(now)), rng)
		return current, true
	}
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".trumanclaw")
}
