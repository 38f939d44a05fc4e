package game

const (
	// InitialBalance is granted once when an account is first created.
	InitialBalance int64 = 1000

	// PayoutMultiplier is the fixed payout on a winning bet. The house
	// edge lives entirely in the odds, never in the multiplier.
	PayoutMultiplier int64 = 2
)

// Counter-drift predictions.
const (
	PredictionHigher = "higher"
	PredictionLower  = "lower"
)

// Result is the outcome of settling a single bet. Won is nil on a push
// (stake returned, net zero).
type Result struct {
	Won    *bool
	Payout int64
}

// SettleCounter judges a higher/lower bet against the counter reading at
// resolution time. Equal readings push: the stake comes back and the
// won-flag stays nil.
func SettleCounter(prediction string, snapshot, current, amount int64) Result {
	if current == snapshot {
		return Result{Won: nil, Payout: amount}
	}

	won := (prediction == PredictionHigher && current > snapshot) ||
		(prediction == PredictionLower && current < snapshot)

	if won {
		return Result{Won: boolPtr(true), Payout: amount * PayoutMultiplier}
	}
	return Result{Won: boolPtr(false), Payout: 0}
}

// SettleDraw judges a one-shot bet against the drawn winning prediction.
// A draw cannot push.
func SettleDraw(prediction, winning string, amount int64) Result {
	if prediction == winning {
		return Result{Won: boolPtr(true), Payout: amount * PayoutMultiplier}
	}
	return Result{Won: boolPtr(false), Payout: 0}
}

// PotentialPayout returns what a bet would pay on a win.
func PotentialPayout(amount int64) int64 {
	return amount * PayoutMultiplier
}

func boolPtr(b bool) *bool {
	return &b
}
