package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var adjectives = []string{
	"Grim", "Silent", "Pale", "Hollow", "Restless",
	"Lucky", "Doomed", "Vigilant", "Fearless", "Morbid",
	"Shrouded", "Wandering", "Solemn", "Daring", "Haunted",
}

var nouns = []string{
	"Watcher", "Gambler", "Reaper", "Oracle", "Drifter",
	"Witness", "Courier", "Keeper", "Shade", "Harbinger",
	"Subject", "Spectator", "Broker", "Pilgrim", "Mourner",
}

// GenerateNickname creates a random display name in the format
// "Adjective_Noun_XXXX" where XXXX is a random 4-digit number
func GenerateNickname() (string, error) {
	adjIdx, err := rand.Int(rand.Reader, big.NewInt(int64(len(adjectives))))
	if err != nil {
		return "", fmt.Errorf("failed to generate random adjective: %w", err)
	}

	nounIdx, err := rand.Int(rand.Reader, big.NewInt(int64(len(nouns))))
	if err != nil {
		return "", fmt.Errorf("failed to generate random noun: %w", err)
	}

	suffix, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("failed to generate random suffix: %w", err)
	}

	return fmt.Sprintf("%s_%s_%04d",
		adjectives[adjIdx.Int64()],
		nouns[nounIdx.Int64()],
		suffix.Int64(),
	), nil
}
