package raffle

import (
	"crypto/rand"
	"math/big"
)

// Shuffler permutes ranks in place
type Shuffler func(ranks []int) error

// CryptoShuffle is a Fisher-Yates shuffle driven by crypto/rand
func CryptoShuffle(ranks []int) error {
	for i := len(ranks) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return err
		}
		j := int(n.Int64())
		ranks[i], ranks[j] = ranks[j], ranks[i]
	}
	return nil
}

// sequentialRanks returns 1..n
func sequentialRanks(n int) []int {
	ranks := make([]int, n)
	for i := range ranks {
		ranks[i] = i + 1
	}
	return ranks
}
