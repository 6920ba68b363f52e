package orders

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// suffixSpace is the size of the random part of an order number.
const suffixSpace = 100_000_000

var suffixMax = big.NewInt(suffixSpace)

// NewOrderNumber combines the current unix minute with a random suffix in
// [0, 10^8). Numbers sort roughly by time and stay below 2^53 until 2141.
func NewOrderNumber() (int64, error) {
	return orderNumberAt(time.Now())
}

func orderNumberAt(t time.Time) (int64, error) {
	n, err := rand.Int(rand.Reader, suffixMax)
	if err != nil {
		return 0, fmt.Errorf("order number suffix: %w", err)
	}
	return t.Unix()/60*suffixSpace + n.Int64(), nil
}
