package random

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Code generates an opaque alphanumeric code of length n using the system
// CSPRNG. Uniqueness is enforced by the database; callers retry on a
// unique-constraint violation.
func Code(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("code length must be positive, got %d", n)
	}

	b := make([]byte, n)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		b[i] = codeAlphabet[idx.Int64()]
	}
	return string(b), nil
}

// Roller draws the random outcomes of the economy (upgrade success, reward
// selection). It is an interface so tests can script deterministic draws;
// transactional logic must not assume any particular result.
type Roller interface {
	// Chance returns true with probability pct/100. pct outside (0,100]
	// is clamped: <=0 never succeeds, >=100 always succeeds.
	Chance(pct int) bool
	// IntN returns a uniform value in [0, n). n must be positive.
	IntN(n int) int
}

// CryptoRoller is the production Roller backed by crypto/rand.
type CryptoRoller struct{}

func NewCryptoRoller() CryptoRoller {
	return CryptoRoller{}
}

func (CryptoRoller) Chance(pct int) bool {
	if pct <= 0 {
		return false
	}
	if pct >= 100 {
		return true
	}
	n, err := rand.Int(rand.Reader, big.NewInt(100))
	if err != nil {
		// Exhausted entropy is not a recoverable game state.
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return n.Int64() < int64(pct)
}

func (CryptoRoller) IntN(n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("IntN: non-positive bound %d", n))
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return int(v.Int64())
}

// ScriptRoller replays a fixed script of outcomes. Test helper.
type ScriptRoller struct {
	Successes []bool
	Picks     []int

	si, pi int
}

func (r *ScriptRoller) Chance(pct int) bool {
	if r.si >= len(r.Successes) {
		return false
	}
	v := r.Successes[r.si]
	r.si++
	return v
}

func (r *ScriptRoller) IntN(n int) int {
	if r.pi >= len(r.Picks) {
		return 0
	}
	v := r.Picks[r.pi] % n
	r.pi++
	return v
}
