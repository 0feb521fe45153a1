package service

import (
	"fmt"

	"forgecraft/internal/apperr"
	"forgecraft/internal/random"
	"forgecraft/internal/repository"
)

const (
	itemCodeLength  = 10
	codeMaxAttempts = 10
)

// withUniqueCode runs create with freshly generated codes until it commits
// or a non-collision error occurs. Exhausting the attempts is a server
// fault, never a silent fallback.
func withUniqueCode(create func(code string) error) error {
	return withUniqueCodeN(itemCodeLength, create)
}

func withUniqueCodeN(length int, create func(code string) error) error {
	for i := 0; i < codeMaxAttempts; i++ {
		code, err := random.Code(length)
		if err != nil {
			return apperr.Internal(err)
		}
		err = create(code)
		if err == nil {
			return nil
		}
		if !repository.IsCodeCollision(err) {
			return err
		}
	}
	return apperr.Internal(fmt.Errorf("failed to allocate unique code after %d attempts", codeMaxAttempts))
}
