package security

import (
	"crypto/rand"
	"fmt"
)

func GenerateRandomBytes(length uint32) ([]byte, error) {
	key := make([]byte, length)

	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("read random bytes: %w", err)
	}

	return key, nil
}

func CheckUint(i int) (uint32, error) {
	if i < 0 || uint64(i) > uint64(^uint32(0)) {
		return 0, fmt.Errorf("integer %d exceeds uint32", i)
	}
	return uint32(i), nil
}
