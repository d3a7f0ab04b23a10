package security

// Hasher turns plain passwords into storable hashes and checks them back.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hashed string) (bool, error)
}

type StubHasher struct {
	HashFunc   func(plain string) (string, error)
	VerifyFunc func(plain, hashed string) (bool, error)
}

func (s *StubHasher) Hash(plain string) (string, error) {
	if s.HashFunc == nil {
		panic("Hash not implemented by stub")
	}
	return s.HashFunc(plain)
}

func (s *StubHasher) Verify(plain, hashed string) (bool, error) {
	if s.VerifyFunc == nil {
		panic("Verify not implemented by stub")
	}
	return s.VerifyFunc(plain, hashed)
}

var (
	_ Hasher = (*Argon2Hasher)(nil)
	_ Hasher = (*StubHasher)(nil)
)
