package security

import "golang.org/x/crypto/bcrypt"

// Hasher wraps bcrypt with a configurable work factor.
type Hasher struct {
	cost int
}

func NewHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return Hasher{cost: cost}
}

// Hash hashes a plain text password with bcrypt.
func (h Hasher) Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// Check compares a bcrypt hash with a plaintext password. A corrupted hash
// and a wrong password both come back as a non-nil error, so callers can
// treat them uniformly.
func (h Hasher) Check(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
