package auth

import "golang.org/x/crypto/bcrypt"

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Hasher hashes passwords at a fixed cost. Employee and admin services take
// one so tests can use bcrypt.MinCost.
type Hasher struct {
	Cost int
}

func NewHasher(cost int) *Hasher {
	return &Hasher{Cost: cost}
}

func (h *Hasher) Hash(password string) (string, error) {
	return HashPassword(password, h.Cost)
}
