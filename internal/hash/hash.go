package hash

import "golang.org/x/crypto/bcrypt"

// MaxPasswordBytes is the bcrypt input limit; longer passwords are truncated
// on both hash and verify so the two stay symmetric.
const MaxPasswordBytes = 72

type Hasher struct {
	Cost int
}

func New(cost int) Hasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return Hasher{Cost: cost}
}

func truncate(password string) []byte {
	b := []byte(password)
	if len(b) > MaxPasswordBytes {
		b = b[:MaxPasswordBytes]
	}
	return b
}

func (h Hasher) HashPassword(password string) (string, error) {
	hashbytes, err := bcrypt.GenerateFromPassword(truncate(password), h.Cost)
	if err != nil {
		return "", err
	}

	return string(hashbytes), nil
}

func (h Hasher) CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), truncate(password)) == nil
}
