package auth

import (
	"errors"

	"github.com/alexedwards/argon2id"
)

// Hasher produces and checks argon2id password hashes in the
// $argon2id$v=19$m=...,t=...,p=...$salt$key encoding.
type Hasher struct {
	params *argon2id.Params
}

func NewHasher() *Hasher {
	return &Hasher{params: argon2id.DefaultParams}
}

func NewHasherWithParams(p *argon2id.Params) *Hasher { return &Hasher{params: p} }

func (h *Hasher) Hash(plain string) (string, error) {
	if h == nil || h.params == nil {
		return "", errors.New("argon2id params not set")
	}
	return argon2id.CreateHash(plain, h.params)
}

func (h *Hasher) Verify(plain, encodedHash string) (bool, error) {
	return argon2id.ComparePasswordAndHash(plain, encodedHash)
}
