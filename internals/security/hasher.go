package security

import (
	"github.com/alexedwards/argon2id"
)

// HashAPIKey produces the argon2id hash stored in auth.api_key_hash.
func HashAPIKey(key string) (string, error) {
	hash, err := argon2id.CreateHash(key, argon2id.DefaultParams)
	if err != nil {
		return "", err
	}
	return hash, nil
}

func VerifyAPIKey(key, hash string) (bool, error) {
	ok, err := argon2id.ComparePasswordAndHash(key, hash)
	if err != nil {
		return false, err
	}
	return ok, nil
}
