package data

import "errors"

// ErrEmptyKey is returned by cache repositories for an empty key.
var ErrEmptyKey = errors.New("key cannot be empty")

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return nil
}
