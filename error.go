package spmeta

import "errors"

var (
	ErrInternal         = errors.New("internal error")
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrKeyNotFound is returned when a configured key alias does not exist
	// in the key store. Advertising a key the deployment cannot use is never
	// tolerated, so this aborts generation.
	ErrKeyNotFound = errors.New("key not found")

	// ErrNoPrivateKey is returned when the key store holds the alias but the
	// credential carries no usable private key.
	ErrNoPrivateKey = errors.New("key has no private key")
)
