// Package signature contains wallet signature validation and content-hash calculation.
package signature

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/sha3"
)

//go:generate mockgen -destination=./mock/signature.go -package=mock -source=signature.go

// Validator validates signatures of wallets and calculates digests of payloads.
type Validator interface {
	// Validate returns true if signature of the payload without excluded fields was made by the wallet.
	Validate(ctx context.Context, wallet string, payload interface{}, signature string, excluded []string) (bool, error)
	// Digest returns content-hash of the payload without excluded fields.
	Digest(payload interface{}, excluded []string) (string, error)
}

// Digest returns 0x-prefixed keccak256 hash of canonical json of the payload.
// The payload should be encoded as a json object. Keys are sorted and excluded keys are dropped.
func Digest(payload interface{}, excluded []string) (string, error) {
	data, err := Canonical(payload, excluded)
	if err != nil {
		return "", err
	}

	h := sha3.NewLegacyKeccak256()
	h.Write(data) // nolint:errcheck

	return "0x" + hex.EncodeToString(h.Sum(nil)), nil
}

// Canonical returns json of the payload with sorted keys and without excluded ones.
func Canonical(payload interface{}, excluded []string) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("payload is not an object: %w", err)
	}

	for _, k := range excluded {
		delete(m, k)
	}

	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal canonical payload: %w", err)
	}

	return data, nil
}
