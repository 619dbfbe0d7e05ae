// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Andres Sumihe

package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/andres-sumihe/workspace-organizer-sub004/models"
)

// attestationSigner is the private implementation of [AttestationSigner].
type attestationSigner struct{}

// NewAttestationSigner constructs an ed25519-based [AttestationSigner].
func NewAttestationSigner() AttestationSigner {
	return &attestationSigner{}
}

// GenerateKeypair implements [AttestationSigner]. Keys are hex-encoded for
// storage: the public half in the shared store's app_info row, the private
// half in the client-unreachable app_secret table.
func (s *attestationSigner) GenerateKeypair() (string, string, error) {
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return "", "", fmt.Errorf("generate ed25519 keypair: %w", err)
	}
	return hex.EncodeToString(publicKey), hex.EncodeToString(privateKey), nil
}

// Sign implements [AttestationSigner]. The signed bytes are the JSON
// encoding of payload; [models.AttestationPayload] fixes the field order,
// so the encoding is canonical on both sides of the exchange.
func (s *attestationSigner) Sign(payload models.AttestationPayload, privateKey string) (string, error) {
	keyBytes, err := hex.DecodeString(privateKey)
	if err != nil {
		return "", fmt.Errorf("decode private key: %w", err)
	}
	if len(keyBytes) != ed25519.PrivateKeySize {
		return "", fmt.Errorf("private key is %d bytes, want %d", len(keyBytes), ed25519.PrivateKeySize)
	}

	message, err := canonicalPayload(payload)
	if err != nil {
		return "", err
	}

	signature := ed25519.Sign(ed25519.PrivateKey(keyBytes), message)
	return hex.EncodeToString(signature), nil
}

// Verify implements [AttestationSigner]. Any decoding failure counts as an
// invalid signature.
func (s *attestationSigner) Verify(payload models.AttestationPayload, signature, publicKey string) bool {
	keyBytes, err := hex.DecodeString(publicKey)
	if err != nil || len(keyBytes) != ed25519.PublicKeySize {
		return false
	}

	sigBytes, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}

	message, err := canonicalPayload(payload)
	if err != nil {
		return false
	}

	return ed25519.Verify(ed25519.PublicKey(keyBytes), message, sigBytes)
}

func canonicalPayload(payload models.AttestationPayload) ([]byte, error) {
	message, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal attestation payload: %w", err)
	}
	return message, nil
}
