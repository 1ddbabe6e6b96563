// Package crypto provides the per-attempt cryptographic context for the
// secure keypad protocol used by the self-check portal.
//
// # Algorithm Suite
//
// The protocol fixes every primitive; none of them is negotiable:
//
//   - RSA-OAEP with SHA-1: wraps the session key (and an auxiliary key
//     index) under the server's RSA public key. Ciphertexts are hex encoded.
//
//   - SEED-128 in CBC mode (KISA, RFC 4269): encrypts one 16-byte block per
//     keypad press. The block primitive sits behind [CipherFactory] so a
//     compatible implementation can be swapped in without touching callers.
//
//   - HMAC-SHA-256: authenticates the encrypted password envelope, keyed by
//     the session key's hex string.
//
// # Session Key
//
// [Session.Initialize] draws 8 random bytes and renders them as 16 lowercase
// hex characters. The hex string is what the server receives (RSA-wrapped)
// and what keys the HMAC; the SEED key is the 16 numeric values of those
// characters, so every key byte lies in [0,15]. This reduces the effective
// key space to 64 bits and is a property of the remote protocol, reproduced
// exactly for wire compatibility.
//
// Plaintext shorter than a block is zero-filled, not padded reversibly, and
// the keypad IV is a protocol constant. Both are kept as the server expects
// them.
//
// # Randomness
//
// Each [Session] owns its random source. It defaults to crypto/rand and can
// be replaced with [WithRandom] so tests can produce deterministic output.
// A Session must serve exactly one login attempt and is never reused.
package crypto
