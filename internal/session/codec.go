// Package session implements the authenticated session-token cipher and the
// admin credential checks.
package session

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"unicode/utf8"

	pkgerrors "gauntlet/pkg/errors"

	"golang.org/x/crypto/chacha20poly1305"
)

// Codec encrypts and decrypts session tokens with a process-wide key and
// nonce, and checks admin credentials. It is immutable after New and safe
// for concurrent use.
type Codec struct {
	key        []byte
	nonce      []byte
	adminToken string
	adminHash  string
}

// Config carries the boot-time secrets.
type Config struct {
	SecretKey  string
	Nonce      string
	AdminToken string
	AdminPass  string
}

// New derives the cipher key by hashing SecretKey with SHA-256 and the
// 12-byte nonce by hashing Nonce and truncating. The admin password is
// Argon2id-hashed once at boot so only its hash stays resident.
func New(cfg Config) (*Codec, error) {
	if cfg.SecretKey == "" || cfg.Nonce == "" || cfg.AdminToken == "" || cfg.AdminPass == "" {
		return nil, pkgerrors.New(pkgerrors.ValidationFailed).WithMessage("session secrets are required")
	}
	key := sha256.Sum256([]byte(cfg.SecretKey))
	nonceFull := sha256.Sum256([]byte(cfg.Nonce))

	adminHash, err := Argon2Generate(cfg.AdminPass)
	if err != nil {
		return nil, err
	}
	return &Codec{
		key:        key[:],
		nonce:      nonceFull[:chacha20poly1305.NonceSize],
		adminToken: cfg.AdminToken,
		adminHash:  adminHash,
	}, nil
}

// Encrypt seals the plaintext and returns it hex-encoded.
func (c *Codec) Encrypt(plaintext string) (string, error) {
	aead, err := chacha20poly1305.New(c.key)
	if err != nil {
		return "", pkgerrors.Wrap(err, pkgerrors.InternalServerError)
	}
	sealed := aead.Seal(nil, c.nonce, []byte(plaintext), nil)
	return hex.EncodeToString(sealed), nil
}

// Decrypt opens a hex-encoded token and returns its plaintext. Non-hex
// input, authentication-tag mismatch, and non-UTF-8 plaintext are all
// rejected.
func (c *Codec) Decrypt(token string) (string, error) {
	sealed, err := hex.DecodeString(token)
	if err != nil {
		return "", pkgerrors.Wrap(err, pkgerrors.TokenInvalid)
	}
	aead, err := chacha20poly1305.New(c.key)
	if err != nil {
		return "", pkgerrors.Wrap(err, pkgerrors.InternalServerError)
	}
	plaintext, err := aead.Open(nil, c.nonce, sealed, nil)
	if err != nil {
		return "", pkgerrors.Wrap(err, pkgerrors.TokenDecryptFailed)
	}
	if !utf8.Valid(plaintext) {
		return "", pkgerrors.New(pkgerrors.TokenInvalid).WithMessage("token plaintext is not UTF-8")
	}
	return string(plaintext), nil
}

// VerifyAdminToken checks a presented token against the configured admin
// token in constant time.
func (c *Codec) VerifyAdminToken(token string) bool {
	return subtle.ConstantTimeCompare([]byte(token), []byte(c.adminToken)) == 1
}

// AdminToken exchanges the admin password for the constant admin token.
func (c *Codec) AdminToken(password string) (string, bool) {
	ok, err := Argon2Verify(password, c.adminHash)
	if err != nil || !ok {
		return "", false
	}
	return c.adminToken, true
}
