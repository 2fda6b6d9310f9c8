package session

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	pkgerrors "gauntlet/pkg/errors"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters: 19 MiB of memory, two passes, one lane. This light
// profile suits frequent verification on small hosts.
const (
	argonTime    = 2
	argonMemory  = 19 * 1024
	argonThreads = 1
	argonKeyLen  = 32
	argonSaltLen = 16
)

// Argon2Generate hashes a password with a random salt and returns the PHC
// string form.
func Argon2Generate(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", pkgerrors.Wrap(err, pkgerrors.PasswordHashFailed)
	}
	hash := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash))
	return encoded, nil
}

// Argon2Verify checks a password against a PHC-encoded Argon2id hash. A
// malformed hash returns an error; a well-formed mismatch returns false.
func Argon2Verify(password, encoded string) (bool, error) {
	salt, hash, memory, time, threads, err := decodePHC(encoded)
	if err != nil {
		return false, err
	}
	computed := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(hash)))
	return subtle.ConstantTimeCompare(computed, hash) == 1, nil
}

func decodePHC(encoded string) (salt, hash []byte, memory, time uint32, threads uint8, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return nil, nil, 0, 0, 0, pkgerrors.New(pkgerrors.ValidationFailed).WithMessage("malformed argon2 hash")
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, nil, 0, 0, 0, pkgerrors.New(pkgerrors.ValidationFailed).WithMessage("unsupported argon2 version")
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return nil, nil, 0, 0, 0, pkgerrors.New(pkgerrors.ValidationFailed).WithMessage("malformed argon2 parameters")
	}
	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, 0, 0, 0, pkgerrors.Wrap(err, pkgerrors.ValidationFailed)
	}
	hash, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, 0, 0, 0, pkgerrors.Wrap(err, pkgerrors.ValidationFailed)
	}
	if len(hash) == 0 {
		return nil, nil, 0, 0, 0, pkgerrors.New(pkgerrors.ValidationFailed).WithMessage("empty argon2 hash")
	}
	return salt, hash, memory, time, threads, nil
}
