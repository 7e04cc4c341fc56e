package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ErrInvalidHash reports an encoded hash that is not a PHC Argon2id string.
var ErrInvalidHash = errors.New("cryptox: invalid hash format")

// Params are the Argon2id cost parameters. They are embedded in every encoded
// hash so stored credentials keep verifying after the defaults change.
type Params struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	KeyLength   uint32
	SaltLength  uint32
}

// DefaultParams follow the OWASP minimum for Argon2id (19 MiB, t=2, p=1).
var DefaultParams = Params{
	Memory:      19 * 1024,
	Iterations:  2,
	Parallelism: 1,
	KeyLength:   32,
	SaltLength:  16,
}

// Hasher hashes and verifies passwords. The pepper is appended to every
// password before derivation and is never stored next to the hash.
type Hasher struct {
	params Params
	pepper string
}

func NewHasher(pepper string) *Hasher {
	return NewHasherWithParams(pepper, DefaultParams)
}

func NewHasherWithParams(pepper string, p Params) *Hasher {
	return &Hasher{params: p, pepper: pepper}
}

// Hash generates a PHC-format Argon2id hash string including a fresh random
// salt and the parameters used.
func (h *Hasher) Hash(password string) (string, error) {
	if err := h.params.checkCost(); err != nil {
		return "", fmt.Errorf("cryptox: %w", err)
	}
	if h.params.SaltLength == 0 || h.params.KeyLength == 0 {
		return "", errors.New("cryptox: salt and key length must be positive")
	}
	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("cryptox: read salt: %w", err)
	}

	key := argon2.IDKey(
		[]byte(password+h.pepper),
		salt,
		h.params.Iterations,
		h.params.Memory,
		h.params.Parallelism,
		h.params.KeyLength,
	)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory,
		h.params.Iterations,
		h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether password matches the encoded hash. A mismatch is
// (false, nil); an error is only returned when encoded cannot be parsed.
func (h *Hasher) Verify(password, encoded string) (bool, error) {
	p, salt, expected, err := decodeHash(encoded)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey(
		[]byte(password+h.pepper),
		salt,
		p.Iterations,
		p.Memory,
		p.Parallelism,
		p.KeyLength,
	)

	return subtle.ConstantTimeCompare(computed, expected) == 1, nil
}

// maxMemoryKiB bounds the memory cost accepted from a stored hash, so an
// edited row cannot make a single verify allocate without limit.
const maxMemoryKiB = 1 << 20

// checkCost rejects cost parameters argon2.IDKey would panic on, and memory
// costs above maxMemoryKiB.
func (p Params) checkCost() error {
	if p.Iterations < 1 || p.Parallelism < 1 || p.Memory < 8*uint32(p.Parallelism) {
		return fmt.Errorf("cost parameters out of range (m=%d,t=%d,p=%d)", p.Memory, p.Iterations, p.Parallelism)
	}
	if p.Memory > maxMemoryKiB {
		return fmt.Errorf("memory cost above %d KiB", maxMemoryKiB)
	}
	return nil
}

// decodeHash splits $argon2id$v=19$m=X,t=Y,p=Z$salt$hash into its parts.
func decodeHash(encoded string) (Params, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return Params{}, nil, nil, fmt.Errorf("%w: expected 6 parts", ErrInvalidHash)
	}
	if parts[1] != "argon2id" {
		return Params{}, nil, nil, fmt.Errorf("%w: not argon2id", ErrInvalidHash)
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return Params{}, nil, nil, fmt.Errorf("%w: wrong version", ErrInvalidHash)
	}

	var p Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Iterations, &p.Parallelism); err != nil {
		return Params{}, nil, nil, fmt.Errorf("%w: parameters: %v", ErrInvalidHash, err)
	}
	if err := p.checkCost(); err != nil {
		return Params{}, nil, nil, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return Params{}, nil, nil, fmt.Errorf("%w: salt", ErrInvalidHash)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return Params{}, nil, nil, fmt.Errorf("%w: hash", ErrInvalidHash)
	}
	p.SaltLength = uint32(len(salt)) // #nosec G115 - bounded by the encoded string
	p.KeyLength = uint32(len(key))   // #nosec G115

	return p, salt, key, nil
}
