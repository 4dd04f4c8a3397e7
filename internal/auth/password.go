// Package auth holds the credential primitives: password hashing and
// signed session tokens.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"scribe/internal/observability"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

var (
	// ErrMalformedHash is returned by Verify when the stored hash cannot be decoded.
	ErrMalformedHash = errors.New("malformed password hash")
	// ErrEmptyPassword is returned by Hash for an empty plaintext.
	ErrEmptyPassword = errors.New("password must not be empty")
)

const (
	variantArgon2id = "argon2id"
	variantArgon2i  = "argon2i"

	// Bounds on Argon2 parameters. Verify rejects stored hashes outside
	// them, so new hashes must stay inside too.
	MinMemoryKB = 8
	MaxMemoryKB = 1 << 20
	MaxTime     = 16
	MaxThreads  = 255
)

// Argon2Params are the cost parameters for new hashes.
type Argon2Params struct {
	MemoryKB   uint32
	Time       uint32
	Threads    uint8
	SaltLength uint32
	KeyLength  uint32
}

// DefaultArgon2Params follows the RFC 9106 second recommended option.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		MemoryKB:   64 * 1024,
		Time:       3,
		Threads:    2,
		SaltLength: 16,
		KeyLength:  32,
	}
}

// Hasher produces Argon2id hashes in PHC string format and verifies
// Argon2id, Argon2i and bcrypt hashes. At most `concurrency` hash
// computations run at once.
type Hasher struct {
	params Argon2Params
	sem    *semaphore.Weighted
}

// NewHasher returns a Hasher using params. concurrency below 1 is treated as 1.
func NewHasher(params Argon2Params, concurrency int) *Hasher {
	if concurrency < 1 {
		concurrency = 1
	}
	if params.SaltLength == 0 {
		params.SaltLength = 16
	}
	if params.KeyLength == 0 {
		params.KeyLength = 32
	}
	return &Hasher{
		params: params,
		sem:    semaphore.NewWeighted(int64(concurrency)),
	}
}

// Hash derives a salted Argon2id hash of plaintext. Every call uses a
// fresh random salt.
func (h *Hasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}

	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("acquire hash slot: %w", err)
	}
	defer h.sem.Release(1)
	defer observability.TrackHash("hash")()

	key := argon2.IDKey([]byte(plaintext), salt, h.params.Time, h.params.MemoryKB, h.params.Threads, h.params.KeyLength)

	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		variantArgon2id,
		argon2.Version,
		h.params.MemoryKB,
		h.params.Time,
		h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether plaintext matches encoded. A malformed encoding
// yields false together with ErrMalformedHash.
func (h *Hasher) Verify(ctx context.Context, encoded, plaintext string) (bool, error) {
	if isBcrypt(encoded) {
		return h.verifyBcrypt(ctx, encoded, plaintext)
	}

	d, err := decodeArgon2(encoded)
	if err != nil {
		return false, err
	}

	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false, fmt.Errorf("acquire hash slot: %w", err)
	}
	defer h.sem.Release(1)
	defer observability.TrackHash("verify")()

	var key []byte
	switch d.variant {
	case variantArgon2id:
		key = argon2.IDKey([]byte(plaintext), d.salt, d.time, d.memoryKB, d.threads, uint32(len(d.key)))
	default:
		key = argon2.Key([]byte(plaintext), d.salt, d.time, d.memoryKB, d.threads, uint32(len(d.key)))
	}

	return subtle.ConstantTimeCompare(key, d.key) == 1, nil
}

func (h *Hasher) verifyBcrypt(ctx context.Context, encoded, plaintext string) (bool, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false, fmt.Errorf("acquire hash slot: %w", err)
	}
	defer h.sem.Release(1)
	defer observability.TrackHash("verify")()

	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
}

func isBcrypt(encoded string) bool {
	return strings.HasPrefix(encoded, "$2a$") ||
		strings.HasPrefix(encoded, "$2b$") ||
		strings.HasPrefix(encoded, "$2y$")
}

type decodedArgon2 struct {
	variant  string
	memoryKB uint32
	time     uint32
	threads  uint8
	salt     []byte
	key      []byte
}

// decodeArgon2 parses $<variant>$v=19$m=<m>,t=<t>,p=<p>$<salt>$<key>.
func decodeArgon2(encoded string) (*decodedArgon2, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, ErrMalformedHash
	}

	d := &decodedArgon2{variant: parts[1]}
	if d.variant != variantArgon2id && d.variant != variantArgon2i {
		return nil, fmt.Errorf("%w: unsupported variant %q", ErrMalformedHash, d.variant)
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
	if version != argon2.Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrMalformedHash, version)
	}

	var threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &d.memoryKB, &d.time, &threads); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
	if d.memoryKB < MinMemoryKB || d.memoryKB > MaxMemoryKB || d.time == 0 || d.time > MaxTime || threads == 0 || threads > MaxThreads {
		return nil, fmt.Errorf("%w: parameters out of range", ErrMalformedHash)
	}
	d.threads = uint8(threads)

	var err error
	if d.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil || len(d.salt) == 0 {
		return nil, ErrMalformedHash
	}
	if d.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(d.key) == 0 {
		return nil, ErrMalformedHash
	}

	return d, nil
}
