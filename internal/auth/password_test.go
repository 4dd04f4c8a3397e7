package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// cheap parameters keep the suite fast; production uses DefaultArgon2Params.
func testHasher() *Hasher {
	return NewHasher(Argon2Params{MemoryKB: 4096, Time: 1, Threads: 1}, 2)
}

func TestHasher_HashAndVerify(t *testing.T) {
	h := testHasher()
	ctx := context.Background()

	for _, pw := range []string{"pw1", "correct horse battery staple", "ünïcødé-🔑", strings.Repeat("x", 200)} {
		encoded, err := h.Hash(ctx, pw)
		require.NoError(t, err)
		assert.NotEqual(t, pw, encoded)
		assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$m=4096,t=1,p=1$"))

		ok, err := h.Verify(ctx, encoded, pw)
		require.NoError(t, err)
		assert.True(t, ok, "exact plaintext must verify")

		ok, err = h.Verify(ctx, encoded, pw+"x")
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestHasher_FreshSaltPerCall(t *testing.T) {
	h := testHasher()
	a, err := h.Hash(context.Background(), "same")
	require.NoError(t, err)
	b, err := h.Hash(context.Background(), "same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHasher_EmptyPassword(t *testing.T) {
	_, err := testHasher().Hash(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestHasher_VerifyMalformedFailsClosed(t *testing.T) {
	h := testHasher()
	good, err := h.Hash(context.Background(), "pw")
	require.NoError(t, err)
	parts := strings.Split(good, "$")

	cases := map[string]string{
		"empty":             "",
		"plaintext":         "pw",
		"unknown variant":   "$scrypt$v=19$m=4096,t=1,p=1$" + parts[4] + "$" + parts[5],
		"bad version":       "$argon2id$v=16$m=4096,t=1,p=1$" + parts[4] + "$" + parts[5],
		"bad params":        "$argon2id$v=19$m=x,t=1,p=1$" + parts[4] + "$" + parts[5],
		"huge memory":       "$argon2id$v=19$m=99999999,t=1,p=1$" + parts[4] + "$" + parts[5],
		"zero threads":      "$argon2id$v=19$m=4096,t=1,p=0$" + parts[4] + "$" + parts[5],
		"bad salt":          "$argon2id$v=19$m=4096,t=1,p=1$!!!$" + parts[5],
		"missing key":       "$argon2id$v=19$m=4096,t=1,p=1$" + parts[4] + "$",
		"truncated":         "$argon2id$v=19$m=4096,t=1,p=1",
		"truncated bcrypt":  "$2a$10$short",
	}

	for name, encoded := range cases {
		t.Run(name, func(t *testing.T) {
			ok, err := h.Verify(context.Background(), encoded, "pw")
			assert.False(t, ok)
			assert.ErrorIs(t, err, ErrMalformedHash)
		})
	}
}

func TestHasher_VerifyLegacyArgon2i(t *testing.T) {
	salt := make([]byte, 16)
	_, err := rand.Read(salt)
	require.NoError(t, err)
	key := argon2.Key([]byte("legacy-pw"), salt, 3, 4096, 1, 32)
	encoded := fmt.Sprintf("$argon2i$v=19$m=4096,t=3,p=1$%s$%s",
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key))

	h := testHasher()
	ok, err := h.Verify(context.Background(), encoded, "legacy-pw")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify(context.Background(), encoded, "other")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasher_VerifyLegacyBcrypt(t *testing.T) {
	encoded, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	h := testHasher()
	ok, err := h.Verify(context.Background(), string(encoded), "password123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify(context.Background(), string(encoded), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasher_CanceledContext(t *testing.T) {
	h := NewHasher(Argon2Params{MemoryKB: 4096, Time: 1, Threads: 1}, 1)
	require.True(t, h.sem.TryAcquire(1))
	defer h.sem.Release(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Hash(ctx, "pw")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHasher_ConcurrentUse(t *testing.T) {
	h := testHasher()
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pw := fmt.Sprintf("pw-%d", i)
			encoded, err := h.Hash(context.Background(), pw)
			if err != nil {
				errs <- err
				return
			}
			ok, err := h.Verify(context.Background(), encoded, pw)
			if err != nil {
				errs <- err
				return
			}
			if !ok {
				errs <- fmt.Errorf("verify failed for %s", pw)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
