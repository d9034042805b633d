package utils

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testProfile struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	LoginType string `json:"loginType"`
}

func TestCodec_EncryptDecryptRoundTrip(t *testing.T) {
	codec, err := NewCodec()
	require.NoError(t, err)

	in := testProfile{Name: "Ann", Email: "ann@x.com", Role: "user", LoginType: "local"}

	env, err := codec.Encrypt(in)
	require.NoError(t, err)

	var out testProfile
	require.NoError(t, Decrypt(env, &out))
	assert.Equal(t, in, out)
}

func TestCodec_EnvelopeShape(t *testing.T) {
	codec, err := NewCodec()
	require.NoError(t, err)

	env, err := codec.Encrypt(map[string]string{"name": "Ann"})
	require.NoError(t, err)

	// All three fields are hex; key is 32 bytes, IV is the AES block size.
	key, err := hex.DecodeString(env.Key)
	require.NoError(t, err)
	assert.Len(t, key, 32)

	iv, err := hex.DecodeString(env.IV)
	require.NoError(t, err)
	assert.Len(t, iv, 16)

	ct, err := hex.DecodeString(env.EncryptedUserData)
	require.NoError(t, err)
	assert.NotEmpty(t, ct)
	assert.Zero(t, len(ct)%16)
}

func TestCodec_KeyReusedIVFresh(t *testing.T) {
	codec, err := NewCodec()
	require.NoError(t, err)

	first, err := codec.Encrypt(map[string]string{"n": "1"})
	require.NoError(t, err)
	second, err := codec.Encrypt(map[string]string{"n": "1"})
	require.NoError(t, err)

	// Same codec, same key on the wire; a fresh IV per call.
	assert.Equal(t, first.Key, second.Key)
	assert.NotEqual(t, first.IV, second.IV)
	assert.NotEqual(t, first.EncryptedUserData, second.EncryptedUserData)
}

func TestNewCodecWithKey(t *testing.T) {
	_, err := NewCodecWithKey(make([]byte, 16))
	assert.Error(t, err)

	codec, err := NewCodecWithKey(make([]byte, 32))
	require.NoError(t, err)

	env, err := codec.Encrypt(map[string]string{"a": "b"})
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(make([]byte, 32)), env.Key)
}

func TestDecrypt_RejectsCorruptInput(t *testing.T) {
	codec, err := NewCodec()
	require.NoError(t, err)

	env, err := codec.Encrypt(map[string]string{"name": "Ann"})
	require.NoError(t, err)

	var out map[string]string

	t.Run("non-hex ciphertext", func(t *testing.T) {
		bad := *env
		bad.EncryptedUserData = "not hex"
		assert.Error(t, Decrypt(&bad, &out))
	})

	t.Run("truncated ciphertext", func(t *testing.T) {
		bad := *env
		bad.EncryptedUserData = env.EncryptedUserData[:8]
		assert.ErrorIs(t, Decrypt(&bad, &out), ErrInvalidCiphertext)
	})

	t.Run("empty ciphertext", func(t *testing.T) {
		bad := *env
		bad.EncryptedUserData = ""
		assert.ErrorIs(t, Decrypt(&bad, &out), ErrInvalidCiphertext)
	})

	t.Run("short IV", func(t *testing.T) {
		bad := *env
		bad.IV = "00ff"
		assert.ErrorIs(t, Decrypt(&bad, &out), ErrInvalidCiphertext)
	})

	t.Run("wrong key fails padding or decoding", func(t *testing.T) {
		bad := *env
		bad.Key = hex.EncodeToString(make([]byte, 32))
		assert.Error(t, Decrypt(&bad, &out))
	})
}

func TestPKCS7(t *testing.T) {
	for _, size := range []int{0, 1, 15, 16, 17, 32} {
		data := make([]byte, size)
		padded := pkcs7Pad(data, 16)
		require.Zero(t, len(padded)%16)

		unpadded, err := pkcs7Unpad(padded, 16)
		require.NoError(t, err)
		assert.Len(t, unpadded, size)
	}

	_, err := pkcs7Unpad([]byte{}, 16)
	assert.ErrorIs(t, err, ErrInvalidPadding)

	bad := append(make([]byte, 15), 0) // zero padding byte is never valid
	_, err = pkcs7Unpad(bad, 16)
	assert.ErrorIs(t, err, ErrInvalidPadding)
}
