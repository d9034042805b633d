package utils

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
)

// Envelope is the wire shape returned by login/update responses. The admin
// frontend parses exactly these three hex fields, so the shape is fixed.
// The key travels with the ciphertext it protects: this obfuscates the wire
// format but is not a confidentiality boundary.
type Envelope struct {
	EncryptedUserData string `json:"encryptedUserData"`
	IV                string `json:"iv"`
	Key               string `json:"key"`
}

var (
	ErrInvalidCiphertext = errors.New("invalid or truncated ciphertext")
	ErrInvalidPadding    = errors.New("invalid ciphertext padding")
)

// Codec encrypts profile payloads under AES-256-CBC with PKCS7 padding.
// The key is fixed for the codec's lifetime and a fresh random IV is drawn
// per call.
type Codec struct {
	key []byte
}

// NewCodec creates a codec with a freshly generated 32-byte key.
func NewCodec() (*Codec, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, err
	}
	return &Codec{key: key}, nil
}

// NewCodecWithKey creates a codec with an explicit 32-byte key.
func NewCodecWithKey(key []byte) (*Codec, error) {
	if len(key) != 32 {
		return nil, errors.New("key must be exactly 32 bytes")
	}
	return &Codec{key: append([]byte(nil), key...)}, nil
}

// Encrypt serializes v to JSON and encrypts it, returning the three-field
// hex envelope.
func (c *Codec) Encrypt(v interface{}) (*Envelope, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, err
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, err
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return &Envelope{
		EncryptedUserData: hex.EncodeToString(ciphertext),
		IV:                hex.EncodeToString(iv),
		Key:               hex.EncodeToString(c.key),
	}, nil
}

// Decrypt reverses Encrypt using the key and IV carried in the envelope
// itself. Corrupt, truncated or misaligned input yields a nil result and an
// error; partial plaintext is never returned.
func Decrypt(env *Envelope, dest interface{}) error {
	ciphertext, err := hex.DecodeString(env.EncryptedUserData)
	if err != nil {
		return ErrInvalidCiphertext
	}
	iv, err := hex.DecodeString(env.IV)
	if err != nil {
		return ErrInvalidCiphertext
	}
	key, err := hex.DecodeString(env.Key)
	if err != nil {
		return ErrInvalidCiphertext
	}

	if len(iv) != aes.BlockSize || len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return ErrInvalidCiphertext
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return ErrInvalidCiphertext
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	plaintext, err = pkcs7Unpad(plaintext, aes.BlockSize)
	if err != nil {
		return err
	}

	return json.Unmarshal(plaintext, dest)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padding)}, padding)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrInvalidPadding
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize || padding > len(data) {
		return nil, ErrInvalidPadding
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, ErrInvalidPadding
		}
	}
	return data[:len(data)-padding], nil
}
