package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Errors returned by the cipher
var (
	ErrInvalidKey        = errors.New("encryption key must be 32 bytes encoded as 64 hex characters")
	ErrMalformedCipher   = errors.New("ciphertext must be hex(iv):hex(data)")
	ErrInvalidPadding    = errors.New("invalid PKCS#7 padding")
	ErrInvalidCiphertext = errors.New("ciphertext is not a multiple of the block size")
)

// AESCipher seals short secrets with AES-256-CBC and PKCS#7 padding. The
// sealed form is hex(iv) + ":" + hex(ciphertext), with a random IV per call.
type AESCipher struct {
	block cipher.Block
	rand  io.Reader
}

// NewAESCipher creates a cipher from a 64-character hex key
func NewAESCipher(hexKey string) (*AESCipher, error) {
	key, err := hex.DecodeString(strings.TrimSpace(hexKey))
	if err != nil || len(key) != 32 {
		return nil, ErrInvalidKey
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create aes cipher: %w", err)
	}
	return &AESCipher{block: block, rand: rand.Reader}, nil
}

// GenerateKey returns a random 64-character hex key
func GenerateKey() (string, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return "", err
	}
	return hex.EncodeToString(key), nil
}

// Encrypt seals plaintext
func (c *AESCipher) Encrypt(plaintext string) (string, error) {
	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(c.rand, iv); err != nil {
		return "", fmt.Errorf("generate iv: %w", err)
	}

	padded := pad([]byte(plaintext), aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.block, iv).CryptBlocks(out, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(out), nil
}

// Decrypt opens a value produced by Encrypt
func (c *AESCipher) Decrypt(sealed string) (string, error) {
	ivHex, dataHex, ok := strings.Cut(sealed, ":")
	if !ok {
		return "", ErrMalformedCipher
	}
	iv, err := hex.DecodeString(ivHex)
	if err != nil || len(iv) != aes.BlockSize {
		return "", ErrMalformedCipher
	}
	data, err := hex.DecodeString(dataHex)
	if err != nil {
		return "", ErrMalformedCipher
	}
	if len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return "", ErrInvalidCiphertext
	}

	out := make([]byte, len(data))
	cipher.NewCBCDecrypter(c.block, iv).CryptBlocks(out, data)

	plain, err := unpad(out, aes.BlockSize)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

func pad(b []byte, blockSize int) []byte {
	n := blockSize - len(b)%blockSize
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(b []byte, blockSize int) ([]byte, error) {
	if len(b) == 0 {
		return nil, ErrInvalidPadding
	}
	n := int(b[len(b)-1])
	if n == 0 || n > blockSize || n > len(b) {
		return nil, ErrInvalidPadding
	}
	for _, v := range b[len(b)-n:] {
		if int(v) != n {
			return nil, ErrInvalidPadding
		}
	}
	return b[:len(b)-n], nil
}
