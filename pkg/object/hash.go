package object

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

const (
	// HashSize is the length of a raw SHA-1 digest.
	HashSize = sha1.Size
	// HashHexSize is the length of a hex-encoded digest.
	HashHexSize = 2 * HashSize
)

// HashBytes computes the SHA-1 of data and returns it as a lowercase
// hex-encoded Hash. Callers hash framed objects, not bare payloads.
func HashBytes(data []byte) Hash {
	sum := sha1.Sum(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// HashObject computes the SHA-1 of the envelope "type len\0content"
// without building the envelope in memory.
func HashObject(objType ObjectType, data []byte) Hash {
	h := sha1.New()
	h.Write([]byte(objType))
	h.Write([]byte{' '})
	h.Write([]byte(strconv.Itoa(len(data))))
	h.Write([]byte{0})
	h.Write(data)
	return Hash(hex.EncodeToString(h.Sum(nil)))
}

// ParseHash validates s as a 40-character hex digest and returns it in
// canonical lowercase form.
func ParseHash(s string) (Hash, error) {
	if len(s) != HashHexSize {
		return "", fmt.Errorf("%w: %q has length %d, want %d", ErrInvalidDigest, s, len(s), HashHexSize)
	}
	for i := 0; i < len(s); i++ {
		if !isHexDigit(s[i]) {
			return "", fmt.Errorf("%w: %q", ErrInvalidDigest, s)
		}
	}
	return Hash(strings.ToLower(s)), nil
}

// HashFromRaw converts a 20-byte raw digest into its hex form.
func HashFromRaw(raw []byte) (Hash, error) {
	if len(raw) != HashSize {
		return "", fmt.Errorf("%w: raw digest has %d bytes, want %d", ErrInvalidDigest, len(raw), HashSize)
	}
	return Hash(hex.EncodeToString(raw)), nil
}

// Raw returns the 20 raw bytes of h.
func (h Hash) Raw() ([HashSize]byte, error) {
	var out [HashSize]byte
	canon, err := ParseHash(string(h))
	if err != nil {
		return out, err
	}
	if _, err := hex.Decode(out[:], []byte(canon)); err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidDigest, err)
	}
	return out, nil
}

// IsValid reports whether h is a well-formed digest.
func (h Hash) IsValid() bool {
	_, err := ParseHash(string(h))
	return err == nil
}

// Short returns the first seven characters of h.
func (h Hash) Short() string {
	if len(h) <= 7 {
		return string(h)
	}
	return string(h[:7])
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
