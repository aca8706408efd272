// Package password hashes account credentials with argon2id.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Params are the argon2id cost parameters. The defaults target roughly 100ms
// per hash on commodity hardware; raise Memory or Time to slow brute force.
type Params struct {
	Time    uint32
	Memory  uint32
	Threads uint8
	KeyLen  uint32
	SaltLen int
}

var DefaultParams = Params{
	Time:    1,
	Memory:  64 * 1024,
	Threads: 4,
	KeyLen:  32,
	SaltLen: 16,
}

// Hash derives an encoded argon2id hash with a fresh random salt.
func Hash(plaintext string) (string, error) {
	return HashWithParams(plaintext, DefaultParams)
}

func HashWithParams(plaintext string, p Params) (string, error) {
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := argon2.IDKey([]byte(plaintext), salt, p.Time, p.Memory, p.Threads, p.KeyLen)

	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		p.Memory,
		p.Time,
		p.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether plaintext matches the encoded hash. A malformed
// hash yields false, never an error.
func Verify(plaintext, encoded string) bool {
	p, salt, key, ok := decode(encoded)
	if !ok {
		return false
	}
	check := argon2.IDKey([]byte(plaintext), salt, p.Time, p.Memory, p.Threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(key, check) == 1
}

func decode(encoded string) (Params, []byte, []byte, bool) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" || parts[2] != "v=19" {
		return Params{}, nil, nil, false
	}

	var p Params
	costs := strings.Split(parts[3], ",")
	if len(costs) != 3 {
		return Params{}, nil, nil, false
	}
	for _, cost := range costs {
		name, value, found := strings.Cut(cost, "=")
		if !found {
			return Params{}, nil, nil, false
		}
		parsed, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return Params{}, nil, nil, false
		}
		switch name {
		case "m":
			p.Memory = uint32(parsed)
		case "t":
			p.Time = uint32(parsed)
		case "p":
			if parsed > 255 {
				return Params{}, nil, nil, false
			}
			p.Threads = uint8(parsed)
		default:
			return Params{}, nil, nil, false
		}
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return Params{}, nil, nil, false
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return Params{}, nil, nil, false
	}
	return p, salt, key, true
}
