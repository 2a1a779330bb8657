package access

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"math/big"
	"regexp"
	"strings"
	"time"
)

// CodePrefix starts every access code.
const CodePrefix = "GYMKEY"

// SettingKey is the settings key the current credential is stored under.
const SettingKey = "gym_access_code"

// Log results
const (
	ResultGranted = "granted"
	ResultDenied  = "denied"
)

const base36 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

var codePattern = regexp.MustCompile(`^GYMKEY-[0-9]{6}-[0-9A-Z]{8}$`)

// Domain errors
var (
	ErrNoCredential  = errors.New("no access code has been issued")
	ErrMalformedCode = errors.New("access code is malformed")
)

// Credential is the current gym-access code.
type Credential struct {
	Code      string    `json:"code"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LogEntry records one door scan.
type LogEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Result    string    `json:"result"`
	Presented string    `json:"presented"`
	Reason    string    `json:"reason,omitempty"`
}

// NewCode builds GYMKEY-<last 6 digits of now in ms>-<8 random base36 chars>.
// PRE: rnd yields cryptographically random bytes
// POST: the result matches codePattern
func NewCode(now time.Time, rnd io.Reader) (string, error) {
	ms := fmt.Sprintf("%06d", now.UnixMilli()%1_000_000)
	var sb strings.Builder
	max := big.NewInt(int64(len(base36)))
	for i := 0; i < 8; i++ {
		n, err := rand.Int(rnd, max)
		if err != nil {
			return "", fmt.Errorf("generate access code: %w", err)
		}
		sb.WriteByte(base36[n.Int64()])
	}
	return CodePrefix + "-" + ms + "-" + sb.String(), nil
}

// Rotate returns a fresh credential issued at now.
func Rotate(now time.Time) (Credential, error) {
	code, err := NewCode(now, rand.Reader)
	if err != nil {
		return Credential{}, err
	}
	return Credential{Code: code, UpdatedAt: now}, nil
}

// IsWellFormed reports whether code has the GYMKEY shape.
func IsWellFormed(code string) bool {
	return codePattern.MatchString(code)
}

// Verify compares a presented code against the credential in constant time.
// POST: Returns the result and, when denied, the reason
// INVARIANT: Credential fields are not mutated
func (c Credential) Verify(presented string) (string, string) {
	presented = strings.TrimSpace(presented)
	if c.Code == "" {
		return ResultDenied, ErrNoCredential.Error()
	}
	if !IsWellFormed(presented) {
		return ResultDenied, ErrMalformedCode.Error()
	}
	if subtle.ConstantTimeCompare([]byte(c.Code), []byte(presented)) != 1 {
		return ResultDenied, "code does not match the current credential"
	}
	return ResultGranted, ""
}
