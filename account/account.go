// Package account defines the in-memory authenticator account record and
// passcode generation over it.
package account

import (
	"errors"
	"math"

	"github.com/bradleycha/cliauth-sub000/otp"
	"github.com/bradleycha/cliauth-sub000/sha"
	"github.com/bradleycha/cliauth-sub000/stream"
)

// Maximum lengths of the account's variable-size fields. The backing arrays
// are embedded in the record, so an Account is a single fixed-size value
// with no interior references.
const (
	SecretsMaxLen = 128
	IssuerMaxLen  = 64
	NameMaxLen    = 64
)

// Defaults applied when the provisioning data omits a field.
const (
	DefaultDigits     = 6
	DefaultTOTPPeriod = 30
	DefaultHash       = sha.SHA1
)

// Type selects the authenticator algorithm.
type Type uint8

const (
	TypeHOTP Type = iota
	TypeTOTP
)

func (t Type) String() string {
	if t == TypeHOTP {
		return "hotp"
	}
	return "totp"
}

var (
	// ErrPasscodeDoesNotExist reports an index offset that falls outside
	// the counter's representable range.
	ErrPasscodeDoesNotExist = errors.New("passcode at the given index does not exist")

	// ErrSecretsTooLong, ErrIssuerTooLong and ErrNameTooLong report field
	// values exceeding the record's embedded buffers.
	ErrSecretsTooLong = errors.New("secrets exceed the maximum length")
	ErrIssuerTooLong  = errors.New("issuer exceeds the maximum length")
	ErrNameTooLong    = errors.New("account name exceeds the maximum length")
)

// Account is a single authenticator account. Counter is meaningful for
// TypeHOTP, Period for TypeTOTP.
type Account struct {
	Type    Type
	Counter uint64
	Period  uint64
	Hash    sha.Kind
	Digits  uint8

	secrets    [SecretsMaxLen]byte
	issuer     [IssuerMaxLen]byte
	name       [NameMaxLen]byte
	secretsLen int
	issuerLen  int
	nameLen    int
}

// SetSecret stores the shared secret, at most SecretsMaxLen bytes.
func (a *Account) SetSecret(b []byte) error {
	if len(b) > SecretsMaxLen {
		return ErrSecretsTooLong
	}
	copy(a.secrets[:], b)
	a.secretsLen = len(b)
	return nil
}

// SetIssuer stores the issuer string, at most IssuerMaxLen bytes.
func (a *Account) SetIssuer(s string) error {
	if len(s) > IssuerMaxLen {
		return ErrIssuerTooLong
	}
	copy(a.issuer[:], s)
	a.issuerLen = len(s)
	return nil
}

// SetName stores the account name, at most NameMaxLen bytes.
func (a *Account) SetName(s string) error {
	if len(s) > NameMaxLen {
		return ErrNameTooLong
	}
	copy(a.name[:], s)
	a.nameLen = len(s)
	return nil
}

// Secret returns the shared secret. The slice aliases the record.
func (a *Account) Secret() []byte {
	return a.secrets[:a.secretsLen]
}

// Issuer returns the issuer string, empty when none was provisioned.
func (a *Account) Issuer() string {
	return string(a.issuer[:a.issuerLen])
}

// Name returns the account name.
func (a *Account) Name() string {
	return string(a.name[:a.nameLen])
}

// TOTPParameters supplies the timestamps used to derive the TOTP counter.
// Both are in seconds relative to the Unix epoch; TimeCurrent must not
// precede TimeInitial. They are ignored for HOTP accounts.
type TOTPParameters struct {
	TimeInitial uint64
	TimeCurrent uint64
}

// GeneratePasscode produces the passcode at a signed offset from the
// account's current counter: 0 is the current passcode, 1 the next, -1 the
// previous. The account itself is not mutated; advancing a HOTP counter is
// the caller's concern. ErrPasscodeDoesNotExist is returned when the offset
// leaves the counter's range.
func (a *Account) GeneratePasscode(totp TOTPParameters, index int64) (uint32, error) {
	var counter uint64
	switch a.Type {
	case TypeHOTP:
		counter = a.Counter
	case TypeTOTP:
		counter = otp.TOTPCounter(totp.TimeInitial, totp.TimeCurrent, a.Period)
	}

	// The bounds are checked before the addition so the counter arithmetic
	// never wraps.
	if index < 0 {
		magnitude := uint64(-(index + 1)) + 1
		if magnitude > counter {
			return 0, ErrPasscodeDoesNotExist
		}
		counter -= magnitude
	} else {
		if uint64(index) > math.MaxUint64-counter {
			return 0, ErrPasscodeDoesNotExist
		}
		counter += uint64(index)
	}

	hotp := otp.NewHOTP(sha.New(a.Hash), counter, a.Digits)
	secrets := stream.NewByteReader(a.Secret())
	if _, err := hotp.ReadKeyFrom(secrets, secrets.Len()); err != nil {
		return 0, err
	}
	return hotp.Finalize(), nil
}
