package keyuri_test

import (
	"encoding/base32"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	pquerna "github.com/pquerna/otp"

	"github.com/bradleycha/cliauth-sub000/account"
	"github.com/bradleycha/cliauth-sub000/keyuri"
	"github.com/bradleycha/cliauth-sub000/sha"
)

// view flattens the parsed record for comparison.
type view struct {
	Type    account.Type
	Counter uint64
	Period  uint64
	Hash    sha.Kind
	Digits  uint8
	Secret  []byte
	Issuer  string
	Name    string
}

func viewOf(a account.Account) view {
	return view{
		Type:    a.Type,
		Counter: a.Counter,
		Period:  a.Period,
		Hash:    a.Hash,
		Digits:  a.Digits,
		Secret:  append([]byte(nil), a.Secret()...),
		Issuer:  a.Issuer(),
		Name:    a.Name(),
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want view
	}{
		{
			name: "totp with all parameters",
			uri:  "otpauth://totp/ACME%20Co:alice@acme.com?secret=JBSWY3DPEHPK3PXP&issuer=ACME%20Co&algorithm=SHA1&digits=6&period=30",
			want: view{
				Type:   account.TypeTOTP,
				Period: 30,
				Hash:   sha.SHA1,
				Digits: 6,
				Secret: []byte("Hello!\xde\xad\xbe\xef"),
				Issuer: "ACME Co",
				Name:   "alice@acme.com",
			},
		},
		{
			name: "hotp with defaults",
			uri:  "otpauth://hotp/Bob?secret=GEZDGNBVGY3TQOJQ&counter=42",
			want: view{
				Type:    account.TypeHOTP,
				Counter: 42,
				Hash:    sha.SHA1,
				Digits:  6,
				Secret:  []byte("1234567890"),
				Name:    "Bob",
			},
		},
		{
			name: "residual bits discarded",
			uri:  "otpauth://totp/x?secret=A",
			want: view{
				Type:   account.TypeTOTP,
				Period: 30,
				Hash:   sha.SHA1,
				Digits: 6,
				Secret: []byte{},
				Name:   "x",
			},
		},
		{
			name: "issuer parameter overrides label",
			uri:  "otpauth://totp/Label%20Co:carol?secret=JBSWY3DP&issuer=Query%20Co",
			want: view{
				Type:   account.TypeTOTP,
				Period: 30,
				Hash:   sha.SHA1,
				Digits: 6,
				Secret: []byte("Hello"),
				Issuer: "Query Co",
				Name:   "carol",
			},
		},
		{
			name: "unknown keys ignored",
			uri:  "otpauth://totp/x?secret=JBSWY3DP&image=https%3A%2F%2Fexample.com&foo=bar",
			want: view{
				Type:   account.TypeTOTP,
				Period: 30,
				Hash:   sha.SHA1,
				Digits: 6,
				Secret: []byte("Hello"),
				Name:   "x",
			},
		},
		{
			name: "counter validated but discarded for totp",
			uri:  "otpauth://totp/x?secret=JBSWY3DP&counter=99&period=60",
			want: view{
				Type:   account.TypeTOTP,
				Period: 60,
				Hash:   sha.SHA1,
				Digits: 6,
				Secret: []byte("Hello"),
				Name:   "x",
			},
		},
		{
			name: "uppercase algorithm name",
			uri:  "otpauth://totp/x?secret=JBSWY3DP&algorithm=SHA512-256&digits=9",
			want: view{
				Type:   account.TypeTOTP,
				Period: 30,
				Hash:   sha.SHA512_256,
				Digits: 9,
				Secret: []byte("Hello"),
				Name:   "x",
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := keyuri.Parse(test.uri)
			if err != nil {
				t.Fatalf("Parse(%q): %v", test.uri, err)
			}
			if diff := cmp.Diff(test.want, viewOf(got), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Parse(%q): (-want +got):\n%s", test.uri, diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		uri  string
		want error
	}{
		{"otpauth://totp/x", keyuri.ErrMissingSecrets},
		{"otpauth://totp/x?secret=****", keyuri.ErrInvalidSecrets},
		{"otpauth://xotp/x?secret=JBSWY3DP", keyuri.ErrInvalidType},
		{"otpauth://hotp/x?secret=JBSWY3DP", keyuri.ErrMissingHOTPCounter},
		{"http://totp/x?secret=JBSWY3DP", keyuri.ErrMalformedURI},
		{"otpauth://", keyuri.ErrMissingType},
		{"otpauth://totp", keyuri.ErrMalformedURI},
		{"otpauth://totpx/x?secret=JBSWY3DP", keyuri.ErrInvalidType},
		{"otpauth://xotp", keyuri.ErrMalformedURI},
		{"otpauth://totp/x?secret", keyuri.ErrMalformedURI},
		{"otpauth://totp/a%zzb?secret=JBSWY3DP", keyuri.ErrInvalidTextEscape},
		{"otpauth://totp/a%1?secret=JBSWY3DP", keyuri.ErrInvalidTextEscape},
		{"otpauth://totp/a%19b?secret=JBSWY3DP", keyuri.ErrInvalidTextEscape},
		{"otpauth://totp/" + strings.Repeat("a", 130) + "?secret=JBSWY3DP", keyuri.ErrTooLongLabel},
		{"otpauth://totp/" + strings.Repeat("a", 70) + ":b?secret=JBSWY3DP", keyuri.ErrTooLongIssuer},
		{"otpauth://totp/a:" + strings.Repeat("b", 70) + "?secret=JBSWY3DP", keyuri.ErrTooLongAccountName},
		{"otpauth://totp/x?secret=" + strings.Repeat("A", 206), keyuri.ErrTooLongSecrets},
		{"otpauth://totp/x?secret=JBSWY3DP&issuer=%7f", keyuri.ErrInvalidTextEscape},
		{"otpauth://totp/x?secret=JBSWY3DP&algorithm=md5", keyuri.ErrInvalidHash},
		{"otpauth://totp/x?secret=JBSWY3DP&digits=0", keyuri.ErrInvalidDigits},
		{"otpauth://totp/x?secret=JBSWY3DP&digits=10", keyuri.ErrInvalidDigits},
		{"otpauth://totp/x?secret=JBSWY3DP&digits=x", keyuri.ErrInvalidDigits},
		{"otpauth://hotp/x?secret=JBSWY3DP&counter=18446744073709551616", keyuri.ErrInvalidHOTPCounter},
		{"otpauth://hotp/x?secret=JBSWY3DP&counter=123456789012345678901", keyuri.ErrInvalidHOTPCounter},
		{"otpauth://hotp/x?secret=JBSWY3DP&counter=12x", keyuri.ErrInvalidHOTPCounter},
		{"otpauth://totp/x?secret=JBSWY3DP&period=0", keyuri.ErrInvalidTOTPPeriod},
		{"otpauth://totp/x?secret=JBSWY3DP&period=abc", keyuri.ErrInvalidTOTPPeriod},
	}
	for _, test := range tests {
		if _, err := keyuri.Parse(test.uri); !errors.Is(err, test.want) {
			t.Errorf("Parse(%q): got %v, want %v", test.uri, err, test.want)
		}
	}
}

func TestParseCounterBoundary(t *testing.T) {
	got, err := keyuri.Parse("otpauth://hotp/x?secret=JBSWY3DP&counter=18446744073709551615")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Counter != 18446744073709551615 {
		t.Errorf("counter: got %d, want 18446744073709551615", got.Counter)
	}
}

func TestSecretBoundary(t *testing.T) {
	// "JBSWY3DPEHPK3PXP" covers both text and raw bytes in one secret.
	got, err := keyuri.Parse("otpauth://totp/x?secret=JBSWY3DPEHPK3PXP")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []byte{0x48, 0x65, 0x6c, 0x6c, 0x6f, 0x21, 0xde, 0xad, 0xbe, 0xef}
	if diff := cmp.Diff(want, got.Secret()); diff != "" {
		t.Errorf("secret (-want +got):\n%s", diff)
	}
}

func TestSecretPadding(t *testing.T) {
	// Padding characters are skipped wherever they appear.
	for _, encoded := range []string{"JBSWY3DP", "JBSWY3DP========", "JBSW=Y3DP"} {
		got, err := keyuri.Parse("otpauth://totp/x?secret=" + encoded)
		if err != nil {
			t.Fatalf("Parse(secret=%s): %v", encoded, err)
		}
		if string(got.Secret()) != "Hello" {
			t.Errorf("secret %s: got %q, want %q", encoded, got.Secret(), "Hello")
		}
	}
}

func TestSecretRoundTrip(t *testing.T) {
	encoder := base32.StdEncoding.WithPadding(base32.NoPadding)
	properties := gopter.NewProperties(nil)

	properties.Property("base32 secrets round-trip", prop.ForAll(
		func(secret []byte) bool {
			uri := "otpauth://totp/x?secret=" + encoder.EncodeToString(secret)
			parsed, err := keyuri.Parse(uri)
			if err != nil {
				return false
			}
			return string(parsed.Secret()) == string(secret)
		},
		gen.SliceOf(gen.UInt8()).SuchThat(func(b []byte) bool {
			return len(b) <= account.SecretsMaxLen
		}),
	))

	properties.TestingRun(t)
}

func TestLabelRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("percent-encoded labels round-trip", prop.ForAll(
		func(name string) bool {
			uri := "otpauth://totp/" + url.PathEscape(name) + "?secret=JBSWY3DP"
			parsed, err := keyuri.Parse(uri)
			if err != nil {
				return false
			}
			return parsed.Name() == name && parsed.Issuer() == ""
		},
		gen.AlphaString().SuchThat(func(s string) bool {
			return len(s) <= account.NameMaxLen
		}),
	))

	properties.TestingRun(t)
}

func TestMatchesPquernaOTP(t *testing.T) {
	uri := "otpauth://totp/ACME%20Co:alice@acme.com?secret=JBSWY3DPEHPK3PXP&issuer=ACME%20Co&algorithm=SHA1&digits=6&period=30"

	got, err := keyuri.Parse(uri)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	reference, err := pquerna.NewKeyFromURL(uri)
	if err != nil {
		t.Fatalf("NewKeyFromURL: %v", err)
	}

	if got.Type.String() != reference.Type() {
		t.Errorf("type: got %q, reference %q", got.Type, reference.Type())
	}
	if got.Issuer() != reference.Issuer() {
		t.Errorf("issuer: got %q, reference %q", got.Issuer(), reference.Issuer())
	}
	if got.Name() != reference.AccountName() {
		t.Errorf("account name: got %q, reference %q", got.Name(), reference.AccountName())
	}
}
