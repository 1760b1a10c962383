// Package keyuri parses otpauth:// provisioning URIs (the Google
// Authenticator Key URI Format) into account records.
//
// The parser is a single left-to-right pass over the URI with bounded
// intermediate buffers: protocol, type, percent-encoded label, then the
// &-separated query chain with typed per-key value parsers. Unknown query
// keys are ignored for forward compatibility.
package keyuri

import (
	"errors"
	"strings"

	"github.com/bradleycha/cliauth-sub000/account"
	"github.com/bradleycha/cliauth-sub000/sha"
)

var (
	ErrMalformedURI       = errors.New("malformed key URI")
	ErrMissingType        = errors.New("missing algorithm type")
	ErrInvalidType        = errors.New("invalid algorithm type")
	ErrTooLongLabel       = errors.New("label is too long")
	ErrTooLongIssuer      = errors.New("issuer is too long")
	ErrTooLongAccountName = errors.New("account name is too long")
	ErrTooLongSecrets     = errors.New("secrets are too long")
	ErrInvalidTextEscape  = errors.New("invalid text escape sequence")
	ErrMissingSecrets     = errors.New("missing secrets")
	ErrMissingHash        = errors.New("missing hash algorithm")
	ErrInvalidHash        = errors.New("invalid hash algorithm")
	ErrMissingHOTPCounter = errors.New("missing hotp counter")
	ErrInvalidHOTPCounter = errors.New("invalid hotp counter")
	ErrInvalidTOTPPeriod  = errors.New("invalid totp period")
	ErrInvalidDigits      = errors.New("invalid digit count")
	ErrInvalidSecrets     = errors.New("invalid secrets")
)

const protocol = "otpauth://"

// A Base32 character carries five bits, so this is the longest encoding of
// a maximum-size secret.
const secretEncodedMaxLen = (account.SecretsMaxLen*8 + 5) / 5

// parser carries the mutable state of one Parse call.
type parser struct {
	payload *account.Account

	secretsPresent bool
	counterPresent bool
}

// Parse decodes an otpauth:// key URI into an account record. Defaults are
// installed for fields the URI omits: 6 digits, SHA-1, and a 30-second
// period for TOTP. A secret is always required, and HOTP URIs must carry a
// counter.
func Parse(uri string) (account.Account, error) {
	var payload account.Account
	payload.Digits = account.DefaultDigits
	payload.Hash = account.DefaultHash

	p := parser{payload: &payload}

	rest, err := p.parseProtocol(uri)
	if err != nil {
		return payload, err
	}
	rest, err = p.parseType(rest)
	if err != nil {
		return payload, err
	}
	rest, err = p.parseLabel(rest)
	if err != nil {
		return payload, err
	}
	if err := p.parseQueryChain(rest); err != nil {
		return payload, err
	}
	if err := p.finalize(); err != nil {
		return payload, err
	}
	return payload, nil
}

func (p *parser) parseProtocol(uri string) (string, error) {
	if !strings.HasPrefix(uri, protocol) {
		return "", ErrMalformedURI
	}
	return uri[len(protocol):], nil
}

func (p *parser) parseType(rest string) (string, error) {
	if rest == "" {
		return "", ErrMissingType
	}

	slash := strings.IndexByte(rest, '/')
	if slash < 0 {
		return "", ErrMalformedURI
	}
	if slash != 4 || rest[1:4] != "otp" {
		return "", ErrInvalidType
	}

	switch rest[0] {
	case 'h':
		p.payload.Type = account.TypeHOTP
	case 't':
		p.payload.Type = account.TypeTOTP
		p.payload.Period = account.DefaultTOTPPeriod
	default:
		return "", ErrInvalidType
	}

	return rest[slash+1:], nil
}

func (p *parser) parseLabel(rest string) (string, error) {
	label := rest
	if query := strings.IndexByte(rest, '?'); query >= 0 {
		label = rest[:query]
		rest = rest[query+1:]
	} else {
		rest = ""
	}

	var decoded [account.IssuerMaxLen + account.NameMaxLen + 1]byte
	n, err := decodeText(decoded[:], label)
	switch {
	case errors.Is(err, ErrBufferTooShort):
		return "", ErrTooLongLabel
	case errors.Is(err, ErrInvalidEscape):
		return "", ErrInvalidTextEscape
	}

	// A ':' splits the label into issuer and account name; the caps have
	// to be re-checked per side since decoding only bounded the whole.
	issuer, name := "", string(decoded[:n])
	if sep := strings.IndexByte(name, ':'); sep >= 0 {
		issuer, name = name[:sep], name[sep+1:]
	}
	if len(issuer) > account.IssuerMaxLen {
		return "", ErrTooLongIssuer
	}
	if len(name) > account.NameMaxLen {
		return "", ErrTooLongAccountName
	}

	p.payload.SetIssuer(issuer)
	p.payload.SetName(name)
	return rest, nil
}

func (p *parser) parseQueryChain(rest string) error {
	for rest != "" {
		query := rest
		if sep := strings.IndexByte(rest, '&'); sep >= 0 {
			query = rest[:sep]
			rest = rest[sep+1:]
		} else {
			rest = ""
		}

		if err := p.parseQuery(query); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) parseQuery(query string) error {
	sep := strings.IndexByte(query, '=')
	if sep < 0 {
		return ErrMalformedURI
	}
	key, value := query[:sep], query[sep+1:]

	switch key {
	case "secret":
		return p.parseSecret(value)
	case "issuer":
		return p.parseIssuer(value)
	case "algorithm":
		return p.parseAlgorithm(value)
	case "digits":
		return p.parseDigits(value)
	case "counter":
		return p.parseCounter(value)
	case "period":
		return p.parsePeriod(value)
	}

	// Unknown keys are ignored for forward compatibility.
	return nil
}

func (p *parser) parseSecret(value string) error {
	if len(value) > secretEncodedMaxLen {
		return ErrTooLongSecrets
	}

	var decoded [account.SecretsMaxLen]byte
	n, err := decodeBase32(decoded[:], value)
	if err != nil {
		return ErrInvalidSecrets
	}

	p.payload.SetSecret(decoded[:n])
	p.secretsPresent = true
	return nil
}

func (p *parser) parseIssuer(value string) error {
	var decoded [account.IssuerMaxLen]byte
	n, err := decodeText(decoded[:], value)
	switch {
	case errors.Is(err, ErrBufferTooShort):
		return ErrTooLongIssuer
	case errors.Is(err, ErrInvalidEscape):
		return ErrInvalidTextEscape
	}

	// Overwrites any issuer derived from the label.
	p.payload.SetIssuer(string(decoded[:n]))
	return nil
}

func (p *parser) parseAlgorithm(value string) error {
	// Provisioning URIs conventionally carry uppercase names; the
	// canonical identifiers are lowercase.
	kind, err := sha.Lookup(strings.ToLower(value))
	if err != nil {
		return ErrInvalidHash
	}
	p.payload.Hash = kind
	return nil
}

func (p *parser) parseDigits(value string) error {
	parsed, err := parseUint64(value)
	if err != nil || parsed < 1 || parsed > 9 {
		return ErrInvalidDigits
	}
	p.payload.Digits = uint8(parsed)
	return nil
}

func (p *parser) parseCounter(value string) error {
	parsed, err := parseUint64(value)
	if err != nil {
		return ErrInvalidHOTPCounter
	}

	// Validated for both types, applied only to HOTP.
	if p.payload.Type == account.TypeHOTP {
		p.payload.Counter = parsed
	}
	p.counterPresent = true
	return nil
}

func (p *parser) parsePeriod(value string) error {
	parsed, err := parseUint64(value)
	if err != nil || parsed < 1 {
		return ErrInvalidTOTPPeriod
	}

	// Validated for both types, applied only to TOTP.
	if p.payload.Type == account.TypeTOTP {
		p.payload.Period = parsed
	}
	return nil
}

func (p *parser) finalize() error {
	if !p.secretsPresent {
		return ErrMissingSecrets
	}
	if p.payload.Type == account.TypeHOTP && !p.counterPresent {
		return ErrMissingHOTPCounter
	}
	return nil
}
