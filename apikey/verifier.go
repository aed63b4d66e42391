package apikey

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"time"

	"github.com/liveclass/quizServer/util"
	"github.com/pkg/errors"
)

// DateLayout is the expiry date format carried in the token payload.
// Dates in this form compare correctly as plain strings.
const DateLayout = "20060102"

var (
	ErrInvalidKey = errors.New("invalid api key")
	ErrExpiredKey = errors.New("token expired")
	ErrRevokedKey = errors.New("token revoked")
)

// Claim is the verified identity of a presenter token.
// Never stored, discarded at the end of the request.
type Claim struct {
	TokenID string
	Email   string
	Expires string
}

// Verifier checks presenter tokens against a single process-wide
// ed25519 public key. Token issuance happens elsewhere.
type Verifier struct {
	publicKey ed25519.PublicKey
	revoked   *RevocationList
}

func NewVerifier(publicKey ed25519.PublicKey, revoked *RevocationList) *Verifier {
	return &Verifier{publicKey: publicKey, revoked: revoked}
}

// LoadPublicKey reads an ed25519 public key from a PEM file.
func LoadPublicKey(path string) (ed25519.PublicKey, error) {
	pemBytes, e := util.File.Read(path)
	if e != nil {
		return nil, errors.Wrap(e, "cannot read public key")
	}

	block, _ := pem.Decode(pemBytes)
	if block == nil || block.Type != "PUBLIC KEY" {
		return nil, errors.New("no PUBLIC KEY block in " + path)
	}

	parsed, e := x509.ParsePKIXPublicKey(block.Bytes)
	if e != nil {
		return nil, errors.Wrap(e, "cannot parse public key")
	}

	publicKey, ok := parsed.(ed25519.PublicKey)
	if !ok {
		return nil, errors.New(path + " is not an ed25519 public key")
	}

	return publicKey, nil
}

// Verify checks one opaque token string and returns its claim.
//
// Token format : base64( JSON payload || 64 byte ed25519 signature ).
// The signature covers the exact payload bytes, not a re-serialized form.
// Any structural failure collapses into ErrInvalidKey.
func (v *Verifier) Verify(apiKey string) (*Claim, error) {
	raw, e := base64.StdEncoding.DecodeString(apiKey)
	if e != nil || len(raw) < ed25519.SignatureSize {
		return nil, ErrInvalidKey
	}

	payloadBytes := raw[:len(raw)-ed25519.SignatureSize]
	signature := raw[len(raw)-ed25519.SignatureSize:]

	var payload map[string]string
	if json.Unmarshal(payloadBytes, &payload) != nil {
		return nil, ErrInvalidKey
	}

	tokenID, hasT := payload["t"]
	email, hasE := payload["e"]
	expires, hasX := payload["x"]
	if !hasT || !hasE || !hasX {
		return nil, ErrInvalidKey
	}

	// expiry before signature, cheap reject ordering
	if expires < time.Now().Format(DateLayout) {
		return nil, ErrExpiredKey
	}

	if !ed25519.Verify(v.publicKey, payloadBytes, signature) {
		return nil, ErrInvalidKey
	}

	// revocation after signature, forged tokens cannot probe the revoked set
	if v.revoked != nil && v.revoked.IsRevoked(tokenID) {
		return nil, ErrRevokedKey
	}

	return &Claim{TokenID: tokenID, Email: email, Expires: expires}, nil
}
