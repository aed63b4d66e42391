package apikey

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// GenerateKeypair writes a fresh ed25519 keypair into dir as
// public.pem / private.pem. The private key belongs to the external
// token issuer, the server only ever loads the public half.
func GenerateKeypair(dir string) (publicPath string, privatePath string, err error) {
	publicKey, privateKey, e := ed25519.GenerateKey(rand.Reader)
	if e != nil {
		return "", "", errors.Wrap(e, "keypair generation failed")
	}

	pubDER, e := x509.MarshalPKIXPublicKey(publicKey)
	if e != nil {
		return "", "", errors.Wrap(e, "cannot marshal public key")
	}

	privDER, e := x509.MarshalPKCS8PrivateKey(privateKey)
	if e != nil {
		return "", "", errors.Wrap(e, "cannot marshal private key")
	}

	publicPath = filepath.Join(dir, "public.pem")
	privatePath = filepath.Join(dir, "private.pem")

	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	if e := os.WriteFile(publicPath, pubPEM, 0644); e != nil {
		return "", "", errors.Wrap(e, "cannot write public key")
	}

	privPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privDER})
	if e := os.WriteFile(privatePath, privPEM, 0600); e != nil {
		return "", "", errors.Wrap(e, "cannot write private key")
	}

	return publicPath, privatePath, nil
}
