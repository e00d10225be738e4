package parser

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPrivateKeyRoundTripsPKCS1PEM(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	block := &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}
	pemBytes := pem.EncodeToMemory(block)

	loaded, err := LoadPrivateKey(pemBytes)
	require.NoError(t, err)
	assert.Equal(t, key.D, loaded.D)
}

func TestLoadPrivateKeyP12RejectsGarbage(t *testing.T) {
	_, err := LoadPrivateKeyP12([]byte("not a pkcs12 bundle"), "")
	assert.Error(t, err)
}
