package parser

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"path/filepath"
	"time"

	"golang.org/x/crypto/pkcs12"

	"github.com/Ymagis/ClairMeta/internal/model"
	"github.com/Ymagis/ClairMeta/internal/util"
)

// parseKDM implements §4.1 step 6: parse the descriptor and, if a
// private key was supplied, RSA-OAEP decrypt each wrapped content key.
// A nil privateKey leaves every KDMKey.ContentKey empty; callers
// that only need the validity window (general/CPL checks) still get a
// usable *model.KDM.
func parseKDM(root, rel string, privateKey *rsa.PrivateKey) (*model.KDM, error) {
	abs := filepath.Join(root, rel)

	var doc xmlKDM
	if err := util.Decode(abs, &doc); err != nil {
		return nil, err
	}

	reqExt := doc.AuthenticatedPublic.RequiredExtensions
	kdm := &model.KDM{
		Path:  rel,
		CPLId: util.StripURN(reqExt.CompositionPlaylistId),
	}
	if t, err := time.Parse(time.RFC3339, reqExt.ContentKeysNotValidBefore); err == nil {
		kdm.NotValidBefore = t
	}
	if t, err := time.Parse(time.RFC3339, reqExt.ContentKeysNotValidAfter); err == nil {
		kdm.NotValidAfter = t
	}

	cipherValues := doc.AuthenticatedPrivate.EncryptedKey
	for i, tk := range reqExt.KeyIdList.TypedKeyIds {
		key := &model.KDMKey{
			AssetUUID: util.StripURN(tk.StructureId),
			KeyId:     util.StripURN(tk.KeyId),
			Type:      model.KeyType(tk.KeyType),
		}
		if i < len(cipherValues) {
			if raw, err := base64.StdEncoding.DecodeString(cipherValues[i]); err == nil {
				key.Cipher = raw
			}
		}
		if privateKey != nil && len(key.Cipher) > 0 {
			if plain, err := decryptKDMKey(privateKey, key.Cipher); err == nil {
				key.ContentKey = plain
			}
		}
		kdm.Keys = append(kdm.Keys, key)
	}

	return kdm, nil
}

// decryptKDMKey unwraps one RSA-OAEP/SHA-1 ciphertext block and extracts
// the 16-byte content key at byte offset 122 of the 138-byte plaintext,
// per the SMPTE 430-1 KDM structured-key-ID block layout referenced in
// §3/§6.
func decryptKDMKey(priv *rsa.PrivateKey, cipher []byte) ([]byte, error) {
	plain, err := rsa.DecryptOAEP(sha1.New(), rand.Reader, priv, cipher, nil)
	if err != nil {
		return nil, fmt.Errorf("RSA-OAEP decrypt: %w", err)
	}
	const keyOffset, keyLen = 122, 16
	if len(plain) < keyOffset+keyLen {
		return nil, fmt.Errorf("decrypted key block too short: %d bytes", len(plain))
	}
	return plain[keyOffset : keyOffset+keyLen], nil
}

// LoadPrivateKey reads a PEM-encoded RSA private key, matching the
// caller-supplied "recipient private key" input of §4.1 step 6/§6.
func LoadPrivateKey(pemBytes []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	der := pemBytes
	if block != nil {
		der = block.Bytes
	}

	key, err := x509.ParsePKCS1PrivateKey(der)
	if err == nil {
		return key, nil
	}
	k2, err2 := x509.ParsePKCS8PrivateKey(der)
	if err2 != nil {
		return nil, fmt.Errorf("not a recognized RSA private key: %w", err)
	}
	rsaKey, ok := k2.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("PKCS8 key is not RSA")
	}
	return rsaKey, nil
}

// LoadPrivateKeyP12 extracts the recipient's RSA private key from a
// PKCS#12 bundle, the format most theatre key-management systems
// actually hand out alongside a KDM (a PEM private key is the exception,
// not the rule). An empty password tries the common case of an
// unencrypted bundle.
func LoadPrivateKeyP12(pfxData []byte, password string) (*rsa.PrivateKey, error) {
	key, _, err := pkcs12.Decode(pfxData, password)
	if err != nil {
		return nil, fmt.Errorf("decoding PKCS#12 bundle: %w", err)
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("PKCS#12 bundle does not contain an RSA private key")
	}
	return rsaKey, nil
}

var _ crypto.Decrypter = (*rsa.PrivateKey)(nil)
