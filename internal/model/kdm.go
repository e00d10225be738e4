package model

import "time"

// KeyType identifies which essence family a KDM-wrapped content key
// unlocks (§3 KDM).
type KeyType string

const (
	KeyTypeImage    KeyType = "MDIK"
	KeyTypeAudio    KeyType = "MDAK"
	KeyTypeSubtitle KeyType = "MDSK"
	KeyTypeAtmos    KeyType = "MDEK"
)

// KDMKey is one wrapped content key entry of a KDM.
type KDMKey struct {
	AssetUUID string
	KeyId     string
	Type      KeyType
	Cipher    []byte // RSA-OAEP/SHA-1 ciphertext as found in the XML

	// ContentKey is populated only once the KDM has been decrypted with
	// the recipient's RSA private key (§4.1 step 6, §6).
	ContentKey []byte // 16 bytes, extracted at offset 122..138 of the plaintext block
}

// KDM is the parsed Key Delivery Message (§3): a validity window and the
// per-asset wrapped keys it carries for one CPL.
type KDM struct {
	Path           string
	CPLId          string
	NotValidBefore time.Time
	NotValidAfter  time.Time
	Keys           []*KDMKey
}

// ValidAt reports whether the KDM's validity window covers t.
func (k *KDM) ValidAt(t time.Time) bool {
	return !t.Before(k.NotValidBefore) && !t.After(k.NotValidAfter)
}
