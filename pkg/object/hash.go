package object

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashObject computes the SHA-256 of the envelope "tag\0payload" and returns
// it as a lowercase hex OID. The tag participates in the digest, so the same
// payload stored under two different types yields two different OIDs.
func HashObject(typ ObjectType, payload []byte) OID {
	h := sha256.New()
	h.Write([]byte(typ))
	h.Write([]byte{0})
	h.Write(payload)
	return OID(hex.EncodeToString(h.Sum(nil)))
}
