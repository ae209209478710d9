package model

import (
	"crypto/sha256"
	"encoding/hex"
)

// DomainArtifact is the domain prefix for artifact content hashes.
// Version suffix enables future algorithm migration.
const DomainArtifact = "ocptv/artifact/v1"

// ArtifactHash computes the content hash of an encoded output line.
// Format: SHA256(domain + 0x00 + line)
func ArtifactHash(line []byte) string {
	h := sha256.New()
	h.Write([]byte(DomainArtifact))
	h.Write([]byte{0x00})
	h.Write(line)
	return hex.EncodeToString(h.Sum(nil))
}
