// Package hashline renders and validates the $gpg$ hash lines accepted by
// hashcat mode 17050 (GPG AES-OCB-128 with SHA-1 S2K).
package hashline

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/gpgkeyhash/gpgkeyhash/internal/keyfile"
)

const (
	Signature     = "$gpg$"
	FormatVersion = 1
	// S2K fields: usage, specifier 254 (SHA-1 checksum), hash algo 2 (SHA-1).
	S2KUsage  = 1
	S2KMode   = 254
	S2KHash   = 2
	Separator = "*"

	// CipherMode is the OpenPGP symmetric algorithm id for AES-128.
	CipherMode = 7

	// ModulusSize is a placeholder; the protected key's real modulus size is
	// not derived yet. The consumer parses but does not use it.
	ModulusSize = 4096

	// FieldCount counts the signature and the twelve fields after it.
	FieldCount = 13
)

// Format renders rec as a hash line. rec must come from keyfile.Scan or
// keyfile.Extract; Format does not validate it.
func Format(rec keyfile.Record) string {
	var b strings.Builder
	b.Grow(64 + 2*(len(rec.Ciphertext)+len(rec.Nonce)+len(rec.Salt)))
	b.WriteString(Signature)
	writeInt(&b, FormatVersion)
	writeInt(&b, uint64(len(rec.Ciphertext)))
	writeInt(&b, ModulusSize)
	writeHex(&b, rec.Ciphertext)
	writeInt(&b, S2KUsage)
	writeInt(&b, S2KMode)
	writeInt(&b, S2KHash)
	writeInt(&b, CipherMode)
	writeInt(&b, uint64(len(rec.Nonce)))
	writeHex(&b, rec.Nonce)
	writeInt(&b, rec.Iterations)
	writeHex(&b, rec.Salt)
	return b.String()
}

func writeInt(b *strings.Builder, v uint64) {
	b.WriteString(Separator)
	b.WriteString(strconv.FormatUint(v, 10))
}

func writeHex(b *strings.Builder, p []byte) {
	b.WriteString(Separator)
	b.WriteString(hex.EncodeToString(p))
}
