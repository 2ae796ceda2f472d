package importer

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

// Identity namespace for deterministic item timestamps. Re-importing an
// unchanged document must reproduce the same identities so downstream
// annotation survives a re-import.
var identityNamespace = uuid.MustParse("b31b6bb5-4d5c-4a37-9d8b-6a8e3f0d21c4")

// moduleTimestamp derives a stable identity for a placed instance from its
// part name, value and unit.
func moduleTimestamp(part, value string, unit int) uuid.UUID {
	return uuid.NewSHA1(identityNamespace, []byte(fmt.Sprintf("%s\x00%s\x00%d", part, value, unit)))
}

// sheetTimestamp derives a stable identity for a child sheet from the
// source file base name and the sheet index.
func sheetTimestamp(fileBase string, index int) uuid.UUID {
	return uuid.NewSHA1(identityNamespace, []byte(fmt.Sprintf("sheet\x00%s\x00%d", fileBase, index)))
}

// ts32 reduces an identity to the 32-bit form used in hierarchical paths.
func ts32(id uuid.UUID) uint32 {
	return binary.BigEndian.Uint32(id[:4])
}
