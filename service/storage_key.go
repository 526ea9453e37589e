package service

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

const maxObjectNameBytes = 200

// NewStorageKey builds "<owner>/<name>-<uuid>". The owner prefix scopes reconciliation
// sweeps and the random suffix keeps identical display names apart.
func NewStorageKey(ownerID uuid.UUID, name string) string {
	return fmt.Sprintf("%s/%s-%s", ownerID, sanitizeObjectName(name), uuid.NewString())
}

// OwnerPrefix is the bucket prefix under which every key of ownerID lives.
func OwnerPrefix(ownerID uuid.UUID) string {
	if ownerID == uuid.Nil {
		return ""
	}
	return ownerID.String() + "/"
}

func sanitizeObjectName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}

	name = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)

	if len(name) > maxObjectNameBytes {
		cut := maxObjectNameBytes
		for cut > 0 && !utf8.RuneStart(name[cut]) {
			cut--
		}
		name = name[:cut]
	}

	if name == "" || name == "." || name == ".." {
		return "file"
	}
	return name
}
