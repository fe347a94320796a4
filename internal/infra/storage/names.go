package storage

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// SanitizeFilename keeps letters, digits, dot, dash and underscore; the
// rest becomes "_".
func SanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	out := strings.TrimLeft(b.String(), ".")
	if out == "" {
		return "arquivo"
	}
	return out
}

// ObjectKey is "<professional_id>/<unix_ms>-<rand>-<name>". The random part
// keeps two uploads of the same name in one millisecond apart.
func ObjectKey(professionalID uint, at time.Time, name string) string {
	return fmt.Sprintf(
		"%d/%d-%s-%s",
		professionalID,
		at.UnixMilli(),
		strings.ReplaceAll(uuid.NewString(), "-", "")[:8],
		SanitizeFilename(name),
	)
}
