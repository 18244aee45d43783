package meta

import (
	"os"
	"strings"
)

const envPrefix = "${env."

// expandEnvExpr replaces every ${env.KEY} with the value of KEY, or "" when
// unset. Expressions whose key is not an identifier are left as written; an
// unterminated expression ends expansion.
func expandEnvExpr(value string) string {
	if !strings.Contains(value, envPrefix) {
		return value
	}
	var b strings.Builder
	for {
		start := strings.Index(value, envPrefix)
		if start < 0 {
			b.WriteString(value)
			return b.String()
		}
		b.WriteString(value[:start])
		rest := value[start+len(envPrefix):]
		end := strings.IndexByte(rest, '}')
		if end < 0 {
			b.WriteString(value[start:])
			return b.String()
		}
		key := rest[:end]
		if !isIdentifier(key) {
			b.WriteString(envPrefix)
			value = rest
			continue
		}
		b.WriteString(os.Getenv(key))
		value = rest[end+1:]
	}
}

func isIdentifier(key string) bool {
	for _, r := range key {
		switch {
		case r == '_', r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return true
}
