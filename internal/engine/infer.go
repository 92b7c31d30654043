package engine

import "strings"

// Type tags produced by literal inference for untyped languages. This is a
// closed classifier over a fixed tag set, not genuine type inference.
const (
	tagAny     = "any"
	tagBoolean = "boolean"
	tagNumber  = "number"
	tagString  = "string"
	tagArray   = "array"
	tagObject  = "object"
)

// classifyLiteral assigns a coarse type tag to a default-value literal
// from plain JavaScript. Absent, null and undefined values stay "any".
func classifyLiteral(literal string) string {
	lit := strings.TrimSpace(literal)
	switch {
	case lit == "", lit == "null", lit == "undefined":
		return tagAny
	case lit == "true", lit == "false":
		return tagBoolean
	case strings.HasPrefix(lit, `"`), strings.HasPrefix(lit, "'"), strings.HasPrefix(lit, "`"):
		return tagString
	case strings.HasPrefix(lit, "["):
		return tagArray
	case strings.HasPrefix(lit, "{"):
		return tagObject
	case isNumericLiteral(lit):
		return tagNumber
	default:
		return tagAny
	}
}

func isNumericLiteral(lit string) bool {
	if lit == "" {
		return false
	}
	if lit[0] == '-' || lit[0] == '+' {
		lit = lit[1:]
	}
	if lit == "" {
		return false
	}
	digits := 0
	for i := 0; i < len(lit); i++ {
		c := lit[i]
		switch {
		case c >= '0' && c <= '9':
			digits++
		case c == '.' || c == '_' || c == 'e' || c == 'E' || c == 'x' || c == 'X' ||
			(c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F'):
			// hex/exponent/separator characters in numeric literals
		default:
			return false
		}
	}
	return digits > 0
}
