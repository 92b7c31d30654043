package engine

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"
)

// markerArgLexer tokenizes tracking-marker argument lists. The same token
// set covers every surface syntax we meet: C# attribute arguments
// (Table = "users"), Java/Python/TypeScript decorator arguments
// (table="users" or {table: "users"}) and bare directive arguments
// (// @Track table=users).
var markerArgLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(\\"|[^"])*"|'(\\'|[^'])*'`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Number", Pattern: `-?[0-9]+(\.[0-9]+)?`},
	{Name: "Assign", Pattern: `[=:]`},
	{Name: "Group", Pattern: `[(){}\[\]]`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// ParseMarkerArgs parses a marker argument list into a metadata map. Keys
// are case-normalized to a canonical leading capital; later duplicates
// overwrite earlier ones so every key is unique. Bare identifiers become
// boolean flags ("true"). Grouping punctuation is transparent, so both
// @Track(table="users") inner text and {table: "users"} object literals
// parse the same way. An empty or all-whitespace input yields an empty
// map.
func ParseMarkerArgs(args string) (map[string]string, error) {
	metadata := map[string]string{}
	args = strings.TrimSpace(args)
	if args == "" {
		return metadata, nil
	}

	tokens, err := lexMarkerArgs(args)
	if err != nil {
		return nil, err
	}

	symbols := markerArgLexer.Symbols()
	identType := symbols["Ident"]
	stringType := symbols["String"]
	numberType := symbols["Number"]
	assignType := symbols["Assign"]

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.Type != identType {
			continue
		}
		key := canonicalKey(tok.Value)

		if i+1 < len(tokens) && tokens[i+1].Type == assignType {
			if i+2 >= len(tokens) {
				return nil, fmt.Errorf("marker argument %q has no value", tok.Value)
			}
			value := tokens[i+2]
			switch value.Type {
			case stringType:
				metadata[key] = unquote(value.Value)
			case identType, numberType:
				metadata[key] = value.Value
			default:
				return nil, fmt.Errorf("unexpected value %q for marker argument %q", value.Value, tok.Value)
			}
			i += 2
			continue
		}

		// Bare identifier: a flag.
		metadata[key] = "true"
	}

	return metadata, nil
}

// lexMarkerArgs runs the lexer over args and returns all significant
// tokens (whitespace, commas and grouping punctuation dropped).
func lexMarkerArgs(args string) ([]lexer.Token, error) {
	lx, err := markerArgLexer.LexString("", args)
	if err != nil {
		return nil, fmt.Errorf("failed to tokenize marker arguments: %w", err)
	}

	symbols := markerArgLexer.Symbols()
	skip := map[lexer.TokenType]bool{
		symbols["Whitespace"]: true,
		symbols["Comma"]:      true,
		symbols["Group"]:      true,
	}

	var tokens []lexer.Token
	for {
		tok, err := lx.Next()
		if err != nil {
			return nil, fmt.Errorf("failed to tokenize marker arguments: %w", err)
		}
		if tok.EOF() {
			break
		}
		if skip[tok.Type] {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

// canonicalKey normalizes a metadata key to its canonical capitalization:
// leading rune upper-cased, remainder preserved ("table" -> "Table").
func canonicalKey(key string) string {
	r, size := utf8.DecodeRuneInString(key)
	if r == utf8.RuneError {
		return key
	}
	return string(unicode.ToUpper(r)) + key[size:]
}

// unquote strips the surrounding quotes from a String token and unescapes
// the quote character inside it.
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	quote := s[0]
	body := s[1 : len(s)-1]
	return strings.ReplaceAll(body, `\`+string(quote), string(quote))
}
