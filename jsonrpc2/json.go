package jsonrpc2

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"
)

// Helpers for JSON encoding and parsing

// marshalASCII encodes v with every non-ASCII code point escaped and with
// ", " and ": " separators, the layout SL4A's reference clients produce.
// Object keys keep struct field order.
func marshalASCII(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return spaceASCII(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// spaceASCII rewrites compact JSON: a space follows every ',' and ':' outside
// of strings, and runes beyond ASCII become \u escapes. encoding/json only
// emits non-ASCII bytes inside strings, so escaping them in place is safe.
func spaceASCII(compact []byte) []byte {
	out := make([]byte, 0, len(compact)+len(compact)/4)
	inString, escaped := false, false
	for i := 0; i < len(compact); {
		c := compact[i]
		if c >= utf8.RuneSelf {
			r, size := utf8.DecodeRune(compact[i:])
			out = appendEscapedRune(out, r)
			i += size
			continue
		}
		i++
		out = append(out, c)
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case !inString && (c == ',' || c == ':'):
			out = append(out, ' ')
		}
	}
	return out
}

func appendEscapedRune(out []byte, r rune) []byte {
	if r > 0xffff {
		r1, r2 := utf16.EncodeRune(r)
		out = append(out, fmt.Sprintf(`\u%04x\u%04x`, r1, r2)...)
		return out
	}
	return append(out, fmt.Sprintf(`\u%04x`, r)...)
}

// isObject returns true if the message is a JSON object (starts
// with '{', spaces skipped).
func isObject(raw json.RawMessage) bool {
	for _, b := range raw {
		if isSpace(b) {
			continue
		}
		return b == '{'
	}
	return false
}

// isSpace returns true if the byte is considered a space in JSON syntax.
func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
