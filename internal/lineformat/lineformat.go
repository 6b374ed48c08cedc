// Package lineformat reads and writes the line oriented attribute format
// frames are persisted in: one attribute per line, the key followed by its
// tokens, separated by whitespace.
//
//	slots color size
//	color,value dark "deep red"
//	color,ifputv audit
//
// Tokens that are empty or contain whitespace or quotes are written as Go
// quoted strings. Lines starting with # are comments.
package lineformat

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Encode writes rec to w with keys in lexical order.
func Encode(w io.Writer, rec map[string][]string) error {
	keys := make([]string, 0, len(rec))
	for key := range rec {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	bw := bufio.NewWriter(w)
	for _, key := range keys {
		if key == "" {
			return fmt.Errorf("lineformat: empty key")
		}
		var line strings.Builder
		line.WriteString(quote(key))
		for _, token := range rec[key] {
			line.WriteByte(' ')
			line.WriteString(quote(token))
		}
		line.WriteByte('\n')
		if _, err := bw.WriteString(line.String()); err != nil {
			return fmt.Errorf("lineformat: write %q: %w", key, err)
		}
	}
	return bw.Flush()
}

// Marshal returns the encoded form of rec.
func Marshal(rec map[string][]string) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, rec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a record from r. Blank lines and comments are skipped; a key
// appearing twice is an error.
func Decode(r io.Reader) (map[string][]string, error) {
	rec := map[string][]string{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tokens, err := split(line)
		if err != nil {
			return nil, fmt.Errorf("lineformat: line %d: %w", lineNo, err)
		}
		key := tokens[0]
		if _, dup := rec[key]; dup {
			return nil, fmt.Errorf("lineformat: line %d: duplicate key %q", lineNo, key)
		}
		rec[key] = tokens[1:]
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("lineformat: read: %w", err)
	}
	return rec, nil
}

// Unmarshal decodes data.
func Unmarshal(data []byte) (map[string][]string, error) {
	return Decode(bytes.NewReader(data))
}

func quote(token string) string {
	if token == "" || strings.HasPrefix(token, "#") || strings.IndexFunc(token, needsQuote) >= 0 {
		return strconv.Quote(token)
	}
	return token
}

func needsQuote(r rune) bool {
	return r == '"' || unicode.IsSpace(r) || !unicode.IsPrint(r)
}

func split(line string) ([]string, error) {
	tokens := []string{}
	rest := line
	for {
		rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
		if rest == "" {
			break
		}
		if rest[0] == '"' {
			quoted, err := strconv.QuotedPrefix(rest)
			if err != nil {
				return nil, fmt.Errorf("unterminated quoted token near %q", rest)
			}
			token, err := strconv.Unquote(quoted)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token)
			rest = rest[len(quoted):]
			if rest != "" && !unicode.IsSpace(rune(rest[0])) {
				return nil, fmt.Errorf("missing space after quoted token %s", quoted)
			}
			continue
		}
		end := strings.IndexFunc(rest, unicode.IsSpace)
		if end < 0 {
			end = len(rest)
		}
		tokens = append(tokens, rest[:end])
		rest = rest[end:]
	}
	return tokens, nil
}
