package envtmpl

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
)

const sectionPrefix = "#####"

// Entry is a single KEY=VALUE line of an env file.
type Entry struct {
	Section string
	Key     string
	Value   string
	Line    int
}

// Required reports whether the entry sits in a section marked REQUIRED.
func (e Entry) Required() bool {
	return strings.Contains(strings.ToUpper(e.Section), "REQUIRED")
}

func (e Entry) Empty() bool {
	return e.Value == ""
}

// ParseEntries returns the entries of an env file in file order. Values and
// the set of keys come from godotenv; the scan only recovers order, line
// numbers and sections.
//
// A "#####" header starts a section. A plain comment that opens a block (the
// first line after a blank line, or of the file) starts a subsection that
// replaces it until the next header or block comment.
func ParseEntries(content []byte) ([]Entry, error) {
	values, err := godotenv.UnmarshalBytes(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse env content: %w", err)
	}

	var (
		entries    []Entry
		section    string
		blockStart = true
		openQuote  byte
	)

	scanner := bufio.NewScanner(bytes.NewReader(content))
	for line := 1; scanner.Scan(); line++ {
		raw := scanner.Text()

		// continuation of a multi-line quoted value
		if openQuote != 0 {
			if closesQuote(raw, openQuote) {
				openQuote = 0
			}
			continue
		}

		text := strings.TrimSpace(raw)

		switch {
		case text == "":
			blockStart = true
			continue
		case strings.HasPrefix(text, sectionPrefix):
			section = strings.TrimSpace(strings.TrimLeft(text, "#"))
		case strings.HasPrefix(text, "#"):
			if blockStart {
				section = strings.TrimSpace(strings.TrimLeft(text, "#"))
			}
		default:
			key, value, ok := strings.Cut(text, "=")
			if !ok {
				break
			}

			value = strings.TrimSpace(value)
			if value != "" && (value[0] == '"' || value[0] == '\'') && !closesQuote(value[1:], value[0]) {
				openQuote = value[0]
			}

			key = strings.TrimSpace(strings.TrimPrefix(key, "export "))
			if _, known := values[key]; !known {
				break
			}

			entries = append(entries, Entry{
				Section: section,
				Key:     key,
				Value:   values[key],
				Line:    line,
			})
		}

		blockStart = false
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan env content: %w", err)
	}

	return entries, nil
}

// closesQuote reports whether s contains q not preceded by a backslash,
// which is where godotenv ends a quoted value.
func closesQuote(s string, q byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == q && (i == 0 || s[i-1] != '\\') {
			return true
		}
	}
	return false
}
