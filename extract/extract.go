// Package extract implements the fence extractor.
//
// The extractor scans a guide document in one pass and produces its
// fenced code blocks in source order. Fences are recognized at the
// outermost delimiter level only: once a fence is open, its interior is
// never reparsed for headings or nested fences. An unterminated fence at
// end-of-document is a MalformedDocumentError carrying the opening line.
//
// Extraction is deterministic: the same bytes always yield the same
// ordered block sequence.
package extract

import (
	"fmt"
	"strings"

	"github.com/fenceline-io/fenceline/types"
)

// MalformedDocumentError reports an unterminated fence.
// Fatal for the document's extraction; other documents continue.
type MalformedDocumentError struct {
	// Path is the document path.
	Path string
	// Line is the 1-based line number of the unterminated opening fence.
	Line int
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("%s: unterminated fence opened at line %d", e.Path, e.Line)
}

// fence tracks an open fence while scanning.
type fence struct {
	char     byte // '`' or '~'
	length   int  // opening delimiter run length
	language string
	section  string
	openLine int // 1-based
	content  []string
}

// Extract scans source and returns its blocks in document order.
// path is recorded on each block and used in error messages only; the
// function never touches the filesystem.
func Extract(path string, source []byte) ([]types.Block, error) {
	lines := strings.Split(string(source), "\n")

	var blocks []types.Block
	var open *fence
	section := ""

	for i, raw := range lines {
		line := strings.TrimSuffix(raw, "\r")

		if open != nil {
			if isClosingFence(line, open.char, open.length) {
				blocks = append(blocks, types.Block{
					Document: path,
					Ordinal:  len(blocks),
					Language: open.language,
					Text:     strings.Join(open.content, "\n"),
					Section:  open.section,
					Line:     open.openLine,
				})
				open = nil
				continue
			}
			open.content = append(open.content, line)
			continue
		}

		if title, ok := headingTitle(line); ok {
			section = title
			continue
		}

		if char, length, info, ok := openingFence(line); ok {
			open = &fence{
				char:     char,
				length:   length,
				language: languageTag(info),
				section:  section,
				openLine: i + 1,
			}
		}
	}

	if open != nil {
		return nil, &MalformedDocumentError{Path: path, Line: open.openLine}
	}

	return blocks, nil
}

// headingTitle parses an ATX heading line, returning its title text.
func headingTitle(line string) (string, bool) {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 {
		return "", false
	}
	level := 0
	for level < len(trimmed) && trimmed[level] == '#' {
		level++
	}
	if level == 0 || level > 6 {
		return "", false
	}
	rest := trimmed[level:]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return "", false
	}
	title := strings.TrimSpace(rest)
	// A trailing hash run is only a closing sequence ("## Title ##")
	// when preceded by whitespace or when it is the entire heading;
	// "Understanding C#" keeps its hash.
	stripped := strings.TrimRight(title, "#")
	if stripped == "" || strings.HasSuffix(stripped, " ") || strings.HasSuffix(stripped, "\t") {
		title = strings.TrimSpace(stripped)
	}
	return title, true
}

// openingFence parses a fence opener: three or more backticks or tildes
// after at most three spaces of indentation, followed by an info string.
// A backtick fence may not carry backticks in its info string.
func openingFence(line string) (char byte, length int, info string, ok bool) {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 || trimmed == "" {
		return 0, 0, "", false
	}
	c := trimmed[0]
	if c != '`' && c != '~' {
		return 0, 0, "", false
	}
	n := 0
	for n < len(trimmed) && trimmed[n] == c {
		n++
	}
	if n < 3 {
		return 0, 0, "", false
	}
	rest := strings.TrimSpace(trimmed[n:])
	if c == '`' && strings.ContainsRune(rest, '`') {
		return 0, 0, "", false
	}
	return c, n, rest, true
}

// isClosingFence reports whether line closes a fence opened with char
// repeated length times: same delimiter, at least as long, nothing else.
func isClosingFence(line string, char byte, length int) bool {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 {
		return false
	}
	trimmed = strings.TrimRight(trimmed, " ")
	if len(trimmed) < length {
		return false
	}
	for i := 0; i < len(trimmed); i++ {
		if trimmed[i] != char {
			return false
		}
	}
	return true
}

// languageTag extracts the language tag from an info string: the first
// whitespace-separated token, lowercased. Empty info yields the empty tag.
func languageTag(info string) string {
	if info == "" {
		return ""
	}
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}
