package classify

import "strings"

// completenessCheck validates that text is a complete top-level unit for
// a language. Returns "" when complete, or a fragment reason.
type completenessCheck func(text string) string

// languageAliases maps fence tags to canonical language keys.
var languageAliases = map[string]string{
	"py":      "python",
	"python3": "python",
	"rb":      "ruby",
	"golang":  "go",
	"shell":   "sh",
	"bash":    "sh",
	"zsh":     "sh",
	"js":      "javascript",
	"node":    "javascript",
	"exs":     "elixir",
}

// languageChecks maps every recognized runnable tag to its completeness
// heuristic. Tags not present here are unknown to the classifier.
var languageChecks = map[string]completenessCheck{}

func init() {
	canonical := map[string]completenessCheck{
		"python":     checkPython,
		"ruby":       checkRuby,
		"sh":         checkShell,
		"go":         checkGo,
		"javascript": checkBraced,
		"elixir":     checkElixir,
	}
	for tag, check := range canonical {
		languageChecks[tag] = check
	}
	for alias, canon := range languageAliases {
		languageChecks[alias] = canonical[canon]
	}
}

// balancedDelimiters scans for unclosed brackets outside string
// literals. Comments are not stripped; a bracket in a comment is rare
// enough in guide snippets that ambiguity defaults to fragment anyway.
func balancedDelimiters(text string) bool {
	var stack []byte
	var quote byte
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
		case '(', '[', '{':
			stack = append(stack, c)
		case ')', ']', '}':
			if len(stack) == 0 {
				return false
			}
			open := stack[len(stack)-1]
			if (c == ')' && open != '(') || (c == ']' && open != '[') || (c == '}' && open != '{') {
				return false
			}
			stack = stack[:len(stack)-1]
		}
	}
	return len(stack) == 0 && quote == 0
}

func checkPython(text string) string {
	if !balancedDelimiters(text) {
		return ReasonUnbalanced
	}
	// A block ending in a colon is an unfinished suite.
	lines := strings.Split(text, "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	if strings.HasSuffix(last, ":") {
		return ReasonNoEntry
	}
	// A block whose first statement is indented is mid-suite.
	if strings.HasPrefix(lines[0], " ") || strings.HasPrefix(lines[0], "\t") {
		return ReasonNoEntry
	}
	return ""
}

// checkRuby requires balanced brackets and matched block keywords.
func checkRuby(text string) string {
	if !balancedDelimiters(text) {
		return ReasonUnbalanced
	}
	if rubyBlockOpeners(text) != rubyBlockClosers(text) {
		return ReasonUnbalanced
	}
	return ""
}

// rubyBlockOpeners counts keywords that open a do...end region.
func rubyBlockOpeners(text string) int {
	openers := 0
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		first, _, _ := strings.Cut(trimmed, " ")
		switch first {
		case "def", "class", "module", "begin", "case", "if", "unless", "while", "until":
			openers++
		default:
			if trimmed == "do" || strings.HasSuffix(trimmed, " do") || strings.Contains(trimmed, " do |") {
				openers++
			}
		}
	}
	return openers
}

// rubyBlockClosers counts end keywords at statement position.
func rubyBlockClosers(text string) int {
	closers := 0
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "end" || strings.HasPrefix(trimmed, "end ") || strings.HasPrefix(trimmed, "end.") {
			closers++
		}
	}
	return closers
}

func checkShell(text string) string {
	// Heredoc and line-continuation fragments are the common partial
	// shapes in guides.
	if strings.HasSuffix(strings.TrimRight(text, " \t\n"), "\\") {
		return ReasonNoEntry
	}
	return ""
}

// checkGo requires a full program: package clause plus a main entry.
func checkGo(text string) string {
	if !balancedDelimiters(text) {
		return ReasonUnbalanced
	}
	if !strings.Contains(text, "package ") {
		return ReasonNoEntry
	}
	if !strings.Contains(text, "func main(") {
		return ReasonNoEntry
	}
	return ""
}

func checkBraced(text string) string {
	if !balancedDelimiters(text) {
		return ReasonUnbalanced
	}
	return ""
}

// checkElixir requires matched do/end pairs alongside bracket balance.
func checkElixir(text string) string {
	if !balancedDelimiters(text) {
		return ReasonUnbalanced
	}
	opens := 0
	ends := 0
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasSuffix(trimmed, " do") || trimmed == "do" {
			opens++
		}
		if trimmed == "end" {
			ends++
		}
	}
	if opens != ends {
		return ReasonUnbalanced
	}
	return ""
}
