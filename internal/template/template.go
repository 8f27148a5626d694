package template

import (
	"embed"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

//go:embed data/*.tmpl
var templateFS embed.FS

// names of the built-in templates
const (
	About  = "about.xml"
	Script = "script.cs"
)

// placeholderPattern finds {key} tokens; keys are identifier-like so C# string
// interpolation such as {prefabs.Count} is not reported
var placeholderPattern = regexp.MustCompile(`\{[A-Za-z_][A-Za-z0-9_]*\}`)

// Value is a single slot replacement
type Value struct {
	Key  string
	Text string
}

// Values is an ordered list of replacements, applied first to last
type Values []Value

// Token returns the placeholder token for a key, e.g. "name" -> "{name}"
func Token(key string) string {
	return "{" + key + "}"
}

// Fill replaces every {key} token with its text, one key at a time in order.
//
// Placeholders without a value are left untouched. Since replacements run
// sequentially, text that itself contains a later token gets substituted too.
func Fill(template string, values Values) string {
	for _, v := range values {
		template = strings.ReplaceAll(template, Token(v.Key), v.Text)
	}
	return template
}

// FillMap is Fill with keys applied in sorted order
func FillMap(template string, values map[string]string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ordered := make(Values, 0, len(keys))
	for _, k := range keys {
		ordered = append(ordered, Value{Key: k, Text: values[k]})
	}
	return Fill(template, ordered)
}

// Placeholders lists the distinct {key} tokens present in a template, in order of first appearance
func Placeholders(template string) []string {
	var found []string
	seen := make(map[string]bool)
	for _, tok := range placeholderPattern.FindAllString(template, -1) {
		if !seen[tok] {
			seen[tok] = true
			found = append(found, tok)
		}
	}
	return found
}

// HasPlaceholder checks if a template contains the token for key
func HasPlaceholder(template, key string) bool {
	return strings.Contains(template, Token(key))
}

// Template returns the text of a built-in template
func Template(name string) (string, error) {
	data, err := templateFS.ReadFile("data/" + name + ".tmpl")
	if err != nil {
		return "", fmt.Errorf("unknown template %q: %w", name, err)
	}
	return string(data), nil
}
