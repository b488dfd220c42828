// Package report implements TOON (Token-Oriented Object Notation) encoding
// of an analysis pass.
package report

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mutscope/mutscope/internal/model"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// Encode converts an Analysis into TOON format.
func Encode(a *model.Analysis) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("root: %s", encodeValue(a.Root)))

	var classRows [][]string
	for i := range a.Classes {
		c := &a.Classes[i]
		classRows = append(classRows, []string{
			c.FullName,
			c.File,
			fmt.Sprintf("%d", c.Line),
			fmt.Sprintf("%t", c.Excluded),
		})
	}
	parts = append(parts, formatTabular("classes", []string{"name", "file", "line", "excluded"}, classRows))

	var methodRows [][]string
	for i := range a.Classes {
		c := &a.Classes[i]
		for j := range c.Methods {
			m := &c.Methods[j]
			methodRows = append(methodRows, []string{
				c.FullName,
				m.Name,
				m.Signature,
				fmt.Sprintf("%d", m.Line),
			})
		}
	}
	parts = append(parts, formatTabular("methods", []string{"class", "name", "signature", "line"}, methodRows))

	if len(a.Matches) > 0 {
		var testRows [][]string
		for i := range a.Matches {
			t := &a.Matches[i]
			testRows = append(testRows, []string{
				t.TestClass,
				t.TestMethod,
				t.File,
				fmt.Sprintf("%d", t.Line),
			})
		}
		parts = append(parts, formatTabular("tests", []string{"class", "method", "file", "line"}, testRows))
	}

	return strings.Join(parts, "\n")
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
