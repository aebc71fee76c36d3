package query

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/leapstack-labs/tabletalk/pkg/table"
)

// Extractor finds column mentions and numeric conditions in query text.
//
// By default a column matches when its case-folded name occurs anywhere in
// the case-folded text. That is permissive on purpose and imprecise: a column
// named "a" matches nearly every query. WholeWord requires the name to be
// bounded by non-alphanumeric characters.
type Extractor struct {
	WholeWord bool
}

// fold case-folds s. A Caser is stateful so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

// Columns returns the columns mentioned in text, in the table's declared
// order.
func (e Extractor) Columns(text string, columns []string) []string {
	folded := fold(text)
	var found []string
	for _, col := range columns {
		name := fold(col)
		if name == "" {
			continue
		}
		if e.WholeWord {
			if containsWord(folded, name) {
				found = append(found, col)
			}
			continue
		}
		if strings.Contains(folded, name) {
			found = append(found, col)
		}
	}
	return found
}

func containsWord(text, word string) bool {
	for from := 0; ; {
		i := strings.Index(text[from:], word)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(word)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		from = start + size
	}
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

var tokenPattern = regexp.MustCompile(`[\p{L}_][\p{L}\p{N}_]*|\d+(?:\.\d+)?`)

// Condition looks for a column word followed by a number, as in
// "age below 25", and returns "Age < 25". Words between the column and the
// number are skipped; the column nearest the number wins. Column words are
// resolved by case-insensitive equality. It returns nil when no pair
// resolves.
func (e Extractor) Condition(text string, columns []string) *table.Condition {
	byName := make(map[string]string, len(columns))
	for _, col := range columns {
		key := fold(col)
		if _, dup := byName[key]; !dup {
			byName[key] = col
		}
	}

	tokens := tokenPattern.FindAllString(fold(text), -1)
	since := 0
	for i, tok := range tokens {
		if !isNumber(tok) {
			continue
		}
		for j := i - 1; j >= since; j-- {
			col, ok := byName[tokens[j]]
			if !ok {
				continue
			}
			threshold, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				break
			}
			return &table.Condition{Column: col, Op: table.LessThan, Threshold: threshold}
		}
		since = i + 1
	}
	return nil
}

func isNumber(tok string) bool {
	return tok != "" && tok[0] >= '0' && tok[0] <= '9'
}

var comparisonPattern = regexp.MustCompile(`\b(?:below|under|less than)\b|<`)

// hasComparison reports whether folded text spells out a less-than filter.
func hasComparison(folded string) bool {
	return comparisonPattern.MatchString(folded)
}

var rowsPattern = regexp.MustCompile(`(\d+)\s*rows`)

// previewRows returns the "<N> rows" count in folded text, or def.
func previewRows(folded string, def int) int {
	m := rowsPattern.FindStringSubmatch(folded)
	if m == nil {
		return def
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return def
	}
	return n
}
