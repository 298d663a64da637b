package health

import (
	"reflect"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const checkSuffix = "Check"

func typeName(owner interface{}) string {
	if owner == nil {
		return ""
	}

	t := reflect.TypeOf(owner)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	return t.Name()
}

// defaultName strips the last "Check" and whatever follows it: DiskSpaceCheck -> DiskSpace.
// A type called just "Check" keeps its name so the result is never empty.
func defaultName(typ string) string {
	if i := strings.LastIndex(typ, checkSuffix); i > 0 {
		return typ[:i]
	}

	return typ
}

// defaultLabel turns a name into words, title cased: DiskSpace -> Disk Space, HTTPStatus -> Http Status.
func defaultLabel(name string) string {
	words := splitWords(name)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}

	// a Caser is stateful; never share one between goroutines
	return cases.Title(language.Und).String(strings.Join(words, " "))
}

func splitWords(s string) []string {
	runes := []rune(s)
	var words []string
	start := -1

	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			if start >= 0 {
				words = append(words, string(runes[start:i]))
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
			continue
		}
		if isWordBoundary(runes, i) {
			words = append(words, string(runes[start:i]))
			start = i
		}
	}
	if start >= 0 {
		words = append(words, string(runes[start:]))
	}

	return words
}

func isWordBoundary(runes []rune, i int) bool {
	prev, r := runes[i-1], runes[i]
	if !unicode.IsUpper(r) {
		return false
	}
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}
	// last capital of an acronym starts the next word: HTTPStatus -> HTTP Status
	return unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
