package services

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// one leading "-" or run of digits with an optional period, plus following whitespace
var listMarkerRegex = regexp.MustCompile(`^(-|\d+\.?)\s*`)

var hintCaser = cases.Lower(language.English)

// ParseClothingItems splits newline separated suggestions into single items.
// A leading list marker is stripped from each line, blank lines are dropped
// and the original order is kept. Duplicates are kept as well.
func ParseClothingItems(text string) []string {
	items := []string{}
	for _, line := range strings.Split(text, "\n") {
		item := strings.TrimSpace(line)
		item = listMarkerRegex.ReplaceAllString(item, "")
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}

// ItemHint returns the first two words of an item, lower cased.
// Used as image alt text and as a short label in logs.
func ItemHint(item string) string {
	words := strings.Fields(item)
	if len(words) > 2 {
		words = words[:2]
	}
	return hintCaser.String(strings.Join(words, " "))
}
