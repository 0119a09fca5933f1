package feasibility

import (
	"strconv"
	"strings"
)

// HouseLabel joins the house number with its block qualifier and applies the
// vendor's label format. When the combined label splits into exactly four
// space-separated tokens it is reassembled as "{num} {word} к. {block}".
// This encodes the target district's house-numbering quirk in the vendor
// reference data; it is deliberately not generalized. Labels with any other
// token count pass through unchanged.
func HouseLabel(house, block string) string {
	label := strings.TrimSpace(house)
	if block != "" {
		label = label + " " + strings.TrimSpace(block)
	}
	return reformatLabel(label)
}

func reformatLabel(label string) string {
	tokens := strings.Fields(strings.ReplaceAll(label, ",", " "))
	if len(tokens) != 4 {
		return label
	}
	return tokens[0] + " " + tokens[1] + " к. " + tokens[2]
}

func flatNumber(flat string) int {
	n, err := strconv.Atoi(strings.TrimSpace(flat))
	if err != nil {
		return 0
	}
	return n
}
