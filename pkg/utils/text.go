package utils

import "strings"

var digitReplacer = strings.NewReplacer(
	"０", "0", "１", "1", "２", "2", "３", "3", "４", "4", "５", "5", "６", "6", "７", "7", "８", "8", "９", "9",
)

// NormalizeDigits converts full-width digits, common in CJK input, to ASCII
func NormalizeDigits(input string) string {
	return digitReplacer.Replace(input)
}

// CollapseSpaces trims input and removes every inner whitespace run
func CollapseSpaces(input string) string {
	return strings.Join(strings.Fields(input), "")
}
