// Package callnumber normalizes call numbers into sortable keys.
package callnumber

import (
	"fmt"
	"strings"
	"unicode"
)

// numberPadWidth is wide enough for any class or cutter number a
// catalog realistically holds.
const numberPadWidth = 12

// ForSort converts a display call number into a string that sorts
// correctly under plain byte comparison. The number is split into
// alphabetic and numeric units; alphabetic units are uppercased and
// numeric units are zero padded, so "v.2" sorts before "v.10" and
// "PS35" before "PS3556". An empty display call number yields an
// empty key.
func ForSort(display string) string {
	display = strings.TrimSpace(display)
	if display == "" {
		return ""
	}
	var units []string
	var cur strings.Builder
	curDigit := false
	flush := func() {
		if cur.Len() == 0 {
			return
		}
		if curDigit {
			units = append(units, fmt.Sprintf("%0*s", numberPadWidth, cur.String()))
		} else {
			units = append(units, strings.ToUpper(cur.String()))
		}
		cur.Reset()
	}
	for _, r := range display {
		switch {
		case unicode.IsDigit(r):
			if !curDigit {
				flush()
				curDigit = true
			}
			cur.WriteRune(r)
		case unicode.IsLetter(r):
			if curDigit {
				flush()
				curDigit = false
			}
			cur.WriteRune(r)
		default:
			// Separators and punctuation delimit units but carry no
			// sort weight of their own.
			flush()
			curDigit = false
		}
	}
	flush()
	return strings.Join(units, "!")
}
