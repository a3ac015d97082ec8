// Package parsers holds the string-parsing utilities used inside field
// converters: punctuation and whitespace normalization, bracket and
// ellipsis stripping, and personal-name parsing. Everything here is a
// pure function over its inputs.
package parsers

import (
	"regexp"
	"strings"
)

// Ending punctuation marks that get stripped from field data, and the
// marks that should never have whitespace to their immediate left.
const (
	endingPunctClass = `[.,;:/\\]`
	noLeftSpaceClass = `[.,;:]`
)

// Abbreviations whose trailing periods are structural to the word, not
// to the sentence, and must survive punctuation stripping.
const abbreviationsAlt = `ca|fl|cent|cents|ed|eds|etc|al|vol|vols|no|nos|pt|pts|ser|supp|trans|pseud|approx|dept|b|d|Mr|Mrs|Ms|Dr|St|Ste|Jr|Sr|Rev|Fr|Hon|Prof|Capt|Col|Gen|Lt|Sgt|Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec`

var (
	whitespaceRe = regexp.MustCompile(`\s+`)

	leftSpacePunctRe = regexp.MustCompile(`\s+(` + noLeftSpaceClass + `)`)
	multiPunctRe     = regexp.MustCompile(`(\s*` + endingPunctClass + `)+(\s*` + endingPunctClass + `)`)

	periodInWordRe = regexp.MustCompile(`\.(\w)`)
	// Ordinals and roman numerals keep their period only when another
	// character follows it; a trailing "XII." is sentence punctuation.
	ordinalPeriodRe = regexp.MustCompile(`\b(\d{1,3}|\d+[A-Za-z]+|[IVXLCDM]+)\.([^0-9A-Za-z_])`)
	initialPeriodRe = regexp.MustCompile(`\b([A-Z]|(?i:` + abbreviationsAlt + `))\.`)

	fullParensRe  = regexp.MustCompile(`^\((.*)\)\s*` + endingPunctClass + `*$`)
	trailingPunct = regexp.MustCompile(`\s*` + endingPunctClass + `*$`)

	ellipsisStartRe = regexp.MustCompile(`^\.{3}\s*(\.?)`)
	ellipsisSpaceRe = regexp.MustCompile(`\s+\.{3}\s*(\.?)`)
	ellipsisCharRe  = regexp.MustCompile(`([^.\s])\.{3}\s*(\.?)`)
)

// HasCommaInMiddle reports whether data has a comma separating two or
// more words: at least two comma-split parts must be non-blank.
func HasCommaInMiddle(data string) bool {
	nonblank := 0
	for _, p := range strings.Split(data, ",") {
		if strings.TrimSpace(p) != "" {
			nonblank++
		}
	}
	return nonblank > 1
}

// NormalizeWhitespace consolidates runs of whitespace into single
// spaces and trims both ends.
func NormalizeWhitespace(data string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(data, " "))
}

// NormalizePunctuation removes whitespace to the immediate left of
// certain punctuation marks and collapses runs of consecutive
// punctuation marks, keeping the last mark in each run. Run this last;
// earlier parsing steps may leave punctuation artifacts behind.
func NormalizePunctuation(data string) string {
	out := leftSpacePunctRe.ReplaceAllString(data, "$1")
	return multiPunctRe.ReplaceAllString(out, "$2")
}

// StripBrackets strips square brackets from data. With keepInner true
// (the usual case) the brackets go and the inner data stays, except
// data matching toRemoveRe, which goes with its brackets. With
// keepInner false the brackets and inner data both go, except data
// matching toKeepRe, which is kept without brackets. Data matching
// protectRe keeps both its brackets and its content. Empty regex
// strings disable the corresponding behavior.
func StripBrackets(data string, keepInner bool, toKeepRe, toRemoveRe, protectRe string) string {
	out := data
	if protectRe != "" {
		re := regexp.MustCompile(`\[(` + protectRe + `)\]`)
		out = re.ReplaceAllString(out, "{${1}}")
	}
	if toRemoveRe != "" && keepInner {
		re := regexp.MustCompile(`(^|\s*)\[(` + toRemoveRe + `)\]`)
		out = re.ReplaceAllString(out, "")
	}
	if toKeepRe != "" && !keepInner {
		re := regexp.MustCompile(`\[(` + toKeepRe + `)\]`)
		out = re.ReplaceAllString(out, "${1}")
	}
	if keepInner {
		out = strings.NewReplacer("[", "", "]", "").Replace(out)
	} else {
		re := regexp.MustCompile(`(^|\s*)\[[^\]]*\]`)
		out = re.ReplaceAllString(out, "")
	}
	if protectRe != "" {
		re := regexp.MustCompile(`\{([^\}]*)\}`)
		out = re.ReplaceAllString(out, "[${1}]")
	}
	return strings.TrimLeft(out, " \t")
}

// ProtectPeriodsAndDo runs do over data with non-structural periods
// (abbreviations, initials, inner-word periods, and ordinals or roman
// numerals followed by more text) temporarily replaced by "~", then
// restores them. Periods that survive into do are the structural ones
// it is allowed to parse or strip.
func ProtectPeriodsAndDo(data string, do func(string) string) string {
	out := periodInWordRe.ReplaceAllString(data, "~$1")
	out = ordinalPeriodRe.ReplaceAllString(out, "$1~$2")
	out = initialPeriodRe.ReplaceAllString(out, "$1~")
	out = do(out)
	return strings.ReplaceAll(out, "~", ".")
}

// StripEnds strips whitespace and unnecessary punctuation from both
// ends of data. Parentheses are stripped only when they enclose the
// whole string. Periods belonging to abbreviations are retained.
func StripEnds(data string) string {
	return ProtectPeriodsAndDo(strings.TrimSpace(data), func(s string) string {
		s = fullParensRe.ReplaceAllString(s, "$1")
		return strings.TrimSpace(trailingPunct.ReplaceAllString(s, ""))
	})
}

// StripEllipses removes ellipses (...) from data. An ellipsis directly
// following a period is left alone; one followed by a period keeps that
// period.
func StripEllipses(data string) string {
	out := ellipsisStartRe.ReplaceAllString(data, "$1 ")
	out = ellipsisSpaceRe.ReplaceAllString(out, "$1 ")
	out = ellipsisCharRe.ReplaceAllString(out, "$1$2 ")
	return strings.TrimSpace(out)
}

// Clean performs the common clean-up pass on a string of MARC field
// data: whitespace, end punctuation, brackets, ellipses, punctuation.
func Clean(data string) string {
	out := NormalizeWhitespace(data)
	out = StripEnds(out)
	out = StripBrackets(out, true, "", "", "")
	out = StripEllipses(out)
	return NormalizePunctuation(out)
}
