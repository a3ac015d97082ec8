package parsers

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/openlibdev/catalog-export/internal/marc"
)

// Date types attached to parsed personal names.
const (
	DateTypeLived      = "dates lived"
	DateTypeFlourished = "dates flourished"
	DateTypeCenturies  = "approximate centuries"
	DateTypeUnknown    = "unknown date types"
)

// PersonName holds the parsed parts of a personal name heading, such
// as a 100 or 700 field. Zero StartDate or EndDate means the date is
// not present; BCE years are negative.
type PersonName struct {
	Forename           string   `json:"forename"`
	Surname            string   `json:"surname"`
	FamilyName         string   `json:"family_name"`
	FullerFormOfName   string   `json:"fuller_form_of_name"`
	Titles             []string `json:"titles"`
	StartDate          int      `json:"start_date"`
	StartDateQualifier string   `json:"start_date_qualifier"`
	EndDate            int      `json:"end_date"`
	EndDateQualifier   string   `json:"end_date_qualifier"`
	DateType           string   `json:"date_type"`
	FullDates          string   `json:"full_dates"`
	RelationToWork     string   `json:"relation_to_work"`
	Affiliation        string   `json:"affiliation"`
	AuthorizedHeading  string   `json:"authorized_heading"`
}

var (
	familyWordRe  = regexp.MustCompile(`(?i)\s*family\b`)
	commaSplitRe  = regexp.MustCompile(`,\s*`)
	centuriesRe   = regexp.MustCompile(`(?i)^(\d+)(?:st|nd|rd|th)/(\d+)(?:st|nd|rd|th)\s+cent`)
	bceRe         = regexp.MustCompile(`(?i)\bB\.?C\.?E?\.?$`)
	yearRe        = regexp.MustCompile(`\d{3,4}`)
	circaRe       = regexp.MustCompile(`(?i)\bca\.?\s*`)
	orYearRe      = regexp.MustCompile(`(?i)\d\s+or\s+\d`)
	diedPrefixRe  = regexp.MustCompile(`(?i)^d[.~]?\s`)
	bornPrefixRe  = regexp.MustCompile(`(?i)^b[.~]?\s`)
	flPrefixRe    = regexp.MustCompile(`(?i)^fl[.~]?\s*`)
	dateRangeRe   = regexp.MustCompile(`^([^-]*)-(.*)$`)
)

// ParsePersonName parses a personal-name field (100, 600, 700, 800)
// into its component parts: name, titles, and dates.
func ParsePersonName(f *marc.Field) PersonName {
	p := PersonName{Titles: []string{}}
	p.parseName(f)
	p.parseDates(f)
	p.Titles = PersonTitles(f)
	p.FullerFormOfName = StripEnds(f.SubfieldsWhere(marc.SubTagEquals("q")).SubfieldsString(" "))
	p.RelationToWork = StripEnds(f.SubfieldsWhere(marc.SubTagEquals("e")).SubfieldsString(", "))
	p.Affiliation = StripEnds(f.SubfieldsWhere(marc.SubTagEquals("u")).SubfieldsString(" "))
	p.AuthorizedHeading = StripEnds(f.SubfieldsWhere(marc.SubTagIn("a", "b", "c", "d", "q")).SubfieldsString(" "))
	return p
}

// parseName splits the name portion ($a and $b) into forename,
// surname, and family name. A comma between two words means the name
// is inverted (surname first); otherwise the first indicator decides.
func (p *PersonName) parseName(f *marc.Field) {
	data := f.SubfieldsWhere(marc.SubTagIn("a", "b")).SubfieldsString(" ")
	var forename, surname, familyName string
	if HasCommaInMiddle(data) {
		parts := commaSplitRe.Split(data, 2)
		surname, forename = parts[0], parts[1]
	} else if f.Indicators[0] == "0" {
		forename = data
	} else {
		surname = data
		if f.Indicators[0] == "3" || familyWordRe.MatchString(surname) {
			familyName = surname
			surname = familyWordRe.ReplaceAllString(surname, "")
		}
	}
	p.Forename = StripEnds(forename)
	p.Surname = StripEnds(surname)
	p.FamilyName = StripEnds(familyName)
}

// PersonTitles parses the title subfields ($c) of a personal name into
// a list of titles. A single $c may hold several comma-separated
// titles.
func PersonTitles(f *marc.Field) []string {
	titles := []string{}
	for _, sf := range f.SubfieldsWhere(marc.SubTagEquals("c")).Subfields {
		if HasCommaInMiddle(sf.Data) {
			for _, part := range commaSplitRe.Split(sf.Data, -1) {
				if t := StripEnds(part); t != "" {
					titles = append(titles, t)
				}
			}
		} else if t := StripEnds(sf.Data); t != "" {
			titles = append(titles, t)
		}
	}
	return titles
}

// parseDates parses the date subfield ($d) of a personal name. It
// recognizes life-date ranges with circa and "N or M" qualifiers,
// flourished dates, approximate century spans (including BCE), and
// open-ended birth ("1947-") and death ("d. 1803") dates.
func (p *PersonName) parseDates(f *marc.Field) {
	full := StripEnds(f.SubfieldsWhere(marc.SubTagEquals("d")).SubfieldsString(" "))
	if full == "" {
		return
	}
	p.FullDates = full
	if m := centuriesRe.FindStringSubmatch(full); m != nil {
		c1, _ := strconv.Atoi(m[1])
		c2, _ := strconv.Atoi(m[2])
		p.DateType = DateTypeCenturies
		if bceRe.MatchString(full) {
			p.StartDate, p.EndDate = -(c1 * 100), -(c2*100 + 1)
		} else {
			p.StartDate, p.EndDate = (c1-1)*100, c2*100-1
		}
		return
	}

	data, dateType := full, DateTypeLived
	endOnly, startOnly := false, false
	if m := flPrefixRe.FindString(data); m != "" {
		data, dateType = data[len(m):], DateTypeFlourished
	} else if m := diedPrefixRe.FindString(data); m != "" {
		data, endOnly = data[len(m):], true
	} else if m := bornPrefixRe.FindString(data); m != "" {
		data, startOnly = data[len(m):], true
	}

	var startPart, endPart string
	if m := dateRangeRe.FindStringSubmatch(data); m != nil && !endOnly && !startOnly {
		startPart, endPart = m[1], m[2]
	} else if endOnly {
		endPart = data
	} else {
		startPart = data
	}

	var startQual, endQual string
	p.StartDate, startQual = parseYear(startPart)
	p.EndDate, endQual = parseYear(endPart)
	if p.StartDate == 0 && p.EndDate == 0 {
		p.DateType = DateTypeUnknown
		p.StartDateQualifier, p.EndDateQualifier = "", ""
		return
	}
	p.DateType = dateType
	p.StartDateQualifier, p.EndDateQualifier = startQual, endQual
}

// parseYear pulls a 3- or 4-digit year and its qualifier out of one
// side of a date range. "ca." marks circa; "?" and "N or M" spellings
// mark unsure.
func parseYear(part string) (int, string) {
	if strings.TrimSpace(part) == "" {
		return 0, ""
	}
	qualifier := ""
	if circaRe.MatchString(part) {
		qualifier = "circa"
	} else if strings.Contains(part, "?") || orYearRe.MatchString(part) {
		qualifier = "unsure"
	}
	m := yearRe.FindString(part)
	if m == "" {
		return 0, ""
	}
	year, _ := strconv.Atoi(m)
	return year, qualifier
}

// NameStraight formats a person's name in natural order.
func (p PersonName) NameStraight() string {
	return joinNonEmpty(" ", p.Forename, p.Surname)
}

// NameInverted formats a person's name surname-first.
func (p PersonName) NameInverted() string {
	return joinNonEmpty(", ", p.Surname, p.Forename)
}

// FullName formats a person's complete name with titles and dates,
// e.g. "George Gordon Byron Byron, Baron (1788-1824)".
func (p PersonName) FullName() string {
	name := p.NameStraight()
	for _, t := range p.Titles {
		name = joinNonEmpty(", ", name, t)
	}
	if p.FullDates != "" {
		name = joinNonEmpty(" ", name, "("+p.FullDates+")")
	}
	return name
}

func joinNonEmpty(sep string, parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
