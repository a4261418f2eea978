package parse

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	officeRe    = regexp.MustCompile(`^([A-Za-z]+)\s*[-_ ]?\s*(\d+)([A-Za-z]?)$`)
	structureRe = regexp.MustCompile(`(?i)\b(building|lab|laboratory|hall|center|centre|library|annex)$`)
	spaceRe     = regexp.MustCompile(`\s+`)
)

// ParsedOffice holds the structured data parsed from an office code such as "CS-201".
type ParsedOffice struct {
	Prefix string // Building prefix, upper-cased
	Room   string // Room number including any letter suffix
}

// ParseOffice extracts building prefix and room from a raw office code.
func ParseOffice(raw string) (ParsedOffice, error) {
	s := strings.TrimSpace(spaceRe.ReplaceAllString(raw, " "))

	m := officeRe.FindStringSubmatch(s)
	if m == nil {
		return ParsedOffice{}, fmt.Errorf("unable to parse office code: %q", raw)
	}

	return ParsedOffice{
		Prefix: strings.ToUpper(m[1]),
		Room:   m[2] + strings.ToUpper(m[3]),
	}, nil
}

// FormatLocation renders a human-readable location such as
// "Computer Science Building - Room 201".
func FormatLocation(buildingName string, office ParsedOffice) string {
	name := strings.TrimSpace(spaceRe.ReplaceAllString(buildingName, " "))
	if name == "" {
		name = office.Prefix
	}
	if !structureRe.MatchString(name) {
		name += " Building"
	}
	if office.Room == "" {
		return name
	}
	return fmt.Sprintf("%s - Room %s", name, office.Room)
}
