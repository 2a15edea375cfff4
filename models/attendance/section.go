package attendance

import "fmt"

// Section is a class group identifier.
type Section string

const (
	Section1A Section = "1A"
	Section1B Section = "1B"
	Section2  Section = "2"
	Section3  Section = "3"
	Section4  Section = "4"
	Section5  Section = "5"
)

var sections = []Section{Section1A, Section1B, Section2, Section3, Section4, Section5}

// Sections returns the fixed section enumeration in display order.
func Sections() []Section {
	out := make([]Section, len(sections))
	copy(out, sections)
	return out
}

func (s Section) Valid() bool {
	for _, v := range sections {
		if s == v {
			return true
		}
	}
	return false
}

func ParseSection(s string) (Section, error) {
	sec := Section(s)
	if !sec.Valid() {
		return "", fmt.Errorf("invalid section %q", s)
	}
	return sec, nil
}
