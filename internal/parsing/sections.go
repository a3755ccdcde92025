package parsing

import (
	"regexp"
	"strings"
)

type section string

const (
	sectionNone       section = ""
	sectionSkills     section = "skills"
	sectionEducation  section = "education"
	sectionExperience section = "experience"
	sectionOther      section = "other"
)

var sectionHeadings = map[string]section{
	"skills":                  sectionSkills,
	"technical skills":        sectionSkills,
	"core competencies":       sectionSkills,
	"technologies":            sectionSkills,
	"tools & technologies":    sectionSkills,
	"skills & tools":          sectionSkills,
	"education":               sectionEducation,
	"academic background":     sectionEducation,
	"education & training":    sectionEducation,
	"experience":              sectionExperience,
	"work experience":         sectionExperience,
	"professional experience": sectionExperience,
	"employment":              sectionExperience,
	"employment history":      sectionExperience,
	"work history":            sectionExperience,
	"career history":          sectionExperience,
	"summary":                 sectionOther,
	"profile":                 sectionOther,
	"professional summary":    sectionOther,
	"objective":               sectionOther,
	"projects":                sectionOther,
	"personal projects":       sectionOther,
	"certifications":          sectionOther,
	"awards":                  sectionOther,
	"publications":            sectionOther,
	"interests":               sectionOther,
	"languages":               sectionOther,
	"references":              sectionOther,
	"contact":                 sectionOther,
	"volunteering":            sectionOther,
}

var headingTrim = regexp.MustCompile(`^[#=*\-\s]+|[#=*:\-\s]+$`)

// line is one trimmed line of résumé text tagged with its section.
type line struct {
	text    string
	offset  int
	section section
	heading bool
}

// splitSections trims every line and tags it with the section heading that
// precedes it. Blank lines are kept (text "") so block boundaries survive.
func splitSections(text string) []line {
	var (
		out     []line
		current = sectionNone
		offset  int
	)
	for _, raw := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(raw)
		l := line{text: trimmed, offset: offset, section: current}
		if s, ok := headingSection(trimmed); ok {
			current = s
			l.section = s
			l.heading = true
		}
		out = append(out, l)
		offset += len(raw) + 1
	}
	return out
}

func headingSection(text string) (section, bool) {
	if text == "" || len(text) > 40 {
		return sectionNone, false
	}
	key := strings.ToLower(headingTrim.ReplaceAllString(text, ""))
	key = strings.Join(strings.Fields(key), " ")
	key = strings.ReplaceAll(key, " and ", " & ")
	s, ok := sectionHeadings[key]
	return s, ok
}

func hasSection(lines []line, s section) bool {
	for _, l := range lines {
		if l.heading && l.section == s {
			return true
		}
	}
	return false
}
