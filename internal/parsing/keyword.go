package parsing

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/onelink/portfolio-api/internal/types"
)

const (
	monthPattern = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?`
	datePattern  = `(?:` + monthPattern + `\s+\d{4}|\d{1,2}/\d{4}|\d{4})`
	endPattern   = `(?:` + datePattern + `|present|current|now|today)`
)

var (
	dateRangeRe   = regexp.MustCompile(`(?i)\b(` + datePattern + `)\s*(?:-|–|—|to|until)\s*(` + endPattern + `)\b`)
	yearRe        = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	degreeRe      = regexp.MustCompile(`(?i)(?:^|[^a-z])(bachelor(?:'s)?|master(?:'s)?|ph\.?\s?d\.?|doctorate|mba|b\.\s?s\.?|b\.\s?a\.?|m\.\s?s\.?|m\.\s?a\.?|b\.?sc|m\.?sc|b\.?eng|m\.?eng|b\.?tech|m\.?tech|associate(?:'s)?\s+degree|diploma)(?:[^a-z]|$)`)
	institutionRe = regexp.MustCompile(`(?i)\b(?:university|college|institute|school|academy|polytechnic)\b`)
	segmentSepRe  = regexp.MustCompile(`\s+[|–—-]\s+|\s*[,;]\s+|\s*\|\s*`)
	listSepRe     = regexp.MustCompile(`\s*[,;|•·]\s*`)
)

const separatorCutset = " \t,;|-–—()·•:"

// KeywordExtractor derives structured data with deterministic heuristics:
// a skill dictionary, section headings, degree and institution keywords,
// and date ranges.
type KeywordExtractor struct{}

// NewKeywordExtractor creates a KeywordExtractor.
func NewKeywordExtractor() *KeywordExtractor {
	return &KeywordExtractor{}
}

// Extract implements Extractor.
func (KeywordExtractor) Extract(_ context.Context, text string) types.StructuredResumeData {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := splitSections(text)

	return types.StructuredResumeData{
		Skills:      extractSkills(text, lines),
		Education:   extractEducation(lines),
		Experiences: extractExperiences(lines),
	}.Normalize()
}

func extractSkills(text string, lines []line) []string {
	hits := findDictionarySkills(text)

	for _, l := range lines {
		if l.section != sectionSkills || l.heading || l.text == "" {
			continue
		}
		list := stripBullet(l.text)
		if i := strings.Index(list, ":"); i >= 0 {
			list = list[i+1:]
		}
		for _, item := range listSepRe.Split(list, -1) {
			item = strings.Trim(item, separatorCutset+".")
			if item == "" || len(item) > 40 || len(strings.Fields(item)) > 4 {
				continue
			}
			hits = append(hits, skillHit{pos: l.offset + strings.Index(l.text, item), name: item})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })
	names := make([]string, len(hits))
	for i, h := range hits {
		names[i] = h.name
	}
	return NormalizeSkills(names)
}

// scopedLines returns the lines of section s when the résumé has that
// heading, otherwise every line outside the excluded sections.
func scopedLines(lines []line, s section, exclude ...section) []line {
	explicit := hasSection(lines, s)
	var out []line
	for _, l := range lines {
		if l.heading {
			continue
		}
		if explicit {
			if l.section == s {
				out = append(out, l)
			}
			continue
		}
		excluded := false
		for _, e := range exclude {
			if l.section == e {
				excluded = true
				break
			}
		}
		if !excluded {
			out = append(out, l)
		}
	}
	return out
}

func extractEducation(lines []line) []types.EducationEntry {
	var (
		entries []types.EducationEntry
		cur     types.EducationEntry
	)
	flush := func() {
		if cur.Institution != "" || cur.Degree != "" {
			entries = append(entries, cur)
		}
		cur = types.EducationEntry{}
	}

	for _, l := range scopedLines(lines, sectionEducation, sectionExperience, sectionSkills) {
		if l.text == "" {
			flush()
			continue
		}

		start, end, rest := splitDates(l.text)
		segments := splitSegments(rest)

		inst, deg, field := "", "", ""
		for i, seg := range segments {
			switch {
			case inst == "" && institutionRe.MatchString(seg):
				inst = seg
			case deg == "" && degreeRe.MatchString(seg):
				deg, field = splitDegree(seg)
				if field == "" && i+1 < len(segments) && !institutionRe.MatchString(segments[i+1]) {
					field = segments[i+1]
				}
			}
		}
		if inst == "" && deg == "" {
			if cur.Institution != "" || cur.Degree != "" {
				fillDates(&cur.StartDate, &cur.EndDate, start, end)
			}
			continue
		}

		if (inst != "" && cur.Institution != "") || (deg != "" && cur.Degree != "") {
			flush()
		}
		if inst != "" {
			cur.Institution = inst
		}
		if deg != "" {
			cur.Degree = deg
			cur.Field = field
		}
		fillDates(&cur.StartDate, &cur.EndDate, start, end)
	}
	flush()
	return entries
}

func extractExperiences(lines []line) []types.ExperienceEntry {
	scoped := scopedLines(lines, sectionExperience, sectionEducation, sectionSkills)

	type anchor struct {
		rangeIdx  int
		headerIdx int
		header    string
		start     string
		end       string
	}
	var anchors []anchor
	for i, l := range scoped {
		m := dateRangeRe.FindStringSubmatchIndex(l.text)
		if m == nil {
			continue
		}
		a := anchor{
			rangeIdx:  i,
			headerIdx: i,
			start:     strings.TrimSpace(l.text[m[2]:m[3]]),
			end:       strings.TrimSpace(l.text[m[4]:m[5]]),
			header:    strings.Trim(l.text[:m[0]]+" "+l.text[m[1]:], separatorCutset),
		}
		floor := 0
		if n := len(anchors); n > 0 {
			floor = anchors[n-1].rangeIdx + 1
		}
		if a.header == "" && i-1 >= floor && scoped[i-1].text != "" {
			a.header = strings.Trim(scoped[i-1].text, separatorCutset)
			a.headerIdx = i - 1
		}
		anchors = append(anchors, a)
	}

	entries := make([]types.ExperienceEntry, 0, len(anchors))
	for k, a := range anchors {
		stop := len(scoped)
		if k+1 < len(anchors) {
			stop = anchors[k+1].headerIdx
		}
		var desc []string
		for _, l := range scoped[a.rangeIdx+1 : stop] {
			if t := stripBullet(l.text); t != "" {
				desc = append(desc, t)
			}
		}

		title, employer := splitTitleEmployer(a.header)
		entries = append(entries, types.ExperienceEntry{
			Employer:    employer,
			Title:       title,
			StartDate:   a.start,
			EndDate:     a.end,
			Description: strings.Join(desc, "\n"),
		})
	}
	return entries
}

// splitDates removes a date range (or bare years) from s and returns them.
func splitDates(s string) (start, end, rest string) {
	if m := dateRangeRe.FindStringSubmatchIndex(s); m != nil {
		return strings.TrimSpace(s[m[2]:m[3]]), strings.TrimSpace(s[m[4]:m[5]]), s[:m[0]] + " " + s[m[1]:]
	}
	years := yearRe.FindAllString(s, -1)
	switch {
	case len(years) == 1:
		end = years[0]
	case len(years) > 1:
		start, end = years[0], years[len(years)-1]
	}
	return start, end, yearRe.ReplaceAllString(s, "")
}

func fillDates(start, end *string, s, e string) {
	if *start == "" {
		*start = s
	}
	if *end == "" {
		*end = e
	}
}

func splitSegments(s string) []string {
	var out []string
	for _, seg := range segmentSepRe.Split(s, -1) {
		if seg = strings.Trim(seg, separatorCutset); seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

// splitDegree splits "B.S. in Computer Science" into degree and field.
func splitDegree(seg string) (degree, field string) {
	if i := strings.LastIndex(strings.ToLower(seg), " in "); i > 0 {
		return strings.TrimSpace(seg[:i]), strings.TrimSpace(seg[i+4:])
	}
	return seg, ""
}

// splitTitleEmployer reads "Title at Employer" or "Title | Employer" style headers.
func splitTitleEmployer(header string) (title, employer string) {
	if i := strings.Index(strings.ToLower(header), " at "); i > 0 {
		return strings.TrimSpace(header[:i]), strings.Trim(header[i+4:], separatorCutset)
	}
	segments := splitSegments(header)
	switch len(segments) {
	case 0:
		return "", ""
	case 1:
		return segments[0], ""
	default:
		return segments[0], segments[1]
	}
}

func stripBullet(s string) string {
	return strings.TrimSpace(strings.TrimLeft(s, "-*•·▪ \t"))
}
