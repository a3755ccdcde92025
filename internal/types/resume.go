package types

// EducationEntry is one education item recovered from a résumé.
type EducationEntry struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

// ExperienceEntry is one employment item recovered from a résumé.
type ExperienceEntry struct {
	Employer    string `json:"employer"`
	Title       string `json:"title"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Description string `json:"description"`
}

// StructuredResumeData is the structured view of a résumé. The three
// sequences are always present; use NewStructuredResumeData or Normalize so
// they serialize as [] rather than null.
type StructuredResumeData struct {
	Skills      []string          `json:"skills"`
	Education   []EducationEntry  `json:"education"`
	Experiences []ExperienceEntry `json:"experiences"`
}

// NewStructuredResumeData returns a record with three empty sequences.
func NewStructuredResumeData() StructuredResumeData {
	return StructuredResumeData{
		Skills:      []string{},
		Education:   []EducationEntry{},
		Experiences: []ExperienceEntry{},
	}
}

// Normalize replaces nil sequences with empty ones.
func (d StructuredResumeData) Normalize() StructuredResumeData {
	if d.Skills == nil {
		d.Skills = []string{}
	}
	if d.Education == nil {
		d.Education = []EducationEntry{}
	}
	if d.Experiences == nil {
		d.Experiences = []ExperienceEntry{}
	}
	return d
}

// IsEmpty reports whether nothing was extracted.
func (d StructuredResumeData) IsEmpty() bool {
	return len(d.Skills) == 0 && len(d.Education) == 0 && len(d.Experiences) == 0
}

// ParsedData is the parsed_data block of an upload response.
type ParsedData struct {
	Experiences []ExperienceEntry `json:"experiences"`
	Education   []EducationEntry  `json:"education"`
	Skills      []string          `json:"skills"`
	RawText     string            `json:"raw_text"`
}

// UploadResponse is returned by POST /resume/upload.
type UploadResponse struct {
	Message    string     `json:"message"`
	ParsedData ParsedData `json:"parsed_data"`
}

// ResumeTextResponse is returned by GET /resume/text.
type ResumeTextResponse struct {
	ResumeText string `json:"resume_text"`
}
