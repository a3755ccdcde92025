package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSkillName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"golang", "Go"},
		{"GoLang", "Go"},
		{"js", "JavaScript"},
		{"K8S", "Kubernetes"},
		{"nodejs", "Node.js"},
		{"postgres", "PostgreSQL"},
		{"PYTHON", "Python"},
		{"python", "Python"},
		{"FastAPI", "FastAPI"},
		{"terraform", "Terraform"},
		{"rust", "Rust"},
		{"HTTP", "HTTP"},
		{"  distributed   systems ", "distributed systems"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeSkillName(tt.input))
		})
	}
}

func TestNormalizeSkills(t *testing.T) {
	got := NormalizeSkills([]string{"golang", "Go", "", "react.js", "React", "python", "  "})
	assert.Equal(t, []string{"Go", "React", "Python"}, got)

	assert.NotNil(t, NormalizeSkills(nil))
	assert.Empty(t, NormalizeSkills(nil))
}

func TestDetectSkillCategory(t *testing.T) {
	assert.Equal(t, SkillCategoryProgramming, DetectSkillCategory("golang"))
	assert.Equal(t, SkillCategoryFramework, DetectSkillCategory("React"))
	assert.Equal(t, SkillCategoryDatabase, DetectSkillCategory("postgres"))
	assert.Equal(t, SkillCategoryCloud, DetectSkillCategory("k8s"))
	assert.Equal(t, SkillCategoryTool, DetectSkillCategory("GitHub"))
	assert.Equal(t, SkillCategorySoftSkill, DetectSkillCategory("mentoring"))
	assert.Equal(t, SkillCategoryOther, DetectSkillCategory("Underwater basket weaving"))
}

func TestFindDictionarySkills_Boundaries(t *testing.T) {
	names := func(text string) []string {
		var out []string
		for _, h := range findDictionarySkills(text) {
			out = append(out, h.name)
		}
		return out
	}

	assert.Contains(t, names("Wrote C++ and C# daily"), "C++")
	assert.Contains(t, names("Wrote C++ and C# daily"), "C#")
	assert.NotContains(t, names("JavaScript only"), "Java")
	assert.NotContains(t, names("MySQL admin"), "SQL")
	assert.NotContains(t, names("let's go to market"), "Go")
	assert.Contains(t, names("Services in Go."), "Go")
	assert.NotContains(t, names("spring cleaning"), "Spring")
	assert.Contains(t, names("Deployed to k8s via CI/CD"), "Kubernetes")
	assert.Contains(t, names("Deployed to k8s via CI/CD"), "CI/CD")
}
