package analyzer

import (
	"regexp"
	"strings"

	"github.com/yoockh/resumeats/internal/models"
)

var (
	reContact    = regexp.MustCompile(`(?i)(email|phone|address|contact)`)
	reSummary    = regexp.MustCompile(`(?i)(summary|objective|profile)`)
	reExperience = regexp.MustCompile(`(?i)(experience|work history|employment)`)
	reEducation  = regexp.MustCompile(`(?i)(education|degree|university|college)`)
	reSkills     = regexp.MustCompile(`(?i)(skills|technical|competencies)`)

	reDigits      = regexp.MustCompile(`\d+`)
	reActionWords = regexp.MustCompile(`(?i)(managed|developed|created|implemented|led|designed|built|improved|increased|reduced)`)
)

const sectionTypes = 5

// AnalyzeStructure reports which resume sections appear to be present.
func AnalyzeStructure(text string) models.ResumeStructure {
	s := models.SectionPresence{
		Contact:    reContact.MatchString(text),
		Summary:    reSummary.MatchString(text),
		Experience: reExperience.MatchString(text),
		Education:  reEducation.MatchString(text),
		Skills:     reSkills.MatchString(text),
	}

	present := 0
	for _, ok := range []bool{s.Contact, s.Summary, s.Experience, s.Education, s.Skills} {
		if ok {
			present++
		}
	}

	return models.ResumeStructure{
		Sections:       s,
		WordCount:      WordCount(text),
		HasNumbers:     reDigits.MatchString(text),
		HasActionVerbs: reActionWords.MatchString(text),
		Completeness:   float64(present) / sectionTypes * 100,
	}
}

func WordCount(text string) int {
	return len(strings.Fields(text))
}
