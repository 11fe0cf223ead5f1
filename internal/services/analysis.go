package services

import (
	"strings"

	"github.com/yukikurage/bug-journal-api/internal/constants"
)

// DescriptionAnalysis is a keyword based breakdown of a bug description.
type DescriptionAnalysis struct {
	Summary          string   `json:"summary"`
	PotentialCauses  []string `json:"potential_causes"`
	TechnicalDetails []string `json:"technical_details"`
}

var technicalTerms = []string{
	"API", "HTTP", "REST", "GraphQL", "JWT", "OAuth",
	"React", "Vue", "Angular", "DOM", "CSS", "HTML",
	"Node.js", "Express", "MongoDB", "SQL", "PostgreSQL",
	"Docker", "Kubernetes", "CI/CD", "Git",
	"async", "await", "Promise", "callback", "thread",
	"null pointer", "memory leak", "stack overflow", "race condition",
}

var genericCauses = []string{
	"Possible input validation issue",
	"Potential race condition",
	"Possible resource management problem",
}

const noTechnicalDetails = "No specific technical details identified"

// AnalyzeDescription summarizes a description and lists the known technical
// terms it mentions. Matching is a case-insensitive substring search.
func AnalyzeDescription(description string) *DescriptionAnalysis {
	description = strings.TrimSpace(description)
	lower := strings.ToLower(description)

	var found []string
	for _, term := range technicalTerms {
		if strings.Contains(lower, strings.ToLower(term)) {
			found = append(found, term)
		}
	}
	if len(found) == 0 {
		found = []string{noTechnicalDetails}
	}

	causes := make([]string, len(genericCauses))
	copy(causes, genericCauses)

	return &DescriptionAnalysis{
		Summary:          truncate(description, constants.SummaryMaxLength),
		PotentialCauses:  causes,
		TechnicalDetails: found,
	}
}
