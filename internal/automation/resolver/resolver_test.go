package resolver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"applyflow/internal/automation/fields"
	"applyflow/pkg/models"
)

func testProfile() *models.ApplicantProfile {
	return &models.ApplicantProfile{
		Defaults: models.DefaultInfo{
			FirstName:         "Ann",
			LastName:          "Smith",
			FullName:          "Ann Smith",
			Email:             "a@x.com",
			Phone:             "5550001111",
			City:              "Austin",
			State:             "TX",
			Country:           "United States",
			School:            "State University",
			WorkAuthorization: "Yes",
			HowHeard:          "LinkedIn",
		},
	}
}

func TestResolveNamesAlwaysFromDefaults(t *testing.T) {
	profile := testProfile()
	profile.Resume = &models.ResumeData{Name: "Annie Smith"}

	assert.Equal(t, "Ann", Resolve(fields.FirstName, profile))
	assert.Equal(t, "Smith", Resolve(fields.LastName, profile))
	assert.Equal(t, "Ann Smith", Resolve(fields.FullName, profile))
}

func TestResolveContactFieldsPreferResume(t *testing.T) {
	profile := testProfile()
	profile.Resume = &models.ResumeData{
		Email:    "b@y.com",
		Phone:    "555 222\n3333",
		LinkedIn: "https://linkedin.com/in/ann",
	}

	assert.Equal(t, "b@y.com", Resolve(fields.Email, profile))
	assert.Equal(t, "5552223333", Resolve(fields.Phone, profile), "phone whitespace is stripped")
	assert.Equal(t, "https://linkedin.com/in/ann", Resolve(fields.LinkedIn, profile))
}

func TestResolveContactFieldsFallBackToDefaults(t *testing.T) {
	profile := testProfile()

	assert.Equal(t, "a@x.com", Resolve(fields.Email, profile))
	assert.Equal(t, "5550001111", Resolve(fields.Phone, profile))
}

func TestResolveLocationFromResume(t *testing.T) {
	profile := testProfile()
	profile.Resume = &models.ResumeData{Location: "Arlington, TX, United States"}

	assert.Equal(t, "Arlington", Resolve(fields.City, profile))
	assert.Equal(t, "TX", Resolve(fields.State, profile))
	assert.Equal(t, "United States", Resolve(fields.Country, profile))
}

func TestResolveLocationFallsBackWithoutCommas(t *testing.T) {
	profile := testProfile()
	profile.Resume = &models.ResumeData{Location: "Remote"}

	assert.Equal(t, "Austin", Resolve(fields.City, profile))
	assert.Equal(t, "TX", Resolve(fields.State, profile))
}

func TestResolveEducationAndAuthorizationDefaultsOnly(t *testing.T) {
	profile := testProfile()
	profile.Resume = &models.ResumeData{Location: "Arlington, TX"}

	assert.Equal(t, "State University", Resolve(fields.School, profile))
	assert.Equal(t, "Yes", Resolve(fields.WorkAuthorization, profile))
	assert.Equal(t, "LinkedIn", Resolve(fields.HowHeard, profile))

	// No static default configured means: do not fill
	assert.Empty(t, Resolve(fields.Degree, profile))
	assert.Empty(t, Resolve(fields.GREScore, profile))
	assert.Empty(t, Resolve(fields.SecurityClearance, profile))
}

func TestResolveProfessionalFromResumeExperience(t *testing.T) {
	profile := testProfile()
	profile.Resume = &models.ResumeData{
		Experience: []models.Experience{
			{Company: "Initech", Title: "Software Engineer"},
			{Company: "Older Corp", Title: "Junior Engineer"},
		},
	}

	assert.Equal(t, "Initech", Resolve(fields.CurrentCompany, profile))
	assert.Equal(t, "Software Engineer", Resolve(fields.CurrentTitle, profile))
}

func TestResolveSkillsCappedAtTen(t *testing.T) {
	profile := testProfile()
	profile.Resume = &models.ResumeData{
		Skills: []string{"go", "python", "react", "sql", "aws", "docker", "k8s", "terraform", "grpc", "redis", "kafka", "rust"},
	}

	got := Resolve(fields.Skills, profile)
	assert.Len(t, strings.Split(got, ", "), 10)
	assert.NotContains(t, got, "kafka")
	assert.NotContains(t, got, "rust")
}

func TestResolveSkillsEmptyWithoutResume(t *testing.T) {
	assert.Empty(t, Resolve(fields.Skills, testProfile()))
}

func TestResolveCoverLetterAndFile(t *testing.T) {
	profile := testProfile()
	profile.CoverLetter = "Dear Hiring Manager..."
	profile.ResumeFile = "/tmp/resume.pdf"

	assert.Equal(t, "Dear Hiring Manager...", Resolve(fields.CoverLetter, profile))
	assert.Equal(t, "/tmp/resume.pdf", ResolveFile(profile))
}
