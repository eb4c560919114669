// Package resolver computes the concrete value to write into a discovered
// form control from an applicant profile, applying a fixed precedence
// between the static default record and resume-derived data.
package resolver

import (
	"regexp"
	"strings"

	"applyflow/internal/automation/fields"
	"applyflow/pkg/models"
)

// maxSkills bounds the skills list joined into short-text controls
const maxSkills = 10

var whitespaceRE = regexp.MustCompile(`[\n\s]`)

// Resolve returns the string value for a canonical field type, or empty
// when no value can be derived (meaning: do not attempt to fill).
//
// Precedence is a fixed policy: names always come from the static default
// record; contact fields prefer resume-derived data and fall back to the
// defaults; education, authorization and sourcing fields consult only the
// defaults because resumes rarely encode them reliably.
func Resolve(t fields.Type, profile *models.ApplicantProfile) string {
	d := profile.Defaults
	resume := profile.Resume

	switch t {
	case fields.FirstName:
		return d.FirstName
	case fields.LastName:
		return d.LastName
	case fields.FullName:
		return d.FullName

	case fields.Email:
		if resume != nil && resume.Email != "" {
			return resume.Email
		}
		return d.Email

	case fields.Phone:
		if resume != nil && resume.Phone != "" {
			return whitespaceRE.ReplaceAllString(resume.Phone, "")
		}
		return d.Phone

	case fields.LinkedIn:
		if resume != nil && resume.LinkedIn != "" {
			return resume.LinkedIn
		}
		return d.LinkedIn

	case fields.City:
		if part := locationPart(resume, 0); part != "" {
			return part
		}
		return d.City

	case fields.State:
		if part := locationPart(resume, 1); part != "" {
			return part
		}
		return d.State

	case fields.Country:
		if part := locationPart(resume, 2); part != "" {
			return part
		}
		return d.Country

	case fields.ZipCode:
		return d.ZipCode
	case fields.Address:
		return d.Address

	case fields.School:
		return d.School
	case fields.Degree:
		return d.Degree
	case fields.Discipline:
		return d.Discipline
	case fields.GraduationYear:
		return d.GraduationYear
	case fields.GPAUndergraduate:
		return d.GPAUndergraduate
	case fields.GPAGraduate:
		return d.GPAGraduate
	case fields.GPADoctorate:
		return d.GPADoctorate
	case fields.SATScore:
		return d.SATScore
	case fields.ACTScore:
		return d.ACTScore
	case fields.GREScore:
		return d.GREScore

	case fields.WorkAuthorization:
		return d.WorkAuthorization
	case fields.CitizenshipStatus:
		return d.CitizenshipStatus
	case fields.SecurityClearance:
		return d.SecurityClearance
	case fields.EssentialFunctions:
		return d.EssentialFunctions

	case fields.HowHeard:
		return d.HowHeard
	case fields.HowHeardOther:
		return d.HowHeardOther

	case fields.CurrentCompany:
		if resume != nil && len(resume.Experience) > 0 && resume.Experience[0].Company != "" {
			return resume.Experience[0].Company
		}
		return d.CurrentCompany

	case fields.CurrentTitle:
		if resume != nil && len(resume.Experience) > 0 && resume.Experience[0].Title != "" {
			return resume.Experience[0].Title
		}
		return d.CurrentTitle

	case fields.YearsExperience:
		return d.YearsExperience

	case fields.Skills:
		if resume == nil || len(resume.Skills) == 0 {
			return ""
		}
		skills := resume.Skills
		if len(skills) > maxSkills {
			skills = skills[:maxSkills]
		}
		return strings.Join(skills, ", ")

	case fields.CoverLetter:
		return profile.CoverLetter

	default:
		return ""
	}
}

// ResolveFile returns the local file path for the resume upload, or empty
// when no file is configured.
func ResolveFile(profile *models.ApplicantProfile) string {
	return profile.ResumeFile
}

// locationPart splits a resume location of the form "City, ST, Country"
// and returns the requested segment, or empty when unavailable.
func locationPart(resume *models.ResumeData, idx int) string {
	if resume == nil || !strings.Contains(resume.Location, ",") {
		return ""
	}
	parts := strings.Split(resume.Location, ",")
	if idx >= len(parts) {
		return ""
	}
	return strings.TrimSpace(parts[idx])
}
