// Package fields defines the canonical vocabulary of applicant-data
// categories the automation engine knows how to locate on a page, along
// with the synonym patterns used to recognize each category in arbitrary
// third-party markup.
package fields

import "fmt"

// Type is one canonical category of applicant data
type Type string

const (
	// Identity
	FirstName Type = "first_name"
	LastName  Type = "last_name"
	FullName  Type = "full_name"
	Email     Type = "email"
	Phone     Type = "phone"
	LinkedIn  Type = "linkedin"

	// Address
	City    Type = "city"
	State   Type = "state"
	Country Type = "country"
	ZipCode Type = "zip_code"
	Address Type = "address"

	// Education
	School           Type = "school"
	Degree           Type = "degree"
	Discipline       Type = "discipline"
	GraduationYear   Type = "graduation_year"
	GPAUndergraduate Type = "gpa_undergraduate"
	GPAGraduate      Type = "gpa_graduate"
	GPADoctorate     Type = "gpa_doctorate"
	SATScore         Type = "sat_score"
	ACTScore         Type = "act_score"
	GREScore         Type = "gre_score"

	// Work authorization
	WorkAuthorization  Type = "work_authorization"
	CitizenshipStatus  Type = "citizenship_status"
	SecurityClearance  Type = "security_clearance"
	EssentialFunctions Type = "can_perform_essential_functions"

	// Sourcing
	HowHeard      Type = "how_heard"
	HowHeardOther Type = "how_heard_other"

	// Professional
	CurrentCompany  Type = "current_company"
	CurrentTitle    Type = "current_title"
	YearsExperience Type = "years_experience"
	Skills          Type = "skills"

	// Documents
	CoverLetter  Type = "cover_letter"
	ResumeUpload Type = "resume_upload"
)

// synonyms maps every canonical type to its ordered pattern list. Patterns
// are plain lowercase tokens; matching against live controls is always
// case-insensitive substring matching, so order is a priority hint only.
var synonyms = map[Type][]string{
	FirstName: {"first_name", "firstname", "fname", "given_name", "first-name"},
	LastName:  {"last_name", "lastname", "lname", "family_name", "last-name"},
	FullName:  {"full_name", "fullname", "full-name", "name"},
	Email:     {"email", "e-mail", "email_address", "email-address"},
	Phone:     {"phone", "telephone", "phone_number", "mobile", "cell"},
	LinkedIn:  {"linkedin", "linkedin_url", "linkedin-url", "linkedin_profile"},

	City:    {"city", "town", "location"},
	State:   {"state", "province", "region"},
	Country: {"country", "nation"},
	ZipCode: {"zip", "zip_code", "postal_code", "postcode"},
	Address: {"address", "street_address"},

	School:           {"school", "university", "college", "institution", "university_name", "college_name", "institution_name"},
	Degree:           {"degree", "degree_type", "degree_name"},
	Discipline:       {"discipline", "major", "field_of_study", "major_field", "study_field", "academic_field"},
	GraduationYear:   {"graduation_year", "grad_year", "year_graduated", "graduation_date", "completion_year"},
	GPAUndergraduate: {"gpa_undergraduate", "undergraduate_gpa", "undergrad_gpa", "bachelor_gpa", "gpa"},
	GPAGraduate:      {"gpa_graduate", "graduate_gpa", "masters_gpa", "graduate_school_gpa"},
	GPADoctorate:     {"gpa_doctorate", "doctorate_gpa", "phd_gpa", "doctoral_gpa"},
	SATScore:         {"sat_score", "sat_test_score", "sat_exam_score", "sat_results", "sat"},
	ACTScore:         {"act_score", "act_test_score", "act_exam_score", "act_results", "act"},
	GREScore:         {"gre_score", "gre_test_score", "gre_exam_score", "gre_results", "gre"},

	WorkAuthorization:  {"work_authorization", "authorized_to_work", "work_eligibility", "work_permit", "employment_authorization", "legally authorized to work"},
	CitizenshipStatus:  {"citizenship_status", "citizenship", "nationality", "citizen_status"},
	SecurityClearance:  {"security_clearance", "security_clearances", "government_clearance", "clearance"},
	EssentialFunctions: {"can_perform_essential_functions", "essential_functions", "accommodations", "disability_accommodations"},

	HowHeard:      {"how_heard", "how_did_you_hear", "referral_source", "application_source", "source"},
	HowHeardOther: {"how_heard_other", "other_source", "specify_source", "please specify"},

	CurrentCompany:  {"current_company", "current_employer", "employer", "company"},
	CurrentTitle:    {"current_title", "job_title", "current_position", "position"},
	YearsExperience: {"years_experience", "experience_years", "experience"},
	Skills:          {"skills", "technical_skills", "competencies", "expertise"},

	CoverLetter:  {"cover_letter", "coverletter", "why_join", "motivation", "message"},
	ResumeUpload: {"resume", "cv", "resume_file", "cv_file", "attachment"},
}

// Synonyms returns the ordered pattern list for a canonical type. An
// unknown type is a programming error and panics.
func Synonyms(t Type) []string {
	patterns, ok := synonyms[t]
	if !ok {
		panic(fmt.Sprintf("fields: unknown canonical field type %q", t))
	}
	return patterns
}

// fillOrder is the fixed priority in which a session attempts discovery
// and fill: identity first, then location, education, work authorization,
// sourcing, professional data, skills and the cover letter last. FullName
// is deliberately absent; it is only tried as a fallback when neither
// name half was filled.
var fillOrder = []Type{
	FirstName, LastName, Email, Phone, LinkedIn,
	City, State, Country, ZipCode, Address,
	School, Degree, Discipline, GraduationYear,
	GPAUndergraduate, GPAGraduate, GPADoctorate,
	SATScore, ACTScore, GREScore,
	WorkAuthorization, CitizenshipStatus, SecurityClearance, EssentialFunctions,
	HowHeard, HowHeardOther,
	CurrentCompany, CurrentTitle, YearsExperience,
	Skills,
	CoverLetter,
}

// FillOrder returns the canonical fill priority for text-like fields.
// The resume upload is handled by a dedicated file path and is not part
// of this list.
func FillOrder() []Type {
	out := make([]Type, len(fillOrder))
	copy(out, fillOrder)
	return out
}

// All returns every canonical field type, including those outside the
// regular fill order.
func All() []Type {
	out := make([]Type, 0, len(synonyms))
	for t := range synonyms {
		out = append(out, t)
	}
	return out
}

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}
