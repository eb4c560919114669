package models

// DefaultInfo is the owner-supplied static applicant record. It is always
// present and backs every canonical field that resumes do not encode
// reliably (education, work authorization, sourcing answers).
type DefaultInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	LinkedIn  string `json:"linkedin,omitempty"`

	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
	ZipCode string `json:"zip_code,omitempty"`
	Address string `json:"address,omitempty"`

	School           string `json:"school,omitempty"`
	Degree           string `json:"degree,omitempty"`
	Discipline       string `json:"discipline,omitempty"`
	GraduationYear   string `json:"graduation_year,omitempty"`
	GPAUndergraduate string `json:"gpa_undergraduate,omitempty"`
	GPAGraduate      string `json:"gpa_graduate,omitempty"`
	GPADoctorate     string `json:"gpa_doctorate,omitempty"`
	SATScore         string `json:"sat_score,omitempty"`
	ACTScore         string `json:"act_score,omitempty"`
	GREScore         string `json:"gre_score,omitempty"`

	WorkAuthorization  string `json:"work_authorization,omitempty"`
	CitizenshipStatus  string `json:"citizenship_status,omitempty"`
	SecurityClearance  string `json:"security_clearance,omitempty"`
	EssentialFunctions string `json:"can_perform_essential_functions,omitempty"`

	HowHeard      string `json:"how_heard,omitempty"`
	HowHeardOther string `json:"how_heard_other,omitempty"`

	CurrentCompany  string `json:"current_company,omitempty"`
	CurrentTitle    string `json:"current_title,omitempty"`
	YearsExperience string `json:"years_experience,omitempty"`
}

// Experience is a single work history entry from a parsed resume
type Experience struct {
	Company  string `json:"company"`
	Title    string `json:"title"`
	Duration string `json:"duration,omitempty"`
}

// ResumeData is the resume-derived applicant record produced by the
// external tailoring step. Optional; fields may be empty.
type ResumeData struct {
	Name       string       `json:"name,omitempty"`
	Email      string       `json:"email,omitempty"`
	Phone      string       `json:"phone,omitempty"`
	LinkedIn   string       `json:"linkedin,omitempty"`
	Location   string       `json:"location,omitempty"` // "City, ST, Country"
	Skills     []string     `json:"skills,omitempty"`
	Experience []Experience `json:"experience,omitempty"`
}

// ApplicantProfile is the union of the static default record, the optional
// resume-derived record and the generated cover letter, resolved per field
// by the value resolver's fixed precedence policy.
type ApplicantProfile struct {
	Defaults    DefaultInfo `json:"defaults"`
	Resume      *ResumeData `json:"resume,omitempty"`
	CoverLetter string      `json:"cover_letter,omitempty"`
	ResumeFile  string      `json:"resume_file,omitempty"` // local path for file uploads
}
