package models

type SignInRequest struct {
	Username string `json:"username" form:"username" validate:"required,min=3,max=64,alphanum"`
	Password string `json:"password" form:"password" validate:"required,min=8,max=128"`
}

type SignInResponse struct {
	Token string     `json:"token"`
	User  UserPublic `json:"user"`
	Next  string     `json:"next"`
}

type UserPublic struct {
	Username string `json:"username"`
}

type SessionResponse struct {
	IsAuthenticated bool        `json:"isAuthenticated"`
	User            *UserPublic `json:"user,omitempty"`
}

// UploadForm carries the text fields of the single-document upload.
type UploadForm struct {
	CompanyName    string `form:"company-name" validate:"required"`
	JobTitle       string `form:"job-title" validate:"required"`
	JobDescription string `form:"job-description" validate:"required"`
}

type AnalyzeResponse struct {
	ID        string        `json:"id"`
	State     AnalysisState `json:"state"`
	StatusURL string        `json:"status_url"`
}

type AnalysisStatusResponse struct {
	ID     string        `json:"id"`
	State  AnalysisState `json:"state"`
	Status string        `json:"status"`
	Done   bool          `json:"done"`
	Failed bool          `json:"failed"`
	Next   string        `json:"next,omitempty"`
	Steps  []string      `json:"steps"`
}

type ResumeListResponse struct {
	Resumes []ResumeRecord `json:"resumes"`
	Skipped int            `json:"skipped"`
}

type ResumeDetailResponse struct {
	ID                     string           `json:"id"`
	CompanyName            string           `json:"companyName"`
	JobTitle               string           `json:"jobTitle"`
	JobDescription         string           `json:"jobDescription"`
	ResumeURL              string           `json:"resumeUrl,omitempty"`
	ImageURL               string           `json:"imageUrl,omitempty"`
	JobDescriptionURL      string           `json:"jobDescriptionUrl,omitempty"`
	JobDescriptionImageURL string           `json:"jobDescriptionImageUrl,omitempty"`
	HasJobDescription      bool             `json:"hasJobDescription"`
	Pending                bool             `json:"pending"`
	Summary                *FeedbackSummary `json:"summary,omitempty"`
	ATS                    *ATSFeedback     `json:"ats,omitempty"`
	Details                []NamedCategory  `json:"details,omitempty"`
}

type FeedbackSummary struct {
	OverallScore float64         `json:"overallScore"`
	Categories   []CategoryScore `json:"categories"`
}

type CategoryScore struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}
