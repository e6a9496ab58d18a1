// internal/model/organization.go
package model

// Organization is the company profile returned by the scraping service.
type Organization struct {
	URL          string `json:"url"`
	CompanyName  string `json:"companyName"`
	About        string `json:"about"`
	Website      string `json:"website"`
	Industry     string `json:"industry"`
	CompanySize  string `json:"companySize"`
	Headquarters string `json:"headquarters"`
	Founded      string `json:"founded"`
	Type         string `json:"type"`
	Specialties  string `json:"specialties"`
	AvatarURL    string `json:"avatarUrl"`
	Error        string `json:"error,omitempty"`
}

// SenderDetails describes who the drafted email is written on behalf of.
type SenderDetails struct {
	Name         string `json:"name" validate:"required"`
	Position     string `json:"position" validate:"required"`
	Organization string `json:"organization" validate:"required"`
}
