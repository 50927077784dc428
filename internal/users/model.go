package users

import (
	"strings"
	"time"
)

type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	GivenName  string    `json:"givenName"`
	FamilyName string    `json:"familyName"`
	PictureURL string    `json:"pictureUrl"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// DisplayName prefers the full name and falls back to the email local part.
func (u User) DisplayName() string {
	if n := strings.TrimSpace(u.FullName); n != "" {
		return n
	}
	if n := strings.TrimSpace(strings.TrimSpace(u.GivenName + " " + u.FamilyName)); n != "" {
		return n
	}
	if at := strings.IndexByte(u.Email, '@'); at > 0 {
		return u.Email[:at]
	}
	return u.Email
}

// Activity is the job search progress shown next to the profile.
type Activity struct {
	Favorites    int    `json:"favorites"`
	CoverLetters int    `json:"coverLetters"`
	ResumeStatus string `json:"resumeStatus"`
	ResumeStep   string `json:"resumeStep,omitempty"`
}
