package domain

import (
	"strings"
	"time"

	"github.com/cwrk-planet/creator-hub/internal/errs"
)

type Skill string

const (
	SkillVideo Skill = "Video creation"
	SkillPhoto Skill = "Photo Creation"
)

func ParseSkill(s string) (Skill, error) {
	switch Skill(strings.TrimSpace(s)) {
	case SkillVideo:
		return SkillVideo, nil
	case SkillPhoto:
		return SkillPhoto, nil
	default:
		return "", errs.Invalid("primarySkill", "must be one of Video creation, Photo Creation")
	}
}

type Profile struct {
	UserID         UserID
	FirstName      string
	LastName       string
	UserName       *string
	DateOfBirth    *time.Time
	Description    *string
	ProfilePicture *string
	PrimarySkill   *Skill
	Experience     *int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ProfilePatch holds the fields of a partial profile update. Nil means untouched.
type ProfilePatch struct {
	FirstName      *string
	LastName       *string
	DateOfBirth    *time.Time
	Description    *string
	ProfilePicture *string
	PrimarySkill   *Skill
	Experience     *int
}

func (p ProfilePatch) IsEmpty() bool {
	return p.FirstName == nil &&
		p.LastName == nil &&
		p.DateOfBirth == nil &&
		p.Description == nil &&
		p.ProfilePicture == nil &&
		p.PrimarySkill == nil &&
		p.Experience == nil
}

func (p ProfilePatch) Validate() error {
	var fields []errs.FieldError
	if p.FirstName != nil && strings.TrimSpace(*p.FirstName) == "" {
		fields = append(fields, errs.FieldError{Field: "firstName", Message: "must not be empty"})
	}
	if p.LastName != nil && strings.TrimSpace(*p.LastName) == "" {
		fields = append(fields, errs.FieldError{Field: "lastName", Message: "must not be empty"})
	}
	if p.Experience != nil && *p.Experience < 1 {
		fields = append(fields, errs.FieldError{Field: "experience", Message: "must be at least 1"})
	}
	if len(fields) > 0 {
		return errs.Validation("validation failed", fields...)
	}

	return nil
}

// Apply merges the patch into the profile. userName is regenerated only
// when both name parts are present in the same patch.
func (pr *Profile) Apply(p ProfilePatch, now time.Time) {
	if p.FirstName != nil {
		pr.FirstName = strings.TrimSpace(*p.FirstName)
	}
	if p.LastName != nil {
		pr.LastName = strings.TrimSpace(*p.LastName)
	}
	if p.FirstName != nil && p.LastName != nil {
		pr.UserName = DisplayName(pr.FirstName, pr.LastName)
	}
	if p.DateOfBirth != nil {
		pr.DateOfBirth = p.DateOfBirth
	}
	if p.Description != nil {
		pr.Description = p.Description
	}
	if p.ProfilePicture != nil {
		pr.ProfilePicture = p.ProfilePicture
	}
	if p.PrimarySkill != nil {
		pr.PrimarySkill = p.PrimarySkill
	}
	if p.Experience != nil {
		pr.Experience = p.Experience
	}
	if pr.CreatedAt.IsZero() {
		pr.CreatedAt = now
	}
	pr.UpdatedAt = now
}

// ProfileFromUser seeds a profile with the fields already stored on the user.
func ProfileFromUser(u *User) *Profile {
	return &Profile{
		UserID:         u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		UserName:       u.UserName,
		DateOfBirth:    u.DateOfBirth,
		Description:    u.Description,
		ProfilePicture: u.ProfilePicture,
		PrimarySkill:   u.PrimarySkill,
		Experience:     u.Experience,
	}
}
