package http

import (
	"time"

	"github.com/cwrk-planet/creator-hub/internal/domain"
	"github.com/cwrk-planet/creator-hub/internal/service"
)

const dateLayout = "2006-01-02"

// ---- requests ----

type RegisterRequest struct {
	Role            string  `json:"role" validate:"required,oneof=customer creator"`
	Email           string  `json:"email" validate:"required,email"`
	Password        string  `json:"password" validate:"required"`
	ConfirmPassword *string `json:"confirmPassword,omitempty"`
	FirstName       string  `json:"firstName" validate:"required"`
	LastName        string  `json:"lastName" validate:"required"`
	Location        *string `json:"location,omitempty" validate:"omitempty,oneof=UK Nepal"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleSignInRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"omitempty,oneof=customer creator"`
}

type ProfileRequest struct {
	FirstName      *string `json:"firstName,omitempty"`
	LastName       *string `json:"lastName,omitempty"`
	DateOfBirth    *string `json:"dateOfBirth,omitempty"`
	Description    *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	PrimarySkill   *string `json:"primarySkill,omitempty"`
	Experience     *int    `json:"experience,omitempty"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
}

type DirectMessageRequest struct {
	ReceiverID      string  `json:"receiverId"`
	Text            string  `json:"text"`
	Type            string  `json:"type,omitempty"`
	ClientMessageID *string `json:"clientMessageId,omitempty" validate:"omitempty,max=128"`
}

// ---- responses ----

type TokenResponse struct {
	Message string `json:"message,omitempty"`
	Token   string `json:"token"`
}

type UserResponse struct {
	ID             string     `json:"id"`
	Role           string     `json:"role"`
	Email          string     `json:"email"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	UserName       *string    `json:"userName"`
	DateOfBirth    *string    `json:"dateOfBirth"`
	Description    *string    `json:"description"`
	ProfilePicture *string    `json:"profilePicture"`
	PrimarySkill   *string    `json:"primarySkill"`
	Experience     *int       `json:"experience"`
	Location       *string    `json:"location"`
	AuthProvider   string     `json:"authProvider"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty"`
}

type MeResponse struct {
	ID    string        `json:"id"`
	Email string        `json:"email"`
	Role  domain.Role   `json:"role"`
	User  *UserResponse `json:"user,omitempty"`
}

type ProfileResponse struct {
	UserID         string    `json:"userId"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	UserName       *string   `json:"userName"`
	DateOfBirth    *string   `json:"dateOfBirth"`
	Description    *string   `json:"description"`
	ProfilePicture *string   `json:"profilePicture"`
	PrimarySkill   *string   `json:"primarySkill"`
	Experience     *int      `json:"experience"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type ProfileUpdatedResponse struct {
	Message     string          `json:"message"`
	UserProfile ProfileResponse `json:"userProfile"`
}

type CreatorsResponse struct {
	Success    bool           `json:"success"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	Total      int            `json:"total"`
	TotalPages int            `json:"totalPages"`
	Count      int            `json:"count"`
	Data       []UserResponse `json:"data"`
}

type RoomMessageResponse struct {
	ID        string    `json:"id"`
	Room      string    `json:"room"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type UserSummaryResponse struct {
	ID        string  `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	UserName  *string `json:"userName"`
	Email     string  `json:"email"`
}

type DirectMessageResponse struct {
	ID              string               `json:"id"`
	SenderID        string               `json:"senderId"`
	ReceiverID      string               `json:"receiverId"`
	Text            string               `json:"text"`
	Type            string               `json:"type"`
	ClientMessageID *string              `json:"clientMessageId,omitempty"`
	CreatedAt       time.Time            `json:"createdAt"`
	Sender          *UserSummaryResponse `json:"sender,omitempty"`
	Receiver        *UserSummaryResponse `json:"receiver,omitempty"`
}

// ---- mapping ----

func toUserResponse(u *domain.User) UserResponse {
	resp := UserResponse{
		ID:             u.ID.String(),
		Role:           string(u.Role),
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		UserName:       u.UserName,
		DateOfBirth:    formatDate(u.DateOfBirth),
		Description:    u.Description,
		ProfilePicture: u.ProfilePicture,
		PrimarySkill:   skillString(u.PrimarySkill),
		Experience:     u.Experience,
		AuthProvider:   string(u.Provider),
		CreatedAt:      u.CreatedAt,
	}
	if u.Location != nil {
		loc := string(*u.Location)
		resp.Location = &loc
	}
	if !u.UpdatedAt.IsZero() {
		t := u.UpdatedAt
		resp.UpdatedAt = &t
	}

	return resp
}

func toMeResponse(res *service.MeResult) MeResponse {
	resp := MeResponse{
		ID:    res.Identity.ID,
		Email: res.Identity.Email,
		Role:  res.Identity.Role,
	}
	if res.User != nil {
		u := toUserResponse(res.User)
		resp.User = &u
	}

	return resp
}

func toProfileResponse(p *domain.Profile) ProfileResponse {
	return ProfileResponse{
		UserID:         p.UserID.String(),
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		UserName:       p.UserName,
		DateOfBirth:    formatDate(p.DateOfBirth),
		Description:    p.Description,
		ProfilePicture: p.ProfilePicture,
		PrimarySkill:   skillString(p.PrimarySkill),
		Experience:     p.Experience,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toCreatorsResponse(page *service.CreatorPage) CreatorsResponse {
	data := make([]UserResponse, 0, len(page.Data))
	for i := range page.Data {
		data = append(data, toUserResponse(&page.Data[i]))
	}

	return CreatorsResponse{
		Success:    true,
		Page:       page.Page,
		Limit:      page.Limit,
		Total:      page.Total,
		TotalPages: page.TotalPages,
		Count:      len(data),
		Data:       data,
	}
}

func toRoomMessageResponse(m *domain.RoomMessage) RoomMessageResponse {
	return RoomMessageResponse{
		ID:        m.ID.String(),
		Room:      m.Room,
		Username:  m.Username,
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
	}
}

func toDirectMessageResponse(m *domain.DirectMessage) DirectMessageResponse {
	return DirectMessageResponse{
		ID:              m.ID.String(),
		SenderID:        m.SenderID.String(),
		ReceiverID:      m.ReceiverID.String(),
		Text:            m.Text,
		Type:            m.Type,
		ClientMessageID: m.ClientMessageID,
		CreatedAt:       m.CreatedAt,
		Sender:          toSummaryResponse(m.Sender),
		Receiver:        toSummaryResponse(m.Receiver),
	}
}

func toSummaryResponse(s *domain.UserSummary) *UserSummaryResponse {
	if s == nil {
		return nil
	}

	return &UserSummaryResponse{
		ID:        s.ID.String(),
		FirstName: s.FirstName,
		LastName:  s.LastName,
		UserName:  s.UserName,
		Email:     s.Email,
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)

	return &s
}

func skillString(s *domain.Skill) *string {
	if s == nil {
		return nil
	}
	v := string(*s)

	return &v
}
