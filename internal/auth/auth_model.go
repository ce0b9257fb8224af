package auth

import (
	"time"

	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/user"
)

type LoginRequest struct {
	LoginIdentifier string `json:"login_identifier" binding:"required" example:"jane@example.com"` // email or username
	Password        string `json:"password" binding:"required" example:"password123"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Gender   string `json:"gender" binding:"omitempty,oneof=male female other" example:"female"`
	// SelfReportedLevel is a band name ("intermediate"), a number ("3.5") or a range ("3.0-3.5").
	SelfReportedLevel  string   `json:"self_reported_level" example:"intermediate"`
	PreferredGameTypes []string `json:"preferred_game_types,omitempty"`
	ClubID             string   `json:"club_id,omitempty"`
}

type LogoutRequest struct {
	RefreshToken          string `json:"refresh_token"`
	InvalidateAllSessions bool   `json:"invalidate_all_sessions"`
}

type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Username           string    `json:"username"`
	Email              string    `json:"email"`
	Gender             string    `json:"gender"`
	SelfReportedLevel  string    `json:"self_reported_level"`
	PreferredGameTypes []string  `json:"preferred_game_types"`
	ClubID             string    `json:"club_id,omitempty"`
	LastActive         time.Time `json:"last_active"`
	Roles              []string  `json:"roles"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func FilterUserRecord(u *user.User) UserResponse {
	roles := []string{}
	for _, r := range u.Roles {
		roles = append(roles, r.Name)
	}
	return UserResponse{
		ID:                 u.ID,
		Name:               u.Name,
		Username:           u.Username,
		Email:              u.Email,
		Gender:             u.Gender,
		SelfReportedLevel:  u.SelfReportedLevel,
		PreferredGameTypes: u.PreferredGameTypes,
		ClubID:             u.ClubID,
		LastActive:         u.LastActive,
		Roles:              roles,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}
