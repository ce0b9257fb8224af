package user

import (
	"time"

	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/models"
	"gorm.io/gorm"
)

type User struct {
	models.UUIDModel
	Name     string `json:"name"`
	Username string `gorm:"unique" json:"username"`
	Email    string `gorm:"unique" json:"email"`
	Password string `json:"-"`
	// Gender is "male", "female" or free text; only the first two restrict admission.
	Gender string `json:"gender"`
	// SelfReportedLevel is the onboarding band used when no ELO exists for a game type.
	SelfReportedLevel  string             `json:"self_reported_level"`
	PreferredGameTypes models.StringSlice `gorm:"type:json" json:"preferred_game_types"`
	ClubID             string             `gorm:"index" json:"club_id,omitempty"`
	LastActive         time.Time          `json:"last_active"`
	Roles              []Role             `gorm:"many2many:user_roles" json:"roles"`
	Ratings            []UserRating       `gorm:"foreignKey:UserID" json:"ratings,omitempty"`
}

type Role struct {
	gorm.Model
	Name string `gorm:"unique;not null"`
}

// UserRating is the current ELO of one user on one rating track.
type UserRating struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    string    `gorm:"type:varchar(36);uniqueIndex:idx_user_rating_kind;not null" json:"user_id"`
	Kind      string    `gorm:"uniqueIndex:idx_user_rating_kind;not null" json:"kind"`
	Elo       float64   `json:"elo"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RefreshToken struct {
	gorm.Model
	UserID    string    `gorm:"type:varchar(36);index;not null"`
	Token     string    `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	Revoked   bool      `gorm:"default:false"`
}
