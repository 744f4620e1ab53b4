package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type User struct {
	ID             uint         `json:"id" gorm:"primaryKey"`
	Name           string       `json:"name" gorm:"size:100;not null"`
	Username       string       `json:"username" gorm:"size:30;uniqueIndex;not null"`
	Email          string       `json:"email" gorm:"size:255;uniqueIndex;not null"` // Ensure email is unique across all users
	Password       string       `json:"-"`                                          // Store hashed password, ignore for JSON serialization
	FirebaseUID    *string      `json:"-" gorm:"uniqueIndex"`                       // Link to Firebase User UID
	ProfilePicture string       `json:"profile_picture"`
	BannerImg      string       `json:"banner_img"`
	Headline       string       `json:"headline" gorm:"size:200"`
	Location       string       `json:"location" gorm:"size:100"`
	About          string       `json:"about" gorm:"type:text"`
	Skills         []string     `json:"skills" gorm:"type:text;serializer:json"`
	Experience     []Experience `json:"experience" gorm:"type:text;serializer:json"`
	Education      []Education  `json:"education" gorm:"type:text;serializer:json"`
	Connections    []uint       `json:"connections" gorm:"-"` // filled from user_connections on read
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date,omitempty"`
	Description string `json:"description,omitempty"`
}

type Education struct {
	School       string `json:"school"`
	FieldOfStudy string `json:"field_of_study"`
	StartYear    int    `json:"start_year"`
	EndYear      int    `json:"end_year,omitempty"`
}

// UserConnection is one direction of the symmetric connection relation.
// Both directions are always written and removed together.
type UserConnection struct {
	UserID       uint      `gorm:"primaryKey;autoIncrement:false"`
	ConnectionID uint      `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserCompact is the display-ready summary embedded in posts, comments and notifications.
type UserCompact struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profile_picture"`
	Headline       string `json:"headline,omitempty"`
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:             u.ID,
		Name:           u.Name,
		Username:       u.Username,
		ProfilePicture: u.ProfilePicture,
		Headline:       u.Headline,
	}
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Username string `json:"username" validate:"required,alphanum,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest only touches the fields that are present.
// ProfilePicture and BannerImg accept base64 data URLs.
type UpdateProfileRequest struct {
	Name           *string      `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Headline       *string      `json:"headline,omitempty" validate:"omitempty,max=200"`
	About          *string      `json:"about,omitempty" validate:"omitempty,max=2000"`
	Location       *string      `json:"location,omitempty" validate:"omitempty,max=100"`
	ProfilePicture *string      `json:"profile_picture,omitempty"`
	BannerImg      *string      `json:"banner_img,omitempty"`
	Skills         []string     `json:"skills,omitempty" validate:"omitempty,dive,min=1,max=50"`
	Experience     []Experience `json:"experience,omitempty"`
	Education      []Education  `json:"education,omitempty"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
