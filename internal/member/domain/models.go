package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Enrollment age bounds, enforced at create and update time.
const (
	MinEnrollmentAge = 18
	MaxEnrollmentAge = 70
)

type Member struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	FirstName   string       `gorm:"not null" json:"first_name"`
	LastName    string       `gorm:"not null" json:"last_name"`
	Email       string       `gorm:"not null" json:"email"`
	PhoneNumber string       `json:"phone_number,omitempty"`
	DateOfBirth time.Time    `gorm:"not null" json:"date_of_birth"`
	IsActive    bool         `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null" json:"updated_at"`
}

func (Member) TableName() string {
	return "members"
}

func (m Member) FullName() string {
	return m.FirstName + " " + m.LastName
}

// AgeAt derives age by calendar-year subtraction.
func (m Member) AgeAt(now time.Time) int {
	return now.Year() - m.DateOfBirth.Year()
}

func (m Member) HasValidAgeAt(now time.Time) bool {
	age := m.AgeAt(now)
	return age >= MinEnrollmentAge && age <= MaxEnrollmentAge
}
