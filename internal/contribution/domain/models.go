package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type ContributionType string

const (
	TypeMonthly   ContributionType = "monthly"
	TypeVoluntary ContributionType = "voluntary"
)

func (t ContributionType) Valid() bool {
	return t == TypeMonthly || t == TypeVoluntary
}

type ContributionStatus string

const (
	StatusPending ContributionStatus = "pending"
	StatusSuccess ContributionStatus = "success"
	StatusFailed  ContributionStatus = "failed"
)

func (s ContributionStatus) Valid() bool {
	return s == StatusPending || s == StatusSuccess || s == StatusFailed
}

// VoluntaryMaxAmount caps a single voluntary contribution.
const VoluntaryMaxAmount = 1000.0

type Contribution struct {
	ID               snowflake.ID       `gorm:"primaryKey" json:"id"`
	MemberID         snowflake.ID       `gorm:"not null;index" json:"member_id"`
	Amount           float64            `gorm:"not null" json:"amount"`
	ContributionDate time.Time          `gorm:"not null" json:"contribution_date"`
	Type             ContributionType   `gorm:"not null" json:"type"`
	Status           ContributionStatus `gorm:"not null;index" json:"status"`
	CreatedAt        time.Time          `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time          `gorm:"not null" json:"updated_at"`
}

func (Contribution) TableName() string {
	return "contributions"
}

// InMonth reports whether the contribution date falls in the given calendar
// month. Year matters: a January row from last year does not occupy this
// January.
func (c Contribution) InMonth(at time.Time) bool {
	return c.ContributionDate.Year() == at.Year() && c.ContributionDate.Month() == at.Month()
}
