package model

import (
	"time"

	"github.com/google/uuid"
)

type Member struct {
	Id                         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId                     uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	BusinessName               string    `gorm:"type:varchar(255)"`
	ContactFirstName           string    `gorm:"type:varchar(100)"`
	ContactLastName            string    `gorm:"type:varchar(100)"`
	MembershipTier             string    `gorm:"type:varchar(50);not null"`
	MembershipStatus           string    `gorm:"type:varchar(50);not null;default:'inactive'"`
	MembershipPaymentConfirmed bool      `gorm:"default:false"`
	JoinedAt                   time.Time `gorm:"not null"`
	CreatedAt                  time.Time `gorm:"autoCreateTime"`
	UpdatedAt                  time.Time `gorm:"autoUpdateTime"`
}

func (Member) TableName() string {
	return "members"
}
