package model

import (
	"time"
)

type User struct {
	ID             uint64  `gorm:"primaryKey;autoIncrement"`
	Name           string  `gorm:"type:varchar(100);not null"`
	Email          string  `gorm:"type:varchar(50);uniqueIndex:idx_email;not null"`
	Mobile         *string `gorm:"type:varchar(15)"`
	HashedPassword string  `gorm:"type:varchar(200);not null"`
	IsActive       bool    `gorm:"type:tinyint(1);default:1"`
	ApartmentID    uint64  `gorm:"index"`
	ApartmentNo    string  `gorm:"type:varchar(10);not null;default:'1234'"`
	MailSubscribed bool    `gorm:"type:tinyint(1);default:1"`

	// Email verification runs on a signed 24h token carrying this hash.
	EmailVerified     bool    `gorm:"type:tinyint(1);default:0"`
	EmailVerifyHash   *string `gorm:"type:varchar(100)"`
	EmailVerifiedAt   *time.Time
	ProfilePath       *string `gorm:"type:varchar(500)"`
	InvalidLoginCount int     `gorm:"not null;default:0"`

	// OTP rate-limiter state machine.
	Otp                 *string `gorm:"type:varchar(6)"`
	OtpVerificationTime *time.Time
	OtpGeneratedCount   int  `gorm:"not null;default:0"`
	InvalidOtpCount     int  `gorm:"not null;default:0"`
	LockOtpSend         bool `gorm:"type:tinyint(1);default:0"`
	OtpLockedTime       *time.Time

	AdsPosted int `gorm:"not null;default:0"`
	ItemsSold int `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Apartment Apartment `gorm:"foreignKey:ApartmentID;references:ID"`
}

func (User) TableName() string {
	return "users"
}
