package model

import "time"

// Metric accumulates one row of usage counters per calendar day.
type Metric struct {
	ID                   uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Date                 time.Time `gorm:"type:date;uniqueIndex" json:"date"`
	RegisteredUsers      int       `gorm:"not null;default:0" json:"registeredUsers"`
	DeletedUserAccounts  int       `gorm:"not null;default:0" json:"deletedUserAccounts"`
	AdsPosted            int       `gorm:"not null;default:0" json:"adsPosted"`
	ItemsSold            int       `gorm:"not null;default:0" json:"itemsSold"`
	AdsReported          int       `gorm:"not null;default:0" json:"adsReported"`
	ApartmentsRegistered int       `gorm:"not null;default:0" json:"apartmentsRegistered"`
}

func (Metric) TableName() string { return "metrics" }
