package model

import "time"

// Apartment is a neighbourhood container. New submissions start unverified
// and are moderation-gated via an emailed verification token.
type Apartment struct {
	ID          uint64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"type:varchar(100);index;not null" json:"name"`
	Address1    string  `gorm:"type:varchar(150);not null" json:"address1"`
	Address2    *string `gorm:"type:varchar(150)" json:"address2"`
	City        string  `gorm:"type:varchar(50);not null" json:"city"`
	State       string  `gorm:"type:varchar(50);not null" json:"state"`
	Pincode     string  `gorm:"type:varchar(15);not null" json:"pincode"`
	Verified    bool    `gorm:"type:tinyint(1);default:0" json:"verified"`
	SubmittedBy *string `gorm:"type:varchar(50)" json:"submittedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (Apartment) TableName() string { return "apartments" }
