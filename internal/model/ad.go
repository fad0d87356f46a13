package model

import "time"

// Ad is a classified listing owned by one user and scoped to one apartment.
// Its active window rolls forward from CreatedAt; the expiry sweep job turns
// Active off once the window elapses.
type Ad struct {
	ID            uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title         string     `gorm:"type:varchar(100);not null" json:"title"`
	Description   string     `gorm:"type:varchar(10000);not null" json:"description"`
	Category      string     `gorm:"type:varchar(20);index;not null" json:"category"`
	AdType        string     `gorm:"type:varchar(15);not null" json:"adType"`
	Price         float64    `gorm:"type:decimal(12,2)" json:"price"`
	Negotiable    bool       `gorm:"type:tinyint(1);default:0" json:"negotiable"`
	Condition     string     `gorm:"type:varchar(20)" json:"condition"`
	AvailableFrom *time.Time `json:"availableFrom"`
	PublishFlatNo bool       `gorm:"type:tinyint(1);default:0" json:"publishFlatNo"`
	PostedBy      uint64     `gorm:"index;not null" json:"postedBy"`
	ApartmentID   uint64     `gorm:"index;not null" json:"apartmentId"`
	Active        bool       `gorm:"type:tinyint(1);default:1;index" json:"active"`
	Sold          bool       `gorm:"type:tinyint(1);default:0" json:"sold"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`

	User      User      `gorm:"foreignKey:PostedBy;references:ID" json:"-"`
	Apartment Apartment `gorm:"foreignKey:ApartmentID;references:ID" json:"-"`
}

func (Ad) TableName() string { return "ads" }

// AdImage stores object-storage keys for an ad photo and its thumbnail.
type AdImage struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	AdID      uint64 `gorm:"index;not null" json:"adId"`
	ImagePath string `gorm:"type:varchar(500);not null" json:"imagePath"`
	ThumbPath string `gorm:"type:varchar(500)" json:"thumbPath"`
}

func (AdImage) TableName() string { return "ad_images" }
