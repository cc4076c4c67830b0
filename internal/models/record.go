package models

// Record is a single expense or income entry owned by one user.
type Record struct {
	Base
	UserID     uint      `gorm:"not null;index" json:"-"`
	RecordType string    `gorm:"size:100;not null" json:"recordType"`
	Category   string    `gorm:"size:50;not null" json:"category"`
	Note       string    `gorm:"type:text" json:"note"`
	Amount     Amount    `gorm:"type:numeric(10,2);not null" json:"amount"`
	Time       TimeOfDay `gorm:"not null" json:"time"`
	Date       Date      `gorm:"not null;index" json:"date"`
}
