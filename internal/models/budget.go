package models

// Budget is a user's spending limit for one month of one year. At most one
// budget exists per (user, month, year).
type Budget struct {
	Base
	UserID uint   `gorm:"not null;uniqueIndex:idx_budgets_user_period,priority:1" json:"-"`
	Amount Amount `gorm:"column:amount;type:numeric(10,2);not null" json:"budget"`
	Month  string `gorm:"size:20;not null;uniqueIndex:idx_budgets_user_period,priority:2" json:"month"`
	Year   string `gorm:"size:4;not null;uniqueIndex:idx_budgets_user_period,priority:3" json:"year"`
}
