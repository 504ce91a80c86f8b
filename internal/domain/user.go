package domain

import "time"

type User struct {
	ID        int64     `json:"id,string" form:"id"`
	Username  string    `gorm:"uniqueIndex;size:64" json:"username" form:"username"`
	Password  string    `json:"-" form:"-"`
	Email     string    `gorm:"size:128" json:"email" form:"email"`
	IsAdmin   bool      `json:"is_admin"`
	Status    string    `gorm:"size:16" json:"status"`
	LastLogin time.Time `json:"last_login"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
