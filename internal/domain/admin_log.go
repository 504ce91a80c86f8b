package domain

import "time"

// AdminLog records back-office mutations for audit.
type AdminLog struct {
	ID        int64     `json:"id,string"`
	Username  string    `gorm:"index;size:64" json:"username"`
	Ip        string    `gorm:"size:64" json:"ip"`
	Action    string    `gorm:"size:64" json:"action"`
	Detail    string    `gorm:"size:1024" json:"detail"`
	OptTime   time.Time `json:"opt_time"`
}

func (AdminLog) TableName() string {
	return "admin_log"
}
