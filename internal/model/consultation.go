package model

import "time"

// Consultation 一次问答记录（只追加，不修改）
type Consultation struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	SessionID string    `json:"session_id" gorm:"size:64;index:idx_consultations_session_role;not null"`
	RoleID    string    `json:"role_id" gorm:"size:64;index:idx_consultations_session_role;not null"`
	Language  string    `json:"language" gorm:"size:8"`
	Query     string    `json:"query" gorm:"type:text;not null"`
	Response  string    `json:"response" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"timestamp"`
}

// TableName 指定表名
func (Consultation) TableName() string {
	return "consultations"
}
