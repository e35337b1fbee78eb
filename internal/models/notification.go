package models

import "gorm.io/gorm"

// Notification records an event directed at a user
type Notification struct {
	gorm.Model
	Type        string `json:"type" gorm:"type:varchar(20)"` // "follow", "like", "comment"
	ActorID     uint   `json:"actor_id" gorm:"index"`
	RecipientID uint   `json:"recipient_id" gorm:"index"`
	Message     string `json:"message"`
	Read        bool   `json:"read" gorm:"default:false"`
}
