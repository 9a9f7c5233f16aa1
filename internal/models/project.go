package models

import "time"

type Project struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(150);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	OwnerID     uint64    `gorm:"not null;index" json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Owner  User           `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Tasks  []Task         `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
	Shares []ProjectShare `gorm:"foreignKey:ProjectID" json:"shares,omitempty"`
}
