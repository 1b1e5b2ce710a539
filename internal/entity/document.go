package entity

import "time"

// Document is an uploaded file attached to a contract. Documents are
// immutable: they are only ever added and downloaded, never updated.
type Document struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ContractID uint      `gorm:"not null;index" json:"contract_id"`
	Contract   *Contract `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Filename   string    `gorm:"size:255;not null" json:"filename"`
	StorageRef string    `gorm:"size:500;not null" json:"-"`
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}
