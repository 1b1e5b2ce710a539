package entity

// Category names are referenced by contracts as plain strings, not foreign
// keys, so renames have to cascade in the service layer.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"`
}
