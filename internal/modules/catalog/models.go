package catalog

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Shirt is studio merchandise. Price is the authoritative unit price as a
// two-decimal string; client-supplied prices are never trusted.
type Shirt struct {
	ID          uint           `gorm:"primaryKey"`
	Name        string         `gorm:"type:varchar(255);not null"`
	Description string         `gorm:"type:text"`
	Price       string         `gorm:"type:decimal(10,2);not null"`
	Active      bool           `gorm:"not null;default:true"`
	ImagesJSON  datatypes.JSON `gorm:"column:images_json"`
	SizesJSON   datatypes.JSON `gorm:"column:sizes_json"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Shirt) TableName() string { return "shirts" }

func (s Shirt) Sizes() []string  { return decodeStrings(s.SizesJSON) }
func (s Shirt) Images() []string { return decodeStrings(s.ImagesJSON) }

func (s Shirt) HasSize(size string) bool {
	for _, v := range s.Sizes() {
		if v == size {
			return true
		}
	}
	return false
}

// PhotoPackage is a session/print bundle sold around school and event shoots.
type PhotoPackage struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"type:varchar(255);not null"`
	Description string `gorm:"type:text"`
	Price       string `gorm:"type:decimal(10,2);not null"`
	Active      bool   `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (PhotoPackage) TableName() string { return "photo_packages" }

func decodeStrings(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
