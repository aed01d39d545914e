package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Plant struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Slug            string         `gorm:"uniqueIndex;not null;column:slug" json:"slug"`
	CommonName      string         `gorm:"not null;column:common_name" json:"common_name"`
	ScientificName  string         `gorm:"column:scientific_name" json:"scientific_name"`
	Description     string         `gorm:"column:description" json:"description"`
	ImageURL        string         `gorm:"column:image_url" json:"image_url"`
	EvidenceLevel   string         `gorm:"column:evidence_level;not null;default:'moderada'" json:"evidence_level"`
	HasInteractions bool           `gorm:"column:has_interactions;not null;default:false" json:"has_interactions"`
	Precautions     datatypes.JSON `gorm:"column:precautions" json:"precautions,omitempty"`
	Interactions    datatypes.JSON `gorm:"column:interactions" json:"interactions,omitempty"`

	Benefits           []Benefit           `gorm:"constraint:OnDelete:CASCADE;foreignKey:PlantID;references:ID" json:"benefits"`
	UsageMethods       []UsageMethod       `gorm:"constraint:OnDelete:CASCADE;foreignKey:PlantID;references:ID" json:"usage_methods"`
	ScientificBackings []ScientificBacking `gorm:"constraint:OnDelete:CASCADE;foreignKey:PlantID;references:ID" json:"scientific_backings"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Plant) TableName() string {
	return "plants"
}

type Benefit struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PlantID     uuid.UUID `gorm:"type:uuid;not null;index;column:plant_id" json:"plant_id"`
	Description string    `gorm:"not null;column:description" json:"description"`
	Category    string    `gorm:"column:category" json:"category"`
}

func (Benefit) TableName() string {
	return "benefits"
}

type UsageMethod struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PlantID     uuid.UUID `gorm:"type:uuid;not null;index;column:plant_id" json:"plant_id"`
	Description string    `gorm:"not null;column:description" json:"description"`
	// Category here is the plant part the preparation uses (hojas, corteza...).
	Category string `gorm:"column:category" json:"category"`
}

func (UsageMethod) TableName() string {
	return "usage_methods"
}

type ScientificBacking struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PlantID   uuid.UUID `gorm:"type:uuid;not null;index;column:plant_id" json:"plant_id"`
	Finding   string    `gorm:"not null;column:finding" json:"finding"`
	Language  string    `gorm:"column:language" json:"language"`
	Year      int       `gorm:"column:year" json:"year"`
	SourceURL string    `gorm:"column:source_url" json:"source_url"`
}

func (ScientificBacking) TableName() string {
	return "scientific_backings"
}
