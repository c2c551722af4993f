package repository

import (
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type FieldScope string

const (
	ScopePerPerson FieldScope = "per_person"
	ScopePerYouth  FieldScope = "per_youth"
	ScopePerFamily FieldScope = "per_family"
)

func ParseFieldScope(value string) (FieldScope, bool) {
	switch FieldScope(value) {
	case ScopePerPerson, ScopePerYouth, ScopePerFamily:
		return FieldScope(value), true
	}
	return "", false
}

type FieldType string

const (
	FieldTypeText    FieldType = "text"
	FieldTypeNumeric FieldType = "numeric"
	FieldTypeSelect  FieldType = "select"
	FieldTypeBoolean FieldType = "boolean"
)

func ParseFieldType(value string) (FieldType, bool) {
	switch FieldType(value) {
	case FieldTypeText, FieldTypeNumeric, FieldTypeSelect, FieldTypeBoolean:
		return FieldType(value), true
	}
	return "", false
}

// FieldDefinition is one admin-authored registration question for an event.
// Options is populated only for select fields.
type FieldDefinition struct {
	Id             int            `gorm:"primaryKey"`
	EventId        int            `gorm:"not null;index"`
	Name           string         `gorm:"not null"`
	Description    string         `gorm:"null"`
	Scope          FieldScope     `gorm:"type:pack.field_scope;not null"`
	FieldType      FieldType      `gorm:"type:pack.field_type;not null"`
	Required       bool           `gorm:"not null"`
	Options        pq.StringArray `gorm:"type:text[];null"`
	SequenceNumber int            `gorm:"not null;default:0"`
	FieldData      []*FieldData   `gorm:"foreignKey:FieldDefinitionId;constraint:OnDelete:CASCADE"`
}

// AppliesTo reports whether the field collects a value for the given
// participant type. Per-family fields are answered once by the family's
// adults.
func (f *FieldDefinition) AppliesTo(participantType ParticipantType) bool {
	switch f.Scope {
	case ScopePerYouth:
		return participantType == ParticipantYouth
	case ScopePerFamily:
		return participantType == ParticipantAdult
	default:
		return true
	}
}

type FieldDefinitionRepository struct {
	DB *gorm.DB
}

func NewFieldDefinitionRepository(db *gorm.DB) *FieldDefinitionRepository {
	return &FieldDefinitionRepository{DB: db}
}

func (r *FieldDefinitionRepository) GetFieldDefinitionsForEvent(eventId int) ([]*FieldDefinition, error) {
	definitions := make([]*FieldDefinition, 0)
	result := r.DB.Order("sequence_number ASC, id ASC").Find(&definitions, &FieldDefinition{EventId: eventId})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find field definitions: %v", result.Error)
	}
	return definitions, nil
}

func (r *FieldDefinitionRepository) GetFieldDefinitionById(fieldDefinitionId int) (*FieldDefinition, error) {
	var definition FieldDefinition
	result := r.DB.First(&definition, fieldDefinitionId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &definition, nil
}

func (r *FieldDefinitionRepository) GetMaxSequenceNumber(eventId int) (int, error) {
	var maxSequence *int
	result := r.DB.Model(&FieldDefinition{}).Where("event_id = ?", eventId).
		Select("MAX(sequence_number)").Scan(&maxSequence)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to find max sequence number: %v", result.Error)
	}
	if maxSequence == nil {
		return 0, nil
	}
	return *maxSequence, nil
}

func (r *FieldDefinitionRepository) Save(definition *FieldDefinition) (*FieldDefinition, error) {
	result := r.DB.Save(definition)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to save field definition: %v", result.Error)
	}
	return definition, nil
}

// Update writes the mutable attributes of an existing definition. Returns
// false when no row matched the id.
func (r *FieldDefinitionRepository) Update(fieldDefinitionId int, definition *FieldDefinition) (bool, error) {
	result := r.DB.Model(&FieldDefinition{}).Where("id = ?", fieldDefinitionId).
		Select("Name", "Description", "Scope", "FieldType", "Required", "Options", "SequenceNumber").
		Updates(definition)
	if result.Error != nil {
		return false, fmt.Errorf("failed to update field definition: %v", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Delete removes a definition; its field data rows cascade. Returns the
// number of definitions removed (0 or 1).
func (r *FieldDefinitionRepository) Delete(fieldDefinitionId int) (int, error) {
	result := r.DB.Delete(&FieldDefinition{}, fieldDefinitionId)
	if result.Error != nil {
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}
