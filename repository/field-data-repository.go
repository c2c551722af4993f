package repository

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FieldData stores one answer for a (field definition, participant) pair.
// A row with a NULL value means "answered empty"; no row means "never
// answered".
type FieldData struct {
	FieldDefinitionId int             `gorm:"primaryKey"`
	ParticipantType   ParticipantType `gorm:"type:pack.participant_type;primaryKey"`
	ParticipantId     int             `gorm:"primaryKey"`
	Value             *string         `gorm:"null"`
}

// ParticipantRef identifies an adult or youth independent of any event.
type ParticipantRef struct {
	Type ParticipantType
	Id   int
}

// DataKey is the composite lookup key used by bulk fetches.
func (d *FieldData) DataKey() string {
	return fmt.Sprintf("%d_%s_%d", d.FieldDefinitionId, d.ParticipantType, d.ParticipantId)
}

type FieldDataRepository struct {
	DB *gorm.DB
}

func NewFieldDataRepository(db *gorm.DB) *FieldDataRepository {
	return &FieldDataRepository{DB: db}
}

// GetFieldDataForParticipants bulk-fetches all stored values for the given
// participant set. Pairs that were never answered are absent from the
// result.
func (r *FieldDataRepository) GetFieldDataForParticipants(refs []ParticipantRef) ([]*FieldData, error) {
	timer := prometheus.NewTimer(queryDuration.WithLabelValues("GetFieldDataForParticipants"))
	defer timer.ObserveDuration()
	data := make([]*FieldData, 0)
	if len(refs) == 0 {
		return data, nil
	}
	pairs := make([][]interface{}, 0, len(refs))
	for _, ref := range refs {
		pairs = append(pairs, []interface{}{string(ref.Type), ref.Id})
	}
	result := r.DB.Where("(participant_type, participant_id) IN ?", pairs).Find(&data)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find field data: %v", result.Error)
	}
	return data, nil
}

// GetFieldDataForEvent fetches every stored value belonging to one of the
// event's field definitions.
func (r *FieldDataRepository) GetFieldDataForEvent(eventId int) ([]*FieldData, error) {
	timer := prometheus.NewTimer(queryDuration.WithLabelValues("GetFieldDataForEvent"))
	defer timer.ObserveDuration()
	data := make([]*FieldData, 0)
	query := `
		SELECT field_data.* FROM pack.field_data
		JOIN pack.field_definitions ON field_definitions.id = field_data.field_definition_id
		WHERE field_definitions.event_id = ?
	`
	result := r.DB.Raw(query, eventId).Scan(&data)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find field data for event: %v", result.Error)
	}
	return data, nil
}

// SaveFieldData upserts one value by its composite key, last write wins.
func (r *FieldDataRepository) SaveFieldData(data *FieldData) error {
	return r.upsert(r.DB, data)
}

// SaveFieldDataBatch upserts all values inside a single transaction so a
// failure partway through leaves no partial writes.
func (r *FieldDataRepository) SaveFieldDataBatch(batch []*FieldData) error {
	if len(batch) == 0 {
		return nil
	}
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for _, data := range batch {
			if err := r.upsert(tx, data); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *FieldDataRepository) upsert(db *gorm.DB, data *FieldData) error {
	result := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "field_definition_id"},
			{Name: "participant_type"},
			{Name: "participant_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(data)
	if result.Error != nil {
		return fmt.Errorf("failed to save field data: %v", result.Error)
	}
	return nil
}
