package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Event struct {
	Id               int                `gorm:"primaryKey"`
	Name             string             `gorm:"not null"`
	Description      string             `gorm:"null"`
	Location         string             `gorm:"null"`
	StartsAt         time.Time          `gorm:"not null"`
	EndsAt           *time.Time         `gorm:"null"`
	FieldDefinitions []*FieldDefinition `gorm:"foreignKey:EventId;constraint:OnDelete:CASCADE"`
	Rsvps            []*Rsvp            `gorm:"foreignKey:EventId;constraint:OnDelete:CASCADE"`
}

type EventRepository struct {
	DB *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{DB: db}
}

func (r *EventRepository) GetEventById(eventId int, preloads ...string) (*Event, error) {
	var event Event
	query := r.DB
	for _, preload := range preloads {
		query = query.Preload(preload)
	}
	result := query.First(&event, eventId)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find event: %v", result.Error)
	}
	return &event, nil
}

func (r *EventRepository) FindAll(preloads ...string) ([]*Event, error) {
	events := make([]*Event, 0)
	query := r.DB
	for _, preload := range preloads {
		query = query.Preload(preload)
	}
	result := query.Order("starts_at ASC").Find(&events)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find events: %v", result.Error)
	}
	return events, nil
}

func (r *EventRepository) Save(event *Event) (*Event, error) {
	result := r.DB.Save(event)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to save event: %v", result.Error)
	}
	return event, nil
}

func (r *EventRepository) Delete(eventId int) error {
	return r.DB.Delete(&Event{}, eventId).Error
}
