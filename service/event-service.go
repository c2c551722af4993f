package service

import (
	"scoutroster/app_error"
	"scoutroster/repository"

	"gorm.io/gorm"
)

type EventService struct {
	eventRepository *repository.EventRepository
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{
		eventRepository: repository.NewEventRepository(db),
	}
}

func (s *EventService) GetAllEvents() ([]*repository.Event, error) {
	return s.eventRepository.FindAll()
}

func (s *EventService) GetEventById(eventId int, preloads ...string) (*repository.Event, error) {
	event, err := s.eventRepository.GetEventById(eventId, preloads...)
	if err != nil {
		return nil, app_error.NewNotFoundError("event %d not found", eventId)
	}
	return event, nil
}

func (s *EventService) CreateEvent(event *repository.Event) (*repository.Event, error) {
	if event.Name == "" {
		return nil, app_error.NewValidationError("event name is required")
	}
	return s.eventRepository.Save(event)
}

func (s *EventService) UpdateEvent(eventId int, updateEvent *repository.Event) (*repository.Event, error) {
	event, err := s.GetEventById(eventId)
	if err != nil {
		return nil, err
	}
	if updateEvent.Name != "" {
		event.Name = updateEvent.Name
	}
	event.Description = updateEvent.Description
	event.Location = updateEvent.Location
	if !updateEvent.StartsAt.IsZero() {
		event.StartsAt = updateEvent.StartsAt
	}
	event.EndsAt = updateEvent.EndsAt
	return s.eventRepository.Save(event)
}

func (s *EventService) DeleteEvent(eventId int) error {
	return s.eventRepository.Delete(eventId)
}
