package service

import (
	"time"

	"scoutroster/app_error"
	"scoutroster/repository"

	"gorm.io/gorm"
)

type RsvpService struct {
	eventRepository    *repository.EventRepository
	rsvpRepository     *repository.RsvpRepository
	participantService *ParticipantService
}

func NewRsvpService(db *gorm.DB) *RsvpService {
	return &RsvpService{
		eventRepository:    repository.NewEventRepository(db),
		rsvpRepository:     repository.NewRsvpRepository(db),
		participantService: NewParticipantService(db),
	}
}

func (s *RsvpService) GetRsvpForUser(userId int, eventId int) (*repository.Rsvp, error) {
	return s.rsvpRepository.GetRsvpForUser(userId, eventId)
}

func (s *RsvpService) GetRsvpsForEvent(eventId int) ([]*repository.Rsvp, error) {
	return s.rsvpRepository.GetRsvpsForEvent(eventId)
}

// SaveRsvp creates or replaces the actor's RSVP for the event. Non-admin
// actors may only select members of their own family as attendees.
func (s *RsvpService) SaveRsvp(actor *repository.User, eventId int, answer repository.RsvpAnswer, comment *string, members []*repository.RsvpMember) (*repository.Rsvp, error) {
	if _, err := s.eventRepository.GetEventById(eventId); err != nil {
		return nil, app_error.NewNotFoundError("event %d not found", eventId)
	}
	if _, ok := repository.ParseRsvpAnswer(string(answer)); !ok {
		return nil, app_error.NewValidationError("invalid rsvp answer %q", answer)
	}

	seen := make(map[repository.ParticipantRef]bool)
	for _, member := range members {
		ref := repository.ParticipantRef{Type: member.ParticipantType, Id: member.ParticipantId}
		if seen[ref] {
			return nil, app_error.NewValidationError("duplicate rsvp member %s %d", ref.Type, ref.Id)
		}
		seen[ref] = true
	}

	if !actor.IsAdmin() {
		scope, err := s.participantService.AuthorizedParticipantScope(actor.Id)
		if err != nil {
			return nil, err
		}
		for _, member := range members {
			ref := repository.ParticipantRef{Type: member.ParticipantType, Id: member.ParticipantId}
			if !scope.Allows(ref) {
				return nil, app_error.NewAuthorizationError(
					"not authorized to rsvp for %s %d", ref.Type, ref.Id)
			}
		}
	}

	rsvp := &repository.Rsvp{
		EventId:   eventId,
		UserId:    actor.Id,
		Answer:    answer,
		Comment:   comment,
		Timestamp: time.Now(),
		Members:   members,
	}
	if existing, err := s.rsvpRepository.GetRsvpForUser(actor.Id, eventId); err == nil {
		rsvp.Id = existing.Id
		rsvp.Timestamp = existing.Timestamp
	}
	return s.rsvpRepository.SaveRsvp(rsvp)
}

func (s *RsvpService) RemoveRsvp(userId int, eventId int) error {
	return s.rsvpRepository.RemoveRsvpForUser(userId, eventId)
}
