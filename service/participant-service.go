package service

import (
	"fmt"

	"scoutroster/app_error"
	"scoutroster/config"
	"scoutroster/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Participant is an adult or youth resolved from an event's RSVPs. It is
// derived per request and never persisted.
type Participant struct {
	Type      repository.ParticipantType
	Id        int
	FirstName string
	LastName  string
	Phone     string
	Email     string
}

func (p *Participant) DisplayName() string {
	return p.FirstName + " " + p.LastName
}

func (p *Participant) Ref() repository.ParticipantRef {
	return repository.ParticipantRef{Type: p.Type, Id: p.Id}
}

// ParticipantScope is the set of participants a non-admin actor may submit
// data for: their own children, themselves, and their co-parents.
type ParticipantScope struct {
	ChildIds map[int]bool
	AdultIds map[int]bool
}

func (s *ParticipantScope) Allows(ref repository.ParticipantRef) bool {
	if ref.Type == repository.ParticipantYouth {
		return s.ChildIds[ref.Id]
	}
	return s.AdultIds[ref.Id]
}

type ParticipantService struct {
	userRepository         *repository.UserRepository
	youthRepository        *repository.YouthRepository
	rsvpRepository         *repository.RsvpRepository
	relationshipRepository *repository.RelationshipRepository
	logger                 *zap.Logger
}

func NewParticipantService(db *gorm.DB) *ParticipantService {
	return &ParticipantService{
		userRepository:         repository.NewUserRepository(db),
		youthRepository:        repository.NewYouthRepository(db),
		rsvpRepository:         repository.NewRsvpRepository(db),
		relationshipRepository: repository.NewRelationshipRepository(db),
		logger:                 config.Logger(),
	}
}

// ResolveParticipants turns one RSVP's member selection into participants.
// Members whose profile no longer resolves are skipped so one stale id
// cannot fail the batch.
func (s *ParticipantService) ResolveParticipants(eventId int, rsvpId int) ([]*Participant, error) {
	rsvp, err := s.rsvpRepository.GetRsvpById(rsvpId)
	if err != nil {
		return nil, app_error.NewNotFoundError("rsvp %d not found", rsvpId)
	}
	if rsvp.EventId != eventId {
		return nil, app_error.NewNotFoundError("rsvp %d does not belong to event %d", rsvpId, eventId)
	}
	refs := make([]repository.ParticipantRef, 0, len(rsvp.Members))
	for _, member := range rsvp.Members {
		refs = append(refs, repository.ParticipantRef{Type: member.ParticipantType, Id: member.ParticipantId})
	}
	return s.resolveRefs(refs)
}

// ResolveEventParticipants determines the distinct participant set across
// all "yes" RSVPs for the event, in RSVP order.
func (s *ParticipantService) ResolveEventParticipants(eventId int) ([]*Participant, error) {
	rsvps, err := s.rsvpRepository.GetYesRsvpsForEvent(eventId)
	if err != nil {
		return nil, fmt.Errorf("failed to load rsvps for event %d: %v", eventId, err)
	}
	seen := make(map[repository.ParticipantRef]bool)
	refs := make([]repository.ParticipantRef, 0)
	for _, rsvp := range rsvps {
		for _, member := range rsvp.Members {
			ref := repository.ParticipantRef{Type: member.ParticipantType, Id: member.ParticipantId}
			if !seen[ref] {
				seen[ref] = true
				refs = append(refs, ref)
			}
		}
	}
	return s.resolveRefs(refs)
}

func (s *ParticipantService) resolveRefs(refs []repository.ParticipantRef) ([]*Participant, error) {
	adultIds := make([]int, 0)
	youthIds := make([]int, 0)
	for _, ref := range refs {
		switch ref.Type {
		case repository.ParticipantAdult:
			adultIds = append(adultIds, ref.Id)
		case repository.ParticipantYouth:
			youthIds = append(youthIds, ref.Id)
		}
	}
	users, err := s.userRepository.GetUsersByIds(adultIds)
	if err != nil {
		return nil, err
	}
	youths, err := s.youthRepository.GetYouthByIds(youthIds)
	if err != nil {
		return nil, err
	}
	usersById := make(map[int]*repository.User, len(users))
	for _, user := range users {
		usersById[user.Id] = user
	}
	youthsById := make(map[int]*repository.Youth, len(youths))
	for _, youth := range youths {
		youthsById[youth.Id] = youth
	}

	participants := make([]*Participant, 0, len(refs))
	for _, ref := range refs {
		switch ref.Type {
		case repository.ParticipantAdult:
			user, ok := usersById[ref.Id]
			if !ok {
				s.logger.Warn("skipping rsvp member with unresolvable profile",
					zap.String("type", string(ref.Type)), zap.Int("id", ref.Id))
				continue
			}
			participants = append(participants, &Participant{
				Type:      repository.ParticipantAdult,
				Id:        user.Id,
				FirstName: user.FirstName,
				LastName:  user.LastName,
				Phone:     user.Phone,
				Email:     user.Email,
			})
		case repository.ParticipantYouth:
			youth, ok := youthsById[ref.Id]
			if !ok {
				s.logger.Warn("skipping rsvp member with unresolvable profile",
					zap.String("type", string(ref.Type)), zap.Int("id", ref.Id))
				continue
			}
			participants = append(participants, &Participant{
				Type:      repository.ParticipantYouth,
				Id:        youth.Id,
				FirstName: youth.FirstName,
				LastName:  youth.LastName,
			})
		}
	}
	return participants, nil
}

// AuthorizedParticipantScope computes the participant set the actor may
// write data for.
func (s *ParticipantService) AuthorizedParticipantScope(actorUserId int) (*ParticipantScope, error) {
	childIds, err := s.relationshipRepository.GetChildIdsForAdult(actorUserId)
	if err != nil {
		return nil, err
	}
	coParentIds, err := s.relationshipRepository.GetCoParentIdsForAdult(actorUserId)
	if err != nil {
		return nil, err
	}
	scope := &ParticipantScope{
		ChildIds: make(map[int]bool, len(childIds)),
		AdultIds: make(map[int]bool, len(coParentIds)+1),
	}
	for _, id := range childIds {
		scope.ChildIds[id] = true
	}
	scope.AdultIds[actorUserId] = true
	for _, id := range coParentIds {
		scope.AdultIds[id] = true
	}
	return scope, nil
}
