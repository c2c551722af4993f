package repository

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type ParticipantType string

const (
	ParticipantAdult ParticipantType = "adult"
	ParticipantYouth ParticipantType = "youth"
)

func ParseParticipantType(value string) (ParticipantType, bool) {
	switch ParticipantType(value) {
	case ParticipantAdult, ParticipantYouth:
		return ParticipantType(value), true
	}
	return "", false
}

type RsvpAnswer string

const (
	RsvpYes   RsvpAnswer = "yes"
	RsvpMaybe RsvpAnswer = "maybe"
	RsvpNo    RsvpAnswer = "no"
)

func ParseRsvpAnswer(value string) (RsvpAnswer, bool) {
	switch RsvpAnswer(value) {
	case RsvpYes, RsvpMaybe, RsvpNo:
		return RsvpAnswer(value), true
	}
	return "", false
}

type Rsvp struct {
	Id        int           `gorm:"primaryKey"`
	EventId   int           `gorm:"not null;uniqueIndex:idx_rsvp_event_user"`
	UserId    int           `gorm:"not null;uniqueIndex:idx_rsvp_event_user"`
	User      *User         `gorm:"foreignKey:UserId;references:Id;constraint:OnDelete:CASCADE"`
	Answer    RsvpAnswer    `gorm:"type:pack.rsvp_answer;not null"`
	Comment   *string       `gorm:"null"`
	Timestamp time.Time     `gorm:"not null"`
	Members   []*RsvpMember `gorm:"foreignKey:RsvpId;constraint:OnDelete:CASCADE"`
}

// RsvpMember records one attendee selected on an RSVP, adult or youth.
type RsvpMember struct {
	RsvpId          int             `gorm:"primaryKey"`
	ParticipantType ParticipantType `gorm:"type:pack.participant_type;primaryKey"`
	ParticipantId   int             `gorm:"primaryKey"`
}

type RsvpRepository struct {
	DB *gorm.DB
}

func NewRsvpRepository(db *gorm.DB) *RsvpRepository {
	return &RsvpRepository{DB: db}
}

func (r *RsvpRepository) GetRsvpById(rsvpId int) (*Rsvp, error) {
	var rsvp Rsvp
	result := r.DB.Preload("Members").First(&rsvp, rsvpId)
	if result.Error != nil {
		return nil, result.Error
	}
	return &rsvp, nil
}

func (r *RsvpRepository) GetRsvpForUser(userId int, eventId int) (*Rsvp, error) {
	var rsvp Rsvp
	result := r.DB.Preload("Members").First(&rsvp, &Rsvp{UserId: userId, EventId: eventId})
	if result.Error != nil {
		return nil, result.Error
	}
	return &rsvp, nil
}

func (r *RsvpRepository) GetRsvpsForEvent(eventId int) ([]*Rsvp, error) {
	timer := prometheus.NewTimer(queryDuration.WithLabelValues("GetRsvpsForEvent"))
	defer timer.ObserveDuration()
	rsvps := make([]*Rsvp, 0)
	result := r.DB.Preload("Members").Preload("User").Order("timestamp ASC").Find(&rsvps, &Rsvp{EventId: eventId})
	if result.Error != nil {
		return nil, result.Error
	}
	return rsvps, nil
}

func (r *RsvpRepository) GetYesRsvpsForEvent(eventId int) ([]*Rsvp, error) {
	timer := prometheus.NewTimer(queryDuration.WithLabelValues("GetYesRsvpsForEvent"))
	defer timer.ObserveDuration()
	rsvps := make([]*Rsvp, 0)
	result := r.DB.Preload("Members").Order("timestamp ASC").
		Where("event_id = ? AND answer = ?", eventId, RsvpYes).Find(&rsvps)
	if result.Error != nil {
		return nil, result.Error
	}
	return rsvps, nil
}

// SaveRsvp writes the rsvp and replaces its member selection in one
// transaction.
func (r *RsvpRepository) SaveRsvp(rsvp *Rsvp) (*Rsvp, error) {
	members := rsvp.Members
	rsvp.Members = nil
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(rsvp).Error; err != nil {
			return err
		}
		if err := tx.Delete(&RsvpMember{}, "rsvp_id = ?", rsvp.Id).Error; err != nil {
			return err
		}
		for _, member := range members {
			member.RsvpId = rsvp.Id
		}
		if len(members) > 0 {
			if err := tx.Create(&members).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save rsvp: %v", err)
	}
	rsvp.Members = members
	return rsvp, nil
}

func (r *RsvpRepository) RemoveRsvpForUser(userId int, eventId int) error {
	return r.DB.Delete(&Rsvp{}, &Rsvp{UserId: userId, EventId: eventId}).Error
}
