package service

import (
	"scoutroster/app_error"
	"scoutroster/repository"
	"scoutroster/utils"

	"gorm.io/gorm"
)

type YouthService struct {
	youthRepository        *repository.YouthRepository
	relationshipRepository *repository.RelationshipRepository
}

func NewYouthService(db *gorm.DB) *YouthService {
	return &YouthService{
		youthRepository:        repository.NewYouthRepository(db),
		relationshipRepository: repository.NewRelationshipRepository(db),
	}
}

func (s *YouthService) GetYouthById(youthId int) (*repository.Youth, error) {
	return s.youthRepository.GetYouthById(youthId)
}

func (s *YouthService) GetAllYouths() ([]*repository.Youth, error) {
	return s.youthRepository.GetAllYouths()
}

// SaveYouth writes a youth profile. Admins may edit any youth, a parent
// only their own children.
func (s *YouthService) SaveYouth(actor *repository.User, youth *repository.Youth) (*repository.Youth, error) {
	if youth.FirstName == "" || youth.LastName == "" {
		return nil, app_error.NewValidationError("youth first and last name are required")
	}
	if !actor.IsAdmin() && youth.Id != 0 {
		parentIds, err := s.relationshipRepository.GetParentIdsForYouth(youth.Id)
		if err != nil {
			return nil, err
		}
		if !utils.Contains(parentIds, actor.Id) {
			return nil, app_error.NewAuthorizationError("not authorized to edit youth %d", youth.Id)
		}
	}
	return s.youthRepository.SaveYouth(youth)
}

func (s *YouthService) DeleteYouth(actor *repository.User, youthId int) error {
	if !actor.IsAdmin() {
		return app_error.NewAuthorizationError("only admins may delete youths")
	}
	return s.youthRepository.DeleteYouth(youthId)
}

func (s *YouthService) LinkParent(actor *repository.User, userId int, youthId int) error {
	if !actor.IsAdmin() {
		return app_error.NewAuthorizationError("only admins may manage relationships")
	}
	return s.relationshipRepository.SaveRelationship(&repository.ParentRelationship{UserId: userId, YouthId: youthId})
}

func (s *YouthService) UnlinkParent(actor *repository.User, userId int, youthId int) error {
	if !actor.IsAdmin() {
		return app_error.NewAuthorizationError("only admins may manage relationships")
	}
	return s.relationshipRepository.RemoveRelationship(userId, youthId)
}
