package repository

import (
	"fmt"

	"gorm.io/gorm"
)

// ParentRelationship links an adult to one of their children.
type ParentRelationship struct {
	UserId  int    `gorm:"primaryKey"`
	YouthId int    `gorm:"primaryKey"`
	User    *User  `gorm:"foreignKey:UserId;references:Id;constraint:OnDelete:CASCADE"`
	Youth   *Youth `gorm:"foreignKey:YouthId;references:Id;constraint:OnDelete:CASCADE"`
}

type RelationshipRepository struct {
	DB *gorm.DB
}

func NewRelationshipRepository(db *gorm.DB) *RelationshipRepository {
	return &RelationshipRepository{DB: db}
}

func (r *RelationshipRepository) GetChildIdsForAdult(userId int) ([]int, error) {
	childIds := make([]int, 0)
	result := r.DB.Model(&ParentRelationship{}).Where("user_id = ?", userId).Pluck("youth_id", &childIds)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find children for user %d: %v", userId, result.Error)
	}
	return childIds, nil
}

// GetCoParentIdsForAdult returns the ids of all other adults sharing at least
// one child with the given adult.
func (r *RelationshipRepository) GetCoParentIdsForAdult(userId int) ([]int, error) {
	coParentIds := make([]int, 0)
	query := `
		SELECT DISTINCT other.user_id
		FROM pack.parent_relationships own
		JOIN pack.parent_relationships other ON own.youth_id = other.youth_id
		WHERE own.user_id = ? AND other.user_id != ?
	`
	result := r.DB.Raw(query, userId, userId).Scan(&coParentIds)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find co-parents for user %d: %v", userId, result.Error)
	}
	return coParentIds, nil
}

func (r *RelationshipRepository) GetParentIdsForYouth(youthId int) ([]int, error) {
	parentIds := make([]int, 0)
	result := r.DB.Model(&ParentRelationship{}).Where("youth_id = ?", youthId).Pluck("user_id", &parentIds)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find parents for youth %d: %v", youthId, result.Error)
	}
	return parentIds, nil
}

func (r *RelationshipRepository) SaveRelationship(relationship *ParentRelationship) error {
	result := r.DB.Save(relationship)
	if result.Error != nil {
		return fmt.Errorf("failed to save relationship: %v", result.Error)
	}
	return nil
}

func (r *RelationshipRepository) RemoveRelationship(userId int, youthId int) error {
	return r.DB.Delete(&ParentRelationship{UserId: userId, YouthId: youthId}).Error
}
