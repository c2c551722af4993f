package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Youth struct {
	Id        int        `gorm:"primaryKey"`
	FirstName string     `gorm:"not null"`
	LastName  string     `gorm:"not null"`
	BirthDate *time.Time `gorm:"null"`
	Den       string     `gorm:"null"`
}

func (y *Youth) DisplayName() string {
	return y.FirstName + " " + y.LastName
}

type YouthRepository struct {
	DB *gorm.DB
}

func NewYouthRepository(db *gorm.DB) *YouthRepository {
	return &YouthRepository{DB: db}
}

func (r *YouthRepository) GetYouthById(youthId int) (*Youth, error) {
	var youth Youth
	result := r.DB.First(&youth, youthId)
	if result.Error != nil {
		return nil, fmt.Errorf("youth with id %d not found", youthId)
	}
	return &youth, nil
}

func (r *YouthRepository) GetYouthByIds(youthIds []int) ([]*Youth, error) {
	youths := make([]*Youth, 0)
	if len(youthIds) == 0 {
		return youths, nil
	}
	result := r.DB.Find(&youths, youthIds)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find youths: %v", result.Error)
	}
	return youths, nil
}

func (r *YouthRepository) GetAllYouths() ([]*Youth, error) {
	youths := make([]*Youth, 0)
	result := r.DB.Order("last_name ASC, first_name ASC").Find(&youths)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find youths: %v", result.Error)
	}
	return youths, nil
}

func (r *YouthRepository) SaveYouth(youth *Youth) (*Youth, error) {
	result := r.DB.Save(youth)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to save youth: %v", result.Error)
	}
	return youth, nil
}

func (r *YouthRepository) DeleteYouth(youthId int) error {
	return r.DB.Delete(&Youth{}, youthId).Error
}
