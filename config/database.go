package config

import (
	"fmt"
	model "scoutroster/repository"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var enumQueries = []string{
	`CREATE TYPE pack.participant_type AS ENUM ('adult', 'youth')`,
	`CREATE TYPE pack.field_scope AS ENUM ('per_person', 'per_youth', 'per_family')`,
	`CREATE TYPE pack.field_type AS ENUM ('text', 'numeric', 'select', 'boolean')`,
	`CREATE TYPE pack.rsvp_answer AS ENUM ('yes', 'maybe', 'no')`,
}

func InitDB(host string, port string, user string, password string, dbName string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", host, port, user, password, dbName)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   "pack.",
			SingularTable: false,
		},
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	x := db.Exec(`CREATE SCHEMA IF NOT EXISTS pack`)
	if x.Error != nil {
		return nil, x.Error
	}
	for _, query := range enumQueries {
		x := db.Exec(query)
		if x.Error != nil {
			if strings.Contains(x.Error.Error(), "already exists") {
				continue
			}
			return nil, x.Error
		}
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Youth{},
		&model.ParentRelationship{},
		&model.Event{},
		&model.Rsvp{},
		&model.RsvpMember{},
		&model.FieldDefinition{},
		&model.FieldData{},
	)

	if err != nil {
		return nil, err
	}
	return db, nil
}
