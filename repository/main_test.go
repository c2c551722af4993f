package repository

import (
	"fmt"
	"log"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/ory/dockertest/v3"
)

var db *gorm.DB

var testEnumQueries = []string{
	`CREATE TYPE pack.participant_type AS ENUM ('adult', 'youth')`,
	`CREATE TYPE pack.field_scope AS ENUM ('per_person', 'per_youth', 'per_family')`,
	`CREATE TYPE pack.field_type AS ENUM ('text', 'numeric', 'select', 'boolean')`,
	`CREATE TYPE pack.rsvp_answer AS ENUM ('yes', 'maybe', 'no')`,
}

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not construct pool: %s", err)
	}

	// uses pool to try to connect to Docker
	err = pool.Client.Ping()
	if err != nil {
		log.Fatalf("Could not connect to Docker: %s", err)
	}

	// pulls an image, creates a container based on it and runs it
	resource, err := pool.Run("postgres", "17.2-alpine", []string{"POSTGRES_USER=postgres", "POSTGRES_PASSWORD=postgres", "DATABASE_NAME=postgres"})
	if err != nil {
		log.Fatalf("Could not start resource: %s", err)
	}
	resource.Expire(600) // Tell docker to hard kill the container in 10 minutes
	sqlInfo := fmt.Sprintf(
		"host=localhost port=%s user=postgres password=postgres dbname=postgres sslmode=disable search_path=pack",
		resource.GetPort("5432/tcp"))

	// exponential backoff-retry, because the application in the container might not be ready to accept connections yet
	if err := pool.Retry(func() error {
		var err error
		db, err = gorm.Open(postgres.Open(sqlInfo), &gorm.Config{
			NamingStrategy: schema.NamingStrategy{
				TablePrefix:   "pack.",
				SingularTable: false,
			},
			Logger: logger.Default.LogMode(logger.Silent),
		})

		if err != nil {
			return err
		}
		db.Exec(`CREATE SCHEMA IF NOT EXISTS pack`)
		for _, query := range testEnumQueries {
			x := db.Exec(query)
			if x.Error != nil {
				if strings.Contains(x.Error.Error(), "already exists") {
					continue
				}
			}
		}
		return db.AutoMigrate(
			&User{},
			&Youth{},
			&ParentRelationship{},
			&Event{},
			&Rsvp{},
			&RsvpMember{},
			&FieldDefinition{},
			&FieldData{},
		)

	}); err != nil {
		log.Fatalf("Could not connect to database: %s", err)
	}

	defer func() {
		if err := pool.Purge(resource); err != nil {
			log.Fatalf("Could not purge resource: %s", err)
		}
	}()
	m.Run()
}

func TearDown() {
	db.Exec("DELETE FROM pack.field_data")
	db.Exec("DELETE FROM pack.field_definitions")
	db.Exec("DELETE FROM pack.rsvp_members")
	db.Exec("DELETE FROM pack.rsvps")
	db.Exec("DELETE FROM pack.parent_relationships")
	db.Exec("DELETE FROM pack.events")
	db.Exec("DELETE FROM pack.youths")
	db.Exec("DELETE FROM pack.users")
}

func makeEvent(name string) *Event {
	event := &Event{Name: name, StartsAt: time.Now()}
	if err := db.Create(event).Error; err != nil {
		log.Fatalf("Could not create event: %s", err)
	}
	return event
}
