package service

import (
	"testing"

	"scoutroster/repository"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestValidateFieldDefinition(t *testing.T) {
	valid := &repository.FieldDefinition{
		Name:      "Shirt size",
		Scope:     repository.ScopePerPerson,
		FieldType: repository.FieldTypeSelect,
		Options:   pq.StringArray{"S", "M", "L"},
	}
	assert.NoError(t, validateFieldDefinition(valid))

	blankName := &repository.FieldDefinition{
		Name:      "   ",
		Scope:     repository.ScopePerPerson,
		FieldType: repository.FieldTypeText,
	}
	assert.EqualError(t, validateFieldDefinition(blankName), "field name is required")

	badScope := &repository.FieldDefinition{
		Name:      "Shirt size",
		Scope:     "per_den",
		FieldType: repository.FieldTypeText,
	}
	assert.Error(t, validateFieldDefinition(badScope))

	badType := &repository.FieldDefinition{
		Name:      "Shirt size",
		Scope:     repository.ScopePerPerson,
		FieldType: "dropdown",
	}
	assert.Error(t, validateFieldDefinition(badType))

	selectWithoutOptions := &repository.FieldDefinition{
		Name:      "Meal",
		Scope:     repository.ScopePerPerson,
		FieldType: repository.FieldTypeSelect,
	}
	assert.EqualError(t, validateFieldDefinition(selectWithoutOptions), "select fields require at least one option")

	selectWithBlankOption := &repository.FieldDefinition{
		Name:      "Meal",
		Scope:     repository.ScopePerPerson,
		FieldType: repository.FieldTypeSelect,
		Options:   pq.StringArray{"A", " "},
	}
	assert.Error(t, validateFieldDefinition(selectWithBlankOption))
}

func TestValidateFieldDefinitionClearsOptionsForNonSelect(t *testing.T) {
	definition := &repository.FieldDefinition{
		Name:      "Allergies",
		Scope:     repository.ScopePerPerson,
		FieldType: repository.FieldTypeText,
		Options:   pq.StringArray{"stale"},
	}
	assert.NoError(t, validateFieldDefinition(definition))
	assert.Nil(t, definition.Options)
}

func TestFieldDefinitionAppliesTo(t *testing.T) {
	perPerson := &repository.FieldDefinition{Scope: repository.ScopePerPerson}
	assert.True(t, perPerson.AppliesTo(repository.ParticipantAdult))
	assert.True(t, perPerson.AppliesTo(repository.ParticipantYouth))

	perYouth := &repository.FieldDefinition{Scope: repository.ScopePerYouth}
	assert.False(t, perYouth.AppliesTo(repository.ParticipantAdult))
	assert.True(t, perYouth.AppliesTo(repository.ParticipantYouth))

	perFamily := &repository.FieldDefinition{Scope: repository.ScopePerFamily}
	assert.True(t, perFamily.AppliesTo(repository.ParticipantAdult))
	assert.False(t, perFamily.AppliesTo(repository.ParticipantYouth))
}
