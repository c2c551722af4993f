package repository

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func makeTextField(t *testing.T, eventId int, name string, sequence int) *FieldDefinition {
	t.Helper()
	definition := &FieldDefinition{
		EventId:        eventId,
		Name:           name,
		Scope:          ScopePerPerson,
		FieldType:      FieldTypeText,
		SequenceNumber: sequence,
	}
	definition, err := NewFieldDefinitionRepository(db).Save(definition)
	assert.NoError(t, err)
	return definition
}

func strPtr(s string) *string {
	return &s
}

func TestFieldDataRoundTrip(t *testing.T) {
	defer TearDown()
	event := makeEvent("Fall Campout")
	definition := makeTextField(t, event.Id, "Shirt size", 10)
	repo := NewFieldDataRepository(db)

	err := repo.SaveFieldData(&FieldData{
		FieldDefinitionId: definition.Id,
		ParticipantType:   ParticipantAdult,
		ParticipantId:     7,
		Value:             strPtr("XL"),
	})
	assert.NoError(t, err)

	data, err := repo.GetFieldDataForParticipants([]ParticipantRef{{Type: ParticipantAdult, Id: 7}})
	assert.NoError(t, err)
	assert.Len(t, data, 1)
	assert.Equal(t, "XL", *data[0].Value)

	// The fetch is restricted to the requested participant set.
	data, err = repo.GetFieldDataForParticipants([]ParticipantRef{{Type: ParticipantYouth, Id: 7}})
	assert.NoError(t, err)
	assert.Len(t, data, 0)
}

func TestFieldDataUpsertLastWriteWins(t *testing.T) {
	defer TearDown()
	event := makeEvent("Fall Campout")
	definition := makeTextField(t, event.Id, "Shirt size", 10)
	repo := NewFieldDataRepository(db)

	key := FieldData{FieldDefinitionId: definition.Id, ParticipantType: ParticipantAdult, ParticipantId: 7}

	first := key
	first.Value = strPtr("M")
	assert.NoError(t, repo.SaveFieldData(&first))

	second := key
	second.Value = strPtr("XL")
	assert.NoError(t, repo.SaveFieldData(&second))

	data, err := repo.GetFieldDataForParticipants([]ParticipantRef{{Type: ParticipantAdult, Id: 7}})
	assert.NoError(t, err)
	assert.Len(t, data, 1)
	assert.Equal(t, "XL", *data[0].Value)
}

func TestFieldDataNullValueDistinctFromAbsent(t *testing.T) {
	defer TearDown()
	event := makeEvent("Fall Campout")
	answered := makeTextField(t, event.Id, "Allergies", 10)
	neverAnswered := makeTextField(t, event.Id, "Notes", 20)
	repo := NewFieldDataRepository(db)

	// Answered empty: a row exists with a NULL value.
	assert.NoError(t, repo.SaveFieldData(&FieldData{
		FieldDefinitionId: answered.Id,
		ParticipantType:   ParticipantAdult,
		ParticipantId:     7,
	}))

	data, err := repo.GetFieldDataForParticipants([]ParticipantRef{{Type: ParticipantAdult, Id: 7}})
	assert.NoError(t, err)
	assert.Len(t, data, 1)
	assert.Equal(t, answered.Id, data[0].FieldDefinitionId)
	assert.Nil(t, data[0].Value)

	_ = neverAnswered // no row was ever written for this definition
}

func TestFieldDataBatchSave(t *testing.T) {
	defer TearDown()
	event := makeEvent("Fall Campout")
	first := makeTextField(t, event.Id, "Shirt size", 10)
	second := makeTextField(t, event.Id, "Allergies", 20)
	repo := NewFieldDataRepository(db)

	err := repo.SaveFieldDataBatch([]*FieldData{
		{FieldDefinitionId: first.Id, ParticipantType: ParticipantAdult, ParticipantId: 7, Value: strPtr("XL")},
		{FieldDefinitionId: second.Id, ParticipantType: ParticipantAdult, ParticipantId: 7, Value: strPtr("peanuts")},
		{FieldDefinitionId: first.Id, ParticipantType: ParticipantYouth, ParticipantId: 9, Value: strPtr("M")},
	})
	assert.NoError(t, err)

	data, err := repo.GetFieldDataForParticipants([]ParticipantRef{
		{Type: ParticipantAdult, Id: 7},
		{Type: ParticipantYouth, Id: 9},
	})
	assert.NoError(t, err)
	assert.Len(t, data, 3)
}

func TestGetFieldDataForEventJoinsOwnDefinitionsOnly(t *testing.T) {
	defer TearDown()
	event := makeEvent("Fall Campout")
	otherEvent := makeEvent("Pinewood Derby")
	own := makeTextField(t, event.Id, "Shirt size", 10)
	foreign := makeTextField(t, otherEvent.Id, "Car weight", 10)
	repo := NewFieldDataRepository(db)

	assert.NoError(t, repo.SaveFieldData(&FieldData{
		FieldDefinitionId: own.Id, ParticipantType: ParticipantAdult, ParticipantId: 7, Value: strPtr("XL"),
	}))
	assert.NoError(t, repo.SaveFieldData(&FieldData{
		FieldDefinitionId: foreign.Id, ParticipantType: ParticipantAdult, ParticipantId: 7, Value: strPtr("141"),
	}))

	data, err := repo.GetFieldDataForEvent(event.Id)
	assert.NoError(t, err)
	assert.Len(t, data, 1)
	assert.Equal(t, own.Id, data[0].FieldDefinitionId)
}

func TestDeleteFieldDefinitionCascadesToData(t *testing.T) {
	defer TearDown()
	event := makeEvent("Fall Campout")
	definition := makeTextField(t, event.Id, "Shirt size", 10)
	definitionRepo := NewFieldDefinitionRepository(db)
	dataRepo := NewFieldDataRepository(db)

	assert.NoError(t, dataRepo.SaveFieldData(&FieldData{
		FieldDefinitionId: definition.Id, ParticipantType: ParticipantAdult, ParticipantId: 7, Value: strPtr("XL"),
	}))

	count, err := definitionRepo.Delete(definition.Id)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)

	data, err := dataRepo.GetFieldDataForParticipants([]ParticipantRef{{Type: ParticipantAdult, Id: 7}})
	assert.NoError(t, err)
	assert.Len(t, data, 0)

	// Deleting again matches nothing.
	count, err = definitionRepo.Delete(definition.Id)
	assert.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestFieldDefinitionOrderingAndSequence(t *testing.T) {
	defer TearDown()
	event := makeEvent("Fall Campout")
	repo := NewFieldDefinitionRepository(db)

	max, err := repo.GetMaxSequenceNumber(event.Id)
	assert.NoError(t, err)
	assert.Equal(t, 0, max)

	second := makeTextField(t, event.Id, "Second", 20)
	firstA := makeTextField(t, event.Id, "First A", 10)
	firstB := makeTextField(t, event.Id, "First B", 10)

	definitions, err := repo.GetFieldDefinitionsForEvent(event.Id)
	assert.NoError(t, err)
	assert.Len(t, definitions, 3)
	// Sequence ascending, ties broken by id.
	assert.Equal(t, firstA.Id, definitions[0].Id)
	assert.Equal(t, firstB.Id, definitions[1].Id)
	assert.Equal(t, second.Id, definitions[2].Id)

	max, err = repo.GetMaxSequenceNumber(event.Id)
	assert.NoError(t, err)
	assert.Equal(t, 20, max)
}

func TestFieldDefinitionUpdateUnmatchedId(t *testing.T) {
	defer TearDown()
	repo := NewFieldDefinitionRepository(db)
	matched, err := repo.Update(99999, &FieldDefinition{
		Name:      "Renamed",
		Scope:     ScopePerPerson,
		FieldType: FieldTypeText,
	})
	assert.NoError(t, err)
	assert.False(t, matched)
}

func TestFieldDefinitionSelectOptionsRoundTrip(t *testing.T) {
	defer TearDown()
	event := makeEvent("Fall Campout")
	repo := NewFieldDefinitionRepository(db)
	definition, err := repo.Save(&FieldDefinition{
		EventId:   event.Id,
		Name:      "Meal",
		Scope:     ScopePerPerson,
		FieldType: FieldTypeSelect,
		Options:   pq.StringArray{"Chicken", "Veggie", "Hot dog"},
	})
	assert.NoError(t, err)

	loaded, err := repo.GetFieldDefinitionById(definition.Id)
	assert.NoError(t, err)
	assert.Equal(t, pq.StringArray{"Chicken", "Veggie", "Hot dog"}, loaded.Options)
}
