package service

import (
	"testing"

	"scoutroster/app_error"
	"scoutroster/repository"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestParseFieldKey(t *testing.T) {
	key, ok := ParseFieldKey("field_12_adult_7")
	assert.True(t, ok)
	assert.Equal(t, 12, key.FieldDefinitionId)
	assert.Equal(t, repository.ParticipantAdult, key.ParticipantType)
	assert.Equal(t, 7, key.ParticipantId)
	assert.Equal(t, "field_12_adult_7", key.FormKey())

	key, ok = ParseFieldKey("field_3_youth_15")
	assert.True(t, ok)
	assert.Equal(t, repository.ParticipantYouth, key.ParticipantType)

	malformed := []string{
		"field_12_adult",
		"field_12_adult_7_extra",
		"field_x_adult_7",
		"field_12_dog_7",
		"field_12_adult_x",
		"fields_12_adult_7",
		"csrf_token",
		"",
	}
	for _, raw := range malformed {
		_, ok := ParseFieldKey(raw)
		assert.False(t, ok, "expected %q to be rejected", raw)
	}
}

func TestParseSubmissionIgnoresUnmatchedKeys(t *testing.T) {
	form := map[string]string{
		"field_1_adult_7":    "hello",
		"field_1_youth_9":    "world",
		"field_2_youth_9":    "42",
		"field_bogus":        "ignored",
		"field_1_adult_7_v2": "ignored",
		"comment":            "ignored",
	}
	entries, refs := parseSubmission(form)
	assert.Len(t, entries, 3)
	assert.ElementsMatch(t, []repository.ParticipantRef{
		{Type: repository.ParticipantAdult, Id: 7},
		{Type: repository.ParticipantYouth, Id: 9},
	}, refs)
}

func TestAuthorizeRefs(t *testing.T) {
	scope := &ParticipantScope{
		ChildIds: map[int]bool{9: true},
		AdultIds: map[int]bool{7: true, 8: true},
	}

	err := authorizeRefs(scope, []repository.ParticipantRef{
		{Type: repository.ParticipantAdult, Id: 7},
		{Type: repository.ParticipantAdult, Id: 8},
		{Type: repository.ParticipantYouth, Id: 9},
	})
	assert.NoError(t, err)

	// A child id does not authorize the same id as an adult.
	err = authorizeRefs(scope, []repository.ParticipantRef{
		{Type: repository.ParticipantAdult, Id: 9},
	})
	assert.Error(t, err)
	var authorizationErr *app_error.AuthorizationError
	assert.ErrorAs(t, err, &authorizationErr)

	// One unauthorized participant rejects the set even when others pass.
	err = authorizeRefs(scope, []repository.ParticipantRef{
		{Type: repository.ParticipantAdult, Id: 7},
		{Type: repository.ParticipantYouth, Id: 99},
	})
	assert.Error(t, err)
}

func textField(id int, name string, required bool) *repository.FieldDefinition {
	return &repository.FieldDefinition{
		Id:        id,
		EventId:   1,
		Name:      name,
		Scope:     repository.ScopePerPerson,
		FieldType: repository.FieldTypeText,
		Required:  required,
	}
}

func TestBuildWritesTrimsAndStoresEmptyAsNull(t *testing.T) {
	definitions := []*repository.FieldDefinition{
		textField(1, "Shirt size", false),
		textField(2, "Allergies", false),
	}
	form := map[string]string{
		"field_1_adult_7": "  XL  ",
		"field_2_adult_7": "   ",
	}
	entries, refs := parseSubmission(form)
	writes, err := buildWrites(definitions, entries, refs)
	assert.NoError(t, err)
	assert.Len(t, writes, 2)

	byId := make(map[int]*repository.FieldData)
	for _, write := range writes {
		byId[write.FieldDefinitionId] = write
	}
	assert.Equal(t, "XL", *byId[1].Value)
	assert.Nil(t, byId[2].Value)
}

func TestBuildWritesNumericValidation(t *testing.T) {
	definitions := []*repository.FieldDefinition{
		{Id: 1, EventId: 1, Name: "Age", Scope: repository.ScopePerPerson, FieldType: repository.FieldTypeNumeric},
	}
	entries, refs := parseSubmission(map[string]string{"field_1_adult_7": "12.5"})
	writes, err := buildWrites(definitions, entries, refs)
	assert.NoError(t, err)
	assert.Equal(t, "12.5", *writes[0].Value)

	entries, refs = parseSubmission(map[string]string{"field_1_adult_7": "twelve"})
	writes, err = buildWrites(definitions, entries, refs)
	assert.Nil(t, writes)
	assert.EqualError(t, err, "Age must be numeric")

	// Empty values are not numerically validated.
	entries, refs = parseSubmission(map[string]string{"field_1_adult_7": ""})
	writes, err = buildWrites(definitions, entries, refs)
	assert.NoError(t, err)
	assert.Nil(t, writes[0].Value)
}

func TestBuildWritesRequiredRejectsWholeSubmission(t *testing.T) {
	definitions := []*repository.FieldDefinition{
		textField(1, "Emergency contact", true),
		textField(2, "Shirt size", false),
	}
	// One failing required field yields zero writes, including the valid
	// one for the same participant.
	form := map[string]string{
		"field_1_adult_7": "   ",
		"field_2_adult_7": "XL",
	}
	entries, refs := parseSubmission(form)
	writes, err := buildWrites(definitions, entries, refs)
	assert.Nil(t, writes)
	assert.EqualError(t, err, "Emergency contact is required")
}

func TestBuildWritesBooleanCheckboxSemantics(t *testing.T) {
	definitions := []*repository.FieldDefinition{
		{Id: 1, EventId: 1, Name: "Needs ride", Scope: repository.ScopePerPerson, FieldType: repository.FieldTypeBoolean},
		textField(2, "Shirt size", false),
	}
	// The adult checked the box, the youth's checkbox was omitted by the
	// form encoding but the youth is referenced through another field.
	form := map[string]string{
		"field_1_adult_7": "1",
		"field_2_youth_9": "M",
	}
	entries, refs := parseSubmission(form)
	writes, err := buildWrites(definitions, entries, refs)
	assert.NoError(t, err)

	byKey := make(map[string]*repository.FieldData)
	for _, write := range writes {
		byKey[write.DataKey()] = write
	}
	assert.Equal(t, "1", *byKey["1_adult_7"].Value)
	assert.Equal(t, "0", *byKey["1_youth_9"].Value)
	assert.Equal(t, "M", *byKey["2_youth_9"].Value)
}

func TestBuildWritesSkipsUnknownAndForeignFields(t *testing.T) {
	definitions := []*repository.FieldDefinition{
		textField(1, "Shirt size", false),
	}
	form := map[string]string{
		"field_1_adult_7":  "XL",
		"field_99_adult_7": "not a known field",
	}
	entries, refs := parseSubmission(form)
	writes, err := buildWrites(definitions, entries, refs)
	assert.NoError(t, err)
	assert.Len(t, writes, 1)
	assert.Equal(t, 1, writes[0].FieldDefinitionId)
}

func TestBuildWritesSkipsOutOfScopeParticipants(t *testing.T) {
	// A required per-youth numeric field submitted for an adult is
	// skipped entirely, not validated.
	definitions := []*repository.FieldDefinition{
		{Id: 1, EventId: 1, Name: "Grade", Scope: repository.ScopePerYouth, FieldType: repository.FieldTypeNumeric, Required: true},
	}
	form := map[string]string{
		"field_1_adult_7": "not numeric",
		"field_1_youth_9": "5",
	}
	entries, refs := parseSubmission(form)
	writes, err := buildWrites(definitions, entries, refs)
	assert.NoError(t, err)
	assert.Len(t, writes, 1)
	assert.Equal(t, repository.ParticipantYouth, writes[0].ParticipantType)
}

func TestBuildWritesPerFamilyAppliesToAdultsOnly(t *testing.T) {
	definitions := []*repository.FieldDefinition{
		{Id: 1, EventId: 1, Name: "Campsite", Scope: repository.ScopePerFamily, FieldType: repository.FieldTypeText},
	}
	form := map[string]string{
		"field_1_adult_7": "Site 4",
		"field_1_youth_9": "Site 5",
	}
	entries, refs := parseSubmission(form)
	writes, err := buildWrites(definitions, entries, refs)
	assert.NoError(t, err)
	assert.Len(t, writes, 1)
	assert.Equal(t, repository.ParticipantAdult, writes[0].ParticipantType)
}

func TestBuildWritesSelectValueOutsideOptionsIsAccepted(t *testing.T) {
	// Option membership is deliberately not checked at save time.
	definitions := []*repository.FieldDefinition{
		{Id: 1, EventId: 1, Name: "Meal", Scope: repository.ScopePerPerson, FieldType: repository.FieldTypeSelect, Options: pq.StringArray{"A", "B"}},
	}
	entries, refs := parseSubmission(map[string]string{"field_1_adult_7": "C"})
	writes, err := buildWrites(definitions, entries, refs)
	assert.NoError(t, err)
	assert.Equal(t, "C", *writes[0].Value)
}
