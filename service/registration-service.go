package service

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"scoutroster/app_error"
	"scoutroster/repository"

	"gorm.io/gorm"
)

// FieldKey is the parsed form of a submitted registration key
// "field_{fieldDefinitionId}_{participantType}_{participantId}". Keys are
// decoded once at the boundary; anything that does not match the shape is
// ignored.
type FieldKey struct {
	FieldDefinitionId int
	ParticipantType   repository.ParticipantType
	ParticipantId     int
}

func (k FieldKey) FormKey() string {
	return fmt.Sprintf("field_%d_%s_%d", k.FieldDefinitionId, k.ParticipantType, k.ParticipantId)
}

func (k FieldKey) Ref() repository.ParticipantRef {
	return repository.ParticipantRef{Type: k.ParticipantType, Id: k.ParticipantId}
}

// ParseFieldKey decodes a submitted key. The second return value is false
// for any key that is not exactly four underscore-delimited segments with a
// "field" prefix, a numeric definition id, a known participant type and a
// numeric participant id.
func ParseFieldKey(key string) (FieldKey, bool) {
	parts := strings.Split(key, "_")
	if len(parts) != 4 || parts[0] != "field" {
		return FieldKey{}, false
	}
	fieldDefinitionId, err := strconv.Atoi(parts[1])
	if err != nil {
		return FieldKey{}, false
	}
	participantType, ok := repository.ParseParticipantType(parts[2])
	if !ok {
		return FieldKey{}, false
	}
	participantId, err := strconv.Atoi(parts[3])
	if err != nil {
		return FieldKey{}, false
	}
	return FieldKey{
		FieldDefinitionId: fieldDefinitionId,
		ParticipantType:   participantType,
		ParticipantId:     participantId,
	}, true
}

// RegistrationRow is one participant's answers keyed by field definition id.
// Missing and cleared answers both render as the empty string.
type RegistrationRow struct {
	Participant *Participant
	FieldData   map[int]string
}

// RegistrationTable is the dense fields x participants view used for
// on-screen review and export.
type RegistrationTable struct {
	Fields []*repository.FieldDefinition
	Rows   []*RegistrationRow
}

type RegistrationService struct {
	eventRepository           *repository.EventRepository
	fieldDefinitionRepository *repository.FieldDefinitionRepository
	fieldDataRepository       *repository.FieldDataRepository
	participantService        *ParticipantService
}

func NewRegistrationService(db *gorm.DB) *RegistrationService {
	return &RegistrationService{
		eventRepository:           repository.NewEventRepository(db),
		fieldDefinitionRepository: repository.NewFieldDefinitionRepository(db),
		fieldDataRepository:       repository.NewFieldDataRepository(db),
		participantService:        NewParticipantService(db),
	}
}

// GetFieldDataForParticipants returns the stored values for the given
// participant set keyed "{fieldDefId}_{type}_{id}". Pairs never answered
// are absent; pairs answered empty are present with "".
func (s *RegistrationService) GetFieldDataForParticipants(refs []repository.ParticipantRef) (map[string]string, error) {
	data, err := s.fieldDataRepository.GetFieldDataForParticipants(refs)
	if err != nil {
		return nil, err
	}
	values := make(map[string]string, len(data))
	for _, row := range data {
		value := ""
		if row.Value != nil {
			value = *row.Value
		}
		values[row.DataKey()] = value
	}
	return values, nil
}

// Submit validates and persists one registration submission. All targeted
// participants are authorized and every value is validated before anything
// is written; any failure leaves the database untouched.
func (s *RegistrationService) Submit(actor *repository.User, eventId int, form map[string]string) error {
	if _, err := s.eventRepository.GetEventById(eventId); err != nil {
		return app_error.NewNotFoundError("event %d not found", eventId)
	}

	entries, refs := parseSubmission(form)

	if !actor.IsAdmin() {
		scope, err := s.participantService.AuthorizedParticipantScope(actor.Id)
		if err != nil {
			return err
		}
		if err := authorizeRefs(scope, refs); err != nil {
			return err
		}
	}

	definitions, err := s.fieldDefinitionRepository.GetFieldDefinitionsForEvent(eventId)
	if err != nil {
		return err
	}
	writes, err := buildWrites(definitions, entries, refs)
	if err != nil {
		return err
	}
	return s.fieldDataRepository.SaveFieldDataBatch(writes)
}

// GetRegistrationDataForEvent assembles the tabulation: the event's ordered
// field definitions, the distinct participant set across all "yes" RSVPs,
// and one row of stored values per participant.
func (s *RegistrationService) GetRegistrationDataForEvent(eventId int) (*RegistrationTable, error) {
	if _, err := s.eventRepository.GetEventById(eventId); err != nil {
		return nil, app_error.NewNotFoundError("event %d not found", eventId)
	}
	fields, err := s.fieldDefinitionRepository.GetFieldDefinitionsForEvent(eventId)
	if err != nil {
		return nil, err
	}
	participants, err := s.participantService.ResolveEventParticipants(eventId)
	if err != nil {
		return nil, err
	}
	data, err := s.fieldDataRepository.GetFieldDataForEvent(eventId)
	if err != nil {
		return nil, err
	}

	valuesByRef := make(map[repository.ParticipantRef]map[int]string)
	for _, row := range data {
		ref := repository.ParticipantRef{Type: row.ParticipantType, Id: row.ParticipantId}
		if valuesByRef[ref] == nil {
			valuesByRef[ref] = make(map[int]string)
		}
		if row.Value != nil {
			valuesByRef[ref][row.FieldDefinitionId] = *row.Value
		}
	}

	rows := make([]*RegistrationRow, 0, len(participants))
	for _, participant := range participants {
		fieldData := valuesByRef[participant.Ref()]
		if fieldData == nil {
			fieldData = make(map[int]string)
		}
		rows = append(rows, &RegistrationRow{Participant: participant, FieldData: fieldData})
	}
	return &RegistrationTable{Fields: fields, Rows: rows}, nil
}

type submissionEntry struct {
	Key   FieldKey
	Value string
}

// parseSubmission decodes every well-formed field key in the form and
// accumulates the distinct set of referenced participants. Both results are
// deterministically ordered so downstream failures are stable.
func parseSubmission(form map[string]string) ([]submissionEntry, []repository.ParticipantRef) {
	entries := make([]submissionEntry, 0, len(form))
	for key, value := range form {
		fieldKey, ok := ParseFieldKey(key)
		if !ok {
			continue
		}
		entries = append(entries, submissionEntry{Key: fieldKey, Value: value})
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i].Key, entries[j].Key
		if a.FieldDefinitionId != b.FieldDefinitionId {
			return a.FieldDefinitionId < b.FieldDefinitionId
		}
		if a.ParticipantType != b.ParticipantType {
			return a.ParticipantType < b.ParticipantType
		}
		return a.ParticipantId < b.ParticipantId
	})

	seen := make(map[repository.ParticipantRef]bool)
	refs := make([]repository.ParticipantRef, 0)
	for _, entry := range entries {
		ref := entry.Key.Ref()
		if !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
	}
	return entries, refs
}

// authorizeRefs rejects the whole submission if any referenced participant
// is outside the actor's scope.
func authorizeRefs(scope *ParticipantScope, refs []repository.ParticipantRef) error {
	for _, ref := range refs {
		if !scope.Allows(ref) {
			return app_error.NewAuthorizationError(
				"not authorized to submit registration data for %s %d", ref.Type, ref.Id)
		}
	}
	return nil
}

// buildWrites normalizes and validates every applicable (field, participant)
// pair and returns the rows to persist. Boolean fields use checkbox
// semantics: for each referenced participant, a missing key counts as "0"
// and a present key as "1". Entries whose definition is unknown, owned by
// another event, or out of scope for the participant type are skipped
// without validation. Any validation failure returns an error and no
// writes.
func buildWrites(definitions []*repository.FieldDefinition, entries []submissionEntry, refs []repository.ParticipantRef) ([]*repository.FieldData, error) {
	definitionsById := make(map[int]*repository.FieldDefinition, len(definitions))
	for _, definition := range definitions {
		definitionsById[definition.Id] = definition
	}

	submitted := make(map[FieldKey]string, len(entries))
	for _, entry := range entries {
		submitted[entry.Key] = entry.Value
	}

	// Synthesize entries for unchecked boolean fields: standard form
	// encoding omits unchecked checkboxes entirely, so absence means "0".
	synthesized := make(map[FieldKey]bool)
	for _, definition := range definitions {
		if definition.FieldType != repository.FieldTypeBoolean {
			continue
		}
		for _, ref := range refs {
			if !definition.AppliesTo(ref.Type) {
				continue
			}
			key := FieldKey{FieldDefinitionId: definition.Id, ParticipantType: ref.Type, ParticipantId: ref.Id}
			if _, ok := submitted[key]; !ok {
				entries = append(entries, submissionEntry{Key: key, Value: "0"})
				submitted[key] = "0"
				synthesized[key] = true
			}
		}
	}

	writes := make([]*repository.FieldData, 0, len(entries))
	for _, entry := range entries {
		definition, ok := definitionsById[entry.Key.FieldDefinitionId]
		if !ok {
			continue
		}
		if !definition.AppliesTo(entry.Key.ParticipantType) {
			continue
		}

		var value string
		if definition.FieldType == repository.FieldTypeBoolean {
			// Checkbox semantics: present means checked.
			value = "1"
			if synthesized[entry.Key] {
				value = "0"
			}
		} else {
			value = strings.TrimSpace(entry.Value)
		}

		if definition.FieldType == repository.FieldTypeNumeric && value != "" {
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				return nil, app_error.NewValidationError("%s must be numeric", definition.Name)
			}
		}
		if definition.Required && value == "" {
			return nil, app_error.NewValidationError("%s is required", definition.Name)
		}

		data := &repository.FieldData{
			FieldDefinitionId: definition.Id,
			ParticipantType:   entry.Key.ParticipantType,
			ParticipantId:     entry.Key.ParticipantId,
		}
		// Empty string persists as NULL: "answered empty" rather than a
		// value.
		if value != "" {
			data.Value = &value
		}
		writes = append(writes, data)
	}
	return writes, nil
}
