package service

import (
	"strings"

	"scoutroster/app_error"
	"scoutroster/repository"

	"gorm.io/gorm"
)

type FieldDefinitionService struct {
	eventRepository           *repository.EventRepository
	fieldDefinitionRepository *repository.FieldDefinitionRepository
}

func NewFieldDefinitionService(db *gorm.DB) *FieldDefinitionService {
	return &FieldDefinitionService{
		eventRepository:           repository.NewEventRepository(db),
		fieldDefinitionRepository: repository.NewFieldDefinitionRepository(db),
	}
}

func (s *FieldDefinitionService) GetFieldDefinitionsForEvent(eventId int) ([]*repository.FieldDefinition, error) {
	return s.fieldDefinitionRepository.GetFieldDefinitionsForEvent(eventId)
}

func (s *FieldDefinitionService) GetFieldDefinitionById(fieldDefinitionId int) (*repository.FieldDefinition, error) {
	definition, err := s.fieldDefinitionRepository.GetFieldDefinitionById(fieldDefinitionId)
	if err != nil {
		return nil, app_error.NewNotFoundError("field definition %d not found", fieldDefinitionId)
	}
	return definition, nil
}

func (s *FieldDefinitionService) GetMaxSequenceNumber(eventId int) (int, error) {
	return s.fieldDefinitionRepository.GetMaxSequenceNumber(eventId)
}

func (s *FieldDefinitionService) CreateFieldDefinition(actor *repository.User, definition *repository.FieldDefinition) (*repository.FieldDefinition, error) {
	if !actor.IsAdmin() {
		return nil, app_error.NewAuthorizationError("only admins may manage field definitions")
	}
	if _, err := s.eventRepository.GetEventById(definition.EventId); err != nil {
		return nil, app_error.NewNotFoundError("event %d not found", definition.EventId)
	}
	if err := validateFieldDefinition(definition); err != nil {
		return nil, err
	}
	return s.fieldDefinitionRepository.Save(definition)
}

func (s *FieldDefinitionService) UpdateFieldDefinition(actor *repository.User, fieldDefinitionId int, definition *repository.FieldDefinition) (bool, error) {
	if !actor.IsAdmin() {
		return false, app_error.NewAuthorizationError("only admins may manage field definitions")
	}
	if err := validateFieldDefinition(definition); err != nil {
		return false, err
	}
	return s.fieldDefinitionRepository.Update(fieldDefinitionId, definition)
}

func (s *FieldDefinitionService) DeleteFieldDefinition(actor *repository.User, fieldDefinitionId int) (int, error) {
	if !actor.IsAdmin() {
		return 0, app_error.NewAuthorizationError("only admins may manage field definitions")
	}
	return s.fieldDefinitionRepository.Delete(fieldDefinitionId)
}

// validateFieldDefinition enforces the schema invariants: a non-empty name,
// known scope and type, and a non-empty option list exactly when the type
// is select.
func validateFieldDefinition(definition *repository.FieldDefinition) error {
	definition.Name = strings.TrimSpace(definition.Name)
	if definition.Name == "" {
		return app_error.NewValidationError("field name is required")
	}
	if _, ok := repository.ParseFieldScope(string(definition.Scope)); !ok {
		return app_error.NewValidationError("invalid field scope %q", definition.Scope)
	}
	if _, ok := repository.ParseFieldType(string(definition.FieldType)); !ok {
		return app_error.NewValidationError("invalid field type %q", definition.FieldType)
	}
	if definition.FieldType == repository.FieldTypeSelect {
		if len(definition.Options) == 0 {
			return app_error.NewValidationError("select fields require at least one option")
		}
		for _, option := range definition.Options {
			if strings.TrimSpace(option) == "" {
				return app_error.NewValidationError("select options must not be empty")
			}
		}
	} else {
		definition.Options = nil
	}
	return nil
}
