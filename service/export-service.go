package service

import (
	"bytes"
	"encoding/csv"
	"regexp"
	"time"

	"scoutroster/app_error"
	"scoutroster/repository"

	"gorm.io/gorm"
)

var filenameSanitizer = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// RegistrationExport is a rendered CSV download.
type RegistrationExport struct {
	Filename string
	Content  []byte
}

type ExportService struct {
	eventRepository     *repository.EventRepository
	registrationService *RegistrationService
}

func NewExportService(db *gorm.DB) *ExportService {
	return &ExportService{
		eventRepository:     repository.NewEventRepository(db),
		registrationService: NewRegistrationService(db),
	}
}

// ExportRegistrationCSV renders the event's registration table as a CSV
// file. With zero participants the file still carries the BOM and header
// row.
func (s *ExportService) ExportRegistrationCSV(eventId int) (*RegistrationExport, error) {
	event, err := s.eventRepository.GetEventById(eventId)
	if err != nil {
		return nil, app_error.NewNotFoundError("event %d not found", eventId)
	}
	table, err := s.registrationService.GetRegistrationDataForEvent(eventId)
	if err != nil {
		return nil, err
	}
	content, err := buildRegistrationCSV(table)
	if err != nil {
		return nil, err
	}
	return &RegistrationExport{
		Filename: exportFilename(event.Name, time.Now()),
		Content:  content,
	}, nil
}

// exportFilename derives a safe download name from the event name: every
// character outside [A-Za-z0-9_-] becomes "_", suffixed with the date.
func exportFilename(eventName string, now time.Time) string {
	return filenameSanitizer.ReplaceAllString(eventName, "_") + "_" + now.Format("2006-01-02") + ".csv"
}

func buildRegistrationCSV(table *RegistrationTable) ([]byte, error) {
	var buf bytes.Buffer
	// UTF-8 byte order mark so spreadsheet applications detect the
	// encoding.
	buf.WriteString("\uFEFF")

	writer := csv.NewWriter(&buf)
	header := []string{"Last Name", "First Name", "Phone", "Email"}
	for _, field := range table.Fields {
		header = append(header, field.Name)
	}
	if err := writer.Write(header); err != nil {
		return nil, err
	}

	for _, row := range table.Rows {
		record := []string{
			row.Participant.LastName,
			row.Participant.FirstName,
			row.Participant.Phone,
			row.Participant.Email,
		}
		for _, field := range table.Fields {
			record = append(record, row.FieldData[field.Id])
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
