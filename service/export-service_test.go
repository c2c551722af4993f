package service

import (
	"strings"
	"testing"
	"time"

	"scoutroster/repository"

	"github.com/stretchr/testify/assert"
)

func TestExportFilename(t *testing.T) {
	date := time.Date(2026, 5, 17, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "Fall_Campout_2026-05-17.csv", exportFilename("Fall Campout", date))
	assert.Equal(t, "Pinewood_Derby__2026__2026-05-17.csv", exportFilename("Pinewood Derby (2026)", date))
	assert.Equal(t, "already-safe_name_2026-05-17.csv", exportFilename("already-safe_name", date))
}

func TestBuildRegistrationCSVEmptyEventIsHeaderOnly(t *testing.T) {
	table := &RegistrationTable{
		Fields: []*repository.FieldDefinition{
			{Id: 1, Name: "Shirt size"},
		},
		Rows: []*RegistrationRow{},
	}
	content, err := buildRegistrationCSV(table)
	assert.NoError(t, err)

	text := string(content)
	assert.True(t, strings.HasPrefix(text, "\uFEFF"), "expected BOM prefix")
	lines := strings.Split(strings.TrimRight(strings.TrimPrefix(text, "\uFEFF"), "\n"), "\n")
	assert.Len(t, lines, 1)
	assert.Equal(t, "Last Name,First Name,Phone,Email,Shirt size", lines[0])
}

func TestBuildRegistrationCSVDenseGrid(t *testing.T) {
	table := &RegistrationTable{
		Fields: []*repository.FieldDefinition{
			{Id: 1, Name: "Shirt size"},
			{Id: 2, Name: "Needs ride"},
		},
		Rows: []*RegistrationRow{
			{
				Participant: &Participant{
					Type:      repository.ParticipantAdult,
					Id:        7,
					FirstName: "Dana",
					LastName:  "Smith",
					Phone:     "555-0100",
					Email:     "dana@example.com",
				},
				FieldData: map[int]string{1: "XL", 2: "1"},
			},
			{
				Participant: &Participant{
					Type:      repository.ParticipantYouth,
					Id:        9,
					FirstName: "Riley",
					LastName:  "Smith",
				},
				// No stored value for field 2: the cell renders empty.
				FieldData: map[int]string{1: "M"},
			},
		},
	}
	content, err := buildRegistrationCSV(table)
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimRight(strings.TrimPrefix(string(content), "\uFEFF"), "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "Smith,Dana,555-0100,dana@example.com,XL,1", lines[1])
	assert.Equal(t, "Smith,Riley,,,M,", lines[2])
}
