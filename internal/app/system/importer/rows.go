// internal/app/system/importer/rows.go
package importer

import (
	"errors"

	"github.com/campusbridge/precollegehub/internal/app/system/normalize"
	"github.com/campusbridge/precollegehub/internal/app/system/spreadsheet"
)

// DefaultName is substituted when a row has contact info but no name.
const DefaultName = "User"

// ErrNoValidRows is returned when the sheet had rows but every one was
// skipped during normalization. An empty sheet is not an error.
var ErrNoValidRows = errors.New("no rows with an email or phone number")

// Record is one normalized spreadsheet row, ready for the pipeline.
type Record struct {
	Row   int // 1-indexed data row, for error reporting
	Name  string
	Email string // normalized, may be empty
	Phone string // E.164, may be empty

	StudentID        string
	Program          string
	Grade            string
	School           string
	Address          string
	EmergencyContact string
	Notes            string

	// Extra holds values from unmatched columns, keyed by original header.
	Extra map[string]string
}

// NormalizeRows applies the column map to every sheet row and normalizes the
// result. Rows without any contact info are dropped (they cannot be
// provisioned); skipped counts how many were. countryCode is prepended to
// bare national phone numbers.
func NormalizeRows(sheet spreadsheet.Sheet, m ColumnMap, countryCode string) (records []Record, skipped int, err error) {
	for i, row := range sheet.Rows {
		rec := Record{
			Row:              i + 1,
			Name:             normalize.Name(row[m.Fields[FieldName]]),
			Email:            normalize.Email(row[m.Fields[FieldEmail]]),
			Phone:            normalize.Phone(row[m.Fields[FieldPhone]], countryCode),
			StudentID:        normalize.Name(row[m.Fields[FieldStudentID]]),
			Program:          normalize.Name(row[m.Fields[FieldProgram]]),
			Grade:            normalize.Name(row[m.Fields[FieldGrade]]),
			School:           normalize.Name(row[m.Fields[FieldSchool]]),
			Address:          normalize.Name(row[m.Fields[FieldAddress]]),
			EmergencyContact: normalize.Name(row[m.Fields[FieldEmergencyContact]]),
			Notes:            normalize.Name(row[m.Fields[FieldNotes]]),
		}

		if rec.Email == "" && rec.Phone == "" {
			skipped++
			continue
		}
		if rec.Name == "" {
			rec.Name = DefaultName
		}

		for _, h := range m.Extras {
			if v := normalize.Name(row[h]); v != "" {
				if rec.Extra == nil {
					rec.Extra = make(map[string]string)
				}
				rec.Extra[h] = v
			}
		}

		records = append(records, rec)
	}

	if len(records) == 0 && len(sheet.Rows) > 0 {
		return nil, skipped, ErrNoValidRows
	}
	return records, skipped, nil
}
