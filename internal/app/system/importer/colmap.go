// internal/app/system/importer/colmap.go

// Package importer turns an uploaded spreadsheet into provisioned user
// accounts: column mapping, row normalization, then the per-row pipeline of
// credential generation, identity provisioning, persistence, and
// notification.
package importer

import (
	"errors"
	"strings"
)

// Canonical field names produced by column mapping.
const (
	FieldName             = "name"
	FieldEmail            = "email"
	FieldPhone            = "phone"
	FieldStudentID        = "student_id"
	FieldProgram          = "program"
	FieldGrade            = "grade"
	FieldSchool           = "school"
	FieldAddress          = "address"
	FieldEmergencyContact = "emergency_contact"
	FieldNotes            = "notes"
)

// ErrNoContactColumn is returned when the sheet has neither an email nor a
// phone column; nothing in it could ever be provisioned.
var ErrNoContactColumn = errors.New("spreadsheet has no email or phone column")

// fieldAliases maps folded header spellings to canonical fields. Folding
// strips spaces, hyphens, and underscores and lower-cases, so "E-Mail",
// "email address", and "Email_Address" all land on the same key.
var fieldAliases = map[string]string{
	"name":             FieldName,
	"fullname":         FieldName,
	"studentname":      FieldName,
	"email":            FieldEmail,
	"emailaddress":     FieldEmail,
	"mail":             FieldEmail,
	"phone":            FieldPhone,
	"phonenumber":      FieldPhone,
	"mobile":           FieldPhone,
	"cell":             FieldPhone,
	"studentid":        FieldStudentID,
	"id":               FieldStudentID,
	"program":          FieldProgram,
	"grade":            FieldGrade,
	"gradelevel":       FieldGrade,
	"school":           FieldSchool,
	"address":          FieldAddress,
	"emergencycontact": FieldEmergencyContact,
	"notes":            FieldNotes,
	"comments":         FieldNotes,
}

// ColumnMap relates canonical fields to the sheet headers they came from.
// Headers that match no alias are carried through as extras.
type ColumnMap struct {
	// Fields maps canonical field name -> original header.
	Fields map[string]string
	// Extras are unmatched headers, preserved in order of appearance.
	Extras []string
}

// HasContact reports whether the map resolved an email or phone column.
func (m ColumnMap) HasContact() bool {
	_, email := m.Fields[FieldEmail]
	_, phone := m.Fields[FieldPhone]
	return email || phone
}

func foldHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(h)) {
		switch r {
		case ' ', '-', '_', '.':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ResolveColumns maps sheet headers onto canonical fields. The first header
// matching an alias wins; later duplicates fall through to extras. Returns
// ErrNoContactColumn when neither email nor phone resolved.
func ResolveColumns(headers []string) (ColumnMap, error) {
	m := ColumnMap{Fields: make(map[string]string)}
	for _, h := range headers {
		field, ok := fieldAliases[foldHeader(h)]
		if ok {
			if _, taken := m.Fields[field]; !taken {
				m.Fields[field] = h
				continue
			}
		}
		m.Extras = append(m.Extras, h)
	}
	if !m.HasContact() {
		return ColumnMap{}, ErrNoContactColumn
	}
	return m, nil
}
