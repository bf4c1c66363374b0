package users

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func postCreate(t *testing.T, h *Handler, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest("POST", "/users", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	h.ServeCreate(rec, req)
	return rec
}

func TestServeCreate_NormalizesProfileFields(t *testing.T) {
	// A user created one at a time must persist the same shape as one that
	// came in through a spreadsheet row.
	h, users, _ := newImportHandler()

	rec := postCreate(t, h, map[string]string{
		"name":              "  Jane Doe ",
		"email":             " Jane@X.EDU ",
		"role":              "mentor",
		"student_id":        "  S-1001 ",
		"program":           " Summer Robotics  ",
		"school":            "\tLincoln High ",
		"emergency_contact": "  John Doe 555-0100 ",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}

	if len(users.created) != 1 {
		t.Fatalf("created: got %d users, want 1", len(users.created))
	}
	got := users.created[0]
	if got.Name != "Jane Doe" {
		t.Errorf("name: got %q", got.Name)
	}
	if got.Email != "jane@x.edu" {
		t.Errorf("email: got %q", got.Email)
	}
	if got.StudentID != "S-1001" {
		t.Errorf("student id: got %q", got.StudentID)
	}
	if got.Program != "Summer Robotics" {
		t.Errorf("program: got %q", got.Program)
	}
	if got.School != "Lincoln High" {
		t.Errorf("school: got %q", got.School)
	}
	if got.EmergencyContact != "John Doe 555-0100" {
		t.Errorf("emergency contact: got %q", got.EmergencyContact)
	}
}

func TestServeCreate_RequiresContact(t *testing.T) {
	h, users, _ := newImportHandler()

	rec := postCreate(t, h, map[string]string{"name": "Jane Doe"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
	if len(users.created) != 0 {
		t.Errorf("no user should be created, got %d", len(users.created))
	}
}
