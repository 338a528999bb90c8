package validation

import "testing"

func TestValidRecordID(t *testing.T) {
	valid := []string{"S2024001", "T01", "a1", "ABC123xyz"}
	for _, id := range valid {
		if !ValidRecordID(id) {
			t.Errorf("%q should be a valid record id", id)
		}
	}

	invalid := []string{"", "S-2024", "id with space", "abcdefghijklmnopqrstu", "S'; DROP"}
	for _, id := range invalid {
		if ValidRecordID(id) {
			t.Errorf("%q should not be a valid record id", id)
		}
	}
}

func TestValidPhone(t *testing.T) {
	if !ValidPhone("") {
		t.Error("empty phone is allowed, field is optional")
	}
	if !ValidPhone("+1 (555) 123-4567") {
		t.Error("formatted phone should validate")
	}
	if ValidPhone("call me") {
		t.Error("letters should not validate as a phone")
	}
}

func TestValidEmail(t *testing.T) {
	if !ValidEmail("") {
		t.Error("empty email is allowed, field is optional")
	}
	if !ValidEmail("alice.wang@example.edu") {
		t.Error("well-formed address should validate")
	}
	for _, bad := range []string{"nope", "a@b", "@example.com"} {
		if ValidEmail(bad) {
			t.Errorf("%q should not validate", bad)
		}
	}
}

func TestValidName(t *testing.T) {
	if ValidName("A") {
		t.Error("single character name is too short")
	}
	if !ValidName("Alice Wang") {
		t.Error("normal name should validate")
	}
}
