package users_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shubhamshk/fraudBusters-App/internal/users"
)

func TestUserJSONNeverContainsPasswordHash(t *testing.T) {
	user := users.User{
		ID:           uuid.New(),
		Email:        "a@x.com",
		Name:         "A",
		PasswordHash: "$2a$12$somethingsecret",
		Role:         users.RoleStudent,
		CreatedAt:    time.Now(),
	}

	payload, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(payload)
	if strings.Contains(body, "somethingsecret") {
		t.Fatalf("serialized user leaks the password hash: %s", body)
	}
	if strings.Contains(body, "passwordHash") || strings.Contains(body, "PasswordHash") {
		t.Fatalf("serialized user exposes a password field: %s", body)
	}
}

func TestParseRole(t *testing.T) {
	for _, role := range users.Roles {
		parsed, ok := users.ParseRole(string(role))
		if !ok || parsed != role {
			t.Fatalf("expected %s to parse", role)
		}
	}
	for _, raw := range []string{"", "student", "ADMIN", "SUPERUSER"} {
		if _, ok := users.ParseRole(raw); ok {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	cases := map[string]string{
		"  A@X.COM ":       "a@x.com",
		"User@Example.ORG": "user@example.org",
		"plain@host":       "plain@host",
	}
	for input, want := range cases {
		if got := users.NormalizeEmail(input); got != want {
			t.Fatalf("NormalizeEmail(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestProfileOmitsEmptyFields(t *testing.T) {
	payload, err := json.Marshal(users.Profile{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(payload) != "{}" {
		t.Fatalf("empty profile must serialize to {}, got %s", payload)
	}

	payload, err = json.Marshal(users.Profile{RollNo: "42", Institution: "ABC University"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(payload)
	if !strings.Contains(body, `"rollNo":"42"`) || strings.Contains(body, "company") {
		t.Fatalf("unexpected profile serialization: %s", body)
	}
}
