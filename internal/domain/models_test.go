package domain

import "testing"

func TestValidRole(t *testing.T) {
	if !ValidRole(RoleUser) || !ValidRole(RoleAssistant) {
		t.Fatalf("canonical roles must validate")
	}
	for _, r := range []string{"", "system", "User", "ASSISTANT", "bot"} {
		if ValidRole(r) {
			t.Errorf("ValidRole(%q) = true; want false", r)
		}
	}
}

func TestTableNames(t *testing.T) {
	if got := (User{}).TableName(); got != "users" {
		t.Fatalf("users table = %q", got)
	}
	if got := (History{}).TableName(); got != "history" {
		t.Fatalf("history table = %q", got)
	}
	if got := (Message{}).TableName(); got != "messages" {
		t.Fatalf("messages table = %q", got)
	}
}
