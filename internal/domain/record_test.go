package domain

import (
	"testing"
	"time"
)

func TestRecordLifecycle(t *testing.T) {
	var r Record
	r.InitTimestamps()

	if r.CreatedAt.IsZero() {
		t.Error("InitTimestamps should set CreatedAt")
	}
	if r.UpdatedAt != nil {
		t.Error("a fresh record should have nil UpdatedAt")
	}
	if r.IsDeleted() {
		t.Error("a fresh record should not be deleted")
	}

	r.Touch()
	if r.UpdatedAt == nil {
		t.Fatal("Touch should set UpdatedAt")
	}

	before := time.Now()
	r.MarkDeleted()
	if !r.IsDeleted() {
		t.Error("MarkDeleted should set the deleted flag")
	}
	if r.DeletedAt.Before(before) {
		t.Error("DeletedAt should be stamped at deletion time")
	}
	if r.UpdatedAt.Before(*r.DeletedAt) {
		t.Error("MarkDeleted should also bump UpdatedAt")
	}
}

func TestUserIsAdmin(t *testing.T) {
	member := &User{Role: RoleMember}
	if member.IsAdmin() {
		t.Error("member should not be admin")
	}

	admin := &User{Role: RoleAdmin}
	if !admin.IsAdmin() {
		t.Error("admin role should grant admin")
	}
}

func TestUserFullName(t *testing.T) {
	tests := []struct {
		given, family, want string
	}{
		{"Ada", "Lovelace", "Ada Lovelace"},
		{"Ada", "", "Ada"},
		{"", "Lovelace", "Lovelace"},
		{"", "", ""},
	}
	for _, tt := range tests {
		u := &User{GivenName: tt.given, FamilyName: tt.family}
		if got := u.FullName(); got != tt.want {
			t.Errorf("FullName(%q, %q) = %q, want %q", tt.given, tt.family, got, tt.want)
		}
	}
}

func TestSessionExpiry(t *testing.T) {
	live := &Session{ExpiresAt: time.Now().Add(time.Hour)}
	if live.IsExpired() {
		t.Error("future expiry should not be expired")
	}

	dead := &Session{ExpiresAt: time.Now().Add(-time.Minute)}
	if !dead.IsExpired() {
		t.Error("past expiry should be expired")
	}
}

func TestOwnershipHelpers(t *testing.T) {
	w := &Work{UserID: "user-1"}
	if !w.IsOwnedBy("user-1") || w.IsOwnedBy("user-2") {
		t.Error("Work.IsOwnedBy mismatch")
	}

	c := &WorkComment{UserID: "user-1"}
	if !c.IsAuthoredBy("user-1") || c.IsAuthoredBy("user-2") {
		t.Error("WorkComment.IsAuthoredBy mismatch")
	}
}
