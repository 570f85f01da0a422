package models

import (
	"testing"
	"time"
)

func TestIsValidRole(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		expected bool
	}{
		{"admin role", RoleAdmin, true},
		{"rider role", RoleRider, true},
		{"viewer role", RoleViewer, true},
		{"legacy manager role", "manager", false},
		{"invalid role", "invalid", false},
		{"empty role", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValidRole(tt.role)
			if result != tt.expected {
				t.Errorf("IsValidRole(%s) = %v, want %v", tt.role, result, tt.expected)
			}
		})
	}
}

func TestUser_HasPermission(t *testing.T) {
	admin := &User{Role: RoleAdmin}
	rider := &User{Role: RoleRider}
	viewer := &User{Role: RoleViewer}
	unknown := &User{Role: "mechanic"}

	tests := []struct {
		name     string
		user     *User
		action   string
		expected bool
	}{
		// Admin permissions - should have all permissions
		{"admin can delete user", admin, ActionDeleteUser, true},
		{"admin can manage users", admin, ActionManageUsers, true},
		{"admin can manage garage", admin, ActionManageGarage, true},

		// Rider permissions - own garage only
		{"rider can view garage", rider, ActionViewGarage, true},
		{"rider can manage garage", rider, ActionManageGarage, true},
		{"rider can export garage", rider, ActionExportGarage, true},
		{"rider cannot manage users", rider, ActionManageUsers, false},
		{"rider cannot delete user", rider, ActionDeleteUser, false},

		// Viewer permissions - read-only access
		{"viewer can view garage", viewer, ActionViewGarage, true},
		{"viewer cannot manage garage", viewer, ActionManageGarage, false},
		{"viewer cannot export garage", viewer, ActionExportGarage, false},

		{"unknown role has nothing", unknown, ActionViewGarage, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.user.HasPermission(tt.action)
			if result != tt.expected {
				t.Errorf("User with role %s HasPermission(%s) = %v, want %v",
					tt.user.Role, tt.action, result, tt.expected)
			}
		})
	}
}

func TestUser_StructFields(t *testing.T) {
	now := time.Now()
	user := &User{
		Username:     "testuser",
		Email:        "test@example.com",
		PasswordHash: "hashedpassword",
		Role:         RoleAdmin,
		FirstName:    "Test",
		LastName:     "User",
		IsActive:     true,
		LastLogin:    &now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Test that all fields are properly set
	if user.Username != "testuser" {
		t.Errorf("Expected Username to be 'testuser', got %s", user.Username)
	}
	if user.Email != "test@example.com" {
		t.Errorf("Expected Email to be 'test@example.com', got %s", user.Email)
	}
	if user.PasswordHash != "hashedpassword" {
		t.Errorf("Expected PasswordHash to be 'hashedpassword', got %s", user.PasswordHash)
	}
	if user.Role != RoleAdmin {
		t.Errorf("Expected Role to be RoleAdmin, got %s", user.Role)
	}
	if user.FirstName != "Test" {
		t.Errorf("Expected FirstName to be 'Test', got %s", user.FirstName)
	}
	if user.LastName != "User" {
		t.Errorf("Expected LastName to be 'User', got %s", user.LastName)
	}
	if !user.IsActive {
		t.Errorf("Expected IsActive to be true, got %v", user.IsActive)
	}
	if user.LastLogin == nil {
		t.Errorf("Expected LastLogin to be set, got nil")
	}
	if user.CreatedAt != now {
		t.Errorf("Expected CreatedAt to be set, got %v", user.CreatedAt)
	}
	if user.UpdatedAt != now {
		t.Errorf("Expected UpdatedAt to be set, got %v", user.UpdatedAt)
	}
}
