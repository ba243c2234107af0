package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRequestsMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_requests.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no requests migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS requests",
		"CHECK (status IN ('pending', 'assigned', 'in_progress', 'emergency', 'resolved'))",
		"CHECK (urgency IN ('Low', 'Medium', 'High', 'Critical'))",
		"idx_requests_created_at_id",
		"DROP TABLE IF EXISTS requests",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestStaffsMigrationEnforcesUniqueContact(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_staffs.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no staffs migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	if !strings.Contains(string(data), "UNIQUE (contact)") {
		t.Errorf("staffs migration missing unique contact constraint")
	}
}
