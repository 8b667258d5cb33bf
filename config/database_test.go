package config

import (
	"strings"
	"testing"
)

func TestBuildDSN(t *testing.T) {
	dsn := buildDSN("app", "secret", "db.local", "3306", "conference")

	if !strings.HasPrefix(dsn, "app:secret@tcp(db.local:3306)/conference?") {
		t.Fatalf("unexpected dsn prefix: %s", dsn)
	}

	// clientFoundRows keeps guarded status updates from mistaking an
	// identical-values no-op for a concurrent modification.
	for _, param := range []string{"charset=utf8mb4", "parseTime=True", "clientFoundRows=true"} {
		if !strings.Contains(dsn, param) {
			t.Errorf("dsn missing %s: %s", param, dsn)
		}
	}
}
