package migrate

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/schoolattendance/backend/migrations"
)

func TestLoadMigrationsOrdersAndPairs(t *testing.T) {
	fsys := fstest.MapFS{
		"000001_second.up.sql":   {Data: []byte("CREATE TABLE b (id INT);")},
		"000001_second.down.sql": {Data: []byte("DROP TABLE b;")},
		"000000_first.up.sql":    {Data: []byte("CREATE TABLE a (id INT);")},
		"README.md":              {Data: []byte("ignored")},
		"notes.sql":              {Data: []byte("ignored")},
	}

	got, err := LoadMigrations(fsys)
	if err != nil {
		t.Fatalf("LoadMigrations: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d migrations, want 2", len(got))
	}
	if got[0].Version != 0 || got[0].Name != "first" || got[0].DownSQL != "" {
		t.Errorf("unexpected migration 0: %+v", got[0])
	}
	if got[1].Version != 1 || got[1].Name != "second" || got[1].DownSQL == "" {
		t.Errorf("unexpected migration 1: %+v", got[1])
	}
}

func TestLoadMigrationsRejectsGaps(t *testing.T) {
	tests := map[string]fstest.MapFS{
		"gap": {
			"000000_a.up.sql": {Data: []byte("SELECT 1")},
			"000002_c.up.sql": {Data: []byte("SELECT 1")},
		},
		"missing up": {
			"000000_a.up.sql":   {Data: []byte("SELECT 1")},
			"000001_b.down.sql": {Data: []byte("SELECT 1")},
		},
		"empty": {},
	}
	for name, fsys := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadMigrations(fsys); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestEmbeddedMigrationsLoad(t *testing.T) {
	got, err := LoadMigrations(migrations.FS)
	if err != nil {
		t.Fatalf("embedded migrations: %v", err)
	}
	var attendance *Migration
	for i := range got {
		if got[i].Name == "attendance_records" {
			attendance = &got[i]
		}
		if got[i].Version > 0 && strings.TrimSpace(got[i].DownSQL) == "" {
			t.Errorf("migration %d has no down file", got[i].Version)
		}
	}
	if attendance == nil {
		t.Fatal("attendance_records migration not found")
	}
	if !strings.Contains(attendance.UpSQL, "UNIQUE (school_id, section, date)") {
		t.Error("attendance table must declare the natural key constraint")
	}
}

func TestSplitStatements(t *testing.T) {
	got := SplitStatements("CREATE TABLE a (id INT);\n\n ;CREATE INDEX i ON a (id);  ")
	if len(got) != 2 || got[0] != "CREATE TABLE a (id INT)" || got[1] != "CREATE INDEX i ON a (id)" {
		t.Errorf("SplitStatements = %q", got)
	}
}
