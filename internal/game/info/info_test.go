package info

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	c := Default()
	want := []string{"Chest", "Picnic", "Project_1", "Project_2", "Project_3"}
	got := c.Names()
	if len(got) != len(want) {
		t.Fatalf("Names = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	e, err := c.Lookup("Project_2")
	if err != nil {
		t.Fatal(err)
	}
	if e.Title != "To-Do List" || e.Link == "" {
		t.Errorf("Project_2 = %+v", e)
	}
	if e, _ := c.Lookup("Chest"); e.Link != "" {
		t.Error("Chest should have no link")
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := Default().Lookup("Pikachu")
	if !errors.Is(err, ErrUnknownEntry) {
		t.Errorf("Lookup error = %v, want ErrUnknownEntry", err)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
		want    int
	}{
		{"valid", "Sign:\n  title: Hello\n  content: World\n", false, 1},
		{"empty", "", false, 0},
		{"missing title", "Sign:\n  content: World\n", true, 0},
		{"bad yaml", "Sign: [unclosed", true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && len(c) != tt.want {
				t.Errorf("entries = %d, want %d", len(c), tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	c, err := Load("")
	if err != nil || len(c) != 5 {
		t.Fatalf("Load(\"\") = %d entries, %v", len(c), err)
	}

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := "Bench:\n  title: Bench\n  content: Sit down.\n  link: https://example.com/bench\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err = Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if e, err := c.Lookup("Bench"); err != nil || e.Link != "https://example.com/bench" {
		t.Errorf("Bench = %+v, %v", e, err)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v", err)
	}
}
