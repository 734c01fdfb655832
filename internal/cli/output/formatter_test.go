package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type tokenRow struct {
	Name  string `json:"name" yaml:"name"`
	Valid bool   `json:"valid" yaml:"valid"`
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatTable, "*output.TableFormatter"},
		{FormatJSON, "*output.JSONFormatter"},
		{FormatYAML, "*output.YAMLFormatter"},
		{Format("bogus"), "*output.TableFormatter"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			f := NewFormatter(tt.format)
			if got := typeName(f); got != tt.want {
				t.Errorf("NewFormatter(%q) = %s, want %s", tt.format, got, tt.want)
			}
		})
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *TableFormatter:
		return "*output.TableFormatter"
	case *JSONFormatter:
		return "*output.JSONFormatter"
	case *YAMLFormatter:
		return "*output.YAMLFormatter"
	default:
		return "unknown"
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONFormatter{}).Format(&buf, tokenRow{Name: "login", Valid: true}); err != nil {
		t.Fatalf("format: %v", err)
	}

	var got tokenRow
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if got.Name != "login" || !got.Valid {
		t.Errorf("round trip = %+v", got)
	}
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&YAMLFormatter{}).Format(&buf, tokenRow{Name: "login", Valid: true}); err != nil {
		t.Fatalf("format: %v", err)
	}

	var got tokenRow
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if got.Name != "login" || !got.Valid {
		t.Errorf("round trip = %+v", got)
	}
}

func TestTableFormatter(t *testing.T) {
	t.Run("struct renders key value pairs", func(t *testing.T) {
		var buf bytes.Buffer
		if err := (&TableFormatter{}).Format(&buf, tokenRow{Name: "login", Valid: false}); err != nil {
			t.Fatalf("format: %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, "NAME") || !strings.Contains(out, "login") {
			t.Errorf("missing name row:\n%s", out)
		}
		if !strings.Contains(out, "VALID") || !strings.Contains(out, "false") {
			t.Errorf("missing valid row:\n%s", out)
		}
	})

	t.Run("slice of structs renders header", func(t *testing.T) {
		var buf bytes.Buffer
		rows := []tokenRow{{Name: "a", Valid: true}, {Name: "b", Valid: false}}
		if err := (&TableFormatter{}).Format(&buf, rows); err != nil {
			t.Fatalf("format: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 3 {
			t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
		}
		if !strings.HasPrefix(lines[0], "NAME") {
			t.Errorf("header = %q", lines[0])
		}
	})

	t.Run("map renders sorted keys", func(t *testing.T) {
		var buf bytes.Buffer
		data := map[string]string{"status": "healthy", "backend": "memory"}
		if err := (&TableFormatter{}).Format(&buf, data); err != nil {
			t.Fatalf("format: %v", err)
		}

		out := buf.String()
		if strings.Index(out, "BACKEND") > strings.Index(out, "STATUS") {
			t.Errorf("keys not sorted:\n%s", out)
		}
	})

	t.Run("empty slice", func(t *testing.T) {
		var buf bytes.Buffer
		if err := (&TableFormatter{}).Format(&buf, []tokenRow{}); err != nil {
			t.Fatalf("format: %v", err)
		}
		if !strings.Contains(buf.String(), "(empty)") {
			t.Errorf("output = %q", buf.String())
		}
	})

	t.Run("camel case headers", func(t *testing.T) {
		if got := toHeaderCase("SessionID"); got != "SESSION_ID" {
			t.Errorf("toHeaderCase(SessionID) = %q", got)
		}
		if got := toHeaderCase("Name"); got != "NAME" {
			t.Errorf("toHeaderCase(Name) = %q", got)
		}
	})
}
