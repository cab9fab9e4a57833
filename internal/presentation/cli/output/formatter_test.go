package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewFormatter(t *testing.T) {
	t.Run("default options", func(t *testing.T) {
		f := NewFormatter()
		if f.format != FormatText {
			t.Errorf("expected format %v, got %v", FormatText, f.format)
		}
		if f.colorEnabled {
			t.Error("expected color to be disabled by default")
		}
	})

	t.Run("with custom options", func(t *testing.T) {
		var buf bytes.Buffer
		f := NewFormatter(
			WithWriter(&buf),
			WithFormat(FormatJSON),
			WithColor(true),
		)

		if f.Format() != FormatJSON {
			t.Errorf("expected format %v, got %v", FormatJSON, f.Format())
		}
		if !f.colorEnabled {
			t.Error("expected color to be enabled")
		}
	})
}

func TestFormatter_Println(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(WithWriter(&buf))

	if err := f.Println("hello %s", "world"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := buf.String(); got != "hello world\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestFormatter_Messages(t *testing.T) {
	tests := []struct {
		name  string
		write func(f *Formatter) error
		want  string
	}{
		{"error", func(f *Formatter) error { return f.Error("bad %d", 1) }, "✗ bad 1\n"},
		{"warning", func(f *Formatter) error { return f.Warning("careful") }, "⚠ careful\n"},
		{"info", func(f *Formatter) error { return f.Info("note") }, "ℹ note\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			f := NewFormatter(WithWriter(&buf), WithColor(false))
			if err := tt.write(f); err != nil {
				t.Fatal(err)
			}
			if buf.String() != tt.want {
				t.Errorf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestFormatter_Colorize(t *testing.T) {
	var buf bytes.Buffer

	plain := NewFormatter(WithWriter(&buf), WithColor(false))
	if got := plain.Colorize("x", ColorRed); got != "x" {
		t.Errorf("expected no styling, got %q", got)
	}
	if got := plain.Bold("x"); got != "x" {
		t.Errorf("expected no styling, got %q", got)
	}

	colored := NewFormatter(WithWriter(&buf), WithColor(true))
	got := colored.Colorize("x", ColorRed)
	if !strings.Contains(got, "\x1b[") || !strings.Contains(got, "x") {
		t.Errorf("expected ANSI styling, got %q", got)
	}
}

func TestFormatter_Header(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(WithWriter(&buf))

	if err := f.Header("Providers"); err != nil {
		t.Fatal(err)
	}
	want := "Providers\n" + strings.Repeat("─", len("Providers")) + "\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestFormatter_Item(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(WithWriter(&buf))

	if err := f.Item("Version", "1.0.0"); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "  Version: 1.0.0\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestFormatter_Table(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(WithWriter(&buf))

	err := f.Table(TableData{
		Columns: []TableColumn{
			{Header: "MODEL"},
			{Header: "INPUT", Align: AlignRight},
		},
		Rows: [][]string{
			{"gpt-4o", "2.50"},
			{"gpt-4o-mini", "0.15"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := []string{
		"MODEL        INPUT",
		"-----------  -----",
		"gpt-4o        2.50",
		"gpt-4o-mini   0.15",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(lines), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestFormatter_TableEmpty(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(WithWriter(&buf))

	if err := f.Table(TableData{}); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestFormatter_JSON(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(WithWriter(&buf), WithFormat(FormatJSON))

	if err := f.JSON(map[string]int{"tokens": 4}); err != nil {
		t.Fatal(err)
	}

	var decoded map[string]int
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}
	if decoded["tokens"] != 4 {
		t.Errorf("unexpected value %v", decoded)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"JSON", FormatJSON, false},
		{" text ", FormatText, false},
		{"", FormatText, false},
		{"yaml", FormatText, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
