package output

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
	"time"
)

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestTable_Render(t *testing.T) {
	table := &Table{Headers: []string{"NAME", "VALUE"}}
	table.AddRow("key1", "value1")
	table.AddRow("longer-key", "value2")

	var buf bytes.Buffer
	if err := table.Render(&buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	got := lines(buf.String())
	want := []string{
		"NAME        VALUE",
		"key1        value1",
		"longer-key  value2",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Render() =\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestTableFormatter_Format_Nil(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, nil); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Format(nil) wrote %q", buf.String())
	}
}

func TestTableFormatter_Format_Struct(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, newSample()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"FIELD",
		"name",
		"localhost, example.test",
		"2030-01-02 03:04:05 UTC",
		"covered    yes",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTableFormatter_Format_SkipFields(t *testing.T) {
	type withSkip struct {
		Name    string `json:"name"`
		Skip    string `json:"skip" table:"-"`
		private string
	}

	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, withSkip{Name: "a", Skip: "hidden", private: "p"}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	if strings.Contains(buf.String(), "hidden") || strings.Contains(buf.String(), "private") {
		t.Errorf("skipped fields rendered:\n%s", buf.String())
	}
}

func TestTableFormatter_Format_NilPointer(t *testing.T) {
	var buf bytes.Buffer
	var report *sample
	if err := (&TableFormatter{}).Format(&buf, report); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Format(nil pointer) wrote %q", buf.String())
	}
}

func TestTableFormatter_Format_FallbackToJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, 42); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if strings.TrimSpace(buf.String()) != "42" {
		t.Errorf("Format(42) = %q", buf.String())
	}
}

func TestFormatValue(t *testing.T) {
	str := "pointer value"
	var nilPtr *string
	var iface any = "interface value"

	testCases := []struct {
		name     string
		input    reflect.Value
		expected string
	}{
		{"string", reflect.ValueOf("hello"), "hello"},
		{"empty string", reflect.ValueOf(""), "-"},
		{"int", reflect.ValueOf(42), "42"},
		{"uint", reflect.ValueOf(uint(99)), "99"},
		{"bool true", reflect.ValueOf(true), "yes"},
		{"bool false", reflect.ValueOf(false), "no"},
		{"empty slice", reflect.ValueOf([]string{}), "-"},
		{"slice", reflect.ValueOf([]string{"a", "b"}), "a, b"},
		{"pointer", reflect.ValueOf(&str), "pointer value"},
		{"nil pointer", reflect.ValueOf(nilPtr), ""},
		{"interface", reflect.ValueOf(&iface).Elem(), "interface value"},
		{"invalid", reflect.Value{}, ""},
		{"zero time", reflect.ValueOf(time.Time{}), "-"},
		{"time", reflect.ValueOf(time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)), "2024-06-15 14:30:00 UTC"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatValue(tc.input); got != tc.expected {
				t.Errorf("formatValue() = %q, want %q", got, tc.expected)
			}
		})
	}
}
