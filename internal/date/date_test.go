package date

import (
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"go.yaml.in/yaml/v3"
)

func TestParse(t *testing.T) {
	t.Parallel()
	d, err := Parse("2024-02-29")
	if err != nil {
		t.Fatal(err)
	}
	if d.Year() != 2024 || d.Month() != time.February || d.Day() != 29 {
		t.Errorf("Parse = %v", d)
	}
	for _, bad := range []string{"", "2024-2-3", "2023-02-29", "tomorrow"} {
		if _, err := Parse(bad); err == nil {
			t.Errorf("Parse(%q) succeeded", bad)
		}
	}
}

func TestArithmetic(t *testing.T) {
	t.Parallel()
	d := New(2024, time.January, 31)
	next := d.AddDays(1)
	if next.String() != "2024-02-01" {
		t.Errorf("AddDays(1) = %s", next)
	}
	if got := d.DaysUntil(New(2024, time.March, 1)); got != 30 {
		t.Errorf("DaysUntil = %d, want 30", got)
	}
	if !d.Same(Of(time.Date(2024, time.January, 31, 23, 59, 0, 0, time.Local))) {
		t.Error("Same ignored the time of day incorrectly")
	}
	if d.Same(New(2023, time.January, 31)) {
		t.Error("Same matched a different year")
	}
}

func TestEncoding(t *testing.T) {
	t.Parallel()
	type doc struct {
		Due Date `json:"due" yaml:"due"`
	}
	in := doc{Due: New(2024, time.May, 10)}

	js, err := sonic.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	if string(js) != `{"due":"2024-05-10"}` {
		t.Errorf("json = %s", js)
	}
	var fromJSON doc
	if err := sonic.Unmarshal(js, &fromJSON); err != nil || !fromJSON.Due.Same(in.Due) {
		t.Errorf("json round trip = %v, %v", fromJSON, err)
	}

	ys, err := yaml.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	var fromYAML doc
	if err := yaml.Unmarshal(ys, &fromYAML); err != nil || !fromYAML.Due.Same(in.Due) {
		t.Errorf("yaml round trip = %v, %v (%s)", fromYAML, err, ys)
	}

	if err := sonic.Unmarshal([]byte(`{"due":"10/05/2024"}`), &fromJSON); err == nil {
		t.Error("malformed date accepted")
	}
}
