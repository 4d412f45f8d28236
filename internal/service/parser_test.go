package service

import (
	"reflect"
	"testing"
)

func TestParseSuggestions(t *testing.T) {
	body := []byte(`["drone",["drone reviews","drone racing","drone footage"],[],{"google:suggesttype":[]}]`)

	got, err := ParseSuggestions(body)
	if err != nil {
		t.Fatalf("ParseSuggestions returned error: %v", err)
	}

	want := []string{"drone reviews", "drone racing", "drone footage"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseSuggestions = %v, want %v", got, want)
	}
}

func TestParseSuggestions_EmptyList(t *testing.T) {
	got, err := ParseSuggestions([]byte(`["zzzqqq",[]]`))
	if err != nil {
		t.Fatalf("ParseSuggestions returned error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("ParseSuggestions = %#v, want empty non-nil slice", got)
	}
}

func TestParseSuggestions_Malformed(t *testing.T) {
	cases := []string{
		`not json`,
		`{"q":"drone"}`,
		`["drone"]`,
		`["drone", "not-a-list"]`,
	}
	for _, c := range cases {
		if _, err := ParseSuggestions([]byte(c)); err == nil {
			t.Errorf("ParseSuggestions(%q) expected error", c)
		}
	}
}
