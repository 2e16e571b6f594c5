package onboarding

import (
	"bytes"
	"strings"
	"testing"
)

func TestRunPicksSpeciesAndName(t *testing.T) {
	in := strings.NewReader("9\nhamster\n\n" + strings.Repeat("x", 40) + "\nNibbles\n")
	var out bytes.Buffer

	res, err := New(in, &out, 0).Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.SpeciesID != "hamster" || res.Name != "Nibbles" {
		t.Fatalf("unexpected result %+v", res)
	}
	text := out.String()
	if !strings.Contains(text, "pick a number 1-5") {
		t.Fatalf("expected species retry prompt, got:\n%s", text)
	}
	if strings.Count(text, "pick a name (1-32 characters)") != 2 {
		t.Fatalf("expected two name retry prompts, got:\n%s", text)
	}
	if !strings.Contains(text, "hi. i'm Nibbles.") {
		t.Fatalf("expected greeting, got:\n%s", text)
	}
}

func TestRunByNumberWithoutTrailingNewline(t *testing.T) {
	res, err := New(strings.NewReader("2\nRex"), &bytes.Buffer{}, 0).Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.SpeciesID != "dog" || res.Name != "Rex" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestRunInputClosed(t *testing.T) {
	_, err := New(strings.NewReader("1\n"), &bytes.Buffer{}, 0).Run()
	if err == nil {
		t.Fatal("expected error when input ends before a name")
	}
}

func TestParseSpecies(t *testing.T) {
	tests := map[string]string{
		"1":      "cat",
		"Bunny":  "bunny",
		"DRAGON": "dragon",
		"0":      "",
		"kraken": "",
	}
	for in, want := range tests {
		if got := parseSpecies(in); got != want {
			t.Errorf("parseSpecies(%q) = %q, want %q", in, got, want)
		}
	}
}
