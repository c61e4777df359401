package snippet

import (
	"testing"
)

func TestExtractTags(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected []string
	}{
		{
			name:     "single tag",
			content:  "pasta met #tomaat",
			expected: []string{"tomaat"},
		},
		{
			name:     "multiple tags",
			content:  "#pasta #tomaat #basilicum vanavond koken",
			expected: []string{"pasta", "tomaat", "basilicum"},
		},
		{
			name:     "duplicates collapse",
			content:  "#soep en nog eens #soep",
			expected: []string{"soep"},
		},
		{
			name:     "case preserved and distinct",
			content:  "#Soep #soep",
			expected: []string{"Soep", "soep"},
		},
		{
			name:     "no tags",
			content:  "gewoon een notitie zonder labels",
			expected: []string{},
		},
		{
			name:     "hash alone is not a tag",
			content:  "nummer # 5",
			expected: []string{},
		},
		{
			name:     "tag stops at whitespace",
			content:  "#boodschappen doen morgen",
			expected: []string{"boodschappen"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractTags(tt.content)
			if len(got) != len(tt.expected) {
				t.Fatalf("expected %v, got %v", tt.expected, got)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("expected %v, got %v", tt.expected, got)
					break
				}
			}
		})
	}
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "bare url",
			content:  "recept gevonden op https://www.24kitchen.nl/recepten/chocolademousse #dessert",
			expected: "www.24kitchen.nl",
		},
		{
			name:     "markdown link",
			content:  "[bonusaanbiedingen](https://ah.nl/bonus) voor deze week #boodschappen",
			expected: "ah.nl",
		},
		{
			name:     "first of multiple urls wins",
			content:  "https://eerste.nl/a en daarna https://tweede.nl/b",
			expected: "eerste.nl",
		},
		{
			name:     "url with port",
			content:  "lokaal testen op http://localhost:8081/notes",
			expected: "localhost",
		},
		{
			name:     "no url",
			content:  "#soep maken dit weekend",
			expected: "",
		},
		{
			name:     "empty content",
			content:  "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractDomain(tt.content); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
