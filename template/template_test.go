package template

import (
	"testing"
)

func TestExpand(t *testing.T) {
	tests := []struct {
		name     string
		template string
		store    map[string]any
		expected string
		wantErr  bool
	}{
		{
			name:     "store locator query",
			template: "https://example.com/geo?latitude={{latitude}}&longitude={{longitude}}&radius={{radius}}",
			store:    map[string]any{"latitude": "37.7749", "longitude": "-122.4194", "radius": 20},
			expected: "https://example.com/geo?latitude=37.7749&longitude=-122.4194&radius=20",
		},
		{
			name:     "spaces inside braces",
			template: "{{ country }}-{{ language }}",
			store:    map[string]any{"country": "us", "language": "en-us"},
			expected: "us-en-us",
		},
		{
			name:     "no expressions",
			template: "https://example.com/fixed",
			store:    map[string]any{"unused": "value"},
			expected: "https://example.com/fixed",
		},
		{
			name:     "arithmetic",
			template: "maxResults={{maxResults * 2}}",
			store:    map[string]any{"maxResults": 1},
			expected: "maxResults=2",
		},
		{
			name:     "ternary",
			template: `{{country == "" ? "us" : country}}`,
			store:    map[string]any{"country": ""},
			expected: "us",
		},
		{
			name:     "float value",
			template: "latitude={{lat}}",
			store:    map[string]any{"lat": 37.5},
			expected: "latitude=37.5",
		},
		{
			name:     "string function",
			template: "{{language.size()}}",
			store:    map[string]any{"language": "en-us"},
			expected: "5",
		},
		{
			name:     "undefined variable",
			template: "{{undefined}}",
			store:    map[string]any{"other": "value"},
			wantErr:  true,
		},
		{
			name:     "invalid expression",
			template: "{{radius == }}",
			store:    map[string]any{"radius": 20},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Expand(tt.template, tt.store)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expand() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Expand() unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expand() = %q, want %q", got, tt.expected)
			}
		})
	}
}
