package slug

import "testing"

// TestGenerate exercises the slug generator with typical titles, special
// characters, whitespace, and boundary conditions.
func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		// --- Normal titles ---
		{
			name:  "simple two words",
			input: "Hello World",
			want:  "hello-world",
		},
		{
			name:  "title with year",
			input: "Hello World 2026",
			want:  "hello-world-2026",
		},
		{
			name:  "already lowercase",
			input: "already lowercase",
			want:  "already-lowercase",
		},
		{
			name:  "single word",
			input: "GoLang",
			want:  "golang",
		},
		{
			name:  "trailing punctuation",
			input: "My First Post!",
			want:  "my-first-post",
		},

		// --- Special characters ---
		{
			name:  "punctuation marks",
			input: "Hello, World! How's it going?",
			want:  "hello-world-how-s-it-going",
		},
		{
			name:  "ampersand and at sign",
			input: "Rock & Roll @ the Arena",
			want:  "rock-roll-the-arena",
		},
		{
			name:  "parentheses and brackets",
			input: "Version (2.0) [Beta]",
			want:  "version-2-0-beta",
		},
		{
			name:  "slashes and pipes",
			input: "Frontend/Backend | Full Stack",
			want:  "frontend-backend-full-stack",
		},
		{
			name:  "hash and dollar",
			input: "Issue #42 costs $100",
			want:  "issue-42-costs-100",
		},
		{
			name:  "run of symbols collapses to one hyphen",
			input: "AI --- The Next Wave",
			want:  "ai-the-next-wave",
		},

		// --- Whitespace handling ---
		{
			name:  "leading spaces",
			input: "   hello world",
			want:  "hello-world",
		},
		{
			name:  "trailing spaces",
			input: "hello world   ",
			want:  "hello-world",
		},
		{
			name:  "surrounding hyphens and spaces",
			input: "  ---Hello---  ",
			want:  "hello",
		},
		{
			name:  "tabs and newlines",
			input: "hello\tworld\nagain",
			want:  "hello-world-again",
		},

		// --- Boundary cases ---
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only symbols",
			input: "!!! ??? ***",
			want:  "",
		},
		{
			name:  "only hyphens",
			input: "-----",
			want:  "",
		},
		{
			name:  "single character",
			input: "a",
			want:  "a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.input); got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestGenerateIsDeterministic verifies repeated calls yield the same slug.
func TestGenerateIsDeterministic(t *testing.T) {
	const title = "Breaking: Markets Rally After Rate Cut"
	first := Generate(title)
	for i := 0; i < 5; i++ {
		if got := Generate(title); got != first {
			t.Fatalf("Generate not deterministic: got %q, want %q", got, first)
		}
	}
}
