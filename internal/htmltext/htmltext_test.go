package htmltext

import "testing"

func TestTitle(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"simple h1", "<h1>Hello World</h1><p>Body</p>", "Hello World"},
		{"first of several", "<h1>First</h1><h1>Second</h1>", "First"},
		{"nested markup", "<article><h1>Deep <em>Title</em></h1></article>", "Deep Title"},
		{"surrounding whitespace", "<h1>\n  Padded  \n</h1>", "Padded"},
		{"no h1", "<h2>Subheading</h2><p>Body</p>", ""},
		{"empty document", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Title(tt.html); got != tt.want {
				t.Errorf("Title(%q) = %q, want %q", tt.html, got, tt.want)
			}
		})
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"strips tags", "<h1>Title</h1><p>One</p><p>Two</p>", "Title One Two"},
		{"drops scripts and styles", "<p>Keep</p><script>var x=1</script><style>p{}</style>", "Keep"},
		{"plain text passthrough", "just words   spaced", "just words spaced"},
		{"collapses whitespace", "<p>a\n\n  b\tc</p>", "a b c"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Text(tt.html); got != tt.want {
				t.Errorf("Text(%q) = %q, want %q", tt.html, got, tt.want)
			}
		})
	}
}
