package speech

import "testing"

func TestCleanText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"**Bold** and *italic*", "Bold and italic"},
		{"Use `go test` daily", "Use go test daily"},
		{"See [my site](https://example.com).", "See my site."},
		{"## Experience\nSAP\n\nBerlin", "Experience. SAP. Berlin"},
		{"  spaced   out  ", "spaced out"},
		{"Shipped it 🚀", "Shipped it 🚀"},
	}
	for _, tc := range tests {
		if got := CleanText(tc.in); got != tc.want {
			t.Errorf("CleanText(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
