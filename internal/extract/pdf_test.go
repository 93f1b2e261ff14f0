package extract

import (
	"errors"
	"testing"
)

func TestTextRejectsNonPDF(t *testing.T) {
	_, err := Text([]byte("this is not a pdf"))
	if err == nil {
		t.Fatal("expected error for non-PDF input")
	}
	if errors.Is(err, ErrNoText) {
		t.Fatalf("parser failure must not be reported as ErrNoText: %v", err)
	}
}

func TestTextRejectsEmptyInput(t *testing.T) {
	if _, err := Text(nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestCollapseWhitespace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "abc", want: "abc"},
		{name: "internal runs", in: "a  b\t\nc", want: "a b c"},
		{name: "leading and trailing", in: "  hello world \n", want: "hello world"},
		{name: "whitespace only", in: " \n\t \r\n", want: ""},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := collapseWhitespace(tt.in); got != tt.want {
				t.Errorf("collapseWhitespace(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
