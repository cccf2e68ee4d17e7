package sanitize

import (
	"strings"
	"testing"
)

func TestInline(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "bold kept", input: "a <b>bold</b> word", want: "a <b>bold</b> word"},
		{name: "italic kept", input: "<em>soft</em>", want: "<em>soft</em>"},
		{name: "link href kept", input: `<a href="https://example.org">x</a>`, want: `<a href="https://example.org">x</a>`},
		{name: "script dropped", input: `before<script>alert(1)</script>after`, want: "beforeafter"},
		{name: "div stripped to text", input: "<div>wrapped</div>", want: "wrapped"},
		{name: "style attr dropped", input: `<b style="color:red">x</b>`, want: "<b>x</b>"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Inline(tc.input); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestStrip(t *testing.T) {
	t.Parallel()

	got := Strip(`one <b>two</b> <a href="#">three</a>`)
	for _, frag := range []string{"one", "two", "three"} {
		if !strings.Contains(got, frag) {
			t.Fatalf("expected %q in %q", frag, got)
		}
	}
	if strings.Contains(got, "<") {
		t.Fatalf("markup survived: %q", got)
	}
}

func TestWords(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input string
		want  int
	}{
		{input: "", want: 0},
		{input: "   ", want: 0},
		{input: "one two three", want: 3},
		{input: "one <b>two</b>\nthree", want: 3},
		{input: "<div></div>", want: 0},
	}

	for _, tc := range cases {
		if got := Words(tc.input); got != tc.want {
			t.Fatalf("Words(%q): expected %d, got %d", tc.input, tc.want, got)
		}
	}
}
