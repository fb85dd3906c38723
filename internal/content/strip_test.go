package content

import "testing"

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{
			name:   "plain text passes through",
			markup: "hello world",
			want:   "hello world",
		},
		{
			name:   "tags removed",
			markup: "<p>hello <b>world</b></p>",
			want:   "hello world",
		},
		{
			name:   "oembed blockquote",
			markup: `<blockquote class="twitter-tweet"><p lang="en">Shipping is a feature.</p>&mdash; Someone (@someone) <a href="https://twitter.com/someone/status/1">May 1, 2024</a></blockquote>`,
			want:   "Shipping is a feature.\n\n— Someone (@someone) May 1, 2024",
		},
		{
			name:   "script dropped",
			markup: `<p>text</p><script>alert("x")</script>`,
			want:   "text",
		},
		{
			name:   "br becomes newline",
			markup: "line one<br>line two",
			want:   "line one\nline two",
		},
		{
			name:   "empty",
			markup: "",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripHTML(tt.markup); got != tt.want {
				t.Errorf("StripHTML() = %q, want %q", got, tt.want)
			}
		})
	}
}
