package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	tests := []struct{ in, want string }{
		{"plain", "plain"},
		{"  padded  ", "padded"},
		{"<b>bold</b> move", "bold move"},
		{"<script>alert(1)</script>safe", "safe"},
		{"fish & chips", "fish & chips"},
		{`it's <a href="javascript:x">link</a>`, "it's link"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Text(tt.in), tt.in)
	}
}

func TestTextPtr(t *testing.T) {
	assert.Nil(t, TextPtr(nil))
	in := " <i>hi</i> "
	assert.Equal(t, "hi", *TextPtr(&in))
}
