package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatStatusEmailIncludesCommentAndName(t *testing.T) {
	plain, html := formatStatusEmail(&StatusUpdateMessage{
		Title:        "Broken streetlight",
		NewStatus:    "Resolved",
		AdminComment: "Fixed this morning",
		OwnerName:    "Alice",
	})

	assert.Contains(t, plain, "Hi Alice")
	assert.Contains(t, plain, "Broken streetlight")
	assert.Contains(t, plain, "Resolved")
	assert.Contains(t, plain, "Fixed this morning")
	assert.Contains(t, html, "<b>Resolved</b>")
}

func TestFormatStatusEmailWithoutNameOrComment(t *testing.T) {
	plain, html := formatStatusEmail(&StatusUpdateMessage{
		Title:     "Water leak",
		NewStatus: "In Progress",
	})

	assert.Contains(t, plain, "Hi there")
	assert.NotContains(t, plain, "Admin comment")
	assert.NotContains(t, html, "Admin comment")
}
