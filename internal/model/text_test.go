package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Field A", "Field A"},
		{"trimmed", "  Field A \n", "Field A"},
		{"crlf", "line one\r\nline two", "line one\nline two"},
		{"lone cr", "line one\rline two", "line one\nline two"},
		{"mixed", "a\r\nb\rc\nd", "a\nb\nc\nd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeText(tt.in))
		})
	}
}

func TestPatchesNormalizeLineEndings(t *testing.T) {
	notes := "gate code 1234\r\nuse side entrance"
	want := "gate code 1234\nuse side entrance"

	var l Location
	LocationPatch{Notes: &notes}.Apply(&l)
	assert.Equal(t, want, l.Notes)

	var g Game
	GamePatch{Notes: &notes}.Apply(&g)
	assert.Equal(t, want, g.Notes)

	var a Assignment
	AssignmentPatch{Notes: &notes}.Apply(&a)
	assert.Equal(t, want, a.Notes)

	var o Official
	OfficialPatch{Certifications: &notes}.Apply(&o)
	assert.Equal(t, want, o.Certifications)
}
