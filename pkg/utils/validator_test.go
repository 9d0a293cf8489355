package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "claim form", SanitizeString("claim\x00 form\x1f"))
	assert.Equal(t, "plain", SanitizeString("plain"))
}

func TestSafeFilename(t *testing.T) {
	assert.Equal(t, "claim.pdf", SafeFilename("claim.pdf"))
	assert.Equal(t, "claim.pdf", SafeFilename("../../etc/claim.pdf"))
	assert.Equal(t, "upload", SafeFilename(""))
	assert.Equal(t, "upload", SafeFilename("."))
}

func TestFileExtension(t *testing.T) {
	assert.Equal(t, "pdf", FileExtension("claim.PDF"))
	assert.Equal(t, "jpeg", FileExtension("scan.jpeg"))
	assert.Equal(t, "", FileExtension("noext"))
}
