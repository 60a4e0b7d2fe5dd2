package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const mb = 1024 * 1024

func TestValidateCoverImage(t *testing.T) {
	assert.NoError(t, ValidateCoverImage("cover.png", 4*mb))
	assert.NoError(t, ValidateCoverImage("cover.JPG", 100))
	assert.NoError(t, ValidateCoverImage("cover.webp", MaxCoverSize))

	err := ValidateCoverImage("cover.png", 6*mb)
	assert.ErrorContains(t, err, "5MB")

	assert.Error(t, ValidateCoverImage("cover.gif", 100))
	assert.Error(t, ValidateCoverImage("cover.txt", 100))
	assert.Error(t, ValidateCoverImage("cover", 100))
}

func TestValidateEbookFile(t *testing.T) {
	// the extension is authoritative: a generic MIME type must not
	// reject an allowed extension
	assert.NoError(t, ValidateEbookFile("novel.epub", 10*mb, "application/octet-stream"))
	assert.NoError(t, ValidateEbookFile("novel.PDF", 10*mb, ""))
	assert.NoError(t, ValidateEbookFile("novel.mobi", 10*mb, "text/plain"))

	// and a friendly MIME type must not rescue a disallowed extension
	assert.Error(t, ValidateEbookFile("novel.txt", 100, "application/epub+zip"))

	err := ValidateEbookFile("novel.epub", 51*mb, "application/epub+zip")
	assert.ErrorContains(t, err, "50MB")
}

func TestTxtFailsBothValidators(t *testing.T) {
	assert.Error(t, ValidateCoverImage("file.txt", 100))
	assert.Error(t, ValidateEbookFile("file.txt", 100, "text/plain"))
}
