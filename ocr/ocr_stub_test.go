//go:build !ocr

package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewReturnsError(t *testing.T) {
	client, err := New()
	assert.ErrorIs(t, err, ErrOCRNotEnabled)
	assert.Nil(t, client)
	assert.False(t, Enabled)
}

func TestStubMethods(t *testing.T) {
	var client *Client
	assert.NoError(t, client.Close(), "Close on nil client should not error")

	_, err := client.RecognizeImage(nil)
	assert.ErrorIs(t, err, ErrOCRNotEnabled)
	_, err = client.RecognizeWords(nil)
	assert.ErrorIs(t, err, ErrOCRNotEnabled)
	assert.ErrorIs(t, client.SetLanguage("eng"), ErrOCRNotEnabled)
	assert.ErrorIs(t, client.SetPageSegMode(PSM_AUTO), ErrOCRNotEnabled)
	assert.ErrorIs(t, client.SetDPI(300), ErrOCRNotEnabled)
}
