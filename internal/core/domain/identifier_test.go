package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateID_Valid(t *testing.T) {
	for _, id := range []string{
		"promo1",
		"a.png",
		"batch-2026_q1",
		"IMG_0042.JPEG",
		"a",
	} {
		assert.NoError(t, ValidateID(id), "id %q", id)
	}
}

func TestValidateID_Invalid(t *testing.T) {
	for _, id := range []string{
		"",
		"../etc/passwd",
		"a..b",
		"batch/1",
		"batch 1",
		"batch\\1",
		"bätch",
		"a\x00b",
	} {
		err := ValidateID(id)
		require.Error(t, err, "id %q", id)
		assert.ErrorIs(t, err, ErrInvalidID)
	}
}
