package animals_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	animals "github.com/wilfried-lafaye/scraping-animals-app"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := animals.Errorf(animals.ENOTFOUND, "animal %q not found", "Tiger")

	assert.Equal(t, animals.ENOTFOUND, animals.ErrorCode(err))
	assert.Equal(t, "animal \"Tiger\" not found", animals.ErrorMessage(err))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("upsert: %w", animals.Errorf(animals.EINVALID, "name required"))

	assert.Equal(t, animals.EINVALID, animals.ErrorCode(err))
	assert.Equal(t, "name required", animals.ErrorMessage(err))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("disk full")

	assert.Equal(t, animals.EINTERNAL, animals.ErrorCode(err))
	assert.Equal(t, "Internal error.", animals.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, animals.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, animals.ErrorMessage(nil))
}
