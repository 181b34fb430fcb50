package download

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Message(t *testing.T) {
	cause := errors.New("no such file or directory")

	tests := []struct {
		err      *Error
		expected string
	}{
		{validationError(FieldLink, ErrMissingLink), "video link is required"},
		{engineError("extract", errors.New("HTTP Error 403")), "HTTP Error 403"},
		{filesystemError("rename", cause), "rename: no such file or directory"},
		{&Error{Kind: KindFilesystem, Err: cause}, "no such file or directory"},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, test.err.Error())
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(validationError(FieldDir, ErrMissingDir)))
	assert.Equal(t, KindFilesystem, KindOf(fmt.Errorf("wrapped: %w", filesystemError("rename", errors.New("x")))))
	assert.Equal(t, KindEngine, KindOf(errors.New("plain")))
	assert.False(t, IsValidation(ErrBusy))
}
