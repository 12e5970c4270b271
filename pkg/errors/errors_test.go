package errors

import (
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAs(t *testing.T) {
	sentinel := NotFound("Không tìm thấy")
	wrapped := fmt.Errorf("load: %w", sentinel)

	got, ok := As(wrapped)
	assert.True(t, ok)
	assert.Same(t, sentinel, got)

	_, ok = As(io.EOF)
	assert.False(t, ok)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusOK, StatusOf(nil))
	assert.Equal(t, http.StatusBadRequest, StatusOf(Conflict("dup")))
	assert.Equal(t, http.StatusForbidden, StatusOf(fmt.Errorf("x: %w", Banned())))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(io.EOF))
}

func TestBanned(t *testing.T) {
	b := Banned()
	assert.True(t, b.IsBanned)
	assert.Equal(t, BannedMessage, b.Error())
}
