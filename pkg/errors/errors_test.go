package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIErrorClassification(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		target     error
		want       bool
	}{
		{"429 is rate limited", 429, ErrRateLimited, true},
		{"404 is not found", 404, ErrNotFound, true},
		{"500 is source unavailable", 500, ErrSourceUnavailable, true},
		{"503 is source unavailable", 503, ErrSourceUnavailable, true},
		{"400 is not rate limited", 400, ErrRateLimited, false},
		{"429 is not not-found", 429, ErrNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewAPIError("storefront", tt.statusCode, "boom")
			assert.Equal(t, tt.want, Is(err, tt.target))
		})
	}
}

func TestParseErrorFailsClosed(t *testing.T) {
	err := WrapParse("steamspy", fmt.Errorf("unexpected end of JSON input"))
	assert.True(t, Is(err, ErrMalformedResponse))
	assert.False(t, Is(err, ErrNotFound))
}

func TestWrapHelpersNilPassthrough(t *testing.T) {
	assert.Nil(t, WrapIO("read", "/tmp/x", nil))
	assert.Nil(t, WrapParse("steam", nil))
	assert.Nil(t, WrapAPI("steam", 200, nil))
}

func TestSinkErrorUnwrap(t *testing.T) {
	cause := New("401 unauthorized")
	err := &SinkError{Operation: "update", AppID: 440, Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "440")
}

func TestConfigErrorIsMissingConfig(t *testing.T) {
	err := NewConfigError("steam", "api key not set", nil)
	assert.True(t, Is(err, ErrMissingConfig))
}

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("record", "620")
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "620")
}
