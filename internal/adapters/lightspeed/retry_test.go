package lightspeed

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryableHTTPError(t *testing.T) {
	assert.True(t, isRetryableHTTPError(newHTTPStatusError(http.StatusTooManyRequests, "429", nil)))
	assert.True(t, isRetryableHTTPError(newHTTPStatusError(http.StatusServiceUnavailable, "503", nil)))
	assert.False(t, isRetryableHTTPError(newHTTPStatusError(http.StatusBadRequest, "400", nil)))
	assert.False(t, isRetryableHTTPError(newHTTPStatusError(http.StatusNotFound, "404", nil)))
	assert.False(t, isRetryableHTTPError(errors.New("plain error")))
}

func TestRetryDelayIsBoundedExponential(t *testing.T) {
	assert.Equal(t, time.Second, retryDelay(0))
	assert.Equal(t, 2*time.Second, retryDelay(1))
	assert.Equal(t, retryMaxDelay, retryDelay(10))
	assert.Equal(t, time.Duration(0), retryDelay(-1))
}
