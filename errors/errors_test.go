package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesSentinel(t *testing.T) {
	err := Wrapf(ErrStoreUnavailable, "read %s", "dofRecords")

	assert.Contains(t, err.Error(), "read dofRecords")
	assert.True(t, IsStoreUnavailableError(err))
	assert.False(t, IsNotFoundError(err))
}

func TestIsInvalidRequestError(t *testing.T) {
	assert.True(t, IsInvalidRequestError(NewInvalidRequestError("bad domain %q", "x")))
	assert.True(t, IsInvalidRequestError(Wrap(ErrUnknownDomain, "subscribe")))
	assert.False(t, IsInvalidRequestError(New("other")))
	assert.False(t, IsInvalidRequestError(nil))
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("key %s", "suppliers")
	assert.True(t, IsNotFoundError(err))
	assert.Contains(t, err.Error(), "key suppliers")
}

type storeError struct {
	key string
}

func (e *storeError) Error() string {
	return "store error on " + e.key
}

func TestAs(t *testing.T) {
	wrapped := Wrap(&storeError{key: "auditRecords"}, "sync audit")

	var target *storeError
	require.True(t, As(wrapped, &target))
	assert.Equal(t, "auditRecords", target.key)
}

func TestHintsAndDetailsSurviveWrapping(t *testing.T) {
	err := WithHint(ErrStoreUnavailable, "check store.redis.addr")
	err = WithDetail(err, "backend=redis")
	err = Wrap(err, "sync pass")

	assert.True(t, Is(err, ErrStoreUnavailable))
	assert.Contains(t, GetAllHints(err), "check store.redis.addr")
	assert.Contains(t, GetAllDetails(err), "backend=redis")
}

func TestStackTrace(t *testing.T) {
	detailed := fmt.Sprintf("%+v", New("with stack"))
	assert.Contains(t, detailed, "errors_test.go")
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, WithHint(nil, "hint"))
	assert.False(t, IsNotFoundError(nil))
}

func ExampleWrap() {
	err := Wrap(ErrUnknownDomain, "subscribe to \"ncr\"")
	fmt.Println(err)
	// Output: subscribe to "ncr": unknown domain
}
