package apperrors

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodeOf(t *testing.T) {
	t.Parallel()

	require.Equal(t, CodeNotFound, CodeOf(NotFound("missing")))
	require.Equal(t, CodeInvalidArgument, CodeOf(InvalidArg("bad")))
	require.Equal(t, CodePermissionDenied, CodeOf(Forbidden("no")))
	require.Equal(t, CodeAlreadyMember, CodeOf(AlreadyMember("again")))
	require.Equal(t, CodeUnknown, CodeOf(errors.New("plain")))
}

func TestCodeOf_WrappedChain(t *testing.T) {
	t.Parallel()

	inner := NotFound("missing")
	outer := Wrap(CodeStoreUnavailable, "fetch failed", inner)

	// The outermost code wins; the chain still unwraps to the cause.
	require.Equal(t, CodeStoreUnavailable, CodeOf(outer))
	require.ErrorIs(t, outer, inner)
}

func TestStoreFailure_TimeoutMapping(t *testing.T) {
	t.Parallel()

	err := StoreFailure("query stalled", context.DeadlineExceeded)
	require.Equal(t, CodeTimeout, CodeOf(err))

	err = StoreFailure("transport down", errors.New("connection refused"))
	require.Equal(t, CodeStoreUnavailable, CodeOf(err))
}

func TestHTTPStatus(t *testing.T) {
	t.Parallel()

	require.Equal(t, http.StatusNotFound, HTTPStatus(CodeNotFound))
	require.Equal(t, http.StatusBadRequest, HTTPStatus(CodeInvalidArgument))
	require.Equal(t, http.StatusForbidden, HTTPStatus(CodePermissionDenied))
	require.Equal(t, http.StatusConflict, HTTPStatus(CodeAlreadyMember))
	require.Equal(t, http.StatusGatewayTimeout, HTTPStatus(CodeTimeout))
	require.Equal(t, http.StatusBadGateway, HTTPStatus(CodeStoreUnavailable))
	require.Equal(t, http.StatusInternalServerError, HTTPStatus(CodeUnknown))
}
