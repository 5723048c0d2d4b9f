package bucketerr

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

func TestKindCode(t *testing.T) {
	require.Equal(t, codes.InvalidArgument, KindInvalidArgument.Code())
	require.Equal(t, codes.InvalidArgument, KindUnsorted.Code())
	require.Equal(t, codes.DataLoss, KindInfrastructure.Code())
	require.Equal(t, codes.Unavailable, KindUnavailable.Code())
	require.Equal(t, codes.Unknown, KindUnexpected.Code())
}

func TestInvalidArgumentFormatsMessage(t *testing.T) {
	err := InvalidArgument(context.Background(), "every must be >= 1, got %d", 0)
	require.Equal(t, "every must be >= 1, got 0", err.Error())
	require.Equal(t, KindInvalidArgument, err.Kind)
}

func TestWriteHTTPErrorClassifiedError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteHTTPError(context.Background(), rec, InvalidArgument(context.Background(), "bad origin"))

	require.Equal(t, 400, rec.Code)
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "INVALID_ARGUMENT", body.Kind)
	require.Equal(t, "bad origin", body.Message)
}

type sentinelError struct{}

func (sentinelError) Error() string { return "boom" }

func TestWriteHTTPErrorUnclassifiedErrorFallsBackToUnexpected(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteHTTPError(context.Background(), rec, sentinelError{})

	require.Equal(t, 500, rec.Code)
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "UNEXPECTED", body.Kind)
}
