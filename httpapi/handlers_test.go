package httpapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/timewarp/httpapi"
)

func newTestServer() http.Handler {
	s := httpapi.NewServer(logrus.NewEntry(logrus.StandardLogger()))
	return s.Routes()
}

func postJSON(t *testing.T, handler http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestDistanceByDay(t *testing.T) {
	handler := newTestServer()
	body := map[string]interface{}{
		"values": map[string]interface{}{
			"values": []map[string]interface{}{
				{"date": "2024-01-01"},
				{"date": "2024-01-02"},
				{"date": "2024-01-04"},
			},
		},
		"period": map[string]interface{}{"kind": "day", "every": 1},
	}
	rec := postJSON(t, handler, "/v1/distance", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Distance []int64 `json:"distance"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, []int64{0, 1, 3}, resp.Distance)
}

func TestDistanceMissingValue(t *testing.T) {
	handler := newTestServer()
	body := map[string]interface{}{
		"values": map[string]interface{}{
			"values": []map[string]interface{}{
				{"date": "2024-01-01"},
				{},
			},
		},
		"period": map[string]interface{}{"kind": "day", "every": 1},
	}
	rec := postJSON(t, handler, "/v1/distance", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Distance []int64 `json:"distance"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, int64(0), resp.Distance[0])
	require.True(t, resp.Distance[1] < 0)
}

func TestRangesEndpoint(t *testing.T) {
	handler := newTestServer()
	body := map[string]interface{}{
		"values": map[string]interface{}{
			"values": []map[string]interface{}{
				{"date": "2024-01-01"},
				{"date": "2024-01-01"},
				{"date": "2024-01-02"},
			},
		},
		"period": map[string]interface{}{"kind": "day", "every": 1},
	}
	rec := postJSON(t, handler, "/v1/ranges", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Ranges []struct {
			Start int64 `json:"start"`
			Stop  int64 `json:"stop"`
		} `json:"ranges"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Ranges, 2)
	require.Equal(t, int64(1), resp.Ranges[0].Start)
	require.Equal(t, int64(2), resp.Ranges[0].Stop)
	require.Equal(t, int64(3), resp.Ranges[1].Start)
	require.Equal(t, int64(3), resp.Ranges[1].Stop)
}

func TestDistanceRejectsInvalidPeriod(t *testing.T) {
	handler := newTestServer()
	body := map[string]interface{}{
		"values": map[string]interface{}{
			"values": []map[string]interface{}{
				{"date": "2024-01-01"},
			},
		},
		"period": map[string]interface{}{"kind": "fortnight", "every": 1},
	}
	rec := postJSON(t, handler, "/v1/distance", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalendarDiffEndpoint(t *testing.T) {
	handler := newTestServer()
	body := map[string]interface{}{
		"start": map[string]interface{}{"date": "2024-02-29"},
		"end":   map[string]interface{}{"date": "2025-02-28"},
	}
	rec := postJSON(t, handler, "/v1/calendar-diff", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Years  int `json:"years"`
		Months int `json:"months"`
		Days   int `json:"days"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 0, resp.Years)
	require.Equal(t, 11, resp.Months)
	require.Equal(t, 30, resp.Days)
}
