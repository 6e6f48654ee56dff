package models

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResponse(t *testing.T) {
	before := time.Now().UnixMilli()
	response := NewResponse(http.StatusTooManyRequests, nil, "Rate limit exceeded")
	after := time.Now().UnixMilli()

	assert.Equal(t, http.StatusTooManyRequests, response.Code)
	assert.Nil(t, response.Data)
	assert.Equal(t, "Rate limit exceeded", response.Text)
	assert.Equal(t, 2, response.Version)
	assert.GreaterOrEqual(t, response.CurrentTime, before)
	assert.LessOrEqual(t, response.CurrentTime, after)
}

func TestEntryAndListEnvelopes(t *testing.T) {
	stop := Stop{ID: "S1", Name: "Main St"}
	references := NewStopReferences(stop)

	entry := NewEntryResponse(stop, references)
	data, ok := entry.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, stop, data["entry"])
	assert.Equal(t, references, data["references"])
	assert.NotContains(t, data, "limitExceeded")

	list := NewListResponse([]Stop{stop}, references)
	data, ok = list.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, []Stop{stop}, data["list"])
	assert.Equal(t, false, data["limitExceeded"])
}

func TestResponseModelJSON(t *testing.T) {
	response := ResponseModel{
		Code:        http.StatusOK,
		CurrentTime: 1791907200000,
		Data:        map[string]string{"test": "data"},
		Text:        "OK",
		Version:     2,
	}

	encoded, err := json.Marshal(response)
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":200,"currentTime":1791907200000,"data":{"test":"data"},"text":"OK","version":2}`, string(encoded))
}

func TestResponseNotices(t *testing.T) {
	empty := NewListResponse([]Stop{}, NewEmptyReferences(), NoticeNoStops)
	assert.Equal(t, http.StatusOK, empty.Code, "empty results are still successful")
	assert.Equal(t, "No stop located", empty.Text)

	blank := NewEntryResponse(ActiveServices{}, NewEmptyReferences(), "")
	assert.Equal(t, "OK", blank.Text)

	noBuses := NewEntryResponse(DepartureBoard{}, NewEmptyReferences(), NoticeNoDepartures)
	assert.Equal(t, "No buses", noBuses.Text)
}
