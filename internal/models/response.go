package models

import (
	"net/http"
	"time"
)

const apiVersion = 2

// ResponseModel is the envelope every API response is wrapped in.
type ResponseModel struct {
	Code        int         `json:"code"`
	CurrentTime int64       `json:"currentTime"`
	Data        interface{} `json:"data"`
	Text        string      `json:"text"`
	Version     int         `json:"version"`
}

// ResponseCurrentTime is the envelope timestamp in unix milliseconds.
func ResponseCurrentTime() int64 {
	return time.Now().UnixMilli()
}

func NewResponse(code int, data interface{}, text string) ResponseModel {
	return ResponseModel{
		Code:        code,
		CurrentTime: ResponseCurrentTime(),
		Data:        data,
		Text:        text,
		Version:     apiVersion,
	}
}

// NewEntryResponse wraps a single entry. A non-empty notice replaces the "OK" text.
func NewEntryResponse(entry interface{}, references ReferencesModel, notice ...string) ResponseModel {
	data := map[string]interface{}{
		"entry":      entry,
		"references": references,
	}
	return NewResponse(http.StatusOK, data, responseText(notice))
}

// NewListResponse wraps a list. A non-empty notice replaces the "OK" text.
func NewListResponse(list interface{}, references ReferencesModel, notice ...string) ResponseModel {
	data := map[string]interface{}{
		"limitExceeded": false,
		"list":          list,
		"references":    references,
	}
	return NewResponse(http.StatusOK, data, responseText(notice))
}

func responseText(notice []string) string {
	if len(notice) > 0 && notice[0] != "" {
		return notice[0]
	}
	return "OK"
}
