package models

import "time"

// CurrentTimeModel is the server clock as shown to riders.
type CurrentTimeModel struct {
	ReadableTime string `json:"readableTime"`
	Time         int64  `json:"time"`
	TimeZone     string `json:"timeZone"`
}

// NewCurrentTimeModel describes t in its own location.
func NewCurrentTimeModel(t time.Time) CurrentTimeModel {
	return CurrentTimeModel{
		ReadableTime: t.Format(time.RFC3339),
		Time:         t.UnixMilli(),
		TimeZone:     t.Location().String(),
	}
}
