package models

// Rider-facing notices for empty but valid results
const (
	NoticeNoStops        = "No stop located"
	NoticeNoService      = "No service operates today"
	NoticeNoDepartures   = "No buses"
	NoticeUnableToLocate = "Unable to locate"
)
