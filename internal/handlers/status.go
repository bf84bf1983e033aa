package handlers

import "time"

// courseStatus derives the display status of a course against wall-clock
// time.
func courseStatus(startAt, endAt, now time.Time) string {
	status := "尚未開始"
	if startAt.Before(now) {
		status = "進行中"
		if endAt.Before(now) {
			status = "已結束"
		}
	}
	return status
}
