package handlers

import (
	"testing"
	"time"
)

func TestCourseStatus(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		startAt time.Time
		endAt   time.Time
		want    string
	}{
		{"upcoming", now.Add(time.Hour), now.Add(2 * time.Hour), "尚未開始"},
		{"running", now.Add(-time.Hour), now.Add(time.Hour), "進行中"},
		{"finished", now.Add(-2 * time.Hour), now.Add(-time.Hour), "已結束"},
		{"starts exactly now", now, now.Add(time.Hour), "尚未開始"},
	}
	for _, tc := range cases {
		if got := courseStatus(tc.startAt, tc.endAt, now); got != tc.want {
			t.Errorf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}
