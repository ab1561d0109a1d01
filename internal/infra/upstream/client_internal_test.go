//go:build unit

package upstream

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseResetHint(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		header http.Header
		want   time.Duration
	}{
		{name: "retry-after seconds", header: http.Header{"Retry-After": {"30"}}, want: 30 * time.Second},
		{name: "reset as unix time", header: http.Header{"X-Ratelimit-Reset": {"1748779245"}}, want: 45 * time.Second},
		{name: "http date", header: http.Header{"Retry-After": {now.Add(time.Minute).Format(http.TimeFormat)}}, want: time.Minute},
		{name: "no hint", header: http.Header{}, want: 0},
		{name: "garbage", header: http.Header{"Retry-After": {"soon"}}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseResetHint(tt.header, now))
		})
	}
}
