package subscription

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapExternalStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
	}{
		{"active", StatusActive},
		{"past_due", StatusPastDue},
		{"canceled", StatusCanceled},
		{"ACTIVE", StatusActive},
		{"trialing", StatusTrial},
		{"incomplete", StatusTrial},
		{"unpaid", StatusTrial},
		{"", StatusTrial},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, MapExternalStatus(tt.in))
		})
	}
}
