package httpapi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSearchLimit(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{name: "absent defaults", raw: "", want: defaultSearchLimit},
		{name: "in range passes through", raw: "50", want: 50},
		{name: "oversized is capped", raw: "10000000", want: maxSearchLimit},
		{name: "zero is rejected", raw: "0", wantErr: true},
		{name: "negative is rejected", raw: "-5", wantErr: true},
		{name: "garbage is rejected", raw: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			limit, err := searchLimit(tt.raw)
			if tt.wantErr {
				req.Error(err)
				return
			}
			req.NoError(err)
			req.Equal(tt.want, limit)
		})
	}
}
