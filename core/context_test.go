package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuppressHeader(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
		want bool
	}{
		{name: "default", ctx: context.Background(), want: false},
		{name: "suppressed", ctx: WithSuppressHeader(context.Background()), want: true},
		{name: "wrong type", ctx: context.WithValue(context.Background(), suppressHeaderKey, "yes"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldSuppressHeader(tt.ctx))
		})
	}
}
