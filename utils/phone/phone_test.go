package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "9876543210", want: "+919876543210"},
		{in: "98765-43210", want: "+919876543210"},
		{in: "919876543210", want: "+919876543210"},
		{in: "09876543210", want: "+919876543210"},
		{in: "+14155550100", want: "+14155550100"},
		{in: "12345", want: "+9112345"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.in))
		})
	}
}
