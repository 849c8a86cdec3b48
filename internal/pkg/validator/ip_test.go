package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"203.0.113.7", "203.0.113.7"},
		{" 203.0.113.7 ", "203.0.113.7"},
		{"::ffff:203.0.113.7", "203.0.113.7"},
		{"fe80::1%eth0", "fe80::1"},
		{"2001:DB8::1", "2001:db8::1"},
		{"", UnknownClient},
		{"not-an-ip", UnknownClient},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ClientKey(tt.in))
		})
	}
}

func TestIsValidIP(t *testing.T) {
	assert.True(t, IsValidIP("127.0.0.1"))
	assert.True(t, IsValidIP("::1"))
	assert.False(t, IsValidIP(""))
	assert.False(t, IsValidIP("256.0.0.1"))
}
