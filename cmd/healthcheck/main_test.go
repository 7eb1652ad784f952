package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAddr(t *testing.T) {
	tests := []struct {
		name string
		host string
		port string
		want string
	}{
		{name: "defaults", want: "127.0.0.1:8000"},
		{name: "bind all v4", host: "0.0.0.0", port: "9000", want: "127.0.0.1:9000"},
		{name: "bind all v6", host: "::", port: "9000", want: "127.0.0.1:9000"},
		{name: "explicit host", host: "10.1.2.3", port: "8080", want: "10.1.2.3:8080"},
		{name: "ipv6 host", host: "::1", port: "8080", want: "[::1]:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeAddr(tt.host, tt.port))
		})
	}
}
