package main

import (
	"testing"

	"github.com/gin-gonic/gin"
)

func TestResolveMode(t *testing.T) {
	tests := []struct {
		value     string
		wantMode  string
		wantIsDev bool
	}{
		{"", gin.ReleaseMode, false},
		{"release", gin.ReleaseMode, false},
		{"debug", gin.DebugMode, true},
		{"test", gin.TestMode, true},
	}
	for _, tt := range tests {
		mode, isDev := resolveMode(tt.value)
		if mode != tt.wantMode {
			t.Errorf("resolveMode(%q) mode = %q, want %q", tt.value, mode, tt.wantMode)
		}
		if isDev != tt.wantIsDev {
			t.Errorf("resolveMode(%q) isDev = %v, want %v", tt.value, isDev, tt.wantIsDev)
		}
	}
}
