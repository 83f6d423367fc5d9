package scanner

import (
	"runtime"
	"testing"
)

func TestHidden(t *testing.T) {
	skip := Options{SkipHidden: true}
	keep := Options{SkipHidden: false}

	tests := []struct {
		name string
		opts Options
		want bool
	}{
		{".git", skip, true},
		{".hidden", skip, true},
		{"visible", skip, false},
		{".hidden", keep, false},
		{"dot.inside", skip, false},
	}

	for _, tt := range tests {
		if got := hidden(tt.name, tt.opts); got != tt.want {
			t.Errorf("hidden(%q, skip=%v) = %v, want %v",
				tt.name, tt.opts.SkipHidden, got, tt.want)
		}
	}
}

func TestIsSystemPath(t *testing.T) {
	if runtime.GOOS != "windows" {
		// The skip list is empty off Windows
		if isSystemPath(`C:\Windows\System32`) {
			t.Error("non-Windows platform should admit every path")
		}
		return
	}

	tests := []struct {
		path string
		want bool
	}{
		{`C:\Windows`, true},
		{`C:\WINDOWS\System32`, true},
		{`C:\$Recycle.Bin\S-1-5-18`, true},
		{`C:\ProgramData\Tailscale`, true},
		{`C:\Users\me`, false},
		{`D:\Windows`, false},
	}

	for _, tt := range tests {
		if got := isSystemPath(tt.path); got != tt.want {
			t.Errorf("isSystemPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
