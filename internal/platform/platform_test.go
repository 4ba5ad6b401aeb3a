//go:build !ios && !android && (amd64 || arm64)

package platform

import (
	"runtime"
	"testing"
)

func TestIs64Bit(t *testing.T) {
	// The build tag only admits 64-bit architectures.
	if !Is64Bit {
		t.Error("Platform should be 64-bit")
	}
}

func TestCheck(t *testing.T) {
	err := Check()
	if SupportsCallbacks && err != nil {
		t.Errorf("Check() = %v on %s/%s", err, runtime.GOOS, runtime.GOARCH)
	}
	if !SupportsCallbacks && err == nil {
		t.Errorf("Check() should fail on %s/%s", runtime.GOOS, runtime.GOARCH)
	}
}
