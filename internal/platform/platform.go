//go:build !ios && !android && (amd64 || arm64)

// Package platform reports whether the running platform can host a weego
// plugin. The host binding calls WeeChat through purego, which only supports
// 64-bit targets and creates C callbacks on a fixed set of operating systems.
package platform

import (
	"fmt"
	"runtime"
	"unsafe"
)

// Is64Bit indicates whether the platform is 64-bit.
const Is64Bit = unsafe.Sizeof(uintptr(0)) == 8

// SupportsCallbacks indicates whether purego can turn Go functions into C
// function pointers on this operating system.
const SupportsCallbacks = runtime.GOOS == "linux" || runtime.GOOS == "darwin" ||
	runtime.GOOS == "freebsd" || runtime.GOOS == "netbsd" || runtime.GOOS == "windows"

// Check returns an error describing why the platform cannot host a plugin.
func Check() error {
	if !Is64Bit {
		return fmt.Errorf("weego: %s/%s is not 64-bit", runtime.GOOS, runtime.GOARCH)
	}
	if !SupportsCallbacks {
		return fmt.Errorf("weego: C callbacks are not supported on %s/%s", runtime.GOOS, runtime.GOARCH)
	}
	return nil
}
