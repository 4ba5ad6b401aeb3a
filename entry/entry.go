//go:build !ios && !android && (amd64 || arm64)

// Package entry exports the symbols WeeChat looks up when it loads a plugin:
// the metadata strings and weechat_plugin_init / weechat_plugin_end.
//
// Import it for its side effects from the plugin's main package, register
// the plugin with weego.Register and build with -buildmode=c-shared. The
// WeeChat development headers must be installed.
package entry

/*
#include <stdlib.h>
#include "shim.h"
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/obinnaokechukwu/weego"
	"github.com/obinnaokechukwu/weego/internal/cabi"
	"github.com/obinnaokechukwu/weego/internal/cstring"
)

func layout() (*cabi.Layout, error) {
	var offsets [cabi.NumFields]C.size_t
	n := C.weego_offsets(&offsets[0], C.size_t(len(offsets)))
	if int(n) != len(offsets) {
		return nil, fmt.Errorf("weego: shim has %d plugin offsets, binding expects %d", n, len(offsets))
	}
	var l cabi.Layout
	for i, off := range offsets {
		l[i] = uintptr(off)
	}
	return &l, nil
}

func shim() cabi.Shim {
	return cabi.Shim{
		ConfigNewSection: uintptr(unsafe.Pointer(C.weego_config_new_section)),
		ConfigNewOption:  uintptr(unsafe.Pointer(C.weego_config_new_option)),
		PrintDateTags:    uintptr(unsafe.Pointer(C.weego_printf_date_tags)),
		LogPrintf:        uintptr(unsafe.Pointer(C.weego_log_printf)),
		Free:             uintptr(unsafe.Pointer(C.weego_free)),
	}
}

func bind(plugin *C.struct_t_weechat_plugin) (*cabi.Host, error) {
	if got, want := unsafe.Sizeof(weego.OptionSpec{}), uintptr(C.sizeof_struct_weego_option_spec); got != want {
		return nil, fmt.Errorf("weego: option spec is %d bytes, shim expects %d", got, want)
	}
	l, err := layout()
	if err != nil {
		return nil, err
	}
	return cabi.New(unsafe.Pointer(plugin), l, shim())
}

// logFailure reports an error before a Host exists, straight through the
// shim.
func logFailure(plugin *C.struct_t_weechat_plugin, err error) {
	msg := C.CString(err.Error())
	defer C.free(unsafe.Pointer(msg))
	C.weego_log_printf(plugin, msg)
}

//export weechat_plugin_init
func weechat_plugin_init(plugin *C.struct_t_weechat_plugin, argc C.int, argv **C.char) C.int {
	host, err := bind(plugin)
	if err != nil {
		if plugin != nil {
			logFailure(plugin, err)
		}
		return C.int(weego.Error)
	}
	args := cstring.Strings((**byte)(unsafe.Pointer(argv)), int(argc))
	return C.int(weego.Load(host, args))
}

//export weechat_plugin_end
func weechat_plugin_end(plugin *C.struct_t_weechat_plugin) C.int {
	return C.int(weego.Unload())
}
