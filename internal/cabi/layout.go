//go:build !ios && !android && (amd64 || arm64)

package cabi

import (
	"fmt"
	"unsafe"
)

// Field names a member of struct t_weechat_plugin the binding calls through.
// The order is shared with the offset table compiled into the entry package.
type Field int

const (
	FieldStrndup Field = iota
	FieldStringEvalExpression
	FieldConfigNew
	FieldConfigOptionReset
	FieldConfigOptionSet
	FieldConfigBoolean
	FieldConfigInteger
	FieldConfigString
	FieldConfigColor
	FieldConfigWrite
	FieldConfigRead
	FieldConfigReload
	FieldConfigOptionFree
	FieldConfigSectionFreeOptions
	FieldConfigSectionFree
	FieldConfigFree
	FieldConfigGetPlugin
	FieldConfigSetPlugin
	FieldPrefix
	FieldColor
	FieldHookCommand
	FieldHookTimer
	FieldHookFd
	FieldHookSignal
	FieldHookSignalSend
	FieldHookConfig
	FieldHookCompletion
	FieldCompletionListAdd
	FieldUnhook
	FieldBufferNew
	FieldBufferSearch
	FieldBufferClose
	FieldBufferGetInteger
	FieldBufferGetString
	FieldBufferSet
	FieldNicklistAddGroup
	FieldNicklistAddNick
	FieldNicklistRemoveGroup
	FieldNicklistRemoveNick
	FieldNicklistNickGetString
	FieldBarItemNew
	FieldBarItemUpdate
	FieldBarItemRemove
	FieldInfoGet
	FieldInfolistGet
	FieldInfolistNext
	FieldInfolistPrev
	FieldInfolistFields
	FieldInfolistInteger
	FieldInfolistString
	FieldInfolistPointer
	FieldInfolistTime
	FieldInfolistFree

	NumFields
)

var fieldNames = [NumFields]string{
	FieldStrndup:                  "strndup",
	FieldStringEvalExpression:     "string_eval_expression",
	FieldConfigNew:                "config_new",
	FieldConfigOptionReset:        "config_option_reset",
	FieldConfigOptionSet:          "config_option_set",
	FieldConfigBoolean:            "config_boolean",
	FieldConfigInteger:            "config_integer",
	FieldConfigString:             "config_string",
	FieldConfigColor:              "config_color",
	FieldConfigWrite:              "config_write",
	FieldConfigRead:               "config_read",
	FieldConfigReload:             "config_reload",
	FieldConfigOptionFree:         "config_option_free",
	FieldConfigSectionFreeOptions: "config_section_free_options",
	FieldConfigSectionFree:        "config_section_free",
	FieldConfigFree:               "config_free",
	FieldConfigGetPlugin:          "config_get_plugin",
	FieldConfigSetPlugin:          "config_set_plugin",
	FieldPrefix:                   "prefix",
	FieldColor:                    "color",
	FieldHookCommand:              "hook_command",
	FieldHookTimer:                "hook_timer",
	FieldHookFd:                   "hook_fd",
	FieldHookSignal:               "hook_signal",
	FieldHookSignalSend:           "hook_signal_send",
	FieldHookConfig:               "hook_config",
	FieldHookCompletion:           "hook_completion",
	FieldCompletionListAdd:        "completion_list_add",
	FieldUnhook:                   "unhook",
	FieldBufferNew:                "buffer_new",
	FieldBufferSearch:             "buffer_search",
	FieldBufferClose:              "buffer_close",
	FieldBufferGetInteger:         "buffer_get_integer",
	FieldBufferGetString:          "buffer_get_string",
	FieldBufferSet:                "buffer_set",
	FieldNicklistAddGroup:         "nicklist_add_group",
	FieldNicklistAddNick:          "nicklist_add_nick",
	FieldNicklistRemoveGroup:      "nicklist_remove_group",
	FieldNicklistRemoveNick:       "nicklist_remove_nick",
	FieldNicklistNickGetString:    "nicklist_nick_get_string",
	FieldBarItemNew:               "bar_item_new",
	FieldBarItemUpdate:            "bar_item_update",
	FieldBarItemRemove:            "bar_item_remove",
	FieldInfoGet:                  "info_get",
	FieldInfolistGet:              "infolist_get",
	FieldInfolistNext:             "infolist_next",
	FieldInfolistPrev:             "infolist_prev",
	FieldInfolistFields:           "infolist_fields",
	FieldInfolistInteger:          "infolist_integer",
	FieldInfolistString:           "infolist_string",
	FieldInfolistPointer:          "infolist_pointer",
	FieldInfolistTime:             "infolist_time",
	FieldInfolistFree:             "infolist_free",
}

func (f Field) String() string {
	if f < 0 || f >= NumFields {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldNames[f]
}

// Layout holds the byte offset of every Field inside struct t_weechat_plugin,
// as computed by offsetof against the header the plugin was compiled with.
type Layout [NumFields]uintptr

// validate rejects layouts that cannot come from the plugin header: every
// member lives after the plugin metadata, is pointer aligned and is distinct.
func (l *Layout) validate() error {
	const ptr = unsafe.Sizeof(uintptr(0))
	seen := make(map[uintptr]Field, NumFields)
	for f, off := range l {
		field := Field(f)
		if off == 0 || off%ptr != 0 {
			return fmt.Errorf("weego: bad offset %d for %s", off, field)
		}
		if prev, ok := seen[off]; ok {
			return fmt.Errorf("weego: %s and %s share offset %d", prev, field, off)
		}
		seen[off] = field
	}
	return nil
}

// entry reads the function pointer stored at f in the plugin table.
func (l *Layout) entry(plugin unsafe.Pointer, f Field) uintptr {
	return *(*uintptr)(unsafe.Add(plugin, l[f]))
}
