package weego

// ReturnCode is the status a callback hands back to WeeChat.
type ReturnCode int32

// Return codes understood by every WeeChat callback.
const (
	OK    ReturnCode = 0  // WEECHAT_RC_OK
	OKEat ReturnCode = 1  // WEECHAT_RC_OK_EAT, stop processing the event
	Error ReturnCode = -1 // WEECHAT_RC_ERROR
)

// String returns the WeeChat name of the code.
func (rc ReturnCode) String() string {
	switch rc {
	case OK:
		return "ok"
	case OKEat:
		return "ok_eat"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// OptionChange is the result of setting or resetting a config option.
type OptionChange int32

const (
	OptionChanged   OptionChange = 2  // value changed
	OptionSameValue OptionChange = 1  // value unchanged
	OptionSetError  OptionChange = 0  // value rejected
	OptionNotFound  OptionChange = -1 // option does not exist
)

// String returns a short description of the result.
func (c OptionChange) String() string {
	switch c {
	case OptionChanged:
		return "changed"
	case OptionSameValue:
		return "same value"
	case OptionSetError:
		return "error"
	case OptionNotFound:
		return "not found"
	default:
		return "unknown"
	}
}

// OK reports whether the option holds the requested value afterwards.
func (c OptionChange) OK() bool {
	return c == OptionChanged || c == OptionSameValue
}
