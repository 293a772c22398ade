package output

// T renders user-facing messages for a given locale. data fills template
// placeholders and may be nil.
type T interface {
	T(locale, key string, data map[string]any) string
}

// Messages is a T already bound to the bot locale.
type Messages interface {
	Msg(key string, data map[string]any) string
}
