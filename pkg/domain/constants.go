package domain

// Discriminant values of the "action" field.
const (
	KindOpenApp    = "open_app"
	KindSystemTask = "system_task"
	KindCreateFile = "create_file"
	KindQuit       = "quit"
	KindUnknown    = "unknown"
	KindError      = "error"
)

// Content kinds accepted by create_file.
const (
	ContentPython  = "python"
	ContentWebsite = "website"
)

// KeyAction is the discriminant field name of a raw descriptor.
const KeyAction = "action"
