package commands

// Annotations read by the root command before building the container.
const (
	// AnnotationSkipValidation builds the container even when the
	// configuration does not validate.
	AnnotationSkipValidation = "kuaa.skip-validation"
	// AnnotationNoContainer runs the command without building the container.
	AnnotationNoContainer = "kuaa.no-container"
)

const (
	// TimestampFormat is used when an absolute time is shown next to a relative one.
	TimestampFormat = "2006-01-02 15:04"
)

// Error messages
const (
	ErrHistoryDisabled          = "history is disabled in the configuration"
	ErrDoctorServiceUnavailable = "doctor service unavailable"
)

// Success messages
const (
	MsgNoDifferencesFromDefault = "No differences from default configuration."
	MsgNoHistoryRecorded        = "No history recorded yet."
	MsgHistoryCleared           = "History cleared."
)
