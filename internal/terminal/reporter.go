package terminal

// Reporter prints the user-facing notices of a stamping run.
type Reporter struct{}

// Notice prints an informational note.
func (Reporter) Notice(msg string) { Info(msg) }

// Warning prints a warning.
func (Reporter) Warning(msg string) { Warning(msg) }

// Updated announces a rewritten file.
func (Reporter) Updated(path string) { Success("Updated " + path) }
