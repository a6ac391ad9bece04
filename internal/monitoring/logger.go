package monitoring

import "log"

// Logf is the package-level diagnostic logger for the analysis pipeline. It
// defaults to log.Printf and may be swapped with SetLogger; tests usually
// mute it with Mute.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op
// logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Mute silences the package logger and returns a function restoring the
// previous one. Intended for tests:
//
//	defer monitoring.Mute()()
func Mute() (restore func()) {
	previous := Logf
	SetLogger(nil)
	return func() { Logf = previous }
}
