// Copyright (c) 2024 The libusmc developers. All rights reserved.
// Project site: https://github.com/udyni/libusmc
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package logger

// The package default is what the driver uses when no logger is injected:
// slog at info level, JSON to standard error.
var defLogger Logger = NewSlog(InfoLevel, false)

// GetLogger returns the package default logger.
func GetLogger() Logger {
	return defLogger
}

// SetLogger replaces the package default logger. Call it before opening
// devices; registries keep the logger they were created with.
func SetLogger(l Logger) {
	if l != nil {
		defLogger = l
	}
}

// SetLevel sets the minimum enabled level of the package default logger.
func SetLevel(level Level) {
	defLogger.SetLevel(level)
}
