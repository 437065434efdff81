// Copyright (c) 2024 The libusmc developers. All rights reserved.
// Project site: https://github.com/udyni/libusmc
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package logger

import "sync"

// Entry is one recorded log call.
type Entry struct {
	Level  Level
	Msg    string
	Fields []any
}

// Capture is a Logger for tests: it records every entry so assertions
// can check what the driver logged. Fatal records at FatalLevel but does
// not exit, so a test run survives it. Children created with With share
// the parent's entry list and level.
type Capture struct {
	sink    *captureSink
	context []any
}

type captureSink struct {
	mu      sync.Mutex
	level   Level
	entries []Entry
}

var _ Logger = (*Capture)(nil)

// NewCapture creates a Capture recording at every level.
func NewCapture() *Capture {
	return &Capture{sink: &captureSink{level: DebugLevel}}
}

func (c *Capture) record(level Level, msg string, keysAndValues []any) {
	c.sink.mu.Lock()
	defer c.sink.mu.Unlock()
	if level < c.sink.level {
		return
	}
	fields := append(append([]any(nil), c.context...), keysAndValues...)
	c.sink.entries = append(c.sink.entries, Entry{Level: level, Msg: msg, Fields: fields})
}

func (c *Capture) Debug(msg string, keysAndValues ...any) {
	c.record(DebugLevel, msg, keysAndValues)
}

func (c *Capture) Info(msg string, keysAndValues ...any) {
	c.record(InfoLevel, msg, keysAndValues)
}

func (c *Capture) Warn(msg string, keysAndValues ...any) {
	c.record(WarnLevel, msg, keysAndValues)
}

func (c *Capture) Error(msg string, keysAndValues ...any) {
	c.record(ErrorLevel, msg, keysAndValues)
}

func (c *Capture) Fatal(msg string, keysAndValues ...any) {
	c.record(FatalLevel, msg, keysAndValues)
}

func (c *Capture) With(keysAndValues ...any) Logger {
	return &Capture{
		sink:    c.sink,
		context: append(append([]any(nil), c.context...), keysAndValues...),
	}
}

func (c *Capture) Level() Level {
	c.sink.mu.Lock()
	defer c.sink.mu.Unlock()
	return c.sink.level
}

func (c *Capture) SetLevel(level Level) {
	c.sink.mu.Lock()
	defer c.sink.mu.Unlock()
	c.sink.level = level
}

// Entries returns a copy of everything recorded so far.
func (c *Capture) Entries() []Entry {
	c.sink.mu.Lock()
	defer c.sink.mu.Unlock()
	return append([]Entry(nil), c.sink.entries...)
}

// Contains reports whether a message was recorded at the given level.
func (c *Capture) Contains(level Level, msg string) bool {
	for _, e := range c.Entries() {
		if e.Level == level && e.Msg == msg {
			return true
		}
	}
	return false
}
