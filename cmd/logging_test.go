package main

import (
	"log/syslog"
	"strings"
	"testing"
)

func TestLogLevels(t *testing.T) {
	tests := []struct {
		name     string
		priority syslog.Priority
	}{
		{name: "error", priority: syslog.LOG_ERR},
		{name: "warn", priority: syslog.LOG_WARNING},
		{name: "info", priority: syslog.LOG_INFO},
		{name: "build", priority: syslog.LOG_DEBUG},
	}
	levels := logLevels()
	if len(levels) != len(tests) {
		t.Fatalf("levels = %d, want %d", len(levels), len(tests))
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := levels[i]
			if l.logger == nil {
				t.Fatal("nil logger")
			}
			if !strings.Contains(l.prefix, tt.name) {
				t.Errorf("prefix = %q, want %q", l.prefix, tt.name)
			}
			if l.priority != tt.priority {
				t.Errorf("priority = %d, want %d", l.priority, tt.priority)
			}
		})
	}
}
