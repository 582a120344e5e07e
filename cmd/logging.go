package main

import (
	"log"
	"log/syslog"

	"github.com/dumacp/go-logs/pkg/logs"
)

const syslogTag = "ogntracker"

type logLevel struct {
	logger   *logs.Logger
	prefix   string
	priority syslog.Priority
}

func logLevels() []logLevel {
	return []logLevel{
		{logger: logs.LogError, prefix: "[ error ] ", priority: syslog.LOG_ERR},
		{logger: logs.LogWarn, prefix: "[ warn ] ", priority: syslog.LOG_WARNING},
		{logger: logs.LogInfo, prefix: "[ info ] ", priority: syslog.LOG_INFO},
		{logger: logs.LogBuild, prefix: "[ build ] ", priority: syslog.LOG_DEBUG},
	}
}

func newLog(l logLevel) error {
	w, err := syslog.New(l.priority|syslog.LOG_DAEMON, syslogTag)
	if err != nil {
		return err
	}
	l.logger.SetLogError(log.New(w, l.prefix, log.LstdFlags))
	return nil
}

// initLogs routes the leveled loggers to syslog unless logStd is set. A
// level whose syslog writer cannot be opened stays on stderr.
func initLogs(debug, logStd bool) {
	defer func() {
		if !debug {
			logs.LogBuild.Disable()
		}
	}()
	if logStd {
		return
	}
	for _, l := range logLevels() {
		if err := newLog(l); err != nil {
			l.logger.Printf("syslog unavailable: %s", err)
		}
	}
}
