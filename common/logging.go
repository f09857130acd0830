// Package common provides the shared logging and utility layer for the snapshot
// graph and compression pipeline packages. It implements intelligent log output
// routing that directs error messages to stderr while sending other log levels to
// stdout, enabling proper stream separation for containerized deployments where the
// two streams feed different aggregation and alerting pipelines.
//
// The logging system is built on logrus for structured logging. A global Logger
// instance is pre-wired with the OutputSplitter so every package logs through the
// same routing without per-package setup; services that want scoped fields build a
// ContextLogger on top of it (see logger.go).
package common

import (
	"bytes"
	"os"

	"github.com/sirupsen/logrus"
)

// OutputSplitter routes formatted log output by severity: lines containing
// "level=error" (text formatter) or "level":"error" (JSON formatter) go to stderr,
// everything else to stdout.
//
// The check is a plain byte search on logrus's formatted output rather than a hook on
// the entry level, so it works identically for the text and JSON formatters and costs
// no allocation per write. Orchestrators and shell scripts that capture stdout and
// stderr independently can then treat the error stream with higher priority while
// info/debug output flows to ordinary log processing.
//
// Safe for concurrent use: it holds no state and writes to the thread-safe OS streams.
type OutputSplitter struct{}

// Write implements io.Writer, routing p to stderr when it carries an error-level
// marker and to stdout otherwise. Write errors from the underlying stream propagate
// to the caller per the io.Writer contract.
func (splitter *OutputSplitter) Write(p []byte) (n int, err error) {
	if bytes.Contains(p, []byte("level=error")) || bytes.Contains(p, []byte(`"level":"error"`)) {
		return os.Stderr.Write(p)
	}
	return os.Stdout.Write(p)
}

// Logger is the global logger instance shared by every package in the module. It is
// initialized with the OutputSplitter; deployments customize formatter and level
// after import:
//
//	common.Logger.SetFormatter(&logrus.JSONFormatter{})
//	common.Logger.SetLevel(logrus.InfoLevel)
//
// Logrus handles synchronization internally, so the instance is safe for concurrent
// use across goroutines.
var Logger = logrus.New()

func init() {
	Logger.SetOutput(&OutputSplitter{})
}
