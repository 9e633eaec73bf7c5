package notifier

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"storefront/pkg/collection/domain/model"
)

// Writer renders notifications as single lines, the terminal equivalent of
// a toast.
type Writer struct {
	out io.Writer
}

func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

func (w *Writer) Notify(n model.Notification) {
	tag := "ok"
	if n.Severity == model.Error {
		tag = "error"
	}
	fmt.Fprintf(w.out, "[%s] %s\n", tag, n.Message)
}

type Log struct {
	logger log.FieldLogger
}

func NewLog(logger log.FieldLogger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Notify(n model.Notification) {
	entry := l.logger.WithField("severity", n.Severity.String())
	if n.Severity == model.Error {
		entry.Warn(n.Message)
		return
	}
	entry.Info(n.Message)
}

type Fanout []model.Notifier

func (f Fanout) Notify(n model.Notification) {
	for _, target := range f {
		target.Notify(n)
	}
}
