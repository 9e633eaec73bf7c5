package event

import (
	log "github.com/sirupsen/logrus"

	"storefront/pkg/collection/domain/model"
	"storefront/pkg/common/domain"
)

// LogDispatcher records domain events in the log. There is no broker to
// deliver them to.
type LogDispatcher struct {
	logger log.FieldLogger
}

func NewLogDispatcher(logger log.FieldLogger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Dispatch(event domain.Event) error {
	d.logger.WithFields(fields(event)).Info("domain event")
	return nil
}

func fields(event domain.Event) log.Fields {
	f := log.Fields{"event": event.Type()}
	switch e := event.(type) {
	case model.RecordAdded:
		f["collection"], f["id"], f["key"] = e.Collection, e.RecordID, e.Key
	case model.RecordUpdated:
		f["collection"], f["id"], f["key"] = e.Collection, e.RecordID, e.Key
	case model.RecordRemoved:
		f["collection"], f["id"] = e.Collection, e.RecordID
	case model.RecordToggled:
		f["collection"], f["id"], f["field"], f["value"] = e.Collection, e.RecordID, e.Field, e.Value
	}
	return f
}
