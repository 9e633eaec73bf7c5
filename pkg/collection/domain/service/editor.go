package service

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"storefront/pkg/collection/domain/model"
	"storefront/pkg/common/domain"
)

type Option func(*collectionEditor)

func WithLogger(logger log.FieldLogger) Option {
	return func(e *collectionEditor) { e.logger = logger }
}

func WithSeed(records ...model.Record) Option {
	return func(e *collectionEditor) { e.seed = append(e.seed, records...) }
}

// CollectionEditor owns one collection and runs every add, update, delete
// and toggle through the schema rules. Each attempted mutation produces one
// notification for the user. It is not safe for concurrent use.
type CollectionEditor interface {
	Schema() model.Schema
	Items() model.Collection
	Draft() model.Draft
	Editing() (string, bool)
	SetText(field, value string) error
	SetFlag(field string, value bool) error
	Submit() (model.Record, error)
	Add(draft model.Draft) (model.Record, error)
	BeginEdit(id string)
	Update(draft model.Draft) (model.Record, error)
	CancelEdit()
	Remove(id string) (bool, error)
	Toggle(id, field string) (model.Record, error)
}

type collectionEditor struct {
	schema     model.Schema
	ids        model.IDGenerator
	notifier   model.Notifier
	confirmer  model.Confirmer
	dispatcher domain.EventDispatcher
	logger     log.FieldLogger

	seed    []model.Record
	items   model.Collection
	draft   model.Draft
	editing string
	issued  map[string]struct{}
}

func NewCollectionEditor(
	schema model.Schema,
	ids model.IDGenerator,
	notifier model.Notifier,
	confirmer model.Confirmer,
	dispatcher domain.EventDispatcher,
	opts ...Option,
) (CollectionEditor, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	e := &collectionEditor{
		schema:     schema,
		ids:        ids,
		notifier:   notifier,
		confirmer:  confirmer,
		dispatcher: dispatcher,
		logger:     discardLogger(),
		draft:      model.NewDraft(),
		issued:     make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.load(e.seed); err != nil {
		return nil, err
	}
	e.seed = nil
	return e, nil
}

// load accepts only seed records the schema rules could have produced, so
// editing one and saving it unchanged leaves it as it was.
func (e *collectionEditor) load(records []model.Record) error {
	keys := make(map[string]string, len(records))
	loaded := make([]model.Record, 0, len(records))
	for _, r := range records {
		if err := e.schema.Check(r); err != nil {
			return err
		}
		r = e.schema.WithDefaults(r)
		if _, dup := e.issued[r.ID]; dup {
			return errors.Wrapf(model.ErrIDCollision, "%s seed id %s", e.schema.Name, r.ID)
		}
		key := e.schema.Key(e.schema.KeyOf(r))
		if other, dup := keys[key]; dup {
			return errors.Wrapf(model.ErrDuplicateName, "%s seed records %s and %s", e.schema.Name, other, r.ID)
		}
		keys[key] = r.ID
		e.issued[r.ID] = struct{}{}
		loaded = append(loaded, r)
	}
	e.items = model.NewCollection(loaded...)
	return nil
}

func (e *collectionEditor) Schema() model.Schema { return e.schema }

// Items returns the current collection. Later mutations never change a
// collection that was already handed out.
func (e *collectionEditor) Items() model.Collection { return e.items }

func (e *collectionEditor) Draft() model.Draft { return e.draft.Clone() }

func (e *collectionEditor) Editing() (string, bool) {
	return e.editing, e.editing != ""
}

func (e *collectionEditor) SetText(field, value string) error {
	f, ok := e.schema.Field(field)
	if !ok {
		return errors.Wrapf(model.ErrUnknownField, "%s.%s", e.schema.Name, field)
	}
	if f.Kind == model.Flag {
		return errors.Wrapf(model.ErrNotAFlag, "%s.%s takes a flag, not text", e.schema.Name, field)
	}
	e.draft.SetText(field, value)
	return nil
}

func (e *collectionEditor) SetFlag(field string, value bool) error {
	f, ok := e.schema.Field(field)
	if !ok {
		return errors.Wrapf(model.ErrUnknownField, "%s.%s", e.schema.Name, field)
	}
	if f.Kind != model.Flag {
		return errors.Wrapf(model.ErrNotAFlag, "%s.%s", e.schema.Name, field)
	}
	e.draft.SetFlag(field, value)
	return nil
}

// Submit saves the current draft: it updates the record being edited, or
// adds a new one when nothing is being edited.
func (e *collectionEditor) Submit() (model.Record, error) {
	if _, ok := e.Editing(); ok {
		return e.Update(e.Draft())
	}
	return e.Add(e.Draft())
}

func (e *collectionEditor) Add(draft model.Draft) (model.Record, error) {
	fields, err := e.validate(draft, "")
	if err != nil {
		return model.Record{}, err
	}

	id, err := e.ids.NextID()
	if err != nil {
		e.fail(fmt.Sprintf("Could not add %s", e.noun()))
		return model.Record{}, errors.Wrap(err, "generate id")
	}
	if _, used := e.issued[id]; used {
		e.fail(fmt.Sprintf("Could not add %s", e.noun()))
		return model.Record{}, errors.Wrapf(model.ErrIDCollision, "%s id %s", e.schema.Name, id)
	}
	e.issued[id] = struct{}{}

	record := model.NewRecord(id, fields)
	e.items = e.items.Append(record)
	e.draft = model.NewDraft()

	key := e.schema.KeyOf(record)
	e.logger.WithFields(log.Fields{"collection": e.schema.Name, "id": id}).Debug("record added")
	e.dispatch(model.RecordAdded{Collection: e.schema.Name, RecordID: id, Key: key})
	e.succeed(fmt.Sprintf("%s %q added", e.schema.NounOrName(), key))
	return record, nil
}

// BeginEdit loads the record into the draft. Unknown ids are ignored.
func (e *collectionEditor) BeginEdit(id string) {
	record, ok := e.items.Find(id)
	if !ok {
		e.logger.WithFields(log.Fields{"collection": e.schema.Name, "id": id}).Debug("edit of unknown record ignored")
		return
	}
	e.draft = e.schema.DraftOf(record)
	e.editing = id
}

func (e *collectionEditor) Update(draft model.Draft) (model.Record, error) {
	if e.editing == "" {
		e.fail(fmt.Sprintf("No %s is being edited", e.noun()))
		return model.Record{}, model.ErrNoActiveEdit
	}
	id := e.editing
	if _, ok := e.items.Find(id); !ok {
		e.resetEdit()
		e.fail(fmt.Sprintf("%s no longer exists", e.schema.NounOrName()))
		return model.Record{}, errors.Wrapf(model.ErrNotFound, "%s id %s", e.schema.Name, id)
	}

	fields, err := e.validate(draft, id)
	if err != nil {
		return model.Record{}, err
	}

	record := model.NewRecord(id, fields)
	e.items = e.items.Replace(record)
	e.resetEdit()

	key := e.schema.KeyOf(record)
	e.logger.WithFields(log.Fields{"collection": e.schema.Name, "id": id}).Debug("record updated")
	e.dispatch(model.RecordUpdated{Collection: e.schema.Name, RecordID: id, Key: key})
	e.succeed(fmt.Sprintf("%s %q updated", e.schema.NounOrName(), key))
	return record, nil
}

func (e *collectionEditor) CancelEdit() {
	e.resetEdit()
}

// Remove deletes the record after the user confirms. An unknown id returns
// ErrNotFound without prompting or notifying; a declined prompt returns
// false and a nil error.
func (e *collectionEditor) Remove(id string) (bool, error) {
	record, ok := e.items.Find(id)
	if !ok {
		e.logger.WithFields(log.Fields{"collection": e.schema.Name, "id": id}).Debug("remove of unknown record ignored")
		return false, errors.Wrapf(model.ErrNotFound, "%s id %s", e.schema.Name, id)
	}

	key := e.schema.KeyOf(record)
	confirmed, err := e.confirmer.Confirm(fmt.Sprintf("Delete %s %q?", e.noun(), key))
	if err != nil {
		return false, errors.Wrap(err, "confirm removal")
	}
	if !confirmed {
		return false, nil
	}

	e.items = e.items.Remove(id)
	if e.editing == id {
		e.resetEdit()
	}

	e.logger.WithFields(log.Fields{"collection": e.schema.Name, "id": id}).Debug("record removed")
	e.dispatch(model.RecordRemoved{Collection: e.schema.Name, RecordID: id})
	e.succeed(fmt.Sprintf("%s %q deleted", e.schema.NounOrName(), key))
	return true, nil
}

func (e *collectionEditor) Toggle(id, field string) (model.Record, error) {
	record, ok := e.items.Find(id)
	if !ok {
		return model.Record{}, errors.Wrapf(model.ErrNotFound, "%s id %s", e.schema.Name, id)
	}
	f, ok := e.schema.Field(field)
	if !ok || f.Kind != model.Flag {
		e.fail(fmt.Sprintf("%s has no switch named %q", e.schema.NounOrName(), field))
		return model.Record{}, errors.Wrapf(model.ErrNotAFlag, "%s.%s", e.schema.Name, field)
	}

	value := !record.Flag(field)
	record = record.With(field, model.FlagValue(value))
	e.items = e.items.Replace(record)
	if e.editing == id {
		e.draft.SetFlag(field, value)
	}

	e.logger.WithFields(log.Fields{"collection": e.schema.Name, "id": id, "field": field}).Debug("record toggled")
	e.dispatch(model.RecordToggled{Collection: e.schema.Name, RecordID: id, Field: field, Value: value})
	e.succeed(fmt.Sprintf("%s %q %s", e.schema.NounOrName(), e.schema.KeyOf(record), f.StateLabel(value)))
	return record, nil
}

// validate normalises the draft and enforces key uniqueness against every
// record except exclude.
func (e *collectionEditor) validate(draft model.Draft, exclude string) (map[string]model.Value, error) {
	fields, err := e.schema.Normalize(draft)
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			e.fail(verr.Message)
		}
		return nil, err
	}

	key := fields[e.schema.KeyField].Text()
	norm := e.schema.Key(key)
	for _, r := range e.items.Records() {
		if r.ID == exclude {
			continue
		}
		if e.schema.Key(e.schema.KeyOf(r)) == norm {
			verr := &model.ValidationError{
				Field:   e.schema.KeyField,
				Message: fmt.Sprintf("%s %q already exists", e.schema.NounOrName(), key),
				Err:     model.ErrDuplicateName,
			}
			e.fail(verr.Message)
			return nil, verr
		}
	}
	return fields, nil
}

func (e *collectionEditor) resetEdit() {
	e.editing = ""
	e.draft = model.NewDraft()
}

func (e *collectionEditor) noun() string {
	n := e.schema.NounOrName()
	if n == "" {
		return n
	}
	return strings.ToLower(n[:1]) + n[1:]
}

func (e *collectionEditor) succeed(msg string) {
	e.notifier.Notify(model.Notification{Severity: model.Success, Message: msg})
}

func (e *collectionEditor) fail(msg string) {
	e.notifier.Notify(model.Notification{Severity: model.Error, Message: msg})
}

func (e *collectionEditor) dispatch(event domain.Event) {
	if err := e.dispatcher.Dispatch(event); err != nil {
		e.logger.WithError(err).WithField("event", event.Type()).Error("failed to dispatch event")
	}
}

func discardLogger() log.FieldLogger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}
