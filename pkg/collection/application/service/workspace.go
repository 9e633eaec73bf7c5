package service

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"storefront/pkg/collection/domain/model"
	domainservice "storefront/pkg/collection/domain/service"
	"storefront/pkg/common/domain"
)

var ErrUnknownCollection = errors.New("unknown collection")

type Definition struct {
	Schema model.Schema
	Seed   []model.Record
}

// IDGeneratorFactory builds the id source of one collection.
type IDGeneratorFactory func(schema model.Schema) (model.IDGenerator, error)

type Dependencies struct {
	IDs        IDGeneratorFactory
	Notifier   model.Notifier
	Confirmer  model.Confirmer
	Dispatcher domain.EventDispatcher
	Logger     log.FieldLogger
}

// Workspace owns one editor per collection, the way each admin screen owns
// its own list.
type Workspace struct {
	editors map[string]domainservice.CollectionEditor
	names   []string
}

func NewWorkspace(deps Dependencies, defs ...Definition) (*Workspace, error) {
	w := &Workspace{editors: make(map[string]domainservice.CollectionEditor, len(defs))}
	for _, def := range defs {
		name := def.Schema.Name
		if _, dup := w.editors[name]; dup {
			return nil, errors.Wrapf(model.ErrInvalidSchema, "collection %q declared twice", name)
		}
		ids, err := deps.IDs(def.Schema)
		if err != nil {
			return nil, errors.Wrapf(err, "id generator for %s", name)
		}
		opts := []domainservice.Option{domainservice.WithSeed(def.Seed...)}
		if deps.Logger != nil {
			opts = append(opts, domainservice.WithLogger(deps.Logger.WithField("collection", name)))
		}
		editor, err := domainservice.NewCollectionEditor(def.Schema, ids, deps.Notifier, deps.Confirmer, deps.Dispatcher, opts...)
		if err != nil {
			return nil, errors.Wrapf(err, "collection %s", name)
		}
		w.editors[name] = editor
		w.names = append(w.names, name)
	}
	return w, nil
}

func (w *Workspace) Names() []string {
	return append([]string(nil), w.names...)
}

func (w *Workspace) Len() int { return len(w.names) }

func (w *Workspace) Editor(name string) (domainservice.CollectionEditor, error) {
	editor, ok := w.editors[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownCollection, "%q", name)
	}
	return editor, nil
}
