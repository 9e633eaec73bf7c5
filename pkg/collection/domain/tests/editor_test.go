package tests

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/pkg/collection/domain/model"
	"storefront/pkg/collection/domain/service"
)

type fixture struct {
	editor     service.CollectionEditor
	ids        *mockIDGenerator
	notifier   *mockNotifier
	confirmer  *mockConfirmer
	dispatcher *mockEventDispatcher
}

func setup(t *testing.T, schema model.Schema, seed ...model.Record) fixture {
	t.Helper()
	f := fixture{
		ids:        &mockIDGenerator{},
		notifier:   &mockNotifier{},
		confirmer:  &mockConfirmer{answer: true},
		dispatcher: &mockEventDispatcher{},
	}
	editor, err := service.NewCollectionEditor(schema, f.ids, f.notifier, f.confirmer, f.dispatcher, service.WithSeed(seed...))
	require.NoError(t, err)
	f.editor = editor
	return f
}

func TestAdd(t *testing.T) {
	f := setup(t, brandSchema, brand("a", "Nike"))

	t.Run("Success", func(t *testing.T) {
		before := f.editor.Items()
		record, err := f.editor.Add(draft(map[string]string{"name": "  Adidas "}, nil))

		require.NoError(t, err)
		assert.Equal(t, "id-1", record.ID)
		assert.Equal(t, "Adidas", record.Text("name"))

		items := f.editor.Items()
		require.Equal(t, before.Len()+1, items.Len())
		assert.True(t, items.At(items.Len()-1).Equal(record))
		assert.Equal(t, 1, before.Len(), "previous collection must not change")

		assert.Equal(t, model.Success, f.notifier.Last().Severity)
		require.Len(t, f.dispatcher.events, 1)
		event, ok := f.dispatcher.events[0].(model.RecordAdded)
		require.True(t, ok)
		assert.Equal(t, "brands", event.Collection)
		assert.Equal(t, record.ID, event.RecordID)
		assert.True(t, f.editor.Draft().IsEmpty())
	})

	t.Run("Fail on duplicate name ignoring case", func(t *testing.T) {
		f.dispatcher.Reset()
		before := f.editor.Items()

		_, err := f.editor.Add(draft(map[string]string{"name": "nike"}, nil))

		assert.ErrorIs(t, err, model.ErrDuplicateName)
		assert.True(t, before.Equal(f.editor.Items()))
		assert.Empty(t, f.dispatcher.events)
		assert.Equal(t, model.Error, f.notifier.Last().Severity)
		assert.Contains(t, f.notifier.Last().Message, "already exists")
	})

	t.Run("Fail on duplicate name with surrounding spaces", func(t *testing.T) {
		_, err := f.editor.Add(draft(map[string]string{"name": "  ADIDAS  "}, nil))
		assert.ErrorIs(t, err, model.ErrDuplicateName)
	})

	t.Run("Fail on blank name", func(t *testing.T) {
		before := f.editor.Items()
		_, err := f.editor.Add(draft(map[string]string{"name": "   "}, nil))

		assert.ErrorIs(t, err, model.ErrMissingField)
		var verr *model.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "name", verr.Field)
		assert.Equal(t, "Please enter the brand name", f.notifier.Last().Message)
		assert.True(t, before.Equal(f.editor.Items()))
	})
}

func TestAddValidatesNumbers(t *testing.T) {
	f := setup(t, promotionSchema)

	cases := []struct {
		name     string
		discount string
		err      error
	}{
		{"Missing", "", model.ErrMissingField},
		{"Not a number", "ten", model.ErrInvalidNumber},
		{"Not finite", "NaN", model.ErrInvalidNumber},
		{"Zero", "0", model.ErrInvalidNumber},
		{"Negative", "-5", model.ErrInvalidNumber},
		{"Above range", "100.5", model.ErrInvalidNumber},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.editor.Add(draft(map[string]string{"code": "save10", "discount": tc.discount}, nil))
			assert.ErrorIs(t, err, tc.err)
			assert.Equal(t, 0, f.editor.Items().Len())
			assert.Equal(t, model.Error, f.notifier.Last().Severity)
		})
	}

	t.Run("Success upper-cases the code", func(t *testing.T) {
		record, err := f.editor.Add(draft(map[string]string{"code": " save10 ", "discount": "10"}, map[string]bool{"active": true}))

		require.NoError(t, err)
		assert.Equal(t, "SAVE10", record.Text("code"))
		assert.True(t, record.Flag("active"))
		v, ok := record.Get("discount")
		require.True(t, ok)
		assert.Equal(t, "10", v.Number().String())
	})

	t.Run("Fail on duplicate code in other case", func(t *testing.T) {
		_, err := f.editor.Add(draft(map[string]string{"code": "Save10", "discount": "5"}, nil))
		assert.ErrorIs(t, err, model.ErrDuplicateName)
	})
}

func TestAddOptionalNumber(t *testing.T) {
	f := setup(t, shippingSchema)

	record, err := f.editor.Add(draft(map[string]string{"name": "Pickup", "cost": "0"}, nil))

	require.NoError(t, err)
	_, ok := record.Get("days")
	assert.False(t, ok)

	_, err = f.editor.Add(draft(map[string]string{"name": "Express", "cost": "-1"}, nil))
	assert.ErrorIs(t, err, model.ErrInvalidNumber)
	assert.Equal(t, "Cost must be at least 0", f.notifier.Last().Message)
}

func TestAddAppendsInOrder(t *testing.T) {
	f := setup(t, brandSchema)

	for _, name := range []string{"Zara", "Apple", "Mango"} {
		_, err := f.editor.Add(draft(map[string]string{"name": name}, nil))
		require.NoError(t, err)
	}

	var names []string
	for _, r := range f.editor.Items().Records() {
		names = append(names, r.Text("name"))
	}
	assert.Equal(t, []string{"Zara", "Apple", "Mango"}, names)
}

func TestAddIDFailures(t *testing.T) {
	t.Run("Generator error", func(t *testing.T) {
		f := setup(t, brandSchema)
		f.ids.err = errors.New("entropy exhausted")

		_, err := f.editor.Add(draft(map[string]string{"name": "Puma"}, nil))

		require.Error(t, err)
		assert.Equal(t, 0, f.editor.Items().Len())
		assert.Equal(t, model.Error, f.notifier.Last().Severity)
	})

	t.Run("Generated id already issued", func(t *testing.T) {
		f := setup(t, brandSchema, brand("a", "Nike"))
		f.ids.fixed = "a"

		_, err := f.editor.Add(draft(map[string]string{"name": "Puma"}, nil))

		assert.ErrorIs(t, err, model.ErrIDCollision)
		assert.Equal(t, 1, f.editor.Items().Len())
	})
}

func TestBeginEdit(t *testing.T) {
	f := setup(t, promotionSchema, promotion("p1", "SAVE10", 10, true))

	t.Run("Unknown id is ignored", func(t *testing.T) {
		f.editor.BeginEdit("missing")
		_, editing := f.editor.Editing()
		assert.False(t, editing)
		assert.True(t, f.editor.Draft().IsEmpty())
		assert.Empty(t, f.notifier.notifications)
	})

	t.Run("Loads fields into the draft", func(t *testing.T) {
		f.editor.BeginEdit("p1")

		id, editing := f.editor.Editing()
		require.True(t, editing)
		assert.Equal(t, "p1", id)
		d := f.editor.Draft()
		assert.Equal(t, "SAVE10", d.Text["code"])
		assert.Equal(t, "10", d.Text["discount"])
		assert.True(t, d.Flags["active"])
	})
}

func TestUpdate(t *testing.T) {
	t.Run("Fail without active edit", func(t *testing.T) {
		f := setup(t, brandSchema, brand("a", "Nike"))

		_, err := f.editor.Update(draft(map[string]string{"name": "Puma"}, nil))

		assert.ErrorIs(t, err, model.ErrNoActiveEdit)
		assert.Equal(t, model.Error, f.notifier.Last().Severity)
		assert.Equal(t, "Nike", f.editor.Items().At(0).Text("name"))
	})

	t.Run("Success keeps id and position", func(t *testing.T) {
		f := setup(t, brandSchema, brand("a", "Nike"), brand("b", "Puma"), brand("c", "Zara"))
		f.editor.BeginEdit("b")

		record, err := f.editor.Update(draft(map[string]string{"name": "Reebok"}, nil))

		require.NoError(t, err)
		assert.Equal(t, "b", record.ID)
		items := f.editor.Items()
		require.Equal(t, 3, items.Len())
		assert.Equal(t, "b", items.At(1).ID)
		assert.Equal(t, "Reebok", items.At(1).Text("name"))
		_, editing := f.editor.Editing()
		assert.False(t, editing)
		assert.True(t, f.editor.Draft().IsEmpty())
		require.Len(t, f.dispatcher.events, 1)
		_, ok := f.dispatcher.events[0].(model.RecordUpdated)
		assert.True(t, ok)
	})

	t.Run("Same name as itself in other case is allowed", func(t *testing.T) {
		f := setup(t, brandSchema, brand("a", "Nike"))
		f.editor.BeginEdit("a")

		record, err := f.editor.Update(draft(map[string]string{"name": "NIKE"}, nil))

		require.NoError(t, err)
		assert.Equal(t, "NIKE", record.Text("name"))
	})

	t.Run("Fail on name of another record", func(t *testing.T) {
		f := setup(t, brandSchema, brand("a", "Nike"), brand("b", "Puma"))
		f.editor.BeginEdit("b")
		before := f.editor.Items()

		_, err := f.editor.Update(draft(map[string]string{"name": " nike"}, nil))

		assert.ErrorIs(t, err, model.ErrDuplicateName)
		assert.True(t, before.Equal(f.editor.Items()))
		id, editing := f.editor.Editing()
		assert.True(t, editing, "a failed update keeps the edit open")
		assert.Equal(t, "b", id)
	})

	t.Run("Round trip with unchanged draft", func(t *testing.T) {
		f := setup(t, promotionSchema, promotion("p1", "SAVE10", 10, true), promotion("p2", "WELCOME", 15, false))
		before := f.editor.Items()

		f.editor.BeginEdit("p2")
		_, err := f.editor.Submit()

		require.NoError(t, err)
		assert.True(t, before.Equal(f.editor.Items()))
	})
}

func TestCancelEdit(t *testing.T) {
	f := setup(t, brandSchema, brand("a", "Nike"))
	f.editor.BeginEdit("a")
	require.NoError(t, f.editor.SetText("name", "Changed"))

	f.editor.CancelEdit()
	_, editing := f.editor.Editing()
	assert.False(t, editing)
	assert.True(t, f.editor.Draft().IsEmpty())

	f.editor.CancelEdit()
	_, editing = f.editor.Editing()
	assert.False(t, editing)
	assert.True(t, f.editor.Draft().IsEmpty())
	assert.Equal(t, "Nike", f.editor.Items().At(0).Text("name"))
	assert.Empty(t, f.notifier.notifications)
}

func TestRemove(t *testing.T) {
	t.Run("Success preserves order", func(t *testing.T) {
		f := setup(t, brandSchema, brand("a", "Nike"), brand("b", "Puma"), brand("c", "Zara"))

		removed, err := f.editor.Remove("b")

		require.NoError(t, err)
		assert.True(t, removed)
		items := f.editor.Items()
		require.Equal(t, 2, items.Len())
		assert.Equal(t, "a", items.At(0).ID)
		assert.Equal(t, "c", items.At(1).ID)
		require.Len(t, f.confirmer.prompts, 1)
		assert.Contains(t, f.confirmer.prompts[0], "Puma")
		assert.Equal(t, model.Success, f.notifier.Last().Severity)
		require.Len(t, f.dispatcher.events, 1)
		_, ok := f.dispatcher.events[0].(model.RecordRemoved)
		assert.True(t, ok)
	})

	t.Run("Unknown id is a silent no-op", func(t *testing.T) {
		f := setup(t, brandSchema, brand("a", "Nike"), brand("b", "Puma"))
		before := f.editor.Items()

		removed, err := f.editor.Remove("nonexistent")

		assert.False(t, removed)
		assert.ErrorIs(t, err, model.ErrNotFound)
		assert.True(t, before.Equal(f.editor.Items()))
		assert.Empty(t, f.confirmer.prompts)
		assert.Empty(t, f.notifier.notifications)
	})

	t.Run("Declined confirmation changes nothing", func(t *testing.T) {
		f := setup(t, brandSchema, brand("a", "Nike"))
		f.confirmer.answer = false

		removed, err := f.editor.Remove("a")

		require.NoError(t, err)
		assert.False(t, removed)
		assert.Equal(t, 1, f.editor.Items().Len())
		assert.Empty(t, f.notifier.notifications)
		assert.Empty(t, f.dispatcher.events)
	})

	t.Run("Confirmer failure changes nothing", func(t *testing.T) {
		f := setup(t, brandSchema, brand("a", "Nike"))
		f.confirmer.err = errors.New("stdin closed")

		removed, err := f.editor.Remove("a")

		require.Error(t, err)
		assert.False(t, removed)
		assert.Equal(t, 1, f.editor.Items().Len())
	})

	t.Run("Removing the edited record ends the edit", func(t *testing.T) {
		f := setup(t, brandSchema, brand("a", "Nike"))
		f.editor.BeginEdit("a")

		_, err := f.editor.Remove("a")

		require.NoError(t, err)
		_, editing := f.editor.Editing()
		assert.False(t, editing)
	})

	t.Run("Re-adding gets a new id", func(t *testing.T) {
		f := setup(t, brandSchema)
		first, err := f.editor.Add(draft(map[string]string{"name": "Nike"}, nil))
		require.NoError(t, err)

		_, err = f.editor.Remove(first.ID)
		require.NoError(t, err)
		second, err := f.editor.Add(draft(map[string]string{"name": "Nike"}, nil))

		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)
	})
}

func TestToggle(t *testing.T) {
	f := setup(t, promotionSchema, promotion("p1", "SAVE10", 10, true))

	t.Run("Flips and restores", func(t *testing.T) {
		record, err := f.editor.Toggle("p1", "active")

		require.NoError(t, err)
		assert.Equal(t, "p1", record.ID)
		assert.Equal(t, "SAVE10", record.Text("code"))
		assert.False(t, record.Flag("active"))
		assert.Equal(t, `Promotion "SAVE10" deactivated`, f.notifier.Last().Message)

		record, err = f.editor.Toggle("p1", "active")

		require.NoError(t, err)
		assert.True(t, record.Flag("active"))
		assert.True(t, f.editor.Items().At(0).Equal(promotion("p1", "SAVE10", 10, true)))
		assert.Equal(t, `Promotion "SAVE10" activated`, f.notifier.Last().Message)
	})

	t.Run("Unknown id", func(t *testing.T) {
		_, err := f.editor.Toggle("nope", "active")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("Field is not a flag", func(t *testing.T) {
		f.notifier.Reset()
		_, err := f.editor.Toggle("p1", "code")
		assert.ErrorIs(t, err, model.ErrNotAFlag)
		assert.Equal(t, model.Error, f.notifier.Last().Severity)
	})

	t.Run("Edited record keeps draft in sync", func(t *testing.T) {
		f.editor.BeginEdit("p1")
		_, err := f.editor.Toggle("p1", "active")
		require.NoError(t, err)

		assert.False(t, f.editor.Draft().Flags["active"])
		_, err = f.editor.Submit()
		require.NoError(t, err)
		assert.False(t, f.editor.Items().At(0).Flag("active"))
	})
}

func TestDraftBinding(t *testing.T) {
	f := setup(t, promotionSchema)

	assert.ErrorIs(t, f.editor.SetText("unknown", "x"), model.ErrUnknownField)
	assert.ErrorIs(t, f.editor.SetText("active", "true"), model.ErrNotAFlag)
	assert.ErrorIs(t, f.editor.SetFlag("code", true), model.ErrNotAFlag)

	require.NoError(t, f.editor.SetText("code", "spring"))
	require.NoError(t, f.editor.SetText("discount", "12.5"))
	require.NoError(t, f.editor.SetFlag("active", true))

	record, err := f.editor.Submit()

	require.NoError(t, err)
	assert.Equal(t, "SPRING", record.Text("code"))
	assert.True(t, record.Flag("active"))
	assert.True(t, f.editor.Draft().IsEmpty())
}

func TestSeedValidation(t *testing.T) {
	newEditor := func(seed ...model.Record) error {
		_, err := service.NewCollectionEditor(brandSchema, &mockIDGenerator{}, &mockNotifier{}, &mockConfirmer{}, &mockEventDispatcher{}, service.WithSeed(seed...))
		return err
	}

	assert.ErrorIs(t, newEditor(brand("a", "Nike"), brand("b", "NIKE")), model.ErrDuplicateName)
	assert.ErrorIs(t, newEditor(brand("a", "Nike"), brand("a", "Puma")), model.ErrIDCollision)
	assert.ErrorIs(t, newEditor(brand("", "Nike")), model.ErrInvalidSchema)
	assert.ErrorIs(t, newEditor(brand("a", "")), model.ErrMissingField)
	assert.NoError(t, newEditor(brand("a", "Nike"), brand("b", "Puma")))

	t.Run("Fail on records add would not produce", func(t *testing.T) {
		newPromotions := func(seed ...model.Record) error {
			_, err := service.NewCollectionEditor(promotionSchema, &mockIDGenerator{}, &mockNotifier{}, &mockConfirmer{}, &mockEventDispatcher{}, service.WithSeed(seed...))
			return err
		}

		assert.ErrorIs(t, newPromotions(promotion("p1", "SAVE10", -5, true)), model.ErrInvalidNumber)
		assert.ErrorIs(t, newPromotions(promotion("p1", "SAVE10", 101, true)), model.ErrInvalidNumber)
		assert.ErrorIs(t, newPromotions(promotion("p1", "save10", 10, true)), model.ErrInvalidSchema)
		assert.ErrorIs(t, newPromotions(promotion("p1", " X ", 10, true)), model.ErrInvalidSchema)
		assert.ErrorIs(t, newEditor(brand("a", " Nike")), model.ErrInvalidSchema)
	})

	t.Run("Round trip on records with absent optional fields", func(t *testing.T) {
		pickup := model.NewRecord("s1", map[string]model.Value{
			"name": model.TextValue("Store Pickup"),
			"cost": model.NumberValue(decimal.RequireFromString("0.50")),
		})
		noFlag := model.NewRecord("p1", map[string]model.Value{
			"code":     model.TextValue("SAVE10"),
			"discount": model.NumberValue(decimal.NewFromInt(10)),
		})

		for _, c := range []struct {
			schema model.Schema
			record model.Record
		}{{shippingSchema, pickup}, {promotionSchema, noFlag}} {
			f := setup(t, c.schema, c.record)
			before := f.editor.Items()

			f.editor.BeginEdit(c.record.ID)
			_, err := f.editor.Submit()

			require.NoError(t, err)
			assert.True(t, before.Equal(f.editor.Items()), c.schema.Name)
		}
	})
}

func TestDispatchFailureDoesNotBlockMutation(t *testing.T) {
	f := setup(t, brandSchema)
	f.dispatcher.fail = true

	_, err := f.editor.Add(draft(map[string]string{"name": "Puma"}, nil))

	require.NoError(t, err)
	assert.Equal(t, 1, f.editor.Items().Len())
	assert.Equal(t, model.Success, f.notifier.Last().Severity)
}
