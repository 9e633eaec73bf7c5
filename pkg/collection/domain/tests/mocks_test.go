package tests

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"storefront/pkg/collection/domain/model"
	"storefront/pkg/common/domain"
)

var brandSchema = model.Schema{
	Name:     "brands",
	Noun:     "Brand",
	KeyField: "name",
	Fields: []model.FieldSpec{
		{Name: "name", Label: "brand name", Kind: model.Text, Required: true},
	},
}

var promotionSchema = model.Schema{
	Name:     "promotions",
	Noun:     "Promotion",
	KeyField: "code",
	Fields: []model.FieldSpec{
		{Name: "code", Label: "promo code", Kind: model.Text, Required: true, Case: model.UpperCase},
		{Name: "discount", Label: "discount", Kind: model.Number, Required: true,
			Min: model.GreaterThan(decimal.Zero), Max: model.AtMost(decimal.NewFromInt(100))},
		{Name: "active", Kind: model.Flag, OnLabel: "activated", OffLabel: "deactivated"},
	},
}

var shippingSchema = model.Schema{
	Name:     "shipping",
	Noun:     "Shipping option",
	KeyField: "name",
	Fields: []model.FieldSpec{
		{Name: "name", Label: "option name", Kind: model.Text, Required: true},
		{Name: "cost", Label: "cost", Kind: model.Number, Required: true, Min: model.AtLeast(decimal.Zero)},
		{Name: "days", Label: "delivery days", Kind: model.Number, Min: model.AtLeast(decimal.Zero)},
	},
}

func draft(text map[string]string, flags map[string]bool) model.Draft {
	d := model.NewDraft()
	for k, v := range text {
		d.SetText(k, v)
	}
	for k, v := range flags {
		d.SetFlag(k, v)
	}
	return d
}

func brand(id, name string) model.Record {
	return model.NewRecord(id, map[string]model.Value{"name": model.TextValue(name)})
}

func promotion(id, code string, discount int64, active bool) model.Record {
	return model.NewRecord(id, map[string]model.Value{
		"code":     model.TextValue(code),
		"discount": model.NumberValue(decimal.NewFromInt(discount)),
		"active":   model.FlagValue(active),
	})
}

type mockIDGenerator struct {
	next  int
	fixed string
	err   error
}

func (m *mockIDGenerator) NextID() (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if m.fixed != "" {
		return m.fixed, nil
	}
	m.next++
	return fmt.Sprintf("id-%d", m.next), nil
}

type mockNotifier struct {
	notifications []model.Notification
}

func (m *mockNotifier) Notify(n model.Notification) {
	m.notifications = append(m.notifications, n)
}

func (m *mockNotifier) Last() model.Notification {
	if len(m.notifications) == 0 {
		return model.Notification{}
	}
	return m.notifications[len(m.notifications)-1]
}

func (m *mockNotifier) Reset() {
	m.notifications = nil
}

type mockConfirmer struct {
	answer  bool
	err     error
	prompts []string
}

func (m *mockConfirmer) Confirm(prompt string) (bool, error) {
	m.prompts = append(m.prompts, prompt)
	return m.answer, m.err
}

type mockEventDispatcher struct {
	events []domain.Event
	fail   bool
}

func (m *mockEventDispatcher) Dispatch(event domain.Event) error {
	if m.fail {
		return errors.New("dispatch failed")
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockEventDispatcher) Reset() {
	m.events = nil
}
