// Package catalog declares the storefront admin lists and the sample data
// each admin screen starts with.
package catalog

import (
	"github.com/shopspring/decimal"

	"storefront/pkg/collection/domain/model"
)

const (
	Locations  = "locations"
	Brands     = "brands"
	Tags       = "tags"
	Promotions = "promotions"
	Shipping   = "shipping"
)

// Collection pairs a schema with its starting records.
type Collection struct {
	Schema model.Schema
	Seed   []model.Record
}

func Schemas() []model.Schema {
	return []model.Schema{
		{
			Name:     Locations,
			Noun:     "Location",
			KeyField: "name",
			Fields: []model.FieldSpec{
				{Name: "name", Label: "location name", Kind: model.Text, Required: true},
				{Name: "address", Label: "address", Kind: model.Text, Required: true},
			},
		},
		{
			Name:     Brands,
			Noun:     "Brand",
			KeyField: "name",
			Fields: []model.FieldSpec{
				{Name: "name", Label: "brand name", Kind: model.Text, Required: true},
			},
		},
		{
			Name:     Tags,
			Noun:     "Tag",
			KeyField: "name",
			Fields: []model.FieldSpec{
				{Name: "name", Label: "tag name", Kind: model.Text, Required: true},
			},
		},
		{
			Name:     Promotions,
			Noun:     "Promotion",
			KeyField: "code",
			Fields: []model.FieldSpec{
				{Name: "code", Label: "promo code", Kind: model.Text, Required: true, Case: model.UpperCase},
				{Name: "discount", Label: "discount", Kind: model.Number, Required: true,
					Min: model.GreaterThan(decimal.Zero), Max: model.AtMost(decimal.NewFromInt(100))},
				{Name: "active", Label: "active", Kind: model.Flag, OnLabel: "activated", OffLabel: "deactivated"},
			},
		},
		{
			Name:     Shipping,
			Noun:     "Shipping option",
			KeyField: "name",
			Fields: []model.FieldSpec{
				{Name: "name", Label: "option name", Kind: model.Text, Required: true},
				{Name: "cost", Label: "cost", Kind: model.Number, Required: true, Min: model.AtLeast(decimal.Zero)},
				{Name: "days", Label: "delivery days", Kind: model.Number, Min: model.AtLeast(decimal.Zero)},
			},
		},
	}
}

func Samples() map[string][]model.Record {
	text := model.TextValue
	num := func(s string) model.Value { return model.NumberValue(decimal.RequireFromString(s)) }
	flag := model.FlagValue

	return map[string][]model.Record{
		Locations: {
			model.NewRecord("1", map[string]model.Value{"name": text("Downtown Store"), "address": text("12 Market Street")}),
			model.NewRecord("2", map[string]model.Value{"name": text("Riverside Warehouse"), "address": text("48 Dock Road")}),
		},
		Brands: {
			model.NewRecord("1", map[string]model.Value{"name": text("Nike")}),
			model.NewRecord("2", map[string]model.Value{"name": text("Adidas")}),
			model.NewRecord("3", map[string]model.Value{"name": text("Puma")}),
		},
		Tags: {
			model.NewRecord("1", map[string]model.Value{"name": text("New Arrival")}),
			model.NewRecord("2", map[string]model.Value{"name": text("Organic")}),
			model.NewRecord("3", map[string]model.Value{"name": text("Best Seller")}),
		},
		Promotions: {
			model.NewRecord("1", map[string]model.Value{"code": text("SAVE10"), "discount": num("10"), "active": flag(true)}),
			model.NewRecord("2", map[string]model.Value{"code": text("WELCOME20"), "discount": num("20"), "active": flag(false)}),
		},
		Shipping: {
			model.NewRecord("1", map[string]model.Value{"name": text("Standard"), "cost": num("4.99"), "days": num("5")}),
			model.NewRecord("2", map[string]model.Value{"name": text("Express"), "cost": num("12.50"), "days": num("1")}),
			model.NewRecord("3", map[string]model.Value{"name": text("Store Pickup"), "cost": num("0")}),
		},
	}
}

// Collections returns every list in display order, with sample data when
// withSamples is set.
func Collections(withSamples bool) []Collection {
	var samples map[string][]model.Record
	if withSamples {
		samples = Samples()
	}
	schemas := Schemas()
	out := make([]Collection, 0, len(schemas))
	for _, s := range schemas {
		out = append(out, Collection{Schema: s, Seed: samples[s.Name]})
	}
	return out
}
