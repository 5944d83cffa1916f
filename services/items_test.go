package services_test

import (
	"testing"

	"github.com/amrahulsaini/casebuddy-sub000/models"
	"github.com/amrahulsaini/casebuddy-sub000/services"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func baseOrder() *models.Order {
	return &models.Order{
		ID:          42,
		OrderNumber: "CB-1042",
		ProductName: "Clear Armor Case",
		PhoneModel:  "iPhone 15 Pro",
		Quantity:    2,
		UnitPrice:   499,
	}
}

func TestBuildLineItems_NilBlobFallsBackToFlatColumns(t *testing.T) {
	order := baseOrder()
	order.CustomizationData = nil

	items := services.BuildLineItems(order)

	assert.Len(t, items, 1)
	assert.Equal(t, "Clear Armor Case", items[0].Name)
	assert.Equal(t, "iPhone 15 Pro", items[0].PhoneModel)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 499.0, items[0].Price)
}

func TestBuildLineItems_MalformedBlobFallsBack(t *testing.T) {
	order := baseOrder()
	order.CustomizationData = strPtr("{not json")

	items := services.BuildLineItems(order)

	assert.Len(t, items, 1)
	assert.Equal(t, "Clear Armor Case", items[0].Name)
}

func TestBuildLineItems_LegacySingleItemShape(t *testing.T) {
	order := baseOrder()
	order.CustomizationData = strPtr(`{"product_name":"Photo Case","phone_model":"Galaxy S24","quantity":1,"price":799,"custom_text":"MOM"}`)

	items := services.BuildLineItems(order)

	assert.Len(t, items, 1)
	assert.Equal(t, "Photo Case (MOM)", items[0].Name)
	assert.Equal(t, "Galaxy S24", items[0].PhoneModel)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, 799.0, items[0].Price)
}

func TestBuildLineItems_MultiItemShape(t *testing.T) {
	order := baseOrder()
	order.CustomizationData = strPtr(`{"items":[
		{"name":"Matte Case","phone_model":"Pixel 9","quantity":1,"price":599},
		{"product_name":"Glitter Case","quantity":3,"price":349}
	]}`)

	items := services.BuildLineItems(order)

	assert.Len(t, items, 2)
	assert.Equal(t, "Matte Case", items[0].Name)
	assert.Equal(t, "Pixel 9", items[0].PhoneModel)
	assert.Equal(t, "Glitter Case", items[1].Name)
	// missing fields inherit from the order's flat columns
	assert.Equal(t, "iPhone 15 Pro", items[1].PhoneModel)
	assert.Equal(t, 3, items[1].Quantity)
	assert.Equal(t, 349.0, items[1].Price)
}

func TestBuildLineItems_EmptyItemsArrayFallsBack(t *testing.T) {
	order := baseOrder()
	order.CustomizationData = strPtr(`{"items":[]}`)

	items := services.BuildLineItems(order)

	assert.Len(t, items, 1)
	assert.Equal(t, "Clear Armor Case", items[0].Name)
}

func TestBuildLineItems_ZeroQuantityDefaultsToOne(t *testing.T) {
	order := baseOrder()
	order.Quantity = 0
	order.CustomizationData = nil

	items := services.BuildLineItems(order)

	assert.Equal(t, 1, items[0].Quantity)
}
