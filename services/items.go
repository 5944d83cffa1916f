package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/amrahulsaini/casebuddy-sub000/models"
)

// customizationItem is one entry of the checkout blob's items array. Older
// blobs use product_name, newer ones use name.
type customizationItem struct {
	Name        string      `json:"name"`
	ProductName string      `json:"product_name"`
	PhoneModel  string      `json:"phone_model"`
	Quantity    json.Number `json:"quantity"`
	Price       json.Number `json:"price"`
	Image       string      `json:"image"`
}

// customizationBlob covers both stored shapes: the newer {"items":[...]}
// multi-item form and the legacy single-item form with the fields inline.
type customizationBlob struct {
	Items       []customizationItem `json:"items"`
	ProductName string              `json:"product_name"`
	PhoneModel  string              `json:"phone_model"`
	Quantity    json.Number         `json:"quantity"`
	Price       json.Number         `json:"price"`
	CustomText  string              `json:"custom_text"`
}

// BuildLineItems reconstructs the purchased line items from an order's
// customization blob. A missing or malformed blob fails soft to a single
// synthetic item derived from the order's flat columns, so a bad blob can
// never block the payment flow.
func BuildLineItems(order *models.Order) []models.LineItem {
	fallback := []models.LineItem{{
		Name:       order.ProductName,
		PhoneModel: order.PhoneModel,
		Quantity:   orDefaultQty(order.Quantity),
		Price:      order.UnitPrice,
	}}

	if order.CustomizationData == nil || strings.TrimSpace(*order.CustomizationData) == "" {
		return fallback
	}

	var blob customizationBlob
	if err := json.Unmarshal([]byte(*order.CustomizationData), &blob); err != nil {
		return fallback
	}

	if len(blob.Items) > 0 {
		items := make([]models.LineItem, 0, len(blob.Items))
		for _, it := range blob.Items {
			name := it.Name
			if name == "" {
				name = it.ProductName
			}
			if name == "" {
				name = order.ProductName
			}
			items = append(items, models.LineItem{
				Name:       name,
				PhoneModel: coalesce(it.PhoneModel, order.PhoneModel),
				Quantity:   numberToQty(it.Quantity),
				Price:      numberToPrice(it.Price, order.UnitPrice),
				Image:      it.Image,
			})
		}
		return items
	}

	if blob.ProductName != "" || blob.PhoneModel != "" {
		item := models.LineItem{
			Name:       coalesce(blob.ProductName, order.ProductName),
			PhoneModel: coalesce(blob.PhoneModel, order.PhoneModel),
			Quantity:   numberToQty(blob.Quantity),
			Price:      numberToPrice(blob.Price, order.UnitPrice),
		}
		if blob.CustomText != "" {
			item.Name = fmt.Sprintf("%s (%s)", item.Name, blob.CustomText)
		}
		return []models.LineItem{item}
	}

	return fallback
}

func coalesce(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

func orDefaultQty(q int) int {
	if q <= 0 {
		return 1
	}
	return q
}

func numberToQty(n json.Number) int {
	if q, err := strconv.Atoi(n.String()); err == nil && q > 0 {
		return q
	}
	return 1
}

func numberToPrice(n json.Number, fallback float64) float64 {
	if p, err := n.Float64(); err == nil && p > 0 {
		return p
	}
	return fallback
}
