package store

import (
	"context"
	"testing"

	"github.com/safar/ekart/internal/config"
	"github.com/safar/ekart/internal/database"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCreateOrderRequestValidate(t *testing.T) {
	price := decimal.RequireFromString("9.99")
	negative := decimal.RequireFromString("-1")
	subCent := decimal.RequireFromString("9.999")
	trailingZeros := decimal.RequireFromString("9.990")

	valid := func() CreateOrderRequest {
		return CreateOrderRequest{
			UserID:        1,
			Address:       "1 Main St",
			PaymentMethod: "card",
			Items:         []OrderItemRequest{{ProductID: 1, Quantity: 2}},
		}
	}

	tests := []struct {
		name    string
		pricing config.PricingMode
		mutate  func(r *CreateOrderRequest)
		field   string
	}{
		{name: "valid server priced", pricing: config.PricingServer, mutate: func(r *CreateOrderRequest) {}},
		{name: "missing user", pricing: config.PricingServer, mutate: func(r *CreateOrderRequest) { r.UserID = 0 }, field: "user_id"},
		{name: "blank address", pricing: config.PricingServer, mutate: func(r *CreateOrderRequest) { r.Address = "  " }, field: "address"},
		{name: "missing payment method", pricing: config.PricingServer, mutate: func(r *CreateOrderRequest) { r.PaymentMethod = "" }, field: "payment_method"},
		{name: "no items", pricing: config.PricingServer, mutate: func(r *CreateOrderRequest) { r.Items = nil }, field: "items"},
		{name: "zero quantity", pricing: config.PricingServer, mutate: func(r *CreateOrderRequest) { r.Items[0].Quantity = 0 }, field: "items[0].quantity"},
		{name: "missing product", pricing: config.PricingServer, mutate: func(r *CreateOrderRequest) { r.Items[0].ProductID = 0 }, field: "items[0].product_id"},
		{name: "negative price ignored in server mode", pricing: config.PricingServer, mutate: func(r *CreateOrderRequest) { r.Items[0].Price = &negative }},
		{name: "caller mode requires item price", pricing: config.PricingCaller, mutate: func(r *CreateOrderRequest) { r.TotalAmount = &price }, field: "items[0].price"},
		{name: "caller mode rejects negative price", pricing: config.PricingCaller, mutate: func(r *CreateOrderRequest) {
			r.Items[0].Price = &negative
			r.TotalAmount = &price
		}, field: "items[0].price"},
		{name: "caller mode rejects sub-cent price", pricing: config.PricingCaller, mutate: func(r *CreateOrderRequest) {
			r.Items[0].Price = &subCent
			r.TotalAmount = &price
		}, field: "items[0].price"},
		{name: "caller mode accepts trailing zeros", pricing: config.PricingCaller, mutate: func(r *CreateOrderRequest) {
			r.Items[0].Price = &trailingZeros
			r.TotalAmount = &trailingZeros
		}},
		{name: "caller mode rejects sub-cent total", pricing: config.PricingCaller, mutate: func(r *CreateOrderRequest) {
			r.Items[0].Price = &price
			r.TotalAmount = &subCent
		}, field: "total_amount"},
		{name: "sub-cent price ignored in server mode", pricing: config.PricingServer, mutate: func(r *CreateOrderRequest) { r.Items[0].Price = &subCent }},
		{name: "caller mode requires total", pricing: config.PricingCaller, mutate: func(r *CreateOrderRequest) { r.Items[0].Price = &price }, field: "total_amount"},
		{name: "valid caller priced", pricing: config.PricingCaller, mutate: func(r *CreateOrderRequest) {
			r.Items[0].Price = &price
			r.TotalAmount = &price
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)

			err := req.Validate(tt.pricing)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}

			var verr *database.ValidationError
			if assert.ErrorAs(t, err, &verr) {
				assert.Equal(t, tt.field, verr.Field)
			}
		})
	}
}

func TestNewOrderStoreDefaultsToServerPricing(t *testing.T) {
	s := NewOrderStore(nil, "")
	assert.Equal(t, config.PricingServer, s.pricing)
}

func TestValidateAmount(t *testing.T) {
	for _, v := range []string{"0", "9.99", "10", "9.990", "12.5"} {
		assert.NoError(t, validateAmount("price", decimal.RequireFromString(v)), v)
	}
	for _, v := range []string{"-0.01", "9.999", "0.001"} {
		var verr *database.ValidationError
		if assert.ErrorAs(t, validateAmount("price", decimal.RequireFromString(v)), &verr, v) {
			assert.Equal(t, "price", verr.Field)
		}
	}
}

func TestUpdateItemRejectsSubCentPrice(t *testing.T) {
	s := NewOrderStore(nil, config.PricingServer)
	price := decimal.RequireFromString("9.999")

	_, err := s.UpdateItem(context.Background(), 1, 1, OrderItemPatch{PriceAtPurchase: &price})

	var verr *database.ValidationError
	if assert.ErrorAs(t, err, &verr) {
		assert.Equal(t, "price_at_purchase", verr.Field)
	}
}
