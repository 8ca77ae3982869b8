package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/casaelena/colibrisync/internal/domain"
)

// CheckoutUC registers storefront sales in the Colibri ledger and verifies
// stock there before a checkout is allowed to proceed.
type CheckoutUC struct {
	Orders domain.OrderRepo
	Ledger domain.SalesLedger
}

// VerifyStock checks every line item against the ledger. The first item with
// insufficient stock fails the whole checkout; a ledger error reads as zero
// stock rather than letting the sale through on a guess.
func (uc *CheckoutUC) VerifyStock(ctx context.Context, items []domain.OrderItem) error {
	for _, it := range items {
		available, err := uc.Ledger.CheckStock(ctx, it.SKU)
		if err != nil {
			log.Warn().Err(err).Str("sku", it.SKU).Msg("stock check failed, assuming none")
			available = 0
		}
		if available < it.Qty {
			return fmt.Errorf("insufficient stock for %s (%s): have %d, want %d", it.Title, it.SKU, available, it.Qty)
		}
	}
	return nil
}

// RegisterSale maps an order to the ledger's sale payload, posts it, and
// records the HTTP outcome as an annotation on the order. The annotation is
// written whether or not the ledger accepted the sale.
func (uc *CheckoutUC) RegisterSale(ctx context.Context, orderID uuid.UUID) error {
	order, err := uc.Orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}

	sale := domain.SalePayload{
		Name:        order.Name,
		Phone:       order.Phone,
		Email:       order.Email,
		TaxID:       order.TaxID,
		PaymentType: paymentType(order.PaymentMethod),
		TotalPaid:   order.Total,
	}
	for _, it := range order.Items {
		sale.Items = append(sale.Items, domain.SaleItem{SKU: it.SKU, Price: it.UnitPrice, Qty: it.Qty})
	}

	status, body, err := uc.Ledger.CreateSale(ctx, sale)
	if err != nil {
		note := "Colibri connection failed: " + err.Error()
		if nerr := uc.Orders.AddNote(ctx, orderID, note); nerr != nil {
			log.Error().Err(nerr).Str("order", orderID.String()).Msg("order note failed")
		}
		return err
	}

	var note string
	if status == 200 || status == 201 {
		note = fmt.Sprintf("Sale registered in Colibri. Response: %s", body)
	} else {
		note = fmt.Sprintf("Colibri rejected sale. Status: %d Response: %s", status, body)
	}
	if err := uc.Orders.AddNote(ctx, orderID, note); err != nil {
		log.Error().Err(err).Str("order", orderID.String()).Msg("order note failed")
	}
	log.Info().Str("order", orderID.String()).Int("status", status).Msg("sale registered")
	return nil
}

// paymentType maps storefront payment methods onto the ledger's single-letter
// codes: E efectivo, T tarjeta.
func paymentType(method string) string {
	switch method {
	case "card", "stripe", "mercadopago":
		return "T"
	default:
		return "E"
	}
}
