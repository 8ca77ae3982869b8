package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/casaelena/colibrisync/internal/domain"
)

// GiftCardUC mirrors storefront gift cards into Colibri vouchers.
type GiftCardUC struct {
	Orders domain.OrderRepo
	Ledger domain.SalesLedger

	// Amounts maps a gift-card amount to the Colibri voucher catalog id
	// (vacId); FallbackID covers amounts missing from the table.
	Amounts    map[int]int
	FallbackID int
}

func (uc *GiftCardUC) voucherCatalogID(amount float64) int {
	if id, ok := uc.Amounts[int(amount)]; ok {
		return id
	}
	return uc.FallbackID
}

// OnOrderProcessing creates a voucher for every gift-card line item of an
// order. A ledger failure for one item is logged and does not abort order
// processing or the remaining items.
func (uc *GiftCardUC) OnOrderProcessing(ctx context.Context, orderID uuid.UUID) error {
	order, err := uc.Orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}

	for _, it := range order.Items {
		if !it.IsGiftCard {
			continue
		}
		amount := it.UnitPrice * float64(it.Qty)
		payload := domain.VoucherPayload{
			Correlative: it.GiftCardCode,
			Amount:      amount,
			CatalogID:   uc.voucherCatalogID(amount),
			State:       domain.VoucherActive,
			Origin:      "WEB",
			User:        "colibrisync",
			FirstName:   order.Name,
			WhatsApp:    order.Phone,
			Email:       order.Email,
			TaxID:       order.TaxID,
		}
		if err := uc.Ledger.CreateVoucher(ctx, payload); err != nil {
			log.Error().Err(err).Str("order", orderID.String()).Float64("amount", amount).Msg("voucher creation failed")
			continue
		}
		log.Info().Str("order", orderID.String()).Str("code", it.GiftCardCode).Int("vac_id", payload.CatalogID).Msg("voucher created")
	}
	return nil
}

// IsActive reports whether a voucher exists in Colibri in state "A".
func (uc *GiftCardUC) IsActive(ctx context.Context, code string) bool {
	v, err := uc.Ledger.Voucher(ctx, code)
	if err != nil {
		log.Warn().Err(err).Str("code", code).Msg("voucher lookup failed")
		return false
	}
	return v.State == domain.VoucherActive
}

// Invalidate marks a voucher inactive after it is redeemed on the web.
func (uc *GiftCardUC) Invalidate(ctx context.Context, code, reason string) error {
	if reason == "" {
		reason = "redeemed on web"
	}
	return uc.Ledger.UpdateVoucherStatus(ctx, code, domain.VoucherInactive, reason)
}

// Resync pushes a voucher's state from its remaining balance: positive
// balance keeps it active, zero disables it.
func (uc *GiftCardUC) Resync(ctx context.Context, code string, balance float64) error {
	state := domain.VoucherInactive
	if balance > 0 {
		state = domain.VoucherActive
	}
	return uc.Ledger.UpdateVoucherStatus(ctx, code, state, "manual resync")
}
