package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/hospitalia/farmacia-api/internal/application/dto"
	"github.com/hospitalia/farmacia-api/internal/domain"
	"github.com/hospitalia/farmacia-api/internal/domain/entity"
	dominv "github.com/hospitalia/farmacia-api/internal/domain/inventory"
	"github.com/hospitalia/farmacia-api/internal/domain/repository"
	"github.com/hospitalia/farmacia-api/pkg/logger"
)

// Config numeración y reintentos de la liquidación.
type Config struct {
	BillPrefix    string
	NumberRetries int // reintentos acotados ante colisión de número de factura
}

// SettleSaleUseCase liquida una venta multi-línea: asigna lotes FEFO, descuenta
// stock vía el servicio de mutación y persiste la factura, todo en una sola
// transacción. Ninguna línea confirma si alguna falla.
type SettleSaleUseCase struct {
	txRunner     SettlementTxRunner
	medicineRepo repository.MedicineRepository
	mutator      StockMutator
	cfg          Config
	log          *logger.Logger
}

// NewSettleSaleUseCase construye el caso de uso.
func NewSettleSaleUseCase(
	txRunner SettlementTxRunner,
	medicineRepo repository.MedicineRepository,
	mutator StockMutator,
	cfg Config,
	log *logger.Logger,
) *SettleSaleUseCase {
	if cfg.BillPrefix == "" {
		cfg.BillPrefix = "PH"
	}
	if cfg.NumberRetries <= 0 {
		cfg.NumberRetries = 3
	}
	return &SettleSaleUseCase{
		txRunner:     txRunner,
		medicineRepo: medicineRepo,
		mutator:      mutator,
		cfg:          cfg,
		log:          log,
	}
}

// SettleSale valida la venta, resuelve los medicamentos (solo lectura, fuera de
// la transacción) y ejecuta la liquidación. Ante colisión del número de factura
// reintenta la transacción completa con un número fresco, acotado.
func (uc *SettleSaleUseCase) SettleSale(ctx context.Context, in dto.SettleSaleRequest) (*dto.BillResponse, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.OrderDiscount.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	for _, line := range in.Lines {
		if line.MedicineID == "" || line.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		if line.UnitPrice.LessThan(decimal.Zero) || line.DiscountPct.LessThan(decimal.Zero) || line.TaxPct.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}

	// Validar que los medicamentos existan (lectura, sin bloquear nada)
	for _, line := range in.Lines {
		med, err := uc.medicineRepo.GetByID(line.MedicineID)
		if err != nil {
			return nil, err
		}
		if med == nil {
			return nil, domain.ErrNotFound
		}
	}

	var resp *dto.BillResponse
	var err error
	for attempt := 0; attempt < uc.cfg.NumberRetries; attempt++ {
		// El hint del caller solo vale el primer intento; los reintentos
		// siempre toman un número fresco del consecutivo.
		hint := ""
		if attempt == 0 {
			hint = in.BillNumberHint
		}
		resp, err = uc.settleOnce(ctx, in, hint)
		if err == nil || !errors.Is(err, domain.ErrDuplicateBillNumber) {
			break
		}
		uc.log.Warn().Int("attempt", attempt+1).Msg("colisión de número de factura, reintentando")
	}
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("bill_number", resp.BillNumber).
		Int("lines", len(resp.Lines)).
		Str("total", resp.TotalAmount.String()).
		Msg("venta liquidada")
	return resp, nil
}

// settleOnce ejecuta un intento de liquidación como una transacción.
func (uc *SettleSaleUseCase) settleOnce(ctx context.Context, in dto.SettleSaleRequest, numberHint string) (*dto.BillResponse, error) {
	now := time.Now()
	var bill *entity.Bill
	var lines []*entity.BillLine

	err := uc.txRunner.RunSettlement(ctx, func(
		batchRepo repository.BatchRepository,
		movRepo repository.MovementRepository,
		billRepo repository.BillRepository,
	) error {
		billNumber := numberHint
		if billNumber == "" {
			seq, err := billRepo.NextBillNumber(uc.cfg.BillPrefix, now.Year())
			if err != nil {
				return err
			}
			billNumber = fmt.Sprintf("%s-%d-%04d", uc.cfg.BillPrefix, now.Year(), seq)
		}

		lines = nil
		var subtotal, taxTotal decimal.Decimal
		billID := uuid.New().String()

		for _, lineIn := range in.Lines {
			plan, err := uc.planLine(batchRepo, lineIn, now)
			if err != nil {
				return err
			}
			for _, alloc := range plan {
				if _, err := uc.mutator.DeductForSaleInTx(
					batchRepo, movRepo,
					alloc.Batch.ID, alloc.Quantity,
					in.PerformedBy, billNumber,
					now,
				); err != nil {
					return err
				}

				unitPrice := lineIn.UnitPrice
				if unitPrice.IsZero() {
					unitPrice = alloc.Batch.SellingPrice
				}
				qty := decimal.NewFromInt(alloc.Quantity)
				net := qty.Mul(unitPrice).Mul(decimal.NewFromInt(1).Sub(pctRate(lineIn.DiscountPct)))
				tax := net.Mul(pctRate(lineIn.TaxPct))
				subtotal = subtotal.Add(net)
				taxTotal = taxTotal.Add(tax)

				lines = append(lines, &entity.BillLine{
					ID:          uuid.New().String(),
					BillID:      billID,
					MedicineID:  lineIn.MedicineID,
					BatchID:     alloc.Batch.ID,
					BatchNumber: alloc.Batch.BatchNumber,
					Quantity:    alloc.Quantity,
					UnitPrice:   unitPrice,
					DiscountPct: lineIn.DiscountPct,
					TaxPct:      lineIn.TaxPct,
					Amount:      net.Add(tax),
				})
			}
		}

		// Total a pagar: piso en 0 y techo al peso entero; las líneas conservan
		// su precisión fraccionaria.
		total := subtotal.Add(taxTotal).Sub(in.OrderDiscount)
		if total.LessThan(decimal.Zero) {
			total = decimal.Zero
		}
		bill = &entity.Bill{
			ID:            billID,
			BillNumber:    billNumber,
			BuyerRef:      in.BuyerRef,
			PaymentMethod: in.PaymentMethod,
			Subtotal:      subtotal,
			Discount:      in.OrderDiscount,
			TaxTotal:      taxTotal,
			TotalAmount:   total.Ceil(),
			CreatedBy:     in.PerformedBy,
			CreatedAt:     now,
		}
		if err := billRepo.Create(bill); err != nil {
			return err
		}
		for _, l := range lines {
			if err := billRepo.CreateLine(l); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toBillResponse(bill, lines), nil
}

// planLine arma el plan de lotes para una línea. Con BatchID explícito (lote
// elegido a mano en la UI) se valida la elegibilidad del lote y se pasa por el
// mismo camino de mutación; sin BatchID se asigna por FEFO sobre los lotes
// elegibles bloqueados.
func (uc *SettleSaleUseCase) planLine(
	batchRepo repository.BatchRepository,
	line dto.SaleLineRequest,
	now time.Time,
) ([]dominv.Allocation, error) {
	if line.BatchID != "" {
		batch, err := batchRepo.GetForUpdate(line.BatchID)
		if err != nil {
			return nil, err
		}
		if batch == nil {
			return nil, domain.ErrNotFound
		}
		if batch.MedicineID != line.MedicineID {
			return nil, domain.ErrInvalidInput
		}
		if !batch.IsActive {
			return nil, domain.ErrBatchInactive
		}
		if batch.IsExpired || !batch.ExpiryDate.After(now) {
			return nil, domain.ErrBatchExpired
		}
		if batch.CurrentStock < line.Quantity {
			return nil, &dominv.InsufficientStockError{
				MedicineID: line.MedicineID,
				Requested:  line.Quantity,
				Available:  batch.CurrentStock,
			}
		}
		return []dominv.Allocation{{Batch: batch, Quantity: line.Quantity}}, nil
	}

	batches, err := batchRepo.ListEligibleForUpdate(line.MedicineID, now)
	if err != nil {
		return nil, err
	}
	return dominv.Allocate(line.MedicineID, line.Quantity, batches, now)
}

// pctRate normaliza un porcentaje: 19 -> 0.19; 0.19 se toma tal cual.
func pctRate(p decimal.Decimal) decimal.Decimal {
	if p.GreaterThan(decimal.NewFromInt(1)) {
		return p.Div(decimal.NewFromInt(100))
	}
	return p
}

func toBillResponse(bill *entity.Bill, lines []*entity.BillLine) *dto.BillResponse {
	resp := &dto.BillResponse{
		BillNumber:    bill.BillNumber,
		BuyerRef:      bill.BuyerRef,
		PaymentMethod: bill.PaymentMethod,
		Subtotal:      bill.Subtotal,
		Discount:      bill.Discount,
		TaxTotal:      bill.TaxTotal,
		TotalAmount:   bill.TotalAmount,
		Lines:         make([]dto.BillLineResponse, 0, len(lines)),
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.BillLineResponse{
			MedicineID:  l.MedicineID,
			BatchID:     l.BatchID,
			BatchNumber: l.BatchNumber,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			DiscountPct: l.DiscountPct,
			TaxPct:      l.TaxPct,
			Amount:      l.Amount,
		})
	}
	return resp
}

// GetBill obtiene una factura liquidada por número, con sus líneas.
func (uc *SettleSaleUseCase) GetBill(ctx context.Context, billNumber string) (*dto.BillResponse, error) {
	var bill *entity.Bill
	var lines []*entity.BillLine
	err := uc.txRunner.RunSettlement(ctx, func(
		_ repository.BatchRepository,
		_ repository.MovementRepository,
		billRepo repository.BillRepository,
	) error {
		var err error
		bill, err = billRepo.GetByNumber(billNumber)
		if err != nil {
			return err
		}
		if bill == nil {
			return domain.ErrNotFound
		}
		lines, err = billRepo.GetLines(bill.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toBillResponse(bill, lines), nil
}
