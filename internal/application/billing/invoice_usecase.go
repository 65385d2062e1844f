package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/invoice-form/internal/application/dto"
	"github.com/jhoicas/invoice-form/internal/domain"
	"github.com/jhoicas/invoice-form/internal/domain/entity"
	"github.com/jhoicas/invoice-form/internal/domain/repository"
	"github.com/jhoicas/invoice-form/internal/domain/totals"
	"github.com/jhoicas/invoice-form/pkg/logger"
)

// InvoiceUseCase libro de facturas: alta, edición, consulta, listado y borrado.
type InvoiceUseCase struct {
	txRunner    TxRunner
	invoiceRepo repository.InvoiceRepository
	log         *logger.Logger
	now         func() time.Time
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(txRunner TxRunner, invoiceRepo repository.InvoiceRepository, log *logger.Logger) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:    txRunner,
		invoiceRepo: invoiceRepo,
		log:         log.Named("billing"),
		now:         time.Now,
	}
}

// Create guarda una factura nueva con sus líneas en una sola transacción.
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.SaveInvoiceRequest) (*dto.InvoiceResponse, error) {
	clientName, items, err := normalize(in)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	inv := &entity.Invoice{
		ID:           uuid.New().String(),
		ClientName:   clientName,
		TaxRate:      in.TaxRate,
		DiscountRate: in.DiscountRate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	inv.Items = attachItems(inv.ID, items)

	err = uc.txRunner.RunInvoice(ctx, func(repo repository.InvoiceRepository) error {
		if err := repo.Create(ctx, inv); err != nil {
			return err
		}
		return repo.ReplaceItems(ctx, inv.ID, inv.Items)
	})
	if err != nil {
		uc.log.Error().Err(err).Msg("crear factura")
		return nil, err
	}
	uc.log.Info().
		Str("invoice_id", inv.ID).
		Int64("number", inv.Number).
		Int("items", len(inv.Items)).
		Msg("factura creada")
	return toResponse(inv), nil
}

// Update reemplaza cliente, tasas y todas las líneas de una factura existente.
func (uc *InvoiceUseCase) Update(ctx context.Context, id string, in dto.SaveInvoiceRequest) (*dto.InvoiceResponse, error) {
	clientName, items, err := normalize(in)
	if err != nil {
		return nil, err
	}
	var inv *entity.Invoice
	err = uc.txRunner.RunInvoice(ctx, func(repo repository.InvoiceRepository) error {
		existing, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		existing.ClientName = clientName
		existing.TaxRate = in.TaxRate
		existing.DiscountRate = in.DiscountRate
		existing.UpdatedAt = uc.now()
		existing.Items = attachItems(existing.ID, items)
		if err := repo.Update(ctx, existing); err != nil {
			return err
		}
		if err := repo.ReplaceItems(ctx, existing.ID, existing.Items); err != nil {
			return err
		}
		inv = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("invoice_id", inv.ID).Int("items", len(inv.Items)).Msg("factura actualizada")
	return toResponse(inv), nil
}

// Find devuelve la entidad completa; ErrNotFound si no existe.
func (uc *InvoiceUseCase) Find(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener factura: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

// Get obtiene una factura por ID con su detalle y totales.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(inv), nil
}

// List devuelve una página de facturas, más recientes primero.
func (uc *InvoiceUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.InvoiceListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.invoiceRepo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("listar facturas: %w", err)
	}
	out := &dto.InvoiceListResponse{
		Items: make([]dto.InvoiceResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}
	for _, inv := range list {
		out.Items = append(out.Items, *toResponse(inv))
	}
	return out, nil
}

// Delete elimina la factura y sus líneas.
func (uc *InvoiceUseCase) Delete(ctx context.Context, id string) error {
	err := uc.txRunner.RunInvoice(ctx, func(repo repository.InvoiceRepository) error {
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("invoice_id", id).Msg("factura eliminada")
	return nil
}

// normalize valida la entrada en el límite de envío del formulario. Las líneas
// sin nombre se descartan; la cantidad debe ser un entero positivo y el precio
// no negativo.
func normalize(in dto.SaveInvoiceRequest) (string, []entity.InvoiceItem, error) {
	clientName := cleanText(in.ClientName)
	if clientName == "" {
		return "", nil, fmt.Errorf("%w: client_name es requerido", domain.ErrInvalidInput)
	}
	if !totals.InRange(in.TaxRate) || !totals.InRange(in.DiscountRate) {
		return "", nil, fmt.Errorf("%w: tasa fuera de rango", domain.ErrInvalidInput)
	}
	items := make([]entity.InvoiceItem, 0, len(in.Items))
	for i, it := range in.Items {
		name := cleanText(it.Name)
		if name == "" {
			continue
		}
		if !it.Quantity.IsInteger() || !it.Quantity.IsPositive() {
			return "", nil, fmt.Errorf("%w: línea %d: la cantidad debe ser un entero positivo", domain.ErrInvalidInput, i+1)
		}
		if !totals.InRange(it.Quantity) || !totals.InRange(it.Price) {
			return "", nil, fmt.Errorf("%w: línea %d: valor fuera de rango", domain.ErrInvalidInput, i+1)
		}
		if it.Price.IsNegative() {
			return "", nil, fmt.Errorf("%w: línea %d: el precio no puede ser negativo", domain.ErrInvalidInput, i+1)
		}
		items = append(items, entity.InvoiceItem{Name: name, Quantity: it.Quantity, Price: it.Price})
	}
	return clientName, items, nil
}

// cleanText recorta espacios y normaliza a NFC (los navegadores pueden enviar
// formas descompuestas del mismo texto).
func cleanText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func attachItems(invoiceID string, items []entity.InvoiceItem) []entity.InvoiceItem {
	out := make([]entity.InvoiceItem, len(items))
	for i, it := range items {
		it.ID = uuid.New().String()
		it.InvoiceID = invoiceID
		it.Position = i
		out[i] = it
	}
	return out
}

func toResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	snap := inv.Totals()
	resp := &dto.InvoiceResponse{
		ID:           inv.ID,
		Number:       inv.Number,
		ClientName:   inv.ClientName,
		Date:         inv.CreatedAt.Format("2006-01-02"),
		TaxRate:      inv.TaxRate,
		DiscountRate: inv.DiscountRate,
		Items:        make([]dto.InvoiceItemResponse, 0, len(inv.Items)),
		Totals:       snap.View(),
		CreatedAt:    inv.CreatedAt,
		UpdatedAt:    inv.UpdatedAt,
	}
	for i, it := range inv.Items {
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			ID:       it.ID,
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
			Subtotal: totals.Format(snap.LineSubtotals[i]),
		})
	}
	return resp
}
