package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/invoice-form/internal/application/billing"
	"github.com/jhoicas/invoice-form/internal/domain/repository"
)

var _ billing.TxRunner = (*TxRunner)(nil)

// TxRunner emula una transacción: serializa los callbacks y, si fn falla,
// restaura el estado previo del repositorio. Solo protege las escrituras que
// pasan por RunInvoice.
type TxRunner struct {
	mu   sync.Mutex
	repo *InvoiceRepo
}

// NewTxRunner construye el runner sobre repo.
func NewTxRunner(repo *InvoiceRepo) *TxRunner {
	return &TxRunner{repo: repo}
}

// RunInvoice ejecuta fn con el repositorio; rollback si retorna error.
func (t *TxRunner) RunInvoice(_ context.Context, fn func(invoiceRepo repository.InvoiceRepository) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	invoices, seq := t.repo.snapshot()
	if err := fn(t.repo); err != nil {
		t.repo.restore(invoices, seq)
		return err
	}
	return nil
}
