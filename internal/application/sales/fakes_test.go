package sales

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	salesdomain "github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/domain/shared"
)

// memStore is a shared in-memory backing store for the fake repositories.
// Repositories hand out clones so callers never alias live store state,
// mirroring how rows come back from a real database.
type memStore struct {
	mu       sync.Mutex
	products map[uuid.UUID]*catalog.Product
	sales    map[uuid.UUID]*salesdomain.Sale
	credits  map[uuid.UUID]*salesdomain.Credit
	deposits []*salesdomain.Deposit
	gateLogs []*salesdomain.GateLog
}

func newMemStore() *memStore {
	return &memStore{
		products: make(map[uuid.UUID]*catalog.Product),
		sales:    make(map[uuid.UUID]*salesdomain.Sale),
		credits:  make(map[uuid.UUID]*salesdomain.Credit),
	}
}

func cloneProduct(p *catalog.Product) *catalog.Product {
	c := *p
	c.ClearDomainEvents()
	return &c
}

func cloneSale(s *salesdomain.Sale) *salesdomain.Sale {
	c := *s
	c.Lines = append([]salesdomain.SaleLine(nil), s.Lines...)
	c.ClearDomainEvents()
	return &c
}

func cloneCredit(cr *salesdomain.Credit) *salesdomain.Credit {
	c := *cr
	c.Payments = append([]salesdomain.CreditPayment(nil), cr.Payments...)
	c.ClearDomainEvents()
	return &c
}

func (st *memStore) snapshot() func() {
	products := make(map[uuid.UUID]*catalog.Product, len(st.products))
	for id, p := range st.products {
		products[id] = p
	}
	sales := make(map[uuid.UUID]*salesdomain.Sale, len(st.sales))
	for id, s := range st.sales {
		sales[id] = s
	}
	credits := make(map[uuid.UUID]*salesdomain.Credit, len(st.credits))
	for id, c := range st.credits {
		credits[id] = c
	}
	logs := append([]*salesdomain.GateLog(nil), st.gateLogs...)
	deposits := append([]*salesdomain.Deposit(nil), st.deposits...)
	return func() {
		st.products = products
		st.sales = sales
		st.credits = credits
		st.gateLogs = logs
		st.deposits = deposits
	}
}

// fakeScope serializes transactions with the store mutex and rolls the
// store back when the unit of work fails. Holding the mutex for the whole
// unit gives the same observable ordering as row locks held to commit.
type fakeScope struct {
	store *memStore
}

func (s *fakeScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	rollback := s.store.snapshot()
	if err := fn(&txRepos{store: s.store}); err != nil {
		rollback()
		return err
	}
	return nil
}

// txRepos exposes repositories bound to the store with the scope mutex
// already held
type txRepos struct {
	store *memStore
}

func (r *txRepos) ProductRepo() catalog.ProductRepository     { return &memProductRepo{store: r.store} }
func (r *txRepos) SaleRepo() salesdomain.SaleRepository       { return &memSaleRepo{store: r.store} }
func (r *txRepos) CreditRepo() salesdomain.CreditRepository   { return &memCreditRepo{store: r.store} }
func (r *txRepos) GateLogRepo() salesdomain.GateLogRepository { return &memGateLogRepo{store: r.store} }

// locked variants take the store mutex per call, for reads outside a scope

type memProductRepo struct {
	store  *memStore
	locked bool
}

func (r *memProductRepo) lock() func() {
	if !r.locked {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *memProductRepo) Create(_ context.Context, p *catalog.Product) error {
	defer r.lock()()
	r.store.products[p.ID] = cloneProduct(p)
	return nil
}

func (r *memProductRepo) Update(_ context.Context, p *catalog.Product) error {
	defer r.lock()()
	if _, ok := r.store.products[p.ID]; !ok {
		return shared.ErrNotFound
	}
	r.store.products[p.ID] = cloneProduct(p)
	return nil
}

func (r *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	defer r.lock()()
	p, ok := r.store.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return cloneProduct(p), nil
}

func (r *memProductRepo) FindBySKU(_ context.Context, sku string) (*catalog.Product, error) {
	defer r.lock()()
	for _, p := range r.store.products {
		if strings.EqualFold(p.SKU, sku) {
			return cloneProduct(p), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) FindByName(_ context.Context, name string) (*catalog.Product, error) {
	defer r.lock()()
	for _, p := range r.store.products {
		if strings.EqualFold(p.Name, name) {
			return cloneProduct(p), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) Resolve(ctx context.Context, ref catalog.ProductRef) (*catalog.Product, error) {
	switch ref.Kind {
	case catalog.RefByID:
		return r.FindByID(ctx, ref.ID)
	case catalog.RefByName:
		return r.FindByName(ctx, ref.Name)
	case catalog.RefBySKU:
		return r.FindBySKU(ctx, ref.SKU)
	}
	return nil, shared.ErrInvalidInput
}

func (r *memProductRepo) FindForUpdate(_ context.Context, ids []uuid.UUID) ([]*catalog.Product, error) {
	defer r.lock()()
	sorted := append([]uuid.UUID(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].String() < sorted[j].String() })

	out := make([]*catalog.Product, 0, len(sorted))
	for _, id := range sorted {
		p, ok := r.store.products[id]
		if !ok {
			continue
		}
		out = append(out, cloneProduct(p))
	}
	return out, nil
}

func (r *memProductRepo) List(_ context.Context, filter shared.Filter) (shared.Paginated[*catalog.Product], error) {
	defer r.lock()()
	items := make([]*catalog.Product, 0, len(r.store.products))
	for _, p := range r.store.products {
		items = append(items, cloneProduct(p))
	}
	return shared.NewPaginated(items, int64(len(items)), filter.Page, filter.PageSize), nil
}

func (r *memProductRepo) FindBelowThreshold(_ context.Context) ([]*catalog.Product, error) {
	defer r.lock()()
	var out []*catalog.Product
	for _, p := range r.store.products {
		if p.IsBelowThreshold() {
			out = append(out, cloneProduct(p))
		}
	}
	return out, nil
}

func (r *memProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	defer r.lock()()
	delete(r.store.products, id)
	return nil
}

type memSaleRepo struct {
	store  *memStore
	locked bool
}

func (r *memSaleRepo) lock() func() {
	if !r.locked {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *memSaleRepo) Create(_ context.Context, s *salesdomain.Sale) error {
	defer r.lock()()
	for _, existing := range r.store.sales {
		if existing.InvoiceNumber == s.InvoiceNumber {
			return shared.ErrAlreadyExists
		}
	}
	r.store.sales[s.ID] = cloneSale(s)
	return nil
}

func (r *memSaleRepo) Update(_ context.Context, s *salesdomain.Sale) error {
	defer r.lock()()
	if _, ok := r.store.sales[s.ID]; !ok {
		return shared.ErrNotFound
	}
	r.store.sales[s.ID] = cloneSale(s)
	return nil
}

func (r *memSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*salesdomain.Sale, error) {
	defer r.lock()()
	s, ok := r.store.sales[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return cloneSale(s), nil
}

func (r *memSaleRepo) FindByInvoiceNumber(_ context.Context, invoiceNumber string) (*salesdomain.Sale, error) {
	defer r.lock()()
	for _, s := range r.store.sales {
		if s.InvoiceNumber == invoiceNumber {
			return cloneSale(s), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memSaleRepo) DeleteLines(_ context.Context, saleID uuid.UUID) error {
	defer r.lock()()
	if s, ok := r.store.sales[saleID]; ok {
		c := cloneSale(s)
		c.Lines = nil
		r.store.sales[saleID] = c
	}
	return nil
}

func (r *memSaleRepo) List(_ context.Context, filter shared.Filter) (shared.Paginated[*salesdomain.Sale], error) {
	defer r.lock()()
	items := make([]*salesdomain.Sale, 0, len(r.store.sales))
	for _, s := range r.store.sales {
		items = append(items, cloneSale(s))
	}
	return shared.NewPaginated(items, int64(len(items)), filter.Page, filter.PageSize), nil
}

type memCreditRepo struct {
	store  *memStore
	locked bool
}

func (r *memCreditRepo) lock() func() {
	if !r.locked {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *memCreditRepo) Create(_ context.Context, c *salesdomain.Credit) error {
	defer r.lock()()
	r.store.credits[c.ID] = cloneCredit(c)
	return nil
}

func (r *memCreditRepo) Update(_ context.Context, c *salesdomain.Credit) error {
	defer r.lock()()
	if _, ok := r.store.credits[c.ID]; !ok {
		return shared.ErrNotFound
	}
	r.store.credits[c.ID] = cloneCredit(c)
	return nil
}

func (r *memCreditRepo) FindByID(_ context.Context, id uuid.UUID) (*salesdomain.Credit, error) {
	defer r.lock()()
	c, ok := r.store.credits[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return cloneCredit(c), nil
}

func (r *memCreditRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*salesdomain.Credit, error) {
	return r.FindByID(ctx, id)
}

func (r *memCreditRepo) FindBySaleID(_ context.Context, saleID uuid.UUID) (*salesdomain.Credit, error) {
	defer r.lock()()
	for _, c := range r.store.credits {
		if c.SaleID == saleID {
			return cloneCredit(c), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memCreditRepo) List(_ context.Context, filter shared.Filter) (shared.Paginated[*salesdomain.Credit], error) {
	defer r.lock()()
	status, _ := filter.Filters["status"].(string)
	items := make([]*salesdomain.Credit, 0, len(r.store.credits))
	for _, c := range r.store.credits {
		if status != "" && string(c.Status) != status {
			continue
		}
		items = append(items, cloneCredit(c))
	}
	return shared.NewPaginated(items, int64(len(items)), filter.Page, filter.PageSize), nil
}

type memDepositRepo struct {
	store  *memStore
	locked bool
}

func (r *memDepositRepo) lock() func() {
	if !r.locked {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *memDepositRepo) Create(_ context.Context, d *salesdomain.Deposit) error {
	defer r.lock()()
	r.store.deposits = append(r.store.deposits, d)
	return nil
}

func (r *memDepositRepo) List(_ context.Context, filter shared.Filter) (shared.Paginated[*salesdomain.Deposit], error) {
	defer r.lock()()
	items := append([]*salesdomain.Deposit(nil), r.store.deposits...)
	return shared.NewPaginated(items, int64(len(items)), filter.Page, filter.PageSize), nil
}

type memGateLogRepo struct {
	store  *memStore
	locked bool
}

func (r *memGateLogRepo) lock() func() {
	if !r.locked {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *memGateLogRepo) Append(_ context.Context, log *salesdomain.GateLog) error {
	defer r.lock()()
	r.store.gateLogs = append(r.store.gateLogs, log)
	return nil
}

func (r *memGateLogRepo) Latest(_ context.Context) (*salesdomain.GateLog, error) {
	defer r.lock()()
	if len(r.store.gateLogs) == 0 {
		return nil, shared.ErrNotFound
	}
	return r.store.gateLogs[len(r.store.gateLogs)-1], nil
}

func (r *memGateLogRepo) History(_ context.Context, filter shared.Filter) (shared.Paginated[*salesdomain.GateLog], error) {
	defer r.lock()()
	items := make([]*salesdomain.GateLog, 0, len(r.store.gateLogs))
	for i := len(r.store.gateLogs) - 1; i >= 0; i-- {
		items = append(items, r.store.gateLogs[i])
	}
	return shared.NewPaginated(items, int64(len(items)), filter.Page, filter.PageSize), nil
}

// fakeGateCache is a mutex-guarded gate flag
type fakeGateCache struct {
	mu    sync.RWMutex
	state salesdomain.GateState
}

func newFakeGateCache(state salesdomain.GateState) *fakeGateCache {
	return &fakeGateCache{state: state}
}

func (c *fakeGateCache) Current() salesdomain.GateState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *fakeGateCache) Set(state salesdomain.GateState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
}

// capturingPublisher records published events and optionally forwards them
// to handlers synchronously
type capturingPublisher struct {
	mu       sync.Mutex
	events   []shared.DomainEvent
	handlers []shared.EventHandler
}

func (p *capturingPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	p.events = append(p.events, events...)
	handlers := append([]shared.EventHandler(nil), p.handlers...)
	p.mu.Unlock()

	for _, event := range events {
		for _, h := range handlers {
			for _, typ := range h.EventTypes() {
				if typ == event.EventType() {
					_ = h.Handle(ctx, event)
				}
			}
		}
	}
	return nil
}

func (p *capturingPublisher) eventsOfType(eventType string) []shared.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []shared.DomainEvent
	for _, e := range p.events {
		if e.EventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}
