// internal/application/usecase/fakes_test.go
package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	cartdom "voltmart/internal/domain/cart"
	orderdom "voltmart/internal/domain/order"
	productdom "voltmart/internal/domain/product"
	userdom "voltmart/internal/domain/user"
)

// fixedClock ticks only when advanced by the test.
type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFixedClock() *fixedClock {
	return &fixedClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// seqIDs yields "id-1", "id-2", ...
func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// ----------------------------
// fake cart repository
// ----------------------------

// fakeCartRepo mirrors the Postgres adapter's semantics in memory: partial
// uniqueness on user/session owner, coalescing upsert on
// (cartId, productId, attributesKey), no-op deletes.
type fakeCartRepo struct {
	mu    sync.Mutex
	carts map[string]*cartdom.Cart
	items map[string]*cartdom.Item

	failCreate error // next Create returns this once
	failDelete error

	// beforeReassign runs once at the top of ReassignToUser, letting tests
	// simulate a competing cart appearing mid-merge.
	beforeReassign func()
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{
		carts: map[string]*cartdom.Cart{},
		items: map[string]*cartdom.Item{},
	}
}

func (r *fakeCartRepo) GetByUserID(ctx context.Context, userID string) (*cartdom.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.carts {
		if c.UserID == userID && userID != "" {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCartRepo) GetBySessionID(ctx context.Context, sessionID string) (*cartdom.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.carts {
		if c.SessionID == sessionID && sessionID != "" {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCartRepo) Create(ctx context.Context, c *cartdom.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate != nil {
		err := r.failCreate
		r.failCreate = nil
		return err
	}
	for _, existing := range r.carts {
		if (c.UserID != "" && existing.UserID == c.UserID) ||
			(c.SessionID != "" && existing.SessionID == c.SessionID) {
			return cartdom.ErrAlreadyExists
		}
	}
	cp := *c
	r.carts[c.ID] = &cp
	return nil
}

func (r *fakeCartRepo) Delete(ctx context.Context, cartID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failDelete != nil {
		err := r.failDelete
		r.failDelete = nil
		return err
	}
	delete(r.carts, cartID)
	for id, it := range r.items {
		if it.CartID == cartID {
			delete(r.items, id)
		}
	}
	return nil
}

func (r *fakeCartRepo) ReassignToUser(ctx context.Context, cartID, userID string) error {
	if hook := r.beforeReassign; hook != nil {
		r.beforeReassign = nil
		hook()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[cartID]
	if !ok {
		return cartdom.ErrNotFound
	}
	for _, existing := range r.carts {
		if existing.ID != cartID && existing.UserID == userID {
			return cartdom.ErrAlreadyExists
		}
	}
	c.UserID = userID
	c.SessionID = ""
	return nil
}

func (r *fakeCartRepo) UpsertItem(ctx context.Context, it *cartdom.Item) (*cartdom.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := it.Key()
	for _, existing := range r.items {
		if existing.CartID == it.CartID && existing.ProductID == it.ProductID && existing.Key() == key {
			existing.Quantity += it.Quantity
			existing.UpdatedAt = it.UpdatedAt
			cp := *existing
			return &cp, nil
		}
	}
	cp := *it
	r.items[it.ID] = &cp
	out := cp
	return &out, nil
}

func (r *fakeCartRepo) GetItem(ctx context.Context, itemID string) (*cartdom.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[itemID]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (r *fakeCartRepo) SetItemQuantity(ctx context.Context, itemID string, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[itemID]
	if !ok {
		return cartdom.ErrNotFound
	}
	it.Quantity = qty
	return nil
}

func (r *fakeCartRepo) DeleteItem(ctx context.Context, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, itemID)
	return nil
}

func (r *fakeCartRepo) DeleteItems(ctx context.Context, cartID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, it := range r.items {
		if it.CartID == cartID {
			delete(r.items, id)
		}
	}
	return nil
}

func (r *fakeCartRepo) ListItems(ctx context.Context, cartID string) ([]cartdom.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []cartdom.Item
	for _, it := range r.items {
		if it.CartID == cartID {
			out = append(out, *it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeCartRepo) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// ----------------------------
// fake product repository
// ----------------------------

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]*productdom.Product
}

func newFakeProductRepo(products ...*productdom.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: map[string]*productdom.Product{}}
	for _, p := range products {
		cp := *p
		r.products[p.ID] = &cp
	}
	return r
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id string) (*productdom.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, productdom.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) List(ctx context.Context, filter productdom.Filter, s productdom.Sort, page productdom.Page) (productdom.PageResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []productdom.Product
	for _, p := range r.products {
		if filter.ActiveOnly && !p.Active {
			continue
		}
		items = append(items, *p)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return productdom.PageResult{
		Items:      items,
		TotalCount: len(items),
		TotalPages: 1,
		Page:       1,
		PerPage:    len(items),
	}, nil
}

func (r *fakeProductRepo) Create(ctx context.Context, p *productdom.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.products {
		if existing.SKU == p.SKU {
			return productdom.ErrDuplicateSKU
		}
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Update(ctx context.Context, id string, patch productdom.Patch) (*productdom.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, productdom.ErrNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.PriceCents != nil {
		p.PriceCents = *patch.PriceCents
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.Active != nil {
		p.Active = *patch.Active
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) DecrementStock(ctx context.Context, id string, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return productdom.ErrNotFound
	}
	if p.Stock < qty {
		return productdom.ErrOutOfStock
	}
	p.Stock -= qty
	return nil
}

// ----------------------------
// fake order repository
// ----------------------------

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*orderdom.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[string]*orderdom.Order{}}
}

func (r *fakeOrderRepo) Create(ctx context.Context, o *orderdom.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id string) (*orderdom.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, orderdom.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) List(ctx context.Context, filter orderdom.Filter, page orderdom.Page) (orderdom.PageResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []orderdom.Order
	for _, o := range r.orders {
		if filter.UserID != "" && o.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		items = append(items, *o)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return orderdom.PageResult{
		Items:      items,
		TotalCount: len(items),
		TotalPages: 1,
		Page:       1,
		PerPage:    len(items),
	}, nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, id string, status orderdom.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return orderdom.ErrNotFound
	}
	o.Status = status
	return nil
}

// ----------------------------
// fake user repository
// ----------------------------

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*userdom.User // keyed by FirebaseUID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*userdom.User{}}
}

func (r *fakeUserRepo) GetByFirebaseUID(ctx context.Context, uid string) (*userdom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[uid]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*userdom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, userdom.ErrNotFound
}

func (r *fakeUserRepo) Upsert(ctx context.Context, u *userdom.User) (*userdom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.users[u.FirebaseUID]; ok {
		existing.Email = u.Email
		existing.DisplayName = u.DisplayName
		cp := *existing
		return &cp, nil
	}
	cp := *u
	r.users[u.FirebaseUID] = &cp
	out := cp
	return &out, nil
}
