package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math"
	"strings"
	"sync"
)

// CouponCode is the single accepted discount code. Matching is
// case-insensitive and ignores surrounding whitespace.
const CouponCode = "VENDEDOR10"

const (
	cartKeyPrefix      = "cart_state_v1:"
	favoritesKeyPrefix = "favorites_v1:"

	discountRate = 0.10
)

// ErrNotFound is returned by Store.Load when no blob exists under the key.
var ErrNotFound = errors.New("cart: key not found")

// Store is the persistence collaborator for the container. Implementations
// keep string-keyed JSON blobs across process restarts.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
}

// LineItem is one row in the cart. Name and Price are captured when the
// product is first added and are not re-synced afterwards.
type LineItem struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Qty   int     `json:"qty"`
}

// Product is the input to AddToCart.
type Product struct {
	ID    string
	Name  string
	Price float64
}

// View is an atomic read of the container: the line items plus every
// derived value, computed from the same snapshot.
type View struct {
	Items       []LineItem `json:"items"`
	Coupon      string     `json:"coupon"`
	CouponValid bool       `json:"coupon_valid"`
	Subtotal    float64    `json:"subtotal"`
	Discount    float64    `json:"discount"`
	Total       float64    `json:"total"`
	ItemsCount  int        `json:"items_count"`
	Favorites   []string   `json:"favorites"`
}

// cartState is the persisted schema for the cart+coupon blob. Favorites are
// persisted separately as a bare JSON array of product ids.
type cartState struct {
	Items  []LineItem `json:"items"`
	Coupon string     `json:"coupon"`
}

// Container is the single source of truth for one owner's cart, coupon and
// favorites. It persists itself through the Store on every mutation and
// restores itself in the background on construction. All failures of the
// Store degrade to in-memory defaults; the running process is authoritative.
type Container struct {
	mu    sync.Mutex
	store Store

	cartKey string
	favKey  string

	items     []LineItem
	coupon    string
	favorites []string

	// dirty is set by the first mutation. Once the container has live
	// state the background restore must not clobber it: in-memory state
	// is authoritative for the running process.
	dirty bool

	restored chan struct{}
}

// NewContainer builds a container with empty defaults and kicks off the
// background restore. Callers that care about the restore window can wait
// on Restored; everyone else sees the optimistic empty state until the
// load lands.
func NewContainer(store Store, owner string) *Container {
	c := &Container{
		store:    store,
		cartKey:  cartKeyPrefix + owner,
		favKey:   favoritesKeyPrefix + owner,
		restored: make(chan struct{}),
	}
	go c.restore()
	return c
}

// Restored is closed once the background restore has finished, whether or
// not it found anything.
func (c *Container) Restored() <-chan struct{} {
	return c.restored
}

func (c *Container) restore() {
	defer close(c.restored)
	ctx := context.Background()

	var saved cartState
	haveCart := false
	if raw, err := c.store.Load(ctx, c.cartKey); err == nil {
		haveCart = json.Unmarshal(raw, &saved) == nil
	}

	var favs []string
	haveFavs := false
	if raw, err := c.store.Load(ctx, c.favKey); err == nil {
		haveFavs = json.Unmarshal(raw, &favs) == nil && favs != nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// A mutation beat the restore: the caller already saw it acknowledged,
	// so the persisted blobs are the stale side. Keep the live state.
	if c.dirty {
		return
	}

	if haveCart {
		if saved.Items != nil {
			c.items = saved.Items
		}
		if saved.Coupon != "" {
			c.coupon = saved.Coupon
		}
	}
	if haveFavs {
		c.favorites = favs
	}
}

// AddToCart increments the quantity of an existing line for the product or
// appends a new line with quantity 1, capturing name and price at this
// instant. A nil product or one without an id is a no-op.
func (c *Container) AddToCart(p *Product) {
	if p == nil || p.ID == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ID == p.ID {
			c.items[i].Qty++
			c.persistLocked()
			return
		}
	}

	price := p.Price
	if math.IsInf(price, 0) || !(price >= 0) {
		price = 0
	}
	c.items = append(c.items, LineItem{ID: p.ID, Name: p.Name, Price: price, Qty: 1})
	c.persistLocked()
}

// UpdateQty adjusts the quantity of the line matching id by delta, clamped
// so it never drops below 1. Removal is a separate explicit action.
func (c *Container) UpdateQty(id string, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ID == id {
			q := c.items[i].Qty + delta
			if q < 1 {
				q = 1
			}
			c.items[i].Qty = q
			break
		}
	}
	c.persistLocked()
}

// RemoveItem deletes the line matching id, if present.
func (c *Container) RemoveItem(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	c.persistLocked()
}

// ClearCart empties the line items. Coupon and favorites are untouched.
func (c *Container) ClearCart() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
	c.persistLocked()
}

// SetCoupon stores the raw code verbatim. Validation happens at read time.
func (c *Container) SetCoupon(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.coupon = code
	c.persistLocked()
}

// ToggleFavorite adds the id to the favorite set if absent and removes it
// if present.
func (c *Container) ToggleFavorite(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, f := range c.favorites {
		if f == id {
			c.favorites = append(c.favorites[:i], c.favorites[i+1:]...)
			c.persistLocked()
			return
		}
	}
	c.favorites = append(c.favorites, id)
	c.persistLocked()
}

// Items returns a copy of the current line items.
func (c *Container) Items() []LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]LineItem(nil), c.items...)
}

// Coupon returns the raw stored coupon code.
func (c *Container) Coupon() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.coupon
}

// CouponValid reports whether the stored code matches CouponCode after
// trimming and case folding.
func (c *Container) CouponValid() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return couponValid(c.coupon)
}

// Favorites returns a copy of the favorite product ids.
func (c *Container) Favorites() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.favorites...)
}

// IsFavorite reports membership of id in the favorite set.
func (c *Container) IsFavorite(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, f := range c.favorites {
		if f == id {
			return true
		}
	}
	return false
}

// Subtotal is the sum of price*qty over all line items.
func (c *Container) Subtotal() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return subtotal(c.items)
}

// Discount is 10% of the subtotal when the coupon is valid, zero otherwise.
func (c *Container) Discount() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return discount(c.items, c.coupon)
}

// Total is subtotal minus discount.
func (c *Container) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return subtotal(c.items) - discount(c.items, c.coupon)
}

// ItemsCount is the sum of quantities across all line items, as opposed to
// the number of distinct lines.
func (c *Container) ItemsCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, it := range c.items {
		n += it.Qty
	}
	return n
}

// Snapshot returns the items and every derived value from one consistent
// read of the container.
func (c *Container) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	sub := subtotal(c.items)
	disc := discount(c.items, c.coupon)
	n := 0
	for _, it := range c.items {
		n += it.Qty
	}
	return View{
		Items:       append([]LineItem{}, c.items...),
		Coupon:      c.coupon,
		CouponValid: couponValid(c.coupon),
		Subtotal:    sub,
		Discount:    disc,
		Total:       sub - disc,
		ItemsCount:  n,
		Favorites:   append([]string{}, c.favorites...),
	}
}

func subtotal(items []LineItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Price * float64(it.Qty)
	}
	return sum
}

func discount(items []LineItem, coupon string) float64 {
	if !couponValid(coupon) {
		return 0
	}
	return subtotal(items) * discountRate
}

func couponValid(coupon string) bool {
	return strings.ToUpper(strings.TrimSpace(coupon)) == CouponCode
}

// persistLocked snapshots both blobs under the held lock and writes them in
// the background. The writes are independent of each other, never awaited
// by the mutation that triggered them, and their failures are swallowed.
// Every mutation funnels through here, so this is also where the container
// turns dirty.
func (c *Container) persistLocked() {
	c.dirty = true
	state, err := json.Marshal(cartState{Items: append([]LineItem{}, c.items...), Coupon: c.coupon})
	if err == nil {
		go c.save(c.cartKey, state)
	}
	favs, err := json.Marshal(append([]string{}, c.favorites...))
	if err == nil {
		go c.save(c.favKey, favs)
	}
}

func (c *Container) save(key string, value []byte) {
	if err := c.store.Save(context.Background(), key, value); err != nil {
		log.Printf("Warning: failed to persist %s: %v", key, err)
	}
}
