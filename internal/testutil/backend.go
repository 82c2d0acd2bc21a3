package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Object is a loosely typed JSON object as the backend stores it.
type Object = map[string]any

// DefaultCatalog mirrors the storefront's demo catalog.
func DefaultCatalog() []Object {
	return []Object{
		{"id": 1, "name": "Organic Bananas", "price": 2.99, "ecoPrice": 150, "category": "groceries", "rating": 4.5, "ecoFriendly": true, "description": "Fresh organic bananas, sustainably sourced", "image": "bananas.jpeg"},
		{"id": 2, "name": "Wireless Headphones", "price": 79.99, "ecoPrice": 4000, "category": "electronics", "rating": 4.8, "ecoFriendly": false, "description": "High-quality wireless headphones with noise cancellation", "image": "headphones.jpeg"},
		{"id": 3, "name": "Eco-Friendly T-Shirt", "price": 24.99, "ecoPrice": 1250, "category": "clothing", "rating": 4.3, "ecoFriendly": true, "description": "Made from 100% organic cotton", "image": "tshirt.jpeg"},
		{"id": 4, "name": "Smart LED Bulbs", "price": 34.99, "ecoPrice": 1750, "category": "home", "rating": 4.6, "ecoFriendly": true, "description": "Energy-efficient smart LED bulbs", "image": "bulbs.jpeg"},
		{"id": 5, "name": "Fresh Avocados", "price": 4.99, "ecoPrice": 250, "category": "groceries", "rating": 4.4, "ecoFriendly": true, "description": "Ripe avocados perfect for your meals", "image": "avocados.jpeg"},
		{"id": 6, "name": "Bluetooth Speaker", "price": 49.99, "ecoPrice": 2500, "category": "electronics", "rating": 4.2, "ecoFriendly": false, "description": "Portable Bluetooth speaker with great sound", "image": "speaker.jpeg"},
	}
}

// RecordedRequest is a request seen by the fake backend.
type RecordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// Backend is an in-memory stand-in for the REST backend. Stored documents are returned
// as they were posted, with an "id" added, like the real document store does.
type Backend struct {
	*httptest.Server

	mu        sync.Mutex
	catalog   []Object
	orders    []Object
	drivers   []Object
	balances  map[string][]Object
	agent     func(question string) (reply string, status int)
	failures  map[string][]int
	overrides map[string]http.HandlerFunc
	requests  []RecordedRequest
	nextID    int
}

// NewBackend starts a fake backend seeded with DefaultCatalog. It is closed via t.Cleanup.
func NewBackend(t *testing.T) *Backend {
	t.Helper()
	b := &Backend{
		catalog:   DefaultCatalog(),
		balances:  map[string][]Object{},
		failures:  map[string][]int{},
		overrides: map[string]http.HandlerFunc{},
		agent: func(q string) (string, int) {
			return "You asked: " + q, http.StatusOK
		},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) { writeJSON(w, http.StatusOK, "healthy") })
	mux.HandleFunc("GET /catalog", b.getCatalog)
	mux.HandleFunc("GET /orders", b.getOrders)
	mux.HandleFunc("GET /orders/{customerID}", b.getOrders)
	mux.HandleFunc("POST /order/place_order", b.placeOrder)
	mux.HandleFunc("GET /drivers", b.getDrivers)
	mux.HandleFunc("POST /drivers/add_driver", b.addDriver)
	mux.HandleFunc("GET /ecoCoin/getbalance/{address}", b.getBalance)
	mux.HandleFunc("POST /EcoAgent", b.askAgent)

	b.Server = httptest.NewServer(b.intercept(mux))
	t.Cleanup(b.Close)
	return b
}

// intercept records requests and serves injected failures and overrides before routing.
func (b *Backend) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			var buf bytes.Buffer
			_, _ = buf.ReadFrom(r.Body)
			body = buf.Bytes()
			r.Body.Close()
			r.Body = readCloser{bytes.NewReader(body)}
		}
		b.mu.Lock()
		b.requests = append(b.requests, RecordedRequest{Method: r.Method, Path: r.URL.Path, Header: r.Header.Clone(), Body: body})
		var status int
		if q := b.failures[r.URL.Path]; len(q) > 0 {
			status, b.failures[r.URL.Path] = q[0], q[1:]
		}
		override := b.overrides[r.URL.Path]
		b.mu.Unlock()

		if status != 0 {
			http.Error(w, http.StatusText(status), status)
			return
		}
		if override != nil {
			override(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type readCloser struct{ *bytes.Reader }

func (readCloser) Close() error { return nil }

// FailNext makes the next request to path fail with status. Calls queue up.
func (b *Backend) FailNext(path string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[path] = append(b.failures[path], status)
}

// Override serves every request to path with h instead of the default handler.
func (b *Backend) Override(path string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.overrides[path] = h
}

// SetCatalog replaces the catalog.
func (b *Backend) SetCatalog(items ...Object) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.catalog = items
}

// SetBalance sets the assets reported for address.
func (b *Backend) SetBalance(address string, assets ...Object) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances[address] = assets
}

// SetAgent replaces the EcoAgent responder.
func (b *Backend) SetAgent(fn func(question string) (string, int)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.agent = fn
}

// AddDriverRecord seeds the roster.
func (b *Backend) AddDriverRecord(d Object) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.drivers = append(b.drivers, b.withID(d))
}

// AddOrderRecord seeds the order store.
func (b *Backend) AddOrderRecord(o Object) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.orders = append(b.orders, b.withID(o))
}

// PlacedOrders returns the stored orders.
func (b *Backend) PlacedOrders() []Object {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Object(nil), b.orders...)
}

// Requests returns every request received so far.
func (b *Backend) Requests() []RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]RecordedRequest(nil), b.requests...)
}

// RequestsTo returns the requests received for path.
func (b *Backend) RequestsTo(path string) []RecordedRequest {
	var out []RecordedRequest
	for _, r := range b.Requests() {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (b *Backend) withID(o Object) Object {
	b.nextID++
	cp := Object{"id": fmt.Sprintf("%024x", b.nextID)}
	for k, v := range o {
		cp[k] = v
	}
	return cp
}

func (b *Backend) getCatalog(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.catalog)
}

func (b *Backend) getOrders(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	customer := r.PathValue("customerID")
	out := []Object{}
	for _, o := range b.orders {
		if customer == "" || o["cust_id"] == customer {
			out = append(out, o)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) placeOrder(w http.ResponseWriter, r *http.Request) {
	o, ok := decodeObject(w, r)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	stored := b.withID(o)
	b.orders = append(b.orders, stored)
	writeJSON(w, http.StatusOK, Object{"message": stored["id"]})
}

func (b *Backend) getDrivers(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.drivers
	if out == nil {
		out = []Object{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) addDriver(w http.ResponseWriter, r *http.Request) {
	d, ok := decodeObject(w, r)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	stored := b.withID(d)
	b.drivers = append(b.drivers, stored)
	writeJSON(w, http.StatusOK, Object{"message": stored["id"]})
}

func (b *Backend) getBalance(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	assets := b.balances[r.PathValue("address")]
	if assets == nil {
		assets = []Object{}
	}
	writeJSON(w, http.StatusOK, Object{"data": assets})
}

func (b *Backend) askAgent(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeObject(w, r)
	if !ok {
		return
	}
	q, _ := in["question"].(string)
	b.mu.Lock()
	fn := b.agent
	b.mu.Unlock()
	reply, status := fn(q)
	if status != http.StatusOK {
		http.Error(w, http.StatusText(status), status)
		return
	}
	writeJSON(w, http.StatusOK, Object{"response": reply})
}

func decodeObject(w http.ResponseWriter, r *http.Request) (Object, bool) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var o Object
	if err := dec.Decode(&o); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return nil, false
	}
	return o, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
