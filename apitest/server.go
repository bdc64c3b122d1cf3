// Package apitest is an in-memory stand-in for the marketplace REST backend,
// used by the client tests. It speaks the same surface the storefront
// consumes — bearer-token auth, {"detail": ...} error bodies, server-side
// cart and stock arithmetic — so the client's request layer and controllers
// are exercised against real HTTP semantics without a database.
package apitest

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"ulavan-storefront/models"
)

// Claims is the JWT payload minted at login.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.StandardClaims
}

type userRecord struct {
	user         models.User
	passwordHash []byte
}

type cartRow struct {
	cartID    int
	productID int
	quantity  int
}

// Server holds the in-memory marketplace state. All access is serialized on
// one mutex; handlers are short and test traffic is tiny.
type Server struct {
	mu sync.Mutex

	jwtKey   []byte
	tokenTTL time.Duration

	users      map[string]*userRecord // keyed by email
	nextUserID int

	products      map[int]*models.Product
	nextProductID int

	carts      map[int][]*cartRow // keyed by user id
	nextCartID int

	orders      map[int]*models.Order
	orderOwners map[int]int // order id -> user id
	nextOrderID int

	categories []models.Category
	reports    map[int][]models.Report // keyed by user id
	uploads    map[string][]byte

	// Call counters for assertions about how often the client hit an
	// endpoint.
	orderCreateCalls   int
	profileUpdateCalls int

	failNextOrder bool

	router *mux.Router
}

var errUnknownUser = errors.New("unknown user")

// NewServer creates an empty backend with the stock category list.
func NewServer() *Server {
	s := &Server{
		jwtKey:      []byte("apitest-secret"),
		tokenTTL:    24 * time.Hour,
		users:       map[string]*userRecord{},
		products:    map[int]*models.Product{},
		carts:       map[int][]*cartRow{},
		orders:      map[int]*models.Order{},
		orderOwners: map[int]int{},
		reports:     map[int][]models.Report{},
		uploads:     map[string][]byte{},
		categories: []models.Category{
			{CategoryID: 1, Name: "Fruits Seeds"},
			{CategoryID: 2, Name: "Flower Seeds"},
			{CategoryID: 3, Name: "Vegetable Seeds"},
		},
	}
	s.routes()
	return s
}

// Router returns the HTTP handler; hand it to httptest.NewServer.
func (s *Server) Router() http.Handler { return s.router }

func (s *Server) routes() {
	r := mux.NewRouter()

	r.HandleFunc("/users/signup", s.handleSignup).Methods("POST")
	r.HandleFunc("/users/login", s.handleLogin).Methods("POST")

	r.HandleFunc("/products", s.handleListProducts).Methods("GET")
	r.HandleFunc("/products/my-products", s.requireRole(models.RoleSeller, s.handleMyProducts)).Methods("GET")
	r.HandleFunc("/products/{id:[0-9]+}", s.handleGetProduct).Methods("GET")
	r.HandleFunc("/products", s.requireRole(models.RoleSeller, s.handleCreateProduct)).Methods("POST")
	r.HandleFunc("/products/{id:[0-9]+}", s.requireRole(models.RoleSeller, s.handleUpdateProduct)).Methods("PUT")
	r.HandleFunc("/products/{id:[0-9]+}", s.requireRole(models.RoleSeller, s.handleDeleteProduct)).Methods("DELETE")

	r.HandleFunc("/categories", s.handleListCategories).Methods("GET")

	r.HandleFunc("/users/me", s.requireAuth(s.handleGetProfile)).Methods("GET")
	r.HandleFunc("/users/me", s.requireAuth(s.handleUpdateProfile)).Methods("PUT")

	r.HandleFunc("/cart", s.requireAuth(s.handleGetCart)).Methods("GET")
	r.HandleFunc("/cart", s.requireAuth(s.handleAddToCart)).Methods("POST")
	r.HandleFunc("/cart/{id:[0-9]+}", s.requireAuth(s.handleUpdateCartItem)).Methods("PUT")
	r.HandleFunc("/cart/{id:[0-9]+}", s.requireAuth(s.handleRemoveCartItem)).Methods("DELETE")

	r.HandleFunc("/orders", s.requireAuth(s.handleCreateOrder)).Methods("POST")
	r.HandleFunc("/orders/my-orders", s.requireAuth(s.handleMyOrders)).Methods("GET")
	r.HandleFunc("/orders/seller/orders", s.requireRole(models.RoleSeller, s.handleSellerOrders)).Methods("GET")
	r.HandleFunc("/orders/{id:[0-9]+}", s.requireAuth(s.handleGetOrder)).Methods("GET")
	r.HandleFunc("/orders/{id:[0-9]+}/status", s.requireRole(models.RoleSeller, s.handleUpdateOrderStatus)).Methods("PUT")

	r.HandleFunc("/reports", s.requireAuth(s.handleCreateReport)).Methods("POST")
	r.HandleFunc("/reports/my-reports", s.requireAuth(s.handleMyReports)).Methods("GET")
	r.HandleFunc("/reports/seller", s.requireRole(models.RoleSeller, s.handleSellerReports)).Methods("GET")

	r.HandleFunc("/upload/image", s.requireAuth(s.handleUploadImage)).Methods("POST")

	s.router = r
}

// SeedUser registers an account directly and returns its id.
func (s *Server) SeedUser(username, email, password, role string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	s.nextUserID++
	s.users[email] = &userRecord{
		user: models.User{
			ID:       s.nextUserID,
			Username: username,
			Email:    email,
			Role:     role,
		},
		passwordHash: hash,
	}
	return s.nextUserID
}

// SetUserAddress fills the stored profile address and phone.
func (s *Server) SetUserAddress(email, address, phone string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.users[email]; ok {
		rec.user.Address = address
		rec.user.Phone = phone
	}
}

// SeedProduct adds a listing directly and returns its id.
func (s *Server) SeedProduct(p models.Product) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextProductID++
	p.ID = s.nextProductID
	s.products[p.ID] = &p
	return p.ID
}

// Product returns a copy of a stored listing, for stock assertions.
func (s *Server) Product(id int) (models.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return models.Product{}, false
	}
	return *p, true
}

// IssueToken mints a valid bearer token for email, bypassing login.
func (s *Server) IssueToken(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, _ := s.mintToken(email)
	return token
}

// RevokeTokens invalidates every outstanding token by rotating the signing
// key, so the next authenticated call gets a 401.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jwtKey = append([]byte("rotated-"), s.jwtKey...)
}

// OrderCreateCalls reports how many times POST /orders was hit.
func (s *Server) OrderCreateCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orderCreateCalls
}

// ProfileUpdateCalls reports how many times PUT /users/me was hit.
func (s *Server) ProfileUpdateCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profileUpdateCalls
}

// FailNextOrder makes the next POST /orders answer 500, for retry-path
// tests.
func (s *Server) FailNextOrder() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNextOrder = true
}

// mintToken signs a token for email. Callers hold s.mu.
func (s *Server) mintToken(email string) (string, error) {
	rec, ok := s.users[email]
	if !ok {
		return "", errUnknownUser
	}
	claims := &Claims{
		Email: email,
		Role:  rec.user.Role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(s.tokenTTL).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtKey)
}

// authenticate resolves the bearer token on r to a user record.
func (s *Server) authenticate(r *http.Request) (*userRecord, bool) {
	header := r.Header.Get("Authorization")
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	claims := &Claims{}
	s.mu.Lock()
	key := s.jwtKey
	s.mu.Unlock()
	token, err := jwt.ParseWithClaims(parts[1], claims, func(*jwt.Token) (interface{}, error) {
		return key, nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[claims.Email]
	return rec, ok
}

func (s *Server) requireAuth(next func(http.ResponseWriter, *http.Request, *userRecord)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, ok := s.authenticate(r)
		if !ok {
			writeDetail(w, http.StatusUnauthorized, "could not validate credentials")
			return
		}
		next(w, r, rec)
	}
}

func (s *Server) requireRole(role string, next func(http.ResponseWriter, *http.Request, *userRecord)) http.HandlerFunc {
	return s.requireAuth(func(w http.ResponseWriter, r *http.Request, rec *userRecord) {
		if rec.user.Role != role {
			writeDetail(w, http.StatusForbidden, "insufficient permissions")
			return
		}
		next(w, r, rec)
	})
}
