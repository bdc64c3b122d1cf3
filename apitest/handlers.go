package apitest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"ulavan-storefront/models"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func pathID(r *http.Request) int {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	return id
}

// --- auth ---

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid input")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeDetail(w, http.StatusBadRequest, "email and password are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[req.Email]; exists {
		writeDetail(w, http.StatusBadRequest, "a user with this email already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "error hashing password")
		return
	}
	role := req.Role
	if role == "" {
		role = models.RoleBuyer
	}
	s.nextUserID++
	rec := &userRecord{
		user: models.User{
			ID:       s.nextUserID,
			Username: req.Username,
			Email:    req.Email,
			Phone:    req.Phone,
			Role:     role,
		},
		passwordHash: hash,
	}
	s.users[req.Email] = rec
	writeJSON(w, http.StatusCreated, rec.user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid form data")
		return
	}
	email := r.FormValue("username")
	password := r.FormValue("password")

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[email]
	if !ok || bcrypt.CompareHashAndPassword(rec.passwordHash, []byte(password)) != nil {
		writeDetail(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := s.mintToken(email)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "error generating token")
		return
	}
	writeJSON(w, http.StatusOK, models.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        &rec.user,
	})
}

// --- profile ---

func (s *Server) handleGetProfile(w http.ResponseWriter, _ *http.Request, rec *userRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, rec.user)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request, rec *userRecord) {
	var update models.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid input")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profileUpdateCalls++
	if update.Username != "" {
		rec.user.Username = update.Username
	}
	if update.Phone != "" {
		rec.user.Phone = update.Phone
	}
	if update.Address != "" {
		rec.user.Address = update.Address
	}
	writeJSON(w, http.StatusOK, rec.user)
}

// --- products ---

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	search := strings.ToLower(q.Get("search"))
	categoryID, _ := strconv.Atoi(q.Get("category_id"))
	minPrice, _ := strconv.ParseFloat(q.Get("min_price"), 64)
	maxPrice, _ := strconv.ParseFloat(q.Get("max_price"), 64)
	limit, _ := strconv.Atoi(q.Get("limit"))

	s.mu.Lock()
	defer s.mu.Unlock()
	products := []models.Product{}
	for _, p := range s.products {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if categoryID > 0 && p.CategoryID != categoryID {
			continue
		}
		if minPrice > 0 && p.Price < minPrice {
			continue
		}
		if maxPrice > 0 && p.Price > maxPrice {
			continue
		}
		products = append(products, *p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	if limit > 0 && len(products) > limit {
		products = products[:limit]
	}
	writeJSON(w, http.StatusOK, products)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[pathID(r)]
	if !ok {
		writeDetail(w, http.StatusNotFound, "product not found")
		return
	}
	writeJSON(w, http.StatusOK, *p)
}

func (s *Server) handleMyProducts(w http.ResponseWriter, _ *http.Request, rec *userRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	products := []models.Product{}
	for _, p := range s.products {
		if p.SellerID == rec.user.ID {
			products = append(products, *p)
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	writeJSON(w, http.StatusOK, products)
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request, rec *userRecord) {
	var input models.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid input")
		return
	}
	if input.Name == "" || input.Price <= 0 {
		writeDetail(w, http.StatusBadRequest, "name and a positive price are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextProductID++
	p := &models.Product{
		ID:            s.nextProductID,
		Name:          input.Name,
		Description:   input.Description,
		Price:         input.Price,
		StockQuantity: input.StockQuantity,
		CategoryID:    input.CategoryID,
		ImageURL:      input.ImageURL,
		Images:        input.Images,
		SellerID:      rec.user.ID,
	}
	s.products[p.ID] = p
	writeJSON(w, http.StatusCreated, *p)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request, rec *userRecord) {
	var input models.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid input")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[pathID(r)]
	if !ok {
		writeDetail(w, http.StatusNotFound, "product not found")
		return
	}
	if p.SellerID != rec.user.ID {
		writeDetail(w, http.StatusForbidden, "you can only edit your own products")
		return
	}
	if input.Name != "" {
		p.Name = input.Name
	}
	if input.Description != "" {
		p.Description = input.Description
	}
	if input.Price > 0 {
		p.Price = input.Price
	}
	if input.StockQuantity >= 0 {
		p.StockQuantity = input.StockQuantity
	}
	if input.CategoryID > 0 {
		p.CategoryID = input.CategoryID
	}
	if input.ImageURL != "" {
		p.ImageURL = input.ImageURL
		p.Images = input.Images
	}
	writeJSON(w, http.StatusOK, *p)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request, rec *userRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[pathID(r)]
	if !ok {
		writeDetail(w, http.StatusNotFound, "product not found")
		return
	}
	if p.SellerID != rec.user.ID {
		writeDetail(w, http.StatusForbidden, "you can only delete your own products")
		return
	}
	delete(s.products, p.ID)
	w.WriteHeader(http.StatusNoContent)
}

// --- categories ---

func (s *Server) handleListCategories(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.categories)
}

// --- cart ---

// cartView assembles the response shape the client renders: line items with
// product data joined in, plus server-computed totals. Callers hold s.mu.
func (s *Server) cartView(userID int) models.Cart {
	cart := models.Cart{Items: []models.CartItem{}}
	for _, row := range s.carts[userID] {
		p, ok := s.products[row.productID]
		if !ok {
			continue
		}
		subtotal := p.Price * float64(row.quantity)
		cart.Items = append(cart.Items, models.CartItem{
			CartID:       row.cartID,
			ProductID:    p.ID,
			ProductName:  p.Name,
			ProductPrice: p.Price,
			ProductImage: p.ImageURL,
			ProductStock: p.StockQuantity,
			Quantity:     row.quantity,
			Subtotal:     subtotal,
		})
		cart.TotalAmount += subtotal
		cart.TotalItems += row.quantity
	}
	return cart
}

func (s *Server) handleGetCart(w http.ResponseWriter, _ *http.Request, rec *userRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.cartView(rec.user.ID))
}

func (s *Server) handleAddToCart(w http.ResponseWriter, r *http.Request, rec *userRecord) {
	var req models.AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid input")
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[req.ProductID]
	if !ok {
		writeDetail(w, http.StatusNotFound, "product not found")
		return
	}

	for _, row := range s.carts[rec.user.ID] {
		if row.productID == req.ProductID {
			if row.quantity+req.Quantity > p.StockQuantity {
				writeDetail(w, http.StatusBadRequest, fmt.Sprintf("insufficient stock for %s", p.Name))
				return
			}
			row.quantity += req.Quantity
			writeJSON(w, http.StatusOK, s.cartView(rec.user.ID))
			return
		}
	}

	if req.Quantity > p.StockQuantity {
		writeDetail(w, http.StatusBadRequest, fmt.Sprintf("insufficient stock for %s", p.Name))
		return
	}
	s.nextCartID++
	s.carts[rec.user.ID] = append(s.carts[rec.user.ID], &cartRow{
		cartID:    s.nextCartID,
		productID: req.ProductID,
		quantity:  req.Quantity,
	})
	writeJSON(w, http.StatusCreated, s.cartView(rec.user.ID))
}

func (s *Server) handleUpdateCartItem(w http.ResponseWriter, r *http.Request, rec *userRecord) {
	var req models.UpdateCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid input")
		return
	}
	if req.Quantity < 1 {
		writeDetail(w, http.StatusBadRequest, "quantity must be at least 1")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := pathID(r)
	for _, row := range s.carts[rec.user.ID] {
		if row.cartID != id {
			continue
		}
		p := s.products[row.productID]
		if p != nil && req.Quantity > p.StockQuantity {
			writeDetail(w, http.StatusBadRequest, fmt.Sprintf("insufficient stock for %s", p.Name))
			return
		}
		row.quantity = req.Quantity
		writeJSON(w, http.StatusOK, s.cartView(rec.user.ID))
		return
	}
	writeDetail(w, http.StatusNotFound, "cart item not found")
}

func (s *Server) handleRemoveCartItem(w http.ResponseWriter, r *http.Request, rec *userRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := pathID(r)
	rows := s.carts[rec.user.ID]
	for i, row := range rows {
		if row.cartID == id {
			s.carts[rec.user.ID] = append(rows[:i], rows[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "cart item not found")
}

// --- orders ---

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request, rec *userRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orderCreateCalls++

	if s.failNextOrder {
		s.failNextOrder = false
		writeDetail(w, http.StatusInternalServerError, "order service unavailable")
		return
	}

	rows := s.carts[rec.user.ID]
	if len(rows) == 0 {
		writeDetail(w, http.StatusBadRequest, "cart is empty")
		return
	}

	// Stock check first, then decrement, mirroring the real backend's
	// all-or-nothing behavior.
	for _, row := range rows {
		p, ok := s.products[row.productID]
		if !ok {
			writeDetail(w, http.StatusNotFound, "product no longer available")
			return
		}
		if p.StockQuantity < row.quantity {
			writeDetail(w, http.StatusBadRequest, fmt.Sprintf("insufficient stock for %s", p.Name))
			return
		}
	}

	order := &models.Order{
		Status:    models.StatusPending,
		Address:   rec.user.Address,
		CreatedAt: time.Now().UTC(),
	}
	for _, row := range rows {
		p := s.products[row.productID]
		p.StockQuantity -= row.quantity
		subtotal := p.Price * float64(row.quantity)
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    row.quantity,
			Price:       p.Price,
			Subtotal:    subtotal,
			ImageURL:    p.ImageURL,
		})
		order.TotalAmount += subtotal
	}

	s.nextOrderID++
	order.ID = s.nextOrderID
	s.orders[order.ID] = order
	s.orderOwners[order.ID] = rec.user.ID
	delete(s.carts, rec.user.ID)

	writeJSON(w, http.StatusCreated, *order)
}

func (s *Server) handleMyOrders(w http.ResponseWriter, _ *http.Request, rec *userRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	orders := []models.Order{}
	for id, o := range s.orders {
		if s.orderOwners[id] == rec.user.ID {
			orders = append(orders, *o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) handleSellerOrders(w http.ResponseWriter, _ *http.Request, rec *userRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	orders := []models.Order{}
	for _, o := range s.orders {
		for _, item := range o.Items {
			if p, ok := s.products[item.ProductID]; ok && p.SellerID == rec.user.ID {
				orders = append(orders, *o)
				break
			}
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request, rec *userRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := pathID(r)
	o, ok := s.orders[id]
	if !ok || (s.orderOwners[id] != rec.user.ID && rec.user.Role != models.RoleSeller) {
		writeDetail(w, http.StatusNotFound, "order not found")
		return
	}
	writeJSON(w, http.StatusOK, *o)
}

func (s *Server) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request, _ *userRecord) {
	var update models.OrderStatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil || update.Status == "" {
		writeDetail(w, http.StatusBadRequest, "invalid input")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[pathID(r)]
	if !ok {
		writeDetail(w, http.StatusNotFound, "order not found")
		return
	}
	o.Status = update.Status
	writeJSON(w, http.StatusOK, *o)
}

// --- reports ---

func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request, rec *userRecord) {
	var input models.ReportInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid input")
		return
	}
	if input.Subject == "" || input.Description == "" {
		writeDetail(w, http.StatusBadRequest, "subject and description are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	report := models.Report{
		ID:          uuid.NewString(),
		OrderID:     input.OrderID,
		IssueType:   input.IssueType,
		Subject:     input.Subject,
		Description: input.Description,
		Status:      "open",
		CreatedAt:   time.Now().UTC(),
	}
	s.reports[rec.user.ID] = append(s.reports[rec.user.ID], report)
	writeJSON(w, http.StatusCreated, report)
}

// handleSellerReports lists reports filed against orders that contain the
// seller's products.
func (s *Server) handleSellerReports(w http.ResponseWriter, _ *http.Request, rec *userRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reports := []models.Report{}
	for _, userReports := range s.reports {
		for _, report := range userReports {
			o, ok := s.orders[report.OrderID]
			if !ok {
				continue
			}
			for _, item := range o.Items {
				if p, ok := s.products[item.ProductID]; ok && p.SellerID == rec.user.ID {
					reports = append(reports, report)
					break
				}
			}
		}
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].CreatedAt.Before(reports[j].CreatedAt) })
	writeJSON(w, http.StatusOK, reports)
}

func (s *Server) handleMyReports(w http.ResponseWriter, _ *http.Request, rec *userRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reports := s.reports[rec.user.ID]
	if reports == nil {
		reports = []models.Report{}
	}
	writeJSON(w, http.StatusOK, reports)
}

// --- uploads ---

func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request, _ *userRecord) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeDetail(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}
	file, handler, err := r.FormFile("file")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "failed to read file")
		return
	}

	name := uuid.NewString() + filepath.Ext(handler.Filename)
	s.mu.Lock()
	s.uploads[name] = data
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, models.UploadResult{URL: "/uploads/" + name})
}
