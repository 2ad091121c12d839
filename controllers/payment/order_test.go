package paymentControllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ndinh575/MMAProject/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000&_txlock=immediate", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) models.Product {
	t.Helper()
	p := models.Product{
		Name:          name,
		CostPrice:     price / 2,
		SellingPrice:  price,
		StockQuantity: stock,
		Category:      "food",
		ImageURL:      "/uploads/" + name + ".png",
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func stockOf(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var p models.Product
	require.NoError(t, db.First(&p, id).Error)
	return p.StockQuantity
}

func TestCreateOrder_DecrementsStockAndSnapshotsPrices(t *testing.T) {
	db := setupTestDB(t)
	p := seedProduct(t, db, "rice", 120, 5)

	order, err := CreateOrder(db, 1, []CheckoutItem{{ProductID: p.ID, Quantity: 5}}, "12 Nguyen Trai")
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, 600.0, order.TotalAmount)
	assert.NotEmpty(t, order.OrderRef)
	assert.Equal(t, 0, stockOf(t, db, p.ID))

	require.Len(t, order.Items, 1)
	assert.Equal(t, 120.0, order.Items[0].UnitPrice)
	assert.Equal(t, 600.0, order.Items[0].LineTotal)
	assert.Equal(t, "rice", order.Items[0].ProductName)

	// Later price edits must not leak into the persisted order.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", p.ID).
		Update("selling_price", 999).Error)

	var stored models.Order
	require.NoError(t, db.Preload("Items").First(&stored, order.ID).Error)
	assert.Equal(t, 120.0, stored.Items[0].UnitPrice)
	assert.Equal(t, 600.0, stored.TotalAmount)

	// Stock is gone, so a follow-up checkout for one more unit fails.
	_, err = CreateOrder(db, 1, []CheckoutItem{{ProductID: p.ID, Quantity: 1}}, "12 Nguyen Trai")
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 0, stockOf(t, db, p.ID))
}

func TestCreateOrder_InsufficientStockLeavesStockUnchanged(t *testing.T) {
	db := setupTestDB(t)
	p := seedProduct(t, db, "coffee", 80, 3)

	_, err := CreateOrder(db, 1, []CheckoutItem{{ProductID: p.ID, Quantity: 4}}, "addr")
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 3, stockOf(t, db, p.ID))

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Zero(t, count)
}

func TestCreateOrder_UnknownProduct(t *testing.T) {
	db := setupTestDB(t)

	_, err := CreateOrder(db, 1, []CheckoutItem{{ProductID: 42, Quantity: 1}}, "addr")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCreateOrder_EmptyCart(t *testing.T) {
	db := setupTestDB(t)

	_, err := CreateOrder(db, 1, nil, "addr")
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestCreateOrder_MultiItemFailureRollsBackEarlierDecrements(t *testing.T) {
	db := setupTestDB(t)
	ok := seedProduct(t, db, "tea", 50, 10)
	short := seedProduct(t, db, "sugar", 20, 1)

	_, err := CreateOrder(db, 1, []CheckoutItem{
		{ProductID: ok.ID, Quantity: 4},
		{ProductID: short.ID, Quantity: 2},
	}, "addr")
	require.ErrorIs(t, err, ErrInsufficientStock)

	// The first item's decrement must not survive the second item's failure.
	assert.Equal(t, 10, stockOf(t, db, ok.ID))
	assert.Equal(t, 1, stockOf(t, db, short.ID))

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Zero(t, count)
}

func TestCreateOrder_ConcurrentCheckoutsNeverOversell(t *testing.T) {
	db := setupTestDB(t)
	p := seedProduct(t, db, "milk", 30, 5)

	// Combined quantity exceeds stock; exactly one checkout may win.
	var g errgroup.Group
	errs := make([]error, 2)
	for i := range errs {
		i := i
		g.Go(func() error {
			_, errs[i] = CreateOrder(db, uint(i+1), []CheckoutItem{{ProductID: p.ID, Quantity: 4}}, "addr")
			return nil
		})
	}
	require.NoError(t, g.Wait())

	var won, lost int
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, ErrInsufficientStock)
			lost++
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, 1, lost)
	assert.Equal(t, 1, stockOf(t, db, p.ID))
}

func TestConfirmOrder(t *testing.T) {
	db := setupTestDB(t)
	p := seedProduct(t, db, "rice", 100, 5)

	order, err := CreateOrder(db, 1, []CheckoutItem{{ProductID: p.ID, Quantity: 1}}, "addr")
	require.NoError(t, err)

	require.NoError(t, ConfirmOrder(db, fmt.Sprint(order.ID)))

	var stored models.Order
	require.NoError(t, db.First(&stored, order.ID).Error)
	assert.Equal(t, models.OrderStatusConfirmed, stored.Status)

	// Confirming has no stock side effects.
	assert.Equal(t, 4, stockOf(t, db, p.ID))

	assert.ErrorIs(t, ConfirmOrder(db, "9999"), gorm.ErrRecordNotFound)
}

// -------- Handler tests --------

type fakeGateway struct {
	intentID string
	secret   string
	err      error
	amounts  []int64
}

func (f *fakeGateway) CreatePaymentIntent(amount int64, currency string) (string, string, error) {
	f.amounts = append(f.amounts, amount)
	return f.intentID, f.secret, f.err
}

func checkoutRequest(t *testing.T, r *gin.Engine, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/payment/create-payment-intent", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func newCheckoutRouter(db *gorm.DB, gateway PaymentGateway, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/payment/create-payment-intent", func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}, CreatePaymentIntentHandler(db, gateway))
	return r
}

func TestCreatePaymentIntentHandler(t *testing.T) {
	db := setupTestDB(t)
	p := seedProduct(t, db, "rice", 150, 5)

	gateway := &fakeGateway{intentID: "pi_123", secret: "pi_123_secret"}
	r := newCheckoutRouter(db, gateway, 7)

	w := checkoutRequest(t, r, CreatePaymentIntentRequest{
		Items:           []CheckoutItem{{ProductID: p.ID, Quantity: 2}},
		ShippingAddress: "12 Nguyen Trai",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		ClientSecret string `json:"client_secret"`
		OrderID      uint   `json:"order_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pi_123_secret", resp.ClientSecret)
	assert.NotZero(t, resp.OrderID)
	assert.Equal(t, []int64{300}, gateway.amounts)

	var stored models.Order
	require.NoError(t, db.First(&stored, resp.OrderID).Error)
	assert.Equal(t, "pi_123", stored.PaymentIntentID)
	assert.Equal(t, uint(7), stored.UserID)
}

func TestCreatePaymentIntentHandler_InsufficientStock(t *testing.T) {
	db := setupTestDB(t)
	p := seedProduct(t, db, "rice", 150, 1)

	gateway := &fakeGateway{intentID: "pi_123", secret: "s"}
	r := newCheckoutRouter(db, gateway, 7)

	w := checkoutRequest(t, r, CreatePaymentIntentRequest{
		Items:           []CheckoutItem{{ProductID: p.ID, Quantity: 2}},
		ShippingAddress: "addr",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Empty(t, gateway.amounts)
	assert.Equal(t, 1, stockOf(t, db, p.ID))
}

func TestCreatePaymentIntentHandler_GatewayFailureKeepsPendingOrder(t *testing.T) {
	db := setupTestDB(t)
	p := seedProduct(t, db, "rice", 150, 5)

	gateway := &fakeGateway{err: fmt.Errorf("stripe error: down")}
	r := newCheckoutRouter(db, gateway, 7)

	w := checkoutRequest(t, r, CreatePaymentIntentRequest{
		Items:           []CheckoutItem{{ProductID: p.ID, Quantity: 1}},
		ShippingAddress: "addr",
	})

	require.Equal(t, http.StatusBadGateway, w.Code)

	var resp struct {
		OrderID uint `json:"order_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotZero(t, resp.OrderID)

	// Order survives in pending state for a client retry; stock stays
	// reserved for it.
	var stored models.Order
	require.NoError(t, db.First(&stored, resp.OrderID).Error)
	assert.Equal(t, models.OrderStatusPending, stored.Status)
	assert.Empty(t, stored.PaymentIntentID)
	assert.Equal(t, 4, stockOf(t, db, p.ID))
}

func TestGetUserOrdersHandler_Authorization(t *testing.T) {
	db := setupTestDB(t)
	p := seedProduct(t, db, "rice", 100, 10)

	_, err := CreateOrder(db, 1, []CheckoutItem{{ProductID: p.ID, Quantity: 1}}, "addr")
	require.NoError(t, err)
	_, err = CreateOrder(db, 2, []CheckoutItem{{ProductID: p.ID, Quantity: 1}}, "addr")
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	newRouter := func(userID uint, role string) *gin.Engine {
		r := gin.New()
		r.GET("/payment/orders/:userId", func(c *gin.Context) {
			c.Set("user_id", userID)
			c.Set("role", role)
			c.Next()
		}, GetUserOrdersHandler(db))
		return r
	}

	get := func(r *gin.Engine, path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	// Own orders are visible.
	w := get(newRouter(1, models.RoleUser), "/payment/orders/1")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Orders []models.Order `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Orders, 1)

	// Another user's orders are not.
	w = get(newRouter(1, models.RoleUser), "/payment/orders/2")
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Admins may read anyone's.
	w = get(newRouter(9, models.RoleAdmin), "/payment/orders/2")
	assert.Equal(t, http.StatusOK, w.Code)
}
