package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/kaii_store/internal/config"
	"github.com/Skotchmaster/kaii_store/internal/db"
	"github.com/Skotchmaster/kaii_store/internal/metrics"
	"github.com/Skotchmaster/kaii_store/internal/models"
	"github.com/Skotchmaster/kaii_store/internal/mykafka"
	"github.com/Skotchmaster/kaii_store/internal/mykafka/mykafkatest"
	"github.com/Skotchmaster/kaii_store/internal/repo"
	"github.com/Skotchmaster/kaii_store/internal/storage"
	"github.com/Skotchmaster/kaii_store/internal/tokens"
	"github.com/Skotchmaster/kaii_store/internal/transport"
	"github.com/Skotchmaster/kaii_store/internal/upload"
)

var testSecret = []byte("svc-secret")

type env struct {
	repo     *repo.GormRepo
	events   *mykafkatest.Recorder
	metrics  *metrics.Metrics
	disk     *storage.Local
	auth     *AuthService
	catalog  *CatalogService
	orders   *OrderService
	product  *models.Product
	payment  *models.PaymentMethod
	buyer    *models.User
	stranger *models.User
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	gdb, err := db.Open(ctx, db.Options{Driver: config.DriverSQLite, DSN: filepath.Join(t.TempDir(), "svc.db")})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })

	disk, err := storage.NewLocal(filepath.Join(t.TempDir(), "uploads"), storage.LocalURLPrefix)
	require.NoError(t, err)

	e := &env{
		repo:    repo.New(gdb),
		events:  &mykafkatest.Recorder{},
		metrics: metrics.New(),
		disk:    disk,
	}
	e.auth = &AuthService{Repo: e.repo, JWTSecret: testSecret, Events: e.events}
	e.catalog = &CatalogService{Repo: e.repo, Events: e.events}
	e.orders = &OrderService{
		Repo:    e.repo,
		Disk:    disk,
		Events:  e.events,
		Metrics: e.metrics,
		Now:     func() time.Time { return time.UnixMilli(1700000000000) },
	}

	e.buyer, err = e.auth.Register(ctx, transport.RegisterRequest{Name: "Ayu", Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)
	e.stranger, err = e.auth.Register(ctx, transport.RegisterRequest{Name: "Budi", Email: "b@x.com", Password: "pw"})
	require.NoError(t, err)
	e.product, err = e.catalog.CreateProduct(ctx, transport.ProductRequest{Name: "Diamond 100", Price: 1000, Stock: 5})
	require.NoError(t, err)
	e.payment, err = e.catalog.CreatePaymentMethod(ctx, transport.PaymentMethodRequest{Name: "Keris", Type: "e-wallet", IsActive: true})
	require.NoError(t, err)
	return e
}

func proofHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="proof"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	_, fh, err := req.FormFile("proof")
	require.NoError(t, err)
	return fh
}

func TestAuth_RegisterDuplicate(t *testing.T) {
	e := newEnv(t)

	_, err := e.auth.Register(context.Background(), transport.RegisterRequest{Name: "X", Email: "a@x.com", Password: "other"})
	require.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "email already used")
}

func TestAuth_RegisterRequiresCredentials(t *testing.T) {
	e := newEnv(t)

	_, err := e.auth.Register(context.Background(), transport.RegisterRequest{Email: "  ", Password: "pw"})
	require.ErrorIs(t, err, ErrValidation)
	_, err = e.auth.Register(context.Background(), transport.RegisterRequest{Email: "c@x.com"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestAuth_Login(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	resp, err := e.auth.Login(ctx, transport.LoginRequest{Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, e.buyer.ID, resp.User.ID)
	assert.Equal(t, "Ayu", resp.User.Name)
	assert.Equal(t, models.RoleUser, resp.User.Role)

	claims, err := tokens.AccessClaimsFromToken(resp.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, e.buyer.ID, claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)

	_, wrongPw := e.auth.Login(ctx, transport.LoginRequest{Email: "a@x.com", Password: "nope"})
	_, unknown := e.auth.Login(ctx, transport.LoginRequest{Email: "ghost@x.com", Password: "pw"})
	require.ErrorIs(t, wrongPw, ErrInvalidCredentials)
	require.ErrorIs(t, unknown, ErrInvalidCredentials)
	assert.Equal(t, wrongPw.Error(), unknown.Error())
}

func TestAuth_RegisterPublishesEvent(t *testing.T) {
	e := newEnv(t)

	published := e.events.Events()
	require.NotEmpty(t, published)
	assert.Equal(t, mykafka.UserRegistered, published[0].Event.Type)
	assert.Equal(t, mykafka.Key(e.buyer.ID), published[0].Key)
}

func TestCatalog_UpdateUnknown(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.catalog.UpdateProduct(ctx, 999, transport.ProductRequest{Name: "x"})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = e.catalog.UpdatePaymentMethod(ctx, 999, transport.PaymentMethodRequest{Name: "x"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCatalog_AvailableProductsHidesEmptyStock(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.catalog.CreateProduct(ctx, transport.ProductRequest{Name: "Sold out", Price: 10, Stock: 0})
	require.NoError(t, err)
	_, err = e.catalog.CreateProduct(ctx, transport.ProductRequest{Name: "Negative", Price: -1, Stock: -3})
	require.NoError(t, err)

	available, err := e.catalog.AvailableProducts(ctx)
	require.NoError(t, err)
	for _, p := range available {
		assert.Greater(t, p.Stock, int64(0))
	}
	all, err := e.catalog.AllProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCheckout(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	order, err := e.orders.Checkout(ctx, e.buyer.ID, transport.CheckoutRequest{ProductID: e.product.ID, Quantity: 2, PaymentMethodID: e.payment.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2000), order.Total)
	assert.Equal(t, models.OrderStatusPendingPayment, order.Status)
	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.OrdersCreated))
	assert.Contains(t, e.events.Types(), mykafka.OrderCreated)

	tests := []struct {
		name    string
		req     transport.CheckoutRequest
		wantErr error
	}{
		{"too many", transport.CheckoutRequest{ProductID: e.product.ID, Quantity: 4, PaymentMethodID: e.payment.ID}, ErrOutOfStock},
		{"zero quantity", transport.CheckoutRequest{ProductID: e.product.ID, Quantity: 0, PaymentMethodID: e.payment.ID}, ErrInvalidQuantity},
		{"negative quantity", transport.CheckoutRequest{ProductID: e.product.ID, Quantity: -1, PaymentMethodID: e.payment.ID}, ErrInvalidQuantity},
		{"no product", transport.CheckoutRequest{Quantity: 1, PaymentMethodID: e.payment.ID}, ErrProductRequired},
		{"unknown product", transport.CheckoutRequest{ProductID: 999, Quantity: 1, PaymentMethodID: e.payment.ID}, ErrNotFound},
		{"unknown payment method", transport.CheckoutRequest{ProductID: e.product.ID, Quantity: 1, PaymentMethodID: 999}, ErrPaymentMethodUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.orders.Checkout(ctx, e.buyer.ID, tt.req)
			require.ErrorIs(t, err, tt.wantErr)
			if tt.wantErr != ErrOutOfStock && tt.wantErr != ErrNotFound {
				assert.ErrorIs(t, err, ErrValidation)
			}
		})
	}

	n, err := e.repo.CountOrders(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestSubmitProof(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	order, err := e.orders.Checkout(ctx, e.buyer.ID, transport.CheckoutRequest{ProductID: e.product.ID, Quantity: 1, PaymentMethodID: e.payment.ID})
	require.NoError(t, err)

	t.Run("not owner", func(t *testing.T) {
		_, err := e.orders.SubmitProof(ctx, e.stranger.ID, order.ID, proofHeader(t, "p.png", "image/png", []byte("img")))
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("missing order", func(t *testing.T) {
		_, err := e.orders.SubmitProof(ctx, e.buyer.ID, 999, proofHeader(t, "p.png", "image/png", []byte("img")))
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("not an image", func(t *testing.T) {
		_, err := e.orders.SubmitProof(ctx, e.buyer.ID, order.ID, proofHeader(t, "p.pdf", "application/pdf", []byte("%PDF")))
		require.ErrorIs(t, err, ErrValidation)
		require.ErrorIs(t, err, upload.ErrNotImage)

		got, err := e.repo.OrderByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusPendingPayment, got.Status)
		assert.Empty(t, got.ProofImageURL)

		entries, err := os.ReadDir(e.disk.Root())
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := e.orders.SubmitProof(ctx, e.buyer.ID, order.ID, nil)
		require.ErrorIs(t, err, ErrValidation)
		require.ErrorIs(t, err, upload.ErrMissing)
	})

	t.Run("too large", func(t *testing.T) {
		big := make([]byte, upload.DefaultMaxBytes+1)
		_, err := e.orders.SubmitProof(ctx, e.buyer.ID, order.ID, proofHeader(t, "p.png", "image/png", big))
		require.ErrorIs(t, err, ErrValidation)
		require.ErrorIs(t, err, upload.ErrTooLarge)
	})

	t.Run("accepted", func(t *testing.T) {
		url, err := e.orders.SubmitProof(ctx, e.buyer.ID, order.ID, proofHeader(t, "transfer.jpg", "image/jpeg", []byte("jpeg-bytes")))
		require.NoError(t, err)
		assert.Equal(t, "/uploads/proof_1700000000000.jpg", url)

		data, err := os.ReadFile(filepath.Join(e.disk.Root(), "proof_1700000000000.jpg"))
		require.NoError(t, err)
		assert.Equal(t, "jpeg-bytes", string(data))

		got, err := e.repo.OrderByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusPendingConfirmation, got.Status)
		assert.Equal(t, url, got.ProofImageURL)
		assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.ProofsSubmitted))
	})
}

func TestDeliverAndDashboard(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	first, err := e.orders.Checkout(ctx, e.buyer.ID, transport.CheckoutRequest{ProductID: e.product.ID, Quantity: 1, PaymentMethodID: e.payment.ID})
	require.NoError(t, err)
	second, err := e.orders.Checkout(ctx, e.buyer.ID, transport.CheckoutRequest{ProductID: e.product.ID, Quantity: 1, PaymentMethodID: e.payment.ID})
	require.NoError(t, err)
	_, err = e.orders.SubmitProof(ctx, e.buyer.ID, second.ID, proofHeader(t, "p.png", "image/png", []byte("img")))
	require.NoError(t, err)

	dash, err := e.orders.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), dash.TotalOrders)
	assert.Equal(t, int64(1), dash.PendingConfirmation)

	// delivering straight from pending_payment is allowed
	require.NoError(t, e.orders.Deliver(ctx, first.ID, "CODE123"))
	require.ErrorIs(t, e.orders.Deliver(ctx, 999, "x"), ErrNotFound)

	mine, err := e.orders.ListMine(ctx, e.buyer.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	for _, o := range mine {
		if o.ID == first.ID {
			assert.Equal(t, models.OrderStatusCompleted, o.Status)
			assert.Equal(t, "CODE123", o.OrderContent)
		}
	}

	all, err := e.orders.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "Ayu", all[0].UserName)
	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.OrdersDelivered))
	assert.Contains(t, e.events.Types(), mykafka.OrderDelivered)
}

func TestPublishFailureDoesNotFailOperation(t *testing.T) {
	e := newEnv(t)
	e.events.Err = assert.AnError

	_, err := e.orders.Checkout(context.Background(), e.buyer.ID, transport.CheckoutRequest{ProductID: e.product.ID, Quantity: 1, PaymentMethodID: e.payment.ID})
	require.NoError(t, err)
}
