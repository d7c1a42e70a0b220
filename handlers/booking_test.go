package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"salonbook/database/repository/memstore"
	"salonbook/handlers"
	"salonbook/models"
	"salonbook/routes"
	"salonbook/services/booking"
	"salonbook/services/payment"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type fakeGateway struct{ approve bool }

func (g fakeGateway) Charge(context.Context, float64, string) (payment.Receipt, error) {
	if !g.approve {
		return payment.Receipt{}, nil
	}
	return payment.Receipt{Approved: true, Reference: "ch_test"}, nil
}

func init() {
	gin.SetMode(gin.TestMode)
	utils.Logger = zap.NewNop()
	if err := handlers.RegisterValidators(); err != nil {
		panic(err)
	}
}

func newRouter(t *testing.T, approve bool) *gin.Engine {
	t.Helper()
	store := memstore.New()
	store.Seed()
	logger := zap.NewNop()
	publisher := booking.NewEventPublisher(logger)
	locker := booking.NewLocalLocker()

	svc := &booking.DefaultBookingService{
		Repo:      store,
		Chain:     booking.DefaultValidationChain(store),
		Publisher: publisher,
		Locker:    locker,
		Logger:    logger,
	}
	facade := &booking.PaymentFacade{
		Bookings:  store,
		Payments:  store.Payments(),
		Tx:        store,
		Gateway:   fakeGateway{approve: approve},
		Publisher: publisher,
		Locker:    locker,
		Logger:    logger,
	}

	r := gin.New()
	r.Use(utils.ErrorHandler())
	routes.RegisterRoutes(r, handlers.NewHandlerBundle(handlers.NewBookingHandler(svc, facade, store, logger)))
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBooking(t *testing.T, w *httptest.ResponseRecorder) models.BookingRecord {
	t.Helper()
	var rec models.BookingRecord
	if err := json.Unmarshal(w.Body.Bytes(), &rec); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return rec
}

func createBooking(t *testing.T, r *gin.Engine) models.BookingRecord {
	t.Helper()
	w := do(r, http.MethodPost, "/api/bookings",
		`{"clientId":"client-1","masterId":"master-1","serviceId":"svc-haircut","dateTime":"2026-05-20T14:00"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	return decodeBooking(t, w)
}

func TestCreateBookingEndpoint(t *testing.T) {
	r := newRouter(t, true)
	rec := createBooking(t, r)
	if rec.Status != "PENDING" || rec.TotalPrice != 450 || rec.Date != "2026-05-20" || rec.Time != "14:00" {
		t.Errorf("unexpected booking %+v", rec)
	}

	w := do(r, http.MethodGet, "/api/bookings/"+rec.ID, "")
	if w.Code != http.StatusOK || decodeBooking(t, w).ID != rec.ID {
		t.Errorf("get booking: %d %s", w.Code, w.Body.String())
	}
}

func TestCreateBookingRequestErrors(t *testing.T) {
	r := newRouter(t, true)
	tests := []struct {
		name string
		body string
		want int
		msg  string
	}{
		{"missing field", `{"clientId":"client-1"}`, http.StatusBadRequest, ""},
		{"bad date", `{"clientId":"client-1","masterId":"master-1","serviceId":"svc-haircut","dateTime":"tomorrow"}`, http.StatusBadRequest, ""},
		{"rfc3339 accepted", `{"clientId":"client-1","masterId":"master-1","serviceId":"svc-haircut","dateTime":"2026-05-20T14:00:00Z"}`, http.StatusCreated, ""},
		{"unknown master", `{"clientId":"client-1","masterId":"ghost","serviceId":"svc-haircut","dateTime":"2026-05-20T14:00"}`, http.StatusUnprocessableEntity, "master not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/api/bookings", tt.body)
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
			if tt.msg != "" {
				var resp utils.ErrorResponse
				_ = json.Unmarshal(w.Body.Bytes(), &resp)
				if resp.Message != tt.msg || resp.Details != booking.CodeValidationRejected {
					t.Errorf("unexpected error body %+v", resp)
				}
			}
		})
	}
}

func TestLifecycleEndpoints(t *testing.T) {
	r := newRouter(t, true)
	rec := createBooking(t, r)

	w := do(r, http.MethodPost, "/api/bookings/"+rec.ID+"/pay", "")
	if w.Code != http.StatusConflict {
		t.Fatalf("pay before confirm: expected 409, got %d", w.Code)
	}

	for _, step := range []struct {
		path string
		want string
	}{
		{"/confirm", "CONFIRMED"},
		{"/checkout", "PAID"},
		{"/complete", "COMPLETED"},
	} {
		w := do(r, http.MethodPost, "/api/bookings/"+rec.ID+step.path, "")
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", step.path, w.Code, w.Body.String())
		}
		if got := decodeBooking(t, w); got.Status != step.want {
			t.Fatalf("%s: expected %s, got %s", step.path, step.want, got.Status)
		}
	}

	w = do(r, http.MethodPost, "/api/bookings/"+rec.ID+"/cancel", "")
	if w.Code != http.StatusConflict {
		t.Errorf("cancel completed: expected 409, got %d", w.Code)
	}
}

func TestCheckoutDeclined(t *testing.T) {
	r := newRouter(t, false)
	rec := createBooking(t, r)
	if w := do(r, http.MethodPost, "/api/bookings/"+rec.ID+"/confirm", ""); w.Code != http.StatusOK {
		t.Fatalf("confirm: %d", w.Code)
	}

	w := do(r, http.MethodPost, "/api/bookings/"+rec.ID+"/checkout", `{"method":"LiqPay"}`)
	if w.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402, got %d: %s", w.Code, w.Body.String())
	}
	w = do(r, http.MethodGet, "/api/bookings/"+rec.ID, "")
	if got := decodeBooking(t, w); got.Status != "CONFIRMED" || got.PaymentID != "" {
		t.Errorf("declined checkout changed booking: %+v", got)
	}
}

func TestNotFoundEndpoints(t *testing.T) {
	r := newRouter(t, true)
	for _, path := range []string{"/confirm", "/cancel", "/checkout"} {
		if w := do(r, http.MethodPost, "/api/bookings/missing"+path, ""); w.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", path, w.Code)
		}
	}
	if w := do(r, http.MethodGet, "/api/bookings/missing", ""); w.Code != http.StatusNotFound {
		t.Errorf("get: expected 404, got %d", w.Code)
	}
}

func TestListingEndpoints(t *testing.T) {
	r := newRouter(t, true)
	createBooking(t, r)

	var clientResp struct {
		Bookings []models.BookingRecord `json:"bookings"`
	}
	w := do(r, http.MethodGet, "/api/clients/client-1/bookings", "")
	if err := json.Unmarshal(w.Body.Bytes(), &clientResp); err != nil || len(clientResp.Bookings) != 1 {
		t.Errorf("client listing: %d %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodGet, "/api/admin/bookings", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "client-1") {
		t.Errorf("admin listing: %d %s", w.Code, w.Body.String())
	}

	var masters struct {
		Masters []models.MasterOption `json:"masters"`
	}
	w = do(r, http.MethodGet, "/api/masters", "")
	if err := json.Unmarshal(w.Body.Bytes(), &masters); err != nil || len(masters.Masters) != 2 || masters.Masters[0].MasterID == "" {
		t.Errorf("masters: %d %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodGet, "/api/services", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"totalPrice":800`) {
		t.Errorf("services should include package total: %s", w.Body.String())
	}

	w = do(r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("health: %d %s", w.Code, w.Body.String())
	}
}
