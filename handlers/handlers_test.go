package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"slotbook/database/repository"
	"slotbook/handlers"
	"slotbook/models"
	"slotbook/routes"
	"slotbook/services/booking"
	ai "slotbook/services/intelligence"
	"slotbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var secret = []byte("handler-secret")

// clock is 08:00 on 2030-01-10.
var clock = func() time.Time { return time.Date(2030, 1, 10, 8, 0, 0, 0, time.UTC) }

func init() {
	gin.SetMode(gin.TestMode)
	utils.Logger = zap.NewNop()
}

func newServer() *gin.Engine {
	logger := zap.NewNop()
	catalog := repository.NewMemoryCatalogRepo(repository.DefaultServices()...)
	svc := booking.NewBookingService(repository.NewMemorySchedulerRepo(), nil, logger, time.UTC)
	svc.Now = clock

	engine := &ai.Engine{
		Sessions:   ai.NewMemorySessionStore(30 * time.Minute).WithClock(clock),
		Locker:     ai.NewKeyedLocker(),
		Bookings:   svc,
		Catalog:    catalog,
		Extractor:  ai.NewKeywordExtractor(catalog),
		Classifier: ai.KeywordClassifier{},
		Phraser:    ai.TemplatePhraser{},
		FAQ:        ai.StaticFAQ{},
		Logger:     logger,
		Location:   time.UTC,
		Now:        clock,
	}

	assistant := handlers.NewAssistantHandler(engine, ai.StaticFAQ{}, logger)
	bookingHandler := handlers.NewBookingHandler(svc, catalog, logger)
	hb := &handlers.HandlerBundle{
		JWTSecret:                 secret,
		AssistantHandler:          assistant.HandleAssistant,
		FAQHandler:                assistant.HandleFAQ,
		ListServicesHandler:       bookingHandler.ListServices,
		AvailabilityHandler:       bookingHandler.Availability,
		BookHandler:               bookingHandler.Book,
		MyBookingsHandler:         bookingHandler.MyBookings,
		CancelBookingHandler:      bookingHandler.CancelBooking,
		AdminListBookingsHandler:  bookingHandler.AdminListBookings,
		AdminCancelBookingHandler: bookingHandler.CancelBooking,
	}

	r := gin.New()
	r.Use(utils.ErrorHandler())
	routes.RegisterRoutes(r, hb)
	return r
}

func token(t *testing.T, user, role string) string {
	t.Helper()
	tok, err := utils.GenerateToken(secret, user, role, time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return tok
}

func call(r http.Handler, method, path, tok string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBookAndConflict(t *testing.T) {
	r := newServer()
	alice := token(t, "alice", models.RoleUser)
	bob := token(t, "bob", models.RoleUser)

	w := call(r, http.MethodPost, "/api/book", "", models.BookingInput{Service: "Fade", Date: "2030-01-11", Time: "10:00"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	w = call(r, http.MethodPost, "/api/book", alice, models.BookingInput{Service: "fade", Date: "2030-01-11", Time: "10:00", Notes: "first visit"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var b models.Booking
	_ = json.Unmarshal(w.Body.Bytes(), &b)
	if b.Service != "Fade" || b.Slot != "10:00" || b.Notes == nil {
		t.Fatalf("unexpected booking %+v", b)
	}

	w = call(r, http.MethodPost, "/api/book", bob, models.BookingInput{Service: "Fade", Date: "2030-01-11", Time: "10:00"})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	var taken utils.ErrorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &taken)
	if taken.Message != "This service is already booked at that time" {
		t.Fatalf("unexpected service-taken message %q", taken.Message)
	}

	w = call(r, http.MethodPost, "/api/book", alice, models.BookingInput{Service: "Silk Press", Date: "2030-01-11", Time: "10:00"})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for a second booking at the same time, got %d", w.Code)
	}
	var double utils.ErrorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &double)
	if double.Message != "You already have a booking at this time" {
		t.Fatalf("unexpected double-booking message %q", double.Message)
	}

	w = call(r, http.MethodPost, "/api/book", bob, models.BookingInput{Service: "Fade", Date: "11/01/2030", Time: "10:00"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad date, got %d", w.Code)
	}

	w = call(r, http.MethodPost, "/api/book", bob, models.BookingInput{Service: "Perm", Date: "2030-01-11", Time: "10:00"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown service, got %d", w.Code)
	}

	w = call(r, http.MethodPost, "/api/book", bob, models.BookingInput{Service: "haircut", Date: "2030-01-11", Time: "12:00"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a partial service name, got %d", w.Code)
	}
}

func TestAvailabilityEndpoint(t *testing.T) {
	r := newServer()
	alice := token(t, "alice", models.RoleUser)
	call(r, http.MethodPost, "/api/book", alice, models.BookingInput{Service: "Fade", Date: "2030-01-11", Time: "09:00"})

	w := call(r, http.MethodGet, "/api/availability?service=Fade&date=2030-01-11&window=morning", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body struct {
		Slots []models.SlotAvailability `json:"slots"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if len(body.Slots) != 3 || body.Slots[0].Available || !body.Slots[1].Available {
		t.Fatalf("unexpected grid %+v", body.Slots)
	}

	w = call(r, http.MethodGet, "/api/availability?service=Fade", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without date, got %d", w.Code)
	}
}

func TestCancelAndAdminEndpoints(t *testing.T) {
	r := newServer()
	alice := token(t, "alice", models.RoleUser)
	bob := token(t, "bob", models.RoleUser)
	admin := token(t, "root", models.RoleAdmin)

	w := call(r, http.MethodPost, "/api/book", alice, models.BookingInput{Service: "Fade", Date: "2030-01-11", Time: "11:00"})
	var b models.Booking
	_ = json.Unmarshal(w.Body.Bytes(), &b)

	if w := call(r, http.MethodDelete, "/api/bookings/"+b.ID, bob, nil); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for another user's booking, got %d", w.Code)
	}
	if w := call(r, http.MethodGet, "/api/admin/bookings", alice, nil); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", w.Code)
	}

	w = call(r, http.MethodGet, "/api/admin/bookings?date=2030-01-11", admin, nil)
	var list struct {
		Bookings []models.Booking `json:"bookings"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if w.Code != http.StatusOK || len(list.Bookings) != 1 {
		t.Fatalf("expected one booking for admin, got %d %v", w.Code, list.Bookings)
	}

	w = call(r, http.MethodGet, "/api/my-bookings", alice, nil)
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if len(list.Bookings) != 1 || list.Bookings[0].ID != b.ID {
		t.Fatalf("expected alice's booking, got %v", list.Bookings)
	}

	if w := call(r, http.MethodDelete, "/api/admin/bookings/"+b.ID, admin, nil); w.Code != http.StatusOK {
		t.Fatalf("expected admin cancel to succeed, got %d", w.Code)
	}
	if w := call(r, http.MethodDelete, "/api/bookings/"+b.ID, alice, nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after cancellation, got %d", w.Code)
	}
}

func TestAssistantConversation(t *testing.T) {
	r := newServer()
	alice := token(t, "alice", models.RoleUser)

	w := call(r, http.MethodPost, "/api/assistant", "", models.AIRequest{Message: "book a fade tomorrow afternoon"})
	var resp models.AIResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if w.Code != http.StatusOK || resp.Phase != models.PhasePresentingSlots || resp.SessionID == "" {
		t.Fatalf("unexpected first turn %d %+v", w.Code, resp)
	}

	w = call(r, http.MethodPost, "/api/assistant", "", models.AIRequest{Query: "2pm", SessionID: resp.SessionID})
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Phase != models.PhaseAwaitingConfirmation {
		t.Fatalf("expected awaiting_confirmation, got %+v", resp)
	}

	w = call(r, http.MethodPost, "/api/assistant", alice, models.AIRequest{Message: "yes", SessionID: resp.SessionID})
	resp = models.AIResponse{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Phase != models.PhaseBooked || resp.Booking == nil || resp.Booking.Slot != "14:00" {
		t.Fatalf("expected booking at 14:00, got %+v", resp)
	}

	if w := call(r, http.MethodPost, "/api/assistant", "", models.AIRequest{}); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty message, got %d", w.Code)
	}
}

func TestPublicEndpoints(t *testing.T) {
	r := newServer()

	w := call(r, http.MethodGet, "/api/services", "", nil)
	var services struct {
		Services []models.Service `json:"services"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &services)
	if w.Code != http.StatusOK || len(services.Services) != len(repository.DefaultServices()) {
		t.Fatalf("unexpected services response %d", w.Code)
	}

	w = call(r, http.MethodPost, "/api/faq", "", models.FAQRequest{Question: "what time do you open?"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from faq, got %d", w.Code)
	}

	if w := call(r, http.MethodGet, "/health", "", nil); w.Code != http.StatusOK {
		t.Fatalf("expected 200 from health, got %d", w.Code)
	}
}
