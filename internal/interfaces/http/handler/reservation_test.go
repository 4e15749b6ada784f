package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	reservationapp "github.com/travel/backend/internal/application/reservation"
	"github.com/travel/backend/internal/domain/shared"
	"github.com/travel/backend/internal/interfaces/http/dto"
)

const createBody = `{
	"client": {"name": "Ana", "email": "ana@example.com"},
	"paymentOption": "installments",
	"totalAmount": "1200.00",
	"installments": [{"amount": "600.00", "dueDate": "2026-11-01"}]
}`

func setupReservationRouter(service *MockReservationUseCases) http.Handler {
	router := setupTestRouter(testPrincipal())
	NewReservationHandler(service).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestReservationHandler_Create_Success(t *testing.T) {
	service := new(MockReservationUseCases)
	service.On("Create", mock.Anything, testPrincipal(), mock.MatchedBy(func(p *reservationapp.ReservationPayload) bool {
		return p.Client != nil && p.Client.Email == "ana@example.com" &&
			p.PaymentOption == "installments" && len(p.Installments) == 1
	})).Return(int64(31), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(createBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	setupReservationRouter(service).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.EqualValues(t, 31, resp.Data.(map[string]any)["id"])
	service.AssertExpectations(t)
}

func TestReservationHandler_Create_InvalidJSON(t *testing.T) {
	service := new(MockReservationUseCases)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	setupReservationRouter(service).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(shared.KindInvalidArgument), resp.Error.Kind)
	assert.NotEmpty(t, resp.Error.RequestID)
	service.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestReservationHandler_Create_EmptyBody(t *testing.T) {
	service := new(MockReservationUseCases)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", nil)
	w := httptest.NewRecorder()
	setupReservationRouter(service).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidJSON, decodeResponse(t, w).Error.Code)
}

func TestReservationHandler_Update_DropsInstallments(t *testing.T) {
	service := new(MockReservationUseCases)
	service.On("Update", mock.Anything, testPrincipal(), int64(5), mock.MatchedBy(func(p *reservationapp.ReservationPayload) bool {
		return len(p.Installments) == 0 && p.Client.Email == "ana@example.com"
	})).Return(nil)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/reservations/5", strings.NewReader(createBody))
	w := httptest.NewRecorder()
	setupReservationRouter(service).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	service.AssertExpectations(t)
}

func TestReservationHandler_InvalidID(t *testing.T) {
	service := new(MockReservationUseCases)
	router := setupReservationRouter(service)

	for _, target := range []string{
		"/api/v1/reservations/abc",
		"/api/v1/reservations/0",
		"/api/v1/reservations/-4",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.Equal(t, dto.ErrCodeInvalidID, decodeResponse(t, w).Error.Code, target)
	}
}

func TestReservationHandler_ErrorKinds(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		status    int
		kind      string
		code      string
		retryable bool
	}{
		{"not found", shared.NewNotFoundError("reservation", 9), http.StatusNotFound, "NOT_FOUND", "NOT_FOUND", false},
		{"forbidden", shared.NewForbiddenError("role not allowed", "gestor", "administrador"), http.StatusForbidden, "FORBIDDEN", "FORBIDDEN", false},
		{"invalid state", shared.NewInvalidStateError("reservation is not pending"), http.StatusConflict, "CONFLICT", "INVALID_STATE", false},
		{"conflict", shared.NewConflictError("invoice number taken"), http.StatusConflict, "CONFLICT", "CONFLICT", true},
		{"internal", errors.New("connection reset by peer"), http.StatusInternalServerError, "INTERNAL", "INTERNAL", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockReservationUseCases)
			service.On("Approve", mock.Anything, mock.Anything, int64(9)).Return(nil, tt.err)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations/9/approve", nil)
			w := httptest.NewRecorder()
			setupReservationRouter(service).ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			resp := decodeResponse(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.kind, resp.Error.Kind)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, tt.retryable, resp.Error.Retryable)
			assert.NotContains(t, resp.Error.Message, "connection reset")
		})
	}
}

func TestReservationHandler_Forbidden_ListsRequiredRoles(t *testing.T) {
	service := new(MockReservationUseCases)
	service.On("Reject", mock.Anything, mock.Anything, int64(3)).
		Return(shared.NewForbiddenError("role not allowed", "gestor", "administrador"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations/3/reject", nil)
	w := httptest.NewRecorder()
	setupReservationRouter(service).ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.ElementsMatch(t, []string{"gestor", "administrador"}, decodeResponse(t, w).Error.RequiredRoles)
}

func TestReservationHandler_Approve_Success(t *testing.T) {
	service := new(MockReservationUseCases)
	service.On("Approve", mock.Anything, testPrincipal(), int64(9)).Return(&reservationapp.ApproveResult{
		Reservation:   &reservationapp.ReservationResponse{ID: 9, Status: "confirmed"},
		InvoiceNumber: 1001,
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations/9/approve", nil)
	w := httptest.NewRecorder()
	setupReservationRouter(service).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]any)
	assert.EqualValues(t, 1001, data["invoice_number"])
}

func TestReservationHandler_Get(t *testing.T) {
	service := new(MockReservationUseCases)
	service.On("Get", mock.Anything, testPrincipal(), int64(4)).
		Return(&reservationapp.ReservationResponse{ID: 4, Status: "pending"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations/4", nil)
	w := httptest.NewRecorder()
	setupReservationRouter(service).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]any)
	assert.EqualValues(t, 4, data["id"])
	assert.Equal(t, "pending", data["status"])
}

func TestReservationHandler_Delete(t *testing.T) {
	service := new(MockReservationUseCases)
	service.On("Delete", mock.Anything, testPrincipal(), int64(4)).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/reservations/4", nil)
	w := httptest.NewRecorder()
	setupReservationRouter(service).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	service.AssertExpectations(t)
}

func TestReservationHandler_List(t *testing.T) {
	service := new(MockReservationUseCases)
	service.On("List", mock.Anything, testPrincipal(), reservationapp.ListReservationsRequest{
		Status:   "pending",
		Search:   "ana",
		Page:     2,
		PageSize: 10,
	}).Return(&shared.Paginated[reservationapp.ReservationResponse]{
		Items:      []reservationapp.ReservationResponse{{ID: 11}, {ID: 12}},
		Total:      12,
		Page:       2,
		PageSize:   10,
		TotalPages: 2,
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations?status=pending&search=ana&page=2&page_size=10", nil)
	w := httptest.NewRecorder()
	setupReservationRouter(service).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.EqualValues(t, 12, resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.TotalPages)
	assert.Len(t, resp.Data, 2)
}

func TestReservationHandler_List_BadQuery(t *testing.T) {
	service := new(MockReservationUseCases)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations?page=two", nil)
	w := httptest.NewRecorder()
	setupReservationRouter(service).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReservationHandler_Unauthenticated(t *testing.T) {
	service := new(MockReservationUseCases)
	service.On("Get", mock.Anything, mock.Anything, int64(4)).
		Return(nil, shared.ErrUnauthenticated)

	router := setupTestRouter(nil)
	NewReservationHandler(service).RegisterRoutes(router.Group("/api/v1"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations/4", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
