package create_bookings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/itvlab/lab-scheduler/internal/domain"
	createBookings "github.com/itvlab/lab-scheduler/internal/usecase/create_bookings"
	"github.com/itvlab/lab-scheduler/pkg/types"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *createBookings.Request) (*createBookings.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*createBookings.Response)
	return resp, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const validBody = `{
	"user_name": "Ana",
	"user_email": "ana@lab.br",
	"coordinator_name": "Prof. Silva",
	"slots": [{"room_id": 1, "booking_date": "2024-05-14", "period": "Manhã"}]
}`

func do(h *Handler, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Handle(w, r)
	return w
}

func TestHandle_Created(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *createBookings.Request) bool {
		return req.UserName == "Ana" &&
			*req.CoordinatorName == "Prof. Silva" &&
			len(req.Slots) == 1 &&
			req.Slots[0].Date == "2024-05-14" &&
			req.Slots[0].Period == "Manhã"
	})).Return(&createBookings.Response{
		Bookings: []createBookings.BookedSlot{{
			ID: 10, RoomID: 1, RoomName: "Geral 1",
			Date: types.MustParseDate("2024-05-14"), Period: domain.PeriodMorning,
		}},
		NotificationSent: false,
		Warning:          "e-mail não enviado",
	}, nil).Once()

	w := do(NewHandler(uc, nopLogger{}), validBody)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp CreateBookingsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, msgCreated, resp.Message)
	assert.False(t, resp.NotificationSent)
	assert.Equal(t, "e-mail não enviado", resp.Warning)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, BookingResponse{ID: 10, RoomID: 1, RoomName: "Geral 1", BookingDate: "2024-05-14", Period: "Manhã"}, resp.Bookings[0])
	uc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid input", &createBookings.ValidationError{Kind: createBookings.ErrInvalidInput, Reason: "E-mail inválido."}, http.StatusBadRequest},
		{"window closed", &createBookings.ValidationError{Kind: createBookings.ErrWindowClosed, Reason: "encerrou"}, http.StatusBadRequest},
		{"room not found", &createBookings.ValidationError{Kind: createBookings.ErrRoomNotFound, Reason: "Sala com ID 99 não encontrada."}, http.StatusNotFound},
		{"quota", &createBookings.ValidationError{Kind: createBookings.ErrQuotaExceeded, Reason: "Limite"}, http.StatusConflict},
		{"general room", &createBookings.ValidationError{Kind: createBookings.ErrCategoryConflict, Reason: "Geral"}, http.StatusConflict},
		{"slot taken", &createBookings.ValidationError{Kind: createBookings.ErrSlotTaken, Reason: "ocupada"}, http.StatusConflict},
		{"persistence", fmt.Errorf("%w: disk full", createBookings.ErrPersistence), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := do(NewHandler(uc, nopLogger{}), validBody)

			assert.Equal(t, tt.status, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, createBookings.UserMessage(tt.err), body["error"])
		})
	}
}

func TestHandle_InvalidBody(t *testing.T) {
	uc := &mockUseCase{}
	h := NewHandler(uc, nopLogger{})

	for _, body := range []string{`{`, `{"user_name":"Ana","unknown":1}`, `[]`} {
		w := do(h, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Contains(t, w.Body.String(), msgInvalidRequestBody)
	}
	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestHandle_UnexpectedError(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	w := do(NewHandler(uc, nopLogger{}), validBody)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandle_PersistenceFailureHasDetails(t *testing.T) {
	uc := &mockUseCase{}
	err := fmt.Errorf("%w: database is locked", createBookings.ErrPersistence)
	uc.On("Execute", mock.Anything, mock.Anything).Return(nil, err)

	w := do(NewHandler(uc, nopLogger{}), validBody)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, createBookings.UserMessage(err), body["error"])
	assert.Equal(t, msgRolledBack, body["details"])
	assert.NotContains(t, w.Body.String(), "database is locked")
}
