package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"auction-board/internal/auctionerrors"
	"auction-board/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// doRequest sends body (a raw string or a value to marshal) and decodes the envelope
func doRequest(t *testing.T, router http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]any
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

// Test UpsertBidHandler
func TestUpsertBidHandler(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()

	tests := []struct {
		name           string
		requestBody    any
		mockSetup      func(m *MockBidServiceInterface)
		expectedStatus int
		expectedMsg    string
		validateData   func(t *testing.T, data map[string]any)
	}{
		{
			name:        "success_new_bid",
			requestBody: `{"name":"Ann","amount":100}`,
			mockSetup: func(m *MockBidServiceInterface) {
				m.EXPECT().
					Upsert(gomock.Any(), "s1", models.BidInput{Name: "Ann", Amount: 100}).
					Return(models.Bid{ID: uuid.NewString(), SessionID: "s1", Name: "Ann", Amount: 100, CreatedAt: now, UpdatedAt: now}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "bid saved successfully",
			validateData: func(t *testing.T, data map[string]any) {
				_, err := uuid.Parse(data["id"].(string))
				require.NoError(t, err, "bid id should be a valid UUID")
				require.Equal(t, "Ann", data["name"])
				require.Equal(t, 100.0, data["amount"])
			},
		},
		{
			name:        "amount_as_numeric_string",
			requestBody: `{"id":"b1","name":"Ann","amount":"2500"}`,
			mockSetup: func(m *MockBidServiceInterface) {
				m.EXPECT().
					Upsert(gomock.Any(), "s1", models.BidInput{ID: "b1", Name: "Ann", Amount: 2500}).
					Return(models.Bid{ID: "b1", Name: "Ann", Amount: 2500}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "bid saved successfully",
			validateData: func(t *testing.T, data map[string]any) {
				require.Equal(t, 2500.0, data["amount"])
			},
		},
		{
			name:        "garbage_amount_becomes_zero",
			requestBody: `{"name":"Ann","amount":"lots"}`,
			mockSetup: func(m *MockBidServiceInterface) {
				m.EXPECT().
					Upsert(gomock.Any(), "s1", models.BidInput{Name: "Ann", Amount: 0}).
					Return(models.Bid{ID: "b2", Name: "Ann"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "bid saved successfully",
		},
		{
			name:           "invalid_json",
			requestBody:    `{invalid json}`,
			mockSetup:      func(m *MockBidServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "missing_name",
			requestBody:    `{"amount":10}`,
			mockSetup:      func(m *MockBidServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:        "blank_name",
			requestBody: `{"name":"   ","amount":10}`,
			mockSetup: func(m *MockBidServiceInterface) {
				m.EXPECT().
					Upsert(gomock.Any(), "s1", gomock.Any()).
					Return(models.Bid{}, fmt.Errorf("service: %w", auctionerrors.ErrEmptyName))
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "bidder name is required",
		},
		{
			name:        "duplicate_name",
			requestBody: `{"id":"b1","name":"Bob","amount":10}`,
			mockSetup: func(m *MockBidServiceInterface) {
				m.EXPECT().
					Upsert(gomock.Any(), "s1", gomock.Any()).
					Return(models.Bid{}, fmt.Errorf("service: %w", auctionerrors.ErrDuplicateName))
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "bidder name already used",
		},
		{
			name:        "store_unavailable",
			requestBody: `{"name":"Ann","amount":10}`,
			mockSetup: func(m *MockBidServiceInterface) {
				m.EXPECT().
					Upsert(gomock.Any(), "s1", gomock.Any()).
					Return(models.Bid{}, auctionerrors.StoreIO("save bid", errors.New("disk full")))
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedMsg:    "store unavailable",
		},
		{
			name:        "service_generic_error",
			requestBody: `{"name":"Ann","amount":10}`,
			mockSetup: func(m *MockBidServiceInterface) {
				m.EXPECT().
					Upsert(gomock.Any(), "s1", gomock.Any()).
					Return(models.Bid{}, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "internal server error",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			mockService := NewMockBidServiceInterface(ctrl)
			tc.mockSetup(mockService)

			router := gin.New()
			router.POST("/sessions/:session_id/bids", NewBidHandler(mockService).UpsertBidHandler)

			w, resp := doRequest(t, router, http.MethodPost, "/sessions/s1/bids", tc.requestBody)

			require.Equal(t, tc.expectedStatus, w.Code)
			require.Contains(t, resp["message"], tc.expectedMsg)

			if tc.validateData != nil {
				tc.validateData(t, resp["data"].(map[string]any))
			}
		})
	}
}

// Test ListBidsHandler
func TestListBidsHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		mockSetup      func(m *MockBidServiceInterface)
		expectedStatus int
		expectedMsg    string
		expectedCount  int
	}{
		{
			name: "ranked_bids",
			mockSetup: func(m *MockBidServiceInterface) {
				m.EXPECT().List(gomock.Any(), "s1").Return([]models.Bid{
					{ID: "b2", Name: "Bob", Amount: 300},
					{ID: "b1", Name: "Ann", Amount: 100},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "bids retrieved successfully",
			expectedCount:  2,
		},
		{
			name: "nil_list_is_empty_array",
			mockSetup: func(m *MockBidServiceInterface) {
				m.EXPECT().List(gomock.Any(), "s1").Return(nil, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "bids retrieved successfully",
			expectedCount:  0,
		},
		{
			name: "store_unavailable",
			mockSetup: func(m *MockBidServiceInterface) {
				m.EXPECT().List(gomock.Any(), "s1").Return(nil, auctionerrors.StoreIO("list bids", errors.New("timeout")))
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedMsg:    "store unavailable",
			expectedCount:  -1,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			mockService := NewMockBidServiceInterface(ctrl)
			tc.mockSetup(mockService)

			router := gin.New()
			router.GET("/sessions/:session_id/bids", NewBidHandler(mockService).ListBidsHandler)

			w, resp := doRequest(t, router, http.MethodGet, "/sessions/s1/bids", nil)

			require.Equal(t, tc.expectedStatus, w.Code)
			require.Contains(t, resp["message"], tc.expectedMsg)

			if tc.expectedCount >= 0 {
				data, ok := resp["data"].([]any)
				require.True(t, ok, "data should be an array")
				require.Len(t, data, tc.expectedCount)
			}
		})
	}
}

// Test DeleteBidHandler and ResetBidsHandler
func TestDeleteAndResetBidHandlers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		method         string
		path           string
		mockSetup      func(m *MockBidServiceInterface)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:   "delete_success",
			method: http.MethodDelete,
			path:   "/sessions/s1/bids/b1",
			mockSetup: func(m *MockBidServiceInterface) {
				m.EXPECT().Delete(gomock.Any(), "s1", "b1").Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "bid deleted successfully",
		},
		{
			name:   "delete_store_error",
			method: http.MethodDelete,
			path:   "/sessions/s1/bids/b1",
			mockSetup: func(m *MockBidServiceInterface) {
				m.EXPECT().Delete(gomock.Any(), "s1", "b1").Return(auctionerrors.StoreIO("delete bid", errors.New("locked")))
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedMsg:    "store unavailable",
		},
		{
			name:   "reset_success",
			method: http.MethodDelete,
			path:   "/sessions/s1/bids",
			mockSetup: func(m *MockBidServiceInterface) {
				m.EXPECT().ResetAll(gomock.Any(), "s1").Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "bids reset successfully",
		},
		{
			name:   "reset_generic_error",
			method: http.MethodDelete,
			path:   "/sessions/s1/bids",
			mockSetup: func(m *MockBidServiceInterface) {
				m.EXPECT().ResetAll(gomock.Any(), "s1").Return(errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "internal server error",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			mockService := NewMockBidServiceInterface(ctrl)
			tc.mockSetup(mockService)

			handler := NewBidHandler(mockService)
			router := gin.New()
			router.DELETE("/sessions/:session_id/bids", handler.ResetBidsHandler)
			router.DELETE("/sessions/:session_id/bids/:bid_id", handler.DeleteBidHandler)

			w, resp := doRequest(t, router, tc.method, tc.path, nil)

			require.Equal(t, tc.expectedStatus, w.Code)
			require.Contains(t, resp["message"], tc.expectedMsg)
		})
	}
}

// Test SummaryHandler
func TestSummaryHandler(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	mockService := NewMockBidServiceInterface(ctrl)
	mockService.EXPECT().Summary(gomock.Any(), "s1").Return(models.BidSummary{
		Count:      3,
		Total:      600,
		Highest:    300,
		LeaderName: "Bob",
	}, nil)

	router := gin.New()
	router.GET("/sessions/:session_id/summary", NewBidHandler(mockService).SummaryHandler)

	w, resp := doRequest(t, router, http.MethodGet, "/sessions/s1/summary", nil)

	require.Equal(t, http.StatusOK, w.Code)
	data := resp["data"].(map[string]any)
	require.Equal(t, 3.0, data["count"])
	require.Equal(t, 600.0, data["total"])
	require.Equal(t, 300.0, data["highest"])
	require.Equal(t, "Bob", data["leader_name"])
}
