package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/safar/ekart/internal/database"
	"github.com/safar/ekart/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	customer := &models.Customer{ID: 1, Name: "A", Email: "a@x.com"}

	testCases := []struct {
		name               string
		body               string
		err                error
		expectedStatusCode int
		checkResponse      func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name:               "Created",
			body:               `{"name":"A","email":"a@x.com","password":"pw"}`,
			expectedStatusCode: http.StatusCreated,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp map[string]any
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, "a@x.com", resp["email"])
				assert.NotContains(t, resp, "password")
				assert.NotContains(t, resp, "password_hash")
			},
		},
		{
			name:               "Duplicate email",
			body:               `{"name":"A","email":"a@x.com","password":"pw"}`,
			err:                database.ErrEmailTaken,
			expectedStatusCode: http.StatusConflict,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp map[string]string
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, "user already exists", resp["error"])
			},
		},
		{
			name:               "Missing password",
			body:               `{"name":"A","email":"a@x.com"}`,
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:               "Malformed email",
			body:               `{"name":"A","email":"not-an-email","password":"pw"}`,
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:               "Malformed JSON",
			body:               `{"name":`,
			expectedStatusCode: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mock := &MockCustomerService{Customer: customer, Err: tc.err}
			router := newTestRouter(Services{Customers: mock})

			rec := performRequest(router, http.MethodPost, "/users", tc.body)

			assert.Equal(t, tc.expectedStatusCode, rec.Code, rec.Body.String())
			if tc.checkResponse != nil {
				tc.checkResponse(t, rec)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	customer := &models.Customer{ID: 1, Name: "A", Email: "a@x.com"}

	mock := &MockCustomerService{Customer: customer}
	router := newTestRouter(Services{Customers: mock})

	rec := performRequest(router, http.MethodPost, "/sessions", `{"email":"a@x.com","password":"pw"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a@x.com", mock.lastRegister.Email)

	mock.Err = database.ErrInvalidCredentials
	rec = performRequest(router, http.MethodPost, "/sessions", `{"email":"a@x.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = performRequest(router, http.MethodPost, "/sessions", `{"email":"a@x.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateUserPatch(t *testing.T) {
	customer := &models.Customer{ID: 7, Name: "A", Email: "a@x.com"}
	mock := &MockCustomerService{Customer: customer}
	router := newTestRouter(Services{Customers: mock})

	rec := performRequest(router, http.MethodPatch, "/users/7", `{"phone":"555-0100"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.EqualValues(t, 7, mock.lastID)
	require.NotNil(t, mock.lastPatch.Phone)
	assert.Equal(t, "555-0100", *mock.lastPatch.Phone)
	assert.Nil(t, mock.lastPatch.Name)
	assert.Nil(t, mock.lastPatch.Email)
	assert.Nil(t, mock.lastPatch.Password)
}

func TestUserNotFound(t *testing.T) {
	mock := &MockCustomerService{Err: database.ErrUserNotFound}
	router := newTestRouter(Services{Customers: mock})

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		rec := performRequest(router, method, "/users/42", "")
		assert.Equal(t, http.StatusNotFound, rec.Code, method)
	}

	rec := performRequest(router, http.MethodGet, "/users/forty-two", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
