package controllers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"testing"

	"gainboard/internal/controllers"
	"gainboard/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func jsonBody(t *testing.T, payload map[string]interface{}) *bytes.Buffer {
	t.Helper()
	raw, err := json.Marshal(payload)
	assert.NoError(t, err)
	return bytes.NewBuffer(raw)
}

func TestRegisterUser(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		setupMocks     func(*MockUserRepository)
		expectedStatus int
	}{
		{
			name: "successful registration",
			requestBody: map[string]interface{}{
				"name":     "Ana",
				"email":    "ana@example.com",
				"password": "secret123",
			},
			setupMocks: func(repo *MockUserRepository) {
				repo.On("CreateUser", mock.AnythingOfType("*models.User")).Return(nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "repository failure",
			requestBody: map[string]interface{}{
				"name":     "Ana",
				"email":    "ana@example.com",
				"password": "secret123",
			},
			setupMocks: func(repo *MockUserRepository) {
				repo.On("CreateUser", mock.AnythingOfType("*models.User")).Return(errors.New("duplicate email"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			tt.setupMocks(repo)

			controller := controllers.NewUserController(repo)
			router := setupTestRouter()
			router.POST("/auth/register", controller.RegisterUser)

			w := performRequest(router, "POST", "/auth/register", jsonBody(t, tt.requestBody), "application/json")
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestRegisterUserMalformedBody(t *testing.T) {
	repo := new(MockUserRepository)
	controller := controllers.NewUserController(repo)
	router := setupTestRouter()
	router.POST("/auth/register", controller.RegisterUser)

	w := performRequest(router, "POST", "/auth/register", bytes.NewBufferString("{not json"), "application/json")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	repo.AssertNotCalled(t, "CreateUser", mock.Anything)
}

func TestRegisterUserForcesStudentRole(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("CreateUser", mock.MatchedBy(func(u *models.User) bool {
		return u.Role == models.RoleStudent
	})).Return(nil)

	controller := controllers.NewUserController(repo)
	router := setupTestRouter()
	router.POST("/auth/register", controller.RegisterUser)

	body := jsonBody(t, map[string]interface{}{
		"name":     "Sneaky",
		"email":    "sneaky@example.com",
		"password": "secret123",
		"role":     models.RoleTeacher,
	})
	w := performRequest(router, "POST", "/auth/register", body, "application/json")

	assert.Equal(t, http.StatusCreated, w.Code)
	repo.AssertExpectations(t)
}

func TestLogin(t *testing.T) {
	os.Setenv("JWT_SECRET_KEY", "test-secret-key")
	defer os.Unsetenv("JWT_SECRET_KEY")

	user := &models.User{Name: "Ana", Email: "ana@example.com", Password: "secret123", Role: models.RoleStudent}
	user.ID = 42

	repo := new(MockUserRepository)
	repo.On("GetUserByEmail", "ana@example.com").Return(user, nil)

	controller := controllers.NewUserController(repo)
	router := setupTestRouter()
	router.POST("/auth/login", controller.Login)

	body := jsonBody(t, map[string]interface{}{"email": "ana@example.com", "password": "secret123"})
	w := performRequest(router, "POST", "/auth/login", body, "application/json")

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	tokenString := response["data"].(string)
	assert.NotEmpty(t, tokenString)

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret-key"), nil
	})
	assert.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.EqualValues(t, 42, claims["user_id"])
	assert.Equal(t, "ana@example.com", claims["email"])
	assert.Equal(t, models.RoleStudent, claims["role"])
}

func TestLoginWrongPassword(t *testing.T) {
	user := &models.User{Email: "ana@example.com", Password: "secret123"}

	repo := new(MockUserRepository)
	repo.On("GetUserByEmail", "ana@example.com").Return(user, nil)

	controller := controllers.NewUserController(repo)
	router := setupTestRouter()
	router.POST("/auth/login", controller.Login)

	body := jsonBody(t, map[string]interface{}{"email": "ana@example.com", "password": "wrong"})
	w := performRequest(router, "POST", "/auth/login", body, "application/json")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("GetUserByEmail", "ghost@example.com").Return(nil, errors.New("record not found"))

	controller := controllers.NewUserController(repo)
	router := setupTestRouter()
	router.POST("/auth/login", controller.Login)

	body := jsonBody(t, map[string]interface{}{"email": "ghost@example.com", "password": "whatever"})
	w := performRequest(router, "POST", "/auth/login", body, "application/json")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetUserByID(t *testing.T) {
	user := &models.User{Name: "Ana", Email: "ana@example.com"}
	user.ID = 42

	repo := new(MockUserRepository)
	repo.On("GetUserByID", uint(42)).Return(user, nil)

	controller := controllers.NewUserController(repo)
	router := setupTestRouter()
	router.GET("/users/:id", controller.GetUserByID)

	w := performRequest(router, "GET", "/users/42", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	repo.On("GetUserByID", uint(99)).Return(nil, errors.New("record not found"))
	w = performRequest(router, "GET", "/users/99", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performRequest(router, "GET", "/users/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
