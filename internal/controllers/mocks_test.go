package controllers_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gainboard/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) SaveSubmission(submission *models.Submission) error {
	args := m.Called(submission)
	return args.Error(0)
}

func (m *MockSubmissionRepository) GetSubmissionsByUserAndCompetition(userID, competitionID uint) ([]models.Submission, error) {
	args := m.Called(userID, competitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) GetSubmissionsByCompetition(competitionID uint) ([]models.Submission, error) {
	args := m.Called(competitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) GetSubmissionsByCompetitionPaged(competitionID uint, limit, offset int) ([]models.Submission, int64, error) {
	args := m.Called(competitionID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Submission), args.Get(1).(int64), args.Error(2)
}

func (m *MockSubmissionRepository) FindEarliestByFingerprint(userID, competitionID uint, fingerprint string) (*models.Submission, error) {
	args := m.Called(userID, competitionID, fingerprint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) CountByUserAndCompetition(userID, competitionID uint) (int64, error) {
	args := m.Called(userID, competitionID)
	return args.Get(0).(int64), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) DeleteUser(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

type MockCompetitionRepository struct {
	mock.Mock
}

func (m *MockCompetitionRepository) CreateCompetition(competition *models.Competition) error {
	args := m.Called(competition)
	return args.Error(0)
}

func (m *MockCompetitionRepository) GetCompetitionByID(id uint) (*models.Competition, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Competition), args.Error(1)
}

func (m *MockCompetitionRepository) GetCompetitionByName(name string) (*models.Competition, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Competition), args.Error(1)
}

func (m *MockCompetitionRepository) ListCompetitions() ([]models.Competition, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Competition), args.Error(1)
}

// Test helper functions
func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func addAuthMiddleware(userID uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("email", "test@example.com")
		c.Set("role", role)
		c.Next()
	}
}

const testMasterCSV = "id,clase_binaria\n1,0\n2,1\n3,0\n4,1\n"

func storedCompetition(t *testing.T) *models.Competition {
	t.Helper()
	comp := &models.Competition{
		Name:            "churn-2026",
		Deadline:        time.Now().UTC().Add(24 * time.Hour),
		ResultsRevealAt: time.Now().UTC().Add(72 * time.Hour),
		DatasetVersion:  "v1",
		MasterData:      []byte(testMasterCSV),
		GainMatrix:      `{"tp":1,"tn":0.5,"fp":-0.1,"fn":-0.5}`,
		Thresholds:      `[{"min_gain":2,"category":"good","message":"Nice work"},{"min_gain":0,"category":"basic","message":"Keep trying"}]`,
	}
	comp.ID = 7
	return comp
}

func multipartUpload(t *testing.T, fields map[string]string, fileField, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatal(err)
		}
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, filename)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatal(err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	return body, writer.FormDataContentType()
}

func performRequest(router *gin.Engine, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, body)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
