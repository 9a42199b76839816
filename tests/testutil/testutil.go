// Package testutil holds helpers shared by the food ordering tests: a
// sqlmock-backed GORM handle, gin contexts carrying an authenticated
// principal, API envelope decoding and an event recorder.
package testutil

import (
	"database/sql"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/foodorder/backend/internal/domain/access"
	"github.com/foodorder/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockDB is a GORM handle speaking the postgres dialect to sqlmock
type MockDB struct {
	DB    *gorm.DB
	Mock  sqlmock.Sqlmock
	SqlDB *sql.DB
}

// NewMockDB opens a MockDB that is closed when the test ends. Unmet
// expectations are reported by ExpectationsWereMet, not on cleanup.
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err, "failed to create sqlmock")
	t.Cleanup(func() { _ = sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       sqlDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err, "failed to open GORM over sqlmock")

	return &MockDB{DB: gormDB, Mock: mock, SqlDB: sqlDB}
}

// ExpectationsWereMet fails the test when a queued expectation was not hit
func (m *MockDB) ExpectationsWereMet(t *testing.T) {
	t.Helper()
	require.NoError(t, m.Mock.ExpectationsWereMet(), "unmet database expectations")
}

// TestContext is a gin context wired to a response recorder
type TestContext struct {
	Context  *gin.Context
	Recorder *httptest.ResponseRecorder
}

// NewTestContext builds a context for a request to target. A non-nil body
// is sent as JSON.
func NewTestContext(t *testing.T, method, target string, body io.Reader) *TestContext {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, body)
	if body != nil {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	return &TestContext{Context: c, Recorder: w}
}

// SetPrincipal stores p the way the JWT middleware does
func (tc *TestContext) SetPrincipal(p access.Principal) {
	tc.Context.Set(middleware.PrincipalKey, p)
	tc.Context.Set(middleware.UserIDKey, p.ID.String())
}

// SetParam sets a path parameter
func (tc *TestContext) SetParam(key, value string) {
	tc.Context.Params = append(tc.Context.Params, gin.Param{Key: key, Value: value})
}

// NewTestUUID derives a stable UUID from seed
func NewTestUUID(seed string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("foodorder-test:"+seed))
}

// AdminPrincipal, ManagerPrincipal and MemberPrincipal build principals with
// distinct stable IDs so ownership checks can tell them apart.
func AdminPrincipal(country access.Country) access.Principal {
	return access.NewPrincipal(NewTestUUID("admin-"+string(country)), access.RoleAdmin, country)
}

func ManagerPrincipal(country access.Country) access.Principal {
	return access.NewPrincipal(NewTestUUID("manager-"+string(country)), access.RoleManager, country)
}

func MemberPrincipal(country access.Country) access.Principal {
	return access.NewPrincipal(NewTestUUID("member-"+string(country)), access.RoleMember, country)
}
