package web

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bigredeye/coursesapi/internal/config"
	"github.com/bigredeye/coursesapi/internal/database"
	"github.com/bigredeye/coursesapi/internal/seed"
)

type testEnv struct {
	engine *gin.Engine
	db     *database.DataBase
	seeder *seed.Seeder
}

func newTestEnv(t *testing.T, tweaks ...func(conf *config.Config)) *testEnv {
	t.Helper()

	conf := config.Default()
	conf.DataBase.Path = filepath.Join(t.TempDir(), "courses.db")
	for _, tweak := range tweaks {
		tweak(conf)
	}

	logger := zap.NewNop()
	db, err := database.OpenDataBase(logger, conf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate())

	engine, err := NewEngine(conf, logger, db)
	require.NoError(t, err)

	return &testEnv{
		engine: engine,
		db:     db,
		seeder: seed.NewSeeder(db, logger),
	}
}

// do sends body as JSON unless it is a string, which is sent verbatim.
func (e *testEnv) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
		reader = http.NoBody
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", gin.MIMEJSON)
	}

	rec := httptest.NewRecorder()
	e.engine.ServeHTTP(rec, req)
	return rec
}

// doMultipart sends fields as multipart/form-data, keeping the order of
// repeated values.
func (e *testEnv) doMultipart(t *testing.T, method, path string, fields url.Values) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, values := range fields {
		for _, value := range values {
			require.NoError(t, writer.WriteField(key, value))
		}
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := httptest.NewRecorder()
	e.engine.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var res T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res), rec.Body.String())
	return res
}
