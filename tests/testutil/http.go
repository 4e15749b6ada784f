package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/travel/backend/internal/domain/identity"
	"github.com/travel/backend/internal/infrastructure/auth"
	"github.com/travel/backend/internal/interfaces/http/dto"
)

// APIClient sends authenticated requests straight into an http.Handler
type APIClient struct {
	t       *testing.T
	handler http.Handler
	token   string
}

// NewAPIClient issues an access token for principal and returns a client using it.
// A nil principal sends no Authorization header.
func NewAPIClient(t *testing.T, handler http.Handler, jwtService *auth.JWTService, principal *identity.Principal) *APIClient {
	t.Helper()
	c := &APIClient{t: t, handler: handler}
	if principal != nil {
		token, _, err := jwtService.GenerateAccessToken(auth.GenerateTokenInput{
			UserID:       principal.ID,
			Role:         principal.Role,
			OfficeID:     principal.OfficeID,
			IsSuperAdmin: principal.IsSuperAdmin,
		})
		require.NoError(t, err)
		c.token = token
	}
	return c
}

// Do sends body as JSON. A string body is sent verbatim.
func (c *APIClient) Do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(c.t, err, "Failed to marshal request body")
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.serve(req)
}

// Upload sends data as the named multipart file field
func (c *APIClient) Upload(path, field, filename string, data []byte) *httptest.ResponseRecorder {
	c.t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(c.t, err)
	_, err = part.Write(data)
	require.NoError(c.t, err)
	require.NoError(c.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.serve(req)
}

func (c *APIClient) serve(req *http.Request) *httptest.ResponseRecorder {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	return rec
}

// DecodeResponse decodes the response envelope and its data into T
func DecodeResponse[T any](t *testing.T, rec *httptest.ResponseRecorder) (T, dto.Response) {
	t.Helper()

	var envelope struct {
		dto.Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope), "body: %s", rec.Body.String())

	var data T
	if len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		require.NoError(t, json.Unmarshal(envelope.Data, &data))
	}
	return data, envelope.Response
}

// RequireStatus fails with the response body when the status differs
func RequireStatus(t *testing.T, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, rec.Code, "body: %s", rec.Body.String())
}

// ErrorOf decodes the error part of a failed response
func ErrorOf(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorInfo {
	t.Helper()
	_, resp := DecodeResponse[json.RawMessage](t, rec)
	require.NotNil(t, resp.Error, "body: %s", rec.Body.String())
	return *resp.Error
}
