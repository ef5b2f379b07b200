package googleauth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kirillkom/recruitment-docverify/internal/core/domain"
)

func testServiceAccountJSON(t *testing.T) string {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("marshal key: %v", err)
	}
	pemKey := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})

	raw, err := json.Marshal(map[string]string{
		"type":           "service_account",
		"client_email":   "ocr@example.iam.gserviceaccount.com",
		"private_key":    string(pemKey),
		"private_key_id": "kid-1",
	})
	if err != nil {
		t.Fatalf("marshal service account: %v", err)
	}
	return string(raw)
}

func newTokenServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != "urn:ietf:params:oauth:grant-type:jwt-bearer" {
			t.Fatalf("unexpected grant type %q", got)
		}
		if strings.Count(r.PostForm.Get("assertion"), ".") != 2 {
			t.Fatalf("expected signed JWT assertion, got %q", r.PostForm.Get("assertion"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestTokenExchangesBase64Credential(t *testing.T) {
	server := newTokenServer(t, http.StatusOK, `{"access_token":"ya29.token","token_type":"Bearer","expires_in":3600}`)
	defer server.Close()

	credential := base64.StdEncoding.EncodeToString([]byte(testServiceAccountJSON(t)))
	provider := New(credential, Options{TokenURL: server.URL})

	token, err := provider.Token(context.Background())
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if token != "ya29.token" {
		t.Fatalf("expected ya29.token, got %q", token)
	}
}

func TestTokenAcceptsRawJSONCredential(t *testing.T) {
	server := newTokenServer(t, http.StatusOK, `{"access_token":"raw-token","token_type":"Bearer","expires_in":3600}`)
	defer server.Close()

	provider := New(testServiceAccountJSON(t), Options{TokenURL: server.URL})
	token, err := provider.Token(context.Background())
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if token != "raw-token" {
		t.Fatalf("expected raw-token, got %q", token)
	}
}

func TestTokenMissingCredentialIsConfigurationError(t *testing.T) {
	_, err := New("  ", Options{}).Token(context.Background())
	if !domain.IsKind(err, domain.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestTokenRejectedExchangeIsAuthError(t *testing.T) {
	server := newTokenServer(t, http.StatusUnauthorized, `{"error":"invalid_grant"}`)
	defer server.Close()

	provider := New(testServiceAccountJSON(t), Options{TokenURL: server.URL})
	_, err := provider.Token(context.Background())
	if !domain.IsKind(err, domain.ErrAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
}
