package push_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/jhoicas/swarna-khata-api/internal/application/ports"
	"github.com/jhoicas/swarna-khata-api/internal/infrastructure/push"
)

// bearer cliente HTTP que agrega un token fijo, como lo haría oauth2.
func bearer(token string) *http.Client {
	return oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
}

func TestFCMSender_EnviaMensajeDataOnly(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/projects/khata-prod/messages:send", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"name":"projects/khata-prod/messages/1"}`))
	}))
	defer srv.Close()

	s := push.NewFCMSender("khata-prod", srv.URL, bearer("tok"))
	err := s.Send(context.Background(), ports.PushMessage{
		Token: "device-1",
		Data:  map[string]string{"type": "LOW_STOCK", "shopId": "shop-1"},
	})
	require.NoError(t, err)

	msg := got["message"].(map[string]any)
	assert.Equal(t, "device-1", msg["token"])
	assert.Equal(t, "LOW_STOCK", msg["data"].(map[string]any)["type"])
}

func TestFCMSender_TokenNoRegistrado(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":404,"message":"Requested entity was not found.","status":"NOT_FOUND",
			"details":[{"@type":"type.googleapis.com/google.firebase.fcm.v1.FcmError","errorCode":"UNREGISTERED"}]}}`))
	}))
	defer srv.Close()

	err := push.NewFCMSender("p", srv.URL, bearer("tok")).Send(context.Background(), ports.PushMessage{Token: "x"})
	assert.ErrorIs(t, err, ports.ErrTokenUnregistered)
}

func TestFCMSender_OtrosErrores(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":401,"message":"bad token","status":"UNAUTHENTICATED"}}`))
	}))
	defer srv.Close()

	err := push.NewFCMSender("p", srv.URL, bearer("tok")).Send(context.Background(), ports.PushMessage{Token: "x"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ports.ErrTokenUnregistered)
	assert.Contains(t, err.Error(), "UNAUTHENTICATED")

	err = push.NewFCMSender("", "", nil).Send(context.Background(), ports.PushMessage{})
	assert.Error(t, err)
}

func serviceAccountJSON(t *testing.T, tokenURI string) []byte {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	raw, err := json.Marshal(map[string]string{
		"type":           "service_account",
		"project_id":     "khata-prod",
		"private_key_id": "key-1",
		"private_key":    string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})),
		"client_email":   "push@khata-prod.iam.gserviceaccount.com",
		"client_id":      "1",
		"token_uri":      tokenURI,
	})
	require.NoError(t, err)
	return raw
}

func TestFCMSenderFromCredentials_ObtieneTokenDeLaCuentaDeServicio(t *testing.T) {
	var minted atomic.Int32
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "urn:ietf:params:oauth:grant-type:jwt-bearer", r.PostForm.Get("grant_type"))
		assert.NotEmpty(t, r.PostForm.Get("assertion"))
		minted.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"minted-1","token_type":"Bearer","expires_in":3600}`))
	}))
	defer tokenSrv.Close()

	var auth, path string
	fcmSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth, path = r.Header.Get("Authorization"), r.URL.Path
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer fcmSrv.Close()

	s, err := push.NewFCMSenderFromCredentials(context.Background(), "", fcmSrv.URL, serviceAccountJSON(t, tokenSrv.URL))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		require.NoError(t, s.Send(context.Background(), ports.PushMessage{Token: "device-1"}))
	}
	assert.Equal(t, "Bearer minted-1", auth)
	assert.Equal(t, "/v1/projects/khata-prod/messages:send", path)
	assert.Equal(t, int32(1), minted.Load(), "el token se reutiliza hasta que vence")
}

func TestFCMSenderFromCredentials_JSONInvalido(t *testing.T) {
	_, err := push.NewFCMSenderFromCredentials(context.Background(), "p", "", []byte(`{`))
	assert.Error(t, err)
}
