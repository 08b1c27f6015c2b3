package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/jhoicas/swarna-khata-api/internal/application/ports"
)

// Verificar en tiempo de compilación que FCMSender implementa PushSender.
var _ ports.PushSender = (*FCMSender)(nil)

const (
	fcmDefaultEndpoint = "https://fcm.googleapis.com"
	fcmScope           = "https://www.googleapis.com/auth/firebase.messaging"
	fcmTimeout         = 10 * time.Second
)

// FCMSender adaptador de Firebase Cloud Messaging (API HTTP v1) sobre net/http.
// La autenticación la pone httpClient (ver NewFCMSenderFromCredentials).
type FCMSender struct {
	projectID  string
	endpoint   string
	httpClient *http.Client
}

// NewFCMSender construye el adaptador sobre un cliente que ya agrega el bearer token.
// endpoint vacío = API pública de Google.
func NewFCMSender(projectID, endpoint string, httpClient *http.Client) *FCMSender {
	if endpoint == "" {
		endpoint = fcmDefaultEndpoint
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: fcmTimeout}
	}
	return &FCMSender{
		projectID:  projectID,
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: httpClient,
	}
}

// NewFCMSenderFromCredentials arma el adaptador con el JSON de una cuenta de servicio.
// Los access tokens se obtienen y renuevan solos antes de vencer. projectID vacío = el de
// las credenciales. ctx debe vivir tanto como el sender: se usa en cada renovación.
func NewFCMSenderFromCredentials(ctx context.Context, projectID, endpoint string, credentialsJSON []byte) (*FCMSender, error) {
	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, fcmScope)
	if err != nil {
		return nil, fmt.Errorf("push: credenciales FCM: %w", err)
	}
	if projectID == "" {
		projectID = creds.ProjectID
	}
	if projectID == "" {
		return nil, fmt.Errorf("push: FCM_PROJECT_ID no configurado y ausente en las credenciales")
	}
	client := oauth2.NewClient(ctx, creds.TokenSource)
	client.Timeout = fcmTimeout
	return NewFCMSender(projectID, endpoint, client), nil
}

// ── Estructuras del protocolo FCM v1 ──────────────────────────────────────────

type fcmRequest struct {
	Message fcmMessage `json:"message"`
}

type fcmMessage struct {
	Token   string            `json:"token"`
	Data    map[string]string `json:"data"`
	Android *fcmAndroid       `json:"android,omitempty"`
}

type fcmAndroid struct {
	Priority string `json:"priority"`
}

type fcmError struct {
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
		Details []struct {
			ErrorCode string `json:"errorCode"`
		} `json:"details"`
	} `json:"error"`
}

// Send envía un mensaje data-only; la app arma la notificación visible con type/title/message.
func (s *FCMSender) Send(ctx context.Context, msg ports.PushMessage) error {
	if s.projectID == "" {
		return fmt.Errorf("push: FCM_PROJECT_ID no configurado")
	}
	body, err := json.Marshal(fcmRequest{Message: fcmMessage{
		Token:   msg.Token,
		Data:    msg.Data,
		Android: &fcmAndroid{Priority: "high"},
	}})
	if err != nil {
		return fmt.Errorf("push: serializar mensaje: %w", err)
	}

	url := fmt.Sprintf("%s/v1/projects/%s/messages:send", s.endpoint, s.projectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("push: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("push: timeout o cancelación: %w", ctx.Err())
		}
		return fmt.Errorf("push: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return nil
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 16*1024))
	var fe fcmError
	if json.Unmarshal(raw, &fe) == nil && fe.Error != nil {
		for _, d := range fe.Error.Details {
			if d.ErrorCode == "UNREGISTERED" {
				return ports.ErrTokenUnregistered
			}
		}
		if fe.Error.Status == "NOT_FOUND" {
			return ports.ErrTokenUnregistered
		}
		return fmt.Errorf("push: FCM error (%s): %s", fe.Error.Status, fe.Error.Message)
	}
	return fmt.Errorf("push: FCM HTTP %d: %s", resp.StatusCode, string(raw))
}
