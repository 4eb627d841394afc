package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/ministudy/examimport-go/pkg/examimport/dispatch"
	"github.com/ministudy/examimport-go/pkg/examimport/models"
	"github.com/sirupsen/logrus"
)

const (
	loginPath = "/api/v1/users/login"
	examsPath = "/api/v1/admin/exams"

	codeOK = 200
)

// AdminConfig configures an AdminClient.
type AdminConfig struct {
	BaseURL  string
	Username string // work number of an admin account
	Password string
	// HTTPClient defaults to a client with a 30s timeout.
	HTTPClient *http.Client
	Log        logrus.FieldLogger
}

// AdminClient submits exams to the admin API.
type AdminClient struct {
	baseURL  string
	username string
	password string
	client   *http.Client
	log      logrus.FieldLogger

	token   string
	expires time.Time
	now     func() time.Time
}

// NewAdminClient returns a client; call Login before Submit.
func NewAdminClient(cfg AdminConfig) *AdminClient {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	log := cfg.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &AdminClient{
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		username: cfg.Username,
		password: cfg.Password,
		client:   client,
		log:      log,
		now:      time.Now,
	}
}

// envelope is the response wrapper used by every admin endpoint.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Login exchanges the configured credentials for a bearer token.
func (c *AdminClient) Login(ctx context.Context) error {
	payload := map[string]string{
		"work_no":  c.username,
		"password": c.password,
	}
	env, err := c.post(ctx, "login", loginPath, payload, false)
	if err != nil {
		return err
	}

	var data struct {
		Token string `json:"token"`
	}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return fmt.Errorf("login: decode data: %w", err)
		}
	}
	if data.Token == "" {
		return &APIError{Op: "login", Status: http.StatusOK, Code: env.Code, Message: "empty token"}
	}

	c.token = data.Token
	c.expires = tokenExpiry(data.Token)
	if !c.expires.IsZero() && !c.expires.After(c.now()) {
		c.token = ""
		return &APIError{Op: "login", Status: http.StatusOK, Code: env.Code, Message: "token already expired"}
	}
	entry := c.log.WithField("user", c.username)
	if !c.expires.IsZero() {
		entry = entry.WithField("expires", c.expires.Format(time.RFC3339))
	}
	entry.Info("logged in")
	return nil
}

// tokenExpiry reads the exp claim without verifying the signature; the
// client only uses it to know when to log in again.
func tokenExpiry(token string) time.Time {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}

// Submit creates one exam. It logs in again first if the token has
// expired; the create request itself is sent once.
func (c *AdminClient) Submit(ctx context.Context, exam models.Exam) (models.Receipt, error) {
	if c.token == "" {
		return models.Receipt{}, ErrNotLoggedIn
	}
	if !c.expires.IsZero() && !c.expires.After(c.now()) {
		c.log.Info("token expired, logging in again")
		if err := c.Login(ctx); err != nil {
			return models.Receipt{}, err
		}
	}

	env, err := c.post(ctx, "create exam", examsPath, exam, true)
	if err != nil {
		return models.Receipt{}, err
	}

	var data struct {
		ID            json.RawMessage `json:"id"`
		QuestionCount *int            `json:"question_count"`
		TotalScore    *int            `json:"total_score"`
	}
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			c.log.WithError(err).Debug("unreadable create exam data")
		}
	}
	return models.Receipt{
		ID:            strings.Trim(string(data.ID), `"`),
		QuestionCount: data.QuestionCount,
		TotalScore:    data.TotalScore,
	}, nil
}

func (c *AdminClient) post(ctx context.Context, op, path string, payload interface{}, auth bool) (envelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return envelope{}, fmt.Errorf("%s: encode request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return envelope{}, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	req.Header.Set("X-Import-Run", dispatch.RunID(ctx))
	if auth {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return envelope{}, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return envelope{}, fmt.Errorf("%s: read response: %w", op, err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return envelope{}, &APIError{Op: op, Status: resp.StatusCode, Code: env.Code, Message: env.Message, Err: decodeErr}
	}
	if decodeErr != nil {
		return envelope{}, fmt.Errorf("%s: decode response: %w", op, decodeErr)
	}
	if env.Code != codeOK {
		return envelope{}, &APIError{Op: op, Status: resp.StatusCode, Code: env.Code, Message: env.Message}
	}
	return env, nil
}
