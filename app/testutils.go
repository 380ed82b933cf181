package main

import (
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/sushihentaime/inkpot/internal/blogservice"
	"github.com/sushihentaime/inkpot/internal/common"
	"github.com/sushihentaime/inkpot/internal/userservice"
)

type testServer struct {
	*httptest.Server
}

// newTestServer returns a server whose client carries cookies between
// requests and does not follow redirects, so tests can assert on the 303
// responses themselves.
func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}

	ts.Client().Jar = jar
	ts.Client().CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

func readResponse(t *testing.T, res *http.Response) (int, http.Header, envelope) {
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}

	// redirect responses have no body
	if len(responseBody) == 0 {
		return res.StatusCode, res.Header, nil
	}

	var envelope envelope
	err = json.Unmarshal(responseBody, &envelope)
	if err != nil {
		t.Fatal(err)
	}

	return res.StatusCode, res.Header, envelope
}

func newTestApplication(t *testing.T) (*application, *sql.DB) {
	db := common.TestDB("file://../migrations", t)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	rabbitURI := common.TestRabbitMQ(t)
	broker, err := common.NewMessageBroker(rabbitURI)
	assert.NoError(t, err)

	err = common.SetupContactExchange(broker)
	assert.NoError(t, err)

	cache := common.NewCache(5*time.Minute, 10*time.Minute)

	cfg := &Config{
		Port:          ":4000",
		Environment:   "test",
		Version:       "1.0.0",
		SessionSecret: "test-session-secret",
	}
	cfg.Admin.Email = "admin@example.com"
	cfg.Admin.Password = "Admin_1234!"
	cfg.Admin.Name = "Site Admin"
	cfg.Mail.Recipient = "owner@example.com"

	app := &application{
		config:      cfg,
		logger:      logger,
		userService: userservice.NewUserService(db, cache),
		blogService: blogservice.NewBlogService(db, cache),
		broker:      broker,
	}

	t.Cleanup(func() {
		broker.Close()
	})

	return app, db
}

func (ts *testServer) get(t *testing.T, path string) (int, http.Header, envelope) {
	res, err := ts.Client().Get(ts.URL + path)
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}

func (ts *testServer) postForm(t *testing.T, path string, form url.Values) (int, http.Header, envelope) {
	req, err := http.NewRequest(http.MethodPost, ts.URL+path, strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatal(err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}

func (ts *testServer) register(t *testing.T, name, email, password string) (int, http.Header, envelope) {
	return ts.postForm(t, "/register", url.Values{
		"name":     {name},
		"email":    {email},
		"password": {password},
	})
}

func (ts *testServer) login(t *testing.T, email, password string) (int, http.Header, envelope) {
	return ts.postForm(t, "/login", url.Values{
		"email":    {email},
		"password": {password},
	})
}
