//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"fintrack-go/internal/app"
	"fintrack-go/internal/config"
	"fintrack-go/internal/db"
	authmw "fintrack-go/internal/transport/httpserver/middleware"
	"fintrack-go/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	jwtSecret     = "e2e-jwt"
	webhookSecret = "e2e-hook"
)

type testEnv struct {
	server *httptest.Server
	app    *app.App
	db     *gorm.DB
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("E2E_DB_DSN")
	if dsn == "" {
		t.Skip("E2E_DB_DSN not set; skipping e2e tests")
	}

	cfg := config.Config{
		Store:         config.StorePostgres,
		DB:            config.DBConfig{DSN: dsn, MaxOpenConns: 10, MaxIdleConns: 5},
		Understanding: config.UnderstandingConfig{Provider: "local", Timeout: 5 * time.Second},
		Cache:         config.CacheConfig{Backend: config.CacheMemory, CategoriesTTL: time.Minute},
		Auth:          config.AuthConfig{JWTSecret: jwtSecret, WebhookSecret: webhookSecret},
		Identity:      config.IdentityConfig{CodeTTL: 15 * time.Minute, CacheTTL: time.Minute},
		Defaults: config.DefaultsConfig{
			Currency: "IDR", Language: "id", Timezone: "Asia/Jakarta", AutoCategorize: true,
		},
	}
	log := logger.Nop()

	if _, err := app.Migrate(cfg, log); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}
	if err := cleanDB(dbConn); err != nil {
		t.Fatalf("clean db: %v", err)
	}

	application, err := app.New(context.Background(), cfg, log)
	if err != nil {
		t.Fatalf("app init: %v", err)
	}

	server := httptest.NewServer(application.HTTPServer().Handler)
	return &testEnv{server: server, app: application, db: dbConn}
}

func (e *testEnv) Close() {
	e.server.Close()
	_ = e.app.Close()
	sqlDB, err := e.db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}

func cleanDB(dbConn *gorm.DB) error {
	return dbConn.WithContext(context.Background()).Exec(
		"TRUNCATE TABLE inbound_messages, activation_codes, channel_links, user_preferences, " +
			"goal_savings_plans, goal_boosts, goals, budgets, transactions, categories RESTART IDENTITY CASCADE",
	).Error
}

func requestJSON(t *testing.T, client *http.Client, method, url, bearer string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	return resp, respBody
}

type reply struct {
	Success bool   `json:"success"`
	Kind    string `json:"kind"`
	Domain  string `json:"domain"`
	Message string `json:"message"`
}

type user struct {
	env     *testEnv
	client  *http.Client
	token   string
	channel string
}

func newUser(t *testing.T, env *testEnv) *user {
	t.Helper()
	token, err := authmw.IssueToken(jwtSecret, uuid.NewString(), time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	u := &user{env: env, client: env.server.Client(), token: token, channel: "whatsapp:+62" + uuid.NewString()[:8]}

	resp, body := requestJSON(t, u.client, http.MethodPost, env.server.URL+"/api/activation-codes", token, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("activation code: status %d body %s", resp.StatusCode, body)
	}
	var code struct {
		Command string `json:"command"`
	}
	if err := json.Unmarshal(body, &code); err != nil {
		t.Fatalf("decode activation code: %v", err)
	}
	if r := u.send(t, uuid.NewString(), code.Command); !r.Success {
		t.Fatalf("link failed: %s", r.Message)
	}
	return u
}

func (u *user) send(t *testing.T, id, text string) reply {
	t.Helper()
	resp, body := requestJSON(t, u.client, http.MethodPost, u.env.server.URL+"/api/messages", webhookSecret, map[string]string{
		"id": id, "channel_identity": u.channel, "text": text,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("send %q: status %d body %s", text, resp.StatusCode, body)
	}
	var r reply
	if err := json.Unmarshal(body, &r); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	return r
}

func (u *user) get(t *testing.T, path string, out interface{}) {
	t.Helper()
	resp, body := requestJSON(t, u.client, http.MethodGet, u.env.server.URL+path, u.token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d body %s", path, resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
}

func mustSucceed(t *testing.T, r reply) {
	t.Helper()
	if !r.Success {
		t.Fatalf("expected success, got kind=%s message=%s", r.Kind, r.Message)
	}
}

func TestE2ERecordAndReplayMessage(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()
	u := newUser(t, env)

	mustSucceed(t, u.send(t, "msg-1", "beli kopi 25000"))
	again := u.send(t, "msg-1", "beli kopi 25000")
	mustSucceed(t, again)

	var page struct {
		Items []struct {
			Amount       string `json:"amount"`
			CategoryName string `json:"category_name"`
		} `json:"items"`
		Total int64 `json:"total"`
	}
	u.get(t, "/api/transactions", &page)
	if page.Total != 1 {
		t.Fatalf("expected 1 transaction, got %d", page.Total)
	}
	if page.Items[0].CategoryName != "Food & Drink" || page.Items[0].Amount != "25000.00" {
		t.Fatalf("unexpected transaction: %+v", page.Items[0])
	}
}

func TestE2EBudgetAlert(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()
	u := newUser(t, env)

	mustSucceed(t, u.send(t, "b-1", "budget makan 100rb sebulan"))
	mustSucceed(t, u.send(t, "b-2", "makan siang 95rb"))

	var budgets []struct {
		CategoryName string `json:"category_name"`
	}
	u.get(t, "/api/budgets", &budgets)
	if len(budgets) != 1 || budgets[0].CategoryName != "Food & Drink" {
		t.Fatalf("unexpected budgets: %+v", budgets)
	}
}

func TestE2EConcurrentGoalBoosts(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()
	u := newUser(t, env)

	mustSucceed(t, u.send(t, "g-0", "gaji 5jt"))
	mustSucceed(t, u.send(t, "g-1", "buat tabungan Laptop 10jt"))

	const boosts = 5
	var wg sync.WaitGroup
	replies := make([]reply, boosts)
	for i := 0; i < boosts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			replies[i] = u.send(t, fmt.Sprintf("boost-%d", i), "nabung Laptop 100rb")
		}(i)
	}
	wg.Wait()
	for _, r := range replies {
		mustSucceed(t, r)
	}

	var goals []struct {
		Name          string `json:"name"`
		CurrentAmount string `json:"current_amount"`
	}
	u.get(t, "/api/goals", &goals)
	if len(goals) != 1 || goals[0].CurrentAmount != "500000.00" {
		t.Fatalf("unexpected goals: %+v", goals)
	}

	var balance struct {
		MainBalance string `json:"main_balance"`
	}
	u.get(t, "/api/goals/balance", &balance)
	if balance.MainBalance != "4500000" {
		t.Fatalf("unexpected main balance %s", balance.MainBalance)
	}
}

func TestE2EUsersAreIsolated(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()
	alice := newUser(t, env)
	bob := newUser(t, env)

	mustSucceed(t, alice.send(t, "a-1", "parkir 5000"))

	var page struct {
		Total int64 `json:"total"`
	}
	bob.get(t, "/api/transactions", &page)
	if page.Total != 0 {
		t.Fatalf("bob sees %d transactions", page.Total)
	}
}
