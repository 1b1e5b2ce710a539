package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"contractdesk/internal/bootstrap"
	"contractdesk/internal/entity"
	"contractdesk/internal/server"
	"contractdesk/pkg/storage"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	t           *testing.T
	engine      *gin.Engine
	db          *gorm.DB
	adminToken  string
	viewerToken string
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := bootstrap.Migrate(db); err != nil {
		t.Fatalf("migration failed: %v", err)
	}

	createUser(t, db, "admin", "admin", entity.RoleAdmin)
	createUser(t, db, "viewer", "viewer", entity.RoleViewer)

	store, err := storage.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}

	srv := server.NewServer(db, store, server.Options{})

	env := &testEnv{t: t, engine: srv.Engine(), db: db}
	env.adminToken = env.login("admin", "admin")
	env.viewerToken = env.login("viewer", "viewer")
	return env
}

func createUser(t *testing.T, db *gorm.DB, username, password, role string) {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := entity.User{Username: username, PasswordHash: string(hashed), Role: role}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
}

func (e *testEnv) request(method, path, token string, payload any) *httptest.ResponseRecorder {
	e.t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			e.t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.engine.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) login(username, password string) string {
	e.t.Helper()

	rec := e.request(http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	if rec.Code != http.StatusOK {
		e.t.Fatalf("login as %s failed with status %d: %s", username, rec.Code, rec.Body.String())
	}

	var res struct {
		Token string `json:"token"`
	}
	decode(e.t, rec, &res)
	if res.Token == "" {
		e.t.Fatal("login returned an empty token")
	}
	return res.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}

func contractPayload(title string) map[string]any {
	return map[string]any{
		"title":         title,
		"partner":       "Acme GmbH",
		"category":      "IT",
		"contract_type": entity.ContractTypeIndividual,
		"valid_from":    "2024-01-01T00:00:00Z",
	}
}

func TestLogin(t *testing.T) {
	env := setup(t)

	rec := env.request(http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "admin",
		"password": "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: status = %d, want 401", rec.Code)
	}

	rec = env.request(http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "nobody",
		"password": "whatever",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unknown user: status = %d, want 401", rec.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	env := setup(t)

	rec := env.request(http.MethodGet, "/api/contracts", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}

	rec = env.request(http.MethodGet, "/api/contracts", "not-a-token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: status = %d, want 401", rec.Code)
	}
}

func TestTokenSecretComesFromOptions(t *testing.T) {
	env := setup(t)

	store, err := storage.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	rotated := server.NewServer(env.db, store, server.Options{JWTSecret: "rotated"})

	// A token signed with the default secret is rejected.
	req := httptest.NewRequest(http.MethodGet, "/api/contracts", nil)
	req.Header.Set("Authorization", "Bearer "+env.adminToken)
	rec := httptest.NewRecorder()
	rotated.Engine().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("foreign token: status = %d, want 401", rec.Code)
	}

	body, err := json.Marshal(map[string]string{"username": "admin", "password": "admin"})
	if err != nil {
		t.Fatal(err)
	}
	req = httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	rotated.Engine().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status = %d: %s", rec.Code, rec.Body.String())
	}
	var res struct {
		Token string `json:"token"`
	}
	decode(t, rec, &res)

	req = httptest.NewRequest(http.MethodGet, "/api/contracts", nil)
	req.Header.Set("Authorization", "Bearer "+res.Token)
	rec = httptest.NewRecorder()
	rotated.Engine().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("token from rotated server: status = %d, want 200", rec.Code)
	}
}

func TestViewerCannotMutate(t *testing.T) {
	env := setup(t)

	rec := env.request(http.MethodPost, "/api/contracts", env.viewerToken, contractPayload("Hosting"))
	if rec.Code != http.StatusForbidden {
		t.Errorf("create contract: status = %d, want 403", rec.Code)
	}

	rec = env.request(http.MethodPost, "/api/categories", env.viewerToken, map[string]string{"name": "Legal"})
	if rec.Code != http.StatusForbidden {
		t.Errorf("create category: status = %d, want 403", rec.Code)
	}

	rec = env.request(http.MethodGet, "/api/contracts", env.viewerToken, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("list contracts as viewer: status = %d, want 200", rec.Code)
	}
}

func TestContractLifecycle(t *testing.T) {
	env := setup(t)

	rec := env.request(http.MethodPost, "/api/contracts", env.adminToken, contractPayload("Hosting"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status = %d: %s", rec.Code, rec.Body.String())
	}
	var created entity.Contract
	decode(t, rec, &created)
	if created.ContractNumber != "V000001" {
		t.Errorf("contract number = %q, want V000001", created.ContractNumber)
	}

	rec = env.request(http.MethodPost, "/api/contracts", env.adminToken, contractPayload("Cleaning"))
	var second entity.Contract
	decode(t, rec, &second)
	if second.ContractNumber != "V000002" {
		t.Errorf("second contract number = %q, want V000002", second.ContractNumber)
	}

	payload := contractPayload("Hosting Renewed")
	payload["contract_number"] = "IGNORED"
	rec = env.request(http.MethodPut, fmt.Sprintf("/api/contracts/%d", created.ID), env.adminToken, payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status = %d: %s", rec.Code, rec.Body.String())
	}
	var updated entity.Contract
	decode(t, rec, &updated)
	if updated.Title != "Hosting Renewed" {
		t.Errorf("title = %q after update", updated.Title)
	}
	if updated.ContractNumber != "V000001" {
		t.Errorf("contract number changed on update: %q", updated.ContractNumber)
	}

	rec = env.request(http.MethodPost, fmt.Sprintf("/api/contracts/%d/terminate", created.ID), env.adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("terminate: status = %d: %s", rec.Code, rec.Body.String())
	}
	var terminated entity.Contract
	decode(t, rec, &terminated)
	if !terminated.IsTerminated || terminated.TerminatedAt == nil {
		t.Error("contract not marked terminated")
	}

	rec = env.request(http.MethodPost, fmt.Sprintf("/api/contracts/%d/terminate", created.ID), env.adminToken, nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("second terminate: status = %d, want 409", rec.Code)
	}

	rec = env.request(http.MethodGet, "/api/contracts/99999", env.adminToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing contract: status = %d, want 404", rec.Code)
	}
}

func TestContractFilters(t *testing.T) {
	env := setup(t)

	env.request(http.MethodPost, "/api/contracts", env.adminToken, contractPayload("Open Ended"))

	expired := contractPayload("Expired")
	expired["valid_until"] = "2024-06-01T00:00:00Z"
	env.request(http.MethodPost, "/api/contracts", env.adminToken, expired)

	other := contractPayload("Office Lease")
	other["category"] = "Facilities"
	other["conditions"] = "net 30 payment terms"
	rec := env.request(http.MethodPost, "/api/contracts", env.adminToken, other)
	var lease entity.Contract
	decode(t, rec, &lease)
	env.request(http.MethodPost, fmt.Sprintf("/api/contracts/%d/terminate", lease.ID), env.adminToken, nil)

	var contracts []entity.Contract

	rec = env.request(http.MethodGet, "/api/contracts", env.adminToken, nil)
	decode(t, rec, &contracts)
	if len(contracts) != 3 {
		t.Errorf("unfiltered list returned %d contracts, want 3", len(contracts))
	}

	rec = env.request(http.MethodGet, "/api/contracts?only_valid=true", env.adminToken, nil)
	decode(t, rec, &contracts)
	if len(contracts) != 1 || contracts[0].Title != "Open Ended" {
		t.Errorf("only_valid returned %+v, want just Open Ended", titles(contracts))
	}

	rec = env.request(http.MethodGet, "/api/contracts?category=Facilities", env.adminToken, nil)
	decode(t, rec, &contracts)
	if len(contracts) != 1 || contracts[0].Title != "Office Lease" {
		t.Errorf("category filter returned %v", titles(contracts))
	}

	rec = env.request(http.MethodGet, "/api/contracts?search=office", env.adminToken, nil)
	decode(t, rec, &contracts)
	if len(contracts) != 1 || contracts[0].Title != "Office Lease" {
		t.Errorf("search returned %v", titles(contracts))
	}

	// Number and conditions are searchable too, like the full-text index.
	rec = env.request(http.MethodGet, "/api/contracts?search=V000001", env.adminToken, nil)
	decode(t, rec, &contracts)
	if len(contracts) != 1 || contracts[0].Title != "Open Ended" {
		t.Errorf("search by number returned %v", titles(contracts))
	}

	rec = env.request(http.MethodGet, "/api/contracts?search=net+30", env.adminToken, nil)
	decode(t, rec, &contracts)
	if len(contracts) != 1 || contracts[0].Title != "Office Lease" {
		t.Errorf("search in conditions returned %v", titles(contracts))
	}
}

func titles(contracts []entity.Contract) []string {
	out := make([]string, len(contracts))
	for i, c := range contracts {
		out[i] = c.Title
	}
	return out
}

func TestFrameworkLinkage(t *testing.T) {
	env := setup(t)

	framework := contractPayload("Master Agreement")
	framework["contract_type"] = entity.ContractTypeFramework
	rec := env.request(http.MethodPost, "/api/contracts", env.adminToken, framework)
	var master entity.Contract
	decode(t, rec, &master)

	individual := contractPayload("Call-Off")
	individual["framework_contract_id"] = master.ID
	rec = env.request(http.MethodPost, "/api/contracts", env.adminToken, individual)
	if rec.Code != http.StatusCreated {
		t.Fatalf("linked create: status = %d: %s", rec.Code, rec.Body.String())
	}
	var linked entity.Contract
	decode(t, rec, &linked)

	// A framework contract cannot itself reference a framework contract.
	badFramework := contractPayload("Nested Master")
	badFramework["contract_type"] = entity.ContractTypeFramework
	badFramework["framework_contract_id"] = master.ID
	rec = env.request(http.MethodPost, "/api/contracts", env.adminToken, badFramework)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("framework with link: status = %d, want 400", rec.Code)
	}

	// The link target must be a framework contract.
	badTarget := contractPayload("Wrong Target")
	badTarget["framework_contract_id"] = linked.ID
	rec = env.request(http.MethodPost, "/api/contracts", env.adminToken, badTarget)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("link to individual: status = %d, want 400", rec.Code)
	}

	missingTarget := contractPayload("Dangling")
	missingTarget["framework_contract_id"] = 99999
	rec = env.request(http.MethodPost, "/api/contracts", env.adminToken, missingTarget)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("link to missing contract: status = %d, want 400", rec.Code)
	}
}

func TestCategoryLifecycle(t *testing.T) {
	env := setup(t)

	rec := env.request(http.MethodPost, "/api/categories", env.adminToken, map[string]string{"name": "Legal"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status = %d: %s", rec.Code, rec.Body.String())
	}
	var legal entity.Category
	decode(t, rec, &legal)

	rec = env.request(http.MethodPost, "/api/categories", env.adminToken, map[string]string{"name": "  Legal  "})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate (trimmed): status = %d, want 409", rec.Code)
	}

	contract := contractPayload("Counsel Retainer")
	contract["category"] = "Legal"
	rec = env.request(http.MethodPost, "/api/contracts", env.adminToken, contract)
	var retainer entity.Contract
	decode(t, rec, &retainer)

	// Deleting a category in use is refused.
	rec = env.request(http.MethodDelete, fmt.Sprintf("/api/categories/%d", legal.ID), env.adminToken, nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("delete in use: status = %d, want 409", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "1 contract") {
		t.Errorf("delete in use message = %s", rec.Body.String())
	}

	// Renaming cascades to contracts.
	rec = env.request(http.MethodPut, fmt.Sprintf("/api/categories/%d", legal.ID), env.adminToken, map[string]string{"name": "Legal Affairs"})
	if rec.Code != http.StatusOK {
		t.Fatalf("rename: status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.request(http.MethodGet, fmt.Sprintf("/api/contracts/%d", retainer.ID), env.adminToken, nil)
	var renamed entity.Contract
	decode(t, rec, &renamed)
	if renamed.Category != "Legal Affairs" {
		t.Errorf("contract category = %q after rename, want Legal Affairs", renamed.Category)
	}

	// After terminating, the category is still referenced and stays blocked;
	// only removing the reference frees it.
	if err := env.db.Model(&entity.Contract{}).Where("id = ?", retainer.ID).Update("category", "IT").Error; err != nil {
		t.Fatalf("failed to reassign contract: %v", err)
	}
	rec = env.request(http.MethodDelete, fmt.Sprintf("/api/categories/%d", legal.ID), env.adminToken, nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete unused: status = %d, want 204: %s", rec.Code, rec.Body.String())
	}
}

func TestUserGuards(t *testing.T) {
	env := setup(t)

	// admin was created first, so it has ID 1; viewer has ID 2.
	rec := env.request(http.MethodPut, "/api/users/1", env.adminToken, map[string]string{
		"username": "admin",
		"role":     entity.RoleViewer,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("demote last admin: status = %d, want 400", rec.Code)
	}

	rec = env.request(http.MethodDelete, "/api/users/1", env.adminToken, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("self delete: status = %d, want 400", rec.Code)
	}

	rec = env.request(http.MethodPost, "/api/users", env.adminToken, map[string]string{
		"username": "admin2",
		"password": "secret",
		"role":     entity.RoleAdmin,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create second admin: status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.request(http.MethodPost, "/api/users", env.adminToken, map[string]string{
		"username": "viewer",
		"password": "secret",
		"role":     entity.RoleViewer,
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate username: status = %d, want 409", rec.Code)
	}

	// With a second admin present, demoting the first is allowed.
	rec = env.request(http.MethodPut, "/api/users/1", env.adminToken, map[string]string{
		"username": "admin",
		"role":     entity.RoleViewer,
	})
	if rec.Code != http.StatusOK {
		t.Errorf("demote with backup admin: status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestBlankPasswordKeepsCurrent(t *testing.T) {
	env := setup(t)

	rec := env.request(http.MethodPut, "/api/users/2", env.adminToken, map[string]string{
		"username": "viewer",
		"role":     entity.RoleViewer,
		"password": "",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status = %d: %s", rec.Code, rec.Body.String())
	}

	// The old password still works.
	env.login("viewer", "viewer")
}

func TestDocuments(t *testing.T) {
	env := setup(t)

	rec := env.request(http.MethodPost, "/api/contracts", env.adminToken, contractPayload("Hosting"))
	var contract entity.Contract
	decode(t, rec, &contract)

	pdfContent := []byte("%PDF-1.4 test content")
	rec = env.upload(fmt.Sprintf("/api/contracts/%d/documents", contract.ID), env.adminToken, "agreement.pdf", pdfContent)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload: status = %d: %s", rec.Code, rec.Body.String())
	}
	var doc entity.Document
	decode(t, rec, &doc)

	rec = env.upload(fmt.Sprintf("/api/contracts/%d/documents", contract.ID), env.adminToken, "notes.docx", []byte("not a pdf"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("non-pdf upload: status = %d, want 400", rec.Code)
	}

	rec = env.upload("/api/contracts/99999/documents", env.adminToken, "orphan.pdf", pdfContent)
	if rec.Code != http.StatusNotFound {
		t.Errorf("upload to missing contract: status = %d, want 404", rec.Code)
	}

	rec = env.request(http.MethodGet, fmt.Sprintf("/api/contracts/%d/documents", contract.ID), env.adminToken, nil)
	var docs []entity.Document
	decode(t, rec, &docs)
	if len(docs) != 1 || docs[0].Filename != "agreement.pdf" {
		t.Fatalf("list returned %+v", docs)
	}

	rec = env.request(http.MethodGet, fmt.Sprintf("/api/documents/%d/download", doc.ID), env.viewerToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("download: status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/pdf" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "agreement.pdf") {
		t.Errorf("Content-Disposition = %q", got)
	}
	if !bytes.Equal(rec.Body.Bytes(), pdfContent) {
		t.Error("downloaded content differs from upload")
	}

	rec = env.request(http.MethodDelete, fmt.Sprintf("/api/documents/%d", doc.ID), env.adminToken, nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete: status = %d, want 204", rec.Code)
	}

	rec = env.request(http.MethodGet, fmt.Sprintf("/api/documents/%d/download", doc.ID), env.adminToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("download after delete: status = %d, want 404", rec.Code)
	}
}

func (e *testEnv) upload(path, token, fileName string, content []byte) *httptest.ResponseRecorder {
	e.t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("document", fileName)
	if err != nil {
		e.t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		e.t.Fatalf("failed to write form file: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	e.engine.ServeHTTP(rec, req)
	return rec
}

func TestCalculateDatesAndExpiringReport(t *testing.T) {
	env := setup(t)

	today := time.Now().Truncate(24 * time.Hour)

	payload := contractPayload("Maintenance")
	payload["valid_from"] = today.Format(time.RFC3339)
	payload["notice_period"] = 3
	payload["term_months"] = 12
	payload["minimum_term"] = today.AddDate(0, 2, 0).Format(time.RFC3339)
	rec := env.request(http.MethodPost, "/api/contracts", env.adminToken, payload)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status = %d: %s", rec.Code, rec.Body.String())
	}
	var contract entity.Contract
	decode(t, rec, &contract)

	// Incomplete period fields keep the derived dates empty.
	env.request(http.MethodPost, "/api/contracts", env.adminToken, contractPayload("No Periods"))

	rec = env.request(http.MethodPost, "/api/contracts/calculate-dates", env.adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("calculate: status = %d: %s", rec.Code, rec.Body.String())
	}
	var result struct {
		Updated int `json:"updated"`
	}
	decode(t, rec, &result)
	if result.Updated != 1 {
		t.Errorf("updated = %d, want 1", result.Updated)
	}

	rec = env.request(http.MethodGet, fmt.Sprintf("/api/contracts/%d", contract.ID), env.adminToken, nil)
	var recomputed entity.Contract
	decode(t, rec, &recomputed)
	if recomputed.CancellationDate == nil || recomputed.CancellationActionDate == nil {
		t.Fatal("cancellation dates were not derived")
	}
	// valid_from + one 12 month period, minus 3 months notice.
	wantAction := today.AddDate(0, 9, 0)
	if !recomputed.CancellationActionDate.Equal(wantAction) {
		t.Errorf("action date = %s, want %s", recomputed.CancellationActionDate, wantAction)
	}

	var contracts []entity.Contract

	rec = env.request(http.MethodGet, "/api/reports/expiring?days=365", env.adminToken, nil)
	decode(t, rec, &contracts)
	if len(contracts) != 1 || contracts[0].ID != contract.ID {
		t.Errorf("expiring within 365 days = %v, want the maintenance contract", titles(contracts))
	}

	rec = env.request(http.MethodGet, "/api/reports/expiring?days=30", env.adminToken, nil)
	decode(t, rec, &contracts)
	if len(contracts) != 0 {
		t.Errorf("expiring within 30 days = %v, want none", titles(contracts))
	}

	rec = env.request(http.MethodGet, "/api/reports/expiring?days=-1", env.adminToken, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("negative days: status = %d, want 400", rec.Code)
	}

	rec = env.request(http.MethodGet, "/api/reports/valid", env.adminToken, nil)
	decode(t, rec, &contracts)
	if len(contracts) != 2 {
		t.Errorf("valid report = %v, want both contracts", titles(contracts))
	}
}
