//go:build integration

// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/config"
	"github.com/finance-tracker/ledger/internal/application/usecase/account"
	"github.com/finance-tracker/ledger/internal/infra/dependency"
	"github.com/finance-tracker/ledger/internal/integration/adapters"
	"github.com/finance-tracker/ledger/internal/integration/persistence/model"
	"github.com/finance-tracker/ledger/test/integration/mock"
)

const testJWTSecret = "test-jwt-secret-key-for-testing-purposes"

var (
	serverInit sync.Once
	server     *httptest.Server
	injector   *dependency.Injector
	testDB     *mock.Db
)

type testContext struct {
	client            *http.Client
	headers           map[string]string
	response          *response
	accessToken       string
	currentUserID     uuid.UUID
	users             map[string]uuid.UUID
	accounts          map[string]uuid.UUID
	lastTransactionID uuid.UUID
	lastBatchID       uuid.UUID
}

type response struct {
	status int
	body   any
}

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
	})

	ctx.AfterSuite(func() {
		if server != nil {
			server.Close()
		}
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	test := &testContext{
		client: &http.Client{Timeout: 10 * time.Second},
	}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, test.before()
	})

	// Background steps
	ctx.Given(`^the API server is running$`, test.theAPIServerIsRunning)

	// Identity and data setup steps
	ctx.Given(`^I am logged in as "([^"]*)"$`, test.iAmLoggedInAs)
	ctx.Given(`^"([^"]*)" has an account "([^"]*)" with opening balance "([^"]*)"$`, test.userHasAnAccountWithOpeningBalance)

	// Header steps
	ctx.Given(`^the header is empty$`, test.theHeaderIsEmpty)
	ctx.Given(`^the header contains the key "([^"]*)" with "([^"]*)"$`, test.theHeaderContainsTheKeyWith)

	// Request steps
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)"$`, test.iSendARequestTo)
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, test.iSendARequestToWithBody)
	ctx.When(`^I upload "([^"]*)" to "([^"]*)" with content:$`, test.iUploadToWithContent)

	// Response assertion steps
	ctx.Then(`^the response status should be (\d+)$`, test.theResponseStatusShouldBe)
	ctx.Then(`^the response field "([^"]*)" should be "([^"]*)"$`, test.theResponseFieldShouldBe)
	ctx.Then(`^the response field "([^"]*)" should exist$`, test.theResponseFieldShouldExist)

	// Staging steps
	ctx.Given(`^the staged imports have expired$`, test.theStagedImportsHaveExpired)

	// Database assertion steps
	ctx.Then(`^the db should contain (\d+) objects in the "([^"]*)" table$`, test.theDbShouldContainObjectsInTheTable)
	ctx.Then(`^the account "([^"]*)" should have balance "([^"]*)"$`, test.theAccountShouldHaveBalance)
}

func (t *testContext) before() error {
	t.headers = make(map[string]string)
	t.response = nil
	t.accessToken = ""
	t.currentUserID = uuid.Nil
	t.users = make(map[string]uuid.UUID)
	t.accounts = make(map[string]uuid.UUID)
	t.lastTransactionID = uuid.Nil
	t.lastBatchID = uuid.Nil

	t.startServer()
	if err := testDB.ClearDB(); err != nil {
		return err
	}
	return mock.ClearRedis(mock.NewRedis())
}

func (t *testContext) startServer() {
	serverInit.Do(func() {
		testDB = mock.NewDb(map[string]any{
			"categories":   &model.CategoryModel{},
			"accounts":     &model.AccountModel{},
			"analytics":    &model.AnalyticsModel{},
			"transactions": &model.TransactionModel{},
		}, model.AllModels())

		cfg := config.Load()
		cfg.Server.Environment = "test"
		cfg.JWT.Secret = testJWTSecret

		injector = dependency.NewInjector(cfg, testDB.Database, mock.NewRedis())
		server = httptest.NewServer(injector.Router.Setup(cfg.Server.Environment))
	})
}

func (t *testContext) theAPIServerIsRunning() error {
	resp, err := t.client.Get(server.URL + "/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned %d", resp.StatusCode)
	}
	return nil
}

func (t *testContext) userID(name string) uuid.UUID {
	id, ok := t.users[name]
	if !ok {
		id = uuid.New()
		t.users[name] = id
	}
	return id
}

// iAmLoggedInAs switches the current user and issues a fresh access token.
func (t *testContext) iAmLoggedInAs(name string) error {
	t.currentUserID = t.userID(name)

	token, err := adapters.NewTokenService(testJWTSecret, 15*time.Minute).
		GenerateAccessToken(context.Background(), t.currentUserID)
	if err != nil {
		return fmt.Errorf("failed to generate access token: %w", err)
	}
	t.accessToken = token
	return nil
}

func (t *testContext) userHasAnAccountWithOpeningBalance(userName, accountName, openingBalance string) error {
	balance, err := decimal.NewFromString(openingBalance)
	if err != nil {
		return fmt.Errorf("invalid opening balance '%s': %w", openingBalance, err)
	}

	output, err := injector.UseCases.CreateAccount.Execute(context.Background(), account.CreateAccountInput{
		UserID:         t.userID(userName),
		Name:           accountName,
		OpeningBalance: balance,
	})
	if err != nil {
		return err
	}
	t.accounts[accountName] = output.Account.ID
	return nil
}

func (t *testContext) theHeaderIsEmpty() error {
	t.headers = make(map[string]string)
	t.accessToken = "" // Clear access token to simulate unauthenticated request
	return nil
}

func (t *testContext) theHeaderContainsTheKeyWith(key, value string) error {
	t.headers[key] = value
	return nil
}

func (t *testContext) iSendARequestTo(method, path string) error {
	return t.executeRequest(method, t.replacePlaceholders(path), nil, "application/json")
}

func (t *testContext) iSendARequestToWithBody(method, path string, body *godog.DocString) error {
	var payload []byte
	if body != nil && body.Content != "" {
		payload = []byte(t.replacePlaceholders(body.Content))
	}
	return t.executeRequest(method, t.replacePlaceholders(path), payload, "application/json")
}

func (t *testContext) iUploadToWithContent(fileName, path string, content *godog.DocString) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return err
	}
	if _, err := part.Write([]byte(content.Content + "\n")); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}
	return t.executeRequest(http.MethodPost, t.replacePlaceholders(path), buf.Bytes(), writer.FormDataContentType())
}

// replacePlaceholders substitutes {{account:Name}}, {{transaction_id}} and {{batch_id}}.
func (t *testContext) replacePlaceholders(content string) string {
	for name, id := range t.accounts {
		content = strings.ReplaceAll(content, "{{account:"+name+"}}", id.String())
	}
	content = strings.ReplaceAll(content, "{{transaction_id}}", t.lastTransactionID.String())
	content = strings.ReplaceAll(content, "{{batch_id}}", t.lastBatchID.String())
	return content
}

func (t *testContext) executeRequest(method, path string, payload []byte, contentType string) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, server.URL+path, body)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", contentType)
	if t.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.accessToken)
	}
	for key, value := range t.headers {
		req.Header.Set(key, value)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	t.response = &response{status: resp.StatusCode}

	var responseBody map[string]any
	if err := json.Unmarshal(bodyBytes, &responseBody); err != nil {
		t.response.body = string(bodyBytes)
		return nil
	}
	t.response.body = responseBody

	// Capture identifiers for later steps
	if idStr, ok := getFieldValue(responseBody, "data.transaction.id").(string); ok {
		if id, err := uuid.Parse(idStr); err == nil {
			t.lastTransactionID = id
		}
	}
	if idStr, ok := getFieldValue(responseBody, "data.batchId").(string); ok {
		if id, err := uuid.Parse(idStr); err == nil {
			t.lastBatchID = id
		}
	}
	return nil
}

func (t *testContext) theResponseStatusShouldBe(expectedStatus int) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if t.response.status != expectedStatus {
		return fmt.Errorf("expected status %d, got %d (body: %v)", expectedStatus, t.response.status, t.response.body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldBe(field, expectedValue string) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	body, ok := t.response.body.(map[string]any)
	if !ok {
		return fmt.Errorf("response is not a JSON object: %v", t.response.body)
	}

	value := getFieldValue(body, field)
	if value == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, body)
	}

	actualValue := fmt.Sprintf("%v", value)
	if actualValue != expectedValue {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expectedValue, actualValue)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldExist(field string) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	body, ok := t.response.body.(map[string]any)
	if !ok {
		return fmt.Errorf("response is not a JSON object: %v", t.response.body)
	}
	if getFieldValue(body, field) == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, body)
	}
	return nil
}

func (t *testContext) theStagedImportsHaveExpired() error {
	mock.FastForwardRedis(injector.Config.Import.StagingTTL + time.Second)
	return nil
}

func (t *testContext) theDbShouldContainObjectsInTheTable(quantity int, table string) error {
	entity, ok := testDB.GetModel(table)
	if !ok {
		return fmt.Errorf("table '%s' not found in models", table)
	}

	entityType := reflect.TypeOf(entity).Elem()
	entitySlicePtr := reflect.New(reflect.SliceOf(entityType))

	// Soft-deleted rows are excluded.
	if err := testDB.DbConn.Find(entitySlicePtr.Interface()).Error; err != nil {
		return err
	}

	count := entitySlicePtr.Elem().Len()
	if count != quantity {
		return fmt.Errorf("expected %d objects in '%s', got %d", quantity, table, count)
	}
	return nil
}

func (t *testContext) theAccountShouldHaveBalance(accountName, expected string) error {
	accountID, ok := t.accounts[accountName]
	if !ok {
		return fmt.Errorf("account '%s' was not created in this scenario", accountName)
	}

	var accountModel model.AccountModel
	if err := testDB.DbConn.First(&accountModel, "id = ?", accountID).Error; err != nil {
		return err
	}

	want, err := decimal.NewFromString(expected)
	if err != nil {
		return err
	}
	if !accountModel.Balance.Equal(want) {
		return fmt.Errorf("account '%s' expected balance %s, got %s", accountName, want, accountModel.Balance)
	}
	return nil
}

func getFieldValue(object any, dotSeparatedField string) any {
	if object == nil {
		return nil
	}

	fields := strings.Split(dotSeparatedField, ".")
	field := object
	for _, currentField := range fields {
		if field == nil {
			return nil
		}
		if i, err := strconv.Atoi(currentField); err == nil {
			arr, ok := field.([]any)
			if !ok || i >= len(arr) {
				return nil
			}
			field = arr[i]
			continue
		}
		m, ok := field.(map[string]any)
		if !ok {
			return nil
		}
		field = m[currentField]
	}
	return field
}
