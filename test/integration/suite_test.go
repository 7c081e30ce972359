//go:build integration

package integration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/jsamuelsen/lexoffice-gateway/internal/domain"
)

// testContext holds state shared across step definitions within a scenario.
type testContext struct {
	fake  *fakeLexoffice
	stack *stack
	ops   *httptest.Server

	err       error
	ack       *domain.Acknowledgment
	found     bool
	reference *domain.ReferenceData

	response     *http.Response
	responseBody []byte
}

// reset releases everything a scenario started.
func (tc *testContext) reset() {
	if tc.ops != nil {
		tc.ops.Close()
	}

	if tc.fake != nil {
		tc.fake.Close()
	}

	*tc = testContext{}
}

// InitializeScenario registers step definitions for each scenario.
func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &testContext{}

	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	ctx.After(func(ctx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Setup
	ctx.Step(`^a fake Lexoffice$`, tc.aFakeLexoffice)
	ctx.Step(`^a fake Lexoffice allowing (\d+) requests per second$`, tc.aFakeLexofficeAllowing)
	ctx.Step(`^Lexoffice answers (GET|POST|PUT) "([^"]*)" with status (\d+)$`, tc.lexofficeAnswers)
	ctx.Step(`^Lexoffice answers (GET|POST|PUT) "([^"]*)" with status (\d+) and body:$`, tc.lexofficeAnswersWithBody)

	// Operations
	ctx.Step(`^I create a contact that is both a company and a person$`, tc.iCreateAmbiguousContact)
	ctx.Step(`^I create a customer contact for company "([^"]*)"$`, tc.iCreateCustomerContact)
	ctx.Step(`^I update contact "([^"]*)" to company "([^"]*)" at version (\d+)$`, tc.iUpdateContact)
	ctx.Step(`^I get contact "([^"]*)"$`, tc.iGetContact)
	ctx.Step(`^I fetch the profile$`, tc.iFetchTheProfile)
	ctx.Step(`^I fetch the profile (\d+) times concurrently$`, tc.iFetchTheProfileConcurrently)
	ctx.Step(`^I load the reference data$`, tc.iLoadTheReferenceData)

	// Outcomes
	ctx.Step(`^the operation succeeds$`, tc.theOperationSucceeds)
	ctx.Step(`^the operation fails with kind "([^"]*)"$`, tc.theOperationFailsWithKind)
	ctx.Step(`^the error mentions "([^"]*)"$`, tc.theErrorMentions)
	ctx.Step(`^the contact is reported as not found$`, tc.theContactIsNotFound)
	ctx.Step(`^the acknowledged version is (\d+)$`, tc.theAcknowledgedVersionIs)
	ctx.Step(`^the default print layout is "([^"]*)"$`, tc.theDefaultPrintLayoutIs)
	ctx.Step(`^Lexoffice received (\d+) requests?$`, tc.lexofficeReceived)
	ctx.Step(`^Lexoffice received (\d+) (GET|POST|PUT) requests? for "([^"]*)"$`, tc.lexofficeReceivedFor)
	ctx.Step(`^the last PUT to "([^"]*)" carried version (\d+)$`, tc.theLastPutCarriedVersion)
	ctx.Step(`^every request carried the bearer token$`, tc.everyRequestCarriedTheToken)
	ctx.Step(`^consecutive requests were at least (\d+) ms apart$`, tc.consecutiveRequestsWereApart)

	// Ops listener
	ctx.Step(`^the ops listener is running$`, tc.theOpsListenerIsRunning)
	ctx.Step(`^I request GET "([^"]*)"$`, tc.iRequestGET)
	ctx.Step(`^the response status should be (\d+)$`, tc.theResponseStatusShouldBe)
	ctx.Step(`^the response should contain "([^"]*)"$`, tc.theResponseShouldContain)
}

func (tc *testContext) aFakeLexoffice() error {
	return tc.aFakeLexofficeAllowing(0)
}

func (tc *testContext) aFakeLexofficeAllowing(rps int) error {
	tc.fake = newFakeLexoffice()

	s, err := newStack(tc.fake, stackOptions{requestsPerSecond: rps})
	if err != nil {
		return err
	}

	tc.stack = s

	return nil
}

func (tc *testContext) lexofficeAnswers(method, path string, status int) error {
	tc.fake.On(method, path, reply{status: status})
	return nil
}

func (tc *testContext) lexofficeAnswersWithBody(method, path string, status int, body *godog.DocString) error {
	tc.fake.On(method, path, reply{status: status, body: body.Content})
	return nil
}

func (tc *testContext) iCreateAmbiguousContact(ctx context.Context) error {
	tc.ack, tc.err = tc.stack.gateway.CreateContact(ctx, &domain.Contact{
		Roles:   domain.ContactRoles{Customer: &domain.ContactRole{}},
		Company: &domain.Company{Name: "Acme GmbH"},
		Person:  &domain.Person{LastName: "Muster"},
	})

	return nil
}

func (tc *testContext) iCreateCustomerContact(ctx context.Context, company string) error {
	tc.ack, tc.err = tc.stack.gateway.CreateContact(ctx, &domain.Contact{
		Roles:   domain.ContactRoles{Customer: &domain.ContactRole{}},
		Company: &domain.Company{Name: company},
	})

	return nil
}

func (tc *testContext) iUpdateContact(ctx context.Context, id, company string, version int) error {
	contactID, err := uuid.Parse(id)
	if err != nil {
		return err
	}

	tc.ack, tc.err = tc.stack.gateway.UpdateContact(ctx, contactID, &domain.Contact{
		Version: version,
		Roles:   domain.ContactRoles{Customer: &domain.ContactRole{}},
		Company: &domain.Company{Name: company},
	})

	return nil
}

func (tc *testContext) iGetContact(ctx context.Context, id string) error {
	contactID, err := uuid.Parse(id)
	if err != nil {
		return err
	}

	_, tc.found, tc.err = tc.stack.gateway.GetContact(ctx, contactID)

	return nil
}

func (tc *testContext) iFetchTheProfile(ctx context.Context) error {
	_, tc.err = tc.stack.gateway.GetProfile(ctx)
	return nil
}

func (tc *testContext) iFetchTheProfileConcurrently(ctx context.Context, n int) error {
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := range n {
		wg.Go(func() {
			_, errs[i] = tc.stack.gateway.GetProfile(ctx)
		})
	}
	wg.Wait()

	tc.err = errors.Join(errs...)

	return nil
}

func (tc *testContext) iLoadTheReferenceData(ctx context.Context) error {
	tc.reference, tc.err = tc.stack.gateway.ReferenceData(ctx)
	return nil
}

func (tc *testContext) theOperationSucceeds() error {
	if tc.err != nil {
		return fmt.Errorf("expected success, got %w", tc.err)
	}

	return nil
}

func (tc *testContext) theOperationFailsWithKind(kind string) error {
	if tc.err == nil {
		return errors.New("expected an error, got success")
	}

	if got := domain.KindOf(tc.err).String(); got != kind {
		return fmt.Errorf("expected kind %s, got %s (%v)", kind, got, tc.err)
	}

	return nil
}

func (tc *testContext) theErrorMentions(text string) error {
	if tc.err == nil || !strings.Contains(tc.err.Error(), text) {
		return fmt.Errorf("expected error mentioning %q, got %v", text, tc.err)
	}

	return nil
}

func (tc *testContext) theContactIsNotFound() error {
	if tc.err != nil {
		return fmt.Errorf("absence must not be an error, got %w", tc.err)
	}

	if tc.found {
		return errors.New("expected the contact to be absent")
	}

	return nil
}

func (tc *testContext) theAcknowledgedVersionIs(version int) error {
	if tc.ack == nil {
		return errors.New("no acknowledgment")
	}

	if tc.ack.Version != version {
		return fmt.Errorf("expected version %d, got %d", version, tc.ack.Version)
	}

	return nil
}

func (tc *testContext) theDefaultPrintLayoutIs(name string) error {
	if tc.reference == nil {
		return errors.New("no reference data")
	}

	layout, ok := tc.reference.DefaultPrintLayout()
	if !ok || layout.Name != name {
		return fmt.Errorf("expected default layout %q, got %+v", name, layout)
	}

	return nil
}

func (tc *testContext) lexofficeReceived(n int) error {
	if got := len(tc.fake.Requests()); got != n {
		return fmt.Errorf("expected %d requests, got %d", n, got)
	}

	return nil
}

func (tc *testContext) lexofficeReceivedFor(n int, method, path string) error {
	if got := len(tc.fake.RequestsTo(method, path)); got != n {
		return fmt.Errorf("expected %d %s %s, got %d", n, method, path, got)
	}

	return nil
}

func (tc *testContext) theLastPutCarriedVersion(path string, version int) error {
	puts := tc.fake.RequestsTo(http.MethodPut, path)
	if len(puts) == 0 {
		return fmt.Errorf("no PUT to %s", path)
	}

	last := puts[len(puts)-1]
	if got := gjson.GetBytes(last.body, "version").Int(); got != int64(version) {
		return fmt.Errorf("expected version %d in last PUT, got %d", version, got)
	}

	return nil
}

func (tc *testContext) everyRequestCarriedTheToken() error {
	for _, r := range tc.fake.Requests() {
		if got := r.header.Get("Authorization"); got != "Bearer "+testToken {
			return fmt.Errorf("%s %s carried Authorization %q", r.method, r.path, got)
		}
	}

	return nil
}

func (tc *testContext) consecutiveRequestsWereApart(ms int) error {
	floor := time.Duration(ms) * time.Millisecond
	reqs := tc.fake.Requests()

	for i := 1; i < len(reqs); i++ {
		if gap := reqs[i].at.Sub(reqs[i-1].at); gap < floor {
			return fmt.Errorf("requests %d and %d were only %s apart", i-1, i, gap)
		}
	}

	return nil
}

func (tc *testContext) theOpsListenerIsRunning() error {
	ops, err := tc.stack.opsServer()
	if err != nil {
		return err
	}

	tc.ops = ops

	return nil
}

func (tc *testContext) iRequestGET(path string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tc.ops.URL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := tc.ops.Client().Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	tc.response = resp

	tc.responseBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	return nil
}

func (tc *testContext) theResponseStatusShouldBe(expectedCode int) error {
	if tc.response == nil {
		return errors.New("no response received")
	}

	if tc.response.StatusCode != expectedCode {
		return fmt.Errorf("expected status %d, got %d. Body: %s",
			expectedCode, tc.response.StatusCode, string(tc.responseBody))
	}

	return nil
}

func (tc *testContext) theResponseShouldContain(text string) error {
	if !strings.Contains(string(tc.responseBody), text) {
		return fmt.Errorf("response body does not contain %q.\nBody: %s", text, tc.responseBody)
	}

	return nil
}

// TestFeatures runs the GoDog BDD test suite.
func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../features"},
			TestingT: t,
			Tags:     os.Getenv("GODOG_TAGS"),
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
