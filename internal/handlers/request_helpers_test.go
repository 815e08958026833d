package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestContext(t *testing.T, method, target, contentType string, body []byte) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	return c
}

func TestParseBodyJSON(t *testing.T) {
	body := []byte(`{"name":"Plan","price":10,"tags":["a","b"]}`)
	c := newTestContext(t, "POST", "/api/subscriptions", "application/json", body)

	fields, err := parseBody(c)
	if err != nil {
		t.Fatalf("parseBody returned error: %v", err)
	}
	if fields["name"] != "Plan" {
		t.Fatalf("expected name=Plan, got %q", fields["name"])
	}
	if fields["price"] != "10" {
		t.Fatalf("expected numeric value carried as JSON text, got %q", fields["price"])
	}
	if fields["tags"] != `["a","b"]` {
		t.Fatalf("expected array carried as JSON text, got %q", fields["tags"])
	}
}

func TestParseBodyForm(t *testing.T) {
	form := url.Values{}
	form.Set("name", "Plan")
	form.Set("price", "10")

	c := newTestContext(t, "POST", "/api/subscriptions",
		"application/x-www-form-urlencoded", []byte(form.Encode()))

	fields, err := parseBody(c)
	if err != nil {
		t.Fatalf("parseBody returned error: %v", err)
	}
	if fields["name"] != "Plan" || fields["price"] != "10" {
		t.Fatalf("unexpected fields: %+v", fields)
	}
}

func TestParseBodyMultipartPicksLastValue(t *testing.T) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	_ = writer.WriteField("name", "First")
	_ = writer.WriteField("name", "Second")
	_ = writer.WriteField("price", "10")
	_ = writer.Close()

	c := newTestContext(t, "POST", "/api/subscriptions", writer.FormDataContentType(), body.Bytes())

	fields, err := parseBody(c)
	if err != nil {
		t.Fatalf("parseBody returned error: %v", err)
	}
	if fields["name"] != "Second" {
		t.Fatalf("expected last multipart value to win, got %q", fields["name"])
	}
	if fields["price"] != "10" {
		t.Fatalf("unexpected price: %q", fields["price"])
	}
}

func TestParseBodyInvalidJSON(t *testing.T) {
	c := newTestContext(t, "POST", "/api/subscriptions", "application/json", []byte(`{not json`))

	if _, err := parseBody(c); err == nil {
		t.Fatal("expected error for invalid JSON body")
	}
}

func TestNumberFieldToleratesQuotedValues(t *testing.T) {
	got, err := numberField(`"42.5"`, "amount")
	if err != nil {
		t.Fatalf("numberField returned error: %v", err)
	}
	if got != 42.5 {
		t.Fatalf("expected 42.5, got %v", got)
	}

	if _, err := numberField("not-a-number", "amount"); err == nil {
		t.Fatal("expected error for non-numeric value")
	}
	if _, err := numberField("abc", "amount"); err == nil || !strings.Contains(err.Error(), "amount") {
		t.Fatalf("expected error naming the field, got %v", err)
	}
}

func TestRequireFields(t *testing.T) {
	fields := map[string]string{"userId": "1", "paymentId": " "}

	if err := requireFields(fields, "userId"); err != nil {
		t.Fatalf("expected userId to pass, got %v", err)
	}
	err := requireFields(fields, "userId", "paymentId")
	if err == nil || !strings.Contains(err.Error(), "paymentId") {
		t.Fatalf("expected paymentId error, got %v", err)
	}
}
