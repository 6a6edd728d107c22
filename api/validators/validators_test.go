package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/angelmondragon/storefront-checkout/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-checkout/pkg/errors"
)

type addItemBody struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
}

func TestDecodeJSONBodyValidates(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"productId":"","quantity":0}`))
	var body addItemBody
	err := DecodeJSONBody(req, &body)
	if !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error got %v", err)
	}
	details, ok := pkgerrors.As(err).Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details got %T", pkgerrors.As(err).Details())
	}
	if details["productId"] != "is required" || details["quantity"] != "must be greater than 0" {
		t.Fatalf("unexpected details %v", details)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"productId":"p1","quantity":1,"extra":true}`))
	var body addItemBody
	if err := DecodeJSONBody(req, &body); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestDecodeJSONBodyAcceptsValidPayload(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"productId":"p1","quantity":2}`))
	var body addItemBody
	if err := DecodeJSONBody(req, &body); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if body.ProductID != "p1" || body.Quantity != 2 {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?page=3&perPage=abc&big=500", nil)
	if v, err := ParseQueryInt(req, "page", 1, 1, 100); err != nil || v != 3 {
		t.Fatalf("expected 3 got %d err=%v", v, err)
	}
	if v, err := ParseQueryInt(req, "missing", 7, 1, 100); err != nil || v != 7 {
		t.Fatalf("expected default got %d err=%v", v, err)
	}
	if _, err := ParseQueryInt(req, "perPage", 1, 1, 100); err == nil {
		t.Fatal("expected numeric error")
	}
	if _, err := ParseQueryInt(req, "big", 1, 1, 100); err == nil {
		t.Fatal("expected range error")
	}
}

func TestParseQueryEnum(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?status=hold&bad=nope", nil)
	v, err := ParseQueryEnum(req, "status", enums.ParseOrderStatus)
	if err != nil || v == nil || *v != enums.OrderStatusHold {
		t.Fatalf("expected hold got %v err=%v", v, err)
	}
	if v, err := ParseQueryEnum(req, "absent", enums.ParseOrderStatus); err != nil || v != nil {
		t.Fatalf("expected nil for absent param got %v err=%v", v, err)
	}
	if _, err := ParseQueryEnum(req, "bad", enums.ParseOrderStatus); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestSanitizeString(t *testing.T) {
	cases := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{name: "trims and truncates", input: "  hello world  ", max: 5, want: "hello"},
		{name: "no limit", input: " chai ", max: 0, want: "chai"},
		{name: "multi byte runes stay whole", input: "চা পাতা", max: 2, want: "চা"},
		{name: "control characters dropped", input: "tea\x00\n\tcup", max: 10, want: "teacup"},
		{name: "invalid utf8 dropped", input: "ab\xffc", max: 10, want: "abc"},
		{name: "truncation does not leave trailing space", input: "green tea", max: 6, want: "green"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SanitizeString(tc.input, tc.max)
			if got != tc.want {
				t.Fatalf("expected %q got %q", tc.want, got)
			}
			if !utf8.ValidString(got) {
				t.Fatalf("result is not valid utf8: %q", got)
			}
		})
	}
}
