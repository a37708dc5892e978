package validation

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/gin-gonic/gin/binding"
)

type sample struct {
	Title    string  `json:"title" binding:"required,max=5"`
	Username string  `json:"username" binding:"omitempty,username"`
	Due      *string `json:"due_date" binding:"omitempty,dateonly"`
	Priority *string `json:"priority" binding:"omitempty,oneof=low medium high"`
}

func strPtr(s string) *string { return &s }

func TestToDetailsUsesJSONNames(t *testing.T) {
	Init()
	err := binding.Validator.ValidateStruct(&sample{
		Title:    strings.Repeat("x", 6),
		Username: "bad name",
		Due:      strPtr("31-12-2025"),
		Priority: strPtr("urgent"),
	})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	d := ToDetails(err)
	for _, field := range []string{"title", "username", "due_date", "priority"} {
		if _, ok := d[field]; !ok {
			t.Fatalf("missing detail for %s: %v", field, d)
		}
	}
	if d["priority"] != "must be one of: low, medium, high" {
		t.Fatalf("unexpected oneof message: %q", d["priority"])
	}
}

func TestDateOnlyAcceptsEmptyAndISO(t *testing.T) {
	Init()
	for _, v := range []string{"", "2025-12-31"} {
		if err := binding.Validator.ValidateStruct(&sample{Title: "ok", Due: strPtr(v)}); err != nil {
			t.Fatalf("value %q rejected: %v", v, err)
		}
	}
}

func TestToDetailsEmptyBody(t *testing.T) {
	d := ToDetails(io.EOF)
	if d["payload"] == "" {
		t.Fatalf("expected payload detail, got %v", d)
	}
}

func TestFieldErrorsIsError(t *testing.T) {
	var err error = FieldErrors{"due_date": "cannot be in the past"}
	var fe FieldErrors
	if !errors.As(err, &fe) || fe["due_date"] == "" {
		t.Fatalf("FieldErrors should round-trip through errors.As")
	}
	if ToDetails(err)["due_date"] != "cannot be in the past" {
		t.Fatalf("ToDetails should pass FieldErrors through")
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("")
	if err != nil || d != nil {
		t.Fatalf("empty date should be nil, got %v %v", d, err)
	}
	d, err = ParseDate("2025-03-10")
	if err != nil || d.Day() != 10 {
		t.Fatalf("unexpected parse result %v %v", d, err)
	}
}

func TestPasswordBoundIsBytes(t *testing.T) {
	Init()
	type req struct {
		Password string `json:"password" binding:"required,pwd"`
	}
	cases := map[string]bool{
		"short":                 false,
		"password123":           true,
		strings.Repeat("a", 72): true,
		strings.Repeat("a", 73): false,
		strings.Repeat("é", 36): true,
		strings.Repeat("é", 37): false,
	}
	for pw, ok := range cases {
		err := binding.Validator.ValidateStruct(&req{Password: pw})
		if (err == nil) != ok {
			t.Fatalf("password of %d bytes: expected ok=%v, got %v", len(pw), ok, err)
		}
		if err != nil && ToDetails(err)["password"] == "" {
			t.Fatalf("expected password detail for %d bytes", len(pw))
		}
	}
}
