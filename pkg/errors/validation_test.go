package errors

import (
	"strings"
	"testing"
)

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "Customers", false},
		{"valid with space", "Order Items", false},
		{"valid with underscore", "order_items", false},
		{"valid unicode", "Gesellschafter Übersicht", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"too long", strings.Repeat("a", 300), true},
		{"path traversal", "foo..bar", true},
		{"slash", "foo/bar", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTableName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTableName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"p_abc123", false},
		{"md-xyz", false},
		{"", true},
		{"has space", true},
		{"a/b", true},
		{strings.Repeat("x", 129), true},
	}

	for _, tt := range tests {
		err := ValidateIdentifier("base_id", tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateIdentifier(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeInvalidInput) {
			t.Errorf("ValidateIdentifier(%q) code = %v, want INVALID_INPUT", tt.input, GetCode(err))
		}
	}
}

func TestValidateColumnType(t *testing.T) {
	for _, uidt := range ColumnTypes {
		if err := ValidateColumnType(uidt); err != nil {
			t.Errorf("ValidateColumnType(%q) = %v, want nil", uidt, err)
		}
	}

	for _, uidt := range []string{"", "text", "singlelinetext", "VARCHAR"} {
		err := ValidateColumnType(uidt)
		if !Is(err, ErrCodeInvalidSchema) {
			t.Errorf("ValidateColumnType(%q) = %v, want INVALID_SCHEMA", uidt, err)
		}
	}
}

func TestValidateHexColor(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"#4A90E2", false},
		{"#fff", false},
		{"#abcdef", false},
		{"4A90E2", true},
		{"#4A90E", true},
		{"#GGGGGG", true},
		{"red", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateHexColor(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateHexColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid https", "https://nocodb.example.com", false},
		{"valid http", "http://localhost:8080", false},

		{"empty", "", true},
		{"ftp scheme", "ftp://example.com", true},
		{"no scheme", "example.com", true},
		{"javascript", "javascript:alert(1)", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
