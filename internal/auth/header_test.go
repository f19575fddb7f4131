package auth

import (
	"net/http"
	"testing"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		want     string
		wantKind Kind
		wantDesc string
	}{
		{name: "valid", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "lowercase scheme", header: "bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "missing", header: "", wantKind: MissingHeader, wantDesc: "Authorization header is expected."},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", wantKind: MalformedHeader, wantDesc: `Authorization header must start with "Bearer".`},
		{name: "blank", header: "   ", wantKind: MalformedHeader, wantDesc: `Authorization header must start with "Bearer".`},
		{name: "no token", header: "Bearer", wantKind: MalformedHeader, wantDesc: "Token not found."},
		{name: "too many parts", header: "Bearer a b", wantKind: MalformedHeader, wantDesc: "Authorization header must be bearer token."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BearerToken(tt.header)
			if tt.wantKind == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got != tt.want {
					t.Errorf("token = %q, want %q", got, tt.want)
				}
				return
			}

			authErr, ok := err.(*Error)
			if !ok {
				t.Fatalf("error = %T, want *Error", err)
			}
			if authErr.Kind != tt.wantKind {
				t.Errorf("kind = %v, want %v", authErr.Kind, tt.wantKind)
			}
			if authErr.Description != tt.wantDesc {
				t.Errorf("description = %q, want %q", authErr.Description, tt.wantDesc)
			}
			if authErr.Status != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", authErr.Status)
			}
		})
	}
}
