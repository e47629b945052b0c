package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// stubHandler is a no-op gRPC handler used in interceptor tests.
func stubHandler(_ context.Context, _ any) (any, error) {
	return "ok", nil
}

var reflectionInfo = &grpc.UnaryServerInfo{FullMethod: "/grpc.reflection.v1.ServerReflection/Anything"}

func TestAuthInterceptor(t *testing.T) {
	for _, tc := range []struct {
		name     string
		token    string
		method   string
		md       metadata.MD
		wantCode codes.Code
	}{
		{"Disabled", "", reflectionInfo.FullMethod, nil, codes.OK},
		{"HealthExempt", "secret", "/grpc.health.v1.Health/Check", nil, codes.OK},
		{"MissingMetadata", "secret", reflectionInfo.FullMethod, nil, codes.Unauthenticated},
		{"MissingHeader", "secret", reflectionInfo.FullMethod, metadata.Pairs("other", "v"), codes.Unauthenticated},
		{"WrongScheme", "secret", reflectionInfo.FullMethod, metadata.Pairs("authorization", "Token secret"), codes.Unauthenticated},
		{"WrongToken", "secret", reflectionInfo.FullMethod, metadata.Pairs("authorization", "Bearer nope"), codes.Unauthenticated},
		{"Valid", "secret", reflectionInfo.FullMethod, metadata.Pairs("authorization", "Bearer secret"), codes.OK},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			if tc.md != nil {
				ctx = metadata.NewIncomingContext(ctx, tc.md)
			}
			_, err := AuthInterceptor(tc.token)(ctx, nil, &grpc.UnaryServerInfo{FullMethod: tc.method}, stubHandler)
			if got := status.Code(err); got != tc.wantCode {
				t.Fatalf("code = %v, want %v (err=%v)", got, tc.wantCode, err)
			}
		})
	}
}

func TestRecoveryInterceptor(t *testing.T) {
	panicking := func(context.Context, any) (any, error) { panic("boom") }
	_, err := RecoveryInterceptor(context.Background(), nil, reflectionInfo, panicking)
	if status.Code(err) != codes.Internal {
		t.Fatalf("code = %v, want Internal", status.Code(err))
	}
}

func TestLoggingInterceptor_PassesThrough(t *testing.T) {
	resp, err := LoggingInterceptor(context.Background(), nil, reflectionInfo, stubHandler)
	if err != nil || resp != "ok" {
		t.Fatalf("got (%v, %v)", resp, err)
	}
}

func TestRecoverer(t *testing.T) {
	h := Recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/demo/users", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestRequestLogger_KeepsStatus(t *testing.T) {
	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCheckBearer(t *testing.T) {
	for _, tc := range []struct {
		header string
		ok     bool
	}{
		{"Bearer secret", true},
		{"Bearer secre", false},
		{"bearer secret", false},
		{"secret", false},
	} {
		if got := checkBearer(tc.header, "secret") == ""; got != tc.ok {
			t.Errorf("checkBearer(%q) ok = %v, want %v", tc.header, got, tc.ok)
		}
	}
}
