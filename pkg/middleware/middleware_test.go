package middleware

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/optionhedge/pkg/config"
	"github.com/wyfcoding/optionhedge/pkg/ratelimit"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type httpRecord struct {
	method, path string
	status       int
}

type fakeCollector struct {
	http []httpRecord
	grpc []string
}

func (f *fakeCollector) RecordHTTPRequest(method, path string, status int, _ time.Duration) {
	f.http = append(f.http, httpRecord{method, path, status})
}
func (f *fakeCollector) RecordGRPCRequest(method, code string, _ time.Duration) {
	f.grpc = append(f.grpc, method+" "+code)
}
func (f *fakeCollector) RecordOptionPriced(string, bool) {}
func (f *fakeCollector) RecordScenarioEvaluation(time.Duration) {}
func (f *fakeCollector) RecordSweep(int, time.Duration) {}

func serve(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestGinRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(ratelimit.NewLocalRateLimiter(), config.RateLimitConfig{Enabled: true, QPS: 1, Burst: 1}))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	if w := serve(r, http.MethodGet, "/ping"); w.Code != http.StatusOK {
		t.Fatalf("first request status = %d", w.Code)
	}
	w := serve(r, http.MethodGet, "/ping")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" || w.Header().Get("X-RateLimit-Limit") != "1" {
		t.Errorf("headers = %v", w.Header())
	}
}

func TestGinRateLimitDisabled(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(ratelimit.NewLocalRateLimiter(), config.RateLimitConfig{Enabled: false, QPS: 1, Burst: 1}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 5; i++ {
		if w := serve(r, http.MethodGet, "/ping"); w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i, w.Code)
		}
	}
}

func TestGinRecoveryAndLogging(t *testing.T) {
	r := gin.New()
	r.Use(GinLoggingMiddleware(), GinRecoveryMiddleware())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := serve(r, http.MethodGet, "/boom")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if w.Header().Get(RequestIDHeader) == "" {
		t.Error("request id header missing")
	}
}

func TestGinCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(GinCORSMiddleware())
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodOptions, "/x")
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("CORS header missing")
	}
}

func TestGinMetricsMiddlewareUsesRouteTemplate(t *testing.T) {
	fc := &fakeCollector{}
	r := gin.New()
	r.Use(GinMetricsMiddleware(fc))
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusAccepted) })

	serve(r, http.MethodGet, "/items/42")
	serve(r, http.MethodGet, "/nope")

	if len(fc.http) != 2 {
		t.Fatalf("recorded %d requests", len(fc.http))
	}
	if fc.http[0] != (httpRecord{"GET", "/items/:id", http.StatusAccepted}) {
		t.Errorf("first record = %+v", fc.http[0])
	}
	if fc.http[1].path != "unmatched" || fc.http[1].status != http.StatusNotFound {
		t.Errorf("second record = %+v", fc.http[1])
	}
}

func TestGRPCInterceptors(t *testing.T) {
	info := &grpc.UnaryServerInfo{FullMethod: "/hedge.v1.HedgeService/GetPosition"}
	ctx := peer.NewContext(context.Background(), &peer.Peer{Addr: &net.TCPAddr{IP: net.ParseIP("10.0.0.1"), Port: 5555}})
	ok := func(ctx context.Context, req any) (any, error) { return "ok", nil }

	limiter := GRPCRateLimitInterceptor(ratelimit.NewLocalRateLimiter(), config.RateLimitConfig{Enabled: true, QPS: 1, Burst: 1})
	if _, err := limiter(ctx, nil, info, ok); err != nil {
		t.Fatalf("first call error = %v", err)
	}
	if _, err := limiter(ctx, nil, info, ok); status.Code(err) != codes.ResourceExhausted {
		t.Fatalf("second call error = %v, want ResourceExhausted", err)
	}

	recovery := GRPCRecoveryInterceptor()
	_, err := recovery(ctx, nil, info, func(context.Context, any) (any, error) { panic("boom") })
	if status.Code(err) != codes.Internal {
		t.Errorf("recovered error = %v, want Internal", err)
	}

	fc := &fakeCollector{}
	resp, err := GRPCLoggingInterceptor()(ctx, nil, info, ok)
	if err != nil || resp != "ok" {
		t.Fatalf("logging interceptor = %v, %v", resp, err)
	}
	if _, err := GRPCMetricsInterceptor(fc)(ctx, nil, info, ok); err != nil {
		t.Fatal(err)
	}
	if len(fc.grpc) != 1 || fc.grpc[0] != info.FullMethod+" OK" {
		t.Errorf("grpc records = %v", fc.grpc)
	}
}
