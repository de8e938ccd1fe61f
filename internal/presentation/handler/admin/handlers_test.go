package admin

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a-h/templ"
	"github.com/rsvshop/rsvshop/internal/infrastructure/configs"
	"github.com/rsvshop/rsvshop/internal/infrastructure/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func recordSpans(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter)))
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	return exporter
}

func newTestHandler() *Handler {
	return NewHandler(configs.UIConfig{
		Title:       "RSVShop 관리자",
		Description: "RSVShop 호텔 예약 관리 시스템",
		FontFamily:  "Inter",
		FontURL:     "https://fonts.googleapis.com/css2?family=Inter",
	}, logging.NewNop())
}

func TestPages(t *testing.T) {
	h := newTestHandler()

	testCases := []struct {
		name      string
		handler   http.HandlerFunc
		wantTitle string
		wantText  []string
	}{
		{
			name:      "dashboard",
			handler:   h.GetDashboard,
			wantTitle: "<title>대시보드 | RSVShop 관리자</title>",
			wantText:  []string{"대시보드", "요약 위젯 로딩 최적화 버전"},
		},
		{
			name:      "packages",
			handler:   h.GetPackages,
			wantTitle: "<title>패키지 관리 | RSVShop 관리자</title>",
			wantText:  []string{"목록/폼은 필요 시 로드"},
		},
		{
			name:      "reservations",
			handler:   h.GetReservations,
			wantTitle: "<title>예약 관리 | RSVShop 관리자</title>",
			wantText:  []string{"리스트는 필요 시 로드"},
		},
		{
			name:      "admin_loading",
			handler:   h.GetAdminLoading,
			wantTitle: "<title>RSVShop 관리자</title>",
			wantText:  []string{"관리자 페이지 로딩 중...", "데이터를 불러오고 있습니다"},
		},
		{
			name:      "loading",
			handler:   h.GetLoading,
			wantTitle: "<title>RSVShop 관리자</title>",
			wantText:  []string{"로딩 중..."},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			tc.handler(rr, httptest.NewRequest(http.MethodGet, "/admin", nil))

			require.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))

			body := rr.Body.String()
			assert.Contains(t, body, tc.wantTitle)
			assert.Contains(t, body, `<meta name="description" content="RSVShop 호텔 예약 관리 시스템">`)
			for _, text := range tc.wantText {
				assert.Contains(t, body, text)
			}
		})
	}
}

func TestWritePageRenderFailure(t *testing.T) {
	h := newTestHandler()
	broken := templ.ComponentFunc(func(context.Context, io.Writer) error {
		return errors.New("template exploded")
	})

	rr := httptest.NewRecorder()
	h.writePage(rr, httptest.NewRequest(http.MethodGet, "/admin", nil), "x", broken)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.NotContains(t, rr.Body.String(), "<html")
}

func TestWritePageRecordsRenderSpan(t *testing.T) {
	exporter := recordSpans(t)
	h := newTestHandler()

	rr := httptest.NewRecorder()
	h.GetPackages(rr, httptest.NewRequest(http.MethodGet, "/admin/packages", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	broken := templ.ComponentFunc(func(context.Context, io.Writer) error {
		return errors.New("template exploded")
	})
	h.writePage(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/admin", nil), "x", broken)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "admin.render", spans[0].Name)
	assert.Equal(t, codes.Unset, spans[0].Status.Code)
	assert.Equal(t, codes.Error, spans[1].Status.Code)
	require.NotEmpty(t, spans[1].Events)
	assert.Equal(t, "exception", spans[1].Events[0].Name)
}
