package admin

import (
	"bytes"
	"net/http"

	"github.com/a-h/templ"
	"github.com/rsvshop/rsvshop/internal/infrastructure/configs"
	"github.com/rsvshop/rsvshop/internal/infrastructure/json"
	"github.com/rsvshop/rsvshop/internal/infrastructure/logging"
	"github.com/rsvshop/rsvshop/internal/infrastructure/tracing"
	"github.com/rsvshop/rsvshop/internal/presentation/views"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const tracerName = "rsvshop/admin"

// Handler serves the admin placeholder pages. None of them read input or
// load data; they only compose a view inside the layout.
type Handler struct {
	ui     configs.UIConfig
	logger logging.Logger
}

func NewHandler(ui configs.UIConfig, logger logging.Logger) *Handler {
	return &Handler{
		ui:     ui,
		logger: logger,
	}
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	h.writePage(w, r, views.DashboardTitle, views.Dashboard())
}

func (h *Handler) GetPackages(w http.ResponseWriter, r *http.Request) {
	h.writePage(w, r, views.PackagesTitle, views.Packages())
}

func (h *Handler) GetReservations(w http.ResponseWriter, r *http.Request) {
	h.writePage(w, r, views.ReservationsTitle, views.Reservations())
}

func (h *Handler) GetAdminLoading(w http.ResponseWriter, r *http.Request) {
	h.writePage(w, r, "", views.AdminLoading())
}

func (h *Handler) GetLoading(w http.ResponseWriter, r *http.Request) {
	h.writePage(w, r, "", views.Loading())
}

func (h *Handler) meta(section string) views.Meta {
	title := h.ui.Title
	if section != "" {
		title = section + " | " + h.ui.Title
	}

	return views.Meta{
		Title:       title,
		Description: h.ui.Description,
		FontFamily:  h.ui.FontFamily,
		FontURL:     h.ui.FontURL,
	}
}

// writePage renders into a buffer first so a failed render becomes a clean
// 500 instead of a truncated document.
func (h *Handler) writePage(w http.ResponseWriter, r *http.Request, section string, body templ.Component) {
	ctx, span := tracing.GetTracer(tracerName).Start(r.Context(), "admin.render")
	defer span.End()
	span.SetAttributes(attribute.String("admin.page", r.URL.Path))

	var rendered bytes.Buffer
	if err := views.Layout(h.meta(section)).Render(templ.WithChildren(ctx, body), &rendered); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
		h.logger.Error(logging.RequestResponse, logging.Rendering, "failed to render admin page", map[logging.ExtraKey]any{
			logging.Path:         r.URL.Path,
			logging.ErrorMessage: err.Error(),
		})
		_ = json.WriteInternalError(w)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(rendered.Bytes())
}
