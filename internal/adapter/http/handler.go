package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/meetingtool/mt/internal/domain"
	"github.com/meetingtool/mt/internal/usecase/join"
	"go.uber.org/zap"
)

// AgendaSource is the part of join.Service the handler reads from.
type AgendaSource interface {
	Today(ctx context.Context) (*join.Agenda, error)
	Lookup(ctx context.Context, alias string) (string, error)
}

// Handler serves the schedule read-only over HTTP. Nothing here opens a
// browser; /go redirects the caller's browser instead.
type Handler struct {
	src AgendaSource
	log *zap.Logger
}

func NewHandler(src AgendaSource, log *zap.Logger) *Handler {
	return &Handler{src: src, log: log}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/agenda", h.GetAgenda)
	mux.HandleFunc("GET /api/meetings/{alias}", h.GetMeeting)
	mux.HandleFunc("GET /go", h.GoNow)
	mux.HandleFunc("GET /go/{alias}", h.GoAlias)
}

type entryResponse struct {
	Time     string `json:"time"`
	Minute   int    `json:"minute"`
	Meeting  string `json:"meeting"`
	Selected bool   `json:"selected"`
}

type selectionResponse struct {
	Name string `json:"name"`
	Time string `json:"time"`
	URL  string `json:"url"`
}

type agendaResponse struct {
	Day       string             `json:"day"`
	Now       string             `json:"now"`
	Tolerance int                `json:"tolerance"`
	Entries   []entryResponse    `json:"entries"`
	Selected  *selectionResponse `json:"selected,omitempty"`
}

type meetingResponse struct {
	Alias string `json:"alias"`
	URL   string `json:"url"`
}

func (h *Handler) GetAgenda(w http.ResponseWriter, r *http.Request) {
	agenda, err := h.src.Today(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	resp := agendaResponse{
		Day:       domain.DayKey(agenda.Day),
		Now:       domain.FormatMinuteOfDay(agenda.Minute),
		Tolerance: agenda.Tolerance,
		Entries:   make([]entryResponse, 0, len(agenda.Candidates)),
	}
	for _, c := range agenda.Candidates {
		resp.Entries = append(resp.Entries, entryResponse{
			Time:     c.Time,
			Minute:   c.Minute,
			Meeting:  c.Meeting,
			Selected: agenda.Selected != nil && agenda.Selected.Candidate == c,
		})
	}
	if sel := agenda.Selected; sel != nil {
		resp.Selected = &selectionResponse{Name: sel.Name, Time: sel.Time, URL: sel.URL}
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetMeeting(w http.ResponseWriter, r *http.Request) {
	alias := r.PathValue("alias")
	url, err := h.src.Lookup(r.Context(), alias)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, meetingResponse{Alias: alias, URL: url})
}

func (h *Handler) GoNow(w http.ResponseWriter, r *http.Request) {
	agenda, err := h.src.Today(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	if agenda.Selected == nil {
		http.Error(w, "No meeting right now.", http.StatusNotFound)
		return
	}
	http.Redirect(w, r, agenda.Selected.URL, http.StatusFound)
}

func (h *Handler) GoAlias(w http.ResponseWriter, r *http.Request) {
	url, err := h.src.Lookup(r.Context(), r.PathValue("alias"))
	if err != nil {
		h.fail(w, err)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrUnknownAlias) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	h.log.Error("request failed", zap.Error(err))
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Warn("write response", zap.Error(err))
	}
}
