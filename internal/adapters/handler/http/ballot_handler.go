package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vncsmyrnk/ballotbinder/internal/core/domain"
	"github.com/vncsmyrnk/ballotbinder/internal/core/ports"
)

type BallotHandler struct {
	service ports.BinderService
	now     func() time.Time
}

func NewBallotHandler(service ports.BinderService) *BallotHandler {
	return &BallotHandler{
		service: service,
		now:     time.Now,
	}
}

type recordBallotRequest struct {
	BallotID string `json:"ballot_id"`
}

// ListMine returns a summary row for every ballot recorded by the signed-in
// identity, in the order they were recorded.
func (h *BallotHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	session, ok := SessionFromContext(r.Context())
	if !ok {
		writeError(w, domain.ErrIdentityMissing)
		return
	}

	lists, err := h.service.ListMyBallots(r.Context(), session.Identity)
	if err != nil {
		writeError(w, err)
		return
	}

	now := h.now()
	summaries := make([]domain.BallotSummary, 0, len(lists))
	for _, l := range lists {
		summaries = append(summaries, domain.NewBallotSummary(l, now))
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (h *BallotHandler) Record(w http.ResponseWriter, r *http.Request) {
	session, ok := SessionFromContext(r.Context())
	if !ok {
		writeError(w, domain.ErrIdentityMissing)
		return
	}

	var req recordBallotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	ballotID := strings.TrimSpace(req.BallotID)
	if err := h.service.RecordBallot(r.Context(), session.Identity, ballotID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, recordBallotRequest{BallotID: ballotID})
}

func (h *BallotHandler) Get(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.GetBallot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	view, err := domain.NewBallotView(list)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
