package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/vncsmyrnk/ballotbinder/internal/core/domain"
	"github.com/vncsmyrnk/ballotbinder/internal/core/ports"
)

type SessionHandler struct {
	service      ports.SessionService
	ttl          time.Duration
	cookieDomain string
	cookieSecure bool
}

func NewSessionHandler(service ports.SessionService, ttl time.Duration, cookieDomain string, cookieSecure bool) *SessionHandler {
	return &SessionHandler{
		service:      service,
		ttl:          ttl,
		cookieDomain: cookieDomain,
		cookieSecure: cookieSecure,
	}
}

type signInRequest struct {
	PrivateKey string `json:"private_key"`
	Locale     string `json:"locale"`
}

type signInResponse struct {
	Session *domain.Session `json:"session"`
	Token   string          `json:"token"`
}

func (h *SessionHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.PrivateKey == "" {
		writeBadRequest(w, "missing private_key")
		return
	}

	session, token, err := h.service.SignIn(r.Context(), ports.SignInInput{
		PrivateKey: req.PrivateKey,
		Locale:     req.Locale,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.setAccessTokenCookie(w, token)
	writeJSON(w, http.StatusCreated, signInResponse{Session: session, Token: token})
}

func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	session, ok := SessionFromContext(r.Context())
	if !ok {
		writeError(w, domain.ErrIdentityMissing)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// SignOut expires the session cookie. With ?clear=true the identity's
// recorded ballots are removed too.
func (h *SessionHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	session, ok := SessionFromContext(r.Context())
	if !ok {
		writeError(w, domain.ErrIdentityMissing)
		return
	}

	clearBallots, _ := strconv.ParseBool(r.URL.Query().Get("clear"))
	if err := h.service.SignOut(r.Context(), session, clearBallots); err != nil {
		writeError(w, err)
		return
	}

	h.expireCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *SessionHandler) setAccessTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    token,
		Path:     "/",
		Domain:   h.cookieDomain,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.ttl.Seconds()),
	})
}

func (h *SessionHandler) expireCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: accessTokenCookie, MaxAge: -1, Path: "/", Domain: h.cookieDomain})
}
