package server

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"recordwizard/internal/catalog"
	"recordwizard/internal/session"
	"recordwizard/internal/wizard"
)

// WizardHandler exposes the session state machine over HTTP. Every
// mutating endpoint saves the session back to the store so the Redis
// backend stays current.
type WizardHandler struct {
	Store    session.Store
	Secret   []byte
	TokenTTL time.Duration
	Index    *catalog.Index
	Logger   *log.Logger
}

func (h *WizardHandler) Register(g *echo.Group) {
	g.POST("/wizard/sessions", h.createSession)

	sess := g.Group("/wizard/session", sessionMiddleware(h.Secret))
	sess.GET("", h.getSession)
	sess.GET("/message", h.getMessage)
	sess.POST("/answer", h.selectAnswer)
	sess.POST("/next", h.nextPage)
	sess.POST("/back", h.prevPage)
	sess.POST("/request", h.submitRequest)
	sess.POST("/restart", h.restart)

	g.GET("/agencies/suggest", h.suggest)
}

type createSessionResponse struct {
	Token   string      `json:"token"`
	Session wizard.View `json:"session"`
}

func (h *WizardHandler) createSession(c echo.Context) error {
	ctx := c.Request().Context()
	id, m, err := h.Store.Create(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Init failure is unrecoverable for the session: surface a
	// cannot-start error and discard it.
	if err := m.InitLoad(ctx); err != nil {
		_ = h.Store.Delete(ctx, id)
		h.Logger.Printf("session init failed: %v", err)
		return echo.NewHTTPError(http.StatusBadGateway, "wizard cannot start: "+err.Error())
	}
	if err := h.Store.Save(ctx, id, m); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	token, err := signSessionToken(id, h.Secret, h.TokenTTL)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	metricSessionsCreated.Inc()

	cookie := &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	c.SetCookie(cookie)
	return c.JSON(http.StatusCreated, createSessionResponse{Token: token, Session: m.View()})
}

// machine resolves the authenticated session.
func (h *WizardHandler) machine(c echo.Context) (string, *wizard.Machine, error) {
	id, _ := c.Get("session_id").(string)
	m, err := h.Store.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return "", nil, echo.NewHTTPError(http.StatusNotFound, "session expired or unknown")
		}
		return "", nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return id, m, nil
}

func (h *WizardHandler) save(c echo.Context, id string, m *wizard.Machine) error {
	if err := h.Store.Save(c.Request().Context(), id, m); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return nil
}

func (h *WizardHandler) getSession(c echo.Context) error {
	_, m, err := h.machine(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m.View())
}

func (h *WizardHandler) getMessage(c echo.Context) error {
	_, m, err := h.machine(c)
	if err != nil {
		return err
	}
	mid := c.QueryParam("mid")
	if mid == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "mid is required")
	}
	return c.JSON(http.StatusOK, map[string]string{"mid": mid, "message": m.Message(mid)})
}

type selectAnswerRequest struct {
	AnswerIdx int `json:"answer_idx"`
}

func (h *WizardHandler) selectAnswer(c echo.Context) error {
	id, m, err := h.machine(c)
	if err != nil {
		return err
	}
	var req selectAnswerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	v := m.View()
	if v.Activity.Type != wizard.ActivityQuestion {
		return echo.NewHTTPError(http.StatusConflict, "current page takes no answer")
	}
	if req.AnswerIdx < 0 || req.AnswerIdx >= len(v.Activity.Answers) {
		return echo.NewHTTPError(http.StatusBadRequest, "answer_idx out of range")
	}
	m.SelectAnswer(req.AnswerIdx)
	if err := h.save(c, id, m); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m.View())
}

func (h *WizardHandler) nextPage(c echo.Context) error {
	id, m, err := h.machine(c)
	if err != nil {
		return err
	}
	if err := m.NextPage(); err != nil {
		if errors.Is(err, wizard.ErrNoAnswerSelected) || errors.Is(err, wizard.ErrNextPageNotAllowed) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.save(c, id, m); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m.View())
}

func (h *WizardHandler) prevPage(c echo.Context) error {
	id, m, err := h.machine(c)
	if err != nil {
		return err
	}
	m.PrevPage()
	if err := h.save(c, id, m); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m.View())
}

type submitRequestBody struct {
	Query string `json:"query"`
	Topic string `json:"topic,omitempty"`
}

func (h *WizardHandler) submitRequest(c echo.Context) error {
	id, m, err := h.machine(c)
	if err != nil {
		return err
	}
	var req submitRequestBody
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var topic *wizard.Topic
	if req.Topic != "" {
		topic = wizard.FindTopic(m.Topics(), req.Topic)
		if topic == nil {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown topic: "+req.Topic)
		}
	}

	start := time.Now()
	m.SubmitRequest(c.Request().Context(), wizard.Request{Query: req.Query, Topic: topic})
	metricSubmitDuration.Observe(time.Since(start).Seconds())

	v := m.View()
	outcome := "ok"
	if v.IsError {
		outcome = "degraded"
	}
	metricSubmits.WithLabelValues(outcome).Inc()

	if err := h.save(c, id, m); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v)
}

func (h *WizardHandler) restart(c echo.Context) error {
	id, m, err := h.machine(c)
	if err != nil {
		return err
	}
	m.JumpBackToQueryPage()
	if err := h.save(c, id, m); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m.View())
}

func (h *WizardHandler) suggest(c echo.Context) error {
	if h.Index == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "catalog not loaded")
	}
	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}
	k := 10
	if raw := c.QueryParam("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 50 {
			k = n
		}
	}
	hits, err := h.Index.Suggest(q, k)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if hits == nil {
		hits = []catalog.Suggestion{}
	}
	return c.JSON(http.StatusOK, map[string]any{"suggestions": hits})
}
