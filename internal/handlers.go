package internal

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"ludic-admin/internal/admin"
	"ludic-admin/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// messages shared by several handlers
const (
	errBadJSON   = "Некорректный запрос"
	errDB        = "Ошибка базы данных"
	errAdminOnly = "Доступ только для администраторов"
)

// screenOf picks one of the session's screens.
type screenOf[T any, D any] func(*Session) *admin.Screen[T, D]

func playersScreen(s *Session) *admin.Screen[admin.Player, admin.PlayerDraft] { return s.Players }

func matchesScreen(s *Session) *admin.Screen[admin.Match, admin.MatchDraft] { return s.Matches }

// presenter turns a view into the response body.
type presenter[T any] func(admin.View[T]) any

func plainView[T any](v admin.View[T]) any { return v }

type matchListView struct {
	admin.View[admin.Match]
	Items []admin.MatchCard `json:"items"`
}

func matchCards(locale string) presenter[admin.Match] {
	return func(v admin.View[admin.Match]) any {
		cards := make([]admin.MatchCard, 0, len(v.Items))
		for _, m := range v.Items {
			cards = append(cards, admin.PresentMatch(m, locale))
		}
		return matchListView{View: v, Items: cards}
	}
}

// ------------------- Failures -------------------

func writeFailure(c *gin.Context, err error) {
	_ = c.Error(err)

	var f *admin.Failure
	if !errors.As(err, &f) {
		c.JSON(http.StatusBadGateway, gin.H{"error": errDB})
		return
	}
	switch f.Kind {
	case admin.ValidationFailed:
		c.JSON(http.StatusBadRequest, gin.H{"error": f.UserMessage(), "messages": f.Messages})
	case admin.ConflictFailed:
		c.JSON(http.StatusConflict, gin.H{"error": f.UserMessage(), "field": f.Field})
	case admin.NotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": f.UserMessage()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": f.UserMessage()})
	}
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный id"})
		return 0, false
	}
	return id, true
}

// ensureLoaded runs the first fetch of a screen that was never loaded.
func ensureLoaded[T any, D any](ctx context.Context, s *admin.Screen[T, D]) error {
	if !s.Store().FetchedAt().IsZero() {
		return nil
	}
	return s.Refresh(ctx)
}

// ------------------- Screens -------------------

// GET /api/admin/{kind}?page=N
func ListScreen[T any, D any](pick screenOf[T, D], present presenter[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := pick(session(c))
		if err := ensureLoaded(c.Request.Context(), s); err != nil && s.Store().FetchedAt().IsZero() {
			writeFailure(c, err)
			return
		}
		if p := c.Query("page"); p != "" {
			page, err := strconv.Atoi(p)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный номер страницы"})
				return
			}
			s.ChangePage(page)
		}
		c.JSON(http.StatusOK, present(s.View()))
	}
}

// POST /api/admin/{kind}/refresh
func RefreshScreen[T any, D any](pick screenOf[T, D], present presenter[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := pick(session(c))
		if err := s.Refresh(c.Request.Context()); err != nil {
			writeFailure(c, err)
			return
		}
		c.JSON(http.StatusOK, present(s.View()))
	}
}

// POST /api/admin/{kind}/filter {field, value}
func FilterScreen[T any, D any](pick screenOf[T, D], present presenter[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req filterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errBadJSON})
			return
		}
		s := pick(session(c))
		if err := s.SetFilter(c.Request.Context(), req.Field, req.Value); err != nil {
			writeFailure(c, err)
			return
		}
		c.JSON(http.StatusOK, present(s.View()))
	}
}

// POST /api/admin/{kind}
func CreateRecord[T any, D any](pick screenOf[T, D]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var d D
		if err := c.ShouldBindJSON(&d); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errBadJSON})
			return
		}
		s := pick(session(c))
		row, err := s.Create(c.Request.Context(), d)
		if err != nil {
			writeFailure(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"ok": true, "record": row, "notice": s.State().Notice})
	}
}

// GET /api/admin/{kind}/:id/edit
func EditRecord[T any, D any](pick screenOf[T, D]) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		s := pick(session(c))
		if err := ensureLoaded(c.Request.Context(), s); err != nil {
			writeFailure(c, err)
			return
		}
		d, err := s.OpenEdit(id)
		if err != nil {
			writeFailure(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id, "draft": d})
	}
}

// PUT /api/admin/{kind}/:id
func UpdateRecord[T any, D any](pick screenOf[T, D]) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		var d D
		if err := c.ShouldBindJSON(&d); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errBadJSON})
			return
		}
		s := pick(session(c))
		row, err := s.Update(c.Request.Context(), id, d)
		if err != nil {
			writeFailure(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "record": row, "notice": s.State().Notice})
	}
}

// POST /api/admin/{kind}/:id/delete
func RequestDelete[T any, D any](pick screenOf[T, D]) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		prompt := pick(session(c)).RequestDelete(id)
		c.JSON(http.StatusOK, gin.H{"id": id, "prompt": prompt})
	}
}

// POST /api/admin/{kind}/:id/delete/confirm
func ConfirmDelete[T any, D any](pick screenOf[T, D]) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		s := pick(session(c))
		out, err := s.ConfirmDelete(c.Request.Context(), id)
		if err != nil {
			writeFailure(c, err)
			return
		}
		if out == admin.Unconfirmed {
			c.JSON(http.StatusOK, gin.H{"ok": false, "cancelled": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "notice": s.State().Notice})
	}
}

// POST /api/admin/{kind}/:id/delete/cancel
func CancelDelete[T any, D any](pick screenOf[T, D]) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		pick(session(c)).CancelDelete(c.Request.Context(), id)
		c.JSON(http.StatusOK, gin.H{"ok": false, "cancelled": true})
	}
}

// ------------------- Admin -------------------

// Counter reports how many rows a table holds.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

func AdminStats(players, matches Counter, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		np, err := players.Count(ctx)
		if err != nil {
			log.Error("count players", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": errDB})
			return
		}
		nm, err := matches.Count(ctx)
		if err != nil {
			log.Error("count matches", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": errDB})
			return
		}
		c.JSON(http.StatusOK, gin.H{"players": np, "matches": nm})
	}
}

// LogReader lists recent audit entries.
type LogReader interface {
	Recent(ctx context.Context, limit int) ([]LogEntry, error)
}

func AdminLogs(logs LogReader, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 200
		if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v < limit {
			limit = v
		}
		out, err := logs.Recent(c.Request.Context(), limit)
		if err != nil {
			log.Error("read audit log", err, zap.Int("limit", limit))
			c.JSON(http.StatusBadGateway, gin.H{"error": errDB})
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func Health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
