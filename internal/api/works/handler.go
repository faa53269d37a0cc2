package works

import (
	"context"
	"net/http"

	"portfolio-site/internal/app/http/views"
	"portfolio-site/internal/domain/works"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Source is where works come from; the backend client in production.
type Source interface {
	ListWorks(ctx context.Context) ([]works.Work, error)
	GetWork(ctx context.Context, id string) (*works.Work, error)
}

type Handler struct {
	source    Source
	snapshots works.SnapshotStore
	logger    *zap.Logger
}

func NewHandler(source Source, snapshots works.SnapshotStore, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{source: source, snapshots: snapshots, logger: logger}
}

// ------------------------------
// GET /  -> listing
// ------------------------------
func (h *Handler) Index(c *gin.Context) {
	f := works.ParseFilter(c.Request.URL.Query())

	all, err := h.source.ListWorks(c.Request.Context())
	if err != nil {
		h.logger.Warn("list works failed, rendering empty listing", zap.Error(err))
		all = nil
	} else if h.snapshots != nil {
		if err := h.snapshots.SaveSnapshot(c.Request.Context(), all); err != nil {
			h.logger.Warn("save works snapshot", zap.Error(err))
		}
	}

	list := works.Apply(all, f)
	cards := make([]cardView, 0, len(list))
	for _, w := range list {
		cards = append(cards, toCard(w))
	}

	c.HTML(http.StatusOK, "index.html", indexPage{
		Nav:   views.Nav{Path: "/", Type: string(f.Type)},
		Cards: cards,
		Tags:  tagLinks(f),
	})
}

// ------------------------------
// GET /work/:id  -> detail
// ------------------------------
func (h *Handler) Detail(c *gin.Context) {
	id := c.Param("id")

	w, err := h.source.GetWork(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("get work failed", zap.String("id", id), zap.Error(err))
		NotFound(c)
		return
	}
	if w == nil {
		NotFound(c)
		return
	}

	c.HTML(http.StatusOK, "work.html", workPage{
		Nav:    views.Nav{Path: "/work"},
		Work:   *w,
		Date:   w.FormattedDate(),
		Blocks: toBlockViews(w.Data),
	})
}

// NotFound renders the shared not-found page with a 404.
func NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "not_found.html", notFoundPage{Nav: views.Nav{Path: c.Request.URL.Path}})
}
