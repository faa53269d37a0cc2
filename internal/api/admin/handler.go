package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	worksapi "portfolio-site/internal/api/works"
	"portfolio-site/internal/domain/editor"
	"portfolio-site/internal/domain/media"
	"portfolio-site/internal/domain/works"
	"portfolio-site/internal/infra/staging"
	"portfolio-site/internal/infra/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StagedPrefix is where the editor previews staged files from.
const StagedPrefix = "/admin/staged/"

type WorkSource interface {
	GetWork(ctx context.Context, id string) (*works.Work, error)
}

type Drafts interface {
	Save(ctx context.Context, d editor.Draft) error
	Load(ctx context.Context, id string) (editor.Draft, error)
	Delete(ctx context.Context, id string) error
	Stale(ctx context.Context, before time.Time) ([]editor.Draft, error)
}

type Files interface {
	Stage(originalName string, r io.Reader) (media.File, error)
	Open(id string) (io.ReadCloser, media.File, error)
	Remove(ids ...string) error
	Sweep(cutoff time.Time) (int, error)
}

type Submitter interface {
	Submit(ctx context.Context, d editor.Draft) (works.Work, error)
}

// LegacyUploader stores a file right away and returns its durable URL.
type LegacyUploader interface {
	UploadLegacy(ctx context.Context, filename string, body io.Reader) (string, error)
}

type Handler struct {
	source    WorkSource
	snapshots works.SnapshotStore
	drafts    Drafts
	files     Files
	publisher Submitter
	uploader  LegacyUploader
	logger    *zap.Logger
	now       func() time.Time
}

type Deps struct {
	Source    WorkSource
	Snapshots works.SnapshotStore
	Drafts    Drafts
	Files     Files
	Publisher Submitter
	Uploader  LegacyUploader
	Logger    *zap.Logger
}

func NewHandler(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		source:    d.Source,
		snapshots: d.Snapshots,
		drafts:    d.Drafts,
		files:     d.Files,
		publisher: d.Publisher,
		uploader:  d.Uploader,
		logger:    logger,
		now:       time.Now,
	}
}

// ------------------------------
// GET /admin
// ------------------------------
func (h *Handler) Dashboard(c *gin.Context) {
	page := dashboardPage{Message: flashMessages[c.Query("msg")]}

	all, ok, err := h.snapshots.LoadSnapshot(c.Request.Context())
	if err != nil {
		h.logger.Warn("load works snapshot", zap.Error(err))
	}
	if ok {
		list := make([]works.Work, len(all))
		copy(list, all)
		works.SortByDateDesc(list)
		page.Works = list
		page.HasSnapshot = true
	}
	c.HTML(http.StatusOK, "admin_dashboard.html", page)
}

// ------------------------------
// GET /admin/work-form[?id=]  -> opens an editing session
// ------------------------------
func (h *Handler) WorkForm(c *gin.Context) {
	ctx := c.Request.Context()
	draftID := uuid.NewString()

	d := editor.New(draftID, h.now())
	if id := strings.TrimSpace(c.Query("id")); id != "" {
		w, err := h.source.GetWork(ctx, id)
		if err != nil {
			h.logger.Error("load work for editing", zap.String("id", id), zap.Error(err))
			c.Redirect(http.StatusSeeOther, "/admin?msg=load-failed")
			return
		}
		if w == nil {
			worksapi.NotFound(c)
			return
		}
		d = editor.FromWork(draftID, *w)
	}

	if err := h.drafts.Save(ctx, d); err != nil {
		h.logger.Error("save new draft", zap.Error(err))
		c.String(http.StatusInternalServerError, "could not start an editing session")
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/drafts/"+draftID)
}

// ------------------------------
// GET /admin/drafts/:id
// ------------------------------
func (h *Handler) EditDraft(c *gin.Context) {
	d, ok := h.loadDraft(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "work_form.html", toEditorPage(d, c.Query("msg"), ""))
}

// ------------------------------
// POST /admin/drafts/:id  -> posted fields + one action
// ------------------------------
func (h *Handler) UpdateDraft(c *gin.Context) {
	ctx := c.Request.Context()
	stored, ok := h.loadDraft(c)
	if !ok {
		return
	}

	d := stored.Clone()
	if err := applyFields(c, &d); err != nil {
		h.renderEditor(c, http.StatusUnprocessableEntity, stored, err)
		return
	}

	action := c.PostForm("action")
	if action == "" {
		action = "save"
	}
	msg, err := h.applyAction(c, &d, action)
	if err != nil {
		h.renderEditor(c, http.StatusUnprocessableEntity, stored, err)
		return
	}

	if err := h.drafts.Save(ctx, d); err != nil {
		h.logger.Error("save draft", zap.String("draft", d.ID), zap.Error(err))
		// files staged by this request are not referenced by the stored draft
		h.removeFiles(editor.Orphaned(d, stored), "remove files staged by an unsaved edit")
		h.renderEditor(c, http.StatusInternalServerError, stored, errors.New("the draft could not be saved"))
		return
	}
	h.removeFiles(editor.Orphaned(stored, d), "remove orphaned staged files")

	if action != "submit" {
		target := "/admin/drafts/" + d.ID
		if msg != "" {
			target += "?msg=" + msg
		}
		c.Redirect(http.StatusSeeOther, target)
		return
	}

	saved, err := h.publisher.Submit(ctx, d)
	if err != nil {
		h.logger.Warn("submit work", zap.String("draft", d.ID), zap.Error(err))
		h.renderEditor(c, http.StatusBadGateway, d, fmt.Errorf("submission failed, nothing was published: %w", err))
		return
	}
	if err := h.drafts.Delete(ctx, d.ID); err != nil {
		h.logger.Warn("delete submitted draft", zap.String("draft", d.ID), zap.Error(err))
	}
	h.refreshSnapshot(ctx, saved)

	flash := "published"
	if !d.IsNew() {
		flash = "updated"
	}
	c.Redirect(http.StatusSeeOther, "/admin?msg="+flash)
}

// ------------------------------
// GET /admin/staged/:file  -> local preview of a staged file
// ------------------------------
func (h *Handler) StagedFile(c *gin.Context) {
	body, f, err := h.files.Open(c.Param("file"))
	if errors.Is(err, staging.ErrNotFound) {
		c.Status(http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("open staged file", zap.Error(err))
		c.Status(http.StatusInternalServerError)
		return
	}
	defer body.Close()
	c.Header("Cache-Control", "private, max-age=3600")
	c.DataFromReader(http.StatusOK, f.Size, f.ContentType, body, nil)
}

// SweepStale drops editing sessions untouched for maxAge together with the
// files they staged, then any staged file older than maxAge.
func (h *Handler) SweepStale(ctx context.Context, maxAge time.Duration) {
	cutoff := h.now().Add(-maxAge)
	stale, err := h.drafts.Stale(ctx, cutoff)
	if err != nil {
		h.logger.Warn("list stale drafts", zap.Error(err))
	}
	for _, d := range stale {
		if err := h.files.Remove(d.StagedFiles()...); err != nil {
			h.logger.Warn("remove staged files of stale draft", zap.String("draft", d.ID), zap.Error(err))
		}
		if err := h.drafts.Delete(ctx, d.ID); err != nil {
			h.logger.Warn("delete stale draft", zap.String("draft", d.ID), zap.Error(err))
		}
	}
	n, err := h.files.Sweep(cutoff)
	if err != nil {
		h.logger.Warn("sweep staging dir", zap.Error(err))
	}
	if len(stale) > 0 || n > 0 {
		h.logger.Info("swept stale editor state", zap.Int("drafts", len(stale)), zap.Int("files", n))
	}
}

func (h *Handler) removeFiles(ids []string, msg string) {
	if len(ids) == 0 {
		return
	}
	if err := h.files.Remove(ids...); err != nil {
		h.logger.Warn(msg, zap.Strings("files", ids), zap.Error(err))
	}
}

func (h *Handler) loadDraft(c *gin.Context) (editor.Draft, bool) {
	d, err := h.drafts.Load(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrDraftNotFound) {
		worksapi.NotFound(c)
		return editor.Draft{}, false
	}
	if err != nil {
		h.logger.Error("load draft", zap.String("draft", c.Param("id")), zap.Error(err))
		c.String(http.StatusInternalServerError, "could not load the draft")
		return editor.Draft{}, false
	}
	return d, true
}

func (h *Handler) renderEditor(c *gin.Context, status int, d editor.Draft, err error) {
	c.HTML(status, "work_form.html", toEditorPage(d, "", err.Error()))
}

// refreshSnapshot puts the saved work into the stored listing so the
// dashboard shows it before the next public page load.
func (h *Handler) refreshSnapshot(ctx context.Context, saved works.Work) {
	all, ok, err := h.snapshots.LoadSnapshot(ctx)
	if err != nil || !ok {
		return
	}
	out := make([]works.Work, 0, len(all)+1)
	replaced := false
	for _, w := range all {
		if w.ID == saved.ID {
			out = append(out, saved)
			replaced = true
			continue
		}
		out = append(out, w)
	}
	if !replaced {
		out = append(out, saved)
	}
	if err := h.snapshots.SaveSnapshot(ctx, out); err != nil {
		h.logger.Warn("refresh works snapshot", zap.Error(err))
	}
}

// ------------------------------
// form handling
// ------------------------------

// applyFields copies the posted values onto d. A block whose type changed
// ignores the rest of its stale fields.
func applyFields(c *gin.Context, d *editor.Draft) error {
	setString := func(key string, dst *string) {
		if v, ok := c.GetPostForm(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	setString("title", &d.Title)
	setString("subtitle", &d.Subtitle)
	setString("owner", &d.Owner)
	if v, ok := c.GetPostForm("descriptionKo"); ok {
		d.DescriptionKo = v
	}
	if v, ok := c.GetPostForm("descriptionEn"); ok {
		d.DescriptionEn = v
	}
	if v, ok := c.GetPostForm("workType"); ok {
		d.WorkType = works.WorkType(strings.TrimSpace(v))
	}
	if v, ok := c.GetPostForm("date"); ok && strings.TrimSpace(v) != "" {
		if err := d.SetDateFromInput(v); err != nil {
			return err
		}
	}

	for i, b := range d.Blocks {
		prefix := "block-" + strconv.Itoa(i) + "-"

		if t, ok := c.GetPostForm(prefix + "type"); ok && works.BlockType(t) != b.Type() {
			if err := d.ChangeType(i, works.BlockType(t)); err != nil {
				return fmt.Errorf("block %d: %w", i+1, err)
			}
			continue
		}

		g, isMedia := works.GalleryOf(b)
		if !isMedia {
			if text, ok := c.GetPostForm(prefix + "text"); ok {
				if err := d.SetText(i, text); err != nil {
					return err
				}
			}
			continue
		}

		for j := range g.Items {
			if caption, ok := c.GetPostForm(prefix + "item-" + strconv.Itoa(j) + "-caption"); ok {
				if err := d.SetCaption(i, j, strings.TrimSpace(caption)); err != nil {
					return err
				}
			}
		}
		if l, ok := c.GetPostForm(prefix + "layout"); ok && works.Layout(l) != g.Layout {
			if err := d.ChangeLayout(i, works.Layout(l)); err != nil {
				return fmt.Errorf("block %d: %w", i+1, err)
			}
		}
	}
	return nil
}

// applyAction runs one editor action and returns an optional flash code.
func (h *Handler) applyAction(c *gin.Context, d *editor.Draft, action string) (string, error) {
	name, arg, _ := strings.Cut(action, ":")
	switch name {
	case "save", "submit":
		if name == "submit" {
			return "", d.Validate()
		}
		return "saved", nil
	case "add-block":
		d.AppendBlock()
		return "", nil
	case "remove-block", "move-up", "move-down":
		i, err := strconv.Atoi(arg)
		if err != nil {
			return "", editor.ErrBlockIndex
		}
		switch name {
		case "remove-block":
			return "", d.RemoveBlock(i)
		case "move-up":
			return "", d.MoveUp(i)
		default:
			return "", d.MoveDown(i)
		}
	case "add-media":
		i, err := strconv.Atoi(arg)
		if err != nil {
			return "", editor.ErrBlockIndex
		}
		return h.addMedia(c, d, i)
	case "remove-media":
		bi, ii, _ := strings.Cut(arg, ":")
		i, err1 := strconv.Atoi(bi)
		j, err2 := strconv.Atoi(ii)
		if err1 != nil || err2 != nil {
			return "", editor.ErrItemIndex
		}
		return "", d.RemoveMedia(i, j)
	case "add-tag":
		tag := c.PostForm("new-tag")
		if !works.IsPredefinedTag(tag) {
			return "", fmt.Errorf("unknown tag %q", tag)
		}
		d.AddTag(tag)
		return "", nil
	case "remove-tag":
		d.RemoveTag(arg)
		return "", nil
	case "stage-thumbnail":
		f, err := h.stageUpload(c, "thumbnail-file", "thumbnail")
		if err != nil {
			return "", err
		}
		d.Thumbnail = works.MediaItem{URL: StagedPrefix + f.ID, LocalFile: f.ID}
		return "", nil
	case "stage-main-video":
		f, err := h.stageUpload(c, "main-video-file", "mainVideo")
		if err != nil {
			return "", err
		}
		d.MainVideo = works.MediaItem{URL: StagedPrefix + f.ID, LocalFile: f.ID}
		return "", nil
	case "clear-main-video":
		d.MainVideo = works.MediaItem{}
		return "", nil
	}
	return "", fmt.Errorf("unknown action %q", action)
}

// addMedia stages the posted file for block i, or uploads it right away
// when the block's mode is "direct".
func (h *Handler) addMedia(c *gin.Context, d *editor.Draft, i int) (string, error) {
	if i < 0 || i >= len(d.Blocks) {
		return "", editor.ErrBlockIndex
	}
	b := d.Blocks[i]
	if !b.Type().IsMedia() {
		return "", editor.ErrNotMedia
	}
	prefix := "block-" + strconv.Itoa(i) + "-"

	f, err := h.stageUpload(c, prefix+"file", string(b.Type()))
	if err != nil {
		return "", err
	}
	item := works.MediaItem{URL: StagedPrefix + f.ID, LocalFile: f.ID}

	flash := ""
	if c.PostForm(prefix+"mode") == "direct" {
		url, err := h.uploadNow(c.Request.Context(), f)
		h.removeFiles([]string{f.ID}, "remove directly uploaded file")
		if err != nil {
			return "", fmt.Errorf("upload failed: %w", err)
		}
		item = works.MediaItem{URL: url}
		flash = "direct"
	}

	overwritten, err := d.AddMedia(i, item)
	if err != nil {
		if item.LocalFile != "" {
			h.removeFiles([]string{item.LocalFile}, "remove rejected staged file")
		}
		return "", err
	}
	if overwritten {
		flash = "replaced"
	}
	return flash, nil
}

func (h *Handler) uploadNow(ctx context.Context, f media.File) (string, error) {
	body, _, err := h.files.Open(f.ID)
	if err != nil {
		return "", err
	}
	defer body.Close()
	return h.uploader.UploadLegacy(ctx, f.UploadName(), body)
}

// stageUpload stores the multipart file in field and checks it fits kind.
func (h *Handler) stageUpload(c *gin.Context, field, kind string) (media.File, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return media.File{}, errors.New("choose a file first")
	}
	src, err := fh.Open()
	if err != nil {
		return media.File{}, err
	}
	defer src.Close()

	f, err := h.files.Stage(fh.Filename, src)
	if err != nil {
		return media.File{}, err
	}
	if !f.Accepts(kind) {
		h.removeFiles([]string{f.ID}, "remove rejected staged file")
		return media.File{}, fmt.Errorf("%s is not allowed here (%s)", fh.Filename, f.ContentType)
	}
	return f, nil
}
