package admin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"portfolio-site/internal/app/http/views"
	"portfolio-site/internal/app/publish"
	"portfolio-site/internal/domain/editor"
	"portfolio-site/internal/domain/works"
	"portfolio-site/internal/infra/backend"
	"portfolio-site/internal/infra/staging"
	"portfolio-site/internal/infra/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const pngBytes = "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00"

type fakeBackend struct {
	mu         sync.Mutex
	works      map[string]works.Work
	failUpload bool
	created    []works.Work
	updated    []works.Work
	legacy     []string
}

func (f *fakeBackend) GetWork(_ context.Context, id string) (*works.Work, error) {
	if w, ok := f.works[id]; ok {
		return &w, nil
	}
	return nil, nil
}

func (f *fakeBackend) PresignedURL(_ context.Context, name string) (backend.PresignedUpload, error) {
	return backend.PresignedUpload{PresignedURL: "https://bucket/" + name, FileURL: "https://cdn/" + name}, nil
}

func (f *fakeBackend) UploadToURL(context.Context, string, string, io.Reader, int64) error {
	if f.failUpload {
		return &backend.StatusError{Op: "upload", StatusCode: http.StatusForbidden}
	}
	return nil
}

func (f *fakeBackend) CreateWork(_ context.Context, w works.Work) (works.Work, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, w)
	w.ID = "new-id"
	return w, nil
}

func (f *fakeBackend) UpdateWork(_ context.Context, id string, w works.Work) (works.Work, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, w)
	return w, nil
}

func (f *fakeBackend) UploadLegacy(_ context.Context, name string, _ io.Reader) (string, error) {
	f.legacy = append(f.legacy, name)
	return "https://cdn/legacy/" + name, nil
}

type memSnapshots struct {
	all []works.Work
	ok  bool
}

func (m *memSnapshots) SaveSnapshot(_ context.Context, all []works.Work) error {
	m.all, m.ok = all, true
	return nil
}

func (m *memSnapshots) LoadSnapshot(context.Context) ([]works.Work, bool, error) {
	return m.all, m.ok, nil
}

// flakyDrafts fails Save while failSave is set.
type flakyDrafts struct {
	*store.DraftStore
	failSave bool
}

func (f *flakyDrafts) Save(ctx context.Context, d editor.Draft) error {
	if f.failSave {
		return errors.New("database is gone")
	}
	return f.DraftStore.Save(ctx, d)
}

type env struct {
	router  *gin.Engine
	flaky   *flakyDrafts
	handler *Handler
	backend *fakeBackend
	drafts  *store.DraftStore
	files   *staging.Store
	snaps   *memSnapshots
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(store.Models()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	files, err := staging.NewStore(t.TempDir(), 0)
	require.NoError(t, err)

	fb := &fakeBackend{works: map[string]works.Work{
		"w1": {ID: "w1", Title: "Existing", Owner: "Studio", Date: "2024-04-01", WorkType: works.TypeOriginal,
			Thumbnail: "https://cdn/w1.png", Tags: []string{"2D"}, Data: works.Blocks{works.TextBlock{Text: "body"}}},
	}}
	snaps := &memSnapshots{}
	drafts := store.NewDraftStore(db)
	flaky := &flakyDrafts{DraftStore: drafts}
	h := NewHandler(Deps{
		Source:    fb,
		Snapshots: snaps,
		Drafts:    flaky,
		Files:     files,
		Publisher: publish.New(fb, files, nil),
		Uploader:  fb,
	})

	tmpl, err := views.Load()
	require.NoError(t, err)
	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.GET("/admin", h.Dashboard)
	r.GET("/admin/work-form", h.WorkForm)
	r.GET("/admin/drafts/:id", h.EditDraft)
	r.POST("/admin/drafts/:id", h.UpdateDraft)
	r.GET("/admin/staged/:file", h.StagedFile)

	return &env{router: r, flaky: flaky, handler: h, backend: fb, drafts: drafts, files: files, snaps: snaps}
}

func (e *env) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// openDraft starts a session and returns its id.
func (e *env) openDraft(t *testing.T, query string) string {
	t.Helper()
	w := e.do(httptest.NewRequest(http.MethodGet, "/admin/work-form"+query, nil))
	require.Equal(t, http.StatusSeeOther, w.Code)
	loc := w.Header().Get("Location")
	require.True(t, strings.HasPrefix(loc, "/admin/drafts/"), loc)
	return strings.TrimPrefix(loc, "/admin/drafts/")
}

type upload struct {
	field, name, body string
}

func (e *env) post(t *testing.T, id string, fields map[string]string, files ...upload) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = io.WriteString(part, f.body)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/drafts/"+id, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return e.do(req)
}

func (e *env) draft(t *testing.T, id string) editor.Draft {
	t.Helper()
	d, err := e.drafts.Load(context.Background(), id)
	require.NoError(t, err)
	return d
}

func TestWorkFormOpensDraft(t *testing.T) {
	e := newEnv(t)
	id := e.openDraft(t, "")

	w := e.do(httptest.NewRequest(http.MethodGet, "/admin/drafts/"+id, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "New work")
	assert.True(t, e.draft(t, id).IsNew())

	id = e.openDraft(t, "?id=w1")
	d := e.draft(t, id)
	assert.Equal(t, "w1", d.WorkID)
	assert.Equal(t, "Existing", d.Title)

	w = e.do(httptest.NewRequest(http.MethodGet, "/admin/work-form?id=nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(httptest.NewRequest(http.MethodGet, "/admin/drafts/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPostedFieldsAndBlockActions(t *testing.T) {
	e := newEnv(t)
	id := e.openDraft(t, "")

	w := e.post(t, id, map[string]string{"title": " Sign ", "owner": "ganpanjip", "date": "2025-09-27", "action": "add-block"})
	require.Equal(t, http.StatusSeeOther, w.Code)
	e.post(t, id, map[string]string{"action": "add-block", "block-0-text": "first"})

	d := e.draft(t, id)
	assert.Equal(t, "Sign", d.Title)
	assert.Equal(t, "2025-09-27", d.DateInput())
	require.Len(t, d.Blocks, 2)
	assert.Equal(t, works.TextBlock{Text: "first"}, d.Blocks[0])

	e.post(t, id, map[string]string{"block-1-type": "image", "action": "move-up:1"})
	d = e.draft(t, id)
	assert.Equal(t, works.BlockImage, d.Blocks[0].Type())
	assert.Equal(t, works.DefaultLayout, works.LayoutOf(d.Blocks[0]))

	e.post(t, id, map[string]string{"block-0-layout": "grid-2", "new-tag": "VR", "action": "add-tag"})
	d = e.draft(t, id)
	assert.Equal(t, works.Grid2, works.LayoutOf(d.Blocks[0]))
	assert.Equal(t, []string{"VR"}, d.Tags)

	e.post(t, id, map[string]string{"action": "remove-tag:VR"})
	e.post(t, id, map[string]string{"action": "remove-block:1"})
	d = e.draft(t, id)
	assert.Empty(t, d.Tags)
	assert.Len(t, d.Blocks, 1)
}

func TestInvalidInputSavesNothing(t *testing.T) {
	e := newEnv(t)
	id := e.openDraft(t, "")
	before := e.draft(t, id)

	w := e.post(t, id, map[string]string{"title": "changed", "date": "27/09/2025", "action": "save"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "invalid date")
	assert.Equal(t, before, e.draft(t, id))

	w = e.post(t, id, map[string]string{"title": "changed", "action": "remove-block:3"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, before, e.draft(t, id))
}

func TestStageServeAndOrphanCleanup(t *testing.T) {
	e := newEnv(t)
	id := e.openDraft(t, "")
	e.post(t, id, map[string]string{"action": "add-block"})
	e.post(t, id, map[string]string{"block-0-type": "image", "action": "save"})

	w := e.post(t, id, map[string]string{"block-0-mode": "staged", "action": "add-media:0"},
		upload{"block-0-file", "a.png", pngBytes})
	require.Equal(t, http.StatusSeeOther, w.Code)

	d := e.draft(t, id)
	staged := d.StagedFiles()
	require.Len(t, staged, 1)

	w = e.do(httptest.NewRequest(http.MethodGet, StagedPrefix+staged[0], nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, pngBytes, w.Body.String())

	// a text file cannot go into an image block
	w = e.post(t, id, map[string]string{"action": "add-media:0"}, upload{"block-0-file", "notes.txt", "hello"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	entries, err := os.ReadDir(e.files.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 2, "the rejected file and its meta are gone")

	// image -> text drops the item and its staged file
	e.post(t, id, map[string]string{"block-0-type": "text", "action": "save"})
	assert.Empty(t, e.draft(t, id).StagedFiles())
	w = e.do(httptest.NewRequest(http.MethodGet, StagedPrefix+staged[0], nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFullGrid1ReportsReplacement(t *testing.T) {
	e := newEnv(t)
	id := e.openDraft(t, "")
	e.post(t, id, map[string]string{"action": "add-block"})
	e.post(t, id, map[string]string{"block-0-type": "image", "action": "save"})
	e.post(t, id, map[string]string{"block-0-layout": "grid-1", "action": "save"})

	e.post(t, id, map[string]string{"action": "add-media:0"}, upload{"block-0-file", "a.png", pngBytes})
	first := e.draft(t, id).StagedFiles()
	w := e.post(t, id, map[string]string{"action": "add-media:0"}, upload{"block-0-file", "b.png", pngBytes})
	assert.Contains(t, w.Header().Get("Location"), "msg=replaced")

	second := e.draft(t, id).StagedFiles()
	require.Len(t, second, 1)
	assert.NotEqual(t, first, second)
	_, err := e.files.Get(first[0])
	assert.ErrorIs(t, err, staging.ErrNotFound, "the replaced file is cleaned up")
}

func TestDirectModeUploadsImmediately(t *testing.T) {
	e := newEnv(t)
	id := e.openDraft(t, "")
	e.post(t, id, map[string]string{"action": "add-block"})
	e.post(t, id, map[string]string{"block-0-type": "gif", "action": "save"})

	w := e.post(t, id, map[string]string{"block-0-mode": "direct", "action": "add-media:0"},
		upload{"block-0-file", "loop.gif", "GIF89a\x01\x00\x01\x00"})
	require.Equal(t, http.StatusSeeOther, w.Code)

	d := e.draft(t, id)
	assert.Empty(t, d.StagedFiles())
	g, ok := works.GalleryOf(d.Blocks[0])
	require.True(t, ok)
	require.Len(t, g.Items, 1)
	assert.True(t, strings.HasPrefix(g.Items[0].URL, "https://cdn/legacy/"))
	assert.Len(t, e.backend.legacy, 1)
}

func fillForSubmit(t *testing.T, e *env, id string) {
	t.Helper()
	e.post(t, id, map[string]string{"title": "T", "owner": "O", "date": "2025-01-01", "action": "stage-thumbnail"},
		upload{"thumbnail-file", "t.png", pngBytes})
	e.post(t, id, map[string]string{"action": "add-block"})
	e.post(t, id, map[string]string{"block-0-type": "image", "action": "save"})
	e.post(t, id, map[string]string{"action": "add-media:0"}, upload{"block-0-file", "a.png", pngBytes})
	require.Len(t, e.draft(t, id).StagedFiles(), 2)
}

func TestSubmitCreatesWork(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.snaps.SaveSnapshot(context.Background(), []works.Work{{ID: "w1", Title: "Existing"}}))
	id := e.openDraft(t, "")
	fillForSubmit(t, e, id)

	w := e.post(t, id, map[string]string{"action": "submit"})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	assert.Equal(t, "/admin?msg=published", w.Header().Get("Location"))

	require.Len(t, e.backend.created, 1)
	created := e.backend.created[0]
	assert.True(t, strings.HasPrefix(created.Thumbnail, "https://cdn/"))
	g, _ := works.GalleryOf(created.Data[0])
	assert.True(t, strings.HasPrefix(g.Items[0].URL, "https://cdn/"))

	_, err := e.drafts.Load(context.Background(), id)
	assert.ErrorIs(t, err, store.ErrDraftNotFound)
	assert.Len(t, e.snaps.all, 2, "dashboard sees the new work")

	w = e.do(httptest.NewRequest(http.MethodGet, "/admin?msg=published", nil))
	assert.Contains(t, w.Body.String(), "The work was published.")
	assert.Contains(t, w.Body.String(), "/admin/work-form?id=new-id")
}

func TestSubmitFailureSendsNothing(t *testing.T) {
	e := newEnv(t)
	id := e.openDraft(t, "")
	fillForSubmit(t, e, id)
	e.backend.failUpload = true

	w := e.post(t, id, map[string]string{"action": "submit"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "nothing was published")
	assert.Empty(t, e.backend.created)
	assert.Len(t, e.draft(t, id).StagedFiles(), 2, "session state survives for a retry")
}

func TestSubmitRequiresValidDraft(t *testing.T) {
	e := newEnv(t)
	id := e.openDraft(t, "")
	w := e.post(t, id, map[string]string{"action": "submit"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "title")
	assert.Empty(t, e.backend.created)
}

func TestSubmitUpdatesExisting(t *testing.T) {
	e := newEnv(t)
	id := e.openDraft(t, "?id=w1")
	w := e.post(t, id, map[string]string{"title": "Renamed", "action": "submit"})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	assert.Equal(t, "/admin?msg=updated", w.Header().Get("Location"))
	require.Len(t, e.backend.updated, 1)
	assert.Equal(t, "Renamed", e.backend.updated[0].Title)
	assert.Equal(t, "w1", e.backend.updated[0].ID)
}

func TestDashboardWithoutSnapshot(t *testing.T) {
	e := newEnv(t)
	w := e.do(httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "has not been loaded yet")
}

func TestSweepStale(t *testing.T) {
	e := newEnv(t)
	id := e.openDraft(t, "")
	fillForSubmit(t, e, id)
	staged := e.draft(t, id).StagedFiles()

	e.handler.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	e.handler.SweepStale(context.Background(), 24*time.Hour)

	_, err := e.drafts.Load(context.Background(), id)
	assert.True(t, errors.Is(err, store.ErrDraftNotFound))
	for _, f := range staged {
		_, err := e.files.Get(f)
		assert.ErrorIs(t, err, staging.ErrNotFound)
	}
}

func TestFailedSaveKeepsStagedFiles(t *testing.T) {
	e := newEnv(t)
	id := e.openDraft(t, "")
	fillForSubmit(t, e, id)
	staged := e.draft(t, id).StagedFiles()

	e.flaky.failSave = true
	w := e.post(t, id, map[string]string{"block-0-type": "text", "action": "save"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, staged, e.draft(t, id).StagedFiles())
	for _, f := range staged {
		_, err := e.files.Get(f)
		assert.NoError(t, err, "files of the stored draft survive a failed save")
	}

	// a file staged by the failed request is not left behind
	w = e.post(t, id, map[string]string{"action": "add-media:0"}, upload{"block-0-file", "b.png", pngBytes})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, staged, e.draft(t, id).StagedFiles())

	e.flaky.failSave = false
	w = e.post(t, id, map[string]string{"action": "submit"})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	assert.Len(t, e.backend.created, 1)
}
