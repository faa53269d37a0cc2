package publish

import (
	"context"
	"fmt"
	"io"
	"sync"

	"portfolio-site/internal/domain/editor"
	"portfolio-site/internal/domain/media"
	"portfolio-site/internal/domain/works"
	"portfolio-site/internal/infra/backend"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Backend is the part of the backend client a submission needs.
type Backend interface {
	PresignedURL(ctx context.Context, filename string) (backend.PresignedUpload, error)
	UploadToURL(ctx context.Context, presignedURL, contentType string, body io.Reader, size int64) error
	CreateWork(ctx context.Context, w works.Work) (works.Work, error)
	UpdateWork(ctx context.Context, id string, w works.Work) (works.Work, error)
}

// Files is the staging area the draft's local references point into.
type Files interface {
	Open(id string) (io.ReadCloser, media.File, error)
	Remove(ids ...string) error
}

type Publisher struct {
	backend Backend
	files   Files
	logger  *zap.Logger
}

func New(b Backend, files Files, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{backend: b, files: files, logger: logger}
}

// Submit uploads every staged file of d concurrently, then creates or
// updates the work. Any failed upload aborts before the backend sees a
// payload. Uploaded objects are not rolled back.
func (p *Publisher) Submit(ctx context.Context, d editor.Draft) (works.Work, error) {
	if err := d.Validate(); err != nil {
		return works.Work{}, err
	}

	staged := d.StagedFiles()
	resolved, err := p.uploadAll(ctx, staged)
	if err != nil {
		return works.Work{}, err
	}

	payload, err := d.Payload(resolved)
	if err != nil {
		return works.Work{}, err
	}

	var saved works.Work
	if d.IsNew() {
		saved, err = p.backend.CreateWork(ctx, payload)
	} else {
		saved, err = p.backend.UpdateWork(ctx, d.WorkID, payload)
	}
	if err != nil {
		return works.Work{}, fmt.Errorf("save work: %w", err)
	}

	if err := p.files.Remove(staged...); err != nil {
		p.logger.Warn("staged files not removed after submit", zap.Strings("files", staged), zap.Error(err))
	}
	p.logger.Info("work submitted",
		zap.String("work_id", saved.ID),
		zap.Bool("created", d.IsNew()),
		zap.Int("uploads", len(staged)),
	)
	return saved, nil
}

func (p *Publisher) uploadAll(ctx context.Context, ids []string) (map[string]string, error) {
	resolved := make(map[string]string, len(ids))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			url, err := p.upload(gctx, id)
			if err != nil {
				return fmt.Errorf("upload %s: %w", id, err)
			}
			mu.Lock()
			resolved[id] = url
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resolved, nil
}

func (p *Publisher) upload(ctx context.Context, id string) (string, error) {
	body, f, err := p.files.Open(id)
	if err != nil {
		return "", err
	}
	defer body.Close()

	up, err := p.backend.PresignedURL(ctx, f.UploadName())
	if err != nil {
		return "", err
	}
	if err := p.backend.UploadToURL(ctx, up.PresignedURL, f.ContentType, body, f.Size); err != nil {
		return "", err
	}
	return up.FileURL, nil
}
