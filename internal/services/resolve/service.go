package resolve

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/docgeo/internal/async"
	"github.com/joseph-ayodele/docgeo/internal/common"
	"github.com/joseph-ayodele/docgeo/internal/entity"
	"github.com/joseph-ayodele/docgeo/internal/pipeline"
	"github.com/joseph-ayodele/docgeo/internal/repository"
)

// MaxDocumentBytes bounds a single upload.
const MaxDocumentBytes = 32 << 20

type PageLoader interface {
	Load(ctx context.Context, filename string, data []byte) ([][]byte, error)
}

type DocumentProcessor interface {
	ProcessDocument(ctx context.Context, pages [][]byte) (pipeline.DocumentResult, error)
}

// Outcome is a resolved document plus its stored row, when saving succeeded.
type Outcome struct {
	Result pipeline.DocumentResult
	Saved  *entity.OCRResult
}

// Service resolves documents end to end and manages stored results.
type Service struct {
	loader  PageLoader
	proc    DocumentProcessor
	results repository.OCRResultRepository
	logger  *slog.Logger
}

// NewService wires the pipeline. results may be nil, which disables persistence.
func NewService(loader PageLoader, proc DocumentProcessor, results repository.OCRResultRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{loader: loader, proc: proc, results: results, logger: logger}
}

// Resolve loads, recognizes and geolocates one document.
func (s *Service) Resolve(ctx context.Context, filename string, data []byte) (Outcome, error) {
	start := time.Now()
	filename = filepath.Base(strings.TrimSpace(filename))
	if filename == "." || filename == string(filepath.Separator) {
		filename = ""
	}

	v := common.NewValidator().
		Field("document", data, common.Required, common.MaxBytes(MaxDocumentBytes)).
		Field("filename", filename, common.MaxLength(255), common.SupportedFile)
	if err := v.Error(); err != nil {
		s.logger.Warn("resolve.invalid", "filename", filename, "error", err)
		return Outcome{}, err
	}

	if common.SourceFileFromContext(ctx) == "" && filename != "" {
		ctx = common.WithSourceFile(ctx, filename)
	}

	pages, err := s.loader.Load(ctx, filename, data)
	if err != nil {
		s.logger.Error("resolve.load.failed", "filename", filename, "error", err)
		return Outcome{}, err
	}

	res, err := s.proc.ProcessDocument(ctx, pages)
	if err != nil {
		s.logger.Error("resolve.process.failed", "filename", filename, "pages", len(pages), "error", err)
		return Outcome{}, err
	}

	out := Outcome{Result: res}
	out.Saved = s.save(ctx, filename, res)

	s.logger.Info("resolve.ok",
		"filename", filename,
		"request_id", common.RequestIDFromContext(ctx),
		"pages", len(pages),
		"best_page", res.BestPage,
		"lokasi", res.Record.Lokasi,
		"geocoded", res.Record.Lat != nil,
		"saved", out.Saved != nil,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// ResolveFile reads path from disk and resolves it.
func (s *Service) ResolveFile(ctx context.Context, path string) (Outcome, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Outcome{}, common.NewAppError("INVALID_PATH", "path is required", common.ErrInvalidInput)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Outcome{}, common.NewAppError("FILE_NOT_FOUND", path, common.ErrNotFound)
		}
		return Outcome{}, common.WrapError(err, "read document")
	}
	if common.SourceFileFromContext(ctx) == "" {
		ctx = common.WithSourceFile(ctx, path)
	}
	return s.Resolve(ctx, filepath.Base(path), data)
}

// Handle resolves a queued inbox file.
func (s *Service) Handle(ctx context.Context, job async.Job) error {
	_, err := s.ResolveFile(ctx, job.Path)
	return err
}

// save persists best-effort; a failure is logged and nil is returned.
func (s *Service) save(ctx context.Context, filename string, res pipeline.DocumentResult) *entity.OCRResult {
	if s.results == nil {
		return nil
	}
	source := common.SourceFileFromContext(ctx)
	if source == "" {
		source = filename
	}
	saved, err := s.results.Save(ctx, &entity.OCRResult{
		Message:    res.Record.Message,
		Lokasi:     res.Record.Lokasi,
		Latitude:   res.Record.Lat,
		Longitude:  res.Record.Long,
		SourceFile: source,
		Engine:     res.Engine,
	})
	if err != nil {
		s.logger.Error("resolve.save.failed", "filename", filename, "error", err)
		return nil
	}
	return saved
}

func (s *Service) List(ctx context.Context, filter repository.ListFilter) ([]*entity.OCRResult, error) {
	if s.results == nil {
		return nil, errPersistenceDisabled()
	}
	// 0 selects the repository default
	if err := common.NewValidator().Field("limit", filter.Limit, common.IntRange(0, repository.MaxListLimit)).Error(); err != nil {
		return nil, err
	}
	return s.results.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id string) (*entity.OCRResult, error) {
	uid, err := s.parseID(id)
	if err != nil {
		return nil, err
	}
	return s.results.Get(ctx, uid)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	uid, err := s.parseID(id)
	if err != nil {
		return err
	}
	if err := s.results.Delete(ctx, uid); err != nil {
		return err
	}
	s.logger.Info("resolve.result.deleted", "id", uid)
	return nil
}

func (s *Service) parseID(id string) (uuid.UUID, error) {
	if s.results == nil {
		return uuid.Nil, errPersistenceDisabled()
	}
	id = strings.TrimSpace(id)
	if err := common.NewValidator().Field("id", id, common.Required, common.UUID).Error(); err != nil {
		return uuid.Nil, err
	}
	return uuid.MustParse(id), nil
}

func errPersistenceDisabled() error {
	return common.NewAppError("PERSISTENCE_DISABLED", "no result store configured", common.ErrInternal)
}
