package server

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/joseph-ayodele/docgeo/internal/common"
	"github.com/joseph-ayodele/docgeo/internal/entity"
	"github.com/joseph-ayodele/docgeo/internal/ingest"
	"github.com/joseph-ayodele/docgeo/internal/pipeline"
	"github.com/joseph-ayodele/docgeo/internal/repository"
	"github.com/joseph-ayodele/docgeo/internal/services/resolve"
)

type DocumentService interface {
	Resolve(ctx context.Context, filename string, data []byte) (resolve.Outcome, error)
	List(ctx context.Context, filter repository.ListFilter) ([]*entity.OCRResult, error)
	Get(ctx context.Context, id string) (*entity.OCRResult, error)
	Delete(ctx context.Context, id string) error
}

type Exporter interface {
	ExportResultsXLSX(ctx context.Context, filter repository.ListFilter) ([]byte, error)
}

type DirectoryIngestor interface {
	EnqueueDirectory(ctx context.Context, root string) ([]ingest.FileResult, ingest.DirStats, error)
}

type ResolverService struct {
	docs     DocumentService
	exporter Exporter
	inbox    DirectoryIngestor
	logger   *slog.Logger
}

// NewResolverService builds the RPC surface. exporter and inbox may be nil.
func NewResolverService(docs DocumentService, exporter Exporter, inbox DirectoryIngestor, logger *slog.Logger) *ResolverService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResolverService{docs: docs, exporter: exporter, inbox: inbox, logger: logger}
}

var _ ResolverServer = (*ResolverService)(nil)

func (s *ResolverService) ResolveDocument(ctx context.Context, req *wrapperspb.BytesValue) (*structpb.ListValue, error) {
	filename := filenameFromMetadata(ctx)
	out, err := s.docs.Resolve(ctx, filename, req.GetValue())
	if err != nil {
		s.logger.Error("rpc.resolve.failed", "filename", filename, "error", err)
		return nil, common.ToStatus(err)
	}
	list, err := recordsToList(out.Result.Records())
	if err != nil {
		return nil, common.InternalErrorf("encode record: %v", err)
	}
	return list, nil
}

func (s *ResolverService) ListResults(ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error) {
	filter, err := listFilter(req)
	if err != nil {
		return nil, err
	}
	rows, err := s.docs.List(ctx, filter)
	if err != nil {
		s.logger.Error("rpc.list.failed", "error", err)
		return nil, common.ToStatus(err)
	}
	values := make([]*structpb.Value, 0, len(rows))
	for _, r := range rows {
		st, err := resultToStruct(r)
		if err != nil {
			return nil, common.InternalErrorf("encode result: %v", err)
		}
		values = append(values, structpb.NewStructValue(st))
	}
	return &structpb.ListValue{Values: values}, nil
}

func (s *ResolverService) GetResult(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	r, err := s.docs.Get(ctx, req.GetValue())
	if err != nil {
		return nil, common.ToStatus(err)
	}
	st, err := resultToStruct(r)
	if err != nil {
		return nil, common.InternalErrorf("encode result: %v", err)
	}
	return st, nil
}

func (s *ResolverService) DeleteResult(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	if err := s.docs.Delete(ctx, req.GetValue()); err != nil {
		return nil, common.ToStatus(err)
	}
	return &emptypb.Empty{}, nil
}

func (s *ResolverService) ExportResults(ctx context.Context, req *structpb.Struct) (*wrapperspb.BytesValue, error) {
	if s.exporter == nil {
		return nil, common.ToStatus(common.NewAppError("EXPORT_DISABLED", "no result store configured", common.ErrInternal))
	}
	filter, err := listFilter(req)
	if err != nil {
		return nil, err
	}
	xlsx, err := s.exporter.ExportResultsXLSX(ctx, filter)
	if err != nil {
		s.logger.Error("export.xlsx.failed", "error", err)
		return nil, common.ToStatus(err)
	}
	return wrapperspb.Bytes(xlsx), nil
}

func (s *ResolverService) IngestDirectory(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	root := strings.TrimSpace(req.GetValue())
	if root == "" {
		return nil, common.InvalidArgumentError("root path is required")
	}
	if s.inbox == nil {
		return nil, common.ToStatus(common.NewAppError("INBOX_DISABLED", "queue not running", common.ErrInternal))
	}
	start := time.Now()
	_, stats, err := s.inbox.EnqueueDirectory(ctx, root)
	if err != nil {
		s.logger.Error("rpc.ingest_dir.failed", "root", root, "error", err)
		return nil, common.ToStatus(err)
	}
	s.logger.Info("rpc.ingest_dir.ok", "root", root, "queued", stats.Queued, "elapsed_ms", time.Since(start).Milliseconds())
	return structpb.NewStruct(map[string]any{
		"scanned":      stats.Scanned,
		"matched":      stats.Matched,
		"queued":       stats.Queued,
		"deduplicated": stats.Deduplicated,
		"failed":       stats.Failed,
	})
}

func filenameFromMetadata(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if v := md.Get(FilenameMetadataKey); len(v) > 0 {
		return v[0]
	}
	return ""
}

func listFilter(req *structpb.Struct) (repository.ListFilter, error) {
	var filter repository.ListFilter
	fields := req.GetFields()
	if v, ok := fields["limit"]; ok {
		n, isNum := v.GetKind().(*structpb.Value_NumberValue)
		if !isNum {
			return filter, common.InvalidArgumentError("limit must be a number")
		}
		if n.NumberValue < 0 || n.NumberValue != float64(int(n.NumberValue)) {
			return filter, common.InvalidArgumentErrorf("limit must be a non-negative integer, got %v", n.NumberValue)
		}
		filter.Limit = int(n.NumberValue)
	}
	if v, ok := fields["lokasi"]; ok {
		str, isStr := v.GetKind().(*structpb.Value_StringValue)
		if !isStr {
			return filter, common.InvalidArgumentError("lokasi must be a string")
		}
		filter.Lokasi = strings.TrimSpace(str.StringValue)
	}
	return filter, nil
}

func recordsToList(records []pipeline.FinalRecord) (*structpb.ListValue, error) {
	values := make([]any, 0, len(records))
	for _, r := range records {
		values = append(values, map[string]any{
			"message": r.Message,
			"lokasi":  r.Lokasi,
			"lat":     floatOrNil(r.Lat),
			"long":    floatOrNil(r.Long),
		})
	}
	return structpb.NewList(values)
}

func resultToStruct(r *entity.OCRResult) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"id":          r.ID.String(),
		"message":     r.Message,
		"lokasi":      r.Lokasi,
		"lat":         floatOrNil(r.Latitude),
		"long":        floatOrNil(r.Longitude),
		"source_file": r.SourceFile,
		"engine":      r.Engine,
		"created_at":  r.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
}

func floatOrNil(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
