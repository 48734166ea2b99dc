package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/testing/protocmp"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/joseph-ayodele/docgeo/internal/common"
	"github.com/joseph-ayodele/docgeo/internal/entity"
	"github.com/joseph-ayodele/docgeo/internal/ingest"
	"github.com/joseph-ayodele/docgeo/internal/pipeline"
	"github.com/joseph-ayodele/docgeo/internal/repository"
	"github.com/joseph-ayodele/docgeo/internal/services/resolve"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeDocs struct {
	gotFilename string
	gotFilter   repository.ListFilter
	resolveErr  error
	rows        []*entity.OCRResult
}

func (f *fakeDocs) Resolve(_ context.Context, filename string, data []byte) (resolve.Outcome, error) {
	f.gotFilename = filename
	if f.resolveErr != nil {
		return resolve.Outcome{}, f.resolveErr
	}
	lat, long := -6.9, 107.6
	return resolve.Outcome{Result: pipeline.DocumentResult{Record: pipeline.FinalRecord{
		Message: "banjir", Lokasi: "Bandung", Lat: &lat, Long: &long,
	}}}, nil
}

func (f *fakeDocs) List(_ context.Context, filter repository.ListFilter) ([]*entity.OCRResult, error) {
	f.gotFilter = filter
	return f.rows, nil
}

func (f *fakeDocs) Get(_ context.Context, id string) (*entity.OCRResult, error) {
	for _, r := range f.rows {
		if r.ID.String() == id {
			return r, nil
		}
	}
	return nil, common.NewAppError("NOT_FOUND", id, common.ErrNotFound)
}

func (f *fakeDocs) Delete(ctx context.Context, id string) error {
	_, err := f.Get(ctx, id)
	return err
}

type fakeExporter struct{}

func (fakeExporter) ExportResultsXLSX(context.Context, repository.ListFilter) ([]byte, error) {
	return []byte("PK"), nil
}

type fakeInbox struct{}

func (fakeInbox) EnqueueDirectory(context.Context, string) ([]ingest.FileResult, ingest.DirStats, error) {
	return nil, ingest.DirStats{Scanned: 4, Matched: 2, Queued: 2}, nil
}

func dial(t *testing.T, svc *ResolverService) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	gs, _ := NewGRPCServer(svc, quietLogger())
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestResolveDocumentOverGRPC(t *testing.T) {
	docs := &fakeDocs{}
	client := NewResolverClient(dial(t, NewResolverService(docs, nil, nil, quietLogger())))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ctx = metadata.AppendToOutgoingContext(ctx, FilenameMetadataKey, "laporan.pdf")

	got, err := client.ResolveDocument(ctx, wrapperspb.Bytes([]byte("%PDF")))
	if err != nil {
		t.Fatalf("ResolveDocument: %v", err)
	}
	want, _ := structpb.NewList([]any{map[string]any{
		"message": "banjir", "lokasi": "Bandung", "lat": -6.9, "long": 107.6,
	}})
	if diff := cmp.Diff(want, got, protocmp.Transform()); diff != "" {
		t.Errorf("records (-want +got):\n%s", diff)
	}
	if docs.gotFilename != "laporan.pdf" {
		t.Errorf("filename = %q", docs.gotFilename)
	}
}

func TestResolveDocumentMapsErrors(t *testing.T) {
	cases := map[string]struct {
		err  error
		code codes.Code
	}{
		"validation": {fmt.Errorf("%w: document is required", common.ErrValidation), codes.InvalidArgument},
		"all failed": {common.NewAppError("ALL_PAGES_FAILED", "x", common.ErrAllPagesFailed), codes.FailedPrecondition},
		"no engine":  {common.NewAppError("ENGINE_UNAVAILABLE", "x", common.ErrEngineUnavailable), codes.Unavailable},
		"unexpected": {errors.New("boom"), codes.Internal},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			svc := NewResolverService(&fakeDocs{resolveErr: tc.err}, nil, nil, quietLogger())
			_, err := svc.ResolveDocument(context.Background(), wrapperspb.Bytes(nil))
			if got := status.Code(err); got != tc.code {
				t.Fatalf("code = %v, want %v (err %v)", got, tc.code, err)
			}
		})
	}
}

func TestListAndGetResults(t *testing.T) {
	id := uuid.New()
	lat := -7.0
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	docs := &fakeDocs{rows: []*entity.OCRResult{{
		ID: id, Message: "m", Lokasi: "Baleendah", Latitude: &lat, SourceFile: "a.pdf", Engine: "tesseract", CreatedAt: created,
	}}}
	svc := NewResolverService(docs, nil, nil, quietLogger())

	req, _ := structpb.NewStruct(map[string]any{"limit": 5, "lokasi": " bale "})
	list, err := svc.ListResults(context.Background(), req)
	if err != nil {
		t.Fatalf("ListResults: %v", err)
	}
	if diff := cmp.Diff(repository.ListFilter{Limit: 5, Lokasi: "bale"}, docs.gotFilter); diff != "" {
		t.Errorf("filter (-want +got):\n%s", diff)
	}
	if len(list.GetValues()) != 1 {
		t.Fatalf("values = %d", len(list.GetValues()))
	}

	got, err := svc.GetResult(context.Background(), wrapperspb.String(id.String()))
	if err != nil {
		t.Fatalf("GetResult: %v", err)
	}
	want, _ := structpb.NewStruct(map[string]any{
		"id": id.String(), "message": "m", "lokasi": "Baleendah", "lat": -7.0, "long": nil,
		"source_file": "a.pdf", "engine": "tesseract", "created_at": "2025-01-02T03:04:05Z",
	})
	if diff := cmp.Diff(want, got, protocmp.Transform()); diff != "" {
		t.Errorf("result (-want +got):\n%s", diff)
	}

	_, err = svc.DeleteResult(context.Background(), wrapperspb.String(uuid.NewString()))
	if status.Code(err) != codes.NotFound {
		t.Errorf("delete missing code = %v", status.Code(err))
	}
}

func TestListResultsRejectsBadFilter(t *testing.T) {
	svc := NewResolverService(&fakeDocs{}, nil, nil, quietLogger())
	for _, fields := range []map[string]any{{"limit": -1}, {"limit": 1.5}, {"limit": "ten"}, {"lokasi": 3}} {
		req, _ := structpb.NewStruct(fields)
		if _, err := svc.ListResults(context.Background(), req); status.Code(err) != codes.InvalidArgument {
			t.Errorf("%v: code = %v", fields, status.Code(err))
		}
	}

	req, _ := structpb.NewStruct(map[string]any{"limit": -3})
	_, err := svc.ListResults(context.Background(), req)
	if msg := status.Convert(err).Message(); !strings.Contains(msg, "got -3") {
		t.Errorf("message = %q, want offending value", msg)
	}
}

func TestExportAndIngestDirectory(t *testing.T) {
	svc := NewResolverService(&fakeDocs{}, fakeExporter{}, fakeInbox{}, quietLogger())
	xlsx, err := svc.ExportResults(context.Background(), &structpb.Struct{})
	if err != nil || string(xlsx.GetValue()) != "PK" {
		t.Fatalf("ExportResults = %v, %v", xlsx, err)
	}
	stats, err := svc.IngestDirectory(context.Background(), wrapperspb.String("/inbox"))
	if err != nil {
		t.Fatalf("IngestDirectory: %v", err)
	}
	if q := stats.GetFields()["queued"].GetNumberValue(); q != 2 {
		t.Errorf("queued = %v", q)
	}

	bare := NewResolverService(&fakeDocs{}, nil, nil, quietLogger())
	if _, err := bare.ExportResults(context.Background(), &structpb.Struct{}); status.Code(err) != codes.Internal {
		t.Errorf("export without store code = %v", status.Code(err))
	}
	if _, err := bare.IngestDirectory(context.Background(), wrapperspb.String("")); status.Code(err) != codes.InvalidArgument {
		t.Errorf("empty root code = %v", status.Code(err))
	}
}

func TestHealthServing(t *testing.T) {
	conn := dial(t, NewResolverService(&fakeDocs{}, nil, nil, quietLogger()))
	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("status = %v", resp.GetStatus())
	}
}

func TestGRPCServerRegisteredServices(t *testing.T) {
	gs, _ := NewGRPCServer(NewResolverService(&fakeDocs{}, nil, nil, quietLogger()), quietLogger())
	defer gs.Stop()

	info := gs.GetServiceInfo()
	got := make([]string, 0, len(info))
	for name := range info {
		got = append(got, name)
	}
	want := []string{healthpb.Health_ServiceDesc.ServiceName, ServiceName}
	if diff := cmp.Diff(want, got, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Errorf("services mismatch (-want +got):\n%s", diff)
	}
	if n := len(info[ServiceName].Methods); n != 6 {
		t.Errorf("resolver methods = %d, want 6", n)
	}
}
