package transcripts

import (
	"context"

	"github.com/kailas-cloud/transcripts/internal/domain/search/predicate"
	"github.com/kailas-cloud/transcripts/internal/domain/search/request"
	healthuc "github.com/kailas-cloud/transcripts/internal/usecase/health"
	searchuc "github.com/kailas-cloud/transcripts/internal/usecase/search"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn  func(ctx context.Context, req *request.Request) (searchuc.Response, error)
	explainFn func(req *request.Request, backend *predicate.Backend) searchuc.Explanation
}

func (m *mockSearchUC) Search(ctx context.Context, req *request.Request) (searchuc.Response, error) {
	return m.searchFn(ctx, req)
}

func (m *mockSearchUC) Explain(req *request.Request, backend *predicate.Backend) searchuc.Explanation {
	return m.explainFn(req, backend)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }

// --- reindexUseCase mock ---

type mockReindexUC struct {
	runFn func(ctx context.Context) (int, error)
}

func (m *mockReindexUC) Run(ctx context.Context) (int, error) { return m.runFn(ctx) }

// --- helpers ---

func testClient(searchSvc searchUseCase, healthSvc healthUseCase, reindexSvc reindexUseCase) *Client {
	return &Client{
		searchSvc:  searchSvc,
		healthSvc:  healthSvc,
		reindexSvc: reindexSvc,
	}
}
