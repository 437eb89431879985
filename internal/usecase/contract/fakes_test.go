package contract

import (
	"context"
	"strings"
	"sync"

	"github.com/lexyai/drafter/internal/config"
	"github.com/lexyai/drafter/internal/entity"
	"github.com/lexyai/drafter/internal/repository"
	"github.com/lexyai/drafter/internal/usecase/precedent"
	"go.uber.org/zap"
)

type fakeCompletion struct {
	mu       sync.Mutex
	requests []entity.CompletionRequest
	reply    func(req entity.CompletionRequest) (string, entity.Usage, error)
}

func (f *fakeCompletion) CompleteText(ctx context.Context, req entity.CompletionRequest) (string, error) {
	text, _, err := f.CompleteTextWithUsage(ctx, req)
	return text, err
}

func (f *fakeCompletion) CompleteTextWithUsage(_ context.Context, req entity.CompletionRequest) (string, entity.Usage, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	return f.reply(req)
}

func (f *fakeCompletion) calls() []entity.CompletionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.CompletionRequest(nil), f.requests...)
}

// headingOf extracts the section heading from a section prompt.
func headingOf(req entity.CompletionRequest) string {
	prompt := req.Messages[len(req.Messages)-1].Content
	_, rest, found := strings.Cut(prompt, "- Heading: ")
	if !found {
		return ""
	}
	heading, _, _ := strings.Cut(rest, "\n")
	return heading
}

type progressCall struct {
	completed int
	total     int
	step      string
}

// recordingProgress keeps the real store semantics and records every Update.
type recordingProgress struct {
	*repository.ProgressMemory

	mu      sync.Mutex
	updates []progressCall
}

func newRecordingProgress() *recordingProgress {
	return &recordingProgress{ProgressMemory: repository.NewProgressMemory(0)}
}

func (p *recordingProgress) Update(draftID string, completed, total int, step string) {
	p.mu.Lock()
	p.updates = append(p.updates, progressCall{completed: completed, total: total, step: step})
	p.mu.Unlock()
	p.ProgressMemory.Update(draftID, completed, total, step)
}

func (p *recordingProgress) calls() []progressCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]progressCall(nil), p.updates...)
}

type callbackCall struct {
	url      string
	draftID  string
	contract *entity.GenerateContractResponse
	message  string
	details  map[string]any
}

type fakeCallback struct {
	mu    sync.Mutex
	sent  []callbackCall
	ready chan struct{}
}

func newFakeCallback() *fakeCallback {
	return &fakeCallback{ready: make(chan struct{}, 8)}
}

func (f *fakeCallback) SendContract(_ context.Context, url, draftID string, data *entity.GenerateContractResponse) {
	f.record(callbackCall{url: url, draftID: draftID, contract: data})
}

func (f *fakeCallback) SendError(_ context.Context, url, draftID, message string, details map[string]any) {
	f.record(callbackCall{url: url, draftID: draftID, message: message, details: details})
}

func (f *fakeCallback) record(c callbackCall) {
	f.mu.Lock()
	f.sent = append(f.sent, c)
	f.mu.Unlock()
	f.ready <- struct{}{}
}

func testDraftConfig() config.DraftConfig {
	return config.DraftConfig{
		Concurrency:        1,
		HistoryTurns:       12,
		ChatMaxTokens:      800,
		ChatTemperature:    0.5,
		SectionMaxTokens:   1500,
		SectionTemperature: 0.4,
	}
}

func newTestUsecase(
	completion CompletionConnector,
	progress repository.ProgressRepository,
	lookup precedent.LookupFunc,
	callback CallbackConnector,
	draftCfg config.DraftConfig,
) *ContractUsecase {
	return NewUsecase(
		completion,
		precedent.NewResolver(lookup, precedent.WithCache(0, 0)),
		progress,
		callback,
		draftCfg,
		config.LLMConnectorConfig{Model: "claude-test", InputCostPerMillion: 3.0},
		zap.NewNop(),
	)
}
