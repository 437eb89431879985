package contract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lexyai/drafter/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func waitForCallback(t *testing.T, cb *fakeCallback) callbackCall {
	t.Helper()
	select {
	case <-cb.ready:
	case <-time.After(5 * time.Second):
		t.Fatal("callback was not sent")
	}
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.sent[len(cb.sent)-1]
}

func TestGenerateAsync_SendsContract(t *testing.T) {
	defer goleak.VerifyNone(t)

	cb := newFakeCallback()
	uc := newTestUsecase(&fakeCompletion{reply: sectionReply}, newRecordingProgress(), nil, cb, testDraftConfig())
	req := generateRequest(threeSectionOutline())
	req.CallbackURL = "http://callback.local/hook"

	ctx, cancel := context.WithCancel(context.Background())
	uc.GenerateAsync(ctx, req)
	cancel()

	sent := waitForCallback(t, cb)
	require.NoError(t, uc.Wait(context.Background()))

	assert.Equal(t, "http://callback.local/hook", sent.url)
	assert.Equal(t, "draft-1", sent.draftID)
	require.NotNil(t, sent.contract)
	assert.Contains(t, sent.contract.ContractText, "3. REMUNERATION")
	assert.Equal(t, entity.ProgressStatusCompleted, uc.GetProgress(context.Background(), "draft-1").Status)
}

func TestGenerateAsync_SendsError(t *testing.T) {
	defer goleak.VerifyNone(t)

	cb := newFakeCallback()
	completion := &fakeCompletion{reply: func(req entity.CompletionRequest) (string, entity.Usage, error) {
		return "", entity.Usage{}, errors.New("quota exceeded")
	}}
	uc := newTestUsecase(completion, newRecordingProgress(), nil, cb, testDraftConfig())

	uc.GenerateAsync(context.Background(), generateRequest(threeSectionOutline()))

	sent := waitForCallback(t, cb)
	require.NoError(t, uc.Wait(context.Background()))

	assert.Nil(t, sent.contract)
	assert.Contains(t, sent.message, "quota exceeded")
	assert.Equal(t, "draft-1", sent.details["draft_id"])
	assert.Equal(t, "Employment Agreement", sent.details["contract_type"])
	progress, ok := sent.details["progress"].(*entity.Progress)
	require.True(t, ok)
	assert.Equal(t, entity.ProgressStatusFailed, progress.Status)
}

func TestGetProgress_UnknownDraftIsIdle(t *testing.T) {
	uc := newTestUsecase(&fakeCompletion{}, newRecordingProgress(), nil, newFakeCallback(), testDraftConfig())

	got := uc.GetProgress(context.Background(), "nope")

	assert.Equal(t, entity.ProgressStatusIdle, got.Status)
	assert.Equal(t, 0, got.Percent)
	assert.Equal(t, "nope", got.DraftID)
}

func TestGenerate_CallerLeavesDraftContinues(t *testing.T) {
	defer goleak.VerifyNone(t)

	release := make(chan struct{})
	completion := &fakeCompletion{reply: func(req entity.CompletionRequest) (string, entity.Usage, error) {
		<-release
		return sectionReply(req)
	}}
	progress := newRecordingProgress()
	uc := newTestUsecase(completion, progress, nil, newFakeCallback(), testDraftConfig())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := uc.Generate(ctx, generateRequest(threeSectionOutline()))
		errCh <- err
	}()

	require.Eventually(t, func() bool { return len(completion.calls()) == 1 }, 5*time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)

	close(release)
	require.NoError(t, uc.Wait(context.Background()))

	final := uc.GetProgress(context.Background(), "draft-1")
	assert.Equal(t, entity.ProgressStatusCompleted, final.Status)
	assert.Equal(t, 3, final.CompletedSections)
	assert.Len(t, completion.calls(), 3)
}
