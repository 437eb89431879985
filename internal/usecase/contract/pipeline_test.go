package contract

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/lexyai/drafter/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func threeSectionOutline() *entity.PrecedentOutline {
	return &entity.PrecedentOutline{
		Title:       strPtr("Employment Agreement"),
		FrontMatter: []string{"Dated {{date}}", "Between {{employer}} and {{employee}}"},
		Sections: []entity.PrecedentSection{
			{Heading: "1. APPOINTMENT", Body: "The Employer appoints the Employee."},
			{Heading: "2. TERM", Body: "The employment starts on {{start_date}}."},
			{Heading: "3. REMUNERATION", Body: "The Employer pays the salary."},
		},
		Placeholders: []string{"date", "employee", "employer", "start_date"},
	}
}

func generateRequest(outline *entity.PrecedentOutline) *entity.GenerateContractRequest {
	return &entity.GenerateContractRequest{
		DraftID: "draft-1",
		Context: entity.ContractContext{
			ContractTypeID:   "ct-1",
			ContractTypeName: "Employment Agreement",
			TemplateQuestions: []entity.TemplateQuestion{
				{Key: "employer_name", Label: "Employer name", Required: true},
				{Key: "boilerplate", Label: "Boilerplate", Required: true},
			},
			FormAnswers: entity.AnswerSet{"employer_name": "Acme"},
			ChatAnswers: entity.AnswerSet{"employer_name": "Not Acme"},
		},
		Messages: []entity.ChatMessage{
			{Role: entity.ChatRoleUser, Content: "hello"},
			{Role: entity.ChatRoleAssistant, Content: "Who is the employer?"},
		},
		PrecedentOutline: outline,
	}
}

// sectionReply drafts "<heading>\n\nbody" but leaves out the heading of section 2.
func sectionReply(req entity.CompletionRequest) (string, entity.Usage, error) {
	heading := headingOf(req)
	usage := entity.Usage{InputTokens: 1000, OutputTokens: 100, Model: "claude-test-2025"}
	if heading == "2. TERM" {
		return "The employment starts on 1 July.", usage, nil
	}
	return heading + "\n\nDrafted " + strings.ToLower(heading) + ".", usage, nil
}

func TestGenerate_ThreeSections(t *testing.T) {
	completion := &fakeCompletion{reply: sectionReply}
	progress := newRecordingProgress()
	uc := newTestUsecase(completion, progress, nil, newFakeCallback(), testDraftConfig())

	core, logs := observer.New(zapcore.InfoLevel)
	ctx := ctxzap.ToContext(context.Background(), zap.New(core))

	resp, err := uc.Generate(ctx, generateRequest(threeSectionOutline()))
	require.NoError(t, err)

	assert.Equal(t, "draft-1", resp.DraftID)
	assert.Nil(t, resp.RevisionNotes)
	assert.Equal(t, strings.Join([]string{
		"EMPLOYMENT AGREEMENT",
		"Dated {{date}}",
		"Between {{employer}} and {{employee}}",
		"1. APPOINTMENT\n\nDrafted 1. appointment.",
		"2. TERM\n\nThe employment starts on 1 July.",
		"3. REMUNERATION\n\nDrafted 3. remuneration.",
		Disclaimer,
	}, "\n\n"), resp.ContractText)

	calls := completion.calls()
	require.Len(t, calls, 3)
	for i, call := range calls {
		assert.Equal(t, SectionSystemPrompt, call.System)
		assert.Equal(t, 1500, call.MaxTokens)
		assert.InDelta(t, 0.4, call.Temperature, 1e-9)
		require.Len(t, call.Messages, 1)
		prompt := call.Messages[0].Content
		assert.Contains(t, prompt, `"employer_name": "Acme"`)
		assert.Contains(t, prompt, `"boilerplate": "Yes"`)
		assert.Contains(t, prompt, "user: hello\nassistant: Who is the employer?")
		assert.Contains(t, prompt, "- Heading: "+threeSectionOutline().Sections[i].Heading)
	}

	assert.Equal(t, []progressCall{
		{0, 3, "Drafting Section 1. APPOINTMENT (1 of 3)"},
		{1, 3, "Drafting Section 1. APPOINTMENT (1 of 3)"},
		{1, 3, "Drafting Section 2. TERM (2 of 3)"},
		{2, 3, "Drafting Section 2. TERM (2 of 3)"},
		{2, 3, "Drafting Section 3. REMUNERATION (3 of 3)"},
		{3, 3, "Drafting Section 3. REMUNERATION (3 of 3)"},
	}, progress.calls())

	got, ok := progress.Get("draft-1")
	require.True(t, ok)
	assert.Equal(t, entity.ProgressStatusCompleted, got.Status)
	assert.Equal(t, 100, got.Percent)
	assert.Equal(t, "Contract ready", got.CurrentStep)
	assert.Nil(t, got.Error)

	costLogs := logs.FilterMessage("generation cost").All()
	require.Len(t, costLogs, 1)
	fields := costLogs[0].ContextMap()
	assert.Equal(t, "claude-test-2025", fields["model"])
	assert.EqualValues(t, 3, fields["sections"])
	assert.EqualValues(t, 3000, fields["input_tokens"])
	assert.EqualValues(t, 300, fields["output_tokens"])
	assert.InDelta(t, 0.009, fields["cost_usd"], 1e-12)
}

func TestGenerate_FailureOnSecondSection(t *testing.T) {
	completion := &fakeCompletion{reply: func(req entity.CompletionRequest) (string, entity.Usage, error) {
		if headingOf(req) == "2. TERM" {
			return "", entity.Usage{}, fmt.Errorf("%w: upstream timeout", entity.ErrCompletionFailed)
		}
		return sectionReply(req)
	}}
	progress := newRecordingProgress()
	uc := newTestUsecase(completion, progress, nil, newFakeCallback(), testDraftConfig())

	resp, err := uc.Generate(context.Background(), generateRequest(threeSectionOutline()))

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, entity.ErrCompletionFailed)
	assert.Len(t, completion.calls(), 2)

	got, ok := progress.Get("draft-1")
	require.True(t, ok)
	assert.Equal(t, entity.ProgressStatusFailed, got.Status)
	assert.Equal(t, 1, got.CompletedSections)
	assert.Equal(t, 3, got.TotalSections)
	assert.Equal(t, 33, got.Percent)
	assert.Equal(t, "Drafting Section 2. TERM (2 of 3)", got.CurrentStep)
	require.NotNil(t, got.Error)
	assert.Contains(t, *got.Error, "upstream timeout")
}

func TestGenerate_NoOutline(t *testing.T) {
	completion := &fakeCompletion{}
	progress := newRecordingProgress()
	uc := newTestUsecase(completion, progress, nil, newFakeCallback(), testDraftConfig())

	_, err := uc.Generate(context.Background(), generateRequest(nil))

	assert.ErrorIs(t, err, entity.ErrPrecedentNotFound)
	_, ok := progress.Get("draft-1")
	assert.False(t, ok)
	assert.Empty(t, completion.calls())
}

func TestGenerate_LookupWinsOverPrefetched(t *testing.T) {
	completion := &fakeCompletion{reply: sectionReply}
	lookup := func(ctx context.Context, id, name string) (*entity.PrecedentOutline, error) {
		assert.Equal(t, "ct-1", id)
		assert.Equal(t, "Employment Agreement", name)
		return &entity.PrecedentOutline{Sections: []entity.PrecedentSection{{Heading: "1. ONLY", Body: "x"}}}, nil
	}
	uc := newTestUsecase(completion, newRecordingProgress(), lookup, newFakeCallback(), testDraftConfig())

	resp, err := uc.Generate(context.Background(), generateRequest(threeSectionOutline()))

	require.NoError(t, err)
	assert.Len(t, completion.calls(), 1)
	assert.Contains(t, resp.ContractText, "1. ONLY")
}

func TestGenerate_OutlineWithoutSections(t *testing.T) {
	progress := newRecordingProgress()
	uc := newTestUsecase(&fakeCompletion{}, progress, nil, newFakeCallback(), testDraftConfig())

	_, err := uc.Generate(context.Background(), generateRequest(&entity.PrecedentOutline{
		Sections: []entity.PrecedentSection{{Heading: " ", Body: ""}},
	}))

	assert.ErrorIs(t, err, entity.ErrNoPrecedentSections)
	got, ok := progress.Get("draft-1")
	require.True(t, ok)
	assert.Equal(t, entity.ProgressStatusFailed, got.Status)
	require.NotNil(t, got.Error)
	assert.Contains(t, *got.Error, "no precedent sections found for Employment Agreement")
}

func TestGenerate_EmptySectionReplyIsKeptAsHeading(t *testing.T) {
	completion := &fakeCompletion{reply: func(req entity.CompletionRequest) (string, entity.Usage, error) {
		return "  ", entity.Usage{}, nil
	}}
	uc := newTestUsecase(completion, newRecordingProgress(), nil, newFakeCallback(), testDraftConfig())

	resp, err := uc.Generate(context.Background(), generateRequest(threeSectionOutline()))

	require.NoError(t, err)
	assert.Contains(t, resp.ContractText, "1. APPOINTMENT\n\n2. TERM\n\n3. REMUNERATION\n\n"+Disclaimer)
}

func TestGenerate_Parallel(t *testing.T) {
	defer goleak.VerifyNone(t)

	release := make(chan struct{})
	completion := &fakeCompletion{reply: func(req entity.CompletionRequest) (string, entity.Usage, error) {
		if headingOf(req) == "1. APPOINTMENT" {
			<-release
		}
		return sectionReply(req)
	}}
	progress := newRecordingProgress()
	cfg := testDraftConfig()
	cfg.Concurrency = 3
	uc := newTestUsecase(completion, progress, nil, newFakeCallback(), cfg)

	go func() {
		assert.Eventually(t, func() bool { return len(progress.calls()) == 2 }, 5*time.Second, 5*time.Millisecond)
		close(release)
	}()

	resp, err := uc.Generate(context.Background(), generateRequest(threeSectionOutline()))
	require.NoError(t, err)

	idx1 := strings.Index(resp.ContractText, "1. APPOINTMENT")
	idx2 := strings.Index(resp.ContractText, "2. TERM")
	idx3 := strings.Index(resp.ContractText, "3. REMUNERATION")
	assert.True(t, idx1 < idx2 && idx2 < idx3)

	calls := progress.calls()
	require.Len(t, calls, 3)
	for i, call := range calls {
		assert.Equal(t, i+1, call.completed)
		assert.Equal(t, 3, call.total)
	}
	assert.Equal(t, "Drafting Section 1. APPOINTMENT (1 of 3)", calls[2].step)

	got, _ := progress.Get("draft-1")
	assert.Equal(t, entity.ProgressStatusCompleted, got.Status)
}

func TestGenerate_ParallelFailure(t *testing.T) {
	defer goleak.VerifyNone(t)

	completion := &fakeCompletion{reply: func(req entity.CompletionRequest) (string, entity.Usage, error) {
		if headingOf(req) == "3. REMUNERATION" {
			return "", entity.Usage{}, errors.New("boom")
		}
		return sectionReply(req)
	}}
	progress := newRecordingProgress()
	cfg := testDraftConfig()
	cfg.Concurrency = 2
	uc := newTestUsecase(completion, progress, nil, newFakeCallback(), cfg)

	_, err := uc.Generate(context.Background(), generateRequest(threeSectionOutline()))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "draft section 3 (3. REMUNERATION): boom")
	got, _ := progress.Get("draft-1")
	assert.Equal(t, entity.ProgressStatusFailed, got.Status)
}
