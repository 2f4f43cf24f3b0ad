package runner_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/callcenter112/chatbench/internal/chat"
	"github.com/callcenter112/chatbench/internal/corpus"
	"github.com/callcenter112/chatbench/internal/metrics"
	"github.com/callcenter112/chatbench/internal/runner"
	"github.com/callcenter112/chatbench/internal/scenario"
)

// scriptedTransport replays canned replies in order and records teardowns.
type scriptedTransport struct {
	mu      sync.Mutex
	replies []chat.Reply
	sent    []string
	tokens  []string
	cleared []string
}

func (s *scriptedTransport) Send(ctx context.Context, message, sessionID, authToken string) chat.Reply {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, message)
	s.tokens = append(s.tokens, authToken)
	if len(s.replies) == 0 {
		return chat.Reply{Success: true, Data: chat.ReplyData{Response: "Tôi đã ghi nhận thông tin của bạn."}}
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	return reply
}

func (s *scriptedTransport) Clear(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleared = append(s.cleared, sessionID)
	return true
}

type stubJudge struct {
	score float64
	err   error
}

func (j stubJudge) Measure(ctx context.Context, m metrics.Metric, tc metrics.TestCase) (float64, error) {
	return j.score, j.err
}

func ok(text string) chat.Reply {
	return chat.Reply{Success: true, Data: chat.ReplyData{Response: text}}
}

func fireScenario() *scenario.Scenario {
	return &scenario.Scenario{
		ID:       "FIRE_T1",
		Name:     "Complete Fire Flow",
		Category: scenario.CategoryFire,
		Turns: []scenario.Turn{
			{UserMessage: "Cháy nhà! Nhà tôi đang cháy lớn lắm!", ValidationCriteria: []string{"Should detect FIRE_RESCUE emergency"}},
			{UserMessage: "123 Nguyễn Huệ, Phường 5, Quận 1", ValidationCriteria: []string{"Should ask for phone number"}},
			{UserMessage: "0901234567", ValidationCriteria: []string{"Should ask for number of affected people"}},
			{UserMessage: "3 người trong nhà", ValidationCriteria: []string{"Should show confirmation summary"}},
			{UserMessage: "Đúng rồi, xác nhận", ValidationCriteria: []string{"Should create ticket"}},
		},
		ShouldCreateTicket: true,
	}
}

func fireReplies() []chat.Reply {
	return []chat.Reply{
		ok("Tôi đã ghi nhận vụ cháy. Hãy thoát ra ngoài ngay. Vui lòng cho biết địa chỉ."),
		ok("Đã ghi nhận địa chỉ. Cho tôi xin số điện thoại liên hệ."),
		ok("Cảm ơn. Có bao nhiêu người bị ảnh hưởng?"),
		ok("📋 Vui lòng xác nhận thông tin sau đây."),
		{Success: true, Data: chat.ReplyData{Response: "Đã tạo phiếu cứu hộ. Đội cứu hỏa đang đến.", TicketID: "TK-100"}},
	}
}

func TestRunCompleteFireFlow(t *testing.T) {
	transport := &scriptedTransport{replies: fireReplies()}
	r := runner.New(transport, runner.WithTurnPause(0))

	res := r.Run(context.Background(), fireScenario())

	require.Equal(t, "FIRE_T1", res.TestCaseID)
	require.Equal(t, 5, res.TotalTurns)
	require.Equal(t, 5, res.CompletedTurns)
	require.True(t, res.TicketCreated)
	require.Equal(t, "TK-100", res.TicketID)
	require.True(t, res.WorkflowCompleted)
	require.True(t, res.OverallPassed)
	require.Empty(t, res.Errors)
	require.Len(t, res.ConversationLog, 10)
	require.Equal(t, "user", res.ConversationLog[0].Role)
	require.Equal(t, "bot", res.ConversationLog[1].Role)

	// Session teardown runs exactly once, with the session used for sends.
	require.Len(t, transport.cleared, 1)
	require.NotEmpty(t, transport.cleared[0])

	for _, turn := range res.Turns {
		require.Empty(t, turn.ValidationFailed)
		require.NotEmpty(t, turn.ValidationPassed)
	}
}

func TestRunTransportFailureContinues(t *testing.T) {
	replies := fireReplies()
	replies[2] = chat.Reply{
		Success: false,
		Error:   "chat endpoint returned status 500",
		Data:    chat.ReplyData{Response: "Error: chat endpoint returned status 500"},
	}
	transport := &scriptedTransport{replies: replies}
	r := runner.New(transport, runner.WithTurnPause(0))

	res := r.Run(context.Background(), fireScenario())

	require.Equal(t, 5, res.CompletedTurns)
	require.True(t, res.TicketCreated)
	require.Contains(t, res.Turns[2].Errors, "chat endpoint returned status 500")
	require.NotEmpty(t, res.Turns[2].ValidationFailed)
}

func TestRunTicketExpectationMismatch(t *testing.T) {
	replies := fireReplies()
	// No ticket on the final turn.
	replies[4] = ok("Xin lỗi, tôi chưa thể tạo phiếu.")
	transport := &scriptedTransport{replies: replies}
	r := runner.New(transport, runner.WithTurnPause(0))

	res := r.Run(context.Background(), fireScenario())

	require.Equal(t, 5, res.CompletedTurns)
	require.False(t, res.TicketCreated)
	require.False(t, res.WorkflowCompleted)
	require.False(t, res.OverallPassed)
}

func TestRunAuthenticatedSkipsPhone(t *testing.T) {
	sc := &scenario.Scenario{
		ID:              "AUTH_T1",
		Name:            "Authenticated Flow",
		Category:        scenario.CategoryAuthenticated,
		IsAuthenticated: true,
		Turns: []scenario.Turn{
			{UserMessage: "Cháy nhà tôi!"},
			{UserMessage: "123 Lê Lợi, Quận 1", ValidationCriteria: []string{"Should not ask for phone"}},
			{UserMessage: "Xác nhận"},
		},
		ExpectedFinalState: map[string]any{"skippedPhoneCollection": true},
		ShouldCreateTicket: true,
	}
	transport := &scriptedTransport{replies: []chat.Reply{
		ok("Đã ghi nhận vụ cháy. Vui lòng cho biết địa chỉ."),
		ok("Cho tôi xin số điện thoại liên hệ."),
		{Success: true, Data: chat.ReplyData{Response: "Đã tạo phiếu.", TicketID: "TK-5"}},
	}}
	r := runner.New(transport, runner.WithTurnPause(0))

	res := r.Run(context.Background(), sc)

	require.Equal(t, []string{"test_user", "test_user", "test_user"}, transport.tokens)
	require.Equal(t, 3, res.CompletedTurns)
	require.True(t, res.TicketCreated)
	// The bot asked for the phone even though it must be on file.
	require.False(t, res.WorkflowCompleted)
}

func TestRunAuthenticatedFlowSkipsToPeople(t *testing.T) {
	sc := &scenario.Scenario{
		ID:              "AUTH_T2",
		Name:            "Authenticated Flow Completes",
		Category:        scenario.CategoryAuthenticated,
		IsAuthenticated: true,
		Turns: []scenario.Turn{
			{UserMessage: "Cháy nhà tôi!"},
			{UserMessage: "123 Lê Lợi, Quận 1", ValidationCriteria: []string{"Should not ask for phone"}},
			{UserMessage: "2 người"},
			{UserMessage: "Xác nhận"},
		},
		ExpectedFinalState: map[string]any{"skippedPhoneCollection": true},
		ShouldCreateTicket: true,
	}
	transport := &scriptedTransport{replies: []chat.Reply{
		ok("Đã ghi nhận vụ cháy. Vui lòng cho biết địa chỉ."),
		ok("Cảm ơn. Có bao nhiêu người bị ảnh hưởng?"),
		ok("📋 Vui lòng xác nhận thông tin."),
		{Success: true, Data: chat.ReplyData{Response: "Đã tạo phiếu.", TicketID: "TK-6"}},
	}}
	r := runner.New(transport, runner.WithTurnPause(0))

	res := r.Run(context.Background(), sc)

	// The phone phase is skipped: address goes straight to headcount.
	require.Equal(t, "people", res.Turns[1].ActualNextStep)
	require.True(t, res.TicketCreated)
	require.True(t, res.WorkflowCompleted)
}

func TestRunConfirmationEchoingSavedPhoneCompletesWorkflow(t *testing.T) {
	sc := &scenario.Scenario{
		ID:              "AUTH_T3",
		Name:            "Authenticated Flow With Phone In Summary",
		Category:        scenario.CategoryAuthenticated,
		IsAuthenticated: true,
		Turns: []scenario.Turn{
			{UserMessage: "Cháy nhà tôi!"},
			{UserMessage: "123 Lê Lợi, Quận 1", ValidationCriteria: []string{"Should not ask for phone"}},
			{UserMessage: "2 người"},
			{UserMessage: "Xác nhận"},
		},
		ExpectedFinalState: map[string]any{"skippedPhoneCollection": true},
		ShouldCreateTicket: true,
	}
	// The confirmation summary lists the saved number the way the live bot
	// renders it; that is not the same as asking for it.
	transport := &scriptedTransport{replies: []chat.Reply{
		ok("Đã ghi nhận vụ cháy. Vui lòng cho biết địa chỉ."),
		ok("Cảm ơn. Có bao nhiêu người bị ảnh hưởng?"),
		ok("📋 Xác nhận thông tin:\n• Địa chỉ: 123 Lê Lợi, Quận 1\n• Số điện thoại: 0901234567\n• Số người: 2"),
		{Success: true, Data: chat.ReplyData{Response: "Đã tạo phiếu.", TicketID: "TK-8"}},
	}}
	r := runner.New(transport, runner.WithTurnPause(0))

	res := r.Run(context.Background(), sc)

	require.Equal(t, 4, res.CompletedTurns)
	require.True(t, res.TicketCreated)
	require.True(t, res.WorkflowCompleted)
	require.True(t, res.OverallPassed)
}

func TestRunCancelledContextTearsDownSession(t *testing.T) {
	transport := &scriptedTransport{replies: fireReplies()}
	r := runner.New(transport) // default pause so cancellation lands between turns

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := r.Run(ctx, fireScenario())

	require.Less(t, res.CompletedTurns, 5)
	require.NotEmpty(t, res.Errors)
	require.Contains(t, res.Errors[0], "Conversation error")
	require.False(t, res.WorkflowCompleted)
	require.Len(t, transport.cleared, 1)
}

func TestRunMetricScoring(t *testing.T) {
	set := metrics.ConversationMetrics()

	t.Run("passing scores", func(t *testing.T) {
		transport := &scriptedTransport{replies: fireReplies()}
		r := runner.New(transport, runner.WithTurnPause(0), runner.WithJudge(stubJudge{score: 0.9}, set))
		res := r.Run(context.Background(), fireScenario())
		require.Len(t, res.Metrics, len(set))
		for _, m := range set {
			require.InDelta(t, 0.9, res.Metrics[m.Name], 1e-9)
		}
		require.True(t, res.OverallPassed)
	})

	t.Run("below threshold", func(t *testing.T) {
		transport := &scriptedTransport{replies: fireReplies()}
		r := runner.New(transport, runner.WithTurnPause(0), runner.WithJudge(stubJudge{score: 0.4}, set))
		res := r.Run(context.Background(), fireScenario())
		require.True(t, res.WorkflowCompleted)
		require.False(t, res.OverallPassed)
	})

	t.Run("judge error scores zero", func(t *testing.T) {
		transport := &scriptedTransport{replies: fireReplies()}
		r := runner.New(transport, runner.WithTurnPause(0), runner.WithJudge(stubJudge{err: errors.New("judge offline")}, set))
		res := r.Run(context.Background(), fireScenario())
		require.Len(t, res.Metrics, len(set))
		for _, m := range set {
			require.Zero(t, res.Metrics[m.Name])
		}
		require.Len(t, res.Errors, len(set))
		require.False(t, res.OverallPassed)
	})
}

func TestRunSingle(t *testing.T) {
	tc := corpus.SingleCase{ID: "SINGLE_T1", Category: "emergency_type_detection", Input: "Cháy nhà!"}

	t.Run("passes with judge", func(t *testing.T) {
		transport := &scriptedTransport{replies: []chat.Reply{ok("Đã ghi nhận vụ cháy, đội cứu hỏa sẽ đến.")}}
		r := runner.New(transport, runner.WithTurnPause(0), runner.WithJudge(stubJudge{score: 0.8}, nil))
		res := r.RunSingle(context.Background(), tc)
		require.True(t, res.Passed)
		require.Len(t, res.Metrics, len(metrics.SingleTurnMetrics(tc.Category)))
		require.Len(t, transport.cleared, 1)
	})

	t.Run("fails on transport error", func(t *testing.T) {
		transport := &scriptedTransport{replies: []chat.Reply{{
			Success: false,
			Error:   "connection refused",
			Data:    chat.ReplyData{Response: "Error: connection refused"},
		}}}
		r := runner.New(transport, runner.WithTurnPause(0))
		res := r.RunSingle(context.Background(), tc)
		require.False(t, res.Passed)
		require.Contains(t, res.Errors, "connection refused")
	})

	t.Run("fails below threshold", func(t *testing.T) {
		transport := &scriptedTransport{replies: []chat.Reply{ok("Đã ghi nhận.")}}
		r := runner.New(transport, runner.WithTurnPause(0), runner.WithJudge(stubJudge{score: 0.2}, nil))
		res := r.RunSingle(context.Background(), tc)
		require.False(t, res.Passed)
	})
}
