package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/lumina-storefront/internal/catalog/domain"
)

type stubCompleter struct {
	mu    sync.Mutex
	reply string
	err   error
	seen  []CompletionRequest
}

func (s *stubCompleter) Complete(_ context.Context, req CompletionRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = append(s.seen, req)
	return s.reply, s.err
}

func newStylist(t *testing.T, c Completer) *Stylist {
	t.Helper()
	s, err := NewStylist(c, domain.SeedProducts())
	require.NoError(t, err)
	return s
}

func TestStylistInstructionCarriesCatalogAndRules(t *testing.T) {
	s := newStylist(t, &stubCompleter{})

	assert.Contains(t, s.Instruction(), `You are "Lumina,"`)
	assert.Contains(t, s.Instruction(), "Polarized Aviators")
	assert.Contains(t, s.Instruction(), "5. Do not make up products.")
}

func TestStylistAsk(t *testing.T) {
	completer := &stubCompleter{reply: "Try the Merino Wool Crewneck for $85."}
	s := newStylist(t, completer)

	text, err := s.Ask(context.Background(), "something warm?")
	require.NoError(t, err)
	assert.Equal(t, completer.reply, text)

	require.Len(t, completer.seen, 1)
	assert.Equal(t, "something warm?", completer.seen[0].Message)
	assert.Equal(t, 0.7, completer.seen[0].Temperature)
	assert.Equal(t, s.Instruction(), completer.seen[0].SystemInstruction)
}

func TestStylistEmptyCompletion(t *testing.T) {
	s := newStylist(t, &stubCompleter{reply: "  "})

	text, err := s.Ask(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, EmptyReply, text)
}

func TestStylistReplyNeverFails(t *testing.T) {
	s := newStylist(t, &stubCompleter{err: errors.New("down")})

	assert.Equal(t, ApologyReply, s.Reply(context.Background(), "hi"))
}

func TestChatStartsWithGreeting(t *testing.T) {
	chat := NewChat(newStylist(t, &stubCompleter{}))

	transcript := chat.Transcript()
	require.Len(t, transcript, 1)
	assert.Equal(t, Message{Role: RoleModel, Text: Greeting}, transcript[0])
	assert.Equal(t, StateIdle, chat.State())
}

func TestChatSendSuccess(t *testing.T) {
	completer := &stubCompleter{reply: "Look at the Canvas Weekender Bag."}
	chat := NewChat(newStylist(t, completer))

	reply, err := chat.Send(context.Background(), "bag for a trip")
	require.NoError(t, err)
	assert.Equal(t, completer.reply, reply.Text)
	assert.False(t, reply.IsError)

	transcript := chat.Transcript()
	require.Len(t, transcript, 3)
	assert.Equal(t, Message{Role: RoleUser, Text: "bag for a trip"}, transcript[1])
	assert.Equal(t, StateIdle, chat.State())
}

func TestChatSendFailureAppendsFallback(t *testing.T) {
	completer := &stubCompleter{err: errors.New("timeout")}
	chat := NewChat(newStylist(t, completer))

	reply, err := chat.Send(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, Message{Role: RoleModel, Text: FallbackReply, IsError: true}, reply)
	assert.Equal(t, StateIdleWithError, chat.State())

	completer.err = nil
	completer.reply = "Back online."
	reply, err = chat.Send(context.Background(), "again")
	require.NoError(t, err)
	assert.Equal(t, "Back online.", reply.Text)
	assert.Equal(t, StateIdle, chat.State())
	assert.Len(t, chat.Transcript(), 5)
}

func TestChatIgnoresBlankInput(t *testing.T) {
	chat := NewChat(newStylist(t, &stubCompleter{reply: "x"}))

	_, err := chat.Send(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrIgnored)
	assert.Len(t, chat.Transcript(), 1)
}

type blockingResponder struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingResponder) Ask(ctx context.Context, message string) (string, error) {
	close(b.started)
	<-b.release
	return "done", nil
}

func TestChatIgnoresSendWhileAwaiting(t *testing.T) {
	responder := &blockingResponder{started: make(chan struct{}), release: make(chan struct{})}
	chat := NewChat(responder)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := chat.Send(context.Background(), "first")
		assert.NoError(t, err)
	}()

	<-responder.started
	assert.Equal(t, StateAwaiting, chat.State())
	_, err := chat.Send(context.Background(), "second")
	assert.ErrorIs(t, err, ErrIgnored)

	close(responder.release)
	<-done

	transcript := chat.Transcript()
	require.Len(t, transcript, 3)
	assert.Equal(t, "first", transcript[1].Text)
	assert.Equal(t, "done", transcript[2].Text)
}

func TestChatSendsOnlyCurrentUtterance(t *testing.T) {
	completer := &stubCompleter{reply: "ok"}
	chat := NewChat(newStylist(t, completer))

	_, err := chat.Send(context.Background(), "first question")
	require.NoError(t, err)
	_, err = chat.Send(context.Background(), "second question")
	require.NoError(t, err)

	require.Len(t, completer.seen, 2)
	assert.Equal(t, "second question", completer.seen[1].Message)
	assert.NotContains(t, completer.seen[1].SystemInstruction, "first question")
}

func TestGenerateContentClient(t *testing.T) {
	var got generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-2.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Hello "},{"text":"there"}]}}]}`))
	}))
	defer server.Close()

	client := NewGenerateContentClient(server.URL, "gemini-2.5-flash", "secret")
	text, err := client.Complete(context.Background(), CompletionRequest{
		SystemInstruction: "be nice",
		Message:           "hi",
		Temperature:       0.7,
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello there", text)

	require.Len(t, got.Contents, 1)
	assert.Equal(t, "hi", got.Contents[0].Parts[0].Text)
	require.NotNil(t, got.SystemInstruction)
	assert.Equal(t, "be nice", got.SystemInstruction.Parts[0].Text)
	assert.Equal(t, 0.7, got.GenerationConfig.Temperature)
}

func TestGenerateContentClientErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, strings.Repeat("x", 10), http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewGenerateContentClient(server.URL, "m", "")
	_, err := client.Complete(context.Background(), CompletionRequest{Message: "hi"})
	assert.ErrorIs(t, err, ErrCompletionFailed)
	assert.Equal(t, 1, client.Breaker().Stats().Failures)
}
