package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"

	"github.com/tbxark/formflow"
)

var _ adk.Agent = (*Agent[any])(nil)

// Agent exposes a form dialog as an eino agent: each incoming message runs
// one turn, the session snapshot is persisted around it, and the outgoing
// prompt is emitted as the assistant reply.
type Agent[T any] struct {
	name        string
	description string
	dialog      *formflow.FormDialog[T]
	store       SessionStore[T]
	initValues  func(ctx context.Context) T
	locale      string
}

func NewAgent[T any](name, description string, dialog *formflow.FormDialog[T], store SessionStore[T], initValues func(ctx context.Context) T) *Agent[T] {
	return &Agent[T]{
		name:        name,
		description: description,
		dialog:      dialog,
		store:       store,
		initValues:  initValues,
	}
}

// WithLocale sets the locale tag recorded in new conversations.
func (a *Agent[T]) WithLocale(locale string) *Agent[T] {
	a.locale = locale
	return a
}

func (a *Agent[T]) Name(ctx context.Context) string {
	return a.name
}

func (a *Agent[T]) Description(ctx context.Context) string {
	return a.description
}

func (a *Agent[T]) Run(ctx context.Context, input *adk.AgentInput, options ...adk.AgentRunOption) *adk.AsyncIterator[*adk.AgentEvent] {
	iter, gen := adk.NewAsyncIteratorPair[*adk.AgentEvent]()
	go func() {
		defer func() {
			if e := recover(); e != nil {
				gen.Send(&adk.AgentEvent{Err: fmt.Errorf("recover from panic: %v", e)})
			}
			gen.Close()
		}()
		if len(input.Messages) == 0 {
			gen.Send(&adk.AgentEvent{Err: fmt.Errorf("no messages in input")})
			return
		}
		text := input.Messages[len(input.Messages)-1].Content
		reply, err := a.handleMessage(ctx, text)
		if err != nil {
			gen.Send(&adk.AgentEvent{Err: fmt.Errorf("form turn failed: %w", err)})
			return
		}
		gen.Send(&adk.AgentEvent{
			Output: &adk.AgentOutput{
				MessageOutput: &adk.MessageVariant{
					IsStreaming: false,
					Message: &schema.Message{
						Role:    schema.Assistant,
						Content: reply,
					},
					Role: schema.Assistant,
				},
			},
		})
	}()
	return iter
}

// handleMessage loads or starts the session, runs one turn, and persists or
// disposes the session depending on the outcome.
func (a *Agent[T]) handleMessage(ctx context.Context, text string) (string, error) {
	key := sessionKeyOrDefault(ctx)
	session, ok, err := a.store.Load(ctx, key)
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}

	var values T
	var state *formflow.FormState
	if ok {
		values = session.Values
		state, err = formflow.UnmarshalFormState(session.State, a.dialog.Form().Len())
		if err != nil {
			return "", fmt.Errorf("restore session state: %w", err)
		}
	} else {
		if a.initValues != nil {
			values = a.initValues(ctx)
		}
		state = formflow.NewFormState(a.dialog.Form().Len(), a.locale)
		if _, err := a.dialog.Start(ctx, values, state, nil); err != nil {
			return "", fmt.Errorf("start conversation: %w", err)
		}
		slog.Debug("started form session", "key", key)
	}

	turn, err := a.dialog.MessageReceived(ctx, values, state, text)
	if err != nil {
		return "", err
	}
	if turn.Done || turn.Cancelled {
		if err := a.store.Delete(ctx, key); err != nil {
			return "", fmt.Errorf("dispose session: %w", err)
		}
		return turn.Output, nil
	}

	snapshot, err := state.MarshalSnapshot()
	if err != nil {
		return "", err
	}
	if err := a.store.Save(ctx, key, &Session[T]{Values: turn.State, State: snapshot}); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return turn.Output, nil
}
