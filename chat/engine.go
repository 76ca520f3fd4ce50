// Package chat implements the retrieval decision protocol: a two-turn
// exchange with a generative model that may elect to fetch article evidence
// before answering.
package chat

import (
	"context"
	"fmt"

	"github.com/corpusai/corpuschat/chunkstore"
	"github.com/corpusai/corpuschat/conversation"
	"github.com/corpusai/corpuschat/corpus"
	"github.com/corpusai/corpuschat/evidence"
	"github.com/corpusai/corpuschat/llm"
	"github.com/corpusai/corpuschat/log"
)

// Protocol states for one user turn. The turn either resolves directly or
// passes through retrieval exactly once; there is no loop back to the
// decision state, so multi-hop retrieval cannot happen.
type state int

const (
	stateAwaitingDecision state = iota
	stateDirect
	stateRetrieving
	stateAnswering
)

// Default retrieval parameters.
const (
	DefaultTopK      = 7
	DefaultMaxTitles = 3
)

// Engine runs the retrieval decision protocol. It is safe for concurrent use
// across conversations: the roster is fixed at construction and all mutable
// state lives in the per-call conversation.
type Engine struct {
	client    llm.Client
	store     chunkstore.Store
	roster    *corpus.Roster
	prompt    PromptConfig
	model     string
	topK      int
	maxTitles int
	logger    log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithModel selects the completion model for both protocol turns.
func WithModel(model string) Option {
	return func(e *Engine) { e.model = model }
}

// WithTopK sets how many chunks similarity search returns.
func WithTopK(k int) Option {
	return func(e *Engine) { e.topK = k }
}

// WithMaxTitles caps how many requested titles are honored per tool call.
func WithMaxTitles(n int) Option {
	return func(e *Engine) { e.maxTitles = n }
}

// WithLogger overrides the package-level default logger.
func WithLogger(logger log.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// NewEngine wires the protocol to its collaborators. The roster snapshot
// taken here defines the closed title enumeration for the engine's lifetime.
func NewEngine(client llm.Client, store chunkstore.Store, roster *corpus.Roster, prompt PromptConfig, opts ...Option) *Engine {
	e := &Engine{
		client:    client,
		store:     store,
		roster:    roster,
		prompt:    prompt,
		topK:      DefaultTopK,
		maxTitles: DefaultMaxTitles,
		logger:    log.GetDefaultLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewConversation starts a transcript seeded with the engine's system prompt.
func (e *Engine) NewConversation() *conversation.Conversation {
	return conversation.New(SystemPrompt(e.prompt, e.roster))
}

// Ask processes one user turn. The reply is either complete text (the model
// answered directly) or an incremental stream (retrieval ran and the answer
// is generated against the injected evidence).
//
// A model-call failure on either turn is terminal for this turn only; the
// user message stays appended and the transcript remains reusable.
func (e *Engine) Ask(ctx context.Context, conv *conversation.Conversation, query string) (*Reply, error) {
	conv.AppendUser(query)

	var (
		decision llm.Message
		call     llm.ToolCall
	)

	for st := stateAwaitingDecision; ; {
		switch st {
		case stateAwaitingDecision:
			msg, err := e.client.Complete(ctx, conv.Messages(),
				e.callOptions(llm.WithTools([]llm.Tool{retrievalTool(e.roster.Titles())}))...,
			)
			if err != nil {
				return nil, fmt.Errorf("chat: decision turn: %w", err)
			}
			decision = msg
			if tc, ok := retrievalCall(msg); ok {
				call = tc
				st = stateRetrieving
			} else {
				st = stateDirect
			}

		case stateDirect:
			conv.AppendAssistantText(decision.Content)
			return &Reply{Kind: ReplyComplete, Text: decision.Content}, nil

		case stateRetrieving:
			content := e.gatherEvidence(ctx, call, query)
			if err := conv.AppendAssistantToolCall(decision); err != nil {
				return nil, fmt.Errorf("chat: recording tool call: %w", err)
			}
			if err := conv.AppendToolResult(call.ID, ToolName, content); err != nil {
				return nil, fmt.Errorf("chat: recording tool result: %w", err)
			}
			st = stateAnswering

		case stateAnswering:
			stream, err := e.client.CompleteStream(ctx, conv.Messages(), e.callOptions()...)
			if err != nil {
				return nil, fmt.Errorf("chat: answer turn: %w", err)
			}
			return &Reply{Kind: ReplyIncremental, Stream: stream}, nil
		}
	}
}

// callOptions builds per-call options, keeping the client's default model
// when no override is configured.
func (e *Engine) callOptions(extra ...llm.CompleteOption) []llm.CompleteOption {
	var opts []llm.CompleteOption
	if e.model != "" {
		opts = append(opts, llm.WithModel(e.model))
	}
	return append(opts, extra...)
}

// gatherEvidence resolves summaries for the requested titles and runs
// similarity search over the raw query, then assembles both into one block.
// Either source may fail or come back empty; the protocol always proceeds to
// the answer turn with whatever evidence survived, possibly none.
func (e *Engine) gatherEvidence(ctx context.Context, call llm.ToolCall, query string) string {
	titles := parseToolTitles(call.Arguments)
	if len(titles) > e.maxTitles {
		e.logger.Warn("chat: model requested %d titles, truncating to %d", len(titles), e.maxTitles)
		titles = titles[:e.maxTitles]
	}

	var summaries []evidence.Summary
	for _, title := range titles {
		article, ok := e.roster.Lookup(title)
		if !ok {
			e.logger.Debug("chat: dropping unknown article title %q", title)
			continue
		}
		summaries = append(summaries, evidence.Summary{
			Title:   article.Title,
			Summary: article.Summary,
			URL:     article.URL,
		})
	}

	results, err := e.store.Search(ctx, query, e.topK)
	if err != nil {
		e.logger.Warn("chat: similarity search unavailable: %v", err)
		results = nil
	}

	return evidence.Assemble(summaries, evidence.Group(results))
}
