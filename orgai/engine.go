package orgai

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/debug"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/google/uuid"
)

// Payload is exactly what dispatch hands to the request service. A
// dry-run returns its rendering instead of sending it.
type Payload struct {
	Backend     string    `json:"backend"`
	Model       string    `json:"model,omitempty"`
	Temperature *float64  `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Stream      bool      `json:"stream"`
	Directive   Directive `json:"directive"`
	Body        string    `json:"body"`
}

// Transform is a pre-send hook applied to the directive after variable
// expansion, in registration order.
type Transform func(Directive) Directive

// SubmitFunc issues one completion request and reports the outcome
// through onComplete. Implementations return without waiting for the
// completion.
type SubmitFunc func(ctx context.Context, p Payload, onComplete func(string, error))

// Handle tracks one in-flight request.
type Handle struct {
	ID    string
	Token string
	done  chan struct{}
	once  sync.Once
}

// Wait blocks until the request completes or ctx is done.
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Handle) finish() {
	h.once.Do(func() { close(h.done) })
}

// Engine orchestrates block execution: it assembles payloads, places
// pending tokens, dispatches requests and patches completions back
// into the document.
type Engine struct {
	registry   *BackendRegistry
	defaults   Config
	presets    *PresetStore
	submit     SubmitFunc
	transforms []Transform
	renderer   Renderer

	completeMu sync.Mutex
	mu         sync.Mutex
	pending    map[string]*Handle
}

type EngineOption func(*Engine)

// WithBackendRegistry replaces the backend registry.
func WithBackendRegistry(r *BackendRegistry) EngineOption {
	return func(e *Engine) { e.registry = r }
}

// WithDefaults overlays cfg on the ambient defaults.
func WithDefaults(cfg Config) EngineOption {
	return func(e *Engine) { e.defaults = MergeConfig(DefaultConfig, cfg) }
}

// WithPresets attaches a preset store for :preset resolution.
func WithPresets(store *PresetStore) EngineOption {
	return func(e *Engine) { e.presets = store }
}

// WithSubmitter replaces the request service.
func WithSubmitter(fn SubmitFunc) EngineOption {
	return func(e *Engine) { e.submit = fn }
}

// WithTransforms appends pre-send hooks.
func WithTransforms(ts ...Transform) EngineOption {
	return func(e *Engine) { e.transforms = append(e.transforms, ts...) }
}

// WithRenderer replaces the dry-run payload renderer.
func WithRenderer(r Renderer) EngineOption {
	return func(e *Engine) { e.renderer = r }
}

// NewEngine builds an engine on the default backend registry and
// ambient defaults.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		registry: DefaultBackendRegistry,
		defaults: DefaultConfig,
		renderer: JSONRenderer{},
		pending:  make(map[string]*Handle),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.submit == nil {
		e.submit = e.defaultSubmit
	}
	return e
}

const (
	pendingPrefix = "{{orgai-pending:"
	pendingSuffix = "}}"
)

// PendingToken mints a collision-resistant placeholder written at the
// invocation site while a request is in flight.
func PendingToken() string {
	return pendingPrefix + uuid.NewString() + pendingSuffix
}

// IsPendingToken reports whether s looks like a placeholder minted by
// PendingToken. Callers use it to tell a dispatched invocation apart
// from a dry-run payload.
func IsPendingToken(s string) bool {
	return strings.HasPrefix(s, pendingPrefix) && strings.HasSuffix(s, pendingSuffix)
}

func requestID() string {
	return "req-" + uuid.NewString()[:8]
}

// Execute runs one invocation at the given document position. It
// returns the rendered payload when dry-run is set, otherwise the
// pending token, which it also writes at the invocation site when the
// document supports ResultWriter.
func (e *Engine) Execute(ctx context.Context, doc Document, at int, body string, params map[string]string) (string, error) {
	payload, cfg := e.buildInvocation(doc, at, body, params)
	dryRun := cfg.DryRun
	if raw, ok := params["dry_run"]; ok {
		dryRun = FlagTruthy(raw)
	}
	if dryRun {
		rendered, err := e.renderer.Render(payload)
		if err != nil {
			return "", &OrgAIError{Type: ErrRender, Message: "failed to render dry-run payload", Err: err}
		}
		return string(rendered), nil
	}

	mode := ResolveFormatMode(cfg.Format)
	h := &Handle{ID: requestID(), Token: PendingToken(), done: make(chan struct{})}
	if w, ok := doc.(ResultWriter); ok {
		w.WriteResult(at, h.Token)
	}
	e.register(h)
	e.submit(ctx, payload, func(resp string, err error) {
		e.complete(doc, h, mode, resp, err)
	})
	return h.Token, nil
}

// ExecuteBlock runs Execute for a scanned block.
func (e *Engine) ExecuteBlock(ctx context.Context, doc Document, b Block) (string, error) {
	return e.Execute(ctx, doc, b.Pos, b.Body, b.Params)
}

// BuildPayload assembles the payload for one invocation without
// dispatching it. Dispatch submits exactly this payload.
func (e *Engine) BuildPayload(doc Document, at int, body string, params map[string]string) Payload {
	p, _ := e.buildInvocation(doc, at, body, params)
	return p
}

func (e *Engine) buildInvocation(doc Document, at int, body string, params map[string]string) (Payload, Config) {
	cfg := e.resolveConfig(params)
	system := e.resolveSystem(cfg)
	var dir Directive
	switch {
	case cfg.Prompt != "":
		dir = FindPrompt(doc, cfg.Prompt, system, at)
	case cfg.Session != "":
		dir = FindSession(doc, cfg.Session, system, at)
	default:
		dir = Directive{System: system}
	}
	body = Expand(body, cfg.Vars)
	dir = ExpandDirective(dir, cfg.Vars)
	for _, t := range e.transforms {
		dir = t(dir)
	}
	p := Payload{
		Backend:     cfg.Backend,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Stream:      false,
		Directive:   dir,
		Body:        body,
	}
	return p, cfg
}

// resolveConfig layers defaults, the named preset, then the header
// arguments.
func (e *Engine) resolveConfig(params map[string]string) Config {
	parsed := ParseParams(params)
	cfg := e.defaults
	preset := parsed.Preset
	if preset == "" {
		preset = cfg.Preset
	}
	if preset != "" && e.presets != nil {
		if p, ok := e.presets.Lookup(preset); ok {
			cfg = MergeConfig(cfg, p)
		}
	}
	return MergeConfig(cfg, parsed)
}

// resolveSystem appends the :context file's content to the system
// text. An unreadable file is skipped.
func (e *Engine) resolveSystem(cfg Config) string {
	system := cfg.System
	if cfg.Context == "" {
		return system
	}
	data, err := os.ReadFile(cfg.Context)
	if err != nil {
		debugLogf("context file %s unreadable: %v\n", cfg.Context, err)
		return system
	}
	extra := strings.TrimSpace(string(data))
	if extra == "" {
		return system
	}
	if system == "" {
		return extra
	}
	return system + "\n\n" + extra
}

// BuildRequest converts a payload into the backend-neutral wire
// request: the directive turns plus the invocation body as a final
// user turn.
func BuildRequest(p Payload) Request {
	turns := append([]Turn(nil), p.Directive.Turns...)
	if p.Body != "" {
		turns = append(turns, Turn{Role: RoleUser, Content: p.Body})
	}
	return Request{
		Model:       p.Model,
		Temperature: p.Temperature,
		MaxTokens:   p.MaxTokens,
		System:      p.Directive.System,
		Turns:       turns,
		Stream:      false,
	}
}

// defaultSubmit resolves the backend from the registry and completes
// the request on its own goroutine, so the callback never runs before
// dispatch returns.
func (e *Engine) defaultSubmit(ctx context.Context, p Payload, onComplete func(string, error)) {
	backend, ok := e.registry.Resolve(p.Backend, e.defaults.Backend)
	debugLogf("dispatching %s request: %v\n", p.Backend, debug.IndentedJsonFmt(p))
	go func() {
		if !ok {
			onComplete("", &OrgAIError{Type: ErrBackend, Message: fmt.Sprintf("no backend registered for %q", p.Backend)})
			return
		}
		resp, err := backend.Complete(ctx, BuildRequest(p))
		onComplete(resp, err)
	}()
}

// complete resolves one placeholder: the first literal occurrence of
// the token is replaced exactly once, with the formatted response or
// with error text when the request failed. A missing token means the
// user removed it, and the response is discarded.
func (e *Engine) complete(doc Document, h *Handle, mode FormatMode, resp string, err error) {
	e.completeMu.Lock()
	defer e.completeMu.Unlock()
	defer e.unregister(h)
	var text string
	if err != nil {
		text = fmt.Sprintf("[orgai error: %v]", err)
	} else {
		text = FormatResponse(mode, resp)
	}
	span, ok := doc.Find(h.Token)
	if !ok {
		debugLogf("dropping completion for %s, token no longer present\n", h.ID)
		return
	}
	doc.Replace(span, text)
}

func (e *Engine) register(h *Handle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending[h.Token] = h
}

func (e *Engine) unregister(h *Handle) {
	e.mu.Lock()
	delete(e.pending, h.Token)
	e.mu.Unlock()
	h.finish()
}

// Pending lists the tokens of in-flight requests, sorted.
func (e *Engine) Pending() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.pending))
	for token := range e.pending {
		out = append(out, token)
	}
	sort.Strings(out)
	return out
}

// Wait blocks until every in-flight request has completed or ctx is
// done.
func (e *Engine) Wait(ctx context.Context) error {
	for {
		e.mu.Lock()
		var h *Handle
		for _, v := range e.pending {
			h = v
			break
		}
		e.mu.Unlock()
		if h == nil {
			return nil
		}
		if err := h.Wait(ctx); err != nil {
			return err
		}
	}
}

func debugLogf(format string, args ...any) {
	if misc.Truthy(os.Getenv("DEBUG")) {
		ancli.Noticef(format, args...)
	}
}
