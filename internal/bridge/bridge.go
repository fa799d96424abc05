// Package bridge exposes the workspace, terminal, theme and presence services
// as named methods taking loosely typed arguments, the way a webview's
// JavaScript bridge calls into the host.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Cyclone1070/mizu/internal/presence"
	"github.com/Cyclone1070/mizu/internal/terminal"
	"github.com/Cyclone1070/mizu/internal/theme"
	"github.com/Cyclone1070/mizu/internal/workspace"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

// KindInternal marks failures that carry no workspace kind.
const KindInternal = "Internal"

// Response is the envelope every call returns.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo describes a failed call.
type ErrorInfo struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Validator is implemented by requests that check their own fields.
type Validator interface {
	Validate() error
}

type method func(ctx context.Context, args map[string]any) (any, error)

// Bridge dispatches method calls to the services.
type Bridge struct {
	workspace workspaceService
	terminal  terminalService
	themes    themeService
	presence  presenceService
	logger    *zap.Logger

	methods map[string]method
}

// New wires a bridge over the services.
func New(ws workspaceService, term terminalService, themes themeService, tracker presenceService, logger *zap.Logger) *Bridge {
	if ws == nil {
		panic("workspace is required")
	}
	if term == nil {
		panic("terminal is required")
	}
	if themes == nil {
		panic("themes is required")
	}
	if tracker == nil {
		panic("presence is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Bridge{
		workspace: ws,
		terminal:  term,
		themes:    themes,
		presence:  tracker,
		logger:    logger,
		methods:   make(map[string]method),
	}
	b.registerMethods()
	return b
}

// register decodes args into Req with mapstructure, validates it and calls fn.
func register[Req any](b *Bridge, name string, fn func(ctx context.Context, req Req) (any, error)) {
	b.methods[name] = func(ctx context.Context, args map[string]any) (any, error) {
		var req Req
		if err := decode(args, &req); err != nil {
			return nil, &ArgumentError{Method: name, Cause: err}
		}
		if v, ok := any(req).(Validator); ok {
			if err := v.Validate(); err != nil {
				return nil, &ArgumentError{Method: name, Cause: err}
			}
		}
		return fn(ctx, req)
	}
}

// decode fills out from args. Weak typing lets string-only callers such as
// the console pass "enabled=true".
func decode(args map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(args)
}

// Methods returns the registered method names in sorted order.
func (b *Bridge) Methods() []string {
	names := make([]string, 0, len(b.methods))
	for name := range b.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call invokes name with args. Failures, including panics, come back as data.
func (b *Bridge) Call(ctx context.Context, name string, args map[string]any) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("bridge method panicked", zap.String("method", name), zap.Any("panic", r))
			resp = failure(KindInternal, fmt.Sprintf("internal error: %v", r))
		}
	}()

	m, ok := b.methods[name]
	if !ok {
		return failure(string(workspace.KindInvalidInput), fmt.Sprintf("unknown method %q", name))
	}
	if args == nil {
		args = map[string]any{}
	}

	data, err := m(ctx, args)
	if err != nil {
		b.logger.Debug("bridge call failed", zap.String("method", name), zap.Error(err))
		return failure(kindFor(err), err.Error())
	}
	return Response{Success: true, Data: data}
}

func failure(kind, message string) Response {
	return Response{Error: &ErrorInfo{Kind: kind, Message: message}}
}

// ArgumentError is returned when call arguments do not fit the method.
type ArgumentError struct {
	Method string
	Cause  error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %v", e.Method, e.Cause)
}
func (e *ArgumentError) Unwrap() error { return e.Cause }

func kindFor(err error) string {
	if kind := workspace.KindOf(err); kind != "" {
		return string(kind)
	}
	var argErr *ArgumentError
	if errors.As(err, &argErr) || errors.Is(err, theme.ErrInvalidName) {
		return string(workspace.KindInvalidInput)
	}
	return KindInternal
}

// Service interfaces, satisfied by the concrete packages.

type workspaceService interface {
	OpenWorkspace(ctx context.Context) (string, error)
	Root() string
	ListTree(ctx context.Context) (*workspace.TreeNode, error)
	ReadFile(rel string) (string, error)
	WriteFile(rel, text string) error
	SaveAs(ctx context.Context, text string) (*workspace.SaveResult, error)
	CreateFile(parent, name string) error
	CreateFolder(parent, name string) error
	DeleteItem(rel string) error
	CopyItem(rel string, kind workspace.ItemKind) (*workspace.ClipboardItem, error)
	PasteItem(target string) (string, error)
	RenameItem(rel, newName string) error
	RevealInSystemExplorer(rel string) error
	ResolveAbsolutePath(rel string) (string, error)
}

type terminalService interface {
	Run(ctx context.Context, command string) terminal.Result
	Cancel() bool
}

type themeService interface {
	List() ([]theme.Theme, error)
	Exists(name string) bool
	Save(name string) error
	Saved() string
}

type presenceService interface {
	Refresh()
	Status() presence.Status
	SetEnabled(enabled bool) (presence.Status, error)
}
