// Package sandbox builds a small host application graph whose members are
// compiled from script text, so interposition can be exercised end to end.
package sandbox

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/mouse-blink/interpose/internal/adapter"
	"github.com/mouse-blink/interpose/internal/host"
)

// Version is the host release the sandbox imitates.
const Version = "0.8.9"

// Menu records a context menu created by the host.
type Menu struct {
	Owner    string
	HTML     any
	Selector string
	Options  []any
}

// Event records a hook call.
type Event struct {
	Name string
	Args []any
}

// Host is a sandbox host: a namespace plus a record of its side effects.
type Host struct {
	ns *host.Namespace

	mu        sync.Mutex
	menus     []Menu
	events    []Event
	listeners map[string][]*host.Function
}

// New builds the sandbox graph. Members with source text are compiled with
// compiler, so they can be patched.
func New(compiler adapter.ScriptCompiler) (*Host, error) {
	h := &Host{
		ns:        host.NewNamespace(),
		listeners: make(map[string][]*host.Function),
	}

	if err := h.build(compiler); err != nil {
		return nil, fmt.Errorf("failed to build sandbox host: %w", err)
	}

	return h, nil
}

// Namespace returns the host namespace.
func (h *Host) Namespace() *host.Namespace {
	return h.ns
}

// Menus returns the context menus created so far.
func (h *Host) Menus() []Menu {
	h.mu.Lock()
	defer h.mu.Unlock()

	return slices.Clone(h.menus)
}

// Events returns the hook calls made so far.
func (h *Host) Events() []Event {
	h.mu.Lock()
	defer h.mu.Unlock()

	return slices.Clone(h.events)
}

func (h *Host) build(compiler adapter.ScriptCompiler) error {
	hooks := host.NewObject("Hooks", nil)
	if err := defineNatives(hooks,
		host.NewFunction("on", h.hooksOn),
		host.NewFunction("call", h.hooksCall),
	); err != nil {
		return err
	}

	contextMenu := host.NewClass("ContextMenu", nil)
	if err := host.DefineMethod(contextMenu, host.NewFunction("create", h.createMenu)); err != nil {
		return err
	}

	application := host.NewClass("Application", nil)
	appProto, _ := host.PrototypeOf(application)

	if err := appProto.DefineProperty("hooks", host.Descriptor{Value: hooks}); err != nil {
		return err
	}

	if err := defineNatives(appProto,
		host.NewFunction("_onSearchFilter", func(any, ...any) (any, error) { return nil, nil }),
		host.NewFunction("newContextMenu", func(this any, args ...any) (any, error) {
			return contextMenu.Invoke("create", append([]any{this}, args...)...)
		}),
	); err != nil {
		return err
	}

	if err := defineScripts(compiler, appProto, map[string]string{"render": applicationRender}); err != nil {
		return err
	}

	compendium := host.NewClass("Compendium", application)
	compProto, _ := host.PrototypeOf(compendium)

	if err := compProto.DefineProperty("entries", host.Descriptor{
		Value:        []any{"Goblin", "Owlbear", "Mimic"},
		Configurable: true,
	}); err != nil {
		return err
	}

	if err := defineNatives(compProto,
		host.NewFunction("_getEntryContextOptions", func(any, ...any) (any, error) {
			return []any{"Import Entry", "Edit Entry", "Delete Entry"}, nil
		}),
	); err != nil {
		return err
	}

	if err := defineScripts(compiler, compProto, map[string]string{
		"_contextMenu":      compendiumContextMenu,
		"activateListeners": compendiumActivateListeners,
		"load":              compendiumLoad,
	}); err != nil {
		return err
	}

	modules := host.NewClass("ModuleManagement", application)
	modProto, _ := host.PrototypeOf(modules)

	if err := defineScripts(compiler, modProto, map[string]string{"activateListeners": moduleActivateListeners}); err != nil {
		return err
	}

	for name, value := range map[string]any{
		"Hooks":            hooks,
		"ContextMenu":      contextMenu,
		"Application":      application,
		"Compendium":       compendium,
		"ModuleManagement": modules,
	} {
		if err := h.ns.Bind(name, value); err != nil {
			return err
		}
	}

	h.ns.Declare("game", host.NewObject("game", nil))

	return nil
}

func defineNatives(obj *host.Object, fns ...*host.Function) error {
	for _, fn := range fns {
		if err := host.DefineMethod(obj, fn); err != nil {
			return err
		}
	}

	return nil
}

func defineScripts(compiler adapter.ScriptCompiler, obj *host.Object, scripts map[string]string) error {
	names := make([]string, 0, len(scripts))
	for name := range scripts {
		names = append(names, name)
	}

	slices.Sort(names)

	for _, name := range names {
		fn, err := compiler.Compile(name, scripts[name])
		if err != nil {
			return fmt.Errorf("%s.%s: %w", obj.Name(), name, err)
		}

		if err := host.DefineMethod(obj, fn); err != nil {
			return err
		}
	}

	return nil
}

func (h *Host) hooksOn(_ any, args ...any) (any, error) {
	if len(args) < 2 {
		return nil, errors.New("hooks on: want event name and listener")
	}

	name, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("hooks on: event name is %T", args[0])
	}

	fn, ok := args[1].(*host.Function)
	if !ok {
		return nil, fmt.Errorf("hooks on: listener is %T: %w", args[1], host.ErrNotCallable)
	}

	h.mu.Lock()
	h.listeners[name] = append(h.listeners[name], fn)
	h.mu.Unlock()

	return nil, nil
}

func (h *Host) hooksCall(_ any, args ...any) (any, error) {
	if len(args) == 0 {
		return nil, errors.New("hooks call: missing event name")
	}

	name, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("hooks call: event name is %T", args[0])
	}

	h.mu.Lock()
	h.events = append(h.events, Event{Name: name, Args: slices.Clone(args[1:])})
	listeners := slices.Clone(h.listeners[name])
	h.mu.Unlock()

	for _, fn := range listeners {
		if _, err := fn.Call(nil, args[1:]...); err != nil {
			return false, fmt.Errorf("hook %s: %w", name, err)
		}
	}

	return true, nil
}

// createMenu implements ContextMenu.create(app, html, selector, options).
func (h *Host) createMenu(_ any, args ...any) (any, error) {
	if len(args) < 4 {
		return nil, errors.New("context menu: want app, html, selector and options")
	}

	menu := Menu{HTML: args[1]}

	if app, ok := args[0].(*host.Object); ok {
		menu.Owner = app.Name()
	}

	menu.Selector, _ = args[2].(string)
	menu.Options, _ = args[3].([]any)

	h.mu.Lock()
	h.menus = append(h.menus, menu)
	h.mu.Unlock()

	return menu, nil
}
