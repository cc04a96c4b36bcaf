package liftoff

import (
	"context"
	"reflect"
	"strings"
	"sync"
)

// Kind is the set of checkpoints a fairing participates in.
type Kind uint8

const (
	// Finalize fairings run sequentially during Finalize and may abort it.
	Finalize Kind = 1 << iota
	// Liftoff fairings run concurrently right before serving starts.
	Liftoff
	// Shutdown fairings run concurrently when shutdown starts.
	Shutdown
	// Singleton fairings replace an attached fairing of the same type.
	Singleton
)

// Is reports whether every bit of other is set in k.
func (k Kind) Is(other Kind) bool { return k&other == other }

func (k Kind) String() string {
	var parts []string
	for _, p := range []struct {
		bit  Kind
		name string
	}{{Finalize, "finalize"}, {Liftoff, "liftoff"}, {Shutdown, "shutdown"}, {Singleton, "singleton"}} {
		if k.Is(p.bit) {
			parts = append(parts, p.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Info describes a fairing.
type Info struct {
	Name string
	Kind Kind
}

// Fairing is a lifecycle hook. A fairing declares its checkpoints in Info and
// implements the matching hook interfaces: FinalizeHook, LiftoffHook and
// ShutdownHook. A checkpoint declared without its interface is skipped.
type Fairing interface {
	Info() Info
}

// FinalizeHook runs during Finalize in attach order. It may mutate the
// instance, including attaching more fairings which then run in the same
// pass. A non-nil error aborts finalization.
type FinalizeHook interface {
	OnFinalize(ctx context.Context, b *Building) error
}

// LiftoffHook runs once the endpoints are bound, before serving begins. All
// liftoff hooks complete before any request is served. A hook that starts
// background work must hold a reference from (*Orbiting).Retain.
type LiftoffHook interface {
	OnLiftoff(ctx context.Context, o *Orbiting)
}

// ShutdownHook runs when shutdown starts, concurrently with connection
// draining. ctx is cancelled when the mercy period ends.
type ShutdownHook interface {
	OnShutdown(ctx context.Context, o *Orbiting)
}

type fairingEntry struct {
	fairing Fairing
	info    Info
	active  bool
}

// fairings is the attach-ordered pipeline. Entries are never removed so that
// the finalize pass can keep its position while fairings are attached;
// replaced singletons are only deactivated.
type fairings struct {
	mu      sync.Mutex
	entries []*fairingEntry
}

func newFairings() *fairings {
	return &fairings{}
}

// add appends f and returns the fairing it replaced, if any.
func (fs *fairings) add(f Fairing) Fairing {
	info := f.Info()

	fs.mu.Lock()
	defer fs.mu.Unlock()

	var replaced Fairing
	if info.Kind.Is(Singleton) {
		id := identity(f)
		for _, e := range fs.entries {
			if e.active && e.info.Kind.Is(Singleton) && identity(e.fairing) == id {
				e.active = false
				replaced = e.fairing
			}
		}
	}
	fs.entries = append(fs.entries, &fairingEntry{fairing: f, info: info, active: true})
	return replaced
}

type adHocName string

// identity is the singleton key of f: its dynamic type, or its name for
// ad-hoc fairings, which all share one type.
func identity(f Fairing) any {
	if a, ok := f.(*AdHoc); ok {
		return adHocName(a.name)
	}
	return reflect.TypeOf(f)
}

// at returns the entry at i, or false when i is past the end.
func (fs *fairings) at(i int) (*fairingEntry, bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if i >= len(fs.entries) {
		return nil, false
	}
	e := *fs.entries[i]
	return &e, true
}

func (fs *fairings) active() []Fairing {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	out := make([]Fairing, 0, len(fs.entries))
	for _, e := range fs.entries {
		if e.active {
			out = append(out, e.fairing)
		}
	}
	return out
}

func (fs *fairings) activeEntries() []fairingEntry {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	out := make([]fairingEntry, 0, len(fs.entries))
	for _, e := range fs.entries {
		if e.active {
			out = append(out, *e)
		}
	}
	return out
}

// audit returns every pair of active non-singleton fairings that share a
// name but declare different kinds.
func (fs *fairings) audit() [][2]Info {
	entries := fs.activeEntries()
	var conflicts [][2]Info
	for i := range entries {
		a := entries[i].info
		if a.Kind.Is(Singleton) {
			continue
		}
		for j := i + 1; j < len(entries); j++ {
			b := entries[j].info
			if b.Kind.Is(Singleton) || a.Name != b.Name {
				continue
			}
			if a.Kind != b.Kind {
				conflicts = append(conflicts, [2]Info{a, b})
			}
		}
	}
	return conflicts
}

func (fs *fairings) summary() []string {
	entries := fs.activeEntries()
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.info.Name+" ("+e.info.Kind.String()+")")
	}
	return out
}

// AdHoc is a fairing built from a function.
type AdHoc struct {
	name       string
	kind       Kind
	onFinalize func(context.Context, *Building) error
	onLiftoff  func(context.Context, *Orbiting)
	onShutdown func(context.Context, *Orbiting)
}

func (a *AdHoc) Info() Info { return Info{Name: a.name, Kind: a.kind} }

func (a *AdHoc) OnFinalize(ctx context.Context, b *Building) error {
	if a.onFinalize == nil {
		return nil
	}
	return a.onFinalize(ctx, b)
}

func (a *AdHoc) OnLiftoff(ctx context.Context, o *Orbiting) {
	if a.onLiftoff != nil {
		a.onLiftoff(ctx, o)
	}
}

func (a *AdHoc) OnShutdown(ctx context.Context, o *Orbiting) {
	if a.onShutdown != nil {
		a.onShutdown(ctx, o)
	}
}

// OnFinalize creates a finalize fairing from fn.
func OnFinalize(name string, fn func(ctx context.Context, b *Building) error) *AdHoc {
	return &AdHoc{name: name, kind: Finalize, onFinalize: fn}
}

// OnLiftoff creates a liftoff fairing from fn.
func OnLiftoff(name string, fn func(ctx context.Context, o *Orbiting)) *AdHoc {
	return &AdHoc{name: name, kind: Liftoff, onLiftoff: fn}
}

// OnShutdown creates a shutdown fairing from fn.
func OnShutdown(name string, fn func(ctx context.Context, o *Orbiting)) *AdHoc {
	return &AdHoc{name: name, kind: Shutdown, onShutdown: fn}
}

// AsSingleton marks f as a singleton: attaching another singleton ad-hoc
// fairing with the same name replaces it.
func AsSingleton(f *AdHoc) *AdHoc {
	out := *f
	out.kind |= Singleton
	return &out
}
