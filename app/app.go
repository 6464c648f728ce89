// Package app is the command layer: one App owns one document and
// exposes every operation a client can invoke, independent of the
// transport carrying them. Reads run against retained snapshots so a
// long search never blocks edits, and edits copy the tree first when
// a snapshot is still alive.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/snappyview/snappy/clipboard"
	"github.com/snappyview/snappy/config"
	"github.com/snappyview/snappy/doc"
	"github.com/snappyview/snappy/encode"
	"github.com/snappyview/snappy/ir"
	"github.com/snappyview/snappy/loader"
	"github.com/snappyview/snappy/mutate"
	"github.com/snappyview/snappy/query"
	"github.com/snappyview/snappy/search"
	"github.com/snappyview/snappy/tree"
)

// ErrNoDocument is returned by every operation that needs a loaded
// document when none is.
var ErrNoDocument = errors.New("no document loaded")

// Config holds the runtime specification for one App.
type Config struct {
	Workers         int
	QueueSize       int
	InitialChildren int

	Events    EventSink
	Clipboard clipboard.Clipboard
	Store     *config.Store
	Log       *slog.Logger
}

func (c *Config) setDefaults() {
	if c.InitialChildren <= 0 {
		c.InitialChildren = 100
	}
	if c.Events == nil {
		c.Events = NullSink{}
	}
	if c.Clipboard == nil {
		c.Clipboard = clipboard.System()
	}
	if c.Log == nil {
		c.Log = slog.Default()
	}
}

// App holds one document and serves commands against it.
type App struct {
	cfg    Config
	log    *slog.Logger
	pool   *Pool
	events EventSink
	clip   clipboard.Clipboard
	store  *config.Store

	mu   sync.RWMutex
	doc  *doc.Document
	path string

	cancelParse atomic.Bool
	searchSeq   atomic.Uint64
}

func New(cfg *Config) *App {
	if cfg == nil {
		cfg = &Config{}
	}
	c := *cfg
	c.setDefaults()
	a := &App{
		cfg:    c,
		log:    c.Log,
		pool:   NewPool(c.Workers, c.QueueSize),
		events: c.Events,
		clip:   c.Clipboard,
		store:  c.Store,
	}
	a.pool.Start()
	return a
}

// Close shuts down the worker pool after in-flight tasks drain.
func (a *App) Close(ctx context.Context) error {
	return a.pool.Stop(ctx)
}

// OpenResult is the answer to any document-opening command.
type OpenResult struct {
	Path          string      `json:"path"`
	Root          tree.Node   `json:"root"`
	Children      []tree.Node `json:"children"`
	TotalChildren int         `json:"total_children"`
}

// ChildrenResult is one page of a node's children.
type ChildrenResult struct {
	Children []tree.Node `json:"children"`
	Total    int         `json:"total"`
}

// snapshot retains the current document for a read that runs outside
// the lock. The caller must Release it.
func (a *App) snapshot() (*doc.Document, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.doc == nil {
		return nil, ErrNoDocument
	}
	return a.doc.Retain(), nil
}

func (a *App) install(root *ir.Node, path string) {
	a.mu.Lock()
	old := a.doc
	a.doc = doc.New(root)
	a.path = path
	a.mu.Unlock()
	if old != nil {
		old.Release()
	}
}

func (a *App) openResult() OpenResult {
	a.mu.RLock()
	defer a.mu.RUnlock()
	root := a.doc.Root()
	return OpenResult{
		Path:          a.path,
		Root:          tree.ForPointer(root, ""),
		Children:      tree.Children(root, "", 0, a.cfg.InitialChildren),
		TotalChildren: len(root.Values),
	}
}

// runLoad executes one parse on the worker pool, streaming progress
// events, and waits for the outcome.
func (a *App) runLoad(load func(*atomic.Bool, loader.ProgressFunc) (*ir.Node, error)) (*ir.Node, error) {
	type outcome struct {
		root *ir.Node
		err  error
	}
	ch := make(chan outcome, 1)
	emit := func(p loader.Progress) { a.events.Emit(EventParseProgress, p) }
	if err := a.pool.Submit(func() {
		root, err := load(&a.cancelParse, emit)
		ch <- outcome{root, err}
	}); err != nil {
		return nil, err
	}
	out := <-ch
	return out.root, out.err
}

// OpenFile loads and installs the JSON or YAML document at path. A
// canceled or failed load leaves any previously open document in
// place.
func (a *App) OpenFile(path string) (OpenResult, error) {
	a.cancelParse.Store(false)
	root, err := a.runLoad(func(cancel *atomic.Bool, emit loader.ProgressFunc) (*ir.Node, error) {
		return loader.LoadFile(path, cancel, emit)
	})
	if err != nil {
		return OpenResult{}, err
	}
	a.install(root, path)
	if a.store != nil {
		if err := a.store.Save(path); err != nil {
			a.log.Warn("could not persist last opened file", "error", err)
		}
	}
	a.log.Info("document opened", "path", path, "children", len(root.Values))
	return a.openResult(), nil
}

// OpenText parses text as a JSON document and installs it.
func (a *App) OpenText(text string) (OpenResult, error) {
	root, err := loader.LoadText(text)
	if err != nil {
		return OpenResult{}, err
	}
	a.install(root, "")
	return a.openResult(), nil
}

// OpenClipboard installs the clipboard contents as the document.
func (a *App) OpenClipboard() (OpenResult, error) {
	text, err := a.clip.ReadText()
	if err != nil {
		return OpenResult{}, fmt.Errorf("reading clipboard: %w", err)
	}
	return a.OpenText(text)
}

// CancelParse requests that an in-flight load stop at its next read.
// It is a no-op when nothing is loading.
func (a *App) CancelParse() {
	a.cancelParse.Store(true)
}

// LoadChildren returns one page of children of the node at pointer.
func (a *App) LoadChildren(pointer string, offset, limit int) (ChildrenResult, error) {
	snap, err := a.snapshot()
	if err != nil {
		return ChildrenResult{}, err
	}
	defer snap.Release()
	root := snap.Root()
	target, ok := ir.Resolve(root, pointer)
	if !ok {
		target = root
	}
	return ChildrenResult{
		Children: tree.Children(root, pointer, offset, limit),
		Total:    len(target.Values),
	}, nil
}

// Node re-projects the node at pointer.
func (a *App) Node(pointer string) (tree.Node, error) {
	snap, err := a.snapshot()
	if err != nil {
		return tree.Node{}, err
	}
	defer snap.Release()
	return tree.BuildNode(snap.Root(), pointer)
}

// Search runs a bulk search on a document snapshot and returns one
// page of results. The snapshot keeps the search consistent even if
// an edit lands while it runs.
func (a *App) Search(q string, f search.Flags, offset, limit int) (search.Response, error) {
	snap, err := a.snapshot()
	if err != nil {
		return search.Response{}, err
	}
	ch := make(chan search.Response, 1)
	if err := a.pool.Submit(func() {
		defer snap.Release()
		ch <- search.Bulk(snap.Root(), q, f, offset, limit)
	}); err != nil {
		snap.Release()
		return search.Response{}, err
	}
	return <-ch, nil
}

// SearchStream starts a background streaming search and returns its
// id. Results arrive as EventSearchBatch payloads and one
// EventSearchDone. Streams run to completion; a newer stream does not
// stop an older one.
func (a *App) SearchStream(q string, f search.Flags) (uint64, error) {
	if search.EmptyQuery(q) {
		return 0, errors.New("empty search query")
	}
	snap, err := a.snapshot()
	if err != nil {
		return 0, err
	}
	id := a.searchSeq.Add(1)
	if err := a.pool.Submit(func() {
		defer snap.Release()
		search.Stream(snap.Root(), id, q, f,
			func(b search.Batch) { a.events.Emit(EventSearchBatch, b) },
			func(d search.Done) { a.events.Emit(EventSearchDone, d) })
	}); err != nil {
		snap.Release()
		return 0, err
	}
	return id, nil
}

// GetNodeValue pretty prints the subtree at pointer.
func (a *App) GetNodeValue(pointer string) (string, error) {
	snap, err := a.snapshot()
	if err != nil {
		return "", err
	}
	defer snap.Release()
	v, ok := ir.Resolve(snap.Root(), pointer)
	if !ok {
		return "", tree.ErrInvalidPointer
	}
	out, err := encode.MarshalIndent(v, "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// CopyNodeValue puts the pretty printed subtree at pointer on the
// clipboard.
func (a *App) CopyNodeValue(pointer string) error {
	text, err := a.GetNodeValue(pointer)
	if err != nil {
		return err
	}
	if err := a.clip.WriteText(text); err != nil {
		return fmt.Errorf("writing clipboard: %w", err)
	}
	return nil
}

// edit runs fn on a writable tree. When snapshots still hold the
// current document the tree is cloned first, so a failing edit or a
// concurrent reader never sees partial state.
func (a *App) edit(fn func(root *ir.Node) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.doc == nil {
		return ErrNoDocument
	}
	d := a.doc.ForWrite()
	if err := fn(d.Root()); err != nil {
		if d != a.doc {
			d.Release()
		}
		return err
	}
	if d != a.doc {
		a.doc.Release()
		a.doc = d
	}
	return nil
}

// SetNodeValue replaces the scalar at pointer, keeping its kind, and
// returns the refreshed node.
func (a *App) SetNodeValue(pointer, newText string) (tree.Node, error) {
	if err := a.edit(func(root *ir.Node) error {
		return mutate.SetScalar(root, pointer, newText)
	}); err != nil {
		return tree.Node{}, err
	}
	return a.Node(pointer)
}

// SetSubtree replaces the object or array at pointer with re-parsed
// JSON text of the same kind.
func (a *App) SetSubtree(pointer, newJSONText string) (tree.Node, error) {
	if err := a.edit(func(root *ir.Node) error {
		return mutate.SetSubtree(root, pointer, newJSONText)
	}); err != nil {
		return tree.Node{}, err
	}
	return a.Node(pointer)
}

// ParseStringifiedJSON promotes the string at pointer to the object
// or array embedded in it.
func (a *App) ParseStringifiedJSON(pointer string) (tree.Node, error) {
	if err := a.edit(func(root *ir.Node) error {
		return mutate.PromoteString(root, pointer)
	}); err != nil {
		return tree.Node{}, err
	}
	return a.Node(pointer)
}

// ApplyPatch applies an RFC 6902 patch to the document and installs
// the patched tree.
func (a *App) ApplyPatch(patchJSON []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.doc == nil {
		return ErrNoDocument
	}
	patched, err := mutate.ApplyPatch(a.doc.Root(), patchJSON)
	if err != nil {
		return err
	}
	old := a.doc
	a.doc = doc.New(patched)
	old.Release()
	return nil
}

// DiffSubtree previews the edit of the subtree at pointer to
// newJSONText without applying it.
func (a *App) DiffSubtree(pointer, newJSONText string) (string, error) {
	snap, err := a.snapshot()
	if err != nil {
		return "", err
	}
	defer snap.Release()
	current, ok := ir.Resolve(snap.Root(), pointer)
	if !ok {
		return "", tree.ErrInvalidPointer
	}
	next, err := loader.LoadText(newJSONText)
	if err != nil {
		return "", err
	}
	return mutate.DiffPreview(current, next)
}

// QueryJSONPath evaluates a JSONPath expression against the document
// and returns the matched values as a JSON array.
func (a *App) QueryJSONPath(expression string) ([]byte, error) {
	snap, err := a.snapshot()
	if err != nil {
		return nil, err
	}
	defer snap.Release()
	return query.JSONPath(snap.Root(), expression)
}

// FilterChildren pages through the children of the node at pointer
// that satisfy a boolean expression.
func (a *App) FilterChildren(pointer, expression string, offset, limit int) (ChildrenResult, error) {
	snap, err := a.snapshot()
	if err != nil {
		return ChildrenResult{}, err
	}
	defer snap.Release()
	nodes, total, err := query.FilterChildren(snap.Root(), pointer, expression, offset, limit)
	if err != nil {
		return ChildrenResult{}, err
	}
	return ChildrenResult{Children: nodes, Total: total}, nil
}

// Stats summarizes the open document.
type Stats struct {
	Path       string         `json:"path"`
	TotalNodes int            `json:"total_nodes"`
	ByType     map[string]int `json:"by_type"`
	MaxDepth   int            `json:"max_depth"`
}

// DocumentStats walks the document once and counts nodes by type.
func (a *App) DocumentStats() (Stats, error) {
	snap, err := a.snapshot()
	if err != nil {
		return Stats{}, err
	}
	defer snap.Release()

	a.mu.RLock()
	path := a.path
	a.mu.RUnlock()

	s := Stats{Path: path, ByType: make(map[string]int)}
	var walk func(v *ir.Node, depth int)
	walk = func(v *ir.Node, depth int) {
		s.TotalNodes++
		s.ByType[v.Type.String()]++
		if depth > s.MaxDepth {
			s.MaxDepth = depth
		}
		for _, child := range v.Values {
			walk(child, depth+1)
		}
	}
	walk(snap.Root(), 0)
	return s, nil
}

var errNoStore = errors.New("no state store configured")

// SaveLastFile persists path as the last opened file.
func (a *App) SaveLastFile(path string) error {
	if a.store == nil {
		return errNoStore
	}
	return a.store.Save(path)
}

// LastFile returns the persisted last opened file path.
func (a *App) LastFile() (string, error) {
	if a.store == nil {
		return "", errNoStore
	}
	return a.store.Load()
}

// OpenLastFile re-opens the persisted last opened file.
func (a *App) OpenLastFile() (OpenResult, error) {
	path, err := a.LastFile()
	if err != nil {
		return OpenResult{}, err
	}
	return a.OpenFile(path)
}

// ClearLastFile forgets the persisted last opened file.
func (a *App) ClearLastFile() error {
	if a.store == nil {
		return errNoStore
	}
	return a.store.Clear()
}
