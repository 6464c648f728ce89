package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	segjson "github.com/segmentio/encoding/json"
	"go.lsp.dev/jsonrpc2"

	"github.com/snappyview/snappy/app"
	"github.com/snappyview/snappy/search"
)

// Session serves one client connection. Each session owns a private
// App, so concurrent clients browse independent documents. Events
// flow back as JSON-RPC notifications named after the event.
type Session struct {
	ID   string
	app  *app.App
	conn jsonrpc2.Conn
	log  *slog.Logger

	done      chan struct{}
	closeOnce sync.Once
}

// SessionConfig contains configuration for creating a session.
type SessionConfig struct {
	// App is the template configuration for the session's App. Its
	// Events field is replaced with the session's notification sink.
	App app.Config
	Log *slog.Logger
}

// NewSession creates a session for the given connection.
func NewSession(id string, rwc io.ReadWriteCloser, cfg *SessionConfig) *Session {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	s := &Session{
		ID:   id,
		conn: jsonrpc2.NewConn(jsonrpc2.NewStream(rwc)),
		log:  log.With("session", id),
		done: make(chan struct{}),
	}
	appCfg := cfg.App
	appCfg.Log = s.log
	appCfg.Events = app.SinkFunc(func(event string, payload any) {
		if err := s.conn.Notify(context.Background(), event, payload); err != nil {
			s.log.Debug("dropping event", "event", event, "error", err)
		}
	})
	s.app = app.New(&appCfg)
	return s
}

// Run serves requests until the connection closes.
func (s *Session) Run(ctx context.Context) error {
	s.conn.Go(ctx, s.handle)
	select {
	case <-s.conn.Done():
	case <-s.done:
	}
	s.conn.Close()

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.app.Close(stopCtx); err != nil {
		s.log.Debug("closing app", "error", err)
	}
	return s.conn.Err()
}

// Close signals the session to shut down.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
	})
	return nil
}

type openFileArgs struct {
	Path string `json:"path"`
}

type openTextArgs struct {
	Text string `json:"text"`
}

type pointerArgs struct {
	Pointer string `json:"pointer"`
}

type childrenArgs struct {
	Pointer string `json:"pointer"`
	Offset  int    `json:"offset"`
	Limit   int    `json:"limit"`
}

type searchArgs struct {
	Query         string `json:"query"`
	SearchKeys    bool   `json:"search_keys"`
	SearchValues  bool   `json:"search_values"`
	SearchPaths   bool   `json:"search_paths"`
	CaseSensitive bool   `json:"case_sensitive"`
	Regex         bool   `json:"regex"`
	WholeWord     bool   `json:"whole_word"`
	Offset        int    `json:"offset"`
	Limit         int    `json:"limit"`
}

func (a searchArgs) flags() search.Flags {
	return search.Flags{
		Keys:          a.SearchKeys,
		Values:        a.SearchValues,
		Paths:         a.SearchPaths,
		CaseSensitive: a.CaseSensitive,
		Regex:         a.Regex,
		WholeWord:     a.WholeWord,
	}
}

type setValueArgs struct {
	Pointer string `json:"pointer"`
	NewText string `json:"new_text"`
}

type setSubtreeArgs struct {
	Pointer     string `json:"pointer"`
	NewJSONText string `json:"new_json_text"`
}

type patchArgs struct {
	Patch json.RawMessage `json:"patch"`
}

type queryArgs struct {
	Expression string `json:"expression"`
}

type filterArgs struct {
	Pointer    string `json:"pointer"`
	Expression string `json:"expression"`
	Offset     int    `json:"offset"`
	Limit      int    `json:"limit"`
}

func unmarshalParams(req jsonrpc2.Request, v any) error {
	p := req.Params()
	if len(p) == 0 {
		return nil
	}
	if err := segjson.Unmarshal(p, v); err != nil {
		return fmt.Errorf("%w: %s", jsonrpc2.ErrInvalidParams, err)
	}
	return nil
}

// handle dispatches one request. Load and bulk-search commands reply
// from a goroutine so the connection keeps serving, which is what
// lets cancel_parse land while open_file is still reading.
func (s *Session) handle(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	switch req.Method() {
	case "open_file":
		var args openFileArgs
		if err := unmarshalParams(req, &args); err != nil {
			return reply(ctx, nil, err)
		}
		go func() {
			res, err := s.app.OpenFile(args.Path)
			s.replyAsync(ctx, reply, res.Children, err)
		}()
		return nil

	case "open_text":
		var args openTextArgs
		if err := unmarshalParams(req, &args); err != nil {
			return reply(ctx, nil, err)
		}
		res, err := s.app.OpenText(args.Text)
		return reply(ctx, res.Children, err)

	case "open_clipboard":
		res, err := s.app.OpenClipboard()
		return reply(ctx, res.Children, err)

	case "open_last_file":
		go func() {
			res, err := s.app.OpenLastFile()
			s.replyAsync(ctx, reply, res.Children, err)
		}()
		return nil

	case "cancel_parse":
		s.app.CancelParse()
		return reply(ctx, nil, nil)

	case "load_children":
		var args childrenArgs
		if err := unmarshalParams(req, &args); err != nil {
			return reply(ctx, nil, err)
		}
		res, err := s.app.LoadChildren(args.Pointer, args.Offset, args.Limit)
		return reply(ctx, res.Children, err)

	case "search":
		var args searchArgs
		if err := unmarshalParams(req, &args); err != nil {
			return reply(ctx, nil, err)
		}
		go func() {
			resp, err := s.app.Search(args.Query, args.flags(), args.Offset, args.Limit)
			s.replyAsync(ctx, reply, resp, err)
		}()
		return nil

	case "search_stream":
		var args searchArgs
		if err := unmarshalParams(req, &args); err != nil {
			return reply(ctx, nil, err)
		}
		id, err := s.app.SearchStream(args.Query, args.flags())
		return reply(ctx, id, err)

	case "get_node_value":
		var args pointerArgs
		if err := unmarshalParams(req, &args); err != nil {
			return reply(ctx, nil, err)
		}
		text, err := s.app.GetNodeValue(args.Pointer)
		return reply(ctx, text, err)

	case "copy_node_value":
		var args pointerArgs
		if err := unmarshalParams(req, &args); err != nil {
			return reply(ctx, nil, err)
		}
		return reply(ctx, nil, s.app.CopyNodeValue(args.Pointer))

	case "set_node_value":
		var args setValueArgs
		if err := unmarshalParams(req, &args); err != nil {
			return reply(ctx, nil, err)
		}
		n, err := s.app.SetNodeValue(args.Pointer, args.NewText)
		return reply(ctx, n, err)

	case "set_subtree":
		var args setSubtreeArgs
		if err := unmarshalParams(req, &args); err != nil {
			return reply(ctx, nil, err)
		}
		n, err := s.app.SetSubtree(args.Pointer, args.NewJSONText)
		return reply(ctx, n, err)

	case "parse_stringified_json":
		var args pointerArgs
		if err := unmarshalParams(req, &args); err != nil {
			return reply(ctx, nil, err)
		}
		n, err := s.app.ParseStringifiedJSON(args.Pointer)
		return reply(ctx, n, err)

	case "apply_patch":
		var args patchArgs
		if err := unmarshalParams(req, &args); err != nil {
			return reply(ctx, nil, err)
		}
		return reply(ctx, nil, s.app.ApplyPatch(args.Patch))

	case "diff_subtree":
		var args setSubtreeArgs
		if err := unmarshalParams(req, &args); err != nil {
			return reply(ctx, nil, err)
		}
		text, err := s.app.DiffSubtree(args.Pointer, args.NewJSONText)
		return reply(ctx, text, err)

	case "query_jsonpath":
		var args queryArgs
		if err := unmarshalParams(req, &args); err != nil {
			return reply(ctx, nil, err)
		}
		out, err := s.app.QueryJSONPath(args.Expression)
		return reply(ctx, json.RawMessage(out), err)

	case "filter_children":
		var args filterArgs
		if err := unmarshalParams(req, &args); err != nil {
			return reply(ctx, nil, err)
		}
		res, err := s.app.FilterChildren(args.Pointer, args.Expression, args.Offset, args.Limit)
		return reply(ctx, res, err)

	case "document_stats":
		stats, err := s.app.DocumentStats()
		return reply(ctx, stats, err)

	case "save_last_opened_file":
		var args openFileArgs
		if err := unmarshalParams(req, &args); err != nil {
			return reply(ctx, nil, err)
		}
		return reply(ctx, nil, s.app.SaveLastFile(args.Path))

	case "load_last_opened_file":
		path, err := s.app.LastFile()
		return reply(ctx, path, err)

	case "clear_last_opened_file":
		return reply(ctx, nil, s.app.ClearLastFile())

	default:
		return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
	}
}

func (s *Session) replyAsync(ctx context.Context, reply jsonrpc2.Replier, result any, err error) {
	if err != nil {
		result = nil
	}
	if rerr := reply(ctx, result, err); rerr != nil {
		s.log.Debug("reply failed", "error", rerr)
	}
}
