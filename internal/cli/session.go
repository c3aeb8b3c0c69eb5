package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/pgext/internal/catalog"
	"github.com/roach88/pgext/internal/extensions"
	"github.com/roach88/pgext/internal/hookchain"
	"github.com/roach88/pgext/internal/host"
)

// SessionOptions are the flags shared by commands that start a host.
type SessionOptions struct {
	Catalog    string
	Extensions []string // catalog names; dependencies are added
	Database   string   // SQLite file; empty means in-memory
	Seed       string   // SQL file run before loading extensions
}

func (o *SessionOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Catalog, "catalog", catalog.DefaultFile, "path to the extension catalog")
	cmd.Flags().StringSliceVar(&o.Extensions, "ext", nil, "extensions to load (comma separated)")
	cmd.Flags().StringVar(&o.Database, "db", "", "database file (default in-memory)")
	cmd.Flags().StringVar(&o.Seed, "seed", "", "SQL file to run before loading extensions")
}

// session is one in-process host with the resolved extensions loaded.
type session struct {
	host    *host.Host
	manager *hookchain.Manager
	rec     *extensions.Recorder
	plugins []catalog.Plugin
}

// openSession resolves, builds and loads the requested extensions into a
// new host. Failures are reported through out. The caller closes the
// returned session.
func openSession(ctx context.Context, out *OutputFormatter, opts *SessionOptions) (*session, error) {
	var plugins []catalog.Plugin
	if len(opts.Extensions) > 0 {
		cat, err := loadCatalog(out, opts.Catalog)
		if err != nil {
			return nil, err
		}
		resolved, err := cat.Resolve(opts.Extensions...)
		if err != nil {
			return nil, out.Fail(ExitCommandError, ErrCodeCatalog, err)
		}
		plugins = catalog.SessionOrder(resolved)
	}

	s := &session{rec: extensions.NewRecorder(nil), plugins: plugins}
	exts, err := catalog.Build(plugins, s.rec)
	if err != nil {
		return nil, out.Fail(ExitCommandError, ErrCodeExtension, err)
	}
	for i, ext := range exts {
		exts[i] = hookchain.Wrap(ext)
	}

	path := opts.Database
	if path == "" {
		path = host.MemoryPath
	}
	storage, err := host.Open(path)
	if err != nil {
		return nil, out.Fail(ExitCommandError, ErrCodeGeneric, err)
	}
	s.host = host.New(storage)
	s.manager = hookchain.For(s.host)

	if opts.Seed != "" {
		data, err := os.ReadFile(opts.Seed)
		if err != nil {
			s.Close()
			return nil, out.Fail(ExitCommandError, ErrCodeNotFound, err)
		}
		if _, err := storage.Exec(ctx, string(data)); err != nil {
			s.Close()
			return nil, out.Fail(ExitCommandError, ErrCodeQuery, fmt.Errorf("seed %s: %w", opts.Seed, err))
		}
	}

	if err := loadExtensions(ctx, s.host, exts); err != nil {
		s.Close()
		code := ErrCodeExtension
		var fatal *hookchain.FatalError
		if errors.As(err, &fatal) {
			code = ErrCodeRegistration
		}
		return nil, out.Fail(ExitFailure, code, err)
	}
	out.VerboseLog("loaded %v", s.host.Loaded())
	return s, nil
}

// loadExtensions loads exts, turning a fatal registration panic into an
// error.
func loadExtensions(ctx context.Context, h *host.Host, exts []host.Extension) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fatal, ok := r.(*hookchain.FatalError)
			if !ok {
				panic(r)
			}
			err = fatal
		}
	}()
	return h.Load(ctx, exts...)
}

// Close releases the session's host.
func (s *session) Close() error {
	return s.host.Close()
}

// SessionState is the hook-chain state of a session.
type SessionState struct {
	Loaded []string                `json:"loaded"`
	Owners []hookchain.OwnerStatus `json:"owners"`
	Chains []hookchain.ChainEntry  `json:"chains"`
	Slots  []host.SlotInfo         `json:"slots"`
}

func (s *session) state() SessionState {
	return SessionState{
		Loaded: s.host.Loaded(),
		Owners: s.manager.Owners(),
		Chains: s.manager.Chains(),
		Slots:  s.host.ShowHooks(),
	}
}
