// Package cli implements the cookbook-status command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/input-output-hk/cookbook-status/compare"
	"github.com/input-output-hk/cookbook-status/config"
	"github.com/input-output-hk/cookbook-status/errors"
	"github.com/input-output-hk/cookbook-status/fs"
	fsb "github.com/input-output-hk/cookbook-status/fs/billy"
	"github.com/input-output-hk/cookbook-status/git"
	"github.com/input-output-hk/cookbook-status/manifest"
	"github.com/input-output-hk/cookbook-status/registry"
	"github.com/input-output-hk/cookbook-status/report"
	"github.com/input-output-hk/cookbook-status/search"
)

// Env is what the command reads from and writes to.
type Env struct {
	Stdout io.Writer
	Stderr io.Writer

	// FS resolves configuration, key and cookbook paths. Defaults to the
	// host filesystem.
	FS fs.Filesystem

	// HTTPClient talks to the Chef server. Defaults to the registry's
	// retrying client.
	HTTPClient registry.Doer
}

type statusOpts struct {
	env Env

	configPath   string
	cookbookPath string
	remote       bool
	gitURL       string
	gitBranch    string
	searchCommit bool
	checksums    bool
	threeway     bool
	withURI      bool
	serverURL    string
	user         string
	key          string
	maxRevisions int
	worktree     bool
	ignore       []string
	noProgress   bool
	verbose      bool
}

// NewCommand returns the cookbook-status root command.
func NewCommand(env Env) *cobra.Command {
	if env.Stdout == nil {
		env.Stdout = os.Stdout
	}
	if env.Stderr == nil {
		env.Stderr = os.Stderr
	}
	if env.FS == nil {
		env.FS = fsb.NewNativeFS()
	}
	return (&statusOpts{env: env}).Command()
}

func (opts *statusOpts) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cookbook-status COOKBOOK [VERSION]",
		Short: "Compare a cookbook on the Chef server with its git repositories.",
		Long: `Compare the files of a cookbook version uploaded to the Chef server with
the local cookbook repository, the remote one, or both. On a mismatch the
repository history can be searched for the revision that was uploaded.`,
		Example: strings.Join([]string{
			"  cookbook-status apache2",
			"  cookbook-status apache2 1.2.0 -m -r",
			"  cookbook-status apache2 --threeway -U https://git.example.com/cookbooks",
		}, "\n"),
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          opts.RunE,
	}
	cmd.SetOut(opts.env.Stdout)
	cmd.SetErr(opts.env.Stderr)

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "configuration file (default $XDG_CONFIG_HOME/cookbook-status/config.yaml)")
	f.StringVarP(&opts.cookbookPath, "cookbook-path", "o", "", "colon-separated list of directories to look for cookbooks in")
	f.BoolVarP(&opts.remote, "remote", "g", false, "compare against the remote repository instead of the local one")
	f.BoolVar(&opts.remote, "gitorious", false, "alias for --remote")
	_ = f.MarkHidden("gitorious")
	f.StringVarP(&opts.gitURL, "git-url", "U", "", "base URL under which the cookbook repositories are")
	f.StringVar(&opts.gitBranch, "git-branch", "", "branch cloned from the remote repository")
	f.BoolVarP(&opts.searchCommit, "search-matching-revision", "r", false, "search the history for the revision matching the server version")
	f.BoolVarP(&opts.checksums, "md5sums", "m", false, "print the checksums of mismatching files")
	f.BoolVarP(&opts.threeway, "threeway", "t", false, "compare the server version with both the remote and local repositories")
	f.BoolVarP(&opts.withURI, "with-uri", "w", false, "add the server URL of each mismatching file to the checksum table")
	f.StringVar(&opts.serverURL, "server-url", "", "Chef server URL")
	f.StringVar(&opts.user, "user", "", "API client name used to sign requests")
	f.StringVar(&opts.key, "key", "", "private key of the API client")
	f.IntVar(&opts.maxRevisions, "max-revisions", 0, "examine at most this many revisions when searching")
	f.BoolVar(&opts.worktree, "worktree", false, "read the local cookbook from disk instead of the HEAD commit")
	f.StringSliceVar(&opts.ignore, "ignore", nil, "additional paths or glob patterns to leave out of the comparison")
	f.BoolVar(&opts.noProgress, "no-progress", false, "do not show search progress")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output to stderr")
	return cmd
}

func (opts *statusOpts) mode() compare.Mode {
	switch {
	case opts.threeway:
		return compare.ModeThreeway
	case opts.remote:
		return compare.ModeRemote
	default:
		return compare.ModeLocal
	}
}

func (opts *statusOpts) logger() *slog.Logger {
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(opts.env.Stderr, &slog.HandlerOptions{Level: level}))
}

func (opts *statusOpts) RunE(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.logger()

	name := args[0]
	version := ""
	if len(args) == 2 {
		version = args[1]
	}
	version, err := registry.NormalizeVersion(version)
	if err != nil {
		return err
	}

	cfg, err := opts.loadConfig(ctx)
	if err != nil {
		return err
	}
	mode := opts.mode()
	if err := cfg.ValidateFor(requirements(mode)); err != nil {
		return err
	}
	ignore, err := cfg.IgnoreSet()
	if err != nil {
		return err
	}

	m, err := opts.fetch(ctx, cfg, name, version, logger)
	if err != nil {
		return err
	}
	target, err := (&manifest.Adapter{Categories: cfg.CategoryList()}).ToChecksumMap(m)
	if err != nil {
		return err
	}
	logger.Debug("fetched server manifest", "cookbook", name, "version", m.Version, "files", len(target))

	compareOpts := []compare.Option{
		compare.WithIgnore(ignore),
		compare.WithSearch(opts.searchCommit),
		compare.WithLogger(logger),
	}
	if !opts.noProgress {
		compareOpts = append(compareOpts, compare.WithProgress(func(s compare.Snapshot) search.Progress {
			return newBarProgress(opts.env.Stderr, s.Label(), cfg.MaxRevisions)
		}))
	}
	if mode != compare.ModeRemote {
		local, err := opts.localSnapshot(cfg, name, logger)
		if err != nil {
			return err
		}
		compareOpts = append(compareOpts, compare.WithLocal(local))
	}
	if mode != compare.ModeLocal {
		remote, err := remoteSnapshot(cfg, name, logger)
		if err != nil {
			return err
		}
		compareOpts = append(compareOpts, compare.WithRemote(remote))
	}

	results, compareErr := compare.New(compareOpts...).Compare(ctx, mode, target)

	w := report.NewWriter(opts.env.Stdout, opts.checksums, report.TableOptions{
		SourceHeader: "Repository checksum",
		WithURI:      opts.withURI,
		URLs:         m.URLs(),
	})
	if err := w.Write(name, m.Version, results); err != nil {
		return err
	}
	if compareErr != nil {
		return compareErr
	}
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

func requirements(mode compare.Mode) config.Requirement {
	switch mode {
	case compare.ModeRemote:
		return config.NeedServer | config.NeedGitURL
	case compare.ModeThreeway:
		return config.NeedServer | config.NeedGitURL | config.NeedCookbookPath
	default:
		return config.NeedServer | config.NeedCookbookPath
	}
}

func (opts *statusOpts) loadConfig(ctx context.Context) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.Load(ctx, opts.env.FS, opts.configPath)
	} else {
		cfg, err = config.LoadDefault(ctx, opts.env.FS)
	}
	if err != nil {
		return nil, err
	}

	cfg.Merge(config.Overrides{
		ChefServerURL: opts.serverURL,
		NodeName:      opts.user,
		ClientKey:     opts.key,
		CookbookPath:  config.SplitPathList(opts.cookbookPath),
		GitURL:        opts.gitURL,
		GitBranch:     opts.gitBranch,
		Ignore:        opts.ignore,
		MaxRevisions:  opts.maxRevisions,
	})
	cfg.ExpandPaths()
	return cfg, nil
}

func (opts *statusOpts) fetch(ctx context.Context, cfg *config.Config, name, version string, logger *slog.Logger) (*manifest.Manifest, error) {
	key, err := registry.LoadKey(opts.env.FS, cfg.ClientKey)
	if err != nil {
		return nil, err
	}
	client, err := registry.New(registry.Options{
		ServerURL:  cfg.ChefServerURL,
		ClientName: cfg.NodeName,
		Key:        key,
		HTTPClient: opts.env.HTTPClient,
		Categories: cfg.CategoryList(),
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}
	return client.CookbookVersion(ctx, name, version)
}

func (opts *statusOpts) localSnapshot(cfg *config.Config, name string, logger *slog.Logger) (*git.Snapshot, error) {
	paths := make([]string, 0, len(cfg.CookbookPath))
	for _, p := range cfg.CookbookPath {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, errors.WrapWithContext(err, errors.CodeInvalidConfig,
				"invalid cookbook path", map[string]interface{}{"path": p})
		}
		paths = append(paths, abs)
	}

	loc, err := git.Locate(opts.env.FS, paths, name)
	if err != nil {
		return nil, errors.WrapWithContext(err, errors.CodeSnapshotUnavailable,
			fmt.Sprintf("could not find cookbook %s in the cookbook path", name),
			map[string]interface{}{"cookbook_path": strings.Join(paths, string(os.PathListSeparator))})
	}
	logger.Debug("located cookbook", "dir", loc.Dir, "repository", loc.Root, "subpath", loc.Subpath)

	snapOpts := []git.SnapshotOption{
		git.WithSubpath(loc.Subpath),
		git.WithMaxRevisions(cfg.MaxRevisions),
		git.WithLogger(logger),
	}
	if opts.worktree {
		snapOpts = append(snapOpts, git.WithWorkingTree(opts.env.FS, loc.Dir))
	}
	open := git.OpenAt(git.Options{FS: fsb.NewOSFS(loc.Root)})
	return git.NewSnapshot("local", loc.Root, open, snapOpts...), nil
}

func remoteSnapshot(cfg *config.Config, name string, logger *slog.Logger) (*git.Snapshot, error) {
	remoteURL, err := cfg.RemoteURL(name)
	if err != nil {
		return nil, err
	}
	open := git.CloneFrom(remoteURL, git.Options{
		FS:     fsb.NewInMemoryFS(),
		Bare:   true,
		Auth:   git.NewAuthProvider(cfg.AuthConfig()),
		Branch: cfg.GitBranch,
	})
	return git.NewSnapshot("remote", remoteURL, open,
		git.WithMaxRevisions(cfg.MaxRevisions),
		git.WithLogger(logger),
	), nil
}
