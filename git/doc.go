// Package git reads cookbook snapshots out of git repositories.
//
// It is a thin facade over go-git that works exclusively through the fs
// abstraction, so the same code serves an on-disk checkout and a remote
// repository cloned into memory.
//
// # Opening repositories
//
//	repo, err := git.Open(ctx, &git.Options{FS: billyfs.NewOSFS(root)})
//
//	repo, err := git.Clone(ctx, "https://git.example.com/cookbooks/apache2.git", &git.Options{
//	    FS:     billyfs.NewInMemoryFS(),
//	    Bare:   true,
//	    Branch: "master",
//	    Auth:   git.NewAuthProvider(git.AuthConfig{Token: token}),
//	})
//
// # Snapshots
//
// A Snapshot exposes the head tree and the commit history of a repository
// as checksum trees, optionally scoped to the cookbook's directory inside
// the repository:
//
//	loc, err := git.Locate(osfs, []string{"/srv/chef/cookbooks"}, "apache2")
//	snap := git.NewSnapshot("local", loc.Root, git.OpenAt(git.Options{FS: billyfs.NewOSFS(loc.Root)}),
//	    git.WithSubpath(loc.Subpath))
//	head, err := snap.Head(ctx)
//	history, err := snap.History(ctx)
//
// History implements search.History and yields commits newest first.
//
// # Errors
//
// Sentinel errors such as ErrNotRepository and ErrPathMissing can be
// checked with errors.Is. Snapshot methods additionally tag failures with
// the SNAPSHOT_UNAVAILABLE error code.
package git
