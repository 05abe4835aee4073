package git

import (
	"context"
	"fmt"

	"github.com/JonathanFeenstra/mob/internal/logx"
)

// defaultURLPattern builds a github ssh URL from an org and git file.
const defaultURLPattern = "git@github.com:%s/%s"

// RemoteSpec describes a remote to add. GitFile defaults to the name
// used by the existing origin remote when empty.
type RemoteSpec struct {
	Name        string
	Org         string
	Key         string // path to a key file, may be empty
	PushDefault bool
	URLPattern  string // two-verb format string, org then git file
	GitFile     string
}

func (s RemoteSpec) url() string {
	pattern := s.URLPattern
	if pattern == "" {
		pattern = defaultURLPattern
	}
	return fmt.Sprintf(pattern, s.Org, s.GitFile)
}

// HasRemote reports whether the named remote exists.
func (r *Repo) HasRemote(ctx context.Context, name string) (bool, error) {
	res, err := r.run(ctx, r.cmd.HasRemote(r.root, name))
	if err != nil {
		return false, err
	}
	return res.Code == 0, nil
}

// RenameRemote renames remote `from` to `to`.
func (r *Repo) RenameRemote(ctx context.Context, from, to string) error {
	_, err := r.run(ctx, r.cmd.RenameRemote(r.root, from, to))
	return err
}

// SetRemotePush sets the push URL of the given remote.
func (r *Repo) SetRemotePush(ctx context.Context, remote, url string) error {
	_, err := r.run(ctx, r.cmd.SetRemotePush(r.root, remote, url))
	return err
}

// AddRemote adds a remote per spec, a no-op if it already exists.
// Optionally records the key file as a remote-specific config value
// and marks the remote as the default for push.
func (r *Repo) AddRemote(ctx context.Context, spec RemoteSpec) error {
	has, err := r.HasRemote(ctx, spec.Name)
	if err != nil {
		return err
	}
	if has {
		return nil
	}

	if spec.GitFile == "" {
		if spec.GitFile, err = r.GitFile(ctx); err != nil {
			return err
		}
	}

	if _, err := r.run(ctx, r.cmd.AddRemote(r.root, spec.Name, spec.url())); err != nil {
		return err
	}

	if spec.PushDefault {
		if err := r.SetConfig(ctx, "remote.pushdefault", spec.Name); err != nil {
			return err
		}
	}

	if spec.Key != "" {
		if err := r.SetConfig(ctx, "remote."+spec.Name+".puttykeyfile", spec.Key); err != nil {
			return err
		}
	}

	return nil
}

// SetOriginAndUpstreamRemotes renames "origin" to "upstream" and adds
// a new "origin" remote for the developer's own fork on the given org.
// When noPushUpstream is set, pushes to "upstream" are disabled; when
// pushDefaultOrigin is set, the new "origin" becomes the default push
// remote.
//
// A no-op when an "upstream" remote already exists, so calling this
// twice never errors and never duplicates remotes.
func (r *Repo) SetOriginAndUpstreamRemotes(ctx context.Context, org, key string, noPushUpstream, pushDefaultOrigin bool) error {
	has, err := r.HasRemote(ctx, "upstream")
	if err != nil {
		return err
	}
	if has {
		logx.FromContext(ctx).Tracef("upstream remote already exists")
		return nil
	}

	// The git file must come from the current origin before the rename
	// makes it unavailable.
	gitFile, err := r.GitFile(ctx)
	if err != nil {
		return err
	}

	if err := r.RenameRemote(ctx, "origin", "upstream"); err != nil {
		return err
	}

	if noPushUpstream {
		if err := r.SetRemotePush(ctx, "upstream", "nopushurl"); err != nil {
			return err
		}
	}

	return r.AddRemote(ctx, RemoteSpec{
		Name:        "origin",
		Org:         org,
		Key:         key,
		PushDefault: pushDefaultOrigin,
		GitFile:     gitFile,
	})
}
