package git

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/JonathanFeenstra/mob/internal/logx"
)

// forEachTS calls f with the root-relative path of every .ts file under
// the working tree. .ts files are machine-generated translation files;
// pushing or diffing them only creates noise.
func (r *Repo) forEachTS(f func(rel string) error) error {
	return filepath.WalkDir(r.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() || !strings.HasSuffix(d.Name(), ".ts") {
			return nil
		}

		rel, err := filepath.Rel(r.root, path)
		if err != nil {
			return err
		}
		return f(rel)
	})
}

// IgnoreTS sets or removes the assume-unchanged index flag on all
// tracked .ts files under the working tree. Untracked files are
// skipped.
func (r *Repo) IgnoreTS(ctx context.Context, on bool) error {
	log := logx.FromContext(ctx)

	return r.forEachTS(func(rel string) error {
		tracked, err := r.IsTracked(ctx, rel)
		if err != nil {
			return err
		}
		if !tracked {
			log.Tracef("  . %s (skipping, not tracked)", rel)
			return nil
		}

		log.Tracef("  . %s", rel)
		return r.SetAssumeUnchanged(ctx, rel, on)
	})
}

// RevertTS discards local modifications to all tracked .ts files under
// the working tree. Runs before a pull so regenerated translation
// files cannot cause conflicts.
func (r *Repo) RevertTS(ctx context.Context) error {
	log := logx.FromContext(ctx)

	return r.forEachTS(func(rel string) error {
		tracked, err := r.IsTracked(ctx, rel)
		if err != nil {
			return err
		}
		if !tracked {
			log.Debugf("won't try to revert ts file '%s', not tracked", rel)
			return nil
		}

		_, err = r.run(ctx, r.cmd.Revert(r.root, rel))
		return err
	})
}
