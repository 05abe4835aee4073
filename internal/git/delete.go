package git

import (
	"context"
	"errors"
	"os"

	"github.com/JonathanFeenstra/mob/internal/config"
	"github.com/JonathanFeenstra/mob/internal/logx"
)

// DeleteDirectory deletes a directory that was created by cloning from
// git.
//
// The directory is not always git-controlled: a dependency might have
// been installed as a prebuilt first and is now being rebuilt from
// source. Non-repo directories are deleted unconditionally.
//
// For a git repository, deletion is refused while the tree has
// uncommitted or stashed changes, unless ignore_uncommitted is set in
// the configuration. The check always runs before the delete.
func DeleteDirectory(ctx context.Context, cfg *config.Config, dir string) error {
	log := logx.FromContext(ctx)
	r := New(dir).Binary(cfg.GitBinary())

	isRepo, err := r.IsRepo(ctx)
	if err != nil {
		return err
	}

	if isRepo {
		if !cfg.Global.IgnoreUncommitted {
			dirty, err := r.HasUncommittedChanges(ctx)
			if err != nil {
				return err
			}
			if dirty {
				return &FatalError{
					Op:   "delete",
					Path: dir,
					Hint: "--ignore-uncommitted-changes",
					Err:  errors.New("has uncommitted changes"),
				}
			}

			stashed, err := r.HasStashedChanges(ctx)
			if err != nil {
				return err
			}
			if stashed {
				return &FatalError{
					Op:   "delete",
					Path: dir,
					Hint: "--ignore-uncommitted-changes",
					Err:  errors.New("has stashed changes"),
				}
			}
		}

		log.Tracef("deleting directory controlled by git %s", dir)
	}

	// Best effort: the directory may already be gone.
	if err := os.RemoveAll(dir); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
