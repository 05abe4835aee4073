package git

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/JonathanFeenstra/mob/internal/gitcmd"
	"github.com/JonathanFeenstra/mob/internal/proc"
)

// RemoteBranchExists probes the repo at url for the given branch name
// with `git ls-remote`, without touching any local working tree. A
// failed probe means the branch does not exist; it never raises.
func RemoteBranchExists(ctx context.Context, bin, url, branch string) bool {
	cmd := gitcmd.Builder{Bin: bin}
	res, err := proc.Run(ctx, cmd.RemoteBranchExists(url, branch))
	if err != nil {
		return false
	}
	return res.Code == 0
}

// MissingRemoteBranches probes every url for the given branch and
// returns the urls that lack it, in input order. Used before a release
// build to make sure the branch exists in all repos so the build does
// not fail in the middle. Probes run concurrently, bounded.
func MissingRemoteBranches(ctx context.Context, bin string, urls []string, branch string) []string {
	exists := make([]bool, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)

	for i, u := range urls {
		g.Go(func() error {
			exists[i] = RemoteBranchExists(ctx, bin, u, branch)
			return nil
		})
	}
	_ = g.Wait() // probes never fail, they answer yes or no

	var missing []string
	for i, u := range urls {
		if !exists[i] {
			missing = append(missing, u)
		}
	}
	return missing
}
