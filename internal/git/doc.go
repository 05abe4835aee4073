// Package git provides git operations via shell commands.
//
// All operations use the git CLI directly rather than a Go git
// library. This approach is simpler, more reliable, and ensures
// compatibility with user configurations (SSH keys, credential
// helpers, aliases).
//
// # Repository Operations
//
// [Repo] wraps one working tree and composes raw git commands into
// safety-checked domain operations:
//
//   - [Repo.Clone], [Repo.Pull]: Fetch and update working trees
//   - [Repo.SetOriginAndUpstreamRemotes], [Repo.AddRemote]: Remote
//     rewiring for fork-based workflows
//   - [Repo.IgnoreTS], [Repo.RevertTS]: Translation-file hygiene
//   - [Repo.GitFile], [Repo.CurrentBranch]: Repository queries
//
// # Safety
//
// [DeleteDirectory] refuses to delete a git-controlled directory that
// has uncommitted or stashed changes unless the ignore_uncommitted
// override is configured, so pulled work can never be lost silently.
//
// # Probes
//
// Existence checks ([Repo.HasRemote], [Repo.IsTracked], [Repo.IsRepo],
// [RemoteBranchExists]) encode their answer in the probed process's
// exit code; a "no" is a valid outcome, not an error.
package git
