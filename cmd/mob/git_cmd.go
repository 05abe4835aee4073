package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonathanFeenstra/mob/internal/git"
	"github.com/JonathanFeenstra/mob/internal/logx"
	"github.com/JonathanFeenstra/mob/internal/tool"
)

func newGitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "git",
		Short: "Git utilities for managed source trees",
		Long: `Git utilities for managed source trees.

These are the same operations the build tasks perform, exposed for
manual use on individual repositories.`,
		Example: `  mob git fetch --url <url> --branch master --root ./src/modorganizer
  mob git set-remotes --root ./src/modorganizer --org myfork
  mob git ignore-ts --root ./src/modorganizer
  mob git branch-exists --branch release <url>...`,
	}

	cmd.AddCommand(newGitFetchCmd())
	cmd.AddCommand(newGitSetRemotesCmd())
	cmd.AddCommand(newGitAddRemoteCmd())
	cmd.AddCommand(newGitIgnoreTSCmd())
	cmd.AddCommand(newGitRevertTSCmd())
	cmd.AddCommand(newGitBranchExistsCmd())
	cmd.AddCommand(newGitAddSubmoduleCmd())

	return cmd
}

func newGitFetchCmd() *cobra.Command {
	var (
		url      string
		branch   string
		root     string
		shallow  bool
		ignoreTS bool
		revertTS bool
		username string
		email    string

		newClone          bool
		ignoreUncommitted bool
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Clone a repository, or pull when it is already cloned",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Prebuilt dependencies are installed from an archive, not
			// fetched from source.
			if cfg.Build.Prebuilt {
				logx.FromContext(cmd.Context()).Infof("%s is prebuilt, not fetching", root)
				return nil
			}

			if newClone {
				delCfg := *cfg
				if ignoreUncommitted {
					delCfg.Global.IgnoreUncommitted = true
				}
				if err := git.DeleteDirectory(cmd.Context(), &delCfg, root); err != nil {
					return err
				}
			}

			g := tool.NewGit(tool.OpCloneOrPull).
				URL(url).
				Root(root).
				Branch(branch).
				Shallow(shallow).
				IgnoreTSOnClone(ignoreTS).
				RevertTSOnPull(revertTS).
				Credentials(username, email).
				Binary(cfg.GitBinary())

			if cfg.Remote.Org != "" {
				g.Remote(cfg.Remote.Org, cfg.Remote.Key,
					cfg.Remote.NoPushUpstream, cfg.Remote.PushDefaultOrigin)
			}

			return g.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Repository url to clone or pull from")
	cmd.Flags().StringVar(&branch, "branch", "master", "Branch to clone or pull")
	cmd.Flags().StringVar(&root, "root", "", "Root directory of the working tree")
	cmd.Flags().BoolVar(&shallow, "shallow", false, "Clone with --depth 1")
	cmd.Flags().BoolVar(&ignoreTS, "ignore-ts", false, "Mark .ts files assume-unchanged after cloning")
	cmd.Flags().BoolVar(&revertTS, "revert-ts", false, "Revert .ts files before pulling")
	cmd.Flags().StringVar(&username, "username", "", "Set user.name after cloning")
	cmd.Flags().StringVar(&email, "email", "", "Set user.email after cloning")
	cmd.Flags().BoolVar(&newClone, "new", false, "Delete the root directory first and clone from scratch")
	cmd.Flags().BoolVar(&ignoreUncommitted, "ignore-uncommitted-changes", false, "With --new, delete even when the tree has uncommitted or stashed changes")
	cmd.MarkFlagRequired("url")
	cmd.MarkFlagRequired("root")

	return cmd
}

func newGitSetRemotesCmd() *cobra.Command {
	var (
		root string
		org  string
		key  string
	)

	cmd := &cobra.Command{
		Use:   "set-remotes",
		Short: "Rename origin to upstream and add a fork origin remote",
		RunE: func(cmd *cobra.Command, args []string) error {
			if org == "" {
				org = cfg.Remote.Org
			}
			if key == "" {
				key = cfg.Remote.Key
			}
			if org == "" {
				return fmt.Errorf("no organization given; use --org or set remote.org in the configuration")
			}

			return git.New(root).Binary(cfg.GitBinary()).
				SetOriginAndUpstreamRemotes(cmd.Context(), org, key,
					cfg.Remote.NoPushUpstream, cfg.Remote.PushDefaultOrigin)
		},
	}

	cmd.Flags().StringVar(&root, "root", ".", "Root directory of the working tree")
	cmd.Flags().StringVar(&org, "org", "", "Organization of the fork remote")
	cmd.Flags().StringVar(&key, "key", "", "Path to a key file recorded on the remote")

	return cmd
}

func newGitAddRemoteCmd() *cobra.Command {
	var (
		root        string
		org         string
		key         string
		pushDefault bool
	)

	cmd := &cobra.Command{
		Use:   "add-remote <name>",
		Short: "Add a remote for the repository's git file on another org",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if org == "" {
				return fmt.Errorf("no organization given; use --org")
			}

			return git.New(root).Binary(cfg.GitBinary()).
				AddRemote(cmd.Context(), git.RemoteSpec{
					Name:        args[0],
					Org:         org,
					Key:         key,
					PushDefault: pushDefault,
					URLPattern:  cfg.Remote.URLPattern,
				})
		},
	}

	cmd.Flags().StringVar(&root, "root", ".", "Root directory of the working tree")
	cmd.Flags().StringVar(&org, "org", "", "Organization of the new remote")
	cmd.Flags().StringVar(&key, "key", "", "Path to a key file recorded on the remote")
	cmd.Flags().BoolVar(&pushDefault, "push-default", false, "Make the new remote the default for push")

	return cmd
}

func newGitIgnoreTSCmd() *cobra.Command {
	var (
		root string
		off  bool
	)

	cmd := &cobra.Command{
		Use:   "ignore-ts",
		Short: "Toggle assume-unchanged on all tracked .ts files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return git.New(root).Binary(cfg.GitBinary()).
				IgnoreTS(cmd.Context(), !off)
		},
	}

	cmd.Flags().StringVar(&root, "root", ".", "Root directory of the working tree")
	cmd.Flags().BoolVar(&off, "off", false, "Remove the assume-unchanged flag instead of setting it")

	return cmd
}

func newGitRevertTSCmd() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "revert-ts",
		Short: "Discard local modifications to all tracked .ts files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return git.New(root).Binary(cfg.GitBinary()).
				RevertTS(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&root, "root", ".", "Root directory of the working tree")

	return cmd
}

func newGitBranchExistsCmd() *cobra.Command {
	var branch string

	cmd := &cobra.Command{
		Use:   "branch-exists <url>...",
		Short: "Check that a branch exists in every given repository",
		Long: `Check that a branch exists in every given repository.

Probes the repositories with git ls-remote, without touching any local
working tree. Used before a release build so it cannot fail halfway
through on a repo that was never branched.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			missing := git.MissingRemoteBranches(cmd.Context(), cfg.GitBinary(), args, branch)
			if len(missing) == 0 {
				logx.FromContext(cmd.Context()).Infof("branch %s exists in all %d repos", branch, len(args))
				return nil
			}

			for _, u := range missing {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", u)
			}
			return fmt.Errorf("branch %s missing in %d of %d repos", branch, len(missing), len(args))
		},
	}

	cmd.Flags().StringVar(&branch, "branch", "", "Branch name to look for")
	cmd.MarkFlagRequired("branch")

	return cmd
}

func newGitAddSubmoduleCmd() *cobra.Command {
	var (
		root   string
		url    string
		branch string
		name   string
	)

	cmd := &cobra.Command{
		Use:   "add-submodule",
		Short: "Add a submodule to a repository",
		RunE: func(cmd *cobra.Command, args []string) error {
			// The build tasks hand these to the background adder; for a
			// one-shot command, running synchronously is the same thing.
			return tool.NewSubmodule().
				Root(root).
				URL(url).
				Branch(branch).
				Submodule(name).
				Binary(cfg.GitBinary()).
				Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&root, "root", ".", "Root directory of the working tree")
	cmd.Flags().StringVar(&url, "url", "", "Submodule url")
	cmd.Flags().StringVar(&branch, "branch", "master", "Submodule branch")
	cmd.Flags().StringVar(&name, "name", "", "Submodule name")
	cmd.MarkFlagRequired("url")
	cmd.MarkFlagRequired("name")

	return cmd
}
