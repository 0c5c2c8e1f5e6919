package admin

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/server/config"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/pipeline"
)

// NewRootCommand builds the portfolioctl command tree. Connection defaults
// come from the same PORTFOLIO_* variables the server reads; lookup is
// usually os.LookupEnv.
func NewRootCommand(open Opener, lookup func(string) (string, bool)) *cobra.Command {
	o := &Options{}
	env := func(name, fallback string) string {
		if v, ok := lookup(config.EnvPrefix + name); ok && v != "" {
			return v
		}
		return fallback
	}

	root := &cobra.Command{
		Use:           "portfolioctl",
		Short:         "Administer the portfolio server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.IdentityDSN, "identity-dsn", env("IDENTITY_DSN", ""), "PostgreSQL DSN of the identity store")
	pf.StringVar(&o.StoreBackend, "store", env("STORE_BACKEND", config.StoreMongo), "document store backend (mongo|memory)")
	pf.StringVar(&o.MongoURI, "mongo-uri", env("MONGO_URI", ""), "MongoDB connection URI")
	pf.StringVar(&o.MongoDatabase, "mongo-db", env("MONGO_DATABASE", ""), "MongoDB database")
	pf.StringVar(&o.PipelineCollection, "pipeline-collection", env("PIPELINE_COLLECTION", "pipelinestages"), "pipeline stage collection")
	pf.DurationVar(&o.StoreTimeout, "store-timeout", 5*time.Second, "per-call document store deadline")

	// withBackend opens the backend for one command and closes it afterwards.
	withBackend := func(fn func(cmd *cobra.Command, args []string, b Backend) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			b, err := open(cmd.Context(), o)
			if err != nil {
				return err
			}
			return errors.Join(fn(cmd, args, b), b.Close())
		}
	}

	root.AddCommand(
		newMigrateCmd(withBackend),
		newUserCmd(withBackend),
		newPipelineCmd(withBackend),
	)
	root.AddCommand(newRemoteCmds(env)...)
	return root
}

type backendRunner func(fn func(cmd *cobra.Command, args []string, b Backend) error) func(*cobra.Command, []string) error

func newMigrateCmd(with backendRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending identity schema migrations",
		Args:  cobra.NoArgs,
		RunE: with(func(cmd *cobra.Command, _ []string, b Backend) error {
			if err := b.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		}),
	}
}

func newUserCmd(with backendRunner) *cobra.Command {
	user := &cobra.Command{
		Use:   "user",
		Short: "Manage identities",
	}

	var roles []string
	var passwordStdin bool
	add := &cobra.Command{
		Use:   "add <username>",
		Short: "Create an identity",
		Long: `Create an identity with the given roles.

The password is prompted for twice unless --password-stdin is set, in which
case the first line of standard input is used. Passwords need at least 8
characters, an uppercase letter and a digit.`,
		Args: cobra.ExactArgs(1),
		RunE: with(func(cmd *cobra.Command, args []string, b Backend) error {
			var password string
			var err error
			if passwordStdin {
				password, err = readPasswordLine(cmd.InOrStdin())
			} else {
				password, err = promptPassword(cmd.ErrOrStderr())
			}
			if err != nil {
				return err
			}

			u, err := b.Register(cmd.Context(), args[0], password, roles...)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s) roles=%v\n", u.UserName, u.ID, u.Roles)
			return nil
		}),
	}
	add.Flags().StringSliceVar(&roles, "role", nil, "role to grant, repeatable")
	add.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from standard input")

	grant := &cobra.Command{
		Use:   "grant <username> <role>",
		Short: "Grant a role to an identity",
		Args:  cobra.ExactArgs(2),
		RunE: with(func(cmd *cobra.Command, args []string, b Backend) error {
			if err := b.Grant(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "granted %s to %s\n", args[1], args[0])
			return nil
		}),
	}

	revoke := &cobra.Command{
		Use:   "revoke <username> <role>",
		Short: "Revoke a role from an identity",
		Args:  cobra.ExactArgs(2),
		RunE: with(func(cmd *cobra.Command, args []string, b Backend) error {
			if err := b.Revoke(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "revoked %s from %s\n", args[1], args[0])
			return nil
		}),
	}

	user.AddCommand(add, grant, revoke)
	return user
}

func newPipelineCmd(with backendRunner) *cobra.Command {
	p := &cobra.Command{
		Use:   "pipeline",
		Short: "Manage pipeline stages",
	}

	imp := &cobra.Command{
		Use:   "import <file>",
		Short: "Bulk insert pipeline stages from a YAML or JSON file",
		Long: `Bulk insert pipeline stages from a YAML or JSON file.

Stages are inserted independently. When some are rejected the others are
still stored, each rejection is reported, and the command exits non-zero.`,
		Args: cobra.ExactArgs(1),
		RunE: with(func(cmd *cobra.Command, args []string, b Backend) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			stages, err := ReadStages(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			res, err := b.ImportStages(cmd.Context(), stages)
			var partial *pipeline.PartialFailureError
			switch {
			case errors.As(err, &partial):
				res = partial.Result
			case err != nil:
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "stored %d, failed %d\n", len(res.Inserted), len(res.Failed))
			for _, fl := range res.Failed {
				fmt.Fprintf(out, "  stage %d (%s): %s\n", fl.Index, fl.ID.Hex(), fl.Error)
			}
			if len(res.Failed) > 0 {
				return fmt.Errorf("import: %w", common.ErrPartialFailure)
			}
			return nil
		}),
	}

	p.AddCommand(imp)
	return p
}

// Execute runs portfolioctl with the process arguments and environment.
func Execute(ctx context.Context) error {
	return NewRootCommand(Open, os.LookupEnv).ExecuteContext(ctx)
}
