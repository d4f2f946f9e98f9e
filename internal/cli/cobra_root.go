package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"sundial/internal/api"
	"sundial/internal/config"
	"sundial/internal/logging"
	"sundial/internal/repository/sqlite"
	"sundial/internal/server"
	"sundial/internal/services"
	"sundial/internal/validation"
)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd        *cobra.Command
	configFile string

	config *config.Config
	logger *slog.Logger
	repo   sqlite.Repository
	app    *App
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand() *RootCommand {
	root := &RootCommand{}

	root.cmd = &cobra.Command{
		Use:   "sundial",
		Short: "Log time against a tree of categories and tasks",
		Long: `Sundial records time log entries against a per-user tree of categories.
A category can be marked as a task with a completion flag, a star rating
and an optional deadline. Entries without a category land in the
"Uncategorized" root, which is created on first use.

EXAMPLES:
  sundial setup
  sundial category add Work
  sundial category add "Code review" --parent Work --task --rating 2
  sundial category tree
  sundial entry add --start "2024-01-01 09:00" --end "2024-01-01 10:30" --category 2
  sundial entry add --start 2024-01-01T11:00 --end 2024-01-01T12:00 --new-category Reading
  sundial entry list --since 1w
  sundial serve --address 127.0.0.1:8080

CONFIGURATION:
  Configuration follows this priority order: flags > environment > config file > defaults

    SUNDIAL_DATABASE_DIR                   Database directory (default: ~/.sundial)
    SUNDIAL_DATABASE_FILENAME              Database filename (default: sundial.db)
    SUNDIAL_DATABASE_QUERY_TIMEOUT         Query timeout (default: 10s)
    SUNDIAL_SERVER_ADDRESS                 HTTP listen address (default: 127.0.0.1:8080)
    SUNDIAL_SERVER_IDENTITY_HEADER         Header carrying the user id (default: X-Sundial-User)
    SUNDIAL_APPLICATION_TIMEOUT            Command timeout (default: 60s)
    SUNDIAL_APPLICATION_VERBOSE            Enable debug logging (default: false)
    SUNDIAL_APPLICATION_USER               User the CLI acts as (default: 1)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.loadConfig(cmd)
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Command exposes the underlying cobra command
func (r *RootCommand) Command() *cobra.Command {
	return r.cmd
}

// Execute runs the root command and releases the database afterwards
func (r *RootCommand) Execute() error {
	return r.ExecuteContext(context.Background())
}

// ExecuteContext is Execute with a parent context
func (r *RootCommand) ExecuteContext(ctx context.Context) error {
	defer r.close()
	return r.cmd.ExecuteContext(ctx)
}

func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.StringVar(&r.configFile, "config", "", "Config file (yaml, toml or json)")
	flags.String("db-dir", "", "Database directory (overrides SUNDIAL_DATABASE_DIR)")
	flags.String("db-filename", "", "Database filename (overrides SUNDIAL_DATABASE_FILENAME)")
	flags.Duration("db-query-timeout", 0, "Database query timeout (overrides SUNDIAL_DATABASE_QUERY_TIMEOUT)")
	flags.Duration("timeout", 0, "Command timeout (overrides SUNDIAL_APPLICATION_TIMEOUT)")
	flags.Bool("verbose", false, "Enable debug logging (overrides SUNDIAL_APPLICATION_VERBOSE)")
	flags.Int64("user", 0, "User id to act as (overrides SUNDIAL_APPLICATION_USER)")
}

// overridesFromFlags collects only the flags the user actually set
func (r *RootCommand) overridesFromFlags(cmd *cobra.Command) *config.ConfigOverrides {
	flags := cmd.Flags()
	o := &config.ConfigOverrides{}

	if flags.Changed("db-dir") {
		v, _ := flags.GetString("db-dir")
		o.DBDir = &v
	}
	if flags.Changed("db-filename") {
		v, _ := flags.GetString("db-filename")
		o.DBFilename = &v
	}
	if flags.Changed("db-query-timeout") {
		v, _ := flags.GetDuration("db-query-timeout")
		o.DBQueryTimeout = &v
	}
	if flags.Changed("timeout") {
		v, _ := flags.GetDuration("timeout")
		o.Timeout = &v
	}
	if flags.Changed("verbose") {
		v, _ := flags.GetBool("verbose")
		o.Verbose = &v
	}
	if flags.Changed("user") {
		v, _ := flags.GetInt64("user")
		o.User = &v
	}
	if f := flags.Lookup("address"); f != nil && f.Changed {
		v := f.Value.String()
		o.ServerAddress = &v
	}
	return o
}

func (r *RootCommand) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.NewLoaderWithFile(r.configFile).LoadWithOverrides(r.overridesFromFlags(cmd))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	r.config = cfg
	r.logger = logging.New(cmd.ErrOrStderr(), cfg.Application.Verbose)
	slog.SetDefault(r.logger)
	return nil
}

// application opens the database on first use and builds the App
func (r *RootCommand) application(cmd *cobra.Command) (*App, error) {
	if r.app != nil {
		return r.app, nil
	}
	repo, err := config.CreateRepository(r.config)
	if err != nil {
		return nil, err
	}
	r.repo = repo
	r.logger.Debug("database opened", slog.String("path", r.config.GetDatabasePath()))

	container := services.NewServiceContainer(repo, r.config)
	r.app = NewApp(api.New(container, r.logger), r.config, cmd.OutOrStdout())
	return r.app, nil
}

func (r *RootCommand) close() {
	if r.repo != nil {
		r.repo.Close()
		r.repo = nil
		r.app = nil
	}
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil && r.config.Application.Timeout > 0 {
		return r.config.Application.Timeout
	}
	return 60 * time.Second
}

// run wraps a handler call with the app and a timeout
func (r *RootCommand) run(fn func(ctx context.Context, app *App) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := r.application(cmd)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), r.getAppTimeout())
		defer cancel()
		return fn(ctx, app)
	}
}

func (r *RootCommand) addSubcommands() {
	setupCmd := &cobra.Command{
		Use:   "setup",
		Short: "Create the Uncategorized root category",
		Args:  cobra.NoArgs,
	}
	setupCmd.RunE = r.run(func(ctx context.Context, app *App) error {
		return NewCategoryCommand(app).Setup(ctx)
	})

	r.cmd.AddCommand(setupCmd, r.categoryCommand(), r.entryCommand(), r.serveCommand())
}

func bindCategoryFlags(cmd *cobra.Command, form *validation.CategoryForm) {
	flags := cmd.Flags()
	flags.StringVar(&form.ParentRef, "parent", "", "Parent category id or exact name")
	flags.StringVar(&form.Color, "color", "", "Six hex digit color, e.g. 3366ff")
	flags.BoolVar(&form.IsTask, "task", false, "Mark the category as a task")
	flags.BoolVar(&form.IsCompleted, "completed", false, "Mark the task completed")
	flags.IntVar(&form.StarRating, "rating", 0, "Task star rating (1-3)")
	flags.StringVar(&form.Deadline, "deadline", "", "Task deadline date-time")
}

func (r *RootCommand) categoryCommand() *cobra.Command {
	categoryCmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"cat"},
		Short:   "Manage categories and tasks",
	}

	var addForm validation.CategoryForm
	addCmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addForm.Name = args[0]
			addForm.DeadlineFlag = addForm.Deadline != ""
			return r.run(func(ctx context.Context, app *App) error {
				return NewCategoryCommand(app).Add(ctx, addForm)
			})(cmd, args)
		},
	}
	bindCategoryFlags(addCmd, &addForm)

	var updateForm validation.CategoryForm
	updateCmd := &cobra.Command{
		Use:   "update ID NAME",
		Short: "Rename, move or edit a category",
		Long: `Update a category. The parent is replaced by --parent; leaving it out
makes the category a root. Moving a category under one of its own
descendants is refused.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			updateForm.Name = args[1]
			updateForm.DeadlineFlag = updateForm.Deadline != ""
			return r.run(func(ctx context.Context, app *App) error {
				return NewCategoryCommand(app).Update(ctx, args[0], updateForm)
			})(cmd, args)
		},
	}
	bindCategoryFlags(updateCmd, &updateForm)

	showCmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(func(ctx context.Context, app *App) error {
				return NewCategoryCommand(app).Show(ctx, args[0])
			})(cmd, args)
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List categories by name",
		Args:  cobra.NoArgs,
	}
	listCmd.RunE = r.run(func(ctx context.Context, app *App) error {
		return NewCategoryCommand(app).List(ctx)
	})

	treeCmd := &cobra.Command{
		Use:   "tree",
		Short: "Show the category tree",
		Args:  cobra.NoArgs,
	}
	treeCmd.RunE = r.run(func(ctx context.Context, app *App) error {
		return NewCategoryCommand(app).Tree(ctx)
	})

	categoryCmd.AddCommand(addCmd, updateCmd, showCmd, listCmd, treeCmd)
	return categoryCmd
}

func bindEntryFlags(cmd *cobra.Command, form *validation.EntryForm) {
	flags := cmd.Flags()
	flags.StringVar(&form.StartDateTime, "start", "", "Start date-time, e.g. \"2024-01-01 09:00\"")
	flags.StringVar(&form.EndDateTime, "end", "", "End date-time, after --start")
	flags.Int64Var(&form.CategoryRef, "category", 0, "Category id (default Uncategorized)")
	flags.StringVar(&form.NewCategoryName, "new-category", "", "Create or reuse a category with this name under --category")
	flags.StringVar(&form.Color, "color", "", "Color for a category created by --new-category")
	flags.StringVar(&form.Notes, "notes", "", "Free text notes")
}

func (r *RootCommand) entryCommand() *cobra.Command {
	entryCmd := &cobra.Command{
		Use:   "entry",
		Short: "Record and review time log entries",
	}

	var addForm validation.EntryForm
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Log a period of time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(func(ctx context.Context, app *App) error {
				return NewEntryCommand(app).Add(ctx, addForm)
			})(cmd, args)
		},
	}
	bindEntryFlags(addCmd, &addForm)

	var updateForm validation.EntryForm
	updateCmd := &cobra.Command{
		Use:   "update ID",
		Short: "Replace an entry's times, category and notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(func(ctx context.Context, app *App) error {
				return NewEntryCommand(app).Update(ctx, args[0], updateForm)
			})(cmd, args)
		},
	}
	bindEntryFlags(updateCmd, &updateForm)

	showCmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(func(ctx context.Context, app *App) error {
				return NewEntryCommand(app).Show(ctx, args[0])
			})(cmd, args)
		},
	}

	var listOpts EntryListOptions
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List entries",
		Long: `List entries ordered by start time.

Time filters support: 30m, 2h, 1d, 2w, 3mo, 1y

Examples:
  sundial entry list --since 1w
  sundial entry list --from 2024-01-01 --to 2024-02-01 --category 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(func(ctx context.Context, app *App) error {
				return NewEntryCommand(app).List(ctx, listOpts)
			})(cmd, args)
		},
	}
	listFlags := listCmd.Flags()
	listFlags.StringVar(&listOpts.Since, "since", "", "Only entries started within this period, e.g. 2d")
	listFlags.StringVar(&listOpts.From, "from", "", "Only entries started at or after this date-time")
	listFlags.StringVar(&listOpts.To, "to", "", "Only entries started at or before this date-time")
	listFlags.Int64Var(&listOpts.Category, "category", 0, "Only entries in this category")
	listFlags.IntVar(&listOpts.Limit, "limit", 0, "Maximum number of entries")

	entryCmd.AddCommand(addCmd, updateCmd, showCmd, listCmd)
	return entryCmd
}

func (r *RootCommand) serveCommand() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API over HTTP",
		Long: `Serve the JSON API. Requests under /api must carry the acting user's
id in the identity header (X-Sundial-User by default).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.application(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			router := server.SetupRouter(r.config, app.api, r.logger)
			return server.Run(ctx, r.config, router, r.logger)
		},
	}
	serveCmd.Flags().String("address", "", "Listen address (overrides SUNDIAL_SERVER_ADDRESS)")
	return serveCmd
}
