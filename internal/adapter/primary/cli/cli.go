package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/dustin/go-humanize"
	"github.com/google/shlex"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"creeper-desktop/internal/adapter/primary/web"
	"creeper-desktop/internal/config"
	"creeper-desktop/internal/domain"
	"creeper-desktop/internal/logging"
)

var (
	cfgPath   string
	verbosity int
)

// NewRootCmd creates the root CLI command.
// This is the primary adapter that translates CLI inputs to use case calls.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "creeper-desktop",
		Short:         "Backend for the Creeper desktop recorder",
		Long:          "Runtime config store, audio chunk validation and tray/window control for the Creeper desktop app",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath(), "settings file path")
	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (-v, -vv, ... up to 4)")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logging.SetVerbosity(verbosity)
	}

	cmd.AddCommand(
		newServeCmd(),
		newConfigCmd(),
		newValidateCmd(),
		newPermissionCmd(),
		newTrayCmd(),
		newShellCmd(),
	)

	return cmd
}

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP command surface and the tray controller",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				settings.Server.Addr = addr
			}
			if verbosity == 0 {
				config.ApplyLogLevel(settings)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			a := newApp(settings, nil)
			a.start(ctx)

			opts := []web.Option{web.WithIntents(a.intents)}
			if a.memWindow != nil {
				opts = append(opts, web.WithVisibility(a.memWindow))
			}
			srv := web.NewServer(a.dispatcher, a.tray, settings.Server.Addr, opts...)

			watcher, err := config.NewWatcher(cfgPath, func(s config.Settings) {
				if verbosity == 0 {
					config.ApplyLogLevel(s)
				}
			})
			if err == nil {
				if err := watcher.Start(); err != nil {
					logging.Warnf("settings hot reload disabled: %v", err)
				}
				defer watcher.Stop()
			}

			fmt.Printf("Creeper backend running at http://%s\n", settings.Server.Addr)
			logging.Infof("serving on %s (window backend %s)", settings.Server.Addr, settings.Window.Backend)

			go func() {
				<-ctx.Done()
				shutdownServer(srv, 5*time.Second)
			}()

			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "HTTP listen address host:port")
	return cmd
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read and override runtime configuration",
	}
	cmd.AddCommand(newConfigGetCmd(), newConfigSetCmd())
	return cmd
}

func newConfigGetCmd() *cobra.Command {
	var (
		output string
		all    bool
	)
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := currentApp(cmd.Context())
			if err != nil {
				return err
			}
			view := map[string]any{
				domain.ChunkDurationKey: a.dispatcher.GetConfig().ChunkDuration,
			}
			if all {
				view["overrides"] = a.dispatcher.Entries()
			}
			return printView(cmd.OutOrStdout(), output, view)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format: json|yaml|text")
	cmd.Flags().BoolVar(&all, "all", false, "include raw overrides")
	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Override a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := currentApp(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.dispatcher.SetConfig(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "set %s=%s (chunk_duration now %ds)\n",
				args[0], args[1], a.dispatcher.GetConfig().ChunkDuration)
			return nil
		},
	}
}

func newValidateCmd() *cobra.Command {
	var chunk domain.AudioChunk
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate audio chunk metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := currentApp(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := a.dispatcher.ValidateAudioChunk(chunk); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "valid: %s %s chunk, %ds\n",
				humanize.Bytes(uint64(len(chunk.Data))), chunk.Format, chunk.Duration)
			return nil
		},
	}
	cmd.Flags().StringVar(&chunk.Data, "data", "", "encoded audio payload")
	cmd.Flags().Int64Var(&chunk.Timestamp, "timestamp", 0, "creation timestamp")
	cmd.Flags().Uint32Var(&chunk.Duration, "duration", 0, "duration in seconds")
	cmd.Flags().StringVar(&chunk.Format, "format", "", "encoding name, e.g. wav")
	return cmd
}

func newPermissionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "permission",
		Short: "Request microphone permission",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := currentApp(cmd.Context())
			if err != nil {
				return err
			}
			granted, err := a.dispatcher.RequestMicPermission(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "microphone permission granted: %t\n", granted)
			return nil
		},
	}
}

func newTrayCmd() *cobra.Command {
	valid := make([]string, 0, len(domain.TrayEvents))
	for _, ev := range domain.TrayEvents {
		valid = append(valid, string(ev))
	}
	return &cobra.Command{
		Use:       "tray EVENT",
		Short:     "Deliver a tray/menu/window event (" + strings.Join(valid, "|") + ")",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: valid,
		RunE: func(cmd *cobra.Command, args []string) error {
			ev, err := domain.ParseTrayEvent(args[0])
			if err != nil {
				return err
			}
			a, err := currentApp(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.tray.Handle(cmd.Context(), ev); err != nil {
				return err
			}
			state := a.tray.State()
			fmt.Fprintf(cmd.OutOrStdout(), "window %s", state.Window)
			if n := a.intents.Drain(); n > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), ", listening toggle requested x%d", n)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
}

func newShellCmd() *cobra.Command {
	var prompt string
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive shell; config overrides persist for the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractiveShell(cmd.Context(), prompt)
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", "creeper> ", "shell prompt")
	return cmd
}

func runInteractiveShell(ctx context.Context, prompt string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	a := newApp(settings, nil)
	a.start(ctx)

	sessionMu.Lock()
	session = a
	sessionMu.Unlock()
	defer func() {
		sessionMu.Lock()
		session = nil
		sessionMu.Unlock()
	}()

	historyFile := filepath.Join(os.TempDir(), "creeper-desktop-shell.history")
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	sessionVerbosity := verbosity
	sessionCfgPath := cfgPath
	fmt.Println("Interactive shell. 'help' for usage, 'exit' to leave.")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			fmt.Println()
			continue
		}
		if err == io.EOF {
			fmt.Println()
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch line {
		case "exit":
			fmt.Println("Bye!")
			return nil
		case "help":
			printShellHelp()
			continue
		}
		tokens, err := shlex.Split(line)
		if err != nil {
			fmt.Printf("Parse error: %v\n", err)
			continue
		}
		if len(tokens) == 0 {
			continue
		}
		if tokens[0] == "log" {
			if err := handleShellLog(tokens[1:], &sessionVerbosity); err != nil {
				fmt.Printf("log: %v\n", err)
			}
			continue
		}
		if tokens[0] == "shell" || tokens[0] == "serve" {
			fmt.Printf("'%s' is not available inside the shell.\n", tokens[0])
			continue
		}

		if err := executeArgs(ctx, tokens, sessionVerbosity, sessionCfgPath); err != nil {
			fmt.Printf("command error: %v\n", err)
		}
		sessionVerbosity = verbosity
	}
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

func shutdownServer(srv shutdowner, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warnf("http shutdown: %v", err)
	}
}

// executeArgs runs args on a fresh root command. Building the root resets
// the flag variables to their defaults, so the session's values are put
// back before parsing; flags given in args still apply on top.
func executeArgs(ctx context.Context, args []string, sessionVerbosity int, sessionCfgPath string) error {
	if len(args) == 0 {
		return nil
	}
	root := NewRootCmd()
	verbosity = sessionVerbosity
	cfgPath = sessionCfgPath
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func handleShellLog(args []string, sessionVerbosity *int) error {
	fs := pflag.NewFlagSet("log", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var vcount int
	var level string
	var show bool
	fs.CountVarP(&vcount, "verbose", "v", "Increase verbosity (-v... up to 4)")
	fs.StringVar(&level, "level", "", "level (error|warn|info|debug|trace)")
	fs.BoolVarP(&show, "show", "s", false, "show the current level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case show && vcount == 0 && level == "":
		fmt.Printf("log level: %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
		return nil
	case level != "":
		_, count, err := logging.ParseLevel(level)
		if err != nil {
			return err
		}
		*sessionVerbosity = count
	case vcount > 0:
		*sessionVerbosity = vcount
	default:
		fmt.Printf("log level: %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
		return nil
	}

	verbosity = *sessionVerbosity
	logging.SetVerbosity(*sessionVerbosity)
	fmt.Printf("log level set to %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
	return nil
}

func printShellHelp() {
	fmt.Println(`Examples:
  config get                          # show chunk_duration
  config get -o yaml --all            # include raw overrides
  config set chunk_duration 90        # override for this session
  validate --data abc --duration 1 --format wav
  permission                          # request microphone access
  tray show | toggle | close | quit   # deliver a tray event (quit exits)
  log -vv                             # more verbose logging
  log --show                          # show the current level
  exit                                # leave the shell`)
}

func printView(w io.Writer, format string, view map[string]any) error {
	switch format {
	case "json":
		out, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(out))
	case "yaml":
		out, err := yaml.Marshal(view)
		if err != nil {
			return err
		}
		fmt.Fprint(w, string(out))
	case "text":
		keys := make([]string, 0, len(view))
		for k := range view {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "%s: %v\n", k, view[k])
		}
	default:
		return fmt.Errorf("unknown output format %q (json|yaml|text)", format)
	}
	return nil
}
