package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"attune/internal/bootstrap"
	exportdomain "attune/internal/modules/export/domain"
	settingsdto "attune/internal/modules/settings/dto"
	"attune/internal/platform/config"
	"attune/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var debug bool

	root := &cobra.Command{
		Use:           "attune",
		Short:         "Terminal client for the research assistant backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(configPath, debug)
			if err != nil {
				return err
			}
			return app.RunTUI()
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "config file path")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	root.AddCommand(newTUICmd(&configPath, &debug))
	root.AddCommand(newSessionsCmd(&configPath, &debug))
	root.AddCommand(newSearchCmd(&configPath, &debug))
	root.AddCommand(newExportCmd(&configPath, &debug))
	root.AddCommand(newDeepDiveCmd(&configPath, &debug))
	root.AddCommand(newSettingsCmd(&configPath, &debug))
	root.AddCommand(newDraftCmd(&configPath, &debug))
	root.AddCommand(newClearCmd(&configPath, &debug))
	return root
}

func loadApp(configPath string, debug bool) (*bootstrap.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.LogFile, debug)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, log), nil
}

func newTUICmd(configPath *string, debug *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the attune terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath, *debug)
			if err != nil {
				return err
			}
			return app.RunTUI()
		},
	}
}

func newSessionsCmd(configPath *string, debug *bool) *cobra.Command {
	sessions := &cobra.Command{Use: "sessions", Short: "Session lifecycle commands"}

	sessions.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath, *debug)
			if err != nil {
				return err
			}
			list, err := app.SessionCLI.List(context.Background())
			if err != nil {
				return err
			}
			if len(list) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
				return nil
			}
			for _, s := range list {
				marker := " "
				if s.Active {
					marker = "*"
				}
				state := "stopped"
				if s.Running {
					state = "running"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\t%s\t%s\t%s\n", marker, s.ID, s.Name, state, s.CreatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	})

	var useAPI, enableSearch bool
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a session and make it active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*configPath, *debug)
			if err != nil {
				return err
			}
			out, err := app.SessionCLI.Create(context.Background(), args[0], useAPI, enableSearch)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session created: %s (%s)\n", out.Name, out.ID)
			return nil
		},
	}
	create.Flags().BoolVar(&useAPI, "use-api", true, "enable LLM responses for the session")
	create.Flags().BoolVar(&enableSearch, "enable-search", true, "enable background web research")
	sessions.AddCommand(create)

	sessions.AddCommand(&cobra.Command{
		Use:   "activate <id>",
		Short: "Make a session active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*configPath, *debug)
			if err != nil {
				return err
			}
			if err := app.SessionCLI.Activate(context.Background(), args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session activated: %s\n", args[0])
			return nil
		},
	})

	sessions.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*configPath, *debug)
			if err != nil {
				return err
			}
			if err := app.SessionCLI.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session deleted: %s\n", args[0])
			return nil
		},
	})

	var startUseAPI, startEnableSearch bool
	start := &cobra.Command{
		Use:   "start [id]",
		Short: "Start audio capture (defaults to the active session)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*configPath, *debug)
			if err != nil {
				return err
			}
			id := ""
			if len(args) > 0 {
				id = args[0]
			}
			if err := app.SessionCLI.Start(context.Background(), id, startUseAPI, startEnableSearch); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "capture started")
			return nil
		},
	}
	start.Flags().BoolVar(&startUseAPI, "use-api", true, "enable LLM responses")
	start.Flags().BoolVar(&startEnableSearch, "enable-search", true, "enable background web research")
	sessions.AddCommand(start)

	sessions.AddCommand(&cobra.Command{
		Use:   "stop [id]",
		Short: "Stop audio capture (defaults to the active session)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*configPath, *debug)
			if err != nil {
				return err
			}
			id := ""
			if len(args) > 0 {
				id = args[0]
			}
			if err := app.SessionCLI.Stop(context.Background(), id); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "capture stopped")
			return nil
		},
	})

	return sessions
}

func newSearchCmd(configPath *string, debug *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search conversation history",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*configPath, *debug)
			if err != nil {
				return err
			}
			hits, err := app.SearchCLI.Search(context.Background(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if len(hits) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no matches")
				return nil
			}
			for _, h := range hits {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", h.SessionID, h.SessionName, h.Preview)
			}
			return nil
		},
	}
}

func newExportCmd(configPath *string, debug *bool) *cobra.Command {
	var sessionID, format, dir string
	var noTranscript, noSources, noInsights bool

	export := &cobra.Command{
		Use:   "export",
		Short: "Export a session and write it to disk",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath, *debug)
			if err != nil {
				return err
			}
			f, err := exportdomain.ParseFormat(format)
			if err != nil {
				return err
			}
			id := sessionID
			if id == "" {
				if id, err = activeSessionID(app); err != nil {
					return err
				}
			}
			include := exportdomain.Include{
				Transcript: !noTranscript,
				Sources:    !noSources,
				Insights:   !noInsights,
			}
			if err := app.Exporter.Export(context.Background(), id, f, include); err != nil {
				return err
			}
			if dir == "" {
				dir = app.Config.DownloadDir
			}
			path, err := app.Exporter.Download(dir)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", path)
			return nil
		},
	}
	export.Flags().StringVar(&sessionID, "session-id", "", "session to export (defaults to the active session)")
	export.Flags().StringVar(&format, "format", "markdown", "export format: markdown|json|html")
	export.Flags().StringVar(&dir, "dir", "", "target directory (defaults to the configured download dir)")
	export.Flags().BoolVar(&noTranscript, "no-transcript", false, "omit the transcript section")
	export.Flags().BoolVar(&noSources, "no-sources", false, "omit research sources")
	export.Flags().BoolVar(&noInsights, "no-insights", false, "omit insights")
	return export
}

func newDeepDiveCmd(configPath *string, debug *bool) *cobra.Command {
	var sessionID string
	deepdive := &cobra.Command{
		Use:   "deepdive <query>",
		Short: "Request deep research on a topic",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*configPath, *debug)
			if err != nil {
				return err
			}
			if err := app.SessionCLI.DeepDive(context.Background(), sessionID, strings.Join(args, " ")); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "deep dive requested")
			return nil
		},
	}
	deepdive.Flags().StringVar(&sessionID, "session-id", "", "session context (defaults to the active session)")
	return deepdive
}

func newSettingsCmd(configPath *string, debug *bool) *cobra.Command {
	settings := &cobra.Command{Use: "settings", Short: "Backend preference commands"}

	settings.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show backend settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath, *debug)
			if err != nil {
				return err
			}
			s, err := app.Settings.Get(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "theme: %s\nllm_provider: %s\nnotifications: %t\nvoice_commands: %t\n",
				s.Theme, s.LLMProvider, s.NotificationEnabled, s.VoiceCommandsEnabled)
			return nil
		},
	})

	var theme, apiKey, provider string
	var notifications, voice string
	set := &cobra.Command{
		Use:   "set",
		Short: "Update backend settings (only the given flags change)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath, *debug)
			if err != nil {
				return err
			}
			var input settingsdto.UpdateInput
			if cmd.Flags().Changed("theme") {
				input.Theme = &theme
			}
			if cmd.Flags().Changed("api-key") {
				input.APIKey = &apiKey
			}
			if cmd.Flags().Changed("llm-provider") {
				input.LLMProvider = &provider
			}
			if cmd.Flags().Changed("notifications") {
				v, err := parseBoolFlag("notifications", notifications)
				if err != nil {
					return err
				}
				input.NotificationEnabled = &v
			}
			if cmd.Flags().Changed("voice-commands") {
				v, err := parseBoolFlag("voice-commands", voice)
				if err != nil {
					return err
				}
				input.VoiceCommandsEnabled = &v
			}
			s, err := app.Settings.Update(context.Background(), input)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "settings updated: theme=%s llm_provider=%s notifications=%t voice_commands=%t\n",
				s.Theme, s.LLMProvider, s.NotificationEnabled, s.VoiceCommandsEnabled)
			return nil
		},
	}
	set.Flags().StringVar(&theme, "theme", "", "ui theme name")
	set.Flags().StringVar(&apiKey, "api-key", "", "LLM api key (write-only)")
	set.Flags().StringVar(&provider, "llm-provider", "", "LLM provider")
	set.Flags().StringVar(&notifications, "notifications", "", "enable notifications: true|false")
	set.Flags().StringVar(&voice, "voice-commands", "", "enable voice commands: true|false")
	settings.AddCommand(set)

	return settings
}

func newDraftCmd(configPath *string, debug *bool) *cobra.Command {
	var sessionID, recipient, subject string
	draft := &cobra.Command{
		Use:   "draft",
		Short: "Draft a follow-up email from a session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath, *debug)
			if err != nil {
				return err
			}
			out, err := app.SessionCLI.EmailDraft(context.Background(), sessionID, recipient, subject)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "To: %s\nSubject: %s\n\n%s\n", out.To, out.Subject, out.Body)
			return nil
		},
	}
	draft.Flags().StringVar(&sessionID, "session-id", "", "session to summarize (defaults to the active session)")
	draft.Flags().StringVar(&recipient, "to", "", "recipient address")
	draft.Flags().StringVar(&subject, "subject", "", "subject override")
	return draft
}

func newClearCmd(configPath *string, debug *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the active session's transcript and response",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath, *debug)
			if err != nil {
				return err
			}
			if err := app.SessionCLI.Clear(context.Background()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "conversation cleared")
			return nil
		},
	}
}

func activeSessionID(app *bootstrap.App) (string, error) {
	list, err := app.SessionCLI.List(context.Background())
	if err != nil {
		return "", err
	}
	for _, s := range list {
		if s.Active {
			return s.ID, nil
		}
	}
	return "", fmt.Errorf("no active session")
}

func parseBoolFlag(name, value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("--%s must be true or false", name)
}
