// Package commands wires the CLI around the run-or-raise engine: flag
// parsing and validation, configuration defaults and the i3 connection.
package commands

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/open-dynaMIX/raiseorlaunch/internal/config"
	"github.com/open-dynaMIX/raiseorlaunch/internal/engine"
	"github.com/open-dynaMIX/raiseorlaunch/internal/i3"
	"github.com/open-dynaMIX/raiseorlaunch/internal/logger"
	"github.com/open-dynaMIX/raiseorlaunch/internal/wm"
)

var (
	cfgFile string

	flagClass           string
	flagInstance        string
	flagTitle           string
	flagExec            string
	flagWorkspace       string
	flagTargetWorkspace string
	flagScratch         bool
	flagMark            string
	flagEventTimeLimit  float64
	flagIgnoreCase      bool
	flagCycle           bool
	flagLeaveFullscreen bool
	flagDebug           bool

	rootCmd = &cobra.Command{
		Use:   "raiseorlaunch",
		Short: "A run-or-raise application launcher for i3",
		Long: `raiseorlaunch focuses an already running application instead of spawning
a duplicate process. Windows are matched by class, instance or title
regex against the live i3 tree. When nothing matches, the application is
launched and, for a bounded time, newly created windows can be moved to
a workspace, dropped into the scratchpad or tagged with a con_mark.`,
		Example: `  # Raise qutebrowser, or start it
  raiseorlaunch -c qutebrowser

  # Keep a terminal on the scratchpad
  raiseorlaunch -c URxvt -r -e urxvt

  # Pin Thunderbird to workspace 5
  raiseorlaunch -c Thunderbird -w 5

  # Cycle through editor windows
  raiseorlaunch -c Emacs -C`,
		SilenceUsage: true,
		RunE:         runRoot,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/raiseorlaunch/config.yaml)")

	rootCmd.Flags().StringVarP(&flagClass, "class", "c", "", "the window class regex")
	rootCmd.Flags().StringVarP(&flagInstance, "instance", "s", "", "the window instance regex")
	rootCmd.Flags().StringVarP(&flagTitle, "title", "t", "", "the window title regex")
	rootCmd.Flags().StringVarP(&flagExec, "exec", "e", "", "command to run with exec; if omitted, the class, instance or title regex is used (lower-cased)")
	rootCmd.Flags().StringVarP(&flagWorkspace, "workspace", "w", "", "workspace to use")
	rootCmd.Flags().StringVarP(&flagTargetWorkspace, "target-workspace", "W", "", "target workspace")
	rootCmd.Flags().BoolVarP(&flagScratch, "scratch", "r", false, "use the scratchpad")
	rootCmd.Flags().StringVarP(&flagMark, "mark", "m", "", "con_mark to use when raising and set when launching")
	rootCmd.Flags().Float64VarP(&flagEventTimeLimit, "event-time-limit", "l", 2, "time limit in seconds to listen to window events after exec")
	rootCmd.Flags().BoolVarP(&flagIgnoreCase, "ignore-case", "i", false, "ignore case when comparing")
	rootCmd.Flags().BoolVarP(&flagCycle, "cycle", "C", false, "cycle through matching windows")
	rootCmd.Flags().BoolVarP(&flagLeaveFullscreen, "leave-fullscreen", "f", false, "leave fullscreen on target workspace")
	rootCmd.Flags().BoolVarP(&flagDebug, "debug", "d", false, "display debug messages")

	rootCmd.MarkFlagsMutuallyExclusive("workspace", "target-workspace", "scratch")

	viper.BindPFlag("event_time_limit", rootCmd.Flags().Lookup("event-time-limit"))
	viper.BindPFlag("ignore_case", rootCmd.Flags().Lookup("ignore-case"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if path, err := config.DefaultPath(); err == nil {
		viper.SetConfigFile(path)
	}
	viper.SetEnvPrefix("RAISEORLAUNCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	for key, value := range map[string]any{
		"event_time_limit": 2.0,
		"ignore_case":      false,
		"log_level":        "warn",
		"pretty_log":       true,
	} {
		viper.SetDefault(key, value)
	}

	// A missing config file is fine; the defaults apply.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to read config: %v\n", err)
		}
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	level := viper.GetString("log_level")
	if flagDebug {
		level = "debug"
	}
	logger.Init(level, viper.GetBool("pretty_log"))

	criteria := wm.Criteria{
		Class:      flagClass,
		Instance:   flagInstance,
		Title:      flagTitle,
		IgnoreCase: viper.GetBool("ignore_case"),
	}
	if criteria.Empty() {
		return errors.New(`you need to specify "--class", "--instance" or "--title"`)
	}

	command, err := resolveCommand(flagExec, criteria)
	if err != nil {
		return err
	}

	timeLimit := viper.GetFloat64("event_time_limit")
	if timeLimit <= 0 {
		return errors.New("event-time-limit is not a positive number")
	}

	client, err := i3.Connect()
	if err != nil {
		return err
	}
	defer client.Close()

	eng, err := engine.New(client, engine.Options{
		Command:         command,
		Criteria:        criteria,
		Workspace:       flagWorkspace,
		TargetWorkspace: flagTargetWorkspace,
		Scratch:         flagScratch,
		Mark:            flagMark,
		EventTimeLimit:  time.Duration(timeLimit * float64(time.Second)),
		Cycle:           flagCycle,
		LeaveFullscreen: flagLeaveFullscreen,
	}, logger.WithComponent("engine"))
	if err != nil {
		return err
	}
	return eng.Run()
}

// resolveCommand falls back to the lower-cased first configured criterion
// when --exec is omitted, in the order class, instance, title. The fallback
// must resolve to an executable; an explicit --exec is taken as is.
func resolveCommand(command string, criteria wm.Criteria) (string, error) {
	if command != "" {
		return command, nil
	}
	for _, pattern := range []string{criteria.Class, criteria.Instance, criteria.Title} {
		if pattern != "" {
			command = strings.ToLower(pattern)
			break
		}
	}
	if command == "" {
		return "", errors.New("no executable provided")
	}
	if _, err := exec.LookPath(command); err != nil {
		return "", fmt.Errorf("%q is not an executable, did you forget to supply --exec?", command)
	}
	return command, nil
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}
