package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	osabridge "github.com/osakit/osabridge"
	"github.com/osakit/osabridge/app"
	"github.com/osakit/osabridge/bridge"
	"github.com/osakit/osabridge/config"
	"github.com/osakit/osabridge/executor/jsvm"
	"github.com/osakit/osabridge/executor/subproc"
)

func main() {
	var (
		configFile  = flag.String("config", "", "Path to YAML config file")
		appName     = flag.String("app", "", "Application to connect to")
		helperCmd   = flag.String("exec", "", "Helper process command (subprocess executor)")
		helperArgs  = flag.String("exec-args", "", "Helper arguments (comma-separated)")
		vmScript    = flag.String("vm", "", "Path to a script seeding the in-process VM executor")
		getProp     = flag.String("get", "", "Read a property of the application")
		setProp     = flag.String("set", "", "Write a property (NAME=VALUE)")
		callMethod  = flag.String("call", "", "Call a method on the application")
		callArgs    = flag.String("args", "", "Method arguments as a JSON array")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if err := run(*configFile, *appName, *helperCmd, *helperArgs, *vmScript,
		*getProp, *setProp, *callMethod, *callArgs, *interactive); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile, appName, helperCmd, helperArgs, vmScript,
	getProp, setProp, callMethod, callArgs string, interactive bool) error {

	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}
	if appName == "" {
		appName = cfg.App.Name
	}
	if helperCmd == "" {
		helperCmd = cfg.Executor.Command
	}
	if vmScript == "" {
		vmScript = cfg.Executor.Script
	}
	if appName == "" {
		fmt.Fprintln(os.Stderr, "Usage: osactl -app <name> [-exec helper | -vm script.js] [-get prop | -set k=v | -call method [-args '[...]']]")
		fmt.Fprintln(os.Stderr, "       osactl -app <name> -vm script.js -i  (interactive mode)")
		return fmt.Errorf("no application name given")
	}

	log, err := buildLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer log.Sync()
	bridge.SetLogger(log.Named("bridge"))
	jsvm.SetLogger(log.Named("jsvm"))
	subproc.SetLogger(log.Named("subproc"))

	exec, err := buildExecutor(appName, helperCmd, helperArgs, vmScript, cfg)
	if err != nil {
		return err
	}

	br := bridge.New(exec)
	defer br.Close()

	if interactive {
		return runInteractive(br, appName)
	}

	a, err := app.Connect(br, appName)
	if err != nil {
		return err
	}
	defer a.Close()

	switch {
	case getProp != "":
		v, err := a.Get(getProp)
		if err != nil {
			return err
		}
		printValue(v)

	case setProp != "":
		name, value, ok := strings.Cut(setProp, "=")
		if !ok {
			return fmt.Errorf("-set expects NAME=VALUE, got %q", setProp)
		}
		if err := a.Set(name, value); err != nil {
			return err
		}

	case callMethod != "":
		var args []any
		if callArgs != "" {
			if err := sonic.Unmarshal([]byte(callArgs), &args); err != nil {
				return fmt.Errorf("parse -args: %w", err)
			}
		}
		v, err := a.Call(callMethod, args, nil)
		if err != nil {
			return err
		}
		printValue(v)

	default:
		// No operation requested: report identity like a ping.
		name, err := a.Name()
		if err != nil {
			return err
		}
		front, err := a.Frontmost()
		if err != nil {
			return err
		}
		fmt.Printf("Application: %s\n", name)
		fmt.Printf("Frontmost: %v\n", front)
	}

	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.LoadOrDefault(), nil
}

func buildLogger(lc config.LogConfig) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(lc.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	zcfg := zap.NewProductionConfig()
	if lc.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = level
	return zcfg.Build()
}

// buildExecutor picks the channel to the runtime: a helper subprocess
// when a command is configured, otherwise the in-process VM seeded
// with the given script.
func buildExecutor(appName, helperCmd, helperArgs, vmScript string, cfg *config.Config) (osabridge.Executor, error) {
	if helperCmd != "" {
		args := cfg.Executor.Args
		if helperArgs != "" {
			args = strings.Split(helperArgs, ",")
		}
		return subproc.Start(subproc.Options{
			Command: helperCmd,
			Args:    args,
		})
	}

	if vmScript == "" {
		return nil, fmt.Errorf("either -exec or -vm is required")
	}
	src, err := os.ReadFile(vmScript)
	if err != nil {
		return nil, fmt.Errorf("read vm script: %w", err)
	}
	vm := jsvm.New()
	if err := vm.DefineApplication(appName, string(src)); err != nil {
		return nil, err
	}
	return vm, nil
}

func printValue(v any) {
	if obj, ok := v.(bridge.Object); ok {
		fmt.Printf("<%s handle=%d>\n", obj.Class(), obj.Handle())
		obj.Close()
		return
	}
	fmt.Printf("%v\n", v)
}
