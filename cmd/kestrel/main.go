package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"kestrel/pkg/driver"
	"kestrel/pkg/vm"
)

const historyFile = ".kestrel_history"

func main() {
	exprFlag := flag.String("e", "", "Run the given command and exit")
	configFlag := flag.String("config", "", "Path to a TOML config file")
	scriptFlag := flag.String("script", "", "Load a script file as the 'script' root before starting")

	flag.Parse()

	opts := vm.DefaultOptions()
	if *configFlag != "" {
		cfg, err := driver.LoadConfig(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read config '%s': %s\n", *configFlag, err)
			os.Exit(64) // Exit code 64: command line usage error
		}
		opts = cfg.Options()
	}

	session := driver.NewSession(opts)

	if *scriptFlag != "" {
		if _, err := session.LoadScript("script", *scriptFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load '%s': %s\n", *scriptFlag, err)
			os.Exit(70) // Exit code 70: internal software error
		}
	}

	if *exprFlag != "" {
		out, ok := session.Interpret(*exprFlag)
		if !ok {
			os.Exit(70)
		}
		if out != "" {
			fmt.Println(out)
		}
		return
	}

	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Usage: kestrel [-config file] [-script file] [-e \"command\"]\n")
		os.Exit(64)
	}

	runRepl(session)
}

// runRepl starts the interactive inspection loop.
func runRepl(session *driver.Session) {
	fmt.Println("Kestrel accessor inspector (:quit to exit, :help for commands)")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		line, err := ln.Prompt("> ")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Println()
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading input: %s\n", err)
			return
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit", ":q":
				return
			case ":help":
				printHelp()
			default:
				fmt.Println("unknown command. Type :quit to exit.")
			}
			continue
		}

		if out, ok := session.Interpret(trimmed); ok && out != "" {
			fmt.Println(out)
		}
		ln.AppendHistory(trimmed)
	}
}

func printHelp() {
	fmt.Print(`Commands:
  roots                     list bound roots
  load <name> <file>        load a script file and bind its wrapper
  new array <name> <len>    bind a fresh array
  new fn <name> <arity>     bind a fresh function
  get <root>.<prop>         read a property through the native accessors
  set <root>.<prop> <lit>   write a property through the native accessors
  props <root>              list a root's own property names
  describe <root>.<prop>    show an own property with its attribute flags
  :quit                     exit
`)
}
