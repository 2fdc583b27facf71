package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch cmd {
	case "login":
		err = run(ctx, cmd, args, runLogin)
	case "logout":
		err = run(ctx, cmd, args, runLogout)
	case "info":
		err = run(ctx, cmd, args, runInfo)
	case "submit":
		err = run(ctx, cmd, args, runSubmit)
	case "list":
		err = run(ctx, cmd, args, runList)
	case "get":
		err = run(ctx, cmd, args, runGet)
	case "version":
		fmt.Printf("reversaar version %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`reversaar - client for the reversal storage service

Usage:
  reversaar <command> [arguments]

Commands:
  login <user>                  Log in (password from --password, $REVERSAAR_PASSWORD or stdin)
  logout                        Forget the saved session
  info                          Show the user and item counts
  submit <kind> <value|file>    Store a new item (kind: text, array, audio)
  list <kind>                   List stored items of a kind
  get <kind> <index>            Print one stored item (index starts at 1)
  version                       Print version
  help                          Show this help

Options:
  --config <file>               Config file (default $REVERSAAR_CONFIG or ~/.config/reversaar/config.yaml)
  --password <pw>               Password for login
  --open <n>                    Expand entry n in list
  --html                        Render list as HTML
  --out <file>                  Write get output to a file

Examples:
  reversaar login alice
  reversaar submit text "hello world"
  reversaar submit array "[72, 73]"
  reversaar submit audio clip.wav
  reversaar list text --open 1
  reversaar get audio 2 --out reversed.wav`)
}
