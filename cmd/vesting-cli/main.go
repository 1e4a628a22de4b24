// Command vesting-cli is a minimal reference host for the vesting engine.
// It is not a production host shell: it performs no caller authentication
// (see spec §1 Non-goals) and does not move funds on any real ledger — it
// only demonstrates wiring the engine to persistent storage, events and
// metrics the way a real host would.
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var code int
	switch os.Args[1] {
	case "init":
		code = runInit(os.Args[2:], os.Stdout, os.Stderr)
	case "pause":
		code = runPause(os.Args[2:], os.Stdout, os.Stderr)
	case "unpause":
		code = runUnpause(os.Args[2:], os.Stdout, os.Stderr)
	case "withdraw":
		code = runWithdraw(os.Args[2:], os.Stdout, os.Stderr)
	case "admin-release":
		code = runAdminRelease(os.Args[2:], os.Stdout, os.Stderr)
	case "status":
		code = runStatus(os.Args[2:], os.Stdout, os.Stderr)
	case "-help", "--help", "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		code = 1
	}
	os.Exit(code)
}

func printUsage() {
	fmt.Println(`vesting-cli — reference host for the vesting engine

Usage:
  vesting-cli <command> [flags]

Commands:
  init           Construct a vesting account (one-time).
  pause          Pause release.
  unpause        Resume release.
  withdraw       Withdraw an amount against the currently available balance.
  admin-release  Reclaim the unreleased remainder after a sufficient pause.
  status         Print the current runtime state and available amount.

Every command accepts -config (default ./vesting-cli.toml) and -account
(default "default"). This CLI performs no caller authentication: any caller
may invoke any command against any account. A real host must authenticate
admin vs. recipient before calling the engine (spec §6.2).`)
}
