package main

import (
	"flag"
	"fmt"
	"io"
	"strconv"
)

func commonFlags(fs *flag.FlagSet) (configPath, account *string) {
	configPath = fs.String("config", "./vesting-cli.toml", "path to the host TOML config")
	account = fs.String("account", "default", "vesting account name")
	return
}

func runInit(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configPath, account := commonFlags(fs)
	cliffTimestamp := fs.Int64("cliff-timestamp", 0, "unix instant at which the cliff unlocks")
	cliffAmount := fs.String("cliff-amount", "0", "amount unlocked at the cliff")
	dripDuration := fs.Int64("drip-duration", 0, "seconds between drip steps (0 disables drips)")
	dripAmount := fs.String("drip-amount", "0", "amount unlocked per completed drip period")
	totalAmount := fs.String("total-amount", "0", "upper bound on cumulative releases")
	adminReleaseDuration := fs.Int64("admin-release-duration", 0, "minimum continuous pause before admin_release is permitted")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	cliffAmt, err := parseAmount(*cliffAmount)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	dripAmt, err := parseAmount(*dripAmount)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	totalAmt, err := parseAmount(*totalAmount)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	h, err := openHost(*configPath, *account)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer h.close()

	opErr := h.eng.Init(*cliffTimestamp, cliffAmt, *dripDuration, dripAmt, totalAmt, *adminReleaseDuration)
	if err := h.commit(*account, "init", opErr); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	fmt.Fprintf(stdout, "initialized account %q\n", *account)
	return 0
}

func runPause(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("pause", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configPath, account := commonFlags(fs)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	h, err := openHost(*configPath, *account)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer h.close()

	opErr := h.eng.Pause()
	if err := h.commit(*account, "pause", opErr); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	fmt.Fprintf(stdout, "paused account %q\n", *account)
	return 0
}

func runUnpause(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("unpause", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configPath, account := commonFlags(fs)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	h, err := openHost(*configPath, *account)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer h.close()

	opErr := h.eng.Unpause()
	if err := h.commit(*account, "unpause", opErr); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	fmt.Fprintf(stdout, "unpaused account %q\n", *account)
	return 0
}

func runWithdraw(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("withdraw", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configPath, account := commonFlags(fs)
	amountStr := fs.String("amount", "", "amount to withdraw")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if *amountStr == "" {
		fmt.Fprintln(stderr, "Error: -amount is required")
		return 1
	}
	amount, err := parseAmount(*amountStr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	h, err := openHost(*configPath, *account)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer h.close()

	opErr := h.eng.Withdraw(amount)
	if err := h.commit(*account, "withdraw", opErr); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	fmt.Fprintf(stdout, "withdrew %s from account %q\n", amount.String(), *account)
	return 0
}

func runAdminRelease(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("admin-release", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configPath, account := commonFlags(fs)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	h, err := openHost(*configPath, *account)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer h.close()

	amount, opErr := h.eng.AdminRelease()
	if err := h.commit(*account, "admin-release", opErr); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	fmt.Fprintf(stdout, "admin released %s from account %q\n", amount.String(), *account)
	return 0
}

func runStatus(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configPath, account := commonFlags(fs)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	h, err := openHost(*configPath, *account)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer h.close()

	available, err := h.eng.AvailableAmount()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	paused, err := h.eng.IsPaused()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	pausedDuration, err := h.eng.TotalPausedDuration()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	fmt.Fprintf(stdout, "account:               %s\n", *account)
	fmt.Fprintf(stdout, "is_paused:             %s\n", strconv.FormatBool(paused))
	fmt.Fprintf(stdout, "total_paused_duration: %d\n", pausedDuration)
	fmt.Fprintf(stdout, "available_amount:      %s\n", available.String())
	h.recordGauges(*account)
	return 0
}
