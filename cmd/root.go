// Package cmd implements the command-line front end: one positional
// otpauth:// key URI in, the current passcode on stdout.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bradleycha/cliauth-sub000/account"
	"github.com/bradleycha/cliauth-sub000/keyuri"
	"github.com/bradleycha/cliauth-sub000/logging"
	"github.com/bradleycha/cliauth-sub000/otp"
	"github.com/bradleycha/cliauth-sub000/stream"
)

const version = "0.1.0"

var logger *slog.Logger

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "cliauth URI",
	Short:   "One-time passcodes from otpauth:// key URIs",
	Version: version,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("no key URI was given as an argument")
		}
		if len(args) > 1 {
			logger.Warn("more than 1 argument was given, any excess arguments will be ignored")
		}

		index, _ := cmd.Flags().GetInt64("index")

		timeCurrent := uint64(time.Now().Unix())
		if cmd.Flags().Changed("time") {
			at, _ := cmd.Flags().GetInt64("time")
			if at < 0 {
				return fmt.Errorf("evaluation time must not precede the Unix epoch")
			}
			timeCurrent = uint64(at)
		}

		return generate(cmd.OutOrStdout(), args[0], index, timeCurrent)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func generate(stdout io.Writer, uri string, index int64, timeCurrent uint64) error {
	acct, err := keyuri.Parse(uri)
	if err != nil {
		return fmt.Errorf("parsing key URI: %w", err)
	}

	code, err := acct.GeneratePasscode(account.TOTPParameters{
		TimeInitial: 0,
		TimeCurrent: timeCurrent,
	}, index)
	if err != nil {
		return fmt.Errorf("generating passcode for %q: %w", acct.Name(), err)
	}

	var buf [16]byte
	out := stream.NewBufferedWriter(stdout, buf[:])
	if _, err := out.Write([]byte(otp.Format(code, acct.Digits))); err != nil {
		return err
	}
	if _, err := out.Write([]byte("\n")); err != nil {
		return err
	}
	return out.Flush()
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func init() {
	logger = logging.New(os.Stderr, &logging.Options{
		Color: term.IsTerminal(int(os.Stderr.Fd())),
	})

	rootCmd.Flags().Int64P("index", "i", 0, "Generate the passcode at a signed offset from the current counter")
	rootCmd.Flags().Int64P("time", "t", 0, "Evaluate TOTP passcodes at a fixed Unix timestamp instead of now")
}
