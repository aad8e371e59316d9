// Copyright (c) Microsoft. All rights reserved.

// Command auntie runs Rishta Wali Auntie, a matchmaking form backed by a
// chat-completion model and WhatsApp notifications through Twilio.
//
// Serve the web form:
//
//	export GEMINI_API_KEY=...
//	export TWILIO_ACCOUNT_SID=AC...
//	export TWILIO_AUTH_TOKEN=...
//	export TWILIO_WHATSAPP_NUMBER=+14155238886
//	export ADMIN_WHATSAPP_NUMBER=+923001234567
//	auntie serve
//
// Submit one profile from the terminal:
//
//	auntie submit --name "Ali Khan" --age 25 --gender Male --phone +923001234567
//
// Values may also be placed in a .env file.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	envFile  string
	logLevel string
)

func main() {
	root := &cobra.Command{
		Use:          "auntie",
		Short:        "Rishta Wali Auntie: AI matchmaking with WhatsApp confirmations",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", "", "path to a .env file (default: .env)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")

	root.AddCommand(serveCmd())
	root.AddCommand(submitCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
