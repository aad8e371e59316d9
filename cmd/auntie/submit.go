// Copyright (c) Microsoft. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rishtawaliauntie/auntie/workflow"
)

func submitCmd() *cobra.Command {
	var sub workflow.Submission
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit one matchmaking profile from the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out, err := a.workflow.Run(ctx, sub, &terminalDisplay{w: cmd.OutOrStdout()})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  you:   %s\n  admin: %s\n", out.UserResult, out.AdminResult)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&sub.Name, "name", "", "full name")
	f.IntVar(&sub.Age, "age", workflow.DefaultAge, "age")
	f.StringVar(&sub.Gender, "gender", workflow.Genders[0], "gender: "+strings.Join(workflow.Genders, ", "))
	f.StringVar(&sub.Profession, "profession", "", "profession")
	f.StringVar(&sub.Phone, "phone", "", "WhatsApp number, e.g. +92xxxxxxxxxx")
	f.StringVar(&sub.About, "about", "", "what kind of partner you are looking for")
	return cmd
}

// terminalDisplay prints only the new suffix of each response update.
type terminalDisplay struct {
	w         io.Writer
	streaming bool
	printed   int
}

func (d *terminalDisplay) Status(level workflow.StatusLevel, text string) {
	if d.streaming {
		fmt.Fprintln(d.w)
		d.streaming = false
		d.printed = 0
	}
	fmt.Fprintln(d.w, text)
}

func (d *terminalDisplay) Response(full string) {
	if !d.streaming {
		fmt.Fprint(d.w, workflow.ResponsePrefix)
		d.streaming = true
	}
	if len(full) > d.printed {
		fmt.Fprint(d.w, full[d.printed:])
	}
	d.printed = len(full)
}
