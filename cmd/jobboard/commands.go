// cmd/jobboard/commands.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"jobboard/internal/applied"
	"jobboard/internal/client"
	apperrors "jobboard/internal/common/errors"
	"jobboard/internal/common/logger"
	"jobboard/internal/listing"
	"jobboard/internal/models"
)

// errShown marks a failure that was already printed as a status line.
var errShown = errors.New("reported")

type app struct {
	api     *client.Client
	applied *applied.Store
	logger  logger.Logger
	out     io.Writer
}

func newRootCmd(build func(verbose bool) (*app, error)) *cobra.Command {
	var (
		a       *app
		verbose bool
	)

	root := &cobra.Command{
		Use:   "jobboard",
		Short: "Browse job postings and track the ones you applied to",
		Long: `jobboard talks to the job board API.

Examples:
  jobboard jobs --location pune --skills java,sql
  jobboard apply 6f1c2a8e-2d7b-4c56-9a7e-0b8f3f6d1e21
  jobboard applied
  jobboard show 6f1c2a8e-2d7b-4c56-9a7e-0b8f3f6d1e21`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, err = build(verbose)
			return err
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	var location, skills string
	jobsCmd := &cobra.Command{
		Use:   "jobs",
		Short: "List jobs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.listJobs(cmd.Context(), location, skills)
		},
	}
	jobsCmd.Flags().StringVar(&location, "location", "", "Case-insensitive part of the location (e.g. pune)")
	jobsCmd.Flags().StringVar(&skills, "skills", "", "Comma separated skills the job must all require")

	applyCmd := &cobra.Command{
		Use:   "apply <job-id>",
		Short: "Mark a listed job as applied",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.apply(cmd.Context(), args[0])
		},
	}

	appliedCmd := &cobra.Command{
		Use:   "applied",
		Short: "List the currently listed jobs you applied to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.listApplied(cmd.Context())
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <job-id>",
		Short: "Show one job in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.show(cmd.Context(), args[0])
		},
	}

	root.AddCommand(jobsCmd, applyCmd, appliedCmd, showCmd)
	return root
}

func (a *app) listJobs(ctx context.Context, location, skills string) error {
	page := listing.NewPage(client.NewFetcher(a.api), a.applied, a.logger)
	err := page.Load(ctx, location, skills)
	a.printStatus(page.Status())
	if err != nil {
		return errShown
	}
	return a.printItems(page.Items())
}

func (a *app) apply(ctx context.Context, rawID string) error {
	id, err := models.ParseJobID(rawID)
	if err != nil {
		return errors.New("invalid job ID format")
	}

	page := listing.NewPage(client.NewFetcher(a.api), a.applied, a.logger)
	if err := page.Load(ctx, "", ""); err != nil {
		a.printStatus(page.Status())
		return errShown
	}

	var item *listing.DisplayItem
	items := page.Items()
	for i := range items {
		if items[i].Job.ID == id {
			item = &items[i]
			break
		}
	}
	switch {
	case item == nil:
		return fmt.Errorf("job %s is not currently listed", id)
	case item.Applied:
		pterm.Info.WithWriter(a.out).Printfln("Already applied: %s at %s", item.Job.Title, item.Job.Company)
		return nil
	}

	page.Apply(id.String())
	pterm.Success.WithWriter(a.out).Printfln("Applied: %s at %s", item.Job.Title, item.Job.Company)
	return nil
}

func (a *app) listApplied(ctx context.Context) error {
	page := listing.NewAppliedPage(a.api, a.applied, a.logger)
	err := page.Load(ctx)
	a.printStatus(page.Status())
	if err != nil {
		return errShown
	}
	return a.printItems(page.Items())
}

func (a *app) show(ctx context.Context, rawID string) error {
	if _, err := models.ParseJobID(rawID); err != nil {
		return errors.New("invalid job ID format")
	}

	job, err := a.api.GetJob(ctx, rawID)
	if err != nil {
		a.printStatus(listing.Status{Message: "Could not load job: " + message(err), Kind: listing.StatusDanger})
		return errShown
	}

	items := listing.Render([]models.Job{*job}, a.applied.AppliedIDs(), time.Now(), a.logger)
	if len(items) == 0 {
		return fmt.Errorf("job %s is incomplete", rawID)
	}
	it := items[0]

	pterm.DefaultSection.WithWriter(a.out).Println(it.Job.Title)
	rows := pterm.TableData{
		{"Company", it.Job.Company},
		{"Location", it.Job.Location},
		{"Type", it.EmploymentType},
		{"Skills", it.Skills},
		{"Posted", it.Posted},
		{"Status", it.ButtonLabel()},
	}
	if err := pterm.DefaultTable.WithWriter(a.out).WithData(rows).Render(); err != nil {
		return err
	}
	description := it.Job.Description
	if description == "" {
		description = it.Summary
	}
	pterm.Fprintln(a.out)
	pterm.Fprintln(a.out, description)
	return nil
}

func (a *app) printStatus(s listing.Status) {
	if !s.Visible() {
		return
	}
	printer := pterm.Info
	if s.Kind == listing.StatusDanger {
		printer = pterm.Error
	}
	printer.WithWriter(a.out).Println(s.Message)
}

func (a *app) printItems(items []listing.DisplayItem) error {
	if len(items) == 0 {
		return nil
	}
	data := pterm.TableData{{"ID", "Title", "Company", "Location", "Type", "Skills", "Posted", ""}}
	for _, it := range items {
		data = append(data, []string{
			it.Job.ID.String(),
			it.Job.Title,
			it.Job.Company,
			it.Job.Location,
			it.EmploymentType,
			it.Skills,
			it.Posted,
			it.ButtonLabel(),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithWriter(a.out).WithData(data).Render()
}

func message(err error) string {
	if se, ok := apperrors.As(err); ok {
		return se.Message
	}
	return err.Error()
}
