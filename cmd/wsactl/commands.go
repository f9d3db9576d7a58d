// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/worldstaffingawards/wsa2026/approval"
	"github.com/worldstaffingawards/wsa2026/bulkupload"
	"github.com/worldstaffingawards/wsa2026/csvimport"
	"github.com/worldstaffingawards/wsa2026/models"
	"github.com/worldstaffingawards/wsa2026/outbox"
)

func (a *app) importCmd() *cobra.Command {
	var typ, state, uploader string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Upload a nominee CSV as a new batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			info, err := f.Stat()
			if err != nil {
				return err
			}

			svc := bulkupload.New(a.store, a.cfg.DefaultUploader)
			resp, err := svc.Upload(cmd.Context(), bulkupload.Upload{
				Filename:   filepath.Base(args[0]),
				Type:       typ,
				State:      state,
				UploadedBy: uploader,
				Body:       f,
			})
			if err != nil {
				return err
			}

			p := newPrinter(cmd)
			if ok, err := p.emit(resp); ok || err != nil {
				return err
			}

			s := resp.Summary
			p.title("Batch %s (%s, %s)", resp.BatchID, filepath.Base(args[0]), humanize.IBytes(uint64(info.Size())))
			p.table(
				[]string{"Rows", "Created", "Validation errors", "Failed", "Duplicates"},
				[][]string{{count(s.TotalRows), count(s.SuccessfulUploads), count(s.ValidationErrors), count(s.FailedUploads), count(s.DuplicatesFound)}},
			)
			for _, step := range resp.NextSteps {
				fmt.Fprintln(p.out, "  -", step)
			}
			if s.ValidationErrors+s.FailedUploads > 0 {
				report, err := svc.Report(cmd.Context(), resp.BatchID)
				if err != nil {
					return err
				}
				printErrors(p, report.Errors)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&typ, "type", "", "Nominee type (person or company); detected from headers when empty")
	cmd.Flags().StringVar(&state, "state", models.StateDraft, "Initial state (draft or submitted)")
	cmd.Flags().StringVar(&uploader, "uploader", "", "Uploader recorded on the batch")
	return cmd
}

func printErrors(p *printer, errs []models.UploadError) {
	if len(errs) == 0 {
		return
	}
	p.title("Row errors")
	rows := make([][]string, 0, len(errs))
	for _, e := range errs {
		rows = append(rows, []string{
			strconv.Itoa(e.RowNumber), e.Field, e.ErrorType, truncate(e.Message, 60), orDash(truncate(e.SuggestedFix, 50)),
		})
	}
	p.table([]string{"Row", "Field", "Type", "Message", "Suggested fix"}, rows)
}

func (a *app) batchesCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "batches",
		Short: "List recent upload batches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			batches, err := a.store.ListBatches(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if batches == nil {
				batches = []models.UploadBatch{}
			}

			p := newPrinter(cmd)
			if ok, err := p.emit(batches); ok || err != nil {
				return err
			}

			rows := make([][]string, 0, len(batches))
			for _, b := range batches {
				rows = append(rows, []string{
					b.ID, b.Filename, b.NomineeType, count(b.TotalRows), count(b.SuccessfulRows),
					count(b.FailedRows), b.Status, b.UploadedBy, ago(b.CreatedAt),
				})
			}
			p.table([]string{"ID", "File", "Type", "Rows", "Created", "Failed", "Status", "Uploaded by", "When"}, rows)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of batches to show")
	return cmd
}

func (a *app) batchCmd() *cobra.Command {
	var asCSV bool

	cmd := &cobra.Command{
		Use:   "batch ID",
		Short: "Show a batch and its row errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := bulkupload.New(a.store, a.cfg.DefaultUploader)
			if asCSV {
				return svc.WriteErrorReport(cmd.Context(), cmd.OutOrStdout(), args[0])
			}

			report, err := svc.Report(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			p := newPrinter(cmd)
			if ok, err := p.emit(report); ok || err != nil {
				return err
			}

			b := report.Batch
			p.title("Batch %s", b.ID)
			p.table([]string{"File", "Type", "Status", "Rows", "Created", "Failed", "Drafts", "Uploaded by", "When"},
				[][]string{{b.Filename, b.NomineeType, b.Status, count(b.TotalRows), count(b.SuccessfulRows),
					count(b.FailedRows), count(b.DraftRows), b.UploadedBy, ago(b.CreatedAt)}})
			printErrors(p, report.Errors)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asCSV, "csv", false, "Write the error report as CSV")
	return cmd
}

func (a *app) approveCmd() *cobra.Command {
	var batch bool
	var by, notes string

	cmd := &cobra.Command{
		Use:   "approve ID",
		Short: "Approve a nomination, or every pending nomination of a batch with --batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := approval.New(a.store, a.cfg.PublicBaseURL)
			d := approval.Decision{DecidedBy: a.decider(by), AdminNotes: notes}
			p := newPrinter(cmd)

			if batch {
				resp, err := svc.ApproveBatch(cmd.Context(), args[0], d)
				if err != nil {
					return err
				}
				if ok, err := p.emit(resp); ok || err != nil {
					return err
				}
				p.success("Approved %s nominations", count(resp.Approved))
				for _, id := range resp.Failed {
					p.warn("Could not approve %s", id)
				}
				return nil
			}

			detail, err := svc.Approve(cmd.Context(), args[0], d)
			if err != nil {
				return err
			}
			if ok, err := p.emit(detail); ok || err != nil {
				return err
			}
			p.success("Approved %s: %s", detail.Nominee.DisplayName(), deref(detail.LiveURL))
			return nil
		},
	}
	cmd.Flags().BoolVar(&batch, "batch", false, "Treat ID as an upload batch")
	cmd.Flags().StringVar(&by, "by", "", "Approver recorded on the nomination")
	cmd.Flags().StringVar(&notes, "notes", "", "Admin notes")
	return cmd
}

func (a *app) rejectCmd() *cobra.Command {
	var by, notes, reason string

	cmd := &cobra.Command{
		Use:   "reject ID",
		Short: "Reject a nomination",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := approval.New(a.store, a.cfg.PublicBaseURL)
			detail, err := svc.Reject(cmd.Context(), args[0], approval.Decision{
				DecidedBy:       a.decider(by),
				AdminNotes:      notes,
				RejectionReason: reason,
			})
			if err != nil {
				return err
			}

			p := newPrinter(cmd)
			if ok, err := p.emit(detail); ok || err != nil {
				return err
			}
			p.success("Rejected %s", detail.Nominee.DisplayName())
			return nil
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "Rejection reason (required)")
	cmd.Flags().StringVar(&by, "by", "", "Reviewer recorded on the nomination")
	cmd.Flags().StringVar(&notes, "notes", "", "Admin notes")
	return cmd
}

func (a *app) decider(by string) string {
	if by != "" {
		return by
	}
	return a.cfg.DefaultUploader
}

func (a *app) syncCmd() *cobra.Command {
	var target string
	var limit int

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Deliver pending outbox rows to HubSpot and Loops",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clients := outbox.Clients(a.cfg.HubSpotBaseURL, a.cfg.HubSpotToken, a.cfg.LoopsBaseURL, a.cfg.LoopsAPIKey)
			runner := outbox.NewRunner(a.store, clients)

			targets := []string{target}
			if target == "" {
				targets = targets[:0]
				for _, t := range outbox.Targets {
					if _, ok := clients[t]; ok {
						targets = append(targets, t)
					}
				}
				if len(targets) == 0 {
					return outbox.ErrNotConfigured
				}
			}

			results := make([]models.SyncRunResponse, 0, len(targets))
			for _, t := range targets {
				resp, err := runner.RunOnce(cmd.Context(), t, limit)
				if err != nil {
					return fmt.Errorf("%s: %w", t, err)
				}
				results = append(results, resp)
			}

			p := newPrinter(cmd)
			if ok, err := p.emit(results); ok || err != nil {
				return err
			}
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, []string{r.Target, count(r.Claimed), count(r.Sent), count(r.Failed)})
			}
			p.table([]string{"Target", "Claimed", "Sent", "Failed"}, rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&target, "target", "", "hubspot or loops; every configured target when empty")
	cmd.Flags().IntVar(&limit, "limit", outbox.DefaultBatchSize, "Rows to deliver per target")
	return cmd
}

func (a *app) templateCmd() *cobra.Command {
	var typ string

	cmd := &cobra.Command{
		Use:         "template",
		Short:       "Print a bulk upload CSV template",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipDB: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if typ != models.NomineePerson && typ != models.NomineeCompany {
				return fmt.Errorf("unknown template type %q", typ)
			}
			return csvimport.WriteTemplate(cmd.OutOrStdout(), typ)
		},
	}
	cmd.Flags().StringVar(&typ, "type", models.NomineePerson, "Template type (person or company)")
	return cmd
}

func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show nomination, vote and sync totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := a.store.Stats(cmd.Context())
			if err != nil {
				return err
			}

			p := newPrinter(cmd)
			if ok, err := p.emit(stats); ok || err != nil {
				return err
			}

			p.title("Nominations")
			p.table([]string{"State", "Count"}, countRows(stats.ByState))
			p.table([]string{"Type", "Count"}, countRows(stats.ByType))

			p.title("Votes")
			p.table([]string{"Voters", "Public total", "Pending sync"},
				[][]string{{count(stats.Voters), count(stats.TotalVotes), count(stats.PendingSync)}})

			p.title("Categories")
			rows := make([][]string, 0, len(stats.Categories))
			for _, c := range stats.Categories {
				rows = append(rows, []string{c.CategoryID, count(c.Nominations), count(c.Approved), count(c.TotalVotes)})
			}
			p.table([]string{"Category", "Nominations", "Approved", "Votes"}, rows)
			return nil
		},
	}
}

func countRows(m map[string]int) [][]string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, count(m[k])})
	}
	return rows
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
