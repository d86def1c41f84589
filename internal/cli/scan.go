package cli

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/cardvault-cli/internal/errors"
	"github.com/cardvault-cli/internal/scan"
	"github.com/cardvault-cli/internal/types"
	"github.com/spf13/cobra"
)

// cardEdit is one --edit flag: id:field=value
type cardEdit struct {
	id     string
	update scan.CardUpdate
}

// parseEdit accepts name, set, set-name, condition and quantity fields
func parseEdit(s string) (cardEdit, error) {
	id, assignment, ok := strings.Cut(s, ":")
	if !ok || id == "" {
		return cardEdit{}, apperrors.NewInvalidParameterError("edit", fmt.Sprintf("%q is not id:field=value", s))
	}
	field, value, ok := strings.Cut(assignment, "=")
	if !ok {
		return cardEdit{}, apperrors.NewInvalidParameterError("edit", fmt.Sprintf("%q is not id:field=value", s))
	}

	edit := cardEdit{id: id}
	switch strings.ToLower(strings.TrimSpace(field)) {
	case "name":
		edit.update.Name = &value
	case "set", "set-code":
		code := strings.ToUpper(strings.TrimSpace(value))
		edit.update.SetCode = &code
	case "set-name":
		edit.update.SetName = &value
	case "condition":
		c, err := types.ParseCondition(value)
		if err != nil {
			return cardEdit{}, apperrors.NewInvalidParameterError("condition", err.Error())
		}
		edit.update.Condition = &c
	case "quantity", "qty":
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return cardEdit{}, apperrors.NewInvalidParameterError("quantity", "must be a whole number")
		}
		edit.update.Quantity = &n
	default:
		return cardEdit{}, apperrors.NewInvalidParameterError("edit", fmt.Sprintf("unknown field %q", field))
	}
	return edit, nil
}

func newScanCmd(a *app) *cobra.Command {
	var scanType string
	var review bool
	var edits []string
	var confirmAll bool
	var save bool

	cmd := &cobra.Command{
		Use:   "scan <image>",
		Short: "Upload a card photo and collect the recognized cards",
		Long: `Upload a photo of one or more cards. The command waits for recognition to
finish and prints the detected cards.

By default detected cards are confirmed as Near Mint and saved to your
inventory by the server. With --review they are left unconfirmed: edit and
confirm them with --edit or --confirm-all, then persist them with --save.`,
		Example: `  # Single card, saved automatically
  cardvault scan charizard.jpg

  # Binder page, reviewed before saving
  cardvault scan --type multi --review binder.heic \
    --edit det-1:condition=lp --edit det-2:quantity=2 --confirm-all --save`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := types.ParseScanType(scanType)
			if err != nil {
				return apperrors.NewInvalidParameterError("type", err.Error())
			}
			parsed := make([]cardEdit, 0, len(edits))
			for _, e := range edits {
				edit, err := parseEdit(e)
				if err != nil {
					return err
				}
				parsed = append(parsed, edit)
			}
			manual := review || !a.cfg.Scan.AutoConfirm
			if !manual && (len(parsed) > 0 || confirmAll || save) {
				return apperrors.NewValidationError("--edit, --confirm-all and --save need --review")
			}

			file, err := scan.FileFromPath(args[0])
			if err != nil {
				return apperrors.NewValidationError(err.Error())
			}

			ctrl := scan.NewController(a.client, scan.Config{
				AutoConfirm:  !manual,
				PollInterval: a.cfg.Scan.PollInterval,
				MaxAttempts:  a.cfg.Scan.MaxAttempts,
				MaxFileSize:  a.cfg.Scan.MaxFileSize,
				Logger:       a.logger,
			})
			defer ctrl.Close()

			out := cmd.OutOrStdout()
			ctx := cmd.Context()

			if err := ctrl.SetScanType(st); err != nil {
				return err
			}
			if err := ctrl.SelectFile(file); err != nil {
				return err
			}
			if p := ctrl.Snapshot().Preview; p != nil {
				fmt.Fprintf(out, "Selected %s (%s)\n", file.Name, p)
			} else {
				fmt.Fprintf(out, "Selected %s\n", file.Name)
			}

			if err := ctrl.Submit(ctx); err != nil {
				return err
			}
			fmt.Fprintf(out, "Uploaded scan %s, waiting for recognition...\n", ctrl.Snapshot().Session.ScanID)

			snap, err := ctrl.Wait(ctx)
			if err != nil {
				return err
			}
			if snap.State == scan.StateError {
				return snap.Err
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, snap.Summary())
			if len(snap.Session.DetectedCards) == 0 {
				fmt.Fprintln(out, "We couldn't detect any cards in this image. Please try again with a clearer photo.")
				return nil
			}
			if err := renderDetections(out, snap.Session.DetectedCards); err != nil {
				return err
			}
			if !manual {
				return nil
			}

			for _, edit := range parsed {
				if err := ctrl.UpdateCard(edit.id, edit.update); err != nil {
					return err
				}
			}
			if confirmAll {
				if err := ctrl.ConfirmAll(); err != nil {
					return err
				}
			}
			if len(parsed) > 0 || confirmAll {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "After review")
				if err := renderDetections(out, ctrl.Snapshot().Session.DetectedCards); err != nil {
					return err
				}
			}

			if !save {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Nothing saved. Re-run with --save to add confirmed cards to your inventory.")
				return nil
			}
			result, err := ctrl.Save(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, ctrl.Snapshot().SaveMessage())
			if result.CardLimit > 0 {
				fmt.Fprintf(out, "Inventory: %d of %d cards\n", result.CurrentCount, result.CardLimit)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&scanType, "type", string(types.ScanTypeSingle), "Scan type: single or multi")
	cmd.Flags().BoolVar(&review, "review", false, "Review detections before saving instead of auto-confirming")
	cmd.Flags().StringArrayVar(&edits, "edit", nil, "Edit a detection: id:field=value (name, set, set-name, condition, quantity)")
	cmd.Flags().BoolVar(&confirmAll, "confirm-all", false, "Confirm every detection (empty conditions become Near Mint)")
	cmd.Flags().BoolVar(&save, "save", false, "Save confirmed detections to the inventory")

	return cmd
}
